// Package recurrence implements the recurrence rules that drive scheduled
// transactions.
//
// A Rule describes a daily, weekly, monthly or yearly cadence starting at a
// start date and optionally ending at an end date. Individual occurrences can
// be excluded with exceptions. Removing the occurrence at the start date moves
// the start to the next occurrence, which is how a schedule consumes its
// dates one by one.
//
// Example usage:
//
//	rule := recurrence.NewMonthly(calendar.MustParse("2024-01-01"), 1)
//	rule.RemoveOccurrence(calendar.MustParse("2024-01-01")) // true
//	rule.StartDate()                                       // 2024-02-01
package recurrence

import (
	"fmt"
	"time"

	"golang.org/x/exp/slices"

	"github.com/culso/Eqonomize/calendar"
	"github.com/culso/Eqonomize/tree"
)

// Type identifies the cadence of a rule.
type Type int

const (
	TypeDaily Type = iota
	TypeWeekly
	TypeMonthly
	TypeYearly
)

// String returns the persisted tag of the type.
func (t Type) String() string {
	switch t {
	case TypeDaily:
		return "daily"
	case TypeWeekly:
		return "weekly"
	case TypeMonthly:
		return "monthly"
	case TypeYearly:
		return "yearly"
	default:
		return "unknown"
	}
}

// ParseType maps a persisted tag back to its type.
func ParseType(tag string) (Type, bool) {
	switch tag {
	case "daily":
		return TypeDaily, true
	case "weekly":
		return TypeWeekly, true
	case "monthly":
		return TypeMonthly, true
	case "yearly":
		return TypeYearly, true
	default:
		return 0, false
	}
}

// Recurrence is the behaviour scheduled transactions rely on. Rule is the
// only implementation in this package.
type Recurrence interface {
	Type() Type
	Interval() int
	StartDate() calendar.Date
	SetStartDate(d calendar.Date)
	FirstOccurrence() calendar.Date
	LastOccurrence() calendar.Date
	NextOccurrence(d calendar.Date) calendar.Date
	Occurrences(from, to calendar.Date) []calendar.Date
	RemoveOccurrence(d calendar.Date) bool
	AddException(d calendar.Date)
	Copy() Recurrence
	Save(n *tree.Node)
}

var _ Recurrence = (*Rule)(nil)

// maxScan bounds the number of steps taken when walking occurrences.
const maxScan = 100000

// Rule is a recurrence with a fixed cadence.
type Rule struct {
	typ      Type
	interval int
	start    calendar.Date
	end      calendar.Date // zero means unbounded

	// Anchor day and month keep monthly and yearly rules on their original
	// day after passing through a shorter month.
	day   int
	month time.Month

	exceptions []calendar.Date // sorted, all >= start
}

func newRule(typ Type, start calendar.Date, interval int) *Rule {
	if interval < 1 {
		interval = 1
	}
	return &Rule{
		typ:      typ,
		interval: interval,
		start:    start,
		day:      start.Day(),
		month:    start.Month(),
	}
}

// NewDaily returns a rule occurring every interval days from start.
func NewDaily(start calendar.Date, interval int) *Rule {
	return newRule(TypeDaily, start, interval)
}

// NewWeekly returns a rule occurring every interval weeks from start.
func NewWeekly(start calendar.Date, interval int) *Rule {
	return newRule(TypeWeekly, start, interval)
}

// NewMonthly returns a rule occurring every interval months on the start
// date's day of month.
func NewMonthly(start calendar.Date, interval int) *Rule {
	return newRule(TypeMonthly, start, interval)
}

// NewYearly returns a rule occurring every interval years on the start
// date's month and day.
func NewYearly(start calendar.Date, interval int) *Rule {
	return newRule(TypeYearly, start, interval)
}

// Type returns the cadence type.
func (r *Rule) Type() Type { return r.typ }

// Interval returns the number of periods between occurrences.
func (r *Rule) Interval() int { return r.interval }

// StartDate returns the current start date.
func (r *Rule) StartDate() calendar.Date { return r.start }

// EndDate returns the end date, or the zero date for an unbounded rule.
func (r *Rule) EndDate() calendar.Date { return r.end }

// SetEndDate bounds the rule. The zero date removes the bound.
func (r *Rule) SetEndDate(d calendar.Date) { r.end = d }

// Exceptions returns the excluded dates in ascending order.
func (r *Rule) Exceptions() []calendar.Date {
	out := make([]calendar.Date, len(r.exceptions))
	copy(out, r.exceptions)
	return out
}

// SetStartDate moves the rule to a new start date. Monthly and yearly rules
// take their anchor from the new date. Exceptions before it are dropped, and
// an exception on the new start is lifted so that the start stays an
// occurrence.
func (r *Rule) SetStartDate(d calendar.Date) {
	r.start = d
	r.day = d.Day()
	r.month = d.Month()
	r.pruneExceptions()
	if i, found := slices.BinarySearchFunc(r.exceptions, d, calendar.Date.Compare); found {
		r.exceptions = slices.Delete(r.exceptions, i, i+1)
	}
}

// step returns the date one cadence period after d.
func (r *Rule) step(d calendar.Date) calendar.Date {
	switch r.typ {
	case TypeDaily:
		return d.AddDays(r.interval)
	case TypeWeekly:
		return d.AddDays(7 * r.interval)
	case TypeMonthly:
		return d.AddMonths(r.interval, r.day)
	case TypeYearly:
		return d.AddYears(r.interval, r.month, r.day)
	default:
		panic(fmt.Sprintf("unhandled recurrence type %d", r.typ))
	}
}

func (r *Rule) inRange(d calendar.Date) bool {
	if !r.start.IsValid() || d.Before(r.start) {
		return false
	}
	return !r.end.IsValid() || !d.After(r.end)
}

func (r *Rule) isException(d calendar.Date) bool {
	_, found := slices.BinarySearchFunc(r.exceptions, d, calendar.Date.Compare)
	return found
}

// onCadence reports whether d falls on the rule's cadence, ignoring
// exceptions.
func (r *Rule) onCadence(d calendar.Date) bool {
	if !r.inRange(d) {
		return false
	}
	for cur, i := r.start, 0; !cur.After(d) && i < maxScan; cur, i = r.step(cur), i+1 {
		if cur.Equal(d) {
			return true
		}
	}
	return false
}

// IsOccurrence reports whether d is a pending occurrence of the rule.
func (r *Rule) IsOccurrence(d calendar.Date) bool {
	return r.onCadence(d) && !r.isException(d)
}

// NextOccurrence returns the first pending occurrence strictly after d, or
// the zero date if there is none.
func (r *Rule) NextOccurrence(d calendar.Date) calendar.Date {
	if !r.start.IsValid() {
		return calendar.Date{}
	}
	for cur, i := r.start, 0; i < maxScan; cur, i = r.step(cur), i+1 {
		if r.end.IsValid() && cur.After(r.end) {
			break
		}
		if cur.After(d) && !r.isException(cur) {
			return cur
		}
	}
	return calendar.Date{}
}

// FirstOccurrence returns the first pending occurrence, or the zero date if
// the rule has none left.
func (r *Rule) FirstOccurrence() calendar.Date {
	if !r.start.IsValid() {
		return calendar.Date{}
	}
	return r.NextOccurrence(r.start.AddDays(-1))
}

// LastOccurrence returns the last pending occurrence of a bounded rule. It
// returns the zero date for an unbounded rule or one with no occurrences left.
func (r *Rule) LastOccurrence() calendar.Date {
	if !r.end.IsValid() || !r.start.IsValid() {
		return calendar.Date{}
	}
	var last calendar.Date
	for cur, i := r.start, 0; !cur.After(r.end) && i < maxScan; cur, i = r.step(cur), i+1 {
		if !r.isException(cur) {
			last = cur
		}
	}
	return last
}

// Occurrences returns the pending occurrences in [from, to].
func (r *Rule) Occurrences(from, to calendar.Date) []calendar.Date {
	var out []calendar.Date
	if !r.start.IsValid() {
		return out
	}
	for cur, i := r.start, 0; !cur.After(to) && i < maxScan; cur, i = r.step(cur), i+1 {
		if r.end.IsValid() && cur.After(r.end) {
			break
		}
		if !cur.Before(from) && !r.isException(cur) {
			out = append(out, cur)
		}
	}
	return out
}

// RemoveOccurrence consumes the occurrence at d. It returns false when d is
// not a pending occurrence. Removing the start occurrence advances the start
// date; any other occurrence becomes an exception.
func (r *Rule) RemoveOccurrence(d calendar.Date) bool {
	if !r.IsOccurrence(d) {
		return false
	}
	if d.Equal(r.start) {
		r.advance()
	} else {
		r.insertException(d)
	}
	return true
}

// AddException excludes d from the rule. An exception at the start date
// advances the start to the next occurrence instead of being stored.
func (r *Rule) AddException(d calendar.Date) {
	if d.Equal(r.start) {
		r.advance()
		return
	}
	if !r.inRange(d) || r.isException(d) {
		return
	}
	r.insertException(d)
}

// advance moves the start past the current start date to the next pending
// occurrence. A rule without further occurrences ends up with its end date
// before its start date and yields nothing.
func (r *Rule) advance() {
	next := r.NextOccurrence(r.start)
	if !next.IsValid() {
		if !r.end.IsValid() || !r.end.Before(r.start) {
			r.end = r.start
		}
		r.start = r.step(r.start)
		r.pruneExceptions()
		return
	}
	r.start = next
	r.pruneExceptions()
}

func (r *Rule) insertException(d calendar.Date) {
	i, _ := slices.BinarySearchFunc(r.exceptions, d, calendar.Date.Compare)
	r.exceptions = slices.Insert(r.exceptions, i, d)
}

func (r *Rule) pruneExceptions() {
	i := 0
	for i < len(r.exceptions) && r.exceptions[i].Before(r.start) {
		i++
	}
	if i > 0 {
		r.exceptions = append([]calendar.Date(nil), r.exceptions[i:]...)
	}
}

// Copy returns an independent copy of the rule.
func (r *Rule) Copy() Recurrence {
	c := *r
	c.exceptions = r.Exceptions()
	return &c
}

// Save writes the rule's attributes and exception children to n. The
// caller sets the type tag.
func (r *Rule) Save(n *tree.Node) {
	n.SetDate("startdate", r.start)
	if r.end.IsValid() {
		n.SetDate("enddate", r.end)
	}
	if r.interval != 1 {
		n.SetInt("frequency", r.interval)
	}
	if r.typ == TypeMonthly || r.typ == TypeYearly {
		if r.day != r.start.Day() {
			n.SetInt("day", r.day)
		}
	}
	if r.typ == TypeYearly && r.month != r.start.Month() {
		n.SetInt("month", int(r.month))
	}
	for _, d := range r.exceptions {
		e := tree.New("exception")
		e.SetDate("date", d)
		n.Append(e)
	}
}

// Load builds a rule from a node whose type attribute is one of daily,
// weekly, monthly or yearly.
func Load(n *tree.Node) (*Rule, error) {
	tag := n.AttrOr("type", "")
	typ, ok := ParseType(tag)
	if !ok {
		return nil, fmt.Errorf("unknown recurrence type %q", tag)
	}
	start, err := n.Date("startdate")
	if err != nil {
		return nil, fmt.Errorf("recurrence start date: %w", err)
	}

	r := newRule(typ, start, n.IntOr("frequency", 1))
	if n.Has("enddate") {
		end, err := n.Date("enddate")
		if err != nil {
			return nil, fmt.Errorf("recurrence end date: %w", err)
		}
		r.end = end
	}
	if day, ok := n.Int("day"); ok && day >= 1 && day <= 31 {
		r.day = day
	}
	if month, ok := n.Int("month"); ok && month >= 1 && month <= 12 {
		r.month = time.Month(month)
	}
	for _, e := range n.ChildrenByTag("exception") {
		d, err := e.Date("date")
		if err != nil {
			continue
		}
		if r.inRange(d) && !r.isException(d) {
			r.insertException(d)
		}
	}
	if r.isException(r.start) {
		r.advance()
	}
	return r, nil
}
