package ledger

import (
	"fmt"

	"github.com/culso/Eqonomize/calendar"
	"github.com/culso/Eqonomize/recurrence"
)

// ScheduledTransaction is a template transaction together with an optional
// recurrence rule. Without a rule the schedule occurs once, on the
// template's date. With a rule the template's date follows the rule's start
// date, which advances as occurrences are realized.
type ScheduledTransaction struct {
	book  Book
	trans Transaction
	rec   recurrence.Recurrence
}

// NewScheduledTransaction creates a schedule. When both trans and rec are
// given the template is moved to the rule's start date.
func NewScheduledTransaction(book Book, trans Transaction, rec recurrence.Recurrence) *ScheduledTransaction {
	s := &ScheduledTransaction{book: book, trans: trans, rec: rec}
	s.syncTemplate()
	return s
}

func (s *ScheduledTransaction) Book() Book                        { return s.book }
func (s *ScheduledTransaction) Transaction() Transaction          { return s.trans }
func (s *ScheduledTransaction) Recurrence() recurrence.Recurrence { return s.rec }

// syncTemplate moves the template to the rule's start date.
func (s *ScheduledTransaction) syncTemplate() {
	if s.trans != nil && s.rec != nil {
		s.trans.SetDate(s.rec.StartDate())
	}
}

func (s *ScheduledTransaction) notify() {
	if s.book != nil {
		s.book.ScheduledTransactionDateModified(s)
	}
}

// SetTransaction replaces the template.
func (s *ScheduledTransaction) SetTransaction(t Transaction) {
	s.trans = t
	s.syncTemplate()
	s.notify()
}

// SetRecurrence replaces the rule. A nil rule makes the schedule one-time.
func (s *ScheduledTransaction) SetRecurrence(r recurrence.Recurrence) {
	s.rec = r
	s.syncTemplate()
	s.notify()
}

// SetDate moves the schedule to start at d.
func (s *ScheduledTransaction) SetDate(d calendar.Date) {
	if s.rec != nil {
		s.rec.SetStartDate(d)
	}
	if s.trans != nil {
		s.trans.SetDate(d)
	}
	s.notify()
}

// FirstOccurrence returns the next date the schedule produces a
// transaction on, or the zero date when it has none.
func (s *ScheduledTransaction) FirstOccurrence() calendar.Date {
	if s.rec != nil {
		return s.rec.FirstOccurrence()
	}
	if s.trans != nil {
		return s.trans.Date()
	}
	return calendar.Date{}
}

// IsOneTimeTransaction reports whether the schedule occurs at most once.
func (s *ScheduledTransaction) IsOneTimeTransaction() bool {
	if s.rec == nil {
		return true
	}
	return s.rec.FirstOccurrence().Equal(s.rec.LastOccurrence())
}

// Realize produces the transaction for the occurrence on date. The returned
// transaction is independent of the template. For a recurring schedule the
// occurrence is consumed and the template advances to the next one.
func (s *ScheduledTransaction) Realize(date calendar.Date) (Transaction, error) {
	if s.trans == nil {
		return nil, ErrNoTemplate
	}
	if s.rec != nil {
		if !s.rec.RemoveOccurrence(date) {
			return nil, fmt.Errorf("%w: %s", ErrNotOccurrence, date)
		}
	} else if !date.Equal(s.trans.Date()) {
		return nil, fmt.Errorf("%w: %s", ErrNotOccurrence, date)
	}

	t := s.trans.Copy()
	if s.rec != nil {
		s.trans.SetDate(s.rec.StartDate())
		s.notify()
	}
	t.SetDate(date)
	return t, nil
}

// AddException excludes date from the rule. Excluding the current start
// date advances the template. One-time schedules ignore exceptions.
func (s *ScheduledTransaction) AddException(date calendar.Date) {
	if s.rec == nil {
		return
	}
	start := s.rec.StartDate()
	s.rec.AddException(date)
	if date.Equal(start) && s.trans != nil {
		s.trans.SetDate(s.rec.StartDate())
		s.notify()
	}
}

// Copy returns an independent schedule with its own template and rule.
func (s *ScheduledTransaction) Copy() *ScheduledTransaction {
	c := &ScheduledTransaction{book: s.book}
	if s.trans != nil {
		c.trans = s.trans.Copy()
	}
	if s.rec != nil {
		c.rec = s.rec.Copy()
	}
	return c
}
