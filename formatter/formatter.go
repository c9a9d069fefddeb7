// Package formatter renders a budget as an aligned register of
// transactions, splits and schedules.
//
//	2024-01-05  expense          Groceries  Checking -> Food     -50.00
//	2024-01-15  split            Receipt    Checking             -30.00
//	              expense        Bread      Checking -> Food     -30.00
//	2024-02-01  monthly expense  Streaming  Checking -> Food      -9.00
//
// Amounts are signed from the point of view of asset accounts: money
// leaving an asset account is negative. Columns are measured with
// go-runewidth so that wide characters align.
package formatter

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/shopspring/decimal"

	"github.com/culso/Eqonomize/calendar"
	"github.com/culso/Eqonomize/ledger"
	"github.com/culso/Eqonomize/output"
	"github.com/culso/Eqonomize/recurrence"
)

const (
	// DateWidth is the width of a formatted date (YYYY-MM-DD)
	DateWidth = 10

	// DefaultIndentation is the indentation of split children
	DefaultIndentation = 2

	// MinimumSpacing is the number of spaces between columns
	MinimumSpacing = 2

	// DefaultMaxDescriptionWidth bounds the description column; longer
	// descriptions are truncated.
	DefaultMaxDescriptionWidth = 40
)

// Formatter renders registers.
type Formatter struct {
	// MaxDescriptionWidth truncates descriptions. 0 means no limit.
	MaxDescriptionWidth int

	// ShowComments appends each record's comment after the amount.
	ShowComments bool

	styles *output.Styles
}

// Option is a functional option for configuring a Formatter.
type Option func(*Formatter)

// WithMaxDescriptionWidth sets the description column limit.
func WithMaxDescriptionWidth(width int) Option {
	return func(f *Formatter) {
		f.MaxDescriptionWidth = width
	}
}

// WithComments controls whether comments are printed.
func WithComments(show bool) Option {
	return func(f *Formatter) {
		f.ShowComments = show
	}
}

// WithStyles colors dates, accounts and amounts.
func WithStyles(styles *output.Styles) Option {
	return func(f *Formatter) {
		f.styles = styles
	}
}

// New creates a Formatter with the given options.
func New(opts ...Option) *Formatter {
	f := &Formatter{MaxDescriptionWidth: DefaultMaxDescriptionWidth}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// row is one register line before alignment.
type row struct {
	date        string
	indent      int
	kind        string
	description string
	accounts    string
	amount      decimal.Decimal
	comment     string
}

// Format writes every top-level transaction and split in date order,
// followed by the scheduled transactions.
func (f *Formatter) Format(b *ledger.Budget, w io.Writer) error {
	var rows []row

	txs := b.Transactions()
	splits := b.SplitTransactions()
	for len(txs) > 0 || len(splits) > 0 {
		if len(splits) == 0 || (len(txs) > 0 && !txs[0].Date().After(splits[0].Date())) {
			rows = append(rows, f.transactionRow(txs[0], 0))
			txs = txs[1:]
			continue
		}
		rows = append(rows, f.splitRows(splits[0])...)
		splits = splits[1:]
	}
	for _, s := range b.ScheduledTransactions() {
		if r, ok := f.scheduleRow(s); ok {
			rows = append(rows, r)
		}
	}

	return f.write(w, rows, b.Config().MonetaryDecimalPlaces)
}

// FormatTransactions writes the given transactions, one per line.
func (f *Formatter) FormatTransactions(ts []ledger.Transaction, places int32, w io.Writer) error {
	rows := make([]row, len(ts))
	for i, t := range ts {
		rows[i] = f.transactionRow(t, 0)
	}
	return f.write(w, rows, places)
}

func (f *Formatter) transactionRow(t ledger.Transaction, indent int) row {
	return row{
		date:        dateText(t.Date(), indent),
		indent:      indent,
		kind:        ledger.TypeTag(t),
		description: t.Description(),
		accounts:    accounts(t.FromAccount(), t.ToAccount()),
		amount:      signed(t, t.Value()),
		comment:     t.Comment(),
	}
}

func (f *Formatter) splitRows(s *ledger.SplitTransaction) []row {
	rows := []row{{
		date:        s.Date().String(),
		kind:        "split",
		description: s.Description(),
		accounts:    name(s.Account()),
		amount:      s.Value(),
		comment:     s.Comment(),
	}}
	for _, t := range s.Transactions() {
		rows = append(rows, f.transactionRow(t, DefaultIndentation))
	}
	return rows
}

func (f *Formatter) scheduleRow(s *ledger.ScheduledTransaction) (row, bool) {
	t := s.Transaction()
	if t == nil {
		return row{}, false
	}
	kind := "once"
	if r := s.Recurrence(); r != nil {
		kind = cadence(r)
	}
	r := f.transactionRow(t, 0)
	r.date = s.FirstOccurrence().String()
	r.kind = kind + " " + r.kind
	return r, true
}

// cadence names how often a rule repeats: "monthly", or "every 2 months"
// for longer intervals.
func cadence(r recurrence.Recurrence) string {
	if r.Interval() <= 1 {
		return r.Type().String()
	}
	units := map[recurrence.Type]string{
		recurrence.TypeDaily:   "days",
		recurrence.TypeWeekly:  "weeks",
		recurrence.TypeMonthly: "months",
		recurrence.TypeYearly:  "years",
	}
	return "every " + strconv.Itoa(r.Interval()) + " " + units[r.Type()]
}

// signed returns v as seen from asset accounts.
func signed(t ledger.Transaction, v decimal.Decimal) decimal.Decimal {
	if isAsset(t.FromAccount()) && !isAsset(t.ToAccount()) {
		return v.Neg()
	}
	return v
}

func isAsset(a *ledger.Account) bool {
	return a != nil && a.Type == ledger.AccountTypeAssets
}

func name(a *ledger.Account) string {
	if a == nil {
		return "?"
	}
	return a.Name
}

func accounts(from, to *ledger.Account) string {
	return name(from) + " -> " + name(to)
}

func dateText(d calendar.Date, indent int) string {
	if indent > 0 {
		return ""
	}
	return d.String()
}

// write aligns rows into columns. Padding is computed on plain text and
// styles are applied afterwards.
func (f *Formatter) write(w io.Writer, rows []row, places int32) error {
	var kindWidth, descWidth, accWidth, amountWidth int
	amounts := make([]string, len(rows))
	for i := range rows {
		r := &rows[i]
		r.description = f.truncate(r.description)
		kindWidth = max(kindWidth, r.indent+runewidth.StringWidth(r.kind))
		descWidth = max(descWidth, runewidth.StringWidth(r.description))
		accWidth = max(accWidth, runewidth.StringWidth(r.accounts))
		amounts[i] = r.amount.StringFixed(places)
		amountWidth = max(amountWidth, len(amounts[i]))
	}

	bw := bufio.NewWriter(w)
	gap := strings.Repeat(" ", MinimumSpacing)
	for i, r := range rows {
		var line strings.Builder
		line.WriteString(f.style(runewidth.FillRight(r.date, DateWidth), (*output.Styles).Date))
		line.WriteString(gap)
		line.WriteString(runewidth.FillRight(strings.Repeat(" ", r.indent)+r.kind, kindWidth))
		line.WriteString(gap)
		line.WriteString(runewidth.FillRight(r.description, descWidth))
		line.WriteString(gap)
		line.WriteString(f.style(runewidth.FillRight(r.accounts, accWidth), (*output.Styles).Account))
		line.WriteString(gap)
		padding := strings.Repeat(" ", amountWidth-len(amounts[i]))
		if f.styles != nil {
			line.WriteString(padding + f.styles.Money(r.amount, places))
		} else {
			line.WriteString(padding + amounts[i])
		}
		if f.ShowComments && r.comment != "" {
			line.WriteString(gap)
			line.WriteString(f.style("; "+r.comment, (*output.Styles).Dim))
		}
		_, _ = bw.WriteString(strings.TrimRight(line.String(), " "))
		_ = bw.WriteByte('\n')
	}
	return bw.Flush()
}

func (f *Formatter) truncate(s string) string {
	if f.MaxDescriptionWidth <= 0 || runewidth.StringWidth(s) <= f.MaxDescriptionWidth {
		return s
	}
	return runewidth.Truncate(s, f.MaxDescriptionWidth, "...")
}

func (f *Formatter) style(s string, fn func(*output.Styles, string) string) string {
	if f.styles == nil {
		return s
	}
	return fn(f.styles, s)
}
