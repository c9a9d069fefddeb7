package ledger

import (
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"

	"github.com/culso/Eqonomize/calendar"
)

// Quotation is the price of one share of a security on a date.
type Quotation struct {
	Date  calendar.Date
	Value decimal.Decimal
	// Auto marks quotations derived from a buy or sell rather than entered
	// by hand.
	Auto bool
}

// Security is a tradeable holding whose position is kept in an asset
// account.
type Security struct {
	ID      int
	Name    string
	Account *Account
	// Decimals is the number of decimal places share counts are stored with.
	Decimals int32

	quotations []Quotation // sorted by date
}

// NewSecurity creates a security held in account.
func NewSecurity(id int, name string, account *Account, decimals int32) *Security {
	return &Security{ID: id, Name: name, Account: account, Decimals: decimals}
}

// SetQuotation records the share price on date. An automatic quotation never
// replaces a manual one for the same date.
func (s *Security) SetQuotation(date calendar.Date, value decimal.Decimal, auto bool) {
	i, found := slices.BinarySearchFunc(s.quotations, date, compareQuotation)
	if found {
		if auto && !s.quotations[i].Auto {
			return
		}
		s.quotations[i] = Quotation{Date: date, Value: value, Auto: auto}
		return
	}
	s.quotations = slices.Insert(s.quotations, i, Quotation{Date: date, Value: value, Auto: auto})
}

func compareQuotation(q Quotation, date calendar.Date) int {
	return q.Date.Compare(date)
}

// Quotation returns the latest quotation on or before date.
func (s *Security) Quotation(date calendar.Date) (Quotation, bool) {
	i, found := slices.BinarySearchFunc(s.quotations, date, compareQuotation)
	if found {
		return s.quotations[i], true
	}
	if i == 0 {
		return Quotation{}, false
	}
	return s.quotations[i-1], true
}

// Quotations returns all recorded quotations in date order.
func (s *Security) Quotations() []Quotation {
	out := make([]Quotation, len(s.quotations))
	copy(out, s.quotations)
	return out
}
