package ledger

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/culso/Eqonomize/calendar"
)

// SplitTransaction groups transactions that share a date and one asset
// account leg, such as the lines of a single receipt.
type SplitTransaction struct {
	book        Book
	date        calendar.Date
	account     *Account
	description string
	comment     string
	splits      []Transaction
}

// NewSplitTransaction creates an empty split on account.
func NewSplitTransaction(book Book, date calendar.Date, account *Account, description string) *SplitTransaction {
	return &SplitTransaction{
		book:        book,
		date:        date,
		account:     account,
		description: strings.TrimSpace(description),
	}
}

func (s *SplitTransaction) Book() Book          { return s.book }
func (s *SplitTransaction) Date() calendar.Date { return s.date }
func (s *SplitTransaction) Account() *Account   { return s.account }
func (s *SplitTransaction) Description() string { return s.description }
func (s *SplitTransaction) Comment() string     { return s.comment }
func (s *SplitTransaction) SetComment(c string) { s.comment = c }
func (s *SplitTransaction) Len() int            { return len(s.splits) }

func (s *SplitTransaction) SetDescription(d string) {
	s.description = strings.TrimSpace(d)
}

// Transactions returns the children in order.
func (s *SplitTransaction) Transactions() []Transaction {
	out := make([]Transaction, len(s.splits))
	copy(out, s.splits)
	return out
}

// Value returns the net amount added to the split account: children paying
// from it count negative, children paying into it count positive.
func (s *SplitTransaction) Value() decimal.Decimal {
	sum := decimal.Zero
	for _, t := range s.splits {
		switch s.account {
		case t.ToAccount():
			sum = sum.Add(t.Value())
		case t.FromAccount():
			sum = sum.Sub(t.Value())
		}
	}
	return sum
}

// setLeg points the leg of t that belongs to the split at account. old is
// the account the leg pointed at before, or nil for a transaction joining
// the split.
func setLeg(t Transaction, old, account *Account) {
	switch x := t.(type) {
	case *Expense:
		x.SetFrom(account)
	case *Income:
		x.SetTo(account)
	case *Transfer:
		if old == nil {
			if x.From() == account || x.To() == account {
				return
			}
			if x.From() == nil {
				x.SetFrom(account)
			} else {
				x.SetTo(account)
			}
			return
		}
		if x.From() == old {
			x.SetFrom(account)
		} else {
			x.SetTo(account)
		}
	case *Balancing:
		x.SetAccount(account)
	case *SecurityBuy:
		x.SetAccount(account)
	case *SecuritySell:
		x.SetAccount(account)
	default:
		panic(fmt.Sprintf("unhandled transaction type %T", t))
	}
}

// AddTransaction appends t to the split, moving it to the split's date and
// account. A transaction owned by another split is detached there first;
// a top-level transaction is removed from its book.
func (s *SplitTransaction) AddTransaction(t Transaction) {
	if prev := t.ParentSplit(); prev != nil {
		if prev == s {
			return
		}
		prev.detach(t)
	} else if book := t.Book(); book != nil {
		book.RemoveTransaction(t, true)
	}
	t.SetDate(s.date)
	setLeg(t, nil, s.account)
	s.attach(t)
}

func (s *SplitTransaction) attach(t Transaction) {
	s.splits = append(s.splits, t)
	t.base().split = s
}

// detach removes the first occurrence of t and clears its parent.
func (s *SplitTransaction) detach(t Transaction) bool {
	for i, c := range s.splits {
		if c == t {
			s.splits = append(s.splits[:i], s.splits[i+1:]...)
			t.base().split = nil
			return true
		}
	}
	return false
}

// RemoveTransaction detaches t from the split. Unless keep is set, the book
// is asked to remove t entirely.
func (s *SplitTransaction) RemoveTransaction(t Transaction, keep bool) {
	if !s.detach(t) {
		return
	}
	if !keep && s.book != nil {
		s.book.RemoveTransaction(t, false)
	}
}

// Clear detaches every child. Unless keep is set, the book is asked to
// remove each of them.
func (s *SplitTransaction) Clear(keep bool) {
	children := s.splits
	s.splits = nil
	for _, t := range children {
		t.base().split = nil
		if !keep && s.book != nil {
			s.book.RemoveTransaction(t, false)
		}
	}
}

// SetAccount moves the shared leg of every child to account.
func (s *SplitTransaction) SetAccount(account *Account) {
	old := s.account
	for _, t := range s.splits {
		setLeg(t, old, account)
	}
	s.account = account
}

// SetDate moves the split and every child to d.
func (s *SplitTransaction) SetDate(d calendar.Date) {
	old := s.date
	s.date = d
	if s.book != nil {
		s.book.SplitTransactionDateModified(s, old)
	}
	for _, t := range s.splits {
		t.SetDate(d)
	}
}
