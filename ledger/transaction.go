package ledger

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/culso/Eqonomize/calendar"
)

// Kind identifies a transaction variant.
type Kind int

const (
	KindExpense Kind = iota
	KindIncome
	KindTransfer
	KindBalancing
	KindSecurityBuy
	KindSecuritySell
)

func (k Kind) String() string {
	switch k {
	case KindExpense:
		return "expense"
	case KindIncome:
		return "income"
	case KindTransfer:
		return "transfer"
	case KindBalancing:
		return "balancing"
	case KindSecurityBuy:
		return "security_buy"
	case KindSecuritySell:
		return "security_sell"
	default:
		return "unknown"
	}
}

// Transaction is a dated movement of value from one account to another.
//
// The set of implementations is closed: *Expense, *Income, *Transfer,
// *Balancing, *SecurityBuy and *SecuritySell. Code that branches on the
// variant uses an exhaustive type switch.
type Transaction interface {
	Kind() Kind
	// Book returns the budget the transaction belongs to.
	Book() Book

	Value() decimal.Decimal
	Date() calendar.Date
	// SetDate moves the transaction and notifies the book.
	SetDate(d calendar.Date)
	FromAccount() *Account
	ToAccount() *Account

	Description() string
	SetDescription(s string)
	Comment() string
	SetComment(s string)
	Quantity() decimal.Decimal
	SetQuantity(q decimal.Decimal)

	// ParentSplit returns the split owning the transaction, if any.
	ParentSplit() *SplitTransaction

	// Copy returns an independent equal clone without a parent split.
	Copy() Transaction
	// Equal reports whether o is the same variant with the same content.
	Equal(o Transaction) bool

	base() *txn
}

var one = decimal.NewFromInt(1)

// txn holds the fields shared by every variant.
type txn struct {
	book        Book
	value       decimal.Decimal
	date        calendar.Date
	from        *Account
	to          *Account
	description string
	comment     string
	quantity    decimal.Decimal
	split       *SplitTransaction
}

func newTxn(book Book, value decimal.Decimal, date calendar.Date, from, to *Account, description, comment string) txn {
	return txn{
		book:        book,
		value:       value,
		date:        date,
		from:        from,
		to:          to,
		description: strings.TrimSpace(description),
		comment:     comment,
		quantity:    one,
	}
}

func (t *txn) base() *txn                     { return t }
func (t *txn) Book() Book                     { return t.book }
func (t *txn) Value() decimal.Decimal         { return t.value }
func (t *txn) Date() calendar.Date            { return t.date }
func (t *txn) FromAccount() *Account          { return t.from }
func (t *txn) ToAccount() *Account            { return t.to }
func (t *txn) Description() string            { return t.description }
func (t *txn) Comment() string                { return t.comment }
func (t *txn) Quantity() decimal.Decimal      { return t.quantity }
func (t *txn) ParentSplit() *SplitTransaction { return t.split }

// SetDescription stores the description without surrounding whitespace.
func (t *txn) SetDescription(s string) { t.description = strings.TrimSpace(s) }

func (t *txn) SetComment(s string) { t.comment = s }

// SetQuantity sets the number of items the value covers.
func (t *txn) SetQuantity(q decimal.Decimal) { t.quantity = q }

// setDate updates the date and tells the book that self moved. self is the
// variant embedding t.
func (t *txn) setDate(self Transaction, d calendar.Date) {
	old := t.date
	if old.Equal(d) {
		return
	}
	t.date = d
	if t.book != nil {
		t.book.TransactionDateModified(self, old)
	}
}

func (t *txn) config() *Config {
	if t.book == nil {
		return NewConfig()
	}
	return t.book.Config()
}

// clone copies the shared fields. The copy has no parent split.
func (t *txn) clone() txn {
	c := *t
	c.split = nil
	return c
}

// normalize is the comparison form of free text: trimmed, with empty and
// absent treated alike.
func normalize(s string) string {
	return strings.TrimSpace(s)
}

func (t *txn) equal(o *txn) bool {
	return t.book == o.book &&
		t.from == o.from &&
		t.to == o.to &&
		t.value.Equal(o.value) &&
		t.date.Equal(o.date) &&
		t.quantity.Equal(o.quantity) &&
		normalize(t.description) == normalize(o.description) &&
		normalize(t.comment) == normalize(o.comment)
}

// equalTransactions compares two transactions variant by variant.
func equalTransactions(a, b Transaction) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() || !a.base().equal(b.base()) {
		return false
	}
	switch x := a.(type) {
	case *Expense:
		return normalize(x.payee) == normalize(b.(*Expense).payee)
	case *Income:
		y := b.(*Income)
		return x.security == y.security && normalize(x.payer) == normalize(y.payer)
	case *Transfer:
		return true
	case *Balancing:
		return true
	case *SecurityBuy:
		return x.equalTrade(&b.(*SecurityBuy).trade)
	case *SecuritySell:
		return x.equalTrade(&b.(*SecuritySell).trade)
	default:
		panic(fmt.Sprintf("unhandled transaction type %T", a))
	}
}
