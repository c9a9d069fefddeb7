package ledger

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/culso/Eqonomize/calendar"
)

// Expense moves money from an asset account to an expense category. A
// negative cost is a refund.
type Expense struct {
	txn
	payee string
}

// NewExpense creates an expense of cost paid from an asset account into
// category.
func NewExpense(book Book, cost decimal.Decimal, date calendar.Date, category, from *Account, description, comment string) *Expense {
	return &Expense{txn: newTxn(book, cost, date, from, category, description, comment)}
}

func (e *Expense) Kind() Kind { return KindExpense }

func (e *Expense) SetDate(d calendar.Date) { e.setDate(e, d) }

func (e *Expense) Cost() decimal.Decimal     { return e.value }
func (e *Expense) SetCost(v decimal.Decimal) { e.value = v }
func (e *Expense) Category() *Account        { return e.to }
func (e *Expense) SetCategory(a *Account)    { e.to = a }
func (e *Expense) From() *Account            { return e.from }
func (e *Expense) SetFrom(a *Account)        { e.from = a }
func (e *Expense) Payee() string             { return e.payee }
func (e *Expense) SetPayee(s string)         { e.payee = strings.TrimSpace(s) }

func (e *Expense) Copy() Transaction {
	return &Expense{txn: e.clone(), payee: e.payee}
}

func (e *Expense) Equal(o Transaction) bool { return equalTransactions(e, o) }
