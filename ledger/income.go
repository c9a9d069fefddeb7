package ledger

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/culso/Eqonomize/calendar"
)

// Income moves money from an income category into an asset account. An
// income tied to a security is a dividend: its description and payer are
// derived from the security.
type Income struct {
	txn
	payer    string
	security *Security
}

// NewIncome creates an income of amount received from category into an
// asset account.
func NewIncome(book Book, amount decimal.Decimal, date calendar.Date, category, to *Account, description, comment string) *Income {
	return &Income{txn: newTxn(book, amount, date, category, to, description, comment)}
}

// NewDividend creates an income paid by security.
func NewDividend(book Book, amount decimal.Decimal, date calendar.Date, category, to *Account, security *Security, comment string) *Income {
	i := &Income{txn: newTxn(book, amount, date, category, to, "", comment)}
	i.SetSecurity(security)
	return i
}

func (i *Income) Kind() Kind { return KindIncome }

func (i *Income) SetDate(d calendar.Date) { i.setDate(i, d) }

func (i *Income) Income() decimal.Decimal     { return i.value }
func (i *Income) SetIncome(v decimal.Decimal) { i.value = v }
func (i *Income) Category() *Account          { return i.from }
func (i *Income) SetCategory(a *Account)      { i.from = a }
func (i *Income) To() *Account                { return i.to }
func (i *Income) SetTo(a *Account)            { i.to = a }
func (i *Income) Payer() string               { return i.payer }
func (i *Income) SetPayer(s string)           { i.payer = strings.TrimSpace(s) }
func (i *Income) Security() *Security         { return i.security }

// SetSecurity ties the income to a security. A non-nil security replaces
// the description and payer with ones derived from it; removing the security
// clears them.
func (i *Income) SetSecurity(s *Security) {
	prev := i.security
	i.security = s
	switch {
	case s != nil:
		i.description = i.config().dividendDescription(s)
		i.payer = s.Name
	case prev != nil:
		i.description = ""
		i.payer = ""
	}
}

func (i *Income) Copy() Transaction {
	return &Income{txn: i.clone(), payer: i.payer, security: i.security}
}

func (i *Income) Equal(o Transaction) bool { return equalTransactions(i, o) }
