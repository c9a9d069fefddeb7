package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/culso/Eqonomize/calendar"
)

// Transfer moves money between two asset accounts. The amount is never
// negative: a negative amount swaps the endpoints.
type Transfer struct {
	txn
}

// NewTransfer creates a transfer of amount from one asset account to
// another.
func NewTransfer(book Book, amount decimal.Decimal, date calendar.Date, from, to *Account, description, comment string) *Transfer {
	if amount.IsNegative() {
		amount, from, to = amount.Neg(), to, from
	}
	return &Transfer{txn: newTxn(book, amount, date, from, to, description, comment)}
}

func (t *Transfer) Kind() Kind { return KindTransfer }

func (t *Transfer) SetDate(d calendar.Date) { t.setDate(t, d) }

func (t *Transfer) Amount() decimal.Decimal { return t.value }

// SetAmount sets the amount, swapping the endpoints when it is negative.
func (t *Transfer) SetAmount(v decimal.Decimal) {
	if v.IsNegative() {
		t.value = v.Neg()
		t.from, t.to = t.to, t.from
		return
	}
	t.value = v
}

func (t *Transfer) From() *Account     { return t.from }
func (t *Transfer) SetFrom(a *Account) { t.from = a }
func (t *Transfer) To() *Account       { return t.to }
func (t *Transfer) SetTo(a *Account)   { t.to = a }

func (t *Transfer) Copy() Transaction {
	return &Transfer{txn: t.clone()}
}

func (t *Transfer) Equal(o Transaction) bool { return equalTransactions(t, o) }

// Balancing corrects an asset account's balance against the book's
// balancing account. A positive amount adds to the account.
type Balancing struct {
	txn
}

// NewBalancing creates a balancing entry of amount for account. The
// description defaults to the book's balancing description.
func NewBalancing(book Book, amount decimal.Decimal, date calendar.Date, account *Account, comment string) *Balancing {
	b := &Balancing{txn: newTxn(book, decimal.Zero, date, nil, nil, "", comment)}
	b.description = b.config().BalancingDescription
	b.orient(amount, account)
	return b
}

func (b *Balancing) Kind() Kind { return KindBalancing }

func (b *Balancing) SetDate(d calendar.Date) { b.setDate(b, d) }

func (b *Balancing) balancingAccount() *Account {
	if b.book == nil {
		return nil
	}
	return b.book.BalancingAccount()
}

// orient places account on the side given by the sign of amount.
func (b *Balancing) orient(amount decimal.Decimal, account *Account) {
	if amount.IsNegative() {
		b.value = amount.Neg()
		b.from, b.to = account, b.balancingAccount()
		return
	}
	b.value = amount
	b.from, b.to = b.balancingAccount(), account
}

// Amount returns the absolute amount of the correction.
func (b *Balancing) Amount() decimal.Decimal { return b.value }

// SignedAmount returns the amount added to Account; negative when the
// balancing account is the destination.
func (b *Balancing) SignedAmount() decimal.Decimal {
	if b.to != nil && b.to.IsBalancing() {
		return b.value.Neg()
	}
	return b.value
}

// SetAmount sets the signed amount added to Account.
func (b *Balancing) SetAmount(v decimal.Decimal) { b.orient(v, b.Account()) }

// Account returns the asset account being balanced.
func (b *Balancing) Account() *Account {
	if b.to != nil && b.to.IsBalancing() {
		return b.from
	}
	return b.to
}

// SetAccount replaces the asset account being balanced.
func (b *Balancing) SetAccount(a *Account) {
	if b.to != nil && b.to.IsBalancing() {
		b.from = a
		return
	}
	b.to = a
}

func (b *Balancing) Copy() Transaction {
	return &Balancing{txn: b.clone()}
}

func (b *Balancing) Equal(o Transaction) bool { return equalTransactions(b, o) }
