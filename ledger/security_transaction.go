package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/culso/Eqonomize/calendar"
)

// trade holds what buys and sells share: the security, the number of
// shares and the price per share. A derived trade has no price of its own;
// its price is value/shares and is not persisted.
type trade struct {
	txn
	security   *Security
	shares     decimal.Decimal
	shareValue decimal.Decimal
	derived    bool
}

func newTrade(book Book, security *Security, value, shares, shareValue decimal.Decimal, date calendar.Date, comment string) trade {
	t := trade{
		txn:      newTxn(book, value, date, nil, nil, "", comment),
		security: security,
		shares:   shares,
	}
	t.setShareValue(shareValue)
	return t
}

// setShareValue stores v, or marks the trade derived when v is negative.
func (t *trade) setShareValue(v decimal.Decimal) {
	t.derived = v.IsNegative()
	if t.derived {
		t.shareValue = decimal.Zero
		return
	}
	t.shareValue = v
}

// derivedShareValue returns value/shares, or zero when there are no shares.
func derivedShareValue(value, shares decimal.Decimal) decimal.Decimal {
	if shares.IsZero() {
		return decimal.Zero
	}
	return value.Div(shares)
}

func (t *trade) Security() *Security { return t.security }

// securityAccount returns the position account of the security.
func (t *trade) securityAccount() *Account {
	if t.security == nil {
		return nil
	}
	return t.security.Account
}

func (t *trade) Shares() decimal.Decimal     { return t.shares }
func (t *trade) SetShares(v decimal.Decimal) { t.shares = v }

// ShareValue returns the price per share.
func (t *trade) ShareValue() decimal.Decimal {
	if t.derived {
		return derivedShareValue(t.value, t.shares)
	}
	return t.shareValue
}

// ShareValueDerived reports whether the price per share follows from value
// and shares.
func (t *trade) ShareValueDerived() bool { return t.derived }

// SetShareValue sets the price per share and records it as an automatic
// quotation of the security on the trade date. A negative value makes the
// price derived again.
func (t *trade) SetShareValue(v decimal.Decimal) {
	t.setShareValue(v)
	if t.security != nil && !t.derived {
		t.security.SetQuotation(t.date, v, true)
	}
}

func (t *trade) cloneTrade() trade {
	return trade{txn: t.clone(), security: t.security, shares: t.shares, shareValue: t.shareValue, derived: t.derived}
}

func (t *trade) equalTrade(o *trade) bool {
	return t.security == o.security && t.shares.Equal(o.shares) && t.ShareValue().Equal(o.ShareValue())
}

// SecurityBuy pays money from an asset or income account into a security
// position.
type SecurityBuy struct {
	trade
}

// NewSecurityBuy creates a purchase of shares costing cost, paid from
// account. A negative shareValue is derived as cost/shares.
func NewSecurityBuy(book Book, security *Security, cost, shares, shareValue decimal.Decimal, date calendar.Date, account *Account, comment string) *SecurityBuy {
	b := &SecurityBuy{trade: newTrade(book, security, cost, shares, shareValue, date, comment)}
	b.from = account
	if security != nil {
		b.description = b.config().securityBuyDescription(security)
	}
	return b
}

func (b *SecurityBuy) Kind() Kind { return KindSecurityBuy }

func (b *SecurityBuy) SetDate(d calendar.Date) { b.setDate(b, d) }

// ToAccount returns the security's position account.
func (b *SecurityBuy) ToAccount() *Account { return b.securityAccount() }

func (b *SecurityBuy) Cost() decimal.Decimal     { return b.value }
func (b *SecurityBuy) SetCost(v decimal.Decimal) { b.value = v }

// Account returns the account the purchase is paid from.
func (b *SecurityBuy) Account() *Account     { return b.from }
func (b *SecurityBuy) SetAccount(a *Account) { b.from = a }

func (b *SecurityBuy) Copy() Transaction {
	return &SecurityBuy{trade: b.cloneTrade()}
}

func (b *SecurityBuy) Equal(o Transaction) bool { return equalTransactions(b, o) }

// SecuritySell moves money out of a security position into an asset or
// expense account.
type SecuritySell struct {
	trade
}

// NewSecuritySell creates a sale of shares yielding income, paid into
// account. A negative shareValue is derived as income/shares.
func NewSecuritySell(book Book, security *Security, income, shares, shareValue decimal.Decimal, date calendar.Date, account *Account, comment string) *SecuritySell {
	s := &SecuritySell{trade: newTrade(book, security, income, shares, shareValue, date, comment)}
	s.to = account
	if security != nil {
		s.description = s.config().securitySellDescription(security)
	}
	return s
}

func (s *SecuritySell) Kind() Kind { return KindSecuritySell }

func (s *SecuritySell) SetDate(d calendar.Date) { s.setDate(s, d) }

// FromAccount returns the security's position account.
func (s *SecuritySell) FromAccount() *Account { return s.securityAccount() }

func (s *SecuritySell) Income() decimal.Decimal     { return s.value }
func (s *SecuritySell) SetIncome(v decimal.Decimal) { s.value = v }

// Account returns the account the proceeds are paid into.
func (s *SecuritySell) Account() *Account     { return s.to }
func (s *SecuritySell) SetAccount(a *Account) { s.to = a }

func (s *SecuritySell) Copy() Transaction {
	return &SecuritySell{trade: s.cloneTrade()}
}

func (s *SecuritySell) Equal(o Transaction) bool { return equalTransactions(s, o) }
