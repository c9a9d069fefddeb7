package ledger

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/culso/Eqonomize/recurrence"
	"github.com/culso/Eqonomize/tree"
)

// Decoder builds records from tree nodes, resolving ids against a book.
// Failures are returned as typed errors and the record must be discarded.
// Children of splits and schedules that fail are dropped individually and
// collected on the decoder.
type Decoder struct {
	book    Book
	dropped []error
}

// NewDecoder returns a decoder resolving references against book.
func NewDecoder(book Book) *Decoder {
	return &Decoder{book: book}
}

// Dropped returns the child errors collected so far, each a *ChildError.
func (d *Decoder) Dropped() []error {
	return d.dropped
}

// Transaction decodes a transaction node according to its type attribute:
// expense, income, dividend, transfer, balancing, security_buy or
// security_sell.
func (d *Decoder) Transaction(n *tree.Node) (Transaction, error) {
	switch typ := n.AttrOr("type", ""); typ {
	case "expense":
		return wrap(d.Expense(n))
	case "income":
		return wrap(d.Income(n))
	case "dividend":
		return wrap(d.Dividend(n))
	case "transfer":
		return wrap(d.Transfer(n))
	case "balancing":
		return wrap(d.Balancing(n))
	case "security_buy":
		return wrap(d.SecurityBuy(n))
	case "security_sell":
		return wrap(d.SecuritySell(n))
	default:
		return nil, &UnknownTypeError{Element: n.Tag, Type: typ}
	}
}

// wrap keeps a failed decode from surfacing as a non-nil interface holding
// a nil pointer.
func wrap[T Transaction](t T, err error) (Transaction, error) {
	if err != nil {
		return nil, err
	}
	return t, nil
}

// common reads the attributes every transaction carries.
func (d *Decoder) common(n *tree.Node, record string) (txn, error) {
	date, err := n.Date("date")
	if err != nil {
		return txn{}, &InvalidDateError{Record: record, Attr: "date", Value: n.AttrOr("date", "")}
	}
	t := newTxn(d.book, decimal.Zero, date, nil, nil, n.AttrOr("description", ""), n.AttrOr("comment", ""))
	t.quantity = n.DecimalOr("quantity", one)
	return t, nil
}

// account resolves the id in attr against the account types in order.
func (d *Decoder) account(n *tree.Node, record, attr string, types ...AccountType) (*Account, error) {
	if id, ok := n.Int(attr); ok {
		for _, typ := range types {
			if a, found := d.lookup(typ, id); found {
				return a, nil
			}
		}
	}
	kinds := make([]string, len(types))
	for i, typ := range types {
		kinds[i] = typ.String()
	}
	return nil, &UnresolvedReferenceError{
		Record: record,
		Attr:   attr,
		ID:     n.AttrOr(attr, ""),
		Kind:   strings.Join(kinds, " or "),
	}
}

func (d *Decoder) lookup(typ AccountType, id int) (*Account, bool) {
	switch typ {
	case AccountTypeAssets:
		return d.book.AssetsAccount(id)
	case AccountTypeExpenses:
		return d.book.ExpensesAccount(id)
	case AccountTypeIncomes:
		return d.book.IncomesAccount(id)
	default:
		return nil, false
	}
}

func (d *Decoder) security(n *tree.Node, record string) (*Security, error) {
	if id, ok := n.Int("security"); ok {
		if s, found := d.book.Security(id); found {
			return s, nil
		}
	}
	return nil, &UnresolvedReferenceError{Record: record, Attr: "security", ID: n.AttrOr("security", ""), Kind: "security"}
}

// Expense decodes an expense. A refund is stored as a positive income
// attribute.
func (d *Decoder) Expense(n *tree.Node) (*Expense, error) {
	t, err := d.common(n, "expense")
	if err != nil {
		return nil, err
	}
	if t.to, err = d.account(n, "expense", "category", AccountTypeExpenses); err != nil {
		return nil, err
	}
	if t.from, err = d.account(n, "expense", "from", AccountTypeAssets); err != nil {
		return nil, err
	}
	if n.Has("income") {
		t.value = n.Decimal("income").Neg()
	} else {
		t.value = n.Decimal("cost")
	}
	return &Expense{txn: t, payee: strings.TrimSpace(n.AttrOr("payee", ""))}, nil
}

// Income decodes an income. A security attribute naming a known security
// turns it into a dividend; an unknown one is ignored.
func (d *Decoder) Income(n *tree.Node) (*Income, error) {
	return d.income(n, "income")
}

// Dividend decodes an income that must name a known security.
func (d *Decoder) Dividend(n *tree.Node) (*Income, error) {
	i, err := d.income(n, "dividend")
	if err != nil {
		return nil, err
	}
	if i.security == nil {
		return nil, &MissingSecurityError{Record: "dividend", ID: n.AttrOr("security", "")}
	}
	return i, nil
}

func (d *Decoder) income(n *tree.Node, record string) (*Income, error) {
	t, err := d.common(n, record)
	if err != nil {
		return nil, err
	}
	if t.from, err = d.account(n, record, "category", AccountTypeIncomes); err != nil {
		return nil, err
	}
	if t.to, err = d.account(n, record, "to", AccountTypeAssets); err != nil {
		return nil, err
	}
	if n.Has("cost") {
		t.value = n.Decimal("cost").Neg()
	} else {
		t.value = n.Decimal("income")
	}

	i := &Income{txn: t}
	if id, ok := n.Int("security"); ok && id >= 0 {
		if s, found := d.book.Security(id); found {
			i.SetSecurity(s)
			return i, nil
		}
	}
	i.payer = strings.TrimSpace(n.AttrOr("payer", ""))
	return i, nil
}

// Transfer decodes a transfer. A negative amount swaps the endpoints.
func (d *Decoder) Transfer(n *tree.Node) (*Transfer, error) {
	t, err := d.common(n, "transfer")
	if err != nil {
		return nil, err
	}
	if t.from, err = d.account(n, "transfer", "from", AccountTypeAssets); err != nil {
		return nil, err
	}
	if t.to, err = d.account(n, "transfer", "to", AccountTypeAssets); err != nil {
		return nil, err
	}
	tr := &Transfer{txn: t}
	tr.SetAmount(n.Decimal("amount"))
	return tr, nil
}

// Balancing decodes a balancing entry. The sign of the amount says which
// side the balancing account is on.
func (d *Decoder) Balancing(n *tree.Node) (*Balancing, error) {
	t, err := d.common(n, "balancing")
	if err != nil {
		return nil, err
	}
	account, err := d.account(n, "balancing", "account", AccountTypeAssets)
	if err != nil {
		return nil, err
	}
	b := &Balancing{txn: t}
	if b.description == "" {
		b.description = b.config().BalancingDescription
	}
	b.orient(n.Decimal("amount"), account)
	return b, nil
}

func (d *Decoder) trade(n *tree.Node, record, valueAttr string) (trade, error) {
	t, err := d.common(n, record)
	if err != nil {
		return trade{}, err
	}
	security, err := d.security(n, record)
	if err != nil {
		return trade{}, err
	}
	t.value = n.Decimal(valueAttr)
	shares := n.Decimal("shares")
	tr := trade{txn: t, security: security, shares: shares}
	tr.setShareValue(n.DecimalOr("sharevalue", decimal.NewFromInt(-1)))
	return tr, nil
}

// SecurityBuy decodes a purchase. The paying account is looked up among
// asset accounts, then income categories.
func (d *Decoder) SecurityBuy(n *tree.Node) (*SecurityBuy, error) {
	t, err := d.trade(n, "security_buy", "cost")
	if err != nil {
		return nil, err
	}
	if t.from, err = d.account(n, "security_buy", "account", AccountTypeAssets, AccountTypeIncomes); err != nil {
		return nil, err
	}
	t.description = t.config().securityBuyDescription(t.security)
	return &SecurityBuy{trade: t}, nil
}

// SecuritySell decodes a sale. The receiving account is looked up among
// asset accounts, then expense categories.
func (d *Decoder) SecuritySell(n *tree.Node) (*SecuritySell, error) {
	t, err := d.trade(n, "security_sell", "income")
	if err != nil {
		return nil, err
	}
	if t.to, err = d.account(n, "security_sell", "account", AccountTypeAssets, AccountTypeExpenses); err != nil {
		return nil, err
	}
	t.description = t.config().securitySellDescription(t.security)
	return &SecuritySell{trade: t}, nil
}

// SplitTransaction decodes a split. Children carry neither a date nor the
// leg shared with the split; both are filled in from the split before each
// child is decoded. Children that fail are dropped.
func (d *Decoder) SplitTransaction(n *tree.Node) (*SplitTransaction, error) {
	date, err := n.Date("date")
	if err != nil {
		return nil, &InvalidDateError{Record: "split", Attr: "date", Value: n.AttrOr("date", "")}
	}
	account, err := d.account(n, "split", "account", AccountTypeAssets)
	if err != nil {
		return nil, err
	}

	s := NewSplitTransaction(d.book, date, account, n.AttrOr("description", ""))
	s.comment = n.AttrOr("comment", "")

	id := strconv.Itoa(account.ID)
	for i, c := range n.ChildrenByTag("transaction") {
		child := c.Clone()
		child.SetDate("date", date)
		switch child.AttrOr("type", "") {
		case "expense":
			child.Set("from", id)
		case "income", "dividend":
			child.Set("to", id)
		case "transfer":
			if child.Has("to") {
				child.Set("from", id)
			} else {
				child.Set("to", id)
			}
		case "balancing", "security_buy", "security_sell":
			child.Set("account", id)
		}

		t, err := d.Transaction(child)
		if err != nil {
			d.dropped = append(d.dropped, &ChildError{Parent: "split", Index: i, Err: err})
			continue
		}
		s.attach(t)
	}
	return s, nil
}

// ScheduledTransaction decodes a schedule from its transaction and
// recurrence children. A child of unknown type is skipped; a child that
// fails to decode clears its slot. The schedule is rejected when no
// template survives.
func (d *Decoder) ScheduledTransaction(n *tree.Node) (*ScheduledTransaction, error) {
	var (
		trans   Transaction
		rec     recurrence.Recurrence
		cause   error
		dropped []error
	)
	for i, c := range n.Children {
		switch c.Tag {
		case "transaction":
			t, err := d.Transaction(c)
			if err != nil {
				dropped = append(dropped, &ChildError{Parent: "schedule", Index: i, Err: err})
				if _, unknown := err.(*UnknownTypeError); !unknown {
					trans, cause = nil, err
				}
				continue
			}
			trans, cause = t, nil
		case "recurrence":
			typ := c.AttrOr("type", "")
			if _, ok := recurrence.ParseType(typ); !ok {
				dropped = append(dropped, &ChildError{Parent: "schedule", Index: i, Err: &UnknownTypeError{Element: c.Tag, Type: typ}})
				continue
			}
			r, err := recurrence.Load(c)
			if err != nil {
				dropped = append(dropped, &ChildError{Parent: "schedule", Index: i, Err: err})
				rec = nil
				continue
			}
			rec = r
		}
	}
	if trans == nil {
		return nil, &MissingTemplateError{Cause: cause}
	}
	d.dropped = append(d.dropped, dropped...)

	s := &ScheduledTransaction{book: d.book, trans: trans, rec: rec}
	s.syncTemplate()
	return s, nil
}
