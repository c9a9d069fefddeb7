package ledger

import (
	"fmt"

	"github.com/culso/Eqonomize/tree"
)

// TypeTag returns the type attribute t is persisted with.
func TypeTag(t Transaction) string {
	switch x := t.(type) {
	case *Expense:
		return "expense"
	case *Income:
		if x.security != nil {
			return "dividend"
		}
		return "income"
	case *Transfer:
		return "transfer"
	case *Balancing:
		return "balancing"
	case *SecurityBuy:
		return "security_buy"
	case *SecuritySell:
		return "security_sell"
	default:
		panic(fmt.Sprintf("unhandled transaction type %T", t))
	}
}

// TransactionNode returns a transaction node holding t and its type.
func TransactionNode(t Transaction) *tree.Node {
	n := tree.New("transaction")
	n.Set("type", TypeTag(t))
	Encode(t, n)
	return n
}

func setID(n *tree.Node, attr string, a *Account) {
	if a != nil {
		n.SetInt(attr, a.ID)
	}
}

func setText(n *tree.Node, attr, s string) {
	if s != "" {
		n.Set(attr, s)
	}
}

// Encode writes the attributes of t to n. Values derived from a security
// are left out and derived again when decoding.
func Encode(t Transaction, n *tree.Node) {
	b := t.base()
	cfg := b.config()
	places := cfg.MonetaryDecimalPlaces

	n.SetDate("date", b.date)
	setText(n, "comment", b.comment)
	if !b.quantity.Equal(one) {
		n.SetDecimal("quantity", b.quantity, places)
	}

	switch x := t.(type) {
	case *Expense:
		if x.value.IsNegative() {
			n.SetDecimal("income", x.value.Neg(), places)
		} else {
			n.SetDecimal("cost", x.value, places)
		}
		setID(n, "category", x.to)
		setID(n, "from", x.from)
		setText(n, "description", x.description)
		setText(n, "payee", x.payee)
	case *Income:
		if x.value.IsNegative() && x.security == nil {
			n.SetDecimal("cost", x.value.Neg(), places)
		} else {
			n.SetDecimal("income", x.value, places)
		}
		setID(n, "category", x.from)
		setID(n, "to", x.to)
		if x.security != nil {
			n.SetInt("security", x.security.ID)
		} else {
			setText(n, "description", x.description)
			setText(n, "payer", x.payer)
		}
	case *Transfer:
		n.SetDecimal("amount", x.value, places)
		setID(n, "from", x.from)
		setID(n, "to", x.to)
		setText(n, "description", x.description)
	case *Balancing:
		n.SetDecimal("amount", x.SignedAmount(), places)
		setID(n, "account", x.Account())
		if x.description != cfg.BalancingDescription {
			setText(n, "description", x.description)
		}
	case *SecurityBuy:
		encodeTrade(&x.trade, n, places)
		n.SetDecimal("cost", x.value, places)
		setID(n, "account", x.from)
	case *SecuritySell:
		encodeTrade(&x.trade, n, places)
		n.SetDecimal("income", x.value, places)
		setID(n, "account", x.to)
	default:
		panic(fmt.Sprintf("unhandled transaction type %T", t))
	}
}

func encodeTrade(t *trade, n *tree.Node, places int32) {
	var decimals int32
	if t.security != nil {
		decimals = t.security.Decimals
	}
	n.SetDecimal("shares", t.shares, decimals)
	if !t.derived {
		n.SetDecimal("sharevalue", t.shareValue, places)
	}
	if t.security != nil {
		n.SetInt("security", t.security.ID)
	}
}

// legAttr returns the attribute of t that holds the split account.
func legAttr(t Transaction, account *Account) string {
	switch x := t.(type) {
	case *Expense:
		return "from"
	case *Income:
		return "to"
	case *Transfer:
		if x.from == account {
			return "from"
		}
		return "to"
	case *Balancing, *SecurityBuy, *SecuritySell:
		return "account"
	default:
		panic(fmt.Sprintf("unhandled transaction type %T", t))
	}
}

// Save writes the split and its children to n. Children omit the date and
// the leg they share with the split.
func (s *SplitTransaction) Save(n *tree.Node) {
	n.SetDate("date", s.date)
	setID(n, "account", s.account)
	setText(n, "description", s.description)
	setText(n, "comment", s.comment)
	for _, t := range s.splits {
		child := TransactionNode(t)
		child.Remove("date")
		child.Remove(legAttr(t, s.account))
		n.Append(child)
	}
}

// Save writes the template and rule as children of n.
func (s *ScheduledTransaction) Save(n *tree.Node) {
	if s.trans != nil {
		n.Append(TransactionNode(s.trans))
	}
	if s.rec != nil {
		r := tree.New("recurrence")
		r.Set("type", s.rec.Type().String())
		s.rec.Save(r)
		n.Append(r)
	}
}
