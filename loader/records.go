package loader

import (
	"github.com/culso/Eqonomize/ledger"
	"github.com/culso/Eqonomize/tree"
)

// formatVersion is written on the document root.
const formatVersion = "1"

// defaultShareDecimals applies to securities saved without decimals.
const defaultShareDecimals = 4

func decodeAccount(n *tree.Node) (*ledger.Account, error) {
	typ := ledger.ParseAccountType(n.AttrOr("type", ""))
	if typ == ledger.AccountTypeUnknown || typ == ledger.AccountTypeBalancing {
		return nil, &ledger.UnknownTypeError{Element: n.Tag, Type: n.AttrOr("type", "")}
	}
	id, ok := n.Int("id")
	if !ok || id < 0 {
		return nil, &MissingAttributeError{Tag: n.Tag, Attr: "id"}
	}
	a := ledger.NewAccount(typ, id, n.AttrOr("name", ""))
	a.Description = n.AttrOr("description", "")
	return a, nil
}

func encodeAccount(a *ledger.Account) *tree.Node {
	n := tree.New("account")
	n.SetInt("id", a.ID)
	n.Set("type", a.Type.String())
	n.Set("name", a.Name)
	if a.Description != "" {
		n.Set("description", a.Description)
	}
	return n
}

func decodeSecurity(b *ledger.Budget, n *tree.Node) (*ledger.Security, error) {
	id, ok := n.Int("id")
	if !ok || id < 0 {
		return nil, &MissingAttributeError{Tag: n.Tag, Attr: "id"}
	}
	accountID, ok := n.Int("account")
	if !ok {
		return nil, &MissingAttributeError{Tag: n.Tag, Attr: "account"}
	}
	account, ok := b.AssetsAccount(accountID)
	if !ok {
		return nil, &ledger.UnresolvedReferenceError{Record: n.Tag, Attr: "account", ID: n.AttrOr("account", ""), Kind: "assets"}
	}

	s := ledger.NewSecurity(id, n.AttrOr("name", ""), account, int32(n.IntOr("decimals", defaultShareDecimals)))
	for _, q := range n.ChildrenByTag("quotation") {
		d, err := q.Date("date")
		if err != nil {
			continue
		}
		s.SetQuotation(d, q.Decimal("value"), q.AttrOr("auto", "") == "true")
	}
	return s, nil
}

func encodeSecurity(s *ledger.Security, places int32) *tree.Node {
	n := tree.New("security")
	n.SetInt("id", s.ID)
	n.Set("name", s.Name)
	n.SetInt("decimals", int(s.Decimals))
	if s.Account != nil {
		n.SetInt("account", s.Account.ID)
	}
	for _, q := range s.Quotations() {
		qn := tree.New("quotation")
		qn.SetDate("date", q.Date)
		qn.SetDecimal("value", q.Value, places)
		if q.Auto {
			qn.Set("auto", "true")
		}
		n.Append(qn)
	}
	return n
}

// Encode builds the budget document root.
func Encode(b *ledger.Budget) *tree.Node {
	root := tree.New("budget")
	root.Set("version", formatVersion)
	places := b.Config().MonetaryDecimalPlaces

	for _, typ := range []ledger.AccountType{ledger.AccountTypeAssets, ledger.AccountTypeExpenses, ledger.AccountTypeIncomes} {
		for _, a := range b.Accounts(typ) {
			root.Append(encodeAccount(a))
		}
	}
	for _, s := range b.Securities() {
		root.Append(encodeSecurity(s, places))
	}
	for _, t := range b.Transactions() {
		root.Append(ledger.TransactionNode(t))
	}
	for _, s := range b.SplitTransactions() {
		n := tree.New("split")
		s.Save(n)
		root.Append(n)
	}
	for _, s := range b.ScheduledTransactions() {
		n := tree.New("schedule")
		s.Save(n)
		root.Append(n)
	}
	return root
}
