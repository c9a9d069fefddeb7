package ledger

import (
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/culso/Eqonomize/tree"
)

// leg returns the endpoint of t that a split holding it shares.
func leg(t Transaction, account *Account) *Account {
	switch x := t.(type) {
	case *Expense:
		return x.From()
	case *Income:
		return x.To()
	case *Transfer:
		if x.From() == account {
			return x.From()
		}
		return x.To()
	case *Balancing:
		return x.Account()
	case *SecurityBuy:
		return x.Account()
	case *SecuritySell:
		return x.Account()
	}
	return nil
}

func assertLegs(t *testing.T, s *SplitTransaction) {
	t.Helper()
	for i, c := range s.Transactions() {
		assert.Equal(t, s.Account(), leg(c, s.Account()), "child %d", i)
		assert.Equal(t, s.Date(), c.Date(), "child %d", i)
		assert.Equal(t, s, c.ParentSplit(), "child %d", i)
	}
}

func newMixedSplit(f *fixture) *SplitTransaction {
	b := f.budget
	d := date("2023-12-31")
	s := NewSplitTransaction(b, date("2024-01-02"), f.checking, "Receipt")
	s.AddTransaction(NewExpense(b, dec("30"), d, f.food, nil, "Groceries", ""))
	s.AddTransaction(NewIncome(b, dec("10"), d, f.salary, nil, "Cashback", ""))
	s.AddTransaction(NewTransfer(b, dec("5"), d, nil, f.savings, "Saving", ""))
	s.AddTransaction(NewBalancing(b, dec("7"), d, f.savings, ""))
	s.AddTransaction(NewSecurityBuy(b, f.acme, dec("40"), dec("2"), dec("-1"), d, f.savings, ""))
	return s
}

func TestSplitTransaction_AddAndSetAccountKeepLegs(t *testing.T) {
	f := newFixture(t)
	s := newMixedSplit(f)
	assert.Equal(t, 5, s.Len())
	assertLegs(t, s)

	tr := s.Transactions()[2].(*Transfer)
	assert.Equal(t, f.checking, tr.From())
	assert.Equal(t, f.savings, tr.To())

	s.SetAccount(f.wallet)
	assertLegs(t, s)
	assert.Equal(t, f.wallet, tr.From())
	assert.Equal(t, f.savings, tr.To(), "the other transfer leg is untouched")

	s.AddTransaction(NewSecuritySell(f.budget, f.acme, dec("8"), dec("1"), dec("8"), date("2024-01-01"), f.savings, ""))
	assertLegs(t, s)
}

func TestSplitTransaction_AddTransferIntoAccount(t *testing.T) {
	f := newFixture(t)
	s := NewSplitTransaction(f.budget, date("2024-01-02"), f.checking, "")
	in := NewTransfer(f.budget, dec("5"), date("2024-01-02"), f.savings, f.checking, "", "")

	s.AddTransaction(in)
	assert.Equal(t, f.savings, in.From())
	assert.Equal(t, f.checking, in.To())
	assert.True(t, s.Value().Equal(dec("5")))
}

func TestSplitTransaction_Value(t *testing.T) {
	f := newFixture(t)

	empty := NewSplitTransaction(f.budget, date("2024-01-02"), f.checking, "")
	assert.True(t, empty.Value().IsZero())

	// -30 expense, +10 income, -5 transfer out, +7 balancing in, -40 buy.
	s := newMixedSplit(f)
	assert.True(t, s.Value().Equal(dec("-58")), "got %s", s.Value())
}

func TestSplitTransaction_SetDateCascades(t *testing.T) {
	f := newFixture(t)
	s := newMixedSplit(f)
	f.budget.AddSplitTransaction(s)

	s.SetDate(date("2024-06-01"))
	assertLegs(t, s)
	assert.Equal(t, date("2024-06-01"), s.Transactions()[0].Date())
}

func TestSplitTransaction_Reparent(t *testing.T) {
	f := newFixture(t)
	first := NewSplitTransaction(f.budget, date("2024-01-02"), f.checking, "")
	second := NewSplitTransaction(f.budget, date("2024-01-03"), f.savings, "")
	e := NewExpense(f.budget, dec("3"), date("2024-01-01"), f.food, nil, "", "")

	first.AddTransaction(e)
	second.AddTransaction(e)
	assert.Equal(t, 0, first.Len())
	assert.Equal(t, 1, second.Len())
	assert.Equal(t, second, e.ParentSplit())
	assert.Equal(t, f.savings, e.From())
	assert.Equal(t, date("2024-01-03"), e.Date())

	second.AddTransaction(e)
	assert.Equal(t, 1, second.Len(), "adding a child twice is a no-op")
}

func TestSplitTransaction_AdoptsTopLevelTransaction(t *testing.T) {
	f := newFixture(t)
	e := NewExpense(f.budget, dec("10"), date("2024-01-01"), f.food, f.checking, "", "")
	f.budget.AddTransaction(e)
	split := NewSplitTransaction(f.budget, date("2024-01-02"), f.checking, "")
	f.budget.AddSplitTransaction(split)

	split.AddTransaction(e)
	assert.Equal(t, 0, len(f.budget.Transactions()))
	assert.Equal(t, []Transaction{e}, f.budget.AllTransactions())
	assert.True(t, f.budget.Balance(f.checking).Equal(dec("-10")))
}

func TestSplitTransaction_RemoveAndClear(t *testing.T) {
	f := newFixture(t)
	s := newMixedSplit(f)
	children := s.Transactions()

	s.RemoveTransaction(children[0], true)
	assert.Equal(t, 4, s.Len())
	assert.Zero(t, children[0].ParentSplit())

	s.RemoveTransaction(children[0], false)
	assert.Equal(t, 4, s.Len(), "removing a non-child is a no-op")

	s.RemoveTransaction(children[1], false)
	assert.Equal(t, 3, s.Len())

	s.Clear(false)
	assert.Equal(t, 0, s.Len())
	for _, c := range children {
		assert.Zero(t, c.ParentSplit())
	}
	assert.True(t, s.Value().IsZero())
}

func TestSplitTransaction_RoundTrip(t *testing.T) {
	f := newFixture(t)
	s := newMixedSplit(f)
	s.SetComment("weekly shop")

	n := tree.New("split")
	s.Save(n)
	assert.Equal(t, "2024-01-02", n.AttrOr("date", ""))
	assert.Equal(t, "1", n.AttrOr("account", ""))
	for _, c := range n.Children {
		assert.False(t, c.Has("date"), "children inherit the split date")
	}
	assert.False(t, n.Children[0].Has("from"))
	assert.False(t, n.Children[1].Has("to"))
	assert.False(t, n.Children[2].Has("from"))
	assert.Equal(t, "2", n.Children[2].AttrOr("to", ""))
	assert.False(t, n.Children[3].Has("account"))

	decoder := NewDecoder(f.budget)
	got, err := decoder.SplitTransaction(n)
	assert.NoError(t, err)
	assert.Equal(t, 0, len(decoder.Dropped()))
	assert.Equal(t, "Receipt", got.Description())
	assert.Equal(t, "weekly shop", got.Comment())
	assert.Equal(t, s.Len(), got.Len())
	for i, want := range s.Transactions() {
		assert.True(t, want.Equal(got.Transactions()[i]), "child %d", i)
	}
	assertLegs(t, got)
	assert.True(t, got.Value().Equal(s.Value()))

	// The source node is left as it was.
	assert.False(t, n.Children[0].Has("date"))
}

func TestDecoder_SplitDropsFailingChildren(t *testing.T) {
	f := newFixture(t)
	n := tree.New("split")
	n.Set("date", "2024-01-02")
	n.Set("account", "1")
	good := tree.New("transaction")
	good.Set("type", "expense")
	good.Set("cost", "4")
	good.Set("category", "10")
	bad := tree.New("transaction")
	bad.Set("type", "expense")
	bad.Set("cost", "4")
	bad.Set("category", "99")
	odd := tree.New("transaction")
	odd.Set("type", "loan")
	n.Append(good, bad, odd)

	decoder := NewDecoder(f.budget)
	s, err := decoder.SplitTransaction(n)
	assert.NoError(t, err)
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, 2, len(decoder.Dropped()))

	var child *ChildError
	assert.True(t, errors.As(decoder.Dropped()[0], &child))
	assert.Equal(t, 1, child.Index)
	var unresolved *UnresolvedReferenceError
	assert.True(t, errors.As(decoder.Dropped()[0], &unresolved))
	var unknown *UnknownTypeError
	assert.True(t, errors.As(decoder.Dropped()[1], &unknown))
}

func TestDecoder_SplitRejectsBadHeader(t *testing.T) {
	f := newFixture(t)

	n := tree.New("split")
	n.Set("account", "1")
	_, err := NewDecoder(f.budget).SplitTransaction(n)
	var badDate *InvalidDateError
	assert.True(t, errors.As(err, &badDate))

	n.Set("date", "2024-01-01")
	n.Set("account", "10")
	_, err = NewDecoder(f.budget).SplitTransaction(n)
	var unresolved *UnresolvedReferenceError
	assert.True(t, errors.As(err, &unresolved))
}
