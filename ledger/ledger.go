// Package ledger provides the transaction model of a household budget.
//
// A Budget holds asset accounts, expense and income categories, securities
// and the records that move money between them:
//   - Transactions: expenses, incomes, transfers, balancing entries and
//     security buys and sells
//   - Split transactions: several transactions sharing a date and one asset
//     account
//   - Scheduled transactions: a template transaction and a recurrence rule
//     that produce dated transactions when realized
//
// Records are read from and written to tree.Node values. Reading goes
// through a Decoder that resolves account and security ids against the
// budget; a record whose references do not resolve is rejected with a
// typed error and never added.
//
// Example usage:
//
//	budget := ledger.NewBudget(ledger.NewConfig())
//	checking := ledger.NewAccount(ledger.AccountTypeAssets, 1, "Checking")
//	food := ledger.NewAccount(ledger.AccountTypeExpenses, 2, "Food")
//	budget.AddAccount(checking)
//	budget.AddAccount(food)
//
//	e := ledger.NewExpense(budget, decimal.RequireFromString("50"), calendar.MustParse("2024-01-05"), food, checking, "Groceries", "")
//	budget.AddTransaction(e)
package ledger

import (
	"strconv"

	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"

	"github.com/culso/Eqonomize/calendar"
)

// Book is what the transaction model needs from its budget: read access to
// accounts and securities, and notifications when records move.
type Book interface {
	AssetsAccount(id int) (*Account, bool)
	ExpensesAccount(id int) (*Account, bool)
	IncomesAccount(id int) (*Account, bool)
	Security(id int) (*Security, bool)
	BalancingAccount() *Account
	Config() *Config

	TransactionDateModified(t Transaction, old calendar.Date)
	SplitTransactionDateModified(s *SplitTransaction, old calendar.Date)
	ScheduledTransactionDateModified(s *ScheduledTransaction)
	// RemoveTransaction drops t from the budget. keep is false when t is
	// being discarded for good.
	RemoveTransaction(t Transaction, keep bool)
}

// Budget is the book every record belongs to. Top-level transactions,
// splits and schedules are kept in date order.
//
// A Budget is not safe for concurrent use.
type Budget struct {
	cfg        *Config
	assets     map[int]*Account
	expenses   map[int]*Account
	incomes    map[int]*Account
	securities map[int]*Security
	balancing  *Account

	transactions []Transaction
	splits       []*SplitTransaction
	schedules    []*ScheduledTransaction
}

var _ Book = (*Budget)(nil)

// NewBudget creates an empty budget. A nil config selects the defaults.
func NewBudget(cfg *Config) *Budget {
	if cfg == nil {
		cfg = NewConfig()
	}
	return &Budget{
		cfg:        cfg,
		assets:     make(map[int]*Account),
		expenses:   make(map[int]*Account),
		incomes:    make(map[int]*Account),
		securities: make(map[int]*Security),
		balancing:  &Account{ID: -1, Type: AccountTypeBalancing, Name: cfg.BalancingDescription},
	}
}

func (b *Budget) Config() *Config            { return b.cfg }
func (b *Budget) BalancingAccount() *Account { return b.balancing }

func (b *Budget) accountMap(typ AccountType) map[int]*Account {
	switch typ {
	case AccountTypeAssets:
		return b.assets
	case AccountTypeExpenses:
		return b.expenses
	case AccountTypeIncomes:
		return b.incomes
	default:
		return nil
	}
}

// AddAccount registers an asset account or category.
func (b *Budget) AddAccount(a *Account) error {
	m := b.accountMap(a.Type)
	if m == nil {
		return &UnknownTypeError{Element: "account", Type: a.Type.String()}
	}
	if _, ok := m[a.ID]; ok {
		return &DuplicateIDError{Kind: a.Type.String() + " account", ID: a.ID}
	}
	m[a.ID] = a
	return nil
}

// AddSecurity registers a security. Its position account must already be
// a registered asset account.
func (b *Budget) AddSecurity(s *Security) error {
	if _, ok := b.securities[s.ID]; ok {
		return &DuplicateIDError{Kind: "security", ID: s.ID}
	}
	if s.Account == nil || b.assets[s.Account.ID] != s.Account {
		id := ""
		if s.Account != nil {
			id = strconv.Itoa(s.Account.ID)
		}
		return &UnresolvedReferenceError{Record: "security", Attr: "account", ID: id, Kind: "assets"}
	}
	b.securities[s.ID] = s
	return nil
}

func (b *Budget) AssetsAccount(id int) (*Account, bool) {
	a, ok := b.assets[id]
	return a, ok
}

func (b *Budget) ExpensesAccount(id int) (*Account, bool) {
	a, ok := b.expenses[id]
	return a, ok
}

func (b *Budget) IncomesAccount(id int) (*Account, bool) {
	a, ok := b.incomes[id]
	return a, ok
}

func (b *Budget) Security(id int) (*Security, bool) {
	s, ok := b.securities[id]
	return s, ok
}

// Accounts returns the accounts of one type ordered by id.
func (b *Budget) Accounts(typ AccountType) []*Account {
	m := b.accountMap(typ)
	out := make([]*Account, 0, len(m))
	for _, a := range m {
		out = append(out, a)
	}
	slices.SortFunc(out, func(x, y *Account) int { return x.ID - y.ID })
	return out
}

// Securities returns the securities ordered by id.
func (b *Budget) Securities() []*Security {
	out := make([]*Security, 0, len(b.securities))
	for _, s := range b.securities {
		out = append(out, s)
	}
	slices.SortFunc(out, func(x, y *Security) int { return x.ID - y.ID })
	return out
}

// Transactions returns the top-level transactions in date order.
func (b *Budget) Transactions() []Transaction {
	return slices.Clone(b.transactions)
}

// SplitTransactions returns the splits in date order.
func (b *Budget) SplitTransactions() []*SplitTransaction {
	return slices.Clone(b.splits)
}

// ScheduledTransactions returns the schedules ordered by next occurrence.
func (b *Budget) ScheduledTransactions() []*ScheduledTransaction {
	return slices.Clone(b.schedules)
}

// AllTransactions returns the top-level transactions and the children of
// every split in date order.
func (b *Budget) AllTransactions() []Transaction {
	out := slices.Clone(b.transactions)
	for _, s := range b.splits {
		out = append(out, s.splits...)
	}
	slices.SortStableFunc(out, func(x, y Transaction) int { return x.Date().Compare(y.Date()) })
	return out
}

// AddTransaction adds a top-level transaction.
func (b *Budget) AddTransaction(t Transaction) {
	b.transactions = append(b.transactions, t)
	b.sortTransactions()
}

// AddSplitTransaction adds a split. Its children belong to the split.
func (b *Budget) AddSplitTransaction(s *SplitTransaction) {
	b.splits = append(b.splits, s)
	b.sortSplits()
}

// AddScheduledTransaction adds a schedule.
func (b *Budget) AddScheduledTransaction(s *ScheduledTransaction) {
	b.schedules = append(b.schedules, s)
	b.sortSchedules()
}

// RemoveTransaction drops t from the top-level transactions or from its
// split.
func (b *Budget) RemoveTransaction(t Transaction, keep bool) {
	if i := slices.Index(b.transactions, t); i >= 0 {
		b.transactions = slices.Delete(b.transactions, i, i+1)
	}
	if s := t.ParentSplit(); s != nil {
		s.detach(t)
	}
}

// RemoveSplitTransaction drops a split. Unless keep is set its children are
// discarded with it; otherwise they become top-level transactions.
func (b *Budget) RemoveSplitTransaction(s *SplitTransaction, keep bool) {
	i := slices.Index(b.splits, s)
	if i < 0 {
		return
	}
	b.splits = slices.Delete(b.splits, i, i+1)
	children := s.Transactions()
	s.Clear(true)
	if keep {
		for _, t := range children {
			b.AddTransaction(t)
		}
	}
}

// RemoveScheduledTransaction drops a schedule.
func (b *Budget) RemoveScheduledTransaction(s *ScheduledTransaction) {
	if i := slices.Index(b.schedules, s); i >= 0 {
		b.schedules = slices.Delete(b.schedules, i, i+1)
	}
}

func (b *Budget) TransactionDateModified(t Transaction, _ calendar.Date) {
	if slices.Contains(b.transactions, t) {
		b.sortTransactions()
	}
}

func (b *Budget) SplitTransactionDateModified(s *SplitTransaction, _ calendar.Date) {
	if slices.Contains(b.splits, s) {
		b.sortSplits()
	}
}

func (b *Budget) ScheduledTransactionDateModified(s *ScheduledTransaction) {
	if slices.Contains(b.schedules, s) {
		b.sortSchedules()
	}
}

func (b *Budget) sortTransactions() {
	slices.SortStableFunc(b.transactions, func(x, y Transaction) int { return x.Date().Compare(y.Date()) })
}

func (b *Budget) sortSplits() {
	slices.SortStableFunc(b.splits, func(x, y *SplitTransaction) int { return x.date.Compare(y.date) })
}

func (b *Budget) sortSchedules() {
	slices.SortStableFunc(b.schedules, func(x, y *ScheduledTransaction) int {
		return x.FirstOccurrence().Compare(y.FirstOccurrence())
	})
}

// RealizeDue realizes every scheduled occurrence on or before until and adds
// the produced transactions to the budget. Schedules left without further
// occurrences are removed.
func (b *Budget) RealizeDue(until calendar.Date) []Transaction {
	var realized []Transaction
	for _, s := range slices.Clone(b.schedules) {
		if s.Transaction() == nil {
			continue
		}
		for d := s.FirstOccurrence(); d.IsValid() && !d.After(until); d = s.FirstOccurrence() {
			t, err := s.Realize(d)
			if err != nil {
				break
			}
			b.AddTransaction(t)
			realized = append(realized, t)
			if s.Recurrence() == nil {
				break
			}
		}
		if s.Recurrence() == nil {
			if !s.Transaction().Date().After(until) {
				b.RemoveScheduledTransaction(s)
			}
		} else if !s.FirstOccurrence().IsValid() {
			b.RemoveScheduledTransaction(s)
		}
	}
	b.sortSchedules()
	return realized
}

// Occurrence is a pending date of a scheduled transaction.
type Occurrence struct {
	Schedule *ScheduledTransaction
	Date     calendar.Date
}

// Due lists the occurrences RealizeDue would realize, in schedule order,
// without changing the budget.
func (b *Budget) Due(until calendar.Date) []Occurrence {
	var due []Occurrence
	for _, s := range b.schedules {
		if s.Transaction() == nil {
			continue
		}
		if s.Recurrence() == nil {
			if d := s.Transaction().Date(); d.IsValid() && !d.After(until) {
				due = append(due, Occurrence{Schedule: s, Date: d})
			}
			continue
		}
		for _, d := range s.Recurrence().Occurrences(s.FirstOccurrence(), until) {
			due = append(due, Occurrence{Schedule: s, Date: d})
		}
	}
	return due
}

// Balance returns the sum of all values moved into account minus all values
// moved out of it.
func (b *Budget) Balance(account *Account) decimal.Decimal {
	sum := decimal.Zero
	for _, t := range b.AllTransactions() {
		if t.ToAccount() == account {
			sum = sum.Add(t.Value())
		}
		if t.FromAccount() == account {
			sum = sum.Sub(t.Value())
		}
	}
	return sum
}
