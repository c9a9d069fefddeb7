package ledger

// AccountType represents the type of account
type AccountType int

const (
	AccountTypeUnknown AccountType = iota
	AccountTypeAssets
	AccountTypeExpenses
	AccountTypeIncomes
	// AccountTypeBalancing is the book's synthetic counterpart for
	// balancing entries. It is never persisted.
	AccountTypeBalancing
)

// String returns the persisted tag of the account type
func (t AccountType) String() string {
	switch t {
	case AccountTypeAssets:
		return "assets"
	case AccountTypeExpenses:
		return "expenses"
	case AccountTypeIncomes:
		return "incomes"
	case AccountTypeBalancing:
		return "balancing"
	default:
		return "unknown"
	}
}

// ParseAccountType maps a persisted tag back to its account type. The
// balancing type cannot be parsed.
func ParseAccountType(tag string) AccountType {
	switch tag {
	case "assets":
		return AccountTypeAssets
	case "expenses":
		return AccountTypeExpenses
	case "incomes":
		return AccountTypeIncomes
	default:
		return AccountTypeUnknown
	}
}

// Account is an asset account or an expense/income category. Ids are
// unique per account type.
type Account struct {
	ID          int
	Type        AccountType
	Name        string
	Description string
}

// NewAccount creates an account of the given type.
func NewAccount(typ AccountType, id int, name string) *Account {
	return &Account{ID: id, Type: typ, Name: name}
}

// String returns the account name.
func (a *Account) String() string {
	if a == nil {
		return ""
	}
	return a.Name
}

// IsBalancing reports whether a is a book's balancing account.
func (a *Account) IsBalancing() bool {
	return a != nil && a.Type == AccountTypeBalancing
}
