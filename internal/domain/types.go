package domain

// Polarity classifies a transaction or category as money in or money out.
// Amounts are always non-negative; the polarity decides how they are summed.
type Polarity string

const (
	Income  Polarity = "INCOME"
	Expense Polarity = "EXPENSE"
)

// AccountType is the closed set of account categories the UI offers.
type AccountType string

const (
	AccountSavings    AccountType = "Savings"
	AccountChecking   AccountType = "Checking"
	AccountCash       AccountType = "Cash"
	AccountCredit     AccountType = "Credit"
	AccountInvestment AccountType = "Investment"
)

// Account is a user-managed bank account or cash pot. Balance is signed:
// credit accounts are expected to carry negative balances.
type Account struct {
	ID      string      `json:"id"`
	Name    string      `json:"name"`
	Balance float64     `json:"balance"`
	Type    AccountType `json:"type"`
	Color   string      `json:"color"`
}

// Category labels transactions. The default set is seeded at startup but
// consumers must treat the category collection as mutable input.
type Category struct {
	ID   string   `json:"id"`
	Name string   `json:"name"`
	Icon string   `json:"icon"`
	Type Polarity `json:"type"`
}

// Transaction is a single ledger entry. Amount is always >= 0; Type carries
// the sign. Date is an ISO calendar date ("2006-01-02"), stored and compared
// as a string. AccountID and CategoryID may dangle after deletions; every
// consumer must tolerate unresolvable references.
type Transaction struct {
	ID          string   `json:"id"`
	AccountID   string   `json:"accountId"`
	CategoryID  string   `json:"categoryId"`
	Amount      float64  `json:"amount"`
	Date        string   `json:"date"`
	Description string   `json:"description"`
	Type        Polarity `json:"type"`
}

// Snapshot is the full ledger state at an instant: the unit of persistence
// and the input to every aggregation. The running session owns the live
// collections; persistence backends only ever hold serialized copies.
type Snapshot struct {
	Accounts     []Account     `json:"accounts"`
	Transactions []Transaction `json:"transactions"`
	Categories   []Category    `json:"categories"`
}

// User is the opaque identity produced by the auth collaborator. The ledger
// engine never derives or validates it.
type User struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
}
