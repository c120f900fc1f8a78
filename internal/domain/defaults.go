package domain

// DefaultCategories is the seeded category set. It is copied into every new
// snapshot; the engine treats the live collection as mutable input.
func DefaultCategories() []Category {
	return []Category{
		{ID: "1", Name: "Dining", Icon: "fa-utensils", Type: Expense},
		{ID: "2", Name: "Transport", Icon: "fa-bus", Type: Expense},
		{ID: "3", Name: "Entertainment", Icon: "fa-gamepad", Type: Expense},
		{ID: "4", Name: "Shopping", Icon: "fa-bag-shopping", Type: Expense},
		{ID: "5", Name: "Salary", Icon: "fa-money-bill-wave", Type: Income},
		{ID: "6", Name: "Investment Returns", Icon: "fa-chart-line", Type: Income},
		{ID: "7", Name: "Rent & Mortgage", Icon: "fa-house", Type: Expense},
		{ID: "8", Name: "Other", Icon: "fa-ellipsis", Type: Expense},
	}
}

// DemoAccounts is the sample dataset a demo session starts from.
// The three balances sum to 167500.
func DemoAccounts() []Account {
	return []Account{
		{ID: "acc-1", Name: "Cathay Payroll", Balance: 45000, Type: AccountSavings, Color: "bg-green-600"},
		{ID: "acc-2", Name: "Taishin Richart", Balance: 120000, Type: AccountChecking, Color: "bg-red-500"},
		{ID: "acc-3", Name: "Cash", Balance: 2500, Type: AccountCash, Color: "bg-slate-700"},
	}
}

// DemoTransactions is the sample activity feed paired with DemoAccounts.
func DemoTransactions() []Transaction {
	return []Transaction{
		{ID: "t-1", AccountID: "acc-1", CategoryID: "5", Amount: 50000, Date: "2023-10-05", Description: "September salary", Type: Income},
		{ID: "t-2", AccountID: "acc-3", CategoryID: "1", Amount: 150, Date: "2023-10-06", Description: "Breakfast sandwich", Type: Expense},
		{ID: "t-3", AccountID: "acc-2", CategoryID: "4", Amount: 3500, Date: "2023-10-07", Description: "New headphones", Type: Expense},
		{ID: "t-4", AccountID: "acc-1", CategoryID: "7", Amount: 12000, Date: "2023-10-10", Description: "Rent transfer", Type: Expense},
		{ID: "t-5", AccountID: "acc-2", CategoryID: "2", Amount: 500, Date: "2023-10-12", Description: "Fuel", Type: Expense},
	}
}

// DemoSnapshot assembles the full seed dataset for a fresh demo session.
func DemoSnapshot() Snapshot {
	return Snapshot{
		Accounts:     DemoAccounts(),
		Transactions: DemoTransactions(),
		Categories:   DefaultCategories(),
	}
}

// EmptySnapshot is the starting state for a Pro user with no persisted data.
// Categories still hydrate from the default set; only accounts and
// transactions are persisted.
func EmptySnapshot() Snapshot {
	return Snapshot{
		Accounts:     []Account{},
		Transactions: []Transaction{},
		Categories:   DefaultCategories(),
	}
}
