// Package report derives every read-only financial view from a ledger
// snapshot. All functions are pure: same input, same output, no state.
// Views are recomputed on demand; nothing here is cached.
package report

import (
	"fmt"
	"sort"
	"time"

	"github.com/dvloznov/fingemini/internal/domain"
)

// UnresolvedCategory labels expense rows whose category reference dangles.
const UnresolvedCategory = "Other"

// UnresolvedAccount labels transactions whose account reference dangles.
const UnresolvedAccount = "Unknown account"

// RecentFeedSize is the length of the dashboard's summary activity feed.
const RecentFeedSize = 5

// CategoryTotal is one slice of the expense-by-category rollup.
type CategoryTotal struct {
	Name  string  `json:"name"`
	Total float64 `json:"total"`
}

// MonthFlow is one month of the income/expense series.
type MonthFlow struct {
	Month   time.Month `json:"month"`
	Income  float64    `json:"income"`
	Expense float64    `json:"expense"`
}

// TotalBalance sums all account balances. Credit accounts carry negative
// balances and subtract naturally; ordering does not matter.
func TotalBalance(accounts []domain.Account) float64 {
	var total float64
	for _, acc := range accounts {
		total += acc.Balance
	}
	return total
}

// MonthSummary sums income and expense magnitudes for transactions dated in
// the same calendar month and year as now. The comparison is on the ISO date's
// year-month components, not elapsed time, and polarity drives the partition -
// never the sign of the amount.
func MonthSummary(transactions []domain.Transaction, now time.Time) (income, expense float64) {
	prefix := now.Format("2006-01")
	for _, tx := range transactions {
		if !dateInMonth(tx.Date, prefix) {
			continue
		}
		switch tx.Type {
		case domain.Income:
			income += tx.Amount
		case domain.Expense:
			expense += tx.Amount
		}
	}
	return income, expense
}

// Recent returns the n most recent transactions, sorted by date descending.
// Ties keep their original relative order (stable sort), which makes the feed
// deterministic for a given snapshot. A negative n is treated as zero.
func Recent(transactions []domain.Transaction, n int) []domain.Transaction {
	if n < 0 {
		n = 0
	}
	sorted := append([]domain.Transaction(nil), transactions...)
	sort.SliceStable(sorted, func(i, j int) bool {
		// ISO dates compare chronologically as strings.
		return sorted[i].Date > sorted[j].Date
	})
	if n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}

// ExpenseByCategory accumulates expense magnitudes per resolved category
// name, in first-seen order. Unresolvable category references fall back to
// UnresolvedCategory rather than being dropped, so the rollup always sums to
// the total of all expense amounts.
func ExpenseByCategory(transactions []domain.Transaction, categories []domain.Category) []CategoryTotal {
	names := make(map[string]string, len(categories))
	for _, cat := range categories {
		names[cat.ID] = cat.Name
	}

	index := make(map[string]int)
	var rollup []CategoryTotal
	for _, tx := range transactions {
		if tx.Type != domain.Expense {
			continue
		}
		name, ok := names[tx.CategoryID]
		if !ok {
			name = UnresolvedCategory
		}
		if i, seen := index[name]; seen {
			rollup[i].Total += tx.Amount
		} else {
			index[name] = len(rollup)
			rollup = append(rollup, CategoryTotal{Name: name, Total: tx.Amount})
		}
	}
	return rollup
}

// MonthlySeries sums income and expense per calendar month of the given
// year. Months where both sums are zero are omitted; the rest keep calendar
// order.
func MonthlySeries(transactions []domain.Transaction, year int) []MonthFlow {
	var series []MonthFlow
	for m := time.January; m <= time.December; m++ {
		prefix := fmt.Sprintf("%04d-%02d", year, int(m))
		flow := MonthFlow{Month: m}
		for _, tx := range transactions {
			if !dateInMonth(tx.Date, prefix) {
				continue
			}
			switch tx.Type {
			case domain.Income:
				flow.Income += tx.Amount
			case domain.Expense:
				flow.Expense += tx.Amount
			}
		}
		if flow.Income > 0 || flow.Expense > 0 {
			series = append(series, flow)
		}
	}
	return series
}

// AccountName resolves a transaction's account reference for display.
// Deleting an account does not cascade to its transactions, so dangling
// references are expected and never an error.
func AccountName(accounts []domain.Account, accountID string) string {
	for _, acc := range accounts {
		if acc.ID == accountID {
			return acc.Name
		}
	}
	return UnresolvedAccount
}

// dateInMonth reports whether the ISO date falls in the "YYYY-MM" month.
func dateInMonth(date, prefix string) bool {
	return len(date) >= len(prefix) && date[:len(prefix)] == prefix
}
