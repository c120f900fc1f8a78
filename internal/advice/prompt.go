package advice

import (
	"fmt"
	"strings"
	"time"

	"github.com/dvloznov/fingemini/internal/domain"
	"github.com/dvloznov/fingemini/internal/report"
)

// buildPrompt renders the snapshot's aggregates into the consultation
// prompt. The model sees derived figures only, never raw account numbers or
// identifiers.
func buildPrompt(snapshot domain.Snapshot, now time.Time) string {
	total := report.TotalBalance(snapshot.Accounts)
	income, expense := report.MonthSummary(snapshot.Transactions, now)
	rollup := report.ExpenseByCategory(snapshot.Transactions, snapshot.Categories)

	var b strings.Builder
	b.WriteString("You are a senior personal finance advisor with 20 years of experience.\n")
	b.WriteString("Analyze the following figures rigorously:\n\n")

	b.WriteString("CURRENT POSITION\n")
	fmt.Fprintf(&b, "- Total balance: %.2f\n", total)
	fmt.Fprintf(&b, "- Income this month: %.2f\n", income)
	fmt.Fprintf(&b, "- Expenses this month: %.2f\n\n", expense)

	b.WriteString("EXPENSE BREAKDOWN BY CATEGORY\n")
	if len(rollup) == 0 {
		b.WriteString("- (no expenses recorded)\n")
	}
	for _, ct := range rollup {
		fmt.Fprintf(&b, "- %s: %.2f\n", ct.Name, ct.Total)
	}
	b.WriteString("\n")

	b.WriteString("Provide advice covering three dimensions:\n")
	b.WriteString("1. Insight: identify financial risks or unusual spending (e.g. expense-to-income ratio too high).\n")
	b.WriteString("2. Strategy: suggest a concrete asset allocation for the current position.\n")
	b.WriteString("3. Action: three specific improvements for next month.\n\n")
	b.WriteString("Tone: professional, sincere and encouraging. Keep it around 300 words.\n")

	return b.String()
}
