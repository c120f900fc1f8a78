package domain

import (
	"strings"
	"testing"
	"time"
)

func TestNewIDs_UniqueWithinSameMillisecond(t *testing.T) {
	now := time.Now()

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewTransactionID(now)
		if seen[id] {
			t.Fatalf("duplicate transaction ID %s", id)
		}
		seen[id] = true
	}
}

func TestNewIDs_Prefixes(t *testing.T) {
	now := time.Now()
	if id := NewAccountID(now); !strings.HasPrefix(id, "acc-") {
		t.Errorf("NewAccountID() = %s, want acc- prefix", id)
	}
	if id := NewTransactionID(now); !strings.HasPrefix(id, "tx-") {
		t.Errorf("NewTransactionID() = %s, want tx- prefix", id)
	}
}

func TestDemoSnapshot(t *testing.T) {
	snap := DemoSnapshot()

	var total float64
	for _, acc := range snap.Accounts {
		total += acc.Balance
	}
	if total != 167500 {
		t.Errorf("demo accounts total %v, want 167500", total)
	}
	if len(snap.Transactions) != 5 {
		t.Errorf("demo transactions = %d, want 5", len(snap.Transactions))
	}

	// Amounts are magnitudes; none may be negative.
	for _, tx := range snap.Transactions {
		if tx.Amount < 0 {
			t.Errorf("transaction %s has negative amount %v", tx.ID, tx.Amount)
		}
	}
}

func TestDefaultsReturnFreshCopies(t *testing.T) {
	a := DemoAccounts()
	a[0].Balance = 0
	if DemoAccounts()[0].Balance == 0 {
		t.Error("DemoAccounts must return a fresh copy per call")
	}

	c := DefaultCategories()
	c[0].Name = "changed"
	if DefaultCategories()[0].Name == "changed" {
		t.Error("DefaultCategories must return a fresh copy per call")
	}
}

func TestEmptySnapshot(t *testing.T) {
	snap := EmptySnapshot()
	if snap.Accounts == nil || snap.Transactions == nil {
		t.Error("empty snapshot collections must be non-nil")
	}
	if len(snap.Categories) == 0 {
		t.Error("empty snapshot still hydrates default categories")
	}
}
