package ledger

import (
	"testing"

	"github.com/dvloznov/fingemini/internal/domain"
)

func TestStore_HydrateAndSnapshot(t *testing.T) {
	store := NewStore()
	store.Hydrate(domain.DemoSnapshot())

	snap := store.Snapshot()
	if len(snap.Accounts) != 3 {
		t.Errorf("accounts = %d, want 3", len(snap.Accounts))
	}
	if len(snap.Transactions) != 5 {
		t.Errorf("transactions = %d, want 5", len(snap.Transactions))
	}
	if len(snap.Categories) != 8 {
		t.Errorf("categories = %d, want 8", len(snap.Categories))
	}
}

func TestStore_ReplaceCollections(t *testing.T) {
	store := NewStore()
	store.Hydrate(domain.DemoSnapshot())

	store.SetAccounts([]domain.Account{{ID: "only", Name: "Only"}})
	if got := store.Accounts(); len(got) != 1 || got[0].ID != "only" {
		t.Errorf("SetAccounts did not replace the collection: %+v", got)
	}

	store.SetTransactions(nil)
	if got := store.Transactions(); len(got) != 0 {
		t.Errorf("SetTransactions(nil) left %d transactions", len(got))
	}

	// Other collections are untouched by a single setter.
	if got := store.Categories(); len(got) != 8 {
		t.Errorf("categories = %d, want 8", len(got))
	}
}

func TestStore_ReadsReturnCopies(t *testing.T) {
	store := NewStore()
	store.Hydrate(domain.DemoSnapshot())

	accounts := store.Accounts()
	accounts[0].Name = "mutated"

	if store.Accounts()[0].Name == "mutated" {
		t.Error("mutating a returned slice must not affect the store")
	}

	snap := store.Snapshot()
	snap.Transactions[0].Amount = -1
	if store.Transactions()[0].Amount == -1 {
		t.Error("mutating a snapshot must not affect the store")
	}
}

func TestStore_HydrateCopiesInput(t *testing.T) {
	store := NewStore()
	seed := domain.DemoSnapshot()
	store.Hydrate(seed)

	seed.Accounts[0].Balance = -42
	if store.Accounts()[0].Balance == -42 {
		t.Error("mutating the hydration input must not affect the store")
	}
}
