package ledger

import (
	"sync"

	"github.com/dvloznov/fingemini/internal/domain"
)

// Store holds the canonical in-memory ledger state: accounts, transactions
// and categories. It exposes replace-whole-collection writes and copying
// reads only; there is no partial patch API. Persistence is the sync
// coordinator's job, validation the caller's.
//
// The ledger has a single logical writer (the request flow), but reads and
// the debounced save callback run on other goroutines, so access is
// mutex-guarded. Data is lost on restart - durability comes from the cache
// and mirror backends.
type Store struct {
	mu   sync.RWMutex
	snap domain.Snapshot
}

// NewStore creates an empty ledger store.
func NewStore() *Store {
	return &Store{snap: domain.EmptySnapshot()}
}

// Hydrate replaces the whole ledger state, typically with the snapshot the
// sync coordinator resolved on session entry.
func (s *Store) Hydrate(snap domain.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = copySnapshot(snap)
}

// SetAccounts replaces the account collection.
func (s *Store) SetAccounts(accounts []domain.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Accounts = append([]domain.Account(nil), accounts...)
}

// SetTransactions replaces the transaction collection.
func (s *Store) SetTransactions(transactions []domain.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Transactions = append([]domain.Transaction(nil), transactions...)
}

// SetCategories replaces the category collection.
func (s *Store) SetCategories(categories []domain.Category) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Categories = append([]domain.Category(nil), categories...)
}

// Accounts returns a copy of the account collection.
func (s *Store) Accounts() []domain.Account {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Account(nil), s.snap.Accounts...)
}

// Transactions returns a copy of the transaction collection.
func (s *Store) Transactions() []domain.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Transaction(nil), s.snap.Transactions...)
}

// Categories returns a copy of the category collection.
func (s *Store) Categories() []domain.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Category(nil), s.snap.Categories...)
}

// Snapshot returns a copy of the full ledger state.
func (s *Store) Snapshot() domain.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copySnapshot(s.snap)
}

func copySnapshot(snap domain.Snapshot) domain.Snapshot {
	return domain.Snapshot{
		Accounts:     append([]domain.Account(nil), snap.Accounts...),
		Transactions: append([]domain.Transaction(nil), snap.Transactions...),
		Categories:   append([]domain.Category(nil), snap.Categories...),
	}
}
