// Package mirror is the optional remote side of the dual-write persistence:
// one JSON document per user identity, consulted first on load and written
// best-effort on save. Demo sessions never touch it and the system must stay
// fully usable when it is unconfigured or unreachable.
package mirror

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dvloznov/fingemini/internal/domain"
)

// ErrNotFound is returned when no document exists for the user.
var ErrNotFound = errors.New("mirror: document not found")

// Document is the remote per-user payload. Accounts and transactions absent
// from the stored object decode to empty collections rather than nil, so the
// deserialization boundary never hands the caller a partially-shaped
// document.
type Document struct {
	Accounts     []domain.Account     `json:"accounts"`
	Transactions []domain.Transaction `json:"transactions"`
	LastUpdated  string               `json:"lastUpdated"`
}

// Mirror is the remote persistence contract.
type Mirror interface {
	// Load reads the user's document. Returns ErrNotFound when none exists.
	Load(ctx context.Context, userID string) (*Document, error)

	// Save upserts the user's document with merge semantics: fields outside
	// Document are preserved as stored.
	Save(ctx context.Context, userID string, doc *Document) error
}

// decodeDocument parses raw JSON into a Document, defaulting absent
// collections to empty ones.
func decodeDocument(raw []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decodeDocument: %w", err)
	}
	if doc.Accounts == nil {
		doc.Accounts = []domain.Account{}
	}
	if doc.Transactions == nil {
		doc.Transactions = []domain.Transaction{}
	}
	return &doc, nil
}

// mergeDocument overlays the document's fields onto the previously stored
// object, leaving unknown fields untouched.
func mergeDocument(existing []byte, doc *Document) ([]byte, error) {
	fields := make(map[string]json.RawMessage)
	if len(existing) > 0 {
		// A corrupt stored object is replaced outright rather than failing
		// the save.
		_ = json.Unmarshal(existing, &fields)
		if fields == nil {
			fields = make(map[string]json.RawMessage)
		}
	}

	// Nil collections would encode as JSON null; the document schema always
	// carries arrays.
	docAccounts := doc.Accounts
	if docAccounts == nil {
		docAccounts = []domain.Account{}
	}
	docTransactions := doc.Transactions
	if docTransactions == nil {
		docTransactions = []domain.Transaction{}
	}

	accounts, err := json.Marshal(docAccounts)
	if err != nil {
		return nil, fmt.Errorf("mergeDocument: marshaling accounts: %w", err)
	}
	transactions, err := json.Marshal(docTransactions)
	if err != nil {
		return nil, fmt.Errorf("mergeDocument: marshaling transactions: %w", err)
	}
	lastUpdated, err := json.Marshal(doc.LastUpdated)
	if err != nil {
		return nil, fmt.Errorf("mergeDocument: marshaling lastUpdated: %w", err)
	}

	fields["accounts"] = accounts
	fields["transactions"] = transactions
	fields["lastUpdated"] = lastUpdated

	merged, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("mergeDocument: marshaling document: %w", err)
	}
	return merged, nil
}
