// Package advice produces AI-generated commentary on a ledger snapshot. It
// is a pure collaborator: snapshot in, natural-language string out, no side
// effects on the ledger. Failures always degrade to fixed placeholder text
// and never propagate into the persistence layer.
package advice

import (
	"context"

	"github.com/dvloznov/fingemini/internal/domain"
)

// Placeholder texts shown when the model cannot be reached or returns
// nothing usable.
const (
	FallbackEmpty       = "The analysis could not be generated. Please try again later."
	FallbackUnavailable = "The AI advisor is currently unreachable. Please check your network or API key configuration."
)

// Advisor turns a ledger snapshot into financial commentary. Implementations
// may fail; callers use Get or GetStatus to recover.
type Advisor interface {
	Advise(ctx context.Context, snapshot domain.Snapshot) (string, error)
}

// Result is the status-carrying variant of an advice response.
type Result struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Get returns the advisor's commentary, degrading any failure to the fixed
// placeholder string.
func Get(ctx context.Context, advisor Advisor, snapshot domain.Snapshot) string {
	text, err := advisor.Advise(ctx, snapshot)
	if err != nil {
		return FallbackUnavailable
	}
	if text == "" {
		return FallbackEmpty
	}
	return text
}

// GetStatus is the Result-returning variant of Get. Status is "ok" on
// success and "error" on a degraded response.
func GetStatus(ctx context.Context, advisor Advisor, snapshot domain.Snapshot) Result {
	text, err := advisor.Advise(ctx, snapshot)
	if err != nil {
		return Result{Status: "error", Message: FallbackUnavailable}
	}
	if text == "" {
		return Result{Status: "error", Message: FallbackEmpty}
	}
	return Result{Status: "ok", Message: text}
}
