package models

import (
	"time"

	"github.com/google/uuid"
)

// Funding history entry types. The ledger only ever writes these two;
// older imported rows may carry free-form types (e.g. "grant") which
// reports pass through untouched.
const (
	FundingTypeAddition = "funding"
	FundingTypeExpense  = "expense"
)

// FundingEntry is one record in a project's append-only funding history.
// Amount is signed: positive for additions, negative for expenses.
// TotalAfterUpdate snapshots the project's available balance immediately
// after the entry was applied. Entries are never updated or deleted.
type FundingEntry struct {
	ID               uuid.UUID `json:"id"`
	ProjectID        uuid.UUID `json:"project_id"`
	Amount           float64   `json:"amount"`
	TotalAfterUpdate float64   `json:"total_after_update"`
	Type             string    `json:"type"`
	Source           string    `json:"source"`
	UpdatedBy        uuid.UUID `json:"updated_by"`
	UpdatedAt        time.Time `json:"updated_at"`
	// DateText is a legacy fallback date string carried by rows imported
	// before UpdatedAt existed. Empty on all rows the ledger writes.
	DateText string `json:"date,omitempty"`
}

// EffectiveDate returns the timestamp used for date-range filtering:
// UpdatedAt when set, otherwise a parse of the legacy DateText field.
// The second return is false when neither yields a usable time.
func (e FundingEntry) EffectiveDate() (time.Time, bool) {
	if !e.UpdatedAt.IsZero() {
		return e.UpdatedAt, true
	}
	if e.DateText == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, e.DateText); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// AddFundsRequest is the payload for adding funds to a project.
type AddFundsRequest struct {
	Amount float64 `json:"amount"`
	Source string  `json:"source"`
}

// RecordExpenseRequest is the payload for recording an expense.
type RecordExpenseRequest struct {
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
}

// FundingResponse is returned by ledger mutations and reads.
type FundingResponse struct {
	ProjectID      uuid.UUID      `json:"project_id"`
	AvailableFunds float64        `json:"available_funds"`
	UsedFunds      float64        `json:"used_funds"`
	History        []FundingEntry `json:"history,omitempty"`
}
