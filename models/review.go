package models

import (
	"time"

	"github.com/google/uuid"
)

// Review links a reviewer to a project with their feedback. Reviews are
// created by the peer-review workflow and consumed read-only here.
type Review struct {
	ID         uuid.UUID `json:"id"`
	ProjectID  uuid.UUID `json:"project_id"`
	ReviewerID uuid.UUID `json:"reviewer_id"`
	Feedback   string    `json:"feedback"`
	ReviewedAt time.Time `json:"reviewed_at"`
}
