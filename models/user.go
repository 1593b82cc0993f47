package models

import (
	"time"

	"github.com/google/uuid"
)

// User roles. Admin dashboards live outside this service; the role is
// stored so reports and auth can distinguish researchers from reviewers.
const (
	RoleResearcher = "researcher"
	RoleReviewer   = "reviewer"
	RoleAdmin      = "admin"
)

// User is an account in the system. The API key is the bearer
// credential presented on every authenticated request.
type User struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" binding:"required,min=2,max=255" db:"name"`
	Email     string    `json:"email" binding:"required,email" db:"email"`
	APIKey    string    `json:"api_key" db:"api_key"`
	Role      string    `json:"role" db:"role"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
