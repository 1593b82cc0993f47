package models

import (
	"time"

	"github.com/google/uuid"
)

// Goal is a single research goal on a project. Goals are stored as an
// ordered JSONB list; order is meaningful for progress reporting.
type Goal struct {
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// Permissions controls what a collaborator may do on a project.
type Permissions struct {
	CanEditProject bool `json:"canEditProject"`
	CanViewFiles   bool `json:"canViewFiles"`
	CanManageTeam  bool `json:"canManageTeam"`
}

// Collaborator is a team member attached to a project. Collaborators are
// descriptive records, not user accounts; access enforcement happens at
// the owning-user level.
type Collaborator struct {
	Name        string      `json:"name"`
	Role        string      `json:"role"`
	AccessLevel string      `json:"accessLevel"`
	Permissions Permissions `json:"permissions"`
}

// Project represents a research project. Each project is exclusively
// owned by the user that created it; all funding mutations verify the
// caller against UserID. AvailableFunds never goes negative and
// UsedFunds only ever grows (lifetime spend counter).
type Project struct {
	ID             uuid.UUID      `json:"id" db:"id"`
	UserID         uuid.UUID      `json:"user_id" db:"user_id"`
	Title          string         `json:"title" binding:"required,min=3,max=255" db:"title"`
	Description    string         `json:"description" db:"description"`
	Field          string         `json:"field" db:"field"`
	Status         string         `json:"status" db:"status"`
	AvailableFunds float64        `json:"available_funds" db:"available_funds"`
	UsedFunds      float64        `json:"used_funds" db:"used_funds"`
	Goals          []Goal         `json:"goals,omitempty" db:"goals"`
	Collaborators  []Collaborator `json:"collaborators,omitempty" db:"collaborators"`
	CreatedAt      time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at" db:"updated_at"`
}

// CreateProjectRequest is the payload for creating a new project.
// Title is validated to be 3-255 characters.
type CreateProjectRequest struct {
	Title       string `json:"title" binding:"required,min=3,max=255"`
	Description string `json:"description"`
	Field       string `json:"field"`
}

// ProjectsResponse is the standard response format for project listings.
// Includes total count for potential pagination in the future.
type ProjectsResponse struct {
	Projects []Project `json:"projects"`
	Total    int       `json:"total"`
}
