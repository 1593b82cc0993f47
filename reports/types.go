package reports

import (
	"context"
	"errors"
	"fundry/database"
	"fundry/models"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store is the slice of the database layer the aggregator reads from.
// *database.DB satisfies it; tests substitute fakes.
type Store interface {
	ListProjectsByUser(ctx context.Context, userID uuid.UUID, projectIDs []uuid.UUID) ([]models.Project, error)
	ListFundingEntries(ctx context.Context, projectID uuid.UUID) ([]models.FundingEntry, error)
	ListFolders(ctx context.Context, projectID uuid.UUID) ([]models.Folder, error)
	ListFiles(ctx context.Context, folderID uuid.UUID) ([]models.File, error)
	ListReviewsByReviewer(ctx context.Context, reviewerID uuid.UUID) ([]models.Review, error)
	GetProject(ctx context.Context, projectID uuid.UUID) (*models.Project, error)
	GetUser(ctx context.Context, userID uuid.UUID) (*models.User, error)
}

// Filters narrows an export. StartDate/EndDate are inclusive and apply
// to each entry's effective date; ProjectIDs is an allow-list over the
// caller's own projects.
type Filters struct {
	StartDate  *time.Time
	EndDate    *time.Time
	ProjectIDs []uuid.UUID
}

// Report row shapes. These are transient: built per export call,
// serialized, discarded. Date fields are pre-rendered strings so legacy
// text dates pass through exactly as stored.

type FundingRow struct {
	ProjectName string
	Amount      float64
	Source      string
	Type        string
	AddedBy     string
	UpdatedAt   string
}

type FileRow struct {
	ProjectName string
	FolderName  string
	FileName    string
	UploadedBy  string
	UploadedAt  string
}

type ReviewRow struct {
	ProjectTitle       string
	ProjectDescription string
	ResearcherName     string
	Feedback           string
	ReviewDate         string
}

type OverviewRow struct {
	ProjectName    string
	Description    string
	Status         string
	CreatedDate    string
	LastUpdated    string
	AvailableFunds float64
	UsedFunds      float64
}

type ProgressRow struct {
	ProjectName    string
	Progress       int
	TotalGoals     int
	CompletedGoals int
	Status         string
	LastUpdated    string
}

type TeamRow struct {
	ProjectName      string
	CollaboratorName string
	Role             string
	AccessLevel      string
	Permissions      models.Permissions
}

// nameCache memoizes user display-name lookups for one aggregation
// call. It exists to deduplicate remote reads within a single export,
// never to cache across calls; every aggregation creates a fresh one.
// Safe for the concurrent fan-out paths.
type nameCache struct {
	store Store

	mu    sync.Mutex
	names map[uuid.UUID]string
}

func newNameCache(store Store) *nameCache {
	return &nameCache{
		store: store,
		names: map[uuid.UUID]string{},
	}
}

// DisplayName resolves a user id to a name, memoized. Users that no
// longer exist resolve to "Unknown"; store failures propagate.
func (c *nameCache) DisplayName(ctx context.Context, userID uuid.UUID) (string, error) {
	c.mu.Lock()
	name, ok := c.names[userID]
	c.mu.Unlock()
	if ok {
		return name, nil
	}

	user, err := c.store.GetUser(ctx, userID)
	if err != nil {
		if !errors.Is(err, database.ErrUserNotFound) {
			return "", err
		}
		name = "Unknown"
	} else {
		name = user.Name
	}

	c.mu.Lock()
	c.names[userID] = name
	c.mu.Unlock()
	return name, nil
}

// projectCache memoizes project lookups for the review aggregation
// path. Same per-call scoping rule as nameCache. Missing projects are
// memoized as nil so orphaned reviews cost one lookup, not one each.
type projectCache struct {
	store Store

	mu       sync.Mutex
	projects map[uuid.UUID]*models.Project
}

func newProjectCache(store Store) *projectCache {
	return &projectCache{
		store:    store,
		projects: map[uuid.UUID]*models.Project{},
	}
}

func (c *projectCache) Get(ctx context.Context, projectID uuid.UUID) (*models.Project, error) {
	c.mu.Lock()
	project, ok := c.projects[projectID]
	c.mu.Unlock()
	if ok {
		return project, nil
	}

	project, err := c.store.GetProject(ctx, projectID)
	if err != nil {
		if !errors.Is(err, database.ErrProjectNotFound) {
			return nil, err
		}
		project = nil
	}

	c.mu.Lock()
	c.projects[projectID] = project
	c.mu.Unlock()
	return project, nil
}
