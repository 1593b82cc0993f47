package reports

import (
	"context"
	"fmt"
	"fundry/models"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

// Aggregator joins store records into the flat row sets the formatters
// consume. Every operation takes the owner's id explicitly; there is no
// ambient current-user state. A store failure aborts the whole
// aggregation for that report type; partial row sets are never returned.
type Aggregator struct {
	store Store
}

func NewAggregator(store Store) *Aggregator {
	return &Aggregator{store: store}
}

// FundingRows produces one row per (owned project, history entry) pair,
// oldest entries first within each project. History fetches fan out
// concurrently and join before any row is built; one failed fetch fails
// the step. The date-range filter applies to each entry's effective
// date (updated_at, else the legacy date string).
func (a *Aggregator) FundingRows(ctx context.Context, userID uuid.UUID, filters Filters) ([]FundingRow, error) {
	projects, err := a.store.ListProjectsByUser(ctx, userID, filters.ProjectIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch project funding data: %w", err)
	}

	histories := make([][]models.FundingEntry, len(projects))
	g, groupCtx := errgroup.WithContext(ctx)
	for i := range projects {
		i := i
		g.Go(func() error {
			entries, err := a.store.ListFundingEntries(groupCtx, projects[i].ID)
			if err != nil {
				return err
			}
			histories[i] = entries
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to fetch project funding data: %w", err)
	}

	names := newNameCache(a.store)
	rows := []FundingRow{}
	for i, project := range projects {
		for _, entry := range histories[i] {
			if !inDateRange(entry, filters) {
				continue
			}
			addedBy, err := names.DisplayName(ctx, entry.UpdatedBy)
			if err != nil {
				return nil, fmt.Errorf("failed to fetch project funding data: %w", err)
			}
			rows = append(rows, FundingRow{
				ProjectName: project.Title,
				Amount:      entry.Amount,
				Source:      entry.Source,
				Type:        entry.Type,
				AddedBy:     addedBy,
				UpdatedAt:   entryDate(entry),
			})
		}
	}

	return rows, nil
}

// FileRows walks every owned project's folders and files. Uploader ids
// resolve through a name cache created for this call only, so a user
// uploading many files costs one lookup.
func (a *Aggregator) FileRows(ctx context.Context, userID uuid.UUID, filters Filters) ([]FileRow, error) {
	projects, err := a.store.ListProjectsByUser(ctx, userID, filters.ProjectIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch project files data: %w", err)
	}

	names := newNameCache(a.store)

	type projectFiles struct {
		folder models.Folder
		files  []models.File
	}
	perProject := make([][]projectFiles, len(projects))

	g, groupCtx := errgroup.WithContext(ctx)
	for i := range projects {
		i := i
		g.Go(func() error {
			folders, err := a.store.ListFolders(groupCtx, projects[i].ID)
			if err != nil {
				return err
			}
			for _, folder := range folders {
				files, err := a.store.ListFiles(groupCtx, folder.ID)
				if err != nil {
					return err
				}
				perProject[i] = append(perProject[i], projectFiles{folder: folder, files: files})
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to fetch project files data: %w", err)
	}

	rows := []FileRow{}
	for i, project := range projects {
		for _, pf := range perProject[i] {
			for _, file := range pf.files {
				uploadedBy, err := names.DisplayName(ctx, file.UploadedBy)
				if err != nil {
					return nil, fmt.Errorf("failed to fetch project files data: %w", err)
				}
				rows = append(rows, FileRow{
					ProjectName: project.Title,
					FolderName:  pf.folder.Name,
					FileName:    file.FileName,
					UploadedBy:  uploadedBy,
					UploadedAt:  isoTimestamp(file.UploadedAt),
				})
			}
		}
	}

	return rows, nil
}

// ReviewRows covers the reviewer side: every review the given user
// wrote, joined with the reviewed project and its owner's name. Reviews
// whose project no longer exists are skipped.
func (a *Aggregator) ReviewRows(ctx context.Context, reviewerID uuid.UUID) ([]ReviewRow, error) {
	reviews, err := a.store.ListReviewsByReviewer(ctx, reviewerID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch reviewed projects: %w", err)
	}

	projectsByID := newProjectCache(a.store)
	names := newNameCache(a.store)

	rows := []ReviewRow{}
	for _, review := range reviews {
		project, err := projectsByID.Get(ctx, review.ProjectID)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch reviewed projects: %w", err)
		}
		if project == nil {
			continue
		}

		researcher, err := names.DisplayName(ctx, project.UserID)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch reviewed projects: %w", err)
		}

		rows = append(rows, ReviewRow{
			ProjectTitle:       project.Title,
			ProjectDescription: project.Description,
			ResearcherName:     researcher,
			Feedback:           review.Feedback,
			ReviewDate:         isoTimestamp(review.ReviewedAt),
		})
	}

	return rows, nil
}

// OverviewRows maps each owned project straight to a row; no
// sub-collection joins.
func (a *Aggregator) OverviewRows(ctx context.Context, userID uuid.UUID, filters Filters) ([]OverviewRow, error) {
	projects, err := a.store.ListProjectsByUser(ctx, userID, filters.ProjectIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch projects overview: %w", err)
	}

	return lo.Map(projects, func(p models.Project, _ int) OverviewRow {
		return OverviewRow{
			ProjectName:    p.Title,
			Description:    p.Description,
			Status:         p.Status,
			CreatedDate:    isoTimestamp(p.CreatedAt),
			LastUpdated:    isoTimestamp(p.UpdatedAt),
			AvailableFunds: p.AvailableFunds,
			UsedFunds:      p.UsedFunds,
		}
	}), nil
}

// ProgressRows derives goal completion per owned project. Progress is a
// whole percent, rounded; a project with no goals reports 0%.
func (a *Aggregator) ProgressRows(ctx context.Context, userID uuid.UUID, filters Filters) ([]ProgressRow, error) {
	projects, err := a.store.ListProjectsByUser(ctx, userID, filters.ProjectIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch project progress: %w", err)
	}

	return lo.Map(projects, func(p models.Project, _ int) ProgressRow {
		completed := lo.CountBy(p.Goals, func(g models.Goal) bool { return g.Completed })
		return ProgressRow{
			ProjectName:    p.Title,
			Progress:       progressPercent(completed, len(p.Goals)),
			TotalGoals:     len(p.Goals),
			CompletedGoals: completed,
			Status:         p.Status,
			LastUpdated:    isoTimestamp(p.UpdatedAt),
		}
	}), nil
}

// TeamRows flattens each owned project's collaborator list, one row per
// collaborator.
func (a *Aggregator) TeamRows(ctx context.Context, userID uuid.UUID, filters Filters) ([]TeamRow, error) {
	projects, err := a.store.ListProjectsByUser(ctx, userID, filters.ProjectIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch project teams: %w", err)
	}

	return lo.FlatMap(projects, func(p models.Project, _ int) []TeamRow {
		return lo.Map(p.Collaborators, func(c models.Collaborator, _ int) TeamRow {
			return TeamRow{
				ProjectName:      p.Title,
				CollaboratorName: c.Name,
				Role:             c.Role,
				AccessLevel:      c.AccessLevel,
				Permissions:      c.Permissions,
			}
		})
	}), nil
}

// Helper functions

func progressPercent(completed, total int) int {
	if total == 0 {
		return 0
	}
	return int(float64(completed)/float64(total)*100 + 0.5)
}

func inDateRange(entry models.FundingEntry, filters Filters) bool {
	if filters.StartDate == nil && filters.EndDate == nil {
		return true
	}
	effective, ok := entry.EffectiveDate()
	if !ok {
		// Entries without a usable date survive filtering; dropping
		// legacy rows silently would understate funding totals.
		return true
	}
	if filters.StartDate != nil && effective.Before(*filters.StartDate) {
		return false
	}
	if filters.EndDate != nil && effective.After(*filters.EndDate) {
		return false
	}
	return true
}

// entryDate renders the entry's date for reporting: structured
// timestamps become ISO-8601, legacy text dates pass through unchanged.
func entryDate(entry models.FundingEntry) string {
	if !entry.UpdatedAt.IsZero() {
		return isoTimestamp(entry.UpdatedAt)
	}
	return entry.DateText
}

// isoTimestamp renders a timestamp as ISO-8601 with millisecond
// precision in UTC, e.g. 2025-01-01T00:00:00.000Z.
func isoTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format("2006-01-02T15:04:05.000Z07:00")
}
