package database

import (
	"context"
	"errors"
	"fmt"
	"fundry/models"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const projectColumns = `id, user_id, title, description, field, status,
	available_funds, used_funds, goals, collaborators, created_at, updated_at`

func (db *DB) CreateProject(ctx context.Context, userID uuid.UUID, req models.CreateProjectRequest) (*models.Project, error) {
	query := fmt.Sprintf(`
		INSERT INTO projects (user_id, title, description, field)
		VALUES ($1, $2, $3, $4)
		RETURNING %s
	`, projectColumns)

	project, err := scanProject(db.Pool.QueryRow(ctx, query, userID, req.Title, req.Description, req.Field))
	if err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	log.Printf("Created project: %s (ID: %s)", project.Title, project.ID)
	return project, nil
}

func (db *DB) GetProject(ctx context.Context, projectID uuid.UUID) (*models.Project, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM projects
		WHERE id = $1
	`, projectColumns)

	project, err := scanProject(db.Pool.QueryRow(ctx, query, projectID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	return project, nil
}

// ListProjectsByUser returns the projects owned by userID, newest first.
// When projectIDs is non-empty the result is restricted to that
// allow-list (export filters).
func (db *DB) ListProjectsByUser(ctx context.Context, userID uuid.UUID, projectIDs []uuid.UUID) ([]models.Project, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM projects
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, projectColumns)
	args := []interface{}{userID}

	if len(projectIDs) > 0 {
		query = fmt.Sprintf(`
			SELECT %s
			FROM projects
			WHERE user_id = $1 AND id = ANY($2)
			ORDER BY created_at DESC
		`, projectColumns)
		args = append(args, projectIDs)
	}

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	return scanProjects(rows)
}

func (db *DB) UpdateProjectGoals(ctx context.Context, projectID uuid.UUID, goals []models.Goal) error {
	query := `
		UPDATE projects
		SET goals = $2, updated_at = NOW()
		WHERE id = $1
	`

	result, err := db.Pool.Exec(ctx, query, projectID, goals)
	if err != nil {
		return fmt.Errorf("failed to update project goals: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrProjectNotFound
	}

	return nil
}

func (db *DB) UpdateProjectCollaborators(ctx context.Context, projectID uuid.UUID, collaborators []models.Collaborator) error {
	query := `
		UPDATE projects
		SET collaborators = $2, updated_at = NOW()
		WHERE id = $1
	`

	result, err := db.Pool.Exec(ctx, query, projectID, collaborators)
	if err != nil {
		return fmt.Errorf("failed to update project collaborators: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrProjectNotFound
	}

	return nil
}

// Helper functions

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProject(row rowScanner) (*models.Project, error) {
	var project models.Project
	err := row.Scan(
		&project.ID,
		&project.UserID,
		&project.Title,
		&project.Description,
		&project.Field,
		&project.Status,
		&project.AvailableFunds,
		&project.UsedFunds,
		&project.Goals,
		&project.Collaborators,
		&project.CreatedAt,
		&project.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &project, nil
}

type rowsScanner interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

func scanProjects(rows rowsScanner) ([]models.Project, error) {
	projects := []models.Project{}
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, *project)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating projects: %w", err)
	}

	return projects, nil
}
