package database

import (
	"context"
	"fmt"
	"fundry/models"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func createTestUser(t *testing.T, db *DB, name string) *models.User {
	t.Helper()

	email := fmt.Sprintf("%s-%s@example.com", name, uuid.New().String()[:8])
	user, err := db.CreateUser(context.Background(), name, email, models.RoleResearcher)
	require.NoError(t, err)
	return user
}

func createTestProject(t *testing.T, db *DB, userID uuid.UUID, title string) *models.Project {
	t.Helper()

	project, err := db.CreateProject(context.Background(), userID, models.CreateProjectRequest{
		Title:       title,
		Description: "test project",
		Field:       "Computational Biology",
	})
	require.NoError(t, err)
	return project
}
