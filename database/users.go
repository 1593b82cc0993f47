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

func (db *DB) GetUserByAPIKey(ctx context.Context, apiKey string) (*models.User, error) {
	query := `
		SELECT id, name, email, api_key, role, created_at
		FROM users
		WHERE api_key = $1
	`

	user, err := scanUser(db.Pool.QueryRow(ctx, query, apiKey))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

func (db *DB) GetUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	query := `
		SELECT id, name, email, api_key, role, created_at
		FROM users
		WHERE id = $1
	`

	user, err := scanUser(db.Pool.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

func (db *DB) CreateUser(ctx context.Context, name, email, role string) (*models.User, error) {
	apiKey := generateAPIKey()

	query := `
		INSERT INTO users (name, email, api_key, role)
		VALUES ($1, $2, $3, $4)
		RETURNING id, name, email, api_key, role, created_at
	`

	user, err := scanUser(db.Pool.QueryRow(ctx, query, name, email, apiKey, role))
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	log.Printf("Created user: %s (ID: %s)", user.Email, user.ID)
	return user, nil
}

// Helper functions

func generateAPIKey() string {
	return fmt.Sprintf("fndy_%s", uuid.New().String())
}

func scanUser(row rowScanner) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.APIKey,
		&user.Role,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
