package database

import (
	"context"
	"fmt"
	"fundry/models"

	"github.com/google/uuid"
)

func (db *DB) ListReviewsByReviewer(ctx context.Context, reviewerID uuid.UUID) ([]models.Review, error) {
	query := `
		SELECT id, project_id, reviewer_id, feedback, reviewed_at
		FROM reviews
		WHERE reviewer_id = $1
		ORDER BY reviewed_at DESC
	`

	rows, err := db.Pool.Query(ctx, query, reviewerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer rows.Close()

	reviews := []models.Review{}
	for rows.Next() {
		var review models.Review
		err := rows.Scan(
			&review.ID,
			&review.ProjectID,
			&review.ReviewerID,
			&review.Feedback,
			&review.ReviewedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, review)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reviews: %w", err)
	}

	return reviews, nil
}

// InsertReview exists for test fixtures; reviews are produced by the
// peer-review workflow outside this service.
func (db *DB) InsertReview(ctx context.Context, review models.Review) (uuid.UUID, error) {
	query := `
		INSERT INTO reviews (project_id, reviewer_id, feedback, reviewed_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	var id uuid.UUID
	if err := db.Pool.QueryRow(ctx, query,
		review.ProjectID, review.ReviewerID, review.Feedback, review.ReviewedAt).Scan(&id); err != nil {
		return uuid.Nil, fmt.Errorf("failed to insert review: %w", err)
	}
	return id, nil
}
