package database

import (
	"context"
	"errors"
	"fmt"
	"fundry/models"
	"log"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const (
	defaultLimit = 100
	maxLimit     = 1000
)

const fundingColumns = `id, project_id, amount, total_after_update, type,
	source, updated_by, updated_at, COALESCE(date_text, '')`

// HistoryQuery holds the optional filters accepted by GetHistory.
// Times are RFC3339 strings straight from query parameters.
type HistoryQuery struct {
	StartTime string `form:"start_time"`
	EndTime   string `form:"end_time"`
	Type      string `form:"type"`
	Limit     int    `form:"limit"`
	Offset    int    `form:"offset"`
}

// AddFunds increases a project's available balance and appends a
// "funding" entry to its history. Both writes happen in one transaction
// with the project row locked, so a failure leaves no partial state.
// Only the project owner may add funds. Returns the new balance.
func (db *DB) AddFunds(ctx context.Context, callerID, projectID uuid.UUID, amount float64, source string) (float64, error) {
	if !validAmount(amount) {
		return 0, ErrInvalidAmount
	}

	start := time.Now()
	defer func() {
		log.Printf("AddFunds: duration=%v project=%s amount=%v", time.Since(start), projectID, amount)
	}()

	var newBalance float64
	err := pgx.BeginFunc(ctx, db.Pool, func(tx pgx.Tx) error {
		project, err := lockProject(ctx, tx, projectID)
		if err != nil {
			return err
		}
		if project.UserID != callerID {
			return ErrNotProjectOwner
		}

		newBalance = project.AvailableFunds + amount
		if err := applyLedgerWrite(ctx, tx, projectID, newBalance, project.UsedFunds, models.FundingEntry{
			ProjectID:        projectID,
			Amount:           amount,
			TotalAfterUpdate: newBalance,
			Type:             models.FundingTypeAddition,
			Source:           source,
			UpdatedBy:        callerID,
		}); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return newBalance, nil
}

// RecordExpense decreases the available balance, grows the lifetime
// used-funds counter and appends an "expense" entry with a negative
// amount. Fails with ErrInsufficientFunds when the expense exceeds the
// available balance; no state changes on any failure.
func (db *DB) RecordExpense(ctx context.Context, callerID, projectID uuid.UUID, amount float64, description string) (float64, error) {
	if !validAmount(amount) {
		return 0, ErrInvalidAmount
	}

	start := time.Now()
	defer func() {
		log.Printf("RecordExpense: duration=%v project=%s amount=%v", time.Since(start), projectID, amount)
	}()

	var newBalance float64
	err := pgx.BeginFunc(ctx, db.Pool, func(tx pgx.Tx) error {
		project, err := lockProject(ctx, tx, projectID)
		if err != nil {
			return err
		}
		if project.UserID != callerID {
			return ErrNotProjectOwner
		}
		if amount > project.AvailableFunds {
			return ErrInsufficientFunds
		}

		newBalance = project.AvailableFunds - amount
		if err := applyLedgerWrite(ctx, tx, projectID, newBalance, project.UsedFunds+amount, models.FundingEntry{
			ProjectID:        projectID,
			Amount:           -amount,
			TotalAfterUpdate: newBalance,
			Type:             models.FundingTypeExpense,
			Source:           description,
			UpdatedBy:        callerID,
		}); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return newBalance, nil
}

// GetBalance returns the project's available funds. Restricted to the
// project owner, like every ledger operation.
func (db *DB) GetBalance(ctx context.Context, callerID, projectID uuid.UUID) (float64, error) {
	project, err := db.ownedProject(ctx, callerID, projectID)
	if err != nil {
		return 0, err
	}
	return project.AvailableFunds, nil
}

// GetUsedFunds recomputes the lifetime spend as the absolute sum of all
// negative history entries. The cached used_funds column is deliberately
// not trusted here; this doubles as a consistency cross-check against
// the history log.
func (db *DB) GetUsedFunds(ctx context.Context, callerID, projectID uuid.UUID) (float64, error) {
	if _, err := db.ownedProject(ctx, callerID, projectID); err != nil {
		return 0, err
	}

	query := `
		SELECT COALESCE(SUM(ABS(amount)), 0)
		FROM funding_history
		WHERE project_id = $1 AND amount < 0
	`

	var used float64
	if err := db.Pool.QueryRow(ctx, query, projectID).Scan(&used); err != nil {
		return 0, fmt.Errorf("failed to sum expenses: %w", err)
	}

	return used, nil
}

// GetHistory returns the project's funding history, newest first,
// optionally filtered by entry type and updated_at range.
func (db *DB) GetHistory(ctx context.Context, callerID, projectID uuid.UUID, params HistoryQuery) ([]models.FundingEntry, error) {
	if _, err := db.ownedProject(ctx, callerID, projectID); err != nil {
		return nil, err
	}

	qb := NewQueryBuilder()
	qb.AddCondition(columnProjectID, projectID)
	if params.Type != "" {
		qb.AddCondition(columnType, params.Type)
	}
	if err := qb.AddTimeRange(columnUpdatedAt, params.StartTime, params.EndTime); err != nil {
		return nil, err
	}

	limit := validateLimit(params.Limit, defaultLimit, maxLimit)
	offset := validateOffset(params.Offset)

	query := fmt.Sprintf(`
		SELECT %s
		FROM funding_history
		%s
		ORDER BY %s DESC
		LIMIT $%d OFFSET $%d
	`, fundingColumns, qb.WhereClause(), columnUpdatedAt, qb.NextArgNum(), qb.NextArgNum()+1)

	args := append(qb.Args(), limit, offset)

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query funding history: %w", err)
	}
	defer rows.Close()

	return scanFundingEntries(rows)
}

// ListFundingEntries returns a project's full history oldest first,
// without an ownership check. Reserved for the report aggregator, which
// scopes by owned-project listing before fanning out.
func (db *DB) ListFundingEntries(ctx context.Context, projectID uuid.UUID) ([]models.FundingEntry, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM funding_history
		WHERE %s = $1
		ORDER BY %s ASC
	`, fundingColumns, columnProjectID, columnUpdatedAt)

	rows, err := db.Pool.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to query funding history: %w", err)
	}
	defer rows.Close()

	return scanFundingEntries(rows)
}

// Helper functions

func validAmount(amount float64) bool {
	return amount >= 0 && !math.IsInf(amount, 0) && !math.IsNaN(amount)
}

func lockProject(ctx context.Context, tx pgx.Tx, projectID uuid.UUID) (*models.Project, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM projects
		WHERE id = $1
		FOR UPDATE
	`, projectColumns)

	project, err := scanProject(tx.QueryRow(ctx, query, projectID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to lock project: %w", err)
	}
	return project, nil
}

func applyLedgerWrite(ctx context.Context, tx pgx.Tx, projectID uuid.UUID, availableFunds, usedFunds float64, entry models.FundingEntry) error {
	updateQuery := `
		UPDATE projects
		SET available_funds = $2, used_funds = $3, updated_at = NOW()
		WHERE id = $1
	`
	if _, err := tx.Exec(ctx, updateQuery, projectID, availableFunds, usedFunds); err != nil {
		return fmt.Errorf("failed to update project funds: %w", err)
	}

	insertQuery := `
		INSERT INTO funding_history (project_id, amount, total_after_update, type, source, updated_by)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	if _, err := tx.Exec(ctx, insertQuery,
		entry.ProjectID, entry.Amount, entry.TotalAfterUpdate, entry.Type, entry.Source, entry.UpdatedBy); err != nil {
		return fmt.Errorf("failed to append funding history: %w", err)
	}

	return nil
}

func (db *DB) ownedProject(ctx context.Context, callerID, projectID uuid.UUID) (*models.Project, error) {
	project, err := db.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project.UserID != callerID {
		return nil, ErrNotProjectOwner
	}
	return project, nil
}

func scanFundingEntry(row rowScanner) (*models.FundingEntry, error) {
	var entry models.FundingEntry
	err := row.Scan(
		&entry.ID,
		&entry.ProjectID,
		&entry.Amount,
		&entry.TotalAfterUpdate,
		&entry.Type,
		&entry.Source,
		&entry.UpdatedBy,
		&entry.UpdatedAt,
		&entry.DateText,
	)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func scanFundingEntries(rows rowsScanner) ([]models.FundingEntry, error) {
	entries := []models.FundingEntry{}
	for rows.Next() {
		entry, err := scanFundingEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan funding entry: %w", err)
		}
		entries = append(entries, *entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating funding history: %w", err)
	}

	return entries, nil
}
