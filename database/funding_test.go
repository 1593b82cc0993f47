package database

import (
	"context"
	"testing"

	"fundry/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddFunds(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db := GetTestDB()
	CleanupTestDB(t, db)

	ctx := context.Background()
	owner := createTestUser(t, db, "Ada")
	project := createTestProject(t, db, owner.ID, "Protein Folding")

	balance, err := db.AddFunds(ctx, owner.ID, project.ID, 1000, "External Grant")
	require.NoError(t, err)
	assert.Equal(t, 1000.0, balance)

	got, err := db.GetBalance(ctx, owner.ID, project.ID)
	require.NoError(t, err)
	assert.Equal(t, 1000.0, got)

	history, err := db.GetHistory(ctx, owner.ID, project.ID, HistoryQuery{})
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, 1000.0, history[0].Amount)
	assert.Equal(t, 1000.0, history[0].TotalAfterUpdate)
	assert.Equal(t, models.FundingTypeAddition, history[0].Type)
	assert.Equal(t, "External Grant", history[0].Source)
	assert.Equal(t, owner.ID, history[0].UpdatedBy)
	assert.False(t, history[0].UpdatedAt.IsZero())
}

func TestAddFunds_Accumulates(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db := GetTestDB()
	CleanupTestDB(t, db)

	ctx := context.Background()
	owner := createTestUser(t, db, "Ada")
	project := createTestProject(t, db, owner.ID, "Protein Folding")

	_, err := db.AddFunds(ctx, owner.ID, project.ID, 500, "seed")
	require.NoError(t, err)
	balance, err := db.AddFunds(ctx, owner.ID, project.ID, 250, "top-up")
	require.NoError(t, err)
	assert.Equal(t, 750.0, balance)

	history, err := db.GetHistory(ctx, owner.ID, project.ID, HistoryQuery{})
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestAddFunds_InvalidAmount(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db := GetTestDB()
	CleanupTestDB(t, db)

	ctx := context.Background()
	owner := createTestUser(t, db, "Ada")
	project := createTestProject(t, db, owner.ID, "Protein Folding")

	_, err := db.AddFunds(ctx, owner.ID, project.ID, -100, "")
	assert.ErrorIs(t, err, ErrInvalidAmount)

	history, err := db.GetHistory(ctx, owner.ID, project.ID, HistoryQuery{})
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestAddFunds_NotOwner(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db := GetTestDB()
	CleanupTestDB(t, db)

	ctx := context.Background()
	owner := createTestUser(t, db, "Ada")
	stranger := createTestUser(t, db, "Mallory")
	project := createTestProject(t, db, owner.ID, "Protein Folding")

	_, err := db.AddFunds(ctx, stranger.ID, project.ID, 100, "")
	assert.ErrorIs(t, err, ErrNotProjectOwner)

	balance, err := db.GetBalance(ctx, owner.ID, project.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, balance)
}

func TestAddFunds_ProjectNotFound(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db := GetTestDB()
	CleanupTestDB(t, db)

	ctx := context.Background()
	owner := createTestUser(t, db, "Ada")

	_, err := db.AddFunds(ctx, owner.ID, uuid.New(), 100, "")
	assert.ErrorIs(t, err, ErrProjectNotFound)
}

func TestRecordExpense(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db := GetTestDB()
	CleanupTestDB(t, db)

	ctx := context.Background()
	owner := createTestUser(t, db, "Ada")
	project := createTestProject(t, db, owner.ID, "Protein Folding")

	_, err := db.AddFunds(ctx, owner.ID, project.ID, 1000, "grant")
	require.NoError(t, err)

	balance, err := db.RecordExpense(ctx, owner.ID, project.ID, 300, "sequencer rental")
	require.NoError(t, err)
	assert.Equal(t, 700.0, balance)

	used, err := db.GetUsedFunds(ctx, owner.ID, project.ID)
	require.NoError(t, err)
	assert.Equal(t, 300.0, used)

	history, err := db.GetHistory(ctx, owner.ID, project.ID, HistoryQuery{})
	require.NoError(t, err)
	require.Len(t, history, 2)

	// Newest first: the expense entry leads.
	assert.Equal(t, -300.0, history[0].Amount)
	assert.Equal(t, 700.0, history[0].TotalAfterUpdate)
	assert.Equal(t, models.FundingTypeExpense, history[0].Type)
}

func TestRecordExpense_UsedFundsRecomputedFromHistory(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db := GetTestDB()
	CleanupTestDB(t, db)

	ctx := context.Background()
	owner := createTestUser(t, db, "Ada")
	project := createTestProject(t, db, owner.ID, "Protein Folding")

	_, err := db.AddFunds(ctx, owner.ID, project.ID, 1000, "grant")
	require.NoError(t, err)
	_, err = db.RecordExpense(ctx, owner.ID, project.ID, 100, "reagents")
	require.NoError(t, err)
	_, err = db.RecordExpense(ctx, owner.ID, project.ID, 250.5, "compute time")
	require.NoError(t, err)

	// GetUsedFunds sums |amount| over negative entries, it does not read
	// the cached used_funds column.
	used, err := db.GetUsedFunds(ctx, owner.ID, project.ID)
	require.NoError(t, err)
	assert.Equal(t, 350.5, used)

	project2, err := db.GetProject(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, used, project2.UsedFunds)
}

func TestRecordExpense_InsufficientFunds(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db := GetTestDB()
	CleanupTestDB(t, db)

	ctx := context.Background()
	owner := createTestUser(t, db, "Ada")
	project := createTestProject(t, db, owner.ID, "Protein Folding")

	_, err := db.AddFunds(ctx, owner.ID, project.ID, 100, "grant")
	require.NoError(t, err)

	_, err = db.RecordExpense(ctx, owner.ID, project.ID, 500, "overreach")
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	// Nothing changed: balance, used funds and history are untouched.
	balance, err := db.GetBalance(ctx, owner.ID, project.ID)
	require.NoError(t, err)
	assert.Equal(t, 100.0, balance)

	used, err := db.GetUsedFunds(ctx, owner.ID, project.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, used)

	history, err := db.GetHistory(ctx, owner.ID, project.ID, HistoryQuery{})
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestGetHistory_TypeFilter(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db := GetTestDB()
	CleanupTestDB(t, db)

	ctx := context.Background()
	owner := createTestUser(t, db, "Ada")
	project := createTestProject(t, db, owner.ID, "Protein Folding")

	_, err := db.AddFunds(ctx, owner.ID, project.ID, 1000, "grant")
	require.NoError(t, err)
	_, err = db.RecordExpense(ctx, owner.ID, project.ID, 200, "reagents")
	require.NoError(t, err)

	expenses, err := db.GetHistory(ctx, owner.ID, project.ID, HistoryQuery{Type: models.FundingTypeExpense})
	require.NoError(t, err)
	require.Len(t, expenses, 1)
	assert.Equal(t, -200.0, expenses[0].Amount)
}

func TestGetHistory_NotOwner(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db := GetTestDB()
	CleanupTestDB(t, db)

	ctx := context.Background()
	owner := createTestUser(t, db, "Ada")
	stranger := createTestUser(t, db, "Mallory")
	project := createTestProject(t, db, owner.ID, "Protein Folding")

	_, err := db.GetHistory(ctx, stranger.ID, project.ID, HistoryQuery{})
	assert.ErrorIs(t, err, ErrNotProjectOwner)
}
