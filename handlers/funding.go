package handlers

import (
	"errors"
	"fundry/database"
	"fundry/middleware"
	"fundry/models"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func AddFunds(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		projectID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project ID"})
			return
		}

		var req models.AddFundsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		user := middleware.CurrentUser(c)
		ctx := c.Request.Context()

		balance, err := db.AddFunds(ctx, user.ID, projectID, req.Amount, req.Source)
		if err != nil {
			log.Printf("AddFunds error: %v", err)
			c.JSON(ledgerStatus(err), gin.H{"error": "failed to add funds", "details": err.Error()})
			return
		}

		c.JSON(http.StatusOK, models.FundingResponse{
			ProjectID:      projectID,
			AvailableFunds: balance,
		})
	}
}

func RecordExpense(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		projectID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project ID"})
			return
		}

		var req models.RecordExpenseRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		user := middleware.CurrentUser(c)
		ctx := c.Request.Context()

		balance, err := db.RecordExpense(ctx, user.ID, projectID, req.Amount, req.Description)
		if err != nil {
			log.Printf("RecordExpense error: %v", err)
			c.JSON(ledgerStatus(err), gin.H{"error": "failed to record expense", "details": err.Error()})
			return
		}

		c.JSON(http.StatusOK, models.FundingResponse{
			ProjectID:      projectID,
			AvailableFunds: balance,
		})
	}
}

// GetFunding returns the project's balance, recomputed lifetime spend
// and (optionally filtered) history in one response.
func GetFunding(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		projectID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project ID"})
			return
		}

		var params database.HistoryQuery
		if err := c.ShouldBindQuery(&params); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		user := middleware.CurrentUser(c)
		ctx := c.Request.Context()

		balance, err := db.GetBalance(ctx, user.ID, projectID)
		if err != nil {
			c.JSON(ledgerStatus(err), gin.H{"error": "failed to fetch funding", "details": err.Error()})
			return
		}

		used, err := db.GetUsedFunds(ctx, user.ID, projectID)
		if err != nil {
			c.JSON(ledgerStatus(err), gin.H{"error": "failed to fetch funding", "details": err.Error()})
			return
		}

		history, err := db.GetHistory(ctx, user.ID, projectID, params)
		if err != nil {
			c.JSON(ledgerStatus(err), gin.H{"error": "failed to fetch funding", "details": err.Error()})
			return
		}

		c.JSON(http.StatusOK, models.FundingResponse{
			ProjectID:      projectID,
			AvailableFunds: balance,
			UsedFunds:      used,
			History:        history,
		})
	}
}

// ledgerStatus maps ledger errors to HTTP statuses.
func ledgerStatus(err error) int {
	switch {
	case errors.Is(err, database.ErrProjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, database.ErrNotProjectOwner):
		return http.StatusForbidden
	case errors.Is(err, database.ErrInvalidAmount), errors.Is(err, database.ErrInsufficientFunds):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
