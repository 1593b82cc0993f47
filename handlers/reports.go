package handlers

import (
	"errors"
	"fmt"
	"fundry/database"
	"fundry/middleware"
	"fundry/reports"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ExportQuery binds the /export query string.
type ExportQuery struct {
	Type       string `form:"type" binding:"required"`
	Format     string `form:"format" binding:"required"`
	StartDate  string `form:"start_date"`
	EndDate    string `form:"end_date"`
	ProjectIDs string `form:"project_ids"`
}

// ExportReport generates the requested report for the authenticated
// user and streams it back as a file download. Dashboard exports that
// partially failed still deliver the archive, with the failures listed
// in the X-Export-Warnings header.
func ExportReport(db *database.DB) gin.HandlerFunc {
	exporter := reports.NewExporter(db)

	return func(c *gin.Context) {
		var query ExportQuery
		if err := c.ShouldBindQuery(&query); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		filters, err := parseFilters(query)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		user := middleware.CurrentUser(c)
		ctx := c.Request.Context()

		file, err := exporter.Export(ctx, user.ID, query.Type, query.Format, filters)
		if err != nil && file == nil {
			log.Printf("Export error: %v", err)
			c.JSON(exportStatus(err), gin.H{"error": err.Error()})
			return
		}
		if err != nil {
			// Partial dashboard export: deliver what succeeded, flag the rest.
			log.Printf("Export partial failure: %v", err)
			c.Header("X-Export-Warnings", strings.ReplaceAll(err.Error(), "\n", "; "))
		}

		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, file.Name))
		c.Data(http.StatusOK, file.ContentType, file.Data)
	}
}

// Helper functions

func parseFilters(query ExportQuery) (reports.Filters, error) {
	filters := reports.Filters{}

	if query.StartDate != "" {
		start, err := parseDate(query.StartDate)
		if err != nil {
			return filters, fmt.Errorf("invalid start_date: %w", err)
		}
		filters.StartDate = &start
	}

	if query.EndDate != "" {
		end, err := parseDate(query.EndDate)
		if err != nil {
			return filters, fmt.Errorf("invalid end_date: %w", err)
		}
		// Date-only bounds are inclusive of the whole day.
		if len(query.EndDate) == len("2006-01-02") {
			end = end.Add(24*time.Hour - time.Nanosecond)
		}
		filters.EndDate = &end
	}

	if query.ProjectIDs != "" {
		for _, raw := range strings.Split(query.ProjectIDs, ",") {
			id, err := uuid.Parse(strings.TrimSpace(raw))
			if err != nil {
				return filters, fmt.Errorf("invalid project id %q", raw)
			}
			filters.ProjectIDs = append(filters.ProjectIDs, id)
		}
	}

	return filters, nil
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

func exportStatus(err error) int {
	switch {
	case errors.Is(err, reports.ErrInvalidReportType), errors.Is(err, reports.ErrInvalidFormat):
		return http.StatusBadRequest
	case errors.Is(err, reports.ErrNoReportData):
		return http.StatusNotFound
	default:
		return http.StatusBadGateway
	}
}
