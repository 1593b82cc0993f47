package reports

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Report types and export formats accepted by Export.
const (
	ReportProjects  = "projects"
	ReportFunding   = "funding"
	ReportFiles     = "files"
	ReportReviews   = "reviews"
	ReportProgress  = "progress"
	ReportTeam      = "team"
	ReportDashboard = "dashboard"

	FormatCSV = "csv"
	FormatPDF = "pdf"
)

// dashboardReports are the sub-reports bundled by the dashboard export.
var dashboardReports = []string{ReportProjects, ReportFunding, ReportProgress, ReportTeam}

// ExportFile is a rendered report ready for delivery.
type ExportFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// Exporter dispatches an export request to the matching aggregation and
// formatting chain.
type Exporter struct {
	agg *Aggregator
}

func NewExporter(store Store) *Exporter {
	return &Exporter{agg: NewAggregator(store)}
}

// Export runs one export for the given user. Unknown report types and
// formats fail before any store read. The dashboard type generates its
// sub-reports independently: one failure does not cancel the others,
// the successes are bundled into a zip, and the returned error names
// every sub-report that failed. All other types return a single file.
func (e *Exporter) Export(ctx context.Context, userID uuid.UUID, reportType, format string, filters Filters) (*ExportFile, error) {
	if format != FormatCSV && format != FormatPDF {
		return nil, fmt.Errorf("%w: %q", ErrInvalidFormat, format)
	}
	if !knownReportType(reportType) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidReportType, reportType)
	}

	start := time.Now()
	defer func() {
		log.Printf("Export: duration=%v user=%s type=%s format=%s", time.Since(start), userID, reportType, format)
	}()

	if reportType == ReportDashboard {
		return e.exportDashboard(ctx, userID, format, filters)
	}
	return e.exportOne(ctx, userID, reportType, format, filters)
}

func (e *Exporter) exportOne(ctx context.Context, userID uuid.UUID, reportType, format string, filters Filters) (*ExportFile, error) {
	csvText, err := e.generateCSV(ctx, userID, reportType, filters)
	if err != nil {
		return nil, err
	}

	meta := reportMeta[reportType]
	if format == FormatCSV {
		return &ExportFile{
			Name:        meta.baseName + ".csv",
			ContentType: "text/csv",
			Data:        []byte(csvText),
		}, nil
	}

	pdfBytes, err := GeneratePDF(csvText, meta.title)
	if err != nil {
		return nil, err
	}
	return &ExportFile{
		Name:        meta.baseName + ".pdf",
		ContentType: "application/pdf",
		Data:        pdfBytes,
	}, nil
}

// exportDashboard fans out the sub-reports, waits for all of them, and
// zips whatever succeeded. The wait is unconditional: a failed
// sub-report never cancels its siblings.
func (e *Exporter) exportDashboard(ctx context.Context, userID uuid.UUID, format string, filters Filters) (*ExportFile, error) {
	files := make([]*ExportFile, len(dashboardReports))
	errs := make([]error, len(dashboardReports))

	var wg sync.WaitGroup
	for i, sub := range dashboardReports {
		i, sub := i, sub
		wg.Add(1)
		go func() {
			defer wg.Done()
			file, err := e.exportOne(ctx, userID, sub, format, filters)
			if err != nil {
				errs[i] = fmt.Errorf("%s: %w", sub, err)
				return
			}
			files[i] = file
		}()
	}
	wg.Wait()

	failure := errors.Join(errs...)

	var buf bytes.Buffer
	archive := zip.NewWriter(&buf)
	bundled := 0
	for _, file := range files {
		if file == nil {
			continue
		}
		w, err := archive.Create(file.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to assemble dashboard archive: %w", err)
		}
		if _, err := w.Write(file.Data); err != nil {
			return nil, fmt.Errorf("failed to assemble dashboard archive: %w", err)
		}
		bundled++
	}
	if err := archive.Close(); err != nil {
		return nil, fmt.Errorf("failed to assemble dashboard archive: %w", err)
	}

	if bundled == 0 {
		if failure != nil {
			return nil, failure
		}
		return nil, ErrNoReportData
	}

	// failure is non-nil on partial success; callers must surface it
	// alongside the archive rather than treat the export as clean.
	return &ExportFile{
		Name:        "dashboard_report.zip",
		ContentType: "application/zip",
		Data:        buf.Bytes(),
	}, failure
}

func (e *Exporter) generateCSV(ctx context.Context, userID uuid.UUID, reportType string, filters Filters) (string, error) {
	switch reportType {
	case ReportProjects:
		rows, err := e.agg.OverviewRows(ctx, userID, filters)
		if err != nil {
			return "", err
		}
		return GenerateOverviewCSV(rows), nil
	case ReportFunding:
		rows, err := e.agg.FundingRows(ctx, userID, filters)
		if err != nil {
			return "", err
		}
		return GenerateFundingCSV(rows), nil
	case ReportFiles:
		rows, err := e.agg.FileRows(ctx, userID, filters)
		if err != nil {
			return "", err
		}
		return GenerateFilesCSV(rows), nil
	case ReportReviews:
		rows, err := e.agg.ReviewRows(ctx, userID)
		if err != nil {
			return "", err
		}
		return GenerateReviewsCSV(rows), nil
	case ReportProgress:
		rows, err := e.agg.ProgressRows(ctx, userID, filters)
		if err != nil {
			return "", err
		}
		return GenerateProgressCSV(rows), nil
	case ReportTeam:
		rows, err := e.agg.TeamRows(ctx, userID, filters)
		if err != nil {
			return "", err
		}
		return GenerateTeamCSV(rows), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidReportType, reportType)
	}
}

// Helper functions

func knownReportType(reportType string) bool {
	switch reportType {
	case ReportProjects, ReportFunding, ReportFiles, ReportReviews,
		ReportProgress, ReportTeam, ReportDashboard:
		return true
	}
	return false
}

var reportMeta = map[string]struct {
	baseName string
	title    string
}{
	ReportProjects: {baseName: "projects_overview_report", title: "Projects Overview Report"},
	ReportFunding:  {baseName: "project_funding", title: "Project Funding Report"},
	ReportFiles:    {baseName: "project_files_report", title: "Project Files Report"},
	ReportReviews:  {baseName: "reviewed_projects_report", title: "Reviewed Projects Report"},
	ReportProgress: {baseName: "project_progress_report", title: "Project Progress Report"},
	ReportTeam:     {baseName: "project_team_report", title: "Project Team Report"},
}
