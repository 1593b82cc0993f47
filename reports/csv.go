package reports

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"fundry/models"
)

// CSV column schemas. These headers are consumed by downstream tooling
// and must not change.
const (
	fundingHeader  = "Project Name,Funding Amount,Source/Description,Type,Added By,Updated At"
	filesHeader    = "Project Name,Folder Name,File Name,Uploaded By,Uploaded At"
	reviewsHeader  = "Project Title,Project Description,Researcher Name,Feedback,Review Date"
	overviewHeader = "Project Name,Description,Status,Created Date,Last Updated,Available Funds,Used Funds"
	progressHeader = "Project Name,Overall Progress,Total Goals,Completed Goals,Status,Last Updated"
	teamHeader     = "Project Name,Collaborator Name,Role,Access Level,Permissions"
)

// crlfRuns matches any run of carriage returns and newlines.
var crlfRuns = regexp.MustCompile(`[\r\n]+`)

// GenerateFundingCSV renders funding rows. Every line, header included,
// ends with \n.
func GenerateFundingCSV(rows []FundingRow) string {
	var b strings.Builder
	writeLine(&b, fundingHeader)
	for _, row := range rows {
		writeRecord(&b,
			sanitizeField(projectName(row.ProjectName)),
			formatAmount(row.Amount),
			sanitizeField(row.Source),
			sanitizeField(row.Type),
			sanitizeField(row.AddedBy),
			row.UpdatedAt,
		)
	}
	return b.String()
}

// GenerateFilesCSV renders folder/file rows.
func GenerateFilesCSV(rows []FileRow) string {
	var b strings.Builder
	writeLine(&b, filesHeader)
	for _, row := range rows {
		uploadedBy := row.UploadedBy
		if uploadedBy == "" {
			uploadedBy = "Unknown"
		}
		writeRecord(&b,
			sanitizeField(projectName(row.ProjectName)),
			sanitizeField(row.FolderName),
			sanitizeField(row.FileName),
			sanitizeField(uploadedBy),
			row.UploadedAt,
		)
	}
	return b.String()
}

// GenerateReviewsCSV renders reviewed-project rows.
func GenerateReviewsCSV(rows []ReviewRow) string {
	var b strings.Builder
	writeLine(&b, reviewsHeader)
	for _, row := range rows {
		writeRecord(&b,
			sanitizeField(row.ProjectTitle),
			sanitizeField(row.ProjectDescription),
			sanitizeField(row.ResearcherName),
			sanitizeField(row.Feedback),
			row.ReviewDate,
		)
	}
	return b.String()
}

// GenerateOverviewCSV renders project overview rows.
func GenerateOverviewCSV(rows []OverviewRow) string {
	var b strings.Builder
	writeLine(&b, overviewHeader)
	for _, row := range rows {
		writeRecord(&b,
			sanitizeField(projectName(row.ProjectName)),
			sanitizeField(row.Description),
			sanitizeField(row.Status),
			row.CreatedDate,
			row.LastUpdated,
			formatAmount(row.AvailableFunds),
			formatAmount(row.UsedFunds),
		)
	}
	return b.String()
}

// GenerateProgressCSV renders goal-progress rows.
func GenerateProgressCSV(rows []ProgressRow) string {
	var b strings.Builder
	writeLine(&b, progressHeader)
	for _, row := range rows {
		writeRecord(&b,
			sanitizeField(projectName(row.ProjectName)),
			fmt.Sprintf("%d%%", row.Progress),
			strconv.Itoa(row.TotalGoals),
			strconv.Itoa(row.CompletedGoals),
			sanitizeField(row.Status),
			row.LastUpdated,
		)
	}
	return b.String()
}

// GenerateTeamCSV renders collaborator rows. Permissions render as a
// "; "-joined list of the granted permission keys.
func GenerateTeamCSV(rows []TeamRow) string {
	var b strings.Builder
	writeLine(&b, teamHeader)
	for _, row := range rows {
		writeRecord(&b,
			sanitizeField(projectName(row.ProjectName)),
			sanitizeField(row.CollaboratorName),
			sanitizeField(row.Role),
			sanitizeField(row.AccessLevel),
			sanitizeField(FormatPermissions(row.Permissions)),
		)
	}
	return b.String()
}

// FormatPermissions joins the keys of the granted permissions in their
// fixed insertion order: canEditProject, canViewFiles, canManageTeam.
func FormatPermissions(p models.Permissions) string {
	granted := []string{}
	if p.CanEditProject {
		granted = append(granted, "canEditProject")
	}
	if p.CanViewFiles {
		granted = append(granted, "canViewFiles")
	}
	if p.CanManageTeam {
		granted = append(granted, "canManageTeam")
	}
	return strings.Join(granted, "; ")
}

// ParseCSV splits CSV text into header and data rows, skipping empty
// lines. Rows are not required to share a field count.
func ParseCSV(text string) (header []string, rows [][]string, err error) {
	reader := csv.NewReader(strings.NewReader(text))
	reader.FieldsPerRecord = -1

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to parse CSV: %w", err)
		}
		if header == nil {
			header = record
			continue
		}
		rows = append(rows, record)
	}

	return header, rows, nil
}

// Helper functions

// sanitizeField keeps field text on one line and free of the delimiter:
// commas and CR/LF runs each collapse to a single space. Numeric and
// timestamp fields are written without sanitization.
func sanitizeField(s string) string {
	s = strings.ReplaceAll(s, ",", " ")
	return crlfRuns.ReplaceAllString(s, " ")
}

func projectName(name string) string {
	if name == "" {
		return "Unnamed Project"
	}
	return name
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func writeLine(b *strings.Builder, line string) {
	b.WriteString(line)
	b.WriteByte('\n')
}

func writeRecord(b *strings.Builder, fields ...string) {
	writeLine(b, strings.Join(fields, ","))
}
