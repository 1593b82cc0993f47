package reports

import (
	"strings"
	"testing"

	"fundry/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateFundingCSV(t *testing.T) {
	rows := []FundingRow{
		{
			ProjectName: "Project 1",
			Amount:      1000,
			Source:      "External Grant",
			Type:        "grant",
			AddedBy:     "John Doe",
			UpdatedAt:   "2025-01-01T00:00:00.000Z",
		},
	}

	got := GenerateFundingCSV(rows)

	want := "Project Name,Funding Amount,Source/Description,Type,Added By,Updated At\n" +
		"Project 1,1000,External Grant,grant,John Doe,2025-01-01T00:00:00.000Z\n"
	assert.Equal(t, want, got)
}

func TestGenerateFundingCSV_EmptyRows(t *testing.T) {
	got := GenerateFundingCSV(nil)
	assert.Equal(t, "Project Name,Funding Amount,Source/Description,Type,Added By,Updated At\n", got)
}

func TestGenerateFundingCSV_SanitizesFields(t *testing.T) {
	rows := []FundingRow{
		{
			ProjectName: "Project, with commas",
			Amount:      49.99,
			Source:      "line one\nline two",
			Type:        "grant",
			AddedBy:     "Doe, John",
			UpdatedAt:   "2025-01-01T00:00:00.000Z",
		},
	}

	got := GenerateFundingCSV(rows)
	lines := strings.Split(strings.TrimSuffix(got, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Project  with commas,49.99,line one line two,grant,Doe  John,2025-01-01T00:00:00.000Z", lines[1])
}

func TestGenerateFundingCSV_DefaultProjectName(t *testing.T) {
	got := GenerateFundingCSV([]FundingRow{{Amount: 10, UpdatedAt: "2025-01-01"}})
	assert.Contains(t, got, "Unnamed Project,10,")
}

func TestGenerateFilesCSV(t *testing.T) {
	rows := []FileRow{
		{
			ProjectName: "Project 1",
			FolderName:  "Data",
			FileName:    "results.csv",
			UploadedBy:  "Grace Hopper",
			UploadedAt:  "2025-03-01T12:00:00.000Z",
		},
		{
			ProjectName: "Project 1",
			FolderName:  "Data",
			FileName:    "notes.txt",
			UploadedAt:  "2025-03-02T12:00:00.000Z",
		},
	}

	got := GenerateFilesCSV(rows)
	lines := strings.Split(strings.TrimSuffix(got, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Project Name,Folder Name,File Name,Uploaded By,Uploaded At", lines[0])
	assert.Equal(t, "Project 1,Data,results.csv,Grace Hopper,2025-03-01T12:00:00.000Z", lines[1])
	// Missing uploader falls back to Unknown.
	assert.Equal(t, "Project 1,Data,notes.txt,Unknown,2025-03-02T12:00:00.000Z", lines[2])
}

func TestGenerateOverviewCSV(t *testing.T) {
	rows := []OverviewRow{
		{
			ProjectName:    "Project 1",
			Description:    "structure prediction",
			Status:         "active",
			CreatedDate:    "2025-01-01T00:00:00.000Z",
			LastUpdated:    "2025-02-01T00:00:00.000Z",
			AvailableFunds: 750.5,
			UsedFunds:      249.5,
		},
	}

	got := GenerateOverviewCSV(rows)
	want := "Project Name,Description,Status,Created Date,Last Updated,Available Funds,Used Funds\n" +
		"Project 1,structure prediction,active,2025-01-01T00:00:00.000Z,2025-02-01T00:00:00.000Z,750.5,249.5\n"
	assert.Equal(t, want, got)
}

func TestGenerateProgressCSV(t *testing.T) {
	rows := []ProgressRow{
		{
			ProjectName:    "Project 1",
			Progress:       67,
			TotalGoals:     3,
			CompletedGoals: 2,
			Status:         "active",
			LastUpdated:    "2025-02-01T00:00:00.000Z",
		},
	}

	got := GenerateProgressCSV(rows)
	want := "Project Name,Overall Progress,Total Goals,Completed Goals,Status,Last Updated\n" +
		"Project 1,67%,3,2,active,2025-02-01T00:00:00.000Z\n"
	assert.Equal(t, want, got)
}

func TestGenerateReviewsCSV(t *testing.T) {
	rows := []ReviewRow{
		{
			ProjectTitle:       "Project 1",
			ProjectDescription: "structure prediction",
			ResearcherName:     "John Doe",
			Feedback:           "solid methodology",
			ReviewDate:         "2025-04-01T00:00:00.000Z",
		},
	}

	got := GenerateReviewsCSV(rows)
	want := "Project Title,Project Description,Researcher Name,Feedback,Review Date\n" +
		"Project 1,structure prediction,John Doe,solid methodology,2025-04-01T00:00:00.000Z\n"
	assert.Equal(t, want, got)
}

func TestGenerateTeamCSV(t *testing.T) {
	rows := []TeamRow{
		{
			ProjectName:      "Project 1",
			CollaboratorName: "Grace Hopper",
			Role:             "Statistician",
			AccessLevel:      "editor",
			Permissions:      models.Permissions{CanEditProject: true, CanViewFiles: true},
		},
	}

	got := GenerateTeamCSV(rows)
	want := "Project Name,Collaborator Name,Role,Access Level,Permissions\n" +
		"Project 1,Grace Hopper,Statistician,editor,canEditProject; canViewFiles\n"
	assert.Equal(t, want, got)
}

func TestFormatPermissions(t *testing.T) {
	tests := []struct {
		name        string
		permissions models.Permissions
		expected    string
	}{
		{
			name:        "edit and view",
			permissions: models.Permissions{CanEditProject: true, CanViewFiles: true},
			expected:    "canEditProject; canViewFiles",
		},
		{
			name:        "all granted",
			permissions: models.Permissions{CanEditProject: true, CanViewFiles: true, CanManageTeam: true},
			expected:    "canEditProject; canViewFiles; canManageTeam",
		},
		{
			name:        "none granted",
			permissions: models.Permissions{},
			expected:    "",
		},
		{
			name:        "manage only",
			permissions: models.Permissions{CanManageTeam: true},
			expected:    "canManageTeam",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatPermissions(tt.permissions))
		})
	}
}

func TestParseCSV_RoundTrip(t *testing.T) {
	rows := []FundingRow{
		{ProjectName: "Project 1", Amount: 1000, Source: "grant, external", Type: "funding", AddedBy: "John Doe", UpdatedAt: "2025-01-01"},
		{ProjectName: "Project 2", Amount: -50, Source: "multi\nline", Type: "expense", AddedBy: "Grace Hopper", UpdatedAt: "2025-02-01"},
	}

	header, parsed, err := ParseCSV(GenerateFundingCSV(rows))
	require.NoError(t, err)
	assert.Equal(t, []string{"Project Name", "Funding Amount", "Source/Description", "Type", "Added By", "Updated At"}, header)
	require.Len(t, parsed, len(rows))
	for _, record := range parsed {
		assert.Len(t, record, 6)
	}
}

func TestParseCSV_Empty(t *testing.T) {
	header, rows, err := ParseCSV("")
	require.NoError(t, err)
	assert.Nil(t, header)
	assert.Empty(t, rows)
}

func TestParseCSV_SkipsEmptyLines(t *testing.T) {
	header, rows, err := ParseCSV("a,b\n\n1,2\n\n")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, header)
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"1", "2"}, rows[0])
}

func TestSanitizeField(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "plain", input: "hello", expected: "hello"},
		{name: "comma", input: "a,b", expected: "a b"},
		{name: "newline", input: "a\nb", expected: "a b"},
		{name: "crlf run", input: "a\r\n\r\nb", expected: "a b"},
		{name: "empty", input: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeField(tt.input))
		})
	}
}
