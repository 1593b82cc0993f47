package reports

import "errors"

var (
	// ErrInvalidReportType indicates an unknown report type.
	ErrInvalidReportType = errors.New("invalid report type")
	// ErrInvalidFormat indicates an unknown export format.
	ErrInvalidFormat = errors.New("invalid export format")
	// ErrNoReportData indicates an export with nothing to render.
	ErrNoReportData = errors.New("no data available for report")
)
