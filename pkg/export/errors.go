package export

import "fmt"

// OptionsError reports a missing or invalid export parameter. Option
// violations are fatal: the export aborts before any output is produced.
type OptionsError struct {
	Field   string // Option field in question ("columns", "answers", etc.)
	Message string // Human-readable description of the violation
}

// Error names the offending field.
func (e *OptionsError) Error() string {
	return fmt.Sprintf("invalid export options [field=%s]: %s", e.Field, e.Message)
}

// NewOptionsError builds an OptionsError for the given field.
func NewOptionsError(field, message string) *OptionsError {
	return &OptionsError{
		Field:   field,
		Message: message,
	}
}

// ExportError wraps a failure that happened mid-run, keeping the format and
// how far the export got.
type ExportError struct {
	Format   Format // Output format of the failed export
	SurveyID int    // Survey being exported
	Rows     int    // Response rows visited before the failure
	Cause    error  // Underlying error
}

// Error renders the format, survey, progress, and cause.
func (e *ExportError) Error() string {
	return fmt.Sprintf("export error [format=%s, survey_id=%d, rows=%d]: %v", e.Format, e.SurveyID, e.Rows, e.Cause)
}

// Unwrap exposes the cause to errors.Is and errors.As.
func (e *ExportError) Unwrap() error {
	return e.Cause
}

// NewExportError wraps cause with the run's format, survey, and row count.
func NewExportError(format Format, surveyID, rows int, cause error) *ExportError {
	return &ExportError{
		Format:   format,
		SurveyID: surveyID,
		Rows:     rows,
		Cause:    cause,
	}
}
