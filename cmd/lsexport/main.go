// Lsexport is a survey response export engine.
//
// It reads survey structure and responses from a survey store and renders
// them through a shared control template, providing:
//   - CSV, Word, Excel and PDF output from one rendering pipeline
//   - Localized headings in code, abbreviated or full form
//   - Short answer codes or expanded answer texts
//   - Completion-state filtering and batched response streaming
//   - A job ledger and scheduled workspace retention
//
// Usage:
//
//	# Export a survey as CSV to stdout
//	lsexport export --survey 123456
//
//	# Write an Excel file into the workspace
//	lsexport export --survey 123456 --format xls --file
//
//	# List recorded export jobs
//	lsexport jobs
//
//	# Delete old export files and ledger rows
//	lsexport prune
//
//	# Load a demo survey to try the tool
//	lsexport seed
//
//	# Show version information
//	lsexport version
//
// For complete documentation, see: https://github.com/cedricOL/LimeSurvey
package main

func main() {
	Execute()
}
