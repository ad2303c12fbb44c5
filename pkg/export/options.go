package export

import (
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/cedricOL/LimeSurvey/pkg/survey"
)

// Format selects the output encoding of an export.
type Format string

const (
	// FormatCSV is delimited text.
	FormatCSV Format = "csv"
	// FormatDoc is a rich text document.
	FormatDoc Format = "doc"
	// FormatExcel is a spreadsheet workbook.
	FormatExcel Format = "xls"
	// FormatPDF is a paginated document.
	FormatPDF Format = "pdf"
)

// ParseFormat maps a format name to a Format. Unrecognized names fall back to
// delimited text, which every host can consume.
func ParseFormat(name string) Format {
	switch Format(name) {
	case FormatCSV, FormatDoc, FormatExcel, FormatPDF:
		return Format(name)
	}
	return FormatCSV
}

// Completion filters response rows by submission state.
type Completion string

const (
	// CompletionShow includes every response.
	CompletionShow Completion = "show"
	// CompletionIncomplete includes only responses without a submission
	// timestamp.
	CompletionIncomplete Completion = "incomplete"
	// CompletionFilter includes only submitted responses.
	CompletionFilter Completion = "filter"
)

// HeadingMode selects how column headers are derived.
type HeadingMode string

const (
	// HeadingAbbreviated truncates question texts to a short label.
	HeadingAbbreviated HeadingMode = "abbreviated"
	// HeadingFull uses the complete question text.
	HeadingFull HeadingMode = "full"
	// HeadingCode uses question codes and raw column identifiers.
	HeadingCode HeadingMode = "code"
)

// AnswerMode selects how stored answer codes are rendered.
type AnswerMode string

const (
	// AnswerShort renders the stored codes.
	AnswerShort AnswerMode = "short"
	// AnswerLong expands codes into their display texts.
	AnswerLong AnswerMode = "long"
)

// Destination selects where the output goes.
type Destination string

const (
	// DestinationDisplay streams the output to the configured writer.
	DestinationDisplay Destination = "display"
	// DestinationFile writes the output to a file in the export workspace.
	DestinationFile Destination = "file"
)

// DefaultDelimiter separates values in delimited output when the options do
// not name one.
const DefaultDelimiter = ","

// Options is the formatting policy of one export. It is constructed by the
// caller before the export starts and never mutated while it runs.
type Options struct {
	// Min and Max bound the exported record range, 1-based and inclusive.
	// Max 0 means "through the last record".
	Min int
	Max int

	// Columns are the selected column identifiers, in output order. At
	// least one column must be selected.
	Columns []string

	// Completion filters rows by submission state. Default: CompletionShow
	Completion Completion

	// Headings selects the header derivation mode. Default: HeadingCode
	Headings HeadingMode

	// Answers selects code or display-text rendering. Default: AnswerShort
	Answers AnswerMode

	// ConvertY substitutes YValue for literal "Y" codes in short mode;
	// ConvertN and NValue do the same for "N".
	ConvertY bool
	YValue   string
	ConvertN bool
	NValue   string

	// SpaceToUnderscore replaces spaces with underscores in every header.
	SpaceToUnderscore bool

	// Destination selects streamed or file output. Default: DestinationDisplay
	Destination Destination

	// Delimiter is the single-character value separator for delimited
	// formats. Default: ","
	Delimiter string

	// Out receives streamed output in display mode. Defaults to standard
	// output when nil.
	Out io.Writer
}

// DefaultOptions returns options with every mode set to its default. Callers
// fill in Columns, and usually the record range, before use.
func DefaultOptions() *Options {
	return &Options{
		Min:         1,
		Completion:  CompletionShow,
		Headings:    HeadingCode,
		Answers:     AnswerShort,
		Destination: DestinationDisplay,
		Delimiter:   DefaultDelimiter,
	}
}

// Validate checks the options for fatal precondition violations: an empty
// column selection, a bad record range, unknown modes, or a multi-character
// delimiter. The first violation found is returned as an *OptionsError.
func (o *Options) Validate() error {
	if len(o.Columns) == 0 {
		return NewOptionsError("columns", "at least one column must be selected")
	}
	if o.Min < 0 {
		return NewOptionsError("min", "record range start must not be negative")
	}
	if o.Max < 0 {
		return NewOptionsError("max", "record range end must not be negative")
	}
	if o.Max > 0 && o.Min > o.Max {
		return NewOptionsError("min", fmt.Sprintf("record range start %d exceeds end %d", o.Min, o.Max))
	}

	switch o.Completion {
	case CompletionShow, CompletionIncomplete, CompletionFilter:
	case "":
		return NewOptionsError("completion", "completion filter is required")
	default:
		return NewOptionsError("completion", fmt.Sprintf("unknown completion filter %q: must be 'show', 'incomplete', or 'filter'", o.Completion))
	}

	switch o.Headings {
	case HeadingAbbreviated, HeadingFull, HeadingCode:
	case "":
		return NewOptionsError("headings", "heading mode is required")
	default:
		return NewOptionsError("headings", fmt.Sprintf("unknown heading mode %q: must be 'abbreviated', 'full', or 'code'", o.Headings))
	}

	switch o.Answers {
	case AnswerShort, AnswerLong:
	case "":
		return NewOptionsError("answers", "answer mode is required")
	default:
		return NewOptionsError("answers", fmt.Sprintf("unsupported answer mode %q: must be 'short' or 'long'", o.Answers))
	}

	switch o.Destination {
	case DestinationDisplay, DestinationFile:
	case "":
		return NewOptionsError("destination", "destination is required")
	default:
		return NewOptionsError("destination", fmt.Sprintf("unknown destination %q: must be 'display' or 'file'", o.Destination))
	}

	if o.Delimiter != "" && utf8.RuneCountInString(o.Delimiter) != 1 {
		return NewOptionsError("delimiter", fmt.Sprintf("delimiter %q must be a single character", o.Delimiter))
	}

	return nil
}

// ActiveDelimiter returns the delimiter to join values with, falling back to
// the default when none is set.
func (o *Options) ActiveDelimiter() string {
	if o.Delimiter == "" {
		return DefaultDelimiter
	}
	return o.Delimiter
}

// IncludeRow applies the completion filter to one response row. Filtered-out
// rows are skipped entirely, never emitted blank.
func (o *Options) IncludeRow(row survey.ResponseRow) bool {
	switch o.Completion {
	case CompletionIncomplete:
		return !row.Complete()
	case CompletionFilter:
		return row.Complete()
	}
	return true
}
