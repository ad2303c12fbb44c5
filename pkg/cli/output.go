package cli

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// OutputFormat names a rendering for command results.
type OutputFormat string

const (
	// FormatText is human-readable text output (default).
	FormatText OutputFormat = "text"
	// FormatJSON is machine-readable JSON.
	FormatJSON OutputFormat = "json"
	// FormatCSV is CSV output for row-shaped results.
	FormatCSV OutputFormat = "csv"
)

// Tabular is implemented by command results that can render as rows, such as
// the export job listing.
type Tabular interface {
	TableHeader() []string
	TableRows() [][]string
}

// Formatter renders command results for the terminal or for scripts.
type Formatter interface {
	Format(data any) ([]byte, error)
	FormatTo(w io.Writer, data any) error
}

// TextFormatter formats output as human-readable text. Tabular results
// render as aligned columns.
type TextFormatter struct{}

// Format renders data as text into a fresh buffer.
func (f *TextFormatter) Format(data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := f.FormatTo(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FormatTo writes data as text. Tabular data renders as aligned columns;
// anything else prints with %v.
func (f *TextFormatter) FormatTo(w io.Writer, data any) error {
	if table, ok := data.(Tabular); ok {
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		if header := table.TableHeader(); len(header) > 0 {
			fmt.Fprintln(tw, strings.Join(header, "\t"))
		}
		for _, row := range table.TableRows() {
			fmt.Fprintln(tw, strings.Join(row, "\t"))
		}
		return tw.Flush()
	}

	_, err := fmt.Fprintf(w, "%v\n", data)
	return err
}

// JSONFormatter emits results as JSON for scripting.
type JSONFormatter struct {
	Indent bool
}

// Format marshals data as JSON.
func (f *JSONFormatter) Format(data any) ([]byte, error) {
	if f.Indent {
		return json.MarshalIndent(data, "", "  ")
	}
	return json.Marshal(data)
}

// FormatTo streams data as JSON to w.
func (f *JSONFormatter) FormatTo(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	if f.Indent {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(data)
}

// CSVFormatter formats Tabular output as CSV.
type CSVFormatter struct{}

// Format renders data as CSV into a fresh buffer.
func (f *CSVFormatter) Format(data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := f.FormatTo(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FormatTo writes data to writer in CSV format. The data must implement
// Tabular.
func (f *CSVFormatter) FormatTo(w io.Writer, data any) error {
	table, ok := data.(Tabular)
	if !ok {
		return fmt.Errorf("%T is not tabular data", data)
	}

	csvWriter := csv.NewWriter(w)

	if header := table.TableHeader(); len(header) > 0 {
		if err := csvWriter.Write(header); err != nil {
			return err
		}
	}
	for _, row := range table.TableRows() {
		if err := csvWriter.Write(row); err != nil {
			return err
		}
	}

	csvWriter.Flush()
	return csvWriter.Error()
}

// NewFormatter returns the formatter for format, defaulting to text.
func NewFormatter(format OutputFormat) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{Indent: true}
	case FormatCSV:
		return &CSVFormatter{}
	default:
		return &TextFormatter{}
	}
}
