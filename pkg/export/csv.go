package export

import (
	"bufio"
	"io"
	"strings"

	"github.com/cedricOL/LimeSurvey/pkg/i18n"
	"github.com/cedricOL/LimeSurvey/pkg/survey"
)

// CSVWriter emits delimited text: one escaped header line, then one line per
// filter-passing row.
type CSVWriter struct {
	baseWriter
	buf *bufio.Writer
}

// NewCSVWriter creates a delimited-text writer streaming to out.
func NewCSVWriter(out io.Writer, translator *i18n.Translator) *CSVWriter {
	return &CSVWriter{
		baseWriter: baseWriter{translator: translator},
		buf:        bufio.NewWriter(out),
	}
}

// Initialize implements the Writer interface.
func (w *CSVWriter) Initialize(s *survey.Survey, language string, opts *Options) error {
	return w.init(s, language, opts)
}

// RenderBatch implements the Writer interface.
func (w *CSVWriter) RenderBatch(first bool) error {
	return w.renderRows(first, w)
}

// Close flushes buffered output. The underlying writer stays open; it
// belongs to the caller.
func (w *CSVWriter) Close() error {
	return w.buf.Flush()
}

func (w *CSVWriter) writeHeaders(headers []string) error {
	return w.writeLine(headers)
}

func (w *CSVWriter) writeRow(_ int, values []string) error {
	return w.writeLine(values)
}

func (w *CSVWriter) writeLine(cells []string) error {
	delimiter := w.opts.ActiveDelimiter()
	escaped := make([]string, len(cells))
	for i, cell := range cells {
		escaped[i] = escapeDelimited(cell, delimiter)
	}
	if _, err := w.buf.WriteString(strings.Join(escaped, delimiter)); err != nil {
		return err
	}
	return w.buf.WriteByte('\n')
}

// escapeDelimited quote-wraps a cell when it embeds the delimiter, a quote,
// or a line break, doubling any internal quotes. Plain cells pass through
// unquoted so the output stays readable.
func escapeDelimited(cell, delimiter string) string {
	if !strings.ContainsAny(cell, delimiter+`"`+"\r\n") {
		return cell
	}
	return `"` + strings.ReplaceAll(cell, `"`, `""`) + `"`
}
