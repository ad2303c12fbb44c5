package export

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/cedricOL/LimeSurvey/pkg/i18n"
	"github.com/cedricOL/LimeSurvey/pkg/survey"
)

// PageBreak separates records in long-mode document output. Word processors
// treat the form feed as an explicit page break.
const PageBreak = "\f"

// DocWriter emits a rich text document. Short answer mode produces one
// delimiter-joined line per row with no header section; long mode produces a
// self-contained block per record, page-broken between records.
type DocWriter struct {
	baseWriter
	buf *bufio.Writer
}

// NewDocWriter creates a document writer streaming to out.
func NewDocWriter(out io.Writer, translator *i18n.Translator) *DocWriter {
	return &DocWriter{
		baseWriter: baseWriter{translator: translator},
		buf:        bufio.NewWriter(out),
	}
}

// Initialize implements the Writer interface.
func (w *DocWriter) Initialize(s *survey.Survey, language string, opts *Options) error {
	return w.init(s, language, opts)
}

// RenderBatch implements the Writer interface.
func (w *DocWriter) RenderBatch(first bool) error {
	return w.renderRows(first, w)
}

// Close flushes buffered output. The underlying writer stays open; it
// belongs to the caller.
func (w *DocWriter) Close() error {
	return w.buf.Flush()
}

// writeHeaders is a no-op: short mode has no header section, and long mode
// repeats the headers inside every record block.
func (w *DocWriter) writeHeaders([]string) error {
	return nil
}

func (w *DocWriter) writeRow(n int, values []string) error {
	switch w.opts.Answers {
	case AnswerShort:
		_, err := fmt.Fprintln(w.buf, strings.Join(values, w.opts.ActiveDelimiter()))
		return err
	case AnswerLong:
		return w.writeBlock(n, values)
	}
	return NewOptionsError("answers", fmt.Sprintf("unsupported answer mode %q", w.opts.Answers))
}

// writeBlock emits one record as a titled block of header/value lines. The
// page break goes between records, never before the first.
func (w *DocWriter) writeBlock(n int, values []string) error {
	if n > 1 {
		if _, err := fmt.Fprintln(w.buf, PageBreak); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w.buf, w.recordTitle(n)); err != nil {
		return err
	}
	for i, header := range w.headers {
		if _, err := fmt.Fprintf(w.buf, "%s: %s\n", header, values[i]); err != nil {
			return err
		}
	}
	return nil
}
