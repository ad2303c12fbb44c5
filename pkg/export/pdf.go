package export

import (
	"fmt"
	"strings"

	"github.com/cedricOL/LimeSurvey/pkg/i18n"
	"github.com/cedricOL/LimeSurvey/pkg/survey"
)

// PDFWriter emits a paginated document. Short answer mode produces a titled
// delimiter-joined line per record; long mode gives every record after the
// first its own page, with a record banner and one header/value line per
// selected column.
type PDFWriter struct {
	baseWriter
	sink DocumentSink
}

// NewPDFWriter creates a paginated-document writer on top of a sink.
func NewPDFWriter(sink DocumentSink, translator *i18n.Translator) *PDFWriter {
	return &PDFWriter{
		baseWriter: baseWriter{translator: translator},
		sink:       sink,
	}
}

// Initialize implements the Writer interface.
func (w *PDFWriter) Initialize(s *survey.Survey, language string, opts *Options) error {
	return w.init(s, language, opts)
}

// RenderBatch implements the Writer interface.
func (w *PDFWriter) RenderBatch(first bool) error {
	return w.renderRows(first, w)
}

// Close finalizes the document.
func (w *PDFWriter) Close() error {
	return w.sink.Finalize()
}

// writeHeaders is a no-op: the headers reappear inside every record.
func (w *PDFWriter) writeHeaders([]string) error {
	return nil
}

func (w *PDFWriter) writeRow(n int, values []string) error {
	switch w.opts.Answers {
	case AnswerShort:
		w.sink.AppendBlock(w.recordTitle(n))
		w.sink.AppendBlock(strings.Join(values, w.opts.ActiveDelimiter()))
		return nil
	case AnswerLong:
		if n > 1 {
			w.sink.AddPage()
		}
		w.sink.AppendBlock(w.recordTitle(n))
		for i, header := range w.headers {
			w.sink.AppendBlock(FlattenText(header) + ": " + values[i])
		}
		return nil
	}
	return NewOptionsError("answers", fmt.Sprintf("unsupported answer mode %q", w.opts.Answers))
}
