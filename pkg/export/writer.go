package export

import (
	"fmt"

	"github.com/cedricOL/LimeSurvey/pkg/i18n"
	"github.com/cedricOL/LimeSurvey/pkg/survey"
)

// Writer turns loaded response batches into format-specific output. The
// orchestrator initializes a writer once, hands it every batch in order, and
// closes it exactly once after the last batch.
type Writer interface {
	// Initialize binds the writer to a loaded survey and the formatting
	// options, and prepares the sink.
	Initialize(s *survey.Survey, language string, opts *Options) error
	// RenderBatch renders the survey's current response window. The first
	// flag is set for the first batch only and controls one-time header
	// emission.
	RenderBatch(first bool) error
	// Close finalizes and releases the sink.
	Close() error
}

// RowCounter reports how many filter-passing rows a writer has emitted.
// Every writer in this package implements it.
type RowCounter interface {
	RowsWritten() int
}

// formatHooks is the serialization half of a writer. The shared template
// owns filtering and rendering; the hooks own bytes.
type formatHooks interface {
	// writeHeaders receives the resolved header sequence once, before any
	// row of the first batch. Formats without a header section ignore it.
	writeHeaders(headers []string) error
	// writeRow receives one rendered row. n is the 1-based ordinal of the
	// row among all rows this writer has emitted.
	writeRow(n int, values []string) error
}

// baseWriter carries the state shared by every format writer and implements
// the fixed control flow: compute headers on the first batch, filter rows,
// render one value per selected column, delegate serialization to the hooks.
type baseWriter struct {
	survey     *survey.Survey
	language   string
	opts       *Options
	translator *i18n.Translator

	headers   []string
	renderers []ValueRenderer
	written   int
}

// init validates the options and resolves one renderer per selected column.
func (w *baseWriter) init(s *survey.Survey, language string, opts *Options) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	w.survey = s
	w.language = language
	w.opts = opts
	w.renderers = make([]ValueRenderer, len(opts.Columns))
	for i, column := range opts.Columns {
		w.renderers[i] = RendererFor(s, w.translator, language, column)
	}
	return nil
}

// renderRows runs the shared template for one batch against the hooks. The
// header sequence is computed on the first batch and handed to the hooks even
// when every row of that batch is filtered out.
func (w *baseWriter) renderRows(first bool, hooks formatHooks) error {
	if first {
		w.headers = make([]string, len(w.opts.Columns))
		for i, column := range w.opts.Columns {
			w.headers[i] = Heading(w.survey, w.translator, w.language, w.opts, column)
		}
		if err := hooks.writeHeaders(w.headers); err != nil {
			return err
		}
	}

	for _, row := range w.survey.Responses {
		if !w.opts.IncludeRow(row) {
			continue
		}
		values := make([]string, len(w.opts.Columns))
		for i, column := range w.opts.Columns {
			v, err := w.renderValue(i, row[column])
			if err != nil {
				return err
			}
			values[i] = v
		}
		w.written++
		if err := hooks.writeRow(w.written, values); err != nil {
			return err
		}
	}
	return nil
}

// renderValue renders one cell in the configured answer mode. An answer mode
// outside short/long is a configuration fault, never a silent fallback.
func (w *baseWriter) renderValue(i int, raw string) (string, error) {
	switch w.opts.Answers {
	case AnswerShort:
		return w.renderers[i].RenderShort(raw, w.opts), nil
	case AnswerLong:
		return w.renderers[i].RenderFull(raw, w.opts), nil
	}
	return "", NewOptionsError("answers", fmt.Sprintf("unsupported answer mode %q", w.opts.Answers))
}

// recordTitle builds the localized banner for one record ("Record 3").
func (w *baseWriter) recordTitle(n int) string {
	return fmt.Sprintf("%s %d", w.translator.Resolve("export.record", w.language), n)
}

// RowsWritten reports how many filter-passing rows have been emitted so far.
func (w *baseWriter) RowsWritten() int {
	return w.written
}
