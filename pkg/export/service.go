package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/cedricOL/LimeSurvey/pkg/export/ledger"
	"github.com/cedricOL/LimeSurvey/pkg/i18n"
	"github.com/cedricOL/LimeSurvey/pkg/survey"
	"github.com/cedricOL/LimeSurvey/pkg/telemetry/logging"
	"github.com/cedricOL/LimeSurvey/pkg/telemetry/metrics"
)

// batchSize is how many responses are loaded from storage per round trip.
// Responses stream through the writer in batches so memory stays flat no
// matter how large the survey is.
const batchSize = 100

// ServiceConfig configures the export service.
type ServiceConfig struct {
	// Storage provides survey structure and response rows. Required.
	Storage survey.Storage

	// Translator resolves localized headings and answer labels. When nil, a
	// translator serving built-in English strings is used.
	Translator *i18n.Translator

	// Workspace is the directory file exports are written into.
	// Default: "data/exports"
	Workspace string

	// Ledger records job history. Optional.
	Ledger *ledger.Ledger

	// Metrics records run outcomes. Optional.
	Metrics *metrics.Collector
}

// Result describes one finished export run.
type Result struct {
	JobID    string
	SurveyID int
	Format   Format
	Path     string // Produced file, empty for display exports
	Rows     int    // Rows written after the completion filter
	Batches  int
	Duration time.Duration
}

// Service runs survey response exports. It loads responses in fixed-size
// batches, streams them through a format writer, and records the outcome in
// the job ledger and metrics when those are configured.
type Service struct {
	storage    survey.Storage
	translator *i18n.Translator
	workspace  string
	ledger     *ledger.Ledger
	metrics    *metrics.Collector
	logger     *slog.Logger
}

// NewService creates an export service from the given configuration.
func NewService(cfg *ServiceConfig) (*Service, error) {
	if cfg == nil {
		return nil, fmt.Errorf("service config cannot be nil")
	}
	if cfg.Storage == nil {
		return nil, fmt.Errorf("storage is required")
	}

	translator := cfg.Translator
	if translator == nil {
		translator = i18n.NewTranslator("")
	}
	workspace := cfg.Workspace
	if workspace == "" {
		workspace = "data/exports"
	}

	return &Service{
		storage:    cfg.Storage,
		translator: translator,
		workspace:  workspace,
		ledger:     cfg.Ledger,
		metrics:    cfg.Metrics,
		logger:     slog.Default().With("component", "export.service"),
	}, nil
}

// Export runs one export of the survey's responses in the requested format.
//
// The record range, completion filter, heading and answer modes all come from
// opts. An unrecognized format falls back to CSV. The run is recorded in the
// job ledger and metrics whether it succeeds or fails.
func (s *Service) Export(ctx context.Context, surveyID int, language string, format Format, opts *Options) (*Result, error) {
	if surveyID <= 0 {
		return nil, NewOptionsError("survey_id", "survey id is required")
	}
	if language == "" {
		return nil, NewOptionsError("language", "language code is required")
	}
	if opts == nil {
		return nil, NewOptionsError("options", "export options are required")
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	format = ParseFormat(string(format))

	jobID := uuid.NewString()

	// Tag the context so every record logged under it names the job. The
	// process logger's handler picks the fields up.
	ctx = logging.WithJobID(ctx, jobID)
	ctx = logging.WithSurveyID(ctx, surveyID)
	ctx = logging.WithFormat(ctx, string(format))
	ctx = logging.WithLanguage(ctx, language)

	started := time.Now()

	result, err := s.run(ctx, jobID, surveyID, language, format, opts)
	finished := time.Now()
	duration := finished.Sub(started)

	status := ledger.StatusCompleted
	var (
		errMsg  string
		rows    int
		batches int
		path    string
	)
	if err != nil {
		status = ledger.StatusFailed
		errMsg = err.Error()
		var exportErr *ExportError
		if errors.As(err, &exportErr) {
			rows = exportErr.Rows
		}
	} else {
		result.Duration = duration
		rows = result.Rows
		batches = result.Batches
		path = result.Path
	}

	if s.ledger != nil {
		job := &ledger.Job{
			ID:          jobID,
			SurveyID:    surveyID,
			Language:    language,
			Format:      string(format),
			Destination: string(opts.Destination),
			Path:        path,
			Rows:        rows,
			Batches:     batches,
			Status:      status,
			Error:       errMsg,
			StartedAt:   started,
			FinishedAt:  finished,
		}
		// The run context may already be cancelled; the outcome still gets
		// recorded.
		if recErr := s.ledger.Record(context.Background(), job); recErr != nil {
			s.logger.WarnContext(ctx, "failed to record export job", "error", recErr)
		}
	}
	if s.metrics != nil {
		s.metrics.RecordExport(string(format), status, duration, rows, batches)
	}

	if err != nil {
		s.logger.ErrorContext(ctx, "export failed", "error", err)
		return nil, err
	}

	s.logger.InfoContext(ctx, "export completed",
		"rows", rows,
		"batches", batches,
		"duration", duration)
	return result, nil
}

// run does the actual work of one export and returns a Result without
// bookkeeping fields filled in.
func (s *Service) run(ctx context.Context, jobID string, surveyID int, language string, format Format, opts *Options) (*Result, error) {
	sv, err := s.storage.LoadStructure(ctx, surveyID, language)
	if err != nil {
		return nil, NewExportError(format, surveyID, 0, err)
	}

	min := opts.Min
	if min < 1 {
		min = 1
	}
	max := opts.Max
	if max <= 0 {
		count, err := s.storage.CountResponses(ctx, surveyID)
		if err != nil {
			return nil, NewExportError(format, surveyID, 0, err)
		}
		max = count
	}

	out, path, file, err := s.openDestination(jobID, surveyID, format, opts)
	if err != nil {
		return nil, NewExportError(format, surveyID, 0, err)
	}

	w := s.newWriter(format, out)

	rows, batches, err := s.writeAll(ctx, w, sv, language, opts, min, max)
	if err == nil {
		err = w.Close()
	} else {
		// Best effort: release whatever the writer holds before cleanup.
		w.Close()
	}
	if err != nil {
		if file != nil {
			file.Close()
			os.Remove(path)
		}
		return nil, NewExportError(format, surveyID, rows, err)
	}

	if file != nil {
		if err := file.Close(); err != nil {
			os.Remove(path)
			return nil, NewExportError(format, surveyID, rows, fmt.Errorf("failed to close export file: %w", err))
		}
	}

	return &Result{
		JobID:    jobID,
		SurveyID: surveyID,
		Format:   format,
		Path:     path,
		Rows:     rows,
		Batches:  batches,
	}, nil
}

// writeAll streams response batches through the writer. It returns the rows
// written so far even on failure, so partial progress shows up in the ledger.
func (s *Service) writeAll(ctx context.Context, w Writer, sv *survey.Survey, language string, opts *Options, min, max int) (int, int, error) {
	if err := w.Initialize(sv, language, opts); err != nil {
		return 0, 0, err
	}

	// The record counter is zero-based while the configured range is
	// one-based.
	current := min - 1
	batches := 0
	first := true

	for current < max {
		select {
		case <-ctx.Done():
			return rowsWritten(w), batches, ctx.Err()
		default:
		}

		limit := batchSize
		if remaining := max - current; remaining < limit {
			limit = remaining
		}

		n, err := survey.LoadBatch(ctx, s.storage, sv, limit, current)
		if err != nil {
			return rowsWritten(w), batches, err
		}
		if n == 0 {
			// Storage ran out of rows before the range did
			break
		}
		batches++

		if err := w.RenderBatch(first); err != nil {
			return rowsWritten(w), batches, err
		}
		first = false
		current += n
	}

	return rowsWritten(w), batches, nil
}

// openDestination resolves where the export is written. For file exports it
// creates the workspace directory and a uniquely named file; for display
// exports it returns the configured writer or stdout.
func (s *Service) openDestination(jobID string, surveyID int, format Format, opts *Options) (io.Writer, string, *os.File, error) {
	if opts.Destination != DestinationFile {
		out := opts.Out
		if out == nil {
			out = os.Stdout
		}
		return out, "", nil, nil
	}

	if err := os.MkdirAll(s.workspace, 0o755); err != nil {
		return nil, "", nil, fmt.Errorf("failed to create export workspace: %w", err)
	}

	name := fmt.Sprintf("survey_%d_%s.%s", surveyID, jobID, fileExtension(format))
	path := filepath.Join(s.workspace, name)
	f, err := os.Create(path)
	if err != nil {
		return nil, "", nil, fmt.Errorf("failed to create export file: %w", err)
	}
	return f, path, f, nil
}

func (s *Service) newWriter(format Format, out io.Writer) Writer {
	switch format {
	case FormatExcel:
		return NewExcelWriter(NewExcelizeSink(out), s.translator)
	case FormatPDF:
		return NewPDFWriter(NewFpdfSink(out), s.translator)
	case FormatDoc:
		return NewDocWriter(out, s.translator)
	default:
		return NewCSVWriter(out, s.translator)
	}
}

func fileExtension(format Format) string {
	switch format {
	case FormatExcel:
		// excelize produces OOXML workbooks
		return "xlsx"
	case FormatPDF:
		return "pdf"
	case FormatDoc:
		return "doc"
	default:
		return "csv"
	}
}

func rowsWritten(w Writer) int {
	if counter, ok := w.(RowCounter); ok {
		return counter.RowsWritten()
	}
	return 0
}
