package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// Job status values.
const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Job is the history row recorded for one export run.
type Job struct {
	ID          string    `json:"id"` // UUID assigned by the export service
	SurveyID    int       `json:"survey_id"`
	Language    string    `json:"language"`
	Format      string    `json:"format"`
	Destination string    `json:"destination"`
	Path        string    `json:"path,omitempty"` // Produced file, empty for display exports
	Rows        int       `json:"rows"`           // Rows written after the completion filter
	Batches     int       `json:"batches"`
	Status      string    `json:"status"`          // "completed" or "failed"
	Error       string    `json:"error,omitempty"` // Failure description, empty on success
	StartedAt   time.Time `json:"started_at"`
	FinishedAt  time.Time `json:"finished_at"`
}

// Duration is the wall time the job took.
func (j *Job) Duration() time.Duration {
	return j.FinishedAt.Sub(j.StartedAt)
}

// LedgerConfig configures the export job ledger.
type LedgerConfig struct {
	// Path is the SQLite database file holding the job history.
	// Default: "data/export-jobs.db"
	Path string

	// BusyTimeout bounds the wait on a locked ledger database.
	// Default: 5s
	BusyTimeout time.Duration
}

// DefaultLedgerConfig mirrors the configuration defaults.
func DefaultLedgerConfig() *LedgerConfig {
	return &LedgerConfig{
		Path:        "data/export-jobs.db",
		BusyTimeout: 5 * time.Second,
	}
}

// Ledger records export job history in a SQLite database. The database is
// driverless-SQLite backed, so the ledger works without cgo.
type Ledger struct {
	db        *sql.DB
	logger    *slog.Logger
	mu        sync.RWMutex
	closeOnce sync.Once

	recordStmt *sql.Stmt
	getStmt    *sql.Stmt
	listStmt   *sql.Stmt
	pruneStmt  *sql.Stmt
}

// NewLedger opens (or creates) the job ledger. A nil config uses defaults.
func NewLedger(config *LedgerConfig) (*Ledger, error) {
	if config == nil {
		config = DefaultLedgerConfig()
	}
	if config.Path == "" {
		config.Path = DefaultLedgerConfig().Path
	}
	if config.BusyTimeout == 0 {
		config.BusyTimeout = DefaultLedgerConfig().BusyTimeout
	}

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=%d&_synchronous=NORMAL",
		config.Path, int(config.BusyTimeout.Milliseconds()))

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger database: %w", err)
	}

	// SQLite only supports a single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	l := &Ledger{
		db:     db,
		logger: slog.Default().With("component", "export.ledger"),
	}

	if err := l.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize ledger schema: %w", err)
	}
	if err := l.prepareStatements(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to prepare ledger statements: %w", err)
	}

	l.logger.Info("export ledger opened", "path", config.Path)
	return l, nil
}

// initSchema creates the job table if it doesn't exist.
func (l *Ledger) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS export_jobs (
		id TEXT PRIMARY KEY,
		survey_id INTEGER NOT NULL,
		language TEXT NOT NULL,
		format TEXT NOT NULL,
		destination TEXT NOT NULL,
		path TEXT NOT NULL DEFAULT '',
		rows INTEGER NOT NULL,
		batches INTEGER NOT NULL,
		status TEXT NOT NULL,
		error TEXT NOT NULL DEFAULT '',
		started_at INTEGER NOT NULL,
		finished_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_export_jobs_started ON export_jobs(started_at);
	CREATE INDEX IF NOT EXISTS idx_export_jobs_survey ON export_jobs(survey_id);
	`

	_, err := l.db.Exec(schema)
	return err
}

// prepareStatements compiles the job statements once at open time.
func (l *Ledger) prepareStatements() error {
	var err error

	l.recordStmt, err = l.db.Prepare(`
		INSERT INTO export_jobs (id, survey_id, language, format, destination, path, rows, batches, status, error, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			path = excluded.path,
			rows = excluded.rows,
			batches = excluded.batches,
			status = excluded.status,
			error = excluded.error,
			finished_at = excluded.finished_at
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare record statement: %w", err)
	}

	l.getStmt, err = l.db.Prepare(`
		SELECT id, survey_id, language, format, destination, path, rows, batches, status, error, started_at, finished_at
		FROM export_jobs
		WHERE id = ?
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare get statement: %w", err)
	}

	l.listStmt, err = l.db.Prepare(`
		SELECT id, survey_id, language, format, destination, path, rows, batches, status, error, started_at, finished_at
		FROM export_jobs
		ORDER BY started_at DESC, id DESC
		LIMIT ?
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare list statement: %w", err)
	}

	l.pruneStmt, err = l.db.Prepare(`
		DELETE FROM export_jobs
		WHERE finished_at < ?
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare prune statement: %w", err)
	}

	return nil
}

// Record persists one job row. Recording the same job id twice updates the
// outcome columns, so a retried write is harmless.
func (l *Ledger) Record(ctx context.Context, job *Job) error {
	if job == nil {
		return fmt.Errorf("job cannot be nil")
	}
	if job.ID == "" {
		return fmt.Errorf("job id cannot be empty")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	_, err := l.recordStmt.ExecContext(ctx,
		job.ID,
		job.SurveyID,
		job.Language,
		job.Format,
		job.Destination,
		job.Path,
		job.Rows,
		job.Batches,
		job.Status,
		job.Error,
		job.StartedAt.Unix(),
		job.FinishedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to record job: %w", err)
	}

	return nil
}

// Get retrieves one job by id. A missing id returns (nil, nil).
func (l *Ledger) Get(ctx context.Context, id string) (*Job, error) {
	if id == "" {
		return nil, fmt.Errorf("job id cannot be empty")
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	job, err := scanJob(l.getStmt.QueryRowContext(ctx, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load job: %w", err)
	}
	return job, nil
}

// List returns the most recent jobs, newest first. A non-positive limit
// returns every job.
func (l *Ledger) List(ctx context.Context, limit int) ([]*Job, error) {
	// A negative LIMIT means unlimited in SQLite
	if limit <= 0 {
		limit = -1
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	rows, err := l.listStmt.QueryContext(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating jobs: %w", err)
	}

	return jobs, nil
}

// PruneBefore deletes every job that finished before the cutoff and returns
// how many rows were removed.
func (l *Ledger) PruneBefore(ctx context.Context, cutoff time.Time) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	result, err := l.pruneStmt.ExecContext(ctx, cutoff.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to prune jobs: %w", err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	if deleted > 0 {
		l.logger.Info("pruned export jobs", "removed", deleted, "cutoff", cutoff)
	}
	return int(deleted), nil
}

// Close releases the ledger's resources. Close is idempotent and safe to
// call multiple times.
func (l *Ledger) Close() error {
	var closeErr error

	l.closeOnce.Do(func() {
		if l.recordStmt != nil {
			l.recordStmt.Close()
		}
		if l.getStmt != nil {
			l.getStmt.Close()
		}
		if l.listStmt != nil {
			l.listStmt.Close()
		}
		if l.pruneStmt != nil {
			l.pruneStmt.Close()
		}
		if l.db != nil {
			_, _ = l.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)")
			closeErr = l.db.Close()
		}
	})

	return closeErr
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (*Job, error) {
	var (
		job      Job
		started  int64
		finished int64
	)
	err := row.Scan(
		&job.ID,
		&job.SurveyID,
		&job.Language,
		&job.Format,
		&job.Destination,
		&job.Path,
		&job.Rows,
		&job.Batches,
		&job.Status,
		&job.Error,
		&started,
		&finished,
	)
	if err != nil {
		return nil, err
	}
	job.StartedAt = time.Unix(started, 0)
	job.FinishedAt = time.Unix(finished, 0)
	return &job, nil
}
