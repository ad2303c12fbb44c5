package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/cedricOL/LimeSurvey/pkg/config"
)

// LogFormat selects the handler encoding.
type LogFormat string

const (
	// FormatJSON encodes one JSON object per line.
	FormatJSON LogFormat = "json"
	// FormatText encodes key=value pairs.
	FormatText LogFormat = "text"
	// FormatConsole is the human-readable rendering of text.
	FormatConsole LogFormat = "console"
)

// Logger is a slog.Logger whose handler chain scrubs respondent PII and
// appends the export metadata carried in the context. Because both live in
// the handlers rather than in wrapper methods, they also cover components
// that log through Slog() or a slog.Default() installed from it.
type Logger struct {
	*slog.Logger
}

// Config describes a Logger. The zero value means info-level JSON to
// stderr without redaction.
type Config struct {
	// Level is the minimum level: debug, info, warn or error.
	Level string

	// Format is the encoding: json, text or console.
	Format string

	// AddSource includes the file:line of the call site.
	AddSource bool

	// RedactPII scrubs respondent PII from messages and fields.
	RedactPII bool

	// RedactPatterns extends or overrides the built-in PII patterns.
	RedactPatterns []config.RedactPattern

	// Writer receives the output, os.Stderr when nil.
	Writer io.Writer
}

// New builds the handler chain: the encoder, then redaction, then context
// metadata outermost.
func New(cfg Config) (*Logger, error) {
	level, err := parseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	format, err := parseFormat(cfg.Format)
	if err != nil {
		return nil, err
	}

	// Logs go to stderr so display exports on stdout stay machine-readable.
	writer := cfg.Writer
	if writer == nil {
		writer = os.Stderr
	}

	opts := &slog.HandlerOptions{Level: level, AddSource: cfg.AddSource}
	var handler slog.Handler
	if format == FormatJSON {
		handler = slog.NewJSONHandler(writer, opts)
	} else {
		// Console rides on the text handler, slog has no third encoder.
		handler = slog.NewTextHandler(writer, opts)
	}

	if cfg.RedactPII {
		handler = &redactHandler{next: handler, redactor: NewRedactor(cfg.RedactPatterns)}
	}
	handler = &contextHandler{next: handler}

	return &Logger{Logger: slog.New(handler)}, nil
}

// NewFromConfig builds a Logger from the application logging section.
func NewFromConfig(cfg *config.LoggingConfig) (*Logger, error) {
	return New(Config{
		Level:          cfg.Level,
		Format:         cfg.Format,
		AddSource:      cfg.AddSource,
		RedactPII:      cfg.RedactPII,
		RedactPatterns: cfg.RedactPatterns,
	})
}

// Slog returns the logger for components that accept a *slog.Logger.
// Redaction stays attached, it lives in the handler chain.
func (l *Logger) Slog() *slog.Logger {
	return l.Logger
}

// With returns a Logger with the fields appended to every record. The
// fields pass through the redacting handler like any others.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{Logger: l.Logger.With(args...)}
}

// WithContext returns a Logger carrying the export metadata currently in
// ctx as permanent fields.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	attrs := contextAttrs(ctx)
	if len(attrs) == 0 {
		return l
	}
	args := make([]any, len(attrs))
	for i, a := range attrs {
		args[i] = a
	}
	return l.With(args...)
}

var levelNames = map[string]slog.Level{
	"debug":   slog.LevelDebug,
	"info":    slog.LevelInfo,
	"warn":    slog.LevelWarn,
	"warning": slog.LevelWarn,
	"error":   slog.LevelError,
}

// parseLevel maps a config level string onto a slog.Level. Empty means info.
func parseLevel(s string) (slog.Level, error) {
	if s == "" {
		return slog.LevelInfo, nil
	}
	if level, ok := levelNames[strings.ToLower(s)]; ok {
		return level, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level: %s", s)
}

// parseFormat maps a config format string onto a LogFormat. Empty means json.
func parseFormat(s string) (LogFormat, error) {
	switch format := LogFormat(strings.ToLower(s)); format {
	case "":
		return FormatJSON, nil
	case FormatJSON, FormatText, FormatConsole:
		return format, nil
	default:
		return FormatJSON, fmt.Errorf("unknown log format: %s", s)
	}
}
