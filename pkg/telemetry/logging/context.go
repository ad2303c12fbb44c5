package logging

import (
	"context"
	"log/slog"
)

// contextKey is unexported so no other package can collide with the
// metadata carried here.
type contextKey int

const (
	jobIDKey contextKey = iota
	surveyIDKey
	formatKey
	languageKey
)

// WithJobID tags the context with an export job id. Every record logged
// under the returned context names the job.
func WithJobID(ctx context.Context, jobID string) context.Context {
	return context.WithValue(ctx, jobIDKey, jobID)
}

// GetJobID returns the export job id in the context, or "".
func GetJobID(ctx context.Context) string {
	jobID, _ := ctx.Value(jobIDKey).(string)
	return jobID
}

// WithSurveyID tags the context with a survey id.
func WithSurveyID(ctx context.Context, surveyID int) context.Context {
	return context.WithValue(ctx, surveyIDKey, surveyID)
}

// GetSurveyID returns the survey id in the context, or 0.
func GetSurveyID(ctx context.Context) int {
	surveyID, _ := ctx.Value(surveyIDKey).(int)
	return surveyID
}

// WithFormat tags the context with an export format name.
func WithFormat(ctx context.Context, format string) context.Context {
	return context.WithValue(ctx, formatKey, format)
}

// GetFormat returns the export format name in the context, or "".
func GetFormat(ctx context.Context) string {
	format, _ := ctx.Value(formatKey).(string)
	return format
}

// WithLanguage tags the context with an export language code.
func WithLanguage(ctx context.Context, language string) context.Context {
	return context.WithValue(ctx, languageKey, language)
}

// GetLanguage returns the export language code in the context, or "".
func GetLanguage(ctx context.Context) string {
	language, _ := ctx.Value(languageKey).(string)
	return language
}

// contextAttrs collects the export metadata in the context as attributes,
// skipping unset fields. The contextHandler appends them to every record.
func contextAttrs(ctx context.Context) []slog.Attr {
	attrs := make([]slog.Attr, 0, 4)
	if jobID := GetJobID(ctx); jobID != "" {
		attrs = append(attrs, slog.String("job_id", jobID))
	}
	if surveyID := GetSurveyID(ctx); surveyID > 0 {
		attrs = append(attrs, slog.Int("survey_id", surveyID))
	}
	if format := GetFormat(ctx); format != "" {
		attrs = append(attrs, slog.String("format", format))
	}
	if language := GetLanguage(ctx); language != "" {
		attrs = append(attrs, slog.String("language", language))
	}
	return attrs
}
