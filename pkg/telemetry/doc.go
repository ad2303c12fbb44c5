// Package telemetry wires observability into the export engine.
//
// Three subpackages divide the work. logging builds slog loggers whose
// handler chain redacts participant data before any attribute reaches an
// encoder. metrics maintains the Prometheus collectors for export and
// retention activity. health serves the liveness, readiness, and version
// endpoints that the prune loop mounts beside the metrics handler.
//
// Logging is always on. The metrics registry and the HTTP endpoints exist
// only while the retention loop runs its ops listener; one-shot commands
// pass a nil collector and skip them entirely.
//
// A command wires the pieces in this order:
//
//	logger, err := logging.NewFromConfig(&cfg.Telemetry.Logging)
//	...
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//
//	ctx = logging.WithJobID(ctx, jobID)
//	ctx = logging.WithSurveyID(ctx, surveyID)
//	logger.InfoContext(ctx, "export completed", "rows", rows)
//	collector.RecordExport("csv", "success", elapsed, rows, batches)
//
// # Participant data in logs
//
// Survey responses carry addresses, tokens, and free text, and fragments of
// them leak into log attributes through error messages. The default
// redaction rules rewrite emails to ***@***, values under sensitive keys
// such as token to ***, and IP addresses down to their first octet.
// Deployments add their own rules in telemetry.logging.redact_patterns.
package telemetry
