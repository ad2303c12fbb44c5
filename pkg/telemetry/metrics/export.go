package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/cedricOL/LimeSurvey/pkg/config"
)

// ExportMetrics covers the export pipeline. Four series, all labeled by
// format: exports_total (with a status label), export_duration_seconds,
// rows_exported_total, and batches_total.
type ExportMetrics struct {
	// Total export runs
	exportsTotal *prometheus.CounterVec

	// Export run duration histogram
	exportDuration *prometheus.HistogramVec

	// Rows written after the completion filter
	rowsTotal *prometheus.CounterVec

	// Response batches loaded from storage
	batchesTotal *prometheus.CounterVec
}

// NewExportMetrics registers the export series on registry, named per cfg.
func NewExportMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *ExportMetrics {
	em := &ExportMetrics{
		exportsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "exports_total",
				Help:      "Total number of export runs",
			},
			[]string{"format", "status"},
		),

		exportDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "export_duration_seconds",
				Help:      "Duration of export runs in seconds",
				Buckets:   cfg.DurationBuckets,
			},
			[]string{"format"},
		),

		rowsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "rows_exported_total",
				Help:      "Total number of response rows written",
			},
			[]string{"format"},
		),

		batchesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "batches_total",
				Help:      "Total number of response batches loaded from storage",
			},
			[]string{"format"},
		),
	}

	registry.MustRegister(
		em.exportsTotal,
		em.exportDuration,
		em.rowsTotal,
		em.batchesTotal,
	)

	return em
}

// RecordExport accounts one finished run. Status is "completed" or "failed".
// Zero row and batch counts leave the volume series untouched, so a run that
// failed before producing output only moves the run counter.
func (em *ExportMetrics) RecordExport(format, status string, duration time.Duration, rows, batches int) {
	em.exportsTotal.WithLabelValues(format, status).Inc()
	em.exportDuration.WithLabelValues(format).Observe(duration.Seconds())

	if rows > 0 {
		em.rowsTotal.WithLabelValues(format).Add(float64(rows))
	}
	if batches > 0 {
		em.batchesTotal.WithLabelValues(format).Add(float64(batches))
	}
}
