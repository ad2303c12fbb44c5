package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/cedricOL/LimeSurvey/pkg/config"
)

// RetentionMetrics covers the workspace sweeps: prune_runs_total by status,
// plus plain counters for removed files and deleted ledger rows.
type RetentionMetrics struct {
	// Total retention sweeps
	pruneRunsTotal *prometheus.CounterVec

	// Export files removed from the workspace
	prunedFilesTotal prometheus.Counter

	// Ledger rows deleted
	prunedJobsTotal prometheus.Counter
}

// NewRetentionMetrics registers the sweep series on registry, named per cfg.
func NewRetentionMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *RetentionMetrics {
	rm := &RetentionMetrics{
		pruneRunsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "prune_runs_total",
				Help:      "Total number of retention sweeps",
			},
			[]string{"status"},
		),

		prunedFilesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "pruned_files_total",
				Help:      "Total number of export files removed by retention",
			},
		),

		prunedJobsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "pruned_jobs_total",
				Help:      "Total number of ledger rows deleted by retention",
			},
		),
	}

	registry.MustRegister(
		rm.pruneRunsTotal,
		rm.prunedFilesTotal,
		rm.prunedJobsTotal,
	)

	return rm
}

// RecordPrune accounts one finished sweep. Zero removal counts leave the
// volume counters untouched.
func (rm *RetentionMetrics) RecordPrune(status string, files, jobs int) {
	rm.pruneRunsTotal.WithLabelValues(status).Inc()

	if files > 0 {
		rm.prunedFilesTotal.Add(float64(files))
	}
	if jobs > 0 {
		rm.prunedJobsTotal.Add(float64(jobs))
	}
}
