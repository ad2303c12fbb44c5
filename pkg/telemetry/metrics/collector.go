package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/cedricOL/LimeSurvey/pkg/config"
)

// Collector is the single entry point for recording Prometheus metrics in the
// export pipeline. It owns the registry, registers every metric family at
// construction time, and exposes typed record methods so callers never touch
// label plumbing directly.
type Collector struct {
	config    *config.MetricsConfig
	registry  *prometheus.Registry
	export    *ExportMetrics
	retention *RetentionMetrics
}

// NewCollector registers the export and retention metric families on registry
// and returns the collector fronting them. A nil registry gets a private one,
// which keeps test collectors isolated from each other. Hand-built configs
// missing a namespace or histogram buckets get the same values ApplyDefaults
// would have filled in.
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if cfg.Namespace == "" {
		cfg.Namespace = config.DefaultMetricsNamespace
	}
	if len(cfg.DurationBuckets) == 0 {
		cfg.DurationBuckets = config.DefaultMetricsDurationBuckets()
	}

	return &Collector{
		config:    cfg,
		registry:  registry,
		export:    NewExportMetrics(cfg, registry),
		retention: NewRetentionMetrics(cfg, registry),
	}
}

// RecordExport records one export run. Format and status label the counters,
// duration feeds the run-time histogram, and rows and batches count what the
// run wrote and loaded. A disabled collector drops the observation.
func (c *Collector) RecordExport(format, status string, duration time.Duration, rows, batches int) {
	if !c.config.Enabled {
		return
	}
	c.export.RecordExport(format, status, duration, rows, batches)
}

// RecordPrune records one retention sweep: its status, the export files
// removed from the workspace, and the ledger rows deleted.
func (c *Collector) RecordPrune(status string, files, jobs int) {
	if !c.config.Enabled {
		return
	}
	c.retention.RecordPrune(status, files, jobs)
}

// Registry exposes the backing registry so the ops listener can mount a
// scrape handler for it.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
