// Package metrics maintains the Prometheus metric families for the export
// pipeline.
//
// A single Collector owns the registry and exposes typed record methods for
// the two things the engine does: export runs and retention sweeps. Runs
// count by format and status, with a duration histogram and counters for
// rows written and batches loaded. Sweeps count by status along with the
// files and ledger rows they removed. Disabling metrics in the
// configuration turns every record call into a no-op without touching call
// sites.
//
//	collector := metrics.NewCollector(cfg, nil)
//	collector.RecordExport("csv", "completed", elapsed, rows, batches)
//	collector.RecordPrune("completed", filesRemoved, jobsDeleted)
//
// # Exposition
//
// Collector.Handler serves the registry in Prometheus text format; the
// prune loop mounts it on the configured metrics path:
//
//	# HELP lsexport_exports_total Total number of export runs
//	# TYPE lsexport_exports_total counter
//	lsexport_exports_total{format="csv",status="completed"} 42
package metrics
