// Package retention enforces the retention policy on the export workspace.
//
// A sweep deletes export files older than the configured age, trims the
// workspace to the configured file cap starting with the oldest, and drops
// ledger rows whose jobs finished before the age cutoff. Only files matching
// the export service's naming scheme (survey_<id>_<job>.<ext>) are ever
// deleted; anything else living in the workspace directory is left alone.
// With both limits at zero a sweep is a no-op.
//
// The prune command triggers one sweep directly:
//
//	result, err := pruner.Prune(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	log.Printf("Removed %d files and %d ledger rows", result.FilesRemoved, result.JobsRemoved)
//
// # Scheduled sweeps
//
// With --loop the pruner runs sweeps on the cron expression in
// retention.prune_schedule, "0 3 * * *" by default. The scheduler honors
// context cancellation, lets a running sweep finish before shutting down,
// and reports the next run through NextPruning, which the readiness probe
// checks. An empty schedule disables the loop; Start returns immediately
// without error.
//
//	if err := pruner.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer pruner.Stop()
//
// # Limits
//
// retention.max_age_days keys age pruning: 0 keeps files forever, while the
// default of 30 deletes anything older than a month. retention.max_files
// caps the workspace size: 0 means unbounded, 100 keeps the newest hundred.
package retention
