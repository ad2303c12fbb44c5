// Package ledger records export job history in a local SQLite database.
//
// Every export run, successful or failed, is written as one job row keyed by
// the job's UUID. The ledger backs the jobs listing in the CLI and gives the
// retention pruner a cutoff to delete old history against. It uses the
// pure-Go SQLite driver, so no cgo toolchain is needed.
package ledger
