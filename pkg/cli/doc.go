/*
Package cli holds the terminal-facing plumbing shared by the lsexport
commands: result formatting, progress reporting, error classification, and
signal handling.

# Formatting results

Command results render as text, JSON, or CSV. A result that implements
Tabular, such as the export job listing, prints as aligned columns in text
mode and as one row per entry in CSV mode; everything else falls back to %v
or JSON marshalling:

	formatter := cli.NewFormatter(cli.FormatJSON)
	if err := formatter.FormatTo(os.Stdout, jobs); err != nil {
		return err
	}

# Progress

Row-by-row exports report progress on stderr. The bar repaints at most every
100ms, so tight loops do not flood the terminal:

	bar := cli.NewProgress(os.Stderr, total)
	for i := range rows {
		bar.Set(i + 1)
	}
	bar.Finish()

Abort clears the line instead of completing the bar, keeping the error
message that follows it readable.

# Errors and exit codes

ConfigError marks usage and configuration mistakes; the root command maps it
to exit status 2, while every other failure exits 1. CommandError wraps a
subcommand failure with the command name and unwraps to its cause, so
errors.As still reaches the type underneath.

# Shutdown

SetupSignalHandler returns a context cancelled on SIGINT or SIGTERM. Exports
check it between batches, so an interrupted run stops at a batch boundary
with the rows written so far intact on disk.
*/
package cli
