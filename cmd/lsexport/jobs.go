package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/cedricOL/LimeSurvey/pkg/cli"
	"github.com/cedricOL/LimeSurvey/pkg/export/ledger"
)

var jobsFlags struct {
	limit    int
	surveyID int
	format   string
}

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "List recorded export jobs",
	Long: `List export jobs recorded in the job ledger, newest first.

Examples:
  # Show the 20 most recent jobs
  lsexport jobs

  # All jobs for one survey as JSON
  lsexport jobs --survey 123456 --limit 0 --format json

  # Job history as CSV
  lsexport jobs --format csv --limit 0`,
	RunE: listJobs,
}

func init() {
	rootCmd.AddCommand(jobsCmd)

	jobsCmd.Flags().IntVarP(&jobsFlags.limit, "limit", "n", 20, "max jobs to list (0 = all)")
	jobsCmd.Flags().IntVarP(&jobsFlags.surveyID, "survey", "s", 0, "only jobs for this survey id")
	jobsCmd.Flags().StringVar(&jobsFlags.format, "format", "text", "output format: text, json, csv")
}

func listJobs(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := setupLogging(cfg); err != nil {
		return err
	}

	// The ledger is opened regardless of ledger.enabled: history recorded
	// while it was on stays readable after it is switched off.
	led, err := ledger.NewLedger(&ledger.LedgerConfig{
		Path:        cfg.Ledger.Path,
		BusyTimeout: cfg.Ledger.BusyTimeout,
	})
	if err != nil {
		return cli.NewCommandError("jobs", err)
	}
	defer led.Close()

	ctx := cli.SetupSignalHandler()

	// The survey filter is applied client side, so list everything when it
	// is set and trim back to the limit afterwards.
	limit := jobsFlags.limit
	if jobsFlags.surveyID > 0 {
		limit = 0
	}
	jobs, err := led.List(ctx, limit)
	if err != nil {
		return cli.NewCommandError("jobs", err)
	}
	jobs = filterJobs(jobs, jobsFlags.surveyID, jobsFlags.limit)

	if len(jobs) == 0 && jobsFlags.format == string(cli.FormatText) {
		fmt.Println("No export jobs recorded.")
		return nil
	}

	formatter := cli.NewFormatter(cli.OutputFormat(jobsFlags.format))
	return formatter.FormatTo(os.Stdout, jobListing(jobs))
}

// filterJobs keeps the jobs for the given survey id (0 keeps everything)
// and trims the result back to the listing limit (0 keeps everything).
func filterJobs(jobs []*ledger.Job, surveyID, limit int) []*ledger.Job {
	if surveyID > 0 {
		filtered := jobs[:0]
		for _, job := range jobs {
			if job.SurveyID == surveyID {
				filtered = append(filtered, job)
			}
		}
		jobs = filtered
	}
	if limit > 0 && len(jobs) > limit {
		jobs = jobs[:limit]
	}
	return jobs
}

// jobListing adapts ledger jobs to the output formatters: JSON marshals the
// jobs themselves, text and CSV render the table below.
type jobListing []*ledger.Job

func (l jobListing) TableHeader() []string {
	return []string{"ID", "SURVEY", "LANG", "FORMAT", "DEST", "ROWS", "STATUS", "STARTED", "DURATION"}
}

func (l jobListing) TableRows() [][]string {
	rows := make([][]string, 0, len(l))
	for _, job := range l {
		status := job.Status
		if job.Status == ledger.StatusFailed && job.Error != "" {
			status = fmt.Sprintf("%s: %s", job.Status, job.Error)
		}
		rows = append(rows, []string{
			job.ID,
			strconv.Itoa(job.SurveyID),
			job.Language,
			job.Format,
			job.Destination,
			strconv.Itoa(job.Rows),
			status,
			job.StartedAt.Format(time.RFC3339),
			job.Duration().Round(time.Millisecond).String(),
		})
	}
	return rows
}
