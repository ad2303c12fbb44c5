package main

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Release builds stamp these through -ldflags "-X main.Version=...".
// Values left unstamped are resolved from the module build info at run time.
var (
	Version   = "0.1.0"
	GitCommit = ""
	BuildDate = ""
)

// buildInfo resolves the source revision and build date, preferring the
// stamped values over the VCS metadata the toolchain embeds.
func buildInfo() (commit, date string) {
	commit, date = GitCommit, BuildDate
	if commit != "" && date != "" {
		return commit, date
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, s := range info.Settings {
			switch s.Key {
			case "vcs.revision":
				if commit == "" {
					commit = s.Value
				}
			case "vcs.time":
				if date == "" {
					date = s.Value
				}
			}
		}
	}
	if commit == "" {
		commit = "unknown"
	}
	if date == "" {
		date = "unknown"
	}
	return commit, date
}

// shortRev trims a full revision hash to the short form git prints.
func shortRev(rev string) string {
	if len(rev) > 12 {
		return rev[:12]
	}
	return rev
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print the release version, source revision, and build toolchain.`,
	Run: func(cmd *cobra.Command, args []string) {
		commit, date := buildInfo()
		fmt.Printf("lsexport %s (%s, built %s)\n", Version, shortRev(commit), date)
		fmt.Printf("%s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
