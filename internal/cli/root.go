package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	appVersion = "dev"
	appCommit  = "none"
	appDate    = "unknown"
)

// SetVersionInfo sets the version information injected via ldflags.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

var rootCmd = &cobra.Command{
	Use:   "dayplan",
	Short: "dayplan - time-boxed daily work planning",
	Long: `dayplan converts a flat list of tasks into a validated, time-boxed daily
work plan: tasks are grouped into stories, oversized tasks are split,
breaks are paced so no run of work exceeds the continuous-work limit, and
high-value "frog" tasks are scheduled early.

Candidate plans can be submitted to a remote acceptance endpoint; rejected
plans are repaired and resubmitted with bounded, backed-off retries. Load
that does not fit the day's window is deferred to the following days.`,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("dayplan %s\ncommit: %s\nbuilt:  %s\n", appVersion, appCommit, appDate)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
