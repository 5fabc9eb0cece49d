package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/planforge/dayplan/internal/core"
)

var overflowCmd = &cobra.Command{
	Use:   "overflow <tasks-file>",
	Short: "Preview how the task load spreads across days",
	Long: `Compute the day-by-day distribution for a tasks file without
allocating or storing anything.

Stories are sorted frog-first, then by ascending duration, and greedily
packed into consecutive day buckets sized by the configured work window.
Stories that fit nowhere are listed as unassigned.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if TaskSrc == nil || Enricher == nil {
			return fmt.Errorf("planner not initialized")
		}

		raw, err := TaskSrc.LoadTasks(args[0])
		if err != nil {
			return err
		}
		tasks, err := Enricher.Enrich(context.Background(), raw)
		if err != nil {
			return fmt.Errorf("enriching tasks: %w", err)
		}

		stories := core.AnalyzeAndGroupTasks(tasks)
		summary, err := core.NewDistributor(Config.Window).Distribute(stories)
		if err != nil {
			return fmt.Errorf("distributing load: %w", err)
		}

		fmt.Printf("Total load: %d min, window: %d min/day, days needed: %d\n\n",
			summary.TotalMinutes, summary.MinutesPerDay, summary.DaysNeeded)
		for _, bucket := range summary.Days {
			fmt.Printf("%s  (%d/%d min)\n", bucket.Date, bucket.AssignedMinutes, bucket.AvailableMinutes)
			for _, story := range bucket.Stories {
				marker := "  "
				if story.HasFrog {
					marker = "🐸"
				}
				fmt.Printf("  %s %-30s %4d min\n", marker, story.Title, story.EstimatedDuration)
			}
		}
		if len(summary.Unassigned) > 0 {
			fmt.Println("\nUnassigned (exceeds every day's capacity):")
			for _, story := range summary.Unassigned {
				fmt.Printf("  %-30s %4d min\n", story.Title, story.EstimatedDuration)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(overflowCmd)
}
