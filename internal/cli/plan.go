package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/planforge/dayplan/internal/acceptance"
	"github.com/planforge/dayplan/internal/core"
	"github.com/planforge/dayplan/internal/observability"
	"github.com/planforge/dayplan/pkg/models"
)

var (
	planLocal bool
	planDate  string
)

var planCmd = &cobra.Command{
	Use:   "plan <tasks-file>",
	Short: "Build, validate, and store a work plan from a tasks file",
	Long: `Build a time-boxed work plan from a YAML tasks file.

Tasks are enriched, grouped into stories (frog tasks first), distributed
across days when the load exceeds the work window, and allocated into
work/break/debrief time boxes. Unless --local is given and an acceptance
endpoint is configured, the candidate plan is submitted for remote
validation, repaired on rejection, and resubmitted with backed-off retries.
The accepted plan is stored under its date.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if TaskSrc == nil || Store == nil || Enricher == nil {
			return fmt.Errorf("planner not initialized")
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		day := time.Now()
		if planDate != "" {
			parsed, err := time.ParseInLocation("2006-01-02", planDate, time.Local)
			if err != nil {
				return fmt.Errorf("parsing --date: %w", err)
			}
			day = parsed
		}

		schedule, summary, err := runPlanning(ctx, args[0], day, planLocal)
		if err != nil {
			return err
		}

		printPlanResult(schedule, summary)
		return nil
	},
}

// runPlanning executes the full pipeline: load, enrich, group, distribute,
// allocate, submit, store. It returns the stored schedule for the first day
// and the distribution summary.
func runPlanning(ctx context.Context, tasksPath string, day time.Time, local bool) (*models.Schedule, *models.DistributionSummary, error) {
	raw, err := TaskSrc.LoadTasks(tasksPath)
	if err != nil {
		return nil, nil, err
	}

	tasks, err := Enricher.Enrich(ctx, raw)
	if err != nil {
		return nil, nil, fmt.Errorf("enriching tasks: %w", err)
	}

	stories := core.AnalyzeAndGroupTasks(tasks)

	distributor := core.NewDistributor(Config.Window)
	distributor.Now = func() time.Time { return day }
	summary, err := distributor.Distribute(stories)
	if err != nil {
		return nil, nil, fmt.Errorf("distributing load: %w", err)
	}
	if summary.OverflowDeferred {
		recordEvent(observability.EventOverflow, "WARN", "load exceeds one day",
			map[string]any{"days_needed": summary.DaysNeeded, "unassigned": len(summary.Unassigned)})
	}

	startTime, err := core.StartOfWindow(day, Config.Window)
	if err != nil {
		return nil, nil, err
	}

	allocator := core.NewAllocator(core.MaxPartDuration, Config.FrogPolicy, frogObserver{})
	todayStories := summary.Days[0].Stories
	schedule, err := allocator.Allocate(todayStories, startTime)
	if err != nil {
		return nil, nil, fmt.Errorf("allocating time boxes: %w", err)
	}
	recordEvent(observability.EventPlanAllocated, "INFO", "candidate plan allocated",
		map[string]any{"date": schedule.Date, "total_duration": schedule.TotalDuration})

	if !local && Config.Acceptance.Endpoint != "" && Acceptor != nil {
		loop := acceptance.NewRepairLoop(Acceptor, Config.Acceptance.MaxAttempts, loopRecorder{})
		schedule, err = loop.Run(ctx, todayStories, schedule)
		if err != nil {
			return nil, nil, fmt.Errorf("validating plan: %w", err)
		}
	}

	if err := Store.Save(schedule.Date, schedule); err != nil {
		return nil, nil, err
	}
	return schedule, summary, nil
}

func printPlanResult(schedule *models.Schedule, summary *models.DistributionSummary) {
	fmt.Printf("Plan for %s: %d stories, %d minutes total\n",
		schedule.Date, len(schedule.StoryBlocks), schedule.TotalDuration)
	for _, block := range schedule.StoryBlocks {
		fmt.Printf("  %-30s %4d min, %d boxes\n", block.Title, block.TotalDuration, len(block.TimeBoxes))
	}
	fmt.Printf("Frogs: %d/%d scheduled, %d within the early target\n",
		schedule.Frogs.Scheduled, schedule.Frogs.Total, schedule.Frogs.WithinTarget)

	if summary.OverflowDeferred {
		fmt.Printf("\nOverflow: %d minutes across %d day(s)\n", summary.TotalMinutes, summary.DaysNeeded)
		for _, bucket := range summary.Days[1:] {
			fmt.Printf("  %s: %d min deferred\n", bucket.Date, bucket.AssignedMinutes)
		}
		for _, story := range summary.Unassigned {
			fmt.Printf("  unassigned: %s (%d min)\n", story.Title, story.EstimatedDuration)
		}
	}
}

// frogObserver routes late-frog findings into the event log.
type frogObserver struct{}

func (frogObserver) FrogMissedTarget(task models.Task, startMinute, targetMinute int) {
	recordEvent(observability.EventFrogLate, "WARN",
		fmt.Sprintf("frog %q starts at minute %d, target was %d", task.Title, startMinute, targetMinute),
		map[string]any{"task": task.Title, "start": startMinute, "target": targetMinute})
}

// loopRecorder adapts the event log to the repair loop's Recorder.
type loopRecorder struct{}

func (loopRecorder) Record(eventType, level, message string, data map[string]any) {
	recordEvent(eventType, level, message, data)
}

func recordEvent(eventType, level, message string, data map[string]any) {
	if EventLog == nil {
		return
	}
	EventLog.Record(eventType, level, message, data)
}

func init() {
	planCmd.Flags().BoolVar(&planLocal, "local", false, "skip remote validation")
	planCmd.Flags().StringVar(&planDate, "date", "", "plan date (YYYY-MM-DD, default today)")
	rootCmd.AddCommand(planCmd)
}
