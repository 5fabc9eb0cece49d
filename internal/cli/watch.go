package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

// watchDebounce coalesces editor write bursts into one re-plan.
const watchDebounce = 500 * time.Millisecond

var watchCmd = &cobra.Command{
	Use:   "watch <tasks-file>",
	Short: "Re-plan whenever the tasks file changes",
	Long: `Watch a tasks file and rebuild the local plan on every change.

Validation against the acceptance endpoint is skipped while watching; run
'dayplan plan' for a validated plan.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if TaskSrc == nil || Store == nil {
			return fmt.Errorf("planner not initialized")
		}

		tasksPath := args[0]
		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return fmt.Errorf("creating watcher: %w", err)
		}
		defer func() { _ = watcher.Close() }()

		// Watch the directory: editors typically replace the file, which
		// drops a watch registered on the file itself.
		if err := watcher.Add(filepath.Dir(tasksPath)); err != nil {
			return fmt.Errorf("watching %s: %w", tasksPath, err)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		fmt.Printf("Watching %s (ctrl-c to stop)\n", tasksPath)
		replanNow(ctx, tasksPath)

		var timer *time.Timer
		pending := make(chan struct{}, 1)
		for {
			select {
			case <-ctx.Done():
				return nil
			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if filepath.Clean(event.Name) != filepath.Clean(tasksPath) {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				if timer != nil {
					timer.Stop()
				}
				timer = time.AfterFunc(watchDebounce, func() {
					select {
					case pending <- struct{}{}:
					default:
					}
				})
			case <-pending:
				replanNow(ctx, tasksPath)
			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				fmt.Fprintf(os.Stderr, "watch error: %v\n", err)
			}
		}
	},
}

func replanNow(ctx context.Context, tasksPath string) {
	schedule, _, err := runPlanning(ctx, tasksPath, time.Now(), true)
	if err != nil {
		fmt.Fprintf(os.Stderr, "re-plan failed: %v\n", err)
		return
	}
	fmt.Printf("[%s] re-planned %s: %d min, %d stories\n",
		time.Now().Format("15:04:05"), schedule.Date, schedule.TotalDuration, len(schedule.StoryBlocks))
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
