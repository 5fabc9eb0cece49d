package cli

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var (
	metricsJSON  bool
	metricsSince string
)

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Display planning metrics",
	Long: `Display aggregated planning metrics derived from the event log:
allocations, acceptances, repairs, retries, late frogs, and overflow days.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if MetricsCalc == nil {
			return fmt.Errorf("metrics calculator not initialized (observability may be disabled)")
		}

		sinceTime, err := parseSinceDuration(metricsSince)
		if err != nil {
			return fmt.Errorf("parsing --since: %w", err)
		}

		metrics, err := MetricsCalc.Calculate(sinceTime)
		if err != nil {
			return fmt.Errorf("calculating metrics: %w", err)
		}

		if metricsJSON {
			data, err := json.MarshalIndent(metrics, "", "  ")
			if err != nil {
				return fmt.Errorf("formatting metrics as JSON: %w", err)
			}
			fmt.Println(string(data))
			return nil
		}

		fmt.Printf("Planning metrics since %s\n\n", sinceTime.Format("2006-01-02"))
		fmt.Printf("  plans allocated:  %d\n", metrics.PlansAllocated)
		fmt.Printf("  plans accepted:   %d\n", metrics.PlansAccepted)
		fmt.Printf("  plans repaired:   %d\n", metrics.PlansRepaired)
		fmt.Printf("  retries:          %d\n", metrics.Retries)
		fmt.Printf("  late frogs:       %d\n", metrics.LateFrogs)
		fmt.Printf("  overflow days:    %d\n", metrics.OverflowDays)
		fmt.Printf("  events total:     %d\n", metrics.EventCount)
		return nil
	},
}

// parseSinceDuration parses strings like "7d", "24h" into a past time.
func parseSinceDuration(s string) (time.Time, error) {
	now := time.Now().UTC()
	if s == "" {
		return now.AddDate(0, 0, -7), nil
	}
	if len(s) < 2 {
		return time.Time{}, fmt.Errorf("invalid duration %q", s)
	}

	num, err := strconv.Atoi(s[:len(s)-1])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid duration %q: %w", s, err)
	}

	switch strings.ToLower(s[len(s)-1:]) {
	case "d":
		return now.AddDate(0, 0, -num), nil
	case "h":
		return now.Add(-time.Duration(num) * time.Hour), nil
	default:
		return time.Time{}, fmt.Errorf("unsupported duration suffix in %q (use d or h)", s)
	}
}

func init() {
	metricsCmd.Flags().BoolVar(&metricsJSON, "json", false, "output as JSON")
	metricsCmd.Flags().StringVar(&metricsSince, "since", "7d", "time window (e.g. 7d, 24h)")
	rootCmd.AddCommand(metricsCmd)
}
