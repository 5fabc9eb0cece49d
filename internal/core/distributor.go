package core

import (
	"fmt"
	"sort"
	"time"

	"github.com/planforge/dayplan/pkg/models"
)

// minutesPerDay is the length of a full calendar day.
const minutesPerDay = 24 * 60

// Distributor spreads grouped stories across consecutive calendar days when
// their total load exceeds one day's available window.
type Distributor struct {
	window models.WorkWindow

	// Now supplies the first bucket's date. Overridable in tests.
	Now func() time.Time
}

// NewDistributor creates a Distributor for the given daily window.
func NewDistributor(window models.WorkWindow) *Distributor {
	return &Distributor{window: window, Now: time.Now}
}

// AvailableMinutes computes the length of the daily window in minutes,
// handling windows that wrap past midnight.
func (d *Distributor) AvailableMinutes() (int, error) {
	start, err := parseClock(d.window.Start)
	if err != nil {
		return 0, fmt.Errorf("work day start: %w", err)
	}
	end, err := parseClock(d.window.End)
	if err != nil {
		return 0, fmt.Errorf("work day end: %w", err)
	}
	avail := end - start
	if avail <= 0 {
		avail += minutesPerDay
	}
	return avail, nil
}

// Distribute sorts stories frog-first then by ascending duration, greedily
// assigns each to the first day bucket with enough remaining capacity, and
// reports stories that fit nowhere in the overflow summary rather than
// dropping them.
func (d *Distributor) Distribute(stories []models.Story) (*models.DistributionSummary, error) {
	avail, err := d.AvailableMinutes()
	if err != nil {
		return nil, err
	}

	sorted := models.CloneStories(stories)
	for i := range sorted {
		if sorted[i].EstimatedDuration == 0 {
			sorted[i].EstimatedDuration = EstimateStoryDuration(sorted[i])
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].HasFrog != sorted[j].HasFrog {
			return sorted[i].HasFrog
		}
		return sorted[i].EstimatedDuration < sorted[j].EstimatedDuration
	})

	total := 0
	for i := range sorted {
		total += sorted[i].EstimatedDuration
	}

	daysNeeded := 1
	if total > 0 {
		daysNeeded = (total + avail - 1) / avail
	}

	summary := &models.DistributionSummary{
		TotalMinutes:  total,
		MinutesPerDay: avail,
		DaysNeeded:    daysNeeded,
	}

	start := d.Now()
	for day := 0; day < daysNeeded; day++ {
		summary.Days = append(summary.Days, models.DayBucket{
			Date:             models.DateKey(start.AddDate(0, 0, day)),
			AvailableMinutes: avail,
		})
	}

	for _, story := range sorted {
		placed := false
		for i := range summary.Days {
			if summary.Days[i].RemainingMinutes() >= story.EstimatedDuration {
				summary.Days[i].Stories = append(summary.Days[i].Stories, story)
				summary.Days[i].AssignedMinutes += story.EstimatedDuration
				placed = true
				break
			}
		}
		if !placed {
			summary.Unassigned = append(summary.Unassigned, story)
		}
	}

	summary.OverflowDeferred = daysNeeded > 1 || len(summary.Unassigned) > 0
	return summary, nil
}

// StartOfWindow returns the moment the work window opens on the given day.
func StartOfWindow(day time.Time, window models.WorkWindow) (time.Time, error) {
	mins, err := parseClock(window.Start)
	if err != nil {
		return time.Time{}, fmt.Errorf("work day start: %w", err)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), mins/60, mins%60, 0, 0, day.Location()), nil
}

// parseClock converts an "HH:MM" string to minutes since midnight. Parsing
// is strict: two-digit fields and nothing before or after them.
func parseClock(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil || len(s) != len("15:04") {
		return 0, models.NewSchedulingError(models.KindDuration,
			fmt.Sprintf("invalid clock time %q, want HH:MM", s))
	}
	return t.Hour()*60 + t.Minute(), nil
}
