package core

import (
	"testing"
	"time"

	"github.com/planforge/dayplan/pkg/models"
)

func fixedDistributor(window models.WorkWindow) *Distributor {
	d := NewDistributor(window)
	d.Now = func() time.Time {
		return time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	}
	return d
}

func TestAvailableMinutes(t *testing.T) {
	tests := []struct {
		name     string
		window   models.WorkWindow
		expected int
	}{
		{"standard work day", models.WorkWindow{Start: "09:00", End: "17:00"}, 480},
		{"night shift wraps midnight", models.WorkWindow{Start: "22:00", End: "06:00"}, 480},
		{"short afternoon", models.WorkWindow{Start: "13:00", End: "16:30"}, 210},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDistributor(tt.window)
			got, err := d.AvailableMinutes()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("AvailableMinutes = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestAvailableMinutes_InvalidClock(t *testing.T) {
	tests := []models.WorkWindow{
		{Start: "9am", End: "17:00"},
		{Start: "09:00", End: "25:00"},
		{Start: "09:61", End: "17:00"},
		{Start: "09:00junk", End: "17:00"},
		{Start: "9:00", End: "17:00"},
	}
	for _, window := range tests {
		d := NewDistributor(window)
		if _, err := d.AvailableMinutes(); err == nil {
			t.Errorf("window %+v: expected an error", window)
		} else if models.ErrorKindOf(err) != models.KindDuration {
			t.Errorf("window %+v: error kind = %s, want %s", window, models.ErrorKindOf(err), models.KindDuration)
		}
	}
}

func TestDistribute_SingleDayFitsEverything(t *testing.T) {
	d := fixedDistributor(models.WorkWindow{Start: "09:00", End: "17:00"})
	stories := []models.Story{
		{Title: "Backend", EstimatedDuration: 200},
		{Title: "Frontend", EstimatedDuration: 100},
	}

	summary, err := d.Distribute(stories)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if summary.DaysNeeded != 1 || len(summary.Days) != 1 {
		t.Fatalf("expected a single day, got %d days (needed %d)", len(summary.Days), summary.DaysNeeded)
	}
	if summary.OverflowDeferred {
		t.Error("single-day fit must not report overflow")
	}
	if summary.Days[0].AssignedMinutes != 300 {
		t.Errorf("assigned = %d, want 300", summary.Days[0].AssignedMinutes)
	}
	if summary.Days[0].Date != "2026-03-02" {
		t.Errorf("first day = %q, want 2026-03-02", summary.Days[0].Date)
	}
}

func TestDistribute_OverflowSpillsToNextDay(t *testing.T) {
	d := fixedDistributor(models.WorkWindow{Start: "09:00", End: "17:00"})
	stories := []models.Story{
		{Title: "Backend", HasFrog: true, EstimatedDuration: 200},
		{Title: "Frontend", EstimatedDuration: 160},
		{Title: "Ops", EstimatedDuration: 120},
		{Title: "Docs", EstimatedDuration: 120},
	}

	summary, err := d.Distribute(stories)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if summary.TotalMinutes != 600 || summary.MinutesPerDay != 480 {
		t.Fatalf("totals = %d/%d, want 600/480", summary.TotalMinutes, summary.MinutesPerDay)
	}
	if summary.DaysNeeded != 2 || len(summary.Days) != 2 {
		t.Fatalf("expected 2 days, got %d (needed %d)", len(summary.Days), summary.DaysNeeded)
	}
	if !summary.OverflowDeferred {
		t.Error("multi-day distribution must report overflow")
	}
	if len(summary.Unassigned) != 0 {
		t.Errorf("no story should be left unassigned, got %d", len(summary.Unassigned))
	}

	// The frog story leads day one regardless of its size.
	if len(summary.Days[0].Stories) == 0 || summary.Days[0].Stories[0].Title != "Backend" {
		t.Errorf("frog story must be placed first on day one, got %+v", summary.Days[0].Stories)
	}
	if summary.Days[1].Date != "2026-03-03" {
		t.Errorf("second day = %q, want 2026-03-03", summary.Days[1].Date)
	}

	assigned := 0
	for _, day := range summary.Days {
		if day.AssignedMinutes > day.AvailableMinutes {
			t.Errorf("day %s overcommitted: %d > %d", day.Date, day.AssignedMinutes, day.AvailableMinutes)
		}
		assigned += day.AssignedMinutes
	}
	if assigned != 600 {
		t.Errorf("assigned total = %d, want 600", assigned)
	}
}

func TestDistribute_OversizedStoryIsReportedNotDropped(t *testing.T) {
	d := fixedDistributor(models.WorkWindow{Start: "09:00", End: "17:00"})
	stories := []models.Story{
		{Title: "Monolith", EstimatedDuration: 500},
	}

	summary, err := d.Distribute(stories)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(summary.Unassigned) != 1 || summary.Unassigned[0].Title != "Monolith" {
		t.Fatalf("story larger than any day must land in Unassigned, got %+v", summary.Unassigned)
	}
	if !summary.OverflowDeferred {
		t.Error("unassigned stories must set the overflow flag")
	}
}

func TestDistribute_EstimatesMissingDurations(t *testing.T) {
	d := fixedDistributor(models.WorkWindow{Start: "09:00", End: "17:00"})
	stories := []models.Story{
		{Title: "Backend", Tasks: []models.Task{{Title: "Backend: fix", Duration: 30}}},
	}

	summary, err := d.Distribute(stories)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.TotalMinutes != 35 {
		t.Errorf("total = %d, want 35 (30 work + debrief)", summary.TotalMinutes)
	}
}

func TestStartOfWindow(t *testing.T) {
	day := time.Date(2026, 3, 2, 14, 30, 0, 0, time.UTC)
	got, err := StartOfWindow(day, models.WorkWindow{Start: "09:15", End: "17:00"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2026, 3, 2, 9, 15, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("StartOfWindow = %v, want %v", got, want)
	}

	if _, err := StartOfWindow(day, models.WorkWindow{Start: "oops", End: "17:00"}); err == nil {
		t.Error("expected an error for a malformed start time")
	}
}
