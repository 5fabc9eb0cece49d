package core

import (
	"testing"

	"github.com/planforge/dayplan/pkg/models"
)

func TestDifficultyForDuration(t *testing.T) {
	tests := []struct {
		duration int
		expected models.Difficulty
	}{
		{15, models.DifficultyLow},
		{30, models.DifficultyLow},
		{35, models.DifficultyMedium},
		{60, models.DifficultyMedium},
		{65, models.DifficultyHigh},
		{240, models.DifficultyHigh},
	}

	for _, tt := range tests {
		if got := DifficultyForDuration(tt.duration); got != tt.expected {
			t.Errorf("DifficultyForDuration(%d) = %s, want %s", tt.duration, got, tt.expected)
		}
	}
}

func TestNormalizeTasks(t *testing.T) {
	tasks := []models.Task{
		{Title: "No duration at all"},
		{Title: "Off-grid duration", Duration: 47},
		{Title: "Fully specified", ID: "keep-me", Duration: 60,
			Category: models.CategoryReview, Difficulty: models.DifficultyHigh},
	}

	got := NormalizeTasks(tasks)

	if got[0].Duration != MinTaskDuration {
		t.Errorf("missing duration must default to %d, got %d", MinTaskDuration, got[0].Duration)
	}
	if got[1].Duration != 45 {
		t.Errorf("47 must round to 45, got %d", got[1].Duration)
	}
	if got[2].Duration != 60 {
		t.Errorf("aligned duration must stay, got %d", got[2].Duration)
	}

	if got[0].Difficulty != models.DifficultyLow {
		t.Errorf("15 minute task must default to low difficulty, got %s", got[0].Difficulty)
	}
	if got[2].Difficulty != models.DifficultyHigh {
		t.Errorf("explicit difficulty must survive, got %s", got[2].Difficulty)
	}

	if got[0].Category != models.CategoryFocus {
		t.Errorf("category must default to focus, got %s", got[0].Category)
	}
	if got[2].Category != models.CategoryReview {
		t.Errorf("explicit category must survive, got %s", got[2].Category)
	}

	if got[0].ID == "" || got[1].ID == "" {
		t.Error("tasks without IDs must be assigned one")
	}
	if got[2].ID != "keep-me" {
		t.Errorf("existing ID must survive, got %q", got[2].ID)
	}

	// Input must stay untouched.
	if tasks[0].Duration != 0 || tasks[0].ID != "" {
		t.Error("input slice must not be mutated")
	}
}
