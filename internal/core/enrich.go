package core

import (
	"github.com/google/uuid"

	"github.com/planforge/dayplan/pkg/models"
)

// DifficultyForDuration derives a difficulty estimate from a duration band:
// up to 30 minutes is low, up to 60 medium, anything longer high.
func DifficultyForDuration(duration int) models.Difficulty {
	switch {
	case duration <= 30:
		return models.DifficultyLow
	case duration <= SplitThreshold:
		return models.DifficultyMedium
	default:
		return models.DifficultyHigh
	}
}

// NormalizeTasks fills in whatever the enrichment collaborator left blank:
// missing durations get the minimum, durations are rounded onto the block
// grid, difficulty is derived from the duration band, the category defaults
// to focus, and tasks without an ID get one. The input is not mutated.
func NormalizeTasks(tasks []models.Task) []models.Task {
	out := models.CloneTasks(tasks)
	for i := range out {
		if out[i].Duration <= 0 {
			out[i].Duration = MinTaskDuration
		} else {
			out[i].Duration = RoundToNearestBlock(out[i].Duration)
		}
		if out[i].Difficulty == "" {
			out[i].Difficulty = DifficultyForDuration(out[i].Duration)
		}
		if out[i].Category == "" {
			out[i].Category = models.CategoryFocus
		}
		if out[i].ID == "" {
			out[i].ID = uuid.NewString()
		}
	}
	return out
}
