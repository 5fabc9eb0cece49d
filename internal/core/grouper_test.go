package core

import (
	"testing"

	"github.com/planforge/dayplan/pkg/models"
)

func TestStoryTitleFor(t *testing.T) {
	tests := []struct {
		title    string
		expected string
	}{
		{"Backend: migrate schema", "Backend"},
		{"Frontend - fix layout", "Frontend"},
		{"Standalone task", "Standalone task"},
		{"Ops: deploy: staging", "Ops"},
		{"  Padded: task  ", "Padded"},
		{": leading delimiter", ": leading delimiter"},
	}

	for _, tt := range tests {
		if got := StoryTitleFor(tt.title); got != tt.expected {
			t.Errorf("StoryTitleFor(%q) = %q, want %q", tt.title, got, tt.expected)
		}
	}
}

func TestAnalyzeAndGroupTasks_GroupsByPrefix(t *testing.T) {
	tasks := []models.Task{
		{Title: "Backend: migrate schema", Duration: 60},
		{Title: "Frontend: fix layout", Duration: 30},
		{Title: "Backend: add index", Duration: 30},
	}

	stories := AnalyzeAndGroupTasks(tasks)
	if len(stories) != 2 {
		t.Fatalf("expected 2 stories, got %d", len(stories))
	}

	byTitle := make(map[string]models.Story)
	for _, s := range stories {
		byTitle[s.Title] = s
	}
	if len(byTitle["Backend"].Tasks) != 2 {
		t.Errorf("expected 2 Backend tasks, got %d", len(byTitle["Backend"].Tasks))
	}
	if len(byTitle["Frontend"].Tasks) != 1 {
		t.Errorf("expected 1 Frontend task, got %d", len(byTitle["Frontend"].Tasks))
	}
}

func TestAnalyzeAndGroupTasks_FrogStoriesFirst(t *testing.T) {
	tasks := []models.Task{
		{Title: "Chores: clean inbox", Duration: 15},
		{Title: "Backend: hard migration", Duration: 60, IsFrog: true},
	}

	stories := AnalyzeAndGroupTasks(tasks)
	if len(stories) != 2 {
		t.Fatalf("expected 2 stories, got %d", len(stories))
	}
	if stories[0].Title != "Backend" || !stories[0].HasFrog {
		t.Errorf("frog story must come first, got %q (frog=%v)", stories[0].Title, stories[0].HasFrog)
	}
}

func TestAnalyzeAndGroupTasks_FrogTasksLeadTheirStory(t *testing.T) {
	tasks := []models.Task{
		{Title: "Backend: easy cleanup", Duration: 15, Difficulty: models.DifficultyLow},
		{Title: "Backend: scary refactor", Duration: 45, IsFrog: true, Difficulty: models.DifficultyHigh},
		{Title: "Backend: medium work", Duration: 30, Difficulty: models.DifficultyMedium},
	}

	stories := AnalyzeAndGroupTasks(tasks)
	if len(stories) != 1 {
		t.Fatalf("expected 1 story, got %d", len(stories))
	}
	got := stories[0].Tasks
	if !got[0].IsFrog {
		t.Errorf("frog task must lead the story, got %q first", got[0].Title)
	}
	if got[1].Difficulty != models.DifficultyMedium || got[2].Difficulty != models.DifficultyLow {
		t.Errorf("non-frog tasks must sort by descending difficulty, got %v then %v",
			got[1].Difficulty, got[2].Difficulty)
	}
}

func TestAnalyzeAndGroupTasks_FlagsOversizedTasks(t *testing.T) {
	tasks := []models.Task{
		{Title: "Backend: long haul", Duration: 120},
		{Title: "Backend: quick fix", Duration: 30},
	}

	stories := AnalyzeAndGroupTasks(tasks)
	for _, task := range stories[0].Tasks {
		wantSplit := task.Duration > SplitThreshold
		if task.NeedsSplitting != wantSplit {
			t.Errorf("task %q (%d min): NeedsSplitting = %v, want %v",
				task.Title, task.Duration, task.NeedsSplitting, wantSplit)
		}
	}
}

func TestAnalyzeAndGroupTasks_DoesNotMutateInput(t *testing.T) {
	tasks := []models.Task{
		{Title: "Backend: long haul", Duration: 120},
		{Title: "Apps: small", Duration: 15, IsFrog: true},
	}

	_ = AnalyzeAndGroupTasks(tasks)
	if tasks[0].NeedsSplitting {
		t.Error("input slice must not be mutated")
	}
	if tasks[0].Title != "Backend: long haul" || tasks[1].Title != "Apps: small" {
		t.Error("input order must not change")
	}
}

func TestEstimateStoryDuration(t *testing.T) {
	tests := []struct {
		name     string
		story    models.Story
		expected int
	}{
		{
			name:     "single short task plus debrief",
			story:    models.Story{Tasks: []models.Task{{Duration: 30}}},
			expected: 35,
		},
		{
			name:     "split task accounts for its implied breaks",
			story:    models.Story{Tasks: []models.Task{{Duration: 120}}},
			expected: 125, // 120 including split breaks, plus debrief
		},
		{
			name: "pacing break between long back-to-back tasks",
			story: models.Story{Tasks: []models.Task{
				{Duration: 60}, {Duration: 60},
			}},
			expected: 135, // 60 + break 10 + 60 + debrief 5
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EstimateStoryDuration(tt.story); got != tt.expected {
				t.Errorf("EstimateStoryDuration = %d, want %d", got, tt.expected)
			}
		})
	}
}
