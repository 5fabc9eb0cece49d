package core

import (
	"sort"
	"strings"

	"github.com/planforge/dayplan/pkg/models"
)

// storyDelimiters are tried in order when deriving a story title from a
// task title. Text before the first match becomes the story title; titles
// without a delimiter fall back to the full title, so delimiter-less tasks
// collapse into singleton stories. That is accepted as heuristic grouping,
// not content-based clustering.
var storyDelimiters = []string{":", " - "}

// StoryTitleFor derives the story title for a task title.
func StoryTitleFor(title string) string {
	for _, delim := range storyDelimiters {
		if idx := strings.Index(title, delim); idx > 0 {
			return strings.TrimSpace(title[:idx])
		}
	}
	return strings.TrimSpace(title)
}

// AnalyzeAndGroupTasks sorts tasks frog-first (descending difficulty within
// each class), buckets them into stories by derived title, flags oversized
// tasks for later splitting, and orders stories so any story containing a
// frog precedes stories without one. The input is cloned before sorting.
func AnalyzeAndGroupTasks(tasks []models.Task) []models.Story {
	sorted := models.CloneTasks(tasks)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].IsFrog != sorted[j].IsFrog {
			return sorted[i].IsFrog
		}
		return sorted[i].Difficulty.Rank() > sorted[j].Difficulty.Rank()
	})

	var stories []models.Story
	index := make(map[string]int)

	for _, task := range sorted {
		if task.Duration > SplitThreshold {
			task.NeedsSplitting = true
		}

		title := StoryTitleFor(task.Title)
		i, ok := index[title]
		if !ok {
			i = len(stories)
			index[title] = i
			stories = append(stories, models.Story{Title: title})
		}
		stories[i].Tasks = append(stories[i].Tasks, task)
		if task.IsFrog {
			stories[i].HasFrog = true
		}
	}

	for i := range stories {
		stories[i].EstimatedDuration = EstimateStoryDuration(stories[i])
	}

	sort.SliceStable(stories, func(i, j int) bool {
		return stories[i].HasFrog && !stories[j].HasFrog
	})

	return stories
}

// EstimateStoryDuration approximates the scheduled length of a story: work
// minutes, the breaks splitting and pacing will introduce, and the trailing
// debrief, rounded to the block size.
func EstimateStoryDuration(story models.Story) int {
	total := 0
	continuous := 0
	for _, task := range story.Tasks {
		if task.Duration > SplitThreshold {
			plan := SplitDuration(task.Duration, MaxPartDuration)
			total += plan.TotalMinutes()
			continuous = 0
			continue
		}
		if continuous > 0 && continuous+task.Duration > MaxWorkWithoutBreak {
			total += ShortBreakDuration
			continuous = 0
		}
		total += task.Duration
		continuous += task.Duration
	}
	total += DebriefDuration
	return RoundToNearestBlock(total)
}
