package acceptance

import (
	"fmt"

	"github.com/planforge/dayplan/internal/core"
	"github.com/planforge/dayplan/pkg/models"
)

// TitleMappingFor builds the synthetic title-mapping table for a candidate
// schedule: one entry per split part linking the renamed part title back to
// the original task title.
func TitleMappingFor(schedule *models.Schedule) []models.TitleMapping {
	var mapping []models.TitleMapping
	seen := make(map[string]struct{})
	for _, block := range schedule.StoryBlocks {
		for _, box := range block.TimeBoxes {
			for _, task := range box.Tasks {
				if task.Split == nil || task.Split.OriginalTitle == "" {
					continue
				}
				if _, ok := seen[task.Title]; ok {
					continue
				}
				seen[task.Title] = struct{}{}
				mapping = append(mapping, models.TitleMapping{
					PossibleTitle: task.Title,
					OriginalTitle: task.Split.OriginalTitle,
				})
			}
		}
	}
	return mapping
}

// RepairBlock rebuilds the named story block after a continuous-work
// rejection: the block's tasks are reconstituted, re-split with the tighter
// repair part cap, and a left-to-right pass forces an extra break wherever
// running work would still exceed the limit. The schedule total is
// recomputed from the repaired blocks. The returned story carries the
// re-split parts so the next submission sends them in place of the tasks
// the endpoint already rejected.
func RepairBlock(schedule *models.Schedule, blockTitle string) (models.Story, error) {
	idx := -1
	for i := range schedule.StoryBlocks {
		if schedule.StoryBlocks[i].Title == blockTitle {
			idx = i
			break
		}
	}
	if idx < 0 {
		return models.Story{}, models.NewSchedulingError(models.KindStructure,
			fmt.Sprintf("rejection names unknown block %q", blockTitle),
			models.DetailBlock, blockTitle)
	}

	story := models.Story{
		Title: blockTitle,
		Tasks: reconstituteTasks(schedule.StoryBlocks[idx]),
	}

	allocator := core.NewAllocator(core.RepairPartDuration, models.FrogPolicyWarn, nil)
	block, err := allocator.AllocateStory(story)
	if err != nil {
		return models.Story{}, fmt.Errorf("repairing block %q: %w", blockTitle, err)
	}
	core.EnforceBreakLimit(&block)

	schedule.StoryBlocks[idx] = block
	schedule.TotalDuration = schedule.BlockSum()

	repaired := models.Story{
		Title:             blockTitle,
		Tasks:             workBoxTasks(block),
		EstimatedDuration: block.TotalDuration,
	}
	for _, task := range repaired.Tasks {
		if task.IsFrog {
			repaired.HasFrog = true
			break
		}
	}
	return repaired, nil
}

// workBoxTasks collects the block's work tasks in schedule order.
func workBoxTasks(block models.StoryBlock) []models.Task {
	var tasks []models.Task
	for _, box := range block.TimeBoxes {
		if box.Type != models.BoxWork {
			continue
		}
		for _, task := range box.Tasks {
			tasks = append(tasks, task.Clone())
		}
	}
	return tasks
}

// reconstituteTasks recovers the block's pre-split task list from its work
// boxes: split parts collapse back into their original task, everything
// else passes through unchanged.
func reconstituteTasks(block models.StoryBlock) []models.Task {
	var tasks []models.Task
	restored := make(map[string]struct{})

	for _, box := range block.TimeBoxes {
		if box.Type != models.BoxWork {
			continue
		}
		for _, task := range box.Tasks {
			if task.Split == nil || task.Split.ParentTaskID == "" {
				tasks = append(tasks, task.Clone())
				continue
			}
			if _, ok := restored[task.Split.ParentTaskID]; ok {
				continue
			}
			restored[task.Split.ParentTaskID] = struct{}{}
			original := task.Clone()
			original.ID = task.Split.ParentTaskID
			original.Title = task.Split.OriginalTitle
			original.Duration = task.Split.OriginalDuration
			original.NeedsSplitting = original.Duration > core.SplitThreshold
			original.Split = nil
			tasks = append(tasks, original)
		}
	}
	return tasks
}
