package core

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/planforge/dayplan/pkg/models"
)

// AllocationObserver receives soft allocation findings. Implementations
// must not mutate the task.
type AllocationObserver interface {
	// FrogMissedTarget fires when a frog task's first work box starts after
	// the first-third target minute.
	FrogMissedTarget(task models.Task, startMinute, targetMinute int)
}

// Allocator converts grouped stories into an ordered schedule of time
// boxes. It is stateless across calls; every invocation works on its own
// clone of the input stories.
type Allocator struct {
	partCap  int
	policy   models.FrogPolicy
	observer AllocationObserver
}

// NewAllocator creates an Allocator. partCap bounds split-part durations
// (MaxPartDuration normally, RepairPartDuration when repairing a rejected
// block). observer may be nil.
func NewAllocator(partCap int, policy models.FrogPolicy, observer AllocationObserver) *Allocator {
	if partCap <= 0 {
		partCap = MaxPartDuration
	}
	if policy == "" {
		policy = models.FrogPolicyWarn
	}
	return &Allocator{partCap: partCap, policy: policy, observer: observer}
}

// allocState carries counters across story blocks within one allocation.
type allocState struct {
	runningMinute int // minutes emitted across all blocks so far
	continuous    int // work minutes since the last break or debrief
	frogTarget    int // first-third target minute for frog starts
	frogs         models.FrogMetrics
	lateFrog      *models.Task
	lateStart     int
}

// Allocate walks the stories in order, splits oversized tasks, paces work
// with breaks, appends a debrief per story, and verifies the duration and
// frog invariants. A violated invariant is a logic defect and aborts the
// whole schedule.
func (a *Allocator) Allocate(stories []models.Story, startTime time.Time) (*models.Schedule, error) {
	stories = models.CloneStories(stories)

	planned := 0
	for i := range stories {
		if stories[i].EstimatedDuration == 0 {
			stories[i].EstimatedDuration = EstimateStoryDuration(stories[i])
		}
		planned += stories[i].EstimatedDuration
	}

	state := &allocState{frogTarget: planned / 3}
	for _, story := range stories {
		for _, task := range story.Tasks {
			if task.IsFrog {
				state.frogs.Total++
			}
		}
	}

	schedule := &models.Schedule{
		ID:        uuid.NewString(),
		Date:      models.DateKey(startTime),
		StartTime: startTime,
	}

	for _, story := range stories {
		block, err := a.allocateStory(story, state)
		if err != nil {
			return nil, err
		}
		schedule.StoryBlocks = append(schedule.StoryBlocks, block)
		schedule.TotalDuration += block.TotalDuration
	}

	if sum := schedule.BlockSum(); sum != schedule.TotalDuration {
		return nil, models.NewSchedulingError(models.KindStructure,
			fmt.Sprintf("schedule duration %d does not match story block sum %d", schedule.TotalDuration, sum))
	}
	if state.frogs.Scheduled != state.frogs.Total {
		return nil, models.NewSchedulingError(models.KindStructure,
			fmt.Sprintf("scheduled %d of %d frog tasks", state.frogs.Scheduled, state.frogs.Total))
	}
	if state.lateFrog != nil && a.policy == models.FrogPolicyFail {
		return nil, models.NewSchedulingError(models.KindValidation,
			fmt.Sprintf("frog task %q starts at minute %d, after the target minute %d",
				state.lateFrog.Title, state.lateStart, state.frogTarget),
			models.DetailBlock, StoryTitleFor(state.lateFrog.Title))
	}

	schedule.Frogs = state.frogs
	return schedule, nil
}

// AllocateStory builds a standalone block for a single story with fresh
// pacing state. Used when rebuilding one rejected block.
func (a *Allocator) AllocateStory(story models.Story) (models.StoryBlock, error) {
	state := &allocState{frogTarget: EstimateStoryDuration(story) / 3}
	for _, task := range story.Tasks {
		if task.IsFrog {
			state.frogs.Total++
		}
	}
	return a.allocateStory(story.Clone(), state)
}

func (a *Allocator) allocateStory(story models.Story, state *allocState) (models.StoryBlock, error) {
	block := models.StoryBlock{Title: story.Title}
	emitted := 0

	emit := func(box models.TimeBox) {
		box.ID = uuid.NewString()
		block.TimeBoxes = append(block.TimeBoxes, box)
		emitted += box.Duration
		state.runningMinute += box.Duration
	}
	emitBreak := func() {
		dur := breakDurationFor(state.continuous)
		boxType := models.BoxShortBreak
		if dur == LongBreakDuration {
			boxType = models.BoxLongBreak
		}
		emit(models.TimeBox{Type: boxType, Duration: dur})
		state.continuous = 0
	}

	for _, task := range story.Tasks {
		if task.Duration > MaxSingleTaskDuration {
			return models.StoryBlock{}, models.NewSchedulingError(models.KindDuration,
				fmt.Sprintf("task %q duration %d exceeds the %d minute cap", task.Title, task.Duration, MaxSingleTaskDuration))
		}
		if task.Duration < MinTaskDuration || task.Duration%BlockSize != 0 {
			return models.StoryBlock{}, models.NewSchedulingError(models.KindDuration,
				fmt.Sprintf("task %q duration %d is not block-aligned at or above %d minutes", task.Title, task.Duration, MinTaskDuration))
		}

		if task.NeedsSplitting || task.Duration > SplitThreshold {
			parts := SplitTask(task, a.partCap)
			for i, part := range parts {
				if i == 0 && state.continuous > 0 && state.continuous+part.Duration > MaxWorkWithoutBreak {
					emitBreak()
				}
				if i == 0 {
					a.trackFrogStart(task, state)
				}
				emit(models.TimeBox{Type: models.BoxWork, Duration: part.Duration, Tasks: []models.Task{part}})
				state.continuous += part.Duration
				if i < len(parts)-1 {
					emitBreak()
				}
			}
			if task.IsFrog {
				state.frogs.Scheduled++
			}
			continue
		}

		if state.continuous > 0 && state.continuous+task.Duration > MaxWorkWithoutBreak {
			emitBreak()
		}
		a.trackFrogStart(task, state)
		emit(models.TimeBox{Type: models.BoxWork, Duration: task.Duration, Tasks: []models.Task{task}})
		state.continuous += task.Duration
		if task.IsFrog {
			state.frogs.Scheduled++
		}
	}

	emit(models.TimeBox{Type: models.BoxDebrief, Duration: DebriefDuration})
	state.continuous = 0

	block.TotalDuration = emitted
	if sum := block.BoxSum(); sum != block.TotalDuration {
		return models.StoryBlock{}, models.NewSchedulingError(models.KindStructure,
			fmt.Sprintf("story %q box sum %d does not match total %d", block.Title, sum, block.TotalDuration),
			models.DetailBlock, block.Title)
	}
	return block, nil
}

// trackFrogStart records whether a frog's first work box starts inside the
// first-third target. Lateness is a soft finding under the warn policy.
func (a *Allocator) trackFrogStart(task models.Task, state *allocState) {
	if !task.IsFrog {
		return
	}
	if state.runningMinute <= state.frogTarget {
		state.frogs.WithinTarget++
		return
	}
	if state.lateFrog == nil {
		late := task.Clone()
		state.lateFrog = &late
		state.lateStart = state.runningMinute
	}
	if a.observer != nil {
		a.observer.FrogMissedTarget(task, state.runningMinute, state.frogTarget)
	}
}

// EnforceBreakLimit scans a block's boxes left to right and inserts a short
// break wherever a run of consecutive work would otherwise exceed
// MaxWorkWithoutBreak, then recomputes the block total.
func EnforceBreakLimit(block *models.StoryBlock) {
	var out []models.TimeBox
	continuous := 0
	for _, box := range block.TimeBoxes {
		if box.Type == models.BoxWork {
			if continuous > 0 && continuous+box.Duration > MaxWorkWithoutBreak {
				out = append(out, models.TimeBox{
					ID:       uuid.NewString(),
					Type:     models.BoxShortBreak,
					Duration: ShortBreakDuration,
				})
				continuous = 0
			}
			continuous += box.Duration
		} else {
			continuous = 0
		}
		out = append(out, box)
	}
	block.TimeBoxes = out
	block.TotalDuration = block.BoxSum()
}
