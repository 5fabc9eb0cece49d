// Package core contains the scheduling engine for dayplan: duration rules,
// task splitting, story grouping, time-box allocation, day-load
// distribution, and enrichment normalization.
package core

// Duration rules, in minutes. All scheduled durations are multiples of
// BlockSize and at least MinTaskDuration.
const (
	// BlockSize is the granularity every duration must align to.
	BlockSize = 5
	// MinTaskDuration is the smallest schedulable task duration.
	MinTaskDuration = 15
	// MaxSingleTaskDuration is the largest duration a single task may carry.
	MaxSingleTaskDuration = 240
	// SplitThreshold is the duration above which a task must be split.
	SplitThreshold = 60
	// MaxWorkWithoutBreak caps a run of consecutive work minutes.
	MaxWorkWithoutBreak = 90
	// MaxPartDuration is the default per-part cap for split tasks, half of
	// MaxWorkWithoutBreak.
	MaxPartDuration = MaxWorkWithoutBreak / 2
	// RepairPartDuration is the tighter per-part cap used when repairing a
	// block the acceptance endpoint rejected, a third of MaxWorkWithoutBreak.
	RepairPartDuration = MaxWorkWithoutBreak / 3
	// ShortBreakDuration is inserted between tasks and split parts.
	ShortBreakDuration = 10
	// LongBreakDuration is inserted once continuous work nears the cap.
	LongBreakDuration = 15
	// DebriefDuration is the trailing debrief box appended to each story.
	DebriefDuration = 5
)

// longBreakThreshold is the continuous-work level (75% of the cap) at which
// the next inserted break is long rather than short.
const longBreakThreshold = MaxWorkWithoutBreak * 3 / 4

// RoundToNearestBlock rounds a duration to the nearest multiple of
// BlockSize, floored at MinTaskDuration.
func RoundToNearestBlock(duration int) int {
	rounded := (duration + BlockSize/2) / BlockSize * BlockSize
	if rounded < MinTaskDuration {
		return MinTaskDuration
	}
	return rounded
}

// ValidateTaskDuration reports whether a duration is schedulable as-is:
// at least the minimum, block-aligned, and within the single-task cap.
// Pure; callers decide how to react to false.
func ValidateTaskDuration(duration int) bool {
	return duration >= MinTaskDuration &&
		duration%BlockSize == 0 &&
		duration <= MaxSingleTaskDuration
}

// breakDurationFor returns the break length appropriate for the given
// accumulated continuous-work minutes.
func breakDurationFor(continuousWork int) int {
	if continuousWork >= longBreakThreshold {
		return LongBreakDuration
	}
	return ShortBreakDuration
}
