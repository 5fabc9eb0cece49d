package core

import (
	"testing"

	"pgregory.net/rapid"
)

// Property: rounded durations are always block-aligned and at least the
// minimum schedulable duration.
func TestProperty_RoundedDurationsAreSchedulable(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		d := rapid.IntRange(-100, 1000).Draw(rt, "duration")

		got := RoundToNearestBlock(d)
		if got%BlockSize != 0 {
			t.Fatalf("RoundToNearestBlock(%d) = %d, not a multiple of %d", d, got, BlockSize)
		}
		if got < MinTaskDuration {
			t.Fatalf("RoundToNearestBlock(%d) = %d, below the %d minute minimum", d, got, MinTaskDuration)
		}
	})
}

// Property: rounding is the identity on durations that are already
// schedulable, and never moves any duration at or above the minimum by more
// than half a block.
func TestProperty_RoundingIsStable(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		d := rapid.IntRange(MinTaskDuration, 500).Draw(rt, "duration")

		got := RoundToNearestBlock(d)
		if d%BlockSize == 0 && got != d {
			t.Fatalf("RoundToNearestBlock(%d) = %d, expected aligned input unchanged", d, got)
		}
		diff := got - d
		if diff < 0 {
			diff = -diff
		}
		if diff > BlockSize/2 {
			t.Fatalf("RoundToNearestBlock(%d) = %d, moved by %d (> %d)", d, got, diff, BlockSize/2)
		}
	})
}
