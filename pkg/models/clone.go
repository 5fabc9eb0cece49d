package models

// Structural deep copies. Callers must never share Task or Story values
// across concurrent allocation or repair calls; the engine clones its
// inputs before mutating them instead of relying on serialization round
// trips.

// Clone returns a deep copy of the task.
func (t Task) Clone() Task {
	out := t
	if t.Split != nil {
		split := *t.Split
		out.Split = &split
	}
	return out
}

// CloneTasks returns a deep copy of a task slice.
func CloneTasks(tasks []Task) []Task {
	if tasks == nil {
		return nil
	}
	out := make([]Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out
}

// Clone returns a deep copy of the story.
func (s Story) Clone() Story {
	out := s
	out.Tasks = CloneTasks(s.Tasks)
	return out
}

// CloneStories returns a deep copy of a story slice.
func CloneStories(stories []Story) []Story {
	if stories == nil {
		return nil
	}
	out := make([]Story, len(stories))
	for i, s := range stories {
		out[i] = s.Clone()
	}
	return out
}

// Clone returns a deep copy of the time box.
func (b TimeBox) Clone() TimeBox {
	out := b
	out.Tasks = CloneTasks(b.Tasks)
	return out
}

// Clone returns a deep copy of the story block.
func (b StoryBlock) Clone() StoryBlock {
	out := b
	if b.TimeBoxes != nil {
		out.TimeBoxes = make([]TimeBox, len(b.TimeBoxes))
		for i, box := range b.TimeBoxes {
			out.TimeBoxes[i] = box.Clone()
		}
	}
	return out
}

// Clone returns a deep copy of the schedule.
func (s Schedule) Clone() Schedule {
	out := s
	if s.StoryBlocks != nil {
		out.StoryBlocks = make([]StoryBlock, len(s.StoryBlocks))
		for i, b := range s.StoryBlocks {
			out.StoryBlocks[i] = b.Clone()
		}
	}
	return out
}
