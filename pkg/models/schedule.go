package models

import "time"

// TimeBoxType classifies a scheduled interval.
type TimeBoxType string

const (
	BoxWork       TimeBoxType = "work"
	BoxShortBreak TimeBoxType = "short-break"
	BoxLongBreak  TimeBoxType = "long-break"
	BoxDebrief    TimeBoxType = "debrief"
)

// IsBreak reports whether the box type is a rest interval.
func (t TimeBoxType) IsBreak() bool {
	return t == BoxShortBreak || t == BoxLongBreak
}

// TimeBox is one scheduled unit inside a story block. Tasks is populated
// for work boxes only.
type TimeBox struct {
	ID       string      `yaml:"id" json:"id"`
	Type     TimeBoxType `yaml:"type" json:"type"`
	Duration int         `yaml:"duration" json:"duration"`
	Tasks    []Task      `yaml:"tasks,omitempty" json:"tasks,omitempty"`
}

// StoryBlock is a story realized as an ordered sequence of time boxes.
// TotalDuration must equal the sum of TimeBoxes durations; the allocator
// treats a mismatch as fatal.
type StoryBlock struct {
	Title         string    `yaml:"title" json:"title"`
	TimeBoxes     []TimeBox `yaml:"time_boxes" json:"timeBoxes"`
	TotalDuration int       `yaml:"total_duration" json:"totalDuration"`
	Progress      int       `yaml:"progress" json:"progress"`
}

// BoxSum returns the sum of the block's time box durations.
func (b *StoryBlock) BoxSum() int {
	sum := 0
	for _, box := range b.TimeBoxes {
		sum += box.Duration
	}
	return sum
}

// FrogMetrics tracks how high-priority tasks fared during allocation.
// Scheduled must equal Total after any successful allocation;
// WithinTarget counts frogs whose work box starts inside the first third
// of the session.
type FrogMetrics struct {
	Total        int `yaml:"total" json:"total"`
	Scheduled    int `yaml:"scheduled" json:"scheduled"`
	WithinTarget int `yaml:"within_target" json:"scheduledWithinTarget"`
}

// Schedule is a candidate or accepted work plan for a single day.
// TotalDuration must equal the sum of the story blocks' totals.
type Schedule struct {
	ID            string       `yaml:"id" json:"id"`
	Date          string       `yaml:"date" json:"date"` // YYYY-MM-DD
	StartTime     time.Time    `yaml:"start_time" json:"startTime"`
	StoryBlocks   []StoryBlock `yaml:"story_blocks" json:"storyBlocks"`
	TotalDuration int          `yaml:"total_duration" json:"totalDuration"`
	Frogs         FrogMetrics  `yaml:"frogs" json:"frogMetrics"`
}

// BlockSum returns the sum of the schedule's story block totals.
func (s *Schedule) BlockSum() int {
	sum := 0
	for i := range s.StoryBlocks {
		sum += s.StoryBlocks[i].TotalDuration
	}
	return sum
}

// DateKey formats a time as a schedule store key.
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// TitleMapping links a possibly renamed split-part title back to the
// original task title, so the acceptance endpoint can correlate parts.
type TitleMapping struct {
	PossibleTitle string `yaml:"possible_title" json:"possibleTitle"`
	OriginalTitle string `yaml:"original_title" json:"originalTitle"`
}

// DayBucket is one calendar day's share of a distributed load.
type DayBucket struct {
	Date             string  `yaml:"date" json:"date"` // YYYY-MM-DD
	AvailableMinutes int     `yaml:"available_minutes" json:"availableMinutes"`
	AssignedMinutes  int     `yaml:"assigned_minutes" json:"assignedMinutes"`
	Stories          []Story `yaml:"stories" json:"stories"`
}

// RemainingMinutes returns the unassigned capacity of the bucket.
func (d *DayBucket) RemainingMinutes() int {
	return d.AvailableMinutes - d.AssignedMinutes
}

// DistributionSummary is the result of spreading stories across days.
// Unassigned holds stories that fit in no bucket; they are reported, never
// silently dropped.
type DistributionSummary struct {
	Days             []DayBucket `yaml:"days" json:"days"`
	Unassigned       []Story     `yaml:"unassigned,omitempty" json:"unassigned,omitempty"`
	TotalMinutes     int         `yaml:"total_minutes" json:"totalMinutes"`
	MinutesPerDay    int         `yaml:"minutes_per_day" json:"minutesPerDay"`
	DaysNeeded       int         `yaml:"days_needed" json:"daysNeeded"`
	OverflowDeferred bool        `yaml:"overflow_deferred,omitempty" json:"overflowDeferred,omitempty"`
}
