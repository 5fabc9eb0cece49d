package models

// TaskCategory represents the kind of work a task involves.
type TaskCategory string

const (
	CategoryFocus    TaskCategory = "focus"
	CategoryLearning TaskCategory = "learning"
	CategoryReview   TaskCategory = "review"
	CategoryResearch TaskCategory = "research"
	CategoryBreak    TaskCategory = "break"
)

// Difficulty represents the estimated effort level of a task.
type Difficulty string

const (
	DifficultyLow    Difficulty = "low"
	DifficultyMedium Difficulty = "medium"
	DifficultyHigh   Difficulty = "high"
)

// difficultyRank maps difficulties to a sortable weight (higher is harder).
var difficultyRank = map[Difficulty]int{
	DifficultyLow:    1,
	DifficultyMedium: 2,
	DifficultyHigh:   3,
}

// Rank returns a sortable weight for the difficulty. Unknown values rank
// below low so malformed input never outranks real estimates.
func (d Difficulty) Rank() int {
	return difficultyRank[d]
}

// SplitInfo marks a task as a split parent or one of its numbered parts.
// For a part, the owning task's Duration is the part duration and
// OriginalDuration records the pre-split total.
type SplitInfo struct {
	IsParent         bool   `yaml:"is_parent" json:"isParent"`
	PartNumber       int    `yaml:"part_number,omitempty" json:"partNumber,omitempty"`
	TotalParts       int    `yaml:"total_parts,omitempty" json:"totalParts,omitempty"`
	OriginalDuration int    `yaml:"original_duration,omitempty" json:"originalDuration,omitempty"`
	ParentTaskID     string `yaml:"parent_task_id,omitempty" json:"parentTaskId,omitempty"`
	OriginalTitle    string `yaml:"original_title,omitempty" json:"originalTitle,omitempty"`
}

// Task is a single unit of work, raw or enriched. Duration is in minutes
// and must be block-aligned once normalized.
type Task struct {
	ID             string       `yaml:"id" json:"id"`
	Title          string       `yaml:"title" json:"title"`
	Duration       int          `yaml:"duration" json:"duration"`
	Category       TaskCategory `yaml:"category,omitempty" json:"category,omitempty"`
	Difficulty     Difficulty   `yaml:"difficulty,omitempty" json:"difficulty,omitempty"`
	IsFrog         bool         `yaml:"is_frog,omitempty" json:"isFrog,omitempty"`
	IsFlexible     bool         `yaml:"is_flexible,omitempty" json:"isFlexible,omitempty"`
	NeedsSplitting bool         `yaml:"needs_splitting,omitempty" json:"needsSplitting,omitempty"`
	Split          *SplitInfo   `yaml:"split,omitempty" json:"splitInfo,omitempty"`
}

// Break is a rest interval inserted between or within tasks. AfterMinutes is
// the running work time at which the break starts, relative to its story.
type Break struct {
	AfterMinutes    int    `yaml:"after_minutes" json:"afterMinutes"`
	DurationMinutes int    `yaml:"duration_minutes" json:"durationMinutes"`
	Reason          string `yaml:"reason,omitempty" json:"reason,omitempty"`
}

// Story is a named thematic group of tasks sharing a title prefix.
// EstimatedDuration is the sum of contained work and break minutes,
// rounded to the block size.
type Story struct {
	Title             string `yaml:"title" json:"title"`
	Tasks             []Task `yaml:"tasks" json:"tasks"`
	EstimatedDuration int    `yaml:"estimated_duration" json:"estimatedDuration"`
	HasFrog           bool   `yaml:"has_frog,omitempty" json:"hasFrog,omitempty"`
}
