package storage

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/planforge/dayplan/pkg/models"
)

// TaskFile is the on-disk structure of a tasks.yaml input file. Durations,
// categories, and difficulties may be missing; enrichment normalization
// fills them in later.
type TaskFile struct {
	Tasks []models.Task `yaml:"tasks"`
}

// TaskSource loads raw tasks for planning.
type TaskSource interface {
	LoadTasks(path string) ([]models.Task, error)
}

// fileTaskSource implements TaskSource from YAML files.
type fileTaskSource struct{}

// NewTaskSource creates a TaskSource reading tasks.yaml files.
func NewTaskSource() TaskSource {
	return &fileTaskSource{}
}

// LoadTasks reads and parses a tasks file. An empty task list is an error:
// there is nothing to plan.
func (fileTaskSource) LoadTasks(path string) ([]models.Task, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading tasks file: %w", err)
	}

	var file TaskFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing tasks file %s: %w", path, err)
	}
	if len(file.Tasks) == 0 {
		return nil, fmt.Errorf("tasks file %s contains no tasks", path)
	}

	for i, task := range file.Tasks {
		if task.Title == "" {
			return nil, fmt.Errorf("tasks file %s: task %d has no title", path, i+1)
		}
	}
	return file.Tasks, nil
}
