// Package storage provides file-backed persistence for dayplan: the
// date-keyed schedule store and the raw task input source. The engine
// depends only on the interfaces defined here.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/planforge/dayplan/pkg/models"
)

// dateKeyPattern validates YYYY-MM-DD schedule keys.
var dateKeyPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ScheduleDocument is the versioned on-disk wrapper around a schedule.
// Version starts at 1 and is bumped on every save of the same key.
type ScheduleDocument struct {
	Version  int             `yaml:"version"`
	Schedule models.Schedule `yaml:"schedule"`
}

// ScheduleStore is the persistence collaborator for accepted schedules,
// keyed by YYYY-MM-DD date strings.
type ScheduleStore interface {
	Save(dateKey string, schedule *models.Schedule) error
	Get(dateKey string) (*models.Schedule, error)
	Delete(dateKey string) error
	ListDates() ([]string, error)
}

// fileScheduleStore implements ScheduleStore with one YAML document per
// date under <base>/plans/.
type fileScheduleStore struct {
	basePath string
}

// NewScheduleStore creates a ScheduleStore rooted at basePath.
func NewScheduleStore(basePath string) ScheduleStore {
	return &fileScheduleStore{basePath: basePath}
}

func (s *fileScheduleStore) plansDir() string {
	return filepath.Join(s.basePath, "plans")
}

func (s *fileScheduleStore) pathFor(dateKey string) string {
	return filepath.Join(s.plansDir(), dateKey+".yaml")
}

func validateDateKey(dateKey string) error {
	if !dateKeyPattern.MatchString(dateKey) {
		return fmt.Errorf("invalid schedule key %q, want YYYY-MM-DD", dateKey)
	}
	return nil
}

// Save writes the schedule for the given date, bumping the document version
// when a schedule already exists under that key.
func (s *fileScheduleStore) Save(dateKey string, schedule *models.Schedule) error {
	if err := validateDateKey(dateKey); err != nil {
		return fmt.Errorf("saving schedule: %w", err)
	}
	if schedule == nil {
		return fmt.Errorf("saving schedule: schedule must not be nil")
	}

	if err := os.MkdirAll(s.plansDir(), 0o755); err != nil {
		return fmt.Errorf("saving schedule: creating plans dir: %w", err)
	}

	// Lock across the version read and the write so two planners saving the
	// same date cannot both claim the same version.
	unlock, err := lockFile(s.pathFor(dateKey) + ".lock")
	if err != nil {
		return fmt.Errorf("saving schedule: %w", err)
	}
	defer func() { _ = unlock() }()

	doc := ScheduleDocument{Version: 1, Schedule: schedule.Clone()}
	if existing, err := s.load(dateKey); err != nil {
		return fmt.Errorf("saving schedule: %w", err)
	} else if existing != nil {
		doc.Version = existing.Version + 1
	}

	data, err := yaml.Marshal(&doc)
	if err != nil {
		return fmt.Errorf("saving schedule: marshalling: %w", err)
	}
	if err := os.WriteFile(s.pathFor(dateKey), data, 0o644); err != nil {
		return fmt.Errorf("saving schedule: writing %s: %w", dateKey, err)
	}
	return nil
}

// Get returns the schedule stored under the given date, or nil when none
// exists.
func (s *fileScheduleStore) Get(dateKey string) (*models.Schedule, error) {
	if err := validateDateKey(dateKey); err != nil {
		return nil, fmt.Errorf("loading schedule: %w", err)
	}
	doc, err := s.load(dateKey)
	if err != nil {
		return nil, fmt.Errorf("loading schedule: %w", err)
	}
	if doc == nil {
		return nil, nil
	}
	schedule := doc.Schedule.Clone()
	return &schedule, nil
}

// Delete removes the schedule stored under the given date. Deleting a
// missing key is not an error.
func (s *fileScheduleStore) Delete(dateKey string) error {
	if err := validateDateKey(dateKey); err != nil {
		return fmt.Errorf("deleting schedule: %w", err)
	}
	if err := os.Remove(s.pathFor(dateKey)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("deleting schedule %s: %w", dateKey, err)
	}
	return nil
}

// ListDates returns the stored schedule keys in ascending date order.
func (s *fileScheduleStore) ListDates() ([]string, error) {
	entries, err := os.ReadDir(s.plansDir())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("listing schedules: %w", err)
	}

	var dates []string
	for _, entry := range entries {
		name := entry.Name()
		if filepath.Ext(name) != ".yaml" {
			continue
		}
		key := name[:len(name)-len(".yaml")]
		if dateKeyPattern.MatchString(key) {
			dates = append(dates, key)
		}
	}
	sort.Strings(dates)
	return dates, nil
}

func (s *fileScheduleStore) load(dateKey string) (*ScheduleDocument, error) {
	data, err := os.ReadFile(s.pathFor(dateKey))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", dateKey, err)
	}
	var doc ScheduleDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", dateKey, err)
	}
	return &doc, nil
}
