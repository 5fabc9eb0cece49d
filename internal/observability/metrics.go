package observability

import (
	"fmt"
	"time"
)

// PlanningMetrics holds aggregates derived from the planner event log.
type PlanningMetrics struct {
	PlansAllocated int `json:"plans_allocated"`
	PlansAccepted  int `json:"plans_accepted"`
	PlansRepaired  int `json:"plans_repaired"`
	Retries        int `json:"retries"`
	LateFrogs      int `json:"late_frogs"`
	OverflowDays   int `json:"overflow_days"`
	EventCount     int `json:"event_count"`

	OldestEvent *time.Time `json:"oldest_event,omitempty"`
	NewestEvent *time.Time `json:"newest_event,omitempty"`
}

// MetricsCalculator derives planning metrics from the event log.
type MetricsCalculator interface {
	Calculate(since time.Time) (*PlanningMetrics, error)
}

// metricsCalculator implements MetricsCalculator by reading an EventLog.
type metricsCalculator struct {
	eventLog EventLog
}

// NewMetricsCalculator creates a MetricsCalculator reading from eventLog.
func NewMetricsCalculator(eventLog EventLog) MetricsCalculator {
	return &metricsCalculator{eventLog: eventLog}
}

// Calculate aggregates all events since the given time.
func (mc *metricsCalculator) Calculate(since time.Time) (*PlanningMetrics, error) {
	events, err := mc.eventLog.Read(EventFilter{Since: &since})
	if err != nil {
		return nil, fmt.Errorf("reading events for metrics: %w", err)
	}

	m := &PlanningMetrics{EventCount: len(events)}

	for i, event := range events {
		if i == 0 {
			t := event.Time
			m.OldestEvent = &t
		}
		t := event.Time
		m.NewestEvent = &t

		switch event.Type {
		case EventPlanAllocated:
			m.PlansAllocated++
		case EventPlanAccepted:
			m.PlansAccepted++
		case EventPlanRepaired:
			m.PlansRepaired++
		case EventRetry:
			m.Retries++
		case EventFrogLate:
			m.LateFrogs++
		case EventOverflow:
			m.OverflowDays++
		}
	}
	return m, nil
}
