package cli

import (
	"github.com/planforge/dayplan/internal/acceptance"
	"github.com/planforge/dayplan/internal/integration"
	"github.com/planforge/dayplan/internal/observability"
	"github.com/planforge/dayplan/internal/storage"
	"github.com/planforge/dayplan/pkg/models"
)

// Service instances, set during app initialization in internal/app.go.
var (
	BasePath string
	Config   *models.PlannerConfig

	TaskSrc  storage.TaskSource
	Store    storage.ScheduleStore
	Enricher integration.TaskEnricher
	Acceptor acceptance.Acceptor

	EventLog    observability.EventLog
	MetricsCalc observability.MetricsCalculator
)
