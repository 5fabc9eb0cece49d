// Package internal provides the App struct that wires all components of
// dayplan together and initializes the CLI layer.
package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/planforge/dayplan/internal/acceptance"
	"github.com/planforge/dayplan/internal/cli"
	"github.com/planforge/dayplan/internal/core"
	"github.com/planforge/dayplan/internal/integration"
	"github.com/planforge/dayplan/internal/observability"
	"github.com/planforge/dayplan/internal/storage"
	"github.com/planforge/dayplan/pkg/models"
)

// App holds all service dependencies for dayplan.
type App struct {
	BasePath string

	ConfigMgr core.ConfigurationManager
	Config    *models.PlannerConfig

	TaskSrc  storage.TaskSource
	Store    storage.ScheduleStore
	Enricher integration.TaskEnricher
	Acceptor acceptance.Acceptor

	EventLog    observability.EventLog
	MetricsCalc observability.MetricsCalculator
}

// NewApp creates and wires all components. basePath is the directory
// holding .planconfig, the plans directory, and the event log.
func NewApp(basePath string) (*App, error) {
	app := &App{BasePath: basePath}

	app.ConfigMgr = core.NewConfigurationManager(basePath)
	cfg, err := app.ConfigMgr.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("initializing dayplan: %w", err)
	}
	app.Config = cfg

	app.TaskSrc = storage.NewTaskSource()
	app.Store = storage.NewScheduleStore(basePath)

	if cfg.Enrichment.Offline || cfg.Enrichment.Endpoint == "" {
		app.Enricher = integration.NewOfflineEnricher()
	} else {
		app.Enricher = integration.NewHTTPEnricher(cfg.Enrichment.Endpoint,
			time.Duration(cfg.Enrichment.TimeoutSeconds)*time.Second)
	}

	if cfg.Acceptance.Endpoint != "" {
		app.Acceptor = acceptance.NewClient(cfg.Acceptance.Endpoint,
			time.Duration(cfg.Acceptance.TimeoutSeconds)*time.Second)
	}

	// Observability is best-effort: a failing event log disables recording
	// but never blocks planning.
	if eventLog, err := observability.NewJSONLEventLog(filepath.Join(basePath, "events.jsonl")); err == nil {
		app.EventLog = eventLog
		app.MetricsCalc = observability.NewMetricsCalculator(eventLog)
	}

	app.initCLI()
	return app, nil
}

// initCLI exposes the wired services to the CLI command layer.
func (a *App) initCLI() {
	cli.BasePath = a.BasePath
	cli.Config = a.Config
	cli.TaskSrc = a.TaskSrc
	cli.Store = a.Store
	cli.Enricher = a.Enricher
	cli.Acceptor = a.Acceptor
	cli.EventLog = a.EventLog
	cli.MetricsCalc = a.MetricsCalc
}

// ResolveBasePath determines where dayplan keeps its data: DAYPLAN_HOME if
// set, else the nearest ancestor directory containing .planconfig, else
// the current directory.
func ResolveBasePath() string {
	if home := os.Getenv("DAYPLAN_HOME"); home != "" {
		return home
	}
	dir, err := os.Getwd()
	if err != nil {
		return "."
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, ".planconfig")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	cwd, _ := os.Getwd()
	return cwd
}
