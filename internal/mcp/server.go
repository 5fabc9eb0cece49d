// Package mcp provides an MCP (Model Context Protocol) server that exposes
// stored day plans and planning metrics as MCP tools for AI assistants.
package mcp

import (
	"context"
	"fmt"
	"time"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/planforge/dayplan/internal/observability"
	"github.com/planforge/dayplan/internal/storage"
	"github.com/planforge/dayplan/pkg/models"
)

// Server wraps dayplan services and exposes them as MCP tools.
type Server struct {
	server      *gomcp.Server
	store       storage.ScheduleStore
	metricsCalc observability.MetricsCalculator
}

// NewServer creates an MCP server over the given schedule store.
// metricsCalc may be nil if observability is disabled.
func NewServer(store storage.ScheduleStore, metricsCalc observability.MetricsCalculator, version string) *Server {
	if version == "" {
		version = "dev"
	}

	s := &Server{store: store, metricsCalc: metricsCalc}
	s.server = gomcp.NewServer(
		&gomcp.Implementation{Name: "dayplan", Version: version},
		nil,
	)
	s.registerTools()
	return s
}

// Run starts the MCP server on stdio, blocking until the client disconnects
// or the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &gomcp.StdioTransport{})
}

// MCPServer returns the underlying mcp.Server for testing purposes.
func (s *Server) MCPServer() *gomcp.Server {
	return s.server
}

// --- Tool input/output types ---

type getPlanInput struct {
	Date string `json:"date,omitempty" jsonschema:"plan date as YYYY-MM-DD; defaults to today"`
}

type timeBoxOutput struct {
	Type     string   `json:"type"`
	Duration int      `json:"duration"`
	Tasks    []string `json:"tasks,omitempty"`
}

type storyBlockOutput struct {
	Title         string          `json:"title"`
	TotalDuration int             `json:"totalDuration"`
	TimeBoxes     []timeBoxOutput `json:"timeBoxes"`
}

type planOutput struct {
	Date          string             `json:"date"`
	StartTime     string             `json:"startTime"`
	TotalDuration int                `json:"totalDuration"`
	StoryBlocks   []storyBlockOutput `json:"storyBlocks"`
	FrogsTotal    int                `json:"frogsTotal"`
	FrogsOnTarget int                `json:"frogsOnTarget"`
}

type listPlansInput struct{}

type listPlansOutput struct {
	Dates []string `json:"dates"`
	Count int      `json:"count"`
}

type getMetricsInput struct {
	Since string `json:"since,omitempty" jsonschema:"time window for metrics (e.g. 7d, 30d, 24h). Defaults to 7d."`
}

type metricsOutput struct {
	PlansAllocated int `json:"plans_allocated"`
	PlansAccepted  int `json:"plans_accepted"`
	PlansRepaired  int `json:"plans_repaired"`
	Retries        int `json:"retries"`
	LateFrogs      int `json:"late_frogs"`
	OverflowDays   int `json:"overflow_days"`
	EventCount     int `json:"event_count"`
}

// --- Tool registration ---

func (s *Server) registerTools() {
	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "get_plan",
		Description: "Get the stored work plan for a date. Returns story blocks with their time boxes and frog metrics.",
	}, s.handleGetPlan)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "list_plans",
		Description: "List the dates that have a stored work plan, in ascending order.",
	}, s.handleListPlans)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "get_metrics",
		Description: "Get aggregated planning metrics from the event log: allocations, acceptances, repairs, retries, and late frogs.",
	}, s.handleGetMetrics)
}

// --- Tool handlers ---

func (s *Server) handleGetPlan(_ context.Context, _ *gomcp.CallToolRequest, input getPlanInput) (*gomcp.CallToolResult, planOutput, error) {
	date := input.Date
	if date == "" {
		date = models.DateKey(time.Now())
	}

	schedule, err := s.store.Get(date)
	if err != nil {
		return errorResult(fmt.Sprintf("loading plan %s: %s", date, err)), planOutput{}, nil
	}
	if schedule == nil {
		return errorResult(fmt.Sprintf("no plan stored for %s", date)), planOutput{}, nil
	}

	return nil, planToOutput(schedule), nil
}

func (s *Server) handleListPlans(_ context.Context, _ *gomcp.CallToolRequest, _ listPlansInput) (*gomcp.CallToolResult, listPlansOutput, error) {
	dates, err := s.store.ListDates()
	if err != nil {
		return errorResult(fmt.Sprintf("listing plans: %s", err)), listPlansOutput{}, nil
	}
	return nil, listPlansOutput{Dates: dates, Count: len(dates)}, nil
}

func (s *Server) handleGetMetrics(_ context.Context, _ *gomcp.CallToolRequest, input getMetricsInput) (*gomcp.CallToolResult, metricsOutput, error) {
	if s.metricsCalc == nil {
		return errorResult("metrics calculator not available (observability may be disabled)"), metricsOutput{}, nil
	}

	sinceStr := input.Since
	if sinceStr == "" {
		sinceStr = "7d"
	}
	sinceTime, err := parseSince(sinceStr)
	if err != nil {
		return errorResult(fmt.Sprintf("parsing since duration: %s", err)), metricsOutput{}, nil
	}

	metrics, err := s.metricsCalc.Calculate(sinceTime)
	if err != nil {
		return errorResult(fmt.Sprintf("calculating metrics: %s", err)), metricsOutput{}, nil
	}

	return nil, metricsOutput{
		PlansAllocated: metrics.PlansAllocated,
		PlansAccepted:  metrics.PlansAccepted,
		PlansRepaired:  metrics.PlansRepaired,
		Retries:        metrics.Retries,
		LateFrogs:      metrics.LateFrogs,
		OverflowDays:   metrics.OverflowDays,
		EventCount:     metrics.EventCount,
	}, nil
}

// --- Helpers ---

func planToOutput(s *models.Schedule) planOutput {
	out := planOutput{
		Date:          s.Date,
		StartTime:     s.StartTime.Format(time.RFC3339),
		TotalDuration: s.TotalDuration,
		FrogsTotal:    s.Frogs.Total,
		FrogsOnTarget: s.Frogs.WithinTarget,
	}
	for _, block := range s.StoryBlocks {
		blockOut := storyBlockOutput{
			Title:         block.Title,
			TotalDuration: block.TotalDuration,
		}
		for _, box := range block.TimeBoxes {
			boxOut := timeBoxOutput{
				Type:     string(box.Type),
				Duration: box.Duration,
			}
			for _, task := range box.Tasks {
				boxOut.Tasks = append(boxOut.Tasks, task.Title)
			}
			blockOut.TimeBoxes = append(blockOut.TimeBoxes, boxOut)
		}
		out.StoryBlocks = append(out.StoryBlocks, blockOut)
	}
	return out
}

func errorResult(msg string) *gomcp.CallToolResult {
	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: msg}},
		IsError: true,
	}
}

// parseSince parses a human-friendly duration string like "7d", "30d", or
// "24h" into the corresponding time in the past.
func parseSince(s string) (time.Time, error) {
	now := time.Now().UTC()

	if len(s) < 2 {
		return time.Time{}, fmt.Errorf("invalid duration %q", s)
	}

	suffix := s[len(s)-1]
	numStr := s[:len(s)-1]
	var num int
	if _, err := fmt.Sscanf(numStr, "%d", &num); err != nil {
		return time.Time{}, fmt.Errorf("invalid duration %q: %w", s, err)
	}

	switch suffix {
	case 'd':
		return now.AddDate(0, 0, -num), nil
	case 'h':
		return now.Add(-time.Duration(num) * time.Hour), nil
	default:
		return time.Time{}, fmt.Errorf("unsupported duration suffix %q (use d or h)", string(suffix))
	}
}
