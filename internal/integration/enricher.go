// Package integration contains clients for dayplan's external
// collaborators: the AI task-enrichment service.
package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/planforge/dayplan/internal/core"
	"github.com/planforge/dayplan/pkg/models"
)

// TaskEnricher fills in duration, category, and difficulty estimates for
// raw tasks. The enrichment service is a black box; whatever it leaves
// blank is normalized locally afterwards.
type TaskEnricher interface {
	Enrich(ctx context.Context, tasks []models.Task) ([]models.Task, error)
}

// httpEnricher calls a remote enrichment endpoint.
type httpEnricher struct {
	endpoint string
	http     *http.Client
}

// NewHTTPEnricher creates a TaskEnricher backed by the enrichment service
// at the given endpoint.
func NewHTTPEnricher(endpoint string, timeout time.Duration) TaskEnricher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &httpEnricher{
		endpoint: endpoint,
		http:     &http.Client{Timeout: timeout},
	}
}

// enrichmentPayload is the request and response body of the enrichment
// service.
type enrichmentPayload struct {
	Tasks []models.Task `json:"tasks"`
}

// Enrich posts the tasks to the enrichment service and normalizes the
// result onto the block grid, so durations the service missed get the
// minimum and difficulty falls back to duration bands.
func (e *httpEnricher) Enrich(ctx context.Context, tasks []models.Task) ([]models.Task, error) {
	body, err := json.Marshal(enrichmentPayload{Tasks: tasks})
	if err != nil {
		return nil, fmt.Errorf("encoding enrichment request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building enrichment request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling enrichment service: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading enrichment response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("enrichment service returned status %d", resp.StatusCode)
	}

	var out enrichmentPayload
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decoding enrichment response: %w", err)
	}
	if len(out.Tasks) == 0 {
		return nil, fmt.Errorf("enrichment service returned no tasks")
	}

	return core.NormalizeTasks(out.Tasks), nil
}

// offlineEnricher normalizes tasks locally without calling any service.
type offlineEnricher struct{}

// NewOfflineEnricher creates a TaskEnricher that applies local
// normalization only, for offline mode or when no endpoint is configured.
func NewOfflineEnricher() TaskEnricher {
	return offlineEnricher{}
}

// Enrich fills defaults without any remote call.
func (offlineEnricher) Enrich(_ context.Context, tasks []models.Task) ([]models.Task, error) {
	return core.NormalizeTasks(tasks), nil
}
