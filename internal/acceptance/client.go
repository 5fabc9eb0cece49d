// Package acceptance submits candidate schedules to the remote acceptance
// endpoint and drives the repair/retry loop when the endpoint rejects them.
package acceptance

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/planforge/dayplan/pkg/models"
)

// SubmitRequest is the wire payload sent to the acceptance endpoint. The
// story mapping links post-split part titles back to their originals so the
// remote validator can correlate renamed parts.
type SubmitRequest struct {
	Stories      []models.Story        `json:"stories"`
	StartTime    time.Time             `json:"startTime"`
	StoryMapping []models.TitleMapping `json:"storyMapping"`
}

// AcceptedPlan is the server-confirmed portion of a successful response.
type AcceptedPlan struct {
	StoryBlocks   []models.StoryBlock `json:"storyBlocks"`
	TotalDuration int                 `json:"totalDuration"`
}

// Acceptor is the narrow interface the repair loop needs. The HTTP client
// implements it; tests substitute fakes.
type Acceptor interface {
	Submit(ctx context.Context, req SubmitRequest) (*AcceptedPlan, error)
}

// Client posts schedules to the acceptance endpoint over HTTP.
type Client struct {
	endpoint string
	http     *http.Client
}

// NewClient creates an acceptance Client for the given endpoint URL.
func NewClient(endpoint string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		endpoint: endpoint,
		http:     &http.Client{Timeout: timeout},
	}
}

// successEnvelope mirrors the documented success response.
type successEnvelope struct {
	Success bool          `json:"success"`
	Data    *AcceptedPlan `json:"data"`
}

// failureEnvelope mirrors the documented failure response.
type failureEnvelope struct {
	Error   string         `json:"error"`
	Code    string         `json:"code,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// Submit posts the request and classifies the response into the scheduling
// error taxonomy. Network failures and undecodable bodies are retryable;
// structural problems in an otherwise successful response are fatal.
func (c *Client) Submit(ctx context.Context, req SubmitRequest) (*AcceptedPlan, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, models.NewSchedulingError(models.KindStructure,
			fmt.Sprintf("encoding submit request: %v", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, models.NewSchedulingError(models.KindStructure,
			fmt.Sprintf("building submit request: %v", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, models.NewSchedulingError(models.KindServer,
			fmt.Sprintf("submitting schedule: %v", err))
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, models.NewSchedulingError(models.KindParse,
			fmt.Sprintf("reading response body: %v", err))
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return decodeAccepted(raw)
	}
	return nil, classifyRejection(resp.StatusCode, raw)
}

// decodeAccepted parses a 2xx body and verifies its structure. A response
// missing story blocks or per-block time boxes is malformed on the server
// side; repairing the schedule cannot address it, so it is fatal.
func decodeAccepted(raw []byte) (*AcceptedPlan, error) {
	var env successEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, models.NewSchedulingError(models.KindParse,
			fmt.Sprintf("decoding acceptance response: %v", err))
	}
	if env.Data == nil || len(env.Data.StoryBlocks) == 0 {
		return nil, models.NewSchedulingError(models.KindStructure,
			"acceptance response has no storyBlocks")
	}
	for _, block := range env.Data.StoryBlocks {
		if len(block.TimeBoxes) == 0 {
			return nil, models.NewSchedulingError(models.KindStructure,
				fmt.Sprintf("acceptance response block %q has no timeBoxes", block.Title),
				models.DetailBlock, block.Title)
		}
	}
	return env.Data, nil
}

// continuousWorkPattern extracts the quoted block name from a continuous
// work rejection message. String matching is a compatibility shim for
// servers that omit the structured code and details.
var continuousWorkPattern = regexp.MustCompile(`block "([^"]+)"`)

// classifyRejection maps a non-2xx response onto the error taxonomy.
// Structured codes take precedence; message text is a fallback shim only.
func classifyRejection(status int, raw []byte) error {
	var env failureEnvelope
	if err := json.Unmarshal(raw, &env); err != nil || env.Error == "" {
		return models.NewSchedulingError(models.KindParse,
			fmt.Sprintf("undecodable rejection body (status %d)", status),
			models.DetailStatus, status)
	}

	msg := strings.ToLower(env.Error)

	kind := models.ErrorKind("")
	switch env.Code {
	case "rate_limited":
		kind = models.KindRateLimit
	case "overloaded":
		kind = models.KindOverloaded
	case "too_much_continuous_work", "validation_failed":
		kind = models.KindValidation
	}

	if kind == "" {
		switch {
		case status == http.StatusTooManyRequests || status == 529:
			kind = models.KindRateLimit
		case strings.Contains(msg, "overloaded"):
			kind = models.KindOverloaded
		case strings.Contains(msg, "rate limit"):
			kind = models.KindRateLimit
		case status >= 500:
			kind = models.KindServer
		case strings.Contains(msg, "too much continuous work"):
			kind = models.KindValidation
		default:
			kind = models.KindValidation
		}
	}

	err := models.NewSchedulingError(kind, env.Error, models.DetailStatus, status)
	if block := rejectedBlock(env); block != "" {
		if err.Details == nil {
			err.Details = make(map[string]any)
		}
		err.Details[models.DetailBlock] = block
	}
	return err
}

// rejectedBlock pulls the named block out of a validation rejection, from
// the structured details when present, else from the message text.
func rejectedBlock(env failureEnvelope) string {
	if env.Details != nil {
		if block, ok := env.Details[models.DetailBlock].(string); ok && block != "" {
			return block
		}
	}
	if m := continuousWorkPattern.FindStringSubmatch(env.Error); m != nil {
		return m[1]
	}
	return ""
}
