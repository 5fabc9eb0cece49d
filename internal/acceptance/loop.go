package acceptance

import (
	"context"
	"fmt"
	"time"

	"github.com/planforge/dayplan/pkg/models"
)

// Backoff bases and floors per error class. Delays grow as base * 2^attempt
// with a class-specific floor, so a rate-limited endpoint is never hammered.
const (
	defaultBackoffBase   = 1000 * time.Millisecond
	rateLimitBackoffBase = 2000 * time.Millisecond
	rateLimitFloor       = 10 * time.Second
	overloadedFloor      = 15 * time.Second
)

// BackoffDelay computes the sleep before retry number attempt (1-based) for
// the given error class.
func BackoffDelay(kind models.ErrorKind, attempt int) time.Duration {
	base := defaultBackoffBase
	switch kind {
	case models.KindRateLimit, models.KindOverloaded:
		base = rateLimitBackoffBase
	}

	delay := base * (1 << attempt)

	switch kind {
	case models.KindRateLimit:
		if delay < rateLimitFloor {
			delay = rateLimitFloor
		}
	case models.KindOverloaded:
		if delay < overloadedFloor {
			delay = overloadedFloor
		}
	}
	return delay
}

// Recorder receives loop progress events. Implementations must be cheap;
// the loop calls them inline. A nil Recorder disables recording.
type Recorder interface {
	Record(eventType, level, message string, data map[string]any)
}

// RepairLoop submits a candidate schedule and, on retryable rejection,
// repairs and resubmits it with bounded, backed-off attempts. The loop is
// strictly sequential: each attempt's schedule depends on the previous
// rejection, so no two attempts ever run concurrently.
type RepairLoop struct {
	acceptor    Acceptor
	maxAttempts int
	recorder    Recorder

	// sleep waits for the backoff delay or context cancellation.
	// Overridable in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewRepairLoop creates a RepairLoop with the given retry budget.
// recorder may be nil.
func NewRepairLoop(acceptor Acceptor, maxAttempts int, recorder Recorder) *RepairLoop {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &RepairLoop{
		acceptor:    acceptor,
		maxAttempts: maxAttempts,
		recorder:    recorder,
		sleep:       sleepCtx,
	}
}

// Run submits the schedule until it is accepted, a fatal rejection occurs,
// the retry budget is exhausted, or ctx is cancelled. Both the outbound
// request and the backoff sleep honor ctx. On acceptance the
// server-confirmed blocks replace the candidate's and the schedule is
// returned to the caller for persistence.
func (l *RepairLoop) Run(ctx context.Context, stories []models.Story, schedule *models.Schedule) (*models.Schedule, error) {
	candidate := schedule.Clone()
	stories = models.CloneStories(stories)

	var lastErr error
	for attempt := 1; attempt <= l.maxAttempts; attempt++ {
		req := SubmitRequest{
			Stories:      stories,
			StartTime:    candidate.StartTime,
			StoryMapping: TitleMappingFor(&candidate),
		}

		accepted, err := l.acceptor.Submit(ctx, req)
		if err == nil {
			candidate.StoryBlocks = accepted.StoryBlocks
			candidate.TotalDuration = accepted.TotalDuration
			l.record("plan.accepted", "INFO", "schedule accepted",
				map[string]any{"attempts": attempt, "total_duration": candidate.TotalDuration})
			return &candidate, nil
		}

		se, ok := models.AsSchedulingError(err)
		if !ok {
			return nil, fmt.Errorf("submitting schedule: %w", err)
		}
		if !se.Retryable() {
			return nil, fatalWithAttempts(se, attempt)
		}

		if se.Kind == models.KindValidation {
			block := se.Detail(models.DetailBlock)
			if block == "" {
				// Nothing to repair without a named block.
				return nil, fatalWithAttempts(se, attempt)
			}
			repaired, repairErr := RepairBlock(&candidate, block)
			if repairErr != nil {
				return nil, fmt.Errorf("after rejection %q: %w", se.Message, repairErr)
			}
			stories = replaceStory(stories, repaired)
			l.record("plan.repaired", "WARN", "rebuilt rejected block",
				map[string]any{"block": block, "attempt": attempt})
		}

		lastErr = se
		if attempt == l.maxAttempts {
			break
		}

		delay := BackoffDelay(se.Kind, attempt)
		l.record("submission.retry", "WARN", "retrying after rejection",
			map[string]any{"kind": string(se.Kind), "attempt": attempt, "delay_ms": delay.Milliseconds()})
		if err := l.sleep(ctx, delay); err != nil {
			return nil, err
		}
	}

	se, _ := models.AsSchedulingError(lastErr)
	return nil, fatalWithAttempts(se, l.maxAttempts)
}

// replaceStory returns a copy of stories with the named story swapped for
// its repaired form, so the next submission carries the re-split tasks. The
// copy keeps requests already handed to the acceptor unaliased.
func replaceStory(stories []models.Story, repaired models.Story) []models.Story {
	out := models.CloneStories(stories)
	for i := range out {
		if out[i].Title == repaired.Title {
			out[i] = repaired
			break
		}
	}
	return out
}

// fatalWithAttempts annotates the terminal error with the attempt count so
// the caller sees the root cause's classification and context intact.
func fatalWithAttempts(se *models.SchedulingError, attempts int) error {
	out := models.NewSchedulingError(se.Kind, se.Message)
	out.Details = make(map[string]any, len(se.Details)+1)
	for k, v := range se.Details {
		out.Details[k] = v
	}
	out.Details[models.DetailAttempts] = attempts
	return out
}

// sleepCtx waits for d or until ctx is cancelled, whichever comes first.
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (l *RepairLoop) record(eventType, level, message string, data map[string]any) {
	if l.recorder == nil {
		return
	}
	l.recorder.Record(eventType, level, message, data)
}
