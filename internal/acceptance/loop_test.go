package acceptance

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planforge/dayplan/internal/core"
	"github.com/planforge/dayplan/pkg/models"
)

// scriptedAcceptor returns one scripted response per Submit call and keeps
// the requests it saw.
type scriptedAcceptor struct {
	responses []func(req SubmitRequest) (*AcceptedPlan, error)
	requests  []SubmitRequest
}

func (a *scriptedAcceptor) Submit(_ context.Context, req SubmitRequest) (*AcceptedPlan, error) {
	a.requests = append(a.requests, req)
	idx := len(a.requests) - 1
	if idx >= len(a.responses) {
		idx = len(a.responses) - 1
	}
	return a.responses[idx](req)
}

func acceptWith(plan *AcceptedPlan) func(SubmitRequest) (*AcceptedPlan, error) {
	return func(SubmitRequest) (*AcceptedPlan, error) { return plan, nil }
}

func rejectWith(err error) func(SubmitRequest) (*AcceptedPlan, error) {
	return func(SubmitRequest) (*AcceptedPlan, error) { return nil, err }
}

type capturedEvent struct {
	Type string
	Data map[string]any
}

type captureRecorder struct {
	events []capturedEvent
}

func (r *captureRecorder) Record(eventType, _, _ string, data map[string]any) {
	r.events = append(r.events, capturedEvent{Type: eventType, Data: data})
}

// newLoop wires a RepairLoop whose sleeps are captured instead of slept.
func newLoop(acceptor Acceptor, maxAttempts int, recorder Recorder) (*RepairLoop, *[]time.Duration) {
	loop := NewRepairLoop(acceptor, maxAttempts, recorder)
	var delays []time.Duration
	loop.sleep = func(_ context.Context, d time.Duration) error {
		delays = append(delays, d)
		return nil
	}
	return loop, &delays
}

func acceptedFixture() *AcceptedPlan {
	return &AcceptedPlan{
		StoryBlocks: []models.StoryBlock{{
			Title:         "Backend",
			TotalDuration: 50,
			TimeBoxes: []models.TimeBox{
				{Type: models.BoxWork, Duration: 45},
				{Type: models.BoxDebrief, Duration: 5},
			},
		}},
		TotalDuration: 50,
	}
}

func TestRun_AcceptedFirstTry(t *testing.T) {
	acceptor := &scriptedAcceptor{responses: []func(SubmitRequest) (*AcceptedPlan, error){
		acceptWith(acceptedFixture()),
	}}
	loop, delays := newLoop(acceptor, 5, nil)

	candidate := scheduleWithSplitBlock("Backend", "Backend: big migration")
	got, err := loop.Run(context.Background(), []models.Story{{Title: "Backend"}}, candidate)

	require.NoError(t, err)
	assert.Len(t, acceptor.requests, 1)
	assert.Empty(t, *delays)
	assert.Equal(t, 50, got.TotalDuration, "server-confirmed blocks replace the candidate's")
	assert.Len(t, got.StoryBlocks, 1)
	// The input schedule must stay untouched.
	assert.NotEqual(t, 50, candidate.TotalDuration)
}

func TestRun_SubmitsTitleMapping(t *testing.T) {
	acceptor := &scriptedAcceptor{responses: []func(SubmitRequest) (*AcceptedPlan, error){
		acceptWith(acceptedFixture()),
	}}
	loop, _ := newLoop(acceptor, 5, nil)

	candidate := scheduleWithSplitBlock("Backend", "Backend: big migration")
	_, err := loop.Run(context.Background(), []models.Story{{Title: "Backend"}}, candidate)

	require.NoError(t, err)
	require.Len(t, acceptor.requests, 1)
	assert.Len(t, acceptor.requests[0].StoryMapping, 3,
		"split parts must be declared in the story mapping")
}

func TestRun_RateLimitBacksOffAtLeastTenSeconds(t *testing.T) {
	acceptor := &scriptedAcceptor{responses: []func(SubmitRequest) (*AcceptedPlan, error){
		rejectWith(models.NewSchedulingError(models.KindRateLimit, "slow down", models.DetailStatus, 429)),
		acceptWith(acceptedFixture()),
	}}
	recorder := &captureRecorder{}
	loop, delays := newLoop(acceptor, 5, recorder)

	candidate := scheduleWithSplitBlock("Backend", "Backend: big migration")
	_, err := loop.Run(context.Background(), nil, candidate)

	require.NoError(t, err)
	assert.Len(t, acceptor.requests, 2)
	require.Len(t, *delays, 1)
	assert.GreaterOrEqual(t, (*delays)[0], 10*time.Second)

	var types []string
	for _, e := range recorder.events {
		types = append(types, e.Type)
	}
	assert.Contains(t, types, "submission.retry")
	assert.Contains(t, types, "plan.accepted")
}

func TestRun_RepairsRejectedBlockThenResubmits(t *testing.T) {
	acceptor := &scriptedAcceptor{responses: []func(SubmitRequest) (*AcceptedPlan, error){
		rejectWith(models.NewSchedulingError(models.KindValidation,
			`too much continuous work in block "Backend"`,
			models.DetailBlock, "Backend", models.DetailStatus, 400)),
		acceptWith(acceptedFixture()),
	}}
	recorder := &captureRecorder{}
	loop, delays := newLoop(acceptor, 5, recorder)

	candidate := scheduleWithSplitBlock("Backend", "Backend: big migration")
	got, err := loop.Run(context.Background(), nil, candidate)

	require.NoError(t, err)
	assert.Len(t, acceptor.requests, 2)
	assert.Len(t, *delays, 1)
	require.NotNil(t, got)

	repaired := false
	for _, e := range recorder.events {
		if e.Type == "plan.repaired" {
			repaired = true
			assert.Equal(t, "Backend", e.Data["block"])
		}
	}
	assert.True(t, repaired, "expected a plan.repaired event")
}

func TestRun_ResubmissionCarriesRepairedStories(t *testing.T) {
	acceptor := &scriptedAcceptor{responses: []func(SubmitRequest) (*AcceptedPlan, error){
		rejectWith(models.NewSchedulingError(models.KindValidation,
			`too much continuous work in block "Backend"`,
			models.DetailBlock, "Backend", models.DetailStatus, 400)),
		acceptWith(acceptedFixture()),
	}}
	loop, _ := newLoop(acceptor, 5, nil)

	candidate := scheduleWithSplitBlock("Backend", "Backend: big migration")
	stories := []models.Story{{
		Title: "Backend",
		Tasks: []models.Task{{ID: "parent-1", Title: "Backend: big migration", Duration: 120, NeedsSplitting: true}},
	}}
	_, err := loop.Run(context.Background(), stories, candidate)

	require.NoError(t, err)
	require.Len(t, acceptor.requests, 2)
	assert.NotEqual(t, acceptor.requests[0].Stories, acceptor.requests[1].Stories,
		"the second attempt must send the repaired story, not the rejected one")

	resubmitted := acceptor.requests[1].Stories[0]
	require.NotEmpty(t, resubmitted.Tasks)
	for _, task := range resubmitted.Tasks {
		assert.LessOrEqual(t, task.Duration, core.RepairPartDuration)
	}
	// The caller's slice stays untouched.
	require.Len(t, stories[0].Tasks, 1)
	assert.Equal(t, 120, stories[0].Tasks[0].Duration)
}

func TestRun_ValidationWithoutBlockIsFatal(t *testing.T) {
	acceptor := &scriptedAcceptor{responses: []func(SubmitRequest) (*AcceptedPlan, error){
		rejectWith(models.NewSchedulingError(models.KindValidation, "start time is in the past")),
	}}
	loop, delays := newLoop(acceptor, 5, nil)

	candidate := scheduleWithSplitBlock("Backend", "Backend: big migration")
	_, err := loop.Run(context.Background(), nil, candidate)

	require.Error(t, err)
	assert.Len(t, acceptor.requests, 1, "unrepairable rejections must not be retried")
	assert.Empty(t, *delays)
	se, ok := models.AsSchedulingError(err)
	require.True(t, ok)
	assert.Equal(t, models.KindValidation, se.Kind)
	assert.Equal(t, 1, se.Details[models.DetailAttempts])
}

func TestRun_FatalStructureErrorStopsImmediately(t *testing.T) {
	acceptor := &scriptedAcceptor{responses: []func(SubmitRequest) (*AcceptedPlan, error){
		rejectWith(models.NewSchedulingError(models.KindStructure, "acceptance response has no storyBlocks")),
	}}
	loop, delays := newLoop(acceptor, 5, nil)

	candidate := scheduleWithSplitBlock("Backend", "Backend: big migration")
	_, err := loop.Run(context.Background(), nil, candidate)

	require.Error(t, err)
	assert.Len(t, acceptor.requests, 1)
	assert.Empty(t, *delays)
	assert.Equal(t, models.KindStructure, models.ErrorKindOf(err))
}

func TestRun_ExhaustsRetryBudget(t *testing.T) {
	acceptor := &scriptedAcceptor{responses: []func(SubmitRequest) (*AcceptedPlan, error){
		rejectWith(models.NewSchedulingError(models.KindServer, "boom", models.DetailStatus, 500)),
	}}
	loop, delays := newLoop(acceptor, 3, nil)

	candidate := scheduleWithSplitBlock("Backend", "Backend: big migration")
	_, err := loop.Run(context.Background(), nil, candidate)

	require.Error(t, err)
	assert.Len(t, acceptor.requests, 3)
	assert.Len(t, *delays, 2, "no sleep after the final attempt")
	se, ok := models.AsSchedulingError(err)
	require.True(t, ok)
	assert.Equal(t, models.KindServer, se.Kind)
	assert.Equal(t, 3, se.Details[models.DetailAttempts])
}

func TestRun_ContextCancellationDuringBackoff(t *testing.T) {
	acceptor := &scriptedAcceptor{responses: []func(SubmitRequest) (*AcceptedPlan, error){
		rejectWith(models.NewSchedulingError(models.KindServer, "boom")),
	}}
	loop := NewRepairLoop(acceptor, 5, nil)
	loop.sleep = func(ctx context.Context, _ time.Duration) error {
		return context.Canceled
	}

	candidate := scheduleWithSplitBlock("Backend", "Backend: big migration")
	_, err := loop.Run(context.Background(), nil, candidate)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBackoffDelay(t *testing.T) {
	tests := []struct {
		kind     models.ErrorKind
		attempt  int
		expected time.Duration
	}{
		{models.KindServer, 1, 2 * time.Second},
		{models.KindServer, 2, 4 * time.Second},
		{models.KindParse, 3, 8 * time.Second},
		{models.KindRateLimit, 1, 10 * time.Second},  // floor applies
		{models.KindRateLimit, 3, 16 * time.Second},  // exponent beats the floor
		{models.KindOverloaded, 1, 15 * time.Second}, // higher floor
		{models.KindOverloaded, 4, 32 * time.Second},
	}

	for _, tt := range tests {
		got := BackoffDelay(tt.kind, tt.attempt)
		if got != tt.expected {
			t.Errorf("BackoffDelay(%s, %d) = %v, want %v", tt.kind, tt.attempt, got, tt.expected)
		}
	}
}
