package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"cogbench/internal/clock"
	"cogbench/internal/metrics"
	"cogbench/internal/models"
	"cogbench/internal/terminal"
)

// stubTask serves a fixed stimulus sequence and records every trial it
// evaluates. A blank response closes the presentation without a trial.
type stubTask struct {
	typ      models.TestType
	stims    []*Stimulus
	i        int
	measures bool
	seen     []models.Trial
}

func (t *stubTask) Type() models.TestType      { return t.typ }
func (t *stubTask) MeasuresLatency() bool      { return t.measures }
func (t *stubTask) Intro(c terminal.Console)   {}
func (t *stubTask) Params() metrics.Params     { return metrics.Params{} }
func (t *stubTask) Details(trials []models.Trial) map[string]any {
	return map[string]any{"trials": len(trials)}
}

func (t *stubTask) Next(done []models.Trial, elapsed time.Duration) *Stimulus {
	if t.i >= len(t.stims) {
		return nil
	}
	stim := t.stims[t.i]
	t.i++
	return stim
}

func (t *stubTask) Evaluate(stim *Stimulus, trial *models.Trial) (Verdict, string) {
	t.seen = append(t.seen, *trial)
	if !trial.Answered {
		return Incorrect, "missed"
	}
	if trial.Response == "" {
		return Skip, ""
	}
	if trial.Response == stim.Answer {
		return Correct, ""
	}
	return Incorrect, ""
}

func newTestEngine(replies ...terminal.Reply) (*Engine, *terminal.Script) {
	clk := clock.NewFake(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	script := terminal.NewScript(clk, replies...)
	return New(clk, script, zap.NewNop()), script
}

// ready is the Enter press that acknowledges the intro.
func ready() terminal.Reply { return terminal.Reply{Text: "", After: time.Second} }

func TestRunCompensatesLatencyWithFloorAtZero(t *testing.T) {
	task := &stubTask{
		typ:      models.TestReactionTime,
		measures: true,
		stims: []*Stimulus{
			{Answer: "x", Timeout: 5 * time.Second},
		},
	}
	eng, _ := newTestEngine(ready(), terminal.Reply{Text: "x", After: 150 * time.Millisecond})

	cal := &models.CalibrationResult{CompensationMillis: 200, Method: models.MethodAutomated}
	result, err := eng.Run(context.Background(), task, cal)
	require.NoError(t, err)

	require.Len(t, task.seen, 1)
	assert.Equal(t, 150*time.Millisecond, task.seen[0].RawLatency)
	// Compensation larger than the raw measurement floors at zero.
	assert.Equal(t, time.Duration(0), task.seen[0].Latency)
	assert.Equal(t, models.MethodAutomated, result.CalibrationMethod)
	assert.Equal(t, 200.0, result.CompensationMillis)
}

func TestRunLeavesLatencyRawWithoutCalibration(t *testing.T) {
	task := &stubTask{
		typ:      models.TestReactionTime,
		measures: true,
		stims:    []*Stimulus{{Answer: "x", Timeout: 5 * time.Second}},
	}
	eng, _ := newTestEngine(ready(), terminal.Reply{Text: "x", After: 150 * time.Millisecond})

	result, err := eng.Run(context.Background(), task, nil)
	require.NoError(t, err)

	require.Len(t, task.seen, 1)
	assert.Equal(t, 150*time.Millisecond, task.seen[0].Latency)
	assert.False(t, result.Calibrated())
}

func TestRunTimeoutClosesTrialUnanswered(t *testing.T) {
	task := &stubTask{
		typ: models.TestStroop,
		stims: []*Stimulus{
			{Answer: "r", Timeout: 3 * time.Second},
			{Answer: "b", Timeout: 3 * time.Second},
		},
	}
	eng, _ := newTestEngine(ready(),
		terminal.TimeoutReply(),
		terminal.Reply{Text: "b", After: time.Second},
	)

	result, err := eng.Run(context.Background(), task, nil)
	require.NoError(t, err)

	// The missed trial is recorded, not fatal, and the run continues.
	assert.Equal(t, 2, result.TrialsCount)
	require.Len(t, task.seen, 2)
	assert.False(t, task.seen[0].Answered)
	assert.True(t, task.seen[1].Answered)
	assert.True(t, task.seen[1].Correct)
}

func TestRunSkipVerdictRecordsNoTrial(t *testing.T) {
	task := &stubTask{
		typ: models.TestWordRecall,
		stims: []*Stimulus{
			{Answer: "apple", Timeout: 10 * time.Second},
			{Answer: "chair", Timeout: 10 * time.Second},
		},
	}
	eng, _ := newTestEngine(ready(),
		terminal.Reply{Text: "apple", After: time.Second},
		terminal.Reply{Text: "", After: time.Second}, // blank terminator
	)

	result, err := eng.Run(context.Background(), task, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, result.TrialsCount)
}

func TestRunCancellationDiscardsEverything(t *testing.T) {
	task := &stubTask{
		typ: models.TestMentalMath,
		stims: []*Stimulus{
			{Answer: "12", Timeout: 10 * time.Second},
			{Answer: "34"}, // no timeout; the exhausted script closes input
		},
	}
	eng, _ := newTestEngine(ready(), terminal.Reply{Text: "12", After: time.Second})

	result, err := eng.Run(context.Background(), task, nil)
	require.ErrorIs(t, err, ErrCancelled)
	assert.Nil(t, result)
}

func TestRunScoresAndStampsResult(t *testing.T) {
	task := &stubTask{
		typ: models.TestMentalMath,
		stims: []*Stimulus{
			{Answer: "12", Timeout: 10 * time.Second},
			{Answer: "34", Timeout: 10 * time.Second},
			{Answer: "56", Timeout: 10 * time.Second},
		},
	}
	eng, _ := newTestEngine(ready(),
		terminal.Reply{Text: "12", After: time.Second},
		terminal.Reply{Text: "99", After: time.Second},
		terminal.Reply{Text: "56", After: time.Second},
	)

	result, err := eng.Run(context.Background(), task, nil)
	require.NoError(t, err)

	assert.NotEmpty(t, result.SessionID)
	assert.Equal(t, models.TestMentalMath, result.TestType)
	assert.Equal(t, 2.0, result.MetricValue)
	assert.Equal(t, models.UnitCount, result.MetricUnit)
	assert.Equal(t, 3, result.TrialsCount)
	assert.NotEmpty(t, result.Details)
}

func TestRunStaleInputNeverScoresEarlierThanStimulus(t *testing.T) {
	task := &stubTask{
		typ:      models.TestReactionTime,
		measures: true,
		stims:    []*Stimulus{{Answer: "x", PreDelay: 2 * time.Second, Timeout: 5 * time.Second}},
	}
	eng, _ := newTestEngine(ready(), terminal.Reply{Text: "x", After: 100 * time.Millisecond})

	_, err := eng.Run(context.Background(), task, nil)
	require.NoError(t, err)
	require.Len(t, task.seen, 1)
	// The latency is measured from stimulus onset, after the pre-delay.
	assert.Equal(t, 100*time.Millisecond, task.seen[0].RawLatency)
	assert.False(t, task.seen[0].ResponseObservedAt.Before(task.seen[0].StimulusShownAt))
}
