// Package engine drives the stimulus/response loop shared by all six task
// types. The loop, the timing, and the compensation arithmetic live here in
// exactly one place; tasks only contribute stimuli, stopping conditions and
// correctness rules.
package engine

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"cogbench/internal/clock"
	"cogbench/internal/metrics"
	"cogbench/internal/models"
	"cogbench/internal/terminal"
)

// ErrCancelled reports that the user aborted the run. Nothing is scored or
// persisted for a cancelled run and no partially open trial survives it.
var ErrCancelled = errors.New("engine: run cancelled")

// Verdict is a task's judgement of one closed trial.
type Verdict int

const (
	// Incorrect closes the trial as wrong (including missed responses
	// where the task counts them).
	Incorrect Verdict = iota
	// Correct closes the trial as right.
	Correct
	// Skip closes the presentation without recording a trial, e.g. the
	// blank line that ends a recall window.
	Skip
)

// Stimulus is one presentation step produced by a task.
type Stimulus struct {
	Lead      string        // shown before the anticipation delay, e.g. a trial header
	Display   string        // shown before input; may contain ANSI styling
	Prompt    string        // printed immediately before the response read
	Answer    string        // expected response, for feedback messages
	PreDelay  time.Duration // anticipation delay before Display appears
	StudyFor  time.Duration // time Display stays up before the screen clears
	Timeout   time.Duration // response window; 0 waits indefinitely
	SkipInput bool          // presentation only, no response captured
}

// Task is the per-test policy: stimulus generation with its stopping
// condition, the correctness predicate, and the scoring parameters. Six
// small values of this interface replace six copies of the loop.
type Task interface {
	Type() models.TestType

	// Intro prints the task instructions. The engine waits for the user
	// to confirm readiness afterwards.
	Intro(c terminal.Console)

	// Next returns the next stimulus given the trials so far and the
	// elapsed run time, or nil when the stopping condition is met.
	Next(done []models.Trial, elapsed time.Duration) *Stimulus

	// Evaluate judges a closed trial. trial.Answered is false for a
	// missed response. The returned feedback line, if any, is printed.
	Evaluate(stim *Stimulus, trial *models.Trial) (Verdict, string)

	// MeasuresLatency reports whether corrected reaction latency is part
	// of this task's output, enabling calibration compensation.
	MeasuresLatency() bool

	// Params supplies the task context the scorer needs.
	Params() metrics.Params

	// Details returns task-specific result details for persistence.
	Details(trials []models.Trial) map[string]any
}

// Engine runs tasks. The calibration compensation is explicit per-run
// context, not ambient state, so tests can inject synthetic values.
type Engine struct {
	clk     clock.Clock
	console terminal.Console
	log     *zap.Logger
}

// New builds an engine over a clock and console.
func New(clk clock.Clock, console terminal.Console, log *zap.Logger) *Engine {
	return &Engine{clk: clk, console: console, log: log}
}

// Run executes one complete session of the given task and returns its
// scored result. cal may be nil, in which case latencies are reported
// uncompensated and the result carries no calibration method.
func (e *Engine) Run(ctx context.Context, task Task, cal *models.CalibrationResult) (*models.SessionResult, error) {
	task.Intro(e.console)
	e.console.Print("\nPress Enter when you're ready to begin...")
	if _, err := e.console.ReadLine(ctx, 0); err != nil {
		return nil, e.cancelled(task, err)
	}

	compensation := cal.Compensation()
	startedAt := time.Now()
	t0 := e.clk.Now()

	var trials []models.Trial
	for {
		stim := task.Next(trials, e.clk.Since(t0))
		if stim == nil {
			break
		}

		if stim.Lead != "" {
			e.console.Print(stim.Lead + "\n")
		}
		if stim.PreDelay > 0 {
			if err := e.console.Pause(ctx, stim.PreDelay); err != nil {
				return nil, e.cancelled(task, err)
			}
		}

		// Anything typed before the stimulus appears must not score.
		e.console.Drain()

		if stim.Display != "" {
			e.console.Print(stim.Display + "\n")
		}
		if stim.StudyFor > 0 {
			if err := e.console.Pause(ctx, stim.StudyFor); err != nil {
				return nil, e.cancelled(task, err)
			}
			e.console.Clear()
		}
		if stim.SkipInput {
			continue
		}
		if stim.Prompt != "" {
			e.console.Print(stim.Prompt)
		}

		shownAt := e.clk.Now()
		trial := models.Trial{StimulusShownAt: shownAt}

		line, err := e.console.ReadLine(ctx, stim.Timeout)
		switch {
		case err == nil:
			trial.ResponseObservedAt = line.At
			trial.Response = line.Text
			trial.Answered = true
			trial.RawLatency = line.At.Sub(shownAt)
			trial.Latency = trial.RawLatency
			if task.MeasuresLatency() && compensation > 0 {
				trial.Latency = trial.RawLatency - compensation
				if trial.Latency < 0 {
					trial.Latency = 0 // never report a negative reaction time
				}
			}
		case errors.Is(err, terminal.ErrTimeout):
			// Missed response: the trial closes unanswered, the loop
			// continues. Never an error.
		default:
			return nil, e.cancelled(task, err)
		}

		verdict, feedback := task.Evaluate(stim, &trial)
		if feedback != "" {
			e.console.Print(feedback + "\n")
		}
		if verdict == Skip {
			continue
		}
		trial.Correct = verdict == Correct
		trials = append(trials, trial)
	}

	endedAt := time.Now()
	value, unit := metrics.Score(task.Type(), trials, task.Params())

	result := &models.SessionResult{
		SessionID:   uuid.NewString(),
		TestType:    task.Type(),
		MetricValue: value,
		MetricUnit:  unit,
		TrialsCount: len(trials),
		StartedAt:   startedAt,
		EndedAt:     endedAt,
	}
	if cal != nil {
		result.CalibrationMethod = cal.Method
		result.CompensationMillis = cal.CompensationMillis
	}
	if details := task.Details(trials); len(details) > 0 {
		if data, err := json.Marshal(details); err == nil {
			result.Details = data
		}
	}

	e.log.Info("Session complete",
		zap.String("test", string(task.Type())),
		zap.Float64("metric", value),
		zap.String("unit", string(unit)),
		zap.Int("trials", len(trials)),
		zap.Bool("calibrated", cal != nil),
	)
	return result, nil
}

func (e *Engine) cancelled(task Task, cause error) error {
	e.log.Info("Session cancelled, nothing saved",
		zap.String("test", string(task.Type())),
		zap.NamedError("cause", cause),
	)
	return ErrCancelled
}
