package calibrate

import (
	"context"
	"math/rand"
	"time"

	"cogbench/internal/clock"
	"cogbench/internal/models"
	"cogbench/internal/terminal"
)

// Sampler produces one (t0, t1) round trip per calibration trial: Trigger
// causes a keystroke to happen and returns the instant t0 it was initiated;
// Wait returns the instant t1 the process observed it. The two sides are
// logically independent actors (the trigger may be an external OS
// automation facility), so Wait always bounds its blocking with a timeout.
type Sampler interface {
	Trigger(ctx context.Context, trial, total int) (time.Time, error)
	Wait(ctx context.Context, timeout time.Duration) (time.Time, error)
	Method() models.CalibrationMethod
}

// AutoSampler injects a synthetic Return keystroke through the platform
// automation facility and observes it on the console's own input loop.
// Samples measure pure input-stack delay (plus injector startup).
type AutoSampler struct {
	console  terminal.Console
	injector Injector
	clk      clock.Clock
}

// NewAutoSampler wires the platform injector to the console input loop.
func NewAutoSampler(console terminal.Console, injector Injector, clk clock.Clock) *AutoSampler {
	return &AutoSampler{console: console, injector: injector, clk: clk}
}

func (s *AutoSampler) Method() models.CalibrationMethod { return models.MethodAutomated }

func (s *AutoSampler) Trigger(ctx context.Context, trial, total int) (time.Time, error) {
	s.console.Drain()
	s.console.Printf("Trial %d/%d: GO!\n", trial, total)
	t0 := s.clk.Now()
	if err := s.injector.SendReturn(ctx); err != nil {
		return time.Time{}, err
	}
	return t0, nil
}

func (s *AutoSampler) Wait(ctx context.Context, timeout time.Duration) (time.Time, error) {
	line, err := s.console.ReadLine(ctx, timeout)
	if err != nil {
		return time.Time{}, err
	}
	return line.At, nil
}

// ManualSampler shows a visual cue and waits for the human to press Enter.
// Samples include human reaction time on top of input-stack delay, so the
// resulting compensation is a biased overestimate; the result is tagged
// MethodManual so downstream consumers can discount it.
type ManualSampler struct {
	console terminal.Console
	clk     clock.Clock
	rng     *rand.Rand

	pending time.Time
}

// NewManualSampler builds the universal fallback sampler.
func NewManualSampler(console terminal.Console, clk clock.Clock, rng *rand.Rand) *ManualSampler {
	return &ManualSampler{console: console, clk: clk, rng: rng}
}

func (s *ManualSampler) Method() models.CalibrationMethod { return models.MethodManual }

// Trigger waits a randomized 1-3s so the cue cannot be anticipated, then
// shows it and records t0.
func (s *ManualSampler) Trigger(ctx context.Context, trial, total int) (time.Time, error) {
	s.console.Drain()
	s.console.Printf("\nTrial %d/%d\n", trial, total)
	s.console.Print("Get ready...\n")

	delay := time.Duration(1000+s.rng.Intn(2000)) * time.Millisecond
	if err := s.console.Pause(ctx, delay); err != nil {
		return time.Time{}, err
	}

	s.console.Print("GO! Press ENTER NOW!\n")
	t0 := s.clk.Now()
	s.pending = t0
	return t0, nil
}

func (s *ManualSampler) Wait(ctx context.Context, timeout time.Duration) (time.Time, error) {
	line, err := s.console.ReadLine(ctx, timeout)
	if err != nil {
		return time.Time{}, err
	}
	latency := line.At.Sub(s.pending)
	s.console.Printf("Response time: %.1f ms\n", float64(latency)/float64(time.Millisecond))
	return line.At, nil
}
