// Package calibrate estimates the fixed delay between a physical keypress
// and the moment this process observes the input event, so reaction-time
// measurements can be corrected to reflect the human, not the input stack.
package calibrate

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"cogbench/internal/models"
)

// Calibration failure reasons, carried on Failed results.
const (
	ReasonUserCancelled         = "user_cancelled"
	ReasonInsufficientSamples   = "insufficient_samples"
	ReasonAutomationUnavailable = "automation_unavailable"
	ReasonSampleTimeouts        = "sample_timeouts"
)

// ErrCalibrationFailed wraps any terminal calibration failure. Callers
// recover by falling back to manual mode or running uncompensated; the
// application never treats it as fatal.
var ErrCalibrationFailed = errors.New("calibration failed")

// State is the calibrator's lifecycle state.
type State int

const (
	NotStarted State = iota
	InProgress
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not_started"
	case InProgress:
		return "in_progress"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Options are the calibration tunables. The outlier threshold and minimum
// survivor count are approximations of sane defaults, not exact science;
// they are surfaced in configuration for that reason.
type Options struct {
	Samples           int
	OutlierMultiplier float64
	MinSurvivors      int
	SampleTimeout     time.Duration
	MaxCompensation   time.Duration
	ReducedPrecision  bool // set when the platform clock lacks a monotonic reading
}

// consecutive sample timeouts tolerated before aborting
const maxConsecutiveTimeouts = 3

// Calibrator drives one calibration run over a Sampler.
type Calibrator struct {
	sampler Sampler
	opts    Options
	log     *zap.Logger

	state     State
	collected int
	reason    string
}

// New builds a calibrator for one run. A Calibrator is single-use: Run may
// be called once.
func New(sampler Sampler, opts Options, log *zap.Logger) *Calibrator {
	return &Calibrator{sampler: sampler, opts: opts, log: log}
}

// State returns the current lifecycle state.
func (c *Calibrator) State() State { return c.state }

// FailureReason returns the reason recorded for a Failed run.
func (c *Calibrator) FailureReason() string { return c.reason }

// Run collects samples, filters outliers and produces a CalibrationResult.
// Cancellation is honored between and during samples; a cancelled run
// discards all partial samples and reports Failed/user_cancelled.
func (c *Calibrator) Run(ctx context.Context, terminalKey string) (*models.CalibrationResult, error) {
	c.state = InProgress

	samples := make([]time.Duration, 0, c.opts.Samples)
	timeouts := 0
	for i := 0; i < c.opts.Samples; i++ {
		if err := ctx.Err(); err != nil {
			return nil, c.fail(ReasonUserCancelled, err)
		}

		t0, err := c.sampler.Trigger(ctx, i+1, c.opts.Samples)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil, c.fail(ReasonUserCancelled, err)
			}
			return nil, c.fail(ReasonAutomationUnavailable, err)
		}

		t1, err := c.sampler.Wait(ctx, c.opts.SampleTimeout)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil, c.fail(ReasonUserCancelled, err)
			}
			timeouts++
			c.log.Debug("Calibration sample timed out", zap.Int("trial", i+1))
			if timeouts >= maxConsecutiveTimeouts {
				return nil, c.fail(ReasonSampleTimeouts,
					fmt.Errorf("%d consecutive sample timeouts", timeouts))
			}
			continue
		}
		timeouts = 0

		sample := t1.Sub(t0)
		if sample < 0 {
			// Clock misbehavior or an event observed before the trigger;
			// discard rather than poison the estimate.
			continue
		}
		samples = append(samples, sample)
		c.collected = len(samples)
	}

	filtered := FilterOutliers(samples, c.opts.OutlierMultiplier)
	if len(filtered) < c.opts.MinSurvivors {
		return nil, c.fail(ReasonInsufficientSamples,
			fmt.Errorf("%d samples survived filtering, need %d", len(filtered), c.opts.MinSurvivors))
	}

	compensation := Median(filtered)
	if compensation < 0 {
		compensation = 0
	}
	if compensation > c.opts.MaxCompensation {
		c.log.Warn("Compensation clamped to cap",
			zap.Duration("measured", compensation),
			zap.Duration("cap", c.opts.MaxCompensation),
		)
		compensation = c.opts.MaxCompensation
	}

	c.state = Succeeded
	result := &models.CalibrationResult{
		TerminalKey:        terminalKey,
		CompensationMillis: float64(compensation) / float64(time.Millisecond),
		SampleCount:        len(filtered),
		Method:             c.sampler.Method(),
		ReducedPrecision:   c.opts.ReducedPrecision,
		CreatedAt:          time.Now(),
	}

	c.log.Info("Calibration succeeded",
		zap.Float64("compensation_ms", result.CompensationMillis),
		zap.Int("samples", result.SampleCount),
		zap.String("method", string(result.Method)),
	)
	return result, nil
}

func (c *Calibrator) fail(reason string, cause error) error {
	c.state = Failed
	c.reason = reason
	c.collected = 0 // partial samples are discarded, never reused
	c.log.Warn("Calibration failed", zap.String("reason", reason), zap.Error(cause))
	return fmt.Errorf("%w: %s: %v", ErrCalibrationFailed, reason, cause)
}

// FilterOutliers drops samples beyond multiplier x the median. Such samples
// indicate a dropped or duplicated event rather than true input delay.
func FilterOutliers(samples []time.Duration, multiplier float64) []time.Duration {
	if len(samples) == 0 {
		return nil
	}
	threshold := time.Duration(float64(Median(samples)) * multiplier)
	kept := make([]time.Duration, 0, len(samples))
	for _, s := range samples {
		if s <= threshold {
			kept = append(kept, s)
		}
	}
	return kept
}

// Median returns the median sample, favoring robustness over sensitivity:
// for even-length sets it takes the lower of the two middle values instead
// of averaging them.
func Median(samples []time.Duration) time.Duration {
	if len(samples) == 0 {
		return 0
	}
	sorted := make([]time.Duration, len(samples))
	copy(sorted, samples)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	return sorted[(len(sorted)-1)/2]
}
