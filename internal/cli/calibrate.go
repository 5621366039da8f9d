package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"cogbench/internal/calibrate"
	"cogbench/internal/config"
	"cogbench/internal/models"
)

var (
	calibrateManual bool
	calibrateReset  bool
)

var calibrateCmd = &cobra.Command{
	Use:   "calibrate",
	Short: "Measure this terminal's input latency",
	Long: `Measure the delay between a keypress and the moment this process
observes it, and store the result for this terminal. Reaction-time tests
subtract the stored compensation from every measured latency.

Automated mode injects synthetic keystrokes through the OS automation
facility and measures pure input-stack delay. Where no such facility is
available (or with --manual), you press Enter in response to cues instead;
manual results overestimate the delay by your own reaction time and are
recorded as such.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		key := terminalKey()
		if calibrateReset {
			if err := app.store.InvalidateCalibrations(key); err != nil {
				return err
			}
			app.console.Print("Stored calibrations for this terminal removed.\n")
			return nil
		}

		result, err := performCalibration(ctx, calibrateManual)
		if err != nil {
			return err
		}
		app.console.Printf("\nCalibration complete: %.1f ms compensation (%d samples, %s)\n",
			result.CompensationMillis, result.SampleCount, result.Method)
		if result.ReducedPrecision {
			app.console.Print("Note: this platform lacks a monotonic clock; precision is reduced.\n")
		}
		return nil
	},
}

func init() {
	calibrateCmd.Flags().BoolVar(&calibrateManual, "manual", false, "skip keystroke automation and calibrate by hand")
	calibrateCmd.Flags().BoolVar(&calibrateReset, "reset", false, "discard stored calibrations for this terminal")
}

// terminalKey identifies the terminal environment calibrations are keyed by.
func terminalKey() string {
	return calibrate.TerminalSignature()
}

// performCalibration runs one calibration and persists a success. Automated
// mode falls back to manual when the platform automation facility is
// missing or fails mid-run.
func performCalibration(ctx context.Context, manual bool) (*models.CalibrationResult, error) {
	cfg := config.Conf.Calibration
	opts := calibrate.Options{
		OutlierMultiplier: cfg.OutlierMultiplier,
		MinSurvivors:      cfg.MinSurvivors,
		SampleTimeout:     time.Duration(cfg.SampleTimeoutSecs * float64(time.Second)),
		MaxCompensation:   time.Duration(cfg.MaxCompensationMs * float64(time.Millisecond)),
		ReducedPrecision:  !app.clk.Monotonic(),
	}

	var sampler calibrate.Sampler
	if !manual {
		if inj := calibrate.DetectInjector(ctx); inj != nil {
			app.console.Printf("\n=== LATENCY CALIBRATION (automated via %s) ===\n", inj.Name())
			app.console.Print("Keep this window focused; synthetic keystrokes are being sent.\n\n")
			opts.Samples = cfg.AutomatedSamples
			sampler = calibrate.NewAutoSampler(app.console, inj, app.clk)
		} else {
			app.console.Print("\nKeystroke automation is not available on this platform.\n")
			app.console.Print("Falling back to manual calibration.\n")
		}
	}
	if sampler == nil {
		app.console.Print("\n=== LATENCY CALIBRATION (manual) ===\n")
		app.console.Print("Press ENTER as fast as you can each time you see GO!\n")
		app.console.Print("Manual results include your reaction time and overestimate the delay.\n")
		opts.Samples = cfg.ManualSamples
		sampler = calibrate.NewManualSampler(app.console, app.clk, app.rng)
	}

	key := terminalKey()
	cal := calibrate.New(sampler, opts, app.log)
	result, err := cal.Run(ctx, key)
	if err != nil {
		// A failed automated run can still be salvaged by hand, unless the
		// user cancelled it.
		if !manual && sampler.Method() == models.MethodAutomated &&
			cal.FailureReason() != calibrate.ReasonUserCancelled {
			app.console.Print("\nAutomated calibration failed; trying manual mode.\n")
			return performCalibration(ctx, true)
		}
		if errors.Is(err, calibrate.ErrCalibrationFailed) {
			return nil, fmt.Errorf("calibration did not produce a usable result (%s)", cal.FailureReason())
		}
		return nil, err
	}

	if err := app.store.SaveCalibration(result); err != nil {
		app.log.Warn("Calibration measured but not persisted", zap.Error(err))
	}
	return result, nil
}
