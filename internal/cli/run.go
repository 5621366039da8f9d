package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"cogbench/internal/config"
	"cogbench/internal/engine"
	"cogbench/internal/models"
	"cogbench/internal/store"
	"cogbench/internal/tasks"
)

var runAll bool

var runCmd = &cobra.Command{
	Use:   "run [test]",
	Short: "Run one test, or the whole battery with --all",
	Long: `Run a cognitive test session. The test argument is one of:
  ` + testNames() + `

With no argument and no --all flag, the interactive menu opens instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		if runAll {
			for _, t := range models.AllTestTypes() {
				if err := runSession(ctx, t); err != nil {
					return err
				}
			}
			return nil
		}
		if len(args) == 0 {
			return runMenu(ctx)
		}

		t := models.TestType(args[0])
		if !t.Valid() {
			return fmt.Errorf("unknown test %q, expected one of: %s", args[0], testNames())
		}
		return runSession(ctx, t)
	},
}

func init() {
	runCmd.Flags().BoolVar(&runAll, "all", false, "run every test in the battery, in order")
}

func testNames() string {
	names := make([]string, 0, 6)
	for _, t := range models.AllTestTypes() {
		names = append(names, string(t))
	}
	return strings.Join(names, ", ")
}

// runSession executes one test end to end: calibration check, trial loop,
// persistence, summary.
func runSession(ctx context.Context, t models.TestType) error {
	task, err := tasks.New(t, tasks.Options{
		Config:      config.Conf.Tasks,
		Content:     app.content,
		Rng:         app.rng,
		Interactive: app.console.Interactive(),
	})
	if err != nil {
		return err
	}

	var cal *models.CalibrationResult
	if task.MeasuresLatency() {
		cal = ensureCalibration(ctx)
	}

	eng := engine.New(app.clk, app.console, app.log)
	result, err := eng.Run(ctx, task, cal)
	if errors.Is(err, engine.ErrCancelled) {
		app.console.Print("\nTest cancelled. Nothing was saved.\n")
		return nil
	}
	if err != nil {
		return err
	}

	if err := app.store.AppendSession(result); err != nil {
		var indexOnly *store.ErrIndexOnly
		if errors.As(err, &indexOnly) {
			app.log.Warn("Session journaled but not indexed", zap.Error(err))
		} else {
			// The scored result stays in memory; show it so nothing is
			// lost even when the disk is not cooperating.
			app.log.Error("Failed to persist session", zap.Error(err))
			app.console.Printf("\nWARNING: could not save this session: %v\n", err)
			if data, merr := json.Marshal(result); merr == nil {
				app.console.Printf("Record (append to %s by hand if needed):\n%s\n",
					app.store.JournalPath(), data)
			}
		}
	}

	printSummary(result)
	return nil
}

// ensureCalibration loads the stored calibration for this terminal, or
// offers to run one. Declining, or a failed calibration, runs the session
// uncompensated; it is never an error.
func ensureCalibration(ctx context.Context) *models.CalibrationResult {
	key := terminalKey()
	cal, err := app.store.LatestCalibration(key)
	if err != nil {
		app.log.Warn("Failed to load calibration", zap.Error(err))
		return nil
	}
	if cal != nil {
		app.console.Printf("Using saved calibration: %.1f ms (%s)\n",
			cal.CompensationMillis, cal.Method)
		return cal
	}

	app.console.Print("\nNo latency calibration exists for this terminal.\n")
	app.console.Print("Calibrating makes reaction times comparable across machines.\n")
	app.console.Print("Calibrate now? [Y/n]: ")
	line, err := app.console.ReadLine(ctx, 0)
	if err != nil || strings.EqualFold(strings.TrimSpace(line.Text), "n") {
		app.console.Print("Running without compensation; raw latencies include input-stack delay.\n")
		return nil
	}

	cal, err = performCalibration(ctx, false)
	if err != nil {
		app.console.Print("Calibration failed; running without compensation.\n")
		return nil
	}
	return cal
}

func printSummary(r *models.SessionResult) {
	bench := app.content.Benchmark(r.TestType)
	app.console.Printf("\n=== %s: SESSION COMPLETE ===\n", strings.ToUpper(r.TestType.Title()))
	app.console.Printf("Score: %s\n", formatMetric(r.MetricValue, r.MetricUnit))
	app.console.Printf("Trials: %d\n", r.TrialsCount)
	if r.Calibrated() {
		app.console.Printf("Latency compensation: %.1f ms (%s)\n", r.CompensationMillis, r.CalibrationMethod)
	}
	app.console.Printf("%s\n", bench.Description)
	app.console.Printf("Typical range: %s\n", bench.GoodRange)
}

func formatMetric(value float64, unit models.MetricUnit) string {
	switch unit {
	case models.UnitSeconds:
		return fmt.Sprintf("%.3f s", value)
	case models.UnitPercent:
		return fmt.Sprintf("%.1f%%", value)
	case models.UnitDigits:
		return fmt.Sprintf("%.0f digits", value)
	}
	return fmt.Sprintf("%.0f", value)
}
