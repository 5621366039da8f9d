package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"cogbench/internal/models"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history [test]",
	Short: "Show recent session results",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		types := models.AllTestTypes()
		if len(args) > 0 {
			t := models.TestType(args[0])
			if !t.Valid() {
				return fmt.Errorf("unknown test %q, expected one of: %s", args[0], testNames())
			}
			types = []models.TestType{t}
		}

		any := false
		for _, t := range types {
			results, err := app.store.Recent(t, historyLimit)
			if err != nil {
				return err
			}
			if len(results) == 0 {
				continue
			}
			any = true
			bench := app.content.Benchmark(t)
			app.console.Printf("\n%s  (%s)\n", t.Title(), bench.ScoreType)
			for _, r := range results {
				line := fmt.Sprintf("  %s  %s",
					r.StartedAt.Format("2006-01-02 15:04"),
					formatMetric(r.MetricValue, r.MetricUnit))
				if r.Calibrated() {
					line += fmt.Sprintf("  [cal %.0f ms %s]", r.CompensationMillis, r.CalibrationMethod)
				}
				app.console.Print(line + "\n")
			}
			avg, best := aggregate(results)
			app.console.Printf("  avg %s, best %s, latest %s\n",
				formatMetric(avg, t.Unit()),
				formatMetric(best, t.Unit()),
				formatMetric(results[len(results)-1].MetricValue, t.Unit()))
		}
		if !any {
			app.console.Print("No sessions recorded yet. Run a test first.\n")
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "sessions to show per test")
}

// aggregate reduces a session list to its average and best metric. Lower is
// better only for latency metrics.
func aggregate(results []models.SessionResult) (avg, best float64) {
	sum := 0.0
	best = results[0].MetricValue
	lowerBetter := results[0].MetricUnit == models.UnitSeconds
	for _, r := range results {
		sum += r.MetricValue
		if (lowerBetter && r.MetricValue < best) || (!lowerBetter && r.MetricValue > best) {
			best = r.MetricValue
		}
	}
	return sum / float64(len(results)), best
}
