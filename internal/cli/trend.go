package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"cogbench/internal/charts"
	"cogbench/internal/models"
)

var trendOutput string

var trendCmd = &cobra.Command{
	Use:   "trend",
	Short: "Export an HTML page of score trends",
	Long: `Render every test's daily-average trend, plus sleep correlation
scatters where journal entries overlap with sessions, into a standalone
HTML file. Use 'serve' instead for a live view.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return exportTrends(trendOutput)
	},
}

func exportTrends(path string) error {
	sleep, err := app.store.AllSleep()
	if err != nil {
		return err
	}

	var series []charts.TrendSeries
	total := 0
	for _, t := range models.AllTestTypes() {
		points, err := app.store.DailyAverages(t, time.Time{}, time.Time{})
		if err != nil {
			return err
		}
		total += len(points)
		series = append(series, charts.TrendSeries{
			Test:   t,
			Unit:   t.Unit(),
			Points: points,
			Sleep:  charts.CorrelatePoints(points, sleep),
		})
	}
	if total == 0 {
		app.console.Print("No sessions recorded yet; nothing to chart.\n")
		return nil
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create trend file: %w", err)
	}
	defer f.Close()

	if err := charts.RenderTrendPage(f, series); err != nil {
		return fmt.Errorf("render trends: %w", err)
	}
	app.console.Printf("Trends written to %s\n", path)
	return nil
}

func init() {
	trendCmd.Flags().StringVarP(&trendOutput, "output", "o", "trends.html", "output HTML file")
}
