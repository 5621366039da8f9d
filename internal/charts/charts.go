// Package charts renders trend visualisations for the local dashboard and
// the trend export: a daily-average timeline per test and a sleep
// correlation scatter when journal entries overlap with sessions.
package charts

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"cogbench/internal/models"
	"cogbench/internal/store"
)

// TimelineChart plots the daily average metric for one test over time.
func TimelineChart(t models.TestType, unit models.MetricUnit, points []store.DailyPoint) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    t.Title(),
			Subtitle: fmt.Sprintf("Daily average (%s)", unit),
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Type: "time",
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Type:  "value",
			Scale: opts.Bool(true),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider"}),
	)

	items := make([]opts.LineData, 0, len(points))
	for _, p := range points {
		items = append(items, opts.LineData{Value: []interface{}{p.Day, p.Value}})
	}

	line.AddSeries(t.Title(), items).
		SetSeriesOptions(charts.WithLineStyleOpts(opts.LineStyle{Width: 2}))
	return line
}

// SleepPoint pairs one day's sleep total with the same day's metric average.
type SleepPoint struct {
	SleepHours  float64
	MetricValue float64
}

// SleepCorrelationChart plots metric value against prior-night sleep.
func SleepCorrelationChart(t models.TestType, pairs []SleepPoint) *charts.Scatter {
	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: fmt.Sprintf("%s vs. Sleep", t.Title()),
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Type: "value",
			Name: "sleep (hours)",
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Type: "value",
			Name: strings.ToLower(t.Title()),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)

	items := make([]opts.ScatterData, 0, len(pairs))
	for _, p := range pairs {
		items = append(items, opts.ScatterData{Value: []interface{}{p.SleepHours, p.MetricValue}})
	}

	scatter.AddSeries("Sessions", items)
	return scatter
}

// CorrelatePoints joins daily metric averages with sleep entries by day.
// Days without sleep data are dropped.
func CorrelatePoints(points []store.DailyPoint, sleep []models.SleepEntry) []SleepPoint {
	byDay := make(map[string]float64, len(sleep))
	for _, s := range sleep {
		byDay[s.Date] = float64(s.TotalMinutes) / 60.0
	}
	var pairs []SleepPoint
	for _, p := range points {
		if hours, ok := byDay[p.Day]; ok {
			pairs = append(pairs, SleepPoint{SleepHours: hours, MetricValue: p.Value})
		}
	}
	return pairs
}

// TrendSeries is one test's worth of trend data ready to render.
type TrendSeries struct {
	Test   models.TestType
	Unit   models.MetricUnit
	Points []store.DailyPoint
	Sleep  []SleepPoint
}

// RenderTrendPage writes a single HTML page with the timeline for every
// series, plus a sleep correlation scatter where data exists.
func RenderTrendPage(w io.Writer, series []TrendSeries) error {
	page := components.NewPage()
	page.SetPageTitle("cogbench trends")
	page.SetLayout(components.PageCenterLayout)

	for _, s := range series {
		if len(s.Points) == 0 {
			continue
		}
		page.AddCharts(TimelineChart(s.Test, s.Unit, s.Points))
		if len(s.Sleep) > 1 {
			page.AddCharts(SleepCorrelationChart(s.Test, s.Sleep))
		}
	}

	return page.Render(w)
}
