package charts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cogbench/internal/models"
	"cogbench/internal/store"
)

func TestCorrelatePointsJoinsByDay(t *testing.T) {
	points := []store.DailyPoint{
		{Day: "2026-03-01", Value: 0.25},
		{Day: "2026-03-02", Value: 0.22},
		{Day: "2026-03-03", Value: 0.30},
	}
	sleep := []models.SleepEntry{
		{Date: "2026-03-01", TotalMinutes: 450},
		{Date: "2026-03-03", TotalMinutes: 360},
		{Date: "2026-03-09", TotalMinutes: 480},
	}

	pairs := CorrelatePoints(points, sleep)
	require.Len(t, pairs, 2)
	assert.Equal(t, 7.5, pairs[0].SleepHours)
	assert.Equal(t, 0.25, pairs[0].MetricValue)
	assert.Equal(t, 6.0, pairs[1].SleepHours)
}

func TestRenderTrendPageSkipsEmptySeries(t *testing.T) {
	series := []TrendSeries{
		{Test: models.TestReactionTime, Unit: models.UnitSeconds},
		{
			Test: models.TestStroop,
			Unit: models.UnitPercent,
			Points: []store.DailyPoint{
				{Day: "2026-03-01", Value: 84, Count: 2},
				{Day: "2026-03-02", Value: 92, Count: 1},
			},
		},
	}

	var out strings.Builder
	require.NoError(t, RenderTrendPage(&out, series))
	html := out.String()
	assert.Contains(t, html, "Stroop Test")
	assert.NotContains(t, html, "Reaction Time")
}
