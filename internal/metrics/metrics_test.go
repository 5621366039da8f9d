package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"cogbench/internal/models"
)

func answered(correct bool, latency time.Duration) models.Trial {
	return models.Trial{Answered: true, Correct: correct, RawLatency: latency, Latency: latency}
}

func correctTrials(n int) []models.Trial {
	trials := make([]models.Trial, n)
	for i := range trials {
		trials[i] = answered(true, 0)
	}
	return trials
}

func TestScoreDigitSpanStopsAtFirstFailure(t *testing.T) {
	// Spans 3..6 recalled, span 7 failed.
	trials := correctTrials(4)
	trials = append(trials, answered(false, 0))

	value, unit := Score(models.TestDigitSpan, trials, Params{SpanStart: 3})
	assert.Equal(t, 6.0, value)
	assert.Equal(t, models.UnitDigits, unit)
}

func TestHighestSpanFirstFailureFloorsAtZero(t *testing.T) {
	trials := []models.Trial{answered(false, 0)}
	assert.Equal(t, 2, HighestSpan(trials, 3))
	assert.Equal(t, 0, HighestSpan(trials, 0))
	assert.Equal(t, 0, HighestSpan(nil, 0))
}

func TestScoreMentalMathCountsCorrect(t *testing.T) {
	trials := correctTrials(18)
	trials = append(trials, answered(false, 0), answered(false, 0))

	value, unit := Score(models.TestMentalMath, trials, Params{})
	assert.Equal(t, 18.0, value)
	assert.Equal(t, models.UnitCount, unit)
}

func TestScoreWordRecallOverStudiedList(t *testing.T) {
	// Two of four studied words recalled.
	trials := correctTrials(2)

	value, unit := Score(models.TestWordRecall, trials, Params{StudyListSize: 4})
	assert.Equal(t, 50.0, value)
	assert.Equal(t, models.UnitPercent, unit)
}

func TestRecallAccuracyCapsAtFullList(t *testing.T) {
	assert.Equal(t, 100.0, RecallAccuracy(correctTrials(5), 4))
	assert.Equal(t, 0.0, RecallAccuracy(nil, 0))
}

func TestScoreAccuracyCountsUnansweredAgainst(t *testing.T) {
	trials := []models.Trial{
		answered(true, 0),
		answered(true, 0),
		answered(false, 0),
		{Answered: false}, // missed response
	}
	value, unit := Score(models.TestSustainedAttention, trials, Params{})
	assert.Equal(t, 50.0, value)
	assert.Equal(t, models.UnitPercent, unit)

	value, unit = Score(models.TestStroop, trials, Params{})
	assert.Equal(t, 50.0, value)
	assert.Equal(t, models.UnitPercent, unit)
}

func TestScoreReactionTimeMeansAnsweredLatencies(t *testing.T) {
	trials := []models.Trial{
		answered(true, 200*time.Millisecond),
		answered(true, 300*time.Millisecond),
		{Answered: false}, // missed trials contribute no latency
	}
	value, unit := Score(models.TestReactionTime, trials, Params{})
	assert.InDelta(t, 0.25, value, 1e-9)
	assert.Equal(t, models.UnitSeconds, unit)
}

func TestLatencyStatistics(t *testing.T) {
	trials := []models.Trial{
		answered(true, 100*time.Millisecond),
		answered(true, 300*time.Millisecond),
		answered(true, 200*time.Millisecond),
		answered(true, 400*time.Millisecond),
	}

	assert.InDelta(t, 0.25, MeanLatencySeconds(trials), 1e-9)
	// Lower middle of the even-length set.
	assert.InDelta(t, 0.2, MedianLatencySeconds(trials), 1e-9)
	assert.InDelta(t, 0.1, BestLatencySeconds(trials), 1e-9)
	assert.InDelta(t, 0.4, WorstLatencySeconds(trials), 1e-9)
	assert.Greater(t, LatencySDSeconds(trials), 0.0)
}

func TestLatencyStatisticsEmpty(t *testing.T) {
	assert.Equal(t, 0.0, MeanLatencySeconds(nil))
	assert.Equal(t, 0.0, MedianLatencySeconds(nil))
	assert.Equal(t, 0.0, LatencySDSeconds(nil))
}

func TestCountHelpers(t *testing.T) {
	trials := []models.Trial{
		answered(true, 0),
		answered(false, 0),
		{Answered: false},
	}
	assert.Equal(t, 1, CountCorrect(trials))
	assert.Equal(t, 2, CountAnswered(trials))
}
