// Package metrics reduces raw trial records to each test's reported metric.
// Every function here is pure and deterministic: identical trial data always
// produces the identical score, which is what makes scoring independently
// testable without a terminal or a clock.
package metrics

import (
	"cogbench/internal/models"
)

// Params carries the task context a score formula needs beyond the trials
// themselves.
type Params struct {
	SpanStart     int // digit span: first span length attempted
	StudyListSize int // word recall: number of words studied
}

// Score converts a closed trial sequence into the test's metric value and
// unit. The meaning of the value is fixed per test type:
//
//	reaction_time        mean corrected latency, seconds
//	digit_span           longest span correctly recalled, digits
//	mental_math          correctly solved problems, count
//	word_recall          recall accuracy, percent
//	stroop               response accuracy, percent
//	sustained_attention  accuracy over the run, percent
func Score(t models.TestType, trials []models.Trial, p Params) (float64, models.MetricUnit) {
	switch t {
	case models.TestReactionTime:
		return MeanLatencySeconds(trials), models.UnitSeconds
	case models.TestDigitSpan:
		return float64(HighestSpan(trials, p.SpanStart)), models.UnitDigits
	case models.TestMentalMath:
		return float64(CountCorrect(trials)), models.UnitCount
	case models.TestWordRecall:
		return RecallAccuracy(trials, p.StudyListSize), models.UnitPercent
	case models.TestStroop, models.TestSustainedAttention:
		return AccuracyPercent(trials), models.UnitPercent
	}
	return 0, models.UnitCount
}

// CountCorrect counts trials evaluated as correct.
func CountCorrect(trials []models.Trial) int {
	count := 0
	for _, trial := range trials {
		if trial.Correct {
			count++
		}
	}
	return count
}

// CountAnswered counts trials that received any response before timeout.
func CountAnswered(trials []models.Trial) int {
	count := 0
	for _, trial := range trials {
		if trial.Answered {
			count++
		}
	}
	return count
}

// AccuracyPercent is correct trials over all trials, as a percentage.
// Unanswered trials count against accuracy.
func AccuracyPercent(trials []models.Trial) float64 {
	if len(trials) == 0 {
		return 0
	}
	return float64(CountCorrect(trials)) / float64(len(trials)) * 100.0
}

// HighestSpan returns the longest correctly recalled span for an ascending
// digit-span run that started at spanStart. Trial i corresponds to span
// spanStart+i. A run that fails its very first span reports spanStart-1,
// floored at zero.
func HighestSpan(trials []models.Trial, spanStart int) int {
	highest := spanStart - 1
	for i, trial := range trials {
		if trial.Correct {
			highest = spanStart + i
		}
	}
	if highest < 0 {
		highest = 0
	}
	return highest
}

// RecallAccuracy is the percentage of the studied list that was recalled.
// Each correct trial is one distinct studied word (the task marks duplicate
// recalls incorrect), so correct/studied is the recall rate.
func RecallAccuracy(trials []models.Trial, studied int) float64 {
	if studied == 0 {
		return 0
	}
	correct := CountCorrect(trials)
	if correct > studied {
		correct = studied
	}
	return float64(correct) / float64(studied) * 100.0
}
