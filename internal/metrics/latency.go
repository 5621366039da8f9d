package metrics

import (
	"math"
	"sort"
	"time"

	"cogbench/internal/models"
)

// answeredLatencies collects the corrected latency of every answered trial.
func answeredLatencies(trials []models.Trial) []time.Duration {
	var latencies []time.Duration
	for _, trial := range trials {
		if trial.Answered {
			latencies = append(latencies, trial.Latency)
		}
	}
	return latencies
}

// MeanLatencySeconds is the mean corrected latency of answered trials.
func MeanLatencySeconds(trials []models.Trial) float64 {
	latencies := answeredLatencies(trials)
	if len(latencies) == 0 {
		return 0
	}
	var sum time.Duration
	for _, l := range latencies {
		sum += l
	}
	return (sum / time.Duration(len(latencies))).Seconds()
}

// MedianLatencySeconds is the median corrected latency of answered trials.
// Even-length sets report the lower of the two middle values, matching the
// calibrator's robustness-first convention.
func MedianLatencySeconds(trials []models.Trial) float64 {
	latencies := answeredLatencies(trials)
	if len(latencies) == 0 {
		return 0
	}
	sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })
	return latencies[(len(latencies)-1)/2].Seconds()
}

// LatencySDSeconds is the population standard deviation of answered-trial
// latencies. Fewer than two samples report zero.
func LatencySDSeconds(trials []models.Trial) float64 {
	latencies := answeredLatencies(trials)
	if len(latencies) <= 1 {
		return 0
	}
	mean := MeanLatencySeconds(trials)
	var sumSquaredDiff float64
	for _, l := range latencies {
		diff := l.Seconds() - mean
		sumSquaredDiff += diff * diff
	}
	return math.Sqrt(sumSquaredDiff / float64(len(latencies)))
}

// BestLatencySeconds is the fastest corrected latency of answered trials.
func BestLatencySeconds(trials []models.Trial) float64 {
	latencies := answeredLatencies(trials)
	if len(latencies) == 0 {
		return 0
	}
	best := latencies[0]
	for _, l := range latencies[1:] {
		if l < best {
			best = l
		}
	}
	return best.Seconds()
}

// WorstLatencySeconds is the slowest corrected latency of answered trials.
func WorstLatencySeconds(trials []models.Trial) float64 {
	latencies := answeredLatencies(trials)
	if len(latencies) == 0 {
		return 0
	}
	worst := latencies[0]
	for _, l := range latencies[1:] {
		if l > worst {
			worst = l
		}
	}
	return worst.Seconds()
}
