package tasks

import (
	"fmt"
	"math/rand"
	"time"

	"cogbench/internal/engine"
	"cogbench/internal/metrics"
	"cogbench/internal/models"
	"cogbench/internal/terminal"
)

// missedWindow bounds how long a single reaction trial waits before
// closing unanswered.
const missedWindow = 10 * time.Second

// Reaction is the simple reaction time task: a randomized anticipation
// delay, a GO cue, and an Enter press as fast as possible.
type Reaction struct {
	trials int
	rng    *rand.Rand
}

func NewReaction(opts Options) *Reaction {
	return &Reaction{trials: opts.Config.ReactionTrials, rng: opts.Rng}
}

func (r *Reaction) Type() models.TestType { return models.TestReactionTime }
func (r *Reaction) MeasuresLatency() bool { return true }

func (r *Reaction) Intro(c terminal.Console) {
	c.Clear()
	c.Print("=== REACTION TIME TEST ===\n")
	c.Print("Press ENTER as quickly as possible when you see 'GO!'\n")
	c.Print("Press Ctrl+C to exit test without saving data\n")
}

func (r *Reaction) Next(done []models.Trial, elapsed time.Duration) *engine.Stimulus {
	if len(done) >= r.trials {
		return nil
	}
	// 1-4s anticipation delay so the cue cannot be predicted.
	delay := time.Duration(1000+r.rng.Intn(3000)) * time.Millisecond
	return &engine.Stimulus{
		Lead:     fmt.Sprintf("\nTrial %d/%d\nWait for it...", len(done)+1, r.trials),
		PreDelay: delay,
		Display:  "GO! Press ENTER NOW!",
		Timeout:  missedWindow,
	}
}

func (r *Reaction) Evaluate(stim *engine.Stimulus, trial *models.Trial) (engine.Verdict, string) {
	if !trial.Answered {
		return engine.Incorrect, "No response recorded for this trial."
	}
	return engine.Correct, fmt.Sprintf("Reaction time: %.3f s  (adjusted: %.3f s)",
		trial.RawLatency.Seconds(), trial.Latency.Seconds())
}

func (r *Reaction) Params() metrics.Params { return metrics.Params{} }

func (r *Reaction) Details(trials []models.Trial) map[string]any {
	times := make([]float64, 0, len(trials))
	for _, t := range trials {
		if t.Answered {
			times = append(times, t.Latency.Seconds())
		}
	}
	return map[string]any{
		"trials":            len(trials),
		"times_s":           times,
		"raw_average_s":     rawMean(trials),
		"best_s":            metrics.BestLatencySeconds(trials),
		"worst_s":           metrics.WorstLatencySeconds(trials),
		"latency_sd_s":      metrics.LatencySDSeconds(trials),
		"median_adjusted_s": metrics.MedianLatencySeconds(trials),
	}
}

func rawMean(trials []models.Trial) float64 {
	var sum time.Duration
	n := 0
	for _, t := range trials {
		if t.Answered {
			sum += t.RawLatency
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return (sum / time.Duration(n)).Seconds()
}
