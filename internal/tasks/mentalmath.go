package tasks

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"cogbench/internal/engine"
	"cogbench/internal/metrics"
	"cogbench/internal/models"
	"cogbench/internal/terminal"
)

// MentalMath is the timed addition task: as many two-digit sums as possible
// inside a fixed window. The score is the count of correct answers; an
// answer still pending when the window closes does not count.
type MentalMath struct {
	window time.Duration
	rng    *rand.Rand
}

func NewMentalMath(opts Options) *MentalMath {
	return &MentalMath{
		window: time.Duration(opts.Config.MathDurationSecs) * time.Second,
		rng:    opts.Rng,
	}
}

func (m *MentalMath) Type() models.TestType { return models.TestMentalMath }
func (m *MentalMath) MeasuresLatency() bool { return false }

func (m *MentalMath) Intro(c terminal.Console) {
	c.Clear()
	c.Print("=== MENTAL MATH TEST ===\n")
	c.Printf("Solve as many addition problems as you can in %d seconds.\n", int(m.window.Seconds()))
	c.Print("Press Ctrl+C to exit test without saving data\n")
}

func (m *MentalMath) Next(done []models.Trial, elapsed time.Duration) *engine.Stimulus {
	remaining := m.window - elapsed
	if remaining <= 0 {
		return nil
	}
	a := 10 + m.rng.Intn(90)
	b := 10 + m.rng.Intn(90)
	return &engine.Stimulus{
		Prompt: fmt.Sprintf("%d + %d = ", a, b),
		Answer: strconv.Itoa(a + b),
		// The window closing mid-problem ends the run, not the trial.
		Timeout: remaining,
	}
}

func (m *MentalMath) Evaluate(stim *engine.Stimulus, trial *models.Trial) (engine.Verdict, string) {
	if !trial.Answered {
		return engine.Skip, "\nTime's up!"
	}
	got, err := strconv.Atoi(strings.TrimSpace(trial.Response))
	if err != nil {
		return engine.Incorrect, "Invalid input"
	}
	if strconv.Itoa(got) != stim.Answer {
		return engine.Incorrect, fmt.Sprintf("✗ Incorrect. The answer was %s", stim.Answer)
	}
	return engine.Correct, "✓ Correct!"
}

func (m *MentalMath) Params() metrics.Params { return metrics.Params{} }

func (m *MentalMath) Details(trials []models.Trial) map[string]any {
	correct := metrics.CountCorrect(trials)
	return map[string]any{
		"attempted":  len(trials),
		"correct":    correct,
		"accuracy":   metrics.AccuracyPercent(trials),
		"duration_s": m.window.Seconds(),
	}
}
