package tasks

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"cogbench/internal/engine"
	"cogbench/internal/metrics"
	"cogbench/internal/models"
	"cogbench/internal/terminal"
)

// Stroop presents a color word rendered in a conflicting ink color on a
// conflicting background. The response is the first letter of the ink
// color, inside a short per-trial window.
type Stroop struct {
	trials      int
	timeout     time.Duration
	colors      []string
	rng         *rand.Rand
	interactive bool
}

func NewStroop(opts Options) *Stroop {
	return &Stroop{
		trials:      opts.Config.StroopTrials,
		timeout:     time.Duration(opts.Config.StroopTimeoutSecs * float64(time.Second)),
		colors:      opts.Content.StroopColors,
		rng:         opts.Rng,
		interactive: opts.Interactive,
	}
}

func (s *Stroop) Type() models.TestType { return models.TestStroop }
func (s *Stroop) MeasuresLatency() bool { return true }

func (s *Stroop) Intro(c terminal.Console) {
	c.Clear()
	c.Print("=== STROOP TEST ===\n")
	c.Print("Name the COLOR OF THE TEXT, not the word itself.\n")
	c.Print("Answer with the first letter (")
	for i, color := range s.colors {
		if i > 0 {
			c.Print(", ")
		}
		c.Printf("%s=%s", color[:1], color)
	}
	c.Print(").\n")
	c.Printf("You have %.0f seconds per trial.\n", s.timeout.Seconds())
	c.Print("Press Ctrl+C to exit test without saving data\n")
}

func (s *Stroop) Next(done []models.Trial, elapsed time.Duration) *engine.Stimulus {
	if len(done) >= s.trials {
		return nil
	}
	// Word, ink and background are all pairwise distinct so neither the
	// word nor the background gives the answer away.
	word := s.colors[s.rng.Intn(len(s.colors))]
	ink := word
	for ink == word {
		ink = s.colors[s.rng.Intn(len(s.colors))]
	}
	bg := ink
	for bg == ink || bg == word {
		bg = s.colors[s.rng.Intn(len(s.colors))]
	}

	rendered := terminal.Colorize(strings.ToUpper(word), ink, bg, s.interactive)
	return &engine.Stimulus{
		Lead:    fmt.Sprintf("\nTrial %d/%d", len(done)+1, s.trials),
		Display: rendered,
		Prompt:  "TEXT Color? (r/b/g/y): ",
		Answer:  ink[:1],
		Timeout: s.timeout,
	}
}

func (s *Stroop) Evaluate(stim *engine.Stimulus, trial *models.Trial) (engine.Verdict, string) {
	if !trial.Answered {
		return engine.Incorrect, fmt.Sprintf("⏰ Too slow! The answer was '%s'", stim.Answer)
	}
	got := strings.ToLower(strings.TrimSpace(trial.Response))
	if got == stim.Answer {
		return engine.Correct, "✓ Correct!"
	}
	return engine.Incorrect, fmt.Sprintf("✗ Wrong. The answer was '%s'", stim.Answer)
}

func (s *Stroop) Params() metrics.Params { return metrics.Params{} }

func (s *Stroop) Details(trials []models.Trial) map[string]any {
	timeouts := 0
	for _, t := range trials {
		if !t.Answered {
			timeouts++
		}
	}
	return map[string]any{
		"trials":        len(trials),
		"correct":       metrics.CountCorrect(trials),
		"accuracy":      metrics.AccuracyPercent(trials),
		"avg_latency_s": metrics.MeanLatencySeconds(trials),
		"timeouts":      timeouts,
	}
}
