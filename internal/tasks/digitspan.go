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

// recallWindow is how long the user has to type a sequence back.
const recallWindow = 30 * time.Second

// DigitSpan presents ascending digit sequences until the first incorrect
// recall; the reported span is the longest sequence recalled exactly.
type DigitSpan struct {
	start int
	max   int
	rng   *rand.Rand
}

func NewDigitSpan(opts Options) *DigitSpan {
	return &DigitSpan{
		start: opts.Config.DigitSpanStart,
		max:   opts.Config.DigitSpanMax,
		rng:   opts.Rng,
	}
}

func (d *DigitSpan) Type() models.TestType { return models.TestDigitSpan }
func (d *DigitSpan) MeasuresLatency() bool { return false }

func (d *DigitSpan) Intro(c terminal.Console) {
	c.Clear()
	c.Print("=== DIGIT SPAN TEST ===\n")
	c.Print("I'll show you a sequence of digits.\n")
	c.Print("Memorize them, then type them back in the same order.\n")
	c.Print("Press Ctrl+C to exit test without saving data\n")
}

func (d *DigitSpan) Next(done []models.Trial, elapsed time.Duration) *engine.Stimulus {
	if len(done) > 0 && !done[len(done)-1].Correct {
		return nil // first incorrect recall ends the run
	}
	span := d.start + len(done)
	if span > d.max {
		return nil
	}

	digits := make([]string, span)
	for i := range digits {
		digits[i] = fmt.Sprintf("%d", d.rng.Intn(10))
	}

	return &engine.Stimulus{
		Lead:     fmt.Sprintf("\nTesting span length: %d", span),
		Display:  "Memorize these digits: " + strings.Join(digits, " "),
		StudyFor: time.Duration(span) * 800 * time.Millisecond,
		Prompt:   "=== DIGIT SPAN TEST ===\nEnter the digits in order (no spaces): ",
		Answer:   strings.Join(digits, ""),
		Timeout:  recallWindow,
	}
}

func (d *DigitSpan) Evaluate(stim *engine.Stimulus, trial *models.Trial) (engine.Verdict, string) {
	if !trial.Answered {
		return engine.Incorrect, fmt.Sprintf("Time's up. The correct answer was: %s", stim.Answer)
	}
	input := strings.ReplaceAll(trial.Response, " ", "")
	if input == stim.Answer {
		return engine.Correct, "Correct!"
	}
	return engine.Incorrect, fmt.Sprintf("Incorrect. The correct answer was: %s", stim.Answer)
}

func (d *DigitSpan) Params() metrics.Params {
	return metrics.Params{SpanStart: d.start}
}

func (d *DigitSpan) Details(trials []models.Trial) map[string]any {
	return map[string]any{
		"max_digits_recalled": metrics.HighestSpan(trials, d.start),
		"sequences_attempted": len(trials),
	}
}
