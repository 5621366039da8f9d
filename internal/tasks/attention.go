package tasks

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"cogbench/internal/engine"
	"cogbench/internal/metrics"
	"cogbench/internal/models"
	"cogbench/internal/terminal"
)

// attentionSteps are the serial subtraction step candidates. All are odd
// and coprime with 10, which keeps the running digits irregular.
var attentionSteps = []int{3, 7, 11, 13, 17, 19}

// answerWindow is the per-step response window for serial subtraction.
const answerWindow = 30 * time.Second

// Attention is the serial subtraction task: repeatedly subtract a fixed
// step from a starting number. A wrong answer is marked but the run
// continues from the expected value, so one slip does not cascade.
type Attention struct {
	start    int
	step     int
	sequence []int
}

func NewAttention(opts Options) *Attention {
	step := attentionSteps[opts.Rng.Intn(len(attentionSteps))]
	var seq []int
	for n := opts.Config.AttentionStartFrom; n >= 0; n -= step {
		seq = append(seq, n)
	}
	return &Attention{start: opts.Config.AttentionStartFrom, step: step, sequence: seq}
}

func (a *Attention) Type() models.TestType { return models.TestSustainedAttention }
func (a *Attention) MeasuresLatency() bool { return false }

func (a *Attention) Intro(c terminal.Console) {
	c.Clear()
	c.Print("=== SUSTAINED ATTENTION TEST ===\n")
	c.Printf("Count down from %d by %ds until you reach zero or below.\n", a.start, a.step)
	c.Print("Type each number in the sequence as you go.\n")
	c.Print("Press Ctrl+C to exit test without saving data\n")
}

func (a *Attention) Next(done []models.Trial, elapsed time.Duration) *engine.Stimulus {
	position := len(done) + 1
	if position >= len(a.sequence) {
		return nil
	}
	lead := ""
	if len(done) == 0 {
		lead = fmt.Sprintf("\nStart with: %d  (subtract %d each step)", a.start, a.step)
	}
	return &engine.Stimulus{
		Lead:    lead,
		Prompt:  "Next number: ",
		Answer:  strconv.Itoa(a.sequence[position]),
		Timeout: answerWindow,
	}
}

func (a *Attention) Evaluate(stim *engine.Stimulus, trial *models.Trial) (engine.Verdict, string) {
	if !trial.Answered {
		return engine.Incorrect, fmt.Sprintf("⏰ Too slow! The next number was %s", stim.Answer)
	}
	got, err := strconv.Atoi(strings.TrimSpace(trial.Response))
	if err != nil {
		return engine.Incorrect, "Invalid input"
	}
	if strconv.Itoa(got) != stim.Answer {
		return engine.Incorrect, fmt.Sprintf("✗ Wrong. Expected %s, continuing from there.", stim.Answer)
	}
	return engine.Correct, ""
}

func (a *Attention) Params() metrics.Params { return metrics.Params{} }

func (a *Attention) Details(trials []models.Trial) map[string]any {
	return map[string]any{
		"start":     a.start,
		"step":      a.step,
		"attempted": len(trials),
		"correct":   metrics.CountCorrect(trials),
		"accuracy":  metrics.AccuracyPercent(trials),
	}
}
