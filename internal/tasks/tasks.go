// Package tasks holds the six per-test policies consumed by the trial
// engine: stimulus generation, stopping conditions and correctness rules.
// The timing and compensation logic stays in the engine; nothing here
// touches a clock.
package tasks

import (
	"fmt"
	"math/rand"

	"cogbench/internal/config"
	"cogbench/internal/engine"
	"cogbench/internal/models"
)

// Options carries everything a task constructor may need.
type Options struct {
	Config      config.TasksConfig
	Content     *models.Content
	Rng         *rand.Rand
	Interactive bool // ANSI rendering allowed (stroop)
}

// New builds the policy for a test type.
func New(t models.TestType, opts Options) (engine.Task, error) {
	switch t {
	case models.TestReactionTime:
		return NewReaction(opts), nil
	case models.TestDigitSpan:
		return NewDigitSpan(opts), nil
	case models.TestMentalMath:
		return NewMentalMath(opts), nil
	case models.TestWordRecall:
		return NewWordRecall(opts), nil
	case models.TestStroop:
		return NewStroop(opts), nil
	case models.TestSustainedAttention:
		return NewAttention(opts), nil
	}
	return nil, fmt.Errorf("unknown test type %q", t)
}
