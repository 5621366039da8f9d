package tasks

import (
	"fmt"
	"strings"
	"time"

	"cogbench/internal/engine"
	"cogbench/internal/metrics"
	"cogbench/internal/models"
	"cogbench/internal/terminal"
)

// WordRecall shows a study list, hides it, then accepts recalled words one
// per line until the window closes or the user enters a blank line. Each
// recalled word becomes one trial; duplicates and non-list words count
// incorrect. The score is correct recalls over the study list size.
type WordRecall struct {
	words    []string
	study    time.Duration
	window   time.Duration
	studySet map[string]bool
	recalled map[string]bool
	studied  bool
	finished bool
}

func NewWordRecall(opts Options) *WordRecall {
	words := opts.Content.SampleWords(opts.Rng, opts.Config.RecallWords)
	studySet := make(map[string]bool, len(words))
	for _, w := range words {
		studySet[strings.ToLower(w)] = true
	}
	return &WordRecall{
		words:    words,
		study:    time.Duration(opts.Config.RecallStudySecs) * time.Second,
		window:   time.Duration(opts.Config.RecallWindowSecs) * time.Second,
		studySet: studySet,
		recalled: make(map[string]bool),
	}
}

func (w *WordRecall) Type() models.TestType { return models.TestWordRecall }
func (w *WordRecall) MeasuresLatency() bool { return false }

func (w *WordRecall) Intro(c terminal.Console) {
	c.Clear()
	c.Print("=== WORD RECALL TEST ===\n")
	c.Printf("Study the word list for %d seconds, then type back every word\n", int(w.study.Seconds()))
	c.Print("you remember, one per line. A blank line finishes early.\n")
	c.Print("Press Ctrl+C to exit test without saving data\n")
}

func (w *WordRecall) Next(done []models.Trial, elapsed time.Duration) *engine.Stimulus {
	if w.finished {
		return nil
	}
	if !w.studied {
		w.studied = true
		var list strings.Builder
		list.WriteString("Memorize these words:\n\n")
		for i, word := range w.words {
			fmt.Fprintf(&list, "  %2d. %s\n", i+1, word)
		}
		fmt.Fprintf(&list, "\nStudy for %d seconds...", int(w.study.Seconds()))
		return &engine.Stimulus{
			Display:   list.String(),
			StudyFor:  w.study,
			SkipInput: true,
		}
	}
	remaining := w.study + w.window - elapsed
	if remaining <= 0 {
		return nil
	}
	return &engine.Stimulus{
		Prompt:  "Word: ",
		Timeout: remaining,
	}
}

func (w *WordRecall) Evaluate(stim *engine.Stimulus, trial *models.Trial) (engine.Verdict, string) {
	if !trial.Answered {
		w.finished = true
		return engine.Skip, "\nTime's up!"
	}
	word := strings.ToLower(strings.TrimSpace(trial.Response))
	if word == "" {
		w.finished = true
		return engine.Skip, ""
	}
	if w.studySet[word] && !w.recalled[word] {
		w.recalled[word] = true
		return engine.Correct, ""
	}
	return engine.Incorrect, ""
}

func (w *WordRecall) Params() metrics.Params {
	return metrics.Params{StudyListSize: len(w.words)}
}

func (w *WordRecall) Details(trials []models.Trial) map[string]any {
	var missed []string
	for _, word := range w.words {
		if !w.recalled[strings.ToLower(word)] {
			missed = append(missed, word)
		}
	}
	return map[string]any{
		"words_shown":    len(w.words),
		"words_recalled": len(w.recalled),
		"intrusions":     len(trials) - len(w.recalled),
		"missed_words":   missed,
	}
}
