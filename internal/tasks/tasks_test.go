package tasks

import (
	"math/rand"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cogbench/internal/config"
	"cogbench/internal/engine"
	"cogbench/internal/models"
)

func testOptions(t *testing.T) Options {
	t.Helper()
	content, err := models.LoadContent("")
	require.NoError(t, err)
	return Options{
		Config: config.TasksConfig{
			ReactionTrials:     5,
			DigitSpanStart:     3,
			DigitSpanMax:       5,
			MathDurationSecs:   60,
			RecallWords:        4,
			RecallStudySecs:    30,
			RecallWindowSecs:   120,
			StroopTrials:       25,
			StroopTimeoutSecs:  3.0,
			AttentionStartFrom: 100,
		},
		Content: content,
		Rng:     rand.New(rand.NewSource(1)),
	}
}

func answeredTrial(text string, correct bool) models.Trial {
	return models.Trial{Answered: true, Response: text, Correct: correct}
}

func TestFactoryCoversEveryTestType(t *testing.T) {
	for _, typ := range models.AllTestTypes() {
		task, err := New(typ, testOptions(t))
		require.NoError(t, err)
		assert.Equal(t, typ, task.Type())
	}
	_, err := New("juggling", testOptions(t))
	assert.Error(t, err)
}

func TestReactionStopsAfterConfiguredTrials(t *testing.T) {
	r := NewReaction(testOptions(t))
	done := make([]models.Trial, 5)
	assert.Nil(t, r.Next(done, 0))

	stim := r.Next(done[:2], 0)
	require.NotNil(t, stim)
	assert.GreaterOrEqual(t, stim.PreDelay, time.Second)
	assert.Less(t, stim.PreDelay, 4*time.Second)
	assert.True(t, r.MeasuresLatency())
}

func TestDigitSpanGrowsUntilFirstFailure(t *testing.T) {
	d := NewDigitSpan(testOptions(t))

	stim := d.Next(nil, 0)
	require.NotNil(t, stim)
	assert.Len(t, stim.Answer, 3)
	assert.Equal(t, time.Duration(3)*800*time.Millisecond, stim.StudyFor)

	// A correct recall grows the span by one.
	stim = d.Next([]models.Trial{answeredTrial("", true)}, 0)
	require.NotNil(t, stim)
	assert.Len(t, stim.Answer, 4)

	// The first failure ends the run.
	assert.Nil(t, d.Next([]models.Trial{
		answeredTrial("", true),
		answeredTrial("", false),
	}, 0))

	// So does exceeding the maximum span.
	assert.Nil(t, d.Next([]models.Trial{
		answeredTrial("", true),
		answeredTrial("", true),
		answeredTrial("", true),
	}, 0))
}

func TestDigitSpanEvaluateIgnoresSpaces(t *testing.T) {
	d := NewDigitSpan(testOptions(t))
	stim := &engine.Stimulus{Answer: "372"}

	verdict, _ := d.Evaluate(stim, &models.Trial{Answered: true, Response: "3 7 2"})
	assert.Equal(t, engine.Correct, verdict)

	verdict, feedback := d.Evaluate(stim, &models.Trial{Answered: true, Response: "327"})
	assert.Equal(t, engine.Incorrect, verdict)
	assert.Contains(t, feedback, "372")

	verdict, _ = d.Evaluate(stim, &models.Trial{Answered: false})
	assert.Equal(t, engine.Incorrect, verdict)
}

func TestMentalMathWindowClosesTheRun(t *testing.T) {
	m := NewMentalMath(testOptions(t))

	stim := m.Next(nil, 59*time.Second)
	require.NotNil(t, stim)
	// The remaining window bounds the trial, so a late answer cannot count.
	assert.Equal(t, time.Second, stim.Timeout)

	assert.Nil(t, m.Next(nil, 60*time.Second))
	assert.Nil(t, m.Next(nil, 61*time.Second))
}

func TestMentalMathEvaluate(t *testing.T) {
	m := NewMentalMath(testOptions(t))
	stim := m.Next(nil, 0)
	require.NotNil(t, stim)
	sum, err := strconv.Atoi(stim.Answer)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, sum, 20)

	verdict, _ := m.Evaluate(stim, &models.Trial{Answered: true, Response: stim.Answer})
	assert.Equal(t, engine.Correct, verdict)

	verdict, feedback := m.Evaluate(stim, &models.Trial{Answered: true, Response: "banana"})
	assert.Equal(t, engine.Incorrect, verdict)
	assert.Equal(t, "Invalid input", feedback)

	verdict, _ = m.Evaluate(stim, &models.Trial{Answered: true, Response: "0"})
	assert.Equal(t, engine.Incorrect, verdict)

	// The window closing mid-problem skips the pending trial entirely.
	verdict, _ = m.Evaluate(stim, &models.Trial{Answered: false})
	assert.Equal(t, engine.Skip, verdict)
}

func TestWordRecallStudyThenRecall(t *testing.T) {
	w := NewWordRecall(testOptions(t))
	require.Len(t, w.words, 4)

	study := w.Next(nil, 0)
	require.NotNil(t, study)
	assert.True(t, study.SkipInput)
	assert.Equal(t, 30*time.Second, study.StudyFor)
	for _, word := range w.words {
		assert.Contains(t, study.Display, word)
	}

	// The study list is shown exactly once.
	recall := w.Next(nil, 30*time.Second)
	require.NotNil(t, recall)
	assert.False(t, recall.SkipInput)
	assert.Equal(t, 120*time.Second, recall.Timeout)
}

func TestWordRecallEvaluate(t *testing.T) {
	w := NewWordRecall(testOptions(t))
	w.studied = true
	stim := &engine.Stimulus{}
	first := w.words[0]

	verdict, _ := w.Evaluate(stim, &models.Trial{Answered: true, Response: strings.ToUpper(first)})
	assert.Equal(t, engine.Correct, verdict)

	// A repeated word does not count twice.
	verdict, _ = w.Evaluate(stim, &models.Trial{Answered: true, Response: first})
	assert.Equal(t, engine.Incorrect, verdict)

	verdict, _ = w.Evaluate(stim, &models.Trial{Answered: true, Response: "notintheset"})
	assert.Equal(t, engine.Incorrect, verdict)

	// A blank line ends the recall phase without recording a trial.
	verdict, _ = w.Evaluate(stim, &models.Trial{Answered: true, Response: ""})
	assert.Equal(t, engine.Skip, verdict)
	assert.Nil(t, w.Next([]models.Trial{answeredTrial(first, true)}, time.Minute))
}

func TestWordRecallTimeoutEndsTheRun(t *testing.T) {
	w := NewWordRecall(testOptions(t))
	w.studied = true

	verdict, _ := w.Evaluate(&engine.Stimulus{}, &models.Trial{Answered: false})
	assert.Equal(t, engine.Skip, verdict)
	assert.Nil(t, w.Next(nil, time.Minute))
}

func TestStroopStimulusNeverGivesTheAnswerAway(t *testing.T) {
	s := NewStroop(testOptions(t))

	for i := 0; i < 25; i++ {
		stim := s.Next(nil, 0)
		require.NotNil(t, stim)
		assert.Equal(t, 3*time.Second, stim.Timeout)

		// Plain rendering annotates ink and background, so the invariant
		// is checkable: word, ink and background are pairwise distinct.
		word := strings.ToLower(strings.Fields(stim.Display)[0])
		inkStart := strings.Index(stim.Display, "[ink:") + len("[ink:")
		ink := stim.Display[inkStart : inkStart+strings.IndexAny(stim.Display[inkStart:], " ")]
		bgStart := strings.Index(stim.Display, "bg:") + len("bg:")
		bg := strings.TrimSuffix(stim.Display[bgStart:], "]")

		assert.NotEqual(t, word, ink)
		assert.NotEqual(t, word, bg)
		assert.NotEqual(t, ink, bg)
		assert.Equal(t, ink[:1], stim.Answer)
	}

	assert.Nil(t, s.Next(make([]models.Trial, 25), 0))
}

func TestStroopEvaluate(t *testing.T) {
	s := NewStroop(testOptions(t))
	stim := &engine.Stimulus{Answer: "g"}

	verdict, _ := s.Evaluate(stim, &models.Trial{Answered: true, Response: "G"})
	assert.Equal(t, engine.Correct, verdict)

	verdict, _ = s.Evaluate(stim, &models.Trial{Answered: true, Response: "r"})
	assert.Equal(t, engine.Incorrect, verdict)

	verdict, feedback := s.Evaluate(stim, &models.Trial{Answered: false})
	assert.Equal(t, engine.Incorrect, verdict)
	assert.Contains(t, feedback, "Too slow")
}

func TestAttentionSequenceAndErrorTolerance(t *testing.T) {
	a := NewAttention(testOptions(t))
	require.NotZero(t, a.step)
	assert.Equal(t, 100, a.sequence[0])
	assert.Equal(t, 100-a.step, a.sequence[1])

	stim := a.Next(nil, 0)
	require.NotNil(t, stim)
	assert.Equal(t, strconv.Itoa(100-a.step), stim.Answer)
	assert.Contains(t, stim.Lead, "100")

	// A wrong answer is marked but the expected sequence continues.
	verdict, feedback := a.Evaluate(stim, &models.Trial{Answered: true, Response: "1"})
	assert.Equal(t, engine.Incorrect, verdict)
	assert.Contains(t, feedback, stim.Answer)

	second := a.Next([]models.Trial{answeredTrial("1", false)}, 0)
	require.NotNil(t, second)
	assert.Equal(t, strconv.Itoa(100-2*a.step), second.Answer)
	assert.Empty(t, second.Lead)

	verdict, _ = a.Evaluate(second, &models.Trial{Answered: true, Response: second.Answer})
	assert.Equal(t, engine.Correct, verdict)

	verdict, feedback = a.Evaluate(second, &models.Trial{Answered: true, Response: "nope"})
	assert.Equal(t, engine.Incorrect, verdict)
	assert.Equal(t, "Invalid input", feedback)

	// The run ends when the sequence reaches its floor.
	assert.Nil(t, a.Next(make([]models.Trial, len(a.sequence)-1), 0))
}
