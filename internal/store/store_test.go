package store

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"cogbench/internal/models"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	s, err := Open(filepath.Join(dir, "test.db"), filepath.Join(dir, "results.jsonl"), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func session(n int, typ models.TestType, value float64, at time.Time) *models.SessionResult {
	return &models.SessionResult{
		SessionID:   fmt.Sprintf("00000000-0000-0000-0000-%012d", n),
		TestType:    typ,
		MetricValue: value,
		MetricUnit:  typ.Unit(),
		TrialsCount: 5,
		StartedAt:   at,
		EndedAt:     at.Add(time.Minute),
	}
}

func TestAppendSessionReadsBackInOrder(t *testing.T) {
	s := openTestStore(t)
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	for i := 1; i <= 3; i++ {
		r := session(i, models.TestMentalMath, float64(10+i), base.Add(time.Duration(i)*time.Hour))
		require.NoError(t, s.AppendSession(r))
	}

	records, err := s.ReadJournal()
	require.NoError(t, err)
	require.Len(t, records, 3)
	for i, r := range records {
		assert.Equal(t, fmt.Sprintf("00000000-0000-0000-0000-%012d", i+1), r.SessionID)
		assert.Equal(t, float64(11+i), r.MetricValue)
	}
}

func TestReadJournalIsIdempotent(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.AppendSession(session(1, models.TestStroop, 88, time.Now().UTC())))

	first, err := s.ReadJournal()
	require.NoError(t, err)
	second, err := s.ReadJournal()
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestReadJournalDiscardsTornFinalLine(t *testing.T) {
	s := openTestStore(t)
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, s.AppendSession(session(1, models.TestDigitSpan, 6, base)))
	require.NoError(t, s.AppendSession(session(2, models.TestDigitSpan, 7, base.Add(time.Hour))))

	// Simulate a crash mid-append: a partial record with no newline.
	f, err := os.OpenFile(s.JournalPath(), os.O_WRONLY|os.O_APPEND, 0644)
	require.NoError(t, err)
	_, err = f.WriteString(`{"session_id":"torn","test_`)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	records, err := s.ReadJournal()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, 7.0, records[1].MetricValue)
}

func TestReadJournalMissingFileIsEmptyHistory(t *testing.T) {
	s := openTestStore(t)
	records, err := s.ReadJournal()
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestHistoryBoundsAndOrder(t *testing.T) {
	s := openTestStore(t)
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		require.NoError(t, s.AppendSession(
			session(i+1, models.TestReactionTime, 0.2+float64(i)/100, base.AddDate(0, 0, i))))
	}
	require.NoError(t, s.AppendSession(session(99, models.TestStroop, 90, base)))

	all, err := s.History(models.TestReactionTime, time.Time{}, time.Time{})
	require.NoError(t, err)
	require.Len(t, all, 5)
	assert.True(t, all[0].StartedAt.Before(all[4].StartedAt))

	bounded, err := s.History(models.TestReactionTime, base.AddDate(0, 0, 1), base.AddDate(0, 0, 4))
	require.NoError(t, err)
	assert.Len(t, bounded, 3)
}

func TestRecentReturnsChronological(t *testing.T) {
	s := openTestStore(t)
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		require.NoError(t, s.AppendSession(
			session(i+1, models.TestMentalMath, float64(i), base.AddDate(0, 0, i))))
	}

	recent, err := s.Recent(models.TestMentalMath, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, 2.0, recent[0].MetricValue)
	assert.Equal(t, 3.0, recent[1].MetricValue)
}

func TestDailyAveragesGroupByDay(t *testing.T) {
	s := openTestStore(t)
	day := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	require.NoError(t, s.AppendSession(session(1, models.TestStroop, 80, day)))
	require.NoError(t, s.AppendSession(session(2, models.TestStroop, 90, day.Add(4*time.Hour))))
	require.NoError(t, s.AppendSession(session(3, models.TestStroop, 70, day.AddDate(0, 0, 1))))

	points, err := s.DailyAverages(models.TestStroop, time.Time{}, time.Time{})
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, "2026-03-01", points[0].Day)
	assert.Equal(t, 85.0, points[0].Value)
	assert.Equal(t, 2, points[0].Count)
	assert.Equal(t, 70.0, points[1].Value)
}

func TestCalibrationKeyedByTerminalSignature(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.SaveCalibration(&models.CalibrationResult{
		TerminalKey: "darwin|iTerm.app|3.5|/bin/zsh", CompensationMillis: 12, SampleCount: 9,
		Method: models.MethodAutomated, CreatedAt: time.Now().Add(-time.Hour),
	}))
	require.NoError(t, s.SaveCalibration(&models.CalibrationResult{
		TerminalKey: "darwin|iTerm.app|3.5|/bin/zsh", CompensationMillis: 14, SampleCount: 10,
		Method: models.MethodAutomated, CreatedAt: time.Now(),
	}))
	require.NoError(t, s.SaveCalibration(&models.CalibrationResult{
		TerminalKey: "linux|||/bin/bash", CompensationMillis: 40, SampleCount: 20,
		Method: models.MethodManual, CreatedAt: time.Now(),
	}))

	cal, err := s.LatestCalibration("darwin|iTerm.app|3.5|/bin/zsh")
	require.NoError(t, err)
	require.NotNil(t, cal)
	assert.Equal(t, 14.0, cal.CompensationMillis)

	// A different terminal signature never reuses another's compensation.
	other, err := s.LatestCalibration("linux|||/bin/bash")
	require.NoError(t, err)
	require.NotNil(t, other)
	assert.Equal(t, models.MethodManual, other.Method)

	missing, err := s.LatestCalibration("windows|||")
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, s.InvalidateCalibrations("darwin|iTerm.app|3.5|/bin/zsh"))
	cal, err = s.LatestCalibration("darwin|iTerm.app|3.5|/bin/zsh")
	require.NoError(t, err)
	assert.Nil(t, cal)
}

func TestLogSleepUpserts(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.LogSleep("2026-03-01", 6, 15))
	require.NoError(t, s.LogSleep("2026-03-01", 7, 30))
	require.NoError(t, s.LogSleep("2026-03-02", 8, 0))

	entry, err := s.SleepFor("2026-03-01")
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, 7, entry.Hours)
	assert.Equal(t, 30, entry.Minutes)
	assert.Equal(t, 450, entry.TotalMinutes)

	all, err := s.AllSleep()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "2026-03-01", all[0].Date)

	none, err := s.SleepFor("2026-03-03")
	require.NoError(t, err)
	assert.Nil(t, none)
}
