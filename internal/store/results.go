package store

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"cogbench/internal/models"
)

// ErrIndexOnly marks an append that reached the canonical journal but not
// the sqlite index. The session is durable; only trend queries will lag
// until the next successful write.
type ErrIndexOnly struct{ Err error }

func (e *ErrIndexOnly) Error() string {
	return fmt.Sprintf("session journaled but index update failed: %v", e.Err)
}

func (e *ErrIndexOnly) Unwrap() error { return e.Err }

// AppendSession durably appends one scored session. The journal write
// commits the record; the sqlite insert only indexes it for queries. A
// failure before the journal write loses nothing previously committed, a
// failure after it returns *ErrIndexOnly so callers can warn without
// discarding the in-memory result.
func (s *Store) AppendSession(result *models.SessionResult) error {
	if err := s.appendJournal(result); err != nil {
		return err
	}

	if err := s.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(result).Error
	}); err != nil {
		s.log.Error("Failed to index session result",
			zap.String("session", result.SessionID),
			zap.Error(err),
		)
		return &ErrIndexOnly{Err: err}
	}

	s.log.Debug("Session appended",
		zap.String("session", result.SessionID),
		zap.String("test", string(result.TestType)),
		zap.Float64("metric", result.MetricValue),
	)
	return nil
}

// History returns the stored sessions for one test type, oldest first,
// optionally bounded by [from, to).
func (s *Store) History(t models.TestType, from, to time.Time) ([]models.SessionResult, error) {
	q := s.db.Where("test_type = ?", t).Order("started_at asc")
	if !from.IsZero() {
		q = q.Where("started_at >= ?", from)
	}
	if !to.IsZero() {
		q = q.Where("started_at < ?", to)
	}
	var results []models.SessionResult
	if err := q.Find(&results).Error; err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	return results, nil
}

// Recent returns the latest n sessions for a test type, oldest first.
func (s *Store) Recent(t models.TestType, n int) ([]models.SessionResult, error) {
	var results []models.SessionResult
	err := s.db.Where("test_type = ?", t).
		Order("started_at desc").
		Limit(n).
		Find(&results).Error
	if err != nil {
		return nil, fmt.Errorf("query recent sessions: %w", err)
	}
	// Reverse into chronological order for display.
	for i, j := 0, len(results)-1; i < j; i, j = i+1, j-1 {
		results[i], results[j] = results[j], results[i]
	}
	return results, nil
}

// DailyPoint is one day's average metric for a test type.
type DailyPoint struct {
	Day   string  `json:"day"` // YYYY-MM-DD
	Value float64 `json:"value"`
	Count int     `json:"count"`
}

// DailyAverages groups a test's history by calendar day for trend charts.
func (s *Store) DailyAverages(t models.TestType, from, to time.Time) ([]DailyPoint, error) {
	sessions, err := s.History(t, from, to)
	if err != nil {
		return nil, err
	}

	type agg struct {
		sum   float64
		count int
	}
	byDay := make(map[string]*agg)
	var order []string
	for _, r := range sessions {
		day := r.StartedAt.Format("2006-01-02")
		a, ok := byDay[day]
		if !ok {
			a = &agg{}
			byDay[day] = a
			order = append(order, day)
		}
		a.sum += r.MetricValue
		a.count++
	}

	points := make([]DailyPoint, 0, len(order))
	for _, day := range order {
		a := byDay[day]
		points = append(points, DailyPoint{
			Day:   day,
			Value: a.sum / float64(a.count),
			Count: a.count,
		})
	}
	return points, nil
}
