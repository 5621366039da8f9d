package models

import (
	"fmt"
	"time"
)

// SleepEntry records hours slept before a given date, for annotating
// result history and trend charts.
type SleepEntry struct {
	ID           uint      `gorm:"primaryKey" json:"-"`
	Date         string    `gorm:"uniqueIndex;size:10" json:"date"` // YYYY-MM-DD
	Hours        int       `json:"hours"`
	Minutes      int       `json:"minutes"`
	TotalMinutes int       `json:"total_minutes"`
	CreatedAt    time.Time `json:"-"`
}

// Label formats the entry for display, e.g. "7h 30m".
func (s *SleepEntry) Label() string {
	if s == nil {
		return "No sleep data"
	}
	return fmt.Sprintf("%dh %dm", s.Hours, s.Minutes)
}
