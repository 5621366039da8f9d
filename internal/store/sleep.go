package store

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"cogbench/internal/models"
)

// LogSleep records (or replaces) the sleep duration for a date.
func (s *Store) LogSleep(date string, hours, minutes int) error {
	entry := models.SleepEntry{
		Date:         date,
		Hours:        hours,
		Minutes:      minutes,
		TotalMinutes: hours*60 + minutes,
	}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"hours", "minutes", "total_minutes"}),
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("log sleep: %w", err)
	}
	return nil
}

// SleepFor returns the sleep entry for a date, or nil when none is logged.
func (s *Store) SleepFor(date string) (*models.SleepEntry, error) {
	var entry models.SleepEntry
	err := s.db.Where("date = ?", date).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load sleep entry: %w", err)
	}
	return &entry, nil
}

// AllSleep returns every sleep entry ordered by date.
func (s *Store) AllSleep() ([]models.SleepEntry, error) {
	var entries []models.SleepEntry
	if err := s.db.Order("date asc").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("list sleep entries: %w", err)
	}
	return entries, nil
}
