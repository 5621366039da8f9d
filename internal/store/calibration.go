package store

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"cogbench/internal/models"
)

// SaveCalibration persists a successful calibration keyed by the terminal
// signature it was measured under.
func (s *Store) SaveCalibration(result *models.CalibrationResult) error {
	if err := s.db.Create(result).Error; err != nil {
		return fmt.Errorf("save calibration: %w", err)
	}
	return nil
}

// LatestCalibration returns the most recent calibration recorded for the
// given terminal signature, or nil when none exists. A calibration made
// under a different terminal or platform is never returned; the caller
// must recalibrate instead of reusing a stale compensation value.
func (s *Store) LatestCalibration(terminalKey string) (*models.CalibrationResult, error) {
	var result models.CalibrationResult
	err := s.db.Where("terminal_key = ?", terminalKey).
		Order("created_at desc").
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load calibration: %w", err)
	}
	return &result, nil
}

// InvalidateCalibrations removes stored calibrations for a terminal
// signature, forcing the next session to recalibrate.
func (s *Store) InvalidateCalibrations(terminalKey string) error {
	if err := s.db.Where("terminal_key = ?", terminalKey).
		Delete(&models.CalibrationResult{}).Error; err != nil {
		return fmt.Errorf("invalidate calibrations: %w", err)
	}
	return nil
}
