// Package store persists scored sessions, calibration results and the sleep
// journal. It is two layers: an append-only JSON-lines results journal that
// is the canonical, human-inspectable history, and a sqlite index used for
// trend queries. Single process, single writer; durability of committed
// history is the only concurrency concern.
package store

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	logging "cogbench/internal/logging"
	"cogbench/internal/models"
)

// Store owns the sqlite handle and the journal path.
type Store struct {
	db          *gorm.DB
	journalPath string
	log         *zap.Logger
}

// Open opens (creating if needed) the sqlite database and runs migrations.
// The journal file is created lazily on first append.
func Open(dbPath, journalPath string, log *zap.Logger) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logging.NewGormZapLogger(log),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.AutoMigrate(
		&models.SessionResult{},
		&models.CalibrationResult{},
		&models.SleepEntry{},
	); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	log.Debug("Results store opened",
		zap.String("database", dbPath),
		zap.String("journal", journalPath),
	)

	return &Store{db: db, journalPath: journalPath, log: log}, nil
}

// JournalPath returns the path of the append-only results file.
func (s *Store) JournalPath() string { return s.journalPath }

// Close releases the underlying database connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
