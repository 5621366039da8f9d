package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"

	"cogbench/internal/models"
)

// appendJournal writes one complete session record as a single JSON line.
//
// The record is marshalled in full before a single Write on a file opened
// with O_APPEND, then fsynced. A crash mid-write can at worst leave a torn
// final line with no trailing newline, which readers discard: the journal
// always presents either the prior complete history or that history plus
// one complete record.
func (s *Store) appendJournal(result *models.SessionResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal session record: %w", err)
	}
	data = append(data, '\n')

	f, err := os.OpenFile(s.journalPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("open results journal: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("append session record: %w", err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("sync results journal: %w", err)
	}
	return nil
}

// ReadJournal returns every complete record in the results journal, in
// write order. A missing file is an empty history. A torn final line (no
// trailing newline, from a write interrupted by a crash) is discarded, and
// unparseable lines are skipped without invalidating the records around
// them.
func (s *Store) ReadJournal() ([]models.SessionResult, error) {
	data, err := os.ReadFile(s.journalPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read results journal: %w", err)
	}

	// Only lines terminated by '\n' are committed records.
	if idx := bytes.LastIndexByte(data, '\n'); idx < 0 {
		return nil, nil
	} else {
		data = data[:idx+1]
	}

	var results []models.SessionResult
	for _, line := range bytes.Split(data, []byte{'\n'}) {
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		var r models.SessionResult
		if err := json.Unmarshal(line, &r); err != nil {
			s.log.Warn("Skipping malformed journal line", zap.Error(err))
			continue
		}
		results = append(results, r)
	}
	return results, nil
}
