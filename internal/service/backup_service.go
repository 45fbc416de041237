package service

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"astrocadet/internal/models"
)

// BackupVersion is written into every export
const BackupVersion = "1.0"

// BackupData represents a leaderboard backup
type BackupData struct {
	Version      string                  `json:"version"`
	ExportedAt   time.Time               `json:"exported_at"`
	DatabaseType string                  `json:"database_type"`
	HighScores   []models.HighScoreEntry `json:"high_scores"`
}

// BackupService exports and imports the leaderboard
type BackupService struct {
	scores       *ScoreService
	databaseType string
}

// NewBackupService creates a new backup service
func NewBackupService(scores *ScoreService, databaseType string) *BackupService {
	return &BackupService{scores: scores, databaseType: databaseType}
}

// Export writes the leaderboard as JSON to w
func (s *BackupService) Export(w io.Writer) (*BackupData, error) {
	backup := &BackupData{
		Version:      BackupVersion,
		ExportedAt:   time.Now().UTC(),
		DatabaseType: s.databaseType,
		HighScores:   s.scores.LoadAll(),
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(backup); err != nil {
		return nil, fmt.Errorf("failed to encode backup: %w", err)
	}

	return backup, nil
}

// ExportToFile writes the leaderboard backup to filename
func (s *BackupService) ExportToFile(filename string) (*BackupData, error) {
	file, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create backup file: %w", err)
	}
	defer file.Close()

	return s.Export(file)
}

// Import reads a backup from r. With clear the stored list is replaced,
// otherwise the backup entries are merged with it. Either way the result
// is ranked and capped like any saved list.
func (s *BackupService) Import(r io.Reader, clear bool) (*BackupData, error) {
	var backup BackupData
	if err := json.NewDecoder(r).Decode(&backup); err != nil {
		return nil, fmt.Errorf("failed to decode backup: %w", err)
	}
	if backup.Version == "" {
		return nil, fmt.Errorf("backup has no version")
	}

	var err error
	if clear {
		err = s.scores.Replace(backup.HighScores)
	} else {
		err = s.scores.Merge(backup.HighScores)
	}
	if err != nil {
		return nil, err
	}

	log.Printf("Imported %d high scores from backup %s (exported %s from %s)",
		len(backup.HighScores), backup.Version, backup.ExportedAt.Format(time.RFC3339), backup.DatabaseType)
	return &backup, nil
}

// ImportFromFile reads a leaderboard backup from filename
func (s *BackupService) ImportFromFile(filename string, clear bool) (*BackupData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open backup file: %w", err)
	}
	defer file.Close()

	return s.Import(file, clear)
}
