package service

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"astrocadet/internal/models"
)

// HighScoresKey is the namespace the leaderboard is stored under
const HighScoresKey = "astroCadetHighScores"

// KVStore is the persistence the score service needs
type KVStore interface {
	Get(namespace string) (payload string, found bool, err error)
	Set(namespace, payload string) error
	Update(namespace string, fn func(payload string, found bool) (string, error)) error
}

// ScoreService keeps the persisted top-10 leaderboard. Writes are serialized
// so concurrent sessions never lose each other's entries.
type ScoreService struct {
	mu    sync.Mutex
	store KVStore
}

// NewScoreService creates a new score service
func NewScoreService(store KVStore) *ScoreService {
	return &ScoreService{store: store}
}

// Save records a score under label. Scores of zero or less are ignored.
// Storage failures are logged and the score is dropped.
func (s *ScoreService) Save(label string, score int) {
	if score <= 0 {
		return
	}

	if err := s.Merge([]models.HighScoreEntry{{Label: label, Score: score}}); err != nil {
		log.Printf("Warning: failed to save high score %q (%d): %v", label, score, err)
		return
	}

	log.Printf("High score saved: %s %d", label, score)
}

// LoadAll returns the leaderboard, best first. It is empty when nothing is stored
// or storage is unavailable.
func (s *ScoreService) LoadAll() []models.HighScoreEntry {
	payload, found, err := s.store.Get(HighScoresKey)
	if err != nil {
		log.Printf("Warning: failed to load high scores: %v", err)
		return []models.HighScoreEntry{}
	}
	return decodeHighScores(payload, found)
}

// Merge adds entries to the stored leaderboard and keeps the best ten
func (s *ScoreService) Merge(entries []models.HighScoreEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.store.Update(HighScoresKey, func(payload string, found bool) (string, error) {
		merged := append(decodeHighScores(payload, found), entries...)
		return encodeHighScores(models.RankHighScores(merged))
	})
}

// Replace overwrites the leaderboard with entries after ranking them
func (s *ScoreService) Replace(entries []models.HighScoreEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	payload, err := encodeHighScores(models.RankHighScores(entries))
	if err != nil {
		return err
	}
	if err := s.store.Set(HighScoresKey, payload); err != nil {
		return fmt.Errorf("failed to store high scores: %w", err)
	}
	return nil
}

func decodeHighScores(payload string, found bool) []models.HighScoreEntry {
	entries := []models.HighScoreEntry{}
	if !found || payload == "" {
		return entries
	}
	if err := json.Unmarshal([]byte(payload), &entries); err != nil {
		log.Printf("Warning: discarding unreadable high score list: %v", err)
		return []models.HighScoreEntry{}
	}
	return entries
}

func encodeHighScores(entries []models.HighScoreEntry) (string, error) {
	data, err := json.Marshal(entries)
	if err != nil {
		return "", fmt.Errorf("failed to encode high scores: %w", err)
	}
	return string(data), nil
}
