package service

import (
	"log"

	"astrocadet/internal/config"
	"astrocadet/internal/database"
	"astrocadet/internal/repository"
)

// OpenScoreService connects the leaderboard to the configured database. When
// the database cannot be opened the scores live in memory for this process
// and the returned close func is a no-op.
func OpenScoreService(cfg *config.Config) (*ScoreService, func()) {
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Printf("Warning: high scores will not be saved, database unavailable: %v", err)
		return NewScoreService(repository.NewMemoryKVRepository()), func() {}
	}

	log.Printf("Database connection established (type: %s)", db.Dialect.Name())
	return NewScoreService(repository.NewKVRepository(db)), func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}
}
