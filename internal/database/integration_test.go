package database

import (
	"errors"
	"path/filepath"
	"testing"

	"astrocadet/internal/config"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := Initialize(filepath.Join(t.TempDir(), "astro.db"))
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestDatabaseIntegration checks that migrations create the schema and are recorded once
func TestDatabaseIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := openTestDB(t)

	var name string
	err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", "kv_store").Scan(&name)
	if err != nil {
		t.Fatalf("Table kv_store not found: %v", err)
	}

	// Running again must be a no-op
	if err := db.RunMigrations(); err != nil {
		t.Fatalf("second RunMigrations() error = %v", err)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM migrations").Scan(&count); err != nil {
		t.Fatalf("Failed to count migrations: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 recorded migration, got %d", count)
	}
}

// TestDatabaseTransactions tests commit and rollback through InTx
func TestDatabaseTransactions(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := openTestDB(t)

	err := db.InTx(func(tx DBTX) error {
		_, err := tx.Exec(tx.GetDialect().UpsertKVQuery(), "committed", "[]")
		return err
	})
	if err != nil {
		t.Fatalf("InTx() commit error = %v", err)
	}

	boom := errors.New("boom")
	err = db.InTx(func(tx DBTX) error {
		if _, err := tx.Exec(tx.GetDialect().UpsertKVQuery(), "rolled-back", "[]"); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("InTx() error = %v, want boom", err)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM kv_store WHERE namespace = ?", "committed").Scan(&count); err != nil {
		t.Fatalf("Failed to query after commit: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected committed row, got %d", count)
	}

	if err := db.QueryRow("SELECT COUNT(*) FROM kv_store WHERE namespace = ?", "rolled-back").Scan(&count); err != nil {
		t.Fatalf("Failed to query after rollback: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected 0 rows after rollback, got %d", count)
	}
}

func TestInitializeWithConfigRejectsUnknownType(t *testing.T) {
	_, err := InitializeWithConfig(&config.Config{DatabaseType: "oracle"})
	if err == nil {
		t.Fatal("expected error for unsupported database type")
	}
}

func TestInitializeWithConfigSQLite(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db, err := InitializeWithConfig(&config.Config{
		DatabaseType: "sqlite",
		DatabasePath: filepath.Join(t.TempDir(), "cfg.db"),
	})
	if err != nil {
		t.Fatalf("InitializeWithConfig() error = %v", err)
	}
	defer db.Close()

	if db.Dialect.Name() != "sqlite" {
		t.Errorf("Dialect = %s, want sqlite", db.Dialect.Name())
	}
}
