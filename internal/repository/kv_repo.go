package repository

import (
	"database/sql"
	"errors"

	"astrocadet/internal/database"
)

// KVRepository stores opaque payloads under a namespace key
type KVRepository struct {
	db *database.DB
}

// NewKVRepository creates a new key-value repository
func NewKVRepository(db *database.DB) *KVRepository {
	return &KVRepository{db: db}
}

// Get returns the payload stored under namespace; found is false when nothing is stored
func (r *KVRepository) Get(namespace string) (payload string, found bool, err error) {
	return getPayload(r.db, namespace, false)
}

// Set inserts or replaces the payload stored under namespace
func (r *KVRepository) Set(namespace, payload string) error {
	return setPayload(r.db, namespace, payload)
}

// Update reads the payload under namespace, passes it to fn and stores the result,
// all inside one transaction. The read locks the row where the dialect supports it.
func (r *KVRepository) Update(namespace string, fn func(payload string, found bool) (string, error)) error {
	return r.db.InTx(func(tx database.DBTX) error {
		current, found, err := getPayload(tx, namespace, true)
		if err != nil {
			return err
		}

		next, err := fn(current, found)
		if err != nil {
			return err
		}

		return setPayload(tx, namespace, next)
	})
}

func getPayload(q database.DBTX, namespace string, forUpdate bool) (string, bool, error) {
	query := "SELECT payload FROM kv_store WHERE namespace = ?"
	if forUpdate {
		query += q.GetDialect().LockingReadSuffix()
	}

	var payload string
	err := q.QueryRow(query, namespace).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return payload, true, nil
}

func setPayload(q database.DBTX, namespace, payload string) error {
	_, err := q.Exec(q.GetDialect().UpsertKVQuery(), namespace, payload)
	return err
}
