package repository

import "sync"

// MemoryKVRepository is a process-local key-value store used when no database is available
type MemoryKVRepository struct {
	mu   sync.Mutex
	data map[string]string
}

// NewMemoryKVRepository creates an empty in-memory store
func NewMemoryKVRepository() *MemoryKVRepository {
	return &MemoryKVRepository{data: make(map[string]string)}
}

func (r *MemoryKVRepository) Get(namespace string) (string, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	payload, ok := r.data[namespace]
	return payload, ok, nil
}

func (r *MemoryKVRepository) Set(namespace, payload string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[namespace] = payload
	return nil
}

func (r *MemoryKVRepository) Update(namespace string, fn func(payload string, found bool) (string, error)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, found := r.data[namespace]
	next, err := fn(current, found)
	if err != nil {
		return err
	}
	r.data[namespace] = next
	return nil
}
