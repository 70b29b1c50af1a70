package memory

import (
	"context"
	"sync"

	"github.com/aretw0/segue/pkg/domain"
)

// SettingsStore implements ports.SettingsStore and ports.DebouncedFlusher in memory.
// Safe for concurrent use.
type SettingsStore struct {
	data    map[string]map[string]any
	flushes int
	mu      sync.RWMutex
}

// NewSettingsStore creates a new in-memory settings store.
func NewSettingsStore() *SettingsStore {
	return &SettingsStore{
		data: make(map[string]map[string]any),
	}
}

// Save stores a copy of the blob.
func (s *SettingsStore) Save(ctx context.Context, key string, blob map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = copyBlob(blob)
	return nil
}

// Load returns a copy of the blob so callers can't mutate the store by reference.
func (s *SettingsStore) Load(ctx context.Context, key string) (map[string]any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	blob, ok := s.data[key]
	if !ok {
		return nil, domain.ErrSettingsNotFound
	}
	return copyBlob(blob), nil
}

// RequestFlush records the request. Memory has nothing to flush.
func (s *SettingsStore) RequestFlush() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flushes++
}

// Flushes returns how many flushes were requested.
func (s *SettingsStore) Flushes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.flushes
}

func copyBlob(blob map[string]any) map[string]any {
	out := make(map[string]any, len(blob))
	for k, v := range blob {
		out[k] = v
	}
	return out
}
