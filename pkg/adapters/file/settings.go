package file

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/aretw0/segue/internal/logging"
	"github.com/aretw0/segue/pkg/domain"
)

// DefaultDebounce is the delay between a flush request and the disk write.
const DefaultDebounce = 500 * time.Millisecond

// SettingsStore implements ports.SettingsStore and ports.DebouncedFlusher on a
// single JSON document mapping keys to blobs. Saves land in memory; the document
// is written when a requested flush fires (or on Flush/Close).
type SettingsStore struct {
	Path     string
	Debounce time.Duration

	mu     sync.Mutex
	data   map[string]map[string]any
	loaded bool
	dirty  bool
	timer  *time.Timer
	logger *slog.Logger
}

// Option configures the SettingsStore.
type Option func(*SettingsStore)

// WithDebounce sets the flush delay. Non-positive values keep DefaultDebounce.
func WithDebounce(d time.Duration) Option {
	return func(s *SettingsStore) {
		if d > 0 {
			s.Debounce = d
		}
	}
}

// WithLogger configures a logger for deferred write errors.
func WithLogger(logger *slog.Logger) Option {
	return func(s *SettingsStore) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewSettingsStore creates a store backed by path.
// If path is empty, it defaults to ".segue/settings.json".
func NewSettingsStore(path string, opts ...Option) *SettingsStore {
	if path == "" {
		path = filepath.Join(".segue", "settings.json")
	}
	s := &SettingsStore{
		Path:     path,
		Debounce: DefaultDebounce,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ensureLoaded reads the document once. Caller holds s.mu.
func (s *SettingsStore) ensureLoaded() error {
	if s.loaded {
		return nil
	}
	doc := make(map[string]map[string]any)
	if _, err := readJSON(s.Path, &doc); err != nil {
		return err
	}
	if doc == nil {
		doc = make(map[string]map[string]any)
	}
	s.data = doc
	s.loaded = true
	return nil
}

// Load returns a copy of the blob stored under key.
func (s *SettingsStore) Load(ctx context.Context, key string) (map[string]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(); err != nil {
		return nil, err
	}
	blob, ok := s.data[key]
	if !ok {
		return nil, domain.ErrSettingsNotFound
	}
	return copyBlob(blob), nil
}

// Save replaces the blob in memory. Durability comes with the next flush.
func (s *SettingsStore) Save(ctx context.Context, key string, blob map[string]any) error {
	if key == "" {
		return fmt.Errorf("settings key cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(); err != nil {
		return err
	}
	s.data[key] = copyBlob(blob)
	s.dirty = true
	return nil
}

// RequestFlush schedules a write after the debounce delay. Requests arriving
// before the timer fires push it back.
func (s *SettingsStore) RequestFlush() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.Debounce, func() {
		if err := s.Flush(); err != nil {
			s.logger.Error("Deferred settings flush failed", "path", s.Path, "error", err)
		}
	})
}

// Flush writes pending changes now.
func (s *SettingsStore) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.dirty {
		return nil
	}
	if err := writeJSONAtomic(s.Path, s.data); err != nil {
		return fmt.Errorf("failed to flush settings: %w", err)
	}
	s.dirty = false
	return nil
}

// Close cancels any pending timer and flushes.
func (s *SettingsStore) Close() error {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.mu.Unlock()
	return s.Flush()
}

func copyBlob(blob map[string]any) map[string]any {
	out := make(map[string]any, len(blob))
	for k, v := range blob {
		out[k] = v
	}
	return out
}
