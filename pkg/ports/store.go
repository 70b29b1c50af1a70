package ports

import "context"

// SettingsStore defines how the persisted configuration blob is read and written.
type SettingsStore interface {
	// Load returns the blob stored under key.
	// Returns domain.ErrSettingsNotFound if nothing was ever stored.
	Load(ctx context.Context, key string) (map[string]any, error)

	// Save replaces the blob stored under key.
	Save(ctx context.Context, key string, blob map[string]any) error
}

// DebouncedFlusher is implemented by stores whose durability is deferred.
// RequestFlush schedules a write; repeated calls within the debounce window coalesce.
type DebouncedFlusher interface {
	RequestFlush()
}
