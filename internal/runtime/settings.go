package runtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aretw0/segue/pkg/domain"
	"github.com/aretw0/segue/pkg/ports"
	"github.com/mitchellh/mapstructure"
)

// SettingsResolver merges the persisted settings blob with the built-in defaults.
type SettingsResolver struct {
	store  ports.SettingsStore
	key    string
	logger *slog.Logger
}

// NewSettingsResolver creates a resolver reading the blob stored under domain.SettingsKey.
func NewSettingsResolver(store ports.SettingsStore, logger *slog.Logger) *SettingsResolver {
	return &SettingsResolver{
		store:  store,
		key:    domain.SettingsKey,
		logger: logger,
	}
}

// Resolve returns the effective settings. Every recognized option absent from the
// blob (or holding a value that cannot be coerced) takes its default.
// The store is never written.
func (r *SettingsResolver) Resolve(ctx context.Context) (domain.Settings, error) {
	blob, err := r.store.Load(ctx, r.key)
	if err != nil {
		if errors.Is(err, domain.ErrSettingsNotFound) {
			return domain.DefaultSettings(), nil
		}
		return domain.Settings{}, fmt.Errorf("failed to load settings: %w", err)
	}
	return r.merge(blob), nil
}

func (r *SettingsResolver) merge(blob map[string]any) domain.Settings {
	s := domain.DefaultSettings()

	if raw, ok := blob[domain.KeyInstructionTemplate]; ok && raw != nil {
		var tmpl string
		if err := mapstructure.WeakDecode(raw, &tmpl); err != nil {
			r.logger.Warn("Ignoring malformed settings value", "key", domain.KeyInstructionTemplate, "error", err)
		} else if strings.TrimSpace(tmpl) != "" {
			s.InstructionTemplate = tmpl
		}
	}

	if raw, ok := blob[domain.KeyAutoTriggerBackground]; ok && raw != nil {
		var auto bool
		if err := mapstructure.WeakDecode(raw, &auto); err != nil {
			r.logger.Warn("Ignoring malformed settings value", "key", domain.KeyAutoTriggerBackground, "error", err)
		} else {
			s.AutoTriggerBackground = auto
		}
	}

	return s
}

// Initialize writes the default settings if nothing is stored yet. Idempotent.
func (r *SettingsResolver) Initialize(ctx context.Context) error {
	_, err := r.store.Load(ctx, r.key)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrSettingsNotFound) {
		return fmt.Errorf("failed to check settings existence: %w", err)
	}

	if err := r.store.Save(ctx, r.key, domain.DefaultSettings().Blob()); err != nil {
		return fmt.Errorf("failed to initialize settings: %w", err)
	}
	r.requestFlush()
	return nil
}

// Save writes the full configuration back, keeping unrecognized keys of the
// existing blob, then requests a debounced flush.
func (r *SettingsResolver) Save(ctx context.Context, s domain.Settings) error {
	if strings.TrimSpace(s.InstructionTemplate) == "" {
		s.InstructionTemplate = domain.DefaultInstructionTemplate
	}

	merged := make(map[string]any)
	existing, err := r.store.Load(ctx, r.key)
	switch {
	case err == nil:
		for k, v := range existing {
			merged[k] = v
		}
	case errors.Is(err, domain.ErrSettingsNotFound):
	default:
		return fmt.Errorf("failed to load settings: %w", err)
	}

	for k, v := range s.Blob() {
		merged[k] = v
	}

	if err := r.store.Save(ctx, r.key, merged); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	r.requestFlush()
	return nil
}

func (r *SettingsResolver) requestFlush() {
	if f, ok := r.store.(ports.DebouncedFlusher); ok {
		f.RequestFlush()
	}
}
