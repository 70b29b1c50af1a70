package ports

import (
	"context"

	"github.com/aretw0/segue/pkg/domain"
)

// Generator is the quiet generation capability of the host.
// The returned value is usually a string, but backends that decode structured
// payloads may return anything; callers stringify it.
type Generator interface {
	GenerateQuiet(ctx context.Context, prompt domain.QuietPrompt) (any, error)
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func(ctx context.Context, prompt domain.QuietPrompt) (any, error)

// GenerateQuiet calls f.
func (f GeneratorFunc) GenerateQuiet(ctx context.Context, prompt domain.QuietPrompt) (any, error) {
	return f(ctx, prompt)
}

// ImageBackend is the external image-generation subsystem, reduced to a probe and a trigger.
type ImageBackend interface {
	// Available reports whether a backend is configured with a recognized source.
	Available(ctx context.Context) bool

	// TriggerBackground fires a background regeneration. No result is relied upon.
	TriggerBackground(ctx context.Context) error
}
