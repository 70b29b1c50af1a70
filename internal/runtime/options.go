package runtime

import (
	"log/slog"
	"time"

	"github.com/aretw0/segue/pkg/domain"
	"github.com/aretw0/segue/pkg/ports"
)

// ExecutorOption defines a functional option for configuring the Executor.
type ExecutorOption func(*Executor)

// WithGenerator wires the quiet generation capability.
func WithGenerator(g ports.Generator) ExecutorOption {
	return func(e *Executor) {
		e.invoker = NewInvoker(g)
	}
}

// WithTemplater wires placeholder substitution.
func WithTemplater(t ports.Templater) ExecutorOption {
	return func(e *Executor) {
		e.templater = t
	}
}

// WithCharacters wires the active-character lookup.
func WithCharacters(c ports.CharacterDirectory) ExecutorOption {
	return func(e *Executor) {
		e.characters = c
	}
}

// WithImageBackend wires the background-regeneration subsystem.
func WithImageBackend(b ports.ImageBackend) ExecutorOption {
	return func(e *Executor) {
		e.images = b
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) ExecutorOption {
	return func(e *Executor) {
		e.hooks = hooks
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) ExecutorOption {
	return func(e *Executor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithClock overrides the time source used to stamp messages.
func WithClock(now func() time.Time) ExecutorOption {
	return func(e *Executor) {
		if now != nil {
			e.now = now
		}
	}
}
