package segue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/segue/internal/logging"
	"github.com/aretw0/segue/internal/runtime"
	"github.com/aretw0/segue/pkg/command"
	"github.com/aretw0/segue/pkg/domain"
	"github.com/aretw0/segue/pkg/ports"
)

// Version is the release of the library and its binaries.
const Version = "0.3.0"

// Engine is the high-level entry point for the segue library.
// It wraps the internal executor and provides a simplified API for consumers.
type Engine struct {
	executor   *runtime.Executor
	generator  ports.Generator
	templater  ports.Templater
	characters ports.CharacterDirectory
	images     ports.ImageBackend
	hooks      domain.LifecycleHooks
	logger     *slog.Logger
	now        func() time.Time
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithGenerator wires the quiet generation backend. Without it every
// transition inserts the "unavailable" diagnostic line.
func WithGenerator(g ports.Generator) Option {
	return func(e *Engine) {
		e.generator = g
	}
}

// WithTemplater wires placeholder substitution for the directive.
func WithTemplater(t ports.Templater) Option {
	return func(e *Engine) {
		e.templater = t
	}
}

// WithCharacters wires the active-character lookup.
func WithCharacters(c ports.CharacterDirectory) Option {
	return func(e *Engine) {
		e.characters = c
	}
}

// WithImageBackend wires the background-regeneration subsystem.
func WithImageBackend(b ports.ImageBackend) Option {
	return func(e *Engine) {
		e.images = b
	}
}

// WithClock overrides the time source used to stamp messages.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// New initializes an Engine over a settings store and the host conversation.
func New(store ports.SettingsStore, chat ports.Conversation, opts ...Option) (*Engine, error) {
	if store == nil {
		return nil, fmt.Errorf("settings store is required")
	}
	if chat == nil {
		return nil, fmt.Errorf("conversation is required")
	}

	eng := &Engine{}
	for _, opt := range opts {
		opt(eng)
	}

	// Ensure logger is initialized (so we don't pass nil to runtime)
	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}

	runtimeOpts := []runtime.ExecutorOption{
		runtime.WithLogger(eng.logger),
		runtime.WithLifecycleHooks(eng.hooks),
		runtime.WithGenerator(eng.generator),
		runtime.WithClock(eng.now),
	}
	if eng.templater != nil {
		runtimeOpts = append(runtimeOpts, runtime.WithTemplater(eng.templater))
	}
	if eng.characters != nil {
		runtimeOpts = append(runtimeOpts, runtime.WithCharacters(eng.characters))
	}
	if eng.images != nil {
		runtimeOpts = append(runtimeOpts, runtime.WithImageBackend(eng.images))
	}

	eng.executor = runtime.NewExecutor(store, chat, runtimeOpts...)
	return eng, nil
}

// Transition runs one scene transition and returns its outcome.
func (e *Engine) Transition(ctx context.Context, req domain.Request) domain.Outcome {
	return e.executor.Execute(ctx, req)
}

// Invoke parses slash-command style tokens (key=value parameters followed by the
// note) and runs the transition. Argument errors become an error outcome.
func (e *Engine) Invoke(ctx context.Context, tokens []string) domain.Outcome {
	req, err := command.ParseArgs(tokens)
	if err != nil {
		e.logger.Warn("Rejected transition arguments", "error", err)
		return domain.OutcomeError(err)
	}
	return e.Transition(ctx, req)
}

// InvokeNamed is Invoke for hosts that already split named and positional arguments.
func (e *Engine) InvokeNamed(ctx context.Context, named map[string]any, note string) domain.Outcome {
	req, err := command.Parse(named, note)
	if err != nil {
		e.logger.Warn("Rejected transition arguments", "error", err)
		return domain.OutcomeError(err)
	}
	return e.Transition(ctx, req)
}

// Initialize persists the default settings on first use. Idempotent.
func (e *Engine) Initialize(ctx context.Context) error {
	return e.executor.Settings().Initialize(ctx)
}

// Settings returns the effective settings (persisted values over defaults).
func (e *Engine) Settings(ctx context.Context) (domain.Settings, error) {
	return e.executor.Settings().Resolve(ctx)
}

// UpdateSettings persists new settings and requests a flush.
func (e *Engine) UpdateSettings(ctx context.Context, s domain.Settings) error {
	return e.executor.Settings().Save(ctx, s)
}
