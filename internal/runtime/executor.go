package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/segue/internal/logging"
	"github.com/aretw0/segue/pkg/domain"
	"github.com/aretw0/segue/pkg/ports"
)

// DefaultSpeaker is used when no character directory is wired.
var DefaultSpeaker = domain.Character{Name: "Assistant"}

// Executor orchestrates a scene transition end to end.
// Concurrent calls are not mutually excluded; each runs its own sequence.
type Executor struct {
	settings   *SettingsResolver
	chat       ports.Conversation
	invoker    *Invoker
	templater  ports.Templater
	characters ports.CharacterDirectory
	images     ports.ImageBackend
	hooks      domain.LifecycleHooks
	logger     *slog.Logger
	now        func() time.Time
}

// NewExecutor creates an executor over the given settings store and conversation.
func NewExecutor(store ports.SettingsStore, chat ports.Conversation, opts ...ExecutorOption) *Executor {
	e := &Executor{
		chat:    chat,
		invoker: NewInvoker(nil),
		logger:  logging.NewNop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.settings = NewSettingsResolver(store, e.logger)
	return e
}

// Settings exposes the resolver backing this executor.
func (e *Executor) Settings() *SettingsResolver {
	return e.settings
}

// Execute runs one transition and reports its outcome. It never panics and
// never returns an error: failures are folded into the outcome string.
func (e *Executor) Execute(ctx context.Context, req domain.Request) (outcome domain.Outcome) {
	evt := &domain.TransitionEvent{Timestamp: e.now(), Request: req}

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("%v", r)
			e.logger.Error("Transition panicked", "error", err)
			evt.Err = err
			outcome = domain.OutcomeError(err)
		}
		evt.Outcome = outcome
		e.fire(ctx, e.hooks.OnOutcome, evt)
	}()

	e.fire(ctx, e.hooks.OnTransitionStart, evt)

	settings, err := e.settings.Resolve(ctx)
	if err != nil {
		e.logger.Error("Settings resolution failed", "error", err)
		evt.Err = err
		return domain.OutcomeError(err)
	}

	directive := ComposeDirective(settings, req)
	if e.templater != nil {
		directive = e.templater.Substitute(ctx, directive)
	}

	res := e.invoker.Invoke(ctx, directive, req.TokenBudget())
	line := res.Text
	if res.Failed() {
		e.logger.Warn("Generation degraded to placeholder", "kind", res.Failure.Kind, "error", res.Failure.Err)
		line = Placeholder(ResolveNote(req), req.Style, res.Failure)
		evt.Degraded = true
	}
	evt.Line = line
	e.fire(ctx, e.hooks.OnGenerated, evt)

	if line == "" {
		e.logger.Info("Generation returned no output")
		return domain.OutcomeNoOutput
	}

	if err := e.insert(ctx, line); err != nil {
		e.logger.Error("Message insertion failed", "error", err)
		evt.Err = err
		return domain.OutcomeError(err)
	}
	e.fire(ctx, e.hooks.OnInserted, evt)

	probe := func() bool {
		return e.images != nil && e.images.Available(ctx)
	}
	if DecideBackground(req.Background, settings, probe) {
		evt.Background = true
		e.triggerBackground(ctx)
		e.fire(ctx, e.hooks.OnBackgroundTrigger, evt)
	}

	return domain.OutcomeInserted
}

// insert hands the line to the host conversation. Any failure is fatal to the transition.
func (e *Executor) insert(ctx context.Context, line string) error {
	speaker := DefaultSpeaker
	if e.characters != nil {
		c, err := e.characters.ActiveCharacter(ctx)
		if err != nil {
			return fmt.Errorf("failed to resolve active character: %w", err)
		}
		speaker = c
	}

	msg := domain.NewMessage(speaker, line, e.now())
	idx, err := e.chat.Append(ctx, msg)
	if err != nil {
		return fmt.Errorf("failed to append message: %w", err)
	}

	for _, evt := range []domain.EventType{domain.EventMessageReceived, domain.EventMessageRendered} {
		if err := e.chat.Emit(ctx, evt, idx); err != nil {
			return fmt.Errorf("failed to emit %s: %w", evt, err)
		}
	}

	if err := e.chat.Save(ctx); err != nil {
		return fmt.Errorf("failed to save chat: %w", err)
	}

	e.logger.Debug("Scene line inserted", "index", idx, "speaker", speaker.Name)
	return nil
}

// triggerBackground fires the image backend. Errors and panics are logged and discarded.
func (e *Executor) triggerBackground(ctx context.Context) {
	if e.images == nil {
		e.logger.Warn("Background trigger requested but no image backend is wired")
		return
	}

	defer func() {
		if r := recover(); r != nil {
			e.logger.Warn("Background trigger panicked", "error", fmt.Errorf("%v", r))
		}
	}()

	if err := e.images.TriggerBackground(ctx); err != nil {
		e.logger.Warn("Background trigger failed", "error", err)
	}
}

// fire runs a lifecycle hook. A panicking hook is logged and never changes the outcome.
func (e *Executor) fire(ctx context.Context, hook func(context.Context, *domain.TransitionEvent), evt *domain.TransitionEvent) {
	if hook == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			e.logger.Warn("Lifecycle hook panicked", "error", fmt.Errorf("%v", r))
		}
	}()
	hook(ctx, evt)
}
