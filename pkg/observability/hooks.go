package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/segue/pkg/domain"
)

// LoggingHooks logs every transition stage.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTransitionStart: func(ctx context.Context, e *domain.TransitionEvent) {
			logger.Debug("transition_start", "style", e.Request.Style, "max_tokens", e.Request.TokenBudget())
		},
		OnGenerated: func(ctx context.Context, e *domain.TransitionEvent) {
			logger.Debug("transition_generated", "degraded", e.Degraded, "length", len(e.Line))
		},
		OnInserted: func(ctx context.Context, e *domain.TransitionEvent) {
			logger.Info("transition_inserted", "degraded", e.Degraded)
		},
		OnBackgroundTrigger: func(ctx context.Context, e *domain.TransitionEvent) {
			logger.Info("background_trigger")
		},
		OnOutcome: func(ctx context.Context, e *domain.TransitionEvent) {
			if e.Outcome.IsError() {
				logger.Error("transition_failed", "outcome", e.Outcome.String(), "error", e.Err)
				return
			}
			logger.Info("transition_outcome", "outcome", e.Outcome.String())
		},
	}
}

// Combine merges hook sets; callbacks run in argument order.
func Combine(sets ...domain.LifecycleHooks) domain.LifecycleHooks {
	type hook = func(context.Context, *domain.TransitionEvent)
	chain := func(pick func(domain.LifecycleHooks) hook) hook {
		var fns []hook
		for _, s := range sets {
			if fn := pick(s); fn != nil {
				fns = append(fns, fn)
			}
		}
		if len(fns) == 0 {
			return nil
		}
		return func(ctx context.Context, e *domain.TransitionEvent) {
			for _, fn := range fns {
				fn(ctx, e)
			}
		}
	}
	return domain.LifecycleHooks{
		OnTransitionStart:   chain(func(h domain.LifecycleHooks) hook { return h.OnTransitionStart }),
		OnGenerated:         chain(func(h domain.LifecycleHooks) hook { return h.OnGenerated }),
		OnInserted:          chain(func(h domain.LifecycleHooks) hook { return h.OnInserted }),
		OnBackgroundTrigger: chain(func(h domain.LifecycleHooks) hook { return h.OnBackgroundTrigger }),
		OnOutcome:           chain(func(h domain.LifecycleHooks) hook { return h.OnOutcome }),
	}
}
