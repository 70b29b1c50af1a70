package domain

import (
	"context"
	"time"
)

// EventType names a host conversation event.
type EventType string

const (
	EventMessageReceived EventType = "message_received"
	EventMessageRendered EventType = "message_rendered"
)

// QuietPrompt is a hidden generation request. Its prompt never reaches the transcript.
type QuietPrompt struct {
	Prompt    string
	MaxTokens int
	// QuietToLoud lets the backend run its own instruction-following mode.
	QuietToLoud bool
}

// TransitionEvent carries observability data about one transition.
type TransitionEvent struct {
	Timestamp  time.Time `json:"timestamp"`
	Request    Request   `json:"request"`
	Line       string    `json:"line,omitempty"`
	Degraded   bool      `json:"degraded,omitempty"`
	Background bool      `json:"background,omitempty"`
	Outcome    Outcome   `json:"outcome,omitempty"`
	Err        error     `json:"-"`
}

// LifecycleHooks defines callbacks for transition observability.
type LifecycleHooks struct {
	OnTransitionStart   func(context.Context, *TransitionEvent)
	OnGenerated         func(context.Context, *TransitionEvent)
	OnInserted          func(context.Context, *TransitionEvent)
	OnBackgroundTrigger func(context.Context, *TransitionEvent)
	OnOutcome           func(context.Context, *TransitionEvent)
}
