package ports

import (
	"context"

	"github.com/aretw0/segue/pkg/domain"
)

// Conversation is the host-owned message store of the active chat.
type Conversation interface {
	// Append adds a message to the end of the chat and returns its index.
	Append(ctx context.Context, msg domain.Message) (int, error)

	// Emit notifies host observers about the message at index.
	Emit(ctx context.Context, event domain.EventType, index int) error

	// Save asks the host to persist the chat.
	Save(ctx context.Context) error
}

// CharacterDirectory resolves the character currently active in the chat.
type CharacterDirectory interface {
	ActiveCharacter(ctx context.Context) (domain.Character, error)
}

// Templater substitutes host placeholders such as {{char}} and {{user}}.
type Templater interface {
	Substitute(ctx context.Context, text string) string
}
