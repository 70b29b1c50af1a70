package memory

import (
	"context"
	"sync"

	"github.com/aretw0/segue/pkg/domain"
)

// EmittedEvent is an observer notification recorded by Chat.
type EmittedEvent struct {
	Type  domain.EventType
	Index int
}

// Chat is an in-memory host conversation. It implements ports.Conversation and
// ports.CharacterDirectory. Safe for concurrent use; appends land in call order.
type Chat struct {
	Character domain.Character

	mu       sync.RWMutex
	messages []domain.Message
	events   []EmittedEvent
	saves    int
}

// NewChat creates an empty chat with the given active character.
func NewChat(character domain.Character) *Chat {
	return &Chat{Character: character}
}

// Append adds the message and returns its index.
func (c *Chat) Append(ctx context.Context, msg domain.Message) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, msg)
	return len(c.messages) - 1, nil
}

// Emit records the event.
func (c *Chat) Emit(ctx context.Context, event domain.EventType, index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, EmittedEvent{Type: event, Index: index})
	return nil
}

// Save counts the persistence request.
func (c *Chat) Save(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.saves++
	return nil
}

// ActiveCharacter returns the configured character.
func (c *Chat) ActiveCharacter(ctx context.Context) (domain.Character, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Character, nil
}

// Messages returns a snapshot of the transcript.
func (c *Chat) Messages() []domain.Message {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]domain.Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Events returns a snapshot of the emitted events.
func (c *Chat) Events() []EmittedEvent {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]EmittedEvent, len(c.events))
	copy(out, c.events)
	return out
}

// Saves returns how many times the chat was saved.
func (c *Chat) Saves() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.saves
}
