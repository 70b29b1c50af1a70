package file

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/aretw0/segue/internal/logging"
	"github.com/aretw0/segue/pkg/domain"
)

// transcript is the on-disk chat document.
type transcript struct {
	Character domain.Character `json:"character"`
	Messages  []domain.Message `json:"messages"`
}

// Chat is a conversation persisted as a JSON transcript. It implements
// ports.Conversation and ports.CharacterDirectory.
type Chat struct {
	Path string

	// OnEvent, if set, observes emitted message events.
	OnEvent func(event domain.EventType, msg domain.Message)

	mu     sync.RWMutex
	doc    transcript
	logger *slog.Logger
}

// OpenChat loads the transcript at path, creating an empty one (owned by
// character) if the file does not exist. A character stored in the file wins
// over the argument unless the stored name is empty.
func OpenChat(path string, character domain.Character, logger *slog.Logger) (*Chat, error) {
	if path == "" {
		return nil, fmt.Errorf("transcript path cannot be empty")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	c := &Chat{Path: path, logger: logger}
	if _, err := readJSON(path, &c.doc); err != nil {
		return nil, err
	}
	if c.doc.Character.Name == "" {
		c.doc.Character = character
	}
	return c, nil
}

// Append adds the message and returns its index.
func (c *Chat) Append(ctx context.Context, msg domain.Message) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.doc.Messages = append(c.doc.Messages, msg)
	return len(c.doc.Messages) - 1, nil
}

// Emit notifies OnEvent about the message at index.
func (c *Chat) Emit(ctx context.Context, event domain.EventType, index int) error {
	c.mu.RLock()
	if index < 0 || index >= len(c.doc.Messages) {
		c.mu.RUnlock()
		return fmt.Errorf("message index %d out of range", index)
	}
	msg := c.doc.Messages[index]
	c.mu.RUnlock()

	c.logger.Debug("Chat event", "event", event, "index", index)
	if c.OnEvent != nil {
		c.OnEvent(event, msg)
	}
	return nil
}

// Save writes the transcript atomically.
func (c *Chat) Save(ctx context.Context) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if err := writeJSONAtomic(c.Path, c.doc); err != nil {
		return fmt.Errorf("failed to save transcript: %w", err)
	}
	return nil
}

// ActiveCharacter returns the transcript's character.
func (c *Chat) ActiveCharacter(ctx context.Context) (domain.Character, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.doc.Character.Name == "" {
		return domain.Character{}, fmt.Errorf("transcript %s has no active character", c.Path)
	}
	return c.doc.Character, nil
}

// Messages returns a snapshot of the transcript.
func (c *Chat) Messages() []domain.Message {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]domain.Message, len(c.doc.Messages))
	copy(out, c.doc.Messages)
	return out
}
