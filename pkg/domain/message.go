package domain

import (
	"time"

	"github.com/google/uuid"
)

// Character identifies the active character the generated line is attributed to.
type Character struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
}

// Message is a generated chat message. Once appended, the host owns it.
type Message struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	IsUser   bool      `json:"is_user"`
	IsSystem bool      `json:"is_system"`
	SendDate time.Time `json:"send_date"`
	Mes      string    `json:"mes"`
}

// NewMessage builds an assistant-side message spoken by the given character.
func NewMessage(speaker Character, text string, at time.Time) Message {
	return Message{
		ID:       uuid.NewString(),
		Name:     speaker.Name,
		IsUser:   false,
		IsSystem: false,
		SendDate: at,
		Mes:      text,
	}
}
