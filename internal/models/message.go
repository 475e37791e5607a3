package models

import (
	"time"

	"github.com/google/uuid"
)

// ═══════════════════════════════════════════════════════════
// MESSAGE MODELS
// ═══════════════════════════════════════════════════════════

// Message is one entry in a session's conversation. The wire shape
// (isUser/text/timestamp) is what the storefront widget consumes.
type Message struct {
	ID        uuid.UUID `json:"id"`
	IsUser    bool      `json:"isUser"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

func NewUserMessage(text string) Message {
	return Message{
		ID:        uuid.New(),
		IsUser:    true,
		Text:      text,
		Timestamp: time.Now(),
	}
}

func NewAssistantMessage(text string) Message {
	return Message{
		ID:        uuid.New(),
		IsUser:    false,
		Text:      text,
		Timestamp: time.Now(),
	}
}
