package model

import (
	"time"

	"github.com/google/uuid"
)

type Message struct {
	ID        uuid.UUID
	Role      MessageRole
	Content   string
	Timestamp time.Time
	Type      MessageType
	// ImageURL is a data URI, empty when the message carries no image.
	ImageURL string
}

type Chat struct {
	ID           uuid.UUID
	Title        string
	PresetID     string
	Messages     []Message
	CreatedAt    time.Time
	LastModified time.Time
}

// Clone returns a copy that shares no message storage with c.
func (c Chat) Clone() Chat {
	messages := make([]Message, len(c.Messages))
	copy(messages, c.Messages)
	c.Messages = messages
	return c
}
