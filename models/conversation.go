package models

import (
	"time"
)

// Message roles accepted on the wire
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Greeting is the assistant message seeded into a brand-new conversation,
// before the user has sent anything.
const Greeting = "Hi! I'm your Rate My Professor AI Assistant. How can I help you today?"

// Message is a single turn in a conversation
type Message struct {
	Role    string `json:"role" validate:"required,oneof=system user assistant"`
	Content string `json:"content" validate:"required"`
}

// Conversation is the full per-user transcript. The backend treats it as a
// single document: read at turn start, overwritten wholesale at turn end
// (last writer wins).
type Conversation struct {
	UserID    string    `json:"user_id"`
	Messages  []Message `json:"messages"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewConversation returns a fresh transcript seeded with the greeting
func NewConversation(userID string) *Conversation {
	return &Conversation{
		UserID: userID,
		Messages: []Message{
			{Role: RoleAssistant, Content: Greeting},
		},
		UpdatedAt: time.Now().UTC(),
	}
}

// LastMessage returns the final message of the transcript, or nil when empty
func (c *Conversation) LastMessage() *Message {
	if len(c.Messages) == 0 {
		return nil
	}
	return &c.Messages[len(c.Messages)-1]
}
