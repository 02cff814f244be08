package domain

import "context"

// MessageRole represents the sender of a chat message
type MessageRole string

const (
	RoleSystem    MessageRole = "system"
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// Message represents one entry in a session's conversation history
type Message struct {
	Role    MessageRole `json:"role"`
	Content string      `json:"content"`
}

// SessionStore defines the interface for conversation history persistence.
// Load returns an empty slice (not an error) for unknown or expired sessions.
// Save replaces the full history for the session and resets its expiry.
type SessionStore interface {
	Load(ctx context.Context, sessionID string) ([]Message, error)
	Save(ctx context.Context, sessionID string, messages []Message) error
}
