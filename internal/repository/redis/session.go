package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/khesht/khesht-api/internal/domain"
	"github.com/redis/go-redis/v9"
)

const (
	sessionPrefix = "chat_session:"

	// SessionTTL is the sliding retention window for a conversation.
	// Every Save resets the clock to the full window.
	SessionTTL = 24 * time.Hour
)

// SessionStore persists conversation histories in Redis, one JSON document
// per session. The full history is replaced on every write, so the single
// SET provides per-session atomicity without in-process locking.
type SessionStore struct {
	client *Client
}

// NewSessionStore creates a new session store
func NewSessionStore(client *Client) *SessionStore {
	return &SessionStore{client: client}
}

func sessionKey(sessionID string) string {
	return sessionPrefix + sessionID
}

// Load retrieves the ordered message history for a session. An unknown or
// expired session yields an empty history and no error; only a backend
// failure is reported, and callers treat that as "no history" too.
func (s *SessionStore) Load(ctx context.Context, sessionID string) ([]domain.Message, error) {
	data, err := s.client.rdb.Get(ctx, sessionKey(sessionID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session %s: %w", sessionID, err)
	}

	messages, err := decodeMessages(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode session %s: %w", sessionID, err)
	}
	return messages, nil
}

// Save replaces the full history for a session and resets its expiry to the
// full retention window.
func (s *SessionStore) Save(ctx context.Context, sessionID string, messages []domain.Message) error {
	data, err := encodeMessages(messages)
	if err != nil {
		return fmt.Errorf("failed to encode session %s: %w", sessionID, err)
	}

	if err := s.client.rdb.Set(ctx, sessionKey(sessionID), data, SessionTTL).Err(); err != nil {
		return fmt.Errorf("failed to save session %s: %w", sessionID, err)
	}
	return nil
}

func encodeMessages(messages []domain.Message) ([]byte, error) {
	if messages == nil {
		messages = []domain.Message{}
	}
	return json.Marshal(messages)
}

func decodeMessages(data []byte) ([]domain.Message, error) {
	var messages []domain.Message
	if err := json.Unmarshal(data, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}
