package redis

import (
	"testing"
	"time"

	"github.com/khesht/khesht-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionKey(t *testing.T) {
	assert.Equal(t, "chat_session:abc-123", sessionKey("abc-123"))
}

func TestSessionTTL(t *testing.T) {
	assert.Equal(t, 24*time.Hour, SessionTTL)
}

func TestMessageRoundTrip(t *testing.T) {
	messages := []domain.Message{
		{Role: domain.RoleUser, Content: "Find a villa in Rasht"},
		{Role: domain.RoleAssistant, Content: "query: villa Rasht\nsuggested listings: Forest Villa (villa, Rasht)"},
		{Role: domain.RoleUser, Content: "What about cheaper options?"},
	}

	data, err := encodeMessages(messages)
	require.NoError(t, err)

	decoded, err := decodeMessages(data)
	require.NoError(t, err)

	// Round trip preserves both content and insertion order
	assert.Equal(t, messages, decoded)
}

func TestMessageRoundTrip_Empty(t *testing.T) {
	data, err := encodeMessages(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))

	decoded, err := decodeMessages(data)
	require.NoError(t, err)
	assert.Empty(t, decoded)
}

func TestDecodeMessages_WireFormat(t *testing.T) {
	// The stored shape matches the provider message shape: role + content
	data := []byte(`[{"role":"user","content":"hi"},{"role":"assistant","content":"hello"}]`)

	decoded, err := decodeMessages(data)
	require.NoError(t, err)

	require.Len(t, decoded, 2)
	assert.Equal(t, domain.RoleUser, decoded[0].Role)
	assert.Equal(t, "hi", decoded[0].Content)
	assert.Equal(t, domain.RoleAssistant, decoded[1].Role)
}

func TestDecodeMessages_Malformed(t *testing.T) {
	_, err := decodeMessages([]byte(`{not json`))
	assert.Error(t, err)
}
