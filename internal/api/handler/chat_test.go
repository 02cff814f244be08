package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/khesht/khesht-api/internal/api/response"
	"github.com/khesht/khesht-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockTurnService struct {
	mock.Mock
}

func (m *MockTurnService) HandleTurn(ctx context.Context, prompt, sessionID string) (*domain.TurnResult, error) {
	args := m.Called(ctx, prompt, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TurnResult), args.Error(1)
}

func postPrompt(t *testing.T, h *ChatHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("POST", "/api/v1/user-prompt", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.UserPrompt(rec, req)
	return rec
}

func TestUserPrompt_Success(t *testing.T) {
	turns := new(MockTurnService)
	turns.On("HandleTurn", mock.Anything, "Find a villa in Rasht", "").
		Return(&domain.TurnResult{
			Listings: []domain.ListingRecord{
				{Title: "River Lodge", Kind: "lodge", City: "Rasht", SimilarityScore: 0.8},
			},
			SessionID: "session-1",
		}, nil)

	h := NewChatHandler(turns)
	rec := postPrompt(t, h, `{"prompt":"Find a villa in Rasht"}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp response.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)

	data, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var body UserPromptResponse
	require.NoError(t, json.Unmarshal(data, &body))

	assert.Equal(t, "session-1", body.SessionID)
	require.Len(t, body.Places, 1)
	assert.Equal(t, "River Lodge", body.Places[0].Title)
	turns.AssertExpectations(t)
}

func TestUserPrompt_ForwardsSessionID(t *testing.T) {
	turns := new(MockTurnService)
	turns.On("HandleTurn", mock.Anything, "more", "session-7").
		Return(&domain.TurnResult{SessionID: "session-7", AssistantText: "Sure."}, nil)

	h := NewChatHandler(turns)
	rec := postPrompt(t, h, `{"prompt":"more","session_id":"session-7"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	turns.AssertExpectations(t)
}

func TestUserPrompt_EmptyListingsSerializeAsArray(t *testing.T) {
	turns := new(MockTurnService)
	turns.On("HandleTurn", mock.Anything, "hello", "").
		Return(&domain.TurnResult{SessionID: "session-1", AssistantText: "Hi!"}, nil)

	h := NewChatHandler(turns)
	rec := postPrompt(t, h, `{"prompt":"hello"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	// nil listings must not render as null
	assert.Contains(t, rec.Body.String(), `"places":[]`)
}

func TestUserPrompt_MissingPrompt(t *testing.T) {
	turns := new(MockTurnService)
	h := NewChatHandler(turns)

	rec := postPrompt(t, h, `{"session_id":"session-1"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	turns.AssertNotCalled(t, "HandleTurn", mock.Anything, mock.Anything, mock.Anything)
}

func TestUserPrompt_InvalidBody(t *testing.T) {
	h := NewChatHandler(new(MockTurnService))

	rec := postPrompt(t, h, `{not json`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUserPrompt_TurnFailure(t *testing.T) {
	turns := new(MockTurnService)
	turns.On("HandleTurn", mock.Anything, "hello", "").
		Return(nil, errors.New("redis down"))

	h := NewChatHandler(turns)
	rec := postPrompt(t, h, `{"prompt":"hello"}`)

	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp response.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	// Internal failure detail must not leak to the caller
	assert.Equal(t, "failed to process prompt", resp.Error)
	assert.NotContains(t, rec.Body.String(), "redis")
}
