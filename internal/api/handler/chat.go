package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/khesht/khesht-api/internal/api/response"
	"github.com/khesht/khesht-api/internal/domain"
	"github.com/rs/zerolog/log"
)

var validate = validator.New()

// TurnService executes one conversational turn
type TurnService interface {
	HandleTurn(ctx context.Context, prompt, sessionID string) (*domain.TurnResult, error)
}

// ChatHandler handles the conversational endpoint
type ChatHandler struct {
	turns TurnService
}

// NewChatHandler creates a new chat handler
func NewChatHandler(turns TurnService) *ChatHandler {
	return &ChatHandler{turns: turns}
}

// UserPromptRequest is the body for POST /user-prompt
type UserPromptRequest struct {
	Prompt    string `json:"prompt" validate:"required"`
	SessionID string `json:"session_id"`
}

// UserPromptResponse carries the ranked listings, the session id (existing
// or freshly minted) and the assistant's text when present
type UserPromptResponse struct {
	Places    []domain.ListingRecord `json:"places"`
	SessionID string                 `json:"session_id"`
	Answer    string                 `json:"answer,omitempty"`
}

// UserPrompt handles one conversational turn
func (h *ChatHandler) UserPrompt(w http.ResponseWriter, r *http.Request) {
	var req UserPromptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	result, err := h.turns.HandleTurn(r.Context(), req.Prompt, req.SessionID)
	if err != nil {
		// Hard turn failures map to one generic outcome; the internal error
		// kind stays in the logs.
		log.Error().Err(err).Str("session_id", req.SessionID).Msg("conversational turn failed")
		response.InternalError(w, "failed to process prompt")
		return
	}

	places := result.Listings
	if places == nil {
		places = []domain.ListingRecord{}
	}

	response.OK(w, UserPromptResponse{
		Places:    places,
		SessionID: result.SessionID,
		Answer:    result.AssistantText,
	})
}
