package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/khesht/khesht-api/internal/config"
	"github.com/khesht/khesht-api/internal/domain"
	"github.com/khesht/khesht-api/internal/llm"
	"github.com/rs/zerolog/log"
)

// similarRoomsTool is the single tool exposed to the model
const similarRoomsTool = "query_similar_rooms"

const defaultSystemPrompt = `You're a friendly and down-to-earth assistant helping people find lodges and villas, and plan their trips in Iran, all in Persian.
You speak naturally and kindly, like a real person having a helpful conversation.
You can use the following tool:
- query_similar_rooms: Use this to search for lodges and villas based on what the user needs.
`

// queryTools is the closed set of tools declared on every model call
var queryTools = []llm.ToolSchema{
	{
		Name:        similarRoomsTool,
		Description: "Search for lodges and villas based on user preferences",
		Parameters: map[string]any{
			"query": map[string]any{
				"type":        "string",
				"description": "The search query describing the desired accommodation",
			},
		},
		Required: []string{"query"},
	},
}

// ChatService drives one conversational turn: it loads the session history,
// asks the model to either answer directly or invoke the retrieval tool,
// dispatches the tool when requested, and persists the updated history.
type ChatService struct {
	store        domain.SessionStore
	llmRouter    *llm.Router
	retriever    *Retriever
	systemPrompt string
	resultLimit  int
}

// NewChatService creates a new chat service
func NewChatService(store domain.SessionStore, llmRouter *llm.Router, retriever *Retriever, cfg config.ChatConfig) *ChatService {
	systemPrompt := cfg.SystemPrompt
	if systemPrompt == "" {
		systemPrompt = defaultSystemPrompt
	}
	resultLimit := cfg.ResultLimit
	if resultLimit <= 0 {
		resultLimit = defaultResultLimit
	}
	return &ChatService{
		store:        store,
		llmRouter:    llmRouter,
		retriever:    retriever,
		systemPrompt: systemPrompt,
		resultLimit:  resultLimit,
	}
}

// HandleTurn processes one user prompt within a session. A missing session
// id mints a fresh one. The turn fails hard only on a model-call error or a
// history-persistence error; history-load and retrieval failures degrade to
// an empty history and an empty listing set respectively.
func (s *ChatService) HandleTurn(ctx context.Context, prompt, sessionID string) (*domain.TurnResult, error) {
	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	history, err := s.store.Load(ctx, sessionID)
	if err != nil {
		log.Warn().Err(err).Str("session_id", sessionID).
			Msg("failed to load session history, continuing with empty context")
		history = nil
	}

	provider, err := s.llmRouter.GetProvider("")
	if err != nil {
		return nil, fmt.Errorf("failed to get LLM provider: %w", err)
	}

	resp, err := provider.Chat(ctx, llm.Request{
		SystemPrompt: s.systemPrompt,
		History:      history,
		UserMessage:  prompt,
		Tools:        queryTools,
	}, "")
	if err != nil {
		return nil, fmt.Errorf("model call failed: %w", err)
	}

	var listings []domain.ListingRecord
	var assistantContent string

	if resp.ToolCall != nil {
		query := parseQueryArgument(resp.ToolCall.Arguments)

		if resp.ToolCall.Name == similarRoomsTool {
			log.Debug().Str("session_id", sessionID).Str("query", query).
				Msg("dispatching similarity search")
			listings = s.retriever.Query(ctx, query, s.resultLimit)
		} else {
			// Unrecognized tool names are a no-op with an empty result set
			log.Warn().Str("tool", resp.ToolCall.Name).Str("session_id", sessionID).
				Msg("model requested unknown tool")
		}

		assistantContent = formatToolSummary(query, listings)
	} else {
		assistantContent = resp.Content
	}

	// The user message is persisted along with the assistant's turn so the
	// model sees past questions, not just past answers, on reload.
	updated := make([]domain.Message, 0, len(history)+2)
	updated = append(updated, history...)
	updated = append(updated,
		domain.Message{Role: domain.RoleUser, Content: prompt},
		domain.Message{Role: domain.RoleAssistant, Content: assistantContent},
	)

	if err := s.store.Save(ctx, sessionID, updated); err != nil {
		return nil, fmt.Errorf("failed to persist session history: %w", err)
	}

	return &domain.TurnResult{
		Listings:      listings,
		SessionID:     sessionID,
		AssistantText: resp.Content,
	}, nil
}

// parseQueryArgument extracts the query string from a tool argument payload.
// Malformed payloads degrade to an empty query rather than failing the turn.
func parseQueryArgument(raw json.RawMessage) string {
	var args struct {
		Query string `json:"query"`
	}
	if err := json.Unmarshal(raw, &args); err != nil {
		log.Warn().Err(err).Msg("malformed tool arguments, using empty query")
		return ""
	}
	return args.Query
}

// formatToolSummary renders the assistant history entry for a tool turn:
// the query the model chose plus the listings it surfaced.
func formatToolSummary(query string, listings []domain.ListingRecord) string {
	if len(listings) == 0 {
		return fmt.Sprintf("query: %s\nno matching listings found", query)
	}

	titles := make([]string, 0, len(listings))
	for _, l := range listings {
		titles = append(titles, fmt.Sprintf("%s (%s, %s)", l.Title, l.Kind, l.City))
	}
	return fmt.Sprintf("query: %s\nsuggested listings: %s", query, strings.Join(titles, "; "))
}
