package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/khesht/khesht-api/internal/domain"
	"github.com/khesht/khesht-api/internal/llm"
	"google.golang.org/api/option"
)

// Provider implements llm.Provider for Google Gemini with function calling
type Provider struct {
	apiKey string
	model  string
}

// NewProvider creates a new Gemini provider
func NewProvider(apiKey, model string) *Provider {
	return &Provider{
		apiKey: apiKey,
		model:  model,
	}
}

func (p *Provider) Name() string {
	return "gemini"
}

func (p *Provider) AvailableModels() []string {
	return []string{
		"gemini-2.5-flash",
		"gemini-2.0-flash",
		"gemini-1.5-flash",
		"gemini-1.5-pro",
	}
}

func (p *Provider) DefaultModel() string {
	if p.model != "" {
		return p.model
	}
	return "gemini-2.5-flash"
}

func (p *Provider) IsConfigured() bool {
	return p.apiKey != ""
}

// Chat sends one conversational turn to Gemini
func (p *Provider) Chat(ctx context.Context, req llm.Request, model string) (*llm.Response, error) {
	if !p.IsConfigured() {
		return nil, fmt.Errorf("gemini provider is not configured (missing API key)")
	}

	if model == "" {
		model = p.DefaultModel()
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(p.apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	defer client.Close()

	generativeModel := client.GenerativeModel(model)
	if req.SystemPrompt != "" {
		generativeModel.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(req.SystemPrompt)},
		}
	}
	if len(req.Tools) > 0 {
		generativeModel.Tools = buildTools(req.Tools)
	}

	chat := generativeModel.StartChat()
	chat.History = buildHistory(req.History)

	start := time.Now()
	resp, err := chat.SendMessage(ctx, genai.Text(req.UserMessage))
	latency := time.Since(start).Milliseconds()

	if err != nil {
		return nil, fmt.Errorf("gemini generation error: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("empty response from gemini")
	}

	out := &llm.Response{
		Model:     model,
		LatencyMs: latency,
	}
	if resp.UsageMetadata != nil {
		out.TokensUsed = int(resp.UsageMetadata.TotalTokenCount)
	}

	for _, part := range resp.Candidates[0].Content.Parts {
		switch v := part.(type) {
		case genai.Text:
			out.Content += string(v)
		case genai.FunctionCall:
			if out.ToolCall != nil {
				continue
			}
			args, err := json.Marshal(v.Args)
			if err != nil {
				return nil, fmt.Errorf("failed to encode gemini function args: %w", err)
			}
			out.ToolCall = &llm.ToolCall{Name: v.Name, Arguments: args}
		}
	}

	return out, nil
}

// buildHistory converts persisted messages to Gemini chat content. Gemini
// knows only the "user" and "model" roles; the system prompt travels as
// SystemInstruction instead.
func buildHistory(history []domain.Message) []*genai.Content {
	var contents []*genai.Content
	for _, m := range history {
		role := "user"
		if m.Role == domain.RoleAssistant {
			role = "model"
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(m.Content)},
		})
	}
	return contents
}

// buildTools converts tool schemas to Gemini function declarations. Only
// string-typed parameters are declared; the retrieval tool takes a single
// free-text query.
func buildTools(tools []llm.ToolSchema) []*genai.Tool {
	var decls []*genai.FunctionDeclaration
	for _, t := range tools {
		props := make(map[string]*genai.Schema, len(t.Parameters))
		for name, raw := range t.Parameters {
			prop := &genai.Schema{Type: genai.TypeString}
			if attrs, ok := raw.(map[string]any); ok {
				if desc, ok := attrs["description"].(string); ok {
					prop.Description = desc
				}
			}
			props[name] = prop
		}
		decls = append(decls, &genai.FunctionDeclaration{
			Name:        t.Name,
			Description: t.Description,
			Parameters: &genai.Schema{
				Type:       genai.TypeObject,
				Properties: props,
				Required:   t.Required,
			},
		})
	}
	return []*genai.Tool{{FunctionDeclarations: decls}}
}
