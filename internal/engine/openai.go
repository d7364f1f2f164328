package engine

import (
	"context"

	"github.com/devprompt/devprompt/internal/openai"
)

// OpenAIEngine adapts the internal/openai.Client (any OpenAI-compatible
// chat-completions endpoint) to the Engine interface.
type OpenAIEngine struct {
	client *openai.Client
}

// NewOpenAIEngine creates an OpenAIEngine for the given endpoint and key.
func NewOpenAIEngine(baseURL, apiKey string) *OpenAIEngine {
	return &OpenAIEngine{client: openai.New(baseURL, apiKey)}
}

func (e *OpenAIEngine) Chat(ctx context.Context, model string, messages []Message, jsonSchema *Schema) (string, error) {
	msgs := make([]openai.Message, len(messages))
	for i, m := range messages {
		msgs[i] = openai.Message{Role: m.Role, Content: m.Content}
	}

	var s *openai.Schema
	if jsonSchema != nil {
		s = &openai.Schema{
			Type:     jsonSchema.Type,
			Required: jsonSchema.Required,
		}
		if jsonSchema.Properties != nil {
			s.Properties = make(map[string]openai.SchemaProperty, len(jsonSchema.Properties))
			for k, v := range jsonSchema.Properties {
				s.Properties[k] = openai.SchemaProperty{Type: v.Type, Description: v.Description}
			}
		}
	}

	return e.client.Chat(ctx, model, msgs, s)
}

func (e *OpenAIEngine) IsRunning(ctx context.Context) bool {
	return e.client.IsRunning(ctx)
}
