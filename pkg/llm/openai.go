package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// openAIBackend talks to OpenAI-compatible chat completion endpoints.
// Web search is up to the model, search-preview models do it on their own.
type openAIBackend struct {
	endpoint    string
	model       string
	temperature float64
	maxTokens   int
}

func (o *openAIBackend) generate(ctx context.Context, req generateRequest) (string, error) {
	clientConfig := openai.DefaultConfig(req.APIKey)
	if o.endpoint != "" {
		clientConfig.BaseURL = o.endpoint
	}
	client := openai.NewClientWithConfig(clientConfig)

	chatReq := openai.ChatCompletionRequest{
		Model:     o.model,
		MaxTokens: o.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: req.System,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: req.Prompt,
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   "app_analysis",
				Schema: req.Schema,
			},
		},
	}

	// search models reject sampling parameters
	if !strings.Contains(o.model, "search") {
		chatReq.Temperature = float32(o.temperature)
	}

	resp, err := client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return "", fmt.Errorf("llm request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", nil // reported as an empty answer
	}
	return resp.Choices[0].Message.Content, nil
}
