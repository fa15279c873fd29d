package tutor

import (
	"context"
	"errors"
	"fmt"

	"github.com/DeadlyParkour777/cpp-simulator/internal/types"
	openai "github.com/sashabaranov/go-openai"
)

const (
	maxTokens   = 1000
	temperature = 0.7
)

type OpenAIModel struct {
	client *openai.Client
	model  string
}

func NewOpenAIModel(apiKey, baseURL, model string) *OpenAIModel {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIModel{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

func (m *OpenAIModel) Complete(ctx context.Context, messages []types.ChatMessage) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       m.model,
		MaxTokens:   maxTokens,
		Temperature: temperature,
		Messages:    make([]openai.ChatCompletionMessage, 0, len(messages)),
	}
	for _, msg := range messages {
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{Role: msg.Role, Content: msg.Content})
	}

	resp, err := m.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
