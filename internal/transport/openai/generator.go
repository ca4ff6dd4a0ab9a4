package openai

import (
	"context"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/carneosk-source/carneo-ai-bot/internal/domain"
)

// Generator produces answers via the chat completions API.
type Generator struct {
	client      *openai.Client
	model       string
	temperature float32
	logger      *zap.Logger
}

// NewGenerator creates a chat completion provider.
func NewGenerator(cfg *Config) *Generator {
	return &Generator{
		client:      newClient(cfg),
		model:       cfg.ChatModel,
		temperature: cfg.Temperature,
		logger:      cfg.Logger,
	}
}

// Generate runs one system+user exchange and returns the assistant text.
func (g *Generator) Generate(ctx context.Context, system, user string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       g.model,
		Temperature: g.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	}

	start := time.Now()
	resp, err := g.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", parseAPIError(err, domain.ErrGenerationProviderError)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty completion response: %w", domain.ErrGenerationProviderError)
	}

	g.logger.Debug("Chat completion finished",
		zap.String("model", g.model),
		zap.Duration("latency", time.Since(start)),
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens),
	)

	return resp.Choices[0].Message.Content, nil
}
