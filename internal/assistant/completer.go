package assistant

import (
	"context"
	"errors"
	"log/slog"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/frahmantamala/academic-requests/internal"
)

// Completer produces a model answer for one system prompt and one user turn.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

var errNoAPIKey = errors.New("OPENAI_API_KEY is not configured")

type OpenAICompleter struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	logger  *slog.Logger
}

// NewOpenAICompleter returns a completer that fails every call when no API
// key is configured, so the canned intents keep working without one.
func NewOpenAICompleter(cfg internal.AssistantConfig, logger *slog.Logger) *OpenAICompleter {
	c := &OpenAICompleter{
		model:   cfg.Model,
		timeout: cfg.Timeout,
		logger:  logger,
	}
	if c.model == "" {
		c.model = openai.GPT3Dot5Turbo
	}
	if cfg.Enabled() {
		clientCfg := openai.DefaultConfig(cfg.APIKey)
		if cfg.BaseURL != "" {
			clientCfg.BaseURL = cfg.BaseURL
		}
		c.client = openai.NewClientWithConfig(clientCfg)
	}
	return c
}

func (c *OpenAICompleter) Complete(ctx context.Context, system, user string) (string, error) {
	if c.client == nil {
		return "", errNoAPIKey
	}
	ctx, cancel := internal.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	})
	if err != nil {
		c.logger.Error("chat completion failed", "model", c.model, "error", err)
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}

	c.logger.Debug("chat completion finished",
		"model", c.model,
		"duration_ms", time.Since(start).Milliseconds(),
		"total_tokens", resp.Usage.TotalTokens)
	return resp.Choices[0].Message.Content, nil
}
