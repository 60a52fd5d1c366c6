// Package reply produces best-effort assistant replies through a bounded
// fallback ladder over one or two chat-completion backends.
package reply

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	openai "github.com/sashabaranov/go-openai"
)

// Turn is one prior conversation turn passed as model context.
type Turn struct {
	Role    string
	Content string
}

// GenerateRequest describes a single backend attempt.
type GenerateRequest struct {
	Model        string
	SystemPrompt string
	Turns        []Turn
	MaxTokens    int
	// Compatibility forces conservative request parameters that newer
	// reasoning models reject but older models expect.
	Compatibility bool
}

// Backend generates a reply for a single attempt. An empty string with a
// nil error is treated as a failure by the chain.
type Backend interface {
	Generate(ctx context.Context, req GenerateRequest) (string, error)
}

const (
	defaultTimeout           = 60 * time.Second
	compatibilityTemperature = 0.6
)

// OpenAIBackend implements Backend on the OpenAI chat completion API. One
// client serves both ladder tiers; the compatibility flag selects the
// conservative parameter set.
type OpenAIBackend struct {
	client  *openai.Client
	timeout time.Duration
}

// NewOpenAIBackend creates a backend for the given credentials. An empty
// baseURL uses the public API endpoint. The timeout bounds each attempt.
func NewOpenAIBackend(apiKey, baseURL string, timeout time.Duration) *OpenAIBackend {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &OpenAIBackend{
		client:  openai.NewClientWithConfig(cfg),
		timeout: timeout,
	}
}

// Generate performs one chat completion attempt.
func (b *OpenAIBackend) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	messages := make([]openai.ChatCompletionMessage, 0, len(req.Turns)+1)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: req.SystemPrompt,
	})
	for _, turn := range req.Turns {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    turn.Role,
			Content: turn.Content,
		})
	}

	completion := openai.ChatCompletionRequest{
		Model:    req.Model,
		Messages: messages,
	}
	if req.MaxTokens > 0 {
		completion.MaxTokens = req.MaxTokens
	}
	if req.Compatibility {
		completion.Temperature = compatibilityTemperature
	}

	resp, err := b.client.CreateChatCompletion(ctx, completion)
	if err != nil {
		return "", errors.Wrapf(err, "chat completion with %s", req.Model)
	}
	if len(resp.Choices) == 0 {
		return "", errors.Errorf("empty response from %s", req.Model)
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
