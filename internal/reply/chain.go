package reply

import (
	"context"
	"log/slog"
	"strings"
)

// ApologyText is returned when every ladder step comes back empty.
const ApologyText = "Maaf, aku tidak mendapat jawaban. Bisa kirim ulang dengan kalimat lain?"

const (
	defaultMaxTokens = 1000
	minShortTokens   = 200
)

// ChainConfig configures the fallback ladder.
type ChainConfig struct {
	// PrimaryModel handles the first two attempts.
	PrimaryModel string
	// FallbackModel handles the final, maximally compatible attempt.
	FallbackModel string
	// MaxTokens is the generous per-reply token budget.
	MaxTokens int
}

// Chain is the reply fallback ladder: primary model with full context,
// primary model with history dropped, then the fallback model with
// compatibility settings. GetReply never fails.
type Chain struct {
	backend Backend
	cfg     ChainConfig
	logger  *slog.Logger
}

// NewChain creates a chain over backend.
func NewChain(backend Backend, cfg ChainConfig) *Chain {
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = defaultMaxTokens
	}
	return &Chain{
		backend: backend,
		cfg:     cfg,
		logger:  slog.Default(),
	}
}

// SetLogger sets a custom logger.
func (c *Chain) SetLogger(logger *slog.Logger) {
	c.logger = logger
}

type replyOptions struct {
	short bool
}

// Option adjusts a single GetReply call.
type Option func(*replyOptions)

// WithShortMode shrinks the token budget for terse replies.
func WithShortMode() Option {
	return func(o *replyOptions) { o.short = true }
}

// GetReply walks the ladder until an attempt returns non-empty text. Every
// backend failure is absorbed and logged; the fixed apology text is the
// last resort.
func (c *Chain) GetReply(ctx context.Context, text string, turns []Turn, opts ...Option) string {
	var options replyOptions
	for _, opt := range opts {
		opt(&options)
	}

	maxTokens := c.cfg.MaxTokens
	if options.short {
		maxTokens = shortTokens(c.cfg.MaxTokens)
	}

	userTurn := Turn{Role: "user", Content: text}

	attempts := []GenerateRequest{
		{
			Model:        c.cfg.PrimaryModel,
			SystemPrompt: SystemPrompt(c.cfg.PrimaryModel),
			Turns:        append(append([]Turn{}, turns...), userTurn),
			MaxTokens:    maxTokens,
		},
		{
			Model:        c.cfg.PrimaryModel,
			SystemPrompt: SystemPrompt(c.cfg.PrimaryModel),
			Turns:        []Turn{userTurn},
			MaxTokens:    maxTokens,
		},
		{
			Model:         c.cfg.FallbackModel,
			SystemPrompt:  SystemPrompt(c.cfg.FallbackModel),
			Turns:         []Turn{userTurn},
			MaxTokens:     maxTokens,
			Compatibility: true,
		},
	}

	for i, req := range attempts {
		result, err := c.backend.Generate(ctx, req)
		if err != nil {
			c.logger.Warn("reply attempt failed",
				"attempt", i+1,
				"model", req.Model,
				"error", err,
			)
			continue
		}
		if strings.TrimSpace(result) != "" {
			return strings.TrimSpace(result)
		}
		c.logger.Warn("reply attempt returned empty content",
			"attempt", i+1,
			"model", req.Model,
		)
	}

	c.logger.Warn("all reply attempts exhausted, using apology text")
	return ApologyText
}

func shortTokens(budget int) int {
	short := budget / 3
	if short < minShortTokens {
		return minShortTokens
	}
	return short
}
