package reply

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedBackend returns canned results per model, recording every request.
type scriptedBackend struct {
	results  map[string]string
	errs     map[string]error
	requests []GenerateRequest
}

func (b *scriptedBackend) Generate(_ context.Context, req GenerateRequest) (string, error) {
	b.requests = append(b.requests, req)
	if err := b.errs[req.Model]; err != nil {
		return "", err
	}
	return b.results[req.Model], nil
}

func newChain(backend Backend) *Chain {
	return NewChain(backend, ChainConfig{
		PrimaryModel:  "primary-model",
		FallbackModel: "fallback-model",
		MaxTokens:     900,
	})
}

func TestChain_PrimarySucceedsFirstAttempt(t *testing.T) {
	backend := &scriptedBackend{results: map[string]string{"primary-model": "jawaban"}}
	chain := newChain(backend)

	got := chain.GetReply(context.Background(), "halo", []Turn{{Role: "user", Content: "sebelumnya"}})
	assert.Equal(t, "jawaban", got)
	require.Len(t, backend.requests, 1)

	// Full context: history plus the new message.
	assert.Len(t, backend.requests[0].Turns, 2)
	assert.False(t, backend.requests[0].Compatibility)
}

func TestChain_FallsBackToSecondaryAfterTwoEmptyAttempts(t *testing.T) {
	backend := &scriptedBackend{results: map[string]string{
		"primary-model":  "",
		"fallback-model": "OK",
	}}
	chain := newChain(backend)

	got := chain.GetReply(context.Background(), "halo", nil)
	assert.Equal(t, "OK", got)
	require.Len(t, backend.requests, 3)

	assert.Equal(t, "primary-model", backend.requests[0].Model)
	assert.Equal(t, "primary-model", backend.requests[1].Model)
	assert.Equal(t, "fallback-model", backend.requests[2].Model)
	assert.True(t, backend.requests[2].Compatibility)
}

func TestChain_SecondAttemptDropsHistory(t *testing.T) {
	backend := &scriptedBackend{results: map[string]string{}}
	chain := newChain(backend)

	history := []Turn{
		{Role: "user", Content: "a"},
		{Role: "assistant", Content: "b"},
	}
	chain.GetReply(context.Background(), "pertanyaan", history)

	require.Len(t, backend.requests, 3)
	assert.Len(t, backend.requests[0].Turns, 3)
	assert.Len(t, backend.requests[1].Turns, 1)
	assert.Equal(t, "pertanyaan", backend.requests[1].Turns[0].Content)
}

func TestChain_BackendErrorsAreAbsorbed(t *testing.T) {
	backend := &scriptedBackend{
		errs:    map[string]error{"primary-model": errors.New("boom")},
		results: map[string]string{"fallback-model": "selamat"},
	}
	chain := newChain(backend)

	assert.NotPanics(t, func() {
		got := chain.GetReply(context.Background(), "halo", nil)
		assert.Equal(t, "selamat", got)
	})
}

func TestChain_ApologyWhenAllAttemptsEmpty(t *testing.T) {
	backend := &scriptedBackend{results: map[string]string{}}
	chain := newChain(backend)

	got := chain.GetReply(context.Background(), "halo", nil)
	assert.Equal(t, ApologyText, got)
	assert.Len(t, backend.requests, 3)
}

func TestChain_ShortModeShrinksTokenBudget(t *testing.T) {
	backend := &scriptedBackend{results: map[string]string{"primary-model": "singkat"}}
	chain := newChain(backend)

	chain.GetReply(context.Background(), "halo", nil, WithShortMode())
	require.Len(t, backend.requests, 1)
	assert.Equal(t, 300, backend.requests[0].MaxTokens)

	// The floor applies for small budgets.
	assert.Equal(t, 200, shortTokens(300))
}

func TestSystemPrompt_SubstitutesModelName(t *testing.T) {
	prompt := SystemPrompt("primary-model")
	assert.Contains(t, prompt, `"primary-model"`)
	assert.NotContains(t, prompt, "{{MODEL_NAME}}")
}
