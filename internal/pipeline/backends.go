package pipeline

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/hospitality-cli/pkg/anthropic"
	"github.com/sells-group/hospitality-cli/pkg/perplexity"
)

// Sampling parameters shared by both research backends. Low temperature
// keeps the two-line answer format stable.
const (
	researchTemperature = 0.2
	researchMaxTokens   = 1000
)

// ResearchClient is the seam to a natural-language research backend. Both
// the primary resolver and the verification synthesis pass go through it.
type ResearchClient interface {
	Research(ctx context.Context, system, query string) (string, error)
}

// Compile-time interface checks.
var (
	_ ResearchClient = (*PerplexityBackend)(nil)
	_ ResearchClient = (*AnthropicBackend)(nil)
)

// PerplexityBackend answers research queries via Perplexity's search-grounded
// chat completions.
type PerplexityBackend struct {
	Client perplexity.Client
	Model  string
}

// Research implements ResearchClient.
func (b *PerplexityBackend) Research(ctx context.Context, system, query string) (string, error) {
	temp := researchTemperature
	maxTokens := researchMaxTokens
	resp, err := b.Client.ChatCompletion(ctx, perplexity.ChatCompletionRequest{
		Model: b.Model,
		Messages: []perplexity.Message{
			{Role: "system", Content: system},
			{Role: "user", Content: query},
		},
		Temperature: &temp,
		MaxTokens:   &maxTokens,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", eris.New("pipeline: no choices in perplexity response")
	}
	return resp.Choices[0].Message.Content, nil
}

// AnthropicBackend answers research queries via the Claude Messages API.
// Claude has no live web access, so answers come from model knowledge; the
// verification pass matters more on this backend.
type AnthropicBackend struct {
	Client anthropic.Client
	Model  string
}

// Research implements ResearchClient.
func (b *AnthropicBackend) Research(ctx context.Context, system, query string) (string, error) {
	temp := researchTemperature
	resp, err := b.Client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:       b.Model,
		MaxTokens:   researchMaxTokens,
		System:      system,
		Messages:    []anthropic.Message{{Role: "user", Content: query}},
		Temperature: &temp,
	})
	if err != nil {
		return "", err
	}
	resp.Usage.LogCost(b.Model, "research")
	return resp.Text(), nil
}
