package ai

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicProvider implements Provider using Claude for completions.
// Anthropic does not offer an embeddings endpoint, so embedding calls
// are delegated to a companion provider (usually Ollama or OpenAI).
type AnthropicProvider struct {
	client   anthropic.Client
	model    string
	embedder Provider
}

// AnthropicConfig configures an Anthropic provider.
type AnthropicConfig struct {
	APIKey string
	Model  string
	// Embedder handles Embed calls; required.
	Embedder Provider
}

// NewAnthropicProvider creates a Claude-backed provider.
func NewAnthropicProvider(cfg AnthropicConfig) (*AnthropicProvider, error) {
	if cfg.Embedder == nil {
		return nil, fmt.Errorf("anthropic provider requires an embedder")
	}

	return &AnthropicProvider{
		client:   anthropic.NewClient(option.WithAPIKey(cfg.APIKey)),
		model:    cfg.Model,
		embedder: cfg.Embedder,
	}, nil
}

// Embed delegates to the configured embedding provider.
func (p *AnthropicProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	return p.embedder.Embed(ctx, text)
}

// Complete sends the prompt as a single user message and returns the
// model's reply text.
func (p *AnthropicProvider) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		MaxTokens: 1024,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic chat: %w", err)
	}

	var text string
	for _, block := range resp.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}

	return text, nil
}
