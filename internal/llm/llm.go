package llm

import (
	"context"
	"errors"
	"fmt"

	"nutrition-advisor/internal/config"
	"nutrition-advisor/internal/shared"
)

// ErrNoProvider is returned by New when no LLM provider is configured.
var ErrNoProvider = errors.New("no LLM provider configured")

// ContentResponse contains the generated text and metadata like token usage.
type ContentResponse struct {
	Content string
	Usage   shared.TokenUsage
}

// TextGenerator is an interface for generating text from a prompt.
type TextGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (ContentResponse, error)
}

// Closer is an interface for closing resources.
type Closer interface {
	Close() error
}

// New returns the text generator selected by cfg.LLMProvider.
func New(ctx context.Context, cfg *config.Config) (TextGenerator, error) {
	switch cfg.LLMProvider {
	case "gemini":
		client, err := NewGeminiClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return client, nil
	case "groq":
		return NewGroqClient(cfg), nil
	case "":
		return nil, ErrNoProvider
	default:
		return nil, fmt.Errorf("unsupported LLM provider %q", cfg.LLMProvider)
	}
}
