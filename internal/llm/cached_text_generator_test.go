package llm

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"nutrition-advisor/internal/shared"
)

type countingGen struct {
	calls int
	err   error
}

func (g *countingGen) GenerateContent(ctx context.Context, prompt string) (ContentResponse, error) {
	g.calls++
	if g.err != nil {
		return ContentResponse{}, g.err
	}
	return ContentResponse{
		Content: "response to " + prompt,
		Usage:   shared.TokenUsage{PromptTokens: 10, CompletionTokens: 5, Model: "fake"},
	}, nil
}

func TestCachedTextGenerator(t *testing.T) {
	ctx := context.Background()
	cachePath := filepath.Join(t.TempDir(), "cache", "llm.json")
	real := &countingGen{}

	gen, err := NewCachedTextGenerator(real, cachePath)
	if err != nil {
		t.Fatalf("Failed to create generator: %v", err)
	}

	first, err := gen.GenerateContent(ctx, "idli")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if first.Usage.PromptTokens != 10 {
		t.Errorf("Expected usage from the real generator, got %+v", first.Usage)
	}

	second, err := gen.GenerateContent(ctx, "idli")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if real.calls != 1 {
		t.Errorf("Expected one real call, got %d", real.calls)
	}
	if second.Content != first.Content || second.Usage.PromptTokens != 0 {
		t.Errorf("Expected cached content with no usage, got %+v", second)
	}

	t.Run("Reload", func(t *testing.T) {
		reloaded, err := NewCachedTextGenerator(&countingGen{}, cachePath)
		if err != nil {
			t.Fatalf("Failed to reload cache: %v", err)
		}
		if reloaded.Len() != 1 {
			t.Errorf("Expected 1 cached entry, got %d", reloaded.Len())
		}
	})

	t.Run("ErrorsAreNotCached", func(t *testing.T) {
		failing := &countingGen{err: errors.New("boom")}
		g, err := NewCachedTextGenerator(failing, filepath.Join(t.TempDir(), "llm.json"))
		if err != nil {
			t.Fatalf("Failed to create generator: %v", err)
		}
		if _, err := g.GenerateContent(ctx, "dosa"); err == nil {
			t.Fatal("Expected an error, got nil")
		}
		if g.Len() != 0 {
			t.Errorf("Expected empty cache after a failure, got %d", g.Len())
		}
	})
}
