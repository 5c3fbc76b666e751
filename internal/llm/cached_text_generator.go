package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"nutrition-advisor/internal/logger"

	"go.uber.org/zap"
)

// CachedTextGenerator wraps a TextGenerator and caches responses by prompt in
// a JSON file, so the same dish is never estimated twice.
type CachedTextGenerator struct {
	realGen       TextGenerator
	cache         map[string]string
	cacheFilePath string
	mu            sync.Mutex
}

// NewCachedTextGenerator creates a new CachedTextGenerator.
// It attempts to load the cache from the specified file path.
func NewCachedTextGenerator(realGen TextGenerator, cacheFilePath string) (*CachedTextGenerator, error) {
	c := &CachedTextGenerator{
		realGen:       realGen,
		cache:         make(map[string]string),
		cacheFilePath: cacheFilePath,
	}

	cacheDir := filepath.Dir(cacheFilePath)
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory %s: %w", cacheDir, err)
	}

	data, err := os.ReadFile(cacheFilePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Debug("LLM cache file not found, starting empty", zap.String("path", cacheFilePath))
			return c, nil
		}
		return nil, fmt.Errorf("failed to read cache file %s: %w", cacheFilePath, err)
	}

	if err := json.Unmarshal(data, &c.cache); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cache data from %s: %w", cacheFilePath, err)
	}

	logger.Info("Loaded LLM responses from cache", zap.Int("entries", len(c.cache)), zap.String("path", cacheFilePath))
	return c, nil
}

// GenerateContent returns the cached response for prompt when there is one.
// A cache hit reports zero token usage. Misses call the real generator and
// persist the updated cache.
func (c *CachedTextGenerator) GenerateContent(ctx context.Context, prompt string) (ContentResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if content, ok := c.cache[prompt]; ok {
		return ContentResponse{Content: content}, nil
	}

	resp, err := c.realGen.GenerateContent(ctx, prompt)
	if err != nil {
		return ContentResponse{}, fmt.Errorf("failed to generate content using real generator: %w", err)
	}

	c.cache[prompt] = resp.Content
	if err := c.save(); err != nil {
		logger.Warn("Failed to persist LLM cache", zap.Error(err))
	}
	return resp, nil
}

// Len returns the number of cached prompts.
func (c *CachedTextGenerator) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.cache)
}

// Close closes the wrapped generator when it holds resources.
func (c *CachedTextGenerator) Close() error {
	if closer, ok := c.realGen.(Closer); ok {
		return closer.Close()
	}
	return nil
}

// save must be called with mu held.
func (c *CachedTextGenerator) save() error {
	data, err := json.MarshalIndent(c.cache, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal cache data: %w", err)
	}

	if err := os.WriteFile(c.cacheFilePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write cache file %s: %w", c.cacheFilePath, err)
	}
	return nil
}
