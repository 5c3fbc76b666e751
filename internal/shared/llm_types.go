package shared

import (
	"time"
)

// TokenUsage tracks the tokens consumed by a request.
type TokenUsage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
	Model            string
}

// RunMeta holds operational metadata for one engine invocation.
type RunMeta struct {
	Operation string
	Usage     TokenUsage
	Items     int
	Latency   time.Duration
}
