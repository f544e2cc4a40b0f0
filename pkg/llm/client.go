// Package llm provides text generation clients for OpenAI-compatible,
// Anthropic, and Gemini backends, and a Chain that tries them in order with
// a fixed retry policy.
package llm

import (
	"context"
	"fmt"
	"time"
)

// Request is a single system + user prompt exchange.
type Request struct {
	System string
	User   string
}

// Client generates text from a prompt pair.
type Client interface {
	Name() string
	Complete(ctx context.Context, req Request) (string, error)
}

// NewClient constructs a Client for the provider's kind.
func NewClient(ctx context.Context, cfg ProviderConfig, timeout time.Duration) (Client, error) {
	switch cfg.Kind {
	case KindOpenAI:
		return newOpenAI(cfg, timeout), nil
	case KindAnthropic:
		return newAnthropic(cfg, timeout), nil
	case KindGemini:
		return newGemini(ctx, cfg, timeout)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKind, cfg.Kind)
}
