package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Retry is the per-provider retry policy: a fixed number of attempts with a
// fixed delay between them.
type Retry struct {
	Attempts int
	Delay    time.Duration
}

// Chain sends requests to an ordered list of clients. Each client gets up to
// Retry.Attempts tries; the chain then moves to the next client. The client
// that last succeeded is tried first on the following request.
type Chain struct {
	retry   Retry
	logger  *slog.Logger
	build   func(ctx context.Context) ([]Client, error)
	mu      sync.Mutex
	ready   atomic.Bool
	clients []Client
	current atomic.Int32
}

// New creates a Chain whose clients are built from cfg on Initialize.
func New(cfg *Config, logger *slog.Logger) *Chain {
	logger = logger.With("system", "llm")
	return &Chain{
		retry: Retry{
			Attempts: cfg.Attempts,
			Delay:    cfg.RetryDelayDuration(),
		},
		logger: logger,
		build: func(ctx context.Context) ([]Client, error) {
			return buildClients(ctx, cfg, logger)
		},
	}
}

// NewChain creates a Chain over already constructed clients.
func NewChain(clients []Client, retry Retry, logger *slog.Logger) *Chain {
	if retry.Attempts < 1 {
		retry.Attempts = 1
	}
	return &Chain{
		retry:  retry,
		logger: logger.With("system", "llm"),
		build: func(context.Context) ([]Client, error) {
			return clients, nil
		},
	}
}

func buildClients(ctx context.Context, cfg *Config, logger *slog.Logger) ([]Client, error) {
	clients := make([]Client, 0, len(cfg.Providers))
	for _, p := range cfg.Providers {
		c, err := NewClient(ctx, p, cfg.TimeoutDuration())
		if err != nil {
			logger.Warn("provider unavailable", "provider", p.Name, "error", err)
			continue
		}
		logger.Info("provider registered", "provider", p.Name, "kind", p.Kind, "model", p.Model)
		clients = append(clients, c)
	}
	return clients, nil
}

// Initialize builds the clients. Once a build succeeds later calls are
// no-ops; a failed or cancelled build is retried by the next caller.
func (c *Chain) Initialize(ctx context.Context) error {
	if c.ready.Load() {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ready.Load() {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	clients, err := c.build(ctx)
	if err != nil {
		return err
	}
	if len(clients) == 0 {
		return ErrNoProviders
	}

	c.clients = clients
	c.ready.Store(true)
	return nil
}

// Current returns the name of the client the next request starts with.
func (c *Chain) Current() string {
	if !c.ready.Load() {
		return ""
	}
	return c.clients[int(c.current.Load())%len(c.clients)].Name()
}

// Providers returns the names of every client in chain order.
func (c *Chain) Providers() []string {
	if !c.ready.Load() {
		return nil
	}
	names := make([]string, len(c.clients))
	for i, cl := range c.clients {
		names[i] = cl.Name()
	}
	return names
}

// Complete runs req against the chain and returns the generated text with
// the name of the client that produced it. Failure across every client
// returns an error wrapping ErrExhausted and the last client error.
func (c *Chain) Complete(ctx context.Context, req Request) (string, string, error) {
	if err := c.Initialize(ctx); err != nil {
		return "", "", err
	}

	n := len(c.clients)
	start := int(c.current.Load())
	var last error

	for i := range n {
		idx := (start + i) % n
		client := c.clients[idx]

		text, err := c.attempt(ctx, client, req)
		if err == nil {
			c.current.Store(int32(idx))
			return text, client.Name(), nil
		}
		if ctx.Err() != nil {
			return "", "", ctx.Err()
		}
		last = err
	}

	exhaustedTotal.Inc()
	return "", "", fmt.Errorf("%w: %w", ErrExhausted, last)
}

func (c *Chain) attempt(ctx context.Context, client Client, req Request) (string, error) {
	name := client.Name()
	var err error

	for attempt := 1; attempt <= c.retry.Attempts; attempt++ {
		start := time.Now()
		var text string
		text, err = client.Complete(ctx, req)
		attemptLatency.WithLabelValues(name).Observe(time.Since(start).Seconds())

		if err == nil && strings.TrimSpace(text) == "" {
			err = &TransportError{Provider: name, Err: ErrEmptyResponse}
		}
		if err == nil {
			attemptsTotal.WithLabelValues(name, "success").Inc()
			return text, nil
		}

		err = classify(name, err)
		kind := ErrorKind(err)
		attemptsTotal.WithLabelValues(name, kind).Inc()
		c.logger.WarnContext(ctx, "provider attempt failed",
			"provider", name,
			"attempt", attempt,
			"kind", kind,
			"error", err,
		)

		if ctx.Err() != nil || !retryable(err) {
			return "", err
		}

		if attempt < c.retry.Attempts {
			if werr := wait(ctx, c.retry.Delay); werr != nil {
				return "", errors.Join(err, werr)
			}
		}
	}

	return "", err
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
