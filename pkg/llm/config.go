package llm

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Provider kinds.
const (
	KindOpenAI    = "openai"
	KindAnthropic = "anthropic"
	KindGemini    = "gemini"
)

// Config holds the provider chain and its retry policy.
type Config struct {
	Attempts   int              `toml:"attempts"`
	RetryDelay string           `toml:"retry_delay"`
	Timeout    string           `toml:"timeout"`
	Providers  []ProviderConfig `toml:"providers"`
}

// ProviderConfig describes one generation backend. Providers are tried in order.
type ProviderConfig struct {
	Name        string   `toml:"name"`
	Kind        string   `toml:"kind"`
	BaseURL     string   `toml:"base_url"`
	Model       string   `toml:"model"`
	APIKey      string   `toml:"api_key"`
	MaxTokens   int      `toml:"max_tokens"`
	Temperature *float64 `toml:"temperature"`
}

// Env maps config fields to environment variable names for override injection.
// API key variables apply to every provider of that kind without an explicit key.
type Env struct {
	Attempts     string
	RetryDelay   string
	Timeout      string
	OpenAIKey    string
	AnthropicKey string
	GeminiKey    string
}

// RetryDelayDuration returns RetryDelay as a time.Duration.
func (c *Config) RetryDelayDuration() time.Duration {
	d, _ := time.ParseDuration(c.RetryDelay)
	return d
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *Config) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay. A non-nil provider list
// replaces the base list entirely.
func (c *Config) Merge(overlay *Config) {
	if overlay.Attempts != 0 {
		c.Attempts = overlay.Attempts
	}
	if overlay.RetryDelay != "" {
		c.RetryDelay = overlay.RetryDelay
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
	if overlay.Providers != nil {
		c.Providers = overlay.Providers
	}
}

func (c *Config) loadDefaults() {
	if c.Attempts == 0 {
		c.Attempts = 3
	}
	if c.RetryDelay == "" {
		c.RetryDelay = "2s"
	}
	if c.Timeout == "" {
		c.Timeout = "90s"
	}
	if len(c.Providers) == 0 {
		c.Providers = []ProviderConfig{{
			Name:    "pollinations",
			Kind:    KindOpenAI,
			BaseURL: "https://text.pollinations.ai/openai",
			Model:   "openai",
		}}
	}
	for i := range c.Providers {
		c.Providers[i].loadDefaults()
	}
}

func (p *ProviderConfig) loadDefaults() {
	if p.Name == "" {
		p.Name = p.Kind
	}
	if p.MaxTokens == 0 {
		p.MaxTokens = 4096
	}
	if p.Model == "" {
		switch p.Kind {
		case KindOpenAI:
			p.Model = "gpt-4o-mini"
		case KindAnthropic:
			p.Model = "claude-sonnet-4-5"
		case KindGemini:
			p.Model = "gemini-2.5-flash"
		}
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Attempts != "" {
		if v := os.Getenv(env.Attempts); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.Attempts = n
			}
		}
	}
	if env.RetryDelay != "" {
		if v := os.Getenv(env.RetryDelay); v != "" {
			c.RetryDelay = v
		}
	}
	if env.Timeout != "" {
		if v := os.Getenv(env.Timeout); v != "" {
			c.Timeout = v
		}
	}

	keys := map[string]string{
		KindOpenAI:    env.OpenAIKey,
		KindAnthropic: env.AnthropicKey,
		KindGemini:    env.GeminiKey,
	}
	for i := range c.Providers {
		p := &c.Providers[i]
		if p.APIKey != "" || keys[p.Kind] == "" {
			continue
		}
		if v := os.Getenv(keys[p.Kind]); v != "" {
			p.APIKey = v
		}
	}
}

func (c *Config) validate() error {
	if c.Attempts < 1 {
		return fmt.Errorf("attempts must be at least 1")
	}
	if _, err := time.ParseDuration(c.RetryDelay); err != nil {
		return fmt.Errorf("invalid retry_delay: %w", err)
	}
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}

	seen := make(map[string]bool, len(c.Providers))
	for _, p := range c.Providers {
		switch p.Kind {
		case KindOpenAI, KindAnthropic, KindGemini:
		default:
			return fmt.Errorf("provider %s: %w: %q", p.Name, ErrUnknownKind, p.Kind)
		}
		if seen[p.Name] {
			return fmt.Errorf("duplicate provider name %q", p.Name)
		}
		seen[p.Name] = true
	}
	return nil
}
