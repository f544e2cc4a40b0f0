package llm_test

import (
	"errors"
	"testing"
	"time"

	"github.com/JaimeStill/compass/pkg/llm"
)

func TestConfigDefaults(t *testing.T) {
	cfg := &llm.Config{}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize: %v", err)
	}

	if cfg.Attempts != 3 {
		t.Errorf("attempts: got %d, want 3", cfg.Attempts)
	}
	if cfg.RetryDelayDuration() != 2*time.Second {
		t.Errorf("retry delay: got %v", cfg.RetryDelayDuration())
	}
	if len(cfg.Providers) != 1 || cfg.Providers[0].Name != "pollinations" {
		t.Fatalf("default provider: got %+v", cfg.Providers)
	}
	if cfg.Providers[0].MaxTokens != 4096 {
		t.Errorf("max tokens: got %d", cfg.Providers[0].MaxTokens)
	}
}

func TestConfigEnvKeys(t *testing.T) {
	t.Setenv("TEST_LLM_ATTEMPTS", "5")
	t.Setenv("TEST_ANTHROPIC_KEY", "sk-ant")

	cfg := &llm.Config{Providers: []llm.ProviderConfig{
		{Kind: llm.KindAnthropic},
		{Name: "explicit", Kind: llm.KindAnthropic, APIKey: "keep"},
		{Kind: llm.KindGemini},
	}}
	env := &llm.Env{Attempts: "TEST_LLM_ATTEMPTS", AnthropicKey: "TEST_ANTHROPIC_KEY", GeminiKey: "TEST_GEMINI_KEY"}
	if err := cfg.Finalize(env); err != nil {
		t.Fatalf("finalize: %v", err)
	}

	if cfg.Attempts != 5 {
		t.Errorf("attempts: got %d", cfg.Attempts)
	}
	if cfg.Providers[0].APIKey != "sk-ant" || cfg.Providers[0].Name != llm.KindAnthropic {
		t.Errorf("provider 0: %+v", cfg.Providers[0])
	}
	if cfg.Providers[1].APIKey != "keep" {
		t.Errorf("explicit key overwritten: %s", cfg.Providers[1].APIKey)
	}
	if cfg.Providers[2].Model != "gemini-2.5-flash" {
		t.Errorf("gemini default model: %s", cfg.Providers[2].Model)
	}
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name string
		cfg  llm.Config
	}{
		{"zero attempts", llm.Config{Attempts: -1}},
		{"bad delay", llm.Config{RetryDelay: "soon"}},
		{"unknown kind", llm.Config{Providers: []llm.ProviderConfig{{Kind: "cohere"}}}},
		{"duplicate names", llm.Config{Providers: []llm.ProviderConfig{
			{Name: "x", Kind: llm.KindOpenAI},
			{Name: "x", Kind: llm.KindGemini},
		}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Finalize(nil); err == nil {
				t.Error("expected error")
			}
		})
	}

	bad := llm.Config{Providers: []llm.ProviderConfig{{Kind: "cohere"}}}
	if err := bad.Finalize(nil); !errors.Is(err, llm.ErrUnknownKind) {
		t.Errorf("expected ErrUnknownKind, got %v", err)
	}
}

func TestConfigMerge(t *testing.T) {
	base := &llm.Config{Attempts: 3, RetryDelay: "2s", Providers: []llm.ProviderConfig{{Kind: llm.KindOpenAI}}}
	base.Merge(&llm.Config{RetryDelay: "500ms", Providers: []llm.ProviderConfig{{Kind: llm.KindGemini}}})

	if base.Attempts != 3 || base.RetryDelay != "500ms" {
		t.Errorf("merge: %+v", base)
	}
	if base.Providers[0].Kind != llm.KindGemini {
		t.Errorf("providers not replaced: %+v", base.Providers)
	}
}
