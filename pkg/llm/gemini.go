package llm

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"google.golang.org/genai"
)

type geminiClient struct {
	name        string
	model       string
	maxTokens   int
	temperature *float64
	client      *genai.Client
}

func newGemini(ctx context.Context, cfg ProviderConfig, timeout time.Duration) (*geminiClient, error) {
	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{
			BaseURL: cfg.BaseURL,
		},
	}
	if timeout > 0 {
		cc.HTTPClient = &http.Client{Timeout: timeout}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("create gemini client %s: %w", cfg.Name, err)
	}

	return &geminiClient{
		name:        cfg.Name,
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		client:      client,
	}, nil
}

func (c *geminiClient) Name() string { return c.name }

func (c *geminiClient) Complete(ctx context.Context, req Request) (string, error) {
	gc := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(req.System, genai.RoleUser),
		MaxOutputTokens:   int32(c.maxTokens),
	}
	if c.temperature != nil {
		gc.Temperature = genai.Ptr(float32(*c.temperature))
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(req.User), gc)
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}
