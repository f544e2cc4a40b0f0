package workflow

import (
	"context"
	"fmt"

	"github.com/JaimeStill/compass/internal/assessment"
	"github.com/JaimeStill/compass/pkg/formatting"
	"github.com/JaimeStill/compass/pkg/llm"
)

// GeneratedQuestion is the structured question a provider returns.
type GeneratedQuestion struct {
	QuestionText  string                `json:"questionText"`
	AnswerType    assessment.AnswerType `json:"answerType"`
	Options       []string              `json:"options"`
	PhaseStatus   string                `json:"phase_status,omitempty"`
	OverallStatus string                `json:"overall_status,omitempty"`
	Reasoning     string                `json:"reasoning"`
}

// ProviderInfo identifies the backend currently serving generation.
type ProviderInfo struct {
	Name string `json:"name"`
}

// Generator is the text generation backend used by the workflow.
// Initialize must be safe to call more than once.
type Generator interface {
	Initialize(ctx context.Context) error
	GenerateReport(ctx context.Context, system, user string) (string, error)
	GenerateNextQuestion(ctx context.Context, system, user string) (*GeneratedQuestion, error)
	CurrentProvider() ProviderInfo
}

type chainGenerator struct {
	chain *llm.Chain
}

// NewGenerator adapts an llm.Chain to the Generator interface.
func NewGenerator(chain *llm.Chain) Generator {
	return &chainGenerator{chain: chain}
}

func (g *chainGenerator) Initialize(ctx context.Context) error {
	return g.chain.Initialize(ctx)
}

func (g *chainGenerator) GenerateReport(ctx context.Context, system, user string) (string, error) {
	text, _, err := g.chain.Complete(ctx, llm.Request{System: system, User: user})
	if err != nil {
		return "", err
	}
	return text, nil
}

func (g *chainGenerator) GenerateNextQuestion(ctx context.Context, system, user string) (*GeneratedQuestion, error) {
	text, provider, err := g.chain.Complete(ctx, llm.Request{System: system, User: user})
	if err != nil {
		return nil, err
	}

	q, err := formatting.Parse[GeneratedQuestion](text)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrGenerateFailed, provider, err)
	}
	return &q, nil
}

func (g *chainGenerator) CurrentProvider() ProviderInfo {
	return ProviderInfo{Name: g.chain.Current()}
}
