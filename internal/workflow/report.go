package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/JaimeStill/compass/internal/assessment"
	"github.com/JaimeStill/compass/internal/prompts"
	"github.com/JaimeStill/compass/internal/sessions"
)

// StatusResultsGenerated marks a report response.
const StatusResultsGenerated = "resultsGenerated"

// ReportResponse is the outbound payload for a generateReport request.
// ExtractedTier is the tier the report text claims; UserAITier is always
// the computed tier.
type ReportResponse struct {
	ReportMarkdown   string           `json:"reportMarkdown"`
	UserAITier       assessment.Tier  `json:"userAITier"`
	SystemPromptUsed string           `json:"systemPromptUsed"`
	Status           string           `json:"status"`
	ProviderUsed     string           `json:"providerUsed"`
	Score            int              `json:"score"`
	ExtractedTier    *assessment.Tier `json:"extractedTier"`
}

// GenerateReport scores the history, selects the persona for the computed
// tier, generates the report, and sanitizes it. The session is recorded in
// the background once the response is ready.
func GenerateReport(ctx context.Context, rt *Runtime, req Request) (*ReportResponse, error) {
	b := assessment.Evaluate(req.History)

	rt.Logger.InfoContext(ctx, "history scored",
		"questions", len(req.History),
		"raw", b.Raw,
		"total", b.Total,
		"low_percent", b.LowPercent,
		"safety_net", b.SafetyNet,
		"tier", b.Tier,
	)

	stage := prompts.ReportStage(b.Tier)
	system, err := ComposePrompt(ctx, rt.Prompts, stage, reportContext{
		Tier:     b.Tier,
		Score:    b.Total,
		Industry: req.Industry,
		UserName: req.UserName,
	})
	if err != nil {
		return nil, err
	}

	user, err := reportUserPrompt(req.History)
	if err != nil {
		return nil, err
	}

	raw, err := rt.Generator.GenerateReport(ctx, system, user)
	if err != nil {
		return nil, fmt.Errorf("generate report: %w", err)
	}

	report := rt.Sanitizer.Clean(raw)
	if strings.TrimSpace(report) == "" {
		return nil, fmt.Errorf("%w: report empty after sanitization", ErrGenerateFailed)
	}

	provider := rt.Generator.CurrentProvider().Name
	resp := &ReportResponse{
		ReportMarkdown:   report,
		UserAITier:       b.Tier,
		SystemPromptUsed: system,
		Status:           StatusResultsGenerated,
		ProviderUsed:     provider,
		Score:            b.Total,
	}

	if extracted, ok := assessment.ExtractTier(report); ok {
		resp.ExtractedTier = &extracted
		if extracted != b.Tier {
			tierMismatches.Inc()
			rt.Logger.WarnContext(ctx, "report tier differs from computed tier",
				"computed", b.Tier,
				"extracted", extracted,
				"provider", provider,
			)
		}
	} else {
		rt.Logger.WarnContext(ctx, "report states no tier", "provider", provider)
	}

	reportsTotal.WithLabelValues(string(b.Tier)).Inc()

	rt.record(ctx, sessions.CreateCommand{
		Industry:      req.Industry,
		UserName:      req.UserName,
		Breakdown:     b,
		Provider:      provider,
		ExtractedTier: resp.ExtractedTier,
		History:       req.History,
		Report:        report,
	})

	return resp, nil
}
