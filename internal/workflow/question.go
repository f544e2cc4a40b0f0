package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/JaimeStill/compass/internal/assessment"
	"github.com/JaimeStill/compass/internal/prompts"
)

// QuestionResponse is the outbound payload for a non-report request.
// A nil QuestionText with OverallStatus "completed" ends the session.
type QuestionResponse struct {
	QuestionText     *string               `json:"questionText"`
	AnswerType       assessment.AnswerType `json:"answerType,omitempty"`
	Options          []string              `json:"options"`
	PhaseStatus      string                `json:"phase_status"`
	OverallStatus    string                `json:"overall_status"`
	CurrentPhaseName string                `json:"currentPhaseName"`
	ReasoningText    string                `json:"reasoningText"`
	ProviderUsed     string                `json:"providerUsed"`
}

// NextQuestion runs the phase controller and, unless the session is complete,
// asks the generator for a question in the resulting phase. A generated
// question that repeats history is suffixed, or moved to the next phase when
// the suffixed text is also a repeat. Repeats in the last phase end the session.
func NextQuestion(ctx context.Context, rt *Runtime, req Request) (*QuestionResponse, error) {
	step := assessment.NextStep(req.CurrentPhaseName, req.History)
	if step.Terminal {
		rt.Logger.InfoContext(ctx, "session complete", "questions", len(req.History))
		return completion(rt, step.Phase), nil
	}

	if step.Advanced || step.Restarted {
		rt.Logger.InfoContext(ctx, "phase changed",
			"from", req.CurrentPhaseName,
			"to", step.Phase,
			"restarted", step.Restarted,
		)
	}

	phase := step.Phase
	for range len(assessment.Phases()) {
		q, err := generateQuestion(ctx, rt, req, phase)
		if err != nil {
			return nil, err
		}

		text, verdict := assessment.CheckDuplicate(q.QuestionText, phase, req.History)
		duplicateResolutions.WithLabelValues(verdict.String()).Inc()

		switch verdict {
		case assessment.Unique:
			return asking(rt, phase, text, q), nil
		case assessment.Suffixed:
			rt.Logger.WarnContext(ctx, "duplicate question suffixed", "phase", phase, "question", q.QuestionText)
			return asking(rt, phase, text, q), nil
		case assessment.Advance:
			next, _ := assessment.NextPhase(phase)
			next = assessment.NextStep(next, req.History).Phase
			rt.Logger.WarnContext(ctx, "duplicate question, advancing phase",
				"phase", phase,
				"next", next,
				"question", q.QuestionText,
			)
			phase = next
		case assessment.Exhausted:
			rt.Logger.WarnContext(ctx, "duplicate question in final phase, ending session",
				"phase", phase,
				"question", q.QuestionText,
			)
			return completion(rt, phase), nil
		}
	}

	return completion(rt, phase), nil
}

func generateQuestion(ctx context.Context, rt *Runtime, req Request, phase string) (*GeneratedQuestion, error) {
	system, err := ComposePrompt(ctx, rt.Prompts, prompts.StageQuestion, questionContext{
		Industry:         req.Industry,
		UserName:         req.UserName,
		Phase:            phase,
		QuestionsInPhase: req.History.CountPhase(phase),
		PhaseQuota:       assessment.PerPhaseQuota(),
		QuestionsAsked:   len(req.History),
		MaxQuestions:     assessment.MaxQuestions,
	})
	if err != nil {
		return nil, err
	}

	user, err := questionUserPrompt(phase, req.History)
	if err != nil {
		return nil, err
	}

	q, err := rt.Generator.GenerateNextQuestion(ctx, system, user)
	if err != nil {
		return nil, fmt.Errorf("generate question for %s: %w", phase, err)
	}

	q.QuestionText = strings.TrimSpace(q.QuestionText)
	if q.QuestionText == "" {
		return nil, fmt.Errorf("%w: phase %s", ErrNoQuestion, phase)
	}

	if !q.AnswerType.Valid() {
		rt.Logger.WarnContext(ctx, "unknown answer type, using text", "answer_type", q.AnswerType)
		q.AnswerType = assessment.AnswerText
		q.Options = nil
	}

	return q, nil
}

func asking(rt *Runtime, phase, text string, q *GeneratedQuestion) *QuestionResponse {
	options := q.Options
	if options == nil {
		options = []string{}
	}
	return &QuestionResponse{
		QuestionText:     &text,
		AnswerType:       q.AnswerType,
		Options:          options,
		PhaseStatus:      assessment.StatusAsking,
		OverallStatus:    assessment.StatusAsking,
		CurrentPhaseName: phase,
		ReasoningText:    q.Reasoning,
		ProviderUsed:     rt.Generator.CurrentProvider().Name,
	}
}

func completion(rt *Runtime, phase string) *QuestionResponse {
	return &QuestionResponse{
		Options:          []string{},
		PhaseStatus:      assessment.StatusComplete,
		OverallStatus:    assessment.StatusCompleted,
		CurrentPhaseName: phase,
		ProviderUsed:     rt.Generator.CurrentProvider().Name,
	}
}
