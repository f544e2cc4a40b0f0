package workflow

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/JaimeStill/compass/internal/assessment"
	"github.com/JaimeStill/compass/internal/prompts"
)

// ComposePrompt builds a system prompt by combining tunable instructions,
// immutable specifications, and a JSON context block for a given stage.
// When state is nil the prompt contains only instructions and spec.
func ComposePrompt(
	ctx context.Context,
	ps prompts.System,
	stage prompts.Stage,
	state any,
) (string, error) {
	instructions, err := ps.Instructions(ctx, stage)
	if err != nil {
		return "", fmt.Errorf("load instructions for %s: %w", stage, err)
	}

	spec, err := ps.Spec(ctx, stage)
	if err != nil {
		return "", fmt.Errorf("load spec for %s: %w", stage, err)
	}

	var sb strings.Builder
	sb.WriteString(instructions)
	sb.WriteString("\n\n")
	sb.WriteString(spec)

	if state != nil {
		stateJSON, err := marshalIndent(state)
		if err != nil {
			return "", fmt.Errorf("serialize assessment context: %w", err)
		}

		sb.WriteString("\n\nAssessment context:\n\n")
		sb.Write(stateJSON)
	}

	return sb.String(), nil
}

// questionContext is the state block for question generation.
type questionContext struct {
	Industry         string  `json:"industry"`
	UserName         *string `json:"userName,omitempty"`
	Phase            string  `json:"phase"`
	QuestionsInPhase int     `json:"questionsInPhase"`
	PhaseQuota       int     `json:"phaseQuota"`
	QuestionsAsked   int     `json:"questionsAsked"`
	MaxQuestions     int     `json:"maxQuestions"`
}

// reportContext is the state block for report generation.
type reportContext struct {
	Tier     assessment.Tier `json:"tier"`
	Score    int             `json:"score"`
	Industry string          `json:"industry"`
	UserName *string         `json:"userName,omitempty"`
}

func questionUserPrompt(phase string, history assessment.History) (string, error) {
	if len(history) == 0 {
		return fmt.Sprintf(
			"No questions have been asked yet. Ask the opening question for the %s phase.",
			phase,
		), nil
	}

	data, err := marshalIndent(history)
	if err != nil {
		return "", fmt.Errorf("serialize history: %w", err)
	}

	return fmt.Sprintf(
		"Interview history so far:\n\n%s\n\nAsk the next question for the %s phase. Do not repeat any question above.",
		data, phase,
	), nil
}

func reportUserPrompt(history assessment.History) (string, error) {
	data, err := marshalIndent(history)
	if err != nil {
		return "", fmt.Errorf("serialize history: %w", err)
	}

	return fmt.Sprintf(
		"Write the AI maturity report for this completed assessment. The full question and answer history follows:\n\n%s",
		data,
	), nil
}

// marshalIndent renders v as indented JSON without HTML escaping, so phase
// names like "Strategy & Goals" reach the model verbatim.
func marshalIndent(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
