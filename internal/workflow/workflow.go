package workflow

import (
	"context"
	"fmt"

	"github.com/JaimeStill/compass/internal/assessment"
)

// ActionGenerateReport requests the final report instead of the next question.
const ActionGenerateReport = "generateReport"

// Request is the inbound assessment request.
type Request struct {
	Action           string             `json:"action,omitempty" validate:"omitempty,oneof=generateReport"`
	CurrentPhaseName string             `json:"currentPhaseName"`
	Industry         string             `json:"industry" validate:"required_if=Action generateReport,max=200"`
	UserName         *string            `json:"userName,omitempty" validate:"omitempty,max=200"`
	History          assessment.History `json:"history" validate:"max=20,dive"`
}

// Execute initializes the generator and dispatches req to GenerateReport or
// NextQuestion. The result is a *ReportResponse or a *QuestionResponse.
func Execute(ctx context.Context, rt *Runtime, req Request) (any, error) {
	if err := rt.Generator.Initialize(ctx); err != nil {
		return nil, fmt.Errorf("initialize generator: %w", err)
	}

	if req.Action == ActionGenerateReport {
		resp, err := GenerateReport(ctx, rt, req)
		if err != nil {
			return nil, err
		}
		return resp, nil
	}

	resp, err := NextQuestion(ctx, rt, req)
	if err != nil {
		return nil, err
	}
	return resp, nil
}
