package prompts

import (
	"encoding/json"
	"slices"

	"github.com/JaimeStill/compass/internal/assessment"
)

// Stage represents a generation stage that a prompt override targets.
type Stage string

// Valid generation stages.
const (
	StageQuestion      Stage = "question"
	StageReportDabbler Stage = "report_dabbler"
	StageReportEnabler Stage = "report_enabler"
	StageReportLeader  Stage = "report_leader"
)

var stages = []Stage{
	StageQuestion,
	StageReportDabbler,
	StageReportEnabler,
	StageReportLeader,
}

// Stages returns the list of valid generation stages.
func Stages() []Stage {
	return stages
}

// ReportStage returns the report stage carrying the persona for tier.
func ReportStage(tier assessment.Tier) Stage {
	switch tier {
	case assessment.TierLeader:
		return StageReportLeader
	case assessment.TierEnabler:
		return StageReportEnabler
	default:
		return StageReportDabbler
	}
}

// UnmarshalJSON validates that the decoded string is a known stage value.
func (s *Stage) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v, err := ParseStage(raw)
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// ParseStage validates a string as a known generation stage.
// Returns ErrInvalidStage if the value is not recognized.
func ParseStage(s string) (Stage, error) {
	v := Stage(s)
	if !slices.Contains(stages, v) {
		return "", ErrInvalidStage
	}
	return v, nil
}
