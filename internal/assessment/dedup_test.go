package assessment_test

import (
	"testing"

	"github.com/JaimeStill/compass/internal/assessment"
)

func TestCheckDuplicate(t *testing.T) {
	const q = "How does leadership measure AI outcomes?"

	asked := assessment.History{{Question: q, Phase: assessment.PhaseStrategy}}
	askedTwice := assessment.History{
		{Question: q, Phase: assessment.PhaseStrategy},
		{Question: q + assessment.DuplicateSuffix, Phase: assessment.PhaseStrategy},
	}

	tests := []struct {
		name     string
		phase    string
		history  assessment.History
		wantText string
		want     assessment.Resolution
	}{
		{"unique", assessment.PhaseStrategy, nil, q, assessment.Unique},
		{"suffixed", assessment.PhaseStrategy, asked, q + assessment.DuplicateSuffix, assessment.Suffixed},
		{"advance", assessment.PhaseStrategy, askedTwice, "", assessment.Advance},
		{"exhausted", assessment.PhaseGovernance, askedTwice, "", assessment.Exhausted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, res := assessment.CheckDuplicate(q, tt.phase, tt.history)
			if res != tt.want {
				t.Errorf("resolution: got %s, want %s", res, tt.want)
			}
			if text != tt.wantText {
				t.Errorf("text: got %q, want %q", text, tt.wantText)
			}
			if (res == assessment.Unique || res == assessment.Suffixed) && tt.history.Asked(text) {
				t.Error("emitted text repeats a prior question")
			}
		})
	}
}
