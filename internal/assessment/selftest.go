package assessment

import (
	"errors"
	"fmt"
)

type selfCheck struct {
	name  string
	check func() error
}

var selfChecks = []selfCheck{
	{"scale normalization", func() error {
		h := History{}
		for _, v := range []string{"1", "2", "1", "2"} {
			h = append(h, AnswerRecord{Phase: PhaseStrategy, AnswerType: AnswerScale, Answer: TextAnswer(v)})
		}
		return expectScore(h, 30, TierDabbler)
	}},
	{"checkbox saturation", func() error {
		h := History{}
		for range 4 {
			h = append(h, AnswerRecord{
				Phase:      PhaseTechnology,
				AnswerType: AnswerCheckbox,
				Answer:     ListAnswer("Python", "Excel", "Tableau", "Jupyter", "SQL"),
			})
		}
		return expectScore(h, 100, TierLeader)
	}},
	{"text negation", func() error {
		r := AnswerRecord{AnswerType: AnswerText, Answer: TextAnswer("no not yet")}
		if got := ScoreRecord(r); got != 1 {
			return fmt.Errorf("got %d, want 1", got)
		}
		return nil
	}},
	{"tier boundaries", func() error {
		cases := map[int]Tier{50: TierDabbler, 51: TierEnabler, 75: TierEnabler, 76: TierLeader}
		for score, want := range cases {
			if got := Classify(score); got != want {
				return fmt.Errorf("score %d: got %s, want %s", score, got, want)
			}
		}
		return nil
	}},
	{"terminal at capacity", func() error {
		h := make(History, MaxQuestions)
		if step := NextStep("unknown", h); !step.Terminal {
			return errors.New("full history did not terminate")
		}
		return nil
	}},
}

func expectScore(h History, score int, tier Tier) error {
	b := Evaluate(h)
	if b.Total != score {
		return fmt.Errorf("score: got %d, want %d", b.Total, score)
	}
	if b.Tier != tier {
		return fmt.Errorf("tier: got %s, want %s", b.Tier, tier)
	}
	return nil
}

// SelfTest runs the engine's reference scenarios and returns every failure.
func SelfTest() error {
	var errs []error
	for _, c := range selfChecks {
		if err := c.check(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", c.name, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("assessment self-test: %w", errors.Join(errs...))
	}
	return nil
}

// SelfTestNames lists the reference scenarios SelfTest runs.
func SelfTestNames() []string {
	names := make([]string, len(selfChecks))
	for i, c := range selfChecks {
		names[i] = c.name
	}
	return names
}
