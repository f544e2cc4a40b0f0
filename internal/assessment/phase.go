package assessment

import "slices"

// Phase names in the order they are visited.
const (
	PhaseStrategy   = "Strategy & Goals"
	PhaseData       = "Data Readiness"
	PhaseTechnology = "Technology & Tools"
	PhaseTeam       = "Team Skills & Process"
	PhaseGovernance = "Governance & Measurement"
)

var phases = []string{
	PhaseStrategy,
	PhaseData,
	PhaseTechnology,
	PhaseTeam,
	PhaseGovernance,
}

// Status values reported alongside each step.
const (
	StatusAsking    = "asking"
	StatusComplete  = "complete"
	StatusCompleted = "completed"
)

// Phases returns the ordered phase names.
func Phases() []string {
	return slices.Clone(phases)
}

// PhaseIndex returns the position of name in the phase order, or -1.
func PhaseIndex(name string) int {
	return slices.Index(phases, name)
}

// NextPhase returns the phase following name. ok is false for the last phase
// and for unknown names.
func NextPhase(name string) (next string, ok bool) {
	i := PhaseIndex(name)
	if i < 0 || i+1 >= len(phases) {
		return "", false
	}
	return phases[i+1], true
}

// PerPhaseQuota is the number of questions asked in a phase before advancing.
func PerPhaseQuota() int {
	return (MaxQuestions + len(phases) - 1) / len(phases)
}

// Step is the phase controller's decision for the next turn.
type Step struct {
	Terminal         bool   `json:"terminal"`
	Phase            string `json:"phase"`
	Advanced         bool   `json:"advanced"`
	Restarted        bool   `json:"restarted"`
	QuestionsInPhase int    `json:"questionsInPhase"`
	Quota            int    `json:"quota"`
	PhaseStatus      string `json:"phase_status"`
	OverallStatus    string `json:"overall_status"`
}

// TerminalStep is the step that ends a session.
func TerminalStep(phase string) Step {
	return Step{
		Terminal:      true,
		Phase:         phase,
		Quota:         PerPhaseQuota(),
		PhaseStatus:   StatusComplete,
		OverallStatus: StatusCompleted,
	}
}

// NextStep decides whether the session is complete or which phase the next
// question belongs to. A full history is always terminal. An unknown current
// phase restarts at the first phase. A phase whose quota is met advances to
// the following phase; the last phase keeps asking until the history is full.
func NextStep(current string, history History) Step {
	if history.Complete() {
		return TerminalStep(current)
	}

	step := Step{
		Quota:         PerPhaseQuota(),
		PhaseStatus:   StatusAsking,
		OverallStatus: StatusAsking,
	}

	idx := PhaseIndex(current)
	if idx < 0 {
		idx = 0
		step.Restarted = true
	}

	for range len(phases) {
		count := history.CountPhase(phases[idx])
		if count >= step.Quota && idx+1 < len(phases) {
			idx++
			step.Advanced = true
			continue
		}
		step.QuestionsInPhase = count
		break
	}

	step.Phase = phases[idx]
	return step
}
