package assessment

// DuplicateSuffix is appended to a generated question that repeats a prior one.
const DuplicateSuffix = " (please answer with your current situation in mind)"

// Resolution is the duplicate guard's verdict for a generated question.
type Resolution int

const (
	// Unique: the question can be emitted as generated.
	Unique Resolution = iota
	// Suffixed: the question repeated a prior one and was made unique with DuplicateSuffix.
	Suffixed
	// Advance: the question is still a repeat after suffixing; move to the next phase.
	Advance
	// Exhausted: the question is still a repeat and no phase remains; end the session.
	Exhausted
)

func (r Resolution) String() string {
	switch r {
	case Suffixed:
		return "suffixed"
	case Advance:
		return "advance"
	case Exhausted:
		return "exhausted"
	}
	return "unique"
}

// CheckDuplicate compares question against every prior question in history.
// A repeat is suffixed once and re-checked; if it still repeats, the verdict
// is Advance when phase has a successor and Exhausted otherwise. The returned
// text is only meaningful for Unique and Suffixed.
func CheckDuplicate(question, phase string, history History) (string, Resolution) {
	if !history.Asked(question) {
		return question, Unique
	}

	suffixed := question + DuplicateSuffix
	if !history.Asked(suffixed) {
		return suffixed, Suffixed
	}

	if _, ok := NextPhase(phase); ok {
		return "", Advance
	}
	return "", Exhausted
}
