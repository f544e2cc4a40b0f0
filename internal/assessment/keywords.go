package assessment

import (
	"regexp"
	"strings"
)

// Level is the maturity signal carried by a keyword.
type Level int

const (
	LevelNone Level = iota
	LevelLow
	LevelMid
	LevelHigh
)

func (l Level) String() string {
	switch l {
	case LevelLow:
		return "low"
	case LevelMid:
		return "mid"
	case LevelHigh:
		return "high"
	}
	return "none"
}

type keywordTable struct {
	level Level
	words []string
}

// Priority order: the first table with a hit decides a radio answer.
var keywordTables = []keywordTable{
	{
		level: LevelHigh,
		words: []string{
			"fully", "enterprise-wide", "enterprise wide", "company-wide",
			"automated", "advanced", "comprehensive", "optimized", "at scale",
			"scaled", "in production", "mlops", "center of excellence",
			"continuous", "real-time", "predictive", "integrated", "dedicated team",
			"governance framework", "measurable roi", "data-driven", "extensively",
			"mature", "strategic roadmap",
		},
	},
	{
		level: LevelMid,
		words: []string{
			"pilot", "partial", "some", "experiment", "exploring", "developing",
			"moderate", "occasionally", "sometimes", "in progress", "planning",
			"a few", "limited", "emerging", "proof of concept", "poc", "testing",
		},
	},
	{
		level: LevelLow,
		words: []string{
			"no ", "not ", "none", "never", "don't", "haven't", "unsure",
			"not sure", "manual", "ad hoc", "ad-hoc", "unaware", "no plans",
			"just starting", "rarely", "nothing",
		},
	},
}

var (
	lowMaturityPattern = regexp.MustCompile(
		`(?i)\b(no|none|not|never|don't|haven't|unsure|unaware|manual(ly)?|ad[- ]hoc|rarely|nothing)\b`,
	)
	negationPattern = regexp.MustCompile(`no |not |haven't|don't`)
)

func table(level Level) []string {
	for _, t := range keywordTables {
		if t.level == level {
			return t.words
		}
	}
	return nil
}

// ClassifyText returns the first keyword level, in high, mid, low order, with a
// keyword contained in text. Matching is case-insensitive substring matching.
func ClassifyText(text string) Level {
	lower := strings.ToLower(text)
	for _, t := range keywordTables {
		for _, w := range t.words {
			if strings.Contains(lower, w) {
				return t.level
			}
		}
	}
	return LevelNone
}

// HasKeyword reports whether text contains any keyword of the given level.
func HasKeyword(text string, level Level) bool {
	return CountKeywords(text, level) > 0
}

// CountKeywords returns how many keywords of the given level text contains.
// Each keyword counts at most once.
func CountKeywords(text string, level Level) int {
	lower := strings.ToLower(text)
	count := 0
	for _, w := range table(level) {
		if strings.Contains(lower, w) {
			count++
		}
	}
	return count
}

// IsLowMaturity reports whether a serialized answer reads as low maturity.
func IsLowMaturity(answer string) bool {
	return lowMaturityPattern.MatchString(answer)
}

func countNegations(lower string) int {
	return len(negationPattern.FindAllStringIndex(lower, -1))
}
