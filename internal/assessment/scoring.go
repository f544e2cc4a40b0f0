package assessment

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	scoreHigh    = 5
	scoreMid     = 3
	scoreLow     = 1
	scoreDefault = 2

	maxAnswerScore   = 5
	maxKeywordAdjust = 2

	safetyNetLowPercent = 60.0
	safetyNetCeiling    = 60
)

var leadingInt = regexp.MustCompile(`^\s*([-+]?\d+)`)

type scorer func(Answer) int

var scorers = map[AnswerType]scorer{
	AnswerScale:    scoreScale,
	AnswerRadio:    scoreRadio,
	AnswerCheckbox: scoreCheckbox,
	AnswerText:     scoreText,
}

// ScoreRecord scores a single answer according to its answer type.
// Unknown answer types score 0.
func ScoreRecord(r AnswerRecord) int {
	fn, ok := scorers[r.AnswerType]
	if !ok {
		return 0
	}
	return fn(r.Answer)
}

// Scale answers contribute their leading integer unclamped; unparsable answers contribute 0.
func scoreScale(a Answer) int {
	m := leadingInt.FindStringSubmatch(a.Text())
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}

func scoreRadio(a Answer) int {
	switch ClassifyText(a.Text()) {
	case LevelHigh:
		return scoreHigh
	case LevelMid:
		return scoreMid
	case LevelLow:
		return scoreLow
	}
	return scoreDefault
}

// The keyword boost is applied before the reduction.
func scoreCheckbox(a Answer) int {
	selections := a.Selections()
	base := min(len(selections), maxAnswerScore)

	var high, low int
	for _, s := range selections {
		high += CountKeywords(s, LevelHigh)
		low += CountKeywords(s, LevelLow)
	}

	score := min(maxAnswerScore, base+min(maxKeywordAdjust, high))
	if base > 1 {
		score = max(1, score-min(maxKeywordAdjust, low))
	}
	return score
}

func scoreText(a Answer) int {
	text := a.Text()
	lower := strings.ToLower(text)

	var score int
	switch n := utf8.RuneCountInString(text); {
	case n < 30:
		score = 1
	case n < 80:
		score = 2
	case n < 150:
		score = 3
	default:
		score = 4
	}

	if HasKeyword(lower, LevelHigh) {
		score = min(maxAnswerScore, score+1)
	}

	if HasKeyword(lower, LevelLow) {
		if countNegations(lower) > 1 {
			score = 1
		} else {
			score = max(1, score-2)
		}
	}

	return score
}

// Breakdown details how a history's final score was derived.
type Breakdown struct {
	Scores     []int   `json:"scores"`
	Raw        int     `json:"raw"`
	Total      int     `json:"total"`
	Normalized bool    `json:"normalized"`
	LowPercent float64 `json:"lowPercent"`
	SafetyNet  bool    `json:"safetyNet"`
	Tier       Tier    `json:"tier"`
}

// Evaluate scores every record, normalizes partial histories to the full
// question basis, applies the low-maturity safety net, and classifies the result.
func Evaluate(h History) Breakdown {
	b := Breakdown{Scores: make([]int, len(h))}

	lowCount := 0
	for i, r := range h {
		b.Scores[i] = ScoreRecord(r)
		b.Raw += b.Scores[i]
		if IsLowMaturity(r.Answer.String()) {
			lowCount++
		}
	}

	b.Total = b.Raw
	if n := len(h); n > 0 && n < MaxQuestions {
		b.Total = roundHalfUp(float64(b.Raw) * MaxQuestions / float64(n))
		b.Normalized = true
	}

	if len(h) > 0 {
		b.LowPercent = float64(lowCount) / float64(len(h)) * 100
	}

	if b.LowPercent >= safetyNetLowPercent && b.Total > DabblerMax && b.Total <= safetyNetCeiling {
		b.Total = DabblerMax
		b.SafetyNet = true
	}

	b.Tier = Classify(b.Total)
	return b
}

// Score returns the final score for a history.
func Score(h History) int {
	return Evaluate(h).Total
}

func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}
