package assessment

import (
	"regexp"
	"strings"
)

// Tier is the coarse maturity classification derived from a final score.
type Tier string

const (
	TierDabbler Tier = "Dabbler"
	TierEnabler Tier = "Enabler"
	TierLeader  Tier = "Leader"
)

// Upper score bounds, inclusive.
const (
	DabblerMax = 50
	EnablerMax = 75
)

var tiers = []Tier{TierDabbler, TierEnabler, TierLeader}

// Classify maps a final score to its tier.
func Classify(score int) Tier {
	switch {
	case score <= DabblerMax:
		return TierDabbler
	case score <= EnablerMax:
		return TierEnabler
	default:
		return TierLeader
	}
}

// Tiers returns every tier in ascending order.
func Tiers() []Tier {
	return append([]Tier(nil), tiers...)
}

// ParseTier resolves a tier name case-insensitively.
func ParseTier(s string) (Tier, bool) {
	s = strings.TrimSpace(s)
	for _, t := range tiers {
		if strings.EqualFold(s, string(t)) {
			return t, true
		}
	}
	return "", false
}

var (
	tierHeading = regexp.MustCompile(
		`(?im)^#{1,6}\s*Overall\s+(?:AI\s+)?(?:Maturity\s+)?Tier\s*:\s*\**\s*(Dabbler|Enabler|Leader)\b`,
	)
	tierBold = regexp.MustCompile(
		`(?i)\*\*\s*(?:(?:Overall\s+)?(?:AI\s+)?Tier\s*:\s*)?(Dabbler|Enabler|Leader)\s*\*\*`,
	)
	tierWord = regexp.MustCompile(`(?i)\b(Dabbler|Enabler|Leader)s?\b`)
)

// ExtractTier reads the tier label a generated report claims. It prefers an
// "Overall Tier" heading, then a bold tier label, then the most frequently
// mentioned tier. A frequency tie yields no result.
func ExtractTier(text string) (Tier, bool) {
	if m := tierHeading.FindStringSubmatch(text); m != nil {
		return ParseTier(m[1])
	}

	if m := tierBold.FindStringSubmatch(text); m != nil {
		return ParseTier(m[1])
	}

	counts := make(map[Tier]int, len(tiers))
	for _, m := range tierWord.FindAllStringSubmatch(text, -1) {
		if t, ok := ParseTier(m[1]); ok {
			counts[t]++
		}
	}

	var best Tier
	bestCount, tied := 0, false
	for _, t := range tiers {
		switch c := counts[t]; {
		case c > bestCount:
			best, bestCount, tied = t, c, false
		case c == bestCount && c > 0:
			tied = true
		}
	}

	if bestCount == 0 || tied {
		return "", false
	}
	return best, true
}
