// Package sanitize strips injected promotional content from generated report
// markdown. Stages are pure text transforms; Sanitize composes them and is
// idempotent.
package sanitize

import (
	"regexp"
	"strings"
)

// Stage is a named, pure text transform.
type Stage struct {
	Name  string
	Apply func(string) string
}

func regexStage(name, pattern string) Stage {
	re := regexp.MustCompile(pattern)
	return Stage{
		Name:  name,
		Apply: func(s string) string { return re.ReplaceAllString(s, "") },
	}
}

var (
	ruleLine     = regexp.MustCompile(`(?m)^[ \t]*(?:-{3,}|\*{3,}|_{3,})[ \t]*$`)
	adMarker     = regexp.MustCompile(`(?i)pollinations|🌸|\bsponsor(?:ed)?\b|\badvertis|\bad:|learn more`)
	learnMore    = regexp.MustCompile(`(?i)learn more`)
	urlScheme    = regexp.MustCompile(`(?i)\b(?:https?|ftp)://`)
	trailingRule = regexp.MustCompile(`(?:\s*(?:-{3,}|\*{3,}|_{3,}|[-–—]+))+\s*$`)
	residual     = regexp.MustCompile(`(?i)pollinations|🌸|learn more|\b(?:https?|ftp)://`)
)

// Pass one, in order. Trailing blocks are cut first because they are
// recognized by the markers the later stages remove.
var passOne = []Stage{
	{Name: "trailing-ad-block", Apply: cutTrailingAdBlock},
	regexStage("ad-banner", `(?m)^[^\n]*🌸[^\n]*(?:\n|$)`),
	regexStage("sponsor-lines", `(?im)^[^\n]*(?:powered by pollinations|support our mission)[^\n]*(?:\n|$)`),
	regexStage("ad-links", `\[[^\]\n]*\]\(\s*[^)\s]*pollinations\.ai[^)]*\)`),
	regexStage("redirect-links", `\[[^\]\n]*\]\(\s*[^)\s]*/redirect[/?][^)]*\)`),
	regexStage("ad-urls", `(?i)(?:https?://)?(?:[a-z0-9-]+\.)*pollinations\.ai(?:/[^\s)\]]*)?`),
}

// Pass two, in order.
var passTwo = []Stage{
	{Name: "first-segment", Apply: firstSegment},
	{Name: "learn-more-lines", Apply: dropLines(learnMore)},
	{Name: "url-lines", Apply: dropLines(urlScheme)},
}

// PassOneStages returns the ordered targeted-removal stages.
func PassOneStages() []Stage {
	return append([]Stage(nil), passOne...)
}

// PassTwoStages returns the ordered aggressive stages.
func PassTwoStages() []Stage {
	return append([]Stage(nil), passTwo...)
}

func apply(stages []Stage, s string) string {
	for _, st := range stages {
		s = st.Apply(s)
	}
	return s
}

// PassOne removes known ad-link formats, ad-domain URLs, sponsor banners, and
// trailing rule-delimited ad blocks.
func PassOne(s string) string {
	return apply(passOne, s)
}

// Aggressive keeps only the first non-blank segment before a horizontal rule
// and drops every line mentioning "Learn more" or containing a URL.
func Aggressive(s string) string {
	return apply(passTwo, s)
}

// Finalize trims trailing rules, dash runs, and surrounding whitespace.
func Finalize(s string) string {
	return strings.TrimSpace(trailingRule.ReplaceAllString(s, ""))
}

// HasResidualMarkers reports whether s still mentions the ad domain, its
// brand, a "Learn more" prompt, or any URL.
func HasResidualMarkers(s string) bool {
	return residual.MatchString(s)
}

func cutTrailingAdBlock(s string) string {
	locs := ruleLine.FindAllStringIndex(s, -1)
	if len(locs) == 0 {
		return s
	}
	last := locs[len(locs)-1]
	if adMarker.MatchString(s[last[1]:]) {
		return s[:last[0]]
	}
	return s
}

func firstSegment(s string) string {
	for _, seg := range ruleLine.Split(s, -1) {
		if strings.TrimSpace(seg) != "" {
			return seg
		}
	}
	return ""
}

func dropLines(re *regexp.Regexp) func(string) string {
	return func(s string) string {
		lines := strings.Split(s, "\n")
		kept := lines[:0]
		for _, line := range lines {
			if !re.MatchString(line) {
				kept = append(kept, line)
			}
		}
		return strings.Join(kept, "\n")
	}
}
