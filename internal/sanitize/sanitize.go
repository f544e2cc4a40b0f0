package sanitize

import (
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const minTerminalSection = 80

var terminalHeading = regexp.MustCompile(
	`(?im)^#{1,3}[ \t]*(?:Recommended Next Steps|Next Steps|Conclusion|Final Thoughts)[ \t]*:?[ \t]*$`,
)

var (
	anomalies = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "compass",
		Subsystem: "sanitize",
		Name:      "anomalies_total",
		Help:      "Post-check anomalies detected in sanitized reports",
	}, []string{"kind"})

	removedBytes = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "compass",
		Subsystem: "sanitize",
		Name:      "removed_bytes_total",
		Help:      "Bytes of promotional content removed from reports",
	})
)

// Anomaly kinds reported by Check.
const (
	MissingTerminalHeading = "missing_terminal_heading"
	TruncatedTerminal      = "truncated_terminal_section"
)

// Anomaly is a non-fatal structural problem found in sanitized text.
type Anomaly struct {
	Kind   string
	Detail string
}

func round(s string) string {
	cleaned := PassOne(s)
	if len(cleaned) != len(s) {
		cleaned = Aggressive(cleaned)
	}
	return Finalize(cleaned)
}

// Sanitize removes promotional content from s. Pass one always runs; the
// aggressive pass runs when pass one removed anything. Rounds repeat until
// the text stops changing, so Sanitize(Sanitize(x)) == Sanitize(x).
func Sanitize(s string) string {
	// every stage only deletes text, so the loop ends
	for {
		next := round(s)
		if next == s {
			return s
		}
		s = next
	}
}

// Check inspects sanitized text for a terminal section and reports when it is
// missing or implausibly short.
func Check(s string) []Anomaly {
	locs := terminalHeading.FindAllStringIndex(s, -1)
	if len(locs) == 0 {
		return []Anomaly{{Kind: MissingTerminalHeading, Detail: "no terminal section heading"}}
	}

	last := locs[len(locs)-1]
	tail := strings.TrimSpace(s[last[1]:])
	if len(tail) < minTerminalSection {
		heading := strings.TrimSpace(s[last[0]:last[1]])
		return []Anomaly{{
			Kind:   TruncatedTerminal,
			Detail: fmt.Sprintf("%q followed by %d characters", heading, len(tail)),
		}}
	}
	return nil
}

// Pipeline runs Sanitize and logs what it removed and any anomalies found.
type Pipeline struct {
	logger *slog.Logger
}

// New creates a Pipeline that logs with the given logger.
func New(logger *slog.Logger) *Pipeline {
	return &Pipeline{logger: logger.With("module", "sanitize")}
}

// Sanitize cleans s, logging removals and post-check anomalies.
func (p *Pipeline) Sanitize(s string) string {
	out := Sanitize(s)

	if removed := len(s) - len(out); removed > 0 {
		removedBytes.Add(float64(removed))
		p.logger.Info("promotional content removed", "bytes", removed)
	}

	for _, a := range Check(out) {
		anomalies.WithLabelValues(a.Kind).Inc()
		p.logger.Warn("report anomaly", "kind", a.Kind, "detail", a.Detail)
	}

	return out
}

// Clean sanitizes s and, when residual markers survive, forces the
// aggressive pass once more.
func (p *Pipeline) Clean(s string) string {
	out := p.Sanitize(s)
	if HasResidualMarkers(out) {
		p.logger.Warn("residual markers after sanitize, applying aggressive pass")
		out = Finalize(Aggressive(out))
	}
	return out
}

var selfTestSamples = []string{
	"## Overall Tier: Enabler\n\nSolid foundations.\n\n## Next Steps\n\nPrioritize data governance, name an accountable executive owner, and pilot two high-value use cases this quarter.",
	"Report body.\n\n---\n\n🌸 Ad 🌸\nPowered by Pollinations.AI free text APIs. [Support our mission](https://pollinations.ai/redirect/123) to keep AI accessible.",
	"Intro [click](https://pollinations.ai/redirect/abc?x=1) text\nLearn more at https://example.com\n---\nTail",
	"",
}

// SelfTest verifies idempotence and ad-link removal on reference samples.
func SelfTest() error {
	var errs []error
	for i, sample := range selfTestSamples {
		once := Sanitize(sample)
		if twice := Sanitize(once); twice != once {
			errs = append(errs, fmt.Errorf("sample %d: not idempotent", i))
		}
		if strings.Contains(strings.ToLower(once), "pollinations.ai/redirect") {
			errs = append(errs, fmt.Errorf("sample %d: redirect link survived", i))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("sanitize self-test: %w", errors.Join(errs...))
	}
	return nil
}
