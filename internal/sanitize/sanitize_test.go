package sanitize_test

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/JaimeStill/compass/internal/sanitize"
)

const cleanReport = "## Overall Tier: Enabler\n\nSolid foundations.\n\n## Next Steps\n\nPrioritize data governance, name an accountable executive owner, and pilot two high-value use cases this quarter."

const adFooter = "\n\n---\n\n🌸 Ad 🌸\nPowered by Pollinations.AI free text APIs. [Support our mission](https://pollinations.ai/redirect/123) to keep AI accessible."

var corpus = []string{
	"",
	"   \n\n  ",
	cleanReport,
	cleanReport + adFooter,
	"Report body." + adFooter,
	"Intro [click](https://pollinations.ai/redirect/abc?x=1) text\nLearn more at https://example.com\n---\nTail",
	"# Report\n\n## Section\n\nBody text.\n\n---\n\n## Next Steps\n\nDo things.\n\n---\n",
	"See pollinations.ai/redirect/77 now",
	"Body\n\n---\n\n**Sponsor**\nGet it at [here](https://ads.example.com/redirect/1)",
	"---\n---\n---",
	"Visit https://text.pollinations.ai/openai?ref=abc and [ad](http://pollinations.ai)",
	"Line one —\n\n- - -\n***\n",
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"clean report unchanged", cleanReport, cleanReport},
		{"ad footer removed", "Report body." + adFooter, "Report body."},
		{"clean report with footer", cleanReport + adFooter, cleanReport},
		{
			name: "inline redirect link triggers aggressive pass",
			in:   "Intro [click](https://pollinations.ai/redirect/abc?x=1) text\nLearn more at https://example.com\n---\nTail",
			want: "Intro  text",
		},
		{
			name: "trailing rules trimmed",
			in:   "# Report\n\n## Section\n\nBody text.\n\n---\n\n## Next Steps\n\nDo things.\n\n---\n",
			want: "# Report\n\n## Section\n\nBody text.\n\n---\n\n## Next Steps\n\nDo things.",
		},
		{"bare ad domain", "See pollinations.ai/redirect/77 now", "See  now"},
		{"sponsor block", "Body\n\n---\n\n**Sponsor**\nGet it at [here](https://ads.example.com/redirect/1)", "Body"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sanitize.Sanitize(tt.in); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSanitizeIdempotent(t *testing.T) {
	inputs := append([]string(nil), corpus...)
	for _, a := range corpus {
		for _, b := range corpus {
			inputs = append(inputs, a+"\n"+b)
		}
	}

	for i, in := range inputs {
		once := sanitize.Sanitize(in)
		if twice := sanitize.Sanitize(once); twice != once {
			t.Errorf("input %d not idempotent:\nonce:  %q\ntwice: %q", i, once, twice)
		}
	}
}

func TestSanitizeRemovesRedirectLinks(t *testing.T) {
	inputs := []string{
		"[Support](https://pollinations.ai/redirect/1)",
		"text https://pollinations.ai/redirect/2 more",
		"**Ad** see https://image.pollinations.ai/redirect/3?utm=x",
		cleanReport + adFooter,
		"pollinations.ai/redirect/4",
	}

	for _, in := range inputs {
		out := strings.ToLower(sanitize.Sanitize(in))
		if strings.Contains(out, "pollinations.ai/redirect") {
			t.Errorf("redirect link survived in %q", out)
		}
	}
}

func TestStagesArePure(t *testing.T) {
	in := cleanReport + adFooter
	for _, st := range append(sanitize.PassOneStages(), sanitize.PassTwoStages()...) {
		if a, b := st.Apply(in), st.Apply(in); a != b {
			t.Errorf("stage %s is not deterministic", st.Name)
		}
		if len(st.Apply(in)) > len(in) {
			t.Errorf("stage %s grew its input", st.Name)
		}
	}
}

func TestAggressive(t *testing.T) {
	in := "Keep this\nLearn more about us\nhttps://example.com/x\n---\nDrop this"
	if got := sanitize.Aggressive(in); got != "Keep this\n" {
		t.Errorf("got %q", got)
	}

	leading := "---\nFirst real segment\n---\nSecond"
	if got := sanitize.Finalize(sanitize.Aggressive(leading)); got != "First real segment" {
		t.Errorf("leading rule: got %q", got)
	}
}

func TestHasResidualMarkers(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{cleanReport, false},
		{"Read https://example.com", true},
		{"Learn more today", true},
		{"Brought to you by Pollinations", true},
	}

	for _, tt := range tests {
		if got := sanitize.HasResidualMarkers(tt.in); got != tt.want {
			t.Errorf("HasResidualMarkers(%q): got %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestCheck(t *testing.T) {
	t.Run("complete report", func(t *testing.T) {
		if got := sanitize.Check(cleanReport); len(got) != 0 {
			t.Errorf("unexpected anomalies: %v", got)
		}
	})

	t.Run("missing heading", func(t *testing.T) {
		got := sanitize.Check("## Overall Tier: Leader\n\nGreat work.")
		if len(got) != 1 || got[0].Kind != sanitize.MissingTerminalHeading {
			t.Errorf("got %v", got)
		}
	})

	t.Run("truncated section", func(t *testing.T) {
		got := sanitize.Check("## Overall Tier: Leader\n\n## Conclusion\n\nShort.")
		if len(got) != 1 || got[0].Kind != sanitize.TruncatedTerminal {
			t.Errorf("got %v", got)
		}
	})
}

func TestPipelineLogs(t *testing.T) {
	var buf bytes.Buffer
	p := sanitize.New(slog.New(slog.NewTextHandler(&buf, nil)))

	out := p.Sanitize("## Overall Tier: Dabbler\n\nBody." + adFooter)
	if out != "## Overall Tier: Dabbler\n\nBody." {
		t.Errorf("got %q", out)
	}

	log := buf.String()
	if !strings.Contains(log, "promotional content removed") {
		t.Errorf("missing removal log: %s", log)
	}
	if !strings.Contains(log, sanitize.MissingTerminalHeading) {
		t.Errorf("missing anomaly log: %s", log)
	}
}

func TestPipelineClean(t *testing.T) {
	var buf bytes.Buffer
	p := sanitize.New(slog.New(slog.NewTextHandler(&buf, nil)))

	in := cleanReport + "\n\nResources: https://example.com/guide"
	out := p.Clean(in)
	if strings.Contains(out, "https://") {
		t.Errorf("url survived: %q", out)
	}
	if !strings.HasPrefix(out, "## Overall Tier: Enabler") {
		t.Errorf("content lost: %q", out)
	}
}

func TestSelfTest(t *testing.T) {
	if err := sanitize.SelfTest(); err != nil {
		t.Fatal(err)
	}
}
