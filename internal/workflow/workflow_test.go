package workflow_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/JaimeStill/compass/internal/assessment"
	"github.com/JaimeStill/compass/internal/prompts"
	"github.com/JaimeStill/compass/internal/sanitize"
	"github.com/JaimeStill/compass/internal/sessions"
	"github.com/JaimeStill/compass/internal/workflow"
	"github.com/JaimeStill/compass/pkg/llm"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

type mockPrompts struct {
	prompts.System
}

func (mockPrompts) Instructions(_ context.Context, stage prompts.Stage) (string, error) {
	return "instructions for " + string(stage), nil
}

func (mockPrompts) Spec(_ context.Context, stage prompts.Stage) (string, error) {
	return prompts.Spec(stage)
}

type mockGenerator struct {
	mu        sync.Mutex
	questions []workflow.GeneratedQuestion
	report    string
	err       error
	initErr   error
	calls     int
	systems   []string
}

func (g *mockGenerator) Initialize(context.Context) error { return g.initErr }

func (g *mockGenerator) GenerateReport(_ context.Context, system, _ string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	g.systems = append(g.systems, system)
	return g.report, g.err
}

func (g *mockGenerator) GenerateNextQuestion(_ context.Context, system, _ string) (*workflow.GeneratedQuestion, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.systems = append(g.systems, system)
	if g.err != nil {
		return nil, g.err
	}
	i := min(g.calls, len(g.questions)-1)
	g.calls++
	q := g.questions[i]
	return &q, nil
}

func (g *mockGenerator) CurrentProvider() workflow.ProviderInfo {
	return workflow.ProviderInfo{Name: "mock"}
}

type mockRecorder struct {
	mu   sync.Mutex
	cmds []sessions.CreateCommand
	err  error
}

func (r *mockRecorder) Create(_ context.Context, cmd sessions.CreateCommand) (*sessions.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cmds = append(r.cmds, cmd)
	if r.err != nil {
		return nil, r.err
	}
	return &sessions.Session{ID: uuid.New(), Tier: cmd.Breakdown.Tier}, nil
}

func newRuntime(gen *mockGenerator, rec *mockRecorder) *workflow.Runtime {
	rt := &workflow.Runtime{
		Generator: gen,
		Prompts:   mockPrompts{},
		Sanitizer: sanitize.New(discard),
		Logger:    discard,
	}
	if rec != nil {
		rt.Sessions = rec
	}
	return rt
}

func record(question, phase string) assessment.AnswerRecord {
	return assessment.AnswerRecord{
		Question:   question,
		Answer:     assessment.TextAnswer("3"),
		Phase:      phase,
		AnswerType: assessment.AnswerScale,
	}
}

func question(text string) workflow.GeneratedQuestion {
	return workflow.GeneratedQuestion{
		QuestionText: text,
		AnswerType:   assessment.AnswerRadio,
		Options:      []string{"Not yet", "Piloting", "In production"},
		Reasoning:    "gauges adoption",
	}
}

func fullHistory() assessment.History {
	h := make(assessment.History, 0, assessment.MaxQuestions)
	for i, phase := range assessment.Phases() {
		for j := range assessment.PerPhaseQuota() {
			h = append(h, record(phase+" q"+string(rune('a'+i*4+j)), phase))
		}
	}
	return h
}

func TestNextQuestionTerminal(t *testing.T) {
	gen := &mockGenerator{questions: []workflow.GeneratedQuestion{question("unused")}}
	rt := newRuntime(gen, nil)

	resp, err := workflow.NextQuestion(context.Background(), rt, workflow.Request{
		CurrentPhaseName: assessment.PhaseGovernance,
		History:          fullHistory(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.QuestionText != nil {
		t.Errorf("question = %q, want nil", *resp.QuestionText)
	}
	if resp.PhaseStatus != "complete" || resp.OverallStatus != "completed" {
		t.Errorf("statuses = %s/%s", resp.PhaseStatus, resp.OverallStatus)
	}
	if gen.calls != 0 {
		t.Errorf("generator called %d times for a complete session", gen.calls)
	}
}

func TestNextQuestion(t *testing.T) {
	strategy := assessment.History{
		record("s1", assessment.PhaseStrategy),
		record("s2", assessment.PhaseStrategy),
		record("s3", assessment.PhaseStrategy),
		record("s4", assessment.PhaseStrategy),
	}

	tests := []struct {
		name      string
		current   string
		history   assessment.History
		generated []workflow.GeneratedQuestion
		wantText  string
		wantPhase string
		wantCalls int
	}{
		{
			name:      "opening question",
			current:   "",
			generated: []workflow.GeneratedQuestion{question("What is your AI vision?")},
			wantText:  "What is your AI vision?",
			wantPhase: assessment.PhaseStrategy,
			wantCalls: 1,
		},
		{
			name:      "quota met advances phase",
			current:   assessment.PhaseStrategy,
			history:   strategy,
			generated: []workflow.GeneratedQuestion{question("Where does your data live?")},
			wantText:  "Where does your data live?",
			wantPhase: assessment.PhaseData,
			wantCalls: 1,
		},
		{
			name:      "duplicate is suffixed",
			current:   assessment.PhaseStrategy,
			history:   assessment.History{record("s1", assessment.PhaseStrategy)},
			generated: []workflow.GeneratedQuestion{question("s1")},
			wantText:  "s1" + assessment.DuplicateSuffix,
			wantPhase: assessment.PhaseStrategy,
			wantCalls: 1,
		},
		{
			name:    "suffixed duplicate moves to next phase",
			current: assessment.PhaseStrategy,
			history: assessment.History{
				record("s1", assessment.PhaseStrategy),
				record("s1"+assessment.DuplicateSuffix, assessment.PhaseStrategy),
			},
			generated: []workflow.GeneratedQuestion{question("s1"), question("Who owns your data?")},
			wantText:  "Who owns your data?",
			wantPhase: assessment.PhaseData,
			wantCalls: 2,
		},
		{
			name:    "repeat skips a phase whose quota is met",
			current: assessment.PhaseStrategy,
			history: assessment.History{
				record("s1", assessment.PhaseStrategy),
				record("s1"+assessment.DuplicateSuffix, assessment.PhaseStrategy),
				record("d1", assessment.PhaseData),
				record("d2", assessment.PhaseData),
				record("d3", assessment.PhaseData),
				record("d4", assessment.PhaseData),
			},
			generated: []workflow.GeneratedQuestion{question("s1"), question("Which tools do teams use?")},
			wantText:  "Which tools do teams use?",
			wantPhase: assessment.PhaseTechnology,
			wantCalls: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &mockGenerator{questions: tt.generated}
			rt := newRuntime(gen, nil)

			resp, err := workflow.NextQuestion(context.Background(), rt, workflow.Request{
				CurrentPhaseName: tt.current,
				Industry:         "Retail",
				History:          tt.history,
			})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if resp.QuestionText == nil || *resp.QuestionText != tt.wantText {
				t.Errorf("question = %v, want %q", resp.QuestionText, tt.wantText)
			}
			if resp.CurrentPhaseName != tt.wantPhase {
				t.Errorf("phase = %q, want %q", resp.CurrentPhaseName, tt.wantPhase)
			}
			if resp.PhaseStatus != "asking" || resp.OverallStatus != "asking" {
				t.Errorf("statuses = %s/%s", resp.PhaseStatus, resp.OverallStatus)
			}
			if resp.ProviderUsed != "mock" {
				t.Errorf("provider = %q", resp.ProviderUsed)
			}
			if gen.calls != tt.wantCalls {
				t.Errorf("generator calls = %d, want %d", gen.calls, tt.wantCalls)
			}
			for _, prior := range tt.history {
				if *resp.QuestionText == prior.Question {
					t.Errorf("emitted a repeat of %q", prior.Question)
				}
			}
		})
	}
}

func TestNextQuestionFinalPhaseRepeatEndsSession(t *testing.T) {
	history := assessment.History{
		record("g1", assessment.PhaseGovernance),
		record("g1"+assessment.DuplicateSuffix, assessment.PhaseGovernance),
	}
	gen := &mockGenerator{questions: []workflow.GeneratedQuestion{question("g1")}}

	resp, err := workflow.NextQuestion(context.Background(), newRuntime(gen, nil), workflow.Request{
		CurrentPhaseName: assessment.PhaseGovernance,
		History:          history,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.QuestionText != nil || resp.OverallStatus != "completed" {
		t.Errorf("response = %+v, want forced completion", resp)
	}
}

func TestNextQuestionPromptCarriesPhase(t *testing.T) {
	gen := &mockGenerator{questions: []workflow.GeneratedQuestion{question("q")}}
	userName := "Ada"

	_, err := workflow.NextQuestion(context.Background(), newRuntime(gen, nil), workflow.Request{
		CurrentPhaseName: assessment.PhaseTechnology,
		Industry:         "Healthcare",
		UserName:         &userName,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	system := gen.systems[0]
	for _, want := range []string{"instructions for question", `"phase": "Technology & Tools"`, `"industry": "Healthcare"`, `"userName": "Ada"`} {
		if !strings.Contains(system, want) {
			t.Errorf("system prompt missing %q", want)
		}
	}
}

func TestNextQuestionValidation(t *testing.T) {
	t.Run("empty question text", func(t *testing.T) {
		gen := &mockGenerator{questions: []workflow.GeneratedQuestion{question("   ")}}
		_, err := workflow.NextQuestion(context.Background(), newRuntime(gen, nil), workflow.Request{})

		if !errors.Is(err, workflow.ErrNoQuestion) {
			t.Fatalf("error = %v, want ErrNoQuestion", err)
		}
		if got := workflow.MapHTTPStatus(err); got != http.StatusBadGateway {
			t.Errorf("status = %d, want 502", got)
		}
	})

	t.Run("unknown answer type becomes text", func(t *testing.T) {
		q := question("Describe your roadmap.")
		q.AnswerType = "slider"
		gen := &mockGenerator{questions: []workflow.GeneratedQuestion{q}}

		resp, err := workflow.NextQuestion(context.Background(), newRuntime(gen, nil), workflow.Request{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.AnswerType != assessment.AnswerText || len(resp.Options) != 0 {
			t.Errorf("answer type = %q, options = %v", resp.AnswerType, resp.Options)
		}
	})

	t.Run("provider exhaustion propagates", func(t *testing.T) {
		gen := &mockGenerator{err: llm.ErrExhausted}
		_, err := workflow.NextQuestion(context.Background(), newRuntime(gen, nil), workflow.Request{})

		if !errors.Is(err, llm.ErrExhausted) {
			t.Fatalf("error = %v, want ErrExhausted", err)
		}
		if got := workflow.MapHTTPStatus(err); got != http.StatusServiceUnavailable {
			t.Errorf("status = %d, want 503", got)
		}
	})
}

func leaderHistory() assessment.History {
	h := make(assessment.History, 4)
	for i := range h {
		h[i] = assessment.AnswerRecord{
			Question:   "Which capabilities are in place? " + string(rune('A'+i)),
			Answer:     assessment.ListAnswer("a", "b", "c", "d", "e"),
			Phase:      assessment.PhaseStrategy,
			AnswerType: assessment.AnswerCheckbox,
			Options:    []string{"a", "b", "c", "d", "e"},
		}
	}
	return h
}

const adTail = `

---

🌸 Ad 🌸
Powered by Pollinations.AI free text APIs. [Support our mission](https://pollinations.ai/redirect/1234) to keep AI accessible for everyone.`

func reportText(tier string) string {
	return "## Overall Tier: " + tier + `

## Executive Summary
Your organization treats AI as a core capability.

## Next Steps
1. Expand the model registry to every business unit and publish quarterly value reviews to the board.` + adTail
}

func TestGenerateReport(t *testing.T) {
	gen := &mockGenerator{report: reportText("Leader")}
	rec := &mockRecorder{}
	rt := newRuntime(gen, rec)

	resp, err := workflow.GenerateReport(context.Background(), rt, workflow.Request{
		Action:   workflow.ActionGenerateReport,
		Industry: "Finance",
		History:  leaderHistory(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rt.Wait()

	if resp.UserAITier != assessment.TierLeader || resp.Score != 100 {
		t.Errorf("tier = %s score = %d, want Leader 100", resp.UserAITier, resp.Score)
	}
	if resp.Status != workflow.StatusResultsGenerated {
		t.Errorf("status = %q", resp.Status)
	}
	if strings.Contains(strings.ToLower(resp.ReportMarkdown), "pollinations") || sanitize.HasResidualMarkers(resp.ReportMarkdown) {
		t.Errorf("report not sanitized:\n%s", resp.ReportMarkdown)
	}
	if !strings.Contains(resp.ReportMarkdown, "## Next Steps") {
		t.Errorf("report lost its content:\n%s", resp.ReportMarkdown)
	}
	if resp.ExtractedTier == nil || *resp.ExtractedTier != assessment.TierLeader {
		t.Errorf("extracted tier = %v", resp.ExtractedTier)
	}
	if !strings.Contains(resp.SystemPromptUsed, "instructions for report_leader") {
		t.Errorf("system prompt used the wrong persona:\n%s", resp.SystemPromptUsed)
	}

	if len(rec.cmds) != 1 {
		t.Fatalf("recorded %d sessions, want 1", len(rec.cmds))
	}
	cmd := rec.cmds[0]
	if cmd.Breakdown.Total != 100 || cmd.Report != resp.ReportMarkdown || cmd.Provider != "mock" {
		t.Errorf("recorded command = %+v", cmd)
	}
}

func TestGenerateReportRecordFailure(t *testing.T) {
	var logs bytes.Buffer
	gen := &mockGenerator{report: reportText("Leader")}
	rec := &mockRecorder{err: errors.New("database unavailable")}
	rt := newRuntime(gen, rec)
	rt.Logger = slog.New(slog.NewTextHandler(&logs, nil))

	resp, err := workflow.GenerateReport(context.Background(), rt, workflow.Request{
		Industry: "Finance",
		History:  leaderHistory(),
	})
	if err != nil {
		t.Fatalf("record failure surfaced to caller: %v", err)
	}
	rt.Wait()

	if resp.UserAITier != assessment.TierLeader {
		t.Errorf("tier = %s", resp.UserAITier)
	}
	out := logs.String()
	if !strings.Contains(out, "session record failed") || !strings.Contains(out, "tier=Leader") {
		t.Errorf("failure not logged with tier:\n%s", out)
	}
}

func TestGenerateReportTierMismatchIsMetadataOnly(t *testing.T) {
	gen := &mockGenerator{report: reportText("Dabbler")}
	rt := newRuntime(gen, nil)

	resp, err := workflow.GenerateReport(context.Background(), rt, workflow.Request{History: leaderHistory()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.UserAITier != assessment.TierLeader {
		t.Errorf("computed tier overridden: %s", resp.UserAITier)
	}
	if resp.ExtractedTier == nil || *resp.ExtractedTier != assessment.TierDabbler {
		t.Errorf("extracted tier = %v, want Dabbler", resp.ExtractedTier)
	}
}

func TestGenerateReportFailures(t *testing.T) {
	t.Run("exhaustion propagates and records nothing", func(t *testing.T) {
		gen := &mockGenerator{err: errors.Join(llm.ErrExhausted, errors.New("503"))}
		rec := &mockRecorder{}
		rt := newRuntime(gen, rec)

		_, err := workflow.GenerateReport(context.Background(), rt, workflow.Request{History: leaderHistory()})
		rt.Wait()

		if !errors.Is(err, llm.ErrExhausted) {
			t.Fatalf("error = %v, want ErrExhausted", err)
		}
		if len(rec.cmds) != 0 {
			t.Errorf("recorded %d sessions after failure", len(rec.cmds))
		}
	})

	t.Run("report that is only advertising", func(t *testing.T) {
		gen := &mockGenerator{report: "Learn more at https://pollinations.ai"}
		_, err := workflow.GenerateReport(context.Background(), newRuntime(gen, nil), workflow.Request{History: leaderHistory()})

		if !errors.Is(err, workflow.ErrGenerateFailed) {
			t.Errorf("error = %v, want ErrGenerateFailed", err)
		}
	})

	t.Run("record failure does not reach caller", func(t *testing.T) {
		gen := &mockGenerator{report: reportText("Leader")}
		rec := &mockRecorder{err: errors.New("database down")}
		rt := newRuntime(gen, rec)

		if _, err := workflow.GenerateReport(context.Background(), rt, workflow.Request{History: leaderHistory()}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		rt.Wait()
		if len(rec.cmds) != 1 {
			t.Errorf("record attempts = %d, want 1", len(rec.cmds))
		}
	})
}

func TestGenerateReportPersonaByTier(t *testing.T) {
	dabbler := assessment.History{{
		Question:   "How is AI used today?",
		Answer:     assessment.TextAnswer("We do not use it, no plans yet."),
		Phase:      assessment.PhaseStrategy,
		AnswerType: assessment.AnswerText,
	}}
	gen := &mockGenerator{report: reportText("Dabbler")}

	resp, err := workflow.GenerateReport(context.Background(), newRuntime(gen, nil), workflow.Request{History: dabbler})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.UserAITier != assessment.TierDabbler {
		t.Errorf("tier = %s, want Dabbler", resp.UserAITier)
	}
	if !strings.Contains(resp.SystemPromptUsed, "instructions for report_dabbler") {
		t.Errorf("wrong persona in system prompt")
	}
}

func TestExecute(t *testing.T) {
	t.Run("dispatches report", func(t *testing.T) {
		gen := &mockGenerator{report: reportText("Leader")}
		out, err := workflow.Execute(context.Background(), newRuntime(gen, nil), workflow.Request{
			Action:  workflow.ActionGenerateReport,
			History: leaderHistory(),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, ok := out.(*workflow.ReportResponse); !ok {
			t.Errorf("result type = %T", out)
		}
	})

	t.Run("dispatches question", func(t *testing.T) {
		gen := &mockGenerator{questions: []workflow.GeneratedQuestion{question("q")}}
		out, err := workflow.Execute(context.Background(), newRuntime(gen, nil), workflow.Request{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, ok := out.(*workflow.QuestionResponse); !ok {
			t.Errorf("result type = %T", out)
		}
	})

	t.Run("initialize failure", func(t *testing.T) {
		gen := &mockGenerator{initErr: llm.ErrNoProviders}
		out, err := workflow.Execute(context.Background(), newRuntime(gen, nil), workflow.Request{})
		if !errors.Is(err, llm.ErrNoProviders) || out != nil {
			t.Errorf("out = %v, err = %v", out, err)
		}
	})
}
