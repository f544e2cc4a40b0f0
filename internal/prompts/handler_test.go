package prompts_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/JaimeStill/compass/internal/prompts"
	"github.com/JaimeStill/compass/pkg/pagination"
)

type mockSystem struct {
	listFn         func(ctx context.Context, page pagination.PageRequest, filters prompts.Filters) (*pagination.PageResult[prompts.Prompt], error)
	findFn         func(ctx context.Context, id uuid.UUID) (*prompts.Prompt, error)
	instructionsFn func(ctx context.Context, stage prompts.Stage) (string, error)
	createFn       func(ctx context.Context, cmd prompts.CreateCommand) (*prompts.Prompt, error)
	updateFn       func(ctx context.Context, id uuid.UUID, cmd prompts.UpdateCommand) (*prompts.Prompt, error)
	deleteFn       func(ctx context.Context, id uuid.UUID) error
	activateFn     func(ctx context.Context, id uuid.UUID) (*prompts.Prompt, error)
	deactivateFn   func(ctx context.Context, id uuid.UUID) (*prompts.Prompt, error)
}

func (m *mockSystem) Handler() *prompts.Handler { return newTestHandler(m) }

func (m *mockSystem) List(ctx context.Context, page pagination.PageRequest, filters prompts.Filters) (*pagination.PageResult[prompts.Prompt], error) {
	return m.listFn(ctx, page, filters)
}

func (m *mockSystem) Find(ctx context.Context, id uuid.UUID) (*prompts.Prompt, error) {
	return m.findFn(ctx, id)
}

func (m *mockSystem) Instructions(ctx context.Context, stage prompts.Stage) (string, error) {
	return m.instructionsFn(ctx, stage)
}

func (m *mockSystem) Spec(_ context.Context, stage prompts.Stage) (string, error) {
	return prompts.Spec(stage)
}

func (m *mockSystem) Create(ctx context.Context, cmd prompts.CreateCommand) (*prompts.Prompt, error) {
	return m.createFn(ctx, cmd)
}

func (m *mockSystem) Update(ctx context.Context, id uuid.UUID, cmd prompts.UpdateCommand) (*prompts.Prompt, error) {
	return m.updateFn(ctx, id, cmd)
}

func (m *mockSystem) Delete(ctx context.Context, id uuid.UUID) error {
	return m.deleteFn(ctx, id)
}

func (m *mockSystem) Activate(ctx context.Context, id uuid.UUID) (*prompts.Prompt, error) {
	return m.activateFn(ctx, id)
}

func (m *mockSystem) Deactivate(ctx context.Context, id uuid.UUID) (*prompts.Prompt, error) {
	return m.deactivateFn(ctx, id)
}

func newTestHandler(sys prompts.System) *prompts.Handler {
	return prompts.NewHandler(
		sys,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		pagination.Config{DefaultPageSize: 20, MaxPageSize: 100},
	)
}

func setupMux(h *prompts.Handler) *http.ServeMux {
	mux := http.NewServeMux()
	group := h.Routes()
	for _, route := range group.Routes {
		mux.HandleFunc(route.Method+" "+group.Prefix+route.Pattern, route.Handler)
	}
	return mux
}

func samplePrompt() prompts.Prompt {
	return prompts.Prompt{
		ID:           uuid.MustParse("550e8400-e29b-41d4-a716-446655440000"),
		Name:         "healthcare-questions",
		Stage:        prompts.StageQuestion,
		Instructions: "Frame every question around clinical operations.",
		Description:  ptr("Healthcare interview tone"),
	}
}

func serve(mux *http.ServeMux, method, target string, body []byte) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	mux.ServeHTTP(rec, req)
	return rec
}

func TestHandlerList(t *testing.T) {
	p := samplePrompt()
	var captured prompts.Filters
	sys := &mockSystem{
		listFn: func(_ context.Context, _ pagination.PageRequest, f prompts.Filters) (*pagination.PageResult[prompts.Prompt], error) {
			captured = f
			result := pagination.NewPageResult([]prompts.Prompt{p}, 1, 1, 20)
			return &result, nil
		},
	}

	rec := serve(setupMux(newTestHandler(sys)), "GET", "/prompts?stage=question&name=health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var result pagination.PageResult[prompts.Prompt]
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.Total != 1 || result.Data[0].ID != p.ID {
		t.Errorf("result = %+v", result)
	}
	if captured.Stage == nil || *captured.Stage != prompts.StageQuestion {
		t.Errorf("stage filter = %v, want question", captured.Stage)
	}
}

func TestHandlerStages(t *testing.T) {
	rec := serve(setupMux(newTestHandler(&mockSystem{})), "GET", "/prompts/stages", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var stages []prompts.Stage
	if err := json.NewDecoder(rec.Body).Decode(&stages); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(stages) != 4 {
		t.Errorf("stages = %v, want 4 entries", stages)
	}
}

func TestHandlerFind(t *testing.T) {
	p := samplePrompt()
	sys := &mockSystem{
		findFn: func(_ context.Context, id uuid.UUID) (*prompts.Prompt, error) {
			if id != p.ID {
				return nil, prompts.ErrNotFound
			}
			return &p, nil
		},
	}
	mux := setupMux(newTestHandler(sys))

	tests := []struct {
		name   string
		target string
		want   int
	}{
		{"found", "/prompts/" + p.ID.String(), http.StatusOK},
		{"missing", "/prompts/" + uuid.New().String(), http.StatusNotFound},
		{"malformed id", "/prompts/not-a-uuid", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rec := serve(mux, "GET", tt.target, nil); rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestHandlerInstructions(t *testing.T) {
	sys := &mockSystem{
		instructionsFn: func(_ context.Context, stage prompts.Stage) (string, error) {
			return "override for " + string(stage), nil
		},
	}
	mux := setupMux(newTestHandler(sys))

	t.Run("effective instructions", func(t *testing.T) {
		rec := serve(mux, "GET", "/prompts/report_leader/instructions", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}

		var got prompts.StageContent
		if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if got.Stage != prompts.StageReportLeader || got.Content != "override for report_leader" {
			t.Errorf("got %+v", got)
		}
	})

	t.Run("spec", func(t *testing.T) {
		rec := serve(mux, "GET", "/prompts/question/spec", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
	})

	t.Run("invalid stage", func(t *testing.T) {
		if rec := serve(mux, "GET", "/prompts/classify/instructions", nil); rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func TestHandlerCreate(t *testing.T) {
	var captured prompts.CreateCommand
	sys := &mockSystem{
		createFn: func(_ context.Context, cmd prompts.CreateCommand) (*prompts.Prompt, error) {
			captured = cmd
			if cmd.Name == "taken" {
				return nil, prompts.ErrDuplicate
			}
			p := samplePrompt()
			p.Name, p.Stage = cmd.Name, cmd.Stage
			return &p, nil
		},
	}
	mux := setupMux(newTestHandler(sys))

	t.Run("created", func(t *testing.T) {
		body := []byte(`{"name":"leader-tone","stage":"report_leader","instructions":"Be brief."}`)
		rec := serve(mux, "POST", "/prompts", body)
		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, want 201", rec.Code)
		}
		if captured.Stage != prompts.StageReportLeader {
			t.Errorf("stage = %q, want report_leader", captured.Stage)
		}
	})

	t.Run("duplicate", func(t *testing.T) {
		body := []byte(`{"name":"taken","stage":"question","instructions":"x"}`)
		if rec := serve(mux, "POST", "/prompts", body); rec.Code != http.StatusConflict {
			t.Errorf("status = %d, want 409", rec.Code)
		}
	})

	t.Run("missing instructions", func(t *testing.T) {
		body := []byte(`{"name":"x","stage":"question","instructions":""}`)
		if rec := serve(mux, "POST", "/prompts", body); rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("invalid stage in body", func(t *testing.T) {
		body := []byte(`{"name":"x","stage":"enhance","instructions":"x"}`)
		if rec := serve(mux, "POST", "/prompts", body); rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func TestHandlerLifecycle(t *testing.T) {
	p := samplePrompt()
	sys := &mockSystem{
		updateFn: func(_ context.Context, _ uuid.UUID, cmd prompts.UpdateCommand) (*prompts.Prompt, error) {
			updated := p
			updated.Instructions = cmd.Instructions
			return &updated, nil
		},
		deleteFn: func(_ context.Context, id uuid.UUID) error {
			if id != p.ID {
				return prompts.ErrNotFound
			}
			return nil
		},
		activateFn: func(context.Context, uuid.UUID) (*prompts.Prompt, error) {
			active := p
			active.Active = true
			return &active, nil
		},
		deactivateFn: func(context.Context, uuid.UUID) (*prompts.Prompt, error) {
			return &p, nil
		},
	}
	mux := setupMux(newTestHandler(sys))
	base := "/prompts/" + p.ID.String()

	t.Run("update", func(t *testing.T) {
		body := []byte(`{"name":"healthcare-questions","stage":"question","instructions":"Shorter."}`)
		rec := serve(mux, "PUT", base, body)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
	})

	t.Run("activate", func(t *testing.T) {
		rec := serve(mux, "POST", base+"/activate", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		var got prompts.Prompt
		json.NewDecoder(rec.Body).Decode(&got)
		if !got.Active {
			t.Error("prompt not active")
		}
	})

	t.Run("deactivate", func(t *testing.T) {
		if rec := serve(mux, "POST", base+"/deactivate", nil); rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
	})

	t.Run("delete", func(t *testing.T) {
		if rec := serve(mux, "DELETE", base, nil); rec.Code != http.StatusNoContent {
			t.Errorf("status = %d, want 204", rec.Code)
		}
		if rec := serve(mux, "DELETE", "/prompts/"+uuid.New().String(), nil); rec.Code != http.StatusNotFound {
			t.Errorf("missing status = %d, want 404", rec.Code)
		}
	})
}
