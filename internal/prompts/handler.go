package prompts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/JaimeStill/compass/pkg/handlers"
	"github.com/JaimeStill/compass/pkg/pagination"
	"github.com/JaimeStill/compass/pkg/routes"
)

// Handler exposes the prompt catalog over HTTP.
type Handler struct {
	sys        System
	logger     *slog.Logger
	pagination pagination.Config
	validate   *validator.Validate
}

// SearchRequest is the body accepted by POST /prompts/search.
type SearchRequest struct {
	pagination.PageRequest
	Filters
}

// StageContent pairs a stage with one of its text resources.
type StageContent struct {
	Stage   Stage  `json:"stage"`
	Content string `json:"content"`
}

func NewHandler(sys System, logger *slog.Logger, cfg pagination.Config) *Handler {
	return &Handler{
		sys:        sys,
		logger:     logger.With("handler", "prompts"),
		pagination: cfg,
		validate:   validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) Routes() routes.Group {
	byID := func(fn func(http.ResponseWriter, *http.Request, uuid.UUID)) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			id, err := uuid.Parse(r.PathValue("id"))
			if err != nil {
				h.fail(w, fmt.Errorf("%w: malformed id %q", ErrInvalidPrompt, r.PathValue("id")))
				return
			}
			fn(w, r, id)
		}
	}

	return routes.Group{
		Prefix: "/prompts",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "POST", Pattern: "", Handler: h.Create},
			{Method: "POST", Pattern: "/search", Handler: h.Search},
			{Method: "GET", Pattern: "/stages", Handler: h.Stages},
			{Method: "GET", Pattern: "/{stage}/instructions", Handler: h.stageText(h.sys.Instructions)},
			{Method: "GET", Pattern: "/{stage}/spec", Handler: h.stageText(h.sys.Spec)},
			{Method: "GET", Pattern: "/{id}", Handler: byID(h.Find)},
			{Method: "PUT", Pattern: "/{id}", Handler: byID(h.Update)},
			{Method: "DELETE", Pattern: "/{id}", Handler: byID(h.Delete)},
			{Method: "POST", Pattern: "/{id}/activate", Handler: byID(h.Activate)},
			{Method: "POST", Pattern: "/{id}/deactivate", Handler: byID(h.Deactivate)},
		},
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	result, err := h.sys.List(r.Context(), pagination.PageRequestFromQuery(query, h.pagination), FiltersFromQuery(query))
	h.respond(w, http.StatusOK, result, err)
}

func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.fail(w, fmt.Errorf("%w: %w", ErrInvalidPrompt, err))
		return
	}
	req.Normalize(h.pagination)

	result, err := h.sys.List(r.Context(), req.PageRequest, req.Filters)
	h.respond(w, http.StatusOK, result, err)
}

func (h *Handler) Stages(w http.ResponseWriter, _ *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, Stages())
}

// stageText serves the text resolved by lookup for the {stage} path value.
// Instructions resolve the active override first; specs are always compiled.
func (h *Handler) stageText(lookup func(context.Context, Stage) (string, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stage, err := ParseStage(r.PathValue("stage"))
		if err != nil {
			h.fail(w, err)
			return
		}
		text, err := lookup(r.Context(), stage)
		h.respond(w, http.StatusOK, StageContent{Stage: stage, Content: text}, err)
	}
}

func (h *Handler) Find(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	prompt, err := h.sys.Find(r.Context(), id)
	h.respond(w, http.StatusOK, prompt, err)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var cmd CreateCommand
	if !h.decode(w, r, &cmd) {
		return
	}
	prompt, err := h.sys.Create(r.Context(), cmd)
	h.respond(w, http.StatusCreated, prompt, err)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	var cmd UpdateCommand
	if !h.decode(w, r, &cmd) {
		return
	}
	prompt, err := h.sys.Update(r.Context(), id, cmd)
	h.respond(w, http.StatusOK, prompt, err)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	if err := h.sys.Delete(r.Context(), id); err != nil {
		h.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Activate makes the prompt the single active override for its stage.
func (h *Handler) Activate(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	prompt, err := h.sys.Activate(r.Context(), id)
	h.respond(w, http.StatusOK, prompt, err)
}

// Deactivate returns the prompt's stage to its compiled default.
func (h *Handler) Deactivate(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	prompt, err := h.sys.Deactivate(r.Context(), id)
	h.respond(w, http.StatusOK, prompt, err)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil {
		err = h.validate.Struct(dst)
	}
	if err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			err = fmt.Errorf("%s failed %s", verrs[0].Field(), verrs[0].Tag())
		}
		h.fail(w, fmt.Errorf("%w: %w", ErrInvalidPrompt, err))
		return false
	}
	return true
}

func (h *Handler) respond(w http.ResponseWriter, status int, body any, err error) {
	if err != nil {
		h.fail(w, err)
		return
	}
	handlers.RespondJSON(w, status, body)
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
}
