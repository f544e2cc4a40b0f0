package questionnaire

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/JaimeStill/compass/internal/assessment"
	"github.com/JaimeStill/compass/internal/workflow"
	"github.com/JaimeStill/compass/pkg/handlers"
	"github.com/JaimeStill/compass/pkg/routes"
)

// Handler provides the assessment endpoints.
type Handler struct {
	rt          *workflow.Runtime
	validate    *validator.Validate
	logger      *slog.Logger
	maxBodySize int64
}

// PhaseCatalog describes the interview structure.
type PhaseCatalog struct {
	Phases       []string `json:"phases"`
	PerPhase     int      `json:"perPhaseQuota"`
	MaxQuestions int      `json:"maxQuestions"`
}

// ScoreRequest is the body of the score endpoint.
type ScoreRequest struct {
	History assessment.History `json:"history" validate:"max=20,dive"`
}

// NewHandler creates a Handler bound to the workflow runtime. Request bodies
// larger than maxBodySize are rejected; zero disables the limit.
func NewHandler(rt *workflow.Runtime, logger *slog.Logger, maxBodySize int64) *Handler {
	return &Handler{
		rt:          rt,
		validate:    newValidator(),
		logger:      logger.With("handler", "questionnaire"),
		maxBodySize: maxBodySize,
	}
}

// Routes returns the route group definition for questionnaire endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/questionnaire",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "", Handler: h.Execute},
			{Method: "GET", Pattern: "/phases", Handler: h.Phases},
			{Method: "POST", Pattern: "/score", Handler: h.Score},
		},
	}
}

// Execute returns the next question for a history, or the final report when
// the request action is generateReport.
func (h *Handler) Execute(w http.ResponseWriter, r *http.Request) {
	var req workflow.Request
	if err := decode(w, r, h.validate, h.maxBodySize, &req); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	result, err := workflow.Execute(r.Context(), h.rt, req)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Phases returns the ordered phase list and quotas.
func (h *Handler) Phases(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, PhaseCatalog{
		Phases:       assessment.Phases(),
		PerPhase:     assessment.PerPhaseQuota(),
		MaxQuestions: assessment.MaxQuestions,
	})
}

// Score returns the score breakdown and tier for a history without generating anything.
func (h *Handler) Score(w http.ResponseWriter, r *http.Request) {
	var req ScoreRequest
	if err := decode(w, r, h.validate, h.maxBodySize, &req); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, assessment.Evaluate(req.History))
}
