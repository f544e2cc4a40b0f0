package api

import (
	"net/http"

	"github.com/JaimeStill/compass/internal/config"
	"github.com/JaimeStill/compass/internal/questionnaire"
	"github.com/JaimeStill/compass/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
	runtime *Runtime,
) {
	assessment := questionnaire.NewHandler(
		domain.Workflow,
		runtime.Logger,
		cfg.API.MaxRequestSizeBytes(),
	)

	routes.Register(
		mux,
		assessment.Routes(),
		domain.Sessions.Handler().Routes(),
		domain.Prompts.Handler().Routes(),
	)
}
