// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"net/http"

	"github.com/JaimeStill/compass/internal/config"
	"github.com/JaimeStill/compass/internal/infrastructure"
	"github.com/JaimeStill/compass/pkg/middleware"
	"github.com/JaimeStill/compass/pkg/module"
)

// NewModule creates the API module with all domain handlers and middleware.
// Pending session records are flushed before the lifecycle finishes shutting down.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(runtime)

	mux := http.NewServeMux()
	registerRoutes(mux, domain, cfg, runtime)

	infra.Lifecycle.OnDrain(func() {
		domain.Workflow.Wait()
		runtime.Logger.Info("pending session records flushed")
	})

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(runtime.Logger))
	m.Use(middleware.Auth(&cfg.API.Auth, runtime.Logger))

	return m, nil
}
