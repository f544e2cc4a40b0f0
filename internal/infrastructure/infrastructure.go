// Package infrastructure assembles the systems every Compass module shares:
// the lifecycle coordinator, the logger, Postgres, the report archive, and
// the LLM provider chain.
package infrastructure

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/JaimeStill/compass/internal/config"
	"github.com/JaimeStill/compass/pkg/database"
	"github.com/JaimeStill/compass/pkg/lifecycle"
	"github.com/JaimeStill/compass/pkg/llm"
	"github.com/JaimeStill/compass/pkg/storage"
)

type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Database  database.System
	Storage   storage.System
	LLM       *llm.Chain
}

// New constructs each system without touching the network.
func New(cfg *config.Config) (*Infrastructure, error) {
	infra := &Infrastructure{
		Lifecycle: lifecycle.New(),
		Logger:    slog.New(slog.NewTextHandler(os.Stderr, nil)),
	}

	var err error
	if infra.Database, err = database.New(&cfg.Database, infra.Logger); err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}
	if infra.Storage, err = storage.New(&cfg.Storage, infra.Logger); err != nil {
		return nil, fmt.Errorf("storage: %w", err)
	}
	infra.LLM = llm.New(&cfg.LLM, infra.Logger)

	return infra, nil
}

// Start registers startup hooks. A provider chain that fails to initialize
// is logged here and surfaces again as ErrNoProviders on each request.
func (i *Infrastructure) Start() error {
	starters := map[string]interface {
		Start(*lifecycle.Coordinator) error
	}{
		"database": i.Database,
		"storage":  i.Storage,
	}
	for name, s := range starters {
		if err := s.Start(i.Lifecycle); err != nil {
			return fmt.Errorf("start %s: %w", name, err)
		}
	}

	i.Lifecycle.OnStartup(func() {
		if err := i.LLM.Initialize(i.Lifecycle.Context()); err != nil {
			i.Logger.Error("llm providers unavailable", "error", err)
			return
		}
		i.Logger.Info("llm providers ready", "providers", i.LLM.Providers())
	})
	return nil
}
