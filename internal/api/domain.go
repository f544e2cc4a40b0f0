package api

import (
	"github.com/JaimeStill/compass/internal/prompts"
	"github.com/JaimeStill/compass/internal/sanitize"
	"github.com/JaimeStill/compass/internal/sessions"
	"github.com/JaimeStill/compass/internal/workflow"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Prompts  prompts.System
	Sessions sessions.System
	Workflow *workflow.Runtime
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	promptsSystem := prompts.New(
		runtime.Database.Connection(),
		runtime.Logger,
		runtime.Pagination,
	)

	sessionsSystem := sessions.New(
		runtime.Database.Connection(),
		runtime.Storage,
		runtime.Logger,
		runtime.Pagination,
	)

	wf := &workflow.Runtime{
		Generator:     workflow.NewGenerator(runtime.LLM),
		Prompts:       promptsSystem,
		Sanitizer:     sanitize.New(runtime.Logger),
		Sessions:      sessionsSystem,
		Logger:        runtime.Logger,
		RecordTimeout: runtime.RecordTimeout,
	}

	return &Domain{
		Prompts:  promptsSystem,
		Sessions: sessionsSystem,
		Workflow: wf,
	}
}
