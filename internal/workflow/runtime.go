package workflow

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/JaimeStill/compass/internal/prompts"
	"github.com/JaimeStill/compass/internal/sanitize"
	"github.com/JaimeStill/compass/internal/sessions"
)

const defaultRecordTimeout = 30 * time.Second

// SessionRecorder persists a completed session.
type SessionRecorder interface {
	Create(ctx context.Context, cmd sessions.CreateCommand) (*sessions.Session, error)
}

// Runtime bundles the dependencies that workflow operations require.
// It is constructed by higher-level composition code from Infrastructure and Domain systems.
type Runtime struct {
	Generator Generator
	Prompts   prompts.System
	Sanitizer *sanitize.Pipeline
	Sessions  SessionRecorder
	Logger    *slog.Logger

	// RecordTimeout bounds background session persistence. Zero uses 30s.
	RecordTimeout time.Duration

	pending sync.WaitGroup
}

// Wait blocks until background session writes have finished.
func (rt *Runtime) Wait() {
	rt.pending.Wait()
}

// record persists cmd on a goroutine detached from the request context.
// Failures are logged and never reach the caller.
func (rt *Runtime) record(ctx context.Context, cmd sessions.CreateCommand) {
	if rt.Sessions == nil {
		return
	}

	timeout := rt.RecordTimeout
	if timeout <= 0 {
		timeout = defaultRecordTimeout
	}

	detached := context.WithoutCancel(ctx)
	rt.pending.Go(func() {
		ctx, cancel := context.WithTimeout(detached, timeout)
		defer cancel()

		s, err := rt.Sessions.Create(ctx, cmd)
		if err != nil {
			recordFailures.Inc()
			rt.Logger.ErrorContext(ctx, "session record failed", "tier", cmd.Breakdown.Tier, "error", err)
			return
		}
		rt.Logger.InfoContext(ctx, "session recorded", "id", s.ID, "tier", s.Tier)
	})
}
