// Package lifecycle coordinates startup and staged shutdown of long-lived subsystems.
package lifecycle

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// ReadinessChecker reports whether a subsystem is ready to serve traffic.
type ReadinessChecker interface {
	Ready() bool
}

// Coordinator runs startup hooks concurrently and shuts down in two stages:
// drain hooks first, while the context is still live, then shutdown hooks,
// which observe the cancelled context.
type Coordinator struct {
	ctx        context.Context
	cancel     context.CancelFunc
	startupWg  sync.WaitGroup
	shutdownWg sync.WaitGroup
	drainMu    sync.Mutex
	drains     []func()
	ready      atomic.Bool
}

// New creates a Coordinator with a cancellable context.
func New() *Coordinator {
	ctx, cancel := context.WithCancel(context.Background())
	return &Coordinator{ctx: ctx, cancel: cancel}
}

// Context returns the coordinator's context. It is cancelled once draining completes.
func (c *Coordinator) Context() context.Context {
	return c.ctx
}

// OnStartup runs fn concurrently with the other startup hooks.
func (c *Coordinator) OnStartup(fn func()) {
	c.startupWg.Go(fn)
}

// OnDrain registers fn to run at the start of Shutdown, before the context is
// cancelled. Use it to stop accepting work and finish work in flight.
func (c *Coordinator) OnDrain(fn func()) {
	c.drainMu.Lock()
	defer c.drainMu.Unlock()
	c.drains = append(c.drains, fn)
}

// OnShutdown runs fn concurrently; fn should block on <-Context().Done() and
// then release its resources.
func (c *Coordinator) OnShutdown(fn func()) {
	c.shutdownWg.Go(fn)
}

// Ready reports whether every startup hook has returned.
func (c *Coordinator) Ready() bool {
	return c.ready.Load()
}

// WaitForStartup blocks until all startup hooks have returned and marks the coordinator ready.
func (c *Coordinator) WaitForStartup() {
	c.startupWg.Wait()
	c.ready.Store(true)
}

// Shutdown drains, cancels the context, and waits for shutdown hooks. Both
// stages share one timeout.
func (c *Coordinator) Shutdown(timeout time.Duration) error {
	c.ready.Store(false)
	deadline := time.After(timeout)

	c.drainMu.Lock()
	drains := c.drains
	c.drainMu.Unlock()

	var drainWg sync.WaitGroup
	for _, fn := range drains {
		drainWg.Go(fn)
	}

	if !await(&drainWg, deadline) {
		c.cancel()
		return fmt.Errorf("drain timeout after %v", timeout)
	}

	c.cancel()

	if !await(&c.shutdownWg, deadline) {
		return fmt.Errorf("shutdown timeout after %v", timeout)
	}
	return nil
}

func await(wg *sync.WaitGroup, deadline <-chan time.Time) bool {
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return true
	case <-deadline:
		return false
	}
}
