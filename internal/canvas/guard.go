package canvas

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// State is the guard's position in the engine lifecycle.
type State uint8

const (
	// StateUninitialized means no engine exists and a mount may proceed.
	StateUninitialized State = iota
	// StateInitializing means a factory call is in flight.
	StateInitializing
	// StateActive means an engine is live, either owned by this guard or
	// adopted from another guard in the process.
	StateActive
	// StateDisposed means the guard was unmounted. It is terminal.
	StateDisposed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitializing:
		return "initializing"
	case StateActive:
		return "active"
	case StateDisposed:
		return "disposed"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}

// ErrGuardDisposed is returned by Mount after the guard has been unmounted.
// A disposed guard never restarts; callers create a fresh one instead.
var ErrGuardDisposed = errors.New("canvas guard is disposed")

// Guard owns at most one engine and serializes its lifecycle. All methods
// are safe for concurrent use.
type Guard struct {
	registry *Registry
	factory  Factory
	logger   *slog.Logger

	mu       sync.Mutex
	state    State
	starting bool
	engine   Engine
	// acquired records that this guard holds the registry slot. An
	// adopting guard is Active without it and must not release on unmount.
	acquired bool
}

// NewGuard wires a guard to the process registry and an engine factory.
// A nil logger falls back to slog.Default().
func NewGuard(registry *Registry, factory Factory, logger *slog.Logger) *Guard {
	if registry == nil {
		panic("canvas: NewGuard called with nil registry")
	}
	if factory == nil {
		panic("canvas: NewGuard called with nil factory")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Guard{
		registry: registry,
		factory:  factory,
		logger:   logger.With("component", "canvas"),
	}
}

// Mount brings an engine up if none is live. Concurrent and repeated calls
// collapse into one construction: callers that find the engine active or
// starting return immediately with nil. When another guard already holds
// the registry slot the mount adopts that engine's liveness instead of
// constructing a second one.
//
// A factory failure returns the guard to its initial state so a later
// Mount can try again; the guard itself never retries. An unmount that
// lands while the factory is in flight wins over its result: the guard
// stays disposed whether construction succeeded or failed.
func (g *Guard) Mount(ctx context.Context) error {
	g.mu.Lock()
	switch {
	case g.state == StateDisposed:
		g.mu.Unlock()
		return ErrGuardDisposed
	case g.state == StateActive:
		g.mu.Unlock()
		g.logger.Debug("mount skipped, engine already active")
		return nil
	case g.starting:
		g.mu.Unlock()
		g.logger.Debug("mount skipped, initialization in progress")
		return nil
	}

	if !g.registry.TryAcquire() {
		// Another guard holds the slot, live or still constructing. Adopt
		// and report loaded so the process never runs two engines. The
		// holder's outcome is not observed: the adopter stays Active even
		// if that construction later fails, so a registry should only be
		// shared by guards whose engines stand in for one another.
		g.state = StateActive
		g.mu.Unlock()
		g.logger.Info("engine owned elsewhere, adopting")
		return nil
	}

	g.starting = true
	g.state = StateInitializing
	g.mu.Unlock()

	engine, err := g.factory(ctx)

	g.mu.Lock()
	defer g.mu.Unlock()
	g.starting = false

	if g.state == StateDisposed {
		// Unmounted while the factory ran. The result is stale either way:
		// tear a fresh engine down, free the slot, and leave the guard
		// disposed. Disposed is terminal, so no transition is committed.
		if err != nil {
			g.logger.Debug("discarding construction failure after unmount", "error", err)
		} else {
			g.logger.Info("discarding engine built after unmount")
			if derr := engine.Dispose(); derr != nil {
				g.logger.Warn("stale engine disposal failed", "error", derr)
			}
		}
		g.registry.Release()
		return nil
	}

	if err != nil {
		g.registry.Release()
		g.state = StateUninitialized
		return fmt.Errorf("engine construction failed: %w", err)
	}

	g.engine = engine
	g.acquired = true
	g.state = StateActive
	g.logger.Info("engine mounted")
	return nil
}

// Unmount tears the engine down. Disposal errors are logged and swallowed;
// teardown is best effort. Unmount is idempotent and leaves the guard
// disposed, the registry slot free, and the starting flag clear.
func (g *Guard) Unmount() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state == StateDisposed {
		return
	}

	if g.engine != nil {
		if err := g.engine.Dispose(); err != nil {
			g.logger.Warn("engine disposal failed", "error", err)
		}
		g.engine = nil
	}
	if g.acquired {
		g.registry.Release()
		g.acquired = false
	}
	g.starting = false
	g.state = StateDisposed
	g.logger.Debug("engine unmounted")
}

// State returns the guard's current lifecycle state.
func (g *Guard) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Active reports whether an engine is live from this guard's point of view.
func (g *Guard) Active() bool {
	return g.State() == StateActive
}

// Engine returns the engine this guard owns, or nil when it owns none.
// Adopting guards are Active with a nil engine.
func (g *Guard) Engine() Engine {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.engine
}
