// Package canvas guards the lifecycle of the process-wide rendering engine.
//
// Engines are expensive and must never run twice at once: mounting is
// asynchronous, components mount and unmount freely, and a second engine
// racing the first corrupts shared GPU and font state. The Guard serializes
// mount and unmount transitions, the Registry enforces the one-live-engine
// rule across guards, and stale construction results are detected and
// discarded rather than committed.
package canvas

import "context"

// Engine is a disposable rendering engine. Implementations release all
// resources in Dispose; calling it more than once is allowed.
type Engine interface {
	Dispose() error
}

// Factory builds an engine. It runs outside the guard's lock and may be
// slow; the guard handles mounts and unmounts that arrive in the meantime.
type Factory func(ctx context.Context) (Engine, error)
