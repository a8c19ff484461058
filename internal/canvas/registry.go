package canvas

import "sync"

// Registry tracks whether any engine is live in the process. Guards claim
// the single slot before constructing and release it when their engine is
// gone or construction fails.
type Registry struct {
	mu   sync.Mutex
	held bool
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// TryAcquire claims the engine slot. It returns false when another holder
// already has it; callers must not construct in that case.
func (r *Registry) TryAcquire() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.held {
		return false
	}
	r.held = true
	return true
}

// Release frees the slot so a later mount can claim it. Releasing an
// unheld slot is a no-op.
func (r *Registry) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.held = false
}

// Held reports whether the slot is currently claimed.
func (r *Registry) Held() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.held
}
