package poller

import (
	"context"
	"sync"
)

// Registry keeps at most one live poll per key
type Registry struct {
	mu      sync.Mutex
	handles map[string]*Handle
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{handles: make(map[string]*Handle)}
}

// Start runs p under key, stopping any poll already registered for it.
// The entry is removed when the poll ends on its own.
func (r *Registry) Start(ctx context.Context, key string, p *Poller) *Handle {
	r.Stop(key)

	h := p.Start(ctx)
	r.mu.Lock()
	r.handles[key] = h
	r.mu.Unlock()

	go func() {
		<-h.Done()
		r.mu.Lock()
		if r.handles[key] == h {
			delete(r.handles, key)
		}
		r.mu.Unlock()
	}()
	return h
}

// Stop ends the poll registered under key. It reports whether one was running.
func (r *Registry) Stop(key string) bool {
	r.mu.Lock()
	h, ok := r.handles[key]
	delete(r.handles, key)
	r.mu.Unlock()
	if ok {
		h.Stop()
	}
	return ok
}

// Active reports whether a poll is registered under key
func (r *Registry) Active(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.handles[key]
	return ok
}

// Len returns the number of registered polls
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.handles)
}

// StopAll ends every registered poll
func (r *Registry) StopAll() {
	r.mu.Lock()
	handles := r.handles
	r.handles = make(map[string]*Handle)
	r.mu.Unlock()
	for _, h := range handles {
		h.Stop()
	}
}
