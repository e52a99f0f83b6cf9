package transport

import (
	"context"
	"sync"
	"time"

	"feexpay-checkout/internal/checkout"
)

type registryEntry struct {
	session *checkout.Session
	expires time.Time
}

// Registry keeps open checkout sessions in memory for a fixed TTL counted
// from Put, the same lifetime as the session token. Reads do not extend it.
type Registry struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]*registryEntry
}

func NewRegistry(ttl time.Duration) *Registry {
	return &Registry{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]*registryEntry),
	}
}

func (r *Registry) Put(s *checkout.Session) time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()

	exp := r.now().Add(r.ttl)
	r.entries[s.ID] = &registryEntry{session: s, expires: exp}
	return exp
}

// Get returns a live session. An expired one is closed on the way out.
func (r *Registry) Get(id string) (*checkout.Session, bool) {
	r.mu.Lock()
	e, ok := r.entries[id]
	if ok && r.now().After(e.expires) {
		delete(r.entries, id)
		r.mu.Unlock()
		e.session.Close()
		return nil, false
	}
	r.mu.Unlock()

	if !ok {
		return nil, false
	}
	return e.session, true
}

func (r *Registry) Remove(id string) {
	r.mu.Lock()
	e, ok := r.entries[id]
	delete(r.entries, id)
	r.mu.Unlock()

	if ok {
		e.session.Close()
	}
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Sweep closes and drops every expired session.
func (r *Registry) Sweep() int {
	r.mu.Lock()
	now := r.now()
	var expired []*checkout.Session
	for id, e := range r.entries {
		if now.After(e.expires) {
			expired = append(expired, e.session)
			delete(r.entries, id)
		}
	}
	r.mu.Unlock()

	for _, s := range expired {
		s.Close()
	}
	return len(expired)
}

func (r *Registry) Run(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep()
		}
	}
}
