package workspace

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// DefaultTTL is how long an untouched workspace is kept.
const DefaultTTL = 30 * time.Minute

type key struct {
	token    string
	courseID string
}

type entry struct {
	ws       *Workspace
	lastUsed time.Time
}

// Registry holds one workspace per viewer token and course.
type Registry struct {
	deps Deps
	ttl  time.Duration
	now  func() time.Time

	mu      sync.Mutex
	entries map[key]*entry
}

// NewRegistry creates a registry. A non-positive ttl uses DefaultTTL.
func NewRegistry(deps Deps, ttl time.Duration) *Registry {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Registry{deps: deps, ttl: ttl, now: time.Now, entries: make(map[key]*entry)}
}

// Acquire returns the viewer's workspace for courseID, creating it from the
// store on first use and refreshing the snapshot otherwise.
// POST: Returns an error wrapping course.ErrNotFound when the course is missing
func (r *Registry) Acquire(ctx context.Context, token, courseID string) (*Workspace, error) {
	k := key{token: token, courseID: courseID}

	r.mu.Lock()
	e, ok := r.entries[k]
	if ok {
		e.lastUsed = r.now()
	}
	r.mu.Unlock()

	if ok {
		if err := e.ws.Refresh(ctx); err != nil {
			return nil, err
		}
		return e.ws, nil
	}

	c, err := r.deps.CourseStore.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	// Another request may have created it while the store was being read.
	if e, ok := r.entries[k]; ok {
		e.lastUsed = r.now()
		return e.ws, nil
	}
	ws := New(c, r.deps)
	r.entries[k] = &entry{ws: ws, lastUsed: r.now()}
	return ws, nil
}

// Discard tears down every workspace belonging to token.
func (r *Registry) Discard(token string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for k := range r.entries {
		if k.token == token {
			delete(r.entries, k)
			n++
		}
	}
	return n
}

// Sweep drops workspaces idle for longer than the TTL.
func (r *Registry) Sweep() int {
	cutoff := r.now().Add(-r.ttl)
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for k, e := range r.entries {
		if e.lastUsed.Before(cutoff) {
			delete(r.entries, k)
			n++
		}
	}
	return n
}

// Len returns the number of live workspaces.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Run sweeps on every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				slog.Debug("workspace_event", "event", "workspaces_expired", "count", n)
			}
		}
	}
}
