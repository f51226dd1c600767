// Package session keeps server-side state for each browser client, keyed by
// the client id stored in its cookie.
package session

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"
)

// Registry creates values on first use and closes them once they have been
// idle for longer than the TTL.
type Registry[T io.Closer] struct {
	mu      sync.Mutex
	entries map[string]*entry[T]
	ttl     time.Duration
	newFn   func(id string) T
	now     func() time.Time
}

type entry[T io.Closer] struct {
	value    T
	lastSeen time.Time
}

func NewRegistry[T io.Closer](ttl time.Duration, newFn func(id string) T) *Registry[T] {
	return &Registry[T]{
		entries: make(map[string]*entry[T]),
		ttl:     ttl,
		newFn:   newFn,
		now:     time.Now,
	}
}

// Get returns the value for id, creating it if needed, and marks it as seen.
func (r *Registry[T]) Get(id string) T {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok {
		e = &entry[T]{value: r.newFn(id)}
		r.entries[id] = e
		slog.Debug("Client state created", "client_id", id)
	}
	e.lastSeen = r.now()
	return e.value
}

func (r *Registry[T]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Evict closes and removes id. It reports whether id was present.
func (r *Registry[T]) Evict(id string) bool {
	r.mu.Lock()
	e, ok := r.entries[id]
	delete(r.entries, id)
	r.mu.Unlock()
	if ok {
		closeEntry(id, e.value)
	}
	return ok
}

// Sweep closes every entry idle for longer than the TTL and returns how many
// were removed.
func (r *Registry[T]) Sweep() int {
	now := r.now()
	r.mu.Lock()
	var stale []string
	var values []T
	for id, e := range r.entries {
		if now.Sub(e.lastSeen) > r.ttl {
			stale = append(stale, id)
			values = append(values, e.value)
			delete(r.entries, id)
		}
	}
	r.mu.Unlock()

	for i, id := range stale {
		closeEntry(id, values[i])
	}
	return len(stale)
}

// Run sweeps every interval until ctx is done, then closes all entries.
func (r *Registry[T]) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				slog.Info("Evicted idle client state", "count", n)
			}
		case <-ctx.Done():
			r.closeAll()
			return nil
		}
	}
}

func (r *Registry[T]) closeAll() {
	r.mu.Lock()
	entries := r.entries
	r.entries = make(map[string]*entry[T])
	r.mu.Unlock()
	for id, e := range entries {
		closeEntry(id, e.value)
	}
}

func closeEntry[T io.Closer](id string, v T) {
	if err := v.Close(); err != nil {
		slog.Warn("Failed to close client state", "client_id", id, "error", err)
	}
}
