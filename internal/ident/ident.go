// Package ident assigns each live connection an ephemeral unique id and
// tracks its liveness, independent of any room.
package ident

import (
	"sync"

	"github.com/google/uuid"
)

type Registry struct {
	mu    sync.RWMutex
	conns map[string]struct{}
}

func NewRegistry() *Registry {
	return &Registry{conns: make(map[string]struct{})}
}

// Register assigns a fresh connection id and marks it live.
func (r *Registry) Register() string {
	id := uuid.NewString()
	r.mu.Lock()
	r.conns[id] = struct{}{}
	r.mu.Unlock()
	return id
}

// Disconnect forgets the connection, keeping the registry bounded by the
// number of live connections.
func (r *Registry) Disconnect(id string) {
	r.mu.Lock()
	delete(r.conns, id)
	r.mu.Unlock()
}

func (r *Registry) IsLive(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.conns[id]
	return ok
}

// LiveCount returns the number of currently connected clients.
func (r *Registry) LiveCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}
