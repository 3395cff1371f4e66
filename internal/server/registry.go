package server

import (
	"sync"

	"github.com/sparringlab/sparring/internal/debate"
)

// registry holds live sessions by id. Sessions serialize their own state
// transitions; the registry only guards the map.
type registry struct {
	mu       sync.RWMutex
	sessions map[string]*debate.Session
}

func newRegistry() *registry {
	return &registry{sessions: make(map[string]*debate.Session)}
}

func (r *registry) add(s *debate.Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID] = s
}

func (r *registry) get(id string) (*debate.Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}
