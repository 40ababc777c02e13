// Package session authenticates dashboard users and keeps one active
// session per identity.
package session

import "sync"

// ClaimResult is the outcome of Registry.Claim.
type ClaimResult int

const (
	// Accepted means the session is the identity's active session.
	Accepted ClaimResult = iota
	// Superseded means a newer login took over the identity.
	Superseded
)

func (r ClaimResult) String() string {
	if r == Accepted {
		return "accepted"
	}
	return "superseded"
}

// Registry maps each identity to its single active session id.
type Registry struct {
	mu     sync.Mutex
	active map[string]string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{active: make(map[string]string)}
}

// Takeover makes sessionID the active session of identity, superseding any
// other. It reports whether another session was displaced.
func (r *Registry) Takeover(identity, sessionID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	prev, ok := r.active[identity]
	r.active[identity] = sessionID
	return ok && prev != sessionID
}

// Claim checks sessionID against the active session of identity. Only ids
// handed out by Takeover are accepted; an identity with no active session
// (after a logout or a restart) has to log in again.
func (r *Registry) Claim(identity, sessionID string) ClaimResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	if prev, ok := r.active[identity]; ok && prev == sessionID {
		return Accepted
	}
	return Superseded
}

// Release ends sessionID if it is still the active session of identity.
func (r *Registry) Release(identity, sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.active[identity] == sessionID {
		delete(r.active, identity)
	}
}

// Len returns the number of active sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.active)
}
