package session

import (
	"sync"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"

	"github.com/civicdata/crimemap/internal/aggregate"
)

// Registry hands out one Machine per viewer. The aggregate tables are
// shared read-only across all sessions; each machine owns only its
// selection pair.
type Registry struct {
	mu       sync.Mutex
	tables   *aggregate.Tables
	policy   YearChangePolicy
	machines map[string]*Machine
}

// NewRegistry creates an empty registry over the shared tables.
func NewRegistry(tables *aggregate.Tables, policy YearChangePolicy) *Registry {
	return &Registry{
		tables:   tables,
		policy:   policy,
		machines: make(map[string]*Machine),
	}
}

// Create starts a new session and returns its ID.
func (r *Registry) Create() string {
	id := uuid.New().String()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.machines[id] = New(r.tables, r.policy)
	return id
}

// Get returns the machine for a session ID. The pointer is only safe for
// single-goroutine use; concurrent callers go through With.
func (r *Registry) Get(id string) (*Machine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.machines[id]
	if !ok {
		return nil, eris.Errorf("session: unknown session %s", id)
	}
	return m, nil
}

// With runs fn against a session's machine while holding the registry
// lock, serializing events and view reads across callers that share a
// session. All machine access from concurrent contexts happens inside fn.
func (r *Registry) With(id string, fn func(*Machine)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.machines[id]
	if !ok {
		return eris.Errorf("session: unknown session %s", id)
	}
	fn(m)
	return nil
}

// Delete removes a session. Unknown IDs are a no-op.
func (r *Registry) Delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.machines, id)
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.machines)
}
