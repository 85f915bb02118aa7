package combatants

import (
	"sync"

	dnderr "github.com/KirkDiggler/combat-rules-engine/internal/errors"
)

// ResolveFunc looks up a live combatant by id
type ResolveFunc func(id string) (*Combatant, bool)

// Registry holds the combatants of one combat in join order
type Registry struct {
	mu    sync.RWMutex
	byID  map[string]*Combatant
	order []string
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{byID: make(map[string]*Combatant)}
}

// Add registers a combatant
func (r *Registry) Add(c *Combatant) error {
	if c == nil || c.ID == "" {
		return dnderr.InvalidArgumentf("combatant requires an id")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[c.ID]; exists {
		return dnderr.AlreadyExistsf("combatant %s already in combat", c.ID)
	}
	r.byID[c.ID] = c
	r.order = append(r.order, c.ID)
	return nil
}

// Get returns the combatant with id. It satisfies ResolveFunc.
func (r *Registry) Get(id string) (*Combatant, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byID[id]
	return c, ok
}

// Exists reports whether id is registered
func (r *Registry) Exists(id string) bool {
	_, ok := r.Get(id)
	return ok
}

// Remove drops a combatant and reports whether it was present
func (r *Registry) Remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return false
	}
	delete(r.byID, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// All returns every combatant in join order
func (r *Registry) All() []*Combatant {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Combatant, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}
