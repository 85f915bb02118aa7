package definitions

import (
	"cmp"
	"context"
	"maps"
	"slices"
	"sync"

	dnderr "github.com/KirkDiggler/combat-rules-engine/internal/errors"
	"github.com/KirkDiggler/combat-rules-engine/internal/passives"
	"github.com/KirkDiggler/combat-rules-engine/internal/statuses"
)

// InMemoryRepository keeps definitions in process memory
type InMemoryRepository struct {
	mu       sync.RWMutex
	statuses map[string]*statuses.Definition
	passives map[string]*passives.Definition
}

// NewInMemoryRepository creates an empty in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		statuses: make(map[string]*statuses.Definition),
		passives: make(map[string]*passives.Definition),
	}
}

func copyStatus(def *statuses.Definition) *statuses.Definition {
	out := *def
	out.TickEffects = slices.Clone(def.TickEffects)
	out.Triggers = maps.Clone(def.Triggers)
	out.BlockedActions = slices.Clone(def.BlockedActions)
	out.Tags = slices.Clone(def.Tags)
	return &out
}

func copyPassive(def *passives.Definition) *passives.Definition {
	out := *def
	out.Boosts = maps.Clone(def.Boosts)
	return &out
}

func (r *InMemoryRepository) SaveStatus(_ context.Context, def *statuses.Definition) error {
	if def == nil || recordID(def.ID) == "" {
		return dnderr.InvalidArgumentf("status definition requires an id")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statuses[recordID(def.ID)] = copyStatus(def)
	return nil
}

func (r *InMemoryRepository) GetStatus(_ context.Context, id string) (*statuses.Definition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.statuses[recordID(id)]
	if !ok {
		return nil, dnderr.NotFoundf("status %s not found", id)
	}
	return copyStatus(def), nil
}

func (r *InMemoryRepository) ListStatuses(_ context.Context) ([]*statuses.Definition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*statuses.Definition, 0, len(r.statuses))
	for _, def := range r.statuses {
		out = append(out, copyStatus(def))
	}
	slices.SortFunc(out, func(a, b *statuses.Definition) int { return cmp.Compare(recordID(a.ID), recordID(b.ID)) })
	return out, nil
}

func (r *InMemoryRepository) DeleteStatus(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.statuses[recordID(id)]; !ok {
		return dnderr.NotFoundf("status %s not found", id)
	}
	delete(r.statuses, recordID(id))
	return nil
}

func (r *InMemoryRepository) SavePassive(_ context.Context, def *passives.Definition) error {
	if def == nil || recordID(def.ID) == "" {
		return dnderr.InvalidArgumentf("passive definition requires an id")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.passives[recordID(def.ID)] = copyPassive(def)
	return nil
}

func (r *InMemoryRepository) GetPassive(_ context.Context, id string) (*passives.Definition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.passives[recordID(id)]
	if !ok {
		return nil, dnderr.NotFoundf("passive %s not found", id)
	}
	return copyPassive(def), nil
}

func (r *InMemoryRepository) ListPassives(_ context.Context) ([]*passives.Definition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*passives.Definition, 0, len(r.passives))
	for _, def := range r.passives {
		out = append(out, copyPassive(def))
	}
	slices.SortFunc(out, func(a, b *passives.Definition) int { return cmp.Compare(recordID(a.ID), recordID(b.ID)) })
	return out, nil
}

func (r *InMemoryRepository) DeletePassive(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.passives[recordID(id)]; !ok {
		return dnderr.NotFoundf("passive %s not found", id)
	}
	delete(r.passives, recordID(id))
	return nil
}
