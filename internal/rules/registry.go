package rules

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"sync"

	dnderr "github.com/KirkDiggler/combat-rules-engine/internal/errors"
	"github.com/KirkDiggler/combat-rules-engine/internal/events"
	"go.uber.org/zap"
)

// DefaultMaxDepth bounds nested dispatch when no limit is configured
const DefaultMaxDepth = 8

// RegistryConfig configures a provider registry
type RegistryConfig struct {
	MaxDepth int
	Logger   *zap.Logger
}

type registration struct {
	provider Provider
	seq      int
}

// Registry holds rule providers and dispatches windows to them.
// Providers run in ascending priority, then registration order. A provider
// that is already running is not re-entered by nested events.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]*registration
	seq       int
	running   map[string]bool
	depth     int
	maxDepth  int
	subs      []events.SubscriptionID
	logger    *zap.Logger
}

// NewRegistry creates an empty registry
func NewRegistry(cfg *RegistryConfig) *Registry {
	if cfg == nil {
		cfg = &RegistryConfig{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	maxDepth := cfg.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}

	return &Registry{
		providers: make(map[string]*registration),
		running:   make(map[string]bool),
		maxDepth:  maxDepth,
		logger:    logger.Named("rules"),
	}
}

// Register adds a provider. Provider ids must be unique.
func (r *Registry) Register(p Provider) error {
	if p == nil || p.ProviderID() == "" {
		return dnderr.InvalidArgumentf("provider requires an id")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.providers[p.ProviderID()]; exists {
		return dnderr.AlreadyExistsf("provider %s already registered", p.ProviderID())
	}
	r.seq++
	r.providers[p.ProviderID()] = &registration{provider: p, seq: r.seq}

	r.logger.Debug("provider registered",
		zap.String("provider", p.ProviderID()),
		zap.String("owner", p.OwnerID()),
		zap.Int("priority", p.Priority()))
	return nil
}

// Unregister removes a provider by id
func (r *Registry) Unregister(providerID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.providers[providerID]; !ok {
		return false
	}
	delete(r.providers, providerID)
	return true
}

// UnregisterOwner removes every provider owned by ownerID and returns the count
func (r *Registry) UnregisterOwner(ownerID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0
	for id, reg := range r.providers {
		if reg.provider.OwnerID() == ownerID {
			delete(r.providers, id)
			count++
		}
	}
	return count
}

// Get returns a registered provider
func (r *Registry) Get(providerID string) (Provider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	reg, ok := r.providers[providerID]
	if !ok {
		return nil, false
	}
	return reg.provider, true
}

// Providers returns every provider in dispatch order
func (r *Registry) Providers() []Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.orderedLocked(func(Provider) bool { return true })
}

func (r *Registry) orderedLocked(keep func(Provider) bool) []Provider {
	regs := make([]*registration, 0, len(r.providers))
	for _, reg := range r.providers {
		if keep(reg.provider) {
			regs = append(regs, reg)
		}
	}
	slices.SortFunc(regs, func(a, b *registration) int {
		return cmp.Or(
			cmp.Compare(a.provider.Priority(), b.provider.Priority()),
			cmp.Compare(a.seq, b.seq),
		)
	})

	out := make([]Provider, len(regs))
	for i, reg := range regs {
		out[i] = reg.provider
	}
	return out
}

// Fire runs every enabled provider listening on ctx.Window. Provider
// failures are joined into the returned error.
func (r *Registry) Fire(ctx *EventContext) error {
	r.mu.Lock()
	if r.depth >= r.maxDepth {
		r.mu.Unlock()
		r.logger.Warn("rule dispatch depth exceeded",
			zap.String("window", string(ctx.Window)),
			zap.Int("max_depth", r.maxDepth))
		return nil
	}
	ctx.Depth = r.depth
	r.depth++
	due := r.orderedLocked(func(p Provider) bool { return listens(p, ctx.Window) })
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		r.depth--
		r.mu.Unlock()
	}()

	var errs []error
	for _, p := range due {
		if !r.enter(p) {
			continue
		}
		err := r.run(p, ctx)
		r.leave(p)
		if err != nil {
			errs = append(errs, fmt.Errorf("provider %s: %w", p.ProviderID(), err))
		}
	}
	return errors.Join(errs...)
}

func (r *Registry) run(p Provider, ctx *EventContext) error {
	if !p.IsEnabled(ctx) {
		return nil
	}
	r.logger.Debug("provider firing",
		zap.String("provider", p.ProviderID()),
		zap.String("window", string(ctx.Window)),
		zap.Int("depth", ctx.Depth))
	return p.OnWindow(ctx)
}

// enter marks p running; false if it is still registered and already running, or gone
func (r *Registry) enter(p Provider) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.providers[p.ProviderID()]; !ok {
		return false
	}
	if r.running[p.ProviderID()] {
		return false
	}
	r.running[p.ProviderID()] = true
	return true
}

func (r *Registry) leave(p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.running, p.ProviderID())
}

// Attach subscribes the registry to every event type that opens a window
func (r *Registry) Attach(bus *events.Bus) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for eventType, window := range eventWindows {
		w := window
		id := bus.Subscribe(eventType, func(e *events.Event) error {
			return r.Fire(NewEventContext(w, e))
		})
		r.subs = append(r.subs, id)
	}
}

// Detach removes the subscriptions made by Attach
func (r *Registry) Detach(bus *events.Bus) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, id := range r.subs {
		bus.Unsubscribe(id)
	}
	r.subs = nil
}
