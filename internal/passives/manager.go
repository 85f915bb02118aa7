package passives

import (
	"strings"
	"sync"

	"github.com/KirkDiggler/combat-rules-engine/internal/combatants"
	dnderr "github.com/KirkDiggler/combat-rules-engine/internal/errors"
	"github.com/KirkDiggler/combat-rules-engine/internal/functors"
	"github.com/KirkDiggler/combat-rules-engine/internal/rules"
	"go.uber.org/zap"
)

// ManagerConfig holds the passive manager's collaborators. All but Logger are required.
type ManagerConfig struct {
	Registry *rules.Registry
	Executor *functors.Executor
	Resolve  combatants.ResolveFunc
	Env      Environment
	Logger   *zap.Logger
}

type grant struct {
	def       *Definition
	toggledOn bool
	boosted   bool
	providers []*FunctorProvider
}

// Manager grants and revokes passives. Failures are collected in Errors
// rather than returned, so batch grants keep going.
type Manager struct {
	mu          sync.RWMutex
	definitions map[string]*Definition
	granted     map[string][]*grant

	registry *rules.Registry
	executor *functors.Executor
	resolve  combatants.ResolveFunc
	factory  *ProviderFactory
	log      *dnderr.Log
	logger   *zap.Logger
}

// NewManager creates a passive manager
func NewManager(cfg *ManagerConfig) (*Manager, error) {
	if cfg == nil || cfg.Registry == nil || cfg.Executor == nil || cfg.Resolve == nil {
		return nil, dnderr.InvalidArgumentf("passive manager requires a registry, executor and resolver")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("passives")
	log := dnderr.NewLog()

	return &Manager{
		definitions: make(map[string]*Definition),
		granted:     make(map[string][]*grant),
		registry:    cfg.Registry,
		executor:    cfg.Executor,
		resolve:     cfg.Resolve,
		factory:     NewProviderFactory(cfg.Executor, cfg.Env, log, logger),
		log:         log,
		logger:      logger,
	}, nil
}

func key(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

// RegisterPassive adds or replaces a definition
func (m *Manager) RegisterPassive(def *Definition) error {
	if def == nil || strings.TrimSpace(def.ID) == "" {
		return dnderr.InvalidArgumentf("passive definition requires an id")
	}
	registered := *def
	registered.Normalize()

	m.mu.Lock()
	defer m.mu.Unlock()
	m.definitions[key(registered.ID)] = &registered
	return nil
}

// Errors returns every failure recorded so far
func (m *Manager) Errors() []error {
	return m.log.Errors()
}

// Log returns the manager's error log
func (m *Manager) Log() *dnderr.Log {
	return m.log
}

// GrantPassive gives ownerID the passive. It reports false, recording why,
// when the passive or owner is unknown or the passive is already held.
func (m *Manager) GrantPassive(ownerID, passiveID string) bool {
	m.mu.RLock()
	def, ok := m.definitions[key(passiveID)]
	m.mu.RUnlock()
	if !ok {
		m.log.Record(dnderr.NotFoundf("passive %q not registered", passiveID).WithMeta("owner", ownerID))
		return false
	}
	owner, ok := m.resolve(ownerID)
	if !ok {
		m.log.Record(dnderr.NotFoundf("owner %q of passive %s not found", ownerID, def.ID).WithMeta("passive", def.ID))
		return false
	}
	if m.HasPassive(ownerID, def.ID) {
		m.log.Record(dnderr.AlreadyExistsf("%s already has passive %s", ownerID, def.ID))
		return false
	}

	g := &grant{def: def}
	providers, err := m.factory.Build(def, ownerID, func() bool { return m.isOn(g) })
	if err != nil {
		m.log.Record(err)
		return false
	}
	for _, p := range providers {
		if err := m.registry.Register(p); err != nil {
			m.log.Record(err)
			continue
		}
		g.providers = append(g.providers, p)
	}

	m.mu.Lock()
	m.granted[ownerID] = append(m.granted[ownerID], g)
	m.mu.Unlock()

	m.logger.Info("passive granted",
		zap.String("owner", ownerID),
		zap.String("passive", def.ID),
		zap.Int("providers", len(g.providers)))

	if !def.IsToggled {
		m.setBoosts(owner, g, true)
		return true
	}
	if def.ToggledDefaultOn {
		m.SetToggleState(ownerID, def.ID, true)
	}
	return true
}

// GrantPassives grants each passive in order and returns how many succeeded
func (m *Manager) GrantPassives(ownerID string, passiveIDs ...string) int {
	granted := 0
	for _, id := range passiveIDs {
		if m.GrantPassive(ownerID, id) {
			granted++
		}
	}
	return granted
}

// RevokePassive removes the passive, switching it off first if toggled on
func (m *Manager) RevokePassive(ownerID, passiveID string) bool {
	g := m.find(ownerID, passiveID)
	if g == nil {
		return false
	}
	if g.def.IsToggled && m.isOn(g) {
		m.SetToggleState(ownerID, passiveID, false)
	}
	if owner, ok := m.resolve(ownerID); ok {
		m.setBoosts(owner, g, false)
	}

	for _, p := range g.providers {
		m.registry.Unregister(p.ProviderID())
		p.close()
	}

	m.mu.Lock()
	list := m.granted[ownerID]
	for i, candidate := range list {
		if candidate == g {
			m.granted[ownerID] = append(list[:i:i], list[i+1:]...)
			break
		}
	}
	if len(m.granted[ownerID]) == 0 {
		delete(m.granted, ownerID)
	}
	m.mu.Unlock()

	m.logger.Info("passive revoked", zap.String("owner", ownerID), zap.String("passive", g.def.ID))
	return true
}

// RevokeAll removes every passive ownerID holds
func (m *Manager) RevokeAll(ownerID string) int {
	count := 0
	for _, id := range m.GetPassives(ownerID) {
		if m.RevokePassive(ownerID, id) {
			count++
		}
	}
	return count
}

// SetToggleState switches a toggled passive. Switching one on first switches
// off every other passive the owner holds in the same toggle group.
func (m *Manager) SetToggleState(ownerID, passiveID string, on bool) bool {
	g := m.find(ownerID, passiveID)
	if g == nil || !g.def.IsToggled {
		return false
	}
	if m.isOn(g) == on {
		return false
	}

	if on && g.def.ToggleGroup != "" {
		for _, other := range m.siblings(ownerID, g) {
			m.SetToggleState(ownerID, other.def.ID, false)
		}
	}

	m.mu.Lock()
	g.toggledOn = on
	m.mu.Unlock()

	owner, ok := m.resolve(ownerID)
	if ok {
		m.setBoosts(owner, g, on)
	}

	chain := g.def.ToggleOffFunctors
	if on {
		chain = g.def.ToggleOnFunctors
	}
	if chain != "" {
		m.executor.Execute(functors.Parse(chain, m.log), nil, ownerID, ownerID)
	}

	m.logger.Info("passive toggled",
		zap.String("owner", ownerID),
		zap.String("passive", g.def.ID),
		zap.Bool("on", on))
	return true
}

// IsToggledOn reports whether a toggled passive is switched on
func (m *Manager) IsToggledOn(ownerID, passiveID string) bool {
	g := m.find(ownerID, passiveID)
	return g != nil && m.isOn(g)
}

// HasPassive reports whether ownerID holds passiveID
func (m *Manager) HasPassive(ownerID, passiveID string) bool {
	return m.find(ownerID, passiveID) != nil
}

// GetPassives returns the ids of the passives ownerID holds, in grant order
func (m *Manager) GetPassives(ownerID string) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]string, 0, len(m.granted[ownerID]))
	for _, g := range m.granted[ownerID] {
		out = append(out, g.def.ID)
	}
	return out
}

func (m *Manager) find(ownerID, passiveID string) *grant {
	m.mu.RLock()
	defer m.mu.RUnlock()

	k := key(passiveID)
	for _, g := range m.granted[ownerID] {
		if key(g.def.ID) == k {
			return g
		}
	}
	return nil
}

func (m *Manager) siblings(ownerID string, g *grant) []*grant {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*grant
	for _, other := range m.granted[ownerID] {
		if other != g && other.toggledOn && strings.EqualFold(other.def.ToggleGroup, g.def.ToggleGroup) {
			out = append(out, other)
		}
	}
	return out
}

func (m *Manager) isOn(g *grant) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return !g.def.IsToggled || g.toggledOn
}

// setBoosts applies or lifts the passive's stat boosts exactly once
func (m *Manager) setBoosts(owner *combatants.Combatant, g *grant, apply bool) {
	m.mu.Lock()
	if g.boosted == apply {
		m.mu.Unlock()
		return
	}
	g.boosted = apply
	m.mu.Unlock()

	sign := 1
	if !apply {
		sign = -1
	}
	for stat, delta := range g.def.Boosts {
		owner.ApplyBoost(stat, sign*delta)
	}
}
