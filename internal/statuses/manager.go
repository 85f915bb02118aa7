package statuses

//go:generate mockgen -destination=mock/mock_effect_runner.go -package=mockstatuses -source=manager.go

import (
	"strings"
	"sync"

	dnderr "github.com/KirkDiggler/combat-rules-engine/internal/errors"
	"github.com/KirkDiggler/combat-rules-engine/internal/events"
	"github.com/KirkDiggler/combat-rules-engine/internal/uuid"
	"go.uber.org/zap"
)

// Removal reasons published with StatusRemoved
const (
	ReasonExpired  = "expired"
	ReasonRemoved  = "removed"
	ReasonReplaced = "replaced"
	ReasonEvent    = "event"
)

// EffectRunner executes a functor string on behalf of a status instance
type EffectRunner interface {
	RunEffects(functors string, instance *Instance) error
}

// ManagerConfig holds the status manager's collaborators
type ManagerConfig struct {
	Bus    *events.Bus
	Runner EffectRunner
	// TargetExists rejects applications to unknown combatants when set
	TargetExists func(id string) bool
	IDs          uuid.Generator
	Logger       *zap.Logger
}

// Manager is the authoritative store of active statuses
type Manager struct {
	mu          sync.RWMutex
	definitions map[string]*Definition
	instances   map[string][]*Instance
	targets     []string

	bus          *events.Bus
	runner       EffectRunner
	targetExists func(id string) bool
	ids          uuid.Generator
	logger       *zap.Logger
}

// NewManager creates a status manager. Every collaborator is optional.
func NewManager(cfg *ManagerConfig) *Manager {
	if cfg == nil {
		cfg = &ManagerConfig{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	ids := cfg.IDs
	if ids == nil {
		ids = uuid.NewSequentialGenerator("status")
	}

	return &Manager{
		definitions:  make(map[string]*Definition),
		instances:    make(map[string][]*Instance),
		bus:          cfg.Bus,
		runner:       cfg.Runner,
		targetExists: cfg.TargetExists,
		ids:          ids,
		logger:       logger.Named("statuses"),
	}
}

// SetEffectRunner sets the runner used for tick and trigger effects
func (m *Manager) SetEffectRunner(runner EffectRunner) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runner = runner
}

func key(statusID string) string {
	return strings.ToLower(strings.TrimSpace(statusID))
}

// RegisterStatus validates and adds or replaces a definition. Ids are case-insensitive.
func (m *Manager) RegisterStatus(def *Definition) error {
	if def == nil || strings.TrimSpace(def.ID) == "" {
		return dnderr.InvalidArgumentf("status definition requires an id")
	}
	registered := *def
	registered.Normalize()
	if err := registered.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.definitions[key(registered.ID)] = &registered
	return nil
}

// GetDefinition returns a registered definition
func (m *Manager) GetDefinition(statusID string) (*Definition, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	def, ok := m.definitions[key(statusID)]
	return def, ok
}

// ApplyOption overrides defaults for one application
type ApplyOption func(*applyOptions)

type applyOptions struct {
	duration    int
	hasDuration bool
	stacks      int
}

// WithDuration overrides the definition's default duration. Indefinite (-1)
// keeps the instance until removed.
func WithDuration(duration int) ApplyOption {
	return func(o *applyOptions) {
		o.duration = duration
		o.hasDuration = true
	}
}

// WithStacks sets how many stacks the application adds
func WithStacks(stacks int) ApplyOption {
	return func(o *applyOptions) {
		o.stacks = stacks
	}
}

type pending struct {
	publish []*events.Event
	effects []effectCall
}

type effectCall struct {
	functors string
	instance *Instance
}

// ApplyStatus applies statusID from sourceID to targetID and returns a
// snapshot of the resulting instance. It returns nil when the status is
// not registered or the target is unknown.
func (m *Manager) ApplyStatus(statusID, sourceID, targetID string, opts ...ApplyOption) *Instance {
	o := applyOptions{stacks: 1}
	for _, opt := range opts {
		opt(&o)
	}

	def, ok := m.GetDefinition(statusID)
	if !ok {
		m.logger.Warn("unknown status", zap.String("status", statusID), zap.String("target", targetID))
		return nil
	}
	if m.targetExists != nil && !m.targetExists(targetID) {
		m.logger.Warn("unknown status target", zap.String("status", statusID), zap.String("target", targetID))
		return nil
	}

	duration := def.DefaultDuration
	if o.hasDuration {
		duration = o.duration
	}
	indefinite := duration == Indefinite
	if duration < 0 {
		duration = 0
	}
	stacks := max(1, min(o.stacks, def.MaxStacks))

	var p pending
	m.mu.Lock()
	result := m.applyLocked(def, sourceID, targetID, duration, indefinite, stacks, &p)
	snapshot := result.clone()
	m.mu.Unlock()

	m.flush(&p)
	return snapshot
}

func (m *Manager) applyLocked(def *Definition, sourceID, targetID string, duration int, indefinite bool, stacks int, p *pending) *Instance {
	existing := m.findLocked(targetID, def.ID)
	if existing == nil {
		return m.createLocked(def, sourceID, targetID, duration, indefinite, stacks, p)
	}

	switch def.Stacking {
	case StackingReplace:
		m.removeLocked(existing, ReasonReplaced, true, p)
		return m.createLocked(def, sourceID, targetID, duration, indefinite, stacks, p)
	case StackingExtend:
		if indefinite {
			existing.Indefinite = true
		} else {
			existing.RemainingDuration += duration
		}
	case StackingStack:
		existing.Stacks = min(existing.Stacks+stacks, def.MaxStacks)
		existing.RemainingDuration = duration
		existing.Indefinite = indefinite
	default:
		existing.RemainingDuration = duration
		existing.Indefinite = indefinite
	}

	m.logger.Debug("status refreshed",
		zap.String("status", def.ID),
		zap.String("target", targetID),
		zap.String("stacking", string(def.Stacking)),
		zap.Int("remaining", existing.RemainingDuration),
		zap.Int("stacks", existing.Stacks))
	p.publish = append(p.publish, instanceEvent(events.StatusRefreshed, existing))
	return existing
}

func (m *Manager) createLocked(def *Definition, sourceID, targetID string, duration int, indefinite bool, stacks int, p *pending) *Instance {
	inst := &Instance{
		ID:                m.ids.New(),
		Definition:        def,
		SourceID:          sourceID,
		TargetID:          targetID,
		RemainingDuration: duration,
		Stacks:            stacks,
		Indefinite:        indefinite,
	}

	if _, ok := m.instances[targetID]; !ok {
		m.targets = append(m.targets, targetID)
	}
	m.instances[targetID] = append(m.instances[targetID], inst)

	m.logger.Info("status applied",
		zap.String("status", def.ID),
		zap.String("instance", inst.ID),
		zap.String("source", sourceID),
		zap.String("target", targetID),
		zap.Int("duration", duration),
		zap.Bool("indefinite", indefinite))

	if functors := def.Triggers[OnApply]; functors != "" {
		p.effects = append(p.effects, effectCall{functors: functors, instance: inst.clone()})
	}
	p.publish = append(p.publish, instanceEvent(events.StatusApplied, inst))
	return inst
}

func (m *Manager) removeLocked(inst *Instance, reason string, fireTriggers bool, p *pending) bool {
	list := m.instances[inst.TargetID]
	for i, candidate := range list {
		if candidate.ID != inst.ID {
			continue
		}
		m.instances[inst.TargetID] = append(list[:i:i], list[i+1:]...)

		m.logger.Info("status removed",
			zap.String("status", candidate.Definition.ID),
			zap.String("instance", candidate.ID),
			zap.String("target", candidate.TargetID),
			zap.String("reason", reason))

		if !fireTriggers {
			return true
		}
		if functors := candidate.Definition.Triggers[OnRemove]; functors != "" {
			p.effects = append(p.effects, effectCall{functors: functors, instance: candidate.clone()})
		}
		p.publish = append(p.publish, instanceEvent(events.StatusRemoved, candidate).With(events.KeyReason, reason))
		return true
	}
	return false
}

func (m *Manager) findLocked(targetID, statusID string) *Instance {
	k := key(statusID)
	for _, inst := range m.instances[targetID] {
		if key(inst.Definition.ID) == k {
			return inst
		}
	}
	return nil
}

// flush runs queued effects and events outside the lock, since both may
// call back into the manager.
func (m *Manager) flush(p *pending) {
	m.mu.RLock()
	runner := m.runner
	m.mu.RUnlock()

	for _, call := range p.effects {
		if runner == nil {
			continue
		}
		if err := runner.RunEffects(call.functors, call.instance); err != nil {
			m.logger.Warn("status effect failed",
				zap.String("status", call.instance.StatusID()),
				zap.String("target", call.instance.TargetID),
				zap.Error(err))
		}
	}

	if m.bus == nil {
		return
	}
	for _, evt := range p.publish {
		if err := m.bus.Publish(evt); err != nil {
			m.logger.Warn("status event handlers failed",
				zap.String("event_type", string(evt.Type)),
				zap.Error(err))
		}
	}
}

func instanceEvent(eventType events.EventType, inst *Instance) *events.Event {
	return events.NewEvent(eventType).
		WithSource(inst.SourceID).
		WithTarget(inst.TargetID).
		With(events.KeyStatusID, inst.Definition.ID).
		With(events.KeyInstanceID, inst.ID).
		With(events.KeyStacks, inst.Stacks).
		With(events.KeyRemaining, inst.RemainingDuration)
}

// RemoveStatus removes statusID from targetID and fires its OnRemove effects
func (m *Manager) RemoveStatus(targetID, statusID string) bool {
	var p pending
	m.mu.Lock()
	inst := m.findLocked(targetID, statusID)
	removed := inst != nil && m.removeLocked(inst, ReasonRemoved, true, &p)
	m.mu.Unlock()

	m.flush(&p)
	return removed
}

// RemoveStatusInstance removes one instance by identity
func (m *Manager) RemoveStatusInstance(inst *Instance) bool {
	if inst == nil {
		return false
	}
	var p pending
	m.mu.Lock()
	removed := m.removeLocked(inst, ReasonRemoved, true, &p)
	m.mu.Unlock()

	m.flush(&p)
	return removed
}

// RemoveStatuses removes every instance on targetID matching pred and returns the count
func (m *Manager) RemoveStatuses(targetID string, pred Predicate) int {
	if pred == nil {
		return 0
	}
	var p pending
	m.mu.Lock()
	var matched []*Instance
	for _, inst := range m.instances[targetID] {
		if pred(inst) {
			matched = append(matched, inst)
		}
	}
	count := 0
	for _, inst := range matched {
		if m.removeLocked(inst, ReasonRemoved, true, &p) {
			count++
		}
	}
	m.mu.Unlock()

	m.flush(&p)
	return count
}

// ClearCombatant drops every instance on targetID without firing triggers
func (m *Manager) ClearCombatant(targetID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	count := len(m.instances[targetID])
	delete(m.instances, targetID)
	for i, t := range m.targets {
		if t == targetID {
			m.targets = append(m.targets[:i:i], m.targets[i+1:]...)
			break
		}
	}
	if count > 0 {
		m.logger.Info("combatant cleared", zap.String("target", targetID), zap.Int("statuses", count))
	}
	return count
}

// HasStatus reports whether targetID carries statusID
func (m *Manager) HasStatus(targetID, statusID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.findLocked(targetID, statusID) != nil
}

// GetStatus returns a snapshot of statusID on targetID
func (m *Manager) GetStatus(targetID, statusID string) (*Instance, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	inst := m.findLocked(targetID, statusID)
	if inst == nil {
		return nil, false
	}
	return inst.clone(), true
}

// GetStatuses returns snapshots of every instance on targetID in application order
func (m *Manager) GetStatuses(targetID string) []*Instance {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Instance, 0, len(m.instances[targetID]))
	for _, inst := range m.instances[targetID] {
		out = append(out, inst.clone())
	}
	return out
}

// StatusIDs returns the status ids active on targetID
func (m *Manager) StatusIDs(targetID string) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]string, 0, len(m.instances[targetID]))
	for _, inst := range m.instances[targetID] {
		out = append(out, inst.Definition.ID)
	}
	return out
}

// GetAllStatuses returns snapshots of every instance, grouped by target in first-seen order
func (m *Manager) GetAllStatuses() []*Instance {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*Instance
	for _, target := range m.targets {
		for _, inst := range m.instances[target] {
			out = append(out, inst.clone())
		}
	}
	return out
}

// IsActionBlocked reports whether any status on targetID blocks action
func (m *Manager) IsActionBlocked(targetID, action string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, inst := range m.instances[targetID] {
		if inst.Definition.Blocks(action) {
			return true
		}
	}
	return false
}

// ProcessTurnEnd ticks every Turns instance on targetID, removing those that run out
func (m *Manager) ProcessTurnEnd(targetID string) {
	m.tick(DurationTurns, func(inst *Instance) bool { return inst.TargetID == targetID })
}

// ProcessRoundEnd ticks every Rounds instance on every target
func (m *Manager) ProcessRoundEnd() {
	m.tick(DurationRounds, func(*Instance) bool { return true })
}

func (m *Manager) tick(durationType DurationType, match func(*Instance) bool) {
	m.mu.RLock()
	var due []*Instance
	for _, target := range m.targets {
		for _, inst := range m.instances[target] {
			if inst.Definition.DurationType == durationType && match(inst) {
				due = append(due, inst)
			}
		}
	}
	m.mu.RUnlock()

	for _, inst := range due {
		m.tickOne(inst)
	}
}

// tickOne re-checks the instance since an earlier tick's effects may have removed it
func (m *Manager) tickOne(inst *Instance) {
	var p pending

	m.mu.Lock()
	if m.findLocked(inst.TargetID, inst.Definition.ID) != inst {
		m.mu.Unlock()
		return
	}
	for _, functors := range inst.Definition.TickEffects {
		p.effects = append(p.effects, effectCall{functors: functors, instance: inst.clone()})
	}
	p.publish = append(p.publish, instanceEvent(events.StatusTicked, inst))
	m.mu.Unlock()
	m.flush(&p)

	p = pending{}
	m.mu.Lock()
	if m.findLocked(inst.TargetID, inst.Definition.ID) == inst && !inst.Indefinite {
		inst.RemainingDuration = max(0, inst.RemainingDuration-1)
		if inst.RemainingDuration == 0 {
			m.removeLocked(inst, ReasonExpired, true, &p)
		}
	}
	m.mu.Unlock()
	m.flush(&p)
}

// ProcessEvent removes every UntilEvent instance on targetID whose trigger
// matches eventType, ignoring case. Custom events match on their tag.
func (m *Manager) ProcessEvent(targetID, eventType string) int {
	var p pending
	m.mu.Lock()
	var matched []*Instance
	for _, inst := range m.instances[targetID] {
		def := inst.Definition
		if def.DurationType == DurationUntilEvent && def.RemoveOnEvent != "" && strings.EqualFold(def.RemoveOnEvent, eventType) {
			matched = append(matched, inst)
		}
	}
	count := 0
	for _, inst := range matched {
		if m.removeLocked(inst, ReasonEvent, true, &p) {
			count++
		}
	}
	m.mu.Unlock()

	m.flush(&p)
	return count
}
