package events

// EventType identifies a combat event category
type EventType string

const (
	AttackDeclared       EventType = "attack_declared"
	AttackResolved       EventType = "attack_resolved"
	DamageApplied        EventType = "damage_applied"
	HealingApplied       EventType = "healing_applied"
	TurnStarted          EventType = "turn_started"
	TurnEnded            EventType = "turn_ended"
	RoundEnded           EventType = "round_ended"
	MovementCompleted    EventType = "movement_completed"
	StatusApplied        EventType = "status_applied"
	StatusRefreshed      EventType = "status_refreshed"
	StatusRemoved        EventType = "status_removed"
	StatusTicked         EventType = "status_ticked"
	ConcentrationStarted EventType = "concentration_started"
	ConcentrationBroken  EventType = "concentration_broken"
	DiceRolled           EventType = "dice_rolled"
	ResourceRestored     EventType = "resource_restored"
	SpellCast            EventType = "spell_cast"

	// Custom carries a free-form Tag and payload so new domain events
	// do not need a new EventType.
	Custom EventType = "custom"
)

var knownTypes = map[EventType]struct{}{
	AttackDeclared: {}, AttackResolved: {}, DamageApplied: {}, HealingApplied: {},
	TurnStarted: {}, TurnEnded: {}, RoundEnded: {}, MovementCompleted: {},
	StatusApplied: {}, StatusRefreshed: {}, StatusRemoved: {}, StatusTicked: {},
	ConcentrationStarted: {}, ConcentrationBroken: {}, DiceRolled: {},
	ResourceRestored: {}, SpellCast: {}, Custom: {},
}

// IsKnown reports whether t is one of the defined event types
func (t EventType) IsKnown() bool {
	_, ok := knownTypes[t]
	return ok
}

// Payload keys used by the engine's own publishers
const (
	KeyAmount     = "amount"
	KeyDamageType = "damage_type"
	KeyStatusID   = "status_id"
	KeyInstanceID = "instance_id"
	KeyStacks     = "stacks"
	KeyRemaining  = "remaining"
	KeyReason     = "reason"
	KeyActionID   = "action_id"
	KeyFormula    = "formula"
	KeyResult     = "result"
	KeyResource   = "resource"
	KeyIsMelee    = "is_melee"
	KeyIsRanged   = "is_ranged"
	KeyIsSpell    = "is_spell"
	KeyCritical   = "critical"
	KeyHit        = "hit"
	KeyDistance   = "distance"

	KeyAdvantage    = "advantage"
	KeyDisadvantage = "disadvantage"
	KeyFinesse      = "finesse"
	KeyAllyAdjacent = "ally_adjacent"
	KeyWeapon       = "weapon"
)

// Event is a single combat occurrence
type Event struct {
	Type     EventType
	SourceID string
	TargetID string
	// Tag is the sub-type of a Custom event
	Tag  string
	Data map[string]any
}

// NewEvent creates an event of the given type
func NewEvent(eventType EventType) *Event {
	return &Event{
		Type: eventType,
		Data: make(map[string]any),
	}
}

// NewCustomEvent creates a Custom event with the given tag
func NewCustomEvent(tag string) *Event {
	e := NewEvent(Custom)
	e.Tag = tag
	return e
}

// WithSource sets the source combatant (builder pattern)
func (e *Event) WithSource(id string) *Event {
	e.SourceID = id
	return e
}

// WithTarget sets the target combatant (builder pattern)
func (e *Event) WithTarget(id string) *Event {
	e.TargetID = id
	return e
}

// With adds a payload value (builder pattern)
func (e *Event) With(key string, value any) *Event {
	if e.Data == nil {
		e.Data = make(map[string]any)
	}
	e.Data[key] = value
	return e
}

// Get retrieves a payload value
func (e *Event) Get(key string) (any, bool) {
	if e.Data == nil {
		return nil, false
	}
	v, ok := e.Data[key]
	return v, ok
}

// GetInt retrieves an int payload value
func (e *Event) GetInt(key string) (int, bool) {
	v, ok := e.Get(key)
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	}
	return 0, false
}

// GetString retrieves a string payload value
func (e *Event) GetString(key string) (string, bool) {
	v, ok := e.Get(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// GetBool retrieves a bool payload value
func (e *Event) GetBool(key string) (bool, bool) {
	v, ok := e.Get(key)
	if !ok {
		return false, false
	}
	b, ok := v.(bool)
	return b, ok
}

// Subject returns the combatant an event is about: the target when set,
// otherwise the source.
func (e *Event) Subject() string {
	if e.TargetID != "" {
		return e.TargetID
	}
	return e.SourceID
}
