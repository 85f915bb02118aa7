package rules

import "github.com/KirkDiggler/combat-rules-engine/internal/events"

// EventContext describes the event a provider is reacting to.
// It is built per dispatch and never stored.
type EventContext struct {
	Window     Window
	EventType  events.EventType
	SourceID   string
	TargetID   string
	IsMelee    bool
	IsRanged   bool
	IsSpell    bool
	IsCritical bool
	ActionID   string
	Amount     int
	DamageType string
	StatusID   string
	CustomTag  string
	Payload    map[string]any
	// Depth counts nested dispatches; 0 for a top-level event
	Depth int
}

// NewEventContext builds a context from a published event
func NewEventContext(window Window, e *events.Event) *EventContext {
	ctx := &EventContext{
		Window:    window,
		EventType: e.Type,
		SourceID:  e.SourceID,
		TargetID:  e.TargetID,
		CustomTag: e.Tag,
		Payload:   e.Data,
	}
	ctx.IsMelee, _ = e.GetBool(events.KeyIsMelee)
	ctx.IsRanged, _ = e.GetBool(events.KeyIsRanged)
	ctx.IsSpell, _ = e.GetBool(events.KeyIsSpell)
	ctx.IsCritical, _ = e.GetBool(events.KeyCritical)
	ctx.ActionID, _ = e.GetString(events.KeyActionID)
	ctx.Amount, _ = e.GetInt(events.KeyAmount)
	ctx.DamageType, _ = e.GetString(events.KeyDamageType)
	ctx.StatusID, _ = e.GetString(events.KeyStatusID)
	return ctx
}

// RoleOf reports the role combatantID plays in the event
func (c *EventContext) RoleOf(combatantID string) (Role, bool) {
	switch combatantID {
	case "":
		return "", false
	case c.SourceID:
		return RoleSource, true
	case c.TargetID:
		return RoleTarget, true
	}
	return "", false
}

// Other returns the combatant opposite role in the event
func (c *EventContext) Other(role Role) string {
	if role == RoleSource {
		return c.TargetID
	}
	return c.SourceID
}

// Get returns a payload value
func (c *EventContext) Get(key string) (any, bool) {
	if c.Payload == nil {
		return nil, false
	}
	v, ok := c.Payload[key]
	return v, ok
}

// Flag reports whether a boolean payload value is set and true
func (c *EventContext) Flag(key string) bool {
	v, ok := c.Get(key)
	if !ok {
		return false
	}
	b, ok := v.(bool)
	return ok && b
}
