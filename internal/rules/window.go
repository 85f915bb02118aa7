// Package rules dispatches combat events to rule providers at named windows.
package rules

import "github.com/KirkDiggler/combat-rules-engine/internal/events"

// Window is a point in the combat lifecycle where providers may fire
type Window string

const (
	WindowAttackDeclared    Window = "attack_declared"
	WindowAttackResolved    Window = "attack_resolved"
	WindowDamageApplied     Window = "damage_applied"
	WindowHealingApplied    Window = "healing_applied"
	WindowTurnStarted       Window = "turn_started"
	WindowTurnEnded         Window = "turn_ended"
	WindowSpellCast         Window = "spell_cast"
	WindowMovementCompleted Window = "movement_completed"
	WindowStatusApplied     Window = "status_applied"
	WindowStatusRemoved     Window = "status_removed"
)

// Role is the part a combatant plays in an event
type Role string

const (
	RoleSource Role = "source"
	RoleTarget Role = "target"
)

var eventWindows = map[events.EventType]Window{
	events.AttackDeclared:    WindowAttackDeclared,
	events.AttackResolved:    WindowAttackResolved,
	events.DamageApplied:     WindowDamageApplied,
	events.HealingApplied:    WindowHealingApplied,
	events.TurnStarted:       WindowTurnStarted,
	events.TurnEnded:         WindowTurnEnded,
	events.SpellCast:         WindowSpellCast,
	events.MovementCompleted: WindowMovementCompleted,
	events.StatusApplied:     WindowStatusApplied,
	events.StatusRemoved:     WindowStatusRemoved,
}

// WindowFor returns the window an event type opens, if any
func WindowFor(eventType events.EventType) (Window, bool) {
	w, ok := eventWindows[eventType]
	return w, ok
}
