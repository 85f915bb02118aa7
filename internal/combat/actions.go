package combat

import (
	"github.com/KirkDiggler/combat-rules-engine/internal/combatants"
	"github.com/KirkDiggler/combat-rules-engine/internal/concentration"
	"github.com/KirkDiggler/combat-rules-engine/internal/conditions"
	"github.com/KirkDiggler/combat-rules-engine/internal/dice"
	dnderr "github.com/KirkDiggler/combat-rules-engine/internal/errors"
	"github.com/KirkDiggler/combat-rules-engine/internal/events"
	"github.com/KirkDiggler/combat-rules-engine/internal/functors"
	"github.com/KirkDiggler/combat-rules-engine/internal/resolution"
	"github.com/KirkDiggler/combat-rules-engine/internal/rules"
	"github.com/KirkDiggler/combat-rules-engine/internal/statuses"
	"go.uber.org/zap"
)

// AttackInput describes one weapon or spell attack
type AttackInput struct {
	AttackerID string
	TargetID   string
	ActionID   string
	// Damage is a dice formula; the attacker's damage bonus is added
	Damage     string
	DamageType string

	Melee   bool
	Ranged  bool
	Spell   bool
	Finesse bool
	// AllyAdjacent marks an ally of the attacker beside the target
	AllyAdjacent bool

	// Advantage and Disadvantage add sources beyond the conditions table
	Advantage    bool
	Disadvantage bool
}

// AttackResult is what an attack did
type AttackResult struct {
	Roll     *dice.RollResult
	Mode     resolution.Mode
	Hit      bool
	Critical bool
	// Damage is the hit points the target lost to the attack's own damage
	Damage int
}

// ResolveAttack rolls an attack with advantage and disadvantage taken from
// both sides' conditions. A natural 20 always hits and crits, a natural 1
// always misses, and a melee hit on a target whose conditions allow it is
// a critical.
func (c *Combat) ResolveAttack(input *AttackInput) (*AttackResult, error) {
	if input == nil {
		return nil, dnderr.InvalidArgumentf("attack input is required")
	}
	attacker, ok := c.Roster.Get(input.AttackerID)
	if !ok {
		return nil, dnderr.NotFoundf("attacker %q not found", input.AttackerID)
	}
	target, ok := c.Roster.Get(input.TargetID)
	if !ok {
		return nil, dnderr.NotFoundf("target %q not found", input.TargetID)
	}

	own := conditions.GetAggregateEffects(c.Statuses.StatusIDs(attacker.ID), input.Melee)
	if own.Incapacitated {
		return nil, dnderr.InvalidArgumentf("%s is incapacitated", attacker.ID)
	}
	if input.ActionID != "" && c.Statuses.IsActionBlocked(attacker.ID, input.ActionID) {
		return nil, dnderr.InvalidArgumentf("%s cannot use %s", attacker.ID, input.ActionID)
	}
	defense := conditions.GetAggregateEffects(c.Statuses.StatusIDs(target.ID), input.Melee)

	advantage := input.Advantage || own.AttacksWithAdvantage() || defense.AttackedWithAdvantage()
	disadvantage := input.Disadvantage || own.AttacksWithDisadvantage() || defense.AttackedWithDisadvantage()
	mode := resolution.ResolveMode(advantage, disadvantage)

	c.publish(c.attackEvent(events.AttackDeclared, input))

	roll, err := c.Engine.RollD20WithMode(attacker.Stat(combatants.StatAttackBonus), mode)
	if err != nil {
		return nil, dnderr.Wrap(err, "failed to roll attack")
	}

	result := &AttackResult{Roll: roll, Mode: mode}
	result.Hit = !roll.IsFumble && (roll.IsCrit || roll.Total >= target.Stat(combatants.StatArmorClass))
	result.Critical = result.Hit && (roll.IsCrit || (input.Melee && defense.MeleeAutoCrit))

	if result.Hit && input.Damage != "" {
		damage, err := c.damageFormula(input.Damage, attacker.Stat(combatants.StatDamageBonus))
		if err != nil {
			return nil, err
		}
		ctx := &rules.EventContext{
			SourceID:   attacker.ID,
			TargetID:   target.ID,
			IsMelee:    input.Melee,
			IsRanged:   input.Ranged,
			IsSpell:    input.Spell,
			IsCritical: result.Critical,
			ActionID:   input.ActionID,
			DamageType: input.DamageType,
		}
		before := target.CurrentHP()
		c.Executor.Execute([]functors.Functor{{
			Type:   functors.DealDamage,
			Params: []string{damage, input.DamageType},
		}}, ctx, attacker.ID, target.ID)
		result.Damage = max(0, before-target.CurrentHP())
	}

	c.publish(c.attackEvent(events.AttackResolved, input).
		With(events.KeyHit, result.Hit).
		With(events.KeyCritical, result.Critical).
		With(events.KeyAdvantage, mode == resolution.Advantage).
		With(events.KeyDisadvantage, mode == resolution.Disadvantage).
		With(events.KeyResult, roll.Total))

	c.logger.Debug("attack resolved",
		zap.String("attacker", attacker.ID),
		zap.String("target", target.ID),
		zap.String("mode", mode.String()),
		zap.Int("roll", roll.Total),
		zap.Bool("hit", result.Hit),
		zap.Bool("critical", result.Critical),
		zap.Int("damage", result.Damage))
	return result, nil
}

func (c *Combat) attackEvent(eventType events.EventType, input *AttackInput) *events.Event {
	return events.NewEvent(eventType).
		WithSource(input.AttackerID).
		WithTarget(input.TargetID).
		With(events.KeyActionID, input.ActionID).
		With(events.KeyDamageType, input.DamageType).
		With(events.KeyIsMelee, input.Melee).
		With(events.KeyIsRanged, input.Ranged).
		With(events.KeyIsSpell, input.Spell).
		With(events.KeyFinesse, input.Finesse).
		With(events.KeyAllyAdjacent, input.AllyAdjacent)
}

func (c *Combat) damageFormula(formula string, bonus int) (string, error) {
	f, err := dice.ParseFormula(formula)
	if err != nil {
		return "", dnderr.Malformedf("%v", err)
	}
	f.Modifier += bonus
	return f.String(), nil
}

// ApplyDamage deals a flat amount of damage outside an attack, for traps,
// falls and scripted hazards. An empty sourceID means no originator.
func (c *Combat) ApplyDamage(sourceID, targetID string, amount int, damageType string) (int, error) {
	target, ok := c.Roster.Get(targetID)
	if !ok {
		return 0, dnderr.NotFoundf("target %q not found", targetID)
	}
	before := target.CurrentHP()
	result := c.Executor.Execute([]functors.Functor{{
		Type:   functors.DealDamage,
		Params: []string{dice.Formula{Modifier: max(0, amount)}.String(), damageType},
	}}, nil, sourceID, targetID)
	if result.Skipped > 0 {
		return 0, dnderr.Newf(dnderr.CodeInternal, "damage to %s was skipped", targetID)
	}
	return before - target.CurrentHP(), nil
}

// Move reports a completed move. Movement-preventing conditions stop it.
func (c *Combat) Move(combatantID string, distance int) (bool, error) {
	if !c.Roster.Exists(combatantID) {
		return false, dnderr.NotFoundf("combatant %q not found", combatantID)
	}
	fx := conditions.GetAggregateEffects(c.Statuses.StatusIDs(combatantID), false)
	if fx.PreventsMovement {
		c.logger.Debug("movement prevented",
			zap.String("combatant", combatantID),
			zap.Any("conditions", fx.Conditions))
		return false, nil
	}

	c.publish(events.NewEvent(events.MovementCompleted).
		WithSource(combatantID).
		With(events.KeyDistance, distance))
	return true, nil
}

// SpellInput describes a spell that places a status on a target
type SpellInput struct {
	CasterID string
	TargetID string
	ActionID string
	StatusID string
	// Duration overrides the status default when non-zero; -1 is indefinite
	Duration      int
	Concentration bool
	// SurfaceID links an externally owned surface to the concentration
	SurfaceID string
}

// CastSpell applies the spell's status and, for concentration spells
// (requested, or tagged on the status), starts concentration linked to the
// status and any surface. It reports whether the status landed.
func (c *Combat) CastSpell(input *SpellInput) (bool, error) {
	if input == nil {
		return false, dnderr.InvalidArgumentf("spell input is required")
	}
	if !c.Roster.Exists(input.CasterID) {
		return false, dnderr.NotFoundf("caster %q not found", input.CasterID)
	}
	fx := conditions.GetAggregateEffects(c.Statuses.StatusIDs(input.CasterID), false)
	if fx.Incapacitated {
		return false, dnderr.InvalidArgumentf("%s is incapacitated", input.CasterID)
	}
	targetID := input.TargetID
	if targetID == "" {
		targetID = input.CasterID
	}

	c.publish(events.NewEvent(events.SpellCast).
		WithSource(input.CasterID).
		WithTarget(targetID).
		With(events.KeyActionID, input.ActionID).
		With(events.KeyIsSpell, true))

	concentrating := input.Concentration || c.SpellIsConcentration(input.StatusID)
	if concentrating {
		info := concentration.Info{
			CasterID: input.CasterID,
			ActionID: input.ActionID,
			StatusID: input.StatusID,
			TargetID: targetID,
		}
		if input.SurfaceID != "" {
			info.Links = append(info.Links, concentration.EffectLink{SurfaceInstanceID: input.SurfaceID})
		}
		// any previous concentration ends before the new status lands
		if err := c.Concentration.StartConcentration(info); err != nil {
			return false, err
		}
	}

	if input.StatusID == "" {
		return true, nil
	}
	var opts []statuses.ApplyOption
	if input.Duration != 0 {
		opts = append(opts, statuses.WithDuration(input.Duration))
	}
	inst := c.Statuses.ApplyStatus(input.StatusID, input.CasterID, targetID, opts...)
	if inst == nil {
		if concentrating {
			c.Concentration.BreakConcentration(input.CasterID, concentration.ReasonStatusRemoved)
		}
		return false, nil
	}
	return true, nil
}

// SpellIsConcentration reports whether a registered status is tagged as a
// concentration spell
func (c *Combat) SpellIsConcentration(statusID string) bool {
	def, ok := c.Statuses.GetDefinition(statusID)
	return ok && def.HasTag(statuses.TagConcentration)
}
