package conditions

import "slices"

// IsCondition reports whether statusID names a condition
func IsCondition(statusID string) bool {
	_, ok := GetConditionType(statusID)
	return ok
}

// GetConditionType returns the condition kind statusID maps to
func GetConditionType(statusID string) (Kind, bool) {
	kind, ok := aliases[normalize(statusID)]
	return kind, ok
}

func lookup(statusID string) (Mechanics, bool) {
	kind, ok := GetConditionType(statusID)
	if !ok {
		return Mechanics{}, false
	}
	return MechanicsFor(kind)
}

// ShouldAttackerHaveAdvantage reports whether attacks against a bearer of statusID have advantage
func ShouldAttackerHaveAdvantage(statusID string, isMeleeAttack bool) bool {
	m, ok := lookup(statusID)
	if !ok {
		return false
	}
	if m.ProneDirectional {
		return isMeleeAttack
	}
	return m.AttackersHaveAdvantage
}

// ShouldAttackerHaveDisadvantage reports whether attacks against a bearer of statusID have disadvantage
func ShouldAttackerHaveDisadvantage(statusID string, isMeleeAttack bool) bool {
	m, ok := lookup(statusID)
	if !ok {
		return false
	}
	if m.ProneDirectional {
		return !isMeleeAttack
	}
	return m.AttackersHaveDisadvantage
}

// HasAdvantageOnOwnAttacks reports whether the bearer attacks with advantage
func HasAdvantageOnOwnAttacks(statusID string) bool {
	m, ok := lookup(statusID)
	return ok && m.OwnAttackAdvantage
}

// HasDisadvantageOnOwnAttacks reports whether the bearer attacks with disadvantage
func HasDisadvantageOnOwnAttacks(statusID string) bool {
	m, ok := lookup(statusID)
	return ok && m.OwnAttackDisadvantage
}

// ShouldAutoFailSave reports whether the bearer automatically fails saves of ability
func ShouldAutoFailSave(statusID, ability string) bool {
	m, ok := lookup(statusID)
	if !ok {
		return false
	}
	return slices.Contains(m.AutoFailSaves, NormalizeAbility(ability))
}

// ShouldMeleeAutoCrit reports whether melee hits against the bearer are critical
func ShouldMeleeAutoCrit(statusID string) bool {
	m, ok := lookup(statusID)
	return ok && m.MeleeAutoCrit
}

// PreventsMovement reports whether the bearer cannot move
func PreventsMovement(statusID string) bool {
	m, ok := lookup(statusID)
	return ok && m.PreventsMovement
}

// IsIncapacitating reports whether the bearer can take no actions
func IsIncapacitating(statusID string) bool {
	m, ok := lookup(statusID)
	return ok && m.Incapacitated
}

// HasResistanceToAllDamage reports whether the bearer resists every damage type
func HasResistanceToAllDamage(statusID string) bool {
	m, ok := lookup(statusID)
	return ok && m.ResistAllDamage
}

// HasDisadvantageOnDexSaves reports whether the bearer rolls DEX saves with disadvantage
func HasDisadvantageOnDexSaves(statusID string) bool {
	m, ok := lookup(statusID)
	return ok && m.DexSaveDisadvantage
}

// AggregateEffects is the net effect of every condition a combatant carries.
// Source lists hold the condition kinds responsible, each listed once.
type AggregateEffects struct {
	Conditions []Kind

	// DefenderAdvantageSources make attacks against the combatant roll with advantage
	DefenderAdvantageSources []Kind
	// DefenderDisadvantageSources make attacks against the combatant roll with disadvantage
	DefenderDisadvantageSources []Kind
	// AttackerAdvantageSources give the combatant's own attacks advantage
	AttackerAdvantageSources []Kind
	// AttackerDisadvantageSources give the combatant's own attacks disadvantage
	AttackerDisadvantageSources []Kind

	AutoFailSaves       []string
	MeleeAutoCrit       bool
	Incapacitated       bool
	DexSaveDisadvantage bool
	PreventsMovement    bool
	ResistAllDamage     bool
}

// GetAggregateEffects folds a combatant's status ids into one summary
func GetAggregateEffects(statusIDs []string, isMeleeAttack bool) AggregateEffects {
	var agg AggregateEffects

	for _, id := range statusIDs {
		kind, ok := GetConditionType(id)
		if !ok || slices.Contains(agg.Conditions, kind) {
			continue
		}
		agg.Conditions = append(agg.Conditions, kind)

		if ShouldAttackerHaveAdvantage(id, isMeleeAttack) {
			agg.DefenderAdvantageSources = append(agg.DefenderAdvantageSources, kind)
		}
		if ShouldAttackerHaveDisadvantage(id, isMeleeAttack) {
			agg.DefenderDisadvantageSources = append(agg.DefenderDisadvantageSources, kind)
		}
		if HasAdvantageOnOwnAttacks(id) {
			agg.AttackerAdvantageSources = append(agg.AttackerAdvantageSources, kind)
		}
		if HasDisadvantageOnOwnAttacks(id) {
			agg.AttackerDisadvantageSources = append(agg.AttackerDisadvantageSources, kind)
		}

		m := mechanicsTable[kind]
		for _, ability := range m.AutoFailSaves {
			if !slices.Contains(agg.AutoFailSaves, ability) {
				agg.AutoFailSaves = append(agg.AutoFailSaves, ability)
			}
		}
		agg.MeleeAutoCrit = agg.MeleeAutoCrit || m.MeleeAutoCrit
		agg.Incapacitated = agg.Incapacitated || m.Incapacitated
		agg.DexSaveDisadvantage = agg.DexSaveDisadvantage || m.DexSaveDisadvantage
		agg.PreventsMovement = agg.PreventsMovement || m.PreventsMovement
		agg.ResistAllDamage = agg.ResistAllDamage || m.ResistAllDamage
	}

	return agg
}

// AutoFailsSave reports whether the aggregate forces a failed save of ability
func (a AggregateEffects) AutoFailsSave(ability string) bool {
	return slices.Contains(a.AutoFailSaves, NormalizeAbility(ability))
}

// AttackedWithAdvantage reports whether attacks against the combatant have advantage
func (a AggregateEffects) AttackedWithAdvantage() bool {
	return len(a.DefenderAdvantageSources) > 0
}

// AttackedWithDisadvantage reports whether attacks against the combatant have disadvantage
func (a AggregateEffects) AttackedWithDisadvantage() bool {
	return len(a.DefenderDisadvantageSources) > 0
}

// AttacksWithAdvantage reports whether the combatant's own attacks have advantage
func (a AggregateEffects) AttacksWithAdvantage() bool {
	return len(a.AttackerAdvantageSources) > 0
}

// AttacksWithDisadvantage reports whether the combatant's own attacks have disadvantage
func (a AggregateEffects) AttacksWithDisadvantage() bool {
	return len(a.AttackerDisadvantageSources) > 0
}
