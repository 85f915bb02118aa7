package testutils

import (
	"github.com/KirkDiggler/combat-rules-engine/internal/combatants"
	"github.com/KirkDiggler/combat-rules-engine/internal/passives"
	"github.com/KirkDiggler/combat-rules-engine/internal/statuses"
)

// CreateTestCombatant creates a combatant with an attack bonus and armor class
func CreateTestCombatant(id, name string, hp, armorClass, attackBonus int) *combatants.Combatant {
	c := combatants.New(id, name, hp)
	c.Stats[combatants.StatArmorClass] = armorClass
	c.Stats[combatants.StatAttackBonus] = attackBonus
	return c
}

// CreateTestMonster creates a hostile combatant
func CreateTestMonster(id, name string, hp, armorClass int) *combatants.Combatant {
	c := CreateTestCombatant(id, name, hp, armorClass, 3)
	c.Team = "monsters"
	return c
}

// CreateTestCaster creates a spellcaster with a concentration bonus
func CreateTestCaster(id, name string, hp, concentrationBonus int) *combatants.Combatant {
	c := CreateTestCombatant(id, name, hp, 12, 5)
	c.Team = "party"
	c.Stats[combatants.StatConcentrationMod] = concentrationBonus
	return c
}

// CreateTestStatuses returns a small catalogue of status definitions
func CreateTestStatuses() []*statuses.Definition {
	return []*statuses.Definition{
		statuses.NewBuilder("BURNING").
			WithDuration(statuses.DurationTurns, 2).
			OnTick("DealDamage(1d4,Fire)").
			Build(),
		statuses.NewBuilder("BLESSED").
			WithDuration(statuses.DurationRounds, 10).
			WithTags(statuses.TagConcentration).
			AsBuff().
			Build(),
		statuses.NewBuilder("BLEEDING").
			WithDuration(statuses.DurationTurns, 3).
			WithStacking(statuses.StackingStack, 3).
			OnTick("DealDamage(1,Slashing)").
			Build(),
		statuses.NewBuilder("prone").RemovedOn("StandUp").Build(),
	}
}

// CreateTestPassive creates a passive that grants a flat boost
func CreateTestPassive(id, stat string, amount int) *passives.Definition {
	return &passives.Definition{
		ID:     id,
		Name:   id,
		Boosts: map[string]int{stat: amount},
	}
}
