package conditions_test

import (
	"testing"

	"github.com/KirkDiggler/combat-rules-engine/internal/conditions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetConditionType_Aliases(t *testing.T) {
	tests := []struct {
		statusID string
		want     conditions.Kind
	}{
		{"webbed", conditions.Restrained},
		{"ENSNARED", conditions.Restrained},
		{"asleep", conditions.Unconscious},
		{"Downed", conditions.Unconscious},
		{"hold-person", conditions.Paralyzed},
		{"Knocked Prone", conditions.Prone},
		{"paralyzed", conditions.Paralyzed},
	}

	for _, tt := range tests {
		t.Run(tt.statusID, func(t *testing.T) {
			got, ok := conditions.GetConditionType(tt.statusID)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	_, ok := conditions.GetConditionType("BLESSED")
	assert.False(t, ok)
	assert.False(t, conditions.IsCondition("haste"))
}

func TestEveryKindHasMechanicsAndSelfAlias(t *testing.T) {
	for _, kind := range conditions.Kinds() {
		_, ok := conditions.MechanicsFor(kind)
		assert.True(t, ok, "missing mechanics for %s", kind)

		got, ok := conditions.GetConditionType(string(kind))
		assert.True(t, ok)
		assert.Equal(t, kind, got)
	}
	for alias, kind := range conditions.Aliases() {
		_, ok := conditions.MechanicsFor(kind)
		assert.True(t, ok, "alias %s maps to unknown kind %s", alias, kind)
	}
}

func TestParalyzedMechanics(t *testing.T) {
	assert.True(t, conditions.ShouldAttackerHaveAdvantage("paralyzed", true))
	assert.True(t, conditions.ShouldMeleeAutoCrit("paralyzed"))
	assert.True(t, conditions.ShouldAutoFailSave("paralyzed", "DEX"))
	assert.True(t, conditions.ShouldAutoFailSave("paralyzed", "strength"))
	assert.False(t, conditions.ShouldAutoFailSave("paralyzed", "WIS"))
	assert.True(t, conditions.PreventsMovement("paralyzed"))
	assert.True(t, conditions.IsIncapacitating("paralyzed"))
}

func TestProneIsDirectional(t *testing.T) {
	assert.True(t, conditions.ShouldAttackerHaveAdvantage("prone", true))
	assert.False(t, conditions.ShouldAttackerHaveDisadvantage("prone", true))
	assert.False(t, conditions.ShouldAttackerHaveAdvantage("prone", false))
	assert.True(t, conditions.ShouldAttackerHaveDisadvantage("prone", false))
	assert.True(t, conditions.HasDisadvantageOnOwnAttacks("prone"))
}

func TestOtherPredicates(t *testing.T) {
	assert.True(t, conditions.HasResistanceToAllDamage("petrified"))
	assert.False(t, conditions.HasResistanceToAllDamage("stunned"))
	assert.True(t, conditions.HasDisadvantageOnDexSaves("webbed"))
	assert.True(t, conditions.HasAdvantageOnOwnAttacks("invisibility"))
	assert.True(t, conditions.ShouldAttackerHaveDisadvantage("invisible", true))
	assert.False(t, conditions.ShouldMeleeAutoCrit("BURNING"))
	assert.False(t, conditions.PreventsMovement("BURNING"))
}

func TestGetAggregateEffects_Prone(t *testing.T) {
	melee := conditions.GetAggregateEffects([]string{"prone"}, true)
	assert.NotEmpty(t, melee.DefenderAdvantageSources)
	assert.Empty(t, melee.DefenderDisadvantageSources)

	ranged := conditions.GetAggregateEffects([]string{"prone"}, false)
	assert.Empty(t, ranged.DefenderAdvantageSources)
	assert.NotEmpty(t, ranged.DefenderDisadvantageSources)
}

func TestGetAggregateEffects_Fold(t *testing.T) {
	agg := conditions.GetAggregateEffects([]string{"BLESSED", "webbed", "asleep", "unconscious", "poisoned"}, true)

	assert.Equal(t, []conditions.Kind{conditions.Restrained, conditions.Unconscious, conditions.Poisoned}, agg.Conditions)
	assert.Equal(t, []conditions.Kind{conditions.Restrained, conditions.Unconscious}, agg.DefenderAdvantageSources)
	assert.Equal(t, []conditions.Kind{conditions.Restrained, conditions.Poisoned}, agg.AttackerDisadvantageSources)
	assert.ElementsMatch(t, []string{"STR", "DEX"}, agg.AutoFailSaves)
	assert.True(t, agg.AutoFailsSave("dex"))
	assert.True(t, agg.MeleeAutoCrit)
	assert.True(t, agg.Incapacitated)
	assert.True(t, agg.DexSaveDisadvantage)
	assert.True(t, agg.PreventsMovement)
	assert.False(t, agg.ResistAllDamage)
	assert.True(t, agg.AttackedWithAdvantage())
	assert.False(t, agg.AttacksWithAdvantage())
}

func TestGetAggregateEffects_Empty(t *testing.T) {
	agg := conditions.GetAggregateEffects(nil, true)
	assert.Empty(t, agg.Conditions)
	assert.False(t, agg.AttackedWithAdvantage())
	assert.False(t, agg.Incapacitated)
}
