package rulebook_test

import (
	"testing"

	"github.com/KirkDiggler/combat-rules-engine/internal/combatants"
	mockdice "github.com/KirkDiggler/combat-rules-engine/internal/dice/mock"
	dnderr "github.com/KirkDiggler/combat-rules-engine/internal/errors"
	"github.com/KirkDiggler/combat-rules-engine/internal/events"
	"github.com/KirkDiggler/combat-rules-engine/internal/functors"
	"github.com/KirkDiggler/combat-rules-engine/internal/resolution"
	"github.com/KirkDiggler/combat-rules-engine/internal/rulebook"
	"github.com/KirkDiggler/combat-rules-engine/internal/rules"
	"github.com/KirkDiggler/combat-rules-engine/internal/statuses"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	roller   *mockdice.ManualMockRoller
	bus      *events.Bus
	registry *rules.Registry
	rogue    *combatants.Combatant
	orc      *combatants.Combatant
	sneak    *rulebook.SneakAttack
}

func newFixture(t *testing.T, level int) *fixture {
	t.Helper()
	f := &fixture{
		roller: mockdice.NewManualMockRoller(),
		bus:    events.NewBus(nil),
		rogue:  combatants.New("rogue", "Rogue", 30),
		orc:    combatants.New("orc", "Orc", 50),
	}
	roster := combatants.NewRegistry()
	require.NoError(t, roster.Add(f.rogue))
	require.NoError(t, roster.Add(f.orc))

	engine, err := resolution.NewEngine(&resolution.EngineConfig{Roller: f.roller})
	require.NoError(t, err)
	executor, err := functors.NewExecutor(&functors.ExecutorConfig{
		Resolve:  roster.Get,
		Statuses: statuses.NewManager(nil),
		Engine:   engine,
		Log:      dnderr.NewLog(),
	})
	require.NoError(t, err)

	f.registry = rules.NewRegistry(nil)
	f.sneak = rulebook.NewSneakAttack("rogue", level, executor, nil)
	require.NoError(t, f.registry.Register(f.sneak))
	return f
}

func attack(sourceID string) *events.Event {
	return events.NewEvent(events.AttackResolved).
		WithSource(sourceID).
		WithTarget("orc").
		With(events.KeyHit, true).
		With(events.KeyDamageType, "piercing")
}

func (f *fixture) fire(e *events.Event) error {
	window, _ := rules.WindowFor(e.Type)
	return f.registry.Fire(rules.NewEventContext(window, e))
}

func TestSneakAttackDice(t *testing.T) {
	assert.Equal(t, 1, rulebook.SneakAttackDice(1))
	assert.Equal(t, 1, rulebook.SneakAttackDice(2))
	assert.Equal(t, 3, rulebook.SneakAttackDice(5))
	assert.Equal(t, 10, rulebook.SneakAttackDice(20))
}

func TestSneakAttack_Eligibility(t *testing.T) {
	tests := []struct {
		name     string
		event    *events.Event
		expected bool
	}{
		{
			name:     "finesse weapon with advantage",
			event:    attack("rogue").With(events.KeyFinesse, true).With(events.KeyAdvantage, true),
			expected: true,
		},
		{
			name:     "ranged weapon with ally adjacent",
			event:    attack("rogue").With(events.KeyIsRanged, true).With(events.KeyAllyAdjacent, true),
			expected: true,
		},
		{
			name:     "no advantage and no ally",
			event:    attack("rogue").With(events.KeyFinesse, true),
			expected: false,
		},
		{
			name:     "weapon not finesse or ranged",
			event:    attack("rogue").With(events.KeyIsMelee, true).With(events.KeyAdvantage, true),
			expected: false,
		},
		{
			name:     "disadvantage cancels",
			event:    attack("rogue").With(events.KeyFinesse, true).With(events.KeyAdvantage, true).With(events.KeyDisadvantage, true),
			expected: false,
		},
		{
			name:     "miss",
			event:    attack("rogue").With(events.KeyHit, false).With(events.KeyFinesse, true).With(events.KeyAdvantage, true),
			expected: false,
		},
		{
			name:     "different attacker",
			event:    attack("orc").With(events.KeyFinesse, true).With(events.KeyAdvantage, true),
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, 1)
			f.roller.SetRolls([]int{4})

			require.NoError(t, f.fire(tt.event))

			if tt.expected {
				assert.Equal(t, 46, f.orc.CurrentHP())
				assert.True(t, f.sneak.UsedThisTurn())
			} else {
				assert.Equal(t, 50, f.orc.CurrentHP())
				assert.False(t, f.sneak.UsedThisTurn())
			}
		})
	}
}

func TestSneakAttack_OncePerTurn(t *testing.T) {
	f := newFixture(t, 5)
	f.roller.SetRolls([]int{1, 2, 3, 6, 6, 6})

	hit := func() *events.Event {
		return attack("rogue").With(events.KeyFinesse, true).With(events.KeyAdvantage, true)
	}

	require.NoError(t, f.fire(hit()))
	assert.Equal(t, 44, f.orc.CurrentHP())

	require.NoError(t, f.fire(hit()))
	assert.Equal(t, 44, f.orc.CurrentHP())

	// another combatant's turn does not reset it
	require.NoError(t, f.fire(events.NewEvent(events.TurnStarted).WithSource("orc")))
	assert.True(t, f.sneak.UsedThisTurn())

	require.NoError(t, f.fire(events.NewEvent(events.TurnStarted).WithSource("rogue")))
	assert.False(t, f.sneak.UsedThisTurn())

	require.NoError(t, f.fire(hit()))
	assert.Equal(t, 26, f.orc.CurrentHP())
}

func TestSneakAttack_CriticalDoublesDice(t *testing.T) {
	f := newFixture(t, 3)
	f.roller.SetRolls([]int{1, 2, 3, 4})

	require.NoError(t, f.fire(attack("rogue").
		With(events.KeyIsRanged, true).
		With(events.KeyAdvantage, true).
		With(events.KeyCritical, true)))

	assert.Equal(t, 40, f.orc.CurrentHP())
	assert.Equal(t, 0, f.roller.Remaining())
}
