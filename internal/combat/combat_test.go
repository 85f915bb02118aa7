package combat_test

import (
	"testing"

	"github.com/KirkDiggler/combat-rules-engine/internal/combat"
	"github.com/KirkDiggler/combat-rules-engine/internal/combatants"
	"github.com/KirkDiggler/combat-rules-engine/internal/concentration"
	mockconcentration "github.com/KirkDiggler/combat-rules-engine/internal/concentration/mock"
	"github.com/KirkDiggler/combat-rules-engine/internal/conditions"
	mockdice "github.com/KirkDiggler/combat-rules-engine/internal/dice/mock"
	dnderr "github.com/KirkDiggler/combat-rules-engine/internal/errors"
	"github.com/KirkDiggler/combat-rules-engine/internal/events"
	"github.com/KirkDiggler/combat-rules-engine/internal/passives"
	"github.com/KirkDiggler/combat-rules-engine/internal/resolution"
	"github.com/KirkDiggler/combat-rules-engine/internal/rulebook"
	"github.com/KirkDiggler/combat-rules-engine/internal/statuses"
	"github.com/KirkDiggler/combat-rules-engine/internal/testutils"
	"github.com/KirkDiggler/combat-rules-engine/internal/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type CombatTestSuite struct {
	suite.Suite
	ctrl     *gomock.Controller
	roller   *mockdice.ManualMockRoller
	surfaces *mockconcentration.MockSurfaceRemover
	combat   *combat.Combat

	fighter *combatants.Combatant
	wizard  *combatants.Combatant
	orc     *combatants.Combatant
}

func (s *CombatTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.roller = mockdice.NewManualMockRoller()
	s.surfaces = mockconcentration.NewMockSurfaceRemover(s.ctrl)

	var err error
	s.combat, err = combat.New(&combat.Config{
		Roller:         s.roller,
		IDs:            uuid.NewSequentialGenerator("combat"),
		Surfaces:       s.surfaces,
		SurfaceActions: []string{"web", "cloudkill"},
	})
	s.Require().NoError(err)

	for _, def := range []*statuses.Definition{
		statuses.NewBuilder("paralyzed").WithDuration(statuses.DurationRounds, 10).Build(),
		statuses.NewBuilder("webbed").WithDuration(statuses.DurationRounds, 10).WithTags(statuses.TagConcentration).Build(),
		statuses.NewBuilder("BURNING").WithDuration(statuses.DurationTurns, 2).OnTick("DealDamage(1d4,Fire)").Build(),
		statuses.NewBuilder("BLESSED").WithDuration(statuses.DurationRounds, 2).AsBuff().Build(),
		statuses.NewBuilder("GUARDED").RemovedOn(string(events.MovementCompleted)).Build(),
		statuses.NewBuilder("SOAKED").RemovedOn("SurfaceTriggered").Build(),
		statuses.NewBuilder("prone").Permanent().Build(),
	} {
		s.Require().NoError(s.combat.Statuses.RegisterStatus(def))
	}

	s.fighter = testutils.CreateTestCombatant("fighter", "Fighter", 44, 16, 5)
	s.wizard = testutils.CreateTestCaster("wizard", "Wizard", 22, 0)
	s.orc = testutils.CreateTestMonster("orc", "Orc", 40, 15)
	for _, c := range []*combatants.Combatant{s.fighter, s.wizard, s.orc} {
		s.Require().NoError(s.combat.AddCombatant(c))
	}
}

func (s *CombatTestSuite) eventsOf(eventType events.EventType) []*events.Event {
	var out []*events.Event
	for _, e := range s.combat.History() {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}

func (s *CombatTestSuite) TestIDFromGenerator() {
	s.Equal("combat-1", s.combat.ID)
	s.Equal(1, s.combat.Round())
}

func (s *CombatTestSuite) TestParalyzedTarget() {
	s.Require().NotNil(s.combat.Statuses.ApplyStatus("paralyzed", "wizard", "orc"))

	s.True(conditions.ShouldAttackerHaveAdvantage("paralyzed", true))
	s.True(conditions.ShouldMeleeAutoCrit("paralyzed"))
	s.True(conditions.ShouldAutoFailSave("paralyzed", "DEX"))

	// advantage pair, then the doubled damage dice
	s.roller.SetRolls([]int{3, 12, 4, 5})

	result, err := s.combat.ResolveAttack(&combat.AttackInput{
		AttackerID: "fighter",
		TargetID:   "orc",
		ActionID:   "longsword",
		Damage:     "1d8",
		DamageType: "slashing",
		Melee:      true,
	})
	s.Require().NoError(err)

	s.Equal(resolution.Advantage, result.Mode)
	s.Equal(17, result.Roll.Total)
	s.True(result.Hit)
	s.True(result.Critical)
	s.Equal(9, result.Damage)
	s.Equal(31, s.orc.CurrentHP())
	s.Equal(0, s.roller.Remaining())

	moved, err := s.combat.Move("orc", 30)
	s.NoError(err)
	s.False(moved)

	_, err = s.combat.ResolveAttack(&combat.AttackInput{AttackerID: "orc", TargetID: "fighter", Melee: true})
	s.Error(err)
	s.True(dnderr.Is(err, dnderr.CodeInvalidArgument))
}

func (s *CombatTestSuite) TestMissAgainstArmor() {
	s.roller.SetRolls([]int{9})

	result, err := s.combat.ResolveAttack(&combat.AttackInput{
		AttackerID: "fighter",
		TargetID:   "orc",
		Damage:     "1d8",
		Melee:      true,
	})
	s.Require().NoError(err)

	s.Equal(resolution.Normal, result.Mode)
	s.False(result.Hit)
	s.Equal(40, s.orc.CurrentHP())

	resolved := s.eventsOf(events.AttackResolved)
	s.Require().Len(resolved, 1)
	hit, _ := resolved[0].GetBool(events.KeyHit)
	s.False(hit)
}

func (s *CombatTestSuite) TestProneIsDirectional() {
	s.Require().NotNil(s.combat.Statuses.ApplyStatus("prone", "fighter", "orc"))

	s.roller.SetRolls([]int{2, 10})
	ranged, err := s.combat.ResolveAttack(&combat.AttackInput{AttackerID: "fighter", TargetID: "orc", Ranged: true})
	s.Require().NoError(err)
	s.Equal(resolution.Disadvantage, ranged.Mode)
	s.False(ranged.Hit)

	s.roller.SetRolls([]int{2, 10})
	melee, err := s.combat.ResolveAttack(&combat.AttackInput{AttackerID: "fighter", TargetID: "orc", Melee: true})
	s.Require().NoError(err)
	s.Equal(resolution.Advantage, melee.Mode)
	s.True(melee.Hit)
}

func (s *CombatTestSuite) TestConcentrationSurfaceReleasedOnFailedCheck() {
	s.surfaces.EXPECT().RemoveSurfaceByID("S1").Return(true).Times(1)
	s.surfaces.EXPECT().RemoveSurfacesByCreator(gomock.Any()).Times(0)

	landed, err := s.combat.CastSpell(&combat.SpellInput{
		CasterID:  "wizard",
		TargetID:  "orc",
		ActionID:  "web",
		StatusID:  "webbed",
		SurfaceID: "S1",
	})
	s.Require().NoError(err)
	s.Require().True(landed)
	s.True(s.combat.Concentration.IsConcentrating("wizard"))
	s.True(s.combat.Statuses.HasStatus("orc", "webbed"))

	// DC 10, natural 5
	s.roller.SetRolls([]int{5})
	taken, err := s.combat.ApplyDamage("orc", "wizard", 20, "bludgeoning")
	s.Require().NoError(err)
	s.Equal(20, taken)

	s.False(s.combat.Concentration.IsConcentrating("wizard"))
	s.False(s.combat.Statuses.HasStatus("orc", "webbed"))

	broken := s.eventsOf(events.ConcentrationBroken)
	s.Require().Len(broken, 1)
	reason, _ := broken[0].GetString(events.KeyReason)
	s.Equal(concentration.ReasonFailedCheck, reason)
}

func (s *CombatTestSuite) TestConcentrationSurvivesPassedCheck() {
	_, err := s.combat.CastSpell(&combat.SpellInput{CasterID: "wizard", TargetID: "orc", ActionID: "web", StatusID: "webbed"})
	s.Require().NoError(err)

	s.roller.SetRolls([]int{15})
	_, err = s.combat.ApplyDamage("", "wizard", 8, "fire")
	s.Require().NoError(err)

	s.True(s.combat.Concentration.IsConcentrating("wizard"))
	s.True(s.combat.Statuses.HasStatus("orc", "webbed"))
}

func (s *CombatTestSuite) TestAllowListFallbackWithoutLink() {
	s.surfaces.EXPECT().RemoveSurfacesByCreator("wizard").Return(2).Times(1)

	_, err := s.combat.CastSpell(&combat.SpellInput{CasterID: "wizard", TargetID: "orc", ActionID: "web", StatusID: "webbed"})
	s.Require().NoError(err)

	s.True(s.combat.Statuses.RemoveStatus("orc", "webbed"))
	s.False(s.combat.Concentration.IsConcentrating("wizard"))
}

func (s *CombatTestSuite) TestReplacedConcentrationStatusKeepsNewCaster() {
	s.Require().NoError(s.combat.Statuses.RegisterStatus(
		statuses.NewBuilder("hold").
			WithDuration(statuses.DurationRounds, 10).
			WithStacking(statuses.StackingReplace, 1).
			WithTags(statuses.TagConcentration).
			Build()))

	landed, err := s.combat.CastSpell(&combat.SpellInput{CasterID: "wizard", TargetID: "orc", ActionID: "hold-monster", StatusID: "hold", Concentration: true})
	s.Require().NoError(err)
	s.Require().True(landed)

	landed, err = s.combat.CastSpell(&combat.SpellInput{CasterID: "fighter", TargetID: "orc", ActionID: "hold-monster", StatusID: "hold", Concentration: true})
	s.Require().NoError(err)
	s.True(landed)

	s.True(s.combat.Concentration.IsConcentrating("fighter"))
	s.False(s.combat.Concentration.IsConcentrating("wizard"))
	s.True(s.combat.Statuses.HasStatus("orc", "hold"))

	broken := s.eventsOf(events.ConcentrationBroken)
	s.Require().Len(broken, 1)
	s.Equal("wizard", broken[0].SourceID)

	// ending the new caster's concentration removes the replacing status
	s.True(s.combat.Concentration.BreakConcentration("fighter", concentration.ReasonCasterRemoved))
	s.False(s.combat.Statuses.HasStatus("orc", "hold"))
}

func (s *CombatTestSuite) TestTurnStatusesTickAndExpire() {
	s.Require().NotNil(s.combat.Statuses.ApplyStatus("BURNING", "wizard", "orc"))

	s.roller.SetRolls([]int{3, 2})
	s.True(s.combat.StartTurn("orc"))
	s.Equal("orc", s.combat.ActiveCombatant())
	s.True(s.combat.EndTurn("orc"))
	s.Equal(37, s.orc.CurrentHP())
	s.True(s.combat.Statuses.HasStatus("orc", "BURNING"))
	s.Empty(s.combat.ActiveCombatant())

	s.combat.EndTurn("orc")
	s.Equal(35, s.orc.CurrentHP())
	s.False(s.combat.Statuses.HasStatus("orc", "BURNING"))

	s.False(s.combat.StartTurn("nobody"))
}

func (s *CombatTestSuite) TestRoundStatusesExpire() {
	s.Require().NotNil(s.combat.Statuses.ApplyStatus("BLESSED", "wizard", "fighter"))

	s.Equal(2, s.combat.EndRound())
	s.True(s.combat.Statuses.HasStatus("fighter", "BLESSED"))
	s.Equal(3, s.combat.EndRound())
	s.False(s.combat.Statuses.HasStatus("fighter", "BLESSED"))
	s.Len(s.eventsOf(events.RoundEnded), 2)
}

func (s *CombatTestSuite) TestRunRoundGivesEveryoneATurn() {
	var acted []string
	next := s.combat.RunRound(func(id string) { acted = append(acted, id) })

	s.Equal(2, next)
	s.Equal([]string{"fighter", "wizard", "orc"}, acted)
	s.Len(s.eventsOf(events.TurnStarted), 3)
	s.Len(s.eventsOf(events.TurnEnded), 3)
}

func (s *CombatTestSuite) TestUntilEventStatuses() {
	s.Require().NotNil(s.combat.Statuses.ApplyStatus("GUARDED", "fighter", "fighter"))
	s.Require().NotNil(s.combat.Statuses.ApplyStatus("SOAKED", "wizard", "orc"))

	s.combat.EndTurn("fighter")
	s.True(s.combat.Statuses.HasStatus("fighter", "GUARDED"))

	moved, err := s.combat.Move("fighter", 10)
	s.Require().NoError(err)
	s.True(moved)
	s.False(s.combat.Statuses.HasStatus("fighter", "GUARDED"))

	result := s.combat.Executor.RunString("FireEvent(SurfaceTriggered,surface=S2)", nil, "wizard", "orc")
	s.Equal(1, result.Executed)
	s.False(s.combat.Statuses.HasStatus("orc", "SOAKED"))
}

func (s *CombatTestSuite) TestRemoveCombatantTearsDownState() {
	s.surfaces.EXPECT().RemoveSurfacesByCreator("wizard").Return(0)

	s.Require().NoError(s.combat.Passives.RegisterPassive(&passives.Definition{
		ID: "Arcane Ward", TriggerContext: "OnDamaged", Functors: "RegainHitPoints(1)",
	}))
	s.Require().True(s.combat.Passives.GrantPassive("wizard", "Arcane Ward"))
	s.Require().NotNil(s.combat.Statuses.ApplyStatus("BLESSED", "fighter", "wizard"))
	_, err := s.combat.CastSpell(&combat.SpellInput{CasterID: "wizard", TargetID: "orc", ActionID: "web", StatusID: "webbed"})
	s.Require().NoError(err)

	s.True(s.combat.RemoveCombatant("wizard"))

	s.False(s.combat.Roster.Exists("wizard"))
	s.Empty(s.combat.Statuses.GetStatuses("wizard"))
	s.False(s.combat.Statuses.HasStatus("orc", "webbed"))
	s.Empty(s.combat.Passives.GetPassives("wizard"))
	s.Empty(s.combat.Rules.Providers())
	s.False(s.combat.RemoveCombatant("wizard"))
}

func (s *CombatTestSuite) TestSneakAttackRidesOnAttack() {
	rogue := combatants.New("rogue", "Rogue", 30)
	rogue.Stats[combatants.StatAttackBonus] = 5
	s.Require().NoError(s.combat.AddCombatant(rogue))
	s.Require().NoError(s.combat.AddProvider(rulebook.NewSneakAttack("rogue", 3, s.combat.Executor, nil)))
	s.Require().NotNil(s.combat.Statuses.ApplyStatus("paralyzed", "wizard", "orc"))

	// advantage pair, rapier damage doubled, then sneak attack 2d6 doubled
	s.roller.SetRolls([]int{11, 14, 3, 3, 1, 2, 3, 4})
	result, err := s.combat.ResolveAttack(&combat.AttackInput{
		AttackerID: "rogue",
		TargetID:   "orc",
		ActionID:   "rapier",
		Damage:     "1d8",
		DamageType: "piercing",
		Melee:      true,
		Finesse:    true,
	})
	s.Require().NoError(err)

	s.True(result.Critical)
	s.Equal(6, result.Damage)
	s.Equal(24, s.orc.CurrentHP())
	s.Equal(0, s.roller.Remaining())
}

func (s *CombatTestSuite) TestPassivesGrantedOnJoin() {
	s.Require().NoError(s.combat.Passives.RegisterPassive(&passives.Definition{
		ID: "Hellish Rebuke", TriggerContext: "OnDamaged", Functors: "DealDamage(2d10,Fire)",
	}))
	tiefling := combatants.New("tiefling", "Tiefling", 20)
	s.Require().NoError(s.combat.AddCombatant(tiefling, "Hellish Rebuke", "Missing"))

	s.True(s.combat.Passives.HasPassive("tiefling", "Hellish Rebuke"))
	s.Len(s.combat.Errors(), 1)

	s.roller.SetRolls([]int{6, 4})
	_, err := s.combat.ApplyDamage("orc", "tiefling", 3, "slashing")
	s.Require().NoError(err)
	s.Equal(30, s.orc.CurrentHP())
}

func (s *CombatTestSuite) TestUnknownIDs() {
	_, err := s.combat.ResolveAttack(&combat.AttackInput{AttackerID: "ghost", TargetID: "orc"})
	s.True(dnderr.IsNotFound(err))

	_, err = s.combat.Move("ghost", 5)
	s.True(dnderr.IsNotFound(err))

	_, err = s.combat.ApplyDamage("", "ghost", 5, "")
	s.True(dnderr.IsNotFound(err))

	landed, err := s.combat.CastSpell(&combat.SpellInput{CasterID: "wizard", TargetID: "orc", StatusID: "NOT_A_STATUS"})
	s.NoError(err)
	s.False(landed)
}

func TestCombatSuite(t *testing.T) {
	suite.Run(t, new(CombatTestSuite))
}

func TestSameSeedReplays(t *testing.T) {
	play := func() []int {
		c, err := combat.New(&combat.Config{Seed: 42, IDs: uuid.NewSequentialGenerator("replay")})
		if err != nil {
			t.Fatal(err)
		}
		_ = c.AddCombatant(combatants.New("a", "A", 50))
		_ = c.AddCombatant(combatants.New("b", "B", 50))
		for range 5 {
			_, _ = c.ResolveAttack(&combat.AttackInput{AttackerID: "a", TargetID: "b", Damage: "2d6", Melee: true})
		}
		var totals []int
		for _, e := range c.History() {
			if e.Type == events.DiceRolled {
				v, _ := e.GetInt(events.KeyResult)
				totals = append(totals, v)
			}
		}
		return totals
	}

	first, second := play(), play()
	if len(first) == 0 {
		t.Fatal("expected dice rolls")
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("roll %d differs: %d vs %d", i, first[i], second[i])
		}
	}
}
