package functors_test

import (
	"testing"

	"github.com/KirkDiggler/combat-rules-engine/internal/combatants"
	mockdice "github.com/KirkDiggler/combat-rules-engine/internal/dice/mock"
	dnderr "github.com/KirkDiggler/combat-rules-engine/internal/errors"
	"github.com/KirkDiggler/combat-rules-engine/internal/events"
	"github.com/KirkDiggler/combat-rules-engine/internal/functors"
	"github.com/KirkDiggler/combat-rules-engine/internal/resolution"
	"github.com/KirkDiggler/combat-rules-engine/internal/rules"
	"github.com/KirkDiggler/combat-rules-engine/internal/statuses"
	"github.com/stretchr/testify/suite"
)

type ExecutorTestSuite struct {
	suite.Suite
	roller    *mockdice.ManualMockRoller
	bus       *events.Bus
	registry  *combatants.Registry
	statuses  *statuses.Manager
	executor  *functors.Executor
	log       *dnderr.Log
	broken    []string
	published []*events.Event

	wizard *combatants.Combatant
	goblin *combatants.Combatant
}

type breakerFunc func(casterID, reason string) bool

func (f breakerFunc) BreakConcentration(casterID, reason string) bool { return f(casterID, reason) }

func (s *ExecutorTestSuite) SetupTest() {
	s.roller = mockdice.NewManualMockRoller()
	s.bus = events.NewBus(nil)
	s.registry = combatants.NewRegistry()
	s.log = dnderr.NewLog()
	s.broken = nil
	s.published = nil
	s.bus.SubscribeAll(func(e *events.Event) error {
		if e.Type != events.DiceRolled {
			s.published = append(s.published, e)
		}
		return nil
	})

	s.wizard = combatants.New("wizard", "Wizard", 20)
	s.wizard.SetResource("spell_slots", 3)
	s.goblin = combatants.New("goblin", "Goblin", 30)
	s.Require().NoError(s.registry.Add(s.wizard))
	s.Require().NoError(s.registry.Add(s.goblin))

	engine, err := resolution.NewEngine(&resolution.EngineConfig{Roller: s.roller, Bus: s.bus})
	s.Require().NoError(err)

	s.statuses = statuses.NewManager(&statuses.ManagerConfig{Bus: s.bus, TargetExists: s.registry.Exists})
	s.Require().NoError(s.statuses.RegisterStatus(statuses.NewBuilder("BURNING").
		WithDuration(statuses.DurationTurns, 2).
		OnTick("DealDamage(1d4,Fire)").
		Build()))
	s.Require().NoError(s.statuses.RegisterStatus(statuses.NewBuilder("PETRIFIED").Permanent().Build()))
	s.Require().NoError(s.statuses.RegisterStatus(statuses.NewBuilder("HEX").
		WithDuration(statuses.DurationRounds, 10).
		WithTags("curse").
		Build()))

	s.executor, err = functors.NewExecutor(&functors.ExecutorConfig{
		Resolve:  s.registry.Get,
		Statuses: s.statuses,
		Engine:   engine,
		Concentration: breakerFunc(func(casterID, reason string) bool {
			s.broken = append(s.broken, casterID+":"+reason)
			return true
		}),
		Bus: s.bus,
		Log: s.log,
	})
	s.Require().NoError(err)
	s.statuses.SetEffectRunner(s.executor)
}

func (s *ExecutorTestSuite) run(text string, ctx *rules.EventContext) functors.Result {
	return s.executor.Execute(functors.ParseFunctors(text), ctx, "wizard", "goblin")
}

func (s *ExecutorTestSuite) TestDealDamage() {
	s.roller.SetRolls([]int{3, 5})

	result := s.run("DealDamage(2d6+1,Fire)", nil)

	s.Equal(functors.Result{Executed: 1}, result)
	s.Equal(21, s.goblin.CurrentHP())
	s.Require().Len(s.published, 1)
	s.Equal(events.DamageApplied, s.published[0].Type)
	amount, _ := s.published[0].GetInt(events.KeyAmount)
	s.Equal(9, amount)
}

func (s *ExecutorTestSuite) TestCriticalDoublesDice() {
	s.roller.SetRolls([]int{1, 2, 3, 4})

	s.run("DealDamage(2d6,Slashing)", &rules.EventContext{IsCritical: true, IsMelee: true})

	s.Equal(20, s.goblin.CurrentHP())
	s.Equal(0, s.roller.Remaining())
}

func (s *ExecutorTestSuite) TestResistanceHalves() {
	s.goblin.Resistances = []string{"fire"}
	s.roller.SetRolls([]int{5})

	s.run("DealDamage(1d6,Fire)", nil)
	s.Equal(28, s.goblin.CurrentHP())
}

func (s *ExecutorTestSuite) TestPetrifiedResistsEverything() {
	s.statuses.ApplyStatus("PETRIFIED", "medusa", "goblin")
	s.roller.SetRolls([]int{6, 5})

	s.run("DealDamage(2d6,Bludgeoning)", nil)
	s.Equal(25, s.goblin.CurrentHP())
}

func (s *ExecutorTestSuite) TestApplyStatusWithDuration() {
	result := s.run("ApplyStatus(BURNING,100,5)", nil)

	s.Equal(1, result.Executed)
	inst, ok := s.statuses.GetStatus("goblin", "BURNING")
	s.Require().True(ok)
	s.Equal(5, inst.RemainingDuration)
	s.Equal("wizard", inst.SourceID)
}

func (s *ExecutorTestSuite) TestApplyStatusIndefinite() {
	s.run("ApplyStatus(BURNING,100,-1)", nil)

	inst, ok := s.statuses.GetStatus("goblin", "BURNING")
	s.Require().True(ok)
	s.True(inst.Indefinite)
}

func (s *ExecutorTestSuite) TestApplyStatusChance() {
	s.roller.SetRolls([]int{80, 20})

	s.run("ApplyStatus(BURNING,50)", nil)
	s.False(s.statuses.HasStatus("goblin", "BURNING"))

	s.run("ApplyStatus(BURNING,50)", nil)
	s.True(s.statuses.HasStatus("goblin", "BURNING"))
}

func (s *ExecutorTestSuite) TestUnknownStatusIsSkipped() {
	result := s.run("ApplyStatus(NOPE);RemoveStatus(BURNING)", nil)

	s.Equal(functors.Result{Executed: 1, Skipped: 1}, result)
	s.Equal(1, s.log.Len())
}

func (s *ExecutorTestSuite) TestUnresolvedCombatantsSkipped() {
	s.roller.SetRolls([]int{4})

	result := s.executor.Execute(functors.ParseFunctors("DealDamage(1d6)"), nil, "wizard", "ghost")
	s.Equal(functors.Result{Skipped: 1}, result)

	result = s.executor.Execute(functors.ParseFunctors("DealDamage(1d6)"), nil, "ghost", "goblin")
	s.Equal(functors.Result{Skipped: 1}, result)

	result = s.executor.Execute(functors.ParseFunctors("DealDamage(1d6)"), nil, "", "goblin")
	s.Equal(functors.Result{Executed: 1}, result)
	s.True(dnderr.IsNotFound(s.log.Errors()[0]))
}

func (s *ExecutorTestSuite) TestMalformedFormulaSkipsOnlyThatInstruction() {
	s.roller.SetRolls([]int{4})

	result := s.run("DealDamage(lots,Fire);RegainHitPoints(1d8)", nil)

	s.Equal(functors.Result{Executed: 1, Skipped: 1}, result)
	s.True(dnderr.IsMalformed(s.log.Errors()[0]))
}

func (s *ExecutorTestSuite) TestHealAndRestore() {
	s.wizard.TakeDamage(10)
	s.wizard.SpendResource("spell_slots", 3)
	s.roller.SetRolls([]int{6})

	result := s.executor.Execute(functors.ParseFunctors("Heal(1d8+2);RestoreResource(spell_slots,2)"), nil, "wizard", "wizard")

	s.Equal(2, result.Executed)
	s.Equal(18, s.wizard.CurrentHP())
	slots, _ := s.wizard.Resource("spell_slots")
	s.Equal(2, slots.Current)

	s.Require().Len(s.published, 2)
	s.Equal(events.HealingApplied, s.published[0].Type)
	s.Equal(events.ResourceRestored, s.published[1].Type)
}

func (s *ExecutorTestSuite) TestBreakConcentration() {
	s.run("BreakConcentration()", nil)
	s.run("BreakConcentration(dispelled)", nil)

	s.Equal([]string{"goblin:broken by effect", "goblin:dispelled"}, s.broken)
}

func (s *ExecutorTestSuite) TestRemoveStatusesByTag() {
	s.statuses.ApplyStatus("HEX", "warlock", "goblin")
	s.statuses.ApplyStatus("BURNING", "wizard", "goblin")

	s.run("RemoveStatusesByTag(curse)", nil)

	s.Equal([]string{"BURNING"}, s.statuses.StatusIDs("goblin"))
}

func (s *ExecutorTestSuite) TestFireEvent() {
	result := s.run("FireEvent(SurfaceTriggered,surface=S1,radius=3)", nil)

	s.Equal(1, result.Executed)
	s.Require().Len(s.published, 1)
	evt := s.published[0]
	s.Equal(events.Custom, evt.Type)
	s.Equal("SurfaceTriggered", evt.Tag)
	surface, _ := evt.GetString("surface")
	s.Equal("S1", surface)
	radius, _ := evt.GetInt("radius")
	s.Equal(3, radius)

	result = s.run("FireEvent(Broken,novalue)", nil)
	s.Equal(1, result.Skipped)
}

func (s *ExecutorTestSuite) TestInstructionsRunInOrder() {
	s.roller.SetRolls([]int{2})

	s.run("ApplyStatus(BURNING);DealDamage(1d4,Fire);RemoveStatus(BURNING)", nil)

	var types []events.EventType
	for _, e := range s.published {
		types = append(types, e.Type)
	}
	s.Equal([]events.EventType{events.StatusApplied, events.DamageApplied, events.StatusRemoved}, types)
}

func (s *ExecutorTestSuite) TestStatusTickRunsThroughExecutor() {
	s.run("ApplyStatus(BURNING)", nil)
	s.roller.SetRolls([]int{3})

	s.statuses.ProcessTurnEnd("goblin")

	s.Equal(27, s.goblin.CurrentHP())
}

func TestExecutorSuite(t *testing.T) {
	suite.Run(t, new(ExecutorTestSuite))
}

func TestNewExecutor_RequiresCollaborators(t *testing.T) {
	if _, err := functors.NewExecutor(&functors.ExecutorConfig{}); err == nil {
		t.Fatal("expected error")
	}
}
