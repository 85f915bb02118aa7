package scenario

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/KirkDiggler/combat-rules-engine/internal/combat"
	"github.com/KirkDiggler/combat-rules-engine/internal/combatants"
	"github.com/KirkDiggler/combat-rules-engine/internal/definitions"
	dnderr "github.com/KirkDiggler/combat-rules-engine/internal/errors"
	"github.com/KirkDiggler/combat-rules-engine/internal/events"
	"github.com/KirkDiggler/combat-rules-engine/internal/rulebook"
	"github.com/KirkDiggler/combat-rules-engine/internal/statuses"
)

// RunnerConfig holds what every scenario run shares
type RunnerConfig struct {
	// Combat is the template for each combat; its Seed is replaced by a scenario seed
	Combat      combat.Config
	Definitions *definitions.Set
	Logger      *zap.Logger
}

// Runner plays scenarios
type Runner struct {
	cfg    combat.Config
	defs   *definitions.Set
	logger *zap.Logger
}

// Report is the outcome of a run
type Report struct {
	Combat *combat.Combat
	Rounds int
	// ActionErrors are actions that were rejected; the run carries on past them
	ActionErrors []error
}

// NewRunner creates a scenario runner
func NewRunner(cfg *RunnerConfig) *Runner {
	if cfg == nil {
		cfg = &RunnerConfig{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	defs := cfg.Definitions
	if defs == nil {
		defs = &definitions.Set{}
	}

	combatCfg := cfg.Combat
	if combatCfg.Logger == nil {
		combatCfg.Logger = logger
	}
	return &Runner{cfg: combatCfg, defs: defs, logger: logger.Named("scenario")}
}

// Setup builds the combat with definitions installed and combatants joined
func (r *Runner) Setup(sc *Scenario) (*combat.Combat, error) {
	cfg := r.cfg
	if sc.Seed != 0 {
		cfg.Seed = sc.Seed
	}
	c, err := combat.New(&cfg)
	if err != nil {
		return nil, err
	}

	if err := r.defs.Install(c.Statuses, c.Passives); err != nil {
		return nil, err
	}

	for _, spec := range sc.Combatants {
		cmb := combatants.New(spec.ID, spec.Name, spec.HP)
		if cmb.Name == "" {
			cmb.Name = spec.ID
		}
		cmb.Team = spec.Team
		for stat, value := range spec.Stats {
			cmb.Stats[stat] = value
		}
		cmb.Resistances = append(cmb.Resistances, spec.Resistances...)

		if err := c.AddCombatant(cmb, spec.Passives...); err != nil {
			return nil, err
		}
		if spec.SneakAttack > 0 {
			provider := rulebook.NewSneakAttack(spec.ID, spec.SneakAttack, c.Executor, r.logger)
			if err := c.AddProvider(provider); err != nil {
				return nil, err
			}
		}
	}
	return c, nil
}

// Run sets up the combat and plays every round
func (r *Runner) Run(sc *Scenario) (*Report, error) {
	if sc == nil {
		return nil, dnderr.InvalidArgumentf("scenario is required")
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}

	c, err := r.Setup(sc)
	if err != nil {
		return nil, err
	}

	report := &Report{Combat: c}
	for _, round := range sc.Rounds {
		if round == nil {
			continue
		}
		for _, turn := range round.Turns {
			actor, ok := c.Roster.Get(turn.Actor)
			if !ok || !actor.IsAlive() {
				r.logger.Debug("skipping turn", zap.String("actor", turn.Actor))
				continue
			}

			c.StartTurn(turn.Actor)
			for _, action := range turn.Actions {
				if err := r.perform(c, turn.Actor, action); err != nil {
					r.logger.Warn("action rejected",
						zap.String("actor", turn.Actor),
						zap.String("action", action.Kind()),
						zap.Error(err),
					)
					report.ActionErrors = append(report.ActionErrors, err)
				}
			}
			c.EndTurn(turn.Actor)
		}
		c.EndRound()
		report.Rounds++
	}

	r.logger.Info("scenario finished",
		zap.String("scenario", sc.Name),
		zap.Int("rounds", report.Rounds),
		zap.Int("rejected_actions", len(report.ActionErrors)),
	)
	return report, nil
}

func (r *Runner) perform(c *combat.Combat, actor string, a *Action) error {
	switch {
	case a.Attack != nil:
		_, err := c.ResolveAttack(&combat.AttackInput{
			AttackerID:   actor,
			TargetID:     a.Attack.Target,
			ActionID:     a.Attack.Action,
			Damage:       a.Attack.Damage,
			DamageType:   a.Attack.Type,
			Melee:        a.Attack.Melee,
			Ranged:       a.Attack.Ranged,
			Spell:        a.Attack.Spell,
			Finesse:      a.Attack.Finesse,
			AllyAdjacent: a.Attack.AllyAdjacent,
			Advantage:    a.Attack.Advantage,
			Disadvantage: a.Attack.Disadvantage,
		})
		return err

	case a.Cast != nil:
		_, err := c.CastSpell(&combat.SpellInput{
			CasterID:      actor,
			TargetID:      a.Cast.Target,
			ActionID:      a.Cast.Action,
			StatusID:      a.Cast.Status,
			Duration:      a.Cast.Duration,
			Concentration: a.Cast.Concentration,
			SurfaceID:     a.Cast.Surface,
		})
		return err

	case a.Move != 0:
		moved, err := c.Move(actor, a.Move)
		if err != nil {
			return err
		}
		if !moved {
			return dnderr.InvalidArgumentf("%s cannot move", actor)
		}
		return nil

	case a.Apply != nil:
		var opts []statuses.ApplyOption
		if a.Apply.Duration != 0 {
			opts = append(opts, statuses.WithDuration(a.Apply.Duration))
		}
		if c.Statuses.ApplyStatus(a.Apply.Status, actor, targetOr(a.Apply.Target, actor), opts...) == nil {
			return dnderr.InvalidArgumentf("%s could not apply %s", actor, a.Apply.Status)
		}
		return nil

	case a.Remove != nil:
		if !c.Statuses.RemoveStatus(targetOr(a.Remove.Target, actor), a.Remove.Status) {
			return dnderr.NotFoundf("%s has no %s to remove", targetOr(a.Remove.Target, actor), a.Remove.Status)
		}
		return nil

	case a.Toggle != nil:
		if !c.Passives.SetToggleState(actor, a.Toggle.Passive, a.Toggle.On) {
			return dnderr.InvalidArgumentf("%s could not toggle %s", actor, a.Toggle.Passive)
		}
		return nil

	case a.Damage != nil:
		_, err := c.ApplyDamage(actor, a.Damage.Target, a.Damage.Amount, a.Damage.Type)
		return err

	case a.Functors != nil:
		c.Executor.RunString(a.Functors.Text, nil, actor, targetOr(a.Functors.Target, actor))
		return nil

	case a.Leave:
		if !c.RemoveCombatant(actor) {
			return dnderr.NotFoundf("%s is not in the combat", actor)
		}
		return nil
	}
	return dnderr.Malformedf("%s has an empty action", actor)
}

func targetOr(target, fallback string) string {
	if target == "" {
		return fallback
	}
	return target
}

// FormatEvent renders an event on one line with its data keys sorted
func FormatEvent(e *events.Event) string {
	var b strings.Builder
	b.WriteString(string(e.Type))
	if e.Tag != "" {
		b.WriteString("[" + e.Tag + "]")
	}
	if e.SourceID != "" || e.TargetID != "" {
		fmt.Fprintf(&b, " %s -> %s", dash(e.SourceID), dash(e.TargetID))
	}

	keys := make([]string, 0, len(e.Data))
	for k := range e.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, e.Data[k])
	}
	return b.String()
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
