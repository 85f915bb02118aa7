package functors

import (
	"strconv"
	"strings"

	"github.com/KirkDiggler/combat-rules-engine/internal/combatants"
	"github.com/KirkDiggler/combat-rules-engine/internal/conditions"
	"github.com/KirkDiggler/combat-rules-engine/internal/dice"
	dnderr "github.com/KirkDiggler/combat-rules-engine/internal/errors"
	"github.com/KirkDiggler/combat-rules-engine/internal/events"
	"github.com/KirkDiggler/combat-rules-engine/internal/resolution"
	"github.com/KirkDiggler/combat-rules-engine/internal/rules"
	"github.com/KirkDiggler/combat-rules-engine/internal/statuses"
	"go.uber.org/zap"
)

// ConcentrationBreaker ends a caster's concentration
type ConcentrationBreaker interface {
	BreakConcentration(casterID, reason string) bool
}

// ExecutorConfig holds the executor's collaborators. Resolve, Statuses and
// Engine are required.
type ExecutorConfig struct {
	Resolve       combatants.ResolveFunc
	Statuses      *statuses.Manager
	Engine        *resolution.Engine
	Concentration ConcentrationBreaker
	Bus           *events.Bus
	Log           *dnderr.Log
	Logger        *zap.Logger
}

// Result counts what an Execute call did
type Result struct {
	Executed int
	Skipped  int
}

// call is one instruction bound to live combatants
type call struct {
	functor  Functor
	ctx      *rules.EventContext
	sourceID string
	target   *combatants.Combatant
}

type handler func(e *Executor, c *call) error

// Executor runs parsed instructions against combatants
type Executor struct {
	resolve       combatants.ResolveFunc
	statuses      *statuses.Manager
	engine        *resolution.Engine
	concentration ConcentrationBreaker
	bus           *events.Bus
	log           *dnderr.Log
	logger        *zap.Logger
	handlers      map[InstructionType]handler
}

// NewExecutor creates an executor
func NewExecutor(cfg *ExecutorConfig) (*Executor, error) {
	if cfg == nil || cfg.Resolve == nil || cfg.Statuses == nil || cfg.Engine == nil {
		return nil, dnderr.InvalidArgumentf("executor requires a resolver, status manager and engine")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Executor{
		resolve:       cfg.Resolve,
		statuses:      cfg.Statuses,
		engine:        cfg.Engine,
		concentration: cfg.Concentration,
		bus:           cfg.Bus,
		log:           cfg.Log,
		logger:        logger.Named("functors"),
		handlers: map[InstructionType]handler{
			DealDamage:          (*Executor).dealDamage,
			ApplyStatus:         (*Executor).applyStatus,
			RemoveStatus:        (*Executor).removeStatus,
			RegainHitPoints:     (*Executor).regainHitPoints,
			RestoreResource:     (*Executor).restoreResource,
			BreakConcentration:  (*Executor).breakConcentration,
			RemoveStatusesByTag: (*Executor).removeStatusesByTag,
			FireEvent:           (*Executor).fireEvent,
		},
	}, nil
}

// SetConcentration sets the breaker used by BreakConcentration
func (e *Executor) SetConcentration(breaker ConcentrationBreaker) {
	e.concentration = breaker
}

// Log returns the executor's error log
func (e *Executor) Log() *dnderr.Log {
	return e.log
}

// Execute runs functors in order. An instruction whose source or target
// cannot be resolved, or that fails, is skipped and the rest still run.
// An empty sourceID is allowed for effects with no originator.
func (e *Executor) Execute(functors []Functor, ctx *rules.EventContext, sourceID, targetID string) Result {
	var result Result
	for _, f := range functors {
		if err := e.executeOne(f, ctx, sourceID, targetID); err != nil {
			result.Skipped++
			e.log.Record(err)
			e.logger.Warn("functor skipped",
				zap.String("functor", f.String()),
				zap.String("source", sourceID),
				zap.String("target", targetID),
				zap.Error(err))
			continue
		}
		result.Executed++
	}
	return result
}

func (e *Executor) executeOne(f Functor, ctx *rules.EventContext, sourceID, targetID string) error {
	target, ok := e.resolve(targetID)
	if !ok {
		return dnderr.NotFoundf("target %q not found for %s", targetID, f.Type)
	}
	if sourceID != "" {
		if _, ok := e.resolve(sourceID); !ok {
			return dnderr.NotFoundf("source %q not found for %s", sourceID, f.Type)
		}
	}

	h, ok := e.handlers[f.Type]
	if !ok {
		return dnderr.NotFoundf("no handler for %s", f.Type)
	}
	return h(e, &call{functor: f, ctx: ctx, sourceID: sourceID, target: target})
}

// RunString parses and executes text in one step
func (e *Executor) RunString(text string, ctx *rules.EventContext, sourceID, targetID string) Result {
	return e.Execute(Parse(text, e.log), ctx, sourceID, targetID)
}

// RunEffects runs a status's tick or trigger effects. It satisfies statuses.EffectRunner.
func (e *Executor) RunEffects(text string, inst *statuses.Instance) error {
	result := e.RunString(text, nil, inst.SourceID, inst.TargetID)
	if result.Skipped > 0 {
		return dnderr.Newf(dnderr.CodeInternal, "%d of %d effects skipped for %s",
			result.Skipped, result.Skipped+result.Executed, inst.StatusID())
	}
	return nil
}

func (e *Executor) roll(formula string, critical bool) (int, error) {
	f, err := dice.ParseFormula(formula)
	if err != nil {
		return 0, dnderr.Malformedf("%v", err)
	}
	if critical {
		f = f.DoubleDice()
	}
	result, err := e.engine.RollDice(f)
	if err != nil {
		return 0, err
	}
	return max(0, result.Total), nil
}

func (e *Executor) publish(evt *events.Event) {
	if e.bus == nil {
		return
	}
	if err := e.bus.Publish(evt); err != nil {
		e.logger.Warn("event handlers failed", zap.String("event_type", string(evt.Type)), zap.Error(err))
	}
}

// dealDamage: DealDamage(formula[,damageType])
func (e *Executor) dealDamage(c *call) error {
	critical := c.ctx != nil && c.ctx.IsCritical
	amount, err := e.roll(c.functor.Params[0], critical)
	if err != nil {
		return err
	}

	damageType := c.functor.Param(1, "")
	if e.resists(c.target, damageType) {
		amount /= 2
	}
	taken := c.target.TakeDamage(amount)

	evt := events.NewEvent(events.DamageApplied).
		WithSource(c.sourceID).
		WithTarget(c.target.ID).
		With(events.KeyAmount, taken).
		With(events.KeyDamageType, damageType).
		With(events.KeyCritical, critical)
	if c.ctx != nil {
		evt.With(events.KeyIsMelee, c.ctx.IsMelee).
			With(events.KeyIsRanged, c.ctx.IsRanged).
			With(events.KeyIsSpell, c.ctx.IsSpell).
			With(events.KeyActionID, c.ctx.ActionID)
	}
	e.publish(evt)
	return nil
}

func (e *Executor) resists(target *combatants.Combatant, damageType string) bool {
	if damageType != "" && target.IsResistantTo(damageType) {
		return true
	}
	return conditions.GetAggregateEffects(e.statuses.StatusIDs(target.ID), false).ResistAllDamage
}

// applyStatus: ApplyStatus(statusID[,chance[,duration[,stacks]]])
func (e *Executor) applyStatus(c *call) error {
	chance, err := intParam(c.functor, 1, 100)
	if err != nil {
		return err
	}
	duration, hasDuration, err := optionalIntParam(c.functor, 2)
	if err != nil {
		return err
	}
	stacks, err := intParam(c.functor, 3, 1)
	if err != nil {
		return err
	}

	landed, err := e.engine.Chance(chance)
	if err != nil {
		return err
	}
	if !landed {
		e.logger.Debug("status chance failed",
			zap.String("status", c.functor.Params[0]),
			zap.Int("chance", chance))
		return nil
	}

	opts := []statuses.ApplyOption{statuses.WithStacks(stacks)}
	if hasDuration {
		opts = append(opts, statuses.WithDuration(duration))
	}
	if e.statuses.ApplyStatus(c.functor.Params[0], c.sourceID, c.target.ID, opts...) == nil {
		return dnderr.NotFoundf("status %q could not be applied to %s", c.functor.Params[0], c.target.ID)
	}
	return nil
}

// removeStatus: RemoveStatus(statusID)
func (e *Executor) removeStatus(c *call) error {
	e.statuses.RemoveStatus(c.target.ID, c.functor.Params[0])
	return nil
}

// regainHitPoints: RegainHitPoints(formula)
func (e *Executor) regainHitPoints(c *call) error {
	amount, err := e.roll(c.functor.Params[0], false)
	if err != nil {
		return err
	}
	healed := c.target.Heal(amount)

	e.publish(events.NewEvent(events.HealingApplied).
		WithSource(c.sourceID).
		WithTarget(c.target.ID).
		With(events.KeyAmount, healed))
	return nil
}

// restoreResource: RestoreResource(resource,formula)
func (e *Executor) restoreResource(c *call) error {
	amount, err := e.roll(c.functor.Params[1], false)
	if err != nil {
		return err
	}
	name := c.functor.Params[0]
	restored := c.target.RestoreResource(name, amount)

	e.publish(events.NewEvent(events.ResourceRestored).
		WithSource(c.sourceID).
		WithTarget(c.target.ID).
		With(events.KeyResource, name).
		With(events.KeyAmount, restored))
	return nil
}

// breakConcentration: BreakConcentration([reason])
func (e *Executor) breakConcentration(c *call) error {
	if e.concentration == nil {
		return nil
	}
	e.concentration.BreakConcentration(c.target.ID, c.functor.Param(0, "broken by effect"))
	return nil
}

// removeStatusesByTag: RemoveStatusesByTag(tag)
func (e *Executor) removeStatusesByTag(c *call) error {
	e.statuses.RemoveStatuses(c.target.ID, statuses.WithTag(c.functor.Params[0]))
	return nil
}

// fireEvent: FireEvent(tag[,key=value...])
func (e *Executor) fireEvent(c *call) error {
	evt := events.NewCustomEvent(c.functor.Params[0]).
		WithSource(c.sourceID).
		WithTarget(c.target.ID)

	for _, kv := range c.functor.Params[1:] {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return dnderr.Malformedf("FireEvent payload %q is not key=value", kv)
		}
		k, v = strings.TrimSpace(k), strings.TrimSpace(v)
		if n, err := strconv.Atoi(v); err == nil {
			evt.With(k, n)
			continue
		}
		evt.With(k, v)
	}

	e.publish(evt)
	return nil
}

func intParam(f Functor, i, fallback int) (int, error) {
	n, ok, err := optionalIntParam(f, i)
	if err != nil || !ok {
		return fallback, err
	}
	return n, nil
}

func optionalIntParam(f Functor, i int) (int, bool, error) {
	raw := f.Param(i, "")
	if raw == "" {
		return 0, false, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false, dnderr.Malformedf("%s parameter %d %q is not an integer", f.Type, i+1, raw)
	}
	return n, true, nil
}
