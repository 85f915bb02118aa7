package passives

import (
	"fmt"

	dnderr "github.com/KirkDiggler/combat-rules-engine/internal/errors"
	"github.com/KirkDiggler/combat-rules-engine/internal/functors"
	"github.com/KirkDiggler/combat-rules-engine/internal/rules"
	"go.uber.org/zap"
)

// FunctorProvider fires a passive's functors at one window
type FunctorProvider struct {
	id        string
	ownerID   string
	passiveID string
	priority  int
	window    rules.Window
	role      rules.Role
	functors  []functors.Functor
	condition *Condition
	active    func() bool
	executor  *functors.Executor
	log       *dnderr.Log
	logger    *zap.Logger
}

func (p *FunctorProvider) ProviderID() string           { return p.id }
func (p *FunctorProvider) OwnerID() string              { return p.ownerID }
func (p *FunctorProvider) Priority() int                { return p.priority }
func (p *FunctorProvider) Windows() []rules.Window      { return []rules.Window{p.window} }
func (p *FunctorProvider) Role() rules.Role             { return p.role }
func (p *FunctorProvider) PassiveID() string            { return p.passiveID }
func (p *FunctorProvider) Functors() []functors.Functor { return p.functors }

// IsEnabled requires the owner in the bound role, the passive switched on,
// and the condition expression, if any, to hold
func (p *FunctorProvider) IsEnabled(ctx *rules.EventContext) bool {
	role, ok := ctx.RoleOf(p.ownerID)
	if !ok || role != p.role {
		return false
	}
	if p.active != nil && !p.active() {
		return false
	}
	if p.condition == nil {
		return true
	}

	pass, err := p.condition.Eval(ctx, p.ownerID, p.role)
	if err != nil {
		p.log.Record(err)
		p.logger.Warn("passive condition failed",
			zap.String("passive", p.passiveID),
			zap.String("owner", p.ownerID),
			zap.Error(err))
		return false
	}
	return pass
}

// OnWindow executes the functors with the owner as source and the other
// party, or the owner when there is none, as target
func (p *FunctorProvider) OnWindow(ctx *rules.EventContext) error {
	target := ctx.Other(p.role)
	if target == "" {
		target = p.ownerID
	}
	result := p.executor.Execute(p.functors, ctx, p.ownerID, target)
	if result.Skipped > 0 {
		return fmt.Errorf("passive %s skipped %d of %d functors", p.passiveID, result.Skipped, len(p.functors))
	}
	return nil
}

func (p *FunctorProvider) close() {
	if p.condition != nil {
		p.condition.Close()
	}
}

// ProviderFactory builds providers from passive definitions
type ProviderFactory struct {
	executor *functors.Executor
	env      Environment
	log      *dnderr.Log
	logger   *zap.Logger
}

// NewProviderFactory creates a factory
func NewProviderFactory(executor *functors.Executor, env Environment, log *dnderr.Log, logger *zap.Logger) *ProviderFactory {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProviderFactory{executor: executor, env: env, log: log, logger: logger}
}

// Build returns one provider per recognized trigger context. A passive with
// no recognized context, or no functors, yields none. active gates toggled passives.
func (f *ProviderFactory) Build(def *Definition, ownerID string, active func() bool) ([]*FunctorProvider, error) {
	contexts := TriggerContexts(def.TriggerContext)
	if len(contexts) == 0 {
		return nil, nil
	}
	parsed := functors.Parse(def.Functors, f.log)
	if len(parsed) == 0 {
		return nil, nil
	}

	var out []*FunctorProvider
	for _, context := range contexts {
		b, _ := bindingFor(context)

		var cond *Condition
		if def.Conditions != "" {
			c, err := CompileCondition(def.Conditions, f.env)
			if err != nil {
				for _, p := range out {
					p.close()
				}
				return nil, dnderr.Wrapf(err, "passive %s", def.ID)
			}
			cond = c
		}

		out = append(out, &FunctorProvider{
			id:        fmt.Sprintf("%s:%s:%s", ownerID, def.ID, context),
			ownerID:   ownerID,
			passiveID: def.ID,
			priority:  def.Priority,
			window:    b.window,
			role:      b.role,
			functors:  parsed,
			condition: cond,
			active:    active,
			executor:  f.executor,
			log:       f.log,
			logger:    f.logger,
		})
	}
	return out, nil
}
