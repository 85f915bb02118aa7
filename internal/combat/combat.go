// Package combat composes the rule engine's components into one combat
// instance and drives turns, attacks, movement and spells through them.
package combat

import (
	"sync"

	"github.com/KirkDiggler/combat-rules-engine/internal/combatants"
	"github.com/KirkDiggler/combat-rules-engine/internal/concentration"
	"github.com/KirkDiggler/combat-rules-engine/internal/dice"
	dnderr "github.com/KirkDiggler/combat-rules-engine/internal/errors"
	"github.com/KirkDiggler/combat-rules-engine/internal/events"
	"github.com/KirkDiggler/combat-rules-engine/internal/functors"
	"github.com/KirkDiggler/combat-rules-engine/internal/passives"
	"github.com/KirkDiggler/combat-rules-engine/internal/resolution"
	"github.com/KirkDiggler/combat-rules-engine/internal/rules"
	"github.com/KirkDiggler/combat-rules-engine/internal/statuses"
	"github.com/KirkDiggler/combat-rules-engine/internal/uuid"
	"go.uber.org/zap"
)

// Config holds the settings for one combat
type Config struct {
	// Roller overrides the seeded roller built from Seed
	Roller dice.Roller
	Seed   int64
	// IDs generates the combat id; defaults to random UUIDs
	IDs uuid.Generator

	Surfaces               concentration.SurfaceRemover
	SurfaceActions         []string
	ConcentrationSaveBonus int
	MaxRuleDepth           int

	Logger *zap.Logger
}

// Combat is one running combat instance. Every component it holds is
// owned by this instance alone.
type Combat struct {
	ID string

	Bus           *events.Bus
	Engine        *resolution.Engine
	Roster        *combatants.Registry
	Statuses      *statuses.Manager
	Executor      *functors.Executor
	Concentration *concentration.System
	Rules         *rules.Registry
	Passives      *passives.Manager

	mu      sync.Mutex
	round   int
	active  string
	history []*events.Event

	log    *dnderr.Log
	logger *zap.Logger
}

// New builds a combat and wires its components together
func New(cfg *Config) (*Combat, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	ids := cfg.IDs
	if ids == nil {
		ids = uuid.NewGoogleUUIDGenerator()
	}
	roller := cfg.Roller
	if roller == nil {
		roller = dice.NewSeededRoller(cfg.Seed)
	}

	c := &Combat{
		ID:     ids.New(),
		Bus:    events.NewBus(logger),
		Roster: combatants.NewRegistry(),
		round:  1,
		log:    dnderr.NewLog(),
	}
	c.logger = logger.Named("combat").With(zap.String("combat_id", c.ID))

	engine, err := resolution.NewEngine(&resolution.EngineConfig{Roller: roller, Bus: c.Bus, Logger: logger})
	if err != nil {
		return nil, dnderr.Wrap(err, "failed to create resolution engine")
	}
	c.Engine = engine

	c.Statuses = statuses.NewManager(&statuses.ManagerConfig{
		Bus:          c.Bus,
		TargetExists: c.Roster.Exists,
		Logger:       logger,
	})

	c.Executor, err = functors.NewExecutor(&functors.ExecutorConfig{
		Resolve:  c.Roster.Get,
		Statuses: c.Statuses,
		Engine:   c.Engine,
		Bus:      c.Bus,
		Log:      c.log,
		Logger:   logger,
	})
	if err != nil {
		return nil, dnderr.Wrap(err, "failed to create functor executor")
	}
	c.Statuses.SetEffectRunner(c.Executor)

	c.Concentration, err = concentration.NewSystem(&concentration.Config{
		Statuses:       c.Statuses,
		Engine:         c.Engine,
		Bus:            c.Bus,
		Surfaces:       cfg.Surfaces,
		SurfaceActions: cfg.SurfaceActions,
		SaveBonus:      cfg.ConcentrationSaveBonus,
		BonusFor:       c.concentrationBonus,
		Logger:         logger,
	})
	if err != nil {
		return nil, dnderr.Wrap(err, "failed to create concentration system")
	}
	c.Executor.SetConcentration(c.Concentration)

	c.Rules = rules.NewRegistry(&rules.RegistryConfig{MaxDepth: cfg.MaxRuleDepth, Logger: logger})

	c.Passives, err = passives.NewManager(&passives.ManagerConfig{
		Registry: c.Rules,
		Executor: c.Executor,
		Resolve:  c.Roster.Get,
		Env:      c,
		Logger:   logger,
	})
	if err != nil {
		return nil, dnderr.Wrap(err, "failed to create passive manager")
	}

	// history first so it sees every event in publish order
	c.Bus.SubscribeAll(c.record)
	c.Bus.SubscribeAll(c.expireOnEvent)
	c.Concentration.Attach(c.Bus)
	c.Rules.Attach(c.Bus)

	c.logger.Info("combat created", zap.Int64("seed", cfg.Seed))
	return c, nil
}

// Errors returns the data errors recorded by the executor and passive manager
func (c *Combat) Errors() []error {
	return append(c.log.Errors(), c.Passives.Errors()...)
}

// History returns every event published so far, dice rolls included
func (c *Combat) History() []*events.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*events.Event, len(c.history))
	copy(out, c.history)
	return out
}

func (c *Combat) record(e *events.Event) error {
	c.mu.Lock()
	c.history = append(c.history, e)
	c.mu.Unlock()
	return nil
}

// expireOnEvent ends UntilEvent statuses on the event's subject. Custom
// events also match on their tag.
func (c *Combat) expireOnEvent(e *events.Event) error {
	subject := e.Subject()
	if subject == "" {
		return nil
	}
	c.Statuses.ProcessEvent(subject, string(e.Type))
	if e.Type == events.Custom && e.Tag != "" {
		c.Statuses.ProcessEvent(subject, e.Tag)
	}
	return nil
}

func (c *Combat) concentrationBonus(casterID string) int {
	caster, ok := c.Roster.Get(casterID)
	if !ok {
		return 0
	}
	return caster.Stat(combatants.StatConcentrationMod)
}

// HasStatus lets passive conditions query statuses
func (c *Combat) HasStatus(combatantID, statusID string) bool {
	return c.Statuses.HasStatus(combatantID, statusID)
}

// HitPoints lets passive conditions query health
func (c *Combat) HitPoints(combatantID string) (int, int, bool) {
	target, ok := c.Roster.Get(combatantID)
	if !ok {
		return 0, 0, false
	}
	return target.CurrentHP(), target.MaxHP, true
}

// AddCombatant joins a combatant and grants its passives. Passive grant
// failures are recorded, not returned.
func (c *Combat) AddCombatant(combatant *combatants.Combatant, passiveIDs ...string) error {
	if err := c.Roster.Add(combatant); err != nil {
		return err
	}
	granted := c.Passives.GrantPassives(combatant.ID, passiveIDs...)

	c.logger.Info("combatant added",
		zap.String("combatant", combatant.ID),
		zap.Int("passives", granted))
	return nil
}

// AddProvider registers a hand-written rule provider
func (c *Combat) AddProvider(p rules.Provider) error {
	return c.Rules.Register(p)
}

// RemoveCombatant takes a combatant out of the fight: its concentration
// breaks, its passives and providers go, and its statuses are cleared
// without triggers
func (c *Combat) RemoveCombatant(combatantID string) bool {
	if !c.Roster.Exists(combatantID) {
		return false
	}

	c.Concentration.BreakConcentration(combatantID, concentration.ReasonCasterRemoved)
	c.Passives.RevokeAll(combatantID)
	c.Rules.UnregisterOwner(combatantID)
	c.Statuses.ClearCombatant(combatantID)
	c.Roster.Remove(combatantID)

	c.mu.Lock()
	if c.active == combatantID {
		c.active = ""
	}
	c.mu.Unlock()

	c.logger.Info("combatant removed", zap.String("combatant", combatantID))
	return true
}

func (c *Combat) publish(e *events.Event) {
	if err := c.Bus.Publish(e); err != nil {
		c.log.Record(err)
		c.logger.Warn("event handlers failed",
			zap.String("event_type", string(e.Type)),
			zap.Error(err))
	}
}
