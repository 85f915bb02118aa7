// Package resolution owns the combat's dice source and announces every roll.
package resolution

import (
	"github.com/KirkDiggler/combat-rules-engine/internal/dice"
	dnderr "github.com/KirkDiggler/combat-rules-engine/internal/errors"
	"github.com/KirkDiggler/combat-rules-engine/internal/events"
	"go.uber.org/zap"
)

// Mode selects how a d20 is rolled
type Mode int

const (
	Normal Mode = iota
	Advantage
	Disadvantage
)

// ResolveMode cancels advantage against disadvantage
func ResolveMode(advantage, disadvantage bool) Mode {
	switch {
	case advantage && !disadvantage:
		return Advantage
	case disadvantage && !advantage:
		return Disadvantage
	}
	return Normal
}

func (m Mode) String() string {
	switch m {
	case Advantage:
		return "advantage"
	case Disadvantage:
		return "disadvantage"
	}
	return "normal"
}

// EngineConfig holds the engine's collaborators
type EngineConfig struct {
	Roller dice.Roller
	Bus    *events.Bus
	Logger *zap.Logger
}

// Engine resolves dice for one combat instance
type Engine struct {
	roller dice.Roller
	bus    *events.Bus
	logger *zap.Logger
}

// NewEngine creates an engine. Roller is required; Bus and Logger are optional.
func NewEngine(cfg *EngineConfig) (*Engine, error) {
	if cfg == nil || cfg.Roller == nil {
		return nil, dnderr.InvalidArgumentf("resolution engine requires a roller")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Engine{
		roller: cfg.Roller,
		bus:    cfg.Bus,
		logger: logger.Named("resolution"),
	}, nil
}

// RollFormula parses and rolls formula, returning the summed total.
// A malformed formula yields 0 and an error.
func (e *Engine) RollFormula(formula string) (int, error) {
	f, err := dice.ParseFormula(formula)
	if err != nil {
		return 0, dnderr.Wrap(dnderr.Malformedf("%v", err), "roll formula")
	}

	result, err := e.RollDice(f)
	if err != nil {
		return 0, err
	}
	return result.Total, nil
}

// RollDice rolls a parsed formula
func (e *Engine) RollDice(f dice.Formula) (*dice.RollResult, error) {
	result, err := f.Roll(e.roller)
	if err != nil {
		return nil, dnderr.Wrapf(err, "roll %s", f)
	}
	e.announce(f.String(), result)
	return result, nil
}

// RollD20 rolls one d20 plus bonus
func (e *Engine) RollD20(bonus int) (*dice.RollResult, error) {
	return e.RollD20WithMode(bonus, Normal)
}

// RollD20WithMode rolls a d20 in the given mode
func (e *Engine) RollD20WithMode(bonus int, mode Mode) (*dice.RollResult, error) {
	switch mode {
	case Advantage:
		return e.RollAdvantage(20, bonus)
	case Disadvantage:
		return e.RollDisadvantage(20, bonus)
	}
	return e.RollDice(dice.Formula{Count: 1, Sides: 20, Modifier: bonus})
}

// RollAdvantage rolls two dice and keeps the higher
func (e *Engine) RollAdvantage(sides, bonus int) (*dice.RollResult, error) {
	result, err := e.roller.RollWithAdvantage(sides, bonus)
	if err != nil {
		return nil, dnderr.Wrapf(err, "roll d%d with advantage", sides)
	}
	e.announce(Advantage.String(), result)
	return result, nil
}

// RollDisadvantage rolls two dice and keeps the lower
func (e *Engine) RollDisadvantage(sides, bonus int) (*dice.RollResult, error) {
	result, err := e.roller.RollWithDisadvantage(sides, bonus)
	if err != nil {
		return nil, dnderr.Wrapf(err, "roll d%d with disadvantage", sides)
	}
	e.announce(Disadvantage.String(), result)
	return result, nil
}

// RollPercentile rolls a d100
func (e *Engine) RollPercentile() (int, error) {
	result, err := e.RollDice(dice.Formula{Count: 1, Sides: 100})
	if err != nil {
		return 0, err
	}
	return result.Total, nil
}

// Chance succeeds with the given percent probability. 100 or more always
// succeeds and 0 or less always fails, neither consuming a roll.
func (e *Engine) Chance(percent int) (bool, error) {
	if percent >= 100 {
		return true, nil
	}
	if percent <= 0 {
		return false, nil
	}
	roll, err := e.RollPercentile()
	if err != nil {
		return false, err
	}
	return roll <= percent, nil
}

func (e *Engine) announce(formula string, result *dice.RollResult) {
	e.logger.Debug("rolled",
		zap.String("formula", formula),
		zap.Ints("rolls", result.Rolls),
		zap.Int("total", result.Total))

	if e.bus == nil {
		return
	}
	evt := events.NewEvent(events.DiceRolled).
		With(events.KeyFormula, formula).
		With(events.KeyResult, result.Total).
		With(events.KeyCritical, result.IsCrit)
	if err := e.bus.Publish(evt); err != nil {
		e.logger.Warn("dice event handlers failed", zap.Error(err))
	}
}
