// Package rulebook holds hand-written rule providers for features that
// are easier to express in code than as passive data.
package rulebook

import (
	"fmt"
	"sync"

	"github.com/KirkDiggler/combat-rules-engine/internal/events"
	"github.com/KirkDiggler/combat-rules-engine/internal/functors"
	"github.com/KirkDiggler/combat-rules-engine/internal/rules"
	"go.uber.org/zap"
)

// SneakAttackPriority runs sneak attack after most damage riders
const SneakAttackPriority = 90

// SneakAttackDice returns the number of d6s a rogue of level rolls: one per
// two levels, rounded up
func SneakAttackDice(level int) int {
	return max(1, (level+1)/2)
}

// SneakAttack adds extra damage once per turn to a hit made with a finesse
// or ranged weapon, when the attacker has advantage or an ally beside the
// target and no disadvantage
type SneakAttack struct {
	*rules.ManualProvider

	mu           sync.Mutex
	ownerID      string
	level        int
	usedThisTurn bool
	executor     *functors.Executor
	logger       *zap.Logger
}

// NewSneakAttack creates the provider for ownerID
func NewSneakAttack(ownerID string, level int, executor *functors.Executor, logger *zap.Logger) *SneakAttack {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &SneakAttack{
		ownerID:  ownerID,
		level:    level,
		executor: executor,
		logger:   logger.Named("rulebook"),
	}
	s.ManualProvider = &rules.ManualProvider{
		ID:          fmt.Sprintf("sneak_attack_%s", ownerID),
		Owner:       ownerID,
		Order:       SneakAttackPriority,
		On:          []rules.Window{rules.WindowTurnStarted, rules.WindowAttackResolved},
		EnabledFunc: s.eligible,
		Handler:     s.apply,
	}
	return s
}

// UsedThisTurn reports whether the extra damage has been dealt this turn
func (s *SneakAttack) UsedThisTurn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.usedThisTurn
}

func (s *SneakAttack) eligible(ctx *rules.EventContext) bool {
	if ctx.SourceID != s.ownerID {
		return false
	}
	if ctx.Window == rules.WindowTurnStarted {
		return true
	}

	if s.UsedThisTurn() || !ctx.Flag(events.KeyHit) {
		return false
	}
	if !ctx.IsRanged && !ctx.Flag(events.KeyFinesse) {
		return false
	}

	advantage := ctx.Flag(events.KeyAdvantage)
	disadvantage := ctx.Flag(events.KeyDisadvantage)
	if disadvantage {
		return false
	}
	return advantage || ctx.Flag(events.KeyAllyAdjacent)
}

func (s *SneakAttack) apply(ctx *rules.EventContext) error {
	if ctx.Window == rules.WindowTurnStarted {
		s.mu.Lock()
		s.usedThisTurn = false
		s.mu.Unlock()
		return nil
	}

	s.mu.Lock()
	s.usedThisTurn = true
	s.mu.Unlock()

	formula := fmt.Sprintf("%dd6", SneakAttackDice(s.level))
	instruction := functors.Functor{Type: functors.DealDamage, Params: []string{formula, ctx.DamageType}}
	result := s.executor.Execute([]functors.Functor{instruction}, ctx, s.ownerID, ctx.TargetID)
	if result.Skipped > 0 {
		return fmt.Errorf("sneak attack damage against %s was skipped", ctx.TargetID)
	}

	s.logger.Debug("sneak attack applied",
		zap.String("owner", s.ownerID),
		zap.String("target", ctx.TargetID),
		zap.String("dice", formula),
		zap.Bool("critical", ctx.IsCritical))
	return nil
}
