package combat

import (
	"github.com/KirkDiggler/combat-rules-engine/internal/events"
	"go.uber.org/zap"
)

// Round returns the current round number, starting at 1
func (c *Combat) Round() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.round
}

// ActiveCombatant returns whose turn it is, empty between turns
func (c *Combat) ActiveCombatant() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// StartTurn opens combatantID's turn
func (c *Combat) StartTurn(combatantID string) bool {
	if !c.Roster.Exists(combatantID) {
		return false
	}
	c.mu.Lock()
	c.active = combatantID
	c.mu.Unlock()

	c.logger.Debug("turn started", zap.String("combatant", combatantID), zap.Int("round", c.Round()))
	c.publish(events.NewEvent(events.TurnStarted).WithSource(combatantID))
	return true
}

// EndTurn ticks combatantID's turn-based statuses and closes the turn
func (c *Combat) EndTurn(combatantID string) bool {
	if !c.Roster.Exists(combatantID) {
		return false
	}

	c.Statuses.ProcessTurnEnd(combatantID)
	c.publish(events.NewEvent(events.TurnEnded).WithSource(combatantID))

	c.mu.Lock()
	if c.active == combatantID {
		c.active = ""
	}
	c.mu.Unlock()
	return true
}

// EndRound ticks round-based statuses and advances the round counter
func (c *Combat) EndRound() int {
	c.Statuses.ProcessRoundEnd()

	c.mu.Lock()
	finished := c.round
	c.round++
	c.mu.Unlock()

	c.publish(events.NewEvent(events.RoundEnded).With(events.KeyResult, finished))
	c.logger.Info("round ended", zap.Int("round", finished))
	return finished + 1
}

// RunRound gives every combatant a turn in join order, then ends the round.
// Combatants that fall during the round are skipped.
func (c *Combat) RunRound(act func(combatantID string)) int {
	for _, combatant := range c.Roster.All() {
		if !combatant.IsAlive() || !c.Roster.Exists(combatant.ID) {
			continue
		}
		c.StartTurn(combatant.ID)
		if act != nil {
			act(combatant.ID)
		}
		c.EndTurn(combatant.ID)
	}
	return c.EndRound()
}
