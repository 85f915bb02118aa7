// Package scenario describes scripted combats in YAML and plays them
// through a combat instance.
package scenario

import (
	"os"

	"gopkg.in/yaml.v3"

	dnderr "github.com/KirkDiggler/combat-rules-engine/internal/errors"
)

// Scenario is a scripted combat
type Scenario struct {
	Name string `yaml:"name"`
	// Seed overrides the configured dice seed when non-zero
	Seed       int64            `yaml:"seed"`
	Combatants []*CombatantSpec `yaml:"combatants"`
	Rounds     []*Round         `yaml:"rounds"`
}

// CombatantSpec is a combatant joining the scenario
type CombatantSpec struct {
	ID          string         `yaml:"id"`
	Name        string         `yaml:"name"`
	Team        string         `yaml:"team"`
	HP          int            `yaml:"hp"`
	Stats       map[string]int `yaml:"stats"`
	Resistances []string       `yaml:"resistances"`
	Passives    []string       `yaml:"passives"`
	// SneakAttack grants the sneak attack provider at this rogue level
	SneakAttack int `yaml:"sneak_attack"`
}

// Round lists the turns taken in one round, in order
type Round struct {
	Turns []*Turn `yaml:"turns"`
}

// Turn is one combatant's actions
type Turn struct {
	Actor   string    `yaml:"actor"`
	Actions []*Action `yaml:"actions"`
}

// Action is one thing done during a turn. Exactly one field is set.
type Action struct {
	Attack   *AttackAction `yaml:"attack"`
	Cast     *CastAction   `yaml:"cast"`
	Move     int           `yaml:"move"`
	Apply    *StatusAction `yaml:"apply"`
	Remove   *StatusAction `yaml:"remove"`
	Toggle   *ToggleAction `yaml:"toggle"`
	Damage   *DamageAction `yaml:"damage"`
	Functors *FunctorRun   `yaml:"functors"`
	Leave    bool          `yaml:"leave"`
}

// AttackAction is a weapon or spell attack
type AttackAction struct {
	Target       string `yaml:"target"`
	Action       string `yaml:"action"`
	Damage       string `yaml:"damage"`
	Type         string `yaml:"type"`
	Melee        bool   `yaml:"melee"`
	Ranged       bool   `yaml:"ranged"`
	Spell        bool   `yaml:"spell"`
	Finesse      bool   `yaml:"finesse"`
	AllyAdjacent bool   `yaml:"ally_adjacent"`
	Advantage    bool   `yaml:"advantage"`
	Disadvantage bool   `yaml:"disadvantage"`
}

// CastAction casts a status-applying spell
type CastAction struct {
	Target        string `yaml:"target"`
	Action        string `yaml:"action"`
	Status        string `yaml:"status"`
	Duration      int    `yaml:"duration"`
	Concentration bool   `yaml:"concentration"`
	Surface       string `yaml:"surface"`
}

// StatusAction applies or removes a status directly
type StatusAction struct {
	Status   string `yaml:"status"`
	Target   string `yaml:"target"`
	Duration int    `yaml:"duration"`
}

// ToggleAction switches one of the actor's toggled passives
type ToggleAction struct {
	Passive string `yaml:"passive"`
	On      bool   `yaml:"on"`
}

// DamageAction deals flat damage from the actor
type DamageAction struct {
	Target string `yaml:"target"`
	Amount int    `yaml:"amount"`
	Type   string `yaml:"type"`
}

// FunctorRun executes a functor string with the actor as source
type FunctorRun struct {
	Target string `yaml:"target"`
	Text   string `yaml:"text"`
}

// Kind names the action for logs and errors
func (a *Action) Kind() string {
	switch {
	case a.Attack != nil:
		return "attack"
	case a.Cast != nil:
		return "cast"
	case a.Move != 0:
		return "move"
	case a.Apply != nil:
		return "apply"
	case a.Remove != nil:
		return "remove"
	case a.Toggle != nil:
		return "toggle"
	case a.Damage != nil:
		return "damage"
	case a.Functors != nil:
		return "functors"
	case a.Leave:
		return "leave"
	}
	return ""
}

// Parse decodes a scenario document
func Parse(data []byte) (*Scenario, error) {
	sc := &Scenario{}
	if err := yaml.Unmarshal(data, sc); err != nil {
		return nil, dnderr.Malformedf("invalid scenario: %v", err)
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return sc, nil
}

// LoadFile reads and parses a scenario file
func LoadFile(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, dnderr.Wrapf(err, "failed to read scenario %s", path)
	}
	return Parse(data)
}

// Validate checks references inside the scenario
func (s *Scenario) Validate() error {
	ids := make(map[string]bool, len(s.Combatants))
	for i, c := range s.Combatants {
		if c == nil || c.ID == "" {
			return dnderr.Malformedf("combatant %d has no id", i)
		}
		if ids[c.ID] {
			return dnderr.Malformedf("combatant %s listed twice", c.ID)
		}
		if c.HP <= 0 {
			return dnderr.Malformedf("combatant %s needs positive hp", c.ID)
		}
		ids[c.ID] = true
	}

	for r, round := range s.Rounds {
		if round == nil {
			continue
		}
		for _, turn := range round.Turns {
			if turn == nil || !ids[turn.Actor] {
				return dnderr.Malformedf("round %d has a turn for an unknown combatant", r+1)
			}
			for _, action := range turn.Actions {
				if action == nil || action.Kind() == "" {
					return dnderr.Malformedf("round %d: %s has an empty action", r+1, turn.Actor)
				}
			}
		}
	}
	return nil
}
