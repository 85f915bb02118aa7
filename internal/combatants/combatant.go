package combatants

import (
	"strings"
	"sync"
)

// Common stat keys
const (
	StatAttackBonus      = "attack_bonus"
	StatDamageBonus      = "damage_bonus"
	StatArmorClass       = "armor_class"
	StatSpeed            = "speed"
	StatConcentrationMod = "concentration_bonus"
	StatLevel            = "level"
)

// Resource is a spendable pool such as spell slots or ki
type Resource struct {
	Current int `yaml:"current" json:"current"`
	Max     int `yaml:"max" json:"max"`
}

// Combatant is a live participant in a combat
type Combatant struct {
	mu sync.Mutex

	ID          string
	Name        string
	Team        string
	HP          int
	MaxHP       int
	Stats       map[string]int
	Boosts      map[string]int
	Resistances []string
	Resources   map[string]*Resource
}

// New creates a combatant at full health
func New(id, name string, maxHP int) *Combatant {
	return &Combatant{
		ID:        id,
		Name:      name,
		HP:        maxHP,
		MaxHP:     maxHP,
		Stats:     make(map[string]int),
		Boosts:    make(map[string]int),
		Resources: make(map[string]*Resource),
	}
}

// IsAlive reports whether the combatant has hit points left
func (c *Combatant) IsAlive() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.HP > 0
}

// TakeDamage reduces HP, never below zero, and returns the damage actually taken
func (c *Combatant) TakeDamage(amount int) int {
	if amount <= 0 {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	taken := min(amount, c.HP)
	c.HP -= taken
	return taken
}

// Heal raises HP up to MaxHP and returns the amount healed
func (c *Combatant) Heal(amount int) int {
	if amount <= 0 {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	healed := min(amount, c.MaxHP-c.HP)
	if healed < 0 {
		healed = 0
	}
	c.HP += healed
	return healed
}

// CurrentHP returns the current hit points
func (c *Combatant) CurrentHP() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.HP
}

// Stat returns the base value of a stat plus any boosts
func (c *Combatant) Stat(name string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Stats[name] + c.Boosts[name]
}

// ApplyBoost adds delta to a stat boost. Negative deltas remove a boost.
func (c *Combatant) ApplyBoost(stat string, delta int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.Boosts == nil {
		c.Boosts = make(map[string]int)
	}
	c.Boosts[stat] += delta
	if c.Boosts[stat] == 0 {
		delete(c.Boosts, stat)
	}
}

// IsResistantTo reports whether the combatant resists damageType
func (c *Combatant) IsResistantTo(damageType string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, r := range c.Resistances {
		if strings.EqualFold(r, damageType) {
			return true
		}
	}
	return false
}

// SetResource sets a resource pool to full
func (c *Combatant) SetResource(name string, maxValue int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.Resources == nil {
		c.Resources = make(map[string]*Resource)
	}
	c.Resources[name] = &Resource{Current: maxValue, Max: maxValue}
}

// Resource returns a copy of the named pool
func (c *Combatant) Resource(name string) (Resource, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	r, ok := c.Resources[name]
	if !ok {
		return Resource{}, false
	}
	return *r, true
}

// SpendResource removes amount from a pool if enough is available
func (c *Combatant) SpendResource(name string, amount int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	r, ok := c.Resources[name]
	if !ok || r.Current < amount {
		return false
	}
	r.Current -= amount
	return true
}

// RestoreResource refills a pool by amount, capped at its maximum, and
// returns the amount restored. Unknown pools restore nothing.
func (c *Combatant) RestoreResource(name string, amount int) int {
	if amount <= 0 {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	r, ok := c.Resources[name]
	if !ok {
		return 0
	}
	restored := min(amount, r.Max-r.Current)
	if restored < 0 {
		restored = 0
	}
	r.Current += restored
	return restored
}
