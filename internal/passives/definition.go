// Package passives turns passive ability data into rule providers and
// tracks which passives each combatant holds.
package passives

import (
	"strings"

	"github.com/KirkDiggler/combat-rules-engine/internal/rules"
)

// Definition is a passive ability as authored in data
type Definition struct {
	ID                string         `yaml:"id" json:"id"`
	Name              string         `yaml:"name" json:"name"`
	Boosts            map[string]int `yaml:"boosts" json:"boosts,omitempty"`
	TriggerContext    string         `yaml:"trigger_context" json:"trigger_context,omitempty"`
	Functors          string         `yaml:"functors" json:"functors,omitempty"`
	Conditions        string         `yaml:"conditions" json:"conditions,omitempty"`
	Priority          int            `yaml:"priority" json:"priority"`
	IsToggled         bool           `yaml:"toggled" json:"toggled"`
	ToggleGroup       string         `yaml:"toggle_group" json:"toggle_group,omitempty"`
	ToggleOnFunctors  string         `yaml:"toggle_on_functors" json:"toggle_on_functors,omitempty"`
	ToggleOffFunctors string         `yaml:"toggle_off_functors" json:"toggle_off_functors,omitempty"`
	ToggledDefaultOn  bool           `yaml:"toggled_default_on" json:"toggled_default_on"`
}

// Normalize fills defaults for data read from files
func (d *Definition) Normalize() {
	d.ID = strings.TrimSpace(d.ID)
	if d.Name == "" {
		d.Name = d.ID
	}
}

// binding is where one trigger context attaches
type binding struct {
	window rules.Window
	role   rules.Role
}

var contexts = map[string]binding{
	"onattack":         {rules.WindowAttackResolved, rules.RoleSource},
	"onattacked":       {rules.WindowAttackResolved, rules.RoleTarget},
	"ondamage":         {rules.WindowDamageApplied, rules.RoleSource},
	"ondamaged":        {rules.WindowDamageApplied, rules.RoleTarget},
	"onheal":           {rules.WindowHealingApplied, rules.RoleSource},
	"onhealed":         {rules.WindowHealingApplied, rules.RoleTarget},
	"oncast":           {rules.WindowSpellCast, rules.RoleSource},
	"onturnstart":      {rules.WindowTurnStarted, rules.RoleSource},
	"onturnend":        {rules.WindowTurnEnded, rules.RoleSource},
	"onstatusapplied":  {rules.WindowStatusApplied, rules.RoleTarget},
	"onstatusremoved":  {rules.WindowStatusRemoved, rules.RoleTarget},
	"onmove":           {rules.WindowMovementCompleted, rules.RoleSource},
	"onattackdeclared": {rules.WindowAttackDeclared, rules.RoleSource},
}

// TriggerContexts splits a "OnAttack;OnDamage" string into its recognized
// contexts, in order. Unknown contexts are dropped.
func TriggerContexts(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ";") {
		name := strings.TrimSpace(part)
		if _, ok := bindingFor(name); ok {
			out = append(out, name)
		}
	}
	return out
}

func bindingFor(context string) (binding, bool) {
	b, ok := contexts[strings.ToLower(strings.TrimSpace(context))]
	return b, ok
}
