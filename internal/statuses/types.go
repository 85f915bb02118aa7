package statuses

import (
	"slices"
	"strings"

	dnderr "github.com/KirkDiggler/combat-rules-engine/internal/errors"
)

// DurationType controls how an instance counts down
type DurationType string

const (
	DurationPermanent  DurationType = "permanent"
	DurationTurns      DurationType = "turns"
	DurationRounds     DurationType = "rounds"
	DurationUntilEvent DurationType = "until_event"
)

// Stacking defines what happens when a status is applied to a target that already has it
type Stacking string

const (
	StackingReplace Stacking = "replace" // Old instance removed, new one created
	StackingRefresh Stacking = "refresh" // Remaining duration reset
	StackingExtend  Stacking = "extend"  // Duration added to remaining
	StackingStack   Stacking = "stack"   // Stack count raised, duration reset
)

// TriggerPoint is a lifecycle point that runs trigger effects
type TriggerPoint string

const (
	OnApply  TriggerPoint = "on_apply"
	OnRemove TriggerPoint = "on_remove"
)

// Indefinite as a duration keeps an instance until something removes it
const Indefinite = -1

// TagConcentration marks statuses that are sustained by concentration
const TagConcentration = "concentration"

// Definition is an immutable status template
type Definition struct {
	ID              string                  `yaml:"id" json:"id"`
	Name            string                  `yaml:"name" json:"name"`
	DurationType    DurationType            `yaml:"duration_type" json:"duration_type"`
	DefaultDuration int                     `yaml:"duration" json:"duration"`
	MaxStacks       int                     `yaml:"max_stacks" json:"max_stacks"`
	Stacking        Stacking                `yaml:"stacking" json:"stacking"`
	IsBuff          bool                    `yaml:"buff" json:"buff"`
	TickEffects     []string                `yaml:"tick_effects" json:"tick_effects,omitempty"`
	Triggers        map[TriggerPoint]string `yaml:"triggers" json:"triggers,omitempty"`
	RemoveOnEvent   string                  `yaml:"remove_on_event" json:"remove_on_event,omitempty"`
	BlockedActions  []string                `yaml:"blocked_actions" json:"blocked_actions,omitempty"`
	Tags            []string                `yaml:"tags" json:"tags,omitempty"`
}

// Normalize fills defaults and lowercases enum fields read from data files
func (d *Definition) Normalize() {
	d.ID = strings.TrimSpace(d.ID)
	if d.Name == "" {
		d.Name = d.ID
	}
	d.DurationType = DurationType(strings.ToLower(string(d.DurationType)))
	if d.DurationType == "" {
		d.DurationType = DurationTurns
	}
	d.Stacking = Stacking(strings.ToLower(string(d.Stacking)))
	if d.Stacking == "" {
		d.Stacking = StackingRefresh
	}
	if d.MaxStacks < 1 {
		d.MaxStacks = 1
	}
}

// Validate checks a normalized definition
func (d *Definition) Validate() error {
	if d.ID == "" {
		return dnderr.InvalidArgumentf("status definition requires an id")
	}
	switch d.DurationType {
	case DurationPermanent, DurationTurns, DurationRounds:
	case DurationUntilEvent:
		if d.RemoveOnEvent == "" {
			return dnderr.InvalidArgumentf("status %s lasts until an event but names none", d.ID)
		}
	default:
		return dnderr.InvalidArgumentf("status %s has unknown duration type %q", d.ID, d.DurationType)
	}
	switch d.Stacking {
	case StackingReplace, StackingRefresh, StackingExtend, StackingStack:
	default:
		return dnderr.InvalidArgumentf("status %s has unknown stacking %q", d.ID, d.Stacking)
	}
	for point := range d.Triggers {
		if point != OnApply && point != OnRemove {
			return dnderr.InvalidArgumentf("status %s has unknown trigger point %q", d.ID, point)
		}
	}
	return nil
}

// HasTag reports whether the definition carries tag, ignoring case
func (d *Definition) HasTag(tag string) bool {
	return slices.ContainsFunc(d.Tags, func(t string) bool {
		return strings.EqualFold(t, tag)
	})
}

// Blocks reports whether the status blocks an action category
func (d *Definition) Blocks(action string) bool {
	return slices.ContainsFunc(d.BlockedActions, func(a string) bool {
		return strings.EqualFold(a, action)
	})
}

// Instance is a status active on one target
type Instance struct {
	ID                string
	Definition        *Definition
	SourceID          string
	TargetID          string
	RemainingDuration int
	Stacks            int
	Indefinite        bool
}

// StatusID returns the definition id
func (i *Instance) StatusID() string {
	return i.Definition.ID
}

func (i *Instance) clone() *Instance {
	c := *i
	return &c
}

// Predicate selects instances for bulk removal
type Predicate func(*Instance) bool

// IsBuff selects buffs
func IsBuff(i *Instance) bool { return i.Definition.IsBuff }

// IsDebuff selects debuffs
func IsDebuff(i *Instance) bool { return !i.Definition.IsBuff }

// WithTag selects instances whose definition carries tag
func WithTag(tag string) Predicate {
	return func(i *Instance) bool { return i.Definition.HasTag(tag) }
}

// FromSource selects instances applied by sourceID
func FromSource(sourceID string) Predicate {
	return func(i *Instance) bool { return i.SourceID == sourceID }
}
