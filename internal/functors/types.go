// Package functors parses and executes the effect instruction language:
// Name(param,param);Name(param). Instructions run in order with no
// branching; parameters stay strings until execution.
package functors

import "strings"

// InstructionType is the closed set of supported instructions
type InstructionType string

const (
	DealDamage          InstructionType = "DealDamage"
	ApplyStatus         InstructionType = "ApplyStatus"
	RemoveStatus        InstructionType = "RemoveStatus"
	RegainHitPoints     InstructionType = "RegainHitPoints"
	RestoreResource     InstructionType = "RestoreResource"
	BreakConcentration  InstructionType = "BreakConcentration"
	RemoveStatusesByTag InstructionType = "RemoveStatusesByTag"
	FireEvent           InstructionType = "FireEvent"
)

// minParams is the parameter count each instruction needs
var minParams = map[InstructionType]int{
	DealDamage:          1,
	ApplyStatus:         1,
	RemoveStatus:        1,
	RegainHitPoints:     1,
	RestoreResource:     2,
	BreakConcentration:  0,
	RemoveStatusesByTag: 1,
	FireEvent:           1,
}

// names maps lowercased source names, including aliases, to instruction types
var names = map[string]InstructionType{
	"dealdamage":          DealDamage,
	"damage":              DealDamage,
	"applystatus":         ApplyStatus,
	"removestatus":        RemoveStatus,
	"regainhitpoints":     RegainHitPoints,
	"heal":                RegainHitPoints,
	"restoreresource":     RestoreResource,
	"breakconcentration":  BreakConcentration,
	"removestatusesbytag": RemoveStatusesByTag,
	"fireevent":           FireEvent,
}

// Lookup resolves a functor name, ignoring case
func Lookup(name string) (InstructionType, bool) {
	t, ok := names[strings.ToLower(strings.TrimSpace(name))]
	return t, ok
}

// Functor is one parsed instruction
type Functor struct {
	Type   InstructionType
	Params []string
}

// Param returns the i-th parameter or fallback when absent or blank
func (f Functor) Param(i int, fallback string) string {
	if i >= len(f.Params) || f.Params[i] == "" {
		return fallback
	}
	return f.Params[i]
}

func (f Functor) String() string {
	return string(f.Type) + "(" + strings.Join(f.Params, ",") + ")"
}
