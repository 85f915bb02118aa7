// Package conditions maps raw status identifiers onto the standard
// condition kinds and answers what each one means mechanically.
// Every function is pure; identifiers that are not conditions are ignored.
package conditions

import "strings"

// Kind is a standardized condition
type Kind string

const (
	Blinded       Kind = "blinded"
	Charmed       Kind = "charmed"
	Deafened      Kind = "deafened"
	Frightened    Kind = "frightened"
	Grappled      Kind = "grappled"
	Incapacitated Kind = "incapacitated"
	Invisible     Kind = "invisible"
	Paralyzed     Kind = "paralyzed"
	Petrified     Kind = "petrified"
	Poisoned      Kind = "poisoned"
	Prone         Kind = "prone"
	Restrained    Kind = "restrained"
	Stunned       Kind = "stunned"
	Unconscious   Kind = "unconscious"
)

// Abilities used for saving throws
const (
	STR = "STR"
	DEX = "DEX"
	CON = "CON"
	INT = "INT"
	WIS = "WIS"
	CHA = "CHA"
)

// Mechanics is the fixed rules bundle of one condition kind
type Mechanics struct {
	// AttackersHaveAdvantage grants advantage to anyone attacking the bearer
	AttackersHaveAdvantage bool
	// AttackersHaveDisadvantage imposes disadvantage on anyone attacking the bearer
	AttackersHaveDisadvantage bool
	OwnAttackAdvantage        bool
	OwnAttackDisadvantage     bool
	// ProneDirectional flips attacker advantage on melee range: melee gets
	// advantage, ranged gets disadvantage.
	ProneDirectional    bool
	AutoFailSaves       []string
	DexSaveDisadvantage bool
	MeleeAutoCrit       bool
	Incapacitated       bool
	PreventsMovement    bool
	ResistAllDamage     bool
}

var mechanicsTable = map[Kind]Mechanics{
	Blinded: {
		AttackersHaveAdvantage: true,
		OwnAttackDisadvantage:  true,
	},
	Charmed:  {},
	Deafened: {},
	Frightened: {
		OwnAttackDisadvantage: true,
	},
	Grappled: {
		PreventsMovement: true,
	},
	Incapacitated: {
		Incapacitated: true,
	},
	Invisible: {
		AttackersHaveDisadvantage: true,
		OwnAttackAdvantage:        true,
	},
	Paralyzed: {
		AttackersHaveAdvantage: true,
		AutoFailSaves:          []string{STR, DEX},
		MeleeAutoCrit:          true,
		Incapacitated:          true,
		PreventsMovement:       true,
	},
	Petrified: {
		AttackersHaveAdvantage: true,
		AutoFailSaves:          []string{STR, DEX},
		Incapacitated:          true,
		PreventsMovement:       true,
		ResistAllDamage:        true,
	},
	Poisoned: {
		OwnAttackDisadvantage: true,
	},
	Prone: {
		ProneDirectional:      true,
		OwnAttackDisadvantage: true,
	},
	Restrained: {
		AttackersHaveAdvantage: true,
		OwnAttackDisadvantage:  true,
		DexSaveDisadvantage:    true,
		PreventsMovement:       true,
	},
	Stunned: {
		AttackersHaveAdvantage: true,
		AutoFailSaves:          []string{STR, DEX},
		Incapacitated:          true,
		PreventsMovement:       true,
	},
	Unconscious: {
		AttackersHaveAdvantage: true,
		AutoFailSaves:          []string{STR, DEX},
		MeleeAutoCrit:          true,
		Incapacitated:          true,
		PreventsMovement:       true,
	},
}

// aliases maps normalized raw status ids to their condition kind
var aliases = map[string]Kind{
	"blinded": Blinded, "blind": Blinded, "blindness": Blinded, "blinded_by_light": Blinded,

	"charmed": Charmed, "charm_person": Charmed, "charm_monster": Charmed,

	"deafened": Deafened, "deaf": Deafened, "deafness": Deafened,

	"frightened": Frightened, "feared": Frightened, "scared": Frightened,
	"terrified": Frightened, "cause_fear": Frightened,

	"grappled": Grappled, "grabbed": Grappled, "seized": Grappled,

	"incapacitated": Incapacitated, "hypnotized": Incapacitated, "dazed": Incapacitated,

	"invisible": Invisible, "invisibility": Invisible, "greater_invisibility": Invisible,

	"paralyzed": Paralyzed, "paralysed": Paralyzed, "hold_person": Paralyzed,
	"hold_monster": Paralyzed, "ghoul_paralysis": Paralyzed,

	"petrified": Petrified, "stoned": Petrified, "turned_to_stone": Petrified,

	"poisoned": Poisoned, "poison": Poisoned,

	"prone": Prone, "knocked_down": Prone, "knocked_prone": Prone, "tripped": Prone,

	"restrained": Restrained, "webbed": Restrained, "ensnared": Restrained,
	"entangled": Restrained, "netted": Restrained,

	"stunned": Stunned, "stun": Stunned, "stunning_strike": Stunned,

	"unconscious": Unconscious, "asleep": Unconscious, "sleeping": Unconscious,
	"downed": Unconscious, "knocked_out": Unconscious,
}

func normalize(id string) string {
	id = strings.ToLower(strings.TrimSpace(id))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(id)
}

// NormalizeAbility maps "dex", "Dexterity" or "DEX" to the short ability code
func NormalizeAbility(ability string) string {
	a := strings.ToUpper(strings.TrimSpace(ability))
	if len(a) > 3 {
		a = a[:3]
	}
	return a
}

// Kinds returns every condition kind in a fixed order
func Kinds() []Kind {
	return []Kind{
		Blinded, Charmed, Deafened, Frightened, Grappled, Incapacitated, Invisible,
		Paralyzed, Petrified, Poisoned, Prone, Restrained, Stunned, Unconscious,
	}
}

// Aliases returns a copy of the alias table
func Aliases() map[string]Kind {
	out := make(map[string]Kind, len(aliases))
	for k, v := range aliases {
		out[k] = v
	}
	return out
}

// MechanicsFor returns the rules bundle of a condition kind
func MechanicsFor(kind Kind) (Mechanics, bool) {
	m, ok := mechanicsTable[kind]
	return m, ok
}
