package dnd5e

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/KirkDiggler/combat-rules-engine/internal/dice"
	"github.com/KirkDiggler/combat-rules-engine/internal/statuses"
	"github.com/fadedpez/dnd5e-api/entities"
)

const (
	roundsPerMinute = 10
	roundsPerHour   = 60 * roundsPerMinute

	// TagSpell marks statuses imported from spells
	TagSpell = "spell"
)

// StatusID turns a spell key like "hold-person" into "HOLD_PERSON"
func StatusID(key string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(key), "-", "_"))
}

// SpellToStatus converts a spell into a status definition. The second result is false
// when the spell has no lasting effect to model.
func SpellToStatus(spell *entities.Spell) (*statuses.Definition, bool) {
	if spell == nil || spell.Key == "" {
		return nil, false
	}

	rounds, ok := ParseDuration(spell.Duration)
	if !ok || rounds == 0 {
		return nil, false
	}

	builder := statuses.NewBuilder(StatusID(spell.Key)).WithName(spell.Name)
	if rounds < 0 {
		builder.Permanent()
	} else {
		builder.WithDuration(statuses.DurationRounds, rounds)
	}

	tags := []string{TagSpell}
	if spell.SpellSchool != nil && spell.SpellSchool.Name != "" {
		tags = append(tags, strings.ToLower(spell.SpellSchool.Name))
	}
	if spell.Concentration {
		tags = append(tags, statuses.TagConcentration)
	}
	builder.WithTags(tags...)

	if tick := damageTick(spell); tick != "" {
		builder.OnTick(tick)
	}
	if spell.DC == nil && spell.SpellDamage == nil {
		builder.AsBuff()
	}

	return builder.Build(), true
}

// ParseDuration converts a spell duration into rounds. Zero means instantaneous and a
// negative value means the effect lasts until removed. ok is false when the text is not understood.
func ParseDuration(text string) (rounds int, ok bool) {
	d := strings.ToLower(strings.TrimSpace(text))
	d = strings.TrimPrefix(d, "concentration,")
	d = strings.TrimSpace(strings.TrimPrefix(d, "up to"))
	d = strings.TrimSpace(d)

	switch {
	case d == "instantaneous":
		return 0, true
	case strings.HasPrefix(d, "until dispelled"), d == "permanent":
		return -1, true
	}

	fields := strings.Fields(d)
	if len(fields) != 2 {
		return 0, false
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil || n <= 0 {
		return 0, false
	}

	switch strings.TrimSuffix(fields[1], "s") {
	case "round":
		return n, true
	case "minute":
		return n * roundsPerMinute, true
	case "hour":
		return n * roundsPerHour, true
	case "day":
		return n * 24 * roundsPerHour, true
	}
	return 0, false
}

// damageTick builds a per-turn damage functor from the spell's base slot damage
func damageTick(spell *entities.Spell) string {
	if spell.SpellDamage == nil || spell.SpellDamage.SpellDamageAtSlotLevel == nil {
		return ""
	}

	at := spell.SpellDamage.SpellDamageAtSlotLevel
	formula := slotDamage([]string{
		at.FirstLevel, at.SecondLevel, at.ThirdLevel,
		at.FourthLevel, at.FifthLevel, at.SixthLevel,
		at.SeventhLevel, at.EighthLevel, at.NinthLevel,
	}, spell.SpellLevel)
	formula = strings.ReplaceAll(formula, " ", "")
	if formula == "" {
		return ""
	}
	if _, err := dice.ParseFormula(formula); err != nil {
		return ""
	}

	damageType := "Force"
	if spell.SpellDamage.SpellDamageType != nil && spell.SpellDamage.SpellDamageType.Name != "" {
		damageType = spell.SpellDamage.SpellDamageType.Name
	}
	return fmt.Sprintf("DealDamage(%s,%s)", formula, damageType)
}

// slotDamage picks the damage for the spell's own level, falling back to the lowest listed
func slotDamage(byLevel []string, level int) string {
	if level >= 1 && level <= len(byLevel) && byLevel[level-1] != "" {
		return byLevel[level-1]
	}
	for _, formula := range byLevel {
		if formula != "" {
			return formula
		}
	}
	return ""
}
