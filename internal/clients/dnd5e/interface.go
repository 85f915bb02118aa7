package dnd5e

//go:generate mockgen -destination=mock/mock_spell_source.go -package=mockdnd5e -source=interface.go

import (
	apiDnd5e "github.com/fadedpez/dnd5e-api/clients/dnd5e"
	"github.com/fadedpez/dnd5e-api/entities"
)

// SpellSource is the part of the dnd5e api the importer reads
type SpellSource interface {
	ListSpells(input *apiDnd5e.ListSpellsInput) ([]*entities.ReferenceItem, error)
	GetSpell(key string) (*entities.Spell, error)
}
