package dnd5e_test

import (
	"context"
	"errors"
	"testing"

	"github.com/KirkDiggler/combat-rules-engine/internal/clients/dnd5e"
	mockdnd5e "github.com/KirkDiggler/combat-rules-engine/internal/clients/dnd5e/mock"
	"github.com/KirkDiggler/combat-rules-engine/internal/statuses"
	apiDnd5e "github.com/fadedpez/dnd5e-api/clients/dnd5e"
	"github.com/fadedpez/dnd5e-api/entities"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type ImporterTestSuite struct {
	suite.Suite
	ctrl     *gomock.Controller
	source   *mockdnd5e.MockSpellSource
	importer *dnd5e.Importer
	ctx      context.Context
}

func (s *ImporterTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.source = mockdnd5e.NewMockSpellSource(s.ctrl)
	var err error
	s.importer, err = dnd5e.New(&dnd5e.Config{Source: s.source, Concurrency: 2})
	s.Require().NoError(err)
	s.ctx = context.Background()
}

func (s *ImporterTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestImporterTestSuite(t *testing.T) {
	suite.Run(t, new(ImporterTestSuite))
}

func refs(keys ...string) []*entities.ReferenceItem {
	out := make([]*entities.ReferenceItem, 0, len(keys))
	for _, key := range keys {
		out = append(out, &entities.ReferenceItem{Key: key, Name: key})
	}
	return out
}

func (s *ImporterTestSuite) TestImport_ConcentrationOnly() {
	s.source.EXPECT().ListSpells(&apiDnd5e.ListSpellsInput{Class: "wizard"}).
		Return(refs("hold-person", "fireball", "mage-armor"), nil)
	s.source.EXPECT().GetSpell("hold-person").Return(&entities.Spell{
		Key:           "hold-person",
		Name:          "Hold Person",
		SpellLevel:    2,
		Duration:      "Concentration, up to 1 minute",
		Concentration: true,
		DC:            &entities.DC{},
	}, nil)
	s.source.EXPECT().GetSpell("fireball").Return(&entities.Spell{
		Key:      "fireball",
		Name:     "Fireball",
		Duration: "Instantaneous",
	}, nil)
	s.source.EXPECT().GetSpell("mage-armor").Return(&entities.Spell{
		Key:      "mage-armor",
		Name:     "Mage Armor",
		Duration: "8 hours",
	}, nil)

	defs, err := s.importer.Import(s.ctx, &dnd5e.ImportInput{Class: "wizard", ConcentrationOnly: true})
	s.Require().NoError(err)
	s.Require().Len(defs, 1)

	hold := defs[0]
	s.Equal("HOLD_PERSON", hold.ID)
	s.Equal("Hold Person", hold.Name)
	s.Equal(statuses.DurationRounds, hold.DurationType)
	s.Equal(10, hold.DefaultDuration)
	s.True(hold.HasTag(statuses.TagConcentration))
	s.True(hold.HasTag(dnd5e.TagSpell))
	s.False(hold.IsBuff)
	s.NoError(hold.Validate())
}

func (s *ImporterTestSuite) TestImport_LevelsDeduplicateAndSort() {
	one, two := 1, 2
	s.source.EXPECT().ListSpells(&apiDnd5e.ListSpellsInput{Level: &one}).Return(refs("shield-of-faith", "bless"), nil)
	s.source.EXPECT().ListSpells(&apiDnd5e.ListSpellsInput{Level: &two}).Return(refs("bless"), nil)
	s.source.EXPECT().GetSpell("shield-of-faith").Return(&entities.Spell{
		Key: "shield-of-faith", Name: "Shield of Faith", Duration: "Concentration, up to 10 minutes", Concentration: true,
	}, nil)
	s.source.EXPECT().GetSpell("bless").Return(&entities.Spell{
		Key: "bless", Name: "Bless", Duration: "Concentration, up to 1 minute", Concentration: true,
	}, nil).Times(1)

	defs, err := s.importer.Import(s.ctx, &dnd5e.ImportInput{Levels: []int{1, 2}})
	s.Require().NoError(err)
	s.Require().Len(defs, 2)
	s.Equal("BLESS", defs[0].ID)
	s.Equal("SHIELD_OF_FAITH", defs[1].ID)
	s.Equal(100, defs[1].DefaultDuration)
	s.True(defs[0].IsBuff)
}

func (s *ImporterTestSuite) TestImport_ListError() {
	s.source.EXPECT().ListSpells(gomock.Any()).Return(nil, errors.New("api down"))

	_, err := s.importer.Import(s.ctx, nil)
	s.Error(err)
}

func (s *ImporterTestSuite) TestImport_GetError() {
	s.source.EXPECT().ListSpells(gomock.Any()).Return(refs("bless"), nil)
	s.source.EXPECT().GetSpell("bless").Return(nil, errors.New("timeout"))

	_, err := s.importer.Import(s.ctx, &dnd5e.ImportInput{})
	s.Error(err)
	s.Contains(err.Error(), "bless")
}

func (s *ImporterTestSuite) TestNew_RequiresConfig() {
	_, err := dnd5e.New(nil)
	s.Error(err)

	_, err = dnd5e.New(&dnd5e.Config{BaseURL: "://bad"})
	s.Error(err)
}

func (s *ImporterTestSuite) TestParseDuration() {
	tests := []struct {
		text   string
		rounds int
		ok     bool
	}{
		{"Instantaneous", 0, true},
		{"1 round", 1, true},
		{"Concentration, up to 1 minute", 10, true},
		{"Concentration, up to 10 minutes", 100, true},
		{"1 hour", 600, true},
		{"Until dispelled", -1, true},
		{"Until dispelled or triggered", -1, true},
		{"Special", 0, false},
		{"1 week", 0, false},
	}
	for _, tt := range tests {
		rounds, ok := dnd5e.ParseDuration(tt.text)
		s.Equal(tt.ok, ok, tt.text)
		s.Equal(tt.rounds, rounds, tt.text)
	}
}

func (s *ImporterTestSuite) TestSpellToStatus_Permanent() {
	def, ok := dnd5e.SpellToStatus(&entities.Spell{
		Key:         "glyph-of-warding",
		Name:        "Glyph of Warding",
		Duration:    "Until dispelled or triggered",
		SpellDamage: &entities.SpellDamage{},
	})
	s.Require().True(ok)
	s.Equal(statuses.DurationPermanent, def.DurationType)
	s.Empty(def.TickEffects)
	s.False(def.IsBuff)

	_, ok = dnd5e.SpellToStatus(&entities.Spell{Key: "wish", Duration: "Instantaneous"})
	s.False(ok)
	_, ok = dnd5e.SpellToStatus(nil)
	s.False(ok)
}
