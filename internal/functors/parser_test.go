package functors_test

import (
	"testing"

	dnderr "github.com/KirkDiggler/combat-rules-engine/internal/errors"
	"github.com/KirkDiggler/combat-rules-engine/internal/functors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFunctors_TwoInstructions(t *testing.T) {
	got := functors.ParseFunctors("DealDamage(1d6,Fire);ApplyStatus(BURNING,100,2)")

	require.Len(t, got, 2)
	assert.Equal(t, functors.DealDamage, got[0].Type)
	assert.Equal(t, []string{"1d6", "Fire"}, got[0].Params)
	assert.Equal(t, functors.ApplyStatus, got[1].Type)
	assert.Equal(t, []string{"BURNING", "100", "2"}, got[1].Params)
}

func TestParseFunctors_Empty(t *testing.T) {
	assert.Empty(t, functors.ParseFunctors(""))
	assert.Empty(t, functors.ParseFunctors("   ;  ; "))
	assert.NotNil(t, functors.ParseFunctors(""))
}

func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantTypes []functors.InstructionType
		wantErrs  int
	}{
		{
			name:      "whitespace trimmed",
			input:     "  DealDamage( 2d6+3 , Slashing ) ;  RemoveStatus( BURNING )",
			wantTypes: []functors.InstructionType{functors.DealDamage, functors.RemoveStatus},
		},
		{
			name:      "aliases and case",
			input:     "damage(1d4,Cold);HEAL(1d8);breakconcentration()",
			wantTypes: []functors.InstructionType{functors.DealDamage, functors.RegainHitPoints, functors.BreakConcentration},
		},
		{
			name:      "unknown functor skipped alone",
			input:     "Teleport(10);DealDamage(1d6,Fire)",
			wantTypes: []functors.InstructionType{functors.DealDamage},
			wantErrs:  1,
		},
		{
			name:      "malformed syntax",
			input:     "DealDamage(1d6,Fire;ApplyStatus BURNING;(1d6)",
			wantTypes: nil,
			wantErrs:  3,
		},
		{
			name:      "nested parentheses unsupported",
			input:     "DealDamage(max(1d6,2),Fire);RemoveStatus(WET)",
			wantTypes: []functors.InstructionType{functors.RemoveStatus},
			wantErrs:  1,
		},
		{
			name:      "too few parameters",
			input:     "RestoreResource(ki);ApplyStatus()",
			wantTypes: nil,
			wantErrs:  2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := dnderr.NewLog()
			got := functors.Parse(tt.input, log)

			var types []functors.InstructionType
			for _, f := range got {
				types = append(types, f.Type)
			}
			assert.Equal(t, tt.wantTypes, types)
			assert.Equal(t, tt.wantErrs, log.Len())
		})
	}
}

func TestParse_ParamsKeptAsText(t *testing.T) {
	got := functors.ParseFunctors("ApplyStatus(BURNING,,-1);FireEvent(SurfaceTriggered,surface=S1)")

	require.Len(t, got, 2)
	assert.Equal(t, []string{"BURNING", "", "-1"}, got[0].Params)
	assert.Equal(t, "100", got[0].Param(1, "100"))
	assert.Equal(t, "-1", got[0].Param(2, "0"))
	assert.Equal(t, "ApplyStatus(BURNING,,-1)", got[0].String())
	assert.Equal(t, []string{"SurfaceTriggered", "surface=S1"}, got[1].Params)
}
