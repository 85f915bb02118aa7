package dice

import (
	"fmt"
	"strconv"
	"strings"
)

// Upper bounds on a single roll
const (
	MaxDice  = 1000
	MaxSides = 1000
)

// Formula is a parsed NdM+K expression. Count 0 is a flat constant.
type Formula struct {
	Count    int
	Sides    int
	Modifier int
}

// ParseFormula parses "NdM", "NdM+K", "NdM-K", "dM" and a bare integer "K"
func ParseFormula(s string) (Formula, error) {
	raw := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), " ", ""))
	if raw == "" {
		return Formula{}, fmt.Errorf("empty dice formula")
	}

	dIdx := strings.IndexByte(raw, 'd')
	if dIdx < 0 {
		k, err := strconv.Atoi(raw)
		if err != nil {
			return Formula{}, fmt.Errorf("invalid dice formula %q", s)
		}
		return Formula{Modifier: k}, nil
	}

	count := 1
	if dIdx > 0 {
		n, err := strconv.Atoi(raw[:dIdx])
		if err != nil || n < 0 {
			return Formula{}, fmt.Errorf("invalid dice count in %q", s)
		}
		if n > MaxDice {
			return Formula{}, fmt.Errorf("dice count in %q exceeds %d", s, MaxDice)
		}
		count = n
	}

	rest := raw[dIdx+1:]
	modifier := 0
	if opIdx := strings.IndexAny(rest, "+-"); opIdx >= 0 {
		k, err := strconv.Atoi(rest[opIdx:])
		if err != nil {
			return Formula{}, fmt.Errorf("invalid modifier in %q", s)
		}
		modifier = k
		rest = rest[:opIdx]
	}

	sides, err := strconv.Atoi(rest)
	if err != nil || sides < 1 {
		return Formula{}, fmt.Errorf("invalid dice size in %q", s)
	}
	if sides > MaxSides {
		return Formula{}, fmt.Errorf("dice size in %q exceeds %d", s, MaxSides)
	}

	return Formula{Count: count, Sides: sides, Modifier: modifier}, nil
}

// IsConstant reports whether the formula rolls no dice
func (f Formula) IsConstant() bool {
	return f.Count == 0
}

// DoubleDice returns the formula with its dice count doubled, as for a critical hit.
// The count never exceeds MaxDice.
func (f Formula) DoubleDice() Formula {
	f.Count = min(f.Count*2, MaxDice)
	return f
}

// Roll rolls the formula with roller. Constant formulas never touch the roller.
func (f Formula) Roll(roller Roller) (*RollResult, error) {
	if f.IsConstant() {
		return &RollResult{Total: f.Modifier, Bonus: f.Modifier}, nil
	}
	return roller.Roll(f.Count, f.Sides, f.Modifier)
}

func (f Formula) String() string {
	if f.IsConstant() {
		return strconv.Itoa(f.Modifier)
	}
	switch {
	case f.Modifier > 0:
		return fmt.Sprintf("%dd%d+%d", f.Count, f.Sides, f.Modifier)
	case f.Modifier < 0:
		return fmt.Sprintf("%dd%d%d", f.Count, f.Sides, f.Modifier)
	}
	return fmt.Sprintf("%dd%d", f.Count, f.Sides)
}

func (r *RollResult) String() string {
	compact := strings.ReplaceAll(fmt.Sprintf("%v", r.Rolls), " ", "")
	return fmt.Sprintf("%d : %s", r.Total, compact)
}
