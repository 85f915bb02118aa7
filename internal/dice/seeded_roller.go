package dice

import (
	"fmt"
	"math/rand"
	"sync"
)

// SeededRoller draws from a single seeded source. Two rollers with the
// same seed given the same sequence of calls produce the same results.
type SeededRoller struct {
	mu   sync.Mutex
	seed int64
	rng  *rand.Rand
	pos  int
}

// NewSeededRoller creates a roller seeded with seed
func NewSeededRoller(seed int64) *SeededRoller {
	return &SeededRoller{
		seed: seed,
		rng:  rand.New(rand.NewSource(seed)),
	}
}

// Seed returns the seed the roller was created with
func (r *SeededRoller) Seed() int64 {
	return r.seed
}

// Position returns how many dice have been drawn so far
func (r *SeededRoller) Position() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pos
}

func (r *SeededRoller) draw(sides int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pos++
	return r.rng.Intn(sides) + 1
}

// Roll implements Roller.Roll
func (r *SeededRoller) Roll(count, sides, bonus int) (*RollResult, error) {
	if count < 0 || count > MaxDice {
		return nil, fmt.Errorf("invalid dice count %d", count)
	}
	if sides < 1 || sides > MaxSides {
		return nil, fmt.Errorf("invalid dice size %d", sides)
	}

	rolls := make([]int, count)
	raw := 0
	for i := range rolls {
		rolls[i] = r.draw(sides)
		raw += rolls[i]
	}

	result := &RollResult{
		Total:    raw + bonus,
		Rolls:    rolls,
		Bonus:    bonus,
		Count:    count,
		Sides:    sides,
		RawTotal: raw,
	}
	if count == 1 {
		markD20(result, rolls[0])
	}
	return result, nil
}

// RollWithAdvantage implements Roller.RollWithAdvantage
func (r *SeededRoller) RollWithAdvantage(sides, bonus int) (*RollResult, error) {
	return r.rollPair(sides, bonus, func(a, b int) int { return max(a, b) })
}

// RollWithDisadvantage implements Roller.RollWithDisadvantage
func (r *SeededRoller) RollWithDisadvantage(sides, bonus int) (*RollResult, error) {
	return r.rollPair(sides, bonus, func(a, b int) int { return min(a, b) })
}

func (r *SeededRoller) rollPair(sides, bonus int, pick func(a, b int) int) (*RollResult, error) {
	if sides < 1 {
		return nil, fmt.Errorf("invalid dice size %d", sides)
	}

	first, second := r.draw(sides), r.draw(sides)
	kept := pick(first, second)

	result := &RollResult{
		Total:    kept + bonus,
		Rolls:    []int{first, second},
		Bonus:    bonus,
		Count:    1,
		Sides:    sides,
		RawTotal: kept,
	}
	markD20(result, kept)
	return result, nil
}
