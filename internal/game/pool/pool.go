// Package pool implements the skill-driven d6 pool resolution: pool sizing,
// positional bonuses, and the pairing reduction that turns a bonused pool into
// a single outcome value.
package pool

import (
	"fmt"
	"slices"
)

const (
	// MaxDice is the largest pool a skill can buy; skill beyond it buys bonuses.
	MaxDice = 10
	// SuccessThreshold is the lowest bonused value that counts as a success.
	SuccessThreshold = 6
)

// Size returns the number of dice rolled for skill.
//
// Postcondition: 0 <= result <= MaxDice for skill >= 0.
func Size(skill int) int {
	return max(min(skill, MaxDice), 0)
}

// Bonuses reports how a skill splits its value bonuses across a pool.
// The first Count dice receive High; the remaining dice receive Low.
type Bonuses struct {
	Count int
	High  int
	Low   int
}

// BonusesFor derives the bonus split for skill.
//
// Postcondition: 0 <= Count < 10; High >= Low >= 0; High >= 1 when skill > 10.
func BonusesFor(skill int) Bonuses {
	high := skill / 10
	return Bonuses{
		Count: max(0, skill-MaxDice) % 10,
		High:  high,
		Low:   max(high, 1) - 1,
	}
}

// ApplyBonuses returns a copy of dice with the skill's bonuses added. The
// split is positional: the prefix gets the high bonus, the suffix the low one.
//
// Precondition: skill >= 0.
// Postcondition: len(result) == len(dice); dice is not modified.
func ApplyBonuses(dice []int, skill int) []int {
	b := BonusesFor(skill)
	split := min(b.Count, len(dice))
	out := make([]int, len(dice))
	for i, v := range dice {
		if i < split {
			out[i] = v + b.High
		} else {
			out[i] = v + b.Low
		}
	}
	return out
}

// Reduce collapses a bonused pool into its outcome value.
//
// Values below SuccessThreshold only count when nothing succeeded, in which
// case the highest of them is the outcome. Successes are repeatedly grouped
// by value; a group of k equal values v becomes the single value v + k/2,
// until every value is distinct. The two highest survivors decide the result:
// the top value alone, plus 0.5 when the runner-up is within one of it.
//
// Precondition: len(values) > 0. Panics otherwise.
// Postcondition: values is not modified; the result depends only on the
// multiset of values.
func Reduce(values []int) float64 {
	if len(values) == 0 {
		panic("pool: Reduce precondition violated: pool must be non-empty")
	}

	successes := make([]int, 0, len(values))
	best := values[0]
	for _, v := range values {
		if v >= SuccessThreshold {
			successes = append(successes, v)
		}
		best = max(best, v)
	}
	if len(successes) == 0 {
		return float64(best)
	}

	for {
		slices.Sort(successes)
		next := successes[:0]
		merged := false
		for i := 0; i < len(successes); {
			j := i + 1
			for j < len(successes) && successes[j] == successes[i] {
				j++
			}
			if j-i > 1 {
				merged = true
			}
			next = append(next, successes[i]+(j-i)/2)
			i = j
		}
		successes = next
		if !merged {
			break
		}
	}

	top := successes[len(successes)-1]
	if len(successes) == 1 {
		return float64(top)
	}
	second := successes[len(successes)-2]
	if top > second+1 {
		return float64(top)
	}
	return float64(top) + 0.5
}

// Result is the audit trail of a single resolved roll.
type Result struct {
	Skill   int
	Dice    []int
	Bonused []int
	Outcome float64
}

// String returns a human-readable audit string in the format:
//
//	"skill 23: [6 2 4 1 5 3 3 6 2 1] → [8 4 6 3 7 5 5 7 3 2] = 8.5"
func (r Result) String() string {
	return fmt.Sprintf("skill %d: %v → %v = %g", r.Skill, r.Dice, r.Bonused, r.Outcome)
}

// Roller is the subset of dice.Roller used to draw pools.
// Using a local interface keeps the mechanic free of logging concerns.
type Roller interface {
	Roll(n int) []int
}

// Roll sizes, rolls, bonuses and reduces one pool for skill.
//
// Precondition: skill >= 1; r must be non-nil.
// Postcondition: Returns a fully populated Result.
func Roll(skill int, r Roller) Result {
	if skill < 1 {
		panic(fmt.Sprintf("pool: Roll precondition violated: skill must be >= 1, got %d", skill))
	}
	rolled := r.Roll(Size(skill))
	bonused := ApplyBonuses(rolled, skill)
	return Result{
		Skill:   skill,
		Dice:    rolled,
		Bonused: bonused,
		Outcome: Reduce(bonused),
	}
}
