package sim

import (
	"fmt"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/poolprob/internal/game/dice"
	"github.com/cory-johannsen/poolprob/internal/game/pool"
)

// Distribution is the exact outcome distribution of one skill's pool.
//
// Invariant: outcomes is ascending and the counts sum to total.
type Distribution struct {
	outcomes []float64
	counts   []int64
	total    int64
}

// Outcomes returns the possible outcome values in ascending order.
func (d Distribution) Outcomes() []float64 { return slices.Clone(d.outcomes) }

// Total returns the number of ordered pools the distribution was built from.
func (d Distribution) Total() int64 { return d.total }

// P returns the probability of exactly outcome.
func (d Distribution) P(outcome float64) float64 {
	i, ok := slices.BinarySearch(d.outcomes, outcome)
	if !ok || d.total == 0 {
		return 0
	}
	return float64(d.counts[i]) / float64(d.total)
}

// AtLeast returns the probability that the outcome is >= difficulty.
//
// Postcondition: 0 <= result <= 1; non-increasing in difficulty.
func (d Distribution) AtLeast(difficulty float64) float64 {
	if d.total == 0 {
		return 0
	}
	i, _ := slices.BinarySearch(d.outcomes, difficulty)
	var hits int64
	for _, c := range d.counts[i:] {
		hits += c
	}
	return float64(hits) / float64(d.total)
}

// Enumerate builds the exact distribution for an n-die pool with bonuses b.
// The high and low groups are enumerated as weighted multisets independently,
// since Reduce only sees the multiset of the combined pool.
//
// Precondition: 1 <= n <= pool.MaxDice.
// Postcondition: result.Total() == 6^n.
func Enumerate(n int, b pool.Bonuses) Distribution {
	if n < 1 || n > pool.MaxDice {
		panic(fmt.Sprintf("sim: Enumerate precondition violated: n must be in [1, %d], got %d", pool.MaxDice, n))
	}
	split := min(b.Count, n)
	highs := collect(split, b.High)
	lows := collect(n-split, b.Low)

	tally := make(map[float64]int64)
	values := make([]int, 0, n)
	for _, h := range highs {
		for _, l := range lows {
			values = append(append(values[:0], h.values...), l.values...)
			tally[pool.Reduce(values)] += h.weight * l.weight
		}
	}

	d := Distribution{outcomes: make([]float64, 0, len(tally))}
	for o := range tally {
		d.outcomes = append(d.outcomes, o)
	}
	slices.Sort(d.outcomes)
	d.counts = make([]int64, len(d.outcomes))
	for i, o := range d.outcomes {
		d.counts[i] = tally[o]
		d.total += tally[o]
	}
	return d
}

type weightedGroup struct {
	values []int
	weight int64
}

func collect(n, bonus int) []weightedGroup {
	var out []weightedGroup
	for faces, w := range dice.Multisets(n) {
		for i := range faces {
			faces[i] += bonus
		}
		out = append(out, weightedGroup{values: faces, weight: w})
	}
	return out
}

// Exact answers probabilities from fully enumerated distributions, computing
// each skill's distribution once.
type Exact struct {
	logger *zap.Logger
	cache  map[int]Distribution
}

// NewExact creates an enumerating Estimator.
//
// Precondition: logger must be non-nil.
func NewExact(logger *zap.Logger) *Exact {
	return &Exact{logger: logger, cache: make(map[int]Distribution)}
}

// Distribution returns the exact outcome distribution for skill.
//
// Precondition: skill >= 1.
func (e *Exact) Distribution(skill int) Distribution {
	if skill < 1 {
		panic(fmt.Sprintf("sim: Distribution precondition violated: skill must be >= 1, got %d", skill))
	}
	if d, ok := e.cache[skill]; ok {
		return d
	}
	start := time.Now()
	d := Enumerate(pool.Size(skill), pool.BonusesFor(skill))
	e.cache[skill] = d
	e.logger.Debug("outcome distribution enumerated",
		zap.Int("skill", skill),
		zap.Int("outcomes", len(d.outcomes)),
		zap.Int64("pools", d.total),
		zap.Duration("elapsed", time.Since(start)),
	)
	return d
}

// Probability returns the exact probability that skill meets difficulty.
func (e *Exact) Probability(skill int, difficulty float64) float64 {
	return e.Distribution(skill).AtLeast(difficulty)
}
