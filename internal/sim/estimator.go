// Package sim estimates the probability that a skill's pool meets a difficulty.
package sim

import (
	"fmt"

	"github.com/cory-johannsen/poolprob/internal/game/dice"
	"github.com/cory-johannsen/poolprob/internal/game/pool"
)

// Estimator answers the probability that a pool rolled at skill produces an
// outcome of at least difficulty.
type Estimator interface {
	// Probability returns a value in [0, 1].
	//
	// Precondition: skill >= 1.
	Probability(skill int, difficulty float64) float64
}

// MonteCarlo estimates probabilities by sampling a fixed number of pools per
// (skill, difficulty) cell. It owns its Roller and is not safe for concurrent use.
type MonteCarlo struct {
	roller   *dice.Roller
	attempts int
}

// NewMonteCarlo creates a sampling Estimator drawing attempts pools per call.
//
// Precondition: roller must be non-nil; attempts >= 1.
func NewMonteCarlo(roller *dice.Roller, attempts int) *MonteCarlo {
	if attempts < 1 {
		panic(fmt.Sprintf("sim: NewMonteCarlo precondition violated: attempts must be >= 1, got %d", attempts))
	}
	return &MonteCarlo{roller: roller, attempts: attempts}
}

// Attempts returns the number of samples drawn per Probability call.
func (m *MonteCarlo) Attempts() int { return m.attempts }

// Probability samples m.Attempts() fresh pools and returns the fraction whose
// outcome is at least difficulty.
//
// Precondition: skill >= 1.
// Postcondition: 0 <= result <= 1.
func (m *MonteCarlo) Probability(skill int, difficulty float64) float64 {
	if skill < 1 {
		panic(fmt.Sprintf("sim: Probability precondition violated: skill must be >= 1, got %d", skill))
	}
	stream := m.roller.Stream(pool.Size(skill))
	wins := 0
	for range m.attempts {
		if pool.Reduce(pool.ApplyBonuses(stream.Next(), skill)) >= difficulty {
			wins++
		}
	}
	return float64(wins) / float64(m.attempts)
}
