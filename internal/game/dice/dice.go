// Package dice provides the core randomness abstraction and d6 pool generation
// for the dice-pool probability tables.
package dice

// Sides is the number of faces on every die in a pool.
const Sides = 6

// Source is the randomness provider for dice rolls.
//
// Implementations are not required to be safe for concurrent use; each
// estimator owns its Source.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}

// RollPool rolls n independent d6 and returns the faces in roll order.
//
// Precondition: n >= 0; src must be non-nil.
// Postcondition: len(result) == n and every value is in [1, Sides].
func RollPool(n int, src Source) []int {
	if n < 0 {
		panic("dice: RollPool precondition violated: n must be >= 0")
	}
	rolled := make([]int, n)
	for i := range rolled {
		rolled[i] = src.Intn(Sides) + 1
	}
	return rolled
}
