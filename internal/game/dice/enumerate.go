package dice

import (
	"iter"
	"slices"
)

// MaxEnumerated is the largest pool size Multisets accepts; 20! still fits in an int64.
const MaxEnumerated = 20

var factorials = func() [MaxEnumerated + 1]int64 {
	var f [MaxEnumerated + 1]int64
	f[0] = 1
	for i := 1; i <= MaxEnumerated; i++ {
		f[i] = f[i-1] * int64(i)
	}
	return f
}()

// AllPools yields every ordered pool of n dice exactly once, in lexicographic
// order starting at [1 1 ... 1]. Each yielded slice is owned by the caller.
//
// Precondition: n >= 0.
// Postcondition: exactly Sides^n pools are yielded unless the consumer stops early.
func AllPools(n int) iter.Seq[[]int] {
	if n < 0 {
		panic("dice: AllPools precondition violated: n must be >= 0")
	}
	return func(yield func([]int) bool) {
		pool := make([]int, n)
		for i := range pool {
			pool[i] = 1
		}
		for {
			if !yield(slices.Clone(pool)) {
				return
			}
			i := n - 1
			for i >= 0 && pool[i] == Sides {
				pool[i] = 1
				i--
			}
			if i < 0 {
				return
			}
			pool[i]++
		}
	}
}

// Multisets yields every distinct multiset of n dice as an ascending slice,
// paired with the number of ordered pools that share it.
//
// Precondition: 0 <= n <= MaxEnumerated.
// Postcondition: the yielded weights sum to Sides^n.
func Multisets(n int) iter.Seq2[[]int, int64] {
	if n < 0 || n > MaxEnumerated {
		panic("dice: Multisets precondition violated: n must be in [0, MaxEnumerated]")
	}
	return func(yield func([]int, int64) bool) {
		counts := make([]int, Sides)
		var walk func(face, remaining int) bool
		walk = func(face, remaining int) bool {
			if face == Sides-1 {
				counts[face] = remaining
				return yield(expand(counts, n), multiplicity(n, counts))
			}
			for c := remaining; c >= 0; c-- {
				counts[face] = c
				if !walk(face+1, remaining-c) {
					return false
				}
			}
			return true
		}
		walk(0, n)
	}
}

func expand(counts []int, n int) []int {
	pool := make([]int, 0, n)
	for face, c := range counts {
		for range c {
			pool = append(pool, face+1)
		}
	}
	return pool
}

// multiplicity is the multinomial coefficient n! / (c1! c2! ... c6!).
func multiplicity(n int, counts []int) int64 {
	w := factorials[n]
	for _, c := range counts {
		w /= factorials[c]
	}
	return w
}
