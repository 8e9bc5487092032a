package dice

import "go.uber.org/zap"

// Roller wraps a Source and logger to provide logged pool rolling.
// Every pool is logged at debug level with its size and faces.
type Roller struct {
	src    Source
	logger *zap.Logger
}

// NewLoggedRoller creates a Roller that rolls with src and logs each pool to logger.
//
// Precondition: src and logger must be non-nil.
func NewLoggedRoller(src Source, logger *zap.Logger) *Roller {
	return &Roller{src: src, logger: logger}
}

// Roll rolls a pool of n dice and logs it at debug level.
//
// Precondition: n >= 0.
// Postcondition: len(result) == n and every value is in [1, Sides].
func (r *Roller) Roll(n int) []int {
	rolled := RollPool(n, r.src)
	if ce := r.logger.Check(zap.DebugLevel, "dice pool"); ce != nil {
		ce.Write(
			zap.Int("count", n),
			zap.Ints("dice", rolled),
		)
	}
	return rolled
}

// Stream returns an endless generator of n-dice pools backed by r.
//
// Precondition: n >= 0.
func (r *Roller) Stream(n int) *Stream {
	if n < 0 {
		panic("dice: Stream precondition violated: n must be >= 0")
	}
	return &Stream{roller: r, count: n}
}

// Stream yields a fresh pool on every call to Next.
//
// Invariant: pools returned by successive Next calls never share backing arrays.
type Stream struct {
	roller *Roller
	count  int
}

// Count returns the number of dice in each pool.
func (s *Stream) Count() int { return s.count }

// Next rolls and returns the next pool.
func (s *Stream) Next() []int {
	return s.roller.Roll(s.count)
}
