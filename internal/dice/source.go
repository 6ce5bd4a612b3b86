package dice

import (
	cryptorand "crypto/rand"
	"math/big"
	"math/rand/v2"
)

// Source is the randomness capability the evaluator depends on. It is the
// only state that persists across the evaluations of a simulation run, and
// each run owns its Source exclusively; implementations other than
// NewCryptoSource need not be safe for concurrent use.
type Source interface {
	// Roll returns a uniformly distributed integer in [1, sides].
	//
	// Precondition: sides >= 1.
	Roll(sides int) int
}

// pcgSource implements Source with a PCG generator from math/rand/v2.
type pcgSource struct {
	rng *rand.Rand
}

// NewSource returns an auto-seeded pseudo-random Source suitable as the
// default for rolls and simulations.
func NewSource() Source {
	return &pcgSource{rng: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}
}

// NewSeededSource returns a deterministic Source: two sources built from the
// same seed produce identical roll sequences.
func NewSeededSource(seed uint64) Source {
	return &pcgSource{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (s *pcgSource) Roll(sides int) int {
	if sides < 1 {
		panic("dice: Roll called with sides < 1")
	}
	return s.rng.IntN(sides) + 1
}

// cryptoSource implements Source using crypto/rand. Values are uniformly
// distributed and the source is safe for concurrent use.
type cryptoSource struct{}

// NewCryptoSource returns a Source backed by crypto/rand for callers that
// want OS-entropy rolls rather than a seedable generator.
func NewCryptoSource() Source {
	return &cryptoSource{}
}

// Roll returns a cryptographically secure integer in [1, sides].
//
// Precondition: sides >= 1. Panics if crypto/rand fails, which indicates a
// broken platform entropy source.
func (c *cryptoSource) Roll(sides int) int {
	if sides < 1 {
		panic("dice: Roll called with sides < 1")
	}
	val, err := cryptorand.Int(cryptorand.Reader, big.NewInt(int64(sides)))
	if err != nil {
		panic("dice: crypto/rand failure: " + err.Error())
	}
	return int(val.Int64()) + 1
}
