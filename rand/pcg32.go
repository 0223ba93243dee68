// Package rand provides a small, seedable PRNG used to build
// reproducible randomized fleets, such as the ones atc-simctl generates
// with -seed. It is a reimplementation of a pkg/rand PCG32
// generator, trimmed to the operations the scenario builders actually
// need.
package rand

// PCG32 is a minimal permuted congruential generator. It is not
// cryptographically secure; it exists purely for reproducible test
// scenario generation.
type PCG32 struct {
	state     uint64
	increment uint64
}

const (
	pcg32State      = 0x853c49e6748fea9b
	pcg32Increment  = 0xda3e39cb94b95bdb
	pcg32Multiplier = 0x5851f42d4c957f2d
)

func New() *PCG32 {
	return &PCG32{state: pcg32State, increment: pcg32Increment}
}

// NewSeeded returns a generator seeded deterministically from seed, so
// that two calls with the same seed produce the same sequence.
func NewSeeded(seed uint64) *PCG32 {
	p := New()
	p.Seed(seed, 1)
	return p
}

func (p *PCG32) Seed(state, sequence uint64) {
	p.increment = (sequence << 1) | 1
	p.state = (state+p.increment)*pcg32Multiplier + p.increment
}

func (p *PCG32) Uint32() uint32 {
	oldState := p.state
	p.state = oldState*pcg32Multiplier + p.increment

	xorShifted := uint32(((oldState >> 18) ^ oldState) >> 27)
	rot := uint32(oldState >> 59)
	return (xorShifted >> rot) | (xorShifted << ((-rot) & 31))
}

// Bounded returns a uniformly distributed value in [0, bound).
func (p *PCG32) Bounded(bound uint32) uint32 {
	if bound == 0 {
		return 0
	}
	threshold := -bound % bound
	for {
		r := p.Uint32()
		if r >= threshold {
			return r % bound
		}
	}
}

// Float64 returns a value in [0, 1).
func (p *PCG32) Float64() float64 {
	return float64(p.Uint32()) / float64(1<<32)
}

// Range returns a float64 uniformly distributed in [lo, hi).
func (p *PCG32) Range(lo, hi float64) float64 {
	return lo + p.Float64()*(hi-lo)
}
