package nn

import "math/rand/v2"

// Source supplies the uniform draws used when forming connections.
type Source interface {
	// Intn returns a uniform integer in [lo, hi].
	Intn(lo, hi int) int
	// Float returns a uniform real in [lo, hi].
	Float(lo, hi float64) float64
}

type seededSource struct {
	rng *rand.Rand
}

// NewSource returns a Source backed by one generator advanced across calls.
func NewSource(seed int64) Source {
	s := uint64(seed)
	return &seededSource{rng: rand.New(rand.NewPCG(s, s^0x9e3779b97f4a7c15))}
}

func (s *seededSource) Intn(lo, hi int) int {
	if hi < lo {
		lo, hi = hi, lo
	}
	return lo + s.rng.IntN(hi-lo+1)
}

func (s *seededSource) Float(lo, hi float64) float64 {
	if hi < lo {
		lo, hi = hi, lo
	}
	return lo + unitClosed(s.rng.Uint64N(floatSteps+1))*(hi-lo)
}

// floatSteps is the number of evenly spaced steps drawn across [0, 1].
const floatSteps = 1 << 53

// unitClosed maps k in [0, floatSteps] onto [0, 1], both ends included.
func unitClosed(k uint64) float64 {
	return float64(k) / floatSteps
}
