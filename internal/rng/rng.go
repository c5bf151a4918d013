// Package rng provides the seeded linear-congruential generator used by the
// question generator. The recurrence and constants are fixed so that a seed
// always yields the same question set, whatever produced it.
package rng

const (
	multiplier = 1664525
	increment  = 1013904223
	modulus    = 1 << 32
)

// LCG is a 32-bit linear-congruential generator.
// It is not safe for concurrent use; give each goroutine its own instance.
type LCG struct {
	state uint32
}

// New returns a generator whose first draw is derived from seed.
func New(seed uint32) *LCG {
	return &LCG{state: seed}
}

// Float advances the generator once and returns a value in [0,1).
func (r *LCG) Float() float64 {
	r.state = multiplier*r.state + increment
	return float64(r.state) / modulus
}

// IntRange returns an integer in [min, max], both inclusive.
// If max < min the bounds are swapped.
func (r *LCG) IntRange(min, max int) int {
	if max < min {
		min, max = max, min
	}
	return min + int(r.Float()*float64(max-min+1))
}

// Choice returns one element of list. It panics on an empty list.
func Choice[T any](r *LCG, list []T) T {
	return list[int(r.Float()*float64(len(list)))]
}

// Shuffle permutes list in place with a Fisher–Yates pass from the end.
func Shuffle[T any](r *LCG, list []T) {
	for i := len(list) - 1; i > 0; i-- {
		j := int(r.Float() * float64(i+1))
		list[i], list[j] = list[j], list[i]
	}
}
