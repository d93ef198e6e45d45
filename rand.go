package tune

import "math/rand/v2"

// Rand is the uniform-deviate source capability values sample from.
// *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	Float64() float64
}

func defaultRand() Rand {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}
