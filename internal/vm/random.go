package vm

import (
	"math/rand"
	"time"
)

// RandomSource supplies the random bytes used by the CXNN instruction.
type RandomSource interface {
	Byte() byte
}

// Random is a RandomSource backed by math/rand.
type Random struct {
	rnd *rand.Rand
}

// NewRandom returns a random source. A zero seed is replaced by the current time.
func NewRandom(seed int64) *Random {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Random{
		rnd: rand.New(rand.NewSource(seed)),
	}
}

// Byte returns a uniformly distributed random byte.
func (r *Random) Byte() byte {
	return byte(r.rnd.Intn(256))
}
