// Package randutil centralises how deals, dove tie-breaks and game identifiers
// obtain their randomness so that every run can be replayed from a seed.
package randutil

import (
	rand "math/rand/v2"
	"time"
)

const (
	goldenRatio64 = 0x9e3779b97f4a7c15
)

// New returns a *rand.Rand seeded deterministically from the provided int64.
// rand/v2 needs two 64-bit seeds; both are derived from the one seed so that
// all call sites get reproducible sequences.
func New(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64)))
}

// Seed returns seed unchanged unless it is zero, in which case a
// time-derived seed is returned. Callers log the result so a game can be
// replayed later.
func Seed(seed int64) int64 {
	if seed != 0 {
		return seed
	}
	return int64(mix(uint64(time.Now().UnixNano())) >> 1)
}

// Derive returns the n-th child seed of seed. The simulator uses it to give
// every game and every agent an independent stream.
func Derive(seed int64, n int) int64 {
	return int64(mix(uint64(seed)+uint64(n)*goldenRatio64) >> 1)
}

// Reader returns an io.Reader producing bytes from a ChaCha8 stream keyed by
// seed, for libraries that draw entropy from a reader.
func Reader(seed int64) *rand.ChaCha8 {
	var key [32]byte
	x := uint64(seed)
	for i := 0; i < 4; i++ {
		x = mix(x + goldenRatio64)
		for b := 0; b < 8; b++ {
			key[i*8+b] = byte(x >> (8 * b))
		}
	}
	return rand.NewChaCha8(key)
}

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
