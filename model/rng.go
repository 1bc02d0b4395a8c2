package model

import (
	"math/rand/v2"
	"time"
)

// NewRandomSource returns a PCG-backed generator; seed 0 picks a time-based seed
func NewRandomSource(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewPCG(uint64(seed), 0))
}
