package sim

import (
	"hash/fnv"
	"math/rand"
)

const (
	// StreamPartition drives random block layouts.
	StreamPartition = "partition"
	// StreamField drives random field initialisation.
	StreamField = "field"
)

// RandomStreams hands out one deterministic *rand.Rand per named stream,
// all derived from a single seed: seed XOR fnv1a64(name). Two runs with the
// same seed draw identical layouts and initial fields whatever the order in
// which streams are first requested.
//
// Not safe for concurrent use.
type RandomStreams struct {
	seed    int64
	streams map[string]*rand.Rand
}

// NewRandomStreams creates streams derived from seed.
func NewRandomStreams(seed int64) *RandomStreams {
	return &RandomStreams{seed: seed, streams: make(map[string]*rand.Rand)}
}

// Stream returns the cached generator for name, creating it on first use.
func (r *RandomStreams) Stream(name string) *rand.Rand {
	if s, ok := r.streams[name]; ok {
		return s
	}
	s := rand.New(rand.NewSource(r.seed ^ fnv1a64(name)))
	r.streams[name] = s
	return s
}

// Seed returns the seed the streams derive from.
func (r *RandomStreams) Seed() int64 { return r.seed }

func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}
