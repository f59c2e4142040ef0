package testutil

import (
	"fmt"
	"sync"
)

// FixedIDGenerator returns predetermined run ids for testing.
//
// This enables deterministic test execution and golden snapshot comparison:
// the same scenario with the same generator records byte-identical runs.
//
// Thread-safety: FixedIDGenerator is safe for concurrent use via internal mutex.
type FixedIDGenerator struct {
	mu  sync.Mutex
	ids []string
	idx int
}

// NewFixedIDGenerator creates a generator that returns ids in order.
//
// Example:
//
//	gen := NewFixedIDGenerator("run-1", "run-2")
//	gen.Generate() // "run-1"
//	gen.Generate() // "run-2"
//	gen.Generate() // panic: all ids exhausted
//
// With no ids the generator counts: "run-1", "run-2", ...
func NewFixedIDGenerator(ids ...string) *FixedIDGenerator {
	return &FixedIDGenerator{ids: ids}
}

// Generate returns the next predetermined id.
//
// Panics if all ids have been consumed. This is a fail-fast approach to
// catch test misconfiguration.
func (g *FixedIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.idx++
	if len(g.ids) == 0 {
		return fmt.Sprintf("run-%d", g.idx)
	}
	if g.idx > len(g.ids) {
		panic("FixedIDGenerator: all ids exhausted")
	}
	return g.ids[g.idx-1]
}
