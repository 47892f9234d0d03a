package testutil

import (
	"fmt"
	"sync"
)

// FixedRunIDGenerator returns predetermined run identifiers.
//
// Run IDs end up in JSON output and run history, so tests use fixed IDs to
// keep both byte-stable. Once the provided IDs are used up the generator
// falls back to "test-run-<n>".
//
// Thread-safety: safe for concurrent use via internal mutex.
type FixedRunIDGenerator struct {
	mu  sync.Mutex
	ids []string
	n   int
}

// NewFixedRunIDGenerator creates a generator that returns ids in order.
//
//	gen := NewFixedRunIDGenerator("run-a")
//	gen.Generate() // "run-a"
//	gen.Generate() // "test-run-2"
func NewFixedRunIDGenerator(ids ...string) *FixedRunIDGenerator {
	return &FixedRunIDGenerator{ids: ids}
}

// Generate returns the next run identifier.
func (g *FixedRunIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	if g.n <= len(g.ids) {
		return g.ids[g.n-1]
	}
	return fmt.Sprintf("test-run-%d", g.n)
}
