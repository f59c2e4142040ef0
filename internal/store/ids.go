package store

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// UUIDv7Generator generates time-sortable UUIDv7 run ids.
//
// Thread-safety: UUIDv7Generator is stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate creates a new UUIDv7 and returns it as a hyphenated string.
//
// Panics if UUID generation fails (should never happen in practice).
func (g UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// SequentialIDGenerator numbers runs "run-1", "run-2", ... for stores whose
// contents must be reproducible, such as the conformance harness's
// in-memory store.
//
// Thread-safety: SequentialIDGenerator is safe for concurrent use.
type SequentialIDGenerator struct {
	n atomic.Int64
}

// Generate returns the next run id.
func (g *SequentialIDGenerator) Generate() string {
	return fmt.Sprintf("run-%d", g.n.Add(1))
}
