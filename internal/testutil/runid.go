package testutil

import (
	"fmt"
	"sync"
)

// FixedRunIDs returns predetermined run IDs in order.
//
// Implements hooks.RunIDGenerator. Golden traces embed run IDs, so tests
// need them to be stable.
//
// Thread-safety: FixedRunIDs is safe for concurrent use via internal mutex.
type FixedRunIDs struct {
	mu  sync.Mutex
	ids []string
	idx int
}

// NewFixedRunIDs creates a generator returning ids in order. With no ids it
// returns "test-run-1", "test-run-2", ... forever.
func NewFixedRunIDs(ids ...string) *FixedRunIDs {
	return &FixedRunIDs{ids: ids}
}

// Generate returns the next run ID.
//
// Panics when an explicit list is exhausted: the test started more runs than
// it declared.
func (g *FixedRunIDs) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.idx++
	if len(g.ids) == 0 {
		return fmt.Sprintf("test-run-%d", g.idx)
	}
	if g.idx > len(g.ids) {
		panic("FixedRunIDs: all run IDs exhausted")
	}
	return g.ids[g.idx-1]
}
