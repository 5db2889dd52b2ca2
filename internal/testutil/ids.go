package testutil

import (
	"fmt"
	"sync"
)

// SequenceIDs returns predetermined run IDs, then numbered fallbacks.
//
// Unlike uuid.NewV7, the IDs are known up front so tests can look runs up
// in the ledger by ID.
//
// Thread-safety: SequenceIDs is safe for concurrent use via internal mutex.
type SequenceIDs struct {
	mu  sync.Mutex
	ids []string
	n   int
}

// NewSequenceIDs creates a generator that returns ids in order. Once they
// are exhausted it returns "run-<n>".
func NewSequenceIDs(ids ...string) *SequenceIDs {
	return &SequenceIDs{ids: ids}
}

// Generate returns the next ID.
func (g *SequenceIDs) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	if g.n <= len(g.ids) {
		return g.ids[g.n-1]
	}
	return fmt.Sprintf("run-%d", g.n)
}
