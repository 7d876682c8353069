package mocks

import (
	"fmt"

	"github.com/hmcleod/gamelobby/internal/dependencies/ident"
)

// MockIdent is a mock implementation of ident.Generator for testing.
// It returns queued ids first, then falls back to sequential ids.
type MockIdent struct {
	// QueuedIDs is a queue of ids to return from NewID
	QueuedIDs []string
	queueIdx  int
	seq       int
}

// Ensure MockIdent implements Generator
var _ ident.Generator = (*MockIdent)(nil)

// NewMockIdent creates a new MockIdent
func NewMockIdent() *MockIdent {
	return &MockIdent{}
}

// NewID returns the next queued id, or a sequential "id-N" fallback
func (g *MockIdent) NewID() string {
	if g.queueIdx < len(g.QueuedIDs) {
		id := g.QueuedIDs[g.queueIdx]
		g.queueIdx++
		return id
	}
	g.seq++
	return fmt.Sprintf("id-%d", g.seq)
}

// QueueID adds ids to the result queue
func (g *MockIdent) QueueID(ids ...string) {
	g.QueuedIDs = append(g.QueuedIDs, ids...)
}

// Reset clears all queued ids and the sequence counter
func (g *MockIdent) Reset() {
	g.QueuedIDs = nil
	g.queueIdx = 0
	g.seq = 0
}
