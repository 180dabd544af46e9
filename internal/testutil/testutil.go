// Package testutil provides shared fixtures for tapcard tests: deterministic
// session ids, a throwaway registry and a recording broadcaster.
package testutil

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/tapcard/internal/card"
	"github.com/roach88/tapcard/internal/store"
)

// OpenStore opens a registry in a per-test temp directory and closes it on
// cleanup.
func OpenStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "cards.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// RecordingBroadcaster records every identifier it is asked to apply.
// Set Err to make ApplyIdentifier fail.
type RecordingBroadcaster struct {
	mu      sync.Mutex
	applied []card.Identifier
	Err     error
}

// ApplyIdentifier records identifier and returns b.Err.
func (b *RecordingBroadcaster) ApplyIdentifier(_ context.Context, identifier card.Identifier) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.applied = append(b.applied, identifier.Clone())
	return b.Err
}

// Applied returns the identifiers recorded so far.
func (b *RecordingBroadcaster) Applied() []card.Identifier {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]card.Identifier, len(b.applied))
	copy(out, b.applied)
	return out
}
