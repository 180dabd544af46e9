package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/tapcard/internal/card"
)

// createTestStore opens a fresh registry in a temp directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// mustInsert inserts a card and fails the test on error.
func mustInsert(t *testing.T, s *Store, ident card.Identifier, name string, color card.Color) card.ID {
	t.Helper()
	id, err := s.Insert(context.Background(), ident, name, color, nil)
	require.NoError(t, err)
	return id
}
