package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tapcard/internal/card"
)

func TestOpen_CreatesNewDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	_, err = os.Stat(path)
	assert.NoError(t, err, "database file was not created")
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	for i := 0; i < 3; i++ {
		s, err := Open(path)
		require.NoError(t, err, "Open() iteration %d", i)
		if i == 0 {
			_, err := s.Insert(context.Background(), card.Identifier{1, 2}, "kept", 0, nil)
			require.NoError(t, err)
		}
		s.Close()
	}

	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	cards, err := s.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, cards, 1, "data must survive reopening")
	assert.Equal(t, "kept", cards[0].Name)
}

func TestOpen_InvalidPath(t *testing.T) {
	_, err := Open("/nonexistent/dir/test.db")
	assert.Error(t, err)
}

func TestOpen_RejectsNewerSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := Open(path)
	require.NoError(t, err)
	_, err = s.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion+1))
	require.NoError(t, err)
	s.Close()

	_, err = Open(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "newer than supported")
}

func TestOpen_SchemaLayout(t *testing.T) {
	s := createTestStore(t)

	rows, err := s.db.Query("PRAGMA table_info(cards)")
	require.NoError(t, err)
	defer rows.Close()

	type column struct {
		typ     string
		notNull bool
		pk      bool
	}
	got := map[string]column{}
	for rows.Next() {
		var (
			cid      int
			name     string
			typ      string
			notNull  int
			defValue sql.NullString
			pk       int
		)
		require.NoError(t, rows.Scan(&cid, &name, &typ, &notNull, &defValue, &pk))
		got[name] = column{typ: typ, notNull: notNull == 1, pk: pk == 1}
	}
	require.NoError(t, rows.Err())

	assert.Equal(t, map[string]column{
		"id":         {typ: "INTEGER", pk: true},
		"identifier": {typ: "BLOB", notNull: true},
		"name":       {typ: "TEXT"},
		"color":      {typ: "INTEGER"},
		"texture":    {typ: "BLOB"},
	}, got)
}

func TestOpen_Pragmas(t *testing.T) {
	s := createTestStore(t)

	assert.NoError(t, s.verifyPragma("journal_mode", "wal"))
	assert.NoError(t, s.verifyPragma("busy_timeout", "5000"))
	assert.NoError(t, s.verifyPragma("user_version", fmt.Sprintf("%d", currentSchemaVersion)))
}

func TestClose_NilDB(t *testing.T) {
	s := &Store{db: nil}
	assert.NoError(t, s.Close())
}

func TestClose_MultipleCalls(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := Open(path)
	require.NoError(t, err)

	assert.NoError(t, s.Close())
	_ = s.Close() // must not panic
}

func TestClosedStore_ReturnsStorageFault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	ctx := context.Background()

	_, err = s.ListAll(ctx)
	assert.True(t, card.IsStorageFault(err), "ListAll: %v", err)

	_, err = s.Insert(ctx, card.Identifier{1}, "x", 0, nil)
	assert.True(t, card.IsStorageFault(err), "Insert: %v", err)

	err = s.Update(ctx, 1, "x", 0, nil)
	assert.True(t, card.IsStorageFault(err), "Update: %v", err)

	err = s.Delete(ctx, 1)
	assert.True(t, card.IsStorageFault(err), "Delete: %v", err)

	_, err = s.Get(ctx, 1)
	assert.True(t, card.IsStorageFault(err), "Get: %v", err)
}
