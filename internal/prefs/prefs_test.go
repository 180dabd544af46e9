package prefs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tapcard/internal/card"
	"github.com/roach88/tapcard/internal/selection"
)

var _ selection.Cell = (*File)(nil)

func TestOpen_MissingFileIsEmpty(t *testing.T) {
	f, err := Open(filepath.Join(t.TempDir(), "prefs.yaml"))
	require.NoError(t, err)

	_, ok, err := f.ReadSelectedID()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestOpen_EmptyPath(t *testing.T) {
	_, err := Open("")
	assert.Error(t, err)
}

func TestOpen_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.yaml")
	require.NoError(t, os.WriteFile(path, []byte("selected_card_id: [not, a, number"), 0o600))

	_, err := Open(path)
	assert.Error(t, err)
}

func TestWriteRead_RoundTripAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "prefs.yaml")
	f, err := Open(path)
	require.NoError(t, err)

	require.NoError(t, f.WriteSelectedID(42))

	other, err := Open(path)
	require.NoError(t, err)
	id, ok, err := other.ReadSelectedID()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, card.ID(42), id)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "selected_card_id: 42\n", string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.yaml")
	f, err := Open(path)
	require.NoError(t, err)

	require.NoError(t, f.ClearSelectedID(), "clearing an empty file is a no-op")
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	require.NoError(t, f.WriteSelectedID(3))
	require.NoError(t, f.ClearSelectedID())

	_, ok, err := f.ReadSelectedID()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSelectedIDZeroIsAValue(t *testing.T) {
	f, err := Open(filepath.Join(t.TempDir(), "prefs.yaml"))
	require.NoError(t, err)

	require.NoError(t, f.WriteSelectedID(0))
	id, ok, err := f.ReadSelectedID()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, card.ID(0), id)
}
