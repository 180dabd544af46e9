package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tapcard/internal/card"
	"github.com/roach88/tapcard/internal/pubsub"
)

func TestInsert_AssignsFreshIDs(t *testing.T) {
	s := createTestStore(t)

	id1 := mustInsert(t, s, card.Identifier{1}, "one", 0xFF000001)
	id2 := mustInsert(t, s, card.Identifier{2}, "two", 0xFF000002)

	assert.NotZero(t, id1)
	assert.NotEqual(t, id1, id2)
}

func TestInsert_RejectsEmptyIdentifier(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	_, err := s.Insert(ctx, nil, "name", 0, nil)
	require.Error(t, err)
	assert.True(t, card.IsValidation(err))

	_, err = s.Insert(ctx, card.Identifier{}, "name", 0, nil)
	assert.True(t, card.IsValidation(err))

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n, "rejected inserts must not reach the store")
}

func TestInsert_AllowsEmptyName(t *testing.T) {
	// Name validation belongs to callers; the registry stores what it gets.
	s := createTestStore(t)

	id := mustInsert(t, s, card.Identifier{9}, "", 0)

	got, err := s.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "", got.Name)
	assert.False(t, got.Complete())
}

func TestInsert_NilTextureStoredAsEmpty(t *testing.T) {
	s := createTestStore(t)
	id := mustInsert(t, s, card.Identifier{1}, "a", 0)

	var isNull bool
	require.NoError(t, s.db.QueryRow("SELECT texture IS NULL FROM cards WHERE id = ?", int64(id)).Scan(&isNull))
	assert.False(t, isNull)

	got, err := s.Get(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, got.Texture)
	assert.Empty(t, got.Texture)
}

func TestInsert_TextureRoundTrip(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	id, err := s.Insert(ctx, card.Identifier{1}, "a", 0, []byte{0xDE, 0xAD})
	require.NoError(t, err)

	got, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xDE, 0xAD}, got.Texture)
}

func TestInsert_ColorStoredSigned(t *testing.T) {
	s := createTestStore(t)
	id := mustInsert(t, s, card.Identifier{1}, "a", 0xFF3388FF)

	var raw int64
	require.NoError(t, s.db.QueryRow("SELECT color FROM cards WHERE id = ?", int64(id)).Scan(&raw))
	assert.Equal(t, int64(int32(-13399809)), raw)

	got, err := s.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, card.Color(0xFF3388FF), got.Color)
}

func TestInsert_CallerMutationDoesNotLeak(t *testing.T) {
	s := createTestStore(t)
	ident := card.Identifier{0x04, 0xA1}
	id := mustInsert(t, s, ident, "a", 0)
	ident[0] = 0xFF

	got, err := s.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, card.Identifier{0x04, 0xA1}, got.Identifier)
}

func TestUpdate_ChangesMutableFieldsOnly(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	id := mustInsert(t, s, card.Identifier{0x04, 0xA1, 0xB2, 0xC3}, "Office Badge", 0xFF3388FF)

	require.NoError(t, s.Update(ctx, id, "Work Badge", 0xFF00AA00, []byte{1}))

	got, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, card.Card{
		ID:         id,
		Identifier: card.Identifier{0x04, 0xA1, 0xB2, 0xC3},
		Name:       "Work Badge",
		Color:      0xFF00AA00,
		Texture:    []byte{1},
	}, got)
}

func TestUpdate_NotFound(t *testing.T) {
	s := createTestStore(t)

	err := s.Update(context.Background(), 42, "x", 0, nil)
	require.Error(t, err)
	assert.True(t, card.IsNotFound(err))
	assert.False(t, card.IsStorageFault(err))
}

func TestUpdate_SameValuesIsNotAnError(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	id := mustInsert(t, s, card.Identifier{1}, "same", 0xFF000000)

	require.NoError(t, s.Update(ctx, id, "same", 0xFF000000, nil))
	require.NoError(t, s.Update(ctx, id, "same", 0xFF000000, nil))
}

func TestUpdate_AllowsEmptyName(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	id := mustInsert(t, s, card.Identifier{1}, "named", 0)

	require.NoError(t, s.Update(ctx, id, "", 0, nil))

	got, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "", got.Name)
}

func TestDelete_RemovesRecord(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	keep := mustInsert(t, s, card.Identifier{1}, "keep", 0)
	gone := mustInsert(t, s, card.Identifier{2}, "gone", 0)

	require.NoError(t, s.Delete(ctx, gone))

	cards, err := s.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, keep, cards[0].ID)

	_, err = s.Get(ctx, gone)
	assert.True(t, card.IsNotFound(err))
}

func TestDelete_Idempotent(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	id := mustInsert(t, s, card.Identifier{1}, "a", 0)

	require.NoError(t, s.Delete(ctx, id))
	require.NoError(t, s.Delete(ctx, id), "second delete must not fail")
	require.NoError(t, s.Delete(ctx, 9999), "deleting an unknown id must not fail")
}

func TestDelete_IDsNotReused(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	id1 := mustInsert(t, s, card.Identifier{1}, "a", 0)
	require.NoError(t, s.Delete(ctx, id1))

	id2 := mustInsert(t, s, card.Identifier{1}, "a", 0)
	assert.Greater(t, id2, id1)
}

// TestRegistry_ExampleScenario walks insert, update and delete of one card.
func TestRegistry_ExampleScenario(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	ident := card.Identifier{0x04, 0xA1, 0xB2, 0xC3}

	id, err := s.Insert(ctx, ident, "Office Badge", 0xFF3388FF, nil)
	require.NoError(t, err)
	assert.Equal(t, card.ID(1), id)

	cards, err := s.ListAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []card.Card{{ID: 1, Identifier: ident, Name: "Office Badge", Color: 0xFF3388FF, Texture: []byte{}}}, cards)

	require.NoError(t, s.Update(ctx, 1, "Work Badge", 0xFF00AA00, nil))

	cards, err = s.ListAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []card.Card{{ID: 1, Identifier: ident, Name: "Work Badge", Color: 0xFF00AA00, Texture: []byte{}}}, cards)

	require.NoError(t, s.Delete(ctx, 1))

	cards, err = s.ListAll(ctx)
	require.NoError(t, err)
	assert.NotNil(t, cards)
	assert.Empty(t, cards)
}

func TestSubscribe_ReceivesMutations(t *testing.T) {
	s := createTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events := s.Subscribe(ctx)

	id := mustInsert(t, s, card.Identifier{7}, "a", 0xFF000000)
	require.NoError(t, s.Update(ctx, id, "b", 0xFF111111, nil))
	require.NoError(t, s.Delete(ctx, id))
	require.NoError(t, s.Delete(ctx, id)) // no event for a no-op delete

	want := []struct {
		typ  pubsub.EventType
		name string
	}{
		{pubsub.CreatedEvent, "a"},
		{pubsub.UpdatedEvent, "b"},
		{pubsub.DeletedEvent, ""},
	}
	for _, w := range want {
		select {
		case ev := <-events:
			assert.Equal(t, w.typ, ev.Type)
			assert.Equal(t, id, ev.Payload.ID)
			assert.Equal(t, w.name, ev.Payload.Name)
			if w.typ == pubsub.UpdatedEvent {
				assert.Equal(t, card.Identifier{7}, ev.Payload.Identifier)
			}
		case <-time.After(time.Second):
			t.Fatalf("missing %s event", w.typ)
		}
	}

	select {
	case ev := <-events:
		t.Fatalf("unexpected event %v", ev.Type)
	case <-time.After(20 * time.Millisecond):
	}
}
