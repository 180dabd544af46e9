package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/tapcard/internal/card"
	"github.com/roach88/tapcard/internal/pubsub"
)

// Insert stores a new card and returns its freshly allocated id.
//
// Only the identifier is validated here (it must be non-empty). The name is
// stored as given; enforcing a non-empty name is the caller's job. A nil
// texture is stored as an empty blob.
func (s *Store) Insert(ctx context.Context, identifier card.Identifier, name string, color card.Color, texture []byte) (card.ID, error) {
	if len(identifier) == 0 {
		return 0, fmt.Errorf("insert card: %w", card.ErrEmptyIdentifier)
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO cards (identifier, name, color, texture)
		VALUES (?, ?, ?, ?)
	`,
		[]byte(identifier),
		name,
		encodeColor(color),
		encodeTexture(texture),
	)
	if err != nil {
		return 0, card.StorageFault("insert card", err)
	}

	rawID, err := result.LastInsertId()
	if err != nil {
		return 0, card.StorageFault("insert card", err)
	}
	id := card.ID(rawID)

	s.broker.Publish(pubsub.CreatedEvent, card.Card{
		ID:         id,
		Identifier: identifier.Clone(),
		Name:       name,
		Color:      color,
		Texture:    card.CloneTexture(texture),
	})

	return id, nil
}

// Update replaces name, color and texture of an existing card. The
// identifier column is never written.
//
// Returns NOT_FOUND if no card has the id. Writing values identical to the
// stored ones is still a success.
func (s *Store) Update(ctx context.Context, id card.ID, name string, color card.Color, texture []byte) error {
	// RETURNING keeps the existence check and the write in one statement.
	var ident []byte
	err := s.db.QueryRowContext(ctx, `
		UPDATE cards
		SET name = ?, color = ?, texture = ?
		WHERE id = ?
		RETURNING identifier
	`,
		name,
		encodeColor(color),
		encodeTexture(texture),
		int64(id),
	).Scan(&ident)
	if errors.Is(err, sql.ErrNoRows) {
		return card.NotFound("update card", id)
	}
	if err != nil {
		return card.StorageFault("update card", err)
	}

	s.broker.Publish(pubsub.UpdatedEvent, card.Card{
		ID:         id,
		Identifier: card.Identifier(ident).Clone(),
		Name:       name,
		Color:      color,
		Texture:    card.CloneTexture(texture),
	})

	return nil
}

// Delete permanently removes a card. Deleting an id that does not exist is
// not an error.
func (s *Store) Delete(ctx context.Context, id card.ID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM cards WHERE id = ?`, int64(id))
	if err != nil {
		return card.StorageFault("delete card", err)
	}

	if n, err := result.RowsAffected(); err == nil && n > 0 {
		s.broker.Publish(pubsub.DeletedEvent, card.Card{ID: id})
	}

	return nil
}
