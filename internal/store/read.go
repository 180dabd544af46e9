package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/roach88/tapcard/internal/card"
)

// ListAll returns every card ordered by id. Order carries no meaning beyond
// stability; callers may re-sort.
//
// Returns an empty slice (not nil) if the registry is empty. On failure no
// partial result is returned.
func (s *Store) ListAll(ctx context.Context) ([]card.Card, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+cardColumns+`
		FROM cards
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, card.StorageFault("list cards", err)
	}
	defer rows.Close()

	cards := []card.Card{}
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, card.StorageFault("list cards", err)
		}
		cards = append(cards, c)
	}

	if err := rows.Err(); err != nil {
		return nil, card.StorageFault("list cards", err)
	}

	return cards, nil
}

// Get returns the card with the given id, or a NOT_FOUND error.
func (s *Store) Get(ctx context.Context, id card.ID) (card.Card, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+cardColumns+`
		FROM cards
		WHERE id = ?
	`, int64(id))

	c, err := scanCard(row)
	if errors.Is(err, sql.ErrNoRows) {
		return card.Card{}, card.NotFound("get card", id)
	}
	if err != nil {
		return card.Card{}, card.StorageFault("get card", err)
	}
	return c, nil
}

// Count returns the number of stored cards.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM cards`).Scan(&n); err != nil {
		return 0, card.StorageFault("count cards", err)
	}
	return n, nil
}
