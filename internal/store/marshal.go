package store

import (
	"database/sql"
	"fmt"

	"github.com/roach88/tapcard/internal/card"
)

// cardColumns is the select list shared by every card query.
const cardColumns = `id, identifier, name, color, texture`

// encodeColor maps ARGB to the signed 32-bit value kept in the color column.
func encodeColor(c card.Color) int64 {
	return int64(int32(uint32(c)))
}

// decodeColor reverses encodeColor. Values written by other tools as
// unsigned are accepted too, since only the low 32 bits matter.
func decodeColor(v int64) card.Color {
	return card.Color(uint32(v))
}

// encodeTexture stores an absent texture as an empty blob, never NULL.
func encodeTexture(t []byte) []byte {
	if t == nil {
		return []byte{}
	}
	return t
}

// scanCard scans one row selected with cardColumns.
func scanCard(scanner interface{ Scan(...any) error }) (card.Card, error) {
	var (
		c       card.Card
		id      int64
		ident   []byte
		name    sql.NullString
		color   sql.NullInt64
		texture []byte
	)
	if err := scanner.Scan(&id, &ident, &name, &color, &texture); err != nil {
		return card.Card{}, fmt.Errorf("scan card: %w", err)
	}

	c.ID = card.ID(id)
	c.Identifier = card.Identifier(ident).Clone()
	c.Name = name.String
	c.Color = decodeColor(color.Int64)
	c.Texture = card.CloneTexture(texture)
	return c, nil
}
