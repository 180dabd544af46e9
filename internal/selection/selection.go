// Package selection tracks which card is active and pushes its identifier to
// the component that programs the emulated tag.
//
// The selection is a weak reference: the stored id is not cleaned up when
// the card is deleted, it is simply reported as "none" on the next read.
package selection

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/roach88/tapcard/internal/card"
)

// Cell stores the selected card id.
type Cell interface {
	ReadSelectedID() (id card.ID, ok bool, err error)
	WriteSelectedID(id card.ID) error
	ClearSelectedID() error
}

// Lookup resolves an id against the registry. *store.Store satisfies it.
type Lookup interface {
	Get(ctx context.Context, id card.ID) (card.Card, error)
}

// Broadcaster applies an identifier to the active reader/emulator.
type Broadcaster interface {
	ApplyIdentifier(ctx context.Context, identifier card.Identifier) error
}

// Selector ties the cell, the registry and the broadcaster together.
type Selector struct {
	cell        Cell
	lookup      Lookup
	broadcaster Broadcaster
	logger      *slog.Logger
}

// NewSelector creates a Selector. A nil logger means slog.Default().
func NewSelector(cell Cell, lookup Lookup, broadcaster Broadcaster, logger *slog.Logger) *Selector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Selector{cell: cell, lookup: lookup, broadcaster: broadcaster, logger: logger}
}

// GetSelected returns the selected id. ok is false when nothing is selected
// or the selected card no longer exists.
func (s *Selector) GetSelected(ctx context.Context) (card.ID, bool, error) {
	c, ok, err := s.Selected(ctx)
	if err != nil || !ok {
		return 0, false, err
	}
	return c.ID, true, nil
}

// Selected is GetSelected returning the whole record.
func (s *Selector) Selected(ctx context.Context) (card.Card, bool, error) {
	id, ok, err := s.cell.ReadSelectedID()
	if err != nil {
		return card.Card{}, false, card.StorageFault("read selection", err)
	}
	if !ok {
		return card.Card{}, false, nil
	}

	c, err := s.lookup.Get(ctx, id)
	if card.IsNotFound(err) {
		s.logger.Debug("selected card no longer exists", "card_id", id)
		return card.Card{}, false, nil
	}
	if err != nil {
		return card.Card{}, false, fmt.Errorf("resolve selection: %w", err)
	}
	return c, true, nil
}

// Select makes id the active card and broadcasts its identifier.
//
// Returns NOT_FOUND if the card does not exist. Broadcasting is fire and
// forget: a broadcaster failure is logged and does not fail Select.
func (s *Selector) Select(ctx context.Context, id card.ID) error {
	c, err := s.lookup.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("select card: %w", err)
	}

	if err := s.cell.WriteSelectedID(id); err != nil {
		return card.StorageFault("write selection", err)
	}
	s.logger.Info("card selected", "card_id", id, "name", c.Name)

	if s.broadcaster != nil {
		if err := s.broadcaster.ApplyIdentifier(ctx, c.Identifier); err != nil {
			s.logger.Warn("apply identifier failed", "card_id", id, "identifier", c.Identifier, "error", err)
		}
	}
	return nil
}

// Clear removes the selection.
func (s *Selector) Clear() error {
	if err := s.cell.ClearSelectedID(); err != nil {
		return card.StorageFault("clear selection", err)
	}
	return nil
}

// Group splits cards into the active one (nil if none) and the rest,
// preserving order.
func Group(cards []card.Card, selected card.ID, hasSelection bool) (*card.Card, []card.Card) {
	var active *card.Card
	available := make([]card.Card, 0, len(cards))
	for i := range cards {
		if hasSelection && active == nil && cards[i].ID == selected {
			c := cards[i]
			active = &c
			continue
		}
		available = append(available, cards[i])
	}
	return active, available
}

// MemoryCell is an in-process Cell.
type MemoryCell struct {
	mu  sync.Mutex
	id  card.ID
	set bool
}

// ReadSelectedID implements Cell.
func (m *MemoryCell) ReadSelectedID() (card.ID, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.id, m.set, nil
}

// WriteSelectedID implements Cell.
func (m *MemoryCell) WriteSelectedID(id card.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.id, m.set = id, true
	return nil
}

// ClearSelectedID implements Cell.
func (m *MemoryCell) ClearSelectedID() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.id, m.set = 0, false
	return nil
}
