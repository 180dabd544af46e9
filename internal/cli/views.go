package cli

import (
	"fmt"
	"strings"

	"github.com/roach88/tapcard/internal/card"
)

// cardView is the printable form of a card.
type cardView struct {
	ID           int64  `json:"id"`
	Identifier   string `json:"identifier"`
	Name         string `json:"name"`
	Color        string `json:"color"`
	TextureBytes int    `json:"texture_bytes"`
	Active       bool   `json:"active"`
}

func newCardView(c card.Card, active bool) cardView {
	return cardView{
		ID:           int64(c.ID),
		Identifier:   c.Identifier.String(),
		Name:         c.Name,
		Color:        c.Color.String(),
		TextureBytes: len(c.Texture),
		Active:       active,
	}
}

func (v cardView) row() string {
	return fmt.Sprintf("%4d  %-20s  %-20s  %s", v.ID, v.Name, v.Identifier, v.Color)
}

func (v cardView) String() string {
	active := "no"
	if v.Active {
		active = "yes"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "ID:         %d\n", v.ID)
	fmt.Fprintf(&b, "Name:       %s\n", v.Name)
	fmt.Fprintf(&b, "Identifier: %s\n", v.Identifier)
	fmt.Fprintf(&b, "Color:      %s\n", v.Color)
	fmt.Fprintf(&b, "Texture:    %d bytes\n", v.TextureBytes)
	fmt.Fprintf(&b, "Active:     %s", active)
	return b.String()
}

// listView groups the registry into the active card and the rest.
type listView struct {
	Active    *cardView  `json:"active"`
	Available []cardView `json:"available"`
}

func newListView(active *card.Card, available []card.Card) listView {
	v := listView{Available: make([]cardView, 0, len(available))}
	if active != nil {
		a := newCardView(*active, true)
		v.Active = &a
	}
	for _, c := range available {
		v.Available = append(v.Available, newCardView(c, false))
	}
	return v
}

func (v listView) String() string {
	var b strings.Builder
	b.WriteString("Active\n")
	if v.Active == nil {
		b.WriteString("  none\n")
	} else {
		b.WriteString(v.Active.row() + "\n")
	}
	b.WriteString("Available")
	if len(v.Available) == 0 {
		b.WriteString("\n  none")
	}
	for _, c := range v.Available {
		b.WriteString("\n" + c.row())
	}
	return b.String()
}

// activeView is the answer to "which card is active".
type activeView struct {
	Active *cardView `json:"active"`
}

func (v activeView) String() string {
	if v.Active == nil {
		return "none"
	}
	return v.Active.String()
}

// deletedView reports a delete.
type deletedView struct {
	ID               int64 `json:"id"`
	SelectionCleared bool  `json:"selection_cleared"`
}

func (v deletedView) String() string {
	if v.SelectionCleared {
		return fmt.Sprintf("deleted card %d (was active)", v.ID)
	}
	return fmt.Sprintf("deleted card %d", v.ID)
}
