package card

import (
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// ID is the store-assigned record id. Zero is never a valid id.
type ID int64

// String renders the id in decimal.
func (id ID) String() string {
	return fmt.Sprintf("%d", int64(id))
}

// Identifier is the byte sequence read from a contactless tag.
type Identifier []byte

// ParseIdentifier decodes a hex identifier. An optional 0x prefix and ':', '-'
// or space separators are accepted ("04:A1:B2:C3", "0x04a1b2c3").
func ParseIdentifier(s string) (Identifier, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	s = strings.NewReplacer(":", "", "-", "", " ", "").Replace(s)
	if s == "" {
		return nil, ErrEmptyIdentifier
	}

	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, &Error{Code: CodeValidation, Op: "parse identifier", Err: err}
	}
	return Identifier(b), nil
}

// String renders the identifier as upper-case hex without separators.
func (i Identifier) String() string {
	return strings.ToUpper(hex.EncodeToString(i))
}

// Clone returns an independent copy. A nil identifier clones to nil.
func (i Identifier) Clone() Identifier {
	if i == nil {
		return nil
	}
	out := make(Identifier, len(i))
	copy(out, i)
	return out
}

// Equal reports whether both identifiers hold the same bytes.
func (i Identifier) Equal(other Identifier) bool {
	return string(i) == string(other)
}

// Card is a registry record.
//
// Identifier and ID are never changed after creation. Texture is an opaque
// asset override; absent is an empty slice, never nil.
type Card struct {
	ID         ID         `json:"id"`
	Identifier Identifier `json:"identifier"`
	Name       string     `json:"name"`
	Color      Color      `json:"color"`
	Texture    []byte     `json:"texture,omitempty"`
}

// Clone returns a deep copy so callers cannot mutate shared byte slices.
func (c Card) Clone() Card {
	out := c
	out.Identifier = c.Identifier.Clone()
	out.Texture = CloneTexture(c.Texture)
	return out
}

// Complete reports whether the record has a usable display name.
func (c Card) Complete() bool {
	return NormalizeName(c.Name) != ""
}

// CloneTexture copies a texture, mapping nil to an empty slice.
func CloneTexture(t []byte) []byte {
	out := make([]byte, len(t))
	copy(out, t)
	return out
}

// NormalizeName trims surrounding white space and applies Unicode NFC so that
// visually identical names are stored identically.
func NormalizeName(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}

// MarshalText renders the identifier as hex so JSON output stays readable.
func (i Identifier) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

// UnmarshalText parses hex produced by MarshalText.
func (i *Identifier) UnmarshalText(text []byte) error {
	parsed, err := ParseIdentifier(string(text))
	if err != nil {
		return err
	}
	*i = parsed
	return nil
}
