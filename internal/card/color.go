package card

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Color is a 32-bit ARGB value.
type Color uint32

// Palette holds the swatches offered when enrolling or editing a card.
var Palette = map[string]Color{
	"red":    0xFFF44336,
	"pink":   0xFFE91E63,
	"purple": 0xFF9C27B0,
	"indigo": 0xFF3F51B5,
	"blue":   0xFF2196F3,
	"cyan":   0xFF00BCD4,
	"teal":   0xFF009688,
	"green":  0xFF4CAF50,
	"amber":  0xFFFFC107,
	"orange": 0xFFFF9800,
	"brown":  0xFF795548,
	"grey":   0xFF9E9E9E,
}

// DefaultColor is used when no swatch was chosen.
const DefaultColor Color = 0xFF2196F3

// ParseColor accepts "#RRGGBB" (opaque), "#AARRGGBB", "0xAARRGGBB" or a
// Palette name.
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if c, ok := Palette[strings.ToLower(s)]; ok {
		return c, nil
	}

	var digits string
	switch {
	case strings.HasPrefix(s, "#"):
		digits = s[1:]
	case strings.HasPrefix(s, "0x"), strings.HasPrefix(s, "0X"):
		digits = s[2:]
	default:
		return 0, &Error{Code: CodeValidation, Op: "parse color",
			Err: fmt.Errorf("%q is not a hex color or one of %s", s, strings.Join(PaletteNames(), ", "))}
	}

	v, err := strconv.ParseUint(digits, 16, 32)
	if err != nil {
		return 0, &Error{Code: CodeValidation, Op: "parse color", Err: err}
	}
	switch len(digits) {
	case 6:
		return Color(0xFF000000 | uint32(v)), nil
	case 8:
		return Color(v), nil
	default:
		return 0, &Error{Code: CodeValidation, Op: "parse color",
			Err: fmt.Errorf("%q must have 6 or 8 hex digits", s)}
	}
}

// PaletteNames returns the swatch names in sorted order.
func PaletteNames() []string {
	names := make([]string, 0, len(Palette))
	for name := range Palette {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// String renders the color as #AARRGGBB.
func (c Color) String() string {
	return fmt.Sprintf("#%08X", uint32(c))
}

// MarshalText renders the color as #AARRGGBB.
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText accepts anything ParseColor accepts.
func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
