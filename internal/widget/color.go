package widget

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

var ErrColor = errors.New("invalid color")

// RGBA is a straight-alpha color packed as 0xRRGGBBAA.
type RGBA uint32

const White RGBA = 0xffffffff

func (c RGBA) NRGBA() color.NRGBA {
	return color.NRGBA{
		R: uint8(c >> 24),
		G: uint8(c >> 16),
		B: uint8(c >> 8),
		A: uint8(c),
	}
}

// Hex drops the alpha channel, terminals can't blend.
func (c RGBA) Hex() string {
	return fmt.Sprintf("#%06x", uint32(c)>>8)
}

// ParseHex accepts "rrggbb" or "rrggbbaa" with an optional leading '#'.
// Six digit colors are opaque.
func ParseHex(s string) (RGBA, error) {
	digits := strings.TrimPrefix(s, "#")
	if len(digits) != 6 && len(digits) != 8 {
		return 0, fmt.Errorf("%w: %q must have 6 or 8 hex digits", ErrColor, s)
	}

	v, err := strconv.ParseUint(digits, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %w", ErrColor, s, err)
	}

	if len(digits) == 6 {
		return RGBA(v<<8 | 0xff), nil
	}
	return RGBA(v), nil
}
