package core

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// ErrInvalidColor is returned when a colour string cannot be parsed.
var ErrInvalidColor = errors.New("invalid color")

// Color is an RGBA colour. A zero alpha on a non-default colour is fully
// transparent.
type Color struct {
	R, G, B, A uint8

	// Default selects the terminal's own colour; R, G, B and A are ignored.
	Default bool
}

// ColorDefault is the terminal's default colour.
var ColorDefault = Color{Default: true}

// RGB returns an opaque colour.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, A: 255}
}

// RGBA returns a colour with alpha.
func RGBA(r, g, b, a uint8) Color {
	return Color{R: r, G: g, B: b, A: a}
}

// FromTriple returns an opaque colour from an [r, g, b] triple, clamping
// each component to 0..255.
func FromTriple(rgb [3]int) Color {
	return RGB(clampByte(rgb[0]), clampByte(rgb[1]), clampByte(rgb[2]))
}

func clampByte(v int) uint8 {
	return uint8(max(0, min(255, v)))
}

// ParseColor parses "#rrggbb", "#rgb", "r,g,b" or "r,g,b,a".
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "#") {
		if len(s) == 4 {
			s = "#" + strings.Repeat(s[1:2], 2) + strings.Repeat(s[2:3], 2) + strings.Repeat(s[3:4], 2)
		}
		c, err := colorful.Hex(s)
		if err != nil {
			return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
		}
		return FromColorful(c), nil
	}

	parts := strings.Split(s, ",")
	if len(parts) != 3 && len(parts) != 4 {
		return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	var v [4]uint8
	v[3] = 255
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < 0 || n > 255 {
			return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
		}
		v[i] = uint8(n)
	}
	return RGBA(v[0], v[1], v[2], v[3]), nil
}

// FromColorful converts an opaque colorful colour.
func FromColorful(c colorful.Color) Color {
	r, g, b := c.Clamped().RGB255()
	return RGB(r, g, b)
}

// Colorful returns the colour without alpha for colour-space arithmetic.
func (c Color) Colorful() colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

// IsDefault reports whether c is the terminal's default colour.
func (c Color) IsDefault() bool {
	return c.Default
}

// Triple returns the [r, g, b] components.
func (c Color) Triple() [3]int {
	return [3]int{int(c.R), int(c.G), int(c.B)}
}

// Hex returns "#rrggbb".
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Over composites c on top of the opaque colour bg.
func (c Color) Over(bg Color) Color {
	if c.Default {
		return bg
	}
	if c.A == 255 || bg.Default {
		return RGB(c.R, c.G, c.B)
	}
	return FromColorful(bg.Colorful().BlendRgb(c.Colorful(), float64(c.A)/255))
}

// Lighten moves c towards white by amount in 0..1.
func (c Color) Lighten(amount float64) Color {
	if c.Default {
		return c
	}
	out := FromColorful(c.Colorful().BlendRgb(colorful.Color{R: 1, G: 1, B: 1}, amount))
	out.A = c.A
	return out
}

// Equals reports whether two colours render the same.
func (c Color) Equals(other Color) bool {
	if c.Default || other.Default {
		return c.Default == other.Default
	}
	return c == other
}

// String returns "default", "#rrggbb" or "#rrggbb/aa".
func (c Color) String() string {
	switch {
	case c.Default:
		return "default"
	case c.A == 255:
		return c.Hex()
	}
	return fmt.Sprintf("%s/%02x", c.Hex(), c.A)
}
