// Package colour provides colour types, palette extraction and colour distance functions.
package colour

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// PaletteSize is the number of representative colours extracted per image.
// It is fixed so that every palette in an index is structurally comparable.
const PaletteSize = 5

// RGB represents a colour with 8-bit channels.
type RGB struct {
	R uint8
	G uint8
	B uint8
}

// String returns the RGB colour as a string in the format "rgb(r, g, b)".
func (rgb RGB) String() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", rgb.R, rgb.G, rgb.B)
}

// Hex returns the RGB colour as a hex string (e.g., "#1a2b3c").
func (rgb RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", rgb.R, rgb.G, rgb.B)
}

// Point returns the colour as a point in RGB space.
func (rgb RGB) Point() Point {
	return Point{R: float64(rgb.R), G: float64(rgb.G), B: float64(rgb.B)}
}

// MarshalJSON encodes the colour as a [r, g, b] array.
func (rgb RGB) MarshalJSON() ([]byte, error) {
	return json.Marshal([3]int{int(rgb.R), int(rgb.G), int(rgb.B)})
}

// UnmarshalJSON decodes a [r, g, b] array with integer channels in [0, 255].
func (rgb *RGB) UnmarshalJSON(data []byte) error {
	var channels []float64
	if err := json.Unmarshal(data, &channels); err != nil {
		return fmt.Errorf("colour must be an [r, g, b] array: %w", err)
	}
	if len(channels) != 3 {
		return fmt.Errorf("colour must have 3 channels, got %d", len(channels))
	}
	var out [3]uint8
	for i, v := range channels {
		if v != math.Trunc(v) || v < 0 || v > 255 {
			return fmt.Errorf("channel value %v out of range (integer 0-255)", v)
		}
		out[i] = uint8(v)
	}
	*rgb = RGB{R: out[0], G: out[1], B: out[2]}
	return nil
}

// Palette is the ordered set of representative colours summarising one image.
type Palette []RGB

// Len returns the number of colours in the palette.
func (p Palette) Len() int {
	return len(p)
}

// Validate checks that the palette has exactly PaletteSize colours.
func (p Palette) Validate() error {
	if len(p) != PaletteSize {
		return fmt.Errorf("palette must have %d colours, got %d", PaletteSize, len(p))
	}
	return nil
}

// Equal reports whether both palettes hold the same colours in the same order.
func (p Palette) Equal(other Palette) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}

// ToHex converts the palette colours to hex strings.
func (p Palette) ToHex() []string {
	hexColours := make([]string, len(p))
	for i, c := range p {
		hexColours[i] = c.Hex()
	}
	return hexColours
}

// String returns the palette as space separated hex codes.
func (p Palette) String() string {
	return strings.Join(p.ToHex(), " ")
}

// Nearest returns the palette colour closest to q and its distance.
// The second return value is +Inf for an empty palette.
func (p Palette) Nearest(q Point) (RGB, float64) {
	best := math.Inf(1)
	var nearest RGB
	for _, c := range p {
		if d := Distance(q, c.Point()); d < best {
			best = d
			nearest = c
		}
	}
	return nearest, best
}
