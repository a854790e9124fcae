package colour

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// ErrInvalidColorCode is returned for malformed hex colour codes and RGB tuples.
var ErrInvalidColorCode = errors.New("invalid colour code")

// InvalidColorCodeError describes a colour code that could not be decoded.
type InvalidColorCodeError struct {
	Input  string
	Reason string
}

func (e *InvalidColorCodeError) Error() string {
	return fmt.Sprintf("%s %q: %s", ErrInvalidColorCode.Error(), e.Input, e.Reason)
}

func (e *InvalidColorCodeError) Unwrap() error { return ErrInvalidColorCode }

// Point is a colour in continuous RGB space. Channels are not clamped, so
// query colours outside [0, 255] are compared as given.
type Point struct {
	R, G, B float64
}

// String returns the point as "(r, g, b)".
func (p Point) String() string {
	return fmt.Sprintf("(%g, %g, %g)", p.R, p.G, p.B)
}

// Distance returns the Euclidean distance between two points in RGB space.
func Distance(a, b Point) float64 {
	return floats.Distance([]float64{a.R, a.G, a.B}, []float64{b.R, b.G, b.B}, 2)
}

// ParseHex decodes a six digit hex colour code, optionally prefixed with '#'.
// Short forms such as "#f00" are rejected.
func ParseHex(code string) (RGB, error) {
	s := strings.TrimPrefix(strings.TrimSpace(code), "#")
	if len(s) != 6 {
		return RGB{}, &InvalidColorCodeError{Input: code, Reason: "expected 6 hex digits"}
	}

	var channels [3]uint8
	for i := range channels {
		v, err := strconv.ParseUint(s[i*2:i*2+2], 16, 8)
		if err != nil {
			return RGB{}, &InvalidColorCodeError{Input: code, Reason: "non-hex characters"}
		}
		channels[i] = uint8(v)
	}

	return RGB{R: channels[0], G: channels[1], B: channels[2]}, nil
}

// ParseRGB decodes an "r,g,b" tuple. Values may be fractional and are not
// clamped to [0, 255].
func ParseRGB(tuple string) (Point, error) {
	parts := strings.Split(tuple, ",")
	if len(parts) != 3 {
		return Point{}, &InvalidColorCodeError{Input: tuple, Reason: "expected r,g,b"}
	}

	var channels [3]float64
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return Point{}, &InvalidColorCodeError{Input: tuple, Reason: fmt.Sprintf("invalid channel %q", part)}
		}
		channels[i] = v
	}

	return Point{R: channels[0], G: channels[1], B: channels[2]}, nil
}

// clampChannel rounds v to the nearest integer and clamps it to [0, 255].
func clampChannel(v float64) uint8 {
	v = math.Round(v)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
