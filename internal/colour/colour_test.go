package colour

import (
	"errors"
	"math"
	"testing"
)

func TestParseHex(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    RGB
		wantErr bool
	}{
		{name: "red with hash", input: "#FF0000", want: RGB{R: 255}},
		{name: "green lowercase", input: "00ff00", want: RGB{G: 255}},
		{name: "mixed case", input: "#1a2B3c", want: RGB{R: 0x1a, G: 0x2b, B: 0x3c}},
		{name: "surrounding whitespace", input: "  #0000ff ", want: RGB{B: 255}},
		{name: "too short", input: "xyz", wantErr: true},
		{name: "short form", input: "#f00", wantErr: true},
		{name: "too long", input: "#ff00000", wantErr: true},
		{name: "non hex", input: "#gg0000", wantErr: true},
		{name: "sign", input: "+f0000", wantErr: true},
		{name: "empty", input: "", wantErr: true},
		{name: "only hash", input: "#", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseHex(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseHex(%q) = %v, want error", tt.input, got)
				}
				if !errors.Is(err, ErrInvalidColorCode) {
					t.Errorf("ParseHex(%q) error = %v, want ErrInvalidColorCode", tt.input, err)
				}
				var codeErr *InvalidColorCodeError
				if !errors.As(err, &codeErr) || codeErr.Input != tt.input {
					t.Errorf("ParseHex(%q) error = %#v, want InvalidColorCodeError with input", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseHex(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseHex(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseRGB(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Point
		wantErr bool
	}{
		{name: "integers", input: "250,10,10", want: Point{R: 250, G: 10, B: 10}},
		{name: "spaces and floats", input: " 1.5, 2 ,3.25", want: Point{R: 1.5, G: 2, B: 3.25}},
		{name: "out of range kept", input: "300,-5,0", want: Point{R: 300, G: -5, B: 0}},
		{name: "two channels", input: "1,2", wantErr: true},
		{name: "not a number", input: "a,b,c", wantErr: true},
		{name: "nan", input: "NaN,0,0", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRGB(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidColorCode) {
					t.Fatalf("ParseRGB(%q) error = %v, want ErrInvalidColorCode", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseRGB(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseRGB(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestDistance(t *testing.T) {
	tests := []struct {
		name string
		a, b Point
		want float64
	}{
		{name: "identical", a: Point{R: 10, G: 20, B: 30}, b: Point{R: 10, G: 20, B: 30}, want: 0},
		{name: "single axis", a: Point{}, b: Point{R: 60}, want: 60},
		{name: "pythagorean", a: Point{}, b: Point{R: 3, G: 4}, want: 5},
		{name: "black to white", a: Point{}, b: Point{R: 255, G: 255, B: 255}, want: math.Sqrt(3 * 255 * 255)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Distance(tt.a, tt.b); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Distance() = %v, want %v", got, tt.want)
			}
			if got := Distance(tt.b, tt.a); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Distance() reversed = %v, want %v", got, tt.want)
			}
		})
	}
}
