package colour

import (
	"image"
	"image/color"
	"testing"
)

func TestContentSeed(t *testing.T) {
	a := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	b := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	if ContentSeed(a) != ContentSeed(b) {
		t.Error("identical pixels produced different seeds")
	}

	b.SetNRGBA(3, 4, color.NRGBA{R: 1, A: 255})
	if ContentSeed(a) == ContentSeed(b) {
		t.Error("different pixels produced the same seed")
	}

	wide := image.NewNRGBA(image.Rect(0, 0, 20, 5))
	if ContentSeed(a) == ContentSeed(wide) {
		t.Error("different dimensions produced the same seed")
	}

	sub := image.NewNRGBA(image.Rect(0, 0, 20, 20)).SubImage(image.Rect(5, 5, 15, 15)).(*image.NRGBA)
	if ContentSeed(a) != ContentSeed(sub) {
		t.Error("sub-image with the same pixels produced a different seed")
	}
}
