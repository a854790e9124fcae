package colour

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

func fillRect(img *image.NRGBA, rect image.Rectangle, fill color.NRGBA) {
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			img.SetNRGBA(x, y, fill)
		}
	}
}

func uniformImage(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	fillRect(img, img.Bounds(), c)
	return img
}

// stripedImage builds a 100x100 image of equal vertical stripes. At the
// sample size resampling is an identity, so only the stripe colours exist.
func stripedImage(colours ...color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, DefaultSampleSize, DefaultSampleSize))
	width := DefaultSampleSize / len(colours)
	for i, c := range colours {
		maxX := (i + 1) * width
		if i == len(colours)-1 {
			maxX = DefaultSampleSize
		}
		fillRect(img, image.Rect(i*width, 0, maxX, DefaultSampleSize), c)
	}
	return img
}

// gradientImage builds a noisy gradient with many distinct colours.
func gradientImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x * 255 / w),
				G: uint8(y * 255 / h),
				B: uint8((x*7 + y*13) % 256),
				A: 255,
			})
		}
	}
	return img
}

func TestKMeansExtractDeterministic(t *testing.T) {
	tests := []struct {
		name string
		opts ExtractorOptions
	}{
		{name: "fixed seed", opts: DefaultExtractorOptions()},
		{name: "other fixed seed", opts: ExtractorOptions{Seed: 7, SeedMode: SeedModeFixed}},
		{name: "content seed", opts: ExtractorOptions{SeedMode: SeedModeContent}},
	}

	img := gradientImage(320, 240)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first, err := NewKMeansExtractor(tt.opts).Extract(img)
			if err != nil {
				t.Fatalf("Extract() error: %v", err)
			}
			second, err := NewKMeansExtractor(tt.opts).Extract(img)
			if err != nil {
				t.Fatalf("Extract() error: %v", err)
			}
			if !first.Equal(second) {
				t.Errorf("Extract() not deterministic: %v vs %v", first, second)
			}
		})
	}
}

func TestKMeansExtractPaletteSize(t *testing.T) {
	tests := []struct {
		name string
		img  image.Image
	}{
		{name: "gradient", img: gradientImage(640, 480)},
		{name: "small gradient", img: gradientImage(7, 3)},
		{name: "six stripes", img: stripedImage(
			color.NRGBA{R: 255, A: 255},
			color.NRGBA{G: 255, A: 255},
			color.NRGBA{B: 255, A: 255},
			color.NRGBA{R: 255, G: 255, A: 255},
			color.NRGBA{G: 255, B: 255, A: 255},
			color.NRGBA{R: 255, B: 255, A: 255},
		)},
		{name: "uniform", img: uniformImage(64, 64, color.NRGBA{R: 10, G: 20, B: 30, A: 255})},
		{name: "single pixel", img: uniformImage(1, 1, color.NRGBA{R: 200, A: 255})},
	}

	extractor := NewKMeansExtractor(DefaultExtractorOptions())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			palette, err := extractor.Extract(tt.img)
			if err != nil {
				t.Fatalf("Extract() error: %v", err)
			}
			if err := palette.Validate(); err != nil {
				t.Errorf("Extract() palette invalid: %v", err)
			}
		})
	}
}

func TestKMeansExtractFindsStripeColours(t *testing.T) {
	stripes := []RGB{
		{R: 255},
		{G: 255},
		{B: 255},
		{R: 255, G: 255, B: 255},
		{},
	}
	colours := make([]color.NRGBA, len(stripes))
	for i, s := range stripes {
		colours[i] = color.NRGBA{R: s.R, G: s.G, B: s.B, A: 255}
	}

	palette, err := NewKMeansExtractor(DefaultExtractorOptions()).Extract(stripedImage(colours...))
	if err != nil {
		t.Fatalf("Extract() error: %v", err)
	}

	for _, want := range stripes {
		if _, dist := palette.Nearest(want.Point()); dist != 0 {
			t.Errorf("palette %v missing stripe colour %s (nearest at %.2f)", palette, want.Hex(), dist)
		}
	}
}

func TestKMeansExtractDegenerate(t *testing.T) {
	t.Run("uniform colour", func(t *testing.T) {
		red := RGB{R: 255}
		palette, err := NewKMeansExtractor(DefaultExtractorOptions()).Extract(uniformImage(37, 53, color.NRGBA{R: 255, A: 255}))
		if err != nil {
			t.Fatalf("Extract() error: %v", err)
		}
		if palette.Len() != PaletteSize {
			t.Fatalf("Extract() returned %d colours, want %d", palette.Len(), PaletteSize)
		}
		for i, c := range palette {
			if d := Distance(c.Point(), red.Point()); d > 2 {
				t.Errorf("palette[%d] = %s, want approximately %s", i, c.Hex(), red.Hex())
			}
		}
	})

	t.Run("two colours", func(t *testing.T) {
		black := color.NRGBA{A: 255}
		white := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
		palette, err := NewKMeansExtractor(DefaultExtractorOptions()).Extract(stripedImage(black, white))
		if err != nil {
			t.Fatalf("Extract() error: %v", err)
		}
		want := Palette{{}, {R: 255, G: 255, B: 255}, {}, {R: 255, G: 255, B: 255}, {}}
		if !palette.Equal(want) {
			t.Errorf("Extract() = %v, want %v", palette, want)
		}
	})
}

func TestKMeansExtractEmptyImage(t *testing.T) {
	extractor := NewKMeansExtractor(DefaultExtractorOptions())

	if _, err := extractor.Extract(nil); !errors.Is(err, ErrEmptyImage) {
		t.Errorf("Extract(nil) error = %v, want ErrEmptyImage", err)
	}
	if _, err := extractor.Extract(image.NewNRGBA(image.Rect(0, 0, 0, 0))); !errors.Is(err, ErrEmptyImage) {
		t.Errorf("Extract(empty) error = %v, want ErrEmptyImage", err)
	}
}

func TestResample(t *testing.T) {
	img := Resample(gradientImage(400, 250), DefaultSampleSize)
	if got := img.Bounds(); got.Dx() != DefaultSampleSize || got.Dy() != DefaultSampleSize {
		t.Errorf("Resample() bounds = %v, want %dx%d", got, DefaultSampleSize, DefaultSampleSize)
	}

	src := gradientImage(DefaultSampleSize, DefaultSampleSize)
	same := Resample(src, DefaultSampleSize)
	if string(same.Pix) != string(src.Pix) {
		t.Error("Resample() at the native size changed pixel data")
	}
}

func TestExtractorOptionsValidate(t *testing.T) {
	tests := []struct {
		name    string
		opts    ExtractorOptions
		wantErr bool
	}{
		{name: "defaults", opts: DefaultExtractorOptions()},
		{name: "content mode", opts: ExtractorOptions{SeedMode: SeedModeContent, SampleSize: 50, MaxIterations: 10}},
		{name: "bad mode", opts: ExtractorOptions{SeedMode: "random", SampleSize: 100, MaxIterations: 10}, wantErr: true},
		{name: "zero sample size", opts: ExtractorOptions{SeedMode: SeedModeFixed, MaxIterations: 10}, wantErr: true},
		{name: "zero iterations", opts: ExtractorOptions{SeedMode: SeedModeFixed, SampleSize: 100}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			_, err = NewExtractor(tt.opts)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewExtractor() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
