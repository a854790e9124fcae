package colour

import (
	"errors"
	"fmt"
	"image"
	"slices"
)

// ErrEmptyImage is returned when an image has no pixels to analyse.
var ErrEmptyImage = errors.New("image has no pixels")

// Extractor defines the interface for palette extraction.
type Extractor interface {
	// Extract reduces an image to a palette of PaletteSize colours.
	Extract(img image.Image) (Palette, error)
}

// SeedMode determines how the k-means random seed is chosen for each image.
type SeedMode string

const (
	// SeedModeFixed uses the configured seed for every image (default).
	SeedModeFixed SeedMode = "fixed"
	// SeedModeContent derives the seed from a hash of the resampled pixels.
	SeedModeContent SeedMode = "content"
)

const (
	// DefaultSeed matches the seed historically used to build indexes.
	DefaultSeed int64 = 42
	// DefaultSampleSize is the width and height images are resampled to.
	DefaultSampleSize = 100
	// DefaultMaxIterations caps the number of Lloyd iterations.
	DefaultMaxIterations = 300
)

// ValidSeedModes returns the list of valid seed modes.
func ValidSeedModes() []SeedMode {
	return []SeedMode{SeedModeFixed, SeedModeContent}
}

// ParseSeedMode converts a string to a SeedMode.
func ParseSeedMode(s string) (SeedMode, error) {
	mode := SeedMode(s)
	if slices.Contains(ValidSeedModes(), mode) {
		return mode, nil
	}
	return "", fmt.Errorf("invalid seed mode: %s (valid: fixed, content)", s)
}

// ExtractorOptions holds configuration for palette extraction.
type ExtractorOptions struct {
	Seed          int64
	SeedMode      SeedMode
	SampleSize    int
	MaxIterations int
}

// DefaultExtractorOptions returns the default extractor configuration.
func DefaultExtractorOptions() ExtractorOptions {
	return ExtractorOptions{
		Seed:          DefaultSeed,
		SeedMode:      SeedModeFixed,
		SampleSize:    DefaultSampleSize,
		MaxIterations: DefaultMaxIterations,
	}
}

// Validate validates the extractor configuration.
func (o ExtractorOptions) Validate() error {
	if _, err := ParseSeedMode(string(o.SeedMode)); err != nil {
		return err
	}
	if o.SampleSize < 1 {
		return fmt.Errorf("sample size must be at least 1, got %d", o.SampleSize)
	}
	if o.MaxIterations < 1 {
		return fmt.Errorf("max iterations must be at least 1, got %d", o.MaxIterations)
	}
	return nil
}

// NewExtractor creates the k-means extractor for the given options.
func NewExtractor(opts ExtractorOptions) (Extractor, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid extractor options: %w", err)
	}
	return NewKMeansExtractor(opts), nil
}
