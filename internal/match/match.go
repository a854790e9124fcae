// Package match finds indexed images whose palettes contain a colour close to
// a query colour.
package match

import (
	"errors"
	"fmt"
	"math"

	"github.com/jmylchreest/huefind/internal/colour"
	"github.com/jmylchreest/huefind/internal/index"
)

// DefaultThreshold is the default maximum RGB distance for a palette colour
// to count as a match.
const DefaultThreshold = 60.0

// ErrInvalidThreshold is returned for negative or non-finite thresholds.
var ErrInvalidThreshold = errors.New("invalid threshold")

// ValidateThreshold checks that threshold is finite and non-negative.
func ValidateThreshold(threshold float64) error {
	if math.IsNaN(threshold) || math.IsInf(threshold, 0) || threshold < 0 {
		return fmt.Errorf("%w: %v (must be a finite number >= 0)", ErrInvalidThreshold, threshold)
	}
	return nil
}

// Match returns the identifiers of images with at least one palette colour
// within threshold of query, in index order. A nil or empty index yields
// index.ErrIndexUnavailable; an index with no matching image yields an empty,
// non-nil slice.
func Match(idx *index.Index, query colour.Point, threshold float64) ([]string, error) {
	if err := ValidateThreshold(threshold); err != nil {
		return nil, err
	}
	if idx.Len() == 0 {
		return nil, index.ErrIndexUnavailable
	}

	matches := []string{}
	for id, palette := range idx.All() {
		if Contains(palette, query, threshold) {
			matches = append(matches, id)
		}
	}
	return matches, nil
}

// Contains reports whether any colour in palette lies within threshold of
// query. It stops at the first such colour.
func Contains(palette colour.Palette, query colour.Point, threshold float64) bool {
	for _, c := range palette {
		if colour.Distance(query, c.Point()) <= threshold {
			return true
		}
	}
	return false
}
