// Package index builds, persists and loads the palette index: the mapping
// from image identifier to its extracted palette.
package index

import (
	"bytes"
	"encoding/json"
	"fmt"
	"iter"

	"github.com/jmylchreest/huefind/internal/colour"
)

// Entry is one image in the index.
type Entry struct {
	ID      string
	Palette colour.Palette
}

// Index maps image identifiers to palettes. Iteration follows insertion
// order. An Index is not modified after it has been built or loaded, so it
// is safe for concurrent readers.
type Index struct {
	entries  []Entry
	position map[string]int
}

// New returns an empty index.
func New() *Index {
	return &Index{position: make(map[string]int)}
}

// FromEntries creates an index from entries in order. Duplicate identifiers
// and palettes without exactly colour.PaletteSize colours are rejected.
func FromEntries(entries []Entry) (*Index, error) {
	idx := New()
	for _, e := range entries {
		if err := idx.add(e.ID, e.Palette); err != nil {
			return nil, err
		}
	}
	return idx, nil
}

func (x *Index) add(id string, palette colour.Palette) error {
	if id == "" {
		return fmt.Errorf("image identifier cannot be empty")
	}
	if _, exists := x.position[id]; exists {
		return fmt.Errorf("duplicate image identifier: %s", id)
	}
	if err := palette.Validate(); err != nil {
		return fmt.Errorf("invalid palette for %s: %w", id, err)
	}
	x.position[id] = len(x.entries)
	x.entries = append(x.entries, Entry{ID: id, Palette: append(colour.Palette(nil), palette...)})
	return nil
}

// Len returns the number of images in the index.
func (x *Index) Len() int {
	if x == nil {
		return 0
	}
	return len(x.entries)
}

// Get returns the palette of an image.
func (x *Index) Get(id string) (colour.Palette, bool) {
	if x == nil {
		return nil, false
	}
	i, ok := x.position[id]
	if !ok {
		return nil, false
	}
	return x.entries[i].Palette, true
}

// All returns an iterator over identifiers and palettes in index order.
func (x *Index) All() iter.Seq2[string, colour.Palette] {
	return func(yield func(string, colour.Palette) bool) {
		if x == nil {
			return
		}
		for _, e := range x.entries {
			if !yield(e.ID, e.Palette) {
				return
			}
		}
	}
}

// IDs returns the identifiers in index order.
func (x *Index) IDs() []string {
	ids := make([]string, 0, x.Len())
	for id := range x.All() {
		ids = append(ids, id)
	}
	return ids
}

// Entries returns a copy of the entries in index order.
func (x *Index) Entries() []Entry {
	if x == nil {
		return nil
	}
	return append([]Entry(nil), x.entries...)
}

// Equal reports whether two indexes hold the same entries in the same order.
func (x *Index) Equal(other *Index) bool {
	if x.Len() != other.Len() {
		return false
	}
	for i := range x.Len() {
		a, b := x.entries[i], other.entries[i]
		if a.ID != b.ID || !a.Palette.Equal(b.Palette) {
			return false
		}
	}
	return true
}

// MarshalJSON encodes the index as {"id": [[r,g,b], ...], ...} preserving
// index order.
func (x *Index) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range x.Entries() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.ID)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(e.Palette)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes an index object, keeping the order of its keys.
func (x *Index) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("failed to read index: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("index must be a JSON object")
	}

	decoded := New()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("failed to read image identifier: %w", err)
		}
		id, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected token %v", tok)
		}

		var palette colour.Palette
		if err := dec.Decode(&palette); err != nil {
			return fmt.Errorf("failed to decode palette for %s: %w", id, err)
		}
		if err := decoded.add(id, palette); err != nil {
			return err
		}
	}

	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("failed to read end of index: %w", err)
	}

	*x = *decoded
	return nil
}
