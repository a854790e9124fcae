package index

import (
	"context"
	"fmt"
	"slices"
)

// Store persists and loads a whole index as one artifact.
type Store interface {
	// Persist replaces the stored index. Readers never observe a partially
	// written index; on failure the previous one is kept.
	Persist(ctx context.Context, idx *Index) error
	// Load returns the stored index, or ErrIndexUnavailable if none exists.
	Load(ctx context.Context) (*Index, error)
	// Location describes where the index is stored.
	Location() string
}

// StoreKind selects a Store implementation.
type StoreKind string

const (
	// StoreFile stores the index as a JSON file, xz-compressed for ".xz" paths.
	StoreFile StoreKind = "file"
	// StoreSQLite stores the index in an SQLite database.
	StoreSQLite StoreKind = "sqlite"
)

// ValidStoreKinds returns the supported store kinds.
func ValidStoreKinds() []StoreKind {
	return []StoreKind{StoreFile, StoreSQLite}
}

// OpenStore returns the store of the given kind at path.
func OpenStore(kind StoreKind, path string) (Store, error) {
	if path == "" {
		return nil, fmt.Errorf("index path cannot be empty")
	}
	switch kind {
	case StoreFile:
		return NewFileStore(path), nil
	case StoreSQLite:
		return NewSQLiteStore(path), nil
	default:
		return nil, fmt.Errorf("unknown store: %s (valid stores: %v)", kind, ValidStoreKinds())
	}
}

// IsValidStoreKind checks if the given store kind is supported.
func IsValidStoreKind(kind StoreKind) bool {
	return slices.Contains(ValidStoreKinds(), kind)
}
