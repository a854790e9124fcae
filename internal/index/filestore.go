package index

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ulikunitz/xz"
)

// maxIndexSize bounds how much decompressed data Load will read.
const maxIndexSize = 512 * 1024 * 1024

// FileStore keeps the index in a single JSON file. Paths ending in ".xz" are
// xz-compressed.
type FileStore struct {
	path string
}

// NewFileStore creates a FileStore for path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Location returns the file path.
func (s *FileStore) Location() string {
	return s.path
}

func (s *FileStore) compressed() bool {
	return strings.EqualFold(filepath.Ext(s.path), ".xz")
}

// Persist writes the index to a temporary file next to the target and
// renames it into place.
func (s *FileStore) Persist(ctx context.Context, idx *Index) error {
	if err := ctx.Err(); err != nil {
		return &PersistenceError{Location: s.path, Err: err}
	}
	if idx == nil {
		return &PersistenceError{Location: s.path, Err: errors.New("index is nil")}
	}
	if err := s.writeAtomic(idx); err != nil {
		return &PersistenceError{Location: s.path, Err: err}
	}
	return nil
}

func (s *FileStore) writeAtomic(idx *Index) (err error) {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil { // #nosec G301 - Index directory needs standard permissions
		return fmt.Errorf("failed to create index directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err := s.encode(tmp, idx); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("failed to sync index file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close index file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil { // #nosec G302 - Index file needs standard read permissions
		return fmt.Errorf("failed to set index file permissions: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace index file: %w", err)
	}
	return nil
}

func (s *FileStore) encode(w io.Writer, idx *Index) error {
	data, err := json.Marshal(idx)
	if err != nil {
		return fmt.Errorf("failed to encode index: %w", err)
	}
	data = append(data, '\n')

	if !s.compressed() {
		if _, err := w.Write(data); err != nil {
			return fmt.Errorf("failed to write index: %w", err)
		}
		return nil
	}

	xzw, err := xz.NewWriter(w)
	if err != nil {
		return fmt.Errorf("failed to create xz writer: %w", err)
	}
	if _, err := xzw.Write(data); err != nil {
		return fmt.Errorf("failed to write compressed index: %w", err)
	}
	if err := xzw.Close(); err != nil {
		return fmt.Errorf("failed to finish compressed index: %w", err)
	}
	return nil
}

// Load reads the index file. A missing file or an empty index yields
// ErrIndexUnavailable.
func (s *FileStore) Load(ctx context.Context) (*Index, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrIndexUnavailable
		}
		return nil, fmt.Errorf("failed to open index file: %w", err)
	}
	defer file.Close()

	var r io.Reader = file
	if s.compressed() {
		xzr, err := xz.NewReader(file)
		if err != nil {
			return nil, fmt.Errorf("failed to create xz reader: %w", err)
		}
		r = xzr
	}

	data, err := io.ReadAll(io.LimitReader(r, maxIndexSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read index file: %w", err)
	}

	idx := New()
	if err := json.Unmarshal(data, idx); err != nil {
		return nil, fmt.Errorf("failed to decode index file %s: %w", s.path, err)
	}
	if idx.Len() == 0 {
		return nil, ErrIndexUnavailable
	}
	return idx, nil
}
