package index

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/jmylchreest/huefind/internal/colour"

	_ "modernc.org/sqlite"
)

const createPalettesTable = `
CREATE TABLE IF NOT EXISTS palettes (
	position INTEGER NOT NULL,
	id       TEXT    NOT NULL PRIMARY KEY,
	colours  TEXT    NOT NULL
);`

// SQLiteStore keeps the index in an SQLite database. Each Persist replaces
// every row in one transaction.
type SQLiteStore struct {
	path string
}

// NewSQLiteStore creates an SQLiteStore for the database at path.
func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

// Location returns the database path.
func (s *SQLiteStore) Location() string {
	return s.path
}

func openSQLite(ctx context.Context, path string) (*sql.DB, error) {
	database, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, pragma := range pragmas {
		if _, err := database.ExecContext(ctx, pragma); err != nil {
			database.Close()
			return nil, fmt.Errorf("apply sqlite pragma %q: %w", pragma, err)
		}
	}

	return database, nil
}

// Persist replaces the stored index.
func (s *SQLiteStore) Persist(ctx context.Context, idx *Index) error {
	if err := ctx.Err(); err != nil {
		return &PersistenceError{Location: s.path, Err: err}
	}
	if idx == nil {
		return &PersistenceError{Location: s.path, Err: errors.New("index is nil")}
	}
	if err := s.persist(ctx, idx); err != nil {
		return &PersistenceError{Location: s.path, Err: err}
	}
	return nil
}

func (s *SQLiteStore) persist(ctx context.Context, idx *Index) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil { // #nosec G301 - Index directory needs standard permissions
		return fmt.Errorf("create db directory: %w", err)
	}

	database, err := openSQLite(ctx, s.path)
	if err != nil {
		return err
	}
	defer database.Close()

	if _, err := database.ExecContext(ctx, createPalettesTable); err != nil {
		return fmt.Errorf("create palettes table: %w", err)
	}

	tx, err := database.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.ExecContext(ctx, "DELETE FROM palettes"); err != nil {
		return fmt.Errorf("clear palettes: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO palettes (position, id, colours) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, e := range idx.Entries() {
		colours, err := json.Marshal(e.Palette)
		if err != nil {
			return fmt.Errorf("encode palette for %s: %w", e.ID, err)
		}
		if _, err := stmt.ExecContext(ctx, i, e.ID, string(colours)); err != nil {
			return fmt.Errorf("insert palette for %s: %w", e.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Load reads the stored index. A missing database, table or an empty table
// yields ErrIndexUnavailable.
func (s *SQLiteStore) Load(ctx context.Context) (*Index, error) {
	if _, err := os.Stat(s.path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrIndexUnavailable
		}
		return nil, fmt.Errorf("failed to stat index database: %w", err)
	}

	database, err := openSQLite(ctx, s.path)
	if err != nil {
		return nil, err
	}
	defer database.Close()

	var tables int
	err = database.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'palettes'").Scan(&tables)
	if err != nil {
		return nil, fmt.Errorf("check palettes table: %w", err)
	}
	if tables == 0 {
		return nil, ErrIndexUnavailable
	}

	rows, err := database.QueryContext(ctx, "SELECT id, colours FROM palettes ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("query palettes: %w", err)
	}
	defer rows.Close()

	idx := New()
	for rows.Next() {
		var id, colours string
		if err := rows.Scan(&id, &colours); err != nil {
			return nil, fmt.Errorf("scan palette row: %w", err)
		}
		var palette colour.Palette
		if err := json.Unmarshal([]byte(colours), &palette); err != nil {
			return nil, fmt.Errorf("decode palette for %s: %w", id, err)
		}
		if err := idx.add(id, palette); err != nil {
			return nil, err
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate palettes: %w", err)
	}

	if idx.Len() == 0 {
		return nil, ErrIndexUnavailable
	}
	return idx, nil
}
