// Package export copies matched images out of the source collection.
package export

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Failure records an image that could not be copied.
type Failure struct {
	ID  string
	Err error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("failed to copy %s: %v", f.ID, f.Err)
}

func (f *Failure) Unwrap() error { return f.Err }

// Report summarises a Copy.
type Report struct {
	Copied   []string
	Failures []*Failure
}

// Copy copies each image identifier from srcDir into dstDir, creating dstDir
// if needed. A file that cannot be copied is recorded in the report and does
// not stop the remaining copies.
func Copy(ctx context.Context, srcDir, dstDir string, ids []string) (*Report, error) {
	if dstDir == "" {
		return nil, fmt.Errorf("output directory cannot be empty")
	}
	if err := os.MkdirAll(dstDir, 0o755); err != nil { // #nosec G301 - Output directory needs standard permissions
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	report := &Report{Copied: []string{}}
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if err := validateID(id); err != nil {
			report.Failures = append(report.Failures, &Failure{ID: id, Err: err})
			continue
		}
		if err := copyFile(filepath.Join(srcDir, id), filepath.Join(dstDir, id)); err != nil {
			report.Failures = append(report.Failures, &Failure{ID: id, Err: err})
			continue
		}
		report.Copied = append(report.Copied, id)
	}
	return report, nil
}

// validateID rejects identifiers that would escape the output directory.
func validateID(id string) error {
	if id == "" || id == "." {
		return fmt.Errorf("empty image identifier")
	}
	if id == ".." {
		return fmt.Errorf("identifier is a directory traversal (..)")
	}
	if strings.ContainsAny(id, `/\`) || filepath.IsAbs(id) {
		return fmt.Errorf("identifier must be a plain file name")
	}
	return nil
}

func copyFile(src, dst string) error {
	sourceFile, err := os.Open(src) // #nosec G304 - Source path is an indexed image in the collection
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	destFile, err := os.Create(dst) // #nosec G304 - Destination is inside the output directory
	if err != nil {
		return err
	}

	_, copyErr := io.Copy(destFile, sourceFile)
	syncErr := destFile.Sync()
	closeErr := destFile.Close()

	if copyErr != nil {
		return copyErr
	}
	if syncErr != nil {
		return syncErr
	}
	return closeErr
}
