package export

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestCopy(t *testing.T) {
	src := t.TempDir()
	dst := filepath.Join(t.TempDir(), "matched_images")
	for name, content := range map[string]string{"a.png": "alpha", "b.jpg": "bravo"} {
		if err := os.WriteFile(filepath.Join(src, name), []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	report, err := Copy(context.Background(), src, dst, []string{"a.png", "missing.png", "../b.jpg", "b.jpg"})
	if err != nil {
		t.Fatalf("Copy() error: %v", err)
	}

	if !slices.Equal(report.Copied, []string{"a.png", "b.jpg"}) {
		t.Errorf("Copied = %v, want [a.png b.jpg]", report.Copied)
	}
	if len(report.Failures) != 2 {
		t.Fatalf("Failures = %v, want 2", report.Failures)
	}
	if report.Failures[0].ID != "missing.png" || !errors.Is(report.Failures[0], fs.ErrNotExist) {
		t.Errorf("Failures[0] = %v, want missing.png not found", report.Failures[0])
	}
	if report.Failures[1].ID != "../b.jpg" {
		t.Errorf("Failures[1] = %v, want ../b.jpg", report.Failures[1])
	}

	data, err := os.ReadFile(filepath.Join(dst, "b.jpg"))
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	if string(data) != "bravo" {
		t.Errorf("copied content = %q, want bravo", data)
	}
}

func TestCopyCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Copy(ctx, t.TempDir(), t.TempDir(), []string{"a.png"}); !errors.Is(err, context.Canceled) {
		t.Errorf("Copy() error = %v, want context.Canceled", err)
	}
}

func TestValidateID(t *testing.T) {
	tests := []struct {
		id      string
		wantErr bool
	}{
		{id: "photo.png"},
		{id: "with space.JPG"},
		{id: "sunset..v2.png"},
		{id: "..hidden.png"},
		{id: "", wantErr: true},
		{id: "..", wantErr: true},
		{id: "../photo.png", wantErr: true},
		{id: "sub/photo.png", wantErr: true},
		{id: `sub\photo.png`, wantErr: true},
		{id: "/etc/passwd", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			if err := validateID(tt.id); (err != nil) != tt.wantErr {
				t.Errorf("validateID(%q) error = %v, wantErr %v", tt.id, err, tt.wantErr)
			}
		})
	}
}
