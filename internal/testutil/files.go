package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteSourceFile creates a Baa source file with the given content inside a
// fresh temporary directory and returns its path.
func WriteSourceFile(t *testing.T, content string) string {
	t.Helper()
	return WriteSourceFileInDir(t, t.TempDir(), "test.ب", content)
}

// WriteSourceFileInDir creates a source file with the given name and content
// in dir, creating dir if needed.
func WriteSourceFileInDir(t *testing.T, dir, filename, content string) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("failed to create directory: %v", err)
	}
	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to create source file: %v", err)
	}
	return path
}

// WriteSourceFileBytes writes raw bytes (for encoding tests with BOMs).
func WriteSourceFileBytes(t *testing.T, dir, filename string, content []byte) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("failed to create directory: %v", err)
	}
	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("failed to create source file: %v", err)
	}
	return path
}
