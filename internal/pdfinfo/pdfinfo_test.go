package pdfinfo

import (
	"os"
	"path/filepath"
	"testing"
)

func TestReadMissingFile(t *testing.T) {
	_, err := Read("/nonexistent/file.pdf")
	if err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestReadNotAPDF(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fake.pdf")
	if err := os.WriteFile(path, []byte("not a pdf"), 0o644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	_, err := Read(path)
	if err == nil {
		t.Error("Expected error for non-PDF content")
	}
}

func TestReadEmptyFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.pdf")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	_, err := Read(path)
	if err == nil {
		t.Error("Expected error for empty file")
	}
}
