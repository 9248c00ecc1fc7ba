package fileutil

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func writeString(s string) func(io.Writer) error {
	return func(w io.Writer) error {
		_, err := io.WriteString(w, s)
		return err
	}
}

func TestWriteAtomic(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "user_data.csv")

	if err := WriteAtomic(testFile, 0o644, writeString("alice,pw,0,0,500\n")); err != nil {
		t.Fatalf("WriteAtomic failed: %v", err)
	}

	data, err := os.ReadFile(testFile)
	if err != nil {
		t.Fatalf("Failed to read file: %v", err)
	}
	if string(data) != "alice,pw,0,0,500\n" {
		t.Errorf("File content mismatch: got %q", string(data))
	}

	info, err := os.Stat(testFile)
	if err != nil {
		t.Fatalf("Failed to stat file: %v", err)
	}
	if info.Mode().Perm() != 0o644 {
		t.Errorf("File permissions mismatch: got %o, want %o", info.Mode().Perm(), 0o644)
	}

	entries, err := os.ReadDir(tmpDir)
	if err != nil {
		t.Fatalf("Failed to read dir: %v", err)
	}
	for _, entry := range entries {
		if entry.Name() != "user_data.csv" {
			t.Errorf("Unexpected file in directory: %s", entry.Name())
		}
	}
}

func TestWriteAtomicOverwrite(t *testing.T) {
	t.Parallel()

	testFile := filepath.Join(t.TempDir(), "user_data.csv")

	if err := WriteAtomic(testFile, 0o644, writeString("initial")); err != nil {
		t.Fatalf("Initial write failed: %v", err)
	}
	if err := WriteAtomic(testFile, 0o644, writeString("updated content")); err != nil {
		t.Fatalf("Overwrite failed: %v", err)
	}

	data, err := os.ReadFile(testFile)
	if err != nil {
		t.Fatalf("Failed to read file: %v", err)
	}
	if string(data) != "updated content" {
		t.Errorf("File content mismatch: got %q", string(data))
	}
}

func TestWriteAtomicCallbackErrorKeepsOriginal(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "user_data.csv")

	if err := WriteAtomic(testFile, 0o644, writeString("original")); err != nil {
		t.Fatalf("Initial write failed: %v", err)
	}

	boom := errors.New("boom")
	err := WriteAtomic(testFile, 0o644, func(w io.Writer) error {
		_, _ = io.WriteString(w, "half")
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Expected wrapped callback error, got %v", err)
	}

	data, err := os.ReadFile(testFile)
	if err != nil {
		t.Fatalf("Failed to read file: %v", err)
	}
	if string(data) != "original" {
		t.Errorf("Original content replaced: got %q", string(data))
	}

	entries, _ := os.ReadDir(tmpDir)
	if len(entries) != 1 {
		t.Errorf("Temp file left behind: %d entries", len(entries))
	}
}

func TestWriteAtomicInvalidDir(t *testing.T) {
	t.Parallel()

	err := WriteAtomic("/nonexistent/dir/test.txt", 0o644, writeString("data"))
	if err == nil {
		t.Error("Expected error when writing to non-existent directory")
	}
}
