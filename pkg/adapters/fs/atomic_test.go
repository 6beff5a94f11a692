package fs

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWriteFileAtomic(t *testing.T) {
	t.Run("Creates New File", func(t *testing.T) {
		tmpDir := t.TempDir()
		filename := filepath.Join(tmpDir, "levels.js")
		content := []byte("export const levels = []")

		if err := WriteFileAtomic(filename, content, 0644); err != nil {
			t.Fatalf("WriteFileAtomic failed: %v", err)
		}

		got, err := os.ReadFile(filename)
		if err != nil {
			t.Fatalf("Failed to read file: %v", err)
		}
		if string(got) != string(content) {
			t.Errorf("Expected %q, got %q", content, got)
		}
	})

	t.Run("Overwrites Existing File", func(t *testing.T) {
		tmpDir := t.TempDir()
		filename := filepath.Join(tmpDir, "levels.js")

		if err := os.WriteFile(filename, []byte("initial"), 0644); err != nil {
			t.Fatalf("Setup failed: %v", err)
		}

		if err := WriteFileAtomic(filename, []byte("overwritten"), 0644); err != nil {
			t.Fatalf("WriteFileAtomic failed: %v", err)
		}

		got, err := os.ReadFile(filename)
		if err != nil {
			t.Fatalf("Failed to read file: %v", err)
		}
		if string(got) != "overwritten" {
			t.Errorf("Expected 'overwritten', got %q", got)
		}
	})

	t.Run("Creates Parent Directories", func(t *testing.T) {
		filename := filepath.Join(t.TempDir(), "src", "data", "levels.js")
		if err := WriteFileAtomic(filename, []byte("x"), 0644); err != nil {
			t.Fatalf("WriteFileAtomic failed: %v", err)
		}
		if _, err := os.Stat(filename); err != nil {
			t.Fatalf("File was not created: %v", err)
		}
	})

	t.Run("Leaves No Temp Files", func(t *testing.T) {
		tmpDir := t.TempDir()
		if err := WriteFileAtomic(filepath.Join(tmpDir, "a.txt"), []byte("a"), 0644); err != nil {
			t.Fatalf("WriteFileAtomic failed: %v", err)
		}
		entries, err := os.ReadDir(tmpDir)
		if err != nil {
			t.Fatal(err)
		}
		if len(entries) != 1 {
			t.Errorf("Expected only the target file, found %d entries", len(entries))
		}
	})
}
