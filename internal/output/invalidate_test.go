package output

import (
	"os"
	"path/filepath"
	"testing"
)

func TestClearDir(t *testing.T) {
	t.Parallel()
	dir := filepath.Join(t.TempDir(), "out")
	w := &Writer{Dir: dir}
	if _, err := w.Write("a.json", []byte("{}")); err != nil {
		t.Fatal(err)
	}
	if err := ClearDir(dir); err != nil {
		t.Fatalf("clear: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("dir should exist after clear: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("entries = %d, want 0", len(entries))
	}
	if err := ClearDir("  "); err == nil {
		t.Fatal("expected error for blank dir")
	}
}

func TestPurgeTemp(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	for _, name := range []string{".a.json.tmp-123", ".b.json.tmp-9", "c.json", ".hidden"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	n, err := PurgeTemp(dir)
	if err != nil {
		t.Fatalf("purge: %v", err)
	}
	if n != 2 {
		t.Fatalf("removed = %d, want 2", n)
	}
	if _, err := os.Stat(filepath.Join(dir, "c.json")); err != nil {
		t.Fatalf("c.json should remain: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, ".hidden")); err != nil {
		t.Fatalf(".hidden should remain: %v", err)
	}
}

func TestPurgeTemp_MissingDir(t *testing.T) {
	t.Parallel()
	n, err := PurgeTemp(filepath.Join(t.TempDir(), "nope"))
	if err != nil || n != 0 {
		t.Fatalf("PurgeTemp = %d, %v", n, err)
	}
}
