package output

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestWriter_WriteAndReplace(t *testing.T) {
	t.Parallel()
	dir := filepath.Join(t.TempDir(), "out")
	w := &Writer{Dir: dir}
	p, err := w.Write("一.json", []byte(`{"a":1}`))
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if p != filepath.Join(dir, "一.json") {
		t.Fatalf("path = %s", p)
	}
	if _, err := w.Write("一.json", []byte(`{"a":2}`)); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	b, err := os.ReadFile(p)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(b) != `{"a":2}` {
		t.Fatalf("content = %s", b)
	}
	info, err := os.Stat(p)
	if err != nil {
		t.Fatal(err)
	}
	if got := info.Mode() & 0o777; got != 0o644 {
		t.Fatalf("file mode = %o, want 0644", got)
	}
}

func TestWriter_LeavesNoTempFiles(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	w := &Writer{Dir: dir}
	for _, name := range []string{"a.json", "b.json", "a-Kaisho.json"} {
		if _, err := w.Write(name, []byte("{}")); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 3 {
		t.Fatalf("entries = %d, want 3", len(entries))
	}
	for _, e := range entries {
		if IsTemp(e.Name()) {
			t.Fatalf("temp file left behind: %s", e.Name())
		}
	}
}

func TestWriter_RejectsBadNames(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	w := &Writer{Dir: dir}
	for _, name := range []string{"", ".", "..", "a/b.json", `a\b.json`, ".x.json.tmp-1"} {
		if _, err := w.Write(name, []byte("{}")); !errors.Is(err, ErrBadName) {
			t.Errorf("Write(%q) err = %v, want ErrBadName", name, err)
		}
	}
}

func TestWriter_FailureLeavesNothing(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	// A directory in the way makes the rename fail.
	if err := os.Mkdir(filepath.Join(dir, "x.json"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "x.json", "keep"), []byte("k"), 0o644); err != nil {
		t.Fatal(err)
	}
	w := &Writer{Dir: dir}
	if _, err := w.Write("x.json", []byte("{}")); err == nil {
		t.Fatal("expected error")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if IsTemp(e.Name()) {
			t.Fatalf("temp file left behind: %s", e.Name())
		}
	}
}

func TestWriter_UnconfiguredDir(t *testing.T) {
	t.Parallel()
	if _, err := (&Writer{}).Write("a.json", nil); err == nil {
		t.Fatal("expected error for empty dir")
	}
}
