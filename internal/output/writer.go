// Package output writes converted records into the output directory.
package output

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrBadName is returned for output names that are not a single path element.
var ErrBadName = errors.New("bad output name")

const tempMarker = ".tmp-"

// Writer places files in Dir atomically: a reader sees either the complete
// file or no file at all.
type Writer struct {
	Dir string
	// StrictPerms, when true, enforces 0700 on the output directory and 0600
	// on files.
	StrictPerms bool
}

func (w *Writer) ensureDir() error {
	if w == nil || w.Dir == "" {
		return errors.New("output dir not configured")
	}
	perm := os.FileMode(0o755)
	if w.StrictPerms {
		perm = 0o700
	}
	if err := os.MkdirAll(w.Dir, perm); err != nil {
		return err
	}
	// If directory already existed and StrictPerms is on, tighten perms
	if w.StrictPerms {
		if info, err := os.Stat(w.Dir); err == nil && info.Mode()&0o777 != 0o700 {
			_ = os.Chmod(w.Dir, 0o700)
		}
	}
	return nil
}

// Path returns the final location of name.
func (w *Writer) Path(name string) string {
	return filepath.Join(w.Dir, name)
}

// Write stores data under name via a temp file in the same directory and a
// rename. It returns the final path.
func (w *Writer) Write(name string, data []byte) (string, error) {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) || strings.Contains(name, tempMarker) {
		return "", fmt.Errorf("%w: %q", ErrBadName, name)
	}
	if err := w.ensureDir(); err != nil {
		return "", err
	}
	mode := os.FileMode(0o644)
	if w.StrictPerms {
		mode = 0o600
	}
	f, err := os.CreateTemp(w.Dir, "."+name+tempMarker+"*")
	if err != nil {
		return "", err
	}
	tmp := f.Name()
	fail := func(err error) (string, error) {
		_ = f.Close()
		_ = os.Remove(tmp)
		return "", err
	}
	if _, err := f.Write(data); err != nil {
		return fail(err)
	}
	if err := f.Chmod(mode); err != nil {
		return fail(err)
	}
	if err := f.Sync(); err != nil {
		return fail(err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return "", err
	}
	dst := w.Path(name)
	if err := os.Rename(tmp, dst); err != nil {
		_ = os.Remove(tmp)
		return "", err
	}
	return dst, nil
}
