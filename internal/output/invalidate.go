package output

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ClearDir removes the directory and all contents. It recreates the directory
// afterwards to leave a valid empty output location.
func ClearDir(dir string) error {
	if strings.TrimSpace(dir) == "" {
		return errors.New("empty dir")
	}
	if err := os.RemoveAll(dir); err != nil {
		return err
	}
	return os.MkdirAll(dir, 0o755)
}

// PurgeTemp removes temp files left in dir by interrupted writes and returns
// how many were removed. A missing dir is not an error.
func PurgeTemp(dir string) (int, error) {
	removed := 0
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) && path == dir {
				return filepath.SkipDir
			}
			return err
		}
		if d.IsDir() {
			if path != dir {
				return filepath.SkipDir
			}
			return nil
		}
		if !IsTemp(d.Name()) {
			return nil
		}
		if err := os.Remove(path); err == nil {
			removed++
		}
		return nil
	})
	return removed, err
}

// IsTemp reports whether name is a temp file created by Writer.Write.
func IsTemp(name string) bool {
	return strings.HasPrefix(name, ".") && strings.Contains(name, tempMarker)
}
