// Package glyphindex reads the glyph file index: a JSON object mapping each
// glyph key to the filenames of its source documents.
package glyphindex

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// ErrUnreadable is returned when the index cannot be read or decoded.
var ErrUnreadable = errors.New("glyph index unreadable")

// DefaultVariantMarker marks a stylistic-variant filename.
const DefaultVariantMarker = "-Kaisho"

// Entry is one glyph and its candidate filenames, in index order.
type Entry struct {
	Key   string
	Files []string
}

// Index preserves the key order of the source object.
type Index struct {
	Entries []Entry
}

// Len returns the number of glyphs.
func (ix *Index) Len() int { return len(ix.Entries) }

// Head returns an index holding the first n entries. A negative n or one past
// the end returns every entry.
func (ix *Index) Head(n int) *Index {
	if n < 0 || n >= len(ix.Entries) {
		return &Index{Entries: ix.Entries}
	}
	return &Index{Entries: ix.Entries[:n]}
}

// Tail returns an index holding the entries after the first n.
func (ix *Index) Tail(n int) *Index {
	if n < 0 {
		n = 0
	}
	if n >= len(ix.Entries) {
		return &Index{}
	}
	return &Index{Entries: ix.Entries[n:]}
}

// Load reads the index at path.
func Load(path string) (*Index, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnreadable, err)
	}
	return Parse(b)
}

// Parse decodes an index object. Keys are NFC-normalized; when two keys
// normalize to the same form their file lists are merged under the first.
func Parse(b []byte) (*Index, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnreadable, err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("%w: top level is not an object", ErrUnreadable)
	}
	ix := &Index{}
	pos := map[string]int{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUnreadable, err)
		}
		key, _ := tok.(string)
		var files []string
		if err := dec.Decode(&files); err != nil {
			return nil, fmt.Errorf("%w: key %q: %w", ErrUnreadable, key, err)
		}
		key = norm.NFC.String(key)
		if i, ok := pos[key]; ok {
			ix.Entries[i].Files = append(ix.Entries[i].Files, files...)
			continue
		}
		pos[key] = len(ix.Entries)
		ix.Entries = append(ix.Entries, Entry{Key: key, Files: files})
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnreadable, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: trailing data after index object", ErrUnreadable)
	}
	return ix, nil
}

// Candidates is the selection for one glyph. Empty strings mean no
// candidate.
type Candidates struct {
	Standard string
	Variant  string
}

// Classify splits filenames by the variant marker. When several files fall
// in one class the last one wins. An empty marker selects
// DefaultVariantMarker.
func Classify(files []string, marker string) Candidates {
	if marker == "" {
		marker = DefaultVariantMarker
	}
	var c Candidates
	for _, f := range files {
		if f == "" {
			continue
		}
		if strings.Contains(f, marker) {
			c.Variant = f
		} else {
			c.Standard = f
		}
	}
	return c
}
