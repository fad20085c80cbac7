// Package record defines the per-glyph stroke record and its JSON encoding.
package record

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hyperifyio/gostrokes/internal/median"
)

// ErrInvalid is returned by Validate for a record that breaks its
// alignment or index invariants.
var ErrInvalid = errors.New("invalid record")

// Record is the converted form of one glyph document. Medians[i] belongs to
// Strokes[i]; RadStrokes holds ascending unique indices into Strokes.
type Record struct {
	Strokes    []string         `json:"strokes"`
	Medians    [][]median.Point `json:"medians"`
	RadStrokes []int            `json:"radStrokes"`
}

// Validate checks the record invariants.
func (r *Record) Validate() error {
	if len(r.Medians) != len(r.Strokes) {
		return fmt.Errorf("%w: %d medians for %d strokes", ErrInvalid, len(r.Medians), len(r.Strokes))
	}
	for i, m := range r.Medians {
		if len(m) < median.MinPoints {
			return fmt.Errorf("%w: stroke %d has %d median points", ErrInvalid, i, len(m))
		}
	}
	seen := make(map[int]bool, len(r.RadStrokes))
	for _, i := range r.RadStrokes {
		if i < 0 || i >= len(r.Strokes) {
			return fmt.Errorf("%w: radical stroke %d out of range", ErrInvalid, i)
		}
		if seen[i] {
			return fmt.Errorf("%w: radical stroke %d repeated", ErrInvalid, i)
		}
		seen[i] = true
	}
	return nil
}

// Marshal encodes the record as 2-space indented JSON without HTML escaping,
// followed by a newline. Nil collections encode as empty arrays.
func Marshal(r *Record) ([]byte, error) {
	out := Record{
		Strokes:    r.Strokes,
		Medians:    r.Medians,
		RadStrokes: r.RadStrokes,
	}
	if out.Strokes == nil {
		out.Strokes = []string{}
	}
	if out.Medians == nil {
		out.Medians = [][]median.Point{}
	}
	if out.RadStrokes == nil {
		out.RadStrokes = []int{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes a record and validates it.
func Unmarshal(b []byte) (*Record, error) {
	var r Record
	if err := json.Unmarshal(b, &r); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &r, nil
}
