// Package batch drives conversion across a glyph index. Every item yields an
// explicit Outcome; the run never aborts on a per-item failure.
package batch

import (
	"path/filepath"

	"github.com/hyperifyio/gostrokes/internal/glyphindex"
)

// Kind distinguishes the standard rendering of a glyph from its stylistic
// variant.
type Kind string

const (
	KindStandard Kind = "standard"
	KindVariant  Kind = "variant"
)

// Item is one source document to convert.
type Item struct {
	Key  string `json:"key"`
	Kind Kind   `json:"kind"`
	// Src is the path of the source document.
	Src string `json:"src"`
	// Out is the output file name, relative to the output directory.
	Out string `json:"out"`
}

// Options control planning.
type Options struct {
	// SrcDir is joined with each index filename.
	SrcDir string
	// Marker selects variant filenames; defaults to glyphindex.DefaultVariantMarker.
	Marker string
	// Suffix is appended to the key for variant output names; defaults to
	// the marker.
	Suffix string
}

// Plan lists the items for ix in index order: per glyph the standard
// candidate first, then the variant.
func Plan(ix *glyphindex.Index, opts Options) []Item {
	marker := opts.Marker
	if marker == "" {
		marker = glyphindex.DefaultVariantMarker
	}
	suffix := opts.Suffix
	if suffix == "" {
		suffix = marker
	}
	var items []Item
	for _, e := range ix.Entries {
		c := glyphindex.Classify(e.Files, marker)
		if c.Standard != "" {
			items = append(items, Item{
				Key:  e.Key,
				Kind: KindStandard,
				Src:  filepath.Join(opts.SrcDir, c.Standard),
				Out:  e.Key + ".json",
			})
		}
		if c.Variant != "" {
			items = append(items, Item{
				Key:  e.Key,
				Kind: KindVariant,
				Src:  filepath.Join(opts.SrcDir, c.Variant),
				Out:  e.Key + suffix + ".json",
			})
		}
	}
	return items
}
