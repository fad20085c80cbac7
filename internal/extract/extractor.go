package extract

import (
	"errors"

	"github.com/antchfx/xmlquery"

	"github.com/hyperifyio/gostrokes/internal/svgdoc"
)

// ErrNoStrokes is returned when no strategy in the chain finds a stroke.
var ErrNoStrokes = errors.New("no strokes found")

// Stroke is one stroke path in document order. Ordinal is its index in the
// record built from the document.
type Stroke struct {
	Ordinal int
	Data    string
	// node is the tree element the stroke came from, nil when the stroke
	// could not be tied to one.
	node *xmlquery.Node
}

// Node returns the bound tree element, or nil.
func (s Stroke) Node() *xmlquery.Node { return s.node }

// Strategy is one way of locating stroke paths in a document. Implementations
// must be deterministic and return strokes in document order; an empty result
// means "try the next strategy".
type Strategy interface {
	Name() string
	Extract(doc *svgdoc.Document) []Stroke
}

// Result is the answer of a Chain.
type Result struct {
	// Strategy names the strategy that produced the strokes.
	Strategy string
	Strokes  []Stroke
}

// Data returns the path strings in ordinal order.
func (r Result) Data() []string {
	out := make([]string, len(r.Strokes))
	for i, s := range r.Strokes {
		out[i] = s.Data
	}
	return out
}

// Ordinals maps each bound tree element to its stroke ordinal.
func (r Result) Ordinals() map[*xmlquery.Node]int {
	out := make(map[*xmlquery.Node]int, len(r.Strokes))
	for _, s := range r.Strokes {
		if s.node != nil {
			out[s.node] = s.Ordinal
		}
	}
	return out
}

// Chain tries strategies in order and keeps the first non-empty result.
type Chain []Strategy

// DefaultChain scans the raw text first and falls back to a tree query.
var DefaultChain = Chain{TextScan{}, TreeQuery{}}

// Extract runs the chain against doc.
func (c Chain) Extract(doc *svgdoc.Document) (Result, error) {
	for _, s := range c {
		strokes := s.Extract(doc)
		if len(strokes) == 0 {
			continue
		}
		for i := range strokes {
			strokes[i].Ordinal = i
		}
		return Result{Strategy: s.Name(), Strokes: strokes}, nil
	}
	return Result{}, ErrNoStrokes
}
