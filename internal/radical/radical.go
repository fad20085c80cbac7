// Package radical decides which strokes of a glyph belong to its radical.
package radical

import (
	"sort"
	"strings"

	"github.com/antchfx/xmlquery"

	"github.com/hyperifyio/gostrokes/internal/extract"
	"github.com/hyperifyio/gostrokes/internal/svgdoc"
)

// Strategy finds the elements of a document that mark radical strokes.
type Strategy interface {
	Name() string
	Match(doc *svgdoc.Document) []*xmlquery.Node
}

// Chain tries strategies in order. The first strategy whose matches resolve
// to at least one stroke wins.
type Chain []Strategy

// DefaultChain looks for radical groups first and falls back to elements
// typed as radicals in a root-declared namespace.
var DefaultChain = Chain{GroupElement{}, NamespacedType{}}

// Classify returns the ascending, duplicate-free ordinals of the radical
// strokes in res, and the name of the strategy that found them. Both are
// zero values when nothing matched.
func (c Chain) Classify(doc *svgdoc.Document, res extract.Result) ([]int, string) {
	if doc == nil || doc.Root == nil || len(res.Strokes) == 0 {
		return []int{}, ""
	}
	r := newResolver(res)
	for _, s := range c {
		if idx := r.resolve(s.Match(doc)); len(idx) > 0 {
			return idx, s.Name()
		}
	}
	return []int{}, ""
}

// Classify runs DefaultChain.
func Classify(doc *svgdoc.Document, res extract.Result) []int {
	idx, _ := DefaultChain.Classify(doc, res)
	return idx
}

// resolver maps matched elements to stroke ordinals. Elements bound at
// extraction time resolve to their own ordinal; unbound elements fall back to
// the first stroke with identical path data.
type resolver struct {
	byNode map[*xmlquery.Node]int
	byText map[string]int
}

func newResolver(res extract.Result) *resolver {
	r := &resolver{
		byNode: res.Ordinals(),
		byText: make(map[string]int, len(res.Strokes)),
	}
	for _, s := range res.Strokes {
		if _, ok := r.byText[s.Data]; !ok {
			r.byText[s.Data] = s.Ordinal
		}
	}
	return r
}

func (r *resolver) resolve(nodes []*xmlquery.Node) []int {
	seen := map[int]bool{}
	out := []int{}
	for _, n := range nodes {
		i, ok := r.byNode[n]
		if !ok {
			d := svgdoc.PathData(n)
			if d == "" {
				continue
			}
			if i, ok = r.byText[d]; !ok {
				continue
			}
		}
		if !seen[i] {
			seen[i] = true
			out = append(out, i)
		}
	}
	sort.Ints(out)
	return out
}

// GroupElement matches path-bearing descendants of any element whose
// "element" attribute contains "rad", ignoring case.
type GroupElement struct{}

func (GroupElement) Name() string { return "group-element" }

func (GroupElement) Match(doc *svgdoc.Document) []*xmlquery.Node {
	var out []*xmlquery.Node
	for _, g := range doc.Elements() {
		v, ok := svgdoc.LocalAttr(g, "element")
		if !ok || !strings.Contains(strings.ToLower(v), "rad") {
			continue
		}
		for _, n := range svgdoc.Descendants(g) {
			if svgdoc.PathData(n) != "" {
				out = append(out, n)
			}
		}
	}
	return out
}

// NamespacedType matches elements carrying a "type" attribute, in one of the
// namespaces observed on the root, whose value contains "radical", ignoring
// case. Unprefixed attributes are in no namespace and never match.
type NamespacedType struct{}

func (NamespacedType) Name() string { return "namespaced-type" }

func (NamespacedType) Match(doc *svgdoc.Document) []*xmlquery.Node {
	var out []*xmlquery.Node
	for _, ns := range doc.Namespaces() {
		for _, n := range doc.Elements() {
			for _, a := range n.Attr {
				if a.Name.Local != "type" || !inNamespace(a, ns) {
					continue
				}
				if strings.Contains(strings.ToLower(a.Value), "radical") {
					out = append(out, n)
					break
				}
			}
		}
	}
	return out
}

func inNamespace(a xmlquery.Attr, ns svgdoc.Namespace) bool {
	if a.Name.Space == "" || a.Name.Space == "xmlns" {
		return false
	}
	if ns.Prefix != "" && a.Name.Space == ns.Prefix {
		return true
	}
	return ns.URI != "" && (a.NamespaceURI == ns.URI || a.Name.Space == ns.URI)
}
