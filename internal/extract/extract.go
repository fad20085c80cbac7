// Package extract locates stroke path data in a glyph document.
//
// Namespace prefixes are declared inconsistently across documents, and a
// strict structural query silently misses elements in those cases. The
// default chain therefore starts with a lenient token scan of the raw text and
// only falls back to querying the parsed tree when the scan finds nothing.
package extract

import (
	"bytes"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/xml"
	"golang.org/x/net/html"

	"github.com/hyperifyio/gostrokes/internal/svgdoc"
)

// TextScan finds <path> start tags, with or without a namespace prefix, and
// takes their d attribute. It never consults namespace declarations.
type TextScan struct{}

func (TextScan) Name() string { return "text-scan" }

func (TextScan) Extract(doc *svgdoc.Document) []Stroke {
	if doc == nil || len(doc.Text) == 0 {
		return nil
	}
	var (
		out    []Stroke
		inPath bool
		data   string
		hasD   bool
	)
	flush := func() {
		if inPath && hasD && data != "" {
			out = append(out, Stroke{Data: data})
		}
		inPath, hasD, data = false, false, ""
	}
	l := xml.NewLexer(parse.NewInputBytes(doc.Text))
	for {
		tt, _ := l.Next()
		switch tt {
		case xml.ErrorToken:
			// io.EOF or a lexing error; either way keep what was found.
			flush()
			return bindToTree(doc, out)
		case xml.StartTagToken:
			flush()
			inPath = isPathTag(l.Text())
		case xml.AttributeToken:
			if inPath && !hasD && string(l.Text()) == "d" {
				data = unquote(l.AttrVal())
				hasD = true
			}
		case xml.StartTagCloseToken, xml.StartTagCloseVoidToken:
			flush()
		}
	}
}

func isPathTag(name []byte) bool {
	if i := bytes.LastIndexByte(name, ':'); i >= 0 {
		name = name[i+1:]
	}
	return string(name) == "path"
}

// unquote strips the quotes and decodes character and entity references, so
// the value matches what the tree parser reports for the same attribute.
func unquote(v []byte) string {
	if len(v) >= 2 && (v[0] == '"' || v[0] == '\'') && v[len(v)-1] == v[0] {
		v = v[1 : len(v)-1]
	}
	s := string(v)
	if strings.IndexByte(s, '&') >= 0 {
		s = html.UnescapeString(s)
	}
	return s
}

// bindToTree ties scanned strokes to tree elements by position. Binding only
// happens when the tree holds exactly the same sequence of path data;
// otherwise the strokes stay unbound.
func bindToTree(doc *svgdoc.Document, strokes []Stroke) []Stroke {
	if len(strokes) == 0 || doc.Root == nil {
		return strokes
	}
	var nodes []*xmlquery.Node
	for _, n := range doc.Elements() {
		if n.Data != "path" {
			continue
		}
		if d := svgdoc.PathData(n); d != "" {
			nodes = append(nodes, n)
		}
	}
	if len(nodes) != len(strokes) {
		return strokes
	}
	for i, n := range nodes {
		if svgdoc.PathData(n) != strokes[i].Data {
			return strokes
		}
	}
	for i := range strokes {
		strokes[i].node = nodes[i]
	}
	return strokes
}

// TreeQuery walks the parsed tree for any element carrying path data,
// regardless of tag name or namespace, and for elements typed as strokes.
type TreeQuery struct{}

func (TreeQuery) Name() string { return "tree-query" }

func (TreeQuery) Extract(doc *svgdoc.Document) []Stroke {
	if doc == nil || doc.Root == nil {
		return nil
	}
	var out []Stroke
	for _, n := range doc.Elements() {
		d, hasD := svgdoc.LocalAttr(n, "d")
		if !hasD && !isStrokeElement(n) {
			continue
		}
		if strings.TrimSpace(d) == "" {
			continue
		}
		out = append(out, Stroke{Data: d, node: n})
	}
	return out
}

func isStrokeElement(n *xmlquery.Node) bool {
	if n.Data == "stroke" {
		return true
	}
	t, _ := svgdoc.LocalAttr(n, "type")
	return t == "stroke"
}
