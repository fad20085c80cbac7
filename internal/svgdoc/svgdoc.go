// Package svgdoc loads stroke-diagram documents. A Document carries both the
// raw UTF-8 text, for lenient token scans, and the parsed element tree, for
// structural queries.
package svgdoc

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
	"golang.org/x/net/html/charset"
)

// ErrUnreadable is returned when a document is missing, cannot be read, or
// cannot be parsed into an element tree.
var ErrUnreadable = errors.New("document unreadable")

// Document is one parsed source document.
type Document struct {
	Name string
	// Text is the raw document transcoded to UTF-8.
	Text []byte
	// Root is the document node of the parsed tree.
	Root *xmlquery.Node
}

// Namespace is a prefix declared on the root element. Prefix is empty for the
// default namespace.
type Namespace struct {
	Prefix string
	URI    string
}

var (
	utf8BOM        = []byte{0xEF, 0xBB, 0xBF}
	encodingDeclRe = regexp.MustCompile(`^\s*<\?xml[^>]*?\bencoding\s*=\s*["']([A-Za-z0-9._\-]+)["']`)

	allElements        = xpath.MustCompile("//*")
	descendantElements = xpath.MustCompile("descendant::*")
)

// Load reads and parses the document at path. Errors wrap ErrUnreadable and
// the underlying cause, so errors.Is(err, fs.ErrNotExist) distinguishes a
// missing file.
func Load(path string) (*Document, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnreadable, err)
	}
	return Parse(filepath.Base(path), b)
}

// Parse builds a Document from raw bytes.
func Parse(name string, data []byte) (*Document, error) {
	text, err := toUTF8(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: decode: %w", ErrUnreadable, name, err)
	}
	// The tree parser honours the encoding declaration itself.
	root, err := xmlquery.Parse(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: parse: %w", ErrUnreadable, name, err)
	}
	if rootElement(root) == nil {
		return nil, fmt.Errorf("%w: %s: no root element", ErrUnreadable, name)
	}
	return &Document{Name: name, Text: text, Root: root}, nil
}

// toUTF8 strips a UTF-8 BOM and transcodes documents whose XML declaration
// names a non-UTF-8 encoding.
func toUTF8(data []byte) ([]byte, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	m := encodingDeclRe.FindSubmatch(data)
	if m == nil {
		return data, nil
	}
	label := strings.ToLower(string(m[1]))
	if label == "utf-8" || label == "utf8" {
		return data, nil
	}
	r, err := charset.NewReaderLabel(label, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return io.ReadAll(r)
}

func rootElement(doc *xmlquery.Node) *xmlquery.Node {
	if doc == nil {
		return nil
	}
	for c := doc.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode {
			return c
		}
	}
	return nil
}

// RootElement returns the outermost element.
func (d *Document) RootElement() *xmlquery.Node {
	return rootElement(d.Root)
}

// Elements returns every element of the document in document order.
func (d *Document) Elements() []*xmlquery.Node {
	return xmlquery.QuerySelectorAll(d.Root, allElements)
}

// Namespaces lists the namespaces observed on the root element, in
// declaration order. Prefixes used by root attributes without a matching
// declaration are listed with an empty URI.
func (d *Document) Namespaces() []Namespace {
	root := d.RootElement()
	if root == nil {
		return nil
	}
	var out []Namespace
	seen := map[string]bool{}
	add := func(ns Namespace) {
		if seen[ns.Prefix] {
			return
		}
		seen[ns.Prefix] = true
		out = append(out, ns)
	}
	for _, a := range root.Attr {
		switch {
		case a.Name.Space == "xmlns":
			add(Namespace{Prefix: a.Name.Local, URI: a.Value})
		case a.Name.Space == "" && a.Name.Local == "xmlns":
			add(Namespace{URI: a.Value})
		}
	}
	for _, a := range root.Attr {
		if a.Name.Space != "" && a.Name.Space != "xmlns" {
			add(Namespace{Prefix: a.Name.Space})
		}
	}
	return out
}

// Descendants returns the element descendants of n, excluding n itself.
func Descendants(n *xmlquery.Node) []*xmlquery.Node {
	return xmlquery.QuerySelectorAll(n, descendantElements)
}

// LocalAttr returns the value of the attribute with the given local name. An
// unprefixed attribute wins over a namespaced one with the same local name.
func LocalAttr(n *xmlquery.Node, local string) (string, bool) {
	var (
		val   string
		found bool
	)
	for _, a := range n.Attr {
		if a.Name.Local != local || a.Name.Space == "xmlns" {
			continue
		}
		if a.Name.Space == "" {
			return a.Value, true
		}
		if !found {
			val, found = a.Value, true
		}
	}
	return val, found
}

// PathData returns the element's path-data attribute, if any.
func PathData(n *xmlquery.Node) string {
	d, _ := LocalAttr(n, "d")
	return d
}
