// Package markup provides the HTML document trees consumed and produced by
// the merge pipeline: parsing, querying by id, deep cloning, splicing, and
// rendering.
//
// Merged output is always assembled as a fresh tree: nodes taken from an
// input document are deep-cloned at the point of attachment, so the previous
// and current documents are never aliased into the merged result.
package markup

import (
	"bytes"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Document wraps a parsed HTML page.
type Document struct {
	root *html.Node
}

// Parse reads and parses an HTML document.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	return &Document{root: root}, nil
}

// ParseBytes parses an HTML document from a byte slice.
func ParseBytes(b []byte) (*Document, error) {
	return Parse(bytes.NewReader(b))
}

// parseFragment parses an HTML fragment as if it appeared inside <body>,
// returning the top-level nodes.
func parseFragment(s string) ([]*html.Node, error) {
	ctx := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	return html.ParseFragment(strings.NewReader(s), ctx)
}

// Root returns the document's root node.
func (d *Document) Root() *html.Node {
	return d.root
}

// Body returns the document's <body> element, or nil if absent.
func (d *Document) Body() *html.Node {
	return FindTag(d.root, "body")
}

// FindByID returns the element with the given id attribute, or nil.
func (d *Document) FindByID(id string) *html.Node {
	return FindByID(d.root, id)
}

// Render serializes the document.
func (d *Document) Render(w io.Writer) error {
	return html.Render(w, d.root)
}

// RenderBytes serializes the document to a byte slice.
func (d *Document) RenderBytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.Render(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Attr returns the value of the named attribute, or "".
func Attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// SetAttr sets the named attribute, replacing any existing value.
func SetAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// Find returns the first element (depth-first) satisfying pred, or nil.
func Find(n *html.Node, pred func(*html.Node) bool) *html.Node {
	if n.Type == html.ElementNode && pred(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := Find(c, pred); found != nil {
			return found
		}
	}
	return nil
}

// FindAll returns all elements (depth-first) satisfying pred.
func FindAll(n *html.Node, pred func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && pred(n) {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

// FindByID returns the element with the given id attribute, or nil.
func FindByID(n *html.Node, id string) *html.Node {
	return Find(n, func(e *html.Node) bool { return Attr(e, "id") == id })
}

// FindTag returns the first element with the given tag name, or nil.
func FindTag(n *html.Node, tag string) *html.Node {
	return Find(n, func(e *html.Node) bool { return e.Data == tag })
}

// FindAllTags returns all elements with the given tag name.
func FindAllTags(n *html.Node, tag string) []*html.Node {
	return FindAll(n, func(e *html.Node) bool { return e.Data == tag })
}

// Text returns the concatenated, whitespace-trimmed text content of n.
func Text(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(sb.String())
}

// StrippedStrings returns every non-empty, trimmed text fragment under n,
// in document order.
func StrippedStrings(n *html.Node) []string {
	var out []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if s := strings.TrimSpace(n.Data); s != "" {
				out = append(out, s)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

// Clone returns a deep copy of n, detached from any parent.
func Clone(n *html.Node) *html.Node {
	cloned := &html.Node{
		Type:      n.Type,
		DataAtom:  n.DataAtom,
		Data:      n.Data,
		Namespace: n.Namespace,
	}
	if len(n.Attr) > 0 {
		cloned.Attr = make([]html.Attribute, len(n.Attr))
		copy(cloned.Attr, n.Attr)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		cloned.AppendChild(Clone(c))
	}
	return cloned
}

// Detach removes n from its parent, leaving it reusable as a fragment root.
func Detach(n *html.Node) {
	if n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

// ReplaceWith substitutes repl for old in old's parent. repl must be
// detached. No-op when old has no parent.
func ReplaceWith(old, repl *html.Node) {
	parent := old.Parent
	if parent == nil {
		return
	}
	parent.InsertBefore(repl, old)
	parent.RemoveChild(old)
}

// NewElement creates a detached element node with the given tag and
// alternating attribute key/value pairs.
func NewElement(tag string, attrPairs ...string) *html.Node {
	n := &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}
	for i := 0; i+1 < len(attrPairs); i += 2 {
		n.Attr = append(n.Attr, html.Attribute{Key: attrPairs[i], Val: attrPairs[i+1]})
	}
	return n
}

// NewText creates a detached text node.
func NewText(text string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: text}
}

// RenderNode serializes a single node.
func RenderNode(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
