package markup

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/fhirtools/igdiff/igerrors"
)

// hierarchyImg matches the spacer/joint images the IG publisher uses to
// indent element rows; their count is the row's depth in the element tree.
var hierarchyImg = regexp.MustCompile(`tbl_.*\.png`)

// Row is one element row of a profile table, keyed by its dotted path.
type Row struct {
	// Path is the dotted element path reconstructed from the row hierarchy
	Path string
	// Depth is the element's nesting depth (1 = resource root)
	Depth int
	// Node is the <tr> element inside the source document tree
	Node *html.Node
	// Cells are the row's <td> elements in column order
	Cells []*html.Node
}

// Table is a profile table extracted from a document, with its element rows
// keyed by path. Rows that carry no element (headers, spacer rows) are not
// included.
type Table struct {
	// ID is the stable container identifier the table was found under
	ID string
	// Container is the <div> wrapping the table in the source document
	Container *html.Node
	// Node is the <table> element itself
	Node *html.Node
	// Rows holds the element rows in document order
	Rows []Row

	ordinals map[string]int
}

// ExtractTable locates the container with the given id in root and parses
// its first <table> into path-keyed rows. Element paths are reconstructed
// from the hierarchy images in the first cell, the same way the IG publisher
// renders nesting.
func ExtractTable(root *html.Node, id string) (*Table, error) {
	container := FindByID(root, id)
	if container == nil {
		return nil, &igerrors.MarkupError{NodeID: id, Message: "container not found"}
	}
	tableNode := FindTag(container, "table")
	if tableNode == nil {
		return nil, &igerrors.MarkupError{NodeID: id, Message: "no table element found"}
	}

	t := &Table{
		ID:        id,
		Container: container,
		Node:      tableNode,
		ordinals:  make(map[string]int),
	}

	var stack []string
	for _, tr := range FindAllTags(tableNode, "tr") {
		cells := FindAllTags(tr, "td")
		if len(cells) < 4 {
			continue
		}

		nameCell := cells[0]
		depth := 0
		for _, img := range FindAllTags(nameCell, "img") {
			if hierarchyImg.MatchString(Attr(img, "src")) {
				depth++
			}
		}
		if depth == 0 {
			continue
		}

		local := rowLocalName(nameCell)
		if local == "" {
			continue
		}

		for len(stack) >= depth {
			stack = stack[:len(stack)-1]
		}
		stack = append(stack, local)
		path := strings.Join(stack, ".")

		t.ordinals[path] = len(t.Rows)
		t.Rows = append(t.Rows, Row{
			Path:  path,
			Depth: depth,
			Node:  tr,
			Cells: cells,
		})
	}

	return t, nil
}

// rowLocalName extracts the element's local name from its name cell:
// the anchor text when present, otherwise the last text fragment.
func rowLocalName(nameCell *html.Node) string {
	if a := FindTag(nameCell, "a"); a != nil {
		if name := Text(a); name != "" {
			return name
		}
	}
	strs := StrippedStrings(nameCell)
	if len(strs) == 0 {
		return ""
	}
	return strs[len(strs)-1]
}

// Get returns the row for the given path, if present.
func (t *Table) Get(path string) (Row, bool) {
	i, ok := t.ordinals[path]
	if !ok {
		return Row{}, false
	}
	return t.Rows[i], true
}

// Contains reports whether the table has a row for the given path.
func (t *Table) Contains(path string) bool {
	_, ok := t.ordinals[path]
	return ok
}

// Ordinal returns the document-order position of the given path's row.
func (t *Table) Ordinal(path string) (int, bool) {
	i, ok := t.ordinals[path]
	return i, ok
}

// Paths returns the row paths in document order.
func (t *Table) Paths() []string {
	paths := make([]string, len(t.Rows))
	for i, r := range t.Rows {
		paths[i] = r.Path
	}
	return paths
}
