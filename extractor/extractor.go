// Package extractor discovers profile IDs in FSH sources and pulls element
// descriptors out of rendered profile pages, feeding the element model
// builder.
package extractor

import (
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/fhirtools/igdiff/igerrors"
	"github.com/fhirtools/igdiff/markup"
	"github.com/fhirtools/igdiff/profile"
)

// idPattern matches the Id declaration of a FSH definition.
var idPattern = regexp.MustCompile(`Id:\s*([\w\-_]*)`)

// ProfileIDs scans all .fsh files under root recursively and returns the
// declared profile IDs, unique, in file-walk encounter order.
func ProfileIDs(root string) ([]string, error) {
	var ids []string
	seen := make(map[string]bool)

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".fsh") {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		for _, id := range IDsFromFSH(data) {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
		return nil
	})
	if err != nil {
		return nil, &igerrors.SourceUnavailableError{Path: root, Cause: err}
	}
	return ids, nil
}

// IDsFromFSH returns every Id declaration in one FSH source, in order.
func IDsFromFSH(src []byte) []string {
	var ids []string
	for _, m := range idPattern.FindAllSubmatch(src, -1) {
		if id := string(m[1]); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// Elements extracts the raw element descriptors from the profile table with
// the given container id. Columns follow the publisher layout: name, flags,
// cardinality, type, then an optional binding column.
func Elements(root *html.Node, tableID string) ([]profile.RawElement, error) {
	table, err := markup.ExtractTable(root, tableID)
	if err != nil {
		return nil, err
	}

	elements := make([]profile.RawElement, 0, len(table.Rows))
	for _, row := range table.Rows {
		el := profile.RawElement{
			Path:        row.Path,
			Flags:       markup.Text(row.Cells[1]),
			Cardinality: markup.Text(row.Cells[2]),
			Type:        markup.Text(row.Cells[3]),
		}
		if len(row.Cells) > 4 {
			el.Binding = markup.Text(row.Cells[4])
		}
		elements = append(elements, el)
	}
	return elements, nil
}

// ModelFromPage extracts the element model for one profile from an already
// parsed page tree.
func ModelFromPage(profileID string, root *html.Node, tableID string) (*profile.ElementModel, error) {
	elements, err := Elements(root, tableID)
	if err != nil {
		return nil, err
	}
	return profile.Build(profileID, elements)
}

// LoadModel reads a profile page from disk and extracts its element model.
// version is the release label used in diagnostics when the page cannot be
// read.
func LoadModel(profileID, version, pagePath, tableID string) (*profile.ElementModel, error) {
	data, err := os.ReadFile(pagePath)
	if err != nil {
		return nil, &igerrors.SourceUnavailableError{
			ProfileID: profileID,
			Version:   version,
			Path:      pagePath,
			Cause:     err,
		}
	}
	doc, err := markup.ParseBytes(data)
	if err != nil {
		return nil, &igerrors.SourceUnavailableError{
			ProfileID: profileID,
			Version:   version,
			Path:      pagePath,
			Cause:     err,
		}
	}
	return ModelFromPage(profileID, doc.Root(), tableID)
}
