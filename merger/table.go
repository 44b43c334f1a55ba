package merger

import (
	"golang.org/x/net/html"

	"github.com/fhirtools/igdiff/config"
	"github.com/fhirtools/igdiff/differ"
	"github.com/fhirtools/igdiff/internal/issues"
	"github.com/fhirtools/igdiff/internal/severity"
	"github.com/fhirtools/igdiff/markup"
)

// RowKind tags a merged row with its change classification
type RowKind string

const (
	// RowUnchanged indicates identical content on both sides
	RowUnchanged RowKind = "unchanged"
	// RowAdded indicates a row present only in the current version
	RowAdded RowKind = "added"
	// RowRemoved indicates a row present only in the previous version
	RowRemoved RowKind = "removed"
	// RowModified indicates a row whose descriptive cells changed
	RowModified RowKind = "modified"
)

// Issue is a non-fatal diagnostic raised while merging
type Issue = issues.Issue

// CSS classes attached to merged output; presentation styling is the
// consuming site's concern.
const (
	classAdded    = "igdiff-added"
	classRemoved  = "igdiff-removed"
	classModified = "igdiff-modified"
	classPrevious = "igdiff-previous"
	classRollup   = "igdiff-rollup"
)

// MergedRow pairs the previous and current version of one element row.
// Previous is nil for added rows, Current is nil for removed rows.
type MergedRow struct {
	// Path is the element path the row is keyed by (current path when a
	// mapping renamed the element)
	Path string
	// Previous is the row in the previous version's table, if any
	Previous *markup.Row
	// Current is the row in the current version's table, if any
	Current *markup.Row
	// Kind is the change classification for this row
	Kind RowKind
	// Suppressed is true when the row is a strict descendant of a
	// children-hidden path; its diff styling is rolled up onto the ancestor
	Suppressed bool
	// Rollup is true on a children-hidden row with at least one changed
	// descendant
	Rollup bool
}

// MergedTable is the row-aligned merge of one table across two versions
type MergedTable struct {
	// ID is the stable container identifier shared by both versions
	ID string
	// Rows holds one entry per path in either table, in merge order
	Rows []MergedRow
	// AddedCount is the number of added rows
	AddedCount int
	// RemovedCount is the number of removed rows
	RemovedCount int
	// ModifiedCount is the number of modified rows
	ModifiedCount int
	// SuppressedCount is the number of rows whose styling was rolled up
	SuppressedCount int

	current *markup.Table
}

// HasChanges returns true when any row differs between the versions.
func (mt *MergedTable) HasChanges() bool {
	return mt.AddedCount+mt.RemovedCount+mt.ModifiedCount > 0
}

// MergeTable aligns the rows of the previous and current table by element
// path and classifies each merged row using the profile's diff result.
// The result's rename map pairs rows across a mapping-resolved rename even
// when the rename produced no change record, so a no-delta rename renders
// as one unchanged row rather than a removed/added pair.
// Strict descendants of hidden paths keep their classification but are
// marked suppressed; the hidden ancestor row gets a single rollup marker.
func MergeTable(previous, current *markup.Table, result *differ.Result, hidden config.HiddenPaths) *MergedTable {
	mt := &MergedTable{ID: current.ID, current: current}

	var changes []differ.ChangeRecord
	renames := make(map[string]string)
	if result != nil {
		changes = result.Changes
		for prevPath, currPath := range result.Renames {
			renames[prevPath] = currPath
		}
	}
	byPath := make(map[string]differ.ChangeRecord, len(changes))
	for _, c := range changes {
		byPath[c.Path] = c
		if c.PreviousPath != "" {
			renames[c.PreviousPath] = c.Path
		}
	}
	renamedFrom := make(map[string]string, len(renames))
	for prevPath, currPath := range renames {
		renamedFrom[currPath] = prevPath
	}

	rollup := make(map[string]bool)

	for _, path := range differ.MergeOrder(previous.Paths(), current.Paths(), renames) {
		row := MergedRow{Path: path, Kind: RowUnchanged}

		if r, ok := current.Get(path); ok {
			row.Current = &r
		}
		if r, ok := previous.Get(path); ok {
			row.Previous = &r
		} else if prevPath, ok := renamedFrom[path]; ok {
			if r, ok := previous.Get(prevPath); ok {
				row.Previous = &r
			}
		}

		if change, ok := byPath[path]; ok {
			switch change.Kind {
			case differ.KindAdded:
				row.Kind = RowAdded
				mt.AddedCount++
			case differ.KindRemoved:
				row.Kind = RowRemoved
				mt.RemovedCount++
			case differ.KindModified:
				row.Kind = RowModified
				mt.ModifiedCount++
			}
		} else if row.Current == nil && row.Previous != nil {
			// Removed from this table even when the model diff has no record
			// for it (the table may key more paths than the change set)
			row.Kind = RowRemoved
			mt.RemovedCount++
		} else if row.Previous == nil && row.Current != nil {
			row.Kind = RowAdded
			mt.AddedCount++
		}

		if ancestor, ok := hidden.SuppressingAncestor(path); ok {
			row.Suppressed = true
			if row.Kind != RowUnchanged {
				mt.SuppressedCount++
				rollup[ancestor] = true
			}
		}

		mt.Rows = append(mt.Rows, row)
	}

	for i := range mt.Rows {
		if rollup[mt.Rows[i].Path] {
			mt.Rows[i].Rollup = true
		}
	}

	return mt
}

// Render builds a fresh <table> tree for the merged rows. Header rows are
// cloned from the current table; element rows are cloned at attach time so
// the input trees stay untouched. Diff styling is carried as CSS classes;
// suppressed rows render without styling and the hidden ancestor carries
// one rollup marker.
func (mt *MergedTable) Render() *html.Node {
	table := markup.NewElement("table")
	for _, a := range mt.current.Node.Attr {
		markup.SetAttr(table, a.Key, a.Val)
	}

	for _, tr := range markup.FindAllTags(mt.current.Node, "tr") {
		if markup.FindTag(tr, "th") != nil {
			table.AppendChild(markup.Clone(tr))
		}
	}

	for _, row := range mt.Rows {
		table.AppendChild(renderRow(row))
	}

	markup.AddMaxWidth(table)
	return table
}

func renderRow(row MergedRow) *html.Node {
	var tr *html.Node
	switch {
	case row.Current == nil:
		tr = markup.Clone(row.Previous.Node)
		if row.Kind == RowRemoved && !row.Suppressed {
			addClass(tr, classRemoved)
		}
	case row.Kind == RowModified && !row.Suppressed && row.Previous != nil:
		tr = renderModifiedRow(row.Previous, row.Current)
	default:
		tr = markup.Clone(row.Current.Node)
		if row.Kind == RowAdded && !row.Suppressed {
			addClass(tr, classAdded)
		}
	}

	if row.Rollup {
		attachRollupMarker(tr)
	}
	return tr
}

// renderModifiedRow shows previous and current cell values side by side:
// each differing cell keeps the current content and carries the previous
// content struck through before it.
func renderModifiedRow(prev, curr *markup.Row) *html.Node {
	tr := markup.Clone(curr.Node)
	addClass(tr, classModified)

	cells := markup.FindAllTags(tr, "td")
	for i, cell := range cells {
		if i >= len(prev.Cells) || i >= len(curr.Cells) {
			break
		}
		if markup.Text(prev.Cells[i]) == markup.Text(curr.Cells[i]) {
			continue
		}
		old := markup.NewElement("span", "class", classPrevious,
			"style", "text-decoration: line-through; opacity: 0.6")
		for c := prev.Cells[i].FirstChild; c != nil; c = c.NextSibling {
			old.AppendChild(markup.Clone(c))
		}
		sep := markup.NewText(" ")
		if cell.FirstChild != nil {
			cell.InsertBefore(old, cell.FirstChild)
			cell.InsertBefore(sep, cell.FirstChild.NextSibling)
		} else {
			cell.AppendChild(old)
			cell.AppendChild(sep)
		}
	}
	return tr
}

func attachRollupMarker(tr *html.Node) {
	marker := markup.NewElement("span", "class", classRollup,
		"title", "one or more child elements changed")
	marker.AppendChild(markup.NewText(" *"))
	if cell := markup.FindTag(tr, "td"); cell != nil {
		cell.AppendChild(marker)
	} else {
		tr.AppendChild(marker)
	}
}

func addClass(n *html.Node, class string) {
	if existing := markup.Attr(n, "class"); existing != "" {
		class = existing + " " + class
	}
	markup.SetAttr(n, "class", class)
}

func warnIssue(profileID, path, message string) Issue {
	return Issue{
		ProfileID: profileID,
		Path:      path,
		Severity:  severity.SeverityWarning,
		Message:   message,
	}
}
