package merger

import (
	"golang.org/x/net/html"

	"github.com/fhirtools/igdiff/config"
	"github.com/fhirtools/igdiff/differ"
	"github.com/fhirtools/igdiff/igerrors"
	"github.com/fhirtools/igdiff/markup"
)

// MergedSection is the merged rendering of one document section (tab)
type MergedSection struct {
	// ID is the section's stable container identifier
	ID string
	// Node is the freshly assembled section tree, ready to splice
	Node *html.Node
	// Tables holds the merged tables embedded in the section
	Tables []*MergedTable
	// Issues contains non-fatal diagnostics (missing counterparts)
	Issues []Issue
}

// MergeSection merges one document section across two page trees. Narrative
// outside tables is taken verbatim from the current version. Every embedded
// table container carrying an id is matched by that id across versions and
// merged via MergeTable; a container present in only one version is carried
// through unmerged with a section-level marker and a warning.
//
// A section missing from both pages is an error; missing from one page, the
// other side's copy is carried through whole with a marker and a warning.
func MergeSection(profileID string, previousRoot, currentRoot *html.Node, sectionID string, result *differ.Result, hidden config.HiddenPaths) (*MergedSection, error) {
	prevSec := markup.FindByID(previousRoot, sectionID)
	currSec := markup.FindByID(currentRoot, sectionID)
	if prevSec == nil && currSec == nil {
		return nil, &igerrors.MarkupError{NodeID: sectionID, Message: "section not found in either version"}
	}

	ms := &MergedSection{ID: sectionID}

	if currSec == nil {
		ms.Node = markup.Clone(prevSec)
		markup.RewriteIDs(ms.Node, "prev-")
		addClass(ms.Node, classRemoved)
		ms.Issues = append(ms.Issues, warnIssue(profileID, "",
			"section "+sectionID+" missing from current version, previous copy carried through"))
		return ms, nil
	}
	if prevSec == nil {
		ms.Node = markup.Clone(currSec)
		addClass(ms.Node, classAdded)
		ms.Issues = append(ms.Issues, warnIssue(profileID, "",
			"section "+sectionID+" missing from previous version, carried through unmerged"))
		return ms, nil
	}

	ms.Node = markup.Clone(currSec)

	prevTables := tableContainers(prevSec)
	currTables := tableContainers(currSec)

	for _, id := range currTables {
		target := markup.FindByID(ms.Node, id)
		if target == nil {
			continue
		}
		if !containsID(prevTables, id) {
			addClass(target, classAdded)
			ms.Issues = append(ms.Issues, warnIssue(profileID, "",
				"table "+id+" missing from previous version, carried through unmerged"))
			continue
		}

		prevTable, err := markup.ExtractTable(prevSec, id)
		if err != nil {
			return nil, err
		}
		currTable, err := markup.ExtractTable(currSec, id)
		if err != nil {
			return nil, err
		}

		merged := MergeTable(prevTable, currTable, result, hidden)
		ms.Tables = append(ms.Tables, merged)

		if old := markup.FindTag(target, "table"); old != nil {
			markup.ReplaceWith(old, merged.Render())
		}
	}

	for _, id := range prevTables {
		if containsID(currTables, id) {
			continue
		}
		container := markup.FindByID(prevSec, id)
		if container == nil {
			continue
		}
		carried := markup.Clone(container)
		markup.RewriteIDs(carried, "prev-")
		addClass(carried, classRemoved)
		ms.Node.AppendChild(carried)
		ms.Issues = append(ms.Issues, warnIssue(profileID, "",
			"table "+id+" missing from current version, previous copy carried through"))
	}

	return ms, nil
}

// tableContainers lists the ids of elements under sec that directly wrap a
// table, in document order. Nested id-carrying wrappers are skipped so each
// table matches exactly one identifier.
func tableContainers(sec *html.Node) []string {
	var ids []string
	seen := make(map[*html.Node]bool)
	for _, el := range markup.FindAll(sec, func(e *html.Node) bool {
		return e != sec && markup.Attr(e, "id") != "" && markup.FindTag(e, "table") != nil
	}) {
		table := markup.FindTag(el, "table")
		if seen[table] {
			continue
		}
		seen[table] = true
		ids = append(ids, markup.Attr(el, "id"))
	}
	return ids
}

func containsID(ids []string, id string) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
