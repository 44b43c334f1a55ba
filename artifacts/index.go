// Package artifacts reconciles the master index of profiles against the
// previous and current release: removed profiles are kept with a removed
// marker, new profiles are inserted, and every row is annotated with its
// version lineage. The reconciler works purely on identifier set
// membership; it never diffs profile content.
package artifacts

import (
	"sort"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/fhirtools/igdiff/igerrors"
	"github.com/fhirtools/igdiff/markup"
)

// Status describes a profile's lifecycle across the two releases
type Status string

const (
	// StatusUnchanged indicates the profile exists in both releases
	StatusUnchanged Status = "unchanged"
	// StatusNew indicates the profile exists only in the current release
	StatusNew Status = "new"
	// StatusRemoved indicates the profile exists only in the previous release
	StatusRemoved Status = "removed"
)

// versionCellID marks the version annotation cell on every index row.
const versionCellID = "IG-version"

// IndexEntry is one row of the reconciled artifacts index
type IndexEntry struct {
	// ProfileID is the profile's stable identifier
	ProfileID string
	// DisplayName is the human-readable profile name
	DisplayName string
	// Description is the profile's short description, when known
	Description string
	// Status is the profile's lifecycle classification
	Status Status
	// VersionAnnotation carries the version labels shown on the row: both
	// labels for unchanged profiles, one otherwise
	VersionAnnotation string
}

// Index is the reconciled artifacts index for one run
type Index struct {
	// Entries holds one row per profile in either release, sorted by ID
	Entries []IndexEntry
	// UnchangedCount is the number of profiles in both releases
	UnchangedCount int
	// AddedCount is the number of profiles only in the current release
	AddedCount int
	// RemovedCount is the number of profiles only in the previous release
	RemovedCount int
}

var titleCaser = cases.Title(language.English)

// DisplayNameFromID derives a readable fallback name from a profile ID,
// e.g. "patient-birth-record" becomes "Patient Birth Record".
func DisplayNameFromID(profileID string) string {
	cleaned := strings.NewReplacer("-", " ", "_", " ").Replace(profileID)
	return titleCaser.String(cleaned)
}

// Reconcile partitions the previous and current profile ID sets and builds
// the full index from scratch. names supplies display names by profile ID;
// missing names fall back to a title-cased form of the ID. The three
// partitions are disjoint and together cover the union of both ID sets.
func Reconcile(previousIDs, currentIDs []string, names map[string]string, previousVersion, currentVersion string) *Index {
	previous := make(map[string]bool, len(previousIDs))
	for _, id := range previousIDs {
		previous[id] = true
	}
	current := make(map[string]bool, len(currentIDs))
	for _, id := range currentIDs {
		current[id] = true
	}

	union := make([]string, 0, len(previous)+len(current))
	for id := range previous {
		union = append(union, id)
	}
	for id := range current {
		if !previous[id] {
			union = append(union, id)
		}
	}
	sort.Strings(union)

	idx := &Index{}
	for _, id := range union {
		entry := IndexEntry{ProfileID: id, DisplayName: names[id]}
		if entry.DisplayName == "" {
			entry.DisplayName = DisplayNameFromID(id)
		}
		switch {
		case previous[id] && current[id]:
			entry.Status = StatusUnchanged
			entry.VersionAnnotation = previousVersion + ", " + currentVersion
			idx.UnchangedCount++
		case current[id]:
			entry.Status = StatusNew
			entry.VersionAnnotation = currentVersion
			idx.AddedCount++
		default:
			entry.Status = StatusRemoved
			entry.VersionAnnotation = previousVersion
			idx.RemovedCount++
		}
		idx.Entries = append(idx.Entries, entry)
	}
	return idx
}

// ByStatus returns the entries with the given status, in index order.
func (idx *Index) ByStatus(status Status) []IndexEntry {
	var out []IndexEntry
	for _, e := range idx.Entries {
		if e.Status == status {
			out = append(out, e)
		}
	}
	return out
}

// Get returns the entry for one profile, if present.
func (idx *Index) Get(profileID string) (IndexEntry, bool) {
	for _, e := range idx.Entries {
		if e.ProfileID == profileID {
			return e, true
		}
	}
	return IndexEntry{}, false
}

// SetDescription records a scraped description on one entry.
func (idx *Index) SetDescription(profileID, description string) {
	for i := range idx.Entries {
		if idx.Entries[i].ProfileID == profileID {
			idx.Entries[i].Description = description
			return
		}
	}
}

// RebuildTable replaces the element rows of the index table under the given
// container with one row per entry. Header rows are kept; everything else
// is rebuilt from scratch, so repeated runs produce identical output.
func (idx *Index) RebuildTable(root *html.Node, containerID string) error {
	container := markup.FindByID(root, containerID)
	if container == nil {
		return &igerrors.MarkupError{NodeID: containerID, Message: "container not found"}
	}
	table := markup.FindTag(container, "table")
	if table == nil {
		return &igerrors.MarkupError{NodeID: containerID, Message: "no table element found"}
	}

	for _, tr := range markup.FindAllTags(table, "tr") {
		if markup.FindTag(tr, "th") == nil {
			markup.Detach(tr)
		}
	}

	body := markup.FindTag(table, "tbody")
	if body == nil {
		body = table
	}
	for _, entry := range idx.Entries {
		body.AppendChild(entry.renderRow())
	}
	return nil
}

func (e IndexEntry) renderRow() *html.Node {
	tr := markup.NewElement("tr", "class", "igdiff-status-"+string(e.Status))

	nameCell := markup.NewElement("td")
	link := markup.NewElement("a", "href", "StructureDefinition-"+e.ProfileID+".html")
	link.AppendChild(markup.NewText(e.DisplayName))
	nameCell.AppendChild(link)
	tr.AppendChild(nameCell)

	descCell := markup.NewElement("td")
	descCell.AppendChild(markup.NewText(e.Description))
	tr.AppendChild(descCell)

	versionCell := markup.NewElement("td", "id", versionCellID, "class", "igdiff-version")
	text := e.VersionAnnotation
	if e.Status != StatusUnchanged {
		text += " (" + string(e.Status) + ")"
	}
	versionCell.AppendChild(markup.NewText(text))
	tr.AppendChild(versionCell)

	return tr
}
