// Package guide synthesizes the cross-profile migration guide from a run's
// accumulated change set and injects it as a tab into merged profile pages.
//
// The guide separates changes that were resolved mechanically (structural
// deltas fully captured by the merged tables) from changes that need author
// attention (renames and type or binding changes). Profiles with no changes
// are omitted entirely.
package guide

import (
	"fmt"

	"golang.org/x/net/html"

	"github.com/fhirtools/igdiff/differ"
	"github.com/fhirtools/igdiff/igerrors"
	"github.com/fhirtools/igdiff/markup"
)

// TabID is the container id the guide occupies inside a page's tab list.
const TabID = "tabs-migration"

// Generate builds the migration guide document tree for the whole run.
// Profiles appear in diff encounter order; within a profile the automated
// changes are ranked most severe first. Returns nil when no profile has
// changes.
func Generate(cs *differ.ChangeSet, previousVersion, currentVersion string) *html.Node {
	root := markup.NewElement("div", "id", TabID, "class", "migration-guide")

	heading := markup.NewElement("h2")
	heading.AppendChild(markup.NewText(
		fmt.Sprintf("Migration guide: %s to %s", previousVersion, currentVersion)))
	root.AppendChild(heading)

	hasContent := false
	for _, profileID := range cs.ProfileIDs() {
		result, ok := cs.Get(profileID)
		if !ok || !result.HasChanges() {
			continue
		}
		hasContent = true
		root.AppendChild(profileSection(result))
	}

	if !hasContent {
		return nil
	}
	return root
}

func profileSection(result *differ.Result) *html.Node {
	section := markup.NewElement("div", "class", "migration-profile")

	title := markup.NewElement("h3")
	title.AppendChild(markup.NewText(result.ProfileID))
	section.AppendChild(title)

	if automated := result.Automated(); len(automated) > 0 {
		section.AppendChild(subheading("Automated changes"))
		section.AppendChild(changesTable(automated, "migration-automated", false))
	}
	if manual := result.Manual(); len(manual) > 0 {
		section.AppendChild(subheading("Changes requiring review"))
		section.AppendChild(changesTable(manual, "migration-manual", true))
	}
	return section
}

func subheading(text string) *html.Node {
	h := markup.NewElement("h4")
	h.AppendChild(markup.NewText(text))
	return h
}

// changesTable renders one compact change table. Manual tables carry a
// call-to-action column so authors can tick off reviewed entries.
func changesTable(changes []differ.ChangeRecord, class string, manual bool) *html.Node {
	table := markup.NewElement("table", "class", class)

	header := markup.NewElement("tr")
	for _, col := range []string{"Element", "Change", "Impact"} {
		th := markup.NewElement("th")
		th.AppendChild(markup.NewText(col))
		header.AppendChild(th)
	}
	if manual {
		th := markup.NewElement("th")
		th.AppendChild(markup.NewText("Action"))
		header.AppendChild(th)
	}
	table.AppendChild(header)

	for _, c := range differ.RankBySeverity(changes) {
		tr := markup.NewElement("tr", "class", "migration-"+string(c.Kind))

		pathCell := markup.NewElement("td")
		pathCell.AppendChild(markup.NewText(c.Path))
		tr.AppendChild(pathCell)

		changeCell := markup.NewElement("td")
		changeCell.AppendChild(markup.NewText(changeText(c)))
		tr.AppendChild(changeCell)

		impactCell := markup.NewElement("td", "class", "migration-impact-"+impactLabel(c.Severity))
		impactCell.AppendChild(markup.NewText(impactLabel(c.Severity)))
		tr.AppendChild(impactCell)

		if manual {
			action := markup.NewElement("td", "class", "migration-action")
			action.AppendChild(markup.NewText("Review required"))
			tr.AppendChild(action)
		}
		table.AppendChild(tr)
	}
	return table
}

// changeText prefers the author-supplied mapping narrative over the
// mechanical delta summary.
func changeText(c differ.ChangeRecord) string {
	if c.Description != "" {
		return c.Description
	}
	return c.Message
}

func impactLabel(s differ.Severity) string {
	switch s {
	case differ.SeverityCritical:
		return "critical"
	case differ.SeverityError:
		return "breaking"
	case differ.SeverityWarning:
		return "changed"
	default:
		return "info"
	}
}

// InjectTab splices the guide into a page's jQuery-UI tab structure: one
// list entry linking to the guide pane, and the pane itself appended to the
// div with id "tabs". Re-injecting replaces the existing pane and leaves a
// single list entry, so repeated merges stay idempotent.
func InjectTab(pageRoot, guideNode *html.Node) error {
	if guideNode == nil {
		return nil
	}
	tabs := markup.FindByID(pageRoot, "tabs")
	if tabs == nil {
		return &igerrors.MarkupError{NodeID: "tabs", Message: "tab container not found"}
	}

	if list := markup.FindTag(tabs, "ul"); list != nil {
		if existingEntry(list) == nil {
			li := markup.NewElement("li")
			a := markup.NewElement("a", "href", "#"+TabID)
			a.AppendChild(markup.NewText("Migration"))
			li.AppendChild(a)
			list.AppendChild(li)
		}
	}

	pane := markup.Clone(guideNode)
	if existing := markup.FindByID(tabs, TabID); existing != nil {
		markup.ReplaceWith(existing, pane)
	} else {
		tabs.AppendChild(pane)
	}
	return nil
}

func existingEntry(list *html.Node) *html.Node {
	return markup.Find(list, func(e *html.Node) bool {
		return e.Data == "a" && markup.Attr(e, "href") == "#"+TabID
	})
}
