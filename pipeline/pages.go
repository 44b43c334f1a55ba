package pipeline

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/fhirtools/igdiff/artifacts"
	"github.com/fhirtools/igdiff/config"
	"github.com/fhirtools/igdiff/differ"
	"github.com/fhirtools/igdiff/extractor"
	"github.com/fhirtools/igdiff/igerrors"
	"github.com/fhirtools/igdiff/internal/issues"
	"github.com/fhirtools/igdiff/internal/severity"
	"github.com/fhirtools/igdiff/markup"
	"github.com/fhirtools/igdiff/merger"
)

// Cache suffixes for the pristine page copies taken before the first merge.
// Re-runs read the cached originals instead of the already-merged output,
// which keeps merging idempotent.
const (
	prevOrigSuffix = "-prev-orig"
	currOrigSuffix = "-curr-orig"
)

func cachePath(pagePath, suffix string) string {
	return strings.TrimSuffix(pagePath, ".html") + suffix + ".html"
}

// loadOriginal returns the pristine content of a page. The first read
// caches a copy next to the page; later runs prefer the cache.
func loadOriginal(pagePath, suffix string) ([]byte, error) {
	cached := cachePath(pagePath, suffix)
	if data, err := os.ReadFile(cached); err == nil {
		return data, nil
	}
	data, err := os.ReadFile(pagePath)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(cached, data, 0o644); err != nil {
		return nil, err
	}
	return data, nil
}

type pageResult struct {
	doc    *markup.Document
	path   string
	issues []issues.Issue
}

// processProfile runs one profile end to end: load both pristine pages,
// build both element models, diff, and splice the merged tables and tabs
// into the current page tree. The returned document is not yet written.
func (r *Runner) processProfile(profileID string, hidden config.HiddenPaths) (*pageResult, *differ.Result, error) {
	cmp := r.cfg.Comparison
	modelTable := r.cfg.Tables[0]

	prevData, err := loadOriginal(PagePath(cmp.PreviousFolder, profileID), prevOrigSuffix)
	if err != nil {
		return nil, nil, &igerrors.SourceUnavailableError{
			ProfileID: profileID, Version: cmp.PreviousVersion,
			Path: PagePath(cmp.PreviousFolder, profileID), Cause: err,
		}
	}
	currData, err := loadOriginal(PagePath(cmp.CurrentFolder, profileID), currOrigSuffix)
	if err != nil {
		return nil, nil, &igerrors.SourceUnavailableError{
			ProfileID: profileID, Version: cmp.CurrentVersion,
			Path: PagePath(cmp.CurrentFolder, profileID), Cause: err,
		}
	}

	prevDoc, err := markup.ParseBytes(prevData)
	if err != nil {
		return nil, nil, err
	}
	currDoc, err := markup.ParseBytes(currData)
	if err != nil {
		return nil, nil, err
	}

	prevModel, err := extractor.ModelFromPage(profileID, prevDoc.Root(), modelTable)
	if err != nil {
		return nil, nil, err
	}
	currModel, err := extractor.ModelFromPage(profileID, currDoc.Root(), modelTable)
	if err != nil {
		return nil, nil, err
	}

	result, err := differ.Diff(prevModel, currModel, r.cfg.Overrides(profileID), differ.WithLogger(r.logger))
	if err != nil {
		return nil, nil, err
	}

	page := &pageResult{doc: currDoc, path: PagePath(cmp.CurrentFolder, profileID)}

	for _, tableID := range r.cfg.Tables {
		currTable, err := markup.ExtractTable(currDoc.Root(), tableID)
		if err != nil {
			page.issues = append(page.issues, issues.Issue{
				ProfileID: profileID, Severity: severity.SeverityWarning,
				Message: "table " + tableID + " missing from current page, left unmerged",
			})
			continue
		}
		prevTable, err := markup.ExtractTable(prevDoc.Root(), tableID)
		if err != nil {
			page.issues = append(page.issues, issues.Issue{
				ProfileID: profileID, Severity: severity.SeverityWarning,
				Message: "table " + tableID + " missing from previous page, left unmerged",
			})
			continue
		}
		merged := merger.MergeTable(prevTable, currTable, result, hidden)
		markup.ReplaceWith(currTable.Node, merged.Render())
	}

	for _, tabID := range r.cfg.Tabs {
		section, err := merger.MergeSection(profileID, prevDoc.Root(), currDoc.Root(), tabID, result, hidden)
		if err != nil {
			page.issues = append(page.issues, issues.Issue{
				ProfileID: profileID, Severity: severity.SeverityWarning,
				Message: "tab " + tabID + " not merged: " + err.Error(),
			})
			continue
		}
		page.issues = append(page.issues, section.Issues...)
		if target := markup.FindByID(currDoc.Root(), tabID); target != nil {
			markup.ReplaceWith(target, section.Node)
		} else if body := currDoc.Body(); body != nil {
			body.AppendChild(section.Node)
		}
	}

	return page, result, nil
}

func writePage(doc *markup.Document, path string) error {
	data, err := doc.RenderBytes()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// carryRemovedPages copies the page of each removed profile from the
// previous build output, so index links for removed profiles still resolve.
// Existing files are never overwritten.
func (r *Runner) carryRemovedPages(removedIDs []string) (written []string, diags []issues.Issue) {
	cmp := r.cfg.Comparison
	for _, id := range removedIDs {
		dst := PagePath(cmp.CurrentFolder, id)
		if _, err := os.Stat(dst); err == nil {
			continue
		}
		data, err := os.ReadFile(PagePath(cmp.PreviousFolder, id))
		if err != nil {
			diags = append(diags, issues.Issue{
				ProfileID: id, Severity: severity.SeverityWarning,
				Message: "removed profile page not carried over: " + err.Error(),
			})
			continue
		}
		if err := os.WriteFile(dst, data, 0o644); err != nil {
			diags = append(diags, issues.Issue{
				ProfileID: id, Severity: severity.SeverityWarning,
				Message: "removed profile page not carried over: " + err.Error(),
			})
			continue
		}
		written = append(written, dst)
	}
	return written, diags
}

// reconcileIndex rebuilds the artifacts index table in the current build
// output, annotating every profile with its lifecycle status and version
// labels. Display names and descriptions are scraped from the profile
// pages, falling back to a title-cased form of the ID.
func (r *Runner) reconcileIndex(previousIDs, currentIDs []string) (*artifacts.Index, string, error) {
	cmp := r.cfg.Comparison

	names := make(map[string]string)
	descriptions := make(map[string]string)
	scrape := func(folder, suffix, id string) bool {
		data, err := loadOriginal(PagePath(folder, id), suffix)
		if err != nil {
			return false
		}
		doc, err := markup.ParseBytes(data)
		if err != nil {
			return false
		}
		name, description := ScrapeMeta(doc)
		if name != "" {
			names[id] = name
		}
		descriptions[id] = description
		return true
	}
	for _, id := range currentIDs {
		scrape(cmp.CurrentFolder, currOrigSuffix, id)
	}
	for _, id := range previousIDs {
		if _, done := names[id]; !done {
			scrape(cmp.PreviousFolder, prevOrigSuffix, id)
		}
	}

	index := artifacts.Reconcile(previousIDs, currentIDs, names, cmp.PreviousVersion, cmp.CurrentVersion)
	for id, description := range descriptions {
		index.SetDescription(id, description)
	}

	indexPath := filepath.Join(cmp.CurrentFolder, r.cfg.ArtifactsPage)

	data, err := os.ReadFile(indexPath)
	if err != nil {
		return nil, "", err
	}
	doc, err := markup.ParseBytes(data)
	if err != nil {
		return nil, "", err
	}
	if err := index.RebuildTable(doc.Root(), r.cfg.ArtifactsContainer); err != nil {
		return nil, "", err
	}
	if err := writePage(doc, indexPath); err != nil {
		return nil, "", err
	}
	return index, indexPath, nil
}

// ScrapeMeta extracts a profile's display name and description from its
// parsed page. The publisher's fallback values ("Unknown", "No description
// found.") are normalized: an unknown name is returned empty so callers can
// derive one from the ID instead.
func ScrapeMeta(doc *markup.Document) (name, description string) {
	name, description = artifacts.ScrapeProfileMeta(doc.Root())
	if name == "Unknown" {
		name = ""
	}
	return name, description
}
