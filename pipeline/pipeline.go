// Package pipeline orchestrates a full comparison run: profile discovery,
// per-profile diff and merge, migration guide injection, and artifacts
// index reconciliation.
//
// Profiles are processed sequentially, one end-to-end at a time. Failures
// are profile-scoped: a profile that cannot be modeled or diffed is skipped
// with a diagnosed issue and the run continues, so the aggregate outputs
// reflect exactly the profiles that were processed successfully.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/fhirtools/igdiff/artifacts"
	"github.com/fhirtools/igdiff/config"
	"github.com/fhirtools/igdiff/differ"
	"github.com/fhirtools/igdiff/extractor"
	"github.com/fhirtools/igdiff/guide"
	"github.com/fhirtools/igdiff/igerrors"
	"github.com/fhirtools/igdiff/internal/issues"
	"github.com/fhirtools/igdiff/internal/severity"
	"github.com/fhirtools/igdiff/markup"
	"github.com/fhirtools/igdiff/profile"
)

// Report summarizes one comparison run
type Report struct {
	// Processed lists the profiles diffed and merged, in encounter order
	Processed []string
	// Skipped lists the profiles excluded by a profile-scoped failure
	Skipped []string
	// Added lists the profiles present only in the current release
	Added []string
	// Removed lists the profiles present only in the previous release
	Removed []string
	// ChangeSet is the accumulated diff across processed profiles
	ChangeSet *differ.ChangeSet
	// Index is the reconciled artifacts index
	Index *artifacts.Index
	// Issues holds every diagnostic raised during the run
	Issues []issues.Issue
	// PagesWritten lists the output files written, in write order
	PagesWritten []string
	// HasBreakingChanges is true if any processed profile broke compatibility
	HasBreakingChanges bool
}

// Runner executes comparison runs for one validated configuration
type Runner struct {
	cfg    *config.Config
	logger profile.Logger
}

// Option configures a Runner
type Option func(*Runner)

// WithLogger sets the run logger. Defaults to a no-op logger.
func WithLogger(logger profile.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// New creates a Runner. The configuration must name both build folders and
// at least one table to merge; the first configured table is also the
// element model source.
func New(cfg *config.Config, opts ...Option) (*Runner, error) {
	if cfg == nil {
		return nil, &igerrors.ConfigError{Option: "config", Message: "must not be nil"}
	}
	if cfg.Comparison.PreviousFolder == "" || cfg.Comparison.CurrentFolder == "" {
		return nil, &igerrors.ConfigError{Option: "comparison", Message: "previous_folder and current_folder must both be set"}
	}
	if len(cfg.Tables) == 0 {
		return nil, &igerrors.ConfigError{Option: "tables", Message: "at least one table id is required"}
	}

	r := &Runner{cfg: cfg, logger: profile.NopLogger{}}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// PagePath returns the rendered page filename for a profile ID.
func PagePath(folder, profileID string) string {
	return filepath.Join(folder, "StructureDefinition-"+profileID+".html")
}

// Run executes one full comparison. Cancellation is honored between
// profiles and between page writes; pages already written stay valid.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	report := &Report{ChangeSet: differ.NewChangeSet()}
	cmp := r.cfg.Comparison
	hidden := r.cfg.HiddenPaths()

	previousIDs, err := extractor.ProfileIDs(filepath.Join(cmp.PreviousFolder, cmp.FSHPath))
	if err != nil {
		return nil, fmt.Errorf("pipeline: discovering previous profiles: %w", err)
	}
	currentIDs, err := extractor.ProfileIDs(filepath.Join(cmp.CurrentFolder, cmp.FSHPath))
	if err != nil {
		return nil, fmt.Errorf("pipeline: discovering current profiles: %w", err)
	}

	previousSet := make(map[string]bool, len(previousIDs))
	for _, id := range previousIDs {
		previousSet[id] = true
	}
	currentSet := make(map[string]bool, len(currentIDs))
	for _, id := range currentIDs {
		currentSet[id] = true
	}
	for _, id := range currentIDs {
		if !previousSet[id] {
			report.Added = append(report.Added, id)
		}
	}
	for _, id := range previousIDs {
		if !currentSet[id] {
			report.Removed = append(report.Removed, id)
		}
	}

	type mergedPage struct {
		profileID string
		doc       *markup.Document
		path      string
	}
	var pages []mergedPage

	for _, id := range currentIDs {
		if !previousSet[id] {
			continue
		}
		if err := ctx.Err(); err != nil {
			return report, err
		}

		page, result, err := r.processProfile(id, hidden)
		if err != nil {
			report.Skipped = append(report.Skipped, id)
			report.Issues = append(report.Issues, skipIssue(id, err))
			r.logger.Warn("profile skipped", "profile", id, "error", err)
			continue
		}

		report.Processed = append(report.Processed, id)
		report.ChangeSet.Add(result)
		report.Issues = append(report.Issues, result.Issues...)
		if result.HasBreakingChanges {
			report.HasBreakingChanges = true
		}
		pages = append(pages, mergedPage{profileID: id, doc: page.doc, path: page.path})
		report.Issues = append(report.Issues, page.issues...)
	}

	guideNode := guide.Generate(report.ChangeSet, cmp.PreviousVersion, cmp.CurrentVersion)

	for _, page := range pages {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if guideNode != nil {
			if err := guide.InjectTab(page.doc.Root(), guideNode); err != nil {
				report.Issues = append(report.Issues, issues.Issue{
					ProfileID: page.profileID,
					Severity:  severity.SeverityWarning,
					Message:   "migration tab not injected: " + err.Error(),
				})
			}
		}
		if err := writePage(page.doc, page.path); err != nil {
			return report, fmt.Errorf("pipeline: writing %s: %w", page.path, err)
		}
		report.PagesWritten = append(report.PagesWritten, page.path)
	}

	if err := ctx.Err(); err != nil {
		return report, err
	}

	carried, carryIssues := r.carryRemovedPages(report.Removed)
	report.PagesWritten = append(report.PagesWritten, carried...)
	report.Issues = append(report.Issues, carryIssues...)

	index, indexPath, err := r.reconcileIndex(previousIDs, currentIDs)
	if err != nil {
		report.Issues = append(report.Issues, issues.Issue{
			Severity: severity.SeverityWarning,
			Message:  "artifacts index not updated: " + err.Error(),
		})
	} else {
		report.Index = index
		report.PagesWritten = append(report.PagesWritten, indexPath)
	}

	r.logger.Info("run complete",
		"processed", len(report.Processed), "skipped", len(report.Skipped),
		"added", len(report.Added), "removed", len(report.Removed),
		"changes", report.ChangeSet.TotalChanges())
	return report, nil
}

func skipIssue(profileID string, err error) issues.Issue {
	sev := severity.SeverityError
	if errors.Is(err, igerrors.ErrSourceUnavailable) {
		sev = severity.SeverityWarning
	}
	return issues.Issue{ProfileID: profileID, Severity: sev, Message: err.Error()}
}
