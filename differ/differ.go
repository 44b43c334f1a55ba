package differ

import (
	"fmt"
	"strings"

	"github.com/fhirtools/igdiff/config"
	"github.com/fhirtools/igdiff/igerrors"
	"github.com/fhirtools/igdiff/internal/issues"
	"github.com/fhirtools/igdiff/internal/severity"
	"github.com/fhirtools/igdiff/profile"
)

// Kind indicates whether a change is an addition, removal, or modification
type Kind string

const (
	// KindAdded indicates an element present only in the current version
	KindAdded Kind = "added"
	// KindRemoved indicates an element present only in the previous version
	KindRemoved Kind = "removed"
	// KindModified indicates an element whose descriptive fields changed
	KindModified Kind = "modified"
)

// Severity indicates the impact level of a change
type Severity = severity.Severity

const (
	// SeverityInfo indicates benign changes (optional elements added or removed)
	SeverityInfo = severity.SeverityInfo
	// SeverityWarning indicates changes that need author review
	SeverityWarning = severity.SeverityWarning
	// SeverityError indicates breaking changes (tightened constraints, new
	// mandatory elements)
	SeverityError = severity.SeverityError
	// SeverityCritical indicates critical breakage (mandatory element removed)
	SeverityCritical = severity.SeverityCritical
)

// Issue is a non-fatal diagnostic raised while diffing
type Issue = issues.Issue

// FieldSnapshot captures the descriptive fields of one element record at one
// version. Snapshots are attached to ChangeRecords only where relevant: a
// Removed record carries only Previous, an Added record only Current.
type FieldSnapshot struct {
	Cardinality profile.Cardinality
	Type        string
	Binding     string
	Flags       string
}

func snapshotOf(rec profile.ElementRecord) *FieldSnapshot {
	return &FieldSnapshot{
		Cardinality: rec.Cardinality,
		Type:        rec.Type,
		Binding:     rec.Binding,
		Flags:       rec.Flags,
	}
}

// ChangeRecord represents a single detected difference between the previous
// and current version of a profile
type ChangeRecord struct {
	// Kind indicates if this is an addition, removal, or modification
	Kind Kind
	// Path is the element's dotted path: the current path for Added and
	// Modified records, the previous path for Removed records
	Path string
	// PreviousPath is set when a mapping override resolved a rename; empty
	// when the path is unchanged
	PreviousPath string
	// Previous is the previous-version field snapshot (nil for additions)
	Previous *FieldSnapshot
	// Current is the current-version field snapshot (nil for removals)
	Current *FieldSnapshot
	// Automated is true when the change is a mechanical structural delta the
	// merge fully captures; false when it needs human-authored narrative
	Automated bool
	// Severity indicates the impact level of the change
	Severity Severity
	// Message is a human-readable description of the change
	Message string
	// Description is the author-supplied narrative from the mapping override
	Description string
}

// String returns a formatted string representation of the change
func (c ChangeRecord) String() string {
	var symbol string
	switch c.Severity {
	case SeverityError, SeverityCritical:
		symbol = "✗"
	case SeverityWarning:
		symbol = "⚠"
	case SeverityInfo:
		symbol = "ℹ"
	default:
		symbol = "·"
	}
	return fmt.Sprintf("%s %s [%s] %s", symbol, c.Path, c.Kind, c.Message)
}

// IsBreaking returns true when the change has Error or Critical severity.
func (c ChangeRecord) IsBreaking() bool {
	return c.Severity == SeverityError || c.Severity == SeverityCritical
}

// Result contains the change set computed for one profile
type Result struct {
	// ProfileID identifies the profile that was diffed
	ProfileID string
	// PreviousCount is the number of elements in the previous model
	PreviousCount int
	// CurrentCount is the number of elements in the current model
	CurrentCount int
	// Changes contains all detected changes in merge order
	Changes []ChangeRecord
	// Renames maps each mapping-consumed previous path to its current path,
	// including renames whose field tuples were equal and produced no record.
	// Consumers pairing document rows need these to avoid reporting a
	// resolved rename as a removed/added pair.
	Renames map[string]string
	// Issues contains non-fatal diagnostics (inert mapping overrides)
	Issues []Issue
	// AddedCount is the number of Added records
	AddedCount int
	// RemovedCount is the number of Removed records
	RemovedCount int
	// ModifiedCount is the number of Modified records
	ModifiedCount int
	// AutomatedCount is the number of changes resolvable without author input
	AutomatedCount int
	// ManualCount is the number of changes needing author attention
	ManualCount int
	// HasBreakingChanges is true if any change has Error or Critical severity
	HasBreakingChanges bool
}

// HasChanges returns true when at least one change was detected.
func (r *Result) HasChanges() bool {
	return len(r.Changes) > 0
}

// Automated returns the automated changes in merge order.
func (r *Result) Automated() []ChangeRecord {
	return r.filter(true)
}

// Manual returns the changes needing author attention, in merge order.
func (r *Result) Manual() []ChangeRecord {
	return r.filter(false)
}

func (r *Result) filter(automated bool) []ChangeRecord {
	var out []ChangeRecord
	for _, c := range r.Changes {
		if c.Automated == automated {
			out = append(out, c)
		}
	}
	return out
}

// Option configures a diff operation
type Option func(*diffConfig)

type diffConfig struct {
	logger profile.Logger
}

// WithLogger sets the logger used for diff diagnostics. Defaults to a no-op
// logger.
func WithLogger(logger profile.Logger) Option {
	return func(cfg *diffConfig) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// Diff computes the change set between the previous and current element
// model of one profile. Overrides are applied before path alignment; an
// ambiguous override returns a *igerrors.MappingCollisionError and no
// partial result.
func Diff(previous, current *profile.ElementModel, overrides []config.MappingOverride, opts ...Option) (*Result, error) {
	if previous == nil || current == nil {
		return nil, fmt.Errorf("differ: both element models are required")
	}

	cfg := diffConfig{logger: profile.NopLogger{}}
	for _, opt := range opts {
		opt(&cfg)
	}

	result := &Result{
		ProfileID:     current.ProfileID(),
		PreviousCount: previous.Len(),
		CurrentCount:  current.Len(),
	}

	consumedPrev := make(map[string]bool)
	consumedCurr := make(map[string]bool)
	// mapped previous path -> current path, for ordering of removed rows
	renames := make(map[string]string)
	mappedByCurrent := make(map[string]*ChangeRecord)

	for _, m := range overrides {
		prevRec, prevOK := previous.Get(m.PreviousPath)
		currRec, currOK := current.Get(m.CurrentPath)
		if !prevOK || !currOK {
			side := "previous"
			missing := m.PreviousPath
			if prevOK {
				side = "current"
				missing = m.CurrentPath
			}
			cfg.logger.Warn("inert mapping override",
				"profile", result.ProfileID, "previous_path", m.PreviousPath, "current_path", m.CurrentPath)
			result.Issues = append(result.Issues, Issue{
				ProfileID: result.ProfileID,
				Path:      missing,
				Severity:  SeverityWarning,
				Message: fmt.Sprintf("mapping override %s -> %s is inert: path not found in %s model",
					m.PreviousPath, m.CurrentPath, side),
			})
			continue
		}
		if current.Contains(m.PreviousPath) {
			return nil, &igerrors.MappingCollisionError{
				ProfileID:    result.ProfileID,
				PreviousPath: m.PreviousPath,
				CurrentPath:  m.CurrentPath,
				Message:      "rename source still exists in the current model",
			}
		}
		if previous.Contains(m.CurrentPath) {
			return nil, &igerrors.MappingCollisionError{
				ProfileID:    result.ProfileID,
				PreviousPath: m.PreviousPath,
				CurrentPath:  m.CurrentPath,
				Message:      "rename target already exists in the previous model",
			}
		}

		consumedPrev[m.PreviousPath] = true
		consumedCurr[m.CurrentPath] = true
		renames[m.PreviousPath] = m.CurrentPath

		// A mapped pair with equal field tuples is a resolved rename with
		// nothing left to report.
		if prevRec.FieldsEqual(currRec) {
			cfg.logger.Debug("rename resolved with no field delta",
				"profile", result.ProfileID, "previous_path", m.PreviousPath, "current_path", m.CurrentPath)
			continue
		}

		prevSnap, currSnap := snapshotOf(prevRec), snapshotOf(currRec)
		mappedByCurrent[m.CurrentPath] = &ChangeRecord{
			Kind:         KindModified,
			Path:         m.CurrentPath,
			PreviousPath: m.PreviousPath,
			Previous:     prevSnap,
			Current:      currSnap,
			Automated:    false,
			Severity:     modifiedSeverity(prevSnap, currSnap),
			Message:      describeModified(m.PreviousPath, prevSnap, currSnap),
			Description:  m.Description,
		}
	}

	result.Renames = renames

	byPath := make(map[string]*ChangeRecord)

	for _, rec := range current.Records() {
		if mapped, ok := mappedByCurrent[rec.Path]; ok {
			byPath[rec.Path] = mapped
			continue
		}
		if consumedCurr[rec.Path] {
			continue
		}
		prevRec, inPrev := previous.Get(rec.Path)
		if !inPrev {
			byPath[rec.Path] = &ChangeRecord{
				Kind:      KindAdded,
				Path:      rec.Path,
				Current:   snapshotOf(rec),
				Automated: true,
				Severity:  addedSeverity(rec),
				Message:   addedMessage(rec),
			}
			continue
		}
		consumedPrev[rec.Path] = true
		if prevRec.FieldsEqual(rec) {
			continue
		}
		prevSnap, currSnap := snapshotOf(prevRec), snapshotOf(rec)
		byPath[rec.Path] = &ChangeRecord{
			Kind:      KindModified,
			Path:      rec.Path,
			Previous:  prevSnap,
			Current:   currSnap,
			Automated: modificationIsMechanical(prevSnap, currSnap),
			Severity:  modifiedSeverity(prevSnap, currSnap),
			Message:   describeModified("", prevSnap, currSnap),
		}
	}

	for _, rec := range previous.Records() {
		if consumedPrev[rec.Path] || current.Contains(rec.Path) {
			continue
		}
		byPath[rec.Path] = &ChangeRecord{
			Kind:      KindRemoved,
			Path:      rec.Path,
			Previous:  snapshotOf(rec),
			Automated: true,
			Severity:  removedSeverity(rec),
			Message:   removedMessage(rec),
		}
	}

	for _, path := range MergeOrder(previous.Paths(), current.Paths(), renames) {
		rec, ok := byPath[path]
		if !ok {
			continue
		}
		result.Changes = append(result.Changes, *rec)
		switch rec.Kind {
		case KindAdded:
			result.AddedCount++
		case KindRemoved:
			result.RemovedCount++
		case KindModified:
			result.ModifiedCount++
		}
		if rec.Automated {
			result.AutomatedCount++
		} else {
			result.ManualCount++
		}
		if rec.IsBreaking() {
			result.HasBreakingChanges = true
		}
	}

	cfg.logger.Debug("profile diffed", "profile", result.ProfileID,
		"added", result.AddedCount, "removed", result.RemovedCount, "modified", result.ModifiedCount)
	return result, nil
}

// describeModified builds the human-readable delta summary for a Modified
// record. previousPath is non-empty only for mapping-resolved renames.
func describeModified(previousPath string, prev, curr *FieldSnapshot) string {
	var parts []string
	if previousPath != "" {
		parts = append(parts, "renamed from "+previousPath)
	}
	if !prev.Cardinality.Equal(curr.Cardinality) {
		delta := fmt.Sprintf("cardinality %s -> %s", prev.Cardinality, curr.Cardinality)
		if narrative := CardinalityNarrative(prev.Cardinality, curr.Cardinality); narrative != "" {
			delta += " (" + narrative + ")"
		}
		parts = append(parts, delta)
	}
	if prev.Type != curr.Type {
		parts = append(parts, fmt.Sprintf("type %s -> %s", orNone(prev.Type), orNone(curr.Type)))
	}
	if prev.Binding != curr.Binding {
		parts = append(parts, fmt.Sprintf("binding %s -> %s", orNone(prev.Binding), orNone(curr.Binding)))
	}
	if prev.Flags != curr.Flags {
		parts = append(parts, fmt.Sprintf("flags %s -> %s", orNone(prev.Flags), orNone(curr.Flags)))
	}
	if len(parts) == 0 {
		return "element renamed"
	}
	return strings.Join(parts, "; ")
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
