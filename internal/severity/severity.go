// Package severity provides severity level constants and utilities
// for diagnostics reported by the differ, merger, guide, and pipeline packages.
//
// All severity levels are re-exported by each public package that uses them:
//   - SeverityInfo: Informational notices about choices made
//   - SeverityWarning: Degraded output (inert mappings, missing counterparts)
//   - SeverityError: Conditions that exclude a profile from processing
//   - SeverityCritical: Breaking structural changes flagged for authors
//
// The severity levels are ordered from least to most severe:
// Info < Warning < Error < Critical
package severity

// Severity indicates the severity level of a diagnostic produced while
// diffing profiles or merging documentation artifacts.
type Severity int

const (
	// SeverityError indicates a condition that excluded a profile from
	// processing, such as a duplicate element path or a mapping collision.
	SeverityError Severity = iota

	// SeverityWarning indicates degraded output that should be reviewed:
	// inert mapping overrides, table counterparts missing from one version,
	// or sources that could not be obtained.
	SeverityWarning

	// SeverityInfo indicates informational notices about processing choices.
	// These are non-actionable and may be useful for debugging.
	SeverityInfo

	// SeverityCritical indicates a breaking structural change, such as a
	// mandatory element being removed or a cardinality being tightened.
	SeverityCritical
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}
