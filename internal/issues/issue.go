// Package issues provides a unified diagnostic type for the diff and merge pipeline.
package issues

import (
	"fmt"

	"github.com/fhirtools/igdiff/internal/severity"
)

// Issue represents a single non-fatal finding produced while diffing a
// profile or merging its documentation artifacts.
type Issue struct {
	// ProfileID identifies the profile the finding concerns (empty for run-level findings)
	ProfileID string
	// Path is the dotted element path or document node id involved, if any
	Path string
	// Message is a human-readable description of the finding
	Message string
	// Severity indicates the severity level of the finding
	Severity severity.Severity
	// Context provides additional information, such as the version label
	// or the mapping override involved (optional)
	Context string
}

// String returns a formatted string representation of the issue.
// Uses different symbols based on severity level:
// - "✗" for Error or Critical severity
// - "⚠" for Warning severity
// - "ℹ" for Info severity
func (i Issue) String() string {
	var symbol string
	switch i.Severity {
	case severity.SeverityError, severity.SeverityCritical:
		symbol = "✗"
	case severity.SeverityWarning:
		symbol = "⚠"
	case severity.SeverityInfo:
		symbol = "ℹ"
	default:
		symbol = "?"
	}

	scope := i.ProfileID
	if i.Path != "" {
		if scope != "" {
			scope += " "
		}
		scope += i.Path
	}

	var result string
	if scope != "" {
		result = fmt.Sprintf("%s %s: %s", symbol, scope, i.Message)
	} else {
		result = fmt.Sprintf("%s %s", symbol, i.Message)
	}

	if i.Context != "" {
		result += fmt.Sprintf("\n    Context: %s", i.Context)
	}

	return result
}
