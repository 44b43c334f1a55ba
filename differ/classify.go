package differ

import (
	"sort"
	"strconv"
	"strings"

	"github.com/fhirtools/igdiff/profile"
)

// modificationIsMechanical reports whether a field delta touches only
// cardinality and flags. Those render fully from structure; type and
// binding changes need author narrative.
func modificationIsMechanical(prev, curr *FieldSnapshot) bool {
	return prev.Type == curr.Type && prev.Binding == curr.Binding
}

// modifiedSeverity grades a Modified record: tightened cardinality breaks
// existing instances, everything else needs review but stays valid.
func modifiedSeverity(prev, curr *FieldSnapshot) Severity {
	if CardinalityTightened(prev.Cardinality, curr.Cardinality) {
		return SeverityError
	}
	return SeverityWarning
}

// addedSeverity grades an Added record: a new mandatory element breaks
// existing instances, anything optional is additive.
func addedSeverity(rec profile.ElementRecord) Severity {
	if rec.Cardinality.IsMandatory() {
		return SeverityError
	}
	return SeverityInfo
}

func addedMessage(rec profile.ElementRecord) string {
	if rec.Cardinality.IsMandatory() {
		return "mandatory element added"
	}
	return "element added"
}

// removedSeverity grades a Removed record: losing a mandatory element is
// critical, losing an optional one is informational.
func removedSeverity(rec profile.ElementRecord) Severity {
	if rec.Cardinality.IsMandatory() {
		return SeverityCritical
	}
	return SeverityInfo
}

func removedMessage(rec profile.ElementRecord) string {
	if rec.Cardinality.IsMandatory() {
		return "mandatory element removed"
	}
	return "element removed"
}

// maxBound converts a cardinality upper bound to a comparable integer:
// -1 for unbounded, or the parsed count. ok is false when the bound is
// unknown (unparseable source cardinality).
func maxBound(c profile.Cardinality) (int, bool) {
	if c.Max == "*" {
		return -1, true
	}
	if c.Max == "" {
		return 0, false
	}
	n, err := strconv.Atoi(c.Max)
	if err != nil {
		return 0, false
	}
	return n, true
}

// CardinalityTightened reports whether curr admits fewer instances than
// prev: a raised minimum or a lowered maximum. Unknown bounds never count
// as tightened.
func CardinalityTightened(prev, curr profile.Cardinality) bool {
	if curr.Min > prev.Min {
		return true
	}
	prevMax, prevOK := maxBound(prev)
	currMax, currOK := maxBound(curr)
	if !prevOK || !currOK {
		return false
	}
	if prevMax == -1 {
		return currMax != -1
	}
	return currMax != -1 && currMax < prevMax
}

// CardinalityNarrative describes a cardinality change in migration terms,
// e.g. "Optional -> Mandatory" or "List -> Single". Returns "" when neither
// the optionality nor the plurality flipped.
func CardinalityNarrative(prev, curr profile.Cardinality) string {
	var parts []string
	switch {
	case prev.Min == 0 && curr.Min >= 1:
		parts = append(parts, "Optional -> Mandatory")
	case prev.Min >= 1 && curr.Min == 0:
		parts = append(parts, "Mandatory -> Optional")
	}

	prevMax, prevOK := maxBound(prev)
	currMax, currOK := maxBound(curr)
	if prevOK && currOK {
		prevList := prevMax == -1 || prevMax > 1
		currList := currMax == -1 || currMax > 1
		switch {
		case prevList && !currList:
			parts = append(parts, "List -> Single")
		case !prevList && currList:
			parts = append(parts, "Single -> List")
		}
	}
	return strings.Join(parts, ", ")
}

// severityRank orders changes for presentation: critical breakage first,
// then breaking constraint changes, then reviewable changes, additions last.
func severityRank(s Severity) int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityError:
		return 1
	case SeverityWarning:
		return 2
	default:
		return 3
	}
}

// RankBySeverity returns the changes sorted most severe first, preserving
// merge order within each severity level.
func RankBySeverity(changes []ChangeRecord) []ChangeRecord {
	out := make([]ChangeRecord, len(changes))
	copy(out, changes)
	sort.SliceStable(out, func(i, j int) bool {
		return severityRank(out[i].Severity) < severityRank(out[j].Severity)
	})
	return out
}
