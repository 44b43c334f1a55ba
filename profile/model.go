// Package profile defines the element model of a profile at one version and
// the builder that constructs it from extracted element descriptors.
package profile

import (
	"fmt"
	"strconv"
	"strings"
)

// Cardinality is the (min, max) occurrence constraint of an element.
// Max is kept as a string because "*" means unbounded.
type Cardinality struct {
	// Min is the minimum number of occurrences
	Min int
	// Max is the maximum number of occurrences, or "*" for unbounded
	Max string
	// Text is the verbatim cardinality string as extracted (e.g. "0..*").
	// Comparison uses Text so malformed inputs still compare by exact equality.
	Text string
}

// ParseCardinality parses a cardinality string of the form "min..max".
// The verbatim text is always retained; ok reports whether min and max
// could be derived from it.
func ParseCardinality(s string) (card Cardinality, ok bool) {
	card.Text = s
	minPart, maxPart, found := strings.Cut(s, "..")
	if !found {
		return card, false
	}
	minVal, err := strconv.Atoi(strings.TrimSpace(minPart))
	if err != nil || minVal < 0 {
		return card, false
	}
	maxPart = strings.TrimSpace(maxPart)
	if maxPart != "*" {
		maxVal, err := strconv.Atoi(maxPart)
		if err != nil || maxVal < minVal {
			return card, false
		}
	}
	card.Min = minVal
	card.Max = maxPart
	return card, true
}

// String returns the verbatim cardinality text, or "min..max" when the
// record was constructed programmatically without text.
func (c Cardinality) String() string {
	if c.Text != "" {
		return c.Text
	}
	return fmt.Sprintf("%d..%s", c.Min, c.Max)
}

// Equal reports whether two cardinalities are the same by exact text equality.
func (c Cardinality) Equal(other Cardinality) bool {
	return c.String() == other.String()
}

// IsMandatory reports whether the element must occur at least once.
func (c Cardinality) IsMandatory() bool {
	return c.Min > 0
}

// IsUnbounded reports whether the element may repeat without limit.
func (c Cardinality) IsUnbounded() bool {
	return c.Max == "*"
}

// RawElement is one element descriptor as supplied by the extractor,
// before any model invariants are checked.
type RawElement struct {
	// Path is the dotted element identifier (e.g. "Patient.name.given")
	Path string
	// Cardinality is the verbatim cardinality string (e.g. "0..1")
	Cardinality string
	// Type is the element's declared type, compared by exact equality
	Type string
	// Binding is the terminology binding, compared by exact equality
	Binding string
	// Flags holds the rendered flag markers (S, ?!, Σ, ...), compared by exact equality
	Flags string
}

// ElementRecord is one structural element of a profile version.
// Records are owned exclusively by the ElementModel that built them and are
// never shared across profile versions.
type ElementRecord struct {
	// Path is the dotted element identifier, unique within a model
	Path string
	// Cardinality is the occurrence constraint
	Cardinality Cardinality
	// Type is the element's declared type
	Type string
	// Binding is the terminology binding
	Binding string
	// Flags holds the rendered flag markers
	Flags string
}

// FieldsEqual reports whether two records carry identical field tuples,
// ignoring their paths.
func (r ElementRecord) FieldsEqual(other ElementRecord) bool {
	return r.Cardinality.Equal(other.Cardinality) &&
		r.Type == other.Type &&
		r.Binding == other.Binding &&
		r.Flags == other.Flags
}

// ElementModel is the ordered element sequence of one profile at one version.
// Paths within a model are unique; order is the extraction traversal order.
type ElementModel struct {
	profileID string
	records   []ElementRecord
	ordinals  map[string]int
}

// ProfileID returns the profile identifier this model belongs to.
func (m *ElementModel) ProfileID() string {
	return m.profileID
}

// Len returns the number of elements in the model.
func (m *ElementModel) Len() int {
	return len(m.records)
}

// Records returns the elements in traversal order. The returned slice is
// the model's own backing storage and must not be modified.
func (m *ElementModel) Records() []ElementRecord {
	return m.records
}

// Get returns the record for the given path, if present.
func (m *ElementModel) Get(path string) (ElementRecord, bool) {
	i, ok := m.ordinals[path]
	if !ok {
		return ElementRecord{}, false
	}
	return m.records[i], true
}

// Contains reports whether the model defines the given path.
func (m *ElementModel) Contains(path string) bool {
	_, ok := m.ordinals[path]
	return ok
}

// Ordinal returns the traversal position of the given path, if present.
func (m *ElementModel) Ordinal(path string) (int, bool) {
	i, ok := m.ordinals[path]
	return i, ok
}

// Paths returns all element paths in traversal order.
func (m *ElementModel) Paths() []string {
	paths := make([]string, len(m.records))
	for i, r := range m.records {
		paths[i] = r.Path
	}
	return paths
}

// IsDescendantOf reports whether path is a strict descendant of ancestor
// in dotted-path terms ("Patient.name.given" descends from "Patient.name").
func IsDescendantOf(path, ancestor string) bool {
	return len(path) > len(ancestor)+1 && strings.HasPrefix(path, ancestor+".")
}
