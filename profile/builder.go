package profile

import (
	"github.com/fhirtools/igdiff/igerrors"
)

// Build constructs an ElementModel from the extracted element descriptors of
// one profile version. Input order is preserved as the model's traversal
// order.
//
// Duplicate paths in the input are an error: the builder fails closed with a
// *igerrors.DuplicateElementPathError rather than silently dropping one of
// the records, because an ambiguous model would make every downstream diff
// for this profile unreliable.
func Build(profileID string, elements []RawElement) (*ElementModel, error) {
	m := &ElementModel{
		profileID: profileID,
		records:   make([]ElementRecord, 0, len(elements)),
		ordinals:  make(map[string]int, len(elements)),
	}

	for i, el := range elements {
		if first, ok := m.ordinals[el.Path]; ok {
			return nil, &igerrors.DuplicateElementPathError{
				ProfileID:        profileID,
				Path:             el.Path,
				FirstOrdinal:     first,
				DuplicateOrdinal: i,
			}
		}

		card, _ := ParseCardinality(el.Cardinality)
		m.ordinals[el.Path] = len(m.records)
		m.records = append(m.records, ElementRecord{
			Path:        el.Path,
			Cardinality: card,
			Type:        el.Type,
			Binding:     el.Binding,
			Flags:       el.Flags,
		})
	}

	return m, nil
}
