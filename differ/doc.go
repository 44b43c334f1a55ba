// Package differ computes the structural change set between two versions of
// a profile's element model.
//
// Elements are aligned by dotted path, never by position, so reordered but
// unchanged elements are not reported. Manual mapping overrides are applied
// before path alignment: a renamed element becomes a single Modified record
// instead of a Removed/Added pair. An override whose rename source or target
// coincides with a surviving element is ambiguous and fails the profile with
// a MappingCollisionError.
//
// Basic usage:
//
//	result, err := differ.Diff(previousModel, currentModel, cfg.Overrides(id))
//	if err != nil {
//	    return err
//	}
//	for _, change := range result.Changes {
//	    fmt.Println(change)
//	}
//
// Change ordering follows the current model's traversal order, with records
// for removed elements interleaved at the position their path occupied in
// the previous model relative to surviving siblings. The same ordering is
// exposed through MergeOrder for callers that pair document rows.
package differ
