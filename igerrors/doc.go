// Package igerrors provides structured error types for igdiff.
//
// These error types enable programmatic error handling via errors.Is() and
// errors.As(), allowing callers to distinguish between different categories
// of errors and implement appropriate recovery strategies.
//
// # Error Categories
//
//   - DuplicateElementPathError: a profile defines the same element path twice
//   - MappingCollisionError: a mapping override targets or vacates a path
//     that still exists on the other side
//   - SourceUnavailableError: a profile's model or markup could not be obtained
//   - MarkupError: HTML parsing or splicing failures
//   - ConfigError: invalid configuration or input options
//
// # Usage with errors.As
//
//	model, err := profile.Build(id, elements)
//	if err != nil {
//	    var dupErr *igerrors.DuplicateElementPathError
//	    if errors.As(err, &dupErr) {
//	        // Skip this profile, diagnose dupErr.Path
//	    }
//	}
package igerrors
