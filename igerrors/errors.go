package igerrors

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is().
// These allow quick checks without type assertions.
var (
	// ErrDuplicateElementPath indicates a profile defined an element path twice.
	ErrDuplicateElementPath = errors.New("duplicate element path")

	// ErrMappingCollision indicates a mapping override collides with a surviving element.
	ErrMappingCollision = errors.New("mapping collision")

	// ErrSourceUnavailable indicates a profile's model or markup could not be obtained.
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrMarkup indicates an HTML parsing or splicing failure.
	ErrMarkup = errors.New("markup error")

	// ErrConfig indicates an invalid configuration.
	ErrConfig = errors.New("configuration error")
)

// DuplicateElementPathError reports that a profile's element list contains
// the same dotted path more than once. The model builder fails closed rather
// than silently dropping one of the records.
type DuplicateElementPathError struct {
	// ProfileID identifies the profile whose model could not be built
	ProfileID string
	// Path is the duplicated dotted element path
	Path string
	// FirstOrdinal is the position of the first occurrence in the input
	FirstOrdinal int
	// DuplicateOrdinal is the position of the offending occurrence
	DuplicateOrdinal int
}

// Error returns a human-readable error message.
func (e *DuplicateElementPathError) Error() string {
	msg := "duplicate element path"
	if e.ProfileID != "" {
		msg += " in profile " + e.ProfileID
	}
	if e.Path != "" {
		msg += ": " + e.Path
	}
	if e.DuplicateOrdinal > e.FirstOrdinal {
		msg += fmt.Sprintf(" (positions %d and %d)", e.FirstOrdinal, e.DuplicateOrdinal)
	}
	return msg
}

// Is reports whether target matches this error type.
func (e *DuplicateElementPathError) Is(target error) bool {
	return target == ErrDuplicateElementPath
}

// MappingCollisionError reports that a mapping override's rename is
// ambiguous: the current path also exists in the previous model, or the
// previous path survives into the current model. Applying such a mapping
// would pair a path with an unrelated existing element, so the diff fails
// closed instead.
type MappingCollisionError struct {
	// ProfileID identifies the profile being diffed
	ProfileID string
	// PreviousPath is the mapping's previous-version path
	PreviousPath string
	// CurrentPath is the mapping's current-version path
	CurrentPath string
	// Message provides additional context about which side collided
	Message string
}

// Error returns a human-readable error message.
func (e *MappingCollisionError) Error() string {
	msg := "mapping collision"
	if e.ProfileID != "" {
		msg += " in profile " + e.ProfileID
	}
	if e.PreviousPath != "" || e.CurrentPath != "" {
		msg += fmt.Sprintf(": %s -> %s", e.PreviousPath, e.CurrentPath)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Is reports whether target matches this error type.
func (e *MappingCollisionError) Is(target error) bool {
	return target == ErrMappingCollision
}

// SourceUnavailableError reports that a profile's previous or current model
// or markup could not be obtained. The affected profile is excluded from the
// change set with a warning, never silently treated as "no changes".
type SourceUnavailableError struct {
	// ProfileID identifies the affected profile
	ProfileID string
	// Version is the version label whose source is missing ("previous" or "current")
	Version string
	// Path is the file path or source identifier that failed
	Path string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *SourceUnavailableError) Error() string {
	msg := "source unavailable"
	if e.ProfileID != "" {
		msg += " for profile " + e.ProfileID
	}
	if e.Version != "" {
		msg += " (" + e.Version + " version)"
	}
	if e.Path != "" {
		msg += ": " + e.Path
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *SourceUnavailableError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *SourceUnavailableError) Is(target error) bool {
	return target == ErrSourceUnavailable
}

// MarkupError represents a failure to parse or splice an HTML document.
type MarkupError struct {
	// Path is the file path or source identifier
	Path string
	// NodeID is the id attribute of the element involved, if known
	NodeID string
	// Message describes the failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *MarkupError) Error() string {
	msg := "markup error"
	if e.Path != "" {
		msg += " in " + e.Path
	}
	if e.NodeID != "" {
		msg += " at #" + e.NodeID
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *MarkupError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *MarkupError) Is(target error) bool {
	return target == ErrMarkup
}

// ConfigError represents an invalid configuration or input.
// This includes invalid options, missing required inputs, and conflicting settings.
type ConfigError struct {
	// Option is the name of the problematic configuration option
	Option string
	// Value is the invalid value that was provided (may be nil)
	Value any
	// Message describes the configuration error
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ConfigError) Error() string {
	msg := "configuration error"
	if e.Option != "" {
		msg += " for " + e.Option
	}
	if e.Value != nil {
		msg += fmt.Sprintf(" (value: %v)", e.Value)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}
