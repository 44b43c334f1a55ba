package igerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDuplicateElementPathError(t *testing.T) {
	err := &DuplicateElementPathError{
		ProfileID:        "patient-profile",
		Path:             "Patient.name",
		FirstOrdinal:     2,
		DuplicateOrdinal: 7,
	}

	assert.True(t, errors.Is(err, ErrDuplicateElementPath))
	assert.False(t, errors.Is(err, ErrMappingCollision))
	assert.Contains(t, err.Error(), "patient-profile")
	assert.Contains(t, err.Error(), "Patient.name")
	assert.Contains(t, err.Error(), "positions 2 and 7")
}

func TestMappingCollisionError(t *testing.T) {
	err := &MappingCollisionError{
		ProfileID:    "patient-profile",
		PreviousPath: "Patient.nickname",
		CurrentPath:  "Patient.alias",
		Message:      "current path also exists in previous model",
	}

	assert.True(t, errors.Is(err, ErrMappingCollision))
	assert.Contains(t, err.Error(), "Patient.nickname -> Patient.alias")
	assert.Contains(t, err.Error(), "also exists")
}

func TestSourceUnavailableError(t *testing.T) {
	cause := fmt.Errorf("open failed")
	err := &SourceUnavailableError{
		ProfileID: "obs-profile",
		Version:   "previous",
		Path:      "output/StructureDefinition-obs-profile.html",
		Cause:     cause,
	}

	assert.True(t, errors.Is(err, ErrSourceUnavailable))
	assert.Equal(t, cause, errors.Unwrap(err))
	assert.Contains(t, err.Error(), "obs-profile")
	assert.Contains(t, err.Error(), "previous version")
	assert.Contains(t, err.Error(), "open failed")
}

func TestMarkupError(t *testing.T) {
	err := &MarkupError{
		Path:    "artifacts.html",
		NodeID:  "tbl-snap-inner",
		Message: "no table element found",
	}

	assert.True(t, errors.Is(err, ErrMarkup))
	assert.Contains(t, err.Error(), "artifacts.html")
	assert.Contains(t, err.Error(), "#tbl-snap-inner")
}

func TestConfigError(t *testing.T) {
	err := &ConfigError{
		Option:  "comparison.previous_version",
		Message: "must not be empty",
	}

	assert.True(t, errors.Is(err, ErrConfig))
	assert.Contains(t, err.Error(), "comparison.previous_version")
	assert.Contains(t, err.Error(), "must not be empty")
}

func TestErrorsAs(t *testing.T) {
	var err error = &MappingCollisionError{ProfileID: "p"}

	var collision *MappingCollisionError
	if !errors.As(err, &collision) {
		t.Fatal("expected errors.As to match MappingCollisionError")
	}
	if collision.ProfileID != "p" {
		t.Errorf("expected profile ID 'p', got %q", collision.ProfileID)
	}
}

func TestWrappedSentinelMatching(t *testing.T) {
	inner := &DuplicateElementPathError{ProfileID: "x", Path: "A.b"}
	wrapped := fmt.Errorf("building model: %w", inner)

	assert.True(t, errors.Is(wrapped, ErrDuplicateElementPath))

	var dup *DuplicateElementPathError
	assert.True(t, errors.As(wrapped, &dup))
	assert.Equal(t, "A.b", dup.Path)
}
