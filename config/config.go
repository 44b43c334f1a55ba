// Package config loads and validates the run configuration: version labels,
// folder layout, the table and tab identifiers to merge, the manual mapping
// overrides, and the children-hidden suppression paths.
//
// Configuration is loaded once at run start into immutable value objects
// that are passed explicitly into each component's entry point. There is no
// global mutable configuration state.
package config

import (
	"fmt"
	"os"
	"sort"

	"go.yaml.in/yaml/v4"

	"github.com/fhirtools/igdiff/igerrors"
	"github.com/fhirtools/igdiff/profile"
)

// Comparison identifies the two IG builds being compared.
type Comparison struct {
	// PreviousVersion is the display label of the previous release (opaque)
	PreviousVersion string `yaml:"previous_version"`
	// CurrentVersion is the display label of the current release (opaque)
	CurrentVersion string `yaml:"current_version"`
	// PreviousFolder is the root of the previous build output
	PreviousFolder string `yaml:"previous_folder"`
	// CurrentFolder is the root of the current build output
	CurrentFolder string `yaml:"current_folder"`
	// FSHPath is the path of the FSH sources relative to each folder
	FSHPath string `yaml:"fsh_path"`
}

// MappingOverride pairs a previous-version element path with its
// current-version path, so a renamed element is reported as a single
// Modified change instead of a Removed/Added pair.
type MappingOverride struct {
	// ProfileID is filled from the mapping table key during validation
	ProfileID string `yaml:"-"`
	// PreviousPath is the element's dotted path in the previous version
	PreviousPath string `yaml:"previous_path"`
	// CurrentPath is the element's dotted path in the current version
	CurrentPath string `yaml:"current_path"`
	// ChangeType is an optional author-supplied label (RENAMED, MOVED, MERGED, ...)
	ChangeType string `yaml:"change_type"`
	// Description is the author's narrative for the migration guide
	Description string `yaml:"description"`
}

// Config is the validated run configuration.
type Config struct {
	Comparison Comparison `yaml:"comparison"`
	// Tables are the container ids of the profile tables to merge side by side
	Tables []string `yaml:"tables"`
	// Tabs are the container ids of the document sections to merge stacked
	Tabs []string `yaml:"tabs"`
	// ChildrenHidden lists paths whose descendants are rolled up instead of
	// individually diff-marked
	ChildrenHidden []string `yaml:"children_hidden"`
	// MappingsByProfile holds the manual mapping overrides keyed by profile ID
	MappingsByProfile map[string][]MappingOverride `yaml:"mappings"`
	// ArtifactsPage is the index page filename, relative to each folder
	ArtifactsPage string `yaml:"artifacts_page"`
	// ArtifactsContainer is the container id of the index table
	ArtifactsContainer string `yaml:"artifacts_container"`
}

// Load reads, parses, and validates a YAML configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &igerrors.ConfigError{Option: "config file", Value: path, Message: "cannot read", Cause: err}
	}
	return Parse(data)
}

// Parse parses and validates YAML configuration bytes.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, &igerrors.ConfigError{Option: "config file", Message: "invalid YAML", Cause: err}
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Comparison.PreviousVersion == "" {
		return &igerrors.ConfigError{Option: "comparison.previous_version", Message: "must not be empty"}
	}
	if c.Comparison.CurrentVersion == "" {
		return &igerrors.ConfigError{Option: "comparison.current_version", Message: "must not be empty"}
	}
	if c.ArtifactsPage == "" {
		c.ArtifactsPage = "artifacts.html"
	}
	if c.ArtifactsContainer == "" {
		c.ArtifactsContainer = "artifacts"
	}

	for profileID, overrides := range c.MappingsByProfile {
		seen := make(map[string]struct{}, len(overrides))
		for i := range overrides {
			m := &c.MappingsByProfile[profileID][i]
			m.ProfileID = profileID
			if m.PreviousPath == "" || m.CurrentPath == "" {
				return &igerrors.ConfigError{
					Option:  "mappings." + profileID,
					Message: "previous_path and current_path must both be set",
				}
			}
			if _, dup := seen[m.PreviousPath]; dup {
				return &igerrors.ConfigError{
					Option:  "mappings." + profileID,
					Value:   m.PreviousPath,
					Message: "previous_path mapped more than once",
				}
			}
			seen[m.PreviousPath] = struct{}{}
		}
	}

	return nil
}

// Overrides returns the mapping overrides for one profile, in declaration
// order. The returned slice must not be modified.
func (c *Config) Overrides(profileID string) []MappingOverride {
	return c.MappingsByProfile[profileID]
}

// HiddenPaths returns the validated children-hidden value object.
func (c *Config) HiddenPaths() HiddenPaths {
	return NewHiddenPaths(c.ChildrenHidden)
}

// HiddenPaths is the immutable set of element paths whose descendants are
// suppressed from per-row diff styling and rolled up onto the ancestor row.
type HiddenPaths struct {
	paths map[string]struct{}
}

// NewHiddenPaths builds a HiddenPaths set from a path list.
func NewHiddenPaths(paths []string) HiddenPaths {
	set := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		if p != "" {
			set[p] = struct{}{}
		}
	}
	return HiddenPaths{paths: set}
}

// Contains reports whether path itself is marked children-hidden.
func (h HiddenPaths) Contains(path string) bool {
	_, ok := h.paths[path]
	return ok
}

// SuppressingAncestor returns the nearest children-hidden ancestor that
// suppresses path, if any. Only strict descendants are suppressed; the
// hidden path's own row stays visible and carries the rollup marker.
func (h HiddenPaths) SuppressingAncestor(path string) (string, bool) {
	nearest := ""
	for p := range h.paths {
		if profile.IsDescendantOf(path, p) && len(p) > len(nearest) {
			nearest = p
		}
	}
	return nearest, nearest != ""
}

// Paths returns the hidden paths in sorted order.
func (h HiddenPaths) Paths() []string {
	out := make([]string, 0, len(h.paths))
	for p := range h.paths {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of hidden paths.
func (h HiddenPaths) Len() int {
	return len(h.paths)
}

// String returns a short description for diagnostics.
func (h HiddenPaths) String() string {
	return fmt.Sprintf("children_hidden(%d paths)", len(h.paths))
}
