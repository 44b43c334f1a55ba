// Package igdiff provides tools for comparing two versions of a FHIR
// Implementation Guide and propagating the differences into the generated
// documentation artifacts.
//
// The library consists of six primary packages:
//
//   - profile: build ordered element models from extracted profile definitions
//   - differ: compute a path-keyed change set between two element models
//   - merger: merge previous/current documentation tables and tabs with diff markers
//   - guide: synthesize a cross-profile migration guide document
//   - artifacts: reconcile the master artifacts index against the add/remove set
//   - pipeline: run the whole comparison end-to-end for every profile
//
// # Quick Start
//
// Diff two element models:
//
//	import (
//	    "github.com/fhirtools/igdiff/differ"
//	    "github.com/fhirtools/igdiff/profile"
//	)
//
//	prev, err := profile.Build("patient-profile", prevElements)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	curr, err := profile.Build("patient-profile", currElements)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := differ.Diff(prev, curr, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, change := range result.Changes {
//	    fmt.Println(change.String())
//	}
//
// Run a full comparison from configuration:
//
//	import (
//	    "github.com/fhirtools/igdiff/config"
//	    "github.com/fhirtools/igdiff/pipeline"
//	)
//
//	cfg, err := config.Load("igdiff.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	runner, err := pipeline.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	report, err := runner.Run(context.Background())
//
// # Error Handling
//
// Fatal conditions are returned as structured errors from the igerrors
// package and support errors.Is / errors.As. Non-fatal findings (inert
// mappings, missing table counterparts, skipped profiles) are never errors;
// they are collected as diagnostics on result structs, each tagged with the
// profile ID and element path it concerns. A run is "best effort, fully
// diagnosed": profile-scoped failures skip that profile, everything else
// proceeds.
//
// # Command-Line Interface
//
// In addition to the library packages, igdiff provides a command-line
// interface:
//
//	# Run the full comparison described by a config file
//	igdiff run -config igdiff.yaml
//
//	# Diff two StructureDefinition pages directly
//	igdiff diff StructureDefinition-patient-v1.html StructureDefinition-patient-v2.html
//
//	# List the profile IDs declared in a folder's FSH sources
//	igdiff profiles build/input/fsh
//
//	# Serve igdiff capabilities as MCP tools over stdio
//	igdiff mcp
//
// Install the CLI:
//
//	go install github.com/fhirtools/igdiff/cmd/igdiff@latest
package igdiff
