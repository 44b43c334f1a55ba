package mcpserver

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/fhirtools/igdiff/config"
	"github.com/fhirtools/igdiff/differ"
	"github.com/fhirtools/igdiff/extractor"
)

type mappingInput struct {
	PreviousPath string `json:"previous_path"         jsonschema:"The element path in the previous version"`
	CurrentPath  string `json:"current_path"          jsonschema:"The element path it was renamed to"`
	Description  string `json:"description,omitempty" jsonschema:"Author narrative for the migration guide"`
}

type compareInput struct {
	ProfileID    string         `json:"profile_id"              jsonschema:"The profile's stable identifier"`
	PreviousPage string         `json:"previous_page"           jsonschema:"Path to the previous version's rendered profile page"`
	CurrentPage  string         `json:"current_page"            jsonschema:"Path to the current version's rendered profile page"`
	TableID      string         `json:"table_id,omitempty"      jsonschema:"Container id of the element table (default tbl-snap-inner)"`
	Mappings     []mappingInput `json:"mappings,omitempty"      jsonschema:"Manual rename mappings applied before path alignment"`
	BreakingOnly bool           `json:"breaking_only,omitempty" jsonschema:"Only show breaking changes"`
}

type compareChange struct {
	Kind         string `json:"kind"`
	Path         string `json:"path"`
	PreviousPath string `json:"previous_path,omitempty"`
	Severity     string `json:"severity"`
	Automated    bool   `json:"automated"`
	Message      string `json:"message"`
}

type compareOutput struct {
	ProfileID      string          `json:"profile_id"`
	TotalChanges   int             `json:"total_changes"`
	AddedCount     int             `json:"added_count"`
	RemovedCount   int             `json:"removed_count"`
	ModifiedCount  int             `json:"modified_count"`
	AutomatedCount int             `json:"automated_count"`
	ManualCount    int             `json:"manual_count"`
	HasBreaking    bool            `json:"has_breaking_changes"`
	Changes        []compareChange `json:"changes,omitempty"`
	Warnings       []string        `json:"warnings,omitempty"`
	Summary        string          `json:"summary"`
}

func handleCompare(_ context.Context, _ *mcp.CallToolRequest, input compareInput) (*mcp.CallToolResult, compareOutput, error) {
	tableID := input.TableID
	if tableID == "" {
		tableID = "tbl-snap-inner"
	}

	previous, err := extractor.LoadModel(input.ProfileID, "previous", input.PreviousPage, tableID)
	if err != nil {
		return errResult(err), compareOutput{}, nil
	}
	current, err := extractor.LoadModel(input.ProfileID, "current", input.CurrentPage, tableID)
	if err != nil {
		return errResult(err), compareOutput{}, nil
	}

	overrides := makeSlice[config.MappingOverride](len(input.Mappings))
	for _, m := range input.Mappings {
		overrides = append(overrides, config.MappingOverride{
			ProfileID:    input.ProfileID,
			PreviousPath: m.PreviousPath,
			CurrentPath:  m.CurrentPath,
			Description:  m.Description,
		})
	}

	result, err := differ.Diff(previous, current, overrides)
	if err != nil {
		return errResult(err), compareOutput{}, nil
	}

	output := compareOutput{
		ProfileID:      result.ProfileID,
		TotalChanges:   len(result.Changes),
		AddedCount:     result.AddedCount,
		RemovedCount:   result.RemovedCount,
		ModifiedCount:  result.ModifiedCount,
		AutomatedCount: result.AutomatedCount,
		ManualCount:    result.ManualCount,
		HasBreaking:    result.HasBreakingChanges,
		Changes:        makeSlice[compareChange](len(result.Changes)),
	}

	for _, c := range result.Changes {
		if input.BreakingOnly && !c.IsBreaking() {
			continue
		}
		output.Changes = append(output.Changes, compareChange{
			Kind:         string(c.Kind),
			Path:         c.Path,
			PreviousPath: c.PreviousPath,
			Severity:     c.Severity.String(),
			Automated:    c.Automated,
			Message:      c.Message,
		})
	}
	for _, issue := range result.Issues {
		output.Warnings = append(output.Warnings, issue.Message)
	}

	output.Summary = fmt.Sprintf("%d changes (%d added, %d removed, %d modified); %d automated, %d manual",
		output.TotalChanges, output.AddedCount, output.RemovedCount, output.ModifiedCount,
		output.AutomatedCount, output.ManualCount)
	if output.HasBreaking {
		output.Summary += "; contains breaking changes"
	}
	return nil, output, nil
}
