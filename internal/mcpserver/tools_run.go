package mcpserver

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/fhirtools/igdiff/config"
	"github.com/fhirtools/igdiff/pipeline"
)

type runInput struct {
	ConfigFile string `json:"config_file" jsonschema:"Path to the YAML run configuration"`
}

type runOutput struct {
	Processed    []string `json:"processed,omitempty"`
	Skipped      []string `json:"skipped,omitempty"`
	Added        []string `json:"added,omitempty"`
	Removed      []string `json:"removed,omitempty"`
	TotalChanges int      `json:"total_changes"`
	PagesWritten int      `json:"pages_written"`
	HasBreaking  bool     `json:"has_breaking_changes"`
	Warnings     []string `json:"warnings,omitempty"`
	Summary      string   `json:"summary"`
}

func handleRun(ctx context.Context, _ *mcp.CallToolRequest, input runInput) (*mcp.CallToolResult, runOutput, error) {
	cfg, err := config.Load(input.ConfigFile)
	if err != nil {
		return errResult(err), runOutput{}, nil
	}
	runner, err := pipeline.New(cfg)
	if err != nil {
		return errResult(err), runOutput{}, nil
	}
	report, err := runner.Run(ctx)
	if err != nil {
		return errResult(err), runOutput{}, nil
	}

	output := runOutput{
		Processed:    report.Processed,
		Skipped:      report.Skipped,
		Added:        report.Added,
		Removed:      report.Removed,
		TotalChanges: report.ChangeSet.TotalChanges(),
		PagesWritten: len(report.PagesWritten),
		HasBreaking:  report.HasBreakingChanges,
		Warnings:     makeSlice[string](len(report.Issues)),
	}
	for _, issue := range report.Issues {
		output.Warnings = append(output.Warnings, issue.String())
	}
	output.Summary = fmt.Sprintf("%d profiles processed, %d skipped, %d changes, %d pages written",
		len(report.Processed), len(report.Skipped), output.TotalChanges, output.PagesWritten)
	return nil, output, nil
}
