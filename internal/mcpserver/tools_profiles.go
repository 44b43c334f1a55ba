package mcpserver

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/fhirtools/igdiff/extractor"
)

type profileIDsInput struct {
	Path string `json:"path" jsonschema:"Folder to scan recursively for .fsh files"`
}

type profileIDsOutput struct {
	ProfileIDs []string `json:"profile_ids,omitempty"`
	Count      int      `json:"count"`
	Summary    string   `json:"summary"`
}

func handleProfileIDs(_ context.Context, _ *mcp.CallToolRequest, input profileIDsInput) (*mcp.CallToolResult, profileIDsOutput, error) {
	ids, err := extractor.ProfileIDs(input.Path)
	if err != nil {
		return errResult(err), profileIDsOutput{}, nil
	}
	return nil, profileIDsOutput{
		ProfileIDs: ids,
		Count:      len(ids),
		Summary:    fmt.Sprintf("%d profiles declared", len(ids)),
	}, nil
}
