// Package mcpserver implements an MCP (Model Context Protocol) server that
// exposes igdiff capabilities as MCP tools over stdio.
package mcpserver

import (
	"context"
	"regexp"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/fhirtools/igdiff"
)

const serverInstructions = `igdiff MCP server: compares two versions of FHIR profile definitions and reports structural changes.

Tools:
- profile_ids: list the profile IDs declared in the FSH sources under a folder
- compare: diff one profile's previous and current rendered pages and report added/removed/modified elements
- run: execute a full comparison run from a YAML configuration file, merging documentation pages and rebuilding the artifacts index

The compare tool reads the publisher's rendered snapshot tables, so pass the StructureDefinition-<id>.html pages, not the raw FSH.`

// Run starts the MCP server over stdio and blocks until the client
// disconnects or the context is cancelled.
func Run(ctx context.Context) error {
	server := mcp.NewServer(
		&mcp.Implementation{Name: "igdiff", Version: igdiff.Version()},
		&mcp.ServerOptions{
			Instructions: serverInstructions,
		},
	)
	registerAllTools(server)
	return server.Run(ctx, &mcp.StdioTransport{})
}

func registerAllTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "profile_ids",
		Description: "List the profile IDs declared in the FSH sources under a folder. Scans recursively for .fsh files and extracts their Id declarations.",
	}, handleProfileIDs)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "compare",
		Description: "Compare the previous and current rendered page of one profile and report its structural changes: added, removed, and modified elements with severity levels and automated/manual classification. Use breaking_only=true to focus on breaking changes first.",
	}, handleCompare)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "run",
		Description: "Execute a full comparison run from a YAML configuration file: diff every common profile, splice merged diff tables and the migration guide into the current pages, carry over removed profile pages, and rebuild the artifacts index. Writes into the current build folder.",
	}, handleRun)
}

func makeSlice[T any](n int) []T {
	if n == 0 {
		return nil
	}
	return make([]T, 0, n)
}

// sanitizeError strips absolute filesystem paths from error messages
// to prevent leaking internal directory structure to MCP clients.
var pathPattern = regexp.MustCompile(`(?:/(?:home|tmp|var|Users|etc|opt|usr|private|root|mnt|srv|run|snap|nix)[a-zA-Z0-9._/-]*)`)

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return pathPattern.ReplaceAllString(err.Error(), "<path>")
}

func errResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: sanitizeError(err)}},
	}
}
