// Command igdiff compares two versions of a FHIR implementation guide and
// propagates the differences into its documentation artifacts.
package main

import (
	"fmt"
	"os"

	"github.com/fhirtools/igdiff"
	"github.com/fhirtools/igdiff/cmd/igdiff/commands"
	"github.com/fhirtools/igdiff/internal/cliutil"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "version", "-v", "--version":
		fmt.Printf("igdiff v%s\n", igdiff.Version())
	case "help", "-h", "--help":
		printUsage()
	case "run":
		if err := commands.HandleRun(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "diff":
		if err := commands.HandleDiff(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "profiles":
		if err := commands.HandleProfiles(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "mcp":
		if err := commands.HandleMCP(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	out := os.Stdout
	cliutil.Writef(out, "igdiff v%s - implementation guide version comparison\n\n", igdiff.Version())
	cliutil.Writef(out, "Usage: igdiff <command> [flags] [arguments]\n\n")
	cliutil.Writef(out, "Commands:\n")
	cliutil.Writef(out, "  run        Execute a full comparison run from a YAML configuration\n")
	cliutil.Writef(out, "  diff       Diff one profile's previous and current rendered pages\n")
	cliutil.Writef(out, "  profiles   List the profile IDs declared in a folder's FSH sources\n")
	cliutil.Writef(out, "  mcp        Start the MCP server over stdio\n")
	cliutil.Writef(out, "  version    Show version information\n")
	cliutil.Writef(out, "  help       Show this help message\n\n")
	cliutil.Writef(out, "Run 'igdiff <command> -h' for command-specific help.\n")
}
