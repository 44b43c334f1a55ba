package commands

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/fhirtools/igdiff/internal/cliutil"
	"github.com/fhirtools/igdiff/internal/mcpserver"
)

// SetupMCPFlags creates and configures a FlagSet for the mcp command.
func SetupMCPFlags() *flag.FlagSet {
	fs := flag.NewFlagSet("mcp", flag.ContinueOnError)

	fs.Usage = func() {
		out := fs.Output()
		cliutil.Writef(out, "Usage: igdiff mcp\n\n")
		cliutil.Writef(out, "Start the MCP (Model Context Protocol) server over stdio. The server\n")
		cliutil.Writef(out, "exposes the profile_ids, compare, and run tools and blocks until the\n")
		cliutil.Writef(out, "client disconnects.\n")
	}

	return fs
}

// HandleMCP executes the mcp command
func HandleMCP(args []string) error {
	fs := SetupMCPFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return mcpserver.Run(ctx)
}
