package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/fhirtools/igdiff/config"
	"github.com/fhirtools/igdiff/internal/cliutil"
	"github.com/fhirtools/igdiff/pipeline"
	"github.com/fhirtools/igdiff/profile"
)

// RunFlags contains flags for the run command
type RunFlags struct {
	ConfigFile string
	Format     string
	Verbose    bool
}

// SetupRunFlags creates and configures a FlagSet for the run command.
// Returns the FlagSet and a RunFlags struct with bound flag variables.
func SetupRunFlags() (*flag.FlagSet, *RunFlags) {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	flags := &RunFlags{}

	fs.StringVar(&flags.ConfigFile, "config", "igdiff.yaml", "path to the YAML run configuration")
	fs.StringVar(&flags.Format, "format", FormatText, "output format: text, json, or yaml")
	fs.BoolVar(&flags.Verbose, "verbose", false, "enable debug logging to stderr")

	fs.Usage = func() {
		out := fs.Output()
		cliutil.Writef(out, "Usage: igdiff run [flags]\n\n")
		cliutil.Writef(out, "Execute a full comparison run: diff every profile present in both\n")
		cliutil.Writef(out, "versions, splice merged diff tables and the migration guide into the\n")
		cliutil.Writef(out, "current pages, carry over removed profile pages, and rebuild the\n")
		cliutil.Writef(out, "artifacts index. Output is written into the current build folder.\n\n")
		cliutil.Writef(out, "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(out, "\nExamples:\n")
		cliutil.Writef(out, "  igdiff run\n")
		cliutil.Writef(out, "  igdiff run --config comparisons/r4-to-r5.yaml --verbose\n")
		cliutil.Writef(out, "  igdiff run --format json | jq '.Skipped'\n")
		cliutil.Writef(out, "\nExit Status:\n")
		cliutil.Writef(out, "  0    Run completed\n")
		cliutil.Writef(out, "  1    Run failed or was cancelled\n")
	}

	return fs, flags
}

// HandleRun executes the run command
func HandleRun(args []string) error {
	fs, flags := SetupRunFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	if err := ValidateOutputFormat(flags.Format); err != nil {
		return err
	}

	cfg, err := config.Load(flags.ConfigFile)
	if err != nil {
		return err
	}

	opts := []pipeline.Option{}
	if flags.Verbose {
		handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
		opts = append(opts, pipeline.WithLogger(profile.NewSlogAdapter(slog.New(handler))))
	}
	runner, err := pipeline.New(cfg, opts...)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := runner.Run(ctx)
	if err != nil {
		return err
	}

	if flags.Format != FormatText {
		return OutputStructured(report, flags.Format)
	}

	fmt.Printf("Comparison %s -> %s\n\n", cfg.Comparison.PreviousVersion, cfg.Comparison.CurrentVersion)
	fmt.Printf("Profiles: %d processed, %d skipped, %d added, %d removed\n",
		len(report.Processed), len(report.Skipped), len(report.Added), len(report.Removed))
	fmt.Printf("Changes:  %d across %d profiles\n",
		report.ChangeSet.TotalChanges(), report.ChangeSet.Len())
	fmt.Printf("Pages:    %d written\n", len(report.PagesWritten))
	if report.HasBreakingChanges {
		fmt.Println("\nBreaking changes detected")
	}
	for _, issue := range report.Issues {
		fmt.Println(issue)
	}
	return nil
}
