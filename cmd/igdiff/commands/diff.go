package commands

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fhirtools/igdiff/differ"
	"github.com/fhirtools/igdiff/extractor"
	"github.com/fhirtools/igdiff/internal/cliutil"
)

// DiffFlags contains flags for the diff command
type DiffFlags struct {
	ProfileID    string
	TableID      string
	Format       string
	BreakingOnly bool
}

// SetupDiffFlags creates and configures a FlagSet for the diff command.
// Returns the FlagSet and a DiffFlags struct with bound flag variables.
func SetupDiffFlags() (*flag.FlagSet, *DiffFlags) {
	fs := flag.NewFlagSet("diff", flag.ContinueOnError)
	flags := &DiffFlags{}

	fs.StringVar(&flags.ProfileID, "profile", "", "profile ID (default: derived from the current page filename)")
	fs.StringVar(&flags.TableID, "table", "tbl-snap-inner", "container id of the element table to diff")
	fs.StringVar(&flags.Format, "format", FormatText, "output format: text, json, or yaml")
	fs.BoolVar(&flags.BreakingOnly, "breaking-only", false, "only show breaking changes")

	fs.Usage = func() {
		out := fs.Output()
		cliutil.Writef(out, "Usage: igdiff diff [flags] <previous-page> <current-page>\n\n")
		cliutil.Writef(out, "Compare one profile's previous and current rendered pages and report\n")
		cliutil.Writef(out, "its structural element changes.\n\n")
		cliutil.Writef(out, "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(out, "\nExamples:\n")
		cliutil.Writef(out, "  igdiff diff v1/StructureDefinition-patient.html v2/StructureDefinition-patient.html\n")
		cliutil.Writef(out, "  igdiff diff --breaking-only --format json old.html new.html\n")
		cliutil.Writef(out, "\nExit Status:\n")
		cliutil.Writef(out, "  0    No breaking changes found\n")
		cliutil.Writef(out, "  1    Breaking changes found\n")
	}

	return fs, flags
}

// HandleDiff executes the diff command
func HandleDiff(args []string) error {
	fs, flags := SetupDiffFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	if fs.NArg() != 2 {
		fs.Usage()
		return fmt.Errorf("diff command requires exactly two page paths")
	}
	if err := ValidateOutputFormat(flags.Format); err != nil {
		return err
	}

	previousPage := fs.Arg(0)
	currentPage := fs.Arg(1)

	profileID := flags.ProfileID
	if profileID == "" {
		profileID = profileIDFromPage(currentPage)
	}

	previous, err := extractor.LoadModel(profileID, "previous", previousPage, flags.TableID)
	if err != nil {
		return fmt.Errorf("loading previous model: %w", err)
	}
	current, err := extractor.LoadModel(profileID, "current", currentPage, flags.TableID)
	if err != nil {
		return fmt.Errorf("loading current model: %w", err)
	}

	result, err := differ.Diff(previous, current, nil)
	if err != nil {
		return fmt.Errorf("comparing models: %w", err)
	}

	if flags.Format != FormatText {
		if err := OutputStructured(result, flags.Format); err != nil {
			return err
		}
		if result.HasBreakingChanges {
			os.Exit(1)
		}
		return nil
	}

	fmt.Printf("Profile %s: %d elements -> %d elements\n\n",
		result.ProfileID, result.PreviousCount, result.CurrentCount)

	shown := 0
	for _, c := range result.Changes {
		if flags.BreakingOnly && !c.IsBreaking() {
			continue
		}
		fmt.Println(c)
		shown++
	}
	if shown == 0 {
		fmt.Println("No changes detected")
	}
	for _, issue := range result.Issues {
		fmt.Println(issue)
	}

	fmt.Printf("\n%d added, %d removed, %d modified (%d automated, %d manual)\n",
		result.AddedCount, result.RemovedCount, result.ModifiedCount,
		result.AutomatedCount, result.ManualCount)

	if result.HasBreakingChanges {
		os.Exit(1)
	}
	return nil
}

// profileIDFromPage derives a profile ID from a rendered page filename,
// e.g. "v2/StructureDefinition-patient-profile.html" -> "patient-profile".
func profileIDFromPage(pagePath string) string {
	base := filepath.Base(pagePath)
	base = strings.TrimSuffix(base, ".html")
	return strings.TrimPrefix(base, "StructureDefinition-")
}
