package commands

import (
	"errors"
	"flag"
	"fmt"

	"github.com/fhirtools/igdiff/extractor"
	"github.com/fhirtools/igdiff/internal/cliutil"
)

// ProfilesFlags contains flags for the profiles command
type ProfilesFlags struct {
	Format string
}

// SetupProfilesFlags creates and configures a FlagSet for the profiles command.
func SetupProfilesFlags() (*flag.FlagSet, *ProfilesFlags) {
	fs := flag.NewFlagSet("profiles", flag.ContinueOnError)
	flags := &ProfilesFlags{}

	fs.StringVar(&flags.Format, "format", FormatText, "output format: text, json, or yaml")

	fs.Usage = func() {
		out := fs.Output()
		cliutil.Writef(out, "Usage: igdiff profiles [flags] <folder>\n\n")
		cliutil.Writef(out, "List the profile IDs declared in the FSH sources under a folder.\n\n")
		cliutil.Writef(out, "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(out, "\nExamples:\n")
		cliutil.Writef(out, "  igdiff profiles build/input/fsh\n")
		cliutil.Writef(out, "  igdiff profiles --format json build/input/fsh\n")
	}

	return fs, flags
}

// HandleProfiles executes the profiles command
func HandleProfiles(args []string) error {
	fs, flags := SetupProfilesFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("profiles command requires exactly one folder path")
	}
	if err := ValidateOutputFormat(flags.Format); err != nil {
		return err
	}

	ids, err := extractor.ProfileIDs(fs.Arg(0))
	if err != nil {
		return err
	}

	if flags.Format != FormatText {
		return OutputStructured(struct {
			ProfileIDs []string `json:"profile_ids" yaml:"profile_ids"`
			Count      int      `json:"count" yaml:"count"`
		}{ids, len(ids)}, flags.Format)
	}

	for _, id := range ids {
		fmt.Println(id)
	}
	fmt.Printf("\n%d profiles declared\n", len(ids))
	return nil
}
