package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupDiffFlags(t *testing.T) {
	fs, flags := SetupDiffFlags()
	require.NotNil(t, fs)
	require.NotNil(t, flags)

	require.NoError(t, fs.Parse([]string{
		"-profile", "patient-profile",
		"-table", "tbl-diff-inner",
		"-format", "json",
		"-breaking-only",
		"prev.html", "curr.html",
	}))

	assert.Equal(t, "patient-profile", flags.ProfileID)
	assert.Equal(t, "tbl-diff-inner", flags.TableID)
	assert.Equal(t, "json", flags.Format)
	assert.True(t, flags.BreakingOnly)
	assert.Equal(t, []string{"prev.html", "curr.html"}, fs.Args())
}

func TestSetupDiffFlagsDefaults(t *testing.T) {
	fs, flags := SetupDiffFlags()
	require.NoError(t, fs.Parse(nil))

	assert.Empty(t, flags.ProfileID)
	assert.Equal(t, "tbl-snap-inner", flags.TableID)
	assert.Equal(t, FormatText, flags.Format)
	assert.False(t, flags.BreakingOnly)
}

func TestHandleDiffArgErrors(t *testing.T) {
	// Too few positional arguments
	err := HandleDiff([]string{"only-one.html"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exactly two page paths")

	// Invalid format rejected before any file access
	err = HandleDiff([]string{"-format", "xml", "a.html", "b.html"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestProfileIDFromPage(t *testing.T) {
	tests := []struct {
		page string
		want string
	}{
		{"StructureDefinition-patient-profile.html", "patient-profile"},
		{"v2/output/StructureDefinition-device-profile.html", "device-profile"},
		{"custom-page.html", "custom-page"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, profileIDFromPage(tt.page))
	}
}
