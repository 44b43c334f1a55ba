package artifacts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fhirtools/igdiff/markup"
)

func TestReconcilePartition(t *testing.T) {
	previous := []string{"patient-profile", "coverage-profile", "claim-profile"}
	current := []string{"patient-profile", "claim-profile", "device-profile"}
	names := map[string]string{"patient-profile": "Patient Profile"}

	idx := Reconcile(previous, current, names, "1.1.0", "2.0.0")

	assert.Equal(t, 2, idx.UnchangedCount)
	assert.Equal(t, 1, idx.AddedCount)
	assert.Equal(t, 1, idx.RemovedCount)
	require.Len(t, idx.Entries, 4)

	// Partition covers the union and the sets are disjoint
	seen := make(map[string]Status)
	for _, e := range idx.Entries {
		_, dup := seen[e.ProfileID]
		require.False(t, dup)
		seen[e.ProfileID] = e.Status
	}
	assert.Equal(t, StatusUnchanged, seen["patient-profile"])
	assert.Equal(t, StatusUnchanged, seen["claim-profile"])
	assert.Equal(t, StatusRemoved, seen["coverage-profile"])
	assert.Equal(t, StatusNew, seen["device-profile"])

	unchanged, ok := idx.Get("patient-profile")
	require.True(t, ok)
	assert.Equal(t, "Patient Profile", unchanged.DisplayName)
	assert.Equal(t, "1.1.0, 2.0.0", unchanged.VersionAnnotation)

	added, ok := idx.Get("device-profile")
	require.True(t, ok)
	assert.Equal(t, "Device Profile", added.DisplayName)
	assert.Equal(t, "2.0.0", added.VersionAnnotation)

	removed, ok := idx.Get("coverage-profile")
	require.True(t, ok)
	assert.Equal(t, "1.1.0", removed.VersionAnnotation)

	_, ok = idx.Get("missing")
	assert.False(t, ok)
}

func TestDisplayNameFromID(t *testing.T) {
	assert.Equal(t, "Patient Birth Record", DisplayNameFromID("patient-birth-record"))
	assert.Equal(t, "Lab Result", DisplayNameFromID("lab_result"))
}

func TestByStatusAndSetDescription(t *testing.T) {
	idx := Reconcile([]string{"a", "b"}, []string{"b", "c"}, nil, "1", "2")

	assert.Len(t, idx.ByStatus(StatusRemoved), 1)
	assert.Len(t, idx.ByStatus(StatusNew), 1)
	assert.Len(t, idx.ByStatus(StatusUnchanged), 1)

	idx.SetDescription("c", "a brand new profile")
	entry, ok := idx.Get("c")
	require.True(t, ok)
	assert.Equal(t, "a brand new profile", entry.Description)
}

const indexPage = `<html><body><div id="artifacts">
<table><tr><th>Name</th><th>Description</th><th>Version</th></tr>
<tr><td><a href="StructureDefinition-old-profile.html">Old Profile</a></td><td>stale row</td><td>0.9</td></tr>
</table></div></body></html>`

func TestRebuildTable(t *testing.T) {
	doc, err := markup.Parse(strings.NewReader(indexPage))
	require.NoError(t, err)

	idx := Reconcile([]string{"patient-profile"}, []string{"patient-profile", "device-profile"}, nil, "1.1.0", "2.0.0")
	idx.SetDescription("device-profile", "newly introduced")
	require.NoError(t, idx.RebuildTable(doc.Root(), "artifacts"))

	out, err := doc.RenderBytes()
	require.NoError(t, err)
	rendered := string(out)

	// Stale rows are gone, headers stay
	assert.NotContains(t, rendered, "stale row")
	assert.Contains(t, rendered, "<th>Name</th>")

	assert.Contains(t, rendered, `href="StructureDefinition-patient-profile.html"`)
	assert.Contains(t, rendered, "igdiff-status-unchanged")
	assert.Contains(t, rendered, "igdiff-status-new")
	assert.Contains(t, rendered, `id="IG-version"`)
	assert.Contains(t, rendered, "1.1.0, 2.0.0")
	assert.Contains(t, rendered, "2.0.0 (new)")
	assert.Contains(t, rendered, "newly introduced")

	// Re-running the rebuild yields the same document
	require.NoError(t, idx.RebuildTable(doc.Root(), "artifacts"))
	again, err := doc.RenderBytes()
	require.NoError(t, err)
	assert.Equal(t, rendered, string(again))
}

func TestRebuildTableErrors(t *testing.T) {
	doc, err := markup.Parse(strings.NewReader("<html><body><div id='artifacts'><p>no table</p></div></body></html>"))
	require.NoError(t, err)

	idx := Reconcile(nil, nil, nil, "1", "2")
	require.Error(t, idx.RebuildTable(doc.Root(), "missing"))
	require.Error(t, idx.RebuildTable(doc.Root(), "artifacts"))
}

const profilePage = `<html><body>
<h2 id="root">Resource Profile: DevicePatientProfile</h2>
<p>Tracks a device assigned to a patient.</p>
</body></html>`

func TestScrapeProfileMeta(t *testing.T) {
	doc, err := markup.Parse(strings.NewReader(profilePage))
	require.NoError(t, err)

	name, description := ScrapeProfileMeta(doc.Root())
	assert.Equal(t, "DevicePatientProfile", name)
	assert.Equal(t, "Tracks a device assigned to a patient.", description)
}

func TestScrapeProfileMetaFallbacks(t *testing.T) {
	doc, err := markup.Parse(strings.NewReader("<html><body><p>unrelated</p></body></html>"))
	require.NoError(t, err)
	name, description := ScrapeProfileMeta(doc.Root())
	assert.Equal(t, "Unknown", name)
	assert.Equal(t, "No description found.", description)

	doc, err = markup.Parse(strings.NewReader(`<html><body><h2 id="root">Resource Profile: Named</h2><h3>next section</h3></body></html>`))
	require.NoError(t, err)
	name, description = ScrapeProfileMeta(doc.Root())
	assert.Equal(t, "Named", name)
	assert.Equal(t, "No description found.", description)
}
