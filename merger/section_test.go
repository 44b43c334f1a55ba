package merger

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fhirtools/igdiff/config"
	"github.com/fhirtools/igdiff/differ"
	"github.com/fhirtools/igdiff/igerrors"
	"github.com/fhirtools/igdiff/markup"
	"golang.org/x/net/html"
)

func parsePage(t *testing.T, body string) *html.Node {
	t.Helper()
	doc, err := markup.Parse(strings.NewReader("<html><body>" + body + "</body></html>"))
	require.NoError(t, err)
	return doc.Root()
}

func sectionHTML(tableRows ...string) string {
	return `<div id="tabs-snap"><p class="narrative">Snapshot view</p>` +
		`<div id="tbl-snap-inner"><table>` + strings.Join(tableRows, "") + `</table></div></div>`
}

func TestMergeSection(t *testing.T) {
	prevRoot := parsePage(t, sectionHTML(
		tableRow(1, "Patient", "0..*", "Patient"),
		tableRow(2, "Patient.nickname", "0..1", "string"),
	))
	currRoot := parsePage(t, `<div id="tabs-snap"><p class="narrative">Updated snapshot view</p>`+
		`<div id="tbl-snap-inner"><table>`+
		tableRow(1, "Patient", "0..*", "Patient")+
		tableRow(2, "Patient.deceased", "0..1", "boolean")+
		`</table></div></div>`)
	changes := []differ.ChangeRecord{
		{Kind: differ.KindRemoved, Path: "Patient.nickname"},
		{Kind: differ.KindAdded, Path: "Patient.deceased"},
	}

	ms, err := MergeSection("pat", prevRoot, currRoot, "tabs-snap", &differ.Result{Changes: changes}, config.NewHiddenPaths(nil))
	require.NoError(t, err)

	assert.Equal(t, "tabs-snap", ms.ID)
	require.Len(t, ms.Tables, 1)
	assert.Equal(t, "tbl-snap-inner", ms.Tables[0].ID)
	assert.Empty(t, ms.Issues)

	out, err := markup.RenderNode(ms.Node)
	require.NoError(t, err)
	// Narrative comes verbatim from the current version
	assert.Contains(t, out, "Updated snapshot view")
	assert.NotContains(t, out, ">Snapshot view<")
	// Merged rows replaced the current table
	assert.Contains(t, out, classRemoved)
	assert.Contains(t, out, classAdded)
	assert.Contains(t, out, "nickname")

	// Inputs untouched
	prevOut, err := markup.RenderNode(prevRoot)
	require.NoError(t, err)
	assert.NotContains(t, prevOut, classRemoved)
}

func TestMergeSectionTableOnlyInPrevious(t *testing.T) {
	prevRoot := parsePage(t, `<div id="tabs-snap">`+
		`<div id="tbl-a"><table>`+tableRow(1, "Patient", "0..*", "Patient")+`</table></div>`+
		`<div id="tbl-old"><table>`+tableRow(1, "Coverage", "0..*", "Coverage")+`</table></div>`+
		`</div>`)
	currRoot := parsePage(t, `<div id="tabs-snap">`+
		`<div id="tbl-a"><table>`+tableRow(1, "Patient", "0..*", "Patient")+`</table></div>`+
		`</div>`)

	ms, err := MergeSection("pat", prevRoot, currRoot, "tabs-snap", nil, config.NewHiddenPaths(nil))
	require.NoError(t, err)

	require.Len(t, ms.Issues, 1)
	assert.Contains(t, ms.Issues[0].Message, "tbl-old")
	assert.Contains(t, ms.Issues[0].Message, "missing from current")

	out, err := markup.RenderNode(ms.Node)
	require.NoError(t, err)
	// Carried through with rewritten ids so nothing collides
	assert.Contains(t, out, `id="prev-tbl-old"`)
	assert.Contains(t, out, "Coverage")
	assert.Contains(t, out, classRemoved)
}

func TestMergeSectionTableOnlyInCurrent(t *testing.T) {
	prevRoot := parsePage(t, `<div id="tabs-snap"></div>`)
	currRoot := parsePage(t, `<div id="tabs-snap">`+
		`<div id="tbl-new"><table>`+tableRow(1, "Device", "0..*", "Device")+`</table></div>`+
		`</div>`)

	ms, err := MergeSection("pat", prevRoot, currRoot, "tabs-snap", nil, config.NewHiddenPaths(nil))
	require.NoError(t, err)

	require.Len(t, ms.Issues, 1)
	assert.Contains(t, ms.Issues[0].Message, "missing from previous")
	assert.Empty(t, ms.Tables)

	out, err := markup.RenderNode(ms.Node)
	require.NoError(t, err)
	assert.Contains(t, out, classAdded)
	assert.Contains(t, out, "Device")
}

func TestMergeSectionMissingFromOneVersion(t *testing.T) {
	withSection := parsePage(t, sectionHTML(tableRow(1, "Patient", "0..*", "Patient")))
	without := parsePage(t, `<p>nothing here</p>`)

	ms, err := MergeSection("pat", withSection, without, "tabs-snap", nil, config.NewHiddenPaths(nil))
	require.NoError(t, err)
	require.Len(t, ms.Issues, 1)
	assert.Contains(t, ms.Issues[0].Message, "missing from current")

	out, err := markup.RenderNode(ms.Node)
	require.NoError(t, err)
	assert.Contains(t, out, `id="prev-tabs-snap"`)

	ms, err = MergeSection("pat", without, withSection, "tabs-snap", nil, config.NewHiddenPaths(nil))
	require.NoError(t, err)
	require.Len(t, ms.Issues, 1)
	assert.Contains(t, ms.Issues[0].Message, "missing from previous")
}

func TestMergeSectionMissingFromBoth(t *testing.T) {
	root := parsePage(t, `<p>nothing here</p>`)

	_, err := MergeSection("pat", root, root, "tabs-snap", nil, config.NewHiddenPaths(nil))
	require.Error(t, err)
	assert.ErrorIs(t, err, igerrors.ErrMarkup)
}
