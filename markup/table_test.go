package markup

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// snapshotPage mimics the IG publisher's snapshot table: nesting depth is
// encoded as tbl_*.png images in the name cell.
const snapshotPage = `<html><body><div id="tbl-snap-inner"><table>
<tr><th>Name</th><th>Flags</th><th>Card.</th><th>Type</th></tr>
<tr><td><img src="icons/tbl_spacer.png"/><a href="#Patient">Patient</a></td><td></td><td>0..*</td><td>Patient</td></tr>
<tr><td><img src="icons/tbl_spacer.png"/><img src="icons/tbl_vjoin.png"/><a href="#Patient.name">name</a></td><td>S</td><td>0..1</td><td>HumanName</td></tr>
<tr><td><img src="icons/tbl_spacer.png"/><img src="icons/tbl_blank.png"/><img src="icons/tbl_vjoin_end.png"/><a href="#Patient.name.given">given</a></td><td></td><td>0..*</td><td>string</td></tr>
<tr><td><img src="icons/tbl_spacer.png"/><img src="icons/tbl_vjoin_end.png"/><a href="#Patient.birthDate">birthDate</a></td><td></td><td>0..1</td><td>date</td></tr>
<tr><td>documentation row without images</td><td></td><td></td><td></td></tr>
</table></div></body></html>`

func TestExtractTable(t *testing.T) {
	doc, err := Parse(strings.NewReader(snapshotPage))
	require.NoError(t, err)

	table, err := ExtractTable(doc.Root(), "tbl-snap-inner")
	require.NoError(t, err)

	assert.Equal(t, "tbl-snap-inner", table.ID)
	assert.Equal(t,
		[]string{"Patient", "Patient.name", "Patient.name.given", "Patient.birthDate"},
		table.Paths())

	row, ok := table.Get("Patient.name.given")
	require.True(t, ok)
	assert.Equal(t, 3, row.Depth)
	require.Len(t, row.Cells, 4)
	assert.Equal(t, "0..*", Text(row.Cells[2]))
	assert.Equal(t, "string", Text(row.Cells[3]))

	// Sibling after a deeper subtree pops the stack correctly
	ord, ok := table.Ordinal("Patient.birthDate")
	require.True(t, ok)
	assert.Equal(t, 3, ord)

	assert.False(t, table.Contains("Patient.deceased"))
}

func TestExtractTableMissingContainer(t *testing.T) {
	doc, err := Parse(strings.NewReader("<html><body><p>no tables</p></body></html>"))
	require.NoError(t, err)

	_, err = ExtractTable(doc.Root(), "tbl-snap-inner")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "container not found")
}

func TestExtractTableContainerWithoutTable(t *testing.T) {
	doc, err := Parse(strings.NewReader(`<html><body><div id="tbl-snap-inner"><p>empty</p></div></body></html>`))
	require.NoError(t, err)

	_, err = ExtractTable(doc.Root(), "tbl-snap-inner")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no table element")
}
