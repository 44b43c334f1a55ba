package mcpserver

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const previousPage = `<html><body><div id="tbl-snap-inner"><table>
<tr><td><img src="icons/tbl_spacer.png"/><a href="#Patient">Patient</a></td><td></td><td>0..*</td><td>Patient</td></tr>
<tr><td><img src="icons/tbl_spacer.png"/><img src="icons/tbl_vjoin.png"/><a href="#Patient.name">name</a></td><td></td><td>0..1</td><td>HumanName</td></tr>
<tr><td><img src="icons/tbl_spacer.png"/><img src="icons/tbl_vjoin_end.png"/><a href="#Patient.nickname">nickname</a></td><td></td><td>0..1</td><td>string</td></tr>
</table></div></body></html>`

const currentPage = `<html><body><div id="tbl-snap-inner"><table>
<tr><td><img src="icons/tbl_spacer.png"/><a href="#Patient">Patient</a></td><td></td><td>0..*</td><td>Patient</td></tr>
<tr><td><img src="icons/tbl_spacer.png"/><img src="icons/tbl_vjoin.png"/><a href="#Patient.name">name</a></td><td></td><td>1..1</td><td>HumanName</td></tr>
<tr><td><img src="icons/tbl_spacer.png"/><img src="icons/tbl_vjoin_end.png"/><a href="#Patient.alias">alias</a></td><td></td><td>0..1</td><td>string</td></tr>
</table></div></body></html>`

func writePages(t *testing.T) (prevPath, currPath string) {
	t.Helper()
	dir := t.TempDir()
	prevPath = filepath.Join(dir, "prev.html")
	currPath = filepath.Join(dir, "curr.html")
	require.NoError(t, os.WriteFile(prevPath, []byte(previousPage), 0o644))
	require.NoError(t, os.WriteFile(currPath, []byte(currentPage), 0o644))
	return prevPath, currPath
}

func TestHandleCompare(t *testing.T) {
	prevPath, currPath := writePages(t)

	result, output, err := handleCompare(context.Background(), nil, compareInput{
		ProfileID:    "patient-profile",
		PreviousPage: prevPath,
		CurrentPage:  currPath,
	})
	require.NoError(t, err)
	require.Nil(t, result)

	assert.Equal(t, "patient-profile", output.ProfileID)
	assert.Equal(t, 3, output.TotalChanges)
	assert.Equal(t, 1, output.AddedCount)
	assert.Equal(t, 1, output.RemovedCount)
	assert.Equal(t, 1, output.ModifiedCount)
	assert.True(t, output.HasBreaking)
	assert.Contains(t, output.Summary, "3 changes")
}

func TestHandleCompareWithMapping(t *testing.T) {
	prevPath, currPath := writePages(t)

	_, output, err := handleCompare(context.Background(), nil, compareInput{
		ProfileID:    "patient-profile",
		PreviousPage: prevPath,
		CurrentPage:  currPath,
		Mappings: []mappingInput{
			{PreviousPath: "Patient.nickname", CurrentPath: "Patient.alias"},
		},
	})
	require.NoError(t, err)

	// The rename collapses the add/remove pair; equal tuples leave only the
	// cardinality change on Patient.name
	assert.Equal(t, 1, output.TotalChanges)
	assert.Equal(t, 0, output.AddedCount)
	assert.Equal(t, 0, output.RemovedCount)
}

func TestHandleCompareBreakingOnly(t *testing.T) {
	prevPath, currPath := writePages(t)

	_, output, err := handleCompare(context.Background(), nil, compareInput{
		ProfileID:    "patient-profile",
		PreviousPage: prevPath,
		CurrentPage:  currPath,
		BreakingOnly: true,
	})
	require.NoError(t, err)

	// Adding and removing optional elements is informational; only the
	// tightened cardinality on Patient.name breaks compatibility
	require.Len(t, output.Changes, 1)
	assert.Equal(t, "modified", output.Changes[0].Kind)
	assert.Equal(t, "Patient.name", output.Changes[0].Path)
}

func TestHandleCompareMissingPage(t *testing.T) {
	_, currPath := writePages(t)

	result, _, err := handleCompare(context.Background(), nil, compareInput{
		ProfileID:    "patient-profile",
		PreviousPage: filepath.Join(t.TempDir(), "absent.html"),
		CurrentPage:  currPath,
	})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.IsError)
}

func TestHandleProfileIDs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "p.fsh"),
		[]byte("Id: patient-profile\nId: device-profile\n"), 0o644))

	result, output, err := handleProfileIDs(context.Background(), nil, profileIDsInput{Path: dir})
	require.NoError(t, err)
	require.Nil(t, result)
	assert.Equal(t, 2, output.Count)
	assert.Equal(t, []string{"patient-profile", "device-profile"}, output.ProfileIDs)
}

func TestHandleProfileIDsMissingPath(t *testing.T) {
	result, _, err := handleProfileIDs(context.Background(), nil,
		profileIDsInput{Path: filepath.Join(t.TempDir(), "absent")})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.IsError)
}

func TestSanitizeError(t *testing.T) {
	assert.Equal(t, "", sanitizeError(nil))
	err := os.ErrNotExist
	assert.Equal(t, err.Error(), sanitizeError(err))
}
