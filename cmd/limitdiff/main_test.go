package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const oldCSV = `,parametric,,,
key,,A,B,C
min,,0,1,2
max,,10,20,30
`

const newCSV = `,parametric,,,
key,,A,B,D
min,,0,1,5
max,,10,25,50
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCompare_Text(t *testing.T) {
	dir := t.TempDir()
	oldPath := writeFile(t, dir, "v1.csv", oldCSV)
	newPath := writeFile(t, dir, "v2.csv", newCSV)

	out, err := run(t, "compare", oldPath, newPath)
	require.NoError(t, err)

	assert.Contains(t, out, "v1.csv")
	assert.Contains(t, out, "v2.csv")
	assert.NotContains(t, out, "\x1b[")
}

func TestCompare_JSON(t *testing.T) {
	dir := t.TempDir()
	oldPath := writeFile(t, dir, "v1.csv", oldCSV)
	newPath := writeFile(t, dir, "v2.csv", newCSV)

	out, err := run(t, "compare", oldPath, newPath, "--format", "json")
	require.NoError(t, err)

	var doc struct {
		Summary struct {
			Added, Removed, Changed, Unchanged int
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, 1, doc.Summary.Added)
	assert.Equal(t, 1, doc.Summary.Removed)
	assert.Equal(t, 1, doc.Summary.Changed)
	assert.Equal(t, 1, doc.Summary.Unchanged)
}

func TestCompare_XLSXOut(t *testing.T) {
	dir := t.TempDir()
	oldPath := writeFile(t, dir, "v1.csv", oldCSV)
	newPath := writeFile(t, dir, "v2.csv", newCSV)
	outPath := filepath.Join(dir, "report.xlsx")

	out, err := run(t, "compare", oldPath, newPath, "-f", "xlsx", "-o", outPath)
	require.NoError(t, err)
	assert.Empty(t, out)

	f, err := excelize.OpenFile(outPath)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Comparison Report"}, f.GetSheetList())
}

func TestCompare_Bucket(t *testing.T) {
	dir := t.TempDir()
	oldPath := writeFile(t, dir, "v1.csv", oldCSV)
	newPath := writeFile(t, dir, "v2.csv", newCSV)

	out, err := run(t, "compare", oldPath, newPath, "--bucket", "removed")
	require.NoError(t, err)
	assert.Equal(t, "Key Name,Upper Limit,Lower Limit\nC,30,2\n", out)
}

func TestCompare_ExitCode(t *testing.T) {
	dir := t.TempDir()
	oldPath := writeFile(t, dir, "v1.csv", oldCSV)
	newPath := writeFile(t, dir, "v2.csv", newCSV)

	_, err := run(t, "compare", oldPath, newPath, "--exit-code")
	assert.ErrorIs(t, err, errDifferences)

	_, err = run(t, "compare", oldPath, oldPath, "--exit-code")
	assert.NoError(t, err)
}

func TestCompare_Errors(t *testing.T) {
	dir := t.TempDir()
	oldPath := writeFile(t, dir, "v1.csv", oldCSV)
	badPath := writeFile(t, dir, "bad.csv", ",parametric\nkey,,A\nmax,,ten\n")

	_, err := run(t, "compare", oldPath, badPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "new table")

	_, err = run(t, "compare", oldPath, filepath.Join(dir, "missing.csv"))
	assert.Error(t, err)

	_, err = run(t, "compare", oldPath, oldPath, "--format", "pdf")
	assert.Error(t, err)

	_, err = run(t, "compare", oldPath, oldPath, "--parametric", " ")
	assert.ErrorContains(t, err, "parametric marker is empty")

	_, err = run(t, "compare", oldPath)
	assert.Error(t, err)
}

func TestInspect_FlagsAndProfile(t *testing.T) {
	dir := t.TempDir()
	table := writeFile(t, dir, "t.csv", "Item,Test Item,,\nNames,,A,B\nLO,,1,x\nHI,,5,6\n")
	profile := writeFile(t, dir, "profile.yaml", "parametric: test item\nkey: names\nmetrics: [lo, hi]\n")

	out, err := run(t, "inspect", table, "--profile", profile, "--nulls", "x", "-f", "json")
	require.NoError(t, err)

	var rs struct {
		Source  string `json:"source"`
		Entries []struct {
			Name  string             `json:"name"`
			Limit map[string]float64 `json:"limit"`
		} `json:"entries"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &rs))
	assert.Equal(t, "t.csv", rs.Source)
	require.Len(t, rs.Entries, 2)
	assert.Equal(t, map[string]float64{"lo": 1, "hi": 5}, rs.Entries[0].Limit)
	assert.Equal(t, map[string]float64{"hi": 6}, rs.Entries[1].Limit)
}

func TestInspect_Text(t *testing.T) {
	path := writeFile(t, t.TempDir(), "v1.csv", oldCSV)

	out, err := run(t, "inspect", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Total keys:        3")
	assert.Contains(t, out, "Parametric column: B (2)")
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "limitdiff ")
}

func TestUseColor(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	assert.True(t, useColor("always", false))
	assert.False(t, useColor("never", true))
	assert.True(t, useColor("auto", true))
	assert.False(t, useColor("auto", false))
}

func TestCompare_Sort(t *testing.T) {
	dir := t.TempDir()
	oldPath := writeFile(t, dir, "v1.csv", ",parametric,,\nkey,,Z,A\nmax,,1,2\n")
	newPath := writeFile(t, dir, "v2.csv", ",parametric\nkey,,B\nmax,,1\n")

	out, err := run(t, "compare", oldPath, newPath, "--bucket", "removed", "--sort")
	require.NoError(t, err)
	assert.Equal(t, "Key Name,Upper Limit,Lower Limit\nA,2,N/A\nZ,1,N/A\n", out)
}
