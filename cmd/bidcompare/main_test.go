package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"bidcompare/internal/shared/testutil"
)

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func threeBids(t *testing.T, dir string) []string {
	t.Helper()
	return []string{
		writeFile(t, dir, "a.csv", testutil.SimpleCSVBid([3]string{"01.01", "1", "100"}, [3]string{"02.01", "1", "100"})),
		writeFile(t, dir, "b.csv", testutil.SimpleCSVBid([3]string{"01.01", "1", "120"}, [3]string{"02.01", "1", "120"})),
		writeFile(t, dir, "c.csv", testutil.SimpleCSVBid([3]string{"01.01", "1", "150"}, [3]string{"02.01", "1", "150"})),
	}
}

func TestRunSummary(t *testing.T) {
	dir := t.TempDir()
	files := threeBids(t, dir)
	output := filepath.Join(dir, "rapport.xlsx")

	var stdout, stderr bytes.Buffer
	code := run(append([]string{"-o", output}, files...), &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	out := stdout.String()
	assert.Contains(t, out, "Laster tilbud...")
	assert.Contains(t, out, "  ✓ a.csv -> a\n")
	assert.Contains(t, out, "OPPSUMMERING")
	assert.Contains(t, out, "Antall tilbydere: 3\n")
	assert.Contains(t, out, "Antall poster: 2\n")
	assert.Contains(t, out, "  a"+strings.Repeat(" ", 39)+"  kr "+strings.Repeat(" ", 9)+"200.00\n")
	assert.Contains(t, out, "🏆 VINNER: a")
	assert.Contains(t, out, "Z-SCORE TOTALER (lavere = bedre):")
	assert.Contains(t, out, "✅ a")
	assert.Contains(t, out, "⚠️ c")
	assert.Contains(t, out, "-1.85")
	assert.NotContains(t, out, "KAPITTELOPPSUMMERING")
	assert.Contains(t, out, "✅ Excel-rapport lagret: "+output)

	// cheapest first
	assert.Less(t, strings.Index(out, "  a  "), strings.Index(out, "  c  "))

	f, err := excelize.OpenFile(output)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"a", "b", "c", "Sammenligning", "Kapittel"}, f.GetSheetList())
}

func TestRunWithoutZScores(t *testing.T) {
	dir := t.TempDir()
	files := threeBids(t, dir)[:2]

	var stdout, stderr bytes.Buffer
	code := run(append(files, "-o", filepath.Join(dir, "r.xlsx")), &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())
	assert.NotContains(t, stdout.String(), "Z-SCORE")
}

func TestRunOptionsAndTie(t *testing.T) {
	dir := t.TempDir()
	xmlBid := testutil.XMLBid{
		Sender: "Xco AS",
		Posts: []testutil.XMLPost{
			{ItemCode: "01.01", Text: "Rigg", Quantity: 1, UnitPrice: 500, Total: 500},
			{ItemCode: "09.01", Text: "Ekstra", Quantity: 1, UnitPrice: 1234.5, Total: 1234.5, Option: true},
		},
	}
	files := []string{
		writeFile(t, dir, "x.xml", xmlBid.Bytes()),
		writeFile(t, dir, "y.csv", testutil.SimpleCSVBid([3]string{"01.01", "1", "500"})),
	}

	var stdout, stderr bytes.Buffer
	code := run(append(files, "-o", filepath.Join(dir, "r.xlsx")), &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	out := stdout.String()
	assert.Contains(t, out, "  ✓ x.xml -> Xco AS\n")
	assert.Contains(t, out, " (+ kr 1,234.50 i opsjoner)")
	assert.Contains(t, out, "Ingen vinner: alle tilbud er like")
	assert.NotContains(t, out, "VINNER")
}

func TestRunVerboseAndExports(t *testing.T) {
	dir := t.TempDir()
	files := threeBids(t, dir)
	csvDir := filepath.Join(dir, "csv")
	pdfPath := filepath.Join(dir, "sammendrag.pdf")

	var stdout, stderr bytes.Buffer
	args := append([]string{"-v", "--csv", csvDir}, files...)
	args = append(args, "--pdf", pdfPath, "-o", filepath.Join(dir, "r.xlsx"))
	code := run(args, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	out := stdout.String()
	assert.Contains(t, out, "KAPITTELOPPSUMMERING")
	assert.Contains(t, out, "\nKapittel 01: ")
	assert.Contains(t, out, "  🏆 a")
	assert.Contains(t, out, "✅ CSV-filer lagret i "+csvDir)
	assert.Contains(t, out, "✅ PDF-sammendrag lagret: "+pdfPath)

	for _, name := range []string{"sammenligning.csv", "kapittel.csv", "tilbud_a.csv"} {
		assert.FileExists(t, filepath.Join(csvDir, name))
	}
	pdf, err := os.ReadFile(pdfPath)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))
}

func TestRunNoValidBids(t *testing.T) {
	dir := t.TempDir()
	empty := writeFile(t, dir, "tom.csv", nil)
	missing := filepath.Join(dir, "borte.csv")

	var stdout, stderr bytes.Buffer
	code := run([]string{missing, empty}, &stdout, &stderr)
	assert.Equal(t, 1, code)

	out := stdout.String()
	assert.Contains(t, out, "  ✗ tom.csv: tom.csv is empty.\n")
	assert.Contains(t, out, "\n❌ Ingen gyldige tilbud ble lastet!")
	assert.Contains(t, out, "\nFeil:\n")
	assert.Contains(t, out, "  - Filen finnes ikke: "+missing+"\n")
	assert.Contains(t, out, "  - Kunne ikke lese tom.csv: tom.csv is empty.\n")
	assert.NoFileExists(t, "sammenligning.xlsx")
}

func TestRunPartialFailure(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "god.csv", testutil.SimpleCSVBid([3]string{"01.01", "1", "10"}))
	bad := writeFile(t, dir, "feil.xml", []byte("<NS3459>"))

	var stdout, stderr bytes.Buffer
	code := run([]string{bad, good, "-o", filepath.Join(dir, "r.xlsx")}, &stdout, &stderr)
	require.Equal(t, 0, code)

	out := stdout.String()
	assert.Contains(t, out, "  ✗ feil.xml: ")
	assert.Contains(t, out, "  ✓ god.csv -> god\n")
	assert.Less(t, strings.Index(out, "feil.xml"), strings.Index(out, "god.csv"))
}

func TestRunRejectsDirectoryOutput(t *testing.T) {
	dir := t.TempDir()
	files := threeBids(t, dir)[:1]

	var stdout, stderr bytes.Buffer
	code := run(append(files, "-o", dir), &stdout, &stderr)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "path is a directory")
}

func TestParseArgs(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		wantFiles []string
		wantOut   string
		verbose   bool
		wantErr   bool
	}{
		{"defaults", []string{"a.xml"}, []string{"a.xml"}, "sammenligning.xlsx", false, false},
		{"flags first", []string{"-o", "r.xlsx", "-v", "a.xml", "b.csv"}, []string{"a.xml", "b.csv"}, "r.xlsx", true, false},
		{"flags last", []string{"a.xml", "b.csv", "--output", "r.xlsx"}, []string{"a.xml", "b.csv"}, "r.xlsx", false, false},
		{"interleaved", []string{"a.xml", "--verbose", "b.csv"}, []string{"a.xml", "b.csv"}, "sammenligning.xlsx", true, false},
		{"no files", []string{"-v"}, nil, "", false, true},
		{"unknown flag", []string{"--nope", "a.xml"}, nil, "", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stderr bytes.Buffer
			opts, err := parseArgs(tt.args, &stderr)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantFiles, opts.files)
			assert.Equal(t, tt.wantOut, opts.output)
			assert.Equal(t, tt.verbose, opts.verbose)
		})
	}
}

func TestZIndicator(t *testing.T) {
	assert.Equal(t, "✅", zIndicator(-1.5))
	assert.Equal(t, "⚠️", zIndicator(1.5))
	assert.Equal(t, "  ", zIndicator(1))
}
