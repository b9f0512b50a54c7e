package report

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xuri/excelize/v2"
)

func TestBuildDiscrepancyReportCombines(t *testing.T) {
	dir := t.TempDir()
	file1 := filepath.Join(dir, "part1.xlsx")
	file2 := filepath.Join(dir, "part2.xlsx")
	outputFile := filepath.Join(dir, CombinedReportName)

	writeCMMWorkbook(t, file1, "SN001", [][]any{
		{"A", 10.6, 10.0, 0.5, 0.0},   // fails high
		{"C1", 5.0, 5.0, 0.1, -0.1},   // passes
		{"nan", 99.0, 0.0, 0.1, -0.1}, // excluded label
		{"12.X", 99.0, 0.0, 0.1, -0.1},
	})
	writeCMMWorkbook(t, file2, "SN002", [][]any{
		{"B", 9.4, 10.0, 0.5, -0.5}, // fails low
	})

	result, err := BuildDiscrepancyReport([]string{file1, file2}, outputFile, DefaultOptions(), nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"Dim#A (10 + 0.5)", "Dim#B (10 +/- 0.5)"}, result.Columns)
	require.Len(t, result.Outcomes, 2)
	assert.Equal(t, "SN001", result.Outcomes[0].SerialNumber)
	assert.Equal(t, 1, result.Outcomes[0].Failures)
	assert.Equal(t, 1, result.Outcomes[1].Failures)

	// Header row plus one row per file, blanks where a part passed
	assert.Equal(t, "SN", readCell(t, outputFile, "A1"))
	assert.Equal(t, "Dim#A (10 + 0.5)", readCell(t, outputFile, "B1"))
	assert.Equal(t, "Dim#B (10 +/- 0.5)", readCell(t, outputFile, "C1"))
	assert.Equal(t, "SN001", readCell(t, outputFile, "A2"))
	assert.Equal(t, "10.6000", readCell(t, outputFile, "B2"))
	assert.Equal(t, "", readCell(t, outputFile, "C2"))
	assert.Equal(t, "SN002", readCell(t, outputFile, "A3"))
	assert.Equal(t, "", readCell(t, outputFile, "B3"))
	assert.Equal(t, "9.4000", readCell(t, outputFile, "C3"))
}

func TestBuildDiscrepancyReportIsolatesBadFiles(t *testing.T) {
	dir := t.TempDir()
	good1 := filepath.Join(dir, "good1.xlsx")
	corrupt := filepath.Join(dir, "corrupt.xlsx")
	good2 := filepath.Join(dir, "good2.xlsx")
	outputFile := filepath.Join(dir, CombinedReportName)

	writeCMMWorkbook(t, good1, "SN001", [][]any{{"A", 10.6, 10.0, 0.5, 0.0}})
	require.NoError(t, os.WriteFile(corrupt, []byte("not a workbook"), 0o644))
	writeCMMWorkbook(t, good2, "SN002", [][]any{{"A", 10.7, 10.0, 0.5, 0.0}})

	result, err := BuildDiscrepancyReport([]string{good1, corrupt, good2}, outputFile, DefaultOptions(), nil)
	require.NoError(t, err)

	require.Len(t, result.Outcomes, 3)
	assert.NoError(t, result.Outcomes[0].Err)
	assert.Error(t, result.Outcomes[1].Err)
	assert.NoError(t, result.Outcomes[2].Err)

	// Both valid files still made it into the report
	assert.Equal(t, "SN001", readCell(t, outputFile, "A2"))
	assert.Equal(t, "SN002", readCell(t, outputFile, "A3"))
}

func TestBuildDiscrepancyReportNoFailures(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "part.xlsx")
	outputFile := filepath.Join(dir, CombinedReportName)

	writeCMMWorkbook(t, file, "SN001", [][]any{{"A", 10.0, 10.0, 0.5, -0.5}})

	result, err := BuildDiscrepancyReport([]string{file}, outputFile, DefaultOptions(), nil)
	require.NoError(t, err)
	assert.Empty(t, result.Columns)
	assert.Equal(t, 0, result.Outcomes[0].Failures)

	// The report is still written, serial column only
	assert.Equal(t, "SN", readCell(t, outputFile, "A1"))
	assert.Equal(t, "SN001", readCell(t, outputFile, "A2"))
}

func TestBuildDiscrepancyReportCountsSkippedRows(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "part.xlsx")

	writeCMMWorkbook(t, file, "SN001", [][]any{
		{"A", "bad", 10.0, 0.5, 0.0},
		{"B", 10.6, 10.0, 0.5, 0.0},
	})

	result, err := BuildDiscrepancyReport([]string{file}, filepath.Join(dir, CombinedReportName), DefaultOptions(), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Outcomes[0].RowsSkipped)
	assert.Equal(t, 1, result.Outcomes[0].Failures)
}

func TestBuildDiscrepancyReportMissingToleranceColumns(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "part.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	header := []any{"Characteristic", "Actual"}
	require.NoError(t, f.SetSheetRow(sheet, "A1", &header))
	row := []any{"12.1", 5.1}
	require.NoError(t, f.SetSheetRow(sheet, "A2", &row))
	require.NoError(t, f.SaveAs(file))
	require.NoError(t, f.Close())

	result, err := BuildDiscrepancyReport([]string{file}, filepath.Join(dir, CombinedReportName), DefaultOptions(), nil)
	require.NoError(t, err)
	require.Error(t, result.Outcomes[0].Err)
	assert.Contains(t, result.Outcomes[0].Err.Error(), colUpperTol)
}

func TestBuildDiscrepancyReportNoFiles(t *testing.T) {
	_, err := BuildDiscrepancyReport(nil, "out.xlsx", DefaultOptions(), nil)
	require.Error(t, err)
}

func TestFindWorkbooks(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.xlsx", "a.xlsx", "~$a.xlsx", "notes.txt", CombinedReportName} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.xlsx"), 0o755))

	files, err := FindWorkbooks(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.xlsx"),
		filepath.Join(dir, "b.xlsx"),
	}, files)
}
