package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindHeaderRow(t *testing.T) {
	rows := [][]string{
		{"PC-DMIS Measurement Report"},
		{"Part Name", "Cover Plate"},
		{},
		{"Characteristic", "Actual", "Nominal"},
		{"12.1", "5.1", "5.0"},
	}

	idx, err := FindHeaderRow(rows, "characteristic", 50)
	require.NoError(t, err)
	assert.Equal(t, 3, idx)
}

func TestFindHeaderRowCaseInsensitive(t *testing.T) {
	rows := [][]string{{"foo"}, {"bar", "CHARACTERISTIC"}}
	idx, err := FindHeaderRow(rows, "Characteristic", 50)
	require.NoError(t, err)
	assert.Equal(t, 1, idx)
}

func TestFindHeaderRowMissing(t *testing.T) {
	rows := [][]string{{"foo"}, {"bar"}}
	_, err := FindHeaderRow(rows, "characteristic", 50)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "characteristic")
}

func TestFindHeaderRowRespectsWindow(t *testing.T) {
	rows := make([][]string, 30)
	for i := range rows {
		rows[i] = []string{"preamble"}
	}
	rows = append(rows, []string{"Characteristic"})

	_, err := FindHeaderRow(rows, "characteristic", 25)
	require.Error(t, err)

	idx, err := FindHeaderRow(rows, "characteristic", 50)
	require.NoError(t, err)
	assert.Equal(t, 30, idx)
}

func TestTableNormalizesHeaders(t *testing.T) {
	table := tableFromRows([][]string{
		{"  characteristic ", "Actual ", "upper tol"},
		{"12.1", "5.1", "0.5"},
	}, 0)

	assert.Equal(t, []string{"CHARACTERISTIC", "ACTUAL", "UPPER TOL"}, table.Headers)
	assert.Equal(t, "5.1", table.Cell(table.Rows[0], colActual))
}

func TestTableShortRowReadsBlank(t *testing.T) {
	// excelize trims trailing empty cells from GetRows output
	table := tableFromRows([][]string{
		{"Characteristic", "Actual"},
		{"12.1"},
	}, 0)

	assert.Equal(t, "", table.Cell(table.Rows[0], colActual))
	_, err := table.NumericCell(table.Rows[0], colActual)
	assert.Error(t, err)
}

func TestRequireColumns(t *testing.T) {
	table := tableFromRows([][]string{{"Characteristic", "Actual"}}, 0)

	require.NoError(t, table.RequireColumns(colCharacteristic, colActual))

	err := table.RequireColumns(colCharacteristic, colNominal, colUpperTol)
	require.Error(t, err)
	assert.Contains(t, err.Error(), colNominal)
	assert.Contains(t, err.Error(), colUpperTol)
	assert.NotContains(t, err.Error(), colCharacteristic)
}
