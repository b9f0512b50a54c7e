package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Normalized column names the CMM exports are required to carry. Source
// files are inconsistent in case and whitespace, so headers are trimmed and
// upper-cased before lookup.
const (
	colCharacteristic = "CHARACTERISTIC"
	colActual         = "ACTUAL"
	colNominal        = "NOMINAL"
	colUpperTol       = "UPPER TOL"
	colLowerTol       = "LOWER TOL"
)

// MeasurementTable is the structured view of a CMM export below its detected
// header row.
type MeasurementTable struct {
	Headers []string
	Rows    [][]string
	cols    map[string]int
}

// FindHeaderRow scans the leading rows of a raw table for the row containing
// the marker token in any cell and returns its index. There is no fallback:
// every downstream column lookup depends on the real header row, so a miss is
// an explicit error naming the marker.
func FindHeaderRow(rows [][]string, marker string, window int) (int, error) {
	limit := len(rows)
	if limit > window {
		limit = window
	}

	needle := strings.ToUpper(marker)
	for i := 0; i < limit; i++ {
		for _, cell := range rows[i] {
			if strings.Contains(strings.ToUpper(cell), needle) {
				return i, nil
			}
		}
	}
	return -1, fmt.Errorf("no header row containing %q within the first %d rows", marker, limit)
}

// ReadMeasurements opens a CMM export, locates its header row, and returns
// the data rows with normalized column names.
func ReadMeasurements(path string, opts Options) (*MeasurementTable, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("empty workbook: %s", path)
	}

	headerIdx, err := FindHeaderRow(rows, opts.HeaderMarker, opts.HeaderScanWindow)
	if err != nil {
		return nil, err
	}

	return tableFromRows(rows, headerIdx), nil
}

func tableFromRows(rows [][]string, headerIdx int) *MeasurementTable {
	headers := make([]string, len(rows[headerIdx]))
	cols := make(map[string]int, len(headers))
	for i, h := range rows[headerIdx] {
		headers[i] = strings.ToUpper(strings.TrimSpace(h))
		cols[headers[i]] = i
	}

	return &MeasurementTable{
		Headers: headers,
		Rows:    rows[headerIdx+1:],
		cols:    cols,
	}
}

// Cell returns a row's value under a normalized column name. Rows read from
// excelize have trailing empty cells trimmed, so a short row reads as blank.
func (t *MeasurementTable) Cell(row []string, column string) string {
	idx, ok := t.cols[column]
	if !ok || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// NumericCell parses a row's value under a column as a float.
func (t *MeasurementTable) NumericCell(row []string, column string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(t.Cell(row, column)), 64)
}

// RequireColumns fails when the header row is missing any of the named
// columns, so callers surface one clear structural error instead of reading
// blanks.
func (t *MeasurementTable) RequireColumns(names ...string) error {
	var missing []string
	for _, name := range names {
		if _, ok := t.cols[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("header row is missing columns: %s", strings.Join(missing, ", "))
	}
	return nil
}
