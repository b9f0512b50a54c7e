package report

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"cmmsuite/internal/types"

	"github.com/xuri/excelize/v2"
)

// CombinedReportName is the workbook a discrepancy batch writes.
const CombinedReportName = "Combined_Discrepancy_Report.xlsx"

// discrepancyRecord is one file's failing characteristics, keyed by the
// synthesized column label, with first-seen label order preserved.
type discrepancyRecord struct {
	serial string
	values map[string]string
	order  []string
}

// BuildDiscrepancyReport evaluates every file against its tolerance bands
// and writes one combined workbook: a row per file keyed by serial number,
// a column per distinct failing characteristic, blanks where a file passed.
// Files are isolated: a structurally bad file is recorded in its outcome and
// the rest of the batch continues.
func BuildDiscrepancyReport(files []string, outputPath string, opts Options, progressChan chan<- float64) (*types.DiscrepancyResult, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("no workbooks to process")
	}

	result := &types.DiscrepancyResult{OutputFile: outputPath}
	seen := make(map[string]bool)
	var records []*discrepancyRecord

	for i, file := range files {
		if progressChan != nil {
			select {
			case progressChan <- float64(i) / float64(len(files)):
			default:
			}
		}

		rec, outcome := evaluateFile(file, opts)
		result.Outcomes = append(result.Outcomes, outcome)
		if outcome.Err != nil {
			continue
		}
		records = append(records, rec)
		for _, col := range rec.order {
			if !seen[col] {
				seen[col] = true
				result.Columns = append(result.Columns, col)
			}
		}
	}

	if err := writeCombinedReport(outputPath, result.Columns, records); err != nil {
		return nil, err
	}
	return result, nil
}

func evaluateFile(path string, opts Options) (*discrepancyRecord, types.FileOutcome) {
	outcome := types.FileOutcome{File: path}

	f, err := excelize.OpenFile(path)
	if err != nil {
		outcome.Err = fmt.Errorf("open workbook: %w", err)
		return nil, outcome
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	serial, err := f.GetCellValue(sheetName, opts.SerialNumberCell)
	if err != nil {
		outcome.Err = fmt.Errorf("read serial number cell %s: %w", opts.SerialNumberCell, err)
		return nil, outcome
	}
	outcome.SerialNumber = strings.TrimSpace(serial)

	rows, err := f.GetRows(sheetName)
	if err != nil {
		outcome.Err = err
		return nil, outcome
	}
	headerIdx, err := FindHeaderRow(rows, opts.HeaderMarker, opts.HeaderScanWindow)
	if err != nil {
		outcome.Err = err
		return nil, outcome
	}

	table := tableFromRows(rows, headerIdx)
	if err := table.RequireColumns(colCharacteristic, colActual, colNominal, colUpperTol, colLowerTol); err != nil {
		outcome.Err = err
		return nil, outcome
	}

	rec := &discrepancyRecord{
		serial: outcome.SerialNumber,
		values: make(map[string]string),
	}
	for _, row := range table.Rows {
		name := strings.TrimSpace(table.Cell(row, colCharacteristic))
		if name == "" || strings.EqualFold(name, "nan") || IsCoordinate(name, opts.CoordinateAxes) {
			continue
		}

		actual, errA := table.NumericCell(row, colActual)
		nominal, errN := table.NumericCell(row, colNominal)
		upperTol, errU := table.NumericCell(row, colUpperTol)
		lowerTol, errL := table.NumericCell(row, colLowerTol)
		if errA != nil || errN != nil || errU != nil || errL != nil {
			outcome.RowsSkipped++
			continue
		}

		verdict := EvaluateTolerance(actual, nominal, upperTol, lowerTol)
		if !verdict.OutOfTolerance {
			continue
		}

		col := DiscrepancyColumn(name, nominal, verdict.Band)
		if _, ok := rec.values[col]; !ok {
			rec.order = append(rec.order, col)
		}
		rec.values[col] = DiscrepancyValue(actual)
		outcome.Failures++
	}

	return rec, outcome
}

// writeCombinedReport lays the records out as a wide table: SN first, then
// the union of failing-characteristic columns. Absent cells stay blank so
// passing characteristics never show.
func writeCombinedReport(outputPath string, columns []string, records []*discrepancyRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := f.GetSheetName(0)

	cell, _ := excelize.CoordinatesToCellName(1, 1)
	if err := f.SetCellValue(sheetName, cell, "SN"); err != nil {
		return err
	}
	for c, col := range columns {
		cell, _ := excelize.CoordinatesToCellName(c+2, 1)
		if err := f.SetCellValue(sheetName, cell, col); err != nil {
			return err
		}
	}

	for r, rec := range records {
		cell, _ := excelize.CoordinatesToCellName(1, r+2)
		if err := f.SetCellValue(sheetName, cell, rec.serial); err != nil {
			return err
		}
		for c, col := range columns {
			value, ok := rec.values[col]
			if !ok {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(c+2, r+2)
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return err
			}
		}
	}

	return f.SaveAs(outputPath)
}

// FindWorkbooks lists the .xlsx files of a directory in name order, skipping
// Excel lock files ("~$...") and a previously written combined report.
func FindWorkbooks(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, "~$") || name == CombinedReportName {
			continue
		}
		if strings.EqualFold(filepath.Ext(name), ".xlsx") {
			files = append(files, filepath.Join(dir, name))
		}
	}
	sort.Strings(files)
	return files, nil
}
