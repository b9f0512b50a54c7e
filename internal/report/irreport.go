package report

import (
	"fmt"
	"strings"

	"cmmsuite/internal/types"

	"github.com/xuri/excelize/v2"
)

// FillTemplate aggregates a CMM export and projects the resolved values into
// an IR template, saving the filled workbook to outputPath. The template's
// identifier and results columns are discovered by scanning the active sheet
// for the marker cells; a missing marker fails the whole operation rather
// than producing a partial fill.
func FillTemplate(cmmPath, templatePath, outputPath string, opts Options, progressChan chan<- float64) (*types.FillResult, error) {
	table, err := ReadMeasurements(cmmPath, opts)
	if err != nil {
		return nil, err
	}

	groups, skipped, err := BuildGroups(table, opts)
	if err != nil {
		return nil, err
	}

	f, err := excelize.OpenFile(templatePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheetName := f.GetSheetName(f.GetActiveSheetIndex())
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, err
	}

	idCol, resCol, headerRow, err := findTemplateMarkers(rows, opts)
	if err != nil {
		return nil, err
	}

	result := &types.FillResult{
		CMMFile:      cmmPath,
		TemplateFile: templatePath,
		OutputFile:   outputPath,
		Groups:       len(groups),
		RowsSkipped:  skipped,
	}

	totalRows := len(rows) - headerRow
	for r := headerRow + 1; r <= len(rows); r++ {
		if progressChan != nil && totalRows > 0 {
			select {
			case progressChan <- float64(r-headerRow) / float64(totalRows):
			default:
			}
		}

		idCell, _ := excelize.CoordinatesToCellName(idCol, r)
		label, _ := f.GetCellValue(sheetName, idCell)
		id, ok := ExtractBaseID(label)
		if !ok {
			continue
		}

		g := groups[id]
		if g == nil {
			// Template rows without a matching measurement stay untouched.
			result.RowsUnmatched++
			continue
		}
		value, ok := g.Resolve()
		if !ok {
			continue
		}

		resCell, _ := excelize.CoordinatesToCellName(resCol, r)
		if err := f.SetCellValue(sheetName, resCell, value); err != nil {
			return nil, err
		}
		result.RowsFilled++
	}

	if err := f.SaveAs(outputPath); err != nil {
		return nil, err
	}
	return result, nil
}

// findTemplateMarkers locates the identifier column (and the header row it
// sits on) and the results column within the template's scan window. Columns
// are returned 1-based for excelize cell addressing.
func findTemplateMarkers(rows [][]string, opts Options) (idCol, resCol, headerRow int, err error) {
	idCol, resCol, headerRow = -1, -1, -1

	limit := len(rows)
	if limit > opts.TemplateScanRows {
		limit = opts.TemplateScanRows
	}
	for r := 0; r < limit; r++ {
		for c, cell := range rows[r] {
			if strings.Contains(cell, opts.CharNoMarker) {
				idCol, headerRow = c+1, r+1
			}
			if strings.Contains(cell, opts.ResultsMarker) {
				resCol = c + 1
			}
		}
	}

	if idCol < 0 {
		return 0, 0, 0, fmt.Errorf("template marker %q not found within the first %d rows", opts.CharNoMarker, limit)
	}
	if resCol < 0 {
		return 0, 0, 0, fmt.Errorf("template marker %q not found within the first %d rows", opts.ResultsMarker, limit)
	}
	return idCol, resCol, headerRow, nil
}
