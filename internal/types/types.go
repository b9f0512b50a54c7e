package types

// FillResult summarizes one IR template fill run.
type FillResult struct {
	CMMFile       string
	TemplateFile  string
	OutputFile    string
	Groups        int
	RowsFilled    int
	RowsUnmatched int
	RowsSkipped   int
}

// FileOutcome is the per-file result of a discrepancy batch. A file that
// failed a structural step carries Err and contributes no report row.
type FileOutcome struct {
	File         string
	SerialNumber string
	Failures     int
	RowsSkipped  int
	Err          error
}

// DiscrepancyResult summarizes a combined discrepancy report run.
type DiscrepancyResult struct {
	OutputFile string
	Columns    []string
	Outcomes   []FileOutcome
}
