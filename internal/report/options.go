package report

// GroupingMode controls how trailing MAX/MIN/POS/NEG qualifiers on a
// characteristic label are grouped.
type GroupingMode int

const (
	// QualifierAgnostic treats "12 MAX" as one more sample reading of
	// characteristic 12.
	QualifierAgnostic GroupingMode = iota
	// QualifierAware keeps qualified readings in per-qualifier buckets so
	// they never widen the main sample range.
	QualifierAware
)

// Options names every positional and marker contract between the CMM export,
// the IR template, and this tool.
type Options struct {
	// HeaderMarker is the token that identifies the column-header row inside
	// the export's unstructured preamble. Matched case-insensitively.
	HeaderMarker string
	// HeaderScanWindow bounds how many leading rows are scanned for the marker.
	HeaderScanWindow int
	// SerialNumberCell is where the CMM export writes the part serial number.
	// Producer contract; the cell content is not validated.
	SerialNumberCell string
	// TemplateScanRows bounds the marker scan in the IR template.
	TemplateScanRows int
	// CharNoMarker identifies both the characteristic-id column and the row
	// the template's data starts below.
	CharNoMarker string
	// ResultsMarker identifies the column resolved values are written into.
	ResultsMarker string
	// CoordinateAxes are the axis tokens whose rows are dropped before
	// grouping. Extend with "A", "B", "C" for rotary-axis exports.
	CoordinateAxes []string
	Grouping       GroupingMode
}

func DefaultOptions() Options {
	return Options{
		HeaderMarker:     "characteristic",
		HeaderScanWindow: 50,
		SerialNumberCell: "F8",
		TemplateScanRows: 30,
		CharNoMarker:     "5. Char No.",
		ResultsMarker:    "9. Results",
		CoordinateAxes:   []string{"X", "Y", "Z"},
	}
}
