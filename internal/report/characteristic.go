package report

import (
	"strconv"
	"strings"
)

// ExtractBaseID returns the first maximal run of digits in a characteristic
// label. The decimal fraction is deliberately not part of the id: "12.1" and
// "12.2" are repeat readings of characteristic 12 and must share a group.
// Blank and "nan" labels (pandas artifacts in real exports) yield no id.
func ExtractBaseID(label string) (string, bool) {
	s := strings.TrimSpace(label)
	if s == "" || strings.EqualFold(s, "nan") {
		return "", false
	}

	start := -1
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= '0' && c <= '9' {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			return s[start:i], true
		}
	}
	if start >= 0 {
		return s[start:], true
	}
	return "", false
}

// IsCoordinate reports whether a label denotes an axis component of a feature
// ("12.X", "12 Y", bare "Z") rather than a standalone characteristic. Axis
// rows must be filtered out before grouping.
func IsCoordinate(label string, axes []string) bool {
	name := strings.ToUpper(strings.TrimSpace(label))
	for _, axis := range axes {
		if name == axis || strings.HasSuffix(name, "."+axis) || strings.HasSuffix(name, " "+axis) {
			return true
		}
	}
	return false
}

var qualifierTokens = []string{"MAX", "MIN", "POS", "NEG"}

// trailingQualifier returns the qualifier token ending a normalized label,
// e.g. "12 MAX" -> "MAX".
func trailingQualifier(name string) (string, bool) {
	for _, q := range qualifierTokens {
		if strings.HasSuffix(name, " "+q) {
			return q, true
		}
	}
	return "", false
}

// FormatNumber renders a value with exactly four fractional digits, the
// precision inspection reports are filled at.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

// FormatValue formats a raw cell like FormatNumber when it parses as a
// number, and otherwise passes it through untouched so one odd cell never
// fails a whole report.
func FormatValue(s string) string {
	if v, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
		return FormatNumber(v)
	}
	return s
}

// formatCompact renders a number the way it reads on a drawing callout:
// "10", "0.5", no trailing zeros. Used inside band and column labels.
func formatCompact(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
