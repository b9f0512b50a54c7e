package report

import (
	"fmt"
	"math"
)

// Verdict is the tolerance evaluation of a single measurement row.
type Verdict struct {
	OutOfTolerance bool
	// Band is the human-readable tolerance annotation: "+ 0.5", "- 0.2",
	// or "+/- 0.5". Bilateral bands show the upper magnitude only.
	Band string
}

// EvaluateTolerance checks an actual reading against its asymmetric band.
// The boundaries themselves are in tolerance: failing requires strictly
// exceeding nominal+upperTol or strictly undercutting nominal+lowerTol.
func EvaluateTolerance(actual, nominal, upperTol, lowerTol float64) Verdict {
	v := Verdict{
		OutOfTolerance: actual > nominal+upperTol || actual < nominal+lowerTol,
	}

	switch {
	case lowerTol == 0:
		v.Band = "+ " + formatCompact(math.Abs(upperTol))
	case upperTol == 0:
		v.Band = "- " + formatCompact(math.Abs(lowerTol))
	default:
		v.Band = "+/- " + formatCompact(math.Abs(upperTol))
	}
	return v
}

// DiscrepancyColumn synthesizes the report column label for a failing
// characteristic, e.g. `Dim#12.1 (10 + 0.5)`.
func DiscrepancyColumn(name string, nominal float64, band string) string {
	return fmt.Sprintf("Dim#%s (%s %s)", name, formatCompact(nominal), band)
}

// DiscrepancyValue renders a failing reading as a magnitude: the sign is
// dropped so failures read uniformly across positive and negative callouts.
func DiscrepancyValue(actual float64) string {
	return FormatNumber(math.Abs(actual))
}
