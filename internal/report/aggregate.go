package report

import "strings"

// CharacteristicGroup collects every reading of one physical feature. The
// master reading is the row whose label is the bare id (or id+".0"); all
// other rows sharing the id are samples in row order. A group only exists
// once at least one reading contributed to it.
type CharacteristicGroup struct {
	ID        string
	Master    float64
	HasMaster bool
	Samples   []float64
	// Qualified holds MAX/MIN/POS/NEG sub-buckets in QualifierAware mode.
	Qualified map[string][]float64
}

// BuildGroups aggregates a measurement table into characteristic groups.
// Coordinate-axis rows and rows without a digit run never seed a group; rows
// whose ACTUAL cell does not parse are skipped and counted, not fatal.
func BuildGroups(t *MeasurementTable, opts Options) (map[string]*CharacteristicGroup, int, error) {
	if err := t.RequireColumns(colCharacteristic, colActual); err != nil {
		return nil, 0, err
	}

	groups := make(map[string]*CharacteristicGroup)
	skipped := 0
	for _, row := range t.Rows {
		name := strings.ToUpper(strings.TrimSpace(t.Cell(row, colCharacteristic)))
		id, ok := ExtractBaseID(name)
		if !ok || IsCoordinate(name, opts.CoordinateAxes) {
			continue
		}

		actual, err := t.NumericCell(row, colActual)
		if err != nil {
			skipped++
			continue
		}

		g := groups[id]
		if g == nil {
			g = &CharacteristicGroup{ID: id}
			groups[id] = g
		}

		qualifier, qualified := trailingQualifier(name)
		switch {
		case name == id || name == id+".0":
			// Last master wins when a file repeats the bare label.
			g.Master, g.HasMaster = actual, true
		case opts.Grouping == QualifierAware && qualified:
			if g.Qualified == nil {
				g.Qualified = make(map[string][]float64)
			}
			g.Qualified[qualifier] = append(g.Qualified[qualifier], actual)
		default:
			g.Samples = append(g.Samples, actual)
		}
	}

	return groups, skipped, nil
}

// Resolve reduces a group to the value written into the inspection report:
// the master when present, a single sample value when all samples agree, and
// a "min - max" range otherwise. A group with nothing to report returns
// ok=false and produces no output row.
func (g *CharacteristicGroup) Resolve() (string, bool) {
	if g.HasMaster {
		return FormatNumber(g.Master), true
	}
	if len(g.Samples) == 0 {
		return "", false
	}

	lo, hi := g.Samples[0], g.Samples[0]
	for _, v := range g.Samples[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if lo == hi {
		return FormatNumber(lo), true
	}
	return FormatNumber(lo) + " - " + FormatNumber(hi), true
}
