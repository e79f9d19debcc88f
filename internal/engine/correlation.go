package engine

import (
	"math"

	gstat "gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"goprofile/domain/profile"
	"goprofile/domain/record"
)

// minPairedObservations is the smallest sample a correlation is computed on
const minPairedObservations = 3

// numericSeries extracts the column's numeric cells in row order, dropping
// every non-numeric cell
func numericSeries(view *record.View, name string) []float64 {
	cells, ok := view.Column(name)
	if !ok {
		return nil
	}
	out := make([]float64, 0, len(cells))
	for _, cell := range cells {
		if cell.IsNumber() {
			out = append(out, cell.Number())
		}
	}
	return out
}

// alignedSeries extracts row-aligned numeric pairs: only rows where both
// cells are numeric contribute
func alignedSeries(view *record.View, nameA, nameB string) (x, y []float64) {
	cellsA, okA := view.Column(nameA)
	cellsB, okB := view.Column(nameB)
	if !okA || !okB {
		return nil, nil
	}
	for i := range cellsA {
		if cellsA[i].IsNumber() && cellsB[i].IsNumber() {
			x = append(x, cellsA[i].Number())
			y = append(y, cellsB[i].Number())
		}
	}
	return x, y
}

// correlatePair computes the Pearson pair for two series already reduced
// to equal length. Returns false when the sample is too small or r is not
// finite.
func correlatePair(nameA, nameB string, x, y []float64) (profile.CorrelationPair, bool) {
	if len(x) < minPairedObservations || len(x) != len(y) {
		return profile.CorrelationPair{}, false
	}

	r := gstat.Correlation(x, y, nil)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return profile.CorrelationPair{}, false
	}

	return profile.CorrelationPair{
		Column1:    nameA,
		Column2:    nameB,
		R:          r,
		Strength:   math.Abs(r),
		SampleSize: len(x),
		PValue:     correlationPValue(r, len(x)),
	}, true
}

// correlationPValue computes the two-tailed p-value for a Pearson
// coefficient via the Student's t transform
func correlationPValue(r float64, sampleSize int) float64 {
	if sampleSize < 3 {
		return 1.0
	}
	if math.Abs(r) >= 1 {
		return 0.0
	}

	df := float64(sampleSize - 2)
	t := r * math.Sqrt(df/(1-r*r))
	tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	return 2 * (1 - tDist.CDF(math.Abs(t)))
}

// pairsForColumns computes correlation pairs whose first column is in
// leftNames, against every column that follows it in allNames. The caller
// guarantees leftNames is a contiguous range of allNames, which keeps
// chunked invocations disjoint.
//
// Pairing default is the legacy prefix alignment: each column's
// null-filtered numeric sequence, truncated to the shorter length. With
// aligned set, only rows numeric on both sides pair up.
func pairsForColumns(view *record.View, allNames, leftNames []string, aligned bool) []profile.CorrelationPair {
	position := make(map[string]int, len(allNames))
	for i, name := range allNames {
		position[name] = i
	}

	series := make(map[string][]float64, len(allNames))
	if !aligned {
		for _, name := range allNames {
			series[name] = numericSeries(view, name)
		}
	}

	var pairs []profile.CorrelationPair
	for _, nameA := range leftNames {
		for _, nameB := range allNames[position[nameA]+1:] {
			var x, y []float64
			if aligned {
				x, y = alignedSeries(view, nameA, nameB)
			} else {
				x, y = series[nameA], series[nameB]
				if len(x) > len(y) {
					x = x[:len(y)]
				} else if len(y) > len(x) {
					y = y[:len(x)]
				}
			}
			if pair, ok := correlatePair(nameA, nameB, x, y); ok {
				pairs = append(pairs, pair)
			}
		}
	}
	return pairs
}
