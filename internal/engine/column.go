package engine

import (
	"fmt"
	"math"
	"sort"

	"github.com/montanaflynn/stats"
	gstat "gonum.org/v1/gonum/stat"

	"goprofile/domain/profile"
	"goprofile/domain/record"
)

// numericThreshold is the share of non-null cells that must be numeric for
// a column to classify as numeric
const numericThreshold = 0.5

// topValueLimit caps the categorical frequency table
const topValueLimit = 10

// ProfileColumn computes the full statistics for one column. A failure
// inside the computation yields an unknown-typed stats record carrying the
// error message; it never fails the surrounding report.
func (e *Engine) ProfileColumn(view *record.View, name string) (cs *profile.ColumnStats) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("column %q profiling panicked: %v", name, r)
			cs = &profile.ColumnStats{
				Type:  profile.TypeUnknown,
				Error: fmt.Sprintf("%v", r),
			}
		}
	}()

	cells, ok := view.Column(name)
	if !ok {
		return &profile.ColumnStats{
			Type:  profile.TypeUnknown,
			Error: fmt.Sprintf("unknown column %q", name),
		}
	}

	total := len(cells)
	numeric := make([]float64, 0, total)
	valid := 0
	uniques := make(map[string]struct{}, total)
	for _, cell := range cells {
		if cell.IsMissing() {
			continue
		}
		valid++
		uniques[cell.Text()] = struct{}{}
		if cell.IsNumber() {
			numeric = append(numeric, cell.Number())
		}
	}

	cs = &profile.ColumnStats{
		Type:         classify(len(numeric), valid),
		TotalCount:   total,
		ValidCount:   valid,
		MissingCount: total - valid,
		Unique:       len(uniques),
	}
	if total > 0 {
		cs.MissingPercent = float64(cs.MissingCount) / float64(total) * 100
	}
	if valid > 0 {
		cs.UniquePercent = float64(cs.Unique) / float64(valid) * 100
	}

	if cs.Type == profile.TypeNumeric {
		e.numericStats(cs, numeric)
	} else {
		e.categoricalStats(cs, cells, valid)
	}
	return cs
}

// classify applies the column-type rule: numeric when numeric cells exist
// and make up more than half of the non-null cells
func classify(numericCount, validCount int) profile.ColumnType {
	if numericCount > 0 && float64(numericCount)/float64(validCount) > numericThreshold {
		return profile.TypeNumeric
	}
	return profile.TypeCategorical
}

func (e *Engine) numericStats(cs *profile.ColumnStats, values []float64) {
	mean, _ := stats.Mean(values)
	variance, _ := stats.PopulationVariance(values)
	stdDev := math.Sqrt(variance)
	min, _ := stats.Min(values)
	max, _ := stats.Max(values)

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	q1 := percentile(sorted, 0.25)
	median := percentile(sorted, 0.50)
	q3 := percentile(sorted, 0.75)
	iqr := q3 - q1

	lower := q1 - 1.5*iqr
	upper := q3 + 1.5*iqr
	outliers := 0
	for _, v := range values {
		if v < lower || v > upper {
			outliers++
		}
	}

	skewness, kurtosis := standardizedMoments(values, mean, stdDev)

	cs.Mean = fptr(mean)
	cs.Variance = fptr(variance)
	cs.StdDev = fptr(stdDev)
	cs.Min = fptr(min)
	cs.Max = fptr(max)
	cs.Median = fptr(median)
	cs.Q1 = fptr(q1)
	cs.Q3 = fptr(q3)
	cs.IQR = fptr(iqr)
	cs.Outliers = iptr(outliers)
	cs.Skewness = fptr(skewness)
	cs.Kurtosis = fptr(kurtosis)
	cs.Mode = numericMode(values)
}

// standardizedMoments returns skewness mean(z³) and excess kurtosis
// mean(z⁴)−3 over the population standard deviation. Both are 0 when the
// deviation is 0.
func standardizedMoments(values []float64, mean, stdDev float64) (skewness, kurtosis float64) {
	if stdDev == 0 || len(values) == 0 {
		return 0, 0
	}
	var sum3, sum4 float64
	for _, v := range values {
		z := (v - mean) / stdDev
		z3 := z * z * z
		sum3 += z3
		sum4 += z3 * z
	}
	n := float64(len(values))
	return sum3 / n, sum4/n - 3
}

// numericMode returns the most frequent value over the numeric multiset;
// ties break by first-seen order
func numericMode(values []float64) float64 {
	counts := make(map[float64]int, len(values))
	order := make([]float64, 0, len(values))
	for _, v := range values {
		if _, seen := counts[v]; !seen {
			order = append(order, v)
		}
		counts[v]++
	}

	best := order[0]
	bestCount := counts[best]
	for _, v := range order[1:] {
		if counts[v] > bestCount {
			best = v
			bestCount = counts[v]
		}
	}
	return best
}

func (e *Engine) categoricalStats(cs *profile.ColumnStats, cells []record.Cell, valid int) {
	counts := make(map[string]int)
	order := make([]string, 0)
	for _, cell := range cells {
		if cell.IsMissing() {
			continue
		}
		key := cell.Text()
		if _, seen := counts[key]; !seen {
			order = append(order, key)
		}
		counts[key]++
	}

	// Descending by count; stable sort keeps first-seen order on ties
	table := make([]profile.TopValue, 0, len(order))
	for _, key := range order {
		table = append(table, profile.TopValue{Value: key, Count: counts[key]})
	}
	sort.SliceStable(table, func(i, j int) bool {
		return table[i].Count > table[j].Count
	})

	top := table
	if len(top) > topValueLimit {
		top = top[:topValueLimit]
	}
	cs.TopValues = top

	if len(table) > 0 && valid > 0 {
		cs.Mode = table[0].Value
		cs.ModeCount = iptr(table[0].Count)
		cs.ModePercent = fptr(float64(table[0].Count) / float64(valid) * 100)
	}
	cs.Entropy = fptr(shannonEntropy(table, valid))
}

// shannonEntropy computes base-2 entropy over the observed frequencies
func shannonEntropy(table []profile.TopValue, valid int) float64 {
	if valid == 0 || len(table) == 0 {
		return 0
	}
	probs := make([]float64, 0, len(table))
	for _, tv := range table {
		if tv.Count > 0 {
			probs = append(probs, float64(tv.Count)/float64(valid))
		}
	}
	// gonum's entropy is natural-log based
	return gstat.Entropy(probs) / math.Ln2
}

// percentile returns the linearly interpolated percentile of an ascending
// sorted slice at rank (n−1)·p. montanaflynn's Percentile is nearest-rank
// and gonum's Quantile kinds interpolate differently, so this rank rule is
// computed locally.
func percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return sorted[0]
	}
	rank := p * float64(n-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

func fptr(v float64) *float64 { return &v }
func iptr(v int) *int         { return &v }
