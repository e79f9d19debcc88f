// Package sampling reduces oversized record views to a representative
// subset, optionally stratified on an auto-chosen low-cardinality column.
package sampling

import (
	"sort"

	"goprofile/domain/profile"
	"goprofile/domain/record"
	"goprofile/internal/rng"
)

const (
	// Stratification-column candidacy is judged on a prefix of the data
	probeRows = 100

	minStrataCardinality = 2
	maxStrataCardinality = 20
	maxNullRatio         = 0.2
	targetUniqueRatio    = 0.2
)

// Result pairs the reduced view with its sampling metadata
type Result struct {
	View *record.View
	Meta profile.SamplingMeta
}

// Service produces samples with a deterministic seeded generator
type Service struct{}

// NewService creates a sampling service
func NewService() *Service {
	return &Service{}
}

// CreateSample reduces view to at most maxSampleSize rows. Views at or
// under the limit are returned unchanged. When stratify is set and a
// stratification column can be chosen, each stratum is sampled
// independently with at least one row preserved per non-empty stratum;
// otherwise rows are included by Bernoulli draw at rate
// maxSampleSize/N. An empty view yields an empty sample with rate 0.
func (s *Service) CreateSample(view *record.View, maxSampleSize int, stratify bool, seed int32) Result {
	n := view.Len()
	if n == 0 {
		return Result{
			View: view,
			Meta: profile.SamplingMeta{IsSampled: false, SamplingRate: 0, OriginalSize: 0},
		}
	}
	if maxSampleSize <= 0 || n <= maxSampleSize {
		return Result{
			View: view,
			Meta: profile.SamplingMeta{
				IsSampled:    false,
				SamplingRate: 1,
				OriginalSize: n,
				SampleSize:   n,
			},
		}
	}

	rate := float64(maxSampleSize) / float64(n)
	src := rng.New(seed)

	if stratify {
		if column, ok := s.chooseStratificationColumn(view); ok {
			sampled := s.stratifiedSample(view, column, rate, src)
			return Result{
				View: sampled,
				Meta: profile.SamplingMeta{
					IsSampled:             true,
					OriginalSize:          n,
					SampleSize:            sampled.Len(),
					SamplingRate:          rate,
					Stratified:            true,
					PreservedDistribution: true,
				},
			}
		}
	}

	sampled := s.randomSample(view, rate, src)
	return Result{
		View: sampled,
		Meta: profile.SamplingMeta{
			IsSampled:    true,
			OriginalSize: n,
			SampleSize:   sampled.Len(),
			SamplingRate: rate,
		},
	}
}

// randomSample includes each row independently with probability rate
func (s *Service) randomSample(view *record.View, rate float64, src *rng.Source) *record.View {
	indices := make([]int, 0, int(float64(view.Len())*rate)+1)
	for i := 0; i < view.Len(); i++ {
		if src.Float64() < rate {
			indices = append(indices, i)
		}
	}
	return view.SelectRows(indices)
}

// stratifiedSample partitions rows by the column's stringified value and
// draws from each partition at the global rate, keeping at least one row
// per non-empty partition. Output preserves original row order.
func (s *Service) stratifiedSample(view *record.View, column string, rate float64, src *rng.Source) *record.View {
	cells, _ := view.Column(column)

	strata := make(map[string][]int)
	order := make([]string, 0)
	for i, cell := range cells {
		key := cell.Text()
		if _, seen := strata[key]; !seen {
			order = append(order, key)
		}
		strata[key] = append(strata[key], i)
	}

	selected := make([]int, 0, int(float64(view.Len())*rate)+len(order))
	for _, key := range order {
		rows := strata[key]
		picked := make([]int, 0, int(float64(len(rows))*rate)+1)
		for _, r := range rows {
			if src.Float64() < rate {
				picked = append(picked, r)
			}
		}
		if len(picked) == 0 {
			// Guarantee representation for every stratum
			picked = append(picked, rows[0])
		}
		selected = append(selected, picked...)
	}

	sort.Ints(selected)
	return view.SelectRows(selected)
}

// chooseStratificationColumn scans the first probeRows rows for columns
// with observed cardinality in [2, 20] and null ratio below 0.2, preferring
// the candidate whose unique/nonNull ratio is closest to 0.2
func (s *Service) chooseStratificationColumn(view *record.View) (string, bool) {
	probe := probeRows
	if view.Len() < probe {
		probe = view.Len()
	}

	best := ""
	bestDistance := -1.0
	for _, name := range view.Columns() {
		cells, _ := view.Column(name)
		uniques := make(map[string]struct{})
		nulls := 0
		for _, cell := range cells[:probe] {
			if cell.IsNull() {
				nulls++
				continue
			}
			uniques[cell.Text()] = struct{}{}
		}

		nonNull := probe - nulls
		if nonNull == 0 {
			continue
		}
		unique := len(uniques)
		nullRatio := float64(nulls) / float64(probe)
		if unique < minStrataCardinality || unique > maxStrataCardinality || nullRatio >= maxNullRatio {
			continue
		}

		uniqueRatio := float64(unique) / float64(nonNull)
		distance := uniqueRatio - targetUniqueRatio
		if distance < 0 {
			distance = -distance
		}
		if bestDistance < 0 || distance < bestDistance {
			best = name
			bestDistance = distance
		}
	}

	return best, best != ""
}
