package profile

import "sort"

// Strength band thresholds on |r|
const (
	StrongThreshold   = 0.7
	ModerateThreshold = 0.3
)

// CorrelationPair is the Pearson correlation between two numeric columns
type CorrelationPair struct {
	Column1    string  `json:"column1"`
	Column2    string  `json:"column2"`
	R          float64 `json:"correlation"`
	Strength   float64 `json:"strength"`
	SampleSize int     `json:"sampleSize"`
	PValue     float64 `json:"pValue"`
}

// Key identifies the unordered pair independent of column order
func (p CorrelationPair) Key() string {
	if p.Column2 < p.Column1 {
		return p.Column2 + "\x00" + p.Column1
	}
	return p.Column1 + "\x00" + p.Column2
}

// CorrelationSet publishes the accepted pairs and their derived partitions
type CorrelationSet struct {
	All      []CorrelationPair `json:"all"`
	Strong   []CorrelationPair `json:"strong"`
	Moderate []CorrelationPair `json:"moderate"`
	Weak     []CorrelationPair `json:"weak"`
	Positive []CorrelationPair `json:"positive"`
	Negative []CorrelationPair `json:"negative"`
}

// NewCorrelationSet sorts pairs by descending strength and derives the
// partitions: strong (>0.7), moderate (0.3..0.7], weak (≤0.3), and the top
// five positive and negative pairs by strength.
func NewCorrelationSet(pairs []CorrelationPair) CorrelationSet {
	all := make([]CorrelationPair, len(pairs))
	copy(all, pairs)
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Strength > all[j].Strength
	})

	set := CorrelationSet{
		All:      all,
		Strong:   []CorrelationPair{},
		Moderate: []CorrelationPair{},
		Weak:     []CorrelationPair{},
		Positive: []CorrelationPair{},
		Negative: []CorrelationPair{},
	}

	for _, p := range all {
		switch {
		case p.Strength > StrongThreshold:
			set.Strong = append(set.Strong, p)
		case p.Strength > ModerateThreshold:
			set.Moderate = append(set.Moderate, p)
		default:
			set.Weak = append(set.Weak, p)
		}
		if p.R > 0 && len(set.Positive) < 5 {
			set.Positive = append(set.Positive, p)
		}
		if p.R < 0 && len(set.Negative) < 5 {
			set.Negative = append(set.Negative, p)
		}
	}

	return set
}
