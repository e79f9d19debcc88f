package profile

import "goprofile/domain/core"

// DefaultSampleSize is the row count above which sampling kicks in
const DefaultSampleSize = 5000

// Options control one profiling run
type Options struct {
	Delimiter      string `json:"delimiter"`
	SkipEmptyLines bool   `json:"skipEmptyLines"`
	EnableSampling bool   `json:"enableSampling"`
	SampleSize     int    `json:"sampleSize"`
	FullAnalysis   bool   `json:"fullAnalysis"`
	UseCache       bool   `json:"useCache"`

	// AlignedCorrelations switches correlation pairing from the legacy
	// prefix alignment of the two null-filtered sequences to row-aligned
	// pairing. Off by default; the default behavior never changes.
	AlignedCorrelations bool `json:"alignedCorrelations,omitempty"`
}

// DefaultOptions returns the documented defaults
func DefaultOptions() Options {
	return Options{
		Delimiter:      ",",
		SkipEmptyLines: true,
		EnableSampling: true,
		SampleSize:     DefaultSampleSize,
		FullAnalysis:   false,
		UseCache:       true,
	}
}

// Canonical returns the option subset that participates in the fingerprint
func (o Options) Canonical() core.CanonicalOptions {
	return core.CanonicalOptions{
		Delimiter:      o.Delimiter,
		SkipEmptyLines: o.SkipEmptyLines,
	}
}
