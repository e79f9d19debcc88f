// Package profile defines the report model produced by the profiling
// engine: per-column statistics, correlation partitions, insights, and the
// comparison document derived from two reports.
package profile

import "sort"

// ColumnType classifies a column, not individual cells
type ColumnType string

const (
	TypeNumeric     ColumnType = "numeric"
	TypeCategorical ColumnType = "categorical"
	TypeUnknown     ColumnType = "unknown"
)

// TopValue is one entry of a categorical frequency table
type TopValue struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// ColumnStats summarizes a single column. Numeric specialization fields
// are pointers so categorical columns omit them in JSON, and vice versa;
// NaN is never emitted.
type ColumnStats struct {
	Type           ColumnType `json:"type"`
	TotalCount     int        `json:"totalCount"`
	ValidCount     int        `json:"validCount"`
	MissingCount   int        `json:"missingCount"`
	MissingPercent float64    `json:"missingPercent"`
	Unique         int        `json:"unique"`
	UniquePercent  float64    `json:"uniquePercent"`

	// Numeric specialization
	Min      *float64 `json:"min,omitempty"`
	Max      *float64 `json:"max,omitempty"`
	Mean     *float64 `json:"mean,omitempty"`
	Median   *float64 `json:"median,omitempty"`
	Variance *float64 `json:"variance,omitempty"`
	StdDev   *float64 `json:"stdDev,omitempty"`
	Q1       *float64 `json:"q1,omitempty"`
	Q3       *float64 `json:"q3,omitempty"`
	IQR      *float64 `json:"iqr,omitempty"`
	Outliers *int     `json:"outliers,omitempty"`
	Skewness *float64 `json:"skewness,omitempty"`
	Kurtosis *float64 `json:"kurtosis,omitempty"`

	// Mode holds a float64 for numeric columns and a string for
	// categorical ones
	Mode interface{} `json:"mode,omitempty"`

	// Categorical specialization
	TopValues   []TopValue `json:"topValues,omitempty"`
	ModeCount   *int       `json:"modeCount,omitempty"`
	ModePercent *float64   `json:"modePercent,omitempty"`
	Entropy     *float64   `json:"entropy,omitempty"`

	// Error is set when profiling this column failed; the rest of the
	// report is unaffected
	Error string `json:"error,omitempty"`
}

// ProcessingTime breaks down where a request spent its time
type ProcessingTime struct {
	TotalMs   float64 `json:"totalMs"`
	ParseMs   float64 `json:"parseMs"`
	ProfileMs float64 `json:"profileMs"`
}

// Throughput carries rate metrics for the profiling run
type Throughput struct {
	RowsPerSecond    float64 `json:"rowsPerSecond"`
	ColumnsPerSecond float64 `json:"columnsPerSecond"`
	Efficiency       string  `json:"efficiency"`
}

// Summary aggregates dataset-level counts and timing
type Summary struct {
	TotalRows          int            `json:"totalRows"`
	TotalColumns       int            `json:"totalColumns"`
	NumericColumns     int            `json:"numericColumns"`
	CategoricalColumns int            `json:"categoricalColumns"`
	TotalMissingValues int            `json:"totalMissingValues"`
	ProcessingTime     ProcessingTime `json:"processingTime"`
	Throughput         Throughput     `json:"throughput"`
}

// SamplingMeta describes how an oversized input was reduced
type SamplingMeta struct {
	IsSampled             bool    `json:"isSampled"`
	OriginalSize          int     `json:"originalSize"`
	SampleSize            int     `json:"sampleSize"`
	SamplingRate          float64 `json:"samplingRate"`
	Stratified            bool    `json:"stratified"`
	PreservedDistribution bool    `json:"preservedDistribution"`
}

// Metadata carries request-scoped annotations that are not statistics
type Metadata struct {
	Sampling    *SamplingMeta `json:"sampling,omitempty"`
	ParseErrors int           `json:"parseErrors"`
}

// Report is the top-level profiling result
type Report struct {
	Summary      Summary                 `json:"summary"`
	Columns      map[string]*ColumnStats `json:"columns"`
	Correlations CorrelationSet          `json:"correlations"`
	Insights     []Insight               `json:"insights"`
	Metadata     Metadata                `json:"metadata"`
}

// NumericColumnNames returns the names of numeric columns in sorted order
func (r *Report) NumericColumnNames() []string {
	names := make([]string, 0, len(r.Columns))
	for name, cs := range r.Columns {
		if cs.Type == TypeNumeric {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
