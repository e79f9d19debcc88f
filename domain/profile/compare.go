package profile

// Delta records an absolute and relative change of one metric between two
// reports. PercentChange is relative to the first report and 0-safe.
type Delta struct {
	First         float64 `json:"first"`
	Second        float64 `json:"second"`
	Diff          float64 `json:"diff"`
	PercentChange float64 `json:"percentChange"`
}

// NewDelta computes the change from a to b
func NewDelta(a, b float64) Delta {
	d := Delta{First: a, Second: b, Diff: b - a}
	if a != 0 {
		d.PercentChange = (b - a) / a * 100
	}
	return d
}

// RowCountChange is the dataset-size delta between two reports
type RowCountChange struct {
	First         int     `json:"first"`
	Second        int     `json:"second"`
	Diff          int     `json:"diff"`
	PercentChange float64 `json:"percentChange"`
}

// ColumnsPartition splits column names by membership across two reports
type ColumnsPartition struct {
	Common       []string `json:"common"`
	OnlyInFirst  []string `json:"onlyInFirst"`
	OnlyInSecond []string `json:"onlyInSecond"`
}

// TopValueChange diffs one categorical value across both top-value tables.
// Significant is set when |PercentChange| exceeds 20.
type TopValueChange struct {
	Value         string  `json:"value"`
	Count1        int     `json:"count1"`
	Count2        int     `json:"count2"`
	Diff          int     `json:"diff"`
	PercentChange float64 `json:"percentChange"`
	Significant   bool    `json:"significant"`
}

// ColumnChange describes how one common column moved between reports
type ColumnChange struct {
	TypeChanged  bool   `json:"typeChanged"`
	TypeChange   string `json:"typeChange,omitempty"`
	MissingCount Delta  `json:"missingCount"`
	Unique       Delta  `json:"unique"`

	// Both sides numeric
	Mean     *Delta `json:"mean,omitempty"`
	StdDev   *Delta `json:"stdDev,omitempty"`
	Min      *Delta `json:"min,omitempty"`
	Max      *Delta `json:"max,omitempty"`
	Range    *Delta `json:"range,omitempty"`
	Outliers *Delta `json:"outliers,omitempty"`

	// Both sides categorical
	Entropy   *Delta           `json:"entropy,omitempty"`
	TopValues []TopValueChange `json:"topValues,omitempty"`
}

// CorrelationChange records how one column pair's correlation moved.
// Significant is set when |Diff| exceeds 0.2; SignChange when the
// coefficients have opposite signs.
type CorrelationChange struct {
	Column1     string  `json:"column1"`
	Column2     string  `json:"column2"`
	R1          float64 `json:"correlation1"`
	R2          float64 `json:"correlation2"`
	Diff        float64 `json:"diff"`
	Significant bool    `json:"significant"`
	SignChange  bool    `json:"signChange"`
}

// CorrelationChanges categorizes pairs across two reports
type CorrelationChanges struct {
	Added   []CorrelationPair   `json:"added"`
	Removed []CorrelationPair   `json:"removed"`
	Changed []CorrelationChange `json:"changed"`
}

// ComparisonReport is the structured diff of two profile reports
type ComparisonReport struct {
	RowCount      RowCountChange          `json:"rowCount"`
	Columns       ColumnsPartition        `json:"columns"`
	ColumnChanges map[string]ColumnChange `json:"columnChanges"`
	Correlations  CorrelationChanges      `json:"correlations"`
	Insights      []Insight               `json:"insights"`
}
