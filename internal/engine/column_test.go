package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goprofile/domain/profile"
	"goprofile/domain/record"
	"goprofile/internal/config"
	"goprofile/internal/testkit"
)

func testEngine() *Engine {
	return New(nil, config.Engine{
		MaxWorkers:        2,
		ChunkSize:         4,
		ParallelThreshold: 24,
	})
}

func TestProfileColumnNumeric(t *testing.T) {
	view := testkit.NumericColumn("value", []float64{1, 2, 3, 4, 5})
	cs := testEngine().ProfileColumn(view, "value")

	assert.Equal(t, profile.TypeNumeric, cs.Type)
	assert.Equal(t, 5, cs.TotalCount)
	assert.Equal(t, 5, cs.ValidCount)
	assert.Equal(t, 0, cs.MissingCount)
	assert.Equal(t, 5, cs.Unique)

	require.NotNil(t, cs.Mean)
	assert.InDelta(t, 3.0, *cs.Mean, 1e-9)
	assert.InDelta(t, 2.0, *cs.Variance, 1e-9) // population variance
	assert.InDelta(t, 1.0, *cs.Min, 1e-9)
	assert.InDelta(t, 5.0, *cs.Max, 1e-9)
	assert.InDelta(t, 3.0, *cs.Median, 1e-9)
	assert.InDelta(t, 2.0, *cs.Q1, 1e-9)
	assert.InDelta(t, 4.0, *cs.Q3, 1e-9)
	assert.InDelta(t, 2.0, *cs.IQR, 1e-9)
	assert.Equal(t, 0, *cs.Outliers)
	assert.InDelta(t, 0.0, *cs.Skewness, 1e-9)
	assert.InDelta(t, -1.3, *cs.Kurtosis, 1e-9) // excess kurtosis of this symmetric set
}

func TestProfileColumnQuartileInterpolation(t *testing.T) {
	// Even count: quartiles interpolate between ranks
	view := testkit.NumericColumn("v", []float64{1, 2, 3, 4})
	cs := testEngine().ProfileColumn(view, "v")

	require.NotNil(t, cs.Q1)
	assert.InDelta(t, 1.75, *cs.Q1, 1e-9)
	assert.InDelta(t, 2.5, *cs.Median, 1e-9)
	assert.InDelta(t, 3.25, *cs.Q3, 1e-9)
}

func TestProfileColumnOutliers(t *testing.T) {
	view := testkit.NumericColumn("v", []float64{1, 2, 3, 4, 100})
	cs := testEngine().ProfileColumn(view, "v")

	require.NotNil(t, cs.Outliers)
	assert.InDelta(t, 2.0, *cs.Q1, 1e-9)
	assert.InDelta(t, 4.0, *cs.Q3, 1e-9)
	assert.InDelta(t, 2.0, *cs.IQR, 1e-9)
	assert.Equal(t, 1, *cs.Outliers) // 100 sits above q3 + 1.5*iqr = 7
}

func TestProfileColumnConstantNumeric(t *testing.T) {
	view := testkit.NumericColumn("v", []float64{7, 7, 7, 7})
	cs := testEngine().ProfileColumn(view, "v")

	assert.Equal(t, profile.TypeNumeric, cs.Type)
	assert.InDelta(t, 0.0, *cs.Variance, 1e-9)
	assert.InDelta(t, 0.0, *cs.StdDev, 1e-9)
	// Zero deviation pins both shape moments to zero
	assert.InDelta(t, 0.0, *cs.Skewness, 1e-9)
	assert.InDelta(t, 0.0, *cs.Kurtosis, 1e-9)
	assert.Equal(t, 1, cs.Unique)
}

func TestProfileColumnNumericMode(t *testing.T) {
	view := testkit.NumericColumn("v", []float64{5, 1, 1, 2, 2, 3})
	cs := testEngine().ProfileColumn(view, "v")

	// 1 and 2 tie at two occurrences; first seen wins
	assert.Equal(t, 1.0, cs.Mode)
}

func TestProfileColumnCategorical(t *testing.T) {
	view := testkit.MustView([]string{"label"}, [][]record.Cell{
		{record.String("a")},
		{record.String("a")},
		{record.String("a")},
		{record.String("b")},
		{record.String("c")},
	})
	cs := testEngine().ProfileColumn(view, "label")

	assert.Equal(t, profile.TypeCategorical, cs.Type)
	assert.Equal(t, "a", cs.Mode)
	require.NotNil(t, cs.ModeCount)
	assert.Equal(t, 3, *cs.ModeCount)
	assert.InDelta(t, 60.0, *cs.ModePercent, 1e-9)

	require.Len(t, cs.TopValues, 3)
	assert.Equal(t, profile.TopValue{Value: "a", Count: 3}, cs.TopValues[0])
	// b and c tie; first-seen order breaks it
	assert.Equal(t, "b", cs.TopValues[1].Value)
	assert.Equal(t, "c", cs.TopValues[2].Value)

	require.NotNil(t, cs.Entropy)
	assert.InDelta(t, 1.371, *cs.Entropy, 0.001) // -0.6log2(0.6) - 2*0.2log2(0.2)
}

func TestProfileColumnEntropyUsesFullTable(t *testing.T) {
	// 12 distinct values; the frequency table truncates to 10 but entropy
	// must still cover all of them: uniform over 12 gives log2(12)
	rows := make([][]record.Cell, 0, 12)
	values := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l"}
	for _, v := range values {
		rows = append(rows, []record.Cell{record.String(v)})
	}
	view := testkit.MustView([]string{"label"}, rows)
	cs := testEngine().ProfileColumn(view, "label")

	assert.Len(t, cs.TopValues, 10)
	require.NotNil(t, cs.Entropy)
	assert.InDelta(t, 3.585, *cs.Entropy, 0.001) // log2(12)
}

func TestProfileColumnClassification(t *testing.T) {
	tests := []struct {
		name     string
		cells    []record.Cell
		expected profile.ColumnType
	}{
		{
			name:     "majority numeric",
			cells:    []record.Cell{record.Number(1), record.Number(2), record.String("x")},
			expected: profile.TypeNumeric,
		},
		{
			name:     "minority numeric",
			cells:    []record.Cell{record.Number(1), record.String("x"), record.String("y")},
			expected: profile.TypeCategorical,
		},
		{
			name:     "exactly half numeric stays categorical",
			cells:    []record.Cell{record.Number(1), record.Number(2), record.String("x"), record.String("y")},
			expected: profile.TypeCategorical,
		},
		{
			name:     "nulls excluded from the ratio",
			cells:    []record.Cell{record.Number(1), record.Null(), record.Null(), record.Null()},
			expected: profile.TypeNumeric,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := make([][]record.Cell, len(tt.cells))
			for i, c := range tt.cells {
				rows[i] = []record.Cell{c}
			}
			cs := testEngine().ProfileColumn(testkit.MustView([]string{"c"}, rows), "c")
			assert.Equal(t, tt.expected, cs.Type)
		})
	}
}

func TestProfileColumnAllMissing(t *testing.T) {
	view := testkit.MustView([]string{"c"}, [][]record.Cell{
		{record.Null()},
		{record.String("")},
		{record.Null()},
	})
	cs := testEngine().ProfileColumn(view, "c")

	assert.Equal(t, profile.TypeCategorical, cs.Type)
	assert.Equal(t, 3, cs.TotalCount)
	assert.Equal(t, 0, cs.ValidCount)
	assert.Equal(t, 3, cs.MissingCount)
	assert.InDelta(t, 100.0, cs.MissingPercent, 1e-9)
	assert.Equal(t, 0, cs.Unique)
	assert.Nil(t, cs.Mode)
	require.NotNil(t, cs.Entropy)
	assert.InDelta(t, 0.0, *cs.Entropy, 1e-9)
}

func TestProfileColumnMissingCounting(t *testing.T) {
	view := testkit.MustView([]string{"c"}, [][]record.Cell{
		{record.Number(1)},
		{record.Null()},
		{record.String("")},
		{record.Number(3)},
	})
	cs := testEngine().ProfileColumn(view, "c")

	assert.Equal(t, 2, cs.MissingCount)
	assert.InDelta(t, 50.0, cs.MissingPercent, 1e-9)
	assert.Equal(t, 2, cs.ValidCount)
}

func TestProfileColumnUnknownName(t *testing.T) {
	view := testkit.NumericColumn("v", []float64{1})
	cs := testEngine().ProfileColumn(view, "missing")

	assert.Equal(t, profile.TypeUnknown, cs.Type)
	assert.NotEmpty(t, cs.Error)
}

func TestPercentile(t *testing.T) {
	sorted := []float64{10, 20, 30, 40}

	assert.InDelta(t, 10, percentile(sorted, 0), 1e-9)
	assert.InDelta(t, 40, percentile(sorted, 1), 1e-9)
	assert.InDelta(t, 25, percentile(sorted, 0.5), 1e-9)
	assert.InDelta(t, 42, percentile([]float64{42}, 0.75), 1e-9)
	assert.InDelta(t, 0, percentile(nil, 0.5), 1e-9)
}
