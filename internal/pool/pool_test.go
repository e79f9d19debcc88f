package pool

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goprofile/domain/profile"
	"goprofile/domain/record"
	"goprofile/internal/errors"
)

func numericView(t *testing.T, columns int, rows int) *record.View {
	t.Helper()
	names := make([]string, columns)
	for i := range names {
		names[i] = fmt.Sprintf("c%02d", i)
	}
	data := make([][]record.Cell, rows)
	for r := range data {
		row := make([]record.Cell, columns)
		for c := range row {
			row[c] = record.Number(float64(r*columns + c))
		}
		data[r] = row
	}
	view, err := record.New(names, data)
	require.NoError(t, err)
	return view
}

func TestProcessInParallelRowChunks(t *testing.T) {
	view := numericView(t, 2, 10)

	result, err := New().ProcessInParallel(context.Background(), view, func(ctx context.Context, chunk *record.View) (interface{}, error) {
		sum := 0.0
		cells, _ := chunk.Column("c00")
		for _, cell := range cells {
			sum += cell.Number()
		}
		return []interface{}{sum}, nil
	}, Options{MaxWorkers: 3, ChunkSize: 3, Timeout: time.Second, Axis: AxisRows})
	require.NoError(t, err)

	partials := result.([]interface{})
	assert.Len(t, partials, 4) // 3+3+3+1 rows

	total := 0.0
	for _, p := range partials {
		total += p.(float64)
	}
	// Column c00 holds 0,2,4,...,18
	assert.InDelta(t, 90.0, total, 1e-9)
}

func TestProcessInParallelColumnChunksMergeStats(t *testing.T) {
	view := numericView(t, 7, 5)

	result, err := New().ProcessInParallel(context.Background(), view, func(ctx context.Context, chunk *record.View) (interface{}, error) {
		partial := make(map[string]*profile.ColumnStats, chunk.ColumnCount())
		for _, name := range chunk.Columns() {
			partial[name] = &profile.ColumnStats{Type: profile.TypeNumeric, TotalCount: chunk.Len()}
		}
		return partial, nil
	}, Options{MaxWorkers: 2, ChunkSize: 3, Timeout: time.Second, TaskName: TaskProfileColumns, Axis: AxisColumns})
	require.NoError(t, err)

	merged := result.(map[string]*profile.ColumnStats)
	require.Len(t, merged, 7)
	for _, cs := range merged {
		assert.Equal(t, 5, cs.TotalCount)
	}
}

func TestProcessInParallelCombinesCorrelations(t *testing.T) {
	view := numericView(t, 4, 3)

	var chunkIndex int32
	result, err := New().ProcessInParallel(context.Background(), view, func(ctx context.Context, chunk *record.View) (interface{}, error) {
		i := atomic.AddInt32(&chunkIndex, 1)
		return []profile.CorrelationPair{
			{Column1: fmt.Sprintf("a%d", i), Column2: "b", R: 0.9, Strength: 0.9, SampleSize: 3},
			{Column1: fmt.Sprintf("c%d", i), Column2: "d", R: -0.1, Strength: 0.1, SampleSize: 3},
		}, nil
	}, Options{MaxWorkers: 2, ChunkSize: 2, Timeout: time.Second, TaskName: TaskCalculateCorrelations, Axis: AxisColumns})
	require.NoError(t, err)

	set := result.(profile.CorrelationSet)
	assert.Len(t, set.All, 4)
	assert.Len(t, set.Strong, 2)
	assert.Len(t, set.Weak, 2)
	// Strongest pairs sort first
	assert.InDelta(t, 0.9, set.All[0].Strength, 1e-9)
	assert.InDelta(t, 0.9, set.All[1].Strength, 1e-9)
}

func TestProcessInParallelFailFast(t *testing.T) {
	view := numericView(t, 1, 20)

	boom := fmt.Errorf("chunk exploded")
	var calls int32
	_, err := New().ProcessInParallel(context.Background(), view, func(ctx context.Context, chunk *record.View) (interface{}, error) {
		n := atomic.AddInt32(&calls, 1)
		if n == 1 {
			return nil, boom
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(50 * time.Millisecond):
			return nil, nil
		}
	}, Options{MaxWorkers: 2, ChunkSize: 2, Timeout: 5 * time.Second, Axis: AxisRows})

	require.Error(t, err)
	assert.Equal(t, boom, err)
}

func TestProcessInParallelTimeout(t *testing.T) {
	view := numericView(t, 1, 4)

	_, err := New().ProcessInParallel(context.Background(), view, func(ctx context.Context, chunk *record.View) (interface{}, error) {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(5 * time.Second):
			return nil, nil
		}
	}, Options{MaxWorkers: 2, ChunkSize: 2, Timeout: 50 * time.Millisecond, TaskName: "slowTask", Axis: AxisRows})

	require.Error(t, err)
	assert.True(t, errors.IsTimeout(err))
}

func TestProcessInParallelEmptyView(t *testing.T) {
	view, err := record.New([]string{"a"}, nil)
	require.NoError(t, err)

	result, err := New().ProcessInParallel(context.Background(), view, func(ctx context.Context, chunk *record.View) (interface{}, error) {
		t.Fatal("chunk function must not run for an empty view")
		return nil, nil
	}, Options{MaxWorkers: 2, ChunkSize: 2, Timeout: time.Second, TaskName: TaskProfileColumns, Axis: AxisRows})
	require.NoError(t, err)
	assert.Empty(t, result.(map[string]*profile.ColumnStats))
}

func TestSplitColumnsLastChunkSmaller(t *testing.T) {
	view := numericView(t, 5, 2)
	chunks := split(view, AxisColumns, 2)

	require.Len(t, chunks, 3)
	assert.Equal(t, []string{"c00", "c01"}, chunks[0].Columns())
	assert.Equal(t, []string{"c04"}, chunks[2].Columns())
	for _, chunk := range chunks {
		assert.Equal(t, 2, chunk.Len())
	}
}
