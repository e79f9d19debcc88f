// Package engine computes profile reports: per-column statistics, pairwise
// correlations between numeric columns, and rule-derived insights. Work is
// sequential below a column-count threshold and fans out through the worker
// pool above it; both paths produce identical reports.
package engine

import (
	"context"

	"goprofile/domain/profile"
	"goprofile/domain/record"
	"goprofile/internal"
	"goprofile/internal/config"
	"goprofile/internal/pool"
)

// Engine profiles record views
type Engine struct {
	pool   *pool.Pool
	cfg    config.Engine
	logger *internal.Logger
}

// New creates a profiling engine
func New(p *pool.Pool, cfg config.Engine) *Engine {
	return &Engine{
		pool:   p,
		cfg:    cfg,
		logger: internal.NewDefaultLogger("Engine"),
	}
}

// Profile computes the full report for a record view. Per-column failures
// degrade to unknown-typed column records; only pool timeouts and
// cancellation fail the whole run.
func (e *Engine) Profile(ctx context.Context, view *record.View, opts profile.Options) (*profile.Report, error) {
	columns := view.Columns()

	stats, err := e.profileColumns(ctx, view)
	if err != nil {
		return nil, err
	}

	numericNames := make([]string, 0, len(columns))
	for _, name := range columns {
		if cs, ok := stats[name]; ok && cs.Type == profile.TypeNumeric {
			numericNames = append(numericNames, name)
		}
	}

	correlations, err := e.correlations(ctx, view, numericNames, opts.AlignedCorrelations)
	if err != nil {
		return nil, err
	}

	insights := deriveInsights(columns, stats, correlations)

	summary := profile.Summary{
		TotalRows:      view.Len(),
		TotalColumns:   len(columns),
		NumericColumns: len(numericNames),
	}
	for _, name := range columns {
		cs, ok := stats[name]
		if !ok {
			continue
		}
		if cs.Type == profile.TypeCategorical {
			summary.CategoricalColumns++
		}
		summary.TotalMissingValues += cs.MissingCount
	}

	return &profile.Report{
		Summary:      summary,
		Columns:      stats,
		Correlations: correlations,
		Insights:     insights,
	}, nil
}

func (e *Engine) profileColumns(ctx context.Context, view *record.View) (map[string]*profile.ColumnStats, error) {
	if view.ColumnCount() <= e.cfg.ParallelThreshold || e.pool == nil {
		stats := make(map[string]*profile.ColumnStats, view.ColumnCount())
		for _, name := range view.Columns() {
			stats[name] = e.ProfileColumn(view, name)
		}
		return stats, nil
	}

	e.logger.Debug("pooling column profiling for %d columns", view.ColumnCount())
	result, err := e.pool.ProcessInParallel(ctx, view, func(ctx context.Context, chunk *record.View) (interface{}, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		partial := make(map[string]*profile.ColumnStats, chunk.ColumnCount())
		for _, name := range chunk.Columns() {
			partial[name] = e.ProfileColumn(chunk, name)
		}
		return partial, nil
	}, pool.Options{
		MaxWorkers: e.cfg.MaxWorkers,
		ChunkSize:  e.cfg.ChunkSize,
		Timeout:    e.cfg.PoolTimeout,
		TaskName:   pool.TaskProfileColumns,
		Axis:       pool.AxisColumns,
	})
	if err != nil {
		return nil, err
	}
	return result.(map[string]*profile.ColumnStats), nil
}

func (e *Engine) correlations(ctx context.Context, view *record.View, numericNames []string, aligned bool) (profile.CorrelationSet, error) {
	if len(numericNames) <= e.cfg.ParallelThreshold || e.pool == nil {
		pairs := pairsForColumns(view, numericNames, numericNames, aligned)
		return profile.NewCorrelationSet(pairs), nil
	}

	numView, err := view.SelectColumns(numericNames)
	if err != nil {
		return profile.CorrelationSet{}, err
	}

	e.logger.Debug("pooling correlations over %d numeric columns", len(numericNames))
	result, err := e.pool.ProcessInParallel(ctx, numView, func(ctx context.Context, chunk *record.View) (interface{}, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		// Each chunk owns the pairs whose first column falls in its range
		return pairsForColumns(numView, numericNames, chunk.Columns(), aligned), nil
	}, pool.Options{
		MaxWorkers: e.cfg.MaxWorkers,
		ChunkSize:  e.cfg.ChunkSize,
		Timeout:    e.cfg.PoolTimeout,
		TaskName:   pool.TaskCalculateCorrelations,
		Axis:       pool.AxisColumns,
	})
	if err != nil {
		return profile.CorrelationSet{}, err
	}
	return result.(profile.CorrelationSet), nil
}
