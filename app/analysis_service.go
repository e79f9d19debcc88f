// Package app wires the profiling pipeline together for one request:
// fingerprint, cache, parse, sample, engine, store.
package app

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"goprofile/domain/core"
	"goprofile/domain/profile"
	"goprofile/domain/record"
	"goprofile/internal"
	"goprofile/internal/compare"
	"goprofile/internal/engine"
	"goprofile/internal/errors"
	"goprofile/internal/sampling"
	"goprofile/ports"
)

// Input bounds for raw CSV payloads
const (
	MinCSVLength = 10
	MaxCSVLength = 50 * 1024 * 1024
)

// defaultSeed keeps sampling reproducible across identical requests
const defaultSeed = 42

// AnalysisService orchestrates profiling and comparison requests
type AnalysisService struct {
	ingestor ports.Ingestor
	cache    ports.ReportCache
	engine   *engine.Engine
	sampler  *sampling.Service
	logger   *internal.Logger
}

// NewAnalysisService creates the orchestrator. cache may be nil to run
// without caching; everything else is required.
func NewAnalysisService(ingestor ports.Ingestor, cache ports.ReportCache, eng *engine.Engine, sampler *sampling.Service) *AnalysisService {
	return &AnalysisService{
		ingestor: ingestor,
		cache:    cache,
		engine:   eng,
		sampler:  sampler,
		logger:   internal.NewDefaultLogger("Analysis"),
	}
}

// ProfileOutcome pairs a report with its cache disposition
type ProfileOutcome struct {
	Report    *profile.Report
	FromCache bool
	Stored    bool
}

// ProfileCSV runs the full profiling pipeline on raw CSV text.
//
// The cache is consulted before parsing; only non-sampled reports are ever
// stored, so a hit always reproduces a non-sampled analysis of identical
// content and canonical options.
func (s *AnalysisService) ProfileCSV(ctx context.Context, csvText string, opts profile.Options) (*ProfileOutcome, error) {
	if err := validateCSVPayload(csvText); err != nil {
		return nil, err
	}

	start := time.Now()
	fp := core.NewFingerprint([]byte(csvText), opts.Canonical())

	if opts.UseCache && s.cache != nil {
		if report, ok := s.cache.Lookup(fp); ok {
			s.logger.Info("cache hit for %s", fp.String()[:12])
			return &ProfileOutcome{Report: report, FromCache: true}, nil
		}
	}

	parseStart := time.Now()
	view, parseErrors, err := s.ingestor.Parse(csvText, opts)
	if err != nil {
		return nil, err
	}
	parseDuration := time.Since(parseStart)

	if view.Len() == 0 {
		return nil, errors.ValidationError("csv contains no data rows")
	}

	var samplingMeta *profile.SamplingMeta
	if opts.EnableSampling && !opts.FullAnalysis && view.Len() > opts.SampleSize {
		result := s.sampler.CreateSample(view, opts.SampleSize, true, defaultSeed)
		view = result.View
		meta := result.Meta
		samplingMeta = &meta
		s.logger.Info("sampled %d of %d rows (rate %.3f, stratified=%t)",
			meta.SampleSize, meta.OriginalSize, meta.SamplingRate, meta.Stratified)
	}

	profileStart := time.Now()
	report, err := s.engine.Profile(ctx, view, opts)
	if err != nil {
		return nil, err
	}
	profileDuration := time.Since(profileStart)

	report.Metadata.Sampling = samplingMeta
	report.Metadata.ParseErrors = parseErrors
	annotateTiming(report, time.Since(start), parseDuration, profileDuration)

	outcome := &ProfileOutcome{Report: report}
	if opts.UseCache && s.cache != nil && samplingMeta == nil {
		outcome.Stored = s.cache.Store(fp, report)
	}
	return outcome, nil
}

// CompareRecords profiles two already-parsed datasets in parallel and
// diffs the results
func (s *AnalysisService) CompareRecords(ctx context.Context, first, second []map[string]record.Cell, opts profile.Options) (*profile.ComparisonReport, *profile.Report, *profile.Report, error) {
	if len(first) == 0 || len(second) == 0 {
		return nil, nil, nil, errors.ValidationError("both datasets must contain at least one record")
	}

	var report1, report2 *profile.Report
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r, err := s.profileRecords(gctx, first, opts)
		report1 = r
		return err
	})
	g.Go(func() error {
		r, err := s.profileRecords(gctx, second, opts)
		report2 = r
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, nil, err
	}

	return compare.Reports(report1, report2), report1, report2, nil
}

func (s *AnalysisService) profileRecords(ctx context.Context, records []map[string]record.Cell, opts profile.Options) (*profile.Report, error) {
	view, err := record.FromRecords(records)
	if err != nil {
		return nil, errors.ParseError("invalid record shape", err)
	}

	start := time.Now()
	report, err := s.engine.Profile(ctx, view, opts)
	if err != nil {
		return nil, err
	}
	annotateTiming(report, time.Since(start), 0, time.Since(start))
	return report, nil
}

func validateCSVPayload(csvText string) error {
	if csvText == "" {
		return errors.ValidationError("csv data is required")
	}
	if len(csvText) < MinCSVLength {
		return errors.ValidationError("csv data is too small to profile")
	}
	if len(csvText) > MaxCSVLength {
		return errors.ValidationError("csv data exceeds the 50MB limit")
	}
	return nil
}

func annotateTiming(report *profile.Report, total, parse, prof time.Duration) {
	report.Summary.ProcessingTime = profile.ProcessingTime{
		TotalMs:   float64(total.Microseconds()) / 1000,
		ParseMs:   float64(parse.Microseconds()) / 1000,
		ProfileMs: float64(prof.Microseconds()) / 1000,
	}

	seconds := total.Seconds()
	if seconds <= 0 {
		seconds = 1e-9
	}
	rowsPerSec := float64(report.Summary.TotalRows) / seconds
	report.Summary.Throughput = profile.Throughput{
		RowsPerSecond:    rowsPerSec,
		ColumnsPerSecond: float64(report.Summary.TotalColumns) / seconds,
		Efficiency:       efficiencyLabel(rowsPerSec),
	}
}

func efficiencyLabel(rowsPerSec float64) string {
	switch {
	case rowsPerSec >= 100000:
		return "excellent"
	case rowsPerSec >= 10000:
		return "good"
	case rowsPerSec >= 1000:
		return "fair"
	default:
		return "slow"
	}
}
