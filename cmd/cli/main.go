package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"goprofile/adapters/csvio"
	"goprofile/adapters/excel"
	"goprofile/app"
	"goprofile/domain/profile"
	"goprofile/domain/record"
	"goprofile/internal/config"
	"goprofile/internal/engine"
	"goprofile/internal/pool"
	"goprofile/internal/sampling"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "goprofile",
		Short: "Profile tabular datasets from the command line",
	}

	rootCmd.AddCommand(newProfileCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newProfileCmd() *cobra.Command {
	var (
		delimiter  string
		sampleSize int
		full       bool
		aligned    bool
		timeout    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "profile [file]",
		Short: "Profile a .csv or .xlsx file and print the report as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			opts := profile.DefaultOptions()
			opts.Delimiter = delimiter
			opts.SampleSize = sampleSize
			opts.FullAnalysis = full
			opts.AlignedCorrelations = aligned
			opts.UseCache = false

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			eng := engine.New(pool.New(), cfg.Engine)

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			report, err := profileFile(ctx, path, eng, opts)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		},
	}

	cmd.Flags().StringVar(&delimiter, "delimiter", ",", "field delimiter for CSV input")
	cmd.Flags().IntVar(&sampleSize, "sample-size", profile.DefaultSampleSize, "row threshold above which the dataset is sampled")
	cmd.Flags().BoolVar(&full, "full", false, "profile every row, skipping sampling")
	cmd.Flags().BoolVar(&aligned, "aligned", false, "drop rows with missing values pairwise before correlating")
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Minute, "analysis deadline")
	return cmd
}

func profileFile(ctx context.Context, path string, eng *engine.Engine, opts profile.Options) (*profile.Report, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		view, err := excel.NewReader(path).Read()
		if err != nil {
			return nil, err
		}
		return profileView(ctx, view, eng, opts)
	default:
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		service := app.NewAnalysisService(&csvio.Reader{}, nil, eng, sampling.NewService())
		outcome, err := service.ProfileCSV(ctx, string(raw), opts)
		if err != nil {
			return nil, err
		}
		return outcome.Report, nil
	}
}

func profileView(ctx context.Context, view *record.View, eng *engine.Engine, opts profile.Options) (*profile.Report, error) {
	start := time.Now()
	report, err := eng.Profile(ctx, view, opts)
	if err != nil {
		return nil, err
	}
	report.Summary.ProcessingTime.TotalMs = float64(time.Since(start).Microseconds()) / 1000
	return report, nil
}
