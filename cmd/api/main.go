package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"goprofile/adapters/csvio"
	"goprofile/app"
	"goprofile/internal"
	"goprofile/internal/api"
	"goprofile/internal/cache"
	"goprofile/internal/config"
	"goprofile/internal/engine"
	"goprofile/internal/pool"
	"goprofile/internal/sampling"
	"goprofile/ports"
)

func main() {
	_ = godotenv.Load()
	logger := internal.NewDefaultLogger("Main")

	cfg, err := config.Load()
	if err != nil {
		logger.Error("configuration: %v", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var reportCache ports.ReportCache
	store, err := cache.New(cfg.Cache.Dir, cfg.Cache.TTL)
	if err != nil {
		// The service degrades to uncached operation
		logger.Warn("cache disabled: %v", err)
	} else {
		reportCache = store
		store.StartSweeper(ctx.Done(), cache.SweepInterval)
	}

	eng := engine.New(pool.New(), cfg.Engine)
	service := app.NewAnalysisService(&csvio.Reader{}, reportCache, eng, sampling.NewService())

	server := api.NewServer(cfg, service)
	if err := server.Start(ctx); err != nil {
		logger.Error("server: %v", err)
		os.Exit(1)
	}
	logger.Info("stopped")
}
