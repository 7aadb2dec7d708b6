// Command ensembles generates recombination ensembles for a set of regional
// graphs described by a YAML run config, writing one JSON series per
// (statistic, region, seed) plus combined whole-territory series.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "ensembles.yaml", "path to the YAML run config")
	dev := flag.Bool("dev", false, "human-readable development logging")
	flag.Parse()

	var logger *zap.Logger
	var err error
	if *dev {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		os.Exit(1)
	}
	defer logger.Sync() //nolint:errcheck

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	r := &runner{cfg: cfg, logger: logger, runID: uuid.NewString()}
	logger.Info("run starting",
		zap.String("run_id", r.runID),
		zap.String("name", cfg.Name),
		zap.Int("regions", len(cfg.Regions)),
		zap.Int("seeds", len(cfg.Seeds)),
		zap.Int("total_steps", cfg.TotalSteps),
	)

	if err := r.run(ctx); err != nil {
		logger.Fatal("run failed", zap.Error(err))
	}
	logger.Info("run complete", zap.String("run_id", r.runID), zap.String("output_dir", cfg.OutputDir))
}
