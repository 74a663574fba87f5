// cmd/pipeline/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/glowsight/sentiment-ingress/pkg/config"
	"github.com/glowsight/sentiment-ingress/pkg/logger"
	"github.com/glowsight/sentiment-ingress/pkg/pipeline"
)

func main() {
	// A .env file is optional; real environment variables win either way.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		zap.NewExample().Fatal("Failed to load configuration", zap.Error(err))
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		zap.NewExample().Fatal("Failed to build logger", zap.Error(err))
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p, err := pipeline.New(cfg, log)
	if err != nil {
		log.Fatal("Failed to create pipeline", zap.Error(err))
	}
	defer p.Close()

	if err := p.Run(ctx); err != nil {
		log.Fatal("Pipeline run failed",
			zap.String("category", pipeline.CategoryOf(err).String()),
			zap.Error(err))
	}

	log.Info("Pipeline run completed",
		zap.String("runID", p.Metrics().RunID.String()),
		zap.String("output", cfg.OutputCSV))
}
