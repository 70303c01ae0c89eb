package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/flaskinni/inni/internal/config"
	"github.com/flaskinni/inni/internal/db"
	"github.com/flaskinni/inni/internal/repositories"
	"go.uber.org/zap"
)

func main() {
	log, _ := zap.NewProduction()
	defer log.Sync()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := db.NewPostgresPool(ctx, cfg.PostgresDSN, log)
	if err != nil {
		log.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer pool.Close()

	buzzRepo := repositories.NewBuzzRepo(pool, cfg.BuzzQueryLimit)

	log.Info("retention worker started", zap.Int("retention_days", cfg.RetentionDays))

	// Purge once at boot, then daily.
	runPurge(ctx, buzzRepo, cfg, log)

	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-ticker.C:
			runPurge(ctx, buzzRepo, cfg, log)
		case <-sigCh:
			log.Info("shutting down retention worker")
			cancel()
			return
		}
	}
}

func runPurge(ctx context.Context, buzzRepo *repositories.BuzzRepo, cfg *config.Config, log *zap.Logger) {
	if cfg.RetentionDays <= 0 {
		log.Info("retention disabled, skipping purge")
		return
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -cfg.RetentionDays)
	purged, err := buzzRepo.PurgeOlderThan(ctx, cutoff)
	if err != nil {
		log.Error("purge failed", zap.Error(err))
		return
	}
	if purged > 0 {
		log.Info("purged old events", zap.Int64("count", purged), zap.Time("cutoff", cutoff))
	}
}
