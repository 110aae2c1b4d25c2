// The worker runs the periodic low-stock sweep: it recomputes alerts for
// every company, refreshes the alert gauge and emits stock.low events. A
// Redis lock keeps replicas from sweeping concurrently.
package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/Hectotor/Inventory-web-sub000/internal/config"
	"github.com/Hectotor/Inventory-web-sub000/internal/db"
	"github.com/Hectotor/Inventory-web-sub000/internal/events"
	"github.com/Hectotor/Inventory-web-sub000/internal/lock"
	"github.com/Hectotor/Inventory-web-sub000/internal/obs"
	"github.com/Hectotor/Inventory-web-sub000/internal/stock"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logFormat := envOrDefault("OBS_LOG_FORMAT", "json")
	logLevel := envOrDefault("OBS_LOG_LEVEL", "info")
	logger := obs.NewLogger(logFormat, logLevel).With().
		Str("env", cfg.AppEnv).
		Str("component", "worker").
		Logger()

	metricsNamespace := envOrDefault("OBS_METRICS_NAMESPACE", "logistics")
	obs.MustRegisterDomainMetrics(metricsNamespace, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := db.Connect(ctx, cfg.DatabaseURL, "logistics-worker")
	if err != nil {
		logger.Fatal().Err(err).Msg("connect database")
	}
	defer pool.Close()

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse redis url")
	}
	redisClient := redis.NewClient(redisOpts)
	defer func() { _ = redisClient.Close() }()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal().Err(err).Msg("ping redis")
	}

	bus := &events.Bus{
		Store:     events.NewPGStore(pool),
		Notifiers: []events.Notifier{events.LogNotifier{Logger: logger}},
	}
	sweeper := &stock.Sweeper{
		Repo:    stock.NewRepo(pool),
		Bus:     bus,
		Locker:  lock.Locker{R: redisClient},
		LockKey: "sweep:low-stock",
		LockTTL: cfg.SweepLockTTL,
	}

	runCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	runCtx = logger.WithContext(runCtx)

	logger.Info().Dur("interval", cfg.SweepInterval).Msg("worker starting")

	ticker := time.NewTicker(cfg.SweepInterval)
	defer ticker.Stop()

	if err := sweeper.Run(runCtx); err != nil {
		logger.Error().Err(err).Msg("sweep failed")
	}
	for {
		select {
		case <-runCtx.Done():
			logger.Info().Msg("worker stopping")
			return
		case <-ticker.C:
			if err := sweeper.Run(runCtx); err != nil {
				logger.Error().Err(err).Msg("sweep failed")
			}
		}
	}
}

func envOrDefault(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		trimmed := strings.TrimSpace(val)
		if trimmed != "" {
			return trimmed
		}
	}
	return fallback
}
