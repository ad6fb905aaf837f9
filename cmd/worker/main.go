package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/medpal/medpal-api/internal/config"
	"github.com/medpal/medpal-api/internal/repository/postgres"
	"github.com/medpal/medpal-api/pkg/logger"
	redisbroker "github.com/medpal/medpal-api/pkg/messaging/redis"
	"github.com/medpal/medpal-api/pkg/metrics"
	"github.com/medpal/medpal-api/pkg/worker"
)

// The worker drains the transactional outbox and publishes events to Redis.
// Anything downstream of the broker (push, SMS, mail fan-out) is someone
// else's job.
func main() {
	log := logger.NewLogger(nil)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err, "failed to load config")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal(err, "failed to connect to database")
	}
	defer db.Close()

	broker, err := redisbroker.NewRedisBroker(redisbroker.Config{
		URL:          cfg.Redis.URL,
		MaxRetries:   cfg.Redis.MaxRetries,
		RetryBackoff: cfg.Redis.RetryBackoff,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	}, &log.ZL)
	if err != nil {
		log.Fatal(err, "failed to connect to redis")
	}
	defer broker.Close()

	processor := worker.NewOutboxProcessor(
		postgres.NewOutboxRepository(db),
		broker,
		worker.OutboxProcessorConfig{
			BatchSize:     cfg.Outbox.BatchSize,
			PollInterval:  cfg.Outbox.PollInterval,
			RetryAttempts: cfg.Outbox.RetryAttempts,
			RetryDelay:    cfg.Outbox.RetryDelay,
			Retention:     cfg.Outbox.Retention,
		},
		log,
		metrics.NewMetrics("medpal_worker"),
	)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		cancel()
	}()

	processor.Start(ctx)
}
