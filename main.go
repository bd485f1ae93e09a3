package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"boradedesconto/offerworker/config"
	"boradedesconto/offerworker/internal/ingest"
	"boradedesconto/offerworker/internal/storage/postgres"
	"boradedesconto/offerworker/logger"
	"boradedesconto/offerworker/services/cache"
	"boradedesconto/offerworker/services/publisher"
	"boradedesconto/offerworker/services/scheduler"
	"boradedesconto/offerworker/services/worker"
)

func main() {
	// Load environment variables
	godotenv.Load()

	// Initialize logger first
	logger.Init()
	log := logger.Default

	// Load and validate configuration
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	log.Info().
		Str("environment", cfg.Environment).
		Str("schedule", cfg.CrawlSchedule).
		Msg("Starting application")

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Connect to Postgres and prepare the schema
	db, err := postgres.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Postgres")
	}
	defer db.Close()

	store := postgres.NewOfferStore(db)
	if err := store.EnsureSchema(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to ensure database schema")
	}
	log.Info().Msg("Database ready")

	// Initialize the rate-limit cache
	cacheService := cache.NewMemcacheService(cfg.MemcacheAddr)
	log.Info().Str("addr", cfg.MemcacheAddr).Msg("Connected to Memcache")

	// Initialize the offer announcement publisher
	redisPublisher := publisher.NewRedisPublisher(
		ctx,
		cfg.RedisAddr,
		cfg.RedisDB,
		cfg.RedisStream,
		cfg.RedisStreamCount,
		cfg.RedisStreamMaxLength,
	)
	defer redisPublisher.Close()
	log.Info().
		Str("addr", cfg.RedisAddr).
		Int("db", cfg.RedisDB).
		Str("stream", cfg.RedisStream).
		Msg("Connected to Redis")

	// Create one ingester per merchant
	ingesters := ingest.CreateIngesters(&cfg, cacheService, store)
	if len(ingesters) == 0 {
		log.Fatal().Msg("No ingesters were created")
	}

	runners := make([]ingest.Runner, 0, len(ingesters))
	for _, ing := range ingesters {
		runners = append(runners, ing)
	}
	log.Info().Int("merchant_count", len(runners)).Msg("Created ingesters")

	w := worker.NewWorker(runners, redisPublisher)

	// Schedule periodic cycles and kick one off immediately
	sched := scheduler.New()
	if err := sched.Add(cfg.CrawlSchedule, "all_merchants", func() {
		w.RunOnce(ctx)
	}); err != nil {
		log.Fatal().Err(err).Msg("Failed to schedule ingestion")
	}
	sched.Start()

	go w.RunOnce(ctx)

	// Wait for shutdown signal
	sig := <-sigChan
	log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")

	cancel()
	sched.Stop()
	log.Info().Msg("Shutting down gracefully...")
}
