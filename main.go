package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"loungebot/api"
	"loungebot/archive"
	"loungebot/config"
	"loungebot/curation"
	"loungebot/dedup"
	"loungebot/events"
	"loungebot/oracle"
	"loungebot/orchestrator"
	"loungebot/relevancy"
	"loungebot/rssfeeds"
	"loungebot/store"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env if present (non-fatal if missing)
	_ = godotenv.Load()

	cfg := config.Load()
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	ctx := context.Background()

	if cfg.DatabaseURL == "" {
		logger.Error("DATABASE_URL is required")
		os.Exit(1)
	}
	if cfg.CohereAPIKey == "" {
		logger.Error("COHERE_API_KEY is required")
		os.Exit(1)
	}

	pool, err := store.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	contentRepo := store.NewContentRepository(pool, logger.With("component", "content"))
	loungeRepo := store.NewLoungeRepository(pool, logger.With("component", "lounges"))
	tombstoneRepo := store.NewTombstoneRepository(pool, logger.With("component", "tombstones"))

	oracleClient := oracle.NewCohere(cfg.CohereAPIKey, cfg.CohereModel)
	ingestor := rssfeeds.NewIngestor(config.DefaultFeedSources, logger.With("component", "rssfeeds"))

	// Optional integrations degrade to nil: the pipelines run the same
	// without Redis, Kafka, or S3 configured.
	var seen curation.SeenChecker
	if cfg.RedisAddr != "" {
		filter, err := dedup.NewSeenFilter(dedup.SeenFilterConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		if err != nil {
			logger.Warn("seen-filter disabled", "error", err)
		} else {
			defer filter.Close()
			seen = filter
		}
	}

	var publisher *events.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		publisher, err = events.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, logger.With("component", "events"))
		if err != nil {
			logger.Warn("event publishing disabled", "error", err)
			publisher = nil
		} else {
			defer publisher.Close()
		}
	}

	var digestArchive *archive.Archive
	if cfg.S3Bucket != "" {
		digestArchive, err = archive.New(ctx, archive.Config{
			Bucket: cfg.S3Bucket,
			Region: cfg.S3Region,
			Prefix: cfg.S3Prefix,
		}, logger.With("component", "archive"))
		if err != nil {
			logger.Warn("digest archiving disabled", "error", err)
			digestArchive = nil
		}
	}

	curator := curation.NewOrchestrator(ingestor, seen, oracleClient, logger.With("component", "curation"))
	scorer := relevancy.NewScorer(oracleClient, loungeRepo, logger.With("component", "scorer"))

	var notifier relevancy.DeletionNotifier
	if publisher != nil {
		notifier = publisher
	}
	aggregator := relevancy.NewAggregator(contentRepo, loungeRepo, tombstoneRepo, notifier,
		logger.With("component", "aggregator"))

	deps := orchestrator.RunnerDeps{
		Curator:     curator,
		Scorer:      scorer,
		Aggregator:  aggregator,
		Content:     contentRepo,
		Memberships: loungeRepo,
		Logger:      logger.With("component", "orchestrator"),
	}
	if digestArchive != nil {
		deps.Archive = digestArchive
	}
	if publisher != nil {
		deps.Events = publisher
	}
	runner := orchestrator.NewRunner(deps)

	addr := ":" + cfg.Port
	r := api.NewRouter(runner, cfg.RelevancyBatchLimit, logger.With("component", "api"))

	logger.Info("starting API server", "addr", addr)
	logger.Info("endpoints: GET /api/health, POST /api/digest/generate, POST /api/relevancy/process")
	if err := http.ListenAndServe(addr, r); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}
