// Command index rebuilds the search index from the catalog in PostgreSQL.
// It creates the Elasticsearch index with the document mapping if it does
// not exist yet.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/fleetparts/partsearch/internal/config"
	esengine "github.com/fleetparts/partsearch/internal/engine/elasticsearch"
	postgresrepo "github.com/fleetparts/partsearch/internal/repository/postgres"
	"github.com/fleetparts/partsearch/internal/service"
	"github.com/fleetparts/partsearch/pkg/database"
	"github.com/fleetparts/partsearch/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		slog.Error("index failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	// Load a local .env file if present; real environments set vars directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New("partsearch-index", cfg.LogLevel)
	log.Info("starting full reindex",
		slog.String("elasticsearch_url", cfg.ElasticsearchURL),
		slog.String("index", cfg.ElasticsearchIndex),
		slog.Int("batch_size", cfg.IndexBatchSize),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	pgCfg := cfg.Postgres()
	pool, err := database.NewPostgresPool(ctx, &pgCfg, log)
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	defer pool.Close()

	eng, err := esengine.New(cfg.ElasticsearchURL, cfg.ElasticsearchIndex, log)
	if err != nil {
		return fmt.Errorf("init elasticsearch engine: %w", err)
	}

	indexer := service.NewIndexer(
		postgresrepo.NewPartRepository(pool),
		postgresrepo.NewDistributorRepository(pool),
		eng,
		cfg.IndexBatchSize,
		log,
	)
	if err := indexer.Run(ctx); err != nil {
		return fmt.Errorf("run indexer: %w", err)
	}

	log.Info("reindex complete")
	return nil
}
