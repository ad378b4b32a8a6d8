// Command seed loads a catalog snapshot (parts, distributors, listings) from
// CSV files into PostgreSQL and derives searchable part identifiers.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/fleetparts/partsearch/internal/catalog"
	"github.com/fleetparts/partsearch/internal/config"
	postgresrepo "github.com/fleetparts/partsearch/internal/repository/postgres"
	"github.com/fleetparts/partsearch/internal/service"
	"github.com/fleetparts/partsearch/migrations"
	"github.com/fleetparts/partsearch/pkg/database"
	"github.com/fleetparts/partsearch/pkg/logger"
)

func main() {
	partsPath := flag.String("parts", "", "path to the parts CSV file (required)")
	distributorsPath := flag.String("distributors", "", "path to the distributors CSV file")
	listingsPath := flag.String("listings", "", "path to the listings CSV file")
	flag.Parse()

	if err := run(*partsPath, *distributorsPath, *listingsPath); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(partsPath, distributorsPath, listingsPath string) error {
	// Load a local .env file if present; real environments set vars directly.
	_ = godotenv.Load()

	if partsPath == "" {
		return fmt.Errorf("the -parts flag is required")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New("partsearch-seed", cfg.LogLevel)

	input := &service.SeedInput{}

	input.Parts, err = readCSV(partsPath, catalog.ReadParts)
	if err != nil {
		return fmt.Errorf("read parts: %w", err)
	}
	if distributorsPath != "" {
		input.Distributors, err = readCSV(distributorsPath, catalog.ReadDistributors)
		if err != nil {
			return fmt.Errorf("read distributors: %w", err)
		}
	}
	if listingsPath != "" {
		input.Listings, err = readCSV(listingsPath, catalog.ReadListings)
		if err != nil {
			return fmt.Errorf("read listings: %w", err)
		}
	}

	log.Info("catalog files loaded",
		slog.Int("parts", len(input.Parts)),
		slog.Int("distributors", len(input.Distributors)),
		slog.Int("listings", len(input.Listings)),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pgCfg := cfg.Postgres()
	pool, err := database.NewPostgresPool(ctx, &pgCfg, log)
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	defer pool.Close()

	if err := database.RunMigrations(ctx, pool, migrations.FS, log); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	seeder := service.NewSeeder(
		postgresrepo.NewPartRepository(pool),
		postgresrepo.NewDistributorRepository(pool),
		log,
	)
	if err := seeder.Run(ctx, input); err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}

	log.Info("catalog seeded")
	return nil
}

// readCSV opens path and decodes it with the given catalog reader.
func readCSV[T any](path string, read func(r io.Reader) ([]T, error)) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return read(f)
}
