package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/fleetparts/partsearch/internal/domain"
	"github.com/fleetparts/partsearch/internal/engine"
	"github.com/fleetparts/partsearch/internal/repository"
)

// DefaultBatchSize bounds the size of one bulk publish to the engine.
const DefaultBatchSize = 500

var (
	documentsIndexed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "partsearch_documents_indexed_total",
		Help: "Total number of part documents published to the search engine.",
	})
	indexBatches = promauto.NewCounter(prometheus.CounterOpts{
		Name: "partsearch_index_batches_total",
		Help: "Total number of bulk index batches published.",
	})
)

// Indexer projects the primary store into search documents and publishes
// them in fixed-size batches. A batch failure aborts the run; a failed run
// is re-executed in full.
type Indexer struct {
	parts        repository.PartRepository
	distributors repository.DistributorRepository
	engine       engine.SearchEngine
	batchSize    int
	logger       *slog.Logger
}

// NewIndexer creates a new search indexer. A non-positive batchSize falls
// back to DefaultBatchSize.
func NewIndexer(parts repository.PartRepository, distributors repository.DistributorRepository, eng engine.SearchEngine, batchSize int, logger *slog.Logger) *Indexer {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Indexer{
		parts:        parts,
		distributors: distributors,
		engine:       eng,
		batchSize:    batchSize,
		logger:       logger,
	}
}

// Run performs one full indexing pass: load all parts, aggregate listing
// counts, build documents and bulk-publish them batch by batch.
func (ix *Indexer) Run(ctx context.Context) error {
	parts, err := ix.parts.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("indexer: load parts: %w", err)
	}

	counts, err := ix.distributors.CountListingsByPart(ctx)
	if err != nil {
		return fmt.Errorf("indexer: load listing counts: %w", err)
	}

	docs := make([]domain.SearchDocument, 0, len(parts))
	for i := range parts {
		docs = append(docs, domain.BuildSearchDocument(&parts[i], counts[parts[i].ID]))
	}

	total := len(docs)
	published := 0

	for start := 0; start < total; start += ix.batchSize {
		end := start + ix.batchSize
		if end > total {
			end = total
		}
		batch := docs[start:end]

		if err := ix.engine.BulkIndex(ctx, batch); err != nil {
			return fmt.Errorf("indexer: publish batch at offset %d: %w", start, err)
		}

		published += len(batch)
		documentsIndexed.Add(float64(len(batch)))
		indexBatches.Inc()

		ix.logger.InfoContext(ctx, "index batch published",
			slog.Int("batch_size", len(batch)),
			slog.Int("published", published),
			slog.Int("total", total),
		)
	}

	ix.logger.InfoContext(ctx, "indexing completed",
		slog.Int("documents", total),
	)
	return nil
}
