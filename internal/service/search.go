package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fleetparts/partsearch/internal/domain"
	"github.com/fleetparts/partsearch/internal/engine"
)

// SearchService implements the business logic for search operations.
type SearchService struct {
	engine engine.SearchEngine
	logger *slog.Logger
}

// NewSearchService creates a new search service.
func NewSearchService(eng engine.SearchEngine, logger *slog.Logger) *SearchService {
	return &SearchService{
		engine: eng,
		logger: logger,
	}
}

// Search executes a search query against the search engine.
func (s *SearchService) Search(ctx context.Context, query *domain.SearchQuery) (*domain.SearchResult, error) {
	if query.Page <= 0 {
		query.Page = 1
	}
	if query.PerPage <= 0 {
		query.PerPage = 20
	}
	if query.PerPage > 100 {
		query.PerPage = 100
	}
	if query.SortBy == "" {
		query.SortBy = domain.SortRelevance
	}

	result, err := s.engine.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	s.logger.DebugContext(ctx, "search executed",
		slog.String("query", query.Query),
		slog.Int("total", result.Total),
		slog.Int64("took_ms", result.TookMs),
	)

	return result, nil
}

// IndexPart rebuilds and upserts the search document for a single part.
func (s *SearchService) IndexPart(ctx context.Context, part *domain.Part, distributorCount int) error {
	if part.ID == "" {
		return fmt.Errorf("index part: id is required")
	}

	doc := domain.BuildSearchDocument(part, distributorCount)
	if err := s.engine.Index(ctx, &doc); err != nil {
		return fmt.Errorf("index part: %w", err)
	}

	s.logger.InfoContext(ctx, "part indexed",
		slog.String("part_id", part.ID),
		slog.String("canonical_mpn", part.CanonicalMPN),
	)
	return nil
}

// DeletePart removes a part document from the search index.
func (s *SearchService) DeletePart(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("delete part: id is required")
	}

	if err := s.engine.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete part: %w", err)
	}

	s.logger.InfoContext(ctx, "part deleted from index",
		slog.String("part_id", id),
	)
	return nil
}
