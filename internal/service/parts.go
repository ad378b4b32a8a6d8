package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fleetparts/partsearch/internal/domain"
	"github.com/fleetparts/partsearch/internal/repository"
)

// PartDetailCache is the cache-aside store used by the part service.
// Implemented by the Redis part detail cache; nil-safe via NewPartService.
type PartDetailCache interface {
	Get(ctx context.Context, partID string) (*domain.PartDetail, error)
	Set(ctx context.Context, detail *domain.PartDetail) error
	Invalidate(ctx context.Context, partID string) error
}

// PartService serves canonical part lookups with their distributors.
type PartService struct {
	parts        repository.PartRepository
	distributors repository.DistributorRepository
	cache        PartDetailCache
	logger       *slog.Logger
}

// NewPartService creates a new part service. cache may be nil, in which
// case every lookup goes to the primary store.
func NewPartService(parts repository.PartRepository, distributors repository.DistributorRepository, cache PartDetailCache, logger *slog.Logger) *PartService {
	return &PartService{
		parts:        parts,
		distributors: distributors,
		cache:        cache,
		logger:       logger,
	}
}

// GetDetail returns a part and the distributors carrying it. The cache is
// consulted first; cache errors degrade to a primary-store read.
func (s *PartService) GetDetail(ctx context.Context, id string) (*domain.PartDetail, error) {
	if s.cache != nil {
		detail, err := s.cache.Get(ctx, id)
		if err == nil {
			return detail, nil
		}
	}

	part, err := s.parts.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get part detail: %w", err)
	}

	distributors, err := s.distributors.ListByPartID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get part detail: list distributors: %w", err)
	}
	if distributors == nil {
		distributors = []domain.Distributor{}
	}

	detail := &domain.PartDetail{
		Part:         *part,
		Distributors: distributors,
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, detail); err != nil {
			s.logger.WarnContext(ctx, "part detail cache write failed",
				slog.String("part_id", id),
				slog.String("error", err.Error()),
			)
		}
	}

	return detail, nil
}

// InvalidateDetail drops the cached detail for a part, if caching is enabled.
func (s *PartService) InvalidateDetail(ctx context.Context, id string) error {
	if s.cache == nil {
		return nil
	}
	if err := s.cache.Invalidate(ctx, id); err != nil {
		return fmt.Errorf("invalidate part detail: %w", err)
	}
	return nil
}
