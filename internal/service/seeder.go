package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/fleetparts/partsearch/internal/catalog"
	"github.com/fleetparts/partsearch/internal/domain"
	"github.com/fleetparts/partsearch/internal/normalize"
	"github.com/fleetparts/partsearch/internal/repository"
	apperrors "github.com/fleetparts/partsearch/pkg/errors"
)

// Seeder populates the primary store from catalog files. Phases run in
// order: parts are upserted keyed on canonical MPN, distributors are
// inserted if missing, listings connect the two, and identifier rows are
// derived last. Any error aborts the invocation; there is no partial-success
// mode across phases.
type Seeder struct {
	parts        repository.PartRepository
	distributors repository.DistributorRepository
	logger       *slog.Logger
}

// NewSeeder creates a new catalog seeder.
func NewSeeder(parts repository.PartRepository, distributors repository.DistributorRepository, logger *slog.Logger) *Seeder {
	return &Seeder{
		parts:        parts,
		distributors: distributors,
		logger:       logger,
	}
}

// SeedInput holds the parsed catalog rows for one seeding run.
type SeedInput struct {
	Parts        []catalog.PartRow
	Distributors []catalog.DistributorRow
	Listings     []catalog.ListingRow
}

// Run executes the full seeding pipeline.
func (s *Seeder) Run(ctx context.Context, input *SeedInput) error {
	if err := s.seedParts(ctx, input.Parts); err != nil {
		return err
	}
	if err := s.seedDistributors(ctx, input.Distributors); err != nil {
		return err
	}
	if err := s.seedListings(ctx, input.Listings); err != nil {
		return err
	}
	if err := s.deriveIdentifiers(ctx); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "seeding completed",
		slog.Int("parts", len(input.Parts)),
		slog.Int("distributors", len(input.Distributors)),
		slog.Int("listings", len(input.Listings)),
	)
	return nil
}

// seedParts upserts every catalog part keyed on its canonical MPN. The part
// ID survives re-seeds because the conflict path never touches it.
func (s *Seeder) seedParts(ctx context.Context, rows []catalog.PartRow) error {
	now := time.Now().UTC()

	for _, row := range rows {
		canonical := normalize.PartNumber(row.MPN)
		if canonical == "" {
			return apperrors.InvalidInput(fmt.Sprintf("part %q normalizes to an empty canonical number", row.MPN))
		}

		part := &domain.Part{
			ID:           uuid.New().String(),
			CanonicalMPN: canonical,
			Title:        row.Title,
			Brand:        normalize.Brand(row.Brand),
			Category:     row.Category,
			Description:  row.Description,
			Synonyms:     row.Synonyms,
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		if err := s.parts.Upsert(ctx, part); err != nil {
			return fmt.Errorf("seed part %q: %w", canonical, err)
		}
	}

	s.logger.InfoContext(ctx, "parts seeded", slog.Int("count", len(rows)))
	return nil
}

// seedDistributors inserts distributors that do not yet exist. Existing
// rows are left untouched so manually curated metadata survives re-seeds.
func (s *Seeder) seedDistributors(ctx context.Context, rows []catalog.DistributorRow) error {
	now := time.Now().UTC()
	inserted := 0

	for _, row := range rows {
		_, err := s.distributors.GetByName(ctx, row.Name)
		if err == nil {
			continue
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("seed distributor %q: %w", row.Name, err)
		}

		d := &domain.Distributor{
			ID:        uuid.New().String(),
			Name:      row.Name,
			Website:   row.Website,
			Phone:     row.Phone,
			Email:     row.Email,
			Regions:   row.Regions,
			CreatedAt: now,
		}
		if err := s.distributors.Insert(ctx, d); err != nil {
			return fmt.Errorf("seed distributor %q: %w", row.Name, err)
		}
		inserted++
	}

	s.logger.InfoContext(ctx, "distributors seeded",
		slog.Int("count", len(rows)),
		slog.Int("inserted", inserted),
	)
	return nil
}

// seedListings resolves each listing's part and distributor and inserts the
// association. A reference to a part or distributor that does not exist
// aborts the run.
func (s *Seeder) seedListings(ctx context.Context, rows []catalog.ListingRow) error {
	now := time.Now().UTC()

	for _, row := range rows {
		part, err := s.parts.GetByCanonicalMPN(ctx, normalize.PartNumber(row.MPN))
		if err != nil {
			return fmt.Errorf("seed listing: resolve part %q: %w", row.MPN, err)
		}
		dist, err := s.distributors.GetByName(ctx, row.DistributorName)
		if err != nil {
			return fmt.Errorf("seed listing: resolve distributor %q: %w", row.DistributorName, err)
		}

		l := &domain.DistributorListing{
			ID:            uuid.New().String(),
			DistributorID: dist.ID,
			PartID:        part.ID,
			SKU:           row.SKU,
			CreatedAt:     now,
		}
		if err := s.distributors.InsertListing(ctx, l); err != nil {
			return fmt.Errorf("seed listing %q/%q: %w", row.DistributorName, row.MPN, err)
		}
	}

	s.logger.InfoContext(ctx, "listings seeded", slog.Int("count", len(rows)))
	return nil
}

// deriveIdentifiers records one MPN identifier per part from its canonical
// number and, when a brand is present, an OEM-brand identifier as well.
// The unique constraint on (part, type, normalized value) makes re-seeding
// a no-op for rows already derived.
func (s *Seeder) deriveIdentifiers(ctx context.Context) error {
	parts, err := s.parts.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("derive identifiers: %w", err)
	}

	now := time.Now().UTC()
	derived := 0

	for i := range parts {
		p := &parts[i]

		idents := []domain.PartIdentifier{
			{
				ID:              uuid.New().String(),
				PartID:          p.ID,
				Type:            domain.IdentifierMPN,
				RawValue:        p.CanonicalMPN,
				NormalizedValue: normalize.PartNumber(p.CanonicalMPN),
				CreatedAt:       now,
			},
		}
		if p.Brand != "" {
			idents = append(idents, domain.PartIdentifier{
				ID:              uuid.New().String(),
				PartID:          p.ID,
				Type:            domain.IdentifierOEMBrand,
				RawValue:        p.Brand,
				NormalizedValue: normalize.PartNumber(p.Brand),
				CreatedAt:       now,
			})
		}

		for j := range idents {
			if err := s.parts.InsertIdentifier(ctx, &idents[j]); err != nil {
				return fmt.Errorf("derive identifier for %q: %w", p.CanonicalMPN, err)
			}
			derived++
		}
	}

	s.logger.InfoContext(ctx, "identifiers derived",
		slog.Int("parts", len(parts)),
		slog.Int("identifiers", derived),
	)
	return nil
}
