package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/fleetparts/partsearch/internal/domain"
)

// DBTX is the subset of pgxpool.Pool used by the repositories. It is
// satisfied by *pgxpool.Pool and by pgxmock pools in tests.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PartRepository defines persistence operations for parts and their
// derived identifiers.
type PartRepository interface {
	// Upsert inserts a part or, on canonical MPN conflict, updates the
	// mutable fields in place.
	Upsert(ctx context.Context, part *domain.Part) error

	// GetByID retrieves a part by its unique identifier.
	GetByID(ctx context.Context, id string) (*domain.Part, error)

	// GetByCanonicalMPN retrieves a part by its canonical part number.
	GetByCanonicalMPN(ctx context.Context, mpn string) (*domain.Part, error)

	// ListAll returns every part in the catalog.
	ListAll(ctx context.Context) ([]domain.Part, error)

	// InsertIdentifier records a derived identifier row. Re-inserting the
	// same (part, type, normalized value) triple is a no-op.
	InsertIdentifier(ctx context.Context, ident *domain.PartIdentifier) error
}

// DistributorRepository defines persistence operations for distributors
// and their part listings.
type DistributorRepository interface {
	// GetByName retrieves a distributor by its natural key.
	GetByName(ctx context.Context, name string) (*domain.Distributor, error)

	// Insert creates a new distributor. Existing distributors are never
	// updated through this repository.
	Insert(ctx context.Context, d *domain.Distributor) error

	// InsertListing records that a distributor carries a part. Re-inserting
	// an existing (distributor, part) pair is a no-op.
	InsertListing(ctx context.Context, l *domain.DistributorListing) error

	// CountListingsByPart returns the number of listings per part ID.
	// Parts without listings are absent from the map.
	CountListingsByPart(ctx context.Context) (map[string]int, error)

	// ListByPartID returns the distributors carrying the given part.
	ListByPartID(ctx context.Context, partID string) ([]domain.Distributor, error)
}
