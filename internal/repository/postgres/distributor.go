package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/fleetparts/partsearch/internal/domain"
	"github.com/fleetparts/partsearch/internal/repository"
	apperrors "github.com/fleetparts/partsearch/pkg/errors"
)

// DistributorRepository implements repository.DistributorRepository using PostgreSQL.
type DistributorRepository struct {
	db repository.DBTX
}

// NewDistributorRepository creates a new PostgreSQL-backed distributor repository.
func NewDistributorRepository(db repository.DBTX) *DistributorRepository {
	return &DistributorRepository{db: db}
}

// GetByName retrieves a distributor by its natural key.
func (r *DistributorRepository) GetByName(ctx context.Context, name string) (*domain.Distributor, error) {
	query := `
		SELECT id, name, website, phone, email, regions, created_at
		FROM distributors
		WHERE name = $1`

	row := r.db.QueryRow(ctx, query, name)

	d, err := scanDistributorFrom(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("distributor", name)
		}
		return nil, fmt.Errorf("get distributor: %w", err)
	}
	return d, nil
}

// Insert creates a new distributor row. A name conflict is reported as an
// already-exists error; existing distributors are never overwritten.
func (r *DistributorRepository) Insert(ctx context.Context, d *domain.Distributor) error {
	regionsJSON, err := json.Marshal(d.Regions)
	if err != nil {
		return fmt.Errorf("marshal regions: %w", err)
	}

	query := `
		INSERT INTO distributors (id, name, website, phone, email, regions, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err = r.db.Exec(ctx, query,
		d.ID,
		d.Name,
		d.Website,
		d.Phone,
		d.Email,
		regionsJSON,
		d.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("distributor", "name", d.Name)
		}
		return fmt.Errorf("insert distributor: %w", err)
	}

	return nil
}

// InsertListing records a distributor-carries-part association. Re-inserting
// an existing (distributor, part) pair is a no-op.
func (r *DistributorRepository) InsertListing(ctx context.Context, l *domain.DistributorListing) error {
	query := `
		INSERT INTO distributor_listings (id, distributor_id, part_id, sku, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (distributor_id, part_id) DO NOTHING`

	_, err := r.db.Exec(ctx, query,
		l.ID,
		l.DistributorID,
		l.PartID,
		l.SKU,
		l.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert distributor listing: %w", err)
	}

	return nil
}

// CountListingsByPart aggregates listing counts keyed by part ID.
func (r *DistributorRepository) CountListingsByPart(ctx context.Context) (map[string]int, error) {
	query := `
		SELECT part_id, count(*)
		FROM distributor_listings
		GROUP BY part_id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("count listings: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			partID string
			count  int
		)
		if err := rows.Scan(&partID, &count); err != nil {
			return nil, fmt.Errorf("scan listing count: %w", err)
		}
		counts[partID] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate listing counts: %w", err)
	}

	return counts, nil
}

// ListByPartID returns the distributors carrying the given part, ordered by name.
func (r *DistributorRepository) ListByPartID(ctx context.Context, partID string) ([]domain.Distributor, error) {
	query := `
		SELECT d.id, d.name, d.website, d.phone, d.email, d.regions, d.created_at
		FROM distributors d
		JOIN distributor_listings l ON l.distributor_id = d.id
		WHERE l.part_id = $1
		ORDER BY d.name`

	rows, err := r.db.Query(ctx, query, partID)
	if err != nil {
		return nil, fmt.Errorf("list distributors for part: %w", err)
	}
	defer rows.Close()

	var distributors []domain.Distributor
	for rows.Next() {
		d, err := scanDistributorFrom(rows)
		if err != nil {
			return nil, fmt.Errorf("scan distributor: %w", err)
		}
		distributors = append(distributors, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate distributors: %w", err)
	}

	return distributors, nil
}

// isUniqueViolation checks if the error is a PostgreSQL unique constraint violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "23505")
}

func scanDistributorFrom(row rowScanner) (*domain.Distributor, error) {
	var (
		d           domain.Distributor
		regionsJSON []byte
	)

	err := row.Scan(
		&d.ID,
		&d.Name,
		&d.Website,
		&d.Phone,
		&d.Email,
		&regionsJSON,
		&d.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(regionsJSON) > 0 {
		if err := json.Unmarshal(regionsJSON, &d.Regions); err != nil {
			return nil, fmt.Errorf("unmarshal regions: %w", err)
		}
	}
	if d.Regions == nil {
		d.Regions = []string{}
	}

	return &d, nil
}
