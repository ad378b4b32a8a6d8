package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/fleetparts/partsearch/internal/domain"
	"github.com/fleetparts/partsearch/internal/repository"
	apperrors "github.com/fleetparts/partsearch/pkg/errors"
)

// PartRepository implements repository.PartRepository using PostgreSQL.
type PartRepository struct {
	db repository.DBTX
}

// NewPartRepository creates a new PostgreSQL-backed part repository.
func NewPartRepository(db repository.DBTX) *PartRepository {
	return &PartRepository{db: db}
}

// Upsert inserts a part keyed on its canonical MPN, updating the mutable
// fields in place on conflict. The part ID is preserved across re-seeds.
func (r *PartRepository) Upsert(ctx context.Context, p *domain.Part) error {
	synonymsJSON, err := json.Marshal(p.Synonyms)
	if err != nil {
		return fmt.Errorf("marshal synonyms: %w", err)
	}

	query := `
		INSERT INTO parts (id, canonical_mpn, title, brand, category, description, synonyms, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (canonical_mpn) DO UPDATE SET
			title       = EXCLUDED.title,
			brand       = EXCLUDED.brand,
			category    = EXCLUDED.category,
			description = EXCLUDED.description,
			synonyms    = EXCLUDED.synonyms,
			updated_at  = EXCLUDED.updated_at`

	_, err = r.db.Exec(ctx, query,
		p.ID,
		p.CanonicalMPN,
		p.Title,
		p.Brand,
		p.Category,
		p.Description,
		synonymsJSON,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert part: %w", err)
	}

	return nil
}

// GetByID retrieves a part by its ID.
func (r *PartRepository) GetByID(ctx context.Context, id string) (*domain.Part, error) {
	query := `
		SELECT id, canonical_mpn, title, brand, category, description, synonyms, created_at, updated_at
		FROM parts
		WHERE id = $1`

	return r.scanPart(ctx, query, id)
}

// GetByCanonicalMPN retrieves a part by its canonical part number.
func (r *PartRepository) GetByCanonicalMPN(ctx context.Context, mpn string) (*domain.Part, error) {
	query := `
		SELECT id, canonical_mpn, title, brand, category, description, synonyms, created_at, updated_at
		FROM parts
		WHERE canonical_mpn = $1`

	return r.scanPart(ctx, query, mpn)
}

// ListAll returns every part in the catalog ordered by canonical MPN.
func (r *PartRepository) ListAll(ctx context.Context) ([]domain.Part, error) {
	query := `
		SELECT id, canonical_mpn, title, brand, category, description, synonyms, created_at, updated_at
		FROM parts
		ORDER BY canonical_mpn`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list parts: %w", err)
	}
	defer rows.Close()

	var parts []domain.Part
	for rows.Next() {
		p, err := scanPartRow(rows)
		if err != nil {
			return nil, err
		}
		parts = append(parts, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate parts: %w", err)
	}

	return parts, nil
}

// InsertIdentifier records a derived identifier. The unique constraint on
// (part_id, id_type, normalized_value) makes re-derivation a no-op.
func (r *PartRepository) InsertIdentifier(ctx context.Context, ident *domain.PartIdentifier) error {
	query := `
		INSERT INTO part_identifiers (id, part_id, id_type, raw_value, normalized_value, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (part_id, id_type, normalized_value) DO NOTHING`

	_, err := r.db.Exec(ctx, query,
		ident.ID,
		ident.PartID,
		ident.Type,
		ident.RawValue,
		ident.NormalizedValue,
		ident.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert part identifier: %w", err)
	}

	return nil
}

func (r *PartRepository) scanPart(ctx context.Context, query string, arg any) (*domain.Part, error) {
	row := r.db.QueryRow(ctx, query, arg)

	p, err := scanPartFrom(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("part", fmt.Sprintf("%v", arg))
		}
		return nil, fmt.Errorf("get part: %w", err)
	}
	return p, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPartFrom(row rowScanner) (*domain.Part, error) {
	var (
		p            domain.Part
		synonymsJSON []byte
	)

	err := row.Scan(
		&p.ID,
		&p.CanonicalMPN,
		&p.Title,
		&p.Brand,
		&p.Category,
		&p.Description,
		&synonymsJSON,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(synonymsJSON) > 0 {
		if err := json.Unmarshal(synonymsJSON, &p.Synonyms); err != nil {
			return nil, fmt.Errorf("unmarshal synonyms: %w", err)
		}
	}
	if p.Synonyms == nil {
		p.Synonyms = []string{}
	}

	return &p, nil
}

func scanPartRow(rows pgx.Rows) (*domain.Part, error) {
	p, err := scanPartFrom(rows)
	if err != nil {
		return nil, fmt.Errorf("scan part: %w", err)
	}
	return p, nil
}
