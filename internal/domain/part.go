package domain

import (
	"time"
)

// Part is the canonical identity record for a distinct part. Parts are
// upserted keyed on CanonicalMPN and are never deleted by the pipeline.
type Part struct {
	ID           string    `json:"id"`
	CanonicalMPN string    `json:"canonical_mpn"`
	Title        string    `json:"title"`
	Brand        string    `json:"brand,omitempty"`
	Category     string    `json:"category,omitempty"`
	Description  string    `json:"description,omitempty"`
	Synonyms     []string  `json:"synonyms"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IdentifierType classifies a part identifier.
type IdentifierType string

const (
	// IdentifierMPN is a manufacturer part number alias.
	IdentifierMPN IdentifierType = "mpn"
	// IdentifierOEMBrand is an OEM brand reference alias.
	IdentifierOEMBrand IdentifierType = "oem_brand"
)

// PartIdentifier is a typed alias of a Part used for matching. NormalizedValue
// is derived and must always equal normalize.PartNumber(RawValue).
type PartIdentifier struct {
	ID              string         `json:"id"`
	PartID          string         `json:"part_id"`
	Type            IdentifierType `json:"id_type"`
	RawValue        string         `json:"raw_value"`
	NormalizedValue string         `json:"normalized_value"`
	CreatedAt       time.Time      `json:"created_at"`
}

// Distributor is a supplier entity, keyed naturally by Name. Existing
// distributors are never updated in place by the seeding pipeline.
type Distributor struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Website   string    `json:"website,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Email     string    `json:"email,omitempty"`
	Regions   []string  `json:"regions"`
	CreatedAt time.Time `json:"created_at"`
}

// DistributorListing records that a distributor carries a part, optionally
// under its own SKU. The indexer only ever reads listings in aggregate.
type DistributorListing struct {
	ID            string    `json:"id"`
	DistributorID string    `json:"distributor_id"`
	PartID        string    `json:"part_id"`
	SKU           string    `json:"sku,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// PartDetail is a Part together with the distributors that carry it,
// as served by the detail endpoint.
type PartDetail struct {
	Part         Part          `json:"part"`
	Distributors []Distributor `json:"distributors"`
}
