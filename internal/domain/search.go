package domain

import (
	"sort"

	"github.com/fleetparts/partsearch/internal/normalize"
)

// SearchDocument is the denormalized, engine-facing projection of a Part.
// Documents are recomputed and upserted wholesale on every indexing run.
type SearchDocument struct {
	ID                    string   `json:"id"`
	CanonicalMPN          string   `json:"canonical_mpn"`
	Title                 string   `json:"title"`
	Brand                 string   `json:"brand"`
	Category              string   `json:"category"`
	Synonyms              []string `json:"synonyms"`
	NormalizedTokens      []string `json:"normalized_tokens"`
	FitmentEquipmentTypes []string `json:"fitment_equipment_types"`
	FitmentModels         []string `json:"fitment_models"`
	DistributorCount      int      `json:"distributor_count"`
	HasDistributors       bool     `json:"has_distributors"`
	Popularity            int      `json:"popularity"`
}

// BuildSearchDocument projects a Part and its listing count into a
// SearchDocument. The token set is the deduplicated union of the tokenized
// "brand + canonical number" string and the whole normalized number itself,
// so both token-level and whole-string matching are supported. Fitment arrays
// and popularity are reserved fields, emitted empty/zero until an upstream
// signal populates them.
func BuildSearchDocument(p *Part, distributorCount int) SearchDocument {
	seen := make(map[string]struct{})
	tokens := make([]string, 0, 8)

	add := func(tok string) {
		if tok == "" {
			return
		}
		if _, ok := seen[tok]; ok {
			return
		}
		seen[tok] = struct{}{}
		tokens = append(tokens, tok)
	}

	for _, tok := range normalize.Tokens(p.Brand + " " + p.CanonicalMPN) {
		add(tok)
	}
	add(normalize.PartNumber(p.CanonicalMPN))

	sort.Strings(tokens)

	synonyms := p.Synonyms
	if synonyms == nil {
		synonyms = []string{}
	}

	return SearchDocument{
		ID:                    p.ID,
		CanonicalMPN:          p.CanonicalMPN,
		Title:                 p.Title,
		Brand:                 p.Brand,
		Category:              p.Category,
		Synonyms:              synonyms,
		NormalizedTokens:      tokens,
		FitmentEquipmentTypes: []string{},
		FitmentModels:         []string{},
		DistributorCount:      distributorCount,
		HasDistributors:       distributorCount > 0,
		Popularity:            0,
	}
}

// Sort options for search results.
const (
	SortRelevance  = "relevance"
	SortPopularity = "popularity"
)

// ValidSortOptions returns the list of valid sort options.
func ValidSortOptions() []string {
	return []string{SortRelevance, SortPopularity}
}

// IsValidSort checks whether the given sort string is a valid sort option.
func IsValidSort(sortBy string) bool {
	for _, s := range ValidSortOptions() {
		if s == sortBy {
			return true
		}
	}
	return false
}

// SearchQuery holds all parameters for a search request.
type SearchQuery struct {
	Query           string  `json:"query"`
	Brand           *string `json:"brand,omitempty"`
	Category        *string `json:"category,omitempty"`
	HasDistributors *bool   `json:"has_distributors,omitempty"`
	SortBy          string  `json:"sort_by"`
	Page            int     `json:"page"`
	PerPage         int     `json:"per_page"`
}

// SearchResult holds the paginated search response.
type SearchResult struct {
	Parts   []SearchDocument `json:"parts"`
	Total   int              `json:"total"`
	Page    int              `json:"page"`
	PerPage int              `json:"per_page"`
	TookMs  int64            `json:"took_ms"`
}
