package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fleetparts/partsearch/internal/domain"
	"github.com/fleetparts/partsearch/internal/normalize"
)

// Engine is an in-memory implementation of the SearchEngine interface.
// Queries match on the normalized token set with prefix semantics, plus
// substring matching on title and synonyms. Thread-safe via sync.RWMutex.
type Engine struct {
	mu   sync.RWMutex
	docs map[string]domain.SearchDocument
}

// New creates a new in-memory search engine.
func New() *Engine {
	return &Engine{
		docs: make(map[string]domain.SearchDocument),
	}
}

// Index adds or updates a single part document in the in-memory index.
func (e *Engine) Index(_ context.Context, doc *domain.SearchDocument) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.docs[doc.ID] = *doc
	return nil
}

// Delete removes a part document from the in-memory index by its ID.
func (e *Engine) Delete(_ context.Context, id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	delete(e.docs, id)
	return nil
}

// Search executes a search query against the in-memory index.
func (e *Engine) Search(_ context.Context, query *domain.SearchQuery) (*domain.SearchResult, error) {
	start := time.Now()

	e.mu.RLock()
	defer e.mu.RUnlock()

	matched := make([]domain.SearchDocument, 0)

	queryTokens := normalize.Tokens(query.Query)
	queryNorm := normalize.PartNumber(query.Query)
	queryLower := strings.ToLower(query.Query)

	for _, d := range e.docs {
		if !e.matches(d, query, queryTokens, queryNorm, queryLower) {
			continue
		}
		matched = append(matched, d)
	}

	// Deterministic base order before the requested sort is applied.
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CanonicalMPN < matched[j].CanonicalMPN
	})
	e.sortDocs(matched, query.SortBy)

	total := len(matched)

	// Apply pagination.
	page := query.Page
	if page < 1 {
		page = 1
	}
	perPage := query.PerPage
	if perPage < 1 {
		perPage = 20
	}
	if perPage > 100 {
		perPage = 100
	}

	offset := (page - 1) * perPage
	if offset > total {
		offset = total
	}
	end := offset + perPage
	if end > total {
		end = total
	}

	tookMs := time.Since(start).Milliseconds()

	return &domain.SearchResult{
		Parts:   matched[offset:end],
		Total:   total,
		Page:    page,
		PerPage: perPage,
		TookMs:  tookMs,
	}, nil
}

// BulkIndex adds or updates multiple part documents in the in-memory index.
func (e *Engine) BulkIndex(_ context.Context, docs []domain.SearchDocument) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range docs {
		e.docs[docs[i].ID] = docs[i]
	}
	return nil
}

// matches checks whether a document matches the given search query and filters.
func (e *Engine) matches(d domain.SearchDocument, query *domain.SearchQuery, queryTokens []string, queryNorm, queryLower string) bool {
	if len(queryTokens) > 0 && !e.matchesText(d, queryTokens, queryNorm, queryLower) {
		return false
	}

	// Brand filter.
	if query.Brand != nil && *query.Brand != "" {
		if d.Brand != *query.Brand {
			return false
		}
	}

	// Category filter.
	if query.Category != nil && *query.Category != "" {
		if d.Category != *query.Category {
			return false
		}
	}

	// Distributor availability filter.
	if query.HasDistributors != nil {
		if d.HasDistributors != *query.HasDistributors {
			return false
		}
	}

	return true
}

// matchesText reports whether the query matches the document. The whole
// normalized query is tried first against the token set so that punctuated
// forms like "1R-0750" still reach 1R0750; then every query token must
// prefix-match a document token; failing that, the raw query may appear in
// the title, brand or a synonym.
func (e *Engine) matchesText(d domain.SearchDocument, queryTokens []string, queryNorm, queryLower string) bool {
	if queryNorm != "" {
		for _, dt := range d.NormalizedTokens {
			if strings.HasPrefix(dt, queryNorm) {
				return true
			}
		}
	}

	allTokensMatch := true
	for _, qt := range queryTokens {
		found := false
		for _, dt := range d.NormalizedTokens {
			if strings.HasPrefix(dt, qt) {
				found = true
				break
			}
		}
		if !found {
			allTokensMatch = false
			break
		}
	}
	if allTokensMatch {
		return true
	}

	if strings.Contains(strings.ToLower(d.Title), queryLower) {
		return true
	}
	if strings.Contains(strings.ToLower(d.Brand), queryLower) {
		return true
	}
	for _, syn := range d.Synonyms {
		if strings.Contains(strings.ToLower(syn), queryLower) {
			return true
		}
	}
	return false
}

// sortDocs sorts the matched documents based on the sort option.
func (e *Engine) sortDocs(docs []domain.SearchDocument, sortBy string) {
	switch sortBy {
	case domain.SortPopularity:
		sort.SliceStable(docs, func(i, j int) bool {
			return docs[i].Popularity > docs[j].Popularity
		})
	default:
		// SortRelevance or unknown: keep the canonical MPN order.
	}
}
