package engine

import (
	"context"

	"github.com/fleetparts/partsearch/internal/domain"
)

// SearchEngine defines the interface for indexing and searching part documents.
// Implementations may use Elasticsearch, in-memory storage, or other backends.
type SearchEngine interface {
	// Index adds or updates a single part document in the search index.
	Index(ctx context.Context, doc *domain.SearchDocument) error

	// Delete removes a part document from the search index by its ID.
	Delete(ctx context.Context, id string) error

	// Search executes a search query and returns matching part documents.
	Search(ctx context.Context, query *domain.SearchQuery) (*domain.SearchResult, error)

	// BulkIndex adds or updates multiple part documents in the search index.
	BulkIndex(ctx context.Context, docs []domain.SearchDocument) error
}
