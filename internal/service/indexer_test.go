package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetparts/partsearch/internal/domain"
)

// countingEngine records every bulk call it receives.
type countingEngine struct {
	batches   [][]domain.SearchDocument
	failAfter int // fail on the nth BulkIndex call (1-based); 0 disables
}

func (c *countingEngine) Index(_ context.Context, _ *domain.SearchDocument) error { return nil }
func (c *countingEngine) Delete(_ context.Context, _ string) error                { return nil }
func (c *countingEngine) Search(_ context.Context, _ *domain.SearchQuery) (*domain.SearchResult, error) {
	return &domain.SearchResult{}, nil
}

func (c *countingEngine) BulkIndex(_ context.Context, docs []domain.SearchDocument) error {
	if c.failAfter > 0 && len(c.batches)+1 == c.failAfter {
		return errors.New("bulk import failed")
	}
	batch := make([]domain.SearchDocument, len(docs))
	copy(batch, docs)
	c.batches = append(c.batches, batch)
	return nil
}

func seedParts(t *testing.T, repo *fakePartRepo, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		require.NoError(t, repo.Upsert(context.Background(), &domain.Part{
			ID:           uuid.New().String(),
			CanonicalMPN: fmt.Sprintf("MPN%05d", i),
			Title:        fmt.Sprintf("Part %d", i),
			Brand:        "CAT",
		}))
	}
}

func TestIndexer_Run_BatchBoundary(t *testing.T) {
	ctx := context.Background()
	parts := newFakePartRepo()
	dists := newFakeDistributorRepo()
	eng := &countingEngine{}

	seedParts(t, parts, 501)

	ix := NewIndexer(parts, dists, eng, 500, newTestLogger())
	require.NoError(t, ix.Run(ctx))

	// Exactly two bulk calls: 500 documents then 1.
	require.Len(t, eng.batches, 2)
	assert.Len(t, eng.batches[0], 500)
	assert.Len(t, eng.batches[1], 1)
}

func TestIndexer_Run_SingleBatch(t *testing.T) {
	ctx := context.Background()
	parts := newFakePartRepo()
	dists := newFakeDistributorRepo()
	eng := &countingEngine{}

	seedParts(t, parts, 3)

	ix := NewIndexer(parts, dists, eng, 500, newTestLogger())
	require.NoError(t, ix.Run(ctx))

	require.Len(t, eng.batches, 1)
	assert.Len(t, eng.batches[0], 3)
}

func TestIndexer_Run_EmptyCatalog(t *testing.T) {
	ctx := context.Background()
	parts := newFakePartRepo()
	dists := newFakeDistributorRepo()
	eng := &countingEngine{}

	ix := NewIndexer(parts, dists, eng, 500, newTestLogger())
	require.NoError(t, ix.Run(ctx))

	assert.Empty(t, eng.batches)
}

func TestIndexer_Run_DistributorCounts(t *testing.T) {
	ctx := context.Background()
	parts := newFakePartRepo()
	dists := newFakeDistributorRepo()
	eng := &countingEngine{}

	p := domain.Part{ID: uuid.New().String(), CanonicalMPN: "X12500", Title: "Widget", Brand: "Acme Corp"}
	require.NoError(t, parts.Upsert(ctx, &p))
	q := domain.Part{ID: uuid.New().String(), CanonicalMPN: "Y99000", Title: "Orphan", Brand: "Acme Corp"}
	require.NoError(t, parts.Upsert(ctx, &q))

	require.NoError(t, dists.InsertListing(ctx, &domain.DistributorListing{
		ID: uuid.New().String(), DistributorID: "dist-1", PartID: p.ID,
	}))

	ix := NewIndexer(parts, dists, eng, 500, newTestLogger())
	require.NoError(t, ix.Run(ctx))

	require.Len(t, eng.batches, 1)
	byID := make(map[string]domain.SearchDocument)
	for _, d := range eng.batches[0] {
		byID[d.ID] = d
	}

	withListing := byID[p.ID]
	assert.Equal(t, 1, withListing.DistributorCount)
	assert.True(t, withListing.HasDistributors)

	orphan := byID[q.ID]
	assert.Equal(t, 0, orphan.DistributorCount)
	assert.False(t, orphan.HasDistributors)
}

func TestIndexer_Run_TokensFromBrandAndNumber(t *testing.T) {
	ctx := context.Background()
	parts := newFakePartRepo()
	dists := newFakeDistributorRepo()
	eng := &countingEngine{}

	p := domain.Part{ID: uuid.New().String(), CanonicalMPN: "ABC123", Title: "Widget", Brand: "Acme"}
	require.NoError(t, parts.Upsert(ctx, &p))

	ix := NewIndexer(parts, dists, eng, 500, newTestLogger())
	require.NoError(t, ix.Run(ctx))

	require.Len(t, eng.batches, 1)
	require.Len(t, eng.batches[0], 1)
	tokens := eng.batches[0][0].NormalizedTokens
	assert.Contains(t, tokens, "ABC123")
	assert.Contains(t, tokens, "ACME")
}

func TestIndexer_Run_BatchFailureAborts(t *testing.T) {
	ctx := context.Background()
	parts := newFakePartRepo()
	dists := newFakeDistributorRepo()
	eng := &countingEngine{failAfter: 2}

	seedParts(t, parts, 501)

	ix := NewIndexer(parts, dists, eng, 500, newTestLogger())
	err := ix.Run(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "publish batch at offset 500")

	// Only the first batch went through.
	assert.Len(t, eng.batches, 1)
}

func TestIndexer_DefaultBatchSize(t *testing.T) {
	ix := NewIndexer(newFakePartRepo(), newFakeDistributorRepo(), &countingEngine{}, 0, newTestLogger())
	assert.Equal(t, DefaultBatchSize, ix.batchSize)
}
