package memory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetparts/partsearch/internal/domain"
)

func newTestDoc(mpn, brand, title string) domain.SearchDocument {
	p := domain.Part{
		ID:           uuid.New().String(),
		CanonicalMPN: mpn,
		Title:        title,
		Brand:        brand,
		Category:     "filters",
		Synonyms:     []string{},
	}
	return domain.BuildSearchDocument(&p, 0)
}

func TestEngine_SearchByPartNumber_Exact(t *testing.T) {
	ctx := context.Background()
	eng := New()

	d := newTestDoc("1R0750", "CAT", "Fuel Filter")
	require.NoError(t, eng.Index(ctx, &d))

	result, err := eng.Search(ctx, &domain.SearchQuery{
		Query:   "1R0750",
		Page:    1,
		PerPage: 20,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Total)
	assert.Equal(t, d.ID, result.Parts[0].ID)
}

func TestEngine_SearchByPartNumber_PunctuatedForm(t *testing.T) {
	ctx := context.Background()
	eng := New()

	d := newTestDoc("1R0750", "CAT", "Fuel Filter")
	require.NoError(t, eng.Index(ctx, &d))

	// Hyphenated and spaced spellings must reach the same document.
	for _, q := range []string{"1R-0750", "1r 0750", "1r-0750"} {
		result, err := eng.Search(ctx, &domain.SearchQuery{
			Query:   q,
			Page:    1,
			PerPage: 20,
		})
		require.NoError(t, err)
		assert.Equal(t, 1, result.Total, "query %q", q)
	}
}

func TestEngine_SearchByPrefix(t *testing.T) {
	ctx := context.Background()
	eng := New()

	d := newTestDoc("P552100", "DONALDSON", "Lube Filter")
	require.NoError(t, eng.Index(ctx, &d))

	result, err := eng.Search(ctx, &domain.SearchQuery{
		Query:   "P5521",
		Page:    1,
		PerPage: 20,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Total)
}

func TestEngine_SearchByTitle(t *testing.T) {
	ctx := context.Background()
	eng := New()

	d := newTestDoc("1R0750", "CAT", "Advanced High Efficiency Fuel Filter")
	require.NoError(t, eng.Index(ctx, &d))

	result, err := eng.Search(ctx, &domain.SearchQuery{
		Query:   "fuel filter",
		Page:    1,
		PerPage: 20,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Total)
}

func TestEngine_Search_NoMatch(t *testing.T) {
	ctx := context.Background()
	eng := New()

	d := newTestDoc("1R0750", "CAT", "Fuel Filter")
	require.NoError(t, eng.Index(ctx, &d))

	result, err := eng.Search(ctx, &domain.SearchQuery{
		Query:   "hydraulic pump",
		Page:    1,
		PerPage: 20,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Total)
	assert.Empty(t, result.Parts)
}

func TestEngine_FilterByBrand(t *testing.T) {
	ctx := context.Background()
	eng := New()

	d1 := newTestDoc("P552100", "DONALDSON", "Lube Filter")
	d2 := newTestDoc("LF9009", "FLEETGUARD", "Lube Filter")

	require.NoError(t, eng.Index(ctx, &d1))
	require.NoError(t, eng.Index(ctx, &d2))

	brand := "DONALDSON"
	result, err := eng.Search(ctx, &domain.SearchQuery{
		Query:   "lube filter",
		Brand:   &brand,
		Page:    1,
		PerPage: 20,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Total)
	assert.Equal(t, d1.ID, result.Parts[0].ID)
}

func TestEngine_FilterByCategory(t *testing.T) {
	ctx := context.Background()
	eng := New()

	d1 := newTestDoc("1R0750", "CAT", "Fuel Filter")
	d1.Category = "filters"
	d2 := newTestDoc("1R0751", "CAT", "Fuel Line")
	d2.Category = "hoses"

	require.NoError(t, eng.Index(ctx, &d1))
	require.NoError(t, eng.Index(ctx, &d2))

	category := "hoses"
	result, err := eng.Search(ctx, &domain.SearchQuery{
		Query:    "fuel",
		Category: &category,
		Page:     1,
		PerPage:  20,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Total)
	assert.Equal(t, d2.ID, result.Parts[0].ID)
}

func TestEngine_FilterByHasDistributors(t *testing.T) {
	ctx := context.Background()
	eng := New()

	p1 := domain.Part{ID: uuid.New().String(), CanonicalMPN: "1R0750", Brand: "CAT", Title: "Fuel Filter"}
	p2 := domain.Part{ID: uuid.New().String(), CanonicalMPN: "1R0751", Brand: "CAT", Title: "Fuel Filter Kit"}

	d1 := domain.BuildSearchDocument(&p1, 2)
	d2 := domain.BuildSearchDocument(&p2, 0)

	require.NoError(t, eng.Index(ctx, &d1))
	require.NoError(t, eng.Index(ctx, &d2))

	has := true
	result, err := eng.Search(ctx, &domain.SearchQuery{
		Query:           "fuel",
		HasDistributors: &has,
		Page:            1,
		PerPage:         20,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Total)
	assert.Equal(t, d1.ID, result.Parts[0].ID)
}

func TestEngine_SortByPopularity(t *testing.T) {
	ctx := context.Background()
	eng := New()

	d1 := newTestDoc("AAA111", "CAT", "Filter One")
	d1.Popularity = 5
	d2 := newTestDoc("BBB222", "CAT", "Filter Two")
	d2.Popularity = 50
	d3 := newTestDoc("CCC333", "CAT", "Filter Three")
	d3.Popularity = 10

	require.NoError(t, eng.Index(ctx, &d1))
	require.NoError(t, eng.Index(ctx, &d2))
	require.NoError(t, eng.Index(ctx, &d3))

	result, err := eng.Search(ctx, &domain.SearchQuery{
		Query:   "filter",
		SortBy:  domain.SortPopularity,
		Page:    1,
		PerPage: 20,
	})
	require.NoError(t, err)
	require.Equal(t, 3, result.Total)
	assert.Equal(t, d2.ID, result.Parts[0].ID)
	assert.Equal(t, d3.ID, result.Parts[1].ID)
	assert.Equal(t, d1.ID, result.Parts[2].ID)
}

func TestEngine_Pagination(t *testing.T) {
	ctx := context.Background()
	eng := New()

	mpns := []string{"F100", "F200", "F300", "F400", "F500"}
	for _, mpn := range mpns {
		d := newTestDoc(mpn, "BALDWIN", "Spin-on Filter")
		require.NoError(t, eng.Index(ctx, &d))
	}

	// Page 1, 2 per page.
	result, err := eng.Search(ctx, &domain.SearchQuery{
		Query:   "filter",
		Page:    1,
		PerPage: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, 5, result.Total)
	assert.Len(t, result.Parts, 2)
	assert.Equal(t, 1, result.Page)
	assert.Equal(t, 2, result.PerPage)

	// Page 3, 2 per page (only 1 item left).
	result, err = eng.Search(ctx, &domain.SearchQuery{
		Query:   "filter",
		Page:    3,
		PerPage: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, 5, result.Total)
	assert.Len(t, result.Parts, 1)

	// Page beyond results.
	result, err = eng.Search(ctx, &domain.SearchQuery{
		Query:   "filter",
		Page:    10,
		PerPage: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, 5, result.Total)
	assert.Empty(t, result.Parts)
}

func TestEngine_EmptyQuery_ReturnsAll(t *testing.T) {
	ctx := context.Background()
	eng := New()

	d1 := newTestDoc("1R0750", "CAT", "Fuel Filter")
	d2 := newTestDoc("P552100", "DONALDSON", "Lube Filter")
	require.NoError(t, eng.Index(ctx, &d1))
	require.NoError(t, eng.Index(ctx, &d2))

	result, err := eng.Search(ctx, &domain.SearchQuery{
		Query:   "",
		Page:    1,
		PerPage: 20,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Total)
}

func TestEngine_IndexUpdatesExisting(t *testing.T) {
	ctx := context.Background()
	eng := New()

	d := newTestDoc("1R0750", "CAT", "Fuel Filter")
	require.NoError(t, eng.Index(ctx, &d))

	// Re-index the same document ID with a new title.
	d.Title = "Ultra Fuel Filter"
	require.NoError(t, eng.Index(ctx, &d))

	result, err := eng.Search(ctx, &domain.SearchQuery{
		Query:   "1R0750",
		Page:    1,
		PerPage: 20,
	})
	require.NoError(t, err)
	require.Equal(t, 1, result.Total)
	assert.Equal(t, "Ultra Fuel Filter", result.Parts[0].Title)
}

func TestEngine_DeleteAndSearch(t *testing.T) {
	ctx := context.Background()
	eng := New()

	d := newTestDoc("1R0750", "CAT", "Fuel Filter")
	require.NoError(t, eng.Index(ctx, &d))

	result, err := eng.Search(ctx, &domain.SearchQuery{
		Query:   "1R0750",
		Page:    1,
		PerPage: 20,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Total)

	require.NoError(t, eng.Delete(ctx, d.ID))

	result, err = eng.Search(ctx, &domain.SearchQuery{
		Query:   "1R0750",
		Page:    1,
		PerPage: 20,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Total)
	assert.Empty(t, result.Parts)
}

func TestEngine_DeleteNonExistent(t *testing.T) {
	ctx := context.Background()
	eng := New()

	err := eng.Delete(ctx, "non-existent-id")
	assert.NoError(t, err)
}

func TestEngine_BulkIndex(t *testing.T) {
	ctx := context.Background()
	eng := New()

	docs := []domain.SearchDocument{
		newTestDoc("F100", "BALDWIN", "Bulk Filter One"),
		newTestDoc("F200", "BALDWIN", "Bulk Filter Two"),
		newTestDoc("F300", "BALDWIN", "Bulk Filter Three"),
	}

	require.NoError(t, eng.BulkIndex(ctx, docs))

	result, err := eng.Search(ctx, &domain.SearchQuery{
		Query:   "bulk filter",
		Page:    1,
		PerPage: 20,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, result.Total)
}

func TestEngine_SearchReturnsMetadata(t *testing.T) {
	ctx := context.Background()
	eng := New()

	d := newTestDoc("1R0750", "CAT", "Fuel Filter")
	require.NoError(t, eng.Index(ctx, &d))

	result, err := eng.Search(ctx, &domain.SearchQuery{
		Query:   "1R0750",
		Page:    1,
		PerPage: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Page)
	assert.Equal(t, 10, result.PerPage)
	assert.GreaterOrEqual(t, result.TookMs, int64(0))
}
