package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetparts/partsearch/internal/domain"
	"github.com/fleetparts/partsearch/internal/engine/memory"
	"github.com/fleetparts/partsearch/internal/service"
	apperrors "github.com/fleetparts/partsearch/pkg/errors"
	"github.com/fleetparts/partsearch/pkg/health"
	"github.com/fleetparts/partsearch/pkg/httputil"
)

// ---------------------------------------------------------------------------
// Fakes
// ---------------------------------------------------------------------------

type fakePartRepo struct {
	parts map[string]*domain.Part
}

func (f *fakePartRepo) Upsert(_ context.Context, p *domain.Part) error {
	f.parts[p.ID] = p
	return nil
}

func (f *fakePartRepo) GetByID(_ context.Context, id string) (*domain.Part, error) {
	p, ok := f.parts[id]
	if !ok {
		return nil, apperrors.NotFound("part", id)
	}
	cp := *p
	return &cp, nil
}

func (f *fakePartRepo) GetByCanonicalMPN(_ context.Context, mpn string) (*domain.Part, error) {
	for _, p := range f.parts {
		if p.CanonicalMPN == mpn {
			cp := *p
			return &cp, nil
		}
	}
	return nil, apperrors.NotFound("part", mpn)
}

func (f *fakePartRepo) ListAll(_ context.Context) ([]domain.Part, error) {
	out := make([]domain.Part, 0, len(f.parts))
	for _, p := range f.parts {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakePartRepo) InsertIdentifier(_ context.Context, _ *domain.PartIdentifier) error {
	return nil
}

type fakeDistributorRepo struct {
	byPart map[string][]domain.Distributor
}

func (f *fakeDistributorRepo) GetByName(_ context.Context, name string) (*domain.Distributor, error) {
	return nil, apperrors.NotFound("distributor", name)
}

func (f *fakeDistributorRepo) Insert(_ context.Context, _ *domain.Distributor) error {
	return nil
}

func (f *fakeDistributorRepo) InsertListing(_ context.Context, _ *domain.DistributorListing) error {
	return nil
}

func (f *fakeDistributorRepo) CountListingsByPart(_ context.Context) (map[string]int, error) {
	counts := make(map[string]int)
	for partID, ds := range f.byPart {
		counts[partID] = len(ds)
	}
	return counts, nil
}

func (f *fakeDistributorRepo) ListByPartID(_ context.Context, partID string) ([]domain.Distributor, error) {
	return f.byPart[partID], nil
}

// ---------------------------------------------------------------------------
// Setup
// ---------------------------------------------------------------------------

func newTestRouter(t *testing.T) (http.Handler, *memory.Engine, *fakePartRepo, *fakeDistributorRepo) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	eng := memory.New()
	parts := &fakePartRepo{parts: make(map[string]*domain.Part)}
	distributors := &fakeDistributorRepo{byPart: make(map[string][]domain.Distributor)}

	searchService := service.NewSearchService(eng, logger)
	partService := service.NewPartService(parts, distributors, nil, logger)
	indexer := service.NewIndexer(parts, distributors, eng, 0, logger)

	router := NewRouter(searchService, partService, indexer, health.NewHandler(), logger)
	return router, eng, parts, distributors
}

func seedDocument(t *testing.T, eng *memory.Engine, id, mpn, title, brand string, distributorCount int) {
	t.Helper()
	doc := domain.BuildSearchDocument(&domain.Part{
		ID:           id,
		CanonicalMPN: mpn,
		Title:        title,
		Brand:        brand,
		Category:     "filters",
		Synonyms:     []string{},
	}, distributorCount)
	require.NoError(t, eng.Index(context.Background(), &doc))
}

func doRequest(t *testing.T, router http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

// ---------------------------------------------------------------------------
// Search endpoint
// ---------------------------------------------------------------------------

func TestSearchEndpoint_PrefixMatch(t *testing.T) {
	router, eng, _, _ := newTestRouter(t)
	seedDocument(t, eng, "part-001", "X12500", "Hydraulic Seal Kit", "ACME", 2)
	seedDocument(t, eng, "part-002", "1R0750", "Fuel Filter", "CAT", 0)

	rec := doRequest(t, router, http.MethodGet, "/api/v1/search?q=X12")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Data domain.SearchResult `json:"data"`
	}
	decodeBody(t, rec, &resp)
	require.Len(t, resp.Data.Parts, 1)
	assert.Equal(t, "X12500", resp.Data.Parts[0].CanonicalMPN)
	assert.True(t, resp.Data.Parts[0].HasDistributors)
}

func TestSearchEndpoint_PunctuatedQuery(t *testing.T) {
	router, eng, _, _ := newTestRouter(t)
	seedDocument(t, eng, "part-002", "1R0750", "Fuel Filter", "CAT", 1)

	rec := doRequest(t, router, http.MethodGet, "/api/v1/search?q=1r-0750")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Data domain.SearchResult `json:"data"`
	}
	decodeBody(t, rec, &resp)
	require.Len(t, resp.Data.Parts, 1)
	assert.Equal(t, "1R0750", resp.Data.Parts[0].CanonicalMPN)
}

func TestSearchEndpoint_Filters(t *testing.T) {
	router, eng, _, _ := newTestRouter(t)
	seedDocument(t, eng, "part-001", "X12500", "Hydraulic Seal Kit", "ACME", 2)
	seedDocument(t, eng, "part-002", "1R0750", "Fuel Filter", "CAT", 0)

	rec := doRequest(t, router, http.MethodGet, "/api/v1/search?brand=CAT")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Data domain.SearchResult `json:"data"`
	}
	decodeBody(t, rec, &resp)
	require.Len(t, resp.Data.Parts, 1)
	assert.Equal(t, "part-002", resp.Data.Parts[0].ID)

	rec = doRequest(t, router, http.MethodGet, "/api/v1/search?in_stock=true")
	require.Equal(t, http.StatusOK, rec.Code)
	decodeBody(t, rec, &resp)
	require.Len(t, resp.Data.Parts, 1)
	assert.Equal(t, "part-001", resp.Data.Parts[0].ID)
}

func TestSearchEndpoint_InvalidSort(t *testing.T) {
	router, _, _, _ := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/api/v1/search?sort=alphabetical")

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp httputil.Response
	decodeBody(t, rec, &resp)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID_PARAMETER", resp.Error.Code)
}

func TestSearchEndpoint_InvalidInStock(t *testing.T) {
	router, _, _, _ := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/api/v1/search?in_stock=maybe")

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp httputil.Response
	decodeBody(t, rec, &resp)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID_PARAMETER", resp.Error.Code)
}

func TestSearchEndpoint_EmptyQueryReturnsAll(t *testing.T) {
	router, eng, _, _ := newTestRouter(t)
	seedDocument(t, eng, "part-001", "X12500", "Hydraulic Seal Kit", "ACME", 2)
	seedDocument(t, eng, "part-002", "1R0750", "Fuel Filter", "CAT", 0)

	rec := doRequest(t, router, http.MethodGet, "/api/v1/search")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Data domain.SearchResult `json:"data"`
	}
	decodeBody(t, rec, &resp)
	assert.Equal(t, 2, resp.Data.Total)
	assert.Equal(t, 1, resp.Data.Page)
	assert.Equal(t, 20, resp.Data.PerPage)
}

// ---------------------------------------------------------------------------
// Part detail endpoint
// ---------------------------------------------------------------------------

func TestPartDetailEndpoint_Success(t *testing.T) {
	router, _, parts, distributors := newTestRouter(t)
	parts.parts["part-001"] = &domain.Part{
		ID:           "part-001",
		CanonicalMPN: "X12500",
		Title:        "Hydraulic Seal Kit",
		Brand:        "ACME",
		Synonyms:     []string{},
	}
	distributors.byPart["part-001"] = []domain.Distributor{
		{ID: "dist-001", Name: "Acme Supply", Regions: []string{"US"}},
	}

	rec := doRequest(t, router, http.MethodGet, "/api/v1/parts/part-001")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Data domain.PartDetail `json:"data"`
	}
	decodeBody(t, rec, &resp)
	assert.Equal(t, "X12500", resp.Data.Part.CanonicalMPN)
	require.Len(t, resp.Data.Distributors, 1)
	assert.Equal(t, "Acme Supply", resp.Data.Distributors[0].Name)
}

func TestPartDetailEndpoint_NotFound(t *testing.T) {
	router, _, _, _ := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/api/v1/parts/no-such-part")

	require.Equal(t, http.StatusNotFound, rec.Code)
	var resp httputil.Response
	decodeBody(t, rec, &resp)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)
}

// ---------------------------------------------------------------------------
// Admin endpoints
// ---------------------------------------------------------------------------

func TestReindexEndpoint_Accepted(t *testing.T) {
	router, _, _, _ := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/admin/reindex")

	require.Equal(t, http.StatusAccepted, rec.Code)
	var resp struct {
		Data map[string]string `json:"data"`
	}
	decodeBody(t, rec, &resp)
	assert.Equal(t, "reindex started", resp.Data["status"])
}

// ---------------------------------------------------------------------------
// Health endpoints
// ---------------------------------------------------------------------------

func TestHealthLive(t *testing.T) {
	router, _, _, _ := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/health/live")

	assert.Equal(t, http.StatusOK, rec.Code)
}
