package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammi749/gamekeys/internal/api"
	"github.com/ammi749/gamekeys/internal/domain"
)

type anonCreds struct{}

func (anonCreds) TokenPair() (domain.TokenPair, bool) { return domain.TokenPair{}, false }
func (anonCreds) ReplaceAccess(string)                {}
func (anonCreds) Invalidate()                         {}

func newCatalogTest(t *testing.T, router chi.Router) *Client {
	t.Helper()
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return NewClient(api.NewClient(server.URL, anonCreds{}))
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func TestProducts_EncodesQueryParams(t *testing.T) {
	router := chi.NewRouter()
	router.Get("/products/", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "souls", q.Get("search"))
		assert.Equal(t, "rpg", q.Get("category"))
		assert.Equal(t, "steam", q.Get("platform"))
		assert.Equal(t, "2", q.Get("page"))
		respondJSON(w, http.StatusOK, map[string]any{
			"count": 1,
			"results": []map[string]any{
				{"id": 1, "name": "Dark Souls", "slug": "dark-souls", "price": "39.99", "in_stock": true},
			},
		})
	})
	sut := newCatalogTest(t, router)

	page, err := sut.Products(context.Background(), ListParams{
		Search: "souls", Category: "rpg", Platform: "steam", Page: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Count)
	require.Len(t, page.Results, 1)
	assert.True(t, page.Results[0].Price.Equal(decimal.RequireFromString("39.99")))
}

func TestProductBySlug(t *testing.T) {
	router := chi.NewRouter()
	router.Get("/products/{slug}/", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "hades-ii", chi.URLParam(r, "slug"))
		respondJSON(w, http.StatusOK, map[string]any{
			"id": 2, "name": "Hades II", "slug": "hades-ii",
			"price": "29.99", "sale_price": "24.99", "on_sale": true,
		})
	})
	sut := newCatalogTest(t, router)

	product, err := sut.ProductBySlug(context.Background(), "hades-ii")
	require.NoError(t, err)
	require.NotNil(t, product.SalePrice)
	assert.True(t, product.CurrentPrice().Equal(decimal.RequireFromString("24.99")))
}

func TestFeatured(t *testing.T) {
	router := chi.NewRouter()
	router.Get("/products/featured/", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, []map[string]any{
			{"id": 1, "name": "A", "slug": "a", "price": "10.00"},
			{"id": 2, "name": "B", "slug": "b", "price": "20.00"},
		})
	})
	sut := newCatalogTest(t, router)

	list, err := sut.Featured(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestCategoriesAndPlatforms(t *testing.T) {
	router := chi.NewRouter()
	router.Get("/categories/", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, []map[string]any{{"id": 1, "name": "RPG", "slug": "rpg"}})
	})
	router.Get("/platforms/", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, []map[string]any{{"id": 1, "name": "Steam", "slug": "steam"}})
	})
	sut := newCatalogTest(t, router)

	categories, err := sut.Categories(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, "rpg", categories[0].Slug)

	platforms, err := sut.Platforms(context.Background())
	require.NoError(t, err)
	require.Len(t, platforms, 1)
	assert.Equal(t, "Steam", platforms[0].Name)
}
