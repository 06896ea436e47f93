package catalog

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

func newCatalogRouter(t *testing.T) http.Handler {
	t.Helper()
	svc, err := NewService(ServiceConfig{Store: NewMemoryStore(DefaultProducts()...)})
	require.NoError(t, err)
	h := NewHandler(HandlerConfig{Service: svc})
	r := chi.NewRouter()
	r.Get("/products", h.Products)
	r.Get("/products/{id}", h.ProductDetail)
	return r
}

func TestProductsHandler(t *testing.T) {
	rr := httptest.NewRecorder()
	newCatalogRouter(t).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/products", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "8", rr.Header().Get("X-Total-Count"))
	var body struct {
		Data []Resolved `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Len(t, body.Data, 8)
}

func TestProductDetailHandler(t *testing.T) {
	r := newCatalogRouter(t)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/products/pizza-mini", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	var body struct {
		Data Resolved `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Equal(t, "pizza-mini", body.Data.ID)
	require.EqualValues(t, 7200, body.Data.Cost)
	require.True(t, body.Data.CostFallback)

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/products/kue-lapis", nil))
	require.Equal(t, http.StatusNotFound, rr.Code)
	require.Contains(t, rr.Body.String(), `"code":"PRODUCT_NOT_FOUND"`)
}

func TestHandlerWithoutService(t *testing.T) {
	rr := httptest.NewRecorder()
	NewHandler(HandlerConfig{}).Products(rr, httptest.NewRequest(http.MethodGet, "/products", nil))
	require.Equal(t, http.StatusInternalServerError, rr.Code)
}
