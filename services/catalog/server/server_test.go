package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"glowpicked-backend/services/catalog"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T, ds catalog.Dataset, tracked []string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	file := filepath.Join(t.TempDir(), "dataset.json")
	require.NoError(t, catalog.SaveDataset(file, ds))

	h := NewHandler(catalog.NewEnricher(file, "glowpicked-20"), tracked)
	router := gin.New()
	h.RegisterRoutes(router.Group("/api/v1"))
	return router
}

func doGet(t *testing.T, router *gin.Engine, url string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, url, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestGetProduct(t *testing.T) {
	router := newTestRouter(t, catalog.Dataset{
		"B0ABC12345": {Rating: 4.6, Reviews: 142311},
	}, []string{"B0ABC12345"})

	w, body := doGet(t, router, "/api/v1/products/B0ABC12345")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "real", body["data_source"])
	require.Equal(t, true, body["verified"])
	require.InDelta(t, 4.6, body["rating"], 1e-9)
	require.EqualValues(t, 140000, body["review_count"])
	require.Contains(t, body["url"], "tag=glowpicked-20")
}

func TestGetProductUnknown(t *testing.T) {
	router := newTestRouter(t, catalog.Dataset{}, nil)

	w, _ := doGet(t, router, "/api/v1/products/B0MISSING00")
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetProductUnknownWithHint(t *testing.T) {
	router := newTestRouter(t, catalog.Dataset{}, nil)

	w, body := doGet(t, router,
		"/api/v1/products/B0MISSING00?fallback_rating=4.3&fallback_reviews=3210")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "fallback", body["data_source"])
	require.Equal(t, false, body["verified"])
	require.InDelta(t, 4.3, body["rating"], 1e-9)
	require.EqualValues(t, 3000, body["review_count"])
}

func TestListProducts(t *testing.T) {
	router := newTestRouter(t, catalog.Dataset{
		"B0ABC12345": {Rating: 4.6, Reviews: 142311},
	}, []string{"B0ABC12345", "B0XYZ99999"})

	w, body := doGet(t, router, "/api/v1/products")
	require.Equal(t, http.StatusOK, w.Code)
	require.EqualValues(t, 2, body["total"])

	items := body["items"].([]any)
	require.Len(t, items, 2)

	first := items[0].(map[string]any)
	require.Equal(t, "B0ABC12345", first["id"])
	require.Equal(t, "real", first["data_source"])

	// untracked dataset entry is absent; unknown tracked id degrades
	second := items[1].(map[string]any)
	require.Equal(t, "B0XYZ99999", second["id"])
	require.Equal(t, "fallback", second["data_source"])
}

func TestStats(t *testing.T) {
	router := newTestRouter(t, catalog.Dataset{
		"B0ABC12345": {Rating: 4.6, Reviews: 100},
		"B0DEF67890": {Rating: 4.0, Reviews: 50},
		"B0PARTIAL00": {Rating: 0, Reviews: 10},
	}, nil)

	w, body := doGet(t, router, "/api/v1/stats")
	require.Equal(t, http.StatusOK, w.Code)
	require.EqualValues(t, 150, body["total_reviews"])
	require.EqualValues(t, 2, body["total_products"])
	require.InDelta(t, 4.3, body["avg_rating"], 1e-9)
	require.EqualValues(t, 2, body["verified_count"])
}
