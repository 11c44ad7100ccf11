package catalog

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestEnricher(t *testing.T, ds Dataset) *Enricher {
	t.Helper()
	file := filepath.Join(t.TempDir(), "dataset.json")
	require.NoError(t, SaveDataset(file, ds))
	return NewEnricher(file, "glowpicked0c-20")
}

func TestEnrichVerifiedProduct(t *testing.T) {
	e := newTestEnricher(t, Dataset{
		"X1": {Rating: 4.6, Reviews: 142311},
	})

	got := e.Enrich("X1", nil)
	require.True(t, got.Verified)
	require.Equal(t, "real", got.DataSource)
	require.Equal(t, 4.6, got.Rating)
	require.Equal(t, 140000, got.ReviewCount, "displayed count is transformed")
	require.Contains(t, got.URL, "X1")
}

func TestEnrichUnknownProductDegradesToFallback(t *testing.T) {
	e := newTestEnricher(t, Dataset{})

	got := e.Enrich("MISSING", &FallbackHint{Rating: 4.4, Reviews: 3210})
	require.False(t, got.Verified)
	require.Equal(t, "fallback", got.DataSource)
	require.Equal(t, 4.4, got.Rating)
	require.Equal(t, 3000, got.ReviewCount, "hint is transformed too")

	// no hint: conservative defaults, the product still renders
	got = e.Enrich("MISSING", nil)
	require.Equal(t, 4.0, got.Rating)
	require.Equal(t, 1000, got.ReviewCount)
	require.False(t, got.Verified)
}

func TestEnrichPartialRecord(t *testing.T) {
	e := newTestEnricher(t, Dataset{
		"HALF": {Rating: 4.8, Reviews: 0},
	})

	got := e.Enrich("HALF", nil)
	require.False(t, got.Verified)
	require.Equal(t, "partial", got.DataSource)
	require.Equal(t, 4.8, got.Rating)
	require.Equal(t, 1000, got.ReviewCount)
}

func TestEnrichCachesVerifiedResults(t *testing.T) {
	file := filepath.Join(t.TempDir(), "dataset.json")
	require.NoError(t, SaveDataset(file, Dataset{"X1": {Rating: 4.6, Reviews: 2000}}))
	e := NewEnricher(file, "tag")

	first := e.Enrich("X1", nil)

	// dataset changes on disk, but the cached enrichment is still served
	require.NoError(t, SaveDataset(file, Dataset{"X1": {Rating: 1.0, Reviews: 100}}))
	second := e.Enrich("X1", nil)
	require.Equal(t, first, second)
}

func TestStats(t *testing.T) {
	e := newTestEnricher(t, Dataset{
		"A": {Rating: 4.0, Reviews: 1000},
		"B": {Rating: 5.0, Reviews: 3000},
		"C": {Rating: 4.8, Reviews: 0}, // incomplete, excluded
	})

	s := e.Stats()
	require.Equal(t, 4000, s.TotalReviews)
	require.Equal(t, 2, s.TotalProducts)
	require.Equal(t, 2, s.VerifiedCount)
	require.InDelta(t, 4.5, s.AvgRating, 1e-9)
}

func TestProductListSchema(t *testing.T) {
	e := newTestEnricher(t, Dataset{
		"X1": {Rating: 4.6, Reviews: 142311},
	})

	schema := e.ProductListSchema([]SchemaProduct{
		{ID: "X1", Name: "Vitamin C Serum"},
	}, "Best Serums")

	require.Equal(t, "ItemList", schema["@type"])
	require.Equal(t, 1, schema["numberOfItems"])

	items := schema["itemListElement"].([]map[string]any)
	require.Len(t, items, 1)
	item := items[0]["item"].(map[string]any)
	require.Equal(t, "Vitamin C Serum", item["name"])
	rating := item["aggregateRating"].(map[string]any)
	require.Equal(t, 4.6, rating["ratingValue"])
	require.Equal(t, 140000, rating["reviewCount"], "structured data uses transformed counts")
}
