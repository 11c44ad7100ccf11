package paapi

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"glowpicked-backend/lib/respcache"
)

func testServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, Config) {
	t.Helper()
	server := httptest.NewTLSServer(handler)
	t.Cleanup(server.Close)

	cfg := Config{
		AccessKey:         "AKIDEXAMPLE",
		SecretKey:         "secret",
		PartnerTag:        "glowpicked0c-20",
		Host:              strings.TrimPrefix(server.URL, "https://"),
		InterBatchDelayMs: 1,
	}
	return server, cfg
}

func insecure(c *Client) *Client {
	c.http.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	return c
}

func itemJSON(asin string, rating float64, reviews int) string {
	return fmt.Sprintf(`{
		"ASIN": %q,
		"ItemInfo": {"Title": {"DisplayValue": "Product %s"}},
		"Images": {"Primary": {
			"Medium": {"URL": "https://img.example/%s-m.jpg"},
			"Large": {"URL": "https://img.example/%s-l.jpg"}
		}},
		"Offers": {"Listings": [{
			"Price": {"DisplayAmount": "$9.99", "Currency": "USD"},
			"Availability": {"Type": "Now"}
		}]},
		"CustomerReviews": {"StarRating": {"Value": %g}, "Count": %d}
	}`, asin, asin, asin, asin, rating, reviews)
}

func TestUnconfiguredReturnsPlaceholders(t *testing.T) {
	calls := 0
	_, cfg := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
	})
	cfg.AccessKey = ""
	cfg.SecretKey = ""
	client := insecure(NewClient(cfg, nil))

	require.False(t, client.Configured())

	products, err := client.FetchBatch(context.Background(), []string{"X1"})
	require.NoError(t, err)
	require.Len(t, products, 1)
	require.Equal(t, "X1", products[0].ASIN)
	require.False(t, products[0].Available)
	require.True(t, products[0].Placeholder())
	require.Contains(t, products[0].URL, "X1")
	require.Contains(t, products[0].URL, "tag=glowpicked0c-20")
	require.Equal(t, 0, calls, "no network calls in unconfigured mode")
}

func TestFetchBatchChunking(t *testing.T) {
	var chunks [][]string
	_, cfg := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.NotEmpty(t, r.Header.Get("Authorization"))
		require.NotEmpty(t, r.Header.Get("X-Amz-Date"))

		var body struct {
			ItemIds []string `json:"ItemIds"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		chunks = append(chunks, body.ItemIds)

		items := make([]string, len(body.ItemIds))
		for i, asin := range body.ItemIds {
			items[i] = itemJSON(asin, 4.5, 100)
		}
		fmt.Fprintf(w, `{"ItemsResult":{"Items":[%s]}}`, strings.Join(items, ","))
	})
	client := insecure(NewClient(cfg, nil))

	ids := make([]string, 23)
	for i := range ids {
		ids[i] = fmt.Sprintf("B%022d", i)
	}

	products, err := client.FetchBatch(context.Background(), ids)
	require.NoError(t, err)
	require.Len(t, products, 23)

	require.Len(t, chunks, 3)
	require.Len(t, chunks[0], 10)
	require.Len(t, chunks[1], 10)
	require.Len(t, chunks[2], 3)

	first := products[0]
	require.Equal(t, "Product "+ids[0], first.Title)
	require.NotNil(t, first.Rating)
	require.Equal(t, 4.5, *first.Rating)
	require.NotNil(t, first.ReviewCount)
	require.Equal(t, 100, *first.ReviewCount)
	require.True(t, first.Available)
	require.False(t, first.Placeholder())
}

func TestUpstreamRejectionDegradesChunk(t *testing.T) {
	_, cfg := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"Errors":[{"Code":"TooManyRequests"}]}`, http.StatusTooManyRequests)
	})
	client := insecure(NewClient(cfg, nil))

	products, err := client.FetchBatch(context.Background(), []string{"A1", "A2"})
	require.NoError(t, err, "batch failure must not surface to the caller")
	require.Len(t, products, 2)
	for _, p := range products {
		require.True(t, p.Placeholder())
	}
}

func TestMissingItemsAreNotSynthesized(t *testing.T) {
	_, cfg := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		// upstream only knows about A1
		fmt.Fprintf(w, `{"ItemsResult":{"Items":[%s]}}`, itemJSON("A1", 4.0, 50))
	})
	client := insecure(NewClient(cfg, nil))

	products, err := client.FetchBatch(context.Background(), []string{"A1", "A2"})
	require.NoError(t, err)
	require.Len(t, products, 1)
	require.Equal(t, "A1", products[0].ASIN)
}

func TestResponseCacheAvoidsSecondCall(t *testing.T) {
	calls := 0
	_, cfg := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		fmt.Fprintf(w, `{"ItemsResult":{"Items":[%s]}}`, itemJSON("A1", 4.2, 77))
	})

	now := time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)
	cache := respcache.New(respcache.Options{
		TTL: time.Hour,
		Now: func() time.Time { return now },
	})
	client := insecure(NewClient(cfg, cache))

	first, err := client.FetchBatch(context.Background(), []string{"A1"})
	require.NoError(t, err)
	second, err := client.FetchBatch(context.Background(), []string{"A1"})
	require.NoError(t, err)

	require.Equal(t, 1, calls)
	require.Equal(t, first, second)

	// expired entry forces a refetch
	now = now.Add(2 * time.Hour)
	_, err = client.FetchBatch(context.Background(), []string{"A1"})
	require.NoError(t, err)
	require.Equal(t, 2, calls)
}
