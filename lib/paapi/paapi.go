// Package paapi talks to the Product Advertising API GetItems endpoint in
// signed batches of at most 10 ASINs. A client constructed without
// credentials is a recognized degraded mode: it answers every lookup with
// placeholder products and never touches the network.
package paapi

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"glowpicked-backend/lib/respcache"
	"glowpicked-backend/lib/sigv4"
	"glowpicked-backend/lib/telemetry"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("paapi")

const target = "com.amazon.paapi5.v1.ProductAdvertisingAPIv1.GetItems"

// Product is one item as reported by the API. Rating and ReviewCount are nil
// when upstream did not include review data for the item.
type Product struct {
	ASIN          string
	Title         string
	ImageURL      string
	ImageLargeURL string
	Price         string
	Currency      string
	Rating        *float64
	ReviewCount   *int
	URL           string
	Available     bool
}

// Placeholder reports whether the product carries real upstream data or is
// a synthesized deep-link-only stand-in.
func (p Product) Placeholder() bool {
	return p.Rating == nil && p.ReviewCount == nil && p.Title == ""
}

type Config struct {
	AccessKey  string `json:"access_key"`
	SecretKey  string `json:"secret_key"`
	PartnerTag string `json:"partner_tag"`
	// Host defaults to webservices.amazon.com.
	Host string `json:"host"`
	// Marketplace defaults to www.amazon.com.
	Marketplace string `json:"marketplace"`
	// Region defaults to us-east-1.
	Region string `json:"region"`
	// MaxBatch is capped by the upstream protocol at 10.
	MaxBatch int `json:"max_batch"`
	// InterBatchDelay defaults to 1100ms: the API allows 1 request/second
	// for new accounts, violating it risks throttling.
	InterBatchDelayMs int `json:"inter_batch_delay_ms"`
	TimeoutSeconds    int `json:"timeout_seconds"`
}

type Client struct {
	http       *resty.Client
	cfg        Config
	cache      *respcache.Cache
	configured bool
	delay      time.Duration
	now        func() time.Time
}

// DeepLink builds the affiliate link for an ASIN. It is also what
// placeholder records point at when no product data is available.
func DeepLink(asin, partnerTag string) string {
	return fmt.Sprintf("https://www.amazon.com/dp/%s/ref=nosim?tag=%s", asin, partnerTag)
}

// NewClient decides the configured/unconfigured mode once, here. `cache` may
// be nil to disable response caching.
func NewClient(cfg Config, cache *respcache.Cache) *Client {
	if cfg.Host == "" {
		cfg.Host = "webservices.amazon.com"
	}
	if cfg.Marketplace == "" {
		cfg.Marketplace = "www.amazon.com"
	}
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}
	if cfg.MaxBatch <= 0 || cfg.MaxBatch > 10 {
		cfg.MaxBatch = 10
	}
	delay := time.Duration(cfg.InterBatchDelayMs) * time.Millisecond
	if cfg.InterBatchDelayMs == 0 {
		delay = 1100 * time.Millisecond
	}
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if cfg.TimeoutSeconds == 0 {
		timeout = time.Second * 10
	}

	client := resty.New()
	client.SetTimeout(timeout)
	telemetry.InstrumentResty(client, "paapi/http")

	return &Client{
		http:       client,
		cfg:        cfg,
		cache:      cache,
		configured: cfg.AccessKey != "" && cfg.SecretKey != "",
		delay:      delay,
		now:        time.Now,
	}
}

// Configured reports whether real credentials were supplied at construction.
func (c *Client) Configured() bool {
	return c.configured
}

func (c *Client) placeholder(asin string) Product {
	return Product{
		ASIN:      asin,
		Currency:  "USD",
		URL:       DeepLink(asin, c.cfg.PartnerTag),
		Available: false,
	}
}

// FetchBatch looks up every id, chunked to the protocol limit, one signed
// request per chunk with pacing in between. A failed chunk degrades to
// placeholders instead of failing the run; items upstream chose not to
// return are simply absent from the result.
func (c *Client) FetchBatch(ctx context.Context, ids []string) ([]Product, error) {
	ctx, span := tracer.Start(ctx, "client:FetchBatch")
	defer span.End()
	span.SetAttributes(attribute.Int("ids", len(ids)))

	if !c.configured {
		slog.WarnContext(ctx, "api credentials missing, returning placeholders", "ids", len(ids))
		out := make([]Product, len(ids))
		for i, asin := range ids {
			out[i] = c.placeholder(asin)
		}
		return out, nil
	}

	if c.cache != nil {
		if payload, hit := c.cache.Get(ids); hit {
			var cached []Product
			err := json.Unmarshal(payload, &cached)
			if err == nil {
				span.SetAttributes(attribute.Bool("cache_hit", true))
				return cached, nil
			}
			slog.WarnContext(ctx, "discarding unreadable cache entry", "err", err)
		}
	}

	var out []Product
	allOk := true
	for start := 0; start < len(ids); start += c.cfg.MaxBatch {
		if start > 0 {
			select {
			case <-ctx.Done():
				return out, ctx.Err()
			case <-time.After(c.delay):
			}
		}

		end := start + c.cfg.MaxBatch
		if end > len(ids) {
			end = len(ids)
		}
		chunk := ids[start:end]

		items, err := c.getItems(ctx, chunk)
		if err != nil {
			slog.ErrorContext(ctx, "item lookup failed, degrading chunk to placeholders",
				"err", err, "chunk", len(chunk))
			allOk = false
			for _, asin := range chunk {
				out = append(out, c.placeholder(asin))
			}
			continue
		}
		out = append(out, items...)
	}

	if c.cache != nil && allOk {
		payload, err := json.Marshal(out)
		if err == nil {
			c.cache.Put(ids, payload)
		}
	}
	return out, nil
}

func (c *Client) getItems(ctx context.Context, chunk []string) ([]Product, error) {
	ctx, span := tracer.Start(ctx, "client:getItems")
	defer span.End()

	payload, err := json.Marshal(getItemsRequest{
		ItemIds:     chunk,
		Resources:   requestedResources,
		PartnerTag:  c.cfg.PartnerTag,
		PartnerType: "Associates",
		Marketplace: c.cfg.Marketplace,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to marshal request body")
		return nil, err
	}

	headers, err := sigv4.Sign(payload, c.now(), sigv4.Credentials{
		AccessKey: c.cfg.AccessKey,
		SecretKey: c.cfg.SecretKey,
		Region:    c.cfg.Region,
		Service:   "ProductAdvertisingAPI",
	}, sigv4.Request{
		Host:   c.cfg.Host,
		Path:   "/paapi5/getitems",
		Target: target,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to sign request")
		return nil, err
	}

	res, err := c.http.R().
		SetContext(ctx).
		SetHeaders(headers).
		SetBody(payload).
		Post(fmt.Sprintf("https://%s/paapi5/getitems", c.cfg.Host))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		return nil, err
	}
	if res.StatusCode() < 200 || res.StatusCode() > 299 {
		err := fmt.Errorf("upstream rejected request: status %d: %s", res.StatusCode(), res.String())
		span.RecordError(err)
		span.SetStatus(codes.Error, "upstream rejection")
		return nil, err
	}

	var body getItemsResponse
	err = json.Unmarshal(res.Body(), &body)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to unmarshal response body")
		return nil, err
	}

	out := make([]Product, 0, len(body.ItemsResult.Items))
	for _, item := range body.ItemsResult.Items {
		out = append(out, c.toProduct(item))
	}
	return out, nil
}

func (c *Client) toProduct(item wireItem) Product {
	p := Product{
		ASIN:          item.ASIN,
		Title:         item.ItemInfo.Title.DisplayValue,
		ImageURL:      item.Images.Primary.Medium.URL,
		ImageLargeURL: item.Images.Primary.Large.URL,
		Currency:      "USD",
		URL:           DeepLink(item.ASIN, c.cfg.PartnerTag),
	}
	if len(item.Offers.Listings) > 0 {
		listing := item.Offers.Listings[0]
		p.Price = listing.Price.DisplayAmount
		if listing.Price.Currency != "" {
			p.Currency = listing.Price.Currency
		}
		p.Available = listing.Availability.Type == "Now"
	}
	if item.CustomerReviews.StarRating.Value != 0 {
		rating := item.CustomerReviews.StarRating.Value
		p.Rating = &rating
	}
	if item.CustomerReviews.Count != 0 {
		count := item.CustomerReviews.Count
		p.ReviewCount = &count
	}
	return p
}
