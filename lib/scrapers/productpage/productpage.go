// Package productpage scrapes rating and review count off a public product
// page. It is the fallback data source when no API credentials exist, so it
// degrades politely: realistic rotating headers, a retry cap with linear
// backoff, and hard validation of anything extracted. It does not try to
// outsmart anti-bot defenses beyond the basic header rotation.
package productpage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"glowpicked-backend/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	browser "github.com/EDDYCJY/fake-useragent"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"github.com/mazen160/go-random"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("scrapers/productpage")

// ErrIncompleteData means the server answered but nothing trustworthy could
// be extracted: the page changed shape, or the extracted values failed the
// domain bounds (rating in [1,5], review count > 0).
var ErrIncompleteData = errors.New("incomplete product data")

type Result struct {
	Rating      float64
	ReviewCount int
}

type Config struct {
	// BaseURL defaults to https://www.amazon.com.
	BaseURL string `json:"base_url"`
	// MaxAttempts defaults to 3.
	MaxAttempts int `json:"max_attempts"`
	// BaseDelayMs is multiplied by the attempt number between retries
	// (linear backoff). Defaults to 2000.
	BaseDelayMs    int `json:"base_delay_ms"`
	TimeoutSeconds int `json:"timeout_seconds"`
}

type Scraper struct {
	http      *resty.Client
	cfg       Config
	baseDelay time.Duration
}

var acceptLanguages = []string{
	"en-US,en;q=0.5",
	"en-US,en;q=0.9",
	"en-GB,en;q=0.8,en-US;q=0.6",
}

func New(cfg Config) *Scraper {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://www.amazon.com"
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.BaseDelayMs <= 0 {
		cfg.BaseDelayMs = 2000
	}
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if cfg.TimeoutSeconds == 0 {
		timeout = time.Second * 10
	}

	client := resty.New()
	client.SetBaseURL(cfg.BaseURL)
	client.SetTimeout(timeout)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	telemetry.InstrumentResty(client, "scrapers/productpage/http")

	return &Scraper{
		http:      client,
		cfg:       cfg,
		baseDelay: time.Duration(cfg.BaseDelayMs) * time.Millisecond,
	}
}

// headers are rotated per attempt, not per id, so consecutive attempts for
// the same page don't present an identical fingerprint.
func rotatedHeaders() map[string]string {
	lang := acceptLanguages[0]
	if idx, err := random.IntRange(0, len(acceptLanguages)); err == nil {
		lang = acceptLanguages[idx]
	}
	return map[string]string{
		"User-Agent":      browser.Computer(),
		"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
		"Accept-Language": lang,
		"Cache-Control":   "no-cache",
	}
}

// ScrapeOne fetches the public page for one id and extracts rating and
// review count through the matcher cascade. It retries transport errors and
// incomplete data alike up to the attempt cap, then surfaces the last error;
// it never fabricates a result.
func (s *Scraper) ScrapeOne(ctx context.Context, id string) (Result, error) {
	ctx, span := tracer.Start(ctx, "scraper:ScrapeOne")
	defer span.End()
	span.SetAttributes(attribute.String("id", id))

	var lastErr error
	for attempt := 1; attempt <= s.cfg.MaxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return Result{}, ctx.Err()
			case <-time.After(s.baseDelay * time.Duration(attempt-1)):
			}
		}

		result, err := s.attempt(ctx, id)
		if err == nil {
			return result, nil
		}
		lastErr = err
		slog.WarnContext(ctx, "scrape attempt failed",
			"id", id, "attempt", attempt, "max_attempts", s.cfg.MaxAttempts, "err", err)
	}

	span.RecordError(lastErr)
	span.SetStatus(codes.Error, "attempts exhausted")
	return Result{}, lastErr
}

func (s *Scraper) attempt(ctx context.Context, id string) (Result, error) {
	res, err := s.http.R().
		SetContext(ctx).
		SetHeaders(rotatedHeaders()).
		Get(fmt.Sprintf("/dp/%s", id))
	if err != nil {
		return Result{}, fmt.Errorf("fetch product page: %w", err)
	}
	if res.StatusCode() < 200 || res.StatusCode() > 299 {
		return Result{}, fmt.Errorf("fetch product page: status %d", res.StatusCode())
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		return Result{}, fmt.Errorf("%w: unparseable markup: %s", ErrIncompleteData, err)
	}
	p := page{html: string(res.Body()), doc: doc}

	rating, ratingOk := extractRating(p)
	count, countOk := extractReviewCount(p)
	if !ratingOk || !countOk {
		return Result{}, fmt.Errorf("%w: rating found=%t, review count found=%t",
			ErrIncompleteData, ratingOk, countOk)
	}
	if rating < 1 || rating > 5 || count <= 0 {
		return Result{}, fmt.Errorf("%w: out of bounds: rating=%g reviews=%d",
			ErrIncompleteData, rating, count)
	}

	return Result{Rating: rating, ReviewCount: count}, nil
}
