package catalog

import (
	"context"
	"fmt"

	"glowpicked-backend/lib/paapi"
	"glowpicked-backend/lib/scrapers/productpage"
)

// apiFetcher adapts the signed batch client to the engine's one-id fetch.
// The response cache inside the client keeps the per-id calls from turning
// into per-id network requests.
type apiFetcher struct {
	client *paapi.Client
}

func NewAPIFetcher(client *paapi.Client) Fetcher {
	return apiFetcher{client: client}
}

func (f apiFetcher) FetchProduct(ctx context.Context, id string) (Observation, error) {
	products, err := f.client.FetchBatch(ctx, []string{id})
	if err != nil {
		return Observation{}, err
	}
	if len(products) == 0 {
		return Observation{}, fmt.Errorf("no data returned for %s", id)
	}

	p := products[0]
	if p.Rating == nil || p.ReviewCount == nil {
		// placeholders and review-less items are not acceptable
		// observations, only deep-link material
		return Observation{}, fmt.Errorf("incomplete api record for %s", id)
	}
	if *p.Rating < 1 || *p.Rating > 5 || *p.ReviewCount <= 0 {
		return Observation{}, fmt.Errorf(
			"api record for %s out of bounds: rating=%g reviews=%d",
			id, *p.Rating, *p.ReviewCount)
	}

	return Observation{
		Rating:  *p.Rating,
		Reviews: *p.ReviewCount,
		Source:  SourceAPI,
	}, nil
}

type scrapeFetcher struct {
	scraper *productpage.Scraper
}

func NewScrapeFetcher(scraper *productpage.Scraper) Fetcher {
	return scrapeFetcher{scraper: scraper}
}

func (f scrapeFetcher) FetchProduct(ctx context.Context, id string) (Observation, error) {
	result, err := f.scraper.ScrapeOne(ctx, id)
	if err != nil {
		return Observation{}, err
	}
	return Observation{
		Rating:  result.Rating,
		Reviews: result.ReviewCount,
		Source:  SourceScrape,
	}, nil
}
