package catalog

import (
	"log/slog"
	"time"

	"glowpicked-backend/lib/paapi"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// EnrichedProduct is what the rendering layer consumes. ReviewCount is
// post-transform; the raw count never leaves the dataset.
type EnrichedProduct struct {
	ID          string  `json:"id"`
	Rating      float64 `json:"rating"`
	ReviewCount int     `json:"review_count"`
	DataSource  string  `json:"data_source"` // real | partial | fallback
	Verified    bool    `json:"verified"`
	URL         string  `json:"url"`
}

// FallbackHint carries the renderer's own conservative numbers for a
// product we have no accepted data for.
type FallbackHint struct {
	Rating  float64
	Reviews int
}

type Stats struct {
	TotalReviews  int     `json:"total_reviews"`
	TotalProducts int     `json:"total_products"`
	AvgRating     float64 `json:"avg_rating"`
	VerifiedCount int     `json:"verified_count"`
}

type Enricher struct {
	datasetFile string
	partnerTag  string
	cache       *expirable.LRU[string, EnrichedProduct]
}

func NewEnricher(datasetFile, partnerTag string) *Enricher {
	return &Enricher{
		datasetFile: datasetFile,
		partnerTag:  partnerTag,
		cache:       expirable.NewLRU[string, EnrichedProduct](2048, nil, time.Minute*15),
	}
}

func (e *Enricher) load() Dataset {
	ds, err := LoadDataset(e.datasetFile)
	if err != nil {
		slog.Warn("failed to load dataset for enrichment", "err", err)
		return Dataset{}
	}
	return ds
}

// Enrich resolves one product for display. An unverified product degrades
// to the hint (or a conservative default) rather than disappearing: showing
// a cautious number beats hiding the product. Only verified results are
// cached; fallbacks depend on the caller's hint.
func (e *Enricher) Enrich(id string, hint *FallbackHint) EnrichedProduct {
	if cached, hit := e.cache.Get(id); hit {
		return cached
	}

	entry, ok := e.load()[id]
	if !ok || (entry.Rating == 0 && entry.Reviews == 0) {
		return e.fallback(id, hint)
	}

	if entry.Rating == 0 || entry.Reviews == 0 {
		// half a record: use what is real, fill the rest conservatively
		out := e.fallback(id, hint)
		out.DataSource = "partial"
		if entry.Rating != 0 {
			out.Rating = entry.Rating
		}
		if entry.Reviews != 0 {
			out.ReviewCount = RoundDown(entry.Reviews)
		}
		return out
	}

	out := EnrichedProduct{
		ID:          id,
		Rating:      entry.Rating,
		ReviewCount: RoundDown(entry.Reviews),
		DataSource:  "real",
		Verified:    true,
		URL:         paapi.DeepLink(id, e.partnerTag),
	}
	e.cache.Add(id, out)
	return out
}

func (e *Enricher) fallback(id string, hint *FallbackHint) EnrichedProduct {
	rating := 4.0
	reviews := 1000
	if hint != nil {
		if hint.Rating != 0 {
			rating = hint.Rating
		}
		if hint.Reviews != 0 {
			reviews = hint.Reviews
		}
	}
	return EnrichedProduct{
		ID:          id,
		Rating:      rating,
		ReviewCount: RoundDown(reviews),
		DataSource:  "fallback",
		Verified:    false,
		URL:         paapi.DeepLink(id, e.partnerTag),
	}
}

// Known reports whether an accepted entry exists for the id.
func (e *Enricher) Known(id string) bool {
	_, ok := e.load()[id]
	return ok
}

// Stats aggregates the raw dataset for the site hero section. Raw counts on
// purpose: the conservative transform is a per-product display rule.
func (e *Enricher) Stats() Stats {
	ds := e.load()

	var s Stats
	var ratingSum float64
	for _, entry := range ds {
		if entry.Rating == 0 || entry.Reviews == 0 {
			continue
		}
		s.TotalReviews += entry.Reviews
		ratingSum += entry.Rating
		s.TotalProducts++
		s.VerifiedCount++
	}
	if s.TotalProducts > 0 {
		s.AvgRating = ratingSum / float64(s.TotalProducts)
	}
	return s
}
