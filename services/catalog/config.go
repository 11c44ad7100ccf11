package catalog

import (
	configlibsql "glowpicked-backend/lib/configutil/libsql"
	"glowpicked-backend/lib/paapi"
	"glowpicked-backend/lib/scrapers/productpage"
)

// Thresholds decide what counts as a significant change. The defaults come
// from the original verification policy; nothing else in the system depends
// on their exact values, so they are configuration, not law.
type Thresholds struct {
	// ReviewDelta is relative: |old-new|/old. Strictly-greater comparison.
	ReviewDelta float64 `json:"review_delta"`
	// RatingDelta is absolute. Strictly-greater comparison.
	RatingDelta float64 `json:"rating_delta"`
}

func (t Thresholds) withDefaults() Thresholds {
	if t.ReviewDelta == 0 {
		t.ReviewDelta = 0.05
	}
	if t.RatingDelta == 0 {
		t.RatingDelta = 0.1
	}
	return t
}

type Config struct {
	// TrackedIDs is processed in declaration order; the change report
	// follows the same order.
	TrackedIDs []string `json:"tracked_ids"`

	DatasetFile string `json:"dataset_file"`
	ReportFile  string `json:"report_file"`

	// History is optional; when unset no observation history is kept.
	History configlibsql.Struct `json:"history"`

	Thresholds Thresholds `json:"thresholds"`

	// InterIdDelayMs paces consecutive fetches. Defaults to 2000. The rate
	// limit is global, so the engine never fetches concurrently.
	InterIdDelayMs int `json:"inter_id_delay_ms"`

	Api     paapi.Config       `json:"api"`
	Scraper productpage.Config `json:"scraper"`
}
