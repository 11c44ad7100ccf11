package catalog

import "context"

// Source records which pipeline produced an observation.
type Source string

const (
	SourceAPI    Source = "api"
	SourceScrape Source = "scrape"
)

// Observation is one accepted measurement of a product: rating in [1,5],
// review count > 0. Anything outside those bounds is discarded before it
// ever becomes an Observation.
type Observation struct {
	Rating  float64
	Reviews int
	Source  Source
}

// Fetcher is the one-id fetch operation the reconciliation engine drives.
// Implementations retry internally; an error returned here is terminal for
// this id this run.
type Fetcher interface {
	FetchProduct(ctx context.Context, id string) (Observation, error)
}

type ChangeKind string

const (
	ChangeNew     ChangeKind = "NEW"
	ChangeUpdated ChangeKind = "UPDATED"
)

// ChangeEvent is produced per run and lives only in the run report.
type ChangeEvent struct {
	ID     string
	Kind   ChangeKind
	Before *Entry
	After  Entry
}

// FetchError is a per-id failure; it never aborts the rest of the run.
type FetchError struct {
	ID     string
	Reason string
}
