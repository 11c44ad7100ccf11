package catalog

import (
	"context"
	"log/slog"
	"math"
	"os"
	"time"

	"glowpicked-backend/services/catalog/db"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/catalog")

type Service struct {
	fetcher    Fetcher
	history    *db.Queries
	thresholds Thresholds
	delay      time.Duration
	now        func() time.Time
}

// NewService builds the reconciliation engine. `history` may be nil, in
// which case no observation rows are kept.
func NewService(fetcher Fetcher, history *db.Queries, cfg Config) Service {
	delayMs := cfg.InterIdDelayMs
	if delayMs == 0 {
		delayMs = 2000
	}
	return Service{
		fetcher:    fetcher,
		history:    history,
		thresholds: cfg.Thresholds.withDefaults(),
		delay:      time.Duration(delayMs) * time.Millisecond,
		now:        time.Now,
	}
}

// Reconcile walks the tracked ids strictly sequentially, fetches a fresh
// observation for each, and folds significant changes into a copy of the
// previous dataset. The upstream rate limit is global, so no concurrency.
// Per-id failures land in the report and leave the previous entry intact.
func (s Service) Reconcile(ctx context.Context, trackedIDs []string, previous Dataset) (Report, Dataset) {
	ctx, span := tracer.Start(ctx, "catalog:Reconcile")
	defer span.End()
	span.SetAttributes(attribute.Int("tracked", len(trackedIDs)))

	report := Report{
		RunID:     uuid.NewString(),
		StartedAt: s.now(),
	}
	updated := previous.Clone()

	for i, id := range trackedIDs {
		if i > 0 {
			select {
			case <-ctx.Done():
				slog.WarnContext(ctx, "run aborted, keeping partial progress",
					"err", ctx.Err(), "processed", i, "tracked", len(trackedIDs))
				span.SetStatus(codes.Error, "run aborted")
				return report, updated
			case <-time.After(s.delay):
			}
		}
		report.Checked++

		observation, err := s.fetcher.FetchProduct(ctx, id)
		if err != nil {
			slog.ErrorContext(ctx, "failed to fetch product data", "id", id, "err", err)
			report.Errors = append(report.Errors, FetchError{ID: id, Reason: err.Error()})
			continue
		}
		s.recordObservation(ctx, report.RunID, id, observation)

		fresh := Entry{Rating: observation.Rating, Reviews: observation.Reviews}
		old, existed := previous[id]
		if !existed {
			updated[id] = fresh
			report.Changes = append(report.Changes, ChangeEvent{
				ID: id, Kind: ChangeNew, After: fresh,
			})
			slog.InfoContext(ctx, "new product", "id", id,
				"rating", fresh.Rating, "reviews", fresh.Reviews)
			continue
		}

		if !s.significantChange(old, fresh) {
			// keep the old entry, a re-measurement inside the noise
			// band is not worth overwriting accepted data for
			slog.DebugContext(ctx, "no significant change", "id", id)
			continue
		}

		before := old
		updated[id] = fresh
		report.Changes = append(report.Changes, ChangeEvent{
			ID: id, Kind: ChangeUpdated, Before: &before, After: fresh,
		})
		slog.InfoContext(ctx, "product updated", "id", id,
			"old_rating", before.Rating, "old_reviews", before.Reviews,
			"rating", fresh.Rating, "reviews", fresh.Reviews)
	}

	report.Updated = len(report.Changes)
	return report, updated
}

// significantChange applies the thresholds with strict inequality: a delta
// landing exactly on a threshold is unchanged.
func (s Service) significantChange(old, fresh Entry) bool {
	if old.Reviews <= 0 {
		return true
	}
	reviewDelta := math.Abs(float64(old.Reviews-fresh.Reviews)) / float64(old.Reviews)
	ratingDelta := math.Abs(old.Rating - fresh.Rating)
	return reviewDelta > s.thresholds.ReviewDelta || ratingDelta > s.thresholds.RatingDelta
}

func (s Service) recordObservation(ctx context.Context, runID, id string, o Observation) {
	if s.history == nil {
		return
	}
	err := s.history.CreateObservation(ctx, db.CreateObservationParams{
		RunID:   runID,
		Asin:    id,
		Rating:  o.Rating,
		Reviews: int64(o.Reviews),
		Source:  string(o.Source),
		Time:    s.now().Unix(),
	})
	if err != nil {
		slog.WarnContext(ctx, "failed to record observation", "id", id, "err", err)
	}
}

// Run is the whole verification pass: load the dataset, reconcile, persist
// the dataset when anything changed, and write the run report. Only an
// unreadable or corrupt dataset is fatal.
func (s Service) Run(ctx context.Context, cfg Config) (Report, error) {
	ctx, span := tracer.Start(ctx, "catalog:Run")
	defer span.End()

	previous, err := LoadDataset(cfg.DatasetFile)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "dataset unreadable")
		return Report{}, err
	}

	report, updated := s.Reconcile(ctx, cfg.TrackedIDs, previous)

	if len(report.Changes) > 0 {
		err = SaveDataset(cfg.DatasetFile, updated)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "dataset write failed")
			return report, err
		}
		slog.InfoContext(ctx, "dataset updated",
			"file", cfg.DatasetFile, "changes", len(report.Changes))
	}

	if cfg.ReportFile != "" {
		err = os.WriteFile(cfg.ReportFile, []byte(report.Markdown()), 0o644)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "report write failed")
			return report, err
		}
	}

	slog.InfoContext(ctx, "verification complete",
		"checked", report.Checked,
		"updated", report.Updated,
		"errors", len(report.Errors))
	return report, nil
}
