package enrichment

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"moviepipe/internal/dataset"
	"moviepipe/internal/enrichment/omdb"
	"moviepipe/internal/logging"
)

// DefaultDelay is the courtesy pause between successive records.
const DefaultDelay = time.Second

// Resolution pairs a visited record with its result.
type Resolution struct {
	Record dataset.MovieRecord
	Result Result
}

// Report summarizes one enrichment pass.
type Report struct {
	Resolutions []Resolution
	Total       int
	Halted      bool
	// HaltedAt is the zero-based row that received the quota signal.
	HaltedAt int
}

// Count returns the number of visited records with the given outcome.
func (r *Report) Count(outcome Outcome) int {
	n := 0
	for _, res := range r.Resolutions {
		if res.Result.Outcome == outcome {
			n++
		}
	}
	return n
}

// Skipped returns how many records were never looked up because the batch
// halted.
func (r *Report) Skipped() int {
	return r.Total - len(r.Resolutions) + r.Count(OutcomeQuotaExhausted)
}

// Merge writes every resolved record's details into the movie table.
// Unresolved rows keep their absent values.
func (r *Report) Merge(movies *dataset.Table) error {
	for _, res := range r.Resolutions {
		if res.Result.Outcome != OutcomeResolved {
			continue
		}
		if err := dataset.ApplyEnrichment(movies, res.Record.Row, res.Result.Details); err != nil {
			return fmt.Errorf("merge row %d: %w", res.Record.Row, err)
		}
	}
	return nil
}

// Enricher resolves movie records one at a time against OMDb.
type Enricher struct {
	client omdb.Searcher
	delay  time.Duration
	logger *slog.Logger
	sleep  func(context.Context, time.Duration) error
}

// Option configures an Enricher.
type Option func(*Enricher)

// WithDelay overrides the pause between records. Zero disables it.
func WithDelay(delay time.Duration) Option {
	return func(e *Enricher) {
		if delay >= 0 {
			e.delay = delay
		}
	}
}

// WithSleeper replaces the delay implementation; tests use it to observe
// pauses without waiting.
func WithSleeper(sleep func(context.Context, time.Duration) error) Option {
	return func(e *Enricher) {
		if sleep != nil {
			e.sleep = sleep
		}
	}
}

// NewEnricher constructs an Enricher around an OMDb client.
func NewEnricher(client omdb.Searcher, logger *slog.Logger, opts ...Option) *Enricher {
	e := &Enricher{
		client: client,
		delay:  DefaultDelay,
		logger: logging.NewComponentLogger(logger, "enricher"),
		sleep:  SleepWithContext,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Enrich visits records in order. A quota-exhausted signal stops the pass at
// once, leaving the remaining records unvisited; every other outcome is
// followed by the configured delay. Only context cancellation is returned as
// an error, together with the partial report.
func (e *Enricher) Enrich(ctx context.Context, records []dataset.MovieRecord) (*Report, error) {
	logger := logging.WithContext(ctx, e.logger)
	report := &Report{
		Resolutions: make([]Resolution, 0, len(records)),
		Total:       len(records),
		HaltedAt:    -1,
	}

	for _, record := range records {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		recLogger := logger.With(logging.Int(logging.FieldRow, record.Row+1))
		recLogger.Info("fetching metadata", logging.String(logging.FieldTitle, record.CleanTitle))

		result := Resolve(ctx, e.client, record.CleanTitle, omdb.LookupOptions{})
		report.Resolutions = append(report.Resolutions, Resolution{Record: record, Result: result})

		switch result.Outcome {
		case OutcomeQuotaExhausted:
			logging.WarnWithContext(recLogger, "omdb daily limit reached; stopping further requests", "omdb_quota_exhausted",
				logging.Int("remaining", len(records)-len(report.Resolutions)+1),
				logging.String(logging.FieldErrorHint, "rerun after the quota resets or use a different api key"),
				logging.String(logging.FieldImpact, "remaining movies are stored without metadata"),
			)
			report.Halted = true
			report.HaltedAt = record.Row
			return report, nil
		case OutcomeResolved:
			recLogger.Debug("metadata resolved",
				logging.String(logging.FieldOutcome, string(result.Outcome)),
				logging.String("via", string(result.Via)),
				logging.String("imdb_id", result.IMDbID),
			)
		default:
			attrs := []logging.Attr{logging.String(logging.FieldTitle, record.Label())}
			if result.Err != nil {
				attrs = append(attrs, logging.Error(result.Err),
					logging.String(logging.FieldErrorHint, "check network access and the omdb api key"))
				logging.WarnWithContext(recLogger, "error fetching metadata", "omdb_lookup_failed", attrs...)
			} else {
				logging.WarnWithContext(recLogger, "no data found", "omdb_no_match", append(attrs,
					logging.String(logging.FieldErrorHint, "verify the title spelling in the catalog"),
					logging.String(logging.FieldImpact, "movie is stored without metadata"))...)
			}
		}

		if err := e.sleep(ctx, e.delay); err != nil {
			return report, err
		}
	}
	return report, nil
}

// SleepWithContext blocks for the given duration, returning early if the
// context is cancelled.
func SleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
