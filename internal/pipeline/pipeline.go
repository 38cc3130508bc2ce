package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
	"unicode/utf8"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"moviepipe/internal/config"
	"moviepipe/internal/dataset"
	"moviepipe/internal/enrichment"
	"moviepipe/internal/enrichment/omdb"
	"moviepipe/internal/logging"
	"moviepipe/internal/store"
)

// ErrAlreadyRunning is returned when another run holds the lock file.
var ErrAlreadyRunning = errors.New("another moviepipe run is already in progress")

// Dependencies carries collaborators that tests and callers may replace.
// Zero values are built from the configuration.
type Dependencies struct {
	Logger *slog.Logger
	Client omdb.Searcher
	Sleep  func(context.Context, time.Duration) error
	RunID  string
}

// Summary describes a completed run.
type Summary struct {
	RunID       string
	StoreTarget string

	Movies   int
	Ratings  int
	Expanded int

	Resolved int
	NotFound int
	Skipped  int
	Halted   bool
	// HaltedAt is the 1-based row that hit the daily quota; zero when not halted.
	HaltedAt int

	LoadDuration    time.Duration
	EnrichDuration  time.Duration
	PersistDuration time.Duration
}

// Total returns the end-to-end duration of the three stages.
func (s *Summary) Total() time.Duration {
	return s.LoadDuration + s.EnrichDuration + s.PersistDuration
}

// Run executes load, enrich and persist in sequence. Load, lock and store
// failures abort the run; a quota halt moves straight to persistence.
func Run(ctx context.Context, cfg *config.Config, deps Dependencies) (*Summary, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	runID := deps.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	ctx = logging.WithRunID(ctx, runID)
	logger := logging.WithContext(ctx, logging.NewComponentLogger(deps.Logger, "pipeline"))

	unlock, err := acquireLock(cfg.Paths.LockFile)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := unlock(); err != nil {
			logger.Warn("failed to release run lock", logging.Error(err))
		}
	}()

	client := deps.Client
	if client == nil {
		c, err := NewClient(cfg)
		if err != nil {
			return nil, err
		}
		client = c
	}

	summary := &Summary{RunID: runID}
	logger.Info("pipeline started",
		logging.String("movies_path", cfg.Paths.MoviesCSV),
		logging.String("ratings_path", cfg.Paths.RatingsCSV),
		logging.String("driver", cfg.Store.Driver),
	)

	start := time.Now()
	delim, _ := utf8.DecodeRuneInString(cfg.Dataset.Delimiter)
	loader := dataset.Loader{
		MoviesPath:  cfg.Paths.MoviesCSV,
		RatingsPath: cfg.Paths.RatingsCSV,
		Delimiter:   delim,
		Logger:      logging.WithContext(ctx, deps.Logger),
	}
	data, err := loader.Load(ctx)
	if err != nil {
		return nil, err
	}
	summary.LoadDuration = time.Since(start)

	start = time.Now()
	opts := []enrichment.Option{enrichment.WithDelay(cfg.RequestDelay())}
	if deps.Sleep != nil {
		opts = append(opts, enrichment.WithSleeper(deps.Sleep))
	}
	enricher := enrichment.NewEnricher(client, deps.Logger, opts...)
	report, err := enricher.Enrich(ctx, dataset.Movies(data.Movies))
	if err != nil {
		return nil, fmt.Errorf("enrich: %w", err)
	}
	if err := report.Merge(data.Movies); err != nil {
		return nil, err
	}
	summary.EnrichDuration = time.Since(start)
	summary.Resolved = report.Count(enrichment.OutcomeResolved)
	summary.NotFound = report.Count(enrichment.OutcomeNotFound)
	summary.Skipped = report.Skipped()
	summary.Halted = report.Halted
	if report.Halted {
		summary.HaltedAt = report.HaltedAt + 1
	}

	start = time.Now()
	st, err := store.Open(ctx, cfg.Store, logging.WithContext(ctx, deps.Logger))
	if err != nil {
		return nil, err
	}
	defer st.Close()
	summary.StoreTarget = st.Target()

	written, err := st.WriteDataset(ctx, data.Movies, data.Ratings, store.Tables{
		Movies:   cfg.Store.MoviesTable,
		Ratings:  cfg.Store.RatingsTable,
		Expanded: cfg.Store.ExpandedTable,
	}, cfg.Dataset.GenreDelimiter)
	if err != nil {
		return nil, fmt.Errorf("persist: %w", err)
	}
	summary.PersistDuration = time.Since(start)
	summary.Movies = written.Movies
	summary.Ratings = written.Ratings
	summary.Expanded = written.Expanded

	logger.Info("pipeline completed",
		logging.Int("movies", summary.Movies),
		logging.Int("ratings", summary.Ratings),
		logging.Int("resolved", summary.Resolved),
		logging.Int("not_found", summary.NotFound),
		logging.Int("skipped", summary.Skipped),
		logging.Bool("halted", summary.Halted),
		logging.Duration("elapsed", summary.Total()),
	)
	return summary, nil
}

// NewClient builds the OMDb client described by the configuration.
func NewClient(cfg *config.Config) (*omdb.Client, error) {
	client, err := omdb.New(cfg.OMDb.APIKey, cfg.OMDb.BaseURL,
		omdb.WithTimeout(cfg.RequestTimeout()),
		omdb.WithRateLimit(cfg.OMDb.RequestsPerSecond),
	)
	if err != nil {
		return nil, fmt.Errorf("create omdb client: %w", err)
	}
	return client, nil
}

func acquireLock(path string) (func() error, error) {
	if path == "" {
		return func() error { return nil }, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}
	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w (lock %s)", ErrAlreadyRunning, path)
	}
	return lock.Unlock, nil
}
