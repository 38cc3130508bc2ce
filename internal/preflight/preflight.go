package preflight

import (
	"context"
	"path/filepath"

	"moviepipe/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// Options selects the optional checks.
type Options struct {
	// CheckOMDb issues one live lookup, which counts against the daily quota.
	CheckOMDb bool
}

// RunAll executes the readiness checks for a pipeline run.
func RunAll(ctx context.Context, cfg *config.Config, opts Options) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckFileReadable("Movie catalog", cfg.Paths.MoviesCSV),
		CheckFileReadable("Rating events", cfg.Paths.RatingsCSV),
		CheckDirectoryAccess("Lock directory", filepath.Dir(cfg.Paths.LockFile)),
	}
	if cfg.Paths.LogDir != "" {
		results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))
	}
	results = append(results, CheckStore(ctx, cfg.Store))
	if opts.CheckOMDb {
		results = append(results, CheckOMDb(ctx, cfg))
	}
	return results
}

// Failed reports whether any result did not pass.
func Failed(results []Result) bool {
	for _, r := range results {
		if !r.Passed {
			return true
		}
	}
	return false
}
