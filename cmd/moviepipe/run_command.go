package main

import (
	"fmt"
	"io"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"moviepipe/internal/config"
	"moviepipe/internal/pipeline"
)

type runOverrides struct {
	movies  string
	ratings string
	dsn     string
	delay   time.Duration
}

func newRunCommand(ctx *commandContext) *cobra.Command {
	var overrides runOverrides

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Load, enrich and persist the movie dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			cfg := *base
			if err := overrides.apply(cmd, &cfg); err != nil {
				return err
			}

			logger, err := ctx.newLogger(&cfg)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			runCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			summary, err := pipeline.Run(runCtx, &cfg, pipeline.Dependencies{Logger: logger})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			renderSummary(out, summary, shouldColorize(out))
			return nil
		},
	}

	cmd.Flags().StringVar(&overrides.movies, "movies", "", "Movie catalog CSV (overrides paths.movies_csv)")
	cmd.Flags().StringVar(&overrides.ratings, "ratings", "", "Rating events CSV (overrides paths.ratings_csv)")
	cmd.Flags().StringVar(&overrides.dsn, "dsn", "", "Store DSN (overrides store.dsn)")
	cmd.Flags().DurationVar(&overrides.delay, "delay", 0, "Pause between OMDb lookups (overrides omdb.request_delay_ms)")
	return cmd
}

func (o runOverrides) apply(cmd *cobra.Command, cfg *config.Config) error {
	if o.movies != "" {
		path, err := config.ExpandPath(o.movies)
		if err != nil {
			return fmt.Errorf("resolve --movies: %w", err)
		}
		cfg.Paths.MoviesCSV = path
	}
	if o.ratings != "" {
		path, err := config.ExpandPath(o.ratings)
		if err != nil {
			return fmt.Errorf("resolve --ratings: %w", err)
		}
		cfg.Paths.RatingsCSV = path
	}
	if o.dsn != "" {
		dsn := o.dsn
		if cfg.Store.Driver == "sqlite" && dsn != ":memory:" && !strings.HasPrefix(dsn, "file:") {
			expanded, err := config.ExpandPath(dsn)
			if err != nil {
				return fmt.Errorf("resolve --dsn: %w", err)
			}
			dsn = expanded
		}
		cfg.Store.DSN = dsn
	}
	if cmd.Flags().Changed("delay") {
		cfg.OMDb.RequestDelayMS = int(o.delay / time.Millisecond)
	}
	return cfg.Validate()
}

func renderSummary(out io.Writer, s *pipeline.Summary, colorize bool) {
	halted := yesNo(s.Halted)
	if s.Halted {
		halted = fmt.Sprintf("yes (row %d)", s.HaltedAt)
	}
	rows := [][]string{
		{"Run", s.RunID},
		{"Store", s.StoreTarget},
		{"Movies written", strconv.Itoa(s.Movies)},
		{"Ratings written", strconv.Itoa(s.Ratings)},
		{"Genre rows written", strconv.Itoa(s.Expanded)},
		{"Resolved", strconv.Itoa(s.Resolved)},
		{"Not found", strconv.Itoa(s.NotFound)},
		{"Skipped", strconv.Itoa(s.Skipped)},
		{"Quota halt", halted},
		{"Elapsed", s.Total().Round(time.Millisecond).String()},
	}
	fmt.Fprintln(out, renderTable([]string{"Field", "Value"}, rows, []columnAlignment{alignLeft, alignRight}, colorize))
	fmt.Fprintf(out, "Movies: %d  |  Ratings: %d\n", s.Movies, s.Ratings)
}
