package dataset

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"regexp"
	"strings"

	"moviepipe/internal/logging"
)

// Column names the pipeline reads or derives on the movie table.
const (
	ColumnMovieID    = "movieId"
	ColumnTitle      = "title"
	ColumnGenres     = "genres"
	ColumnCleanTitle = "clean_title"
	ColumnDirector   = "director"
	ColumnPlot       = "plot"
	ColumnBoxOffice  = "box_office"
	ColumnYear       = "year"
)

// EnrichmentColumns lists the nullable columns filled by metadata lookups,
// in the order they are appended to the movie table.
var EnrichmentColumns = []string{ColumnDirector, ColumnPlot, ColumnBoxOffice, ColumnYear}

var yearToken = regexp.MustCompile(`\(\d{4}\)`)

// CleanTitle strips every parenthesized four-digit year from title and trims
// the surrounding whitespace: "Toy Story (1995)" becomes "Toy Story".
func CleanTitle(title string) string {
	return strings.TrimSpace(yearToken.ReplaceAllString(title, ""))
}

// Dataset holds the two input tables.
type Dataset struct {
	Movies  *Table
	Ratings *Table
}

// Loader reads the movie catalog and rating events from delimited files.
type Loader struct {
	MoviesPath  string
	RatingsPath string
	Delimiter   rune
	Logger      *slog.Logger
}

// Load reads both inputs and prepares the movie table for enrichment. Any
// failure is fatal for the pipeline.
func (l Loader) Load(ctx context.Context) (*Dataset, error) {
	logger := logging.NewComponentLogger(l.Logger, "loader")

	movies, err := ReadCSV(l.MoviesPath, "movies", l.Delimiter)
	if err != nil {
		return nil, fmt.Errorf("load movies: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ratings, err := ReadCSV(l.RatingsPath, "ratings", l.Delimiter)
	if err != nil {
		return nil, fmt.Errorf("load ratings: %w", err)
	}
	if err := PrepareMovies(movies); err != nil {
		return nil, fmt.Errorf("prepare movies: %w", err)
	}

	logger.Info("datasets loaded",
		logging.String("movies_path", l.MoviesPath),
		logging.Int("movies", movies.Len()),
		logging.String("ratings_path", l.RatingsPath),
		logging.Int("ratings", ratings.Len()),
	)
	return &Dataset{Movies: movies, Ratings: ratings}, nil
}

// PrepareMovies validates the movie table, derives clean_title for every row
// and appends any missing enrichment columns as absent values.
func PrepareMovies(t *Table) error {
	for _, required := range []string{ColumnTitle, ColumnGenres} {
		if !t.HasColumn(required) {
			return fmt.Errorf("table %s: %w: %s", t.Name, ErrMissingColumn, required)
		}
	}
	titleIdx := t.ColumnIndex(ColumnTitle)
	cleanIdx := t.EnsureColumn(ColumnCleanTitle)
	for _, row := range t.Rows {
		title := row[titleIdx]
		if !title.Valid {
			row[cleanIdx] = sql.NullString{}
			continue
		}
		row[cleanIdx] = Present(CleanTitle(title.String))
	}
	for _, col := range EnrichmentColumns {
		t.EnsureColumn(col)
	}
	return nil
}

// ReadCSV reads a delimited file whose first record is the header. Empty
// cells load as absent values.
func ReadCSV(path, name string, delimiter rune) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	defer file.Close()
	return ParseCSV(file, name, delimiter)
}

// ParseCSV is ReadCSV over an arbitrary reader.
func ParseCSV(r io.Reader, name string, delimiter rune) (*Table, error) {
	reader := csv.NewReader(r)
	if delimiter != 0 {
		reader.Comma = delimiter
	}
	reader.ReuseRecord = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%s: %w", name, ErrEmptyInput)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s header: %w", name, err)
	}
	columns := make([]string, len(header))
	for i, col := range header {
		col = strings.TrimSpace(col)
		if i == 0 {
			col = strings.TrimPrefix(col, "\ufeff")
		}
		if col == "" {
			return nil, fmt.Errorf("%s: header column %d is empty", name, i+1)
		}
		columns[i] = col
	}

	table := NewTable(name, columns...)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		cells := make([]sql.NullString, len(record))
		for i, value := range record {
			if value != "" {
				cells[i] = Present(value)
			}
		}
		if err := table.AppendRow(cells); err != nil {
			return nil, err
		}
	}
	return table, nil
}
