package dataset_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"moviepipe/internal/dataset"
)

func TestCleanTitle(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Toy Story (1995)", "Toy Story"},
		{"  Heat (1995)  ", "Heat"},
		{"City of Lost Children, The (Cité des enfants perdus, La) (1995)", "City of Lost Children, The (Cité des enfants perdus, La)"},
		{"Babylon 5", "Babylon 5"},
		{"  Untitled  ", "Untitled"},
		{"Movie (95)", "Movie (95)"},
		{"Movie (19955)", "Movie (19955)"},
		{"Cosmos (1980) (2014)", "Cosmos"},
		{"", ""},
	}
	for _, tc := range tests {
		if got := dataset.CleanTitle(tc.in); got != tc.want {
			t.Fatalf("CleanTitle(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestLoaderPreparesMovieTable(t *testing.T) {
	dir := t.TempDir()
	moviesPath := writeFile(t, dir, "movies.csv", "movieId,title,genres\n1,Toy Story (1995),Adventure|Animation\n2,\"Heat (1995)\",Action\n")
	ratingsPath := writeFile(t, dir, "ratings.csv", "userId,movieId,rating,timestamp\n1,1,4.0,964982703\n1,2,,964981247\n")

	ds, err := dataset.Loader{MoviesPath: moviesPath, RatingsPath: ratingsPath}.Load(context.Background())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	wantCols := []string{"movieId", "title", "genres", "clean_title", "director", "plot", "box_office", "year"}
	if strings.Join(ds.Movies.Columns, ",") != strings.Join(wantCols, ",") {
		t.Fatalf("unexpected movie columns: %v", ds.Movies.Columns)
	}
	if got := ds.Movies.Value(0, "clean_title"); !got.Valid || got.String != "Toy Story" {
		t.Fatalf("unexpected clean title: %+v", got)
	}
	for _, col := range dataset.EnrichmentColumns {
		if ds.Movies.Value(1, col).Valid {
			t.Fatalf("expected %s to start absent", col)
		}
	}

	if ds.Ratings.Len() != 2 {
		t.Fatalf("expected 2 ratings, got %d", ds.Ratings.Len())
	}
	if strings.Join(ds.Ratings.Columns, ",") != "userId,movieId,rating,timestamp" {
		t.Fatalf("ratings schema should pass through, got %v", ds.Ratings.Columns)
	}
	if ds.Ratings.Value(1, "rating").Valid {
		t.Fatal("empty cell should load as absent")
	}

	records := dataset.Movies(ds.Movies)
	if len(records) != 2 || records[1].ID != "2" || records[1].CleanTitle != "Heat" || records[1].Genres != "Action" {
		t.Fatalf("unexpected records: %+v", records)
	}
	if !records[0].Enrichment.Empty() {
		t.Fatalf("expected empty enrichment, got %+v", records[0].Enrichment)
	}
}

func TestLoaderKeepsExistingEnrichmentColumns(t *testing.T) {
	dir := t.TempDir()
	moviesPath := writeFile(t, dir, "movies.csv", "title,Genres,year\nAlien (1979),Horror,1979\n")
	ratingsPath := writeFile(t, dir, "ratings.csv", "userId\n1\n")

	ds, err := dataset.Loader{MoviesPath: moviesPath, RatingsPath: ratingsPath}.Load(context.Background())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if got := ds.Movies.Value(0, "year"); !got.Valid || got.String != "1979" {
		t.Fatalf("existing year column should be kept, got %+v", got)
	}
	if n := len(ds.Movies.Columns); n != 7 {
		t.Fatalf("expected 7 columns (year not duplicated), got %v", ds.Movies.Columns)
	}
}

func TestLoaderRequiresColumns(t *testing.T) {
	dir := t.TempDir()
	moviesPath := writeFile(t, dir, "movies.csv", "movieId,title\n1,Alien (1979)\n")
	ratingsPath := writeFile(t, dir, "ratings.csv", "userId\n1\n")

	_, err := dataset.Loader{MoviesPath: moviesPath, RatingsPath: ratingsPath}.Load(context.Background())
	if !errors.Is(err, dataset.ErrMissingColumn) {
		t.Fatalf("expected ErrMissingColumn, got %v", err)
	}
}

func TestLoaderFailsOnMissingFile(t *testing.T) {
	dir := t.TempDir()
	moviesPath := writeFile(t, dir, "movies.csv", "title,genres\nA,B\n")
	_, err := dataset.Loader{MoviesPath: moviesPath, RatingsPath: filepath.Join(dir, "absent.csv")}.Load(context.Background())
	if err == nil || !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestParseCSVRejectsRaggedRows(t *testing.T) {
	_, err := dataset.ParseCSV(strings.NewReader("a,b\n1,2,3\n"), "bad", ',')
	if err == nil {
		t.Fatal("expected error for ragged row")
	}
}

func TestParseCSVEmptyInput(t *testing.T) {
	_, err := dataset.ParseCSV(strings.NewReader(""), "empty", ',')
	if !errors.Is(err, dataset.ErrEmptyInput) {
		t.Fatalf("expected ErrEmptyInput, got %v", err)
	}
}

func TestParseCSVStripsBOMAndHonoursDelimiter(t *testing.T) {
	table, err := dataset.ParseCSV(strings.NewReader("\ufefftitle\tgenres\nAlien\tHorror\n"), "tsv", '\t')
	if err != nil {
		t.Fatalf("ParseCSV returned error: %v", err)
	}
	if table.Columns[0] != "title" {
		t.Fatalf("expected BOM stripped, got %q", table.Columns[0])
	}
	if got := table.Value(0, "genres"); got.String != "Horror" {
		t.Fatalf("unexpected genres cell: %+v", got)
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}
