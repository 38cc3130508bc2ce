package dataset_test

import (
	"testing"

	"moviepipe/internal/dataset"
)

func TestExpandGenres(t *testing.T) {
	movies := dataset.NewTable("movies", "movieId", "title", "genres", "director")
	mustAppend(t, movies, "1", "Toy Story", "Action|Comedy", "John Lasseter")
	mustAppend(t, movies, "2", "Heat", "Crime", "")
	mustAppend(t, movies, "3", "Unknown", "", "")

	expanded, err := dataset.ExpandGenres(movies, "movies_expanded", "genres", "|")
	if err != nil {
		t.Fatalf("ExpandGenres returned error: %v", err)
	}
	if expanded.Name != "movies_expanded" {
		t.Fatalf("unexpected name: %q", expanded.Name)
	}
	if expanded.Len() != 4 {
		t.Fatalf("expected 4 rows, got %d", expanded.Len())
	}

	first, second := expanded.Rows[0], expanded.Rows[1]
	if expanded.Value(0, "genres").String != "Action" || expanded.Value(1, "genres").String != "Comedy" {
		t.Fatalf("unexpected genres: %v / %v", first, second)
	}
	for i := range first {
		if expanded.Columns[i] == "genres" {
			continue
		}
		if first[i] != second[i] {
			t.Fatalf("column %s differs between expanded rows", expanded.Columns[i])
		}
	}
	if got := expanded.Value(2, "genres"); got.String != "Crime" {
		t.Fatalf("single genre should yield one row, got %+v", got)
	}
	if expanded.Value(3, "genres").Valid {
		t.Fatal("absent genre should stay absent")
	}

	if movies.Len() != 3 || movies.Value(0, "genres").String != "Action|Comedy" {
		t.Fatal("source table must not be modified")
	}
}

func TestExpandGenresMissingColumn(t *testing.T) {
	movies := dataset.NewTable("movies", "title")
	if _, err := dataset.ExpandGenres(movies, "x", "genres", "|"); err == nil {
		t.Fatal("expected error for missing column")
	}
}

func TestEnsureColumnAndCaseInsensitiveLookup(t *testing.T) {
	table := dataset.NewTable("movies", "Title")
	mustAppend(t, table, "Alien")

	if idx := table.ColumnIndex("TITLE"); idx != 0 {
		t.Fatalf("expected case-insensitive match, got %d", idx)
	}
	idx := table.EnsureColumn("plot")
	if idx != 1 || len(table.Rows[0]) != 2 || table.Rows[0][1].Valid {
		t.Fatalf("EnsureColumn should append an absent column, got %v", table.Rows[0])
	}
	if again := table.EnsureColumn("Plot"); again != 1 {
		t.Fatalf("EnsureColumn should be idempotent, got %d", again)
	}
}

func TestApplyEnrichment(t *testing.T) {
	table := dataset.NewTable("movies", "title", "genres")
	mustAppend(t, table, "Alien (1979)", "Horror")
	if err := dataset.PrepareMovies(table); err != nil {
		t.Fatalf("PrepareMovies returned error: %v", err)
	}

	director := "Ridley Scott"
	year := "1979"
	if err := dataset.ApplyEnrichment(table, 0, dataset.Enrichment{Director: &director, Year: &year}); err != nil {
		t.Fatalf("ApplyEnrichment returned error: %v", err)
	}
	if got := table.Value(0, "director"); got.String != director || !got.Valid {
		t.Fatalf("unexpected director: %+v", got)
	}
	if table.Value(0, "plot").Valid || table.Value(0, "box_office").Valid {
		t.Fatal("nil fields should stay absent")
	}
	if err := dataset.ApplyEnrichment(table, 5, dataset.Enrichment{}); err == nil {
		t.Fatal("expected error for out of range row")
	}
}

func mustAppend(t *testing.T, table *dataset.Table, values ...string) {
	t.Helper()
	cells := make([]dataset.Cell, len(values))
	for i, v := range values {
		if v != "" {
			cells[i] = dataset.Present(v)
		}
	}
	if err := table.AppendRow(cells); err != nil {
		t.Fatalf("AppendRow: %v", err)
	}
}
