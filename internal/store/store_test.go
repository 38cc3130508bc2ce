package store_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"moviepipe/internal/config"
	"moviepipe/internal/dataset"
	"moviepipe/internal/logging"
	"moviepipe/internal/store"
)

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	cfg := config.Store{Driver: "sqlite", DSN: filepath.Join(t.TempDir(), "nested", "movies.db")}
	s, err := store.Open(context.Background(), cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func cell(v string) dataset.Cell { return dataset.Present(v) }

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := store.Open(context.Background(), config.Store{Driver: "oracle", DSN: "x"}, nil)
	if err == nil {
		t.Fatal("expected unsupported driver error")
	}
}

func TestOpenRejectsBadMySQLDSN(t *testing.T) {
	_, err := store.Open(context.Background(), config.Store{Driver: "mysql", DSN: "not a dsn"}, nil)
	if err == nil {
		t.Fatal("expected dsn parse error")
	}
}

func TestReplaceTableInfersTypesAndNulls(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	table := dataset.NewTable("ratings", "userId", "rating", "note")
	rows := [][]dataset.Cell{
		{cell("1"), cell("4.5"), cell("great")},
		{cell("2"), cell("3"), {}},
	}
	for _, r := range rows {
		if err := table.AppendRow(r); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	n, err := s.ReplaceTable(ctx, "ratings", table)
	if err != nil {
		t.Fatalf("ReplaceTable returned error: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 rows written, got %d", n)
	}

	types := map[string]string{}
	rowsInfo, err := s.DB().QueryContext(ctx, `SELECT name, type FROM pragma_table_info('ratings')`)
	if err != nil {
		t.Fatalf("table info: %v", err)
	}
	defer rowsInfo.Close()
	for rowsInfo.Next() {
		var name, typ string
		if err := rowsInfo.Scan(&name, &typ); err != nil {
			t.Fatalf("scan: %v", err)
		}
		types[name] = typ
	}
	if types["userId"] != "INTEGER" || types["rating"] != "REAL" || types["note"] != "TEXT" {
		t.Fatalf("unexpected column types: %v", types)
	}

	var note sql.NullString
	if err := s.DB().QueryRowContext(ctx, `SELECT note FROM ratings WHERE userId = 2`).Scan(&note); err != nil {
		t.Fatalf("select: %v", err)
	}
	if note.Valid {
		t.Fatalf("expected NULL note, got %q", note.String)
	}
}

func TestReplaceTableOverwritesPreviousContents(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	first := dataset.NewTable("movies", "title")
	_ = first.AppendRow([]dataset.Cell{cell("A")})
	_ = first.AppendRow([]dataset.Cell{cell("B")})
	if _, err := s.ReplaceTable(ctx, "movies", first); err != nil {
		t.Fatalf("first write: %v", err)
	}

	second := dataset.NewTable("movies", "title", "year")
	_ = second.AppendRow([]dataset.Cell{cell("C"), cell("1999")})
	if _, err := s.ReplaceTable(ctx, "movies", second); err != nil {
		t.Fatalf("second write: %v", err)
	}

	n, err := s.CountRows(ctx, "movies")
	if err != nil {
		t.Fatalf("CountRows: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected full replacement, got %d rows", n)
	}
}

func TestWriteDatasetWritesThreeRelations(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	movies := dataset.NewTable("movies", dataset.ColumnMovieID, dataset.ColumnTitle, dataset.ColumnGenres)
	_ = movies.AppendRow([]dataset.Cell{cell("1"), cell("Toy Story (1995)"), cell("Adventure|Animation|Children")})
	_ = movies.AppendRow([]dataset.Cell{cell("2"), cell("Heat (1995)"), cell("Crime")})
	ratings := dataset.NewTable("ratings", "userId", "movieId", "rating")
	_ = ratings.AppendRow([]dataset.Cell{cell("1"), cell("1"), cell("4.0")})

	names := store.Tables{Movies: "movies", Ratings: "ratings", Expanded: "movies_expanded"}
	res, err := s.WriteDataset(ctx, movies, ratings, names, "|")
	if err != nil {
		t.Fatalf("WriteDataset returned error: %v", err)
	}
	if res.Movies != 2 || res.Ratings != 1 || res.Expanded != 4 {
		t.Fatalf("unexpected write result: %+v", res)
	}

	var genres []string
	rows, err := s.DB().QueryContext(ctx, `SELECT genres FROM movies_expanded WHERE movieId = 1 ORDER BY rowid`)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	defer rows.Close()
	for rows.Next() {
		var g string
		if err := rows.Scan(&g); err != nil {
			t.Fatalf("scan: %v", err)
		}
		genres = append(genres, g)
	}
	if len(genres) != 3 || genres[0] != "Adventure" || genres[2] != "Children" {
		t.Fatalf("unexpected expanded genres: %v", genres)
	}
}

func TestReplaceTableQuotesIdentifiers(t *testing.T) {
	s := openTestStore(t)
	table := dataset.NewTable("odd", "select", `we"ird`)
	_ = table.AppendRow([]dataset.Cell{cell("x"), cell("y")})
	if _, err := s.ReplaceTable(context.Background(), "order", table); err != nil {
		t.Fatalf("ReplaceTable with reserved names: %v", err)
	}
	n, err := s.CountRows(context.Background(), "order")
	if err != nil || n != 1 {
		t.Fatalf("expected one row, got %d (%v)", n, err)
	}
}
