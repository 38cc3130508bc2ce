package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"moviepipe/internal/dataset"
	"moviepipe/internal/logging"
)

// Tables names the three relations written by WriteDataset.
type Tables struct {
	Movies   string
	Ratings  string
	Expanded string
}

// WriteResult reports the rows written per relation.
type WriteResult struct {
	Movies   int
	Ratings  int
	Expanded int
}

// WriteDataset replaces the movie, rating and genre-expansion relations.
// Each relation is replaced independently; a failure leaves earlier
// relations written.
func (s *Store) WriteDataset(ctx context.Context, movies, ratings *dataset.Table, names Tables, genreDelimiter string) (*WriteResult, error) {
	if movies == nil || ratings == nil {
		return nil, fmt.Errorf("write dataset: movies and ratings tables are required")
	}
	result := &WriteResult{}

	var err error
	if result.Movies, err = s.ReplaceTable(ctx, names.Movies, movies); err != nil {
		return result, err
	}
	if result.Ratings, err = s.ReplaceTable(ctx, names.Ratings, ratings); err != nil {
		return result, err
	}

	expanded, err := dataset.ExpandGenres(movies, names.Expanded, dataset.ColumnGenres, genreDelimiter)
	if err != nil {
		return result, fmt.Errorf("expand genres: %w", err)
	}
	if result.Expanded, err = s.ReplaceTable(ctx, names.Expanded, expanded); err != nil {
		return result, err
	}
	return result, nil
}

// ReplaceTable drops the named relation if present, recreates it from the
// table's columns and inserts every row in a single transaction. Absent
// cells are stored as NULL.
func (s *Store) ReplaceTable(ctx context.Context, name string, t *dataset.Table) (int, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = t.Name
	}
	if len(t.Columns) == 0 {
		return 0, fmt.Errorf("replace %s: table has no columns", name)
	}
	start := time.Now()
	affinities := inferAffinities(t)
	quoted := s.dialect.quoteIdent(name)

	if _, err := s.db.ExecContext(ctx, "DROP TABLE IF EXISTS "+quoted); err != nil {
		return 0, fmt.Errorf("drop %s: %w", name, err)
	}

	defs := make([]string, len(t.Columns))
	cols := make([]string, len(t.Columns))
	placeholders := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		cols[i] = s.dialect.quoteIdent(col)
		defs[i] = cols[i] + " " + s.dialect.columnType(affinities[i])
		placeholders[i] = "?"
	}
	create := fmt.Sprintf("CREATE TABLE %s (%s)", quoted, strings.Join(defs, ", "))
	if _, err := s.db.ExecContext(ctx, create); err != nil {
		return 0, fmt.Errorf("create %s: %w", name, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin %s: %w", name, err)
	}
	defer func() { _ = tx.Rollback() }()

	insert := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", quoted, strings.Join(cols, ", "), strings.Join(placeholders, ", "))
	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		return 0, fmt.Errorf("prepare insert %s: %w", name, err)
	}
	defer stmt.Close()

	args := make([]any, len(t.Columns))
	for rowIdx, row := range t.Rows {
		for i, cell := range row {
			args[i] = bindValue(cell, affinities[i])
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return 0, fmt.Errorf("insert %s row %d: %w", name, rowIdx+1, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit %s: %w", name, err)
	}

	s.logger.Info("table replaced",
		logging.String(logging.FieldTable, name),
		logging.Int("rows", len(t.Rows)),
		logging.Duration("elapsed", time.Since(start)),
	)
	return len(t.Rows), nil
}

// CountRows returns the number of rows in the named relation.
func (s *Store) CountRows(ctx context.Context, name string) (int, error) {
	var n int
	query := "SELECT COUNT(*) FROM " + s.dialect.quoteIdent(name)
	if err := s.db.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", name, err)
	}
	return n, nil
}

func inferAffinities(t *dataset.Table) []affinity {
	out := make([]affinity, len(t.Columns))
	seen := make([]bool, len(t.Columns))
	for _, row := range t.Rows {
		for i, cell := range row {
			if !cell.Valid {
				continue
			}
			out[i] = narrow(out[i], seen[i], cell.String)
			seen[i] = true
		}
	}
	return out
}

func bindValue(cell sql.NullString, a affinity) any {
	if !cell.Valid {
		return nil
	}
	switch a {
	case affinityInteger:
		if n, ok := parseInteger(cell.String); ok {
			return n
		}
	case affinityReal:
		if f, ok := parseReal(cell.String); ok {
			return f
		}
	}
	return cell.String
}
