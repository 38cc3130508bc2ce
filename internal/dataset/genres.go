package dataset

import (
	"database/sql"
	"fmt"
	"strings"
)

// ExpandGenres explodes the delimited genre column into one row per
// (movie, genre) pair, copying every other column. A cell without the
// delimiter yields a single row, and an absent cell yields one row with an
// absent genre. The source table is not modified.
func ExpandGenres(t *Table, name, column, delimiter string) (*Table, error) {
	idx := t.ColumnIndex(column)
	if idx < 0 {
		return nil, fmt.Errorf("table %s: %w: %s", t.Name, ErrMissingColumn, column)
	}
	if delimiter == "" {
		return nil, fmt.Errorf("expand %s: genre delimiter must not be empty", t.Name)
	}

	out := NewTable(name, t.Columns...)
	out.Rows = make([][]sql.NullString, 0, len(t.Rows))
	for _, row := range t.Rows {
		cell := row[idx]
		if !cell.Valid {
			out.Rows = append(out.Rows, append([]sql.NullString(nil), row...))
			continue
		}
		for _, genre := range strings.Split(cell.String, delimiter) {
			expanded := append([]sql.NullString(nil), row...)
			expanded[idx] = Present(genre)
			out.Rows = append(out.Rows, expanded)
		}
	}
	return out, nil
}
