package dataset

import (
	"database/sql"
	"fmt"

	"golang.org/x/text/cases"
)

// Cell is a nullable table value; Valid == false is the absent-value marker.
type Cell = sql.NullString

// Table is an in-memory relation: ordered column names and rows of nullable
// string cells. An invalid sql.NullString is the absent-value marker.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]sql.NullString
}

// NewTable returns an empty table with the given columns.
func NewTable(name string, columns ...string) *Table {
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &Table{Name: name, Columns: cols}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// ColumnIndex returns the position of the named column, matching names
// case-insensitively. It returns -1 when the column does not exist.
func (t *Table) ColumnIndex(name string) int {
	folder := cases.Fold()
	want := folder.String(name)
	for i, col := range t.Columns {
		if col == name {
			return i
		}
		if folder.String(col) == want {
			return i
		}
	}
	return -1
}

// HasColumn reports whether the named column exists.
func (t *Table) HasColumn(name string) bool {
	return t.ColumnIndex(name) >= 0
}

// EnsureColumn appends the named column, filled with absent values, when it
// does not already exist. The column index is returned either way.
func (t *Table) EnsureColumn(name string) int {
	if idx := t.ColumnIndex(name); idx >= 0 {
		return idx
	}
	t.Columns = append(t.Columns, name)
	for i := range t.Rows {
		t.Rows[i] = append(t.Rows[i], sql.NullString{})
	}
	return len(t.Columns) - 1
}

// AppendRow adds a row; its width must match the column count.
func (t *Table) AppendRow(cells []sql.NullString) error {
	if len(cells) != len(t.Columns) {
		return fmt.Errorf("table %s: row has %d cells, want %d", t.Name, len(cells), len(t.Columns))
	}
	t.Rows = append(t.Rows, cells)
	return nil
}

// Value returns the cell at (row, column name).
func (t *Table) Value(row int, column string) sql.NullString {
	idx := t.ColumnIndex(column)
	if idx < 0 || row < 0 || row >= len(t.Rows) {
		return sql.NullString{}
	}
	return t.Rows[row][idx]
}

// Set writes a cell, failing when the row or column does not exist.
func (t *Table) Set(row int, column string, value sql.NullString) error {
	idx := t.ColumnIndex(column)
	if idx < 0 {
		return fmt.Errorf("table %s: %w: %s", t.Name, ErrMissingColumn, column)
	}
	if row < 0 || row >= len(t.Rows) {
		return fmt.Errorf("table %s: row %d out of range (%d rows)", t.Name, row, len(t.Rows))
	}
	t.Rows[row][idx] = value
	return nil
}

// Clone returns a deep copy of the table under a new name.
func (t *Table) Clone(name string) *Table {
	out := NewTable(name, t.Columns...)
	out.Rows = make([][]sql.NullString, len(t.Rows))
	for i, row := range t.Rows {
		out.Rows[i] = append([]sql.NullString(nil), row...)
	}
	return out
}

// Present wraps a concrete value as a valid cell.
func Present(value string) sql.NullString {
	return sql.NullString{String: value, Valid: true}
}

// FromPtr converts an optional value into a cell; nil becomes absent.
func FromPtr(value *string) sql.NullString {
	if value == nil {
		return sql.NullString{}
	}
	return Present(*value)
}

// ToPtr converts a cell into an optional value; absent becomes nil.
func ToPtr(value sql.NullString) *string {
	if !value.Valid {
		return nil
	}
	s := value.String
	return &s
}
