package dataset

import (
	"fmt"
	"strings"
)

// Enrichment holds the four metadata fields filled by a lookup. A nil field
// is the absent-value marker.
type Enrichment struct {
	Director  *string
	Plot      *string
	BoxOffice *string
	Year      *string
}

// Empty reports whether no field carries a value.
func (e Enrichment) Empty() bool {
	return e.Director == nil && e.Plot == nil && e.BoxOffice == nil && e.Year == nil
}

// MovieRecord is a read-only view of one movie row.
type MovieRecord struct {
	Row        int // zero-based index into the movie table
	ID         string
	Title      string
	CleanTitle string
	Genres     string
	Enrichment Enrichment
}

// Movies returns one record per movie row, in table order. The table must
// have been prepared with PrepareMovies.
func Movies(t *Table) []MovieRecord {
	idIdx := t.ColumnIndex(ColumnMovieID)
	titleIdx := t.ColumnIndex(ColumnTitle)
	cleanIdx := t.ColumnIndex(ColumnCleanTitle)
	genresIdx := t.ColumnIndex(ColumnGenres)
	cell := func(row []string, idx int) string {
		if idx < 0 {
			return ""
		}
		return row[idx]
	}

	records := make([]MovieRecord, 0, len(t.Rows))
	for i, row := range t.Rows {
		values := make([]string, len(row))
		for j, c := range row {
			values[j] = c.String
		}
		records = append(records, MovieRecord{
			Row:        i,
			ID:         cell(values, idIdx),
			Title:      cell(values, titleIdx),
			CleanTitle: cell(values, cleanIdx),
			Genres:     cell(values, genresIdx),
			Enrichment: Enrichment{
				Director:  ToPtr(t.Value(i, ColumnDirector)),
				Plot:      ToPtr(t.Value(i, ColumnPlot)),
				BoxOffice: ToPtr(t.Value(i, ColumnBoxOffice)),
				Year:      ToPtr(t.Value(i, ColumnYear)),
			},
		})
	}
	return records
}

// ApplyEnrichment writes all four fields of e into the given movie row,
// overwriting whatever the row held.
func ApplyEnrichment(t *Table, row int, e Enrichment) error {
	fields := []struct {
		column string
		value  *string
	}{
		{ColumnDirector, e.Director},
		{ColumnPlot, e.Plot},
		{ColumnBoxOffice, e.BoxOffice},
		{ColumnYear, e.Year},
	}
	for _, f := range fields {
		if err := t.Set(row, f.column, FromPtr(f.value)); err != nil {
			return fmt.Errorf("apply %s: %w", f.column, err)
		}
	}
	return nil
}

// Label returns a short human-readable identifier for logs.
func (m MovieRecord) Label() string {
	if title := strings.TrimSpace(m.CleanTitle); title != "" {
		return title
	}
	if m.ID != "" {
		return "movie " + m.ID
	}
	return fmt.Sprintf("row %d", m.Row+1)
}
