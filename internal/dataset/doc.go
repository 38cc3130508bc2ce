// Package dataset loads the movie catalog and rating events into in-memory
// tables and derives the views the rest of the pipeline works on.
//
// Tables are deliberately untyped: every cell is a nullable string, so input
// columns the pipeline does not know about are carried through to the store
// unchanged. The movie table gains a clean_title column (the title with its
// parenthesized year removed) and four nullable enrichment columns at load
// time. ExpandGenres produces the one-row-per-genre table written next to
// the movies.
package dataset
