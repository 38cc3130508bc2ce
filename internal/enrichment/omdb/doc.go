// Package omdb provides the minimal Open Movie Database client used during
// enrichment.
//
// It exposes the three query shapes the enricher needs: lookup by title
// (with an optional year), free-text search, and lookup by IMDb identifier.
// Every request carries the API key and a bounded timeout. Responses are
// decoded into a single Response type whose OK and QuotaExhausted helpers
// classify the outcome; OMDb answers errors with JSON bodies even on
// non-2xx statuses, so those are returned as responses rather than errors.
package omdb
