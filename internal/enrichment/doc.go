// Package enrichment resolves movie records against OMDb and merges the
// results back into the movie table.
//
// Resolve is a pure function from a title to a tagged Result. It tries a
// direct title lookup, falls back to a free-text search, and resolves the
// first search candidate by its IMDb identifier. The Enricher drives Resolve
// over the catalog strictly in order with a fixed pause between records, and
// stops the whole pass when OMDb reports that the daily quota is exhausted.
// The produced Report is merged into the table by the caller.
package enrichment
