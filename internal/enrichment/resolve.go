package enrichment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"moviepipe/internal/dataset"
	"moviepipe/internal/enrichment/omdb"
)

// Outcome classifies how a single record was resolved.
type Outcome string

const (
	// OutcomeResolved means OMDb returned a full record.
	OutcomeResolved Outcome = "resolved"
	// OutcomeNotFound covers no match, an empty search, and transport failures.
	OutcomeNotFound Outcome = "not_found"
	// OutcomeQuotaExhausted is a control signal: stop issuing lookups.
	OutcomeQuotaExhausted Outcome = "quota_exhausted"
)

// Via records which tier of the chain produced a resolution.
type Via string

const (
	ViaDirect Via = "direct"
	ViaSearch Via = "search"
)

// Result is the tagged outcome of resolving one title.
type Result struct {
	Outcome Outcome
	Details dataset.Enrichment
	Via     Via
	IMDbID  string
	// Err is the swallowed failure behind an OutcomeNotFound, if any.
	Err error
}

// Resolve looks title up through the three-tier chain: direct title lookup,
// then free-text search, then lookup by the first candidate's identifier.
// Failures never escape; they are reported as OutcomeNotFound with Err set.
func Resolve(ctx context.Context, client omdb.Searcher, title string, opts omdb.LookupOptions) Result {
	if client == nil {
		return notFound(errors.New("omdb client unavailable"))
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return notFound(omdb.ErrEmptyQuery)
	}

	resp, err := client.LookupByTitle(ctx, title, opts)
	if err != nil {
		return notFound(err)
	}
	if resp.QuotaExhausted() {
		return Result{Outcome: OutcomeQuotaExhausted}
	}
	if resp.OK() {
		return resolved(resp, ViaDirect)
	}

	search, err := client.Search(ctx, title)
	if err != nil {
		return notFound(err)
	}
	if search.QuotaExhausted() {
		return Result{Outcome: OutcomeQuotaExhausted}
	}
	if !search.OK() || len(search.Search) == 0 {
		return Result{Outcome: OutcomeNotFound}
	}

	candidate := strings.TrimSpace(search.Search[0].IMDbID)
	if candidate == "" {
		return notFound(fmt.Errorf("search candidate %q has no identifier", search.Search[0].Title))
	}
	resp, err = client.LookupByID(ctx, candidate)
	if err != nil {
		return notFound(err)
	}
	if resp.QuotaExhausted() {
		return Result{Outcome: OutcomeQuotaExhausted}
	}
	if !resp.OK() {
		return Result{Outcome: OutcomeNotFound, IMDbID: candidate}
	}
	return resolved(resp, ViaSearch)
}

// Normalize maps OMDb placeholders ("N/A", blank) to the absent marker.
func Normalize(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" || value == omdb.NotAvailable {
		return nil
	}
	return &value
}

// DetailsFrom extracts the four enrichment fields from an OMDb record.
func DetailsFrom(resp *omdb.Response) dataset.Enrichment {
	if resp == nil {
		return dataset.Enrichment{}
	}
	return dataset.Enrichment{
		Director:  Normalize(resp.Director),
		Plot:      Normalize(resp.Plot),
		BoxOffice: Normalize(resp.BoxOffice),
		Year:      Normalize(resp.Year),
	}
}

func resolved(resp *omdb.Response, via Via) Result {
	return Result{
		Outcome: OutcomeResolved,
		Details: DetailsFrom(resp),
		Via:     via,
		IMDbID:  strings.TrimSpace(resp.IMDbID),
	}
}

func notFound(err error) Result {
	return Result{Outcome: OutcomeNotFound, Err: err}
}
