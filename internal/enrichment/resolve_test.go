package enrichment_test

import (
	"context"
	"errors"
	"testing"

	"moviepipe/internal/enrichment"
	"moviepipe/internal/enrichment/omdb"
)

// fakeSearcher answers from fixed maps and records every call.
type fakeSearcher struct {
	byTitle map[string]*omdb.Response
	search  map[string]*omdb.Response
	byID    map[string]*omdb.Response
	errs    map[string]error
	calls   []string
}

func (f *fakeSearcher) LookupByTitle(_ context.Context, title string, opts omdb.LookupOptions) (*omdb.Response, error) {
	call := "t:" + title
	if opts.Year > 0 {
		call += "@year"
	}
	return f.answer(call, f.byTitle[title])
}

func (f *fakeSearcher) Search(_ context.Context, query string) (*omdb.Response, error) {
	return f.answer("s:"+query, f.search[query])
}

func (f *fakeSearcher) LookupByID(_ context.Context, id string) (*omdb.Response, error) {
	return f.answer("i:"+id, f.byID[id])
}

func (f *fakeSearcher) answer(call string, resp *omdb.Response) (*omdb.Response, error) {
	f.calls = append(f.calls, call)
	if err := f.errs[call]; err != nil {
		return nil, err
	}
	if resp == nil {
		return &omdb.Response{Response: "False", Error: "Movie not found!"}, nil
	}
	return resp, nil
}

func found(title, director, plot, boxOffice, year string) *omdb.Response {
	return &omdb.Response{
		Response:  "True",
		Title:     title,
		Director:  director,
		Plot:      plot,
		BoxOffice: boxOffice,
		Year:      year,
		IMDbID:    "tt" + title,
	}
}

func quota() *omdb.Response {
	return &omdb.Response{Response: "False", Error: omdb.RequestLimitReached}
}

func TestResolveDirectHit(t *testing.T) {
	client := &fakeSearcher{byTitle: map[string]*omdb.Response{
		"Toy Story": found("Toy Story", "John Lasseter", "Toys come alive.", "$223,225,679", "1995"),
	}}

	res := enrichment.Resolve(context.Background(), client, "Toy Story", omdb.LookupOptions{})
	if res.Outcome != enrichment.OutcomeResolved || res.Via != enrichment.ViaDirect {
		t.Fatalf("unexpected result: %+v", res)
	}
	if got := deref(res.Details.Director); got != "John Lasseter" {
		t.Fatalf("unexpected director %q", got)
	}
	if got := deref(res.Details.Year); got != "1995" {
		t.Fatalf("unexpected year %q", got)
	}
	if len(client.calls) != 1 {
		t.Fatalf("expected a single request, got %v", client.calls)
	}
}

func TestResolveFallbackUsesRecordByIdentifier(t *testing.T) {
	client := &fakeSearcher{
		search: map[string]*omdb.Response{
			"Heat": {Response: "True", Search: []omdb.SearchResult{
				{Title: "Heat (search entry)", Year: "1900", IMDbID: "tt0113277"},
				{Title: "Heat 2", IMDbID: "tt9999999"},
			}},
		},
		byID: map[string]*omdb.Response{
			"tt0113277": {Response: "True", Title: "Heat", Director: "Michael Mann", Plot: "A heist.", BoxOffice: "N/A", Year: "1995", IMDbID: "tt0113277"},
		},
	}

	res := enrichment.Resolve(context.Background(), client, "Heat", omdb.LookupOptions{})
	if res.Outcome != enrichment.OutcomeResolved || res.Via != enrichment.ViaSearch {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res.IMDbID != "tt0113277" {
		t.Fatalf("expected first candidate, got %q", res.IMDbID)
	}
	if got := deref(res.Details.Year); got != "1995" {
		t.Fatalf("expected year from by-id record, got %q", got)
	}
	if res.Details.BoxOffice != nil {
		t.Fatalf("expected N/A box office to be absent, got %q", *res.Details.BoxOffice)
	}
	want := []string{"t:Heat", "s:Heat", "i:tt0113277"}
	if len(client.calls) != len(want) {
		t.Fatalf("unexpected calls %v", client.calls)
	}
	for i := range want {
		if client.calls[i] != want[i] {
			t.Fatalf("call %d: got %q want %q", i, client.calls[i], want[i])
		}
	}
}

func TestResolveEmptySearchIsNotFound(t *testing.T) {
	client := &fakeSearcher{search: map[string]*omdb.Response{
		"Nothing": {Response: "False", Error: "Movie not found!"},
	}}

	res := enrichment.Resolve(context.Background(), client, "Nothing", omdb.LookupOptions{})
	if res.Outcome != enrichment.OutcomeNotFound {
		t.Fatalf("expected not found, got %+v", res)
	}
	if res.Err != nil {
		t.Fatalf("expected no error for an empty search, got %v", res.Err)
	}
	if !res.Details.Empty() {
		t.Fatalf("expected absent details, got %+v", res.Details)
	}
}

func TestResolveSearchCandidateMissingRecord(t *testing.T) {
	client := &fakeSearcher{search: map[string]*omdb.Response{
		"Ghost": {Response: "True", Search: []omdb.SearchResult{{Title: "Ghost", IMDbID: "tt0099653"}}},
	}}

	res := enrichment.Resolve(context.Background(), client, "Ghost", omdb.LookupOptions{})
	if res.Outcome != enrichment.OutcomeNotFound {
		t.Fatalf("expected not found, got %+v", res)
	}
}

func TestResolveQuotaAnywhereInChain(t *testing.T) {
	tests := []struct {
		name   string
		client *fakeSearcher
	}{
		{"direct", &fakeSearcher{byTitle: map[string]*omdb.Response{"X": quota()}}},
		{"search", &fakeSearcher{search: map[string]*omdb.Response{"X": quota()}}},
		{"by id", &fakeSearcher{
			search: map[string]*omdb.Response{"X": {Response: "True", Search: []omdb.SearchResult{{IMDbID: "tt1"}}}},
			byID:   map[string]*omdb.Response{"tt1": quota()},
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res := enrichment.Resolve(context.Background(), tc.client, "X", omdb.LookupOptions{})
			if res.Outcome != enrichment.OutcomeQuotaExhausted {
				t.Fatalf("expected quota exhausted, got %+v", res)
			}
		})
	}
}

func TestResolveSwallowsTransportErrors(t *testing.T) {
	boom := errors.New("connection reset")
	client := &fakeSearcher{errs: map[string]error{"t:Broken": boom}}

	res := enrichment.Resolve(context.Background(), client, "Broken", omdb.LookupOptions{})
	if res.Outcome != enrichment.OutcomeNotFound {
		t.Fatalf("expected not found, got %+v", res)
	}
	if !errors.Is(res.Err, boom) {
		t.Fatalf("expected wrapped transport error, got %v", res.Err)
	}
	if len(client.calls) != 1 {
		t.Fatalf("expected the chain to stop after the failure, got %v", client.calls)
	}
}

func TestResolveEmptyTitleSkipsNetwork(t *testing.T) {
	client := &fakeSearcher{}
	res := enrichment.Resolve(context.Background(), client, "   ", omdb.LookupOptions{})
	if res.Outcome != enrichment.OutcomeNotFound || !errors.Is(res.Err, omdb.ErrEmptyQuery) {
		t.Fatalf("unexpected result: %+v", res)
	}
	if len(client.calls) != 0 {
		t.Fatalf("expected no requests, got %v", client.calls)
	}
}

func TestResolvePassesYear(t *testing.T) {
	client := &fakeSearcher{}
	enrichment.Resolve(context.Background(), client, "Heat", omdb.LookupOptions{Year: 1995})
	if len(client.calls) == 0 || client.calls[0] != "t:Heat@year" {
		t.Fatalf("expected year on direct lookup, got %v", client.calls)
	}
}

func TestNormalize(t *testing.T) {
	for _, in := range []string{"", "  ", "N/A", " N/A "} {
		if got := enrichment.Normalize(in); got != nil {
			t.Fatalf("Normalize(%q) = %q, want nil", in, *got)
		}
	}
	if got := enrichment.Normalize(" Michael Mann "); got == nil || *got != "Michael Mann" {
		t.Fatalf("unexpected normalized value: %v", got)
	}
}

func deref(s *string) string {
	if s == nil {
		return "<nil>"
	}
	return *s
}
