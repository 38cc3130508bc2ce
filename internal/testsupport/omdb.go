package testsupport

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"moviepipe/internal/enrichment/omdb"
)

// FakeOMDb is an httptest server speaking the OMDb query protocol.
type FakeOMDb struct {
	Server *httptest.Server

	mu       sync.Mutex
	titles   map[string]omdb.Response
	searches map[string][]omdb.SearchResult
	ids      map[string]omdb.Response
	quota    map[string]bool
	requests []string
}

// NewFakeOMDb starts a fake server and closes it when the test ends.
func NewFakeOMDb(t testing.TB) *FakeOMDb {
	t.Helper()

	f := &FakeOMDb{
		titles:   map[string]omdb.Response{},
		searches: map[string][]omdb.SearchResult{},
		ids:      map[string]omdb.Response{},
		quota:    map[string]bool{},
	}
	f.Server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.Server.Close)
	return f
}

// URL returns the base URL to configure the client with.
func (f *FakeOMDb) URL() string {
	return f.Server.URL + "/"
}

// AddTitle registers a record answered by a direct title lookup.
func (f *FakeOMDb) AddTitle(title string, resp omdb.Response) {
	f.mu.Lock()
	defer f.mu.Unlock()
	resp.Response = "True"
	f.titles[title] = resp
}

// AddSearch registers candidates for a free-text search and the records
// answered by identifier lookups.
func (f *FakeOMDb) AddSearch(query string, candidates []omdb.SearchResult, records ...omdb.Response) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searches[query] = candidates
	for _, rec := range records {
		rec.Response = "True"
		f.ids[rec.IMDbID] = rec
	}
}

// ExhaustQuotaAt makes every request mentioning the title fail with the
// daily limit error.
func (f *FakeOMDb) ExhaustQuotaAt(title string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.quota[title] = true
}

// Requests returns the query strings received so far.
func (f *FakeOMDb) Requests() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.requests...)
}

func (f *FakeOMDb) serve(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f.mu.Lock()
	f.requests = append(f.requests, r.URL.RawQuery)
	title, search, id := q.Get("t"), q.Get("s"), q.Get("i")
	var (
		status = http.StatusOK
		resp   = omdb.Response{Response: "False", Error: "Movie not found!"}
	)
	switch {
	case f.quota[title] || f.quota[search]:
		status = http.StatusUnauthorized
		resp = omdb.Response{Response: "False", Error: omdb.RequestLimitReached}
	case title != "":
		if rec, ok := f.titles[title]; ok {
			resp = rec
		}
	case search != "":
		if candidates, ok := f.searches[search]; ok && len(candidates) > 0 {
			resp = omdb.Response{Response: "True", Search: candidates}
		}
	case id != "":
		if rec, ok := f.ids[id]; ok {
			resp = rec
		} else {
			resp = omdb.Response{Response: "False", Error: "Incorrect IMDb ID."}
		}
	}
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}
