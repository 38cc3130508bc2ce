package omdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	// NotAvailable is the placeholder OMDb returns for unknown fields.
	NotAvailable = "N/A"
	// RequestLimitReached is the Error message OMDb sends once the daily
	// request quota of the API key is used up.
	RequestLimitReached = "Request limit reached!"

	maxResponseBody = 1 << 20
)

// ErrEmptyQuery is returned when a lookup is attempted without a title or id.
var ErrEmptyQuery = errors.New("query must not be empty")

// SearchResult is one candidate from a free-text search.
type SearchResult struct {
	Title  string `json:"Title"`
	Year   string `json:"Year"`
	IMDbID string `json:"imdbID"`
	Type   string `json:"Type"`
	Poster string `json:"Poster"`
}

// Response models every OMDb answer: title and id lookups fill the record
// fields, searches fill Search. Response is "True" or "False"; Error
// explains a "False".
type Response struct {
	Response     string         `json:"Response"`
	Error        string         `json:"Error,omitempty"`
	Title        string         `json:"Title,omitempty"`
	Year         string         `json:"Year,omitempty"`
	Rated        string         `json:"Rated,omitempty"`
	Released     string         `json:"Released,omitempty"`
	Runtime      string         `json:"Runtime,omitempty"`
	Genre        string         `json:"Genre,omitempty"`
	Director     string         `json:"Director,omitempty"`
	Plot         string         `json:"Plot,omitempty"`
	BoxOffice    string         `json:"BoxOffice,omitempty"`
	IMDbID       string         `json:"imdbID,omitempty"`
	Type         string         `json:"Type,omitempty"`
	Search       []SearchResult `json:"Search,omitempty"`
	TotalResults string         `json:"totalResults,omitempty"`
}

// OK reports whether OMDb signalled success.
func (r *Response) OK() bool {
	return r != nil && r.Response == "True"
}

// QuotaExhausted reports whether OMDb refused the request because the API
// key's daily limit is spent.
func (r *Response) QuotaExhausted() bool {
	return r != nil && r.Error == RequestLimitReached
}

// LookupOptions narrows a title lookup.
type LookupOptions struct {
	Year int
}

// Searcher defines the OMDb operations used by enrichment.
type Searcher interface {
	LookupByTitle(ctx context.Context, title string, opts LookupOptions) (*Response, error)
	Search(ctx context.Context, query string) (*Response, error)
	LookupByID(ctx context.Context, imdbID string) (*Response, error)
}

// Client provides access to the OMDb API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

var _ Searcher = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout bounds every request. Non-positive values keep the default.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// WithRateLimit caps the request rate across all calls. A non-positive rate
// leaves requests unthrottled.
func WithRateLimit(perSecond float64) Option {
	return func(c *Client) {
		if perSecond > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
		}
	}
}

// New creates an OMDb client.
func New(apiKey, baseURL string, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("omdb api key required")
	}
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("omdb base url required")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("parse omdb url: %w", err)
	}
	client := &Client{
		apiKey:     apiKey,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// LookupByTitle fetches the single best OMDb match for title, optionally
// restricted to a release year.
func (c *Client) LookupByTitle(ctx context.Context, title string, opts LookupOptions) (*Response, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyQuery
	}
	params := url.Values{}
	params.Set("t", title)
	if opts.Year > 0 {
		params.Set("y", strconv.Itoa(opts.Year))
	}
	return c.get(ctx, "title lookup", params)
}

// Search runs a free-text search and returns the candidate list.
func (c *Client) Search(ctx context.Context, query string) (*Response, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	params := url.Values{}
	params.Set("s", query)
	return c.get(ctx, "search", params)
}

// LookupByID resolves one IMDb identifier to its full record.
func (c *Client) LookupByID(ctx context.Context, imdbID string) (*Response, error) {
	imdbID = strings.TrimSpace(imdbID)
	if imdbID == "" {
		return nil, ErrEmptyQuery
	}
	params := url.Values{}
	params.Set("i", imdbID)
	return c.get(ctx, "id lookup", params)
}

func (c *Client) get(ctx context.Context, operation string, params url.Values) (*Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("omdb %s: wait for rate limiter: %w", operation, err)
		}
	}

	endpoint, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse omdb url: %w", err)
	}
	query := endpoint.Query()
	for key, values := range params {
		query[key] = values
	}
	query.Set("apikey", c.apiKey)
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return nil, fmt.Errorf("omdb %s: execute request (latency=%v): %w", operation, latency, redactKey(err, c.apiKey))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return nil, fmt.Errorf("omdb %s: read body (latency=%v): %w", operation, latency, err)
	}

	// OMDb reports quota exhaustion and invalid keys as 401 with a regular
	// JSON payload, so the body is decoded before the status is judged.
	var payload Response
	decodeErr := json.Unmarshal(body, &payload)
	if decodeErr == nil && payload.Response != "" {
		return &payload, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("omdb %s returned %d (latency=%v)", operation, resp.StatusCode, latency)
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("omdb %s: decode response: %w", operation, decodeErr)
	}
	return nil, fmt.Errorf("omdb %s: response missing Response field", operation)
}

// redactKey strips the API key from URL errors so it never reaches logs.
func redactKey(err error, apiKey string) error {
	var urlErr *url.Error
	if !errors.As(err, &urlErr) || apiKey == "" {
		return err
	}
	redacted := *urlErr
	redacted.URL = strings.ReplaceAll(redacted.URL, url.QueryEscape(apiKey), "REDACTED")
	return &redacted
}
