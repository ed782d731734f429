package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"cinefile/internal/services"
)

// PlaceholderAPIKey is the sample-config value that must never reach the API.
const PlaceholderAPIKey = "YOUR_TMDB_API_KEY"

// DefaultTimeout bounds a single request.
const DefaultTimeout = 15 * time.Second

// Searcher defines the TMDB operations used by the metadata layer.
type Searcher interface {
	SearchMovie(ctx context.Context, query string, opts SearchOptions) (*SearchResponse, error)
	MovieDetails(ctx context.Context, movieID int64) (*MovieDetails, error)
	MovieCredits(ctx context.Context, movieID int64) (*Credits, error)
}

// Client provides access to the TMDB API.
type Client struct {
	apiKey     string
	baseURL    string
	language   string
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

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// WithRateLimit paces requests to rps per second. Zero or negative disables
// pacing.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		burst := int(rps)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// New creates a TMDB client. An empty key is accepted here; requests fail
// with services.ErrAuth until a usable key is configured.
func New(apiKey, baseURL, language string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, services.Wrap(services.ErrConfiguration, "tmdb", "new client", "base url required", nil)
	}
	client := &Client{
		apiKey:     strings.TrimSpace(apiKey),
		baseURL:    strings.TrimRight(baseURL, "/"),
		language:   strings.TrimSpace(language),
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// HasCredential reports whether the configured key can be sent.
func (c *Client) HasCredential() bool {
	return UsableKey(c.apiKey)
}

// UsableKey reports whether key is neither empty nor the sample placeholder.
func UsableKey(key string) bool {
	key = strings.TrimSpace(key)
	return key != "" && key != PlaceholderAPIKey
}

// SearchMovie searches movies by title. Only the first page is requested.
func (c *Client) SearchMovie(ctx context.Context, query string, opts SearchOptions) (*SearchResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, services.Wrap(services.ErrValidation, "tmdb", "search movie", "query must not be empty", nil)
	}
	params := url.Values{}
	params.Set("query", query)
	if opts.Year > 0 {
		params.Set("year", strconv.Itoa(opts.Year))
	}
	params.Set("include_adult", strconv.FormatBool(opts.IncludeAdult))
	params.Set("page", "1")

	var payload SearchResponse
	if err := c.get(ctx, "search movie", "/search/movie", params, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// MovieDetails fetches runtime and genres for a movie.
func (c *Client) MovieDetails(ctx context.Context, movieID int64) (*MovieDetails, error) {
	if movieID <= 0 {
		return nil, services.Wrap(services.ErrValidation, "tmdb", "movie details", "movie id must be positive", nil)
	}
	var payload MovieDetails
	if err := c.get(ctx, "movie details", fmt.Sprintf("/movie/%d", movieID), url.Values{}, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// MovieCredits fetches cast and crew for a movie.
func (c *Client) MovieCredits(ctx context.Context, movieID int64) (*Credits, error) {
	if movieID <= 0 {
		return nil, services.Wrap(services.ErrValidation, "tmdb", "movie credits", "movie id must be positive", nil)
	}
	var payload Credits
	if err := c.get(ctx, "movie credits", fmt.Sprintf("/movie/%d/credits", movieID), url.Values{}, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

func (c *Client) get(ctx context.Context, operation, path string, params url.Values, out any) error {
	if !c.HasCredential() {
		return services.Wrap(services.ErrAuth, "tmdb", operation, "api key not configured", nil)
	}
	endpoint, err := url.Parse(c.baseURL + path)
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "tmdb", operation, "parse url", err)
	}
	params.Set("api_key", c.apiKey)
	if c.language != "" {
		params.Set("language", c.language)
	}
	endpoint.RawQuery = params.Encode()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return services.Wrap(services.ErrNetwork, "tmdb", operation, "rate limiter", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return services.Wrap(services.ErrNetwork, "tmdb", operation, "build request", err)
	}
	req.Header.Set("Accept", "application/json")

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return services.Wrap(services.ErrNetwork, "tmdb", operation,
			fmt.Sprintf("execute request (latency=%v)", latency), err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		_, _ = io.Copy(io.Discard, resp.Body)
		return services.Wrap(services.ErrAuth, "tmdb", operation, "api key rejected", nil)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		_, _ = io.Copy(io.Discard, resp.Body)
		return services.Wrap(services.ErrNetwork, "tmdb", operation,
			fmt.Sprintf("returned %d (latency=%v)", resp.StatusCode, latency), nil)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return services.Wrap(services.ErrDecode, "tmdb", operation, "decode response", err)
	}
	return nil
}
