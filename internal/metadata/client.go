package metadata

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"cinefile/internal/catalog"
	"cinefile/internal/config"
	"cinefile/internal/logging"
	"cinefile/internal/metadata/tmdb"
	"cinefile/internal/services"
)

// Query describes one title search.
type Query struct {
	Title string
	// Year filters results when positive.
	Year           int
	IncludeDetails bool
	IncludeAdult   bool
}

// Options tunes a Client.
type Options struct {
	ImageBaseURL      string
	CacheTTL          time.Duration
	DetailConcurrency int
}

// Client maps TMDB responses to catalog movies.
type Client struct {
	searcher          tmdb.Searcher
	imageBaseURL      string
	detailConcurrency int
	cache             *searchCache
	logger            *slog.Logger
}

// New wraps a TMDB searcher.
func New(searcher tmdb.Searcher, opts Options, logger *slog.Logger) *Client {
	concurrency := opts.DetailConcurrency
	if concurrency <= 0 {
		concurrency = 4
	}
	return &Client{
		searcher:          searcher,
		imageBaseURL:      strings.TrimRight(strings.TrimSpace(opts.ImageBaseURL), "/"),
		detailConcurrency: concurrency,
		cache:             newSearchCache(opts.CacheTTL),
		logger:            logging.NewComponentLogger(logger, "metadata"),
	}
}

// NewFromConfig builds the TMDB HTTP client and wraps it.
func NewFromConfig(cfg *config.Config, logger *slog.Logger) (*Client, error) {
	if cfg == nil {
		return nil, services.Wrap(services.ErrConfiguration, "metadata", "new client", "config is nil", nil)
	}
	api, err := tmdb.New(cfg.TMDB.APIKey, cfg.TMDB.BaseURL, cfg.TMDB.Language,
		tmdb.WithTimeout(cfg.RequestTimeout()),
		tmdb.WithRateLimit(cfg.TMDB.RequestsPerSecond),
	)
	if err != nil {
		return nil, err
	}
	return New(api, Options{
		ImageBaseURL:      cfg.TMDB.ImageBaseURL,
		CacheTTL:          cfg.CacheTTL(),
		DetailConcurrency: cfg.Import.DetailConcurrency,
	}, logger), nil
}

// Search returns candidates in the provider's order. Errors are
// services.ErrAuth, services.ErrNetwork, or services.ErrDecode. Enrichment
// failures never fail the search.
func (c *Client) Search(ctx context.Context, q Query) ([]catalog.Movie, error) {
	if c == nil || c.searcher == nil {
		return nil, services.Wrap(services.ErrConfiguration, "metadata", "search", "tmdb client unavailable", nil)
	}
	opts := tmdb.SearchOptions{Year: q.Year, IncludeAdult: q.IncludeAdult}
	key := searchCacheKey(q.Title, opts)

	resp, cached := c.cache.get(key)
	if !cached {
		var err error
		resp, err = c.searcher.SearchMovie(ctx, q.Title, opts)
		if err != nil {
			return nil, err
		}
		c.cache.put(key, resp)
	}

	results := resp.Results
	movies := make([]catalog.Movie, len(results))
	for i, result := range results {
		movies[i] = c.summary(result)
	}
	logging.WithContext(ctx, c.logger).Debug("tmdb search",
		logging.String("query", q.Title),
		logging.Int("year", q.Year),
		logging.Int("results", len(movies)),
		logging.Bool("cached", cached),
	)
	if !q.IncludeDetails || len(movies) == 0 {
		return movies, nil
	}
	return c.enrich(ctx, results, movies)
}

// summary builds the lightweight candidate from a search result.
func (c *Client) summary(result tmdb.SearchResult) catalog.Movie {
	return catalog.Movie{
		ID:           strconv.FormatInt(result.ID, 10),
		Title:        strings.TrimSpace(result.Title),
		Year:         tmdb.ReleaseYear(result.ReleaseDate),
		PosterURL:    c.posterURL(result.PosterPath),
		Overview:     result.Overview,
		CriticRating: result.VoteAverage,
		ListRankings: map[string]int{},
	}
}

func (c *Client) posterURL(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.imageBaseURL + path
}

// enrich fetches details and credits for every candidate. Output order
// matches input order.
func (c *Client) enrich(ctx context.Context, results []tmdb.SearchResult, movies []catalog.Movie) ([]catalog.Movie, error) {
	var group errgroup.Group
	group.SetLimit(c.detailConcurrency)
	for i := range results {
		group.Go(func() error {
			enriched, err := c.fetchDetail(ctx, results[i].ID, movies[i])
			if err != nil {
				c.logger.Debug("detail enrichment failed; using summary",
					logging.String("movie_id", movies[i].ID),
					logging.Error(err),
				)
				return nil
			}
			movies[i] = enriched
			return nil
		})
	}
	_ = group.Wait()
	if err := ctx.Err(); err != nil {
		return nil, services.Wrap(services.ErrNetwork, "metadata", "search", "enrichment interrupted", err)
	}
	return movies, nil
}

// fetchDetail retrieves details and credits for one movie concurrently.
func (c *Client) fetchDetail(ctx context.Context, id int64, base catalog.Movie) (catalog.Movie, error) {
	group, gctx := errgroup.WithContext(ctx)
	var (
		details *tmdb.MovieDetails
		credits *tmdb.Credits
	)
	group.Go(func() error {
		var err error
		details, err = c.searcher.MovieDetails(gctx, id)
		return err
	})
	group.Go(func() error {
		var err error
		credits, err = c.searcher.MovieCredits(gctx, id)
		return err
	})
	if err := group.Wait(); err != nil {
		return base, err
	}

	out := base.Clone()
	out.RuntimeMinutes = details.Runtime
	out.Genres = nil
	for _, genre := range details.Genres {
		if name := strings.TrimSpace(genre.Name); name != "" {
			out.Genres = append(out.Genres, name)
		}
	}
	out.Director = credits.Director()
	out.Cast = credits.TopCast(catalog.MaxCastMembers)
	return out, nil
}
