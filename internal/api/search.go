package api

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"cinefile/internal/catalog"
	"cinefile/internal/logging"
	"cinefile/internal/metadata"
	"cinefile/internal/services"
)

// SearchMovies runs an interactive search. Errors carry a services marker;
// services.UserMessage renders them for display.
func (s *Service) SearchMovies(ctx context.Context, query string, year int) ([]catalog.Movie, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, services.Wrap(services.ErrValidation, "api", "search", "query is empty", nil)
	}
	ctx = services.WithRequestID(ctx, uuid.NewString())
	movies, err := s.searcher.Search(ctx, metadata.Query{
		Title:          query,
		Year:           year,
		IncludeDetails: true,
		IncludeAdult:   s.settings.ShowAdultContent,
	})
	if err != nil {
		logging.WarnWithContext(logging.WithContext(ctx, s.logger), "interactive search failed", "search_failed",
			logging.String("query", query),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, services.UserMessage(err)),
		)
		return nil, err
	}
	for i, m := range movies {
		if existing, ok := s.catalog.Lookup(m); ok {
			movies[i] = existing
		}
	}
	return movies, nil
}

// AddMovie stores a search result in the catalog and, when listID is set,
// appends it to that user list. It returns the catalog id.
func (s *Service) AddMovie(ctx context.Context, m catalog.Movie, listID string) (string, error) {
	id, ok := s.catalog.Add(m)
	if !ok {
		return "", services.Wrap(services.ErrValidation, "api", "add movie", "movie has no id or title", nil)
	}
	if !blank(listID) {
		if err := s.catalog.AddToList(listID, id); err != nil {
			_ = s.persist(ctx)
			return id, err
		}
	}
	return after(ctx, s, id, nil)
}
