package importer

import (
	"context"
	"strings"

	"cinefile/internal/catalog"
	"cinefile/internal/csvimport"
	"cinefile/internal/logging"
	"cinefile/internal/matching"
	"cinefile/internal/metadata"
)

type outcome int

const (
	outcomeUnmatched outcome = iota
	outcomeMatched
	outcomeSynthesized
)

// resolve searches for one row and returns the movie to merge. It runs off the
// catalog owner goroutine and must not touch the catalog.
func (o *Orchestrator) resolve(ctx context.Context, row csvimport.Row, listID string) (catalog.Movie, outcome, error) {
	query := metadata.Query{
		Title:          row.Title,
		Year:           row.Year,
		IncludeDetails: o.opts.IncludeDetails,
		IncludeAdult:   o.includeAdult.Load(),
	}
	candidates, err := o.searcher.Search(ctx, query)
	if err != nil {
		return catalog.Movie{}, outcomeUnmatched, err
	}
	if len(candidates) == 0 && query.Year > 0 {
		// One broadened query without the year filter.
		query.Year = 0
		candidates, err = o.searcher.Search(ctx, query)
		if err != nil {
			return catalog.Movie{}, outcomeUnmatched, err
		}
	}

	best, ok := matching.PickBestMatch(candidates, row)
	if !ok {
		if o.opts.KeepUnmatched {
			return synthesize(row, listID), outcomeSynthesized, nil
		}
		return catalog.Movie{}, outcomeUnmatched, nil
	}

	logging.WithContext(ctx, o.logger).Debug("row matched",
		logging.String("title", row.Title),
		logging.String("movie_id", best.ID),
		logging.String("matched_title", best.Title),
		logging.Int("score", matching.Score(best, row).Total()),
		logging.Int("candidates", len(candidates)),
	)
	return tag(best, row, listID), outcomeMatched, nil
}

// tag records the row's rank on the candidate and fills fields the provider
// left empty from the row.
func tag(candidate catalog.Movie, row csvimport.Row, listID string) catalog.Movie {
	out := candidate.Clone()
	out.ListRankings = map[string]int{listID: row.Rank}
	if strings.TrimSpace(out.Director) == "" && row.Director != "" {
		out.Director = row.Director
	}
	if out.RuntimeMinutes <= 0 && row.RuntimeMinutes > 0 {
		out.RuntimeMinutes = row.RuntimeMinutes
	}
	if out.Year == 0 {
		out.Year = row.Year
	}
	return out
}

func synthesize(row csvimport.Row, listID string) catalog.Movie {
	return catalog.Movie{
		ID:             catalog.LocalID(row.Title, row.Year),
		Title:          row.Title,
		Year:           row.Year,
		Director:       row.Director,
		RuntimeMinutes: row.RuntimeMinutes,
		ListRankings:   map[string]int{listID: row.Rank},
	}
}
