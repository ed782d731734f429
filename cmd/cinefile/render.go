package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"cinefile/internal/catalog"
	"cinefile/internal/importer"
	"cinefile/internal/projection"
)

func isTerminal(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}

func formatRank(m catalog.Movie, listID string) string {
	if listID == projection.AllListsID {
		best := 0
		for _, rank := range m.ListRankings {
			if best == 0 || rank < best {
				best = rank
			}
		}
		if best == 0 {
			return "-"
		}
		return strconv.Itoa(best)
	}
	if rank, ok := m.Rank(listID); ok {
		return strconv.Itoa(rank)
	}
	return "-"
}

func formatYear(year int) string {
	if year <= 0 {
		return "-"
	}
	return strconv.Itoa(year)
}

func formatRating(r float64) string {
	if r <= 0 {
		return "-"
	}
	return strconv.FormatFloat(r, 'f', 1, 64)
}

func formatUserRating(r *float64) string {
	if r == nil {
		return "-"
	}
	return strconv.FormatFloat(*r, 'f', 1, 64)
}

func formatWatched(m catalog.Movie) string {
	switch {
	case !m.Watched:
		return "no"
	case m.WatchedDate == nil:
		return "yes"
	default:
		return humanize.Time(*m.WatchedDate)
	}
}

func orDash(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}

func renderMovies(out io.Writer, movies []catalog.Movie, listID string) {
	rows := make([][]string, 0, len(movies))
	for _, m := range movies {
		rows = append(rows, []string{
			formatRank(m, listID),
			m.Title,
			formatYear(m.Year),
			orDash(m.Director),
			formatRating(m.CriticRating),
			formatUserRating(m.UserRating),
			formatWatched(m),
			m.ID,
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Rank", "Title", "Year", "Director", "Critic", "Mine", "Watched", "ID"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignRight, alignLeft, alignRight, alignRight, alignLeft, alignLeft},
	))
}

func renderMovie(out io.Writer, m catalog.Movie) {
	fmt.Fprintf(out, "%s (%s)\n", m.Title, formatYear(m.Year))
	fmt.Fprintf(out, "  ID:        %s\n", m.ID)
	fmt.Fprintf(out, "  Director:  %s\n", orDash(m.Director))
	if m.RuntimeMinutes > 0 {
		fmt.Fprintf(out, "  Runtime:   %d min\n", m.RuntimeMinutes)
	}
	if len(m.Genres) > 0 {
		fmt.Fprintf(out, "  Genres:    %s\n", strings.Join(m.Genres, ", "))
	}
	if len(m.Cast) > 0 {
		fmt.Fprintf(out, "  Cast:      %s\n", strings.Join(m.Cast, ", "))
	}
	fmt.Fprintf(out, "  Critics:   %s\n", formatRating(m.CriticRating))
	fmt.Fprintf(out, "  My rating: %s\n", formatUserRating(m.UserRating))
	fmt.Fprintf(out, "  Watched:   %s", formatWatched(m))
	if m.WatchedDate != nil {
		fmt.Fprintf(out, " (%s)", m.WatchedDate.Format(time.DateOnly))
	}
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  Watchlist: %s\n", yesNo(m.InWatchlist))
	if m.PosterURL != "" {
		fmt.Fprintf(out, "  Poster:    %s\n", m.PosterURL)
	}
	if m.Overview != "" {
		fmt.Fprintf(out, "\n%s\n", m.Overview)
	}
}

func renderResult(out io.Writer, name string, r importer.Result) {
	fmt.Fprintf(out, "%s: %s, %d matched, %d unmatched", name, r.State, r.Matched, r.Unmatched)
	if r.Synthesized > 0 {
		fmt.Fprintf(out, ", %d kept without match", r.Synthesized)
	}
	if r.Failed > 0 {
		fmt.Fprintf(out, ", %d failed", r.Failed)
	}
	fmt.Fprintf(out, " (%d new, %s)\n", r.Merge.Added, r.Duration.Round(time.Millisecond))
}
