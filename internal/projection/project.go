package projection

import (
	"cmp"
	"math"
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"cinefile/internal/catalog"
)

// AllListsID selects every movie that belongs to at least one list.
const AllListsID = "all-lists"

// MissingRank orders movies without a rank after all ranked movies.
const MissingRank = 9999

// Members returns the movies that belong to listID, in input order.
func Members(movies []catalog.Movie, listID string) []catalog.Movie {
	var out []catalog.Movie
	for _, m := range movies {
		if inList(m, listID) {
			out = append(out, m)
		}
	}
	return out
}

func inList(m catalog.Movie, listID string) bool {
	if listID == AllListsID {
		return len(m.ListRankings) > 0
	}
	_, ok := m.ListRankings[listID]
	return ok
}

// Project filters movies to listID and orders them by opt. The baseline order
// is rank, title, year, and director ascending, and critic and user rating
// descending with unrated movies last. ascending=false reverses the whole
// baseline.
func Project(movies []catalog.Movie, listID string, opt SortOption, ascending bool) []catalog.Movie {
	selected := Members(movies, listID)
	col := collate.New(language.English, collate.IgnoreCase, collate.IgnoreDiacritics)
	byTitle := func(a, b catalog.Movie) int {
		if c := col.CompareString(a.Title, b.Title); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	}

	var baseline func(a, b catalog.Movie) int
	switch opt {
	case SortTitle:
		baseline = byTitle
	case SortYear:
		baseline = func(a, b catalog.Movie) int {
			return cmp.Or(cmp.Compare(a.Year, b.Year), byTitle(a, b))
		}
	case SortDirector:
		baseline = func(a, b catalog.Movie) int {
			return cmp.Or(
				col.CompareString(a.DirectorLastName(), b.DirectorLastName()),
				col.CompareString(a.Director, b.Director),
				byTitle(a, b),
			)
		}
	case SortCriticRating:
		baseline = func(a, b catalog.Movie) int {
			return cmp.Or(cmp.Compare(b.CriticRating, a.CriticRating), byTitle(a, b))
		}
	case SortUserRating:
		baseline = func(a, b catalog.Movie) int {
			return cmp.Or(compareUserRating(a, b), byTitle(a, b))
		}
	default:
		baseline = func(a, b catalog.Movie) int {
			ra, sa := rankKey(a, listID)
			rb, sb := rankKey(b, listID)
			return cmp.Or(cmp.Compare(ra, rb), cmp.Compare(sa, sb), byTitle(a, b))
		}
	}

	slices.SortStableFunc(selected, baseline)
	if !ascending {
		slices.Reverse(selected)
	}
	return selected
}

// rankKey returns the primary rank and its tie-breaker. For AllListsID that is
// the minimum rank held in any list and the sum of all ranks.
func rankKey(m catalog.Movie, listID string) (int, int) {
	if listID != AllListsID {
		rank, ok := m.ListRankings[listID]
		if !ok {
			return MissingRank, 0
		}
		return rank, 0
	}
	if len(m.ListRankings) == 0 {
		return MissingRank, 0
	}
	lowest, sum := math.MaxInt, 0
	for _, rank := range m.ListRankings {
		lowest = min(lowest, rank)
		sum += rank
	}
	return lowest, sum
}

// compareUserRating orders rated movies by descending rating ahead of unrated
// ones.
func compareUserRating(a, b catalog.Movie) int {
	switch {
	case a.UserRating == nil && b.UserRating == nil:
		return 0
	case a.UserRating == nil:
		return 1
	case b.UserRating == nil:
		return -1
	default:
		return cmp.Compare(*b.UserRating, *a.UserRating)
	}
}

// Completion counts watched movies among the members of listID.
func Completion(movies []catalog.Movie, listID string) (watched, total int) {
	for _, m := range movies {
		if !inList(m, listID) {
			continue
		}
		total++
		if m.Watched {
			watched++
		}
	}
	return watched, total
}

// Progress is the watched fraction of listID, 0 for an empty list.
func Progress(movies []catalog.Movie, listID string) float64 {
	watched, total := Completion(movies, listID)
	if total == 0 {
		return 0
	}
	return float64(watched) / float64(total)
}
