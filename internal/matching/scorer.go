package matching

import (
	"slices"
	"strings"

	"cinefile/internal/catalog"
	"cinefile/internal/csvimport"
)

// Score weights.
const (
	ExactTitleScore       = 100
	ExactYearScore        = 50
	AdjacentYearScore     = 10
	DirectorLastNameScore = 50
	DirectorWordScore     = 30
	NonFeaturePenalty     = -60
	FloorScore            = 50
)

// nonFeatureMarkers flag titles that are extras or documentaries about a film.
var nonFeatureMarkers = []string{
	"making of",
	"behind the scenes",
	"@",
	"featurette",
	"documentary about",
	"the story of",
	"deleted scenes",
	"short film",
}

// Breakdown itemizes one candidate's score.
type Breakdown struct {
	Title    int
	Year     int
	Director int
	Penalty  int
}

// Total sums the components.
func (b Breakdown) Total() int {
	return b.Title + b.Year + b.Director + b.Penalty
}

// Score rates how well candidate fits row.
func Score(candidate catalog.Movie, row csvimport.Row) Breakdown {
	var b Breakdown

	if title := NormalizeTitle(row.Title); title != "" && title == NormalizeTitle(candidate.Title) {
		b.Title = ExactTitleScore
	}

	if row.Year > 0 && candidate.Year > 0 {
		switch diff := candidate.Year - row.Year; {
		case diff == 0:
			b.Year = ExactYearScore
		case diff == 1 || diff == -1:
			b.Year = AdjacentYearScore
		}
	}

	b.Director = directorScore(row.Director, candidate.Director)

	title := strings.ToLower(candidate.Title)
	for _, marker := range nonFeatureMarkers {
		if strings.Contains(title, marker) {
			b.Penalty = NonFeaturePenalty
			break
		}
	}
	return b
}

func directorScore(want, have string) int {
	wantWords := words(want)
	haveWords := words(have)
	if len(wantWords) == 0 || len(haveWords) == 0 {
		return 0
	}
	lastName := wantWords[len(wantWords)-1]
	if strings.Contains(strings.Join(haveWords, " "), lastName) {
		return DirectorLastNameScore
	}
	for _, w := range wantWords {
		if len(w) > 1 && slices.Contains(haveWords, w) {
			return DirectorWordScore
		}
	}
	return 0
}

// PickBestMatch returns the candidate that best fits row. A candidate must
// score above FloorScore to win on score; ties go to the higher critic rating
// and then to the earlier candidate. Otherwise the first candidate from the
// row's year is chosen, then the first candidate overall.
func PickBestMatch(candidates []catalog.Movie, row csvimport.Row) (catalog.Movie, bool) {
	if len(candidates) == 0 {
		return catalog.Movie{}, false
	}

	best := -1
	bestScore := 0
	for i, candidate := range candidates {
		score := Score(candidate, row).Total()
		switch {
		case best < 0 || score > bestScore:
			best, bestScore = i, score
		case score == bestScore && candidate.CriticRating > candidates[best].CriticRating:
			best = i
		}
	}
	if bestScore > FloorScore {
		return candidates[best], true
	}

	for _, candidate := range candidates {
		if row.Year > 0 && candidate.Year == row.Year {
			return candidate, true
		}
	}
	return candidates[0], true
}
