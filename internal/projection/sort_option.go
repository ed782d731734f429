package projection

import (
	"fmt"
	"strings"

	"cinefile/internal/services"
)

// SortOption selects the baseline order of a view.
type SortOption string

const (
	SortRank         SortOption = "rank"
	SortTitle        SortOption = "title"
	SortYear         SortOption = "year"
	SortDirector     SortOption = "director"
	SortCriticRating SortOption = "critic_rating"
	SortUserRating   SortOption = "user_rating"
)

// SortOptions lists every option in display order.
var SortOptions = []SortOption{SortRank, SortTitle, SortYear, SortDirector, SortCriticRating, SortUserRating}

var sortLabels = map[SortOption]string{
	SortRank:         "List Ranking",
	SortTitle:        "Title",
	SortYear:         "Year",
	SortDirector:     "Director",
	SortCriticRating: "Critic Rating",
	SortUserRating:   "My Rating",
}

func (o SortOption) String() string { return string(o) }

// Label returns the human-readable name.
func (o SortOption) Label() string {
	if label, ok := sortLabels[o]; ok {
		return label
	}
	return string(o)
}

// ParseSortOption accepts either the identifier or the label, case-insensitively.
func ParseSortOption(raw string) (SortOption, error) {
	value := strings.ToLower(strings.TrimSpace(raw))
	value = strings.ReplaceAll(value, "-", "_")
	for _, opt := range SortOptions {
		if value == string(opt) || value == strings.ToLower(opt.Label()) {
			return opt, nil
		}
	}
	return "", services.Wrap(services.ErrValidation, "projection", "parse sort option",
		fmt.Sprintf("unknown sort option %q", raw), nil)
}
