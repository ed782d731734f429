package catalog

import (
	"slices"
	"strings"
)

// field is a value that is either present or absent. Merge decisions are made
// on presence, never on Go zero values directly.
type field[T any] struct {
	value T
	set   bool
}

func present[T any](v T) field[T] { return field[T]{value: v, set: true} }

func (f field[T]) get() (T, bool) { return f.value, f.set }

// metadataPatch carries the provider-sourced fields of an incoming record.
type metadataPatch struct {
	title        field[string]
	year         field[int]
	director     field[string]
	posterURL    field[string]
	overview     field[string]
	genres       field[[]string]
	runtime      field[int]
	cast         field[[]string]
	criticRating field[float64]
}

func patchFrom(m Movie) metadataPatch {
	var p metadataPatch
	if title := strings.TrimSpace(m.Title); title != "" {
		p.title = present(title)
	}
	if m.Year > 0 {
		p.year = present(m.Year)
	}
	if d := strings.TrimSpace(m.Director); d != "" {
		p.director = present(d)
	}
	if m.PosterURL != "" {
		p.posterURL = present(m.PosterURL)
	}
	if m.Overview != "" {
		p.overview = present(m.Overview)
	}
	if len(m.Genres) > 0 {
		p.genres = present(slices.Clone(m.Genres))
	}
	if m.RuntimeMinutes > 0 {
		p.runtime = present(m.RuntimeMinutes)
	}
	if len(m.Cast) > 0 {
		p.cast = present(slices.Clone(m.Cast))
	}
	// Always present: the provider is the only source of critic ratings.
	p.criticRating = present(m.CriticRating)
	return p
}

// overwrite replaces provider fields on dst with every present patch value.
func (p metadataPatch) overwrite(dst *Movie) {
	if v, ok := p.title.get(); ok {
		dst.Title = v
	}
	if v, ok := p.year.get(); ok {
		dst.Year = v
	}
	if v, ok := p.director.get(); ok {
		dst.Director = v
	}
	if v, ok := p.posterURL.get(); ok {
		dst.PosterURL = v
	}
	if v, ok := p.overview.get(); ok {
		dst.Overview = v
	}
	if v, ok := p.genres.get(); ok {
		dst.Genres = v
	}
	if v, ok := p.runtime.get(); ok {
		dst.RuntimeMinutes = v
	}
	if v, ok := p.cast.get(); ok {
		dst.Cast = v
	}
	if v, ok := p.criticRating.get(); ok {
		dst.CriticRating = v
	}
}

// backfill fills only the descriptive fields that are empty on dst. Identity
// fields and ratings are never touched.
func (p metadataPatch) backfill(dst *Movie) []string {
	var filled []string
	if v, ok := p.director.get(); ok && strings.TrimSpace(dst.Director) == "" {
		dst.Director = v
		filled = append(filled, "director")
	}
	if v, ok := p.posterURL.get(); ok && dst.PosterURL == "" {
		dst.PosterURL = v
		filled = append(filled, "poster_url")
	}
	if v, ok := p.overview.get(); ok && dst.Overview == "" {
		dst.Overview = v
		filled = append(filled, "overview")
	}
	if v, ok := p.runtime.get(); ok && dst.RuntimeMinutes <= 0 {
		dst.RuntimeMinutes = v
		filled = append(filled, "runtime")
	}
	if v, ok := p.genres.get(); ok && len(dst.Genres) == 0 {
		dst.Genres = v
		filled = append(filled, "genres")
	}
	if v, ok := p.cast.get(); ok && len(dst.Cast) == 0 {
		dst.Cast = v
		filled = append(filled, "cast")
	}
	return filled
}

// unionRankings copies src rankings into dst; src wins on key conflicts.
func unionRankings(dst map[string]int, src map[string]int) map[string]int {
	if dst == nil {
		dst = make(map[string]int, len(src))
	}
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
