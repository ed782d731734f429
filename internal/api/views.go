package api

import (
	"context"
	"fmt"

	"cinefile/internal/catalog"
	"cinefile/internal/projection"
	"cinefile/internal/services"
	"cinefile/internal/settings"
)

// ViewQuery overrides the stored settings for one projection. Zero fields use
// the stored value.
type ViewQuery struct {
	ListID    string
	Sort      projection.SortOption
	Ascending *bool
	Filter    projection.WatchFilter
}

// View is a projected list.
type View struct {
	ListID    string
	ListName  string
	Sort      projection.SortOption
	Ascending bool
	Filter    projection.WatchFilter
	Movies    []catalog.Movie
	Watched   int
	Total     int
	Progress  float64
}

// View projects the catalog for q. Completion counts ignore the filter.
func (s *Service) View(q ViewQuery) (View, error) {
	v := View{
		ListID:    s.settings.SelectedListID,
		Sort:      s.settings.SortOption,
		Ascending: s.settings.SortAscending,
		Filter:    q.Filter,
	}
	if !blank(q.ListID) {
		v.ListID = q.ListID
	}
	if q.Sort != "" {
		v.Sort = q.Sort
	}
	if q.Ascending != nil {
		v.Ascending = *q.Ascending
	}
	if v.Filter == "" {
		v.Filter = projection.FilterAll
	}

	name, err := s.listName(v.ListID)
	if err != nil {
		return View{}, err
	}
	v.ListName = name

	movies := s.catalog.Movies()
	v.Movies = v.Filter.Apply(projection.Project(movies, v.ListID, v.Sort, v.Ascending))
	v.Watched, v.Total = projection.Completion(movies, v.ListID)
	v.Progress = projection.Progress(movies, v.ListID)
	return v, nil
}

func (s *Service) listName(id string) (string, error) {
	if id == projection.AllListsID {
		return "All Lists", nil
	}
	l, ok := s.catalog.List(id)
	if !ok {
		return "", notFound("view", "no list with id "+id)
	}
	return l.Name, nil
}

// SetSort stores the sort option and direction.
func (s *Service) SetSort(ctx context.Context, opt projection.SortOption, ascending bool) error {
	if _, err := projection.ParseSortOption(opt.String()); err != nil {
		return err
	}
	next := s.settings
	next.SortOption = opt
	next.SortAscending = ascending
	return s.saveSettings(ctx, next)
}

// SelectList stores the list shown by default.
func (s *Service) SelectList(ctx context.Context, id string) error {
	if id != projection.AllListsID {
		if _, ok := s.catalog.List(id); !ok {
			return services.Wrap(services.ErrNotFound, "api", "select list", fmt.Sprintf("no list with id %q", id), nil)
		}
	}
	next := s.settings
	next.SelectedListID = id
	return s.saveSettings(ctx, next)
}

// SetShowAdultContent toggles adult titles in subsequent searches and imports.
func (s *Service) SetShowAdultContent(ctx context.Context, show bool) error {
	next := s.settings
	next.ShowAdultContent = show
	if err := s.saveSettings(ctx, next); err != nil {
		return err
	}
	s.importer.SetIncludeAdult(show)
	return nil
}

func (s *Service) saveSettings(ctx context.Context, next settings.Settings) error {
	if err := s.prefs.Save(ctx, next); err != nil {
		return err
	}
	s.settings = next
	return nil
}
