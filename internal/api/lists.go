package api

import (
	"context"

	"cinefile/internal/catalog"
	"cinefile/internal/projection"
)

// Lists returns system lists followed by user lists.
func (s *Service) Lists() []catalog.MovieList { return s.catalog.Lists() }

// List returns one list by id.
func (s *Service) List(id string) (catalog.MovieList, error) {
	l, ok := s.catalog.List(id)
	if !ok {
		return catalog.MovieList{}, notFound("list", "no list with id "+id)
	}
	return l, nil
}

// CreateList creates an empty user list.
func (s *Service) CreateList(ctx context.Context, name, description string) (catalog.MovieList, error) {
	l, err := s.catalog.CreateList(name, description)
	return after(ctx, s, l, err)
}

// RenameList renames a user list.
func (s *Service) RenameList(ctx context.Context, id, name string) (catalog.MovieList, error) {
	l, err := s.catalog.RenameList(id, name)
	return after(ctx, s, l, err)
}

// DeleteList removes a user list. A view selecting it falls back to all lists.
func (s *Service) DeleteList(ctx context.Context, id string) error {
	if err := s.catalog.DeleteList(id); err != nil {
		return err
	}
	if s.settings.SelectedListID == id {
		next := s.settings
		next.SelectedListID = projection.AllListsID
		if err := s.saveSettings(ctx, next); err != nil {
			return err
		}
	}
	_, err := after(ctx, s, struct{}{}, nil)
	return err
}

// AddToList appends a catalog movie to a user list.
func (s *Service) AddToList(ctx context.Context, listID, movieID string) error {
	_, err := after(ctx, s, struct{}{}, s.catalog.AddToList(listID, movieID))
	return err
}

// RemoveFromList drops a movie from a user list.
func (s *Service) RemoveFromList(ctx context.Context, listID, movieID string) error {
	_, err := after(ctx, s, struct{}{}, s.catalog.RemoveFromList(listID, movieID))
	return err
}
