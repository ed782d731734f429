package catalog

import (
	"slices"
	"strings"

	"github.com/google/uuid"

	"cinefile/internal/logging"
	"cinefile/internal/services"
)

// UserListSource is the Source value of user-created lists.
const UserListSource = "User"

// RegisterSystemList adds or replaces a provider-defined list. System list
// membership lives in movie rankings, so MovieIDs is not tracked.
func (c *Catalog) RegisterSystemList(l MovieList) error {
	l = l.Clone()
	l.ID = strings.TrimSpace(l.ID)
	if l.ID == "" {
		return services.Wrap(services.ErrValidation, "catalog", "register list", "list id is empty", nil)
	}
	l.IsUserCreated = nil
	l.MovieIDs = nil
	if idx := c.listIndex(l.ID); idx >= 0 {
		if c.lists[idx].UserCreated() {
			return services.Wrap(services.ErrValidation, "catalog", "register list",
				"id "+l.ID+" belongs to a user list", nil)
		}
		c.lists[idx] = l
	} else {
		c.lists = append(c.lists, l)
	}
	c.emit(Event{Kind: EventListsChanged, ListID: l.ID})
	return nil
}

// CreateList creates an empty user list.
func (c *Catalog) CreateList(name, description string) (MovieList, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return MovieList{}, services.Wrap(services.ErrValidation, "catalog", "create list", "list name is empty", nil)
	}
	userCreated := true
	l := MovieList{
		ID:            "user-" + uuid.NewString(),
		Name:          name,
		Description:   strings.TrimSpace(description),
		Source:        UserListSource,
		Year:          c.now().Year(),
		MovieIDs:      []string{},
		IsUserCreated: &userCreated,
	}
	c.lists = append(c.lists, l)
	c.logger.Info("user list created",
		logging.String(logging.FieldEventType, "list_created"),
		logging.String(logging.FieldListID, l.ID),
		logging.String("name", name),
	)
	c.emit(Event{Kind: EventListsChanged, ListID: l.ID})
	return l.Clone(), nil
}

// RenameList renames a user list.
func (c *Catalog) RenameList(id, name string) (MovieList, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return MovieList{}, services.Wrap(services.ErrValidation, "catalog", "rename list", "list name is empty", nil)
	}
	idx, err := c.userListIndex(id, "rename list")
	if err != nil {
		return MovieList{}, err
	}
	c.lists[idx].Name = name
	c.emit(Event{Kind: EventListsChanged, ListID: id})
	return c.lists[idx].Clone(), nil
}

// DeleteList removes a user list and that list's ranking from every member.
// Movies stay in the catalog.
func (c *Catalog) DeleteList(id string) error {
	idx, err := c.userListIndex(id, "delete list")
	if err != nil {
		return err
	}
	c.lists = slices.Delete(c.lists, idx, idx+1)
	var touched []string
	for i := range c.movies {
		if _, ok := c.movies[i].ListRankings[id]; ok {
			delete(c.movies[i].ListRankings, id)
			touched = append(touched, c.movies[i].ID)
		}
	}
	c.logger.Info("user list deleted",
		logging.String(logging.FieldEventType, "list_deleted"),
		logging.String(logging.FieldListID, id),
		logging.Int("members", len(touched)),
	)
	c.emit(Event{Kind: EventListsChanged, ListID: id, MovieIDs: touched})
	return nil
}

// AddToList appends a movie to a user list. Adding an existing member is a
// no-op.
func (c *Catalog) AddToList(listID, movieID string) error {
	idx, err := c.userListIndex(listID, "add to list")
	if err != nil {
		return err
	}
	if _, ok := c.byID[movieID]; !ok {
		return notFound("add to list", movieID)
	}
	if slices.Contains(c.lists[idx].MovieIDs, movieID) {
		return nil
	}
	c.lists[idx].MovieIDs = append(c.lists[idx].MovieIDs, movieID)
	c.rankUserList(c.lists[idx])
	c.emit(Event{Kind: EventListsChanged, ListID: listID, MovieIDs: []string{movieID}})
	return nil
}

// RemoveFromList drops a movie from a user list and renumbers the rest.
func (c *Catalog) RemoveFromList(listID, movieID string) error {
	idx, err := c.userListIndex(listID, "remove from list")
	if err != nil {
		return err
	}
	pos := slices.Index(c.lists[idx].MovieIDs, movieID)
	if pos < 0 {
		return services.Wrap(services.ErrNotFound, "catalog", "remove from list",
			"movie "+movieID+" is not in list "+listID, nil)
	}
	c.lists[idx].MovieIDs = slices.Delete(c.lists[idx].MovieIDs, pos, pos+1)
	if mi, ok := c.byID[movieID]; ok {
		delete(c.movies[mi].ListRankings, listID)
	}
	c.rankUserList(c.lists[idx])
	c.emit(Event{Kind: EventListsChanged, ListID: listID, MovieIDs: []string{movieID}})
	return nil
}

// reconcileUserLists rewrites user-list rankings from each list's MovieIDs,
// rank being position plus one. IDs of movies no longer in the catalog are
// dropped.
func (c *Catalog) reconcileUserLists() {
	for i := range c.lists {
		if !c.lists[i].UserCreated() {
			continue
		}
		seen := make(map[string]bool, len(c.lists[i].MovieIDs))
		c.lists[i].MovieIDs = slices.DeleteFunc(c.lists[i].MovieIDs, func(id string) bool {
			_, ok := c.byID[id]
			if !ok || seen[id] {
				return true
			}
			seen[id] = true
			return false
		})
		c.rankUserList(c.lists[i])
	}
}

// rankUserList makes movie rankings for l agree with l.MovieIDs.
func (c *Catalog) rankUserList(l MovieList) {
	members := make(map[string]int, len(l.MovieIDs))
	for pos, id := range l.MovieIDs {
		if _, seen := members[id]; !seen {
			members[id] = pos + 1
		}
	}
	for i := range c.movies {
		m := &c.movies[i]
		rank, ok := members[m.ID]
		if !ok {
			delete(m.ListRankings, l.ID)
			continue
		}
		if m.ListRankings == nil {
			m.ListRankings = make(map[string]int)
		}
		m.ListRankings[l.ID] = rank
	}
}

func (c *Catalog) userListIndex(id, operation string) (int, error) {
	idx := c.listIndex(id)
	if idx < 0 {
		return -1, services.Wrap(services.ErrNotFound, "catalog", operation, "no list with id "+id, nil)
	}
	if !c.lists[idx].UserCreated() {
		return -1, services.Wrap(services.ErrValidation, "catalog", operation,
			"list "+id+" is not user-created", nil)
	}
	return idx, nil
}
