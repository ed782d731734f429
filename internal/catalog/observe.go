package catalog

// EventKind identifies what changed in the catalog.
type EventKind int

const (
	// EventMoviesMerged follows a Merge or Add.
	EventMoviesMerged EventKind = iota + 1
	// EventMovieUpdated follows a user-state mutation on one movie.
	EventMovieUpdated
	// EventListsChanged follows list creation, rename, deletion, or membership edits.
	EventListsChanged
)

func (k EventKind) String() string {
	switch k {
	case EventMoviesMerged:
		return "movies_merged"
	case EventMovieUpdated:
		return "movie_updated"
	case EventListsChanged:
		return "lists_changed"
	default:
		return "unknown"
	}
}

// Event describes one catalog change.
type Event struct {
	Kind     EventKind
	ListID   string
	MovieIDs []string
}

// Observer receives catalog events synchronously on the owner goroutine.
type Observer func(Event)

type subscription struct {
	id int
	fn Observer
}

// Subscribe registers fn for every subsequent event and returns a function that
// removes the registration.
func (c *Catalog) Subscribe(fn Observer) func() {
	if fn == nil {
		return func() {}
	}
	c.nextSubID++
	id := c.nextSubID
	c.subscribers = append(c.subscribers, subscription{id: id, fn: fn})
	return func() {
		for i, sub := range c.subscribers {
			if sub.id == id {
				c.subscribers = append(c.subscribers[:i], c.subscribers[i+1:]...)
				return
			}
		}
	}
}

func (c *Catalog) emit(evt Event) {
	subs := make([]subscription, len(c.subscribers))
	copy(subs, c.subscribers)
	for _, sub := range subs {
		sub.fn(evt)
	}
}
