// Package settings holds the user's view preferences and their persistence.
package settings

import (
	"context"
	"fmt"
	"strconv"

	"cinefile/internal/projection"
)

// Keys in the durable key/value store.
const (
	KeySortOption       = "settings.sort_option"
	KeySortAscending    = "settings.sort_ascending"
	KeySelectedListID   = "settings.selected_list_id"
	KeyShowAdultContent = "settings.show_adult_content"
)

// Settings are the persisted view preferences.
type Settings struct {
	SortOption       projection.SortOption
	SortAscending    bool
	SelectedListID   string
	ShowAdultContent bool
}

// Default returns the first-run settings.
func Default() Settings {
	return Settings{
		SortOption:     projection.SortRank,
		SortAscending:  true,
		SelectedListID: projection.AllListsID,
	}
}

// Store loads and saves Settings.
type Store interface {
	Load(ctx context.Context) (Settings, error)
	Save(ctx context.Context, s Settings) error
}

// KV is the key/value surface a Store needs.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	PutMany(ctx context.Context, values map[string]string) error
}

type kvStore struct {
	kv KV
}

// NewStore persists settings as individual keys in kv.
func NewStore(kv KV) Store {
	return &kvStore{kv: kv}
}

// Load returns the stored settings, using defaults for missing or unreadable
// keys.
func (s *kvStore) Load(ctx context.Context) (Settings, error) {
	out := Default()

	if raw, ok, err := s.kv.Get(ctx, KeySortOption); err != nil {
		return out, fmt.Errorf("load %s: %w", KeySortOption, err)
	} else if ok {
		if opt, err := projection.ParseSortOption(raw); err == nil {
			out.SortOption = opt
		}
	}
	if raw, ok, err := s.kv.Get(ctx, KeySortAscending); err != nil {
		return out, fmt.Errorf("load %s: %w", KeySortAscending, err)
	} else if ok {
		if v, err := strconv.ParseBool(raw); err == nil {
			out.SortAscending = v
		}
	}
	if raw, ok, err := s.kv.Get(ctx, KeySelectedListID); err != nil {
		return out, fmt.Errorf("load %s: %w", KeySelectedListID, err)
	} else if ok && raw != "" {
		out.SelectedListID = raw
	}
	if raw, ok, err := s.kv.Get(ctx, KeyShowAdultContent); err != nil {
		return out, fmt.Errorf("load %s: %w", KeyShowAdultContent, err)
	} else if ok {
		if v, err := strconv.ParseBool(raw); err == nil {
			out.ShowAdultContent = v
		}
	}
	return out, nil
}

// Save writes every setting in one batch.
func (s *kvStore) Save(ctx context.Context, v Settings) error {
	values := map[string]string{
		KeySortOption:       v.SortOption.String(),
		KeySortAscending:    strconv.FormatBool(v.SortAscending),
		KeySelectedListID:   v.SelectedListID,
		KeyShowAdultContent: strconv.FormatBool(v.ShowAdultContent),
	}
	if err := s.kv.PutMany(ctx, values); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}
