package importer

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"

	"cinefile/internal/bundle"
	"cinefile/internal/catalog"
	"cinefile/internal/csvimport"
	"cinefile/internal/services"
)

// Manifest lists the system lists available for import.
type Manifest struct {
	Lists []ManifestList `json:"lists"`
}

// ManifestList describes one list and its CSV resource.
type ManifestList struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Source      string `json:"source"`
	Year        int    `json:"year"`
	Type        string `json:"type"`
	Resource    string `json:"resource"`
	// Preload defaults to true when absent.
	Preload   *bool  `json:"preload,omitempty"`
	SourceURL string `json:"source_url,omitempty"`
}

// ShouldPreload reports whether the list is imported at startup.
func (l ManifestList) ShouldPreload() bool {
	return l.Preload == nil || *l.Preload
}

// Format returns the CSV layout named by Type.
func (l ManifestList) Format() (csvimport.Format, error) {
	return csvimport.ParseFormat(l.Type)
}

// ResourcePath is the file name of the list's CSV, with ".csv" appended
// when the resource has no extension.
func (l ManifestList) ResourcePath() string {
	name := strings.TrimSpace(l.Resource)
	if path.Ext(name) == "" {
		name += ".csv"
	}
	return name
}

// MovieList converts the entry into a system catalog list.
func (l ManifestList) MovieList() catalog.MovieList {
	return catalog.MovieList{
		ID:          l.ID,
		Name:        l.Name,
		Description: l.Description,
		Source:      l.Source,
		Year:        l.Year,
		SourceURL:   l.SourceURL,
	}
}

// Find returns the entry with id.
func (m Manifest) Find(id string) (ManifestList, bool) {
	for _, l := range m.Lists {
		if l.ID == id {
			return l, true
		}
	}
	return ManifestList{}, false
}

// DecodeManifest parses and validates a manifest.
func DecodeManifest(r io.Reader) (Manifest, error) {
	var m Manifest
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return Manifest{}, services.Wrap(services.ErrDecode, "importer", "decode manifest", "", err)
	}
	if err := m.Validate(); err != nil {
		return Manifest{}, err
	}
	return m, nil
}

// Validate checks ids, types, and resources.
func (m Manifest) Validate() error {
	var errs []error
	seen := make(map[string]bool, len(m.Lists))
	for i, l := range m.Lists {
		id := strings.TrimSpace(l.ID)
		switch {
		case id == "":
			errs = append(errs, fmt.Errorf("list %d: id is empty", i))
		case seen[id]:
			errs = append(errs, fmt.Errorf("list %q: duplicate id", id))
		}
		seen[id] = true
		if _, err := l.Format(); err != nil {
			errs = append(errs, fmt.Errorf("list %q: %w", id, err))
		}
		if strings.TrimSpace(l.Resource) == "" {
			errs = append(errs, fmt.Errorf("list %q: resource is empty", id))
		}
	}
	if len(errs) > 0 {
		return services.Wrap(services.ErrDecode, "importer", "validate manifest", "", errors.Join(errs...))
	}
	return nil
}

// LoadManifest reads the manifest at the root of src.
func LoadManifest(src fs.FS) (Manifest, error) {
	f, err := src.Open(bundle.ManifestName)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Manifest{}, services.Wrap(services.ErrNotFound, "importer", "load manifest", bundle.ManifestName, err)
		}
		return Manifest{}, services.Wrap(services.ErrDecode, "importer", "load manifest", bundle.ManifestName, err)
	}
	defer f.Close()
	return DecodeManifest(f)
}

// LoadRows reads and parses the CSV resource of l from src.
func LoadRows(src fs.FS, l ManifestList) ([]csvimport.Row, csvimport.Stats, error) {
	format, err := l.Format()
	if err != nil {
		return nil, csvimport.Stats{}, err
	}
	f, err := src.Open(l.ResourcePath())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, csvimport.Stats{}, services.Wrap(services.ErrNotFound, "importer", "load rows", l.ResourcePath(), err)
		}
		return nil, csvimport.Stats{}, services.Wrap(services.ErrParse, "importer", "load rows", l.ResourcePath(), err)
	}
	defer f.Close()
	return csvimport.ParseWithStats(f, format)
}
