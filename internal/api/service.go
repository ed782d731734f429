package api

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	"cinefile/internal/bundle"
	"cinefile/internal/catalog"
	"cinefile/internal/config"
	"cinefile/internal/importer"
	"cinefile/internal/logging"
	"cinefile/internal/metadata"
	"cinefile/internal/services"
	"cinefile/internal/settings"
	"cinefile/internal/store"
)

// Service is the catalog façade used by the CLI.
type Service struct {
	cfg      *config.Config
	logger   *slog.Logger
	store    *store.Store
	catalog  *catalog.Catalog
	searcher importer.Searcher
	importer *importer.Orchestrator
	prefs    settings.Store
	settings settings.Settings
	source   fs.FS

	manifest    *importer.Manifest
	dirty       bool
	unsubscribe func()
}

// Option customizes Open.
type Option func(*openOptions)

type openOptions struct {
	searcher importer.Searcher
	source   fs.FS
}

// WithSearcher replaces the TMDB-backed searcher.
func WithSearcher(s importer.Searcher) Option {
	return func(o *openOptions) { o.searcher = s }
}

// WithSource replaces the manifest and CSV source.
func WithSource(src fs.FS) Option {
	return func(o *openOptions) { o.source = src }
}

// Open restores the persisted catalog and settings described by cfg.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts ...Option) (*Service, error) {
	if cfg == nil {
		return nil, services.Wrap(services.ErrConfiguration, "api", "open", "config is nil", nil)
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	var o openOptions
	for _, opt := range opts {
		opt(&o)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		return nil, err
	}
	st, err := store.Open(cfg)
	if err != nil {
		return nil, err
	}

	svc, err := newService(ctx, cfg, logger, st, o)
	if err != nil {
		_ = st.Close()
		return nil, err
	}
	return svc, nil
}

func newService(ctx context.Context, cfg *config.Config, logger *slog.Logger, st *store.Store, o openOptions) (*Service, error) {
	snap, err := st.LoadSnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	prefs := settings.NewStore(st)
	current, err := prefs.Load(ctx)
	if err != nil {
		return nil, err
	}

	searcher := o.searcher
	if searcher == nil {
		client, err := metadata.NewFromConfig(cfg, logger)
		if err != nil {
			return nil, err
		}
		searcher = client
	}
	source := o.source
	if source == nil {
		source = bundle.Source(cfg.Paths.CatalogDir)
	}

	c := catalog.New(logger)
	c.Restore(snap.Movies, snap.Lists())

	importOpts := importer.OptionsFromConfig(cfg)
	importOpts.IncludeAdult = current.ShowAdultContent

	s := &Service{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "api"),
		store:    st,
		catalog:  c,
		searcher: searcher,
		importer: importer.New(c, searcher, importOpts, logger),
		prefs:    prefs,
		settings: current,
		source:   source,
	}
	s.unsubscribe = c.Subscribe(func(catalog.Event) { s.dirty = true })

	s.logger.Debug("catalog restored",
		logging.Int("movies", c.Len()),
		logging.Int("lists", len(snap.Lists())),
		logging.String("store", st.Path()),
	)
	return s, nil
}

// Close persists pending changes and closes the store.
func (s *Service) Close(ctx context.Context) error {
	if s == nil || s.store == nil {
		return nil
	}
	err := s.persist(ctx)
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
	return errors.Join(err, s.store.Close())
}

// Catalog exposes the underlying catalog for read-only rendering.
func (s *Service) Catalog() *catalog.Catalog { return s.catalog }

// Settings returns the current view settings.
func (s *Service) Settings() settings.Settings { return s.settings }

// persist writes the catalog snapshot when it changed since the last write.
func (s *Service) persist(ctx context.Context) error {
	if !s.dirty {
		return nil
	}
	if err := s.store.SaveSnapshot(ctx, store.SnapshotOf(s.catalog)); err != nil {
		return fmt.Errorf("persist catalog: %w", err)
	}
	s.dirty = false
	return nil
}

// after persists following a mutation and returns the mutation's error when
// there was one.
func after[T any](ctx context.Context, s *Service, value T, err error) (T, error) {
	if err != nil {
		return value, err
	}
	if perr := s.persist(ctx); perr != nil {
		return value, perr
	}
	return value, nil
}

func notFound(op, what string) error {
	return services.Wrap(services.ErrNotFound, "api", op, what, nil)
}

func blank(v string) bool { return strings.TrimSpace(v) == "" }
