package api

import (
	"context"

	"cinefile/internal/importer"
)

// Manifest returns the startup manifest of the configured catalog source.
func (s *Service) Manifest() (importer.Manifest, error) {
	if s.manifest != nil {
		return *s.manifest, nil
	}
	m, err := importer.LoadManifest(s.source)
	if err != nil {
		return importer.Manifest{}, err
	}
	s.manifest = &m
	return m, nil
}

// Preload imports every manifest list marked for preload. The catalog is
// persisted even when preload stops early, so completed lists survive.
func (s *Service) Preload(ctx context.Context, force bool, onProgress importer.PreloadProgressFunc) (importer.PreloadReport, error) {
	m, err := s.Manifest()
	if err != nil {
		return importer.PreloadReport{}, err
	}
	report, err := s.importer.Preload(ctx, m, s.source, importer.PreloadOptions{Force: force}, onProgress)
	if perr := s.persist(context.WithoutCancel(ctx)); perr != nil && err == nil {
		err = perr
	}
	return report, err
}

// ImportList imports one manifest list by id, including lists that are not
// preloaded.
func (s *Service) ImportList(ctx context.Context, listID string, onProgress importer.ProgressFunc) (importer.Result, error) {
	m, err := s.Manifest()
	if err != nil {
		return importer.Result{ListID: listID}, err
	}
	result, err := s.importer.ImportFromManifest(ctx, m, s.source, listID, onProgress)
	if perr := s.persist(context.WithoutCancel(ctx)); perr != nil && err == nil {
		err = perr
	}
	return result, err
}

// ImportState returns the lifecycle state of listID in this process.
func (s *Service) ImportState(listID string) importer.State {
	return s.importer.State(listID)
}

// CancelImports stops admission for every running import. It may be called
// from any goroutine.
func (s *Service) CancelImports() int {
	return s.importer.CancelAll()
}
