package importer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"cinefile/internal/logging"
	"cinefile/internal/services"
)

// PreloadOptions tunes Preload.
type PreloadOptions struct {
	// Force re-imports lists that already have catalog members.
	Force bool
}

// PreloadProgress is the blended progress across all preloaded lists.
type PreloadProgress struct {
	ListID   string
	Index    int
	Count    int
	Fraction float64
	Status   string
}

// PreloadProgressFunc receives blended progress on the calling goroutine.
type PreloadProgressFunc func(PreloadProgress)

// ListOutcome is the result of one manifest entry during preload.
type ListOutcome struct {
	ListID  string
	Name    string
	State   State
	Skipped bool
	Result  Result
	Err     error
}

// PreloadReport summarizes a Preload call.
type PreloadReport struct {
	Outcomes []ListOutcome
}

// Failed returns the outcomes whose import failed.
func (r PreloadReport) Failed() []ListOutcome {
	var out []ListOutcome
	for _, o := range r.Outcomes {
		if o.State == StateFailed {
			out = append(out, o)
		}
	}
	return out
}

// Preload registers every manifest list in the catalog and imports the ones
// marked for preload, one after another. A missing CSV fails only its list. An
// auth failure or cancellation of ctx stops the remaining lists.
func (o *Orchestrator) Preload(ctx context.Context, m Manifest, src fs.FS, opts PreloadOptions, onProgress PreloadProgressFunc) (PreloadReport, error) {
	if err := m.Validate(); err != nil {
		return PreloadReport{}, err
	}
	for _, entry := range m.Lists {
		if err := o.catalog.RegisterSystemList(entry.MovieList()); err != nil {
			return PreloadReport{}, err
		}
	}

	var selected []ManifestList
	for _, entry := range m.Lists {
		if entry.ShouldPreload() {
			selected = append(selected, entry)
		}
	}
	count := len(selected)
	emit := func(listID string, index int, frac float64, status string) {
		if onProgress == nil {
			return
		}
		onProgress(PreloadProgress{ListID: listID, Index: index, Count: count, Fraction: frac, Status: status})
	}

	o.logger.Info("preload started",
		logging.String(logging.FieldEventType, "preload_started"),
		logging.Int("lists", count),
		logging.Bool("force", opts.Force),
	)

	var report PreloadReport
	for i, entry := range selected {
		outcome := ListOutcome{ListID: entry.ID, Name: entry.Name}
		base := float64(i) / float64(count)

		if err := ctx.Err(); err != nil {
			return report, fmt.Errorf("preload cancelled: %w", err)
		}

		if !opts.Force && o.catalog.HasMembers(entry.ID) {
			outcome.Skipped = true
			outcome.State = o.State(entry.ID)
			report.Outcomes = append(report.Outcomes, outcome)
			emit(entry.ID, i, float64(i+1)/float64(count), fmt.Sprintf("Skipping %s (%d/%d): already imported", entry.Name, i+1, count))
			continue
		}

		status := fmt.Sprintf("Importing %s (%d/%d)", entry.Name, i+1, count)
		emit(entry.ID, i, base, status)

		rows, stats, err := LoadRows(src, entry)
		if err != nil {
			o.registry.finish(entry.ID, StateFailed, err)
			outcome.State = StateFailed
			outcome.Err = err
			report.Outcomes = append(report.Outcomes, outcome)
			logging.WarnWithContext(o.logger, "list resource unavailable", "preload_list_failed",
				logging.String(logging.FieldListID, entry.ID),
				logging.String("resource", entry.ResourcePath()),
				logging.Error(err),
				logging.String(logging.FieldImpact, "list skipped; remaining lists continue"),
			)
			emit(entry.ID, i, float64(i+1)/float64(count), fmt.Sprintf("Failed to load %s: %s", entry.Name, services.UserMessage(err)))
			continue
		}
		if stats.Skipped > 0 {
			o.logger.Info("csv rows skipped",
				logging.String(logging.FieldListID, entry.ID),
				logging.Int("rows", stats.Rows),
				logging.Int("skipped", stats.Skipped),
			)
		}

		result, err := o.ImportList(ctx, rows, entry.ID, func(p Progress) {
			emit(entry.ID, i, (float64(i)+p.Fraction)/float64(count), status)
		})
		outcome.Result = result
		outcome.State = result.State
		outcome.Err = err
		report.Outcomes = append(report.Outcomes, outcome)

		if err != nil {
			if errors.Is(err, ErrAlreadyRunning) {
				continue
			}
			return report, err
		}
		if result.State == StateCancelled {
			return report, fmt.Errorf("preload cancelled during %s: %w", entry.ID, context.Canceled)
		}
	}

	emit("", count, 1, "Preload complete")
	o.logger.Info("preload finished",
		logging.String(logging.FieldEventType, "preload_finished"),
		logging.Int("lists", count),
		logging.Int("failed", len(report.Failed())),
	)
	return report, nil
}

// ImportFromManifest imports one manifest list on demand, including lists
// excluded from preload.
func (o *Orchestrator) ImportFromManifest(ctx context.Context, m Manifest, src fs.FS, listID string, onProgress ProgressFunc) (Result, error) {
	entry, ok := m.Find(listID)
	if !ok {
		return Result{ListID: listID}, services.Wrap(services.ErrNotFound, "importer", "import from manifest", "no list with id "+listID, nil)
	}
	if err := o.catalog.RegisterSystemList(entry.MovieList()); err != nil {
		return Result{ListID: listID}, err
	}
	rows, _, err := LoadRows(src, entry)
	if err != nil {
		o.registry.finish(listID, StateFailed, err)
		return Result{ListID: listID, State: StateFailed}, err
	}
	return o.ImportList(ctx, rows, listID, onProgress)
}
