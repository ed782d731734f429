package importer

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"

	"cinefile/internal/catalog"
	"cinefile/internal/config"
	"cinefile/internal/csvimport"
	"cinefile/internal/logging"
	"cinefile/internal/metadata"
	"cinefile/internal/services"
)

// DefaultMaxConcurrency caps in-flight searches per list.
const DefaultMaxConcurrency = 6

// Searcher resolves a title query into candidates.
type Searcher interface {
	Search(ctx context.Context, q metadata.Query) ([]catalog.Movie, error)
}

// Options tunes an Orchestrator.
type Options struct {
	MaxConcurrency int
	IncludeDetails bool
	IncludeAdult   bool
	KeepUnmatched  bool
}

// OptionsFromConfig reads the [import] section.
func OptionsFromConfig(cfg *config.Config) Options {
	if cfg == nil {
		return Options{MaxConcurrency: DefaultMaxConcurrency}
	}
	return Options{
		MaxConcurrency: cfg.Import.MaxConcurrency,
		IncludeDetails: cfg.Import.IncludeDetails,
		KeepUnmatched:  cfg.Import.KeepUnmatched,
	}
}

// Progress is reported once per resolved row.
type Progress struct {
	ListID    string
	Completed int
	Total     int
	Fraction  float64
}

// ProgressFunc receives progress on the goroutine that called ImportList.
type ProgressFunc func(Progress)

// Result summarizes one ImportList call.
type Result struct {
	ListID      string
	State       State
	Total       int
	Completed   int
	Matched     int
	Unmatched   int
	Failed      int
	Synthesized int
	Discarded   int
	Merge       catalog.MergeReport
	Duration    time.Duration
}

// Orchestrator runs list imports against a catalog. The catalog is only
// touched from the goroutine calling ImportList or Preload.
type Orchestrator struct {
	catalog  *catalog.Catalog
	searcher Searcher
	opts     Options
	logger   *slog.Logger
	registry *registry

	includeAdult atomic.Bool
}

// New creates an Orchestrator.
func New(c *catalog.Catalog, searcher Searcher, opts Options, logger *slog.Logger) *Orchestrator {
	if opts.MaxConcurrency <= 0 {
		opts.MaxConcurrency = DefaultMaxConcurrency
	}
	o := &Orchestrator{
		catalog:  c,
		searcher: searcher,
		opts:     opts,
		logger:   logging.NewComponentLogger(logger, "importer"),
		registry: newRegistry(),
	}
	o.includeAdult.Store(opts.IncludeAdult)
	return o
}

// SetIncludeAdult changes whether subsequent searches include adult titles.
func (o *Orchestrator) SetIncludeAdult(include bool) {
	o.includeAdult.Store(include)
}

// Cancel stops admission of new rows for a running import of listID. It
// reports whether such an import existed.
func (o *Orchestrator) Cancel(listID string) bool {
	return o.registry.cancel(listID)
}

// CancelAll cancels every running import and returns how many there were.
func (o *Orchestrator) CancelAll() int {
	return o.registry.cancelAll()
}

// State returns the lifecycle state of listID.
func (o *Orchestrator) State(listID string) State {
	state, _ := o.registry.state(listID)
	return state
}

// Err returns the error that failed the last import of listID, if any.
func (o *Orchestrator) Err(listID string) error {
	_, err := o.registry.state(listID)
	return err
}

type rowResult struct {
	index   int
	row     csvimport.Row
	outcome outcome
	movie   catalog.Movie
	err     error
}

// ImportList resolves rows and merges the matches into the catalog. Only
// services.ErrAuth fails the list; any other per-row error counts the row as
// unmatched.
func (o *Orchestrator) ImportList(ctx context.Context, rows []csvimport.Row, listID string, onProgress ProgressFunc) (Result, error) {
	j, err := o.registry.begin(listID)
	if err != nil {
		return Result{ListID: listID, State: StateRunning}, services.Wrap(services.ErrValidation, "importer", "import list", listID, err)
	}

	start := time.Now()
	total := len(rows)
	result := Result{ListID: listID, Total: total}
	ctx = services.WithListID(ctx, listID)
	logger := logging.WithContext(ctx, o.logger)
	logger.Info("list import started",
		logging.String(logging.FieldEventType, "import_started"),
		logging.Int("rows", total),
		logging.Int("max_concurrency", o.opts.MaxConcurrency),
	)

	results := make(chan rowResult, total)
	dispatched := make(chan int, 1)
	go o.dispatch(ctx, j, rows, listID, results, dispatched)

	accepted := make([]*catalog.Movie, total)
	var fatal error
	admitted := -1
	done := ctx.Done()
	for admitted < 0 || result.Completed < admitted {
		select {
		case n := <-dispatched:
			admitted = n
			continue
		case <-done:
			j.cancelled.Store(true)
			done = nil
			continue
		case r := <-results:
			result.Completed++
			o.record(logger, j, &result, r, accepted, &fatal)
		}
		report(onProgress, listID, result.Completed, total, fraction(result.Completed, total))
	}

	stopped := j.cancelled.Load()
	if stopped && result.Completed < total {
		report(onProgress, listID, result.Completed, total, 1)
	}

	batch := make([]catalog.Movie, 0, result.Matched+result.Synthesized)
	for _, m := range accepted {
		if m != nil {
			batch = append(batch, *m)
		}
	}
	if len(batch) > 0 {
		result.Merge = o.catalog.Merge(batch, listID)
	}

	switch {
	case fatal != nil:
		result.State = StateFailed
	case stopped:
		result.State = StateCancelled
	default:
		result.State = StateCompleted
	}
	result.Duration = time.Since(start)
	o.registry.finish(listID, result.State, fatal)

	logger.Info("list import finished",
		logging.String(logging.FieldEventType, "import_finished"),
		logging.String("state", result.State.String()),
		logging.Int("completed", result.Completed),
		logging.Int("matched", result.Matched),
		logging.Int("unmatched", result.Unmatched),
		logging.Int("failed", result.Failed),
		logging.Int("synthesized", result.Synthesized),
		logging.Int("discarded", result.Discarded),
		logging.Int("added", result.Merge.Added),
		logging.Duration("duration", result.Duration),
	)
	if fatal != nil {
		return result, fatal
	}
	return result, nil
}

// dispatch admits rows while slots are free and the job is not cancelled,
// then reports how many rows it admitted.
func (o *Orchestrator) dispatch(ctx context.Context, j *job, rows []csvimport.Row, listID string, results chan<- rowResult, dispatched chan<- int) {
	sem := semaphore.NewWeighted(int64(o.opts.MaxConcurrency))
	// In-flight searches drain instead of being aborted when ctx ends.
	fetchCtx := context.WithoutCancel(ctx)
	admitted := 0
	defer func() { dispatched <- admitted }()

	for i, row := range rows {
		if j.cancelled.Load() {
			return
		}
		if err := sem.Acquire(ctx, 1); err != nil {
			return
		}
		if j.cancelled.Load() {
			sem.Release(1)
			return
		}
		admitted++
		go func() {
			defer sem.Release(1)
			rowCtx := services.WithRowRank(fetchCtx, row.Rank)
			movie, out, err := o.resolve(rowCtx, row, listID)
			results <- rowResult{index: i, row: row, outcome: out, movie: movie, err: err}
		}()
	}
}

// record folds one row result into the running totals.
func (o *Orchestrator) record(logger *slog.Logger, j *job, result *Result, r rowResult, accepted []*catalog.Movie, fatal *error) {
	if r.err != nil {
		result.Failed++
		if services.IsFatalToBatch(r.err) {
			if *fatal == nil {
				*fatal = r.err
				logging.ErrorWithContext(logger, "list import aborted", "import_aborted",
					logging.Int(logging.FieldRowRank, r.row.Rank),
					logging.Error(r.err),
					logging.String(logging.FieldErrorHint, "set tmdb.api_key or TMDB_API_KEY"),
				)
			}
			j.cancelled.Store(true)
			return
		}
		logging.WarnWithContext(logger, "row search failed", "import_row_failed",
			logging.Int(logging.FieldRowRank, r.row.Rank),
			logging.String("title", r.row.Title),
			logging.Error(r.err),
			logging.String(logging.FieldImpact, "row counted as unmatched"),
		)
		return
	}
	if j.cancelled.Load() {
		result.Discarded++
		return
	}
	switch r.outcome {
	case outcomeMatched:
		result.Matched++
	case outcomeSynthesized:
		result.Synthesized++
	default:
		result.Unmatched++
		logger.Debug("no match for row",
			logging.Int(logging.FieldRowRank, r.row.Rank),
			logging.String("title", r.row.Title),
			logging.Int("year", r.row.Year),
		)
		return
	}
	movie := r.movie
	accepted[r.index] = &movie
}

func report(fn ProgressFunc, listID string, completed, total int, frac float64) {
	if fn == nil {
		return
	}
	fn(Progress{ListID: listID, Completed: completed, Total: total, Fraction: frac})
}

func fraction(completed, total int) float64 {
	if total <= 0 {
		return 1
	}
	return float64(completed) / float64(total)
}
