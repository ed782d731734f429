package importer

import (
	"errors"
	"sync"
	"sync/atomic"
)

// ErrAlreadyRunning is returned when a list is imported while an import of
// the same list is still running.
var ErrAlreadyRunning = errors.New("import already running")

// State is the lifecycle of one list's import.
type State int

const (
	StateIdle State = iota
	StateRunning
	StateCompleted
	StateCancelled
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateCancelled:
		return "cancelled"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// job tracks one running import.
type job struct {
	cancelled atomic.Bool
}

// registry holds per-list state. It is the only state shared with other
// goroutines (Cancel and State may be called from anywhere).
type registry struct {
	mu     sync.Mutex
	states map[string]State
	errs   map[string]error
	jobs   map[string]*job
}

func newRegistry() *registry {
	return &registry{
		states: make(map[string]State),
		errs:   make(map[string]error),
		jobs:   make(map[string]*job),
	}
}

func (r *registry) begin(listID string) (*job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.states[listID] == StateRunning {
		return nil, ErrAlreadyRunning
	}
	j := &job{}
	r.jobs[listID] = j
	r.states[listID] = StateRunning
	delete(r.errs, listID)
	return j, nil
}

func (r *registry) finish(listID string, state State, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.jobs, listID)
	r.states[listID] = state
	if err != nil {
		r.errs[listID] = err
	} else {
		delete(r.errs, listID)
	}
}

func (r *registry) cancel(listID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.jobs[listID]
	if !ok {
		return false
	}
	j.cancelled.Store(true)
	return true
}

func (r *registry) cancelAll() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, j := range r.jobs {
		j.cancelled.Store(true)
	}
	return len(r.jobs)
}

func (r *registry) state(listID string) (State, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.states[listID], r.errs[listID]
}
