package workout

import (
	"errors"
	"sync"

	"github.com/claude/fittrack/internal/exercise"
)

// ErrRoutineEmpty is returned when the routine has nothing left to do.
var ErrRoutineEmpty = errors.New("routine is empty")

// Stats summarizes the tracker state.
type Stats struct {
	Exercises int `json:"exercises"`
	Routine   int `json:"routine"`
}

// Tracker guards a Manager for use from concurrent request handlers.
// Writers hold the lock exclusively; every result is a Record copy, so callers
// never keep a live pointer past the lock.
type Tracker struct {
	mu  sync.RWMutex
	mgr *Manager
}

// NewTracker wraps mgr. A nil mgr starts empty.
func NewTracker(mgr *Manager) *Tracker {
	if mgr == nil {
		mgr = NewManager()
	}
	return &Tracker{mgr: mgr}
}

func records(list []*exercise.Exercise) []exercise.Record {
	out := make([]exercise.Record, len(list))
	for i, e := range list {
		out[i] = e.Record()
	}
	return out
}

// List returns the filtered, sorted catalog.
func (t *Tracker) List(opts ListOptions) ([]exercise.Record, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	list, err := t.mgr.GetAllExercises(opts)
	if err != nil {
		return nil, err
	}
	return records(list), nil
}

// Get returns the named exercise.
func (t *Tracker) Get(name string) (exercise.Record, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	e, err := t.mgr.FindExercise(name)
	if err != nil {
		return exercise.Record{}, err
	}
	return e.Record(), nil
}

// Add validates and inserts a new exercise.
func (t *Tracker) Add(r exercise.Record) (exercise.Record, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, err := t.mgr.AddExercise(r)
	if err != nil {
		return exercise.Record{}, err
	}
	return e.Record(), nil
}

// Edit applies u to the named exercise.
func (t *Tracker) Edit(name string, u exercise.Update) (exercise.Record, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, err := t.mgr.EditExercise(name, u)
	if err != nil {
		return exercise.Record{}, err
	}
	return e.Record(), nil
}

// Delete removes the named exercise.
func (t *Tracker) Delete(name string) (exercise.Record, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, err := t.mgr.DeleteExercise(name)
	if err != nil {
		return exercise.Record{}, err
	}
	return e.Record(), nil
}

// Suggest returns catalog names close to name.
func (t *Tracker) Suggest(name string, limit int) []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.mgr.Suggest(name, limit)
}

// Enqueue looks the exercise up by name and appends it to the routine.
func (t *Tracker) Enqueue(name string) (exercise.Record, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, err := t.mgr.FindExercise(name)
	if err != nil {
		return exercise.Record{}, err
	}
	t.mgr.AddToDailyRoutine(e)
	return e.Record(), nil
}

// CompleteNext removes the next routine exercise.
func (t *Tracker) CompleteNext() (exercise.Record, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.mgr.CompleteNextExercise()
	if !ok {
		return exercise.Record{}, ErrRoutineEmpty
	}
	return e.Record(), nil
}

// Next returns the next routine exercise without removing it.
func (t *Tracker) Next() (exercise.Record, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	e, ok := t.mgr.NextExercise()
	if !ok {
		return exercise.Record{}, ErrRoutineEmpty
	}
	return e.Record(), nil
}

// Routine returns the remaining routine front to back.
func (t *Tracker) Routine() []exercise.Record {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return records(t.mgr.GetRoutineList())
}

func (t *Tracker) ClearRoutine() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.mgr.ClearRoutine()
}

// Snapshot returns the whole catalog in name order, ready to persist.
func (t *Tracker) Snapshot() []exercise.Record {
	t.mu.RLock()
	defer t.mu.RUnlock()
	list, _ := t.mgr.GetAllExercises(ListOptions{})
	return records(list)
}

// Replace discards the catalog and routine and rebuilds them from entries.
func (t *Tracker) Replace(entries []exercise.Fields) LoadResult {
	mgr := NewManager()
	res := mgr.Load(entries)

	t.mu.Lock()
	t.mgr = mgr
	t.mu.Unlock()
	return res
}

// Import adds entries to the existing catalog.
func (t *Tracker) Import(entries []exercise.Fields) LoadResult {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.mgr.Load(entries)
}

// Seed adds the starter exercises that are missing.
func (t *Tracker) Seed() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.mgr.SeedSamples()
}

func (t *Tracker) Stats() Stats {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return Stats{Exercises: t.mgr.Len(), Routine: t.mgr.RoutineLen()}
}
