// Package workout composes the exercise catalog and the daily routine.
package workout

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
	"go.uber.org/multierr"

	"github.com/claude/fittrack/internal/catalog"
	"github.com/claude/fittrack/internal/exercise"
	"github.com/claude/fittrack/internal/routine"
)

var (
	ErrNotFound      = errors.New("exercise not found")
	ErrDuplicateName = errors.New("exercise already exists")
)

// ListOptions selects and orders GetAllExercises output. Zero values disable a stage.
type ListOptions struct {
	SortKey  string
	Category string
	Search   string
}

// Manager owns one catalog and one routine. It is not safe for concurrent
// use; see Tracker.
type Manager struct {
	catalog *catalog.Catalog
	routine *routine.Queue
}

// NewManager returns a manager with an empty catalog and routine.
func NewManager() *Manager {
	return &Manager{
		catalog: catalog.New(),
		routine: routine.New(),
	}
}

// AddExercise validates r and inserts it into the catalog.
func (m *Manager) AddExercise(r exercise.Record) (*exercise.Exercise, error) {
	e, err := exercise.FromRecord(r)
	if err != nil {
		return nil, err
	}
	if !m.catalog.Insert(e) {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateName, e.Name)
	}
	return e, nil
}

// FindExercise looks an exercise up by name, ignoring case.
func (m *Manager) FindExercise(name string) (*exercise.Exercise, error) {
	e, ok := m.catalog.Find(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return e, nil
}

// EditExercise overwrites the supplied fields of the named exercise in place.
// Values are not re-validated. A rename re-keys the catalog entry while keeping
// the same record, so routine entries follow it.
func (m *Manager) EditExercise(name string, u exercise.Update) (*exercise.Exercise, error) {
	e, ok := m.catalog.Find(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	if u.Name != nil {
		trimmed := strings.TrimSpace(*u.Name)
		u.Name = &trimmed
	}
	if u.Name != nil && !strings.EqualFold(*u.Name, e.Name) {
		// The name is the catalog key; a blank one would make the record unreachable.
		if *u.Name == "" {
			return nil, fmt.Errorf("%w: name must be a non-empty string", exercise.ErrInvalidArgument)
		}
		if _, taken := m.catalog.Find(*u.Name); taken {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateName, *u.Name)
		}
		m.catalog.Delete(e.Name)
		e.Apply(u)
		m.catalog.Insert(e)
		return e, nil
	}

	e.Apply(u)
	return e, nil
}

// DeleteExercise removes the named exercise from the catalog and returns it.
func (m *Manager) DeleteExercise(name string) (*exercise.Exercise, error) {
	e, ok := m.catalog.Delete(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return e, nil
}

// GetAllExercises returns the catalog in name order, then filters by category,
// then by name substring, then optionally re-sorts by opts.SortKey.
func (m *Manager) GetAllExercises(opts ListOptions) ([]*exercise.Exercise, error) {
	items := m.catalog.InOrder()

	if opts.Category != "" {
		items = filter(items, func(e *exercise.Exercise) bool {
			return strings.EqualFold(e.Category, opts.Category)
		})
	}

	if opts.Search != "" {
		needle := strings.ToLower(opts.Search)
		items = filter(items, func(e *exercise.Exercise) bool {
			return strings.Contains(strings.ToLower(e.Name), needle)
		})
	}

	if opts.SortKey != "" {
		return exercise.SortBy(items, opts.SortKey)
	}
	return items, nil
}

func filter(items []*exercise.Exercise, keep func(*exercise.Exercise) bool) []*exercise.Exercise {
	out := items[:0:0]
	for _, e := range items {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}

// Len returns the catalog size.
func (m *Manager) Len() int {
	return m.catalog.Len()
}

// Suggest returns up to limit catalog names closest to name by edit distance.
// Names further away than half their length are not suggested.
func (m *Manager) Suggest(name string, limit int) []string {
	query := strings.ToLower(strings.TrimSpace(name))
	if query == "" || limit <= 0 {
		return nil
	}

	type candidate struct {
		name string
		dist int
	}
	var candidates []candidate
	for _, e := range m.catalog.InOrder() {
		key := strings.ToLower(e.Name)
		dist := levenshtein.ComputeDistance(query, key)
		if strings.Contains(key, query) {
			dist = 0
		}
		if dist*2 > max(len(key), len(query)) {
			continue
		}
		candidates = append(candidates, candidate{name: e.Name, dist: dist})
	}

	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].dist < candidates[j].dist })
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = c.name
	}
	return out
}

// AddToDailyRoutine queues e. The routine keeps a reference, not a copy.
func (m *Manager) AddToDailyRoutine(e *exercise.Exercise) {
	m.routine.Enqueue(e)
}

// CompleteNextExercise removes and returns the next routine exercise.
func (m *Manager) CompleteNextExercise() (*exercise.Exercise, bool) {
	return m.routine.Dequeue()
}

// NextExercise returns the next routine exercise without completing it.
func (m *Manager) NextExercise() (*exercise.Exercise, bool) {
	return m.routine.Peek()
}

// GetRoutineList returns the routine front to back.
func (m *Manager) GetRoutineList() []*exercise.Exercise {
	return m.routine.List()
}

// RoutineLen returns the number of exercises left in the routine.
func (m *Manager) RoutineLen() int {
	return m.routine.Len()
}

func (m *Manager) ClearRoutine() {
	m.routine.Clear()
}

// LoadResult reports how a batch of stored records was applied.
type LoadResult struct {
	Received int   `json:"received"`
	Loaded   int   `json:"loaded"`
	Skipped  int   `json:"skipped"`
	Err      error `json:"-"`
}

// Errors returns the individual reasons entries were skipped.
func (r LoadResult) Errors() []error {
	return multierr.Errors(r.Err)
}

// Load adds each stored record to the catalog. Entries that do not parse,
// fail validation or collide with an existing name are skipped; the reasons
// are collected in the result rather than aborting the load.
func (m *Manager) Load(entries []exercise.Fields) LoadResult {
	res := LoadResult{Received: len(entries)}
	for i, f := range entries {
		r, err := exercise.ParseRecord(f)
		if err == nil {
			_, err = m.AddExercise(r)
		}
		if err != nil {
			res.Skipped++
			res.Err = multierr.Append(res.Err, fmt.Errorf("entry %d: %w", i, err))
			continue
		}
		res.Loaded++
	}
	return res
}

// Samples are the starter exercises offered on a fresh install.
var Samples = []exercise.Record{
	{Name: "Push-Up", MuscleGroup: "Chest", Sets: 3, Reps: 12, Duration: 10, Difficulty: 3, Category: "Strength"},
	{Name: "Squat", MuscleGroup: "Legs", Sets: 4, Reps: 15, Duration: 15, Difficulty: 4, Category: "Strength"},
	{Name: "Jumping Jacks", MuscleGroup: "Full Body", Sets: 2, Reps: 30, Duration: 5, Difficulty: 2, Category: "Cardio"},
	{Name: "Plank", MuscleGroup: "Core", Sets: 3, Reps: 1, Duration: 3, Difficulty: 5, Category: "Core"},
}

// SeedSamples adds any missing starter exercises and returns how many were added.
func (m *Manager) SeedSamples() int {
	added := 0
	for _, r := range Samples {
		if _, err := m.AddExercise(r); err == nil {
			added++
		}
	}
	return added
}
