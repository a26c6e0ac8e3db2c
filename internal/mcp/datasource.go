package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/claude/fittrack/internal/exercise"
	"github.com/claude/fittrack/internal/workout"
)

// Backend abstracts the tracker for MCP tools. Local (in-process tracker) and
// HTTPClient (remote via REST API) both satisfy this interface.
type Backend interface {
	ListExercises(ctx context.Context, opts workout.ListOptions) ([]exercise.Record, error)
	GetExercise(ctx context.Context, name string) (exercise.Record, error)
	AddExercise(ctx context.Context, f exercise.Fields) (exercise.Record, error)
	EditExercise(ctx context.Context, name string, f exercise.Fields) (exercise.Record, error)
	DeleteExercise(ctx context.Context, name string) (exercise.Record, error)
	AddToRoutine(ctx context.Context, name string) (exercise.Record, error)
	Routine(ctx context.Context) ([]exercise.Record, error)
	CompleteNext(ctx context.Context) (exercise.Record, error)
	ClearRoutine(ctx context.Context) error
}

// Compile-time checks.
var (
	_ Backend = Local{}
	_ Backend = (*HTTPClient)(nil)
)

// Local serves MCP tools straight from an in-process tracker.
type Local struct {
	Tracker *workout.Tracker
}

func (l Local) ListExercises(_ context.Context, opts workout.ListOptions) ([]exercise.Record, error) {
	return l.Tracker.List(opts)
}

func (l Local) GetExercise(_ context.Context, name string) (exercise.Record, error) {
	r, err := l.Tracker.Get(name)
	return r, l.suggest(name, err)
}

func (l Local) AddExercise(_ context.Context, f exercise.Fields) (exercise.Record, error) {
	r, err := exercise.ParseRecord(f)
	if err != nil {
		return exercise.Record{}, err
	}
	return l.Tracker.Add(r)
}

func (l Local) EditExercise(_ context.Context, name string, f exercise.Fields) (exercise.Record, error) {
	u, err := exercise.ParseUpdate(f)
	if err != nil {
		return exercise.Record{}, err
	}
	r, err := l.Tracker.Edit(name, u)
	return r, l.suggest(name, err)
}

func (l Local) DeleteExercise(_ context.Context, name string) (exercise.Record, error) {
	r, err := l.Tracker.Delete(name)
	return r, l.suggest(name, err)
}

func (l Local) AddToRoutine(_ context.Context, name string) (exercise.Record, error) {
	r, err := l.Tracker.Enqueue(name)
	return r, l.suggest(name, err)
}

func (l Local) Routine(context.Context) ([]exercise.Record, error) {
	return l.Tracker.Routine(), nil
}

func (l Local) CompleteNext(context.Context) (exercise.Record, error) {
	return l.Tracker.CompleteNext()
}

func (l Local) ClearRoutine(context.Context) error {
	l.Tracker.ClearRoutine()
	return nil
}

func (l Local) suggest(name string, err error) error {
	if !errors.Is(err, workout.ErrNotFound) {
		return err
	}
	return withSuggestions(err, l.Tracker.Suggest(name, 3))
}

// withSuggestions appends "did you mean" names to a not-found error, keeping
// it matchable with errors.Is.
func withSuggestions(err error, names []string) error {
	if len(names) == 0 {
		return err
	}
	return fmt.Errorf("%w (did you mean %s?)", err, strings.Join(names, ", "))
}
