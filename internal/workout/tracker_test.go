package workout

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/claude/fittrack/internal/exercise"
)

// TestTrackerRoutine covers routine operations by name and the empty errors.
func TestTrackerRoutine(t *testing.T) {
	tr := NewTracker(newManager(t, pushUp, squat))

	if _, err := tr.Next(); !errors.Is(err, ErrRoutineEmpty) {
		t.Errorf("Next() err = %v, want ErrRoutineEmpty", err)
	}
	if _, err := tr.Enqueue("lunge"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Enqueue(lunge) err = %v, want ErrNotFound", err)
	}
	if _, err := tr.Enqueue("squat"); err != nil {
		t.Fatal(err)
	}
	if _, err := tr.Enqueue("PUSH-UP"); err != nil {
		t.Fatal(err)
	}

	if got := tr.Stats(); got != (Stats{Exercises: 2, Routine: 2}) {
		t.Errorf("Stats() = %+v", got)
	}

	next, err := tr.Next()
	if err != nil || next.Name != "Squat" {
		t.Fatalf("Next() = %v, %v; want Squat", next, err)
	}
	done, err := tr.CompleteNext()
	if err != nil || done.Name != "Squat" {
		t.Fatalf("CompleteNext() = %v, %v; want Squat", done, err)
	}
	if r := tr.Routine(); len(r) != 1 || r[0].Name != "Push-Up" {
		t.Errorf("Routine() = %v, want [Push-Up]", r)
	}

	tr.ClearRoutine()
	if _, err := tr.CompleteNext(); !errors.Is(err, ErrRoutineEmpty) {
		t.Errorf("CompleteNext() err = %v, want ErrRoutineEmpty", err)
	}
}

// TestTrackerReturnsCopies verifies callers cannot mutate catalog state through results.
func TestTrackerReturnsCopies(t *testing.T) {
	tr := NewTracker(newManager(t, squat))
	r, err := tr.Get("squat")
	if err != nil {
		t.Fatal(err)
	}
	r.Reps = 1000
	again, _ := tr.Get("squat")
	if again.Reps != squat.Reps {
		t.Errorf("Reps = %d, want %d", again.Reps, squat.Reps)
	}
}

// TestTrackerReplaceResetsRoutine mirrors loading a file: catalog and routine start over.
func TestTrackerReplaceResetsRoutine(t *testing.T) {
	tr := NewTracker(newManager(t, pushUp, squat))
	tr.Enqueue("Squat")

	res := tr.Replace([]exercise.Fields{plank.Fields(), {"name": 5}})
	if res.Loaded != 1 || res.Skipped != 1 {
		t.Errorf("Replace result = %+v", res)
	}
	if got := tr.Stats(); got != (Stats{Exercises: 1, Routine: 0}) {
		t.Errorf("Stats() = %+v, want 1 exercise and empty routine", got)
	}

	res = tr.Import([]exercise.Fields{squat.Fields(), plank.Fields()})
	if res.Loaded != 1 || res.Skipped != 1 {
		t.Errorf("Import result = %+v", res)
	}
	snap := tr.Snapshot()
	if len(snap) != 2 || snap[0].Name != "Plank" || snap[1].Name != "Squat" {
		t.Errorf("Snapshot() = %v", snap)
	}
}

// TestTrackerConcurrentUse exercises the lock under -race.
func TestTrackerConcurrentUse(t *testing.T) {
	tr := NewTracker(nil)
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				name := fmt.Sprintf("Ex-%d-%d", w, i)
				if _, err := tr.Add(exercise.Record{Name: name, Difficulty: 1}); err != nil {
					t.Errorf("Add(%s): %v", name, err)
					return
				}
				tr.Enqueue(name)
				tr.List(ListOptions{Search: "ex"})
				tr.CompleteNext()
			}
		}(w)
	}
	wg.Wait()

	if got := tr.Stats().Exercises; got != 400 {
		t.Errorf("Exercises = %d, want 400", got)
	}
}
