package routine

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/claude/fittrack/internal/exercise"
)

func newExercise(t *testing.T, name string) *exercise.Exercise {
	t.Helper()
	e, err := exercise.New(name, "Legs", 3, 10, 5, 3, "Strength")
	if err != nil {
		t.Fatal(err)
	}
	return e
}

// TestFIFOOrder verifies List and Dequeue both follow enqueue order.
func TestFIFOOrder(t *testing.T) {
	q := New()
	squat, pushUp, plank := newExercise(t, "Squat"), newExercise(t, "Push-Up"), newExercise(t, "Plank")
	q.Enqueue(squat)
	q.Enqueue(pushUp)
	q.Enqueue(plank)

	list := q.List()
	if len(list) != 3 || list[0] != squat || list[1] != pushUp || list[2] != plank {
		t.Fatalf("List() order wrong: %v", list)
	}
	if q.Len() != 3 {
		t.Errorf("Len() = %d, want 3 (List must not mutate)", q.Len())
	}

	for _, want := range []*exercise.Exercise{squat, pushUp, plank} {
		got, ok := q.Dequeue()
		if !ok || got != want {
			t.Fatalf("Dequeue() = %v, %v; want %s", got, ok, want.Name)
		}
	}
	if !q.IsEmpty() {
		t.Error("queue should be empty")
	}
}

// TestEmptySentinels verifies empty Dequeue/Peek return the sentinel, not a panic.
func TestEmptySentinels(t *testing.T) {
	q := New()
	if e, ok := q.Dequeue(); ok || e != nil {
		t.Errorf("Dequeue() = %v, %v; want nil, false", e, ok)
	}
	if e, ok := q.Peek(); ok || e != nil {
		t.Errorf("Peek() = %v, %v; want nil, false", e, ok)
	}
	if q.Len() != 0 {
		t.Errorf("Len() = %d, want 0", q.Len())
	}
}

func TestPeekDoesNotRemove(t *testing.T) {
	q := New()
	e := newExercise(t, "Squat")
	q.Enqueue(e)
	for i := 0; i < 2; i++ {
		got, ok := q.Peek()
		if !ok || got != e {
			t.Fatalf("Peek() = %v, %v", got, ok)
		}
	}
	if q.Len() != 1 {
		t.Errorf("Len() = %d, want 1", q.Len())
	}
}

// TestClearThenReuse checks Clear resets head and tail so later enqueues work.
func TestClearThenReuse(t *testing.T) {
	q := New()
	q.Enqueue(newExercise(t, "A"))
	q.Enqueue(newExercise(t, "B"))
	q.Clear()
	if !q.IsEmpty() || q.Len() != 0 || len(q.List()) != 0 {
		t.Fatalf("queue not empty after Clear: len=%d", q.Len())
	}

	c := newExercise(t, "C")
	q.Enqueue(c)
	if got, _ := q.Peek(); got != c {
		t.Errorf("Peek() after Clear+Enqueue = %v, want C", got)
	}
	if q.Len() != 1 {
		t.Errorf("Len() = %d, want 1", q.Len())
	}
}

// TestSizeMatchesOperations checks size == enqueues - successful dequeues over random runs.
func TestSizeMatchesOperations(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 9))
	q := New()
	want := 0
	for i := 0; i < 500; i++ {
		if rng.IntN(2) == 0 {
			q.Enqueue(newExercise(t, fmt.Sprintf("Ex%d", i)))
			want++
		} else {
			_, ok := q.Dequeue()
			if ok != (want > 0) {
				t.Fatalf("step %d: Dequeue ok=%v with %d queued", i, ok, want)
			}
			if want > 0 {
				want--
			}
		}
		if q.Len() != want {
			t.Fatalf("step %d: Len() = %d, want %d", i, q.Len(), want)
		}
		if len(q.List()) != want {
			t.Fatalf("step %d: len(List()) = %d, want %d", i, len(q.List()), want)
		}
	}
}

// TestSharedReference verifies the queue sees edits made through the catalog's pointer.
func TestSharedReference(t *testing.T) {
	q := New()
	e := newExercise(t, "Squat")
	q.Enqueue(e)
	e.Reps = 20
	got, _ := q.Peek()
	if got.Reps != 20 {
		t.Errorf("Reps = %d, want live value 20", got.Reps)
	}
}
