// Package routine holds the day's exercises in the order they are to be done.
package routine

import "github.com/claude/fittrack/internal/exercise"

// entry borrows the exercise; the catalog owns it.
type entry struct {
	exercise *exercise.Exercise
	next     *entry
}

// Queue is a linked FIFO of exercises. It is not safe for concurrent use.
type Queue struct {
	head, tail *entry
	size       int
}

// New returns an empty queue.
func New() *Queue {
	return &Queue{}
}

// Enqueue appends e to the back of the queue.
func (q *Queue) Enqueue(e *exercise.Exercise) {
	n := &entry{exercise: e}
	if q.tail == nil {
		q.head = n
	} else {
		q.tail.next = n
	}
	q.tail = n
	q.size++
}

// Dequeue removes and returns the front exercise. It returns false when the queue is empty.
func (q *Queue) Dequeue() (*exercise.Exercise, bool) {
	if q.head == nil {
		return nil, false
	}
	n := q.head
	q.head = n.next
	if q.head == nil {
		q.tail = nil
	}
	q.size--
	return n.exercise, true
}

// Peek returns the front exercise without removing it.
func (q *Queue) Peek() (*exercise.Exercise, bool) {
	if q.head == nil {
		return nil, false
	}
	return q.head.exercise, true
}

func (q *Queue) IsEmpty() bool {
	return q.head == nil
}

// Len returns the number of queued exercises.
func (q *Queue) Len() int {
	return q.size
}

// Clear drops every entry.
func (q *Queue) Clear() {
	q.head, q.tail = nil, nil
	q.size = 0
}

// List returns the queued exercises front to back.
func (q *Queue) List() []*exercise.Exercise {
	out := make([]*exercise.Exercise, 0, q.size)
	for n := q.head; n != nil; n = n.next {
		out = append(out, n.exercise)
	}
	return out
}
