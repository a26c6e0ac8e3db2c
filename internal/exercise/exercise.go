package exercise

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// DefaultGroup is used for muscle_group and category when none is given.
const DefaultGroup = "General"

var (
	// ErrInvalidArgument is returned for constructor input that fails validation.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrUnknownField is returned when a field name is not one of the record keys.
	ErrUnknownField = fmt.Errorf("%w: unknown field", ErrInvalidArgument)
)

// Exercise is a single catalog entry. The catalog owns it; the daily routine
// only borrows the pointer, so in-place edits show up in both.
type Exercise struct {
	Name        string
	MuscleGroup string
	Sets        int
	Reps        int
	Duration    float64 // minutes
	Difficulty  int     // 1-10
	Category    string
}

// New validates the raw inputs and returns a new Exercise.
// Sets and reps are stored as given; only name, duration and difficulty are checked.
func New(name, muscleGroup string, sets, reps int, duration float64, difficulty int, category string) (*Exercise, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name must be a non-empty string", ErrInvalidArgument)
	}
	if math.IsNaN(duration) || math.IsInf(duration, 0) || duration < 0 {
		return nil, fmt.Errorf("%w: duration must be a non-negative number", ErrInvalidArgument)
	}
	if difficulty < 1 || difficulty > 10 {
		return nil, fmt.Errorf("%w: difficulty must be integer between 1 and 10", ErrInvalidArgument)
	}

	muscleGroup = strings.TrimSpace(muscleGroup)
	if muscleGroup == "" {
		muscleGroup = DefaultGroup
	}
	if category == "" {
		category = DefaultGroup
	}

	return &Exercise{
		Name:        name,
		MuscleGroup: muscleGroup,
		Sets:        sets,
		Reps:        reps,
		Duration:    duration,
		Difficulty:  difficulty,
		Category:    category,
	}, nil
}

// FromRecord builds an Exercise from its serialized view.
func FromRecord(r Record) (*Exercise, error) {
	return New(r.Name, r.MuscleGroup, r.Sets, r.Reps, r.Duration, r.Difficulty, r.Category)
}

// Record returns a value copy of the exercise.
func (e *Exercise) Record() Record {
	return Record{
		Name:        e.Name,
		MuscleGroup: e.MuscleGroup,
		Sets:        e.Sets,
		Reps:        e.Reps,
		Duration:    e.Duration,
		Difficulty:  e.Difficulty,
		Category:    e.Category,
	}
}

// Apply overwrites the supplied fields in place. Values are not re-validated.
func (e *Exercise) Apply(u Update) {
	if u.Name != nil {
		e.Name = *u.Name
	}
	if u.MuscleGroup != nil {
		e.MuscleGroup = *u.MuscleGroup
	}
	if u.Sets != nil {
		e.Sets = *u.Sets
	}
	if u.Reps != nil {
		e.Reps = *u.Reps
	}
	if u.Duration != nil {
		e.Duration = *u.Duration
	}
	if u.Difficulty != nil {
		e.Difficulty = *u.Difficulty
	}
	if u.Category != nil {
		e.Category = *u.Category
	}
}

func (e *Exercise) String() string {
	return fmt.Sprintf("%s (%s) - %dx%d, %smin, Diff:%d",
		e.Name, e.MuscleGroup, e.Sets, e.Reps, formatMinutes(e.Duration), e.Difficulty)
}

func formatMinutes(d float64) string {
	if d == math.Trunc(d) {
		return fmt.Sprintf("%.0f", d)
	}
	return fmt.Sprintf("%g", d)
}
