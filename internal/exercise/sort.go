package exercise

import (
	"cmp"
	"fmt"
	"strings"
)

// SortBy returns a copy of list ordered ascending by field. Equal keys keep
// their relative order. Text fields compare case-insensitively.
func SortBy(list []*Exercise, field string) ([]*Exercise, error) {
	less, err := comparator(field)
	if err != nil {
		return nil, err
	}

	out := make([]*Exercise, len(list))
	copy(out, list)

	// Insertion sort: catalogs are small and the shift-while-greater loop is stable.
	for i := 1; i < len(out); i++ {
		current := out[i]
		j := i - 1
		for j >= 0 && less(current, out[j]) {
			out[j+1] = out[j]
			j--
		}
		out[j+1] = current
	}
	return out, nil
}

// comparator returns a strict less-than for field.
func comparator(field string) (func(a, b *Exercise) bool, error) {
	switch field {
	case FieldName:
		return byText(func(e *Exercise) string { return e.Name }), nil
	case FieldMuscleGroup:
		return byText(func(e *Exercise) string { return e.MuscleGroup }), nil
	case FieldCategory:
		return byText(func(e *Exercise) string { return e.Category }), nil
	case FieldSets:
		return byNumber(func(e *Exercise) int { return e.Sets }), nil
	case FieldReps:
		return byNumber(func(e *Exercise) int { return e.Reps }), nil
	case FieldDifficulty:
		return byNumber(func(e *Exercise) int { return e.Difficulty }), nil
	case FieldDuration:
		return byNumber(func(e *Exercise) float64 { return e.Duration }), nil
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownField, field)
}

func byText(key func(*Exercise) string) func(a, b *Exercise) bool {
	return func(a, b *Exercise) bool {
		return strings.ToLower(key(a)) < strings.ToLower(key(b))
	}
}

func byNumber[T cmp.Ordered](key func(*Exercise) T) func(a, b *Exercise) bool {
	return func(a, b *Exercise) bool {
		return key(a) < key(b)
	}
}
