package exercise

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Record keys. They are the persisted field names and must stay stable.
const (
	FieldName        = "name"
	FieldMuscleGroup = "muscle_group"
	FieldSets        = "sets"
	FieldReps        = "reps"
	FieldDuration    = "duration"
	FieldDifficulty  = "difficulty"
	FieldCategory    = "category"
)

// Keys lists the record keys in persisted order.
var Keys = []string{
	FieldName, FieldMuscleGroup, FieldSets, FieldReps, FieldDuration, FieldDifficulty, FieldCategory,
}

// Record is the serializable view of an Exercise.
type Record struct {
	Name        string  `json:"name"`
	MuscleGroup string  `json:"muscle_group"`
	Sets        int     `json:"sets"`
	Reps        int     `json:"reps"`
	Duration    float64 `json:"duration"`
	Difficulty  int     `json:"difficulty"`
	Category    string  `json:"category"`
}

// Fields is a loosely typed field-value record, as read back from storage or
// received from untyped callers.
type Fields map[string]any

// Fields returns the record as a field-value map.
func (r Record) Fields() Fields {
	return Fields{
		FieldName:        r.Name,
		FieldMuscleGroup: r.MuscleGroup,
		FieldSets:        r.Sets,
		FieldReps:        r.Reps,
		FieldDuration:    r.Duration,
		FieldDifficulty:  r.Difficulty,
		FieldCategory:    r.Category,
	}
}

// ParseRecord coerces a field-value record into a Record. Missing keys other
// than name take the loader defaults. Ranges are not checked here; FromRecord does that.
func ParseRecord(f Fields) (Record, error) {
	r := Record{
		MuscleGroup: DefaultGroup,
		Sets:        1,
		Reps:        1,
		Difficulty:  1,
		Category:    DefaultGroup,
	}

	raw, ok := f[FieldName]
	if !ok || raw == nil {
		return Record{}, fmt.Errorf("%w: name is required", ErrInvalidArgument)
	}
	u, err := ParseUpdate(f)
	if err != nil {
		return Record{}, err
	}

	r.Name = *u.Name
	if u.MuscleGroup != nil {
		r.MuscleGroup = *u.MuscleGroup
	}
	if u.Sets != nil {
		r.Sets = *u.Sets
	}
	if u.Reps != nil {
		r.Reps = *u.Reps
	}
	if u.Duration != nil {
		r.Duration = *u.Duration
	}
	if u.Difficulty != nil {
		r.Difficulty = *u.Difficulty
	}
	if u.Category != nil {
		r.Category = *u.Category
	}
	return r, nil
}

// Update holds the attributes an edit overwrites. Nil fields are left alone.
type Update struct {
	Name        *string
	MuscleGroup *string
	Sets        *int
	Reps        *int
	Duration    *float64
	Difficulty  *int
	Category    *string
}

// IsEmpty reports whether the update touches no field.
func (u Update) IsEmpty() bool {
	return u == Update{}
}

// ParseUpdate picks the recognized attributes out of f. Unknown keys and nil
// values are ignored; a value of the wrong type is an error.
func ParseUpdate(f Fields) (Update, error) {
	var u Update
	for key, v := range f {
		if v == nil {
			continue
		}
		var err error
		switch key {
		case FieldName:
			u.Name, err = stringField(key, v)
		case FieldMuscleGroup:
			u.MuscleGroup, err = stringField(key, v)
		case FieldCategory:
			u.Category, err = stringField(key, v)
		case FieldSets:
			u.Sets, err = intField(key, v)
		case FieldReps:
			u.Reps, err = intField(key, v)
		case FieldDifficulty:
			u.Difficulty, err = intField(key, v)
		case FieldDuration:
			u.Duration, err = floatField(key, v)
		}
		if err != nil {
			return Update{}, err
		}
	}
	return u, nil
}

func stringField(key string, v any) (*string, error) {
	s, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("%w: %s must be text, got %T", ErrInvalidArgument, key, v)
	}
	return &s, nil
}

func intField(key string, v any) (*int, error) {
	if n, ok := v.(int); ok {
		return &n, nil
	}
	f, err := toFloat(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidArgument, key, err)
	}
	if f < math.MinInt || f >= math.MaxInt {
		return nil, fmt.Errorf("%w: %s: %v is out of integer range", ErrInvalidArgument, key, v)
	}
	n := int(f)
	return &n, nil
}

func floatField(key string, v any) (*float64, error) {
	f, err := toFloat(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidArgument, key, err)
	}
	return &f, nil
}

func toFloat(v any) (float64, error) {
	var f float64
	switch n := v.(type) {
	case int:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case float32:
		f = float64(n)
	case float64:
		f = n
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, fmt.Errorf("not a number: %q", n.String())
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, fmt.Errorf("not a number: %q", n)
		}
		f = parsed
	default:
		return 0, fmt.Errorf("not a number: %T", v)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("not a finite number: %v", f)
	}
	return f, nil
}
