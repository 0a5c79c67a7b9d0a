package workouts

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/multierr"
)

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrWorkoutNotFound  = errors.New("workout not found")
	ErrExerciseNotFound = errors.New("exercise not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrCategoryRequired = fmt.Errorf("%w: please choose or create a category", ErrInvalidInput)
	ErrInvalidField     = fmt.Errorf("%w: field must be one of weight, reps, details", ErrInvalidInput)
)

const (
	MaxWeight        = 999.99
	MaxRepsLength    = 20
	MaxDetailsLength = 50
)

type Category struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// DefaultCategories are seeded into an empty category table.
var DefaultCategories = []Category{
	{Name: "Strength", Description: "Strength training workouts"},
	{Name: "Cardio", Description: "Cardiovascular workouts"},
	{Name: "Flexibility", Description: "Flexibility and stretching"},
	{Name: "Other", Description: "Other types of workouts"},
}

type Exercise struct {
	ID             int      `json:"id"`
	WorkoutID      int      `json:"workout_id"`
	Position       int      `json:"position"`
	Name           string   `json:"name"`
	Weight         *float64 `json:"weight"`
	Reps           *string  `json:"reps"`
	Sets           *int     `json:"sets"`
	Details        string   `json:"details"`
	IncludeDetails bool     `json:"include_details"`
	Completed      bool     `json:"completed"`
}

// IsCompleted reports whether the exercise has both a positive weight and non-blank reps.
func (e Exercise) IsCompleted() bool {
	return e.Weight != nil && *e.Weight > 0 &&
		e.Reps != nil && strings.TrimSpace(*e.Reps) != ""
}

type Workout struct {
	ID           int        `json:"id"`
	UserID       int        `json:"user_id"`
	CategoryID   *int       `json:"category_id"`
	CategoryName string     `json:"category_name"`
	Name         string     `json:"name"`
	Description  string     `json:"description"`
	CreatedAt    time.Time  `json:"created_at"`
	Exercises    []Exercise `json:"exercises"`
}

type CompletionStatus struct {
	Completed  int `json:"completed"`
	Total      int `json:"total"`
	Percentage int `json:"percentage"`
}

func Completion(exercises []Exercise) CompletionStatus {
	status := CompletionStatus{Total: len(exercises)}
	for _, e := range exercises {
		if e.IsCompleted() {
			status.Completed++
		}
	}
	if status.Total > 0 {
		status.Percentage = int(math.Round(float64(status.Completed) * 100 / float64(status.Total)))
	}
	return status
}

type WorkoutDetails struct {
	Workout
	CompletionStatus CompletionStatus `json:"completion_status"`
}

// DuplicateName derives the default name of a workout copy, never longer than 12 characters.
func DuplicateName(name string) string {
	runes := []rune(name)
	var dup string
	if len(runes) <= 7 {
		dup = string(runes) + " (Copy)"
	} else {
		dup = string(runes[:min(9, len(runes))]) + " (C)"
	}

	dupRunes := []rune(dup)
	if len(dupRunes) > 12 {
		dupRunes = dupRunes[:12]
	}
	return string(dupRunes)
}

type ExerciseField string

const (
	FieldWeight  ExerciseField = "weight"
	FieldReps    ExerciseField = "reps"
	FieldDetails ExerciseField = "details"
)

// ParseWeight accepts a blank value (clears the weight) or a number in [0, MaxWeight].
func ParseWeight(value string) (*float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}

	weight, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(weight) || math.IsInf(weight, 0) || weight < 0 || weight > MaxWeight {
		return nil, fmt.Errorf("%w: weight must be a number between 0 and %.2f", ErrInvalidInput, MaxWeight)
	}
	return &weight, nil
}

// ParseReps keeps reps as free text ("8", "8-12", "AMRAP"); blank clears them.
func ParseReps(value string) (*string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	if utf8.RuneCountInString(value) > MaxRepsLength {
		return nil, fmt.Errorf("%w: reps must be at most %d characters", ErrInvalidInput, MaxRepsLength)
	}
	return &value, nil
}

func ParseDetails(value string) (string, error) {
	value = strings.TrimSpace(value)
	if utf8.RuneCountInString(value) > MaxDetailsLength {
		return "", fmt.Errorf("%w: details must be at most %d characters", ErrInvalidInput, MaxDetailsLength)
	}
	return value, nil
}

// ParseFieldValue validates a single field update. The returned value is
// *float64 for weight, *string for reps and string for details.
func ParseFieldValue(field, value string) (ExerciseField, any, error) {
	switch ExerciseField(field) {
	case FieldWeight:
		weight, err := ParseWeight(value)
		return FieldWeight, weight, err
	case FieldReps:
		reps, err := ParseReps(value)
		return FieldReps, reps, err
	case FieldDetails:
		details, err := ParseDetails(value)
		return FieldDetails, details, err
	default:
		return "", nil, ErrInvalidField
	}
}

// ExerciseValues are the fields a user fills in while training.
type ExerciseValues struct {
	Weight  *float64
	Reps    *string
	Details string
}

// ParseExerciseValues validates all three fields and reports every failure at once.
func ParseExerciseValues(weight, reps, details string) (ExerciseValues, error) {
	var values ExerciseValues
	var err, fieldErr error

	values.Weight, fieldErr = ParseWeight(weight)
	err = multierr.Append(err, fieldErr)
	values.Reps, fieldErr = ParseReps(reps)
	err = multierr.Append(err, fieldErr)
	values.Details, fieldErr = ParseDetails(details)
	err = multierr.Append(err, fieldErr)

	if err != nil {
		return ExerciseValues{}, err
	}
	return values, nil
}
