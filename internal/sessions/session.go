package sessions

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrNoEntries           = fmt.Errorf("%w: no exercises provided", ErrInvalidInput)
	ErrMissingExerciseName = fmt.Errorf("%w: every exercise needs an exercise_name", ErrInvalidInput)
	ErrMissingWorkoutID    = fmt.Errorf("%w: workout_id is required", ErrInvalidInput)
	ErrExerciseNameTooLong = fmt.Errorf("%w: exercise_name longer than %d characters", ErrInvalidInput, MaxExerciseNameLength)
	ErrWorkoutNotFound     = errors.New("workout not found")
)

const (
	// DedupWindow is how far back a keyless create looks for a session it would duplicate.
	DedupWindow = 5 * time.Minute
	// AutoLogWindow is how far back auto-logging looks for a session to reuse.
	AutoLogWindow = 30 * time.Minute

	MaxIdempotencyKeyLength = 100
	// MaxExerciseNameLength matches exercise_log.exercise_name VARCHAR(100).
	MaxExerciseNameLength = 100
)

type Session struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	WorkoutID int       `json:"workout_id"`
	Timestamp time.Time `json:"timestamp"`
}

type ExerciseLog struct {
	ID             int      `json:"id"`
	SessionID      int      `json:"session_id"`
	ExerciseName   string   `json:"exercise_name"`
	SetNumber      *int     `json:"set_number"`
	Reps           *int     `json:"reps"`
	Weight         *float64 `json:"weight"`
	Details        *string  `json:"details"`
	IncludeDetails *bool    `json:"include_details"`
}

// CreateResult describes the session a create request ended up with, either
// a freshly written one or the one it was deduplicated against.
type CreateResult struct {
	SessionID       int       `json:"session_id"`
	Timestamp       time.Time `json:"timestamp"`
	WorkoutID       int       `json:"workout_id"`
	ExercisesLogged int       `json:"exercises_logged"`
	Deduplicated    bool      `json:"deduplicated"`
}

// AutoLogOutcome tells what auto-logging did with an exercise's current values.
type AutoLogOutcome int

const (
	AutoLogUnchanged AutoLogOutcome = iota
	AutoLogUpdated
	AutoLogAppended
	AutoLogCreated
)

func (o AutoLogOutcome) String() string {
	switch o {
	case AutoLogUnchanged:
		return "unchanged"
	case AutoLogUpdated:
		return "updated"
	case AutoLogAppended:
		return "appended"
	case AutoLogCreated:
		return "created"
	default:
		return "unknown"
	}
}

// LoggedValues are the exercise values auto-logging writes into a session.
type LoggedValues struct {
	ExerciseName   string
	Weight         *float64
	Reps           *int
	Details        *string
	IncludeDetails bool
}

// LeadingInt extracts the leading integer of free-text reps: "8-12" -> 8,
// " 10 reps" -> 10. Text not starting with a digit yields nil.
func LeadingInt(text string) *int {
	text = strings.TrimSpace(text)
	end := 0
	for end < len(text) && text[end] >= '0' && text[end] <= '9' {
		end++
	}
	if end == 0 {
		return nil
	}
	n, err := strconv.Atoi(text[:end])
	if err != nil {
		return nil
	}
	return &n
}
