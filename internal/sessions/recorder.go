package sessions

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/2beens/fittrack/internal/telemetry/metrics"
	"github.com/2beens/fittrack/internal/telemetry/tracing"
	"github.com/2beens/fittrack/internal/workouts"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=recorder_mocks_test.go -package=sessions_test

type sessionsRepo interface {
	CreateSession(
		ctx context.Context,
		userID, workoutID int,
		idempotencyKey string,
		entries []ExerciseEntry,
		now time.Time,
	) (*CreateResult, error)
	AutoLog(ctx context.Context, userID, workoutID int, values LoggedValues, now time.Time) (AutoLogOutcome, error)
}

type exercisesCatalog interface {
	UpdateExerciseField(
		ctx context.Context,
		userID, workoutID, exerciseID int,
		field workouts.ExerciseField,
		value any,
	) (*workouts.Exercise, error)
	UpdateExerciseValues(
		ctx context.Context,
		userID, workoutID, exerciseID int,
		values workouts.ExerciseValues,
	) (*workouts.Exercise, error)
	GetWorkout(ctx context.Context, userID, workoutID int) (*workouts.Workout, error)
}

type cacheInvalidator interface {
	Invalidate(userID int)
}

type FieldUpdateResult struct {
	Success      bool `json:"success"`
	TopSetLogged bool `json:"top_set_logged"`
}

type SaveExerciseResult struct {
	Success          bool                      `json:"success"`
	TopSetLogged     bool                      `json:"top_set_logged"`
	CompletionStatus workouts.CompletionStatus `json:"completion_status"`
}

type Recorder struct {
	repo           sessionsRepo
	catalog        exercisesCatalog
	invalidator    cacheInvalidator
	metricsManager *metrics.Manager

	NowFunc func() time.Time
}

func NewRecorder(
	repo sessionsRepo,
	catalog exercisesCatalog,
	invalidator cacheInvalidator,
	metricsManager *metrics.Manager,
) *Recorder {
	return &Recorder{
		repo:           repo,
		catalog:        catalog,
		invalidator:    invalidator,
		metricsManager: metricsManager,
		NowFunc:        time.Now,
	}
}

// ValidateEntries rejects the whole batch when there are no entries or any
// entry lacks a name or has one that does not fit the log table.
func ValidateEntries(entries []ExerciseEntry) error {
	if len(entries) == 0 {
		return ErrNoEntries
	}
	for i, entry := range entries {
		name := strings.TrimSpace(entry.ExerciseName)
		if name == "" {
			return fmt.Errorf("%w (entry %d)", ErrMissingExerciseName, i)
		}
		if utf8.RuneCountInString(name) > MaxExerciseNameLength {
			return fmt.Errorf("%w (entry %d)", ErrExerciseNameTooLong, i)
		}
	}
	return nil
}

func (r *Recorder) CreateSession(ctx context.Context, userID int, req CreateSessionRequest) (_ *CreateResult, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "recorder.sessions.create")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))

	if req.WorkoutID == nil {
		return nil, ErrMissingWorkoutID
	}
	if err := ValidateEntries(req.Exercises); err != nil {
		return nil, err
	}
	if utf8.RuneCountInString(req.IdempotencyKey) > MaxIdempotencyKeyLength {
		return nil, fmt.Errorf("%w: idempotency key must be at most %d characters", ErrInvalidInput, MaxIdempotencyKeyLength)
	}

	res, err := r.repo.CreateSession(ctx, userID, *req.WorkoutID, req.IdempotencyKey, req.Exercises, r.NowFunc())
	if err != nil {
		return nil, err
	}

	if res.Deduplicated {
		log.Debugf("user %d, workout %d: session deduplicated against %d", userID, *req.WorkoutID, res.SessionID)
		r.metricsManager.CounterSessionsDeduplicated.Inc()
		return res, nil
	}

	log.Debugf("user %d, workout %d: session %d recorded with %d logs", userID, *req.WorkoutID, res.SessionID, res.ExercisesLogged)
	r.metricsManager.CounterSessionsCreated.Inc()
	r.invalidate(userID)
	return res, nil
}

func (r *Recorder) UpdateSingleField(
	ctx context.Context,
	userID, workoutID, exerciseID int,
	field, value string,
) (_ *FieldUpdateResult, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "recorder.sessions.updatefield")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.Int("user.id", userID),
		attribute.Int("workout.id", workoutID),
		attribute.Int("exercise.id", exerciseID),
		attribute.String("field", field),
	)

	exField, parsed, err := workouts.ParseFieldValue(field, value)
	if err != nil {
		return nil, err
	}

	exercise, err := r.catalog.UpdateExerciseField(ctx, userID, workoutID, exerciseID, exField, parsed)
	if err != nil {
		return nil, err
	}

	topSetLogged, err := r.autoLog(ctx, userID, workoutID, exercise)
	if err != nil {
		return nil, err
	}
	return &FieldUpdateResult{Success: true, TopSetLogged: topSetLogged}, nil
}

func (r *Recorder) SaveCompleteExercise(
	ctx context.Context,
	userID, workoutID, exerciseID int,
	weight, reps, details string,
) (_ *SaveExerciseResult, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "recorder.sessions.saveexercise")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.Int("user.id", userID),
		attribute.Int("workout.id", workoutID),
		attribute.Int("exercise.id", exerciseID),
	)

	values, err := workouts.ParseExerciseValues(weight, reps, details)
	if err != nil {
		return nil, err
	}

	exercise, err := r.catalog.UpdateExerciseValues(ctx, userID, workoutID, exerciseID, values)
	if err != nil {
		return nil, err
	}

	topSetLogged, err := r.autoLog(ctx, userID, workoutID, exercise)
	if err != nil {
		return nil, err
	}

	workout, err := r.catalog.GetWorkout(ctx, userID, workoutID)
	if err != nil {
		return nil, err
	}

	return &SaveExerciseResult{
		Success:          true,
		TopSetLogged:     topSetLogged,
		CompletionStatus: workouts.Completion(workout.Exercises),
	}, nil
}

// autoLog writes the values of a completed exercise into the session history
// and reports whether the exercise's current values are logged.
func (r *Recorder) autoLog(ctx context.Context, userID, workoutID int, exercise *workouts.Exercise) (bool, error) {
	if !exercise.IsCompleted() {
		return false, nil
	}

	values := LoggedValues{
		ExerciseName:   exercise.Name,
		Weight:         exercise.Weight,
		Reps:           LeadingInt(*exercise.Reps),
		IncludeDetails: exercise.IncludeDetails,
	}
	if exercise.Details != "" {
		details := exercise.Details
		values.Details = &details
	}

	outcome, err := r.repo.AutoLog(ctx, userID, workoutID, values, r.NowFunc())
	if err != nil {
		return false, fmt.Errorf("auto log %s: %w", exercise.Name, err)
	}

	log.Tracef("user %d, workout %d: auto log of [%s] %s", userID, workoutID, exercise.Name, outcome)
	if outcome != AutoLogUnchanged {
		r.metricsManager.CounterTopSetsLogged.Inc()
		if outcome == AutoLogCreated {
			r.metricsManager.CounterSessionsCreated.Inc()
		}
		r.invalidate(userID)
	}
	return true, nil
}

func (r *Recorder) invalidate(userID int) {
	if r.invalidator != nil {
		r.invalidator.Invalidate(userID)
	}
}
