package progress

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/2beens/fittrack/internal/history"
	"github.com/2beens/fittrack/internal/telemetry/tracing"
	"github.com/2beens/fittrack/internal/workouts"

	"go.opentelemetry.io/otel/attribute"
)

var ErrInvalidDays = errors.New("invalid days")

const (
	DefaultSummaryDays   = 30
	DefaultFrequencyDays = 90
	MaxDays              = 3650
)

//go:generate mockgen -source=$GOFILE -destination=reporter_mocks_test.go -package=progress_test

type sessionsSource interface {
	ListSessions(ctx context.Context, userID int, workoutID *int, since time.Time) ([]history.SessionRecord, error)
	ExerciseNames(ctx context.Context, userID int) ([]string, error)
}

type workoutGetter interface {
	GetWorkout(ctx context.Context, userID, workoutID int) (*workouts.Workout, error)
}

type Reporter struct {
	sessions sessionsSource
	workouts workoutGetter
	cache    *Cache

	NowFunc func() time.Time
}

func NewReporter(sessions sessionsSource, workouts workoutGetter, cache *Cache) *Reporter {
	return &Reporter{
		sessions: sessions,
		workouts: workouts,
		cache:    cache,
		NowFunc:  time.Now,
	}
}

func ValidateDays(days int) error {
	if days < 1 || days > MaxDays {
		return fmt.Errorf("%w: days must be between 1 and %d", ErrInvalidDays, MaxDays)
	}
	return nil
}

func (r *Reporter) PerformanceSummary(ctx context.Context, userID, days int) (_ PerformanceSummary, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "reporter.progress.summary")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID), attribute.Int("days", days))

	if err := ValidateDays(days); err != nil {
		return PerformanceSummary{}, err
	}

	return cached(r.cache, userID, "summary", strconv.Itoa(days), func() (PerformanceSummary, error) {
		now := r.NowFunc().UTC()
		records, err := r.sessions.ListSessions(ctx, userID, nil, now.AddDate(0, 0, -days))
		if err != nil {
			return PerformanceSummary{}, err
		}
		return Summarize(records, days, now), nil
	})
}

func (r *Reporter) WeightProgression(ctx context.Context, userID int, exerciseName string) (_ WeightProgression, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "reporter.progress.weight")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID), attribute.String("exercise", exerciseName))

	return cached(r.cache, userID, "weight", exerciseName, func() (WeightProgression, error) {
		records, err := r.sessions.ListSessions(ctx, userID, nil, time.Time{})
		if err != nil {
			return WeightProgression{}, err
		}

		progression := Progression(records, exerciseName)
		if len(progression.DataPoints) == 0 {
			names, err := r.sessions.ExerciseNames(ctx, userID)
			if err != nil {
				return WeightProgression{}, err
			}
			progression.AvailableExercises = names
		}
		return progression, nil
	})
}

func (r *Reporter) VolumeTrends(ctx context.Context, userID, workoutID int) (_ VolumeTrends, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "reporter.progress.volume")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID), attribute.Int("workout.id", workoutID))

	return cached(r.cache, userID, "volume", strconv.Itoa(workoutID), func() (VolumeTrends, error) {
		workout, err := r.workouts.GetWorkout(ctx, userID, workoutID)
		if err != nil {
			return VolumeTrends{}, err
		}

		records, err := r.sessions.ListSessions(ctx, userID, &workoutID, time.Time{})
		if err != nil {
			return VolumeTrends{}, err
		}

		return VolumeTrends{
			WorkoutID:   workoutID,
			WorkoutName: workout.Name,
			DataPoints:  Volume(records),
		}, nil
	})
}

func (r *Reporter) ExerciseFrequency(ctx context.Context, userID, days int) (_ ExerciseFrequency, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "reporter.progress.frequency")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID), attribute.Int("days", days))

	if err := ValidateDays(days); err != nil {
		return ExerciseFrequency{}, err
	}

	return cached(r.cache, userID, "frequency", strconv.Itoa(days), func() (ExerciseFrequency, error) {
		records, err := r.sessions.ListSessions(ctx, userID, nil, r.NowFunc().UTC().AddDate(0, 0, -days))
		if err != nil {
			return ExerciseFrequency{}, err
		}
		return Frequency(records, days), nil
	})
}
