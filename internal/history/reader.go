package history

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=reader_mocks_test.go -package=history_test

type historyRepo interface {
	ListSessions(ctx context.Context, userID int, workoutID *int, since time.Time) ([]SessionRecord, error)
	ClearHistory(ctx context.Context, userID int) (int, error)
	WorkoutOptions(ctx context.Context, userID int) ([]WorkoutOption, error)
	ExerciseNames(ctx context.Context, userID int) ([]string, error)
}

type cacheInvalidator interface {
	Invalidate(userID int)
}

type Reader struct {
	repo        historyRepo
	invalidator cacheInvalidator

	NowFunc func() time.Time
}

func NewReader(repo historyRepo, invalidator cacheInvalidator) *Reader {
	return &Reader{
		repo:        repo,
		invalidator: invalidator,
		NowFunc:     time.Now,
	}
}

func (r *Reader) ListSessions(ctx context.Context, userID int, filter Filter) ([]SessionSummary, error) {
	now := r.NowFunc()
	records, err := r.repo.ListSessions(ctx, userID, filter.WorkoutID, filter.Date.Since(now))
	if err != nil {
		return nil, err
	}
	return Apply(records, filter, now), nil
}

func (r *Reader) ClearHistory(ctx context.Context, userID int) (int, error) {
	deleted, err := r.repo.ClearHistory(ctx, userID)
	if err != nil {
		return 0, err
	}

	log.Debugf("user %d cleared history, %d sessions deleted", userID, deleted)
	if r.invalidator != nil {
		r.invalidator.Invalidate(userID)
	}
	return deleted, nil
}

// PageData is what the history page renders.
type PageData struct {
	Sessions      []SessionSummary `json:"sessions"`
	Filter        Filter           `json:"filter"`
	Workouts      []WorkoutOption  `json:"workouts"`
	ExerciseNames []string         `json:"exercise_names"`
	Error         string           `json:"error,omitempty"`
}

func (r *Reader) Page(ctx context.Context, userID int, filter Filter) (*PageData, error) {
	summaries, err := r.ListSessions(ctx, userID, filter)
	if err != nil {
		return nil, err
	}
	workouts, err := r.repo.WorkoutOptions(ctx, userID)
	if err != nil {
		return nil, err
	}
	names, err := r.repo.ExerciseNames(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &PageData{
		Sessions:      summaries,
		Filter:        filter,
		Workouts:      workouts,
		ExerciseNames: names,
	}, nil
}
