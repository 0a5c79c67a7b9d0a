package workouts

import (
	"context"
	"fmt"
	"strings"

	"github.com/2beens/fittrack/internal/telemetry/tracing"
	"github.com/2beens/fittrack/pkg"

	"go.opentelemetry.io/otel/attribute"
)

type ExerciseInput struct {
	Name           string   `json:"name" validate:"required,max=45"`
	IncludeDetails bool     `json:"include_details"`
	Weight         *float64 `json:"weight" validate:"omitempty,gte=0,lte=999.99"`
	Reps           *string  `json:"reps" validate:"omitempty,max=20"`
	Sets           *int     `json:"sets" validate:"omitempty,gte=0"`
	Details        string   `json:"details" validate:"max=50"`
}

type WorkoutInput struct {
	Name                   string          `json:"name" validate:"required,max=50"`
	Description            string          `json:"description" validate:"max=200"`
	CategoryID             *int            `json:"category_id"`
	NewCategoryName        string          `json:"new_category_name" validate:"max=50"`
	NewCategoryDescription string          `json:"new_category_description" validate:"max=200"`
	Exercises              []ExerciseInput `json:"exercises" validate:"dive"`
}

func (in *WorkoutInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.NewCategoryName = strings.TrimSpace(in.NewCategoryName)
	for i := range in.Exercises {
		in.Exercises[i].Name = strings.ToUpper(strings.TrimSpace(in.Exercises[i].Name))
		in.Exercises[i].Details = strings.TrimSpace(in.Exercises[i].Details)
		if reps := in.Exercises[i].Reps; reps != nil {
			trimmed := strings.TrimSpace(*reps)
			if trimmed == "" {
				in.Exercises[i].Reps = nil
			} else {
				in.Exercises[i].Reps = &trimmed
			}
		}
	}
}

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=workouts_test

type workoutsRepo interface {
	ListCategories(ctx context.Context) ([]Category, error)
	GetCategory(ctx context.Context, id int) (*Category, error)
	GetOrCreateCategory(ctx context.Context, name, description string) (*Category, error)
	ListWorkouts(ctx context.Context, userID int) ([]Workout, error)
	GetWorkout(ctx context.Context, userID, workoutID int) (*Workout, error)
	CreateWorkout(ctx context.Context, workout Workout) (*Workout, error)
	UpdateWorkout(ctx context.Context, workout Workout) (*Workout, error)
	DeleteWorkout(ctx context.Context, userID, workoutID int) error
}

type cacheInvalidator interface {
	Invalidate(userID int)
}

type Service struct {
	repo        workoutsRepo
	invalidator cacheInvalidator
}

func NewService(repo workoutsRepo, invalidator cacheInvalidator) *Service {
	return &Service{
		repo:        repo,
		invalidator: invalidator,
	}
}

func (s *Service) ListCategories(ctx context.Context) ([]Category, error) {
	return s.repo.ListCategories(ctx)
}

func (s *Service) ListWorkouts(ctx context.Context, userID int) ([]Workout, error) {
	return s.repo.ListWorkouts(ctx, userID)
}

func (s *Service) GetWorkout(ctx context.Context, userID, workoutID int) (*WorkoutDetails, error) {
	workout, err := s.repo.GetWorkout(ctx, userID, workoutID)
	if err != nil {
		return nil, err
	}
	return &WorkoutDetails{
		Workout:          *workout,
		CompletionStatus: Completion(workout.Exercises),
	}, nil
}

func (s *Service) CreateWorkout(ctx context.Context, userID int, in WorkoutInput) (_ *Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.workouts.create")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))

	workout, err := s.buildWorkout(ctx, userID, in)
	if err != nil {
		return nil, err
	}

	return s.repo.CreateWorkout(ctx, *workout)
}

func (s *Service) UpdateWorkout(ctx context.Context, userID, workoutID int, in WorkoutInput) (_ *Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.workouts.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID), attribute.Int("workout.id", workoutID))

	workout, err := s.buildWorkout(ctx, userID, in)
	if err != nil {
		return nil, err
	}
	workout.ID = workoutID

	updated, err := s.repo.UpdateWorkout(ctx, *workout)
	if err != nil {
		return nil, err
	}
	s.invalidate(userID)
	return updated, nil
}

func (s *Service) DeleteWorkout(ctx context.Context, userID, workoutID int) error {
	if err := s.repo.DeleteWorkout(ctx, userID, workoutID); err != nil {
		return err
	}
	s.invalidate(userID)
	return nil
}

// DuplicateWorkout copies a workout with its exercise names; trained values are not copied.
func (s *Service) DuplicateWorkout(ctx context.Context, userID, workoutID int, name string) (_ *Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.workouts.duplicate")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID), attribute.Int("workout.id", workoutID))

	original, err := s.repo.GetWorkout(ctx, userID, workoutID)
	if err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = DuplicateName(original.Name)
	}

	in := WorkoutInput{
		Name:        name,
		Description: original.Description,
		CategoryID:  original.CategoryID,
	}
	if in.CategoryID == nil {
		// the original category was deleted meanwhile
		in.NewCategoryName = DefaultCategories[len(DefaultCategories)-1].Name
	}
	for _, e := range original.Exercises {
		in.Exercises = append(in.Exercises, ExerciseInput{
			Name:           e.Name,
			IncludeDetails: e.IncludeDetails,
		})
	}

	return s.CreateWorkout(ctx, userID, in)
}

func (s *Service) buildWorkout(ctx context.Context, userID int, in WorkoutInput) (*Workout, error) {
	in.normalize()
	if err := pkg.ValidateStruct(in); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, err)
	}

	category, err := s.resolveCategory(ctx, in)
	if err != nil {
		return nil, err
	}

	workout := &Workout{
		UserID:       userID,
		CategoryID:   &category.ID,
		CategoryName: category.Name,
		Name:         in.Name,
		Description:  in.Description,
		Exercises:    make([]Exercise, 0, len(in.Exercises)),
	}
	for _, e := range in.Exercises {
		workout.Exercises = append(workout.Exercises, Exercise{
			Name:           e.Name,
			Weight:         e.Weight,
			Reps:           e.Reps,
			Sets:           e.Sets,
			Details:        e.Details,
			IncludeDetails: e.IncludeDetails,
		})
	}
	return workout, nil
}

// resolveCategory prefers a new category name over a chosen category id.
func (s *Service) resolveCategory(ctx context.Context, in WorkoutInput) (*Category, error) {
	if in.NewCategoryName != "" {
		return s.repo.GetOrCreateCategory(ctx, in.NewCategoryName, strings.TrimSpace(in.NewCategoryDescription))
	}
	if in.CategoryID == nil {
		return nil, ErrCategoryRequired
	}
	return s.repo.GetCategory(ctx, *in.CategoryID)
}

func (s *Service) invalidate(userID int) {
	if s.invalidator != nil {
		s.invalidator.Invalidate(userID)
	}
}
