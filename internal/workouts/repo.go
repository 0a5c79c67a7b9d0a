package workouts

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/fittrack/internal/telemetry/tracing"
	"github.com/2beens/fittrack/pkg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

const exerciseColumns = `e.id, e.workout_id, e.position, e.name, e.weight, e.reps, e.sets, e.details, e.include_details`

func scanExercise(row pgx.Row) (Exercise, error) {
	var e Exercise
	if err := row.Scan(
		&e.ID, &e.WorkoutID, &e.Position, &e.Name, &e.Weight, &e.Reps, &e.Sets, &e.Details, &e.IncludeDetails,
	); err != nil {
		return Exercise{}, err
	}
	e.Completed = e.IsCompleted()
	return e, nil
}

func (r *Repo) ListCategories(ctx context.Context) (_ []Category, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.categories.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(ctx, `SELECT id, name, COALESCE(description, '') FROM category ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []Category{}
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		categories = append(categories, c)
	}

	return categories, rows.Err()
}

func (r *Repo) GetCategory(ctx context.Context, id int) (_ *Category, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.categories.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	var c Category
	err = r.db.QueryRow(
		ctx,
		`SELECT id, name, COALESCE(description, '') FROM category WHERE id = $1`,
		id,
	).Scan(&c.ID, &c.Name, &c.Description)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrCategoryNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetOrCreateCategory returns the category with the given name, creating it when missing.
func (r *Repo) GetOrCreateCategory(ctx context.Context, name, description string) (_ *Category, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.categories.getorcreate")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("name", name))

	// the no-op update makes RETURNING yield the existing row on conflict
	var c Category
	err = r.db.QueryRow(
		ctx,
		`INSERT INTO category (name, description) VALUES ($1, NULLIF($2, ''))
			ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
			RETURNING id, name, COALESCE(description, '')`,
		name, description,
	).Scan(&c.ID, &c.Name, &c.Description)
	if err != nil {
		return nil, fmt.Errorf("get or create category: %w", err)
	}
	return &c, nil
}

// SeedDefaultCategories fills an empty category table, returning the number of inserted rows.
func (r *Repo) SeedDefaultCategories(ctx context.Context) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.categories.seed")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	names := make([]string, 0, len(DefaultCategories))
	descriptions := make([]string, 0, len(DefaultCategories))
	for _, c := range DefaultCategories {
		names = append(names, c.Name)
		descriptions = append(descriptions, c.Description)
	}

	tag, err := r.db.Exec(
		ctx,
		`INSERT INTO category (name, description)
			SELECT d.name, d.description FROM unnest($1::text[], $2::text[]) AS d(name, description)
			WHERE NOT EXISTS (SELECT 1 FROM category)
			ON CONFLICT (name) DO NOTHING`,
		names, descriptions,
	)
	if err != nil {
		return 0, fmt.Errorf("seed categories: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

func (r *Repo) ListWorkouts(ctx context.Context, userID int) (_ []Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))

	rows, err := r.db.Query(
		ctx,
		`SELECT w.id, w.user_id, w.category_id, COALESCE(c.name, ''), w.name, w.description, w.created_at
			FROM workout w
			LEFT JOIN category c ON c.id = w.category_id
			WHERE w.user_id = $1
			ORDER BY w.id`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	workouts, err := r.rows2workouts(rows)
	if err != nil {
		return nil, err
	}

	if err := r.attachExercises(ctx, workouts); err != nil {
		return nil, err
	}
	return workouts, nil
}

func (r *Repo) GetWorkout(ctx context.Context, userID, workoutID int) (_ *Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID), attribute.Int("workout.id", workoutID))

	rows, err := r.db.Query(
		ctx,
		`SELECT w.id, w.user_id, w.category_id, COALESCE(c.name, ''), w.name, w.description, w.created_at
			FROM workout w
			LEFT JOIN category c ON c.id = w.category_id
			WHERE w.id = $1 AND w.user_id = $2`,
		workoutID, userID,
	)
	if err != nil {
		return nil, err
	}
	workouts, err := r.rows2workouts(rows)
	if err != nil {
		return nil, err
	}
	if len(workouts) != 1 {
		return nil, ErrWorkoutNotFound
	}

	if err := r.attachExercises(ctx, workouts); err != nil {
		return nil, err
	}
	return &workouts[0], nil
}

func (r *Repo) rows2workouts(rows pgx.Rows) ([]Workout, error) {
	defer rows.Close()

	workouts := []Workout{}
	for rows.Next() {
		var w Workout
		if err := rows.Scan(
			&w.ID, &w.UserID, &w.CategoryID, &w.CategoryName, &w.Name, &w.Description, &w.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		w.Exercises = []Exercise{}
		workouts = append(workouts, w)
	}
	return workouts, rows.Err()
}

func (r *Repo) attachExercises(ctx context.Context, workouts []Workout) error {
	if len(workouts) == 0 {
		return nil
	}

	ids := make([]int, 0, len(workouts))
	byID := make(map[int]*Workout, len(workouts))
	for i := range workouts {
		ids = append(ids, workouts[i].ID)
		byID[workouts[i].ID] = &workouts[i]
	}

	rows, err := r.db.Query(
		ctx,
		`SELECT `+exerciseColumns+` FROM exercise e
			WHERE e.workout_id = ANY($1)
			ORDER BY e.workout_id, e.position, e.id`,
		ids,
	)
	if err != nil {
		return fmt.Errorf("list exercises: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		e, err := scanExercise(rows)
		if err != nil {
			return fmt.Errorf("rows scan: %w", err)
		}
		if w, ok := byID[e.WorkoutID]; ok {
			w.Exercises = append(w.Exercises, e)
		}
	}
	return rows.Err()
}

func (r *Repo) CreateWorkout(ctx context.Context, workout Workout) (_ *Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.create")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", workout.UserID))

	err = pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if err := tx.QueryRow(
			ctx,
			`INSERT INTO workout (user_id, category_id, name, description)
				VALUES ($1, $2, $3, $4)
				RETURNING id, created_at`,
			workout.UserID, workout.CategoryID, workout.Name, workout.Description,
		).Scan(&workout.ID, &workout.CreatedAt); err != nil {
			if pkg.IsForeignKeyViolationError(err) {
				return ErrCategoryNotFound
			}
			return fmt.Errorf("insert workout: %w", err)
		}

		exercises, err := insertExercises(ctx, tx, workout.ID, workout.Exercises)
		if err != nil {
			return err
		}
		workout.Exercises = exercises
		return nil
	})
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int("workout.id", workout.ID))
	return &workout, nil
}

// UpdateWorkout replaces the workout metadata and all of its exercises.
func (r *Repo) UpdateWorkout(ctx context.Context, workout Workout) (_ *Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", workout.UserID), attribute.Int("workout.id", workout.ID))

	err = pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if err := tx.QueryRow(
			ctx,
			`UPDATE workout SET name = $1, description = $2, category_id = $3
				WHERE id = $4 AND user_id = $5
				RETURNING created_at`,
			workout.Name, workout.Description, workout.CategoryID, workout.ID, workout.UserID,
		).Scan(&workout.CreatedAt); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrWorkoutNotFound
			}
			if pkg.IsForeignKeyViolationError(err) {
				return ErrCategoryNotFound
			}
			return fmt.Errorf("update workout: %w", err)
		}

		if _, err := tx.Exec(ctx, `DELETE FROM exercise WHERE workout_id = $1`, workout.ID); err != nil {
			return fmt.Errorf("delete old exercises: %w", err)
		}

		exercises, err := insertExercises(ctx, tx, workout.ID, workout.Exercises)
		if err != nil {
			return err
		}
		workout.Exercises = exercises
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &workout, nil
}

func insertExercises(ctx context.Context, tx pgx.Tx, workoutID int, exercises []Exercise) ([]Exercise, error) {
	inserted := make([]Exercise, 0, len(exercises))
	for i, e := range exercises {
		e.WorkoutID = workoutID
		e.Position = i
		if err := tx.QueryRow(
			ctx,
			`INSERT INTO exercise (workout_id, position, name, weight, reps, sets, details, include_details)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
				RETURNING id`,
			e.WorkoutID, e.Position, e.Name, e.Weight, e.Reps, e.Sets, e.Details, e.IncludeDetails,
		).Scan(&e.ID); err != nil {
			return nil, fmt.Errorf("insert exercise %s: %w", e.Name, err)
		}
		e.Completed = e.IsCompleted()
		inserted = append(inserted, e)
	}
	return inserted, nil
}

func (r *Repo) DeleteWorkout(ctx context.Context, userID, workoutID int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID), attribute.Int("workout.id", workoutID))

	// exercises cascade, recorded sessions stay
	tag, err := r.db.Exec(
		ctx,
		`DELETE FROM workout WHERE id = $1 AND user_id = $2`,
		workoutID, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrWorkoutNotFound
	}
	return nil
}

func (r *Repo) GetExercise(ctx context.Context, userID, workoutID, exerciseID int) (_ *Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.exercise.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("workout.id", workoutID), attribute.Int("exercise.id", exerciseID))

	e, err := scanExercise(r.db.QueryRow(
		ctx,
		`SELECT `+exerciseColumns+` FROM exercise e
			JOIN workout w ON w.id = e.workout_id
			WHERE e.id = $1 AND e.workout_id = $2 AND w.user_id = $3`,
		exerciseID, workoutID, userID,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrExerciseNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

var fieldColumns = map[ExerciseField]string{
	FieldWeight:  "weight",
	FieldReps:    "reps",
	FieldDetails: "details",
}

// UpdateExerciseField sets one already validated field, see ParseFieldValue.
func (r *Repo) UpdateExerciseField(
	ctx context.Context,
	userID, workoutID, exerciseID int,
	field ExerciseField,
	value any,
) (_ *Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.exercise.updatefield")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.Int("workout.id", workoutID),
		attribute.Int("exercise.id", exerciseID),
		attribute.String("field", string(field)),
	)

	column, ok := fieldColumns[field]
	if !ok {
		return nil, ErrInvalidField
	}

	e, err := scanExercise(r.db.QueryRow(
		ctx,
		`UPDATE exercise e SET `+column+` = $1
			FROM workout w
			WHERE w.id = e.workout_id AND e.id = $2 AND e.workout_id = $3 AND w.user_id = $4
			RETURNING `+exerciseColumns,
		value, exerciseID, workoutID, userID,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrExerciseNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *Repo) UpdateExerciseValues(
	ctx context.Context,
	userID, workoutID, exerciseID int,
	values ExerciseValues,
) (_ *Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.exercise.updatevalues")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("workout.id", workoutID), attribute.Int("exercise.id", exerciseID))

	e, err := scanExercise(r.db.QueryRow(
		ctx,
		`UPDATE exercise e SET weight = $1, reps = $2, details = $3
			FROM workout w
			WHERE w.id = e.workout_id AND e.id = $4 AND e.workout_id = $5 AND w.user_id = $6
			RETURNING `+exerciseColumns,
		values.Weight, values.Reps, values.Details, exerciseID, workoutID, userID,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrExerciseNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}
