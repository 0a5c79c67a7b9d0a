package sessions

import (
	"context"
	"errors"
	"fmt"
	"time"

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

// lockWorkout serializes session writes of one (user, workout) pair until
// the surrounding transaction ends.
func lockWorkout(ctx context.Context, tx pgx.Tx, userID, workoutID int) error {
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1::int, $2::int)`, userID, workoutID); err != nil {
		return fmt.Errorf("advisory lock: %w", err)
	}
	return nil
}

const existingSessionQuery = `SELECT ws.id, ws.timestamp, ws.workout_id,
		(SELECT COUNT(*) FROM exercise_log el WHERE el.session_id = ws.id)
	FROM workout_session ws`

func scanExisting(row pgx.Row) (*CreateResult, error) {
	res := &CreateResult{Deduplicated: true}
	if err := row.Scan(&res.SessionID, &res.Timestamp, &res.WorkoutID, &res.ExercisesLogged); err != nil {
		return nil, err
	}
	return res, nil
}

// findDuplicate looks up the session a create request would duplicate: the one
// with the same idempotency key or, without a key, the latest one inside DedupWindow.
func findDuplicate(
	ctx context.Context,
	q pgx.Tx,
	userID, workoutID int,
	idempotencyKey string,
	now time.Time,
) (*CreateResult, error) {
	var row pgx.Row
	if idempotencyKey != "" {
		row = q.QueryRow(
			ctx,
			existingSessionQuery+` WHERE ws.user_id = $1 AND ws.workout_id = $2 AND ws.idempotency_key = $3`,
			userID, workoutID, idempotencyKey,
		)
	} else {
		row = q.QueryRow(
			ctx,
			existingSessionQuery+` WHERE ws.user_id = $1 AND ws.workout_id = $2 AND ws.timestamp >= $3
				ORDER BY ws.timestamp DESC, ws.id DESC LIMIT 1`,
			userID, workoutID, now.Add(-DedupWindow),
		)
	}

	res, err := scanExisting(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return res, err
}

func (r *Repo) CreateSession(
	ctx context.Context,
	userID, workoutID int,
	idempotencyKey string,
	entries []ExerciseEntry,
	now time.Time,
) (_ *CreateResult, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sessions.create")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.Int("user.id", userID),
		attribute.Int("workout.id", workoutID),
		attribute.Int("entries", len(entries)),
		attribute.Bool("idempotency_key", idempotencyKey != ""),
	)

	var result *CreateResult
	err = pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if err := lockWorkout(ctx, tx, userID, workoutID); err != nil {
			return err
		}

		var owned bool
		if err := tx.QueryRow(
			ctx,
			`SELECT EXISTS (SELECT 1 FROM workout WHERE id = $1 AND user_id = $2)`,
			workoutID, userID,
		).Scan(&owned); err != nil {
			return fmt.Errorf("check workout: %w", err)
		}
		if !owned {
			return ErrWorkoutNotFound
		}

		existing, err := findDuplicate(ctx, tx, userID, workoutID, idempotencyKey, now)
		if err != nil {
			return fmt.Errorf("find duplicate: %w", err)
		}
		if existing != nil {
			result = existing
			return nil
		}

		var key *string
		if idempotencyKey != "" {
			key = &idempotencyKey
		}
		created := &CreateResult{WorkoutID: workoutID}
		if err := tx.QueryRow(
			ctx,
			`INSERT INTO workout_session (user_id, workout_id, timestamp, idempotency_key)
				VALUES ($1, $2, $3, $4)
				RETURNING id, timestamp`,
			userID, workoutID, now, key,
		).Scan(&created.SessionID, &created.Timestamp); err != nil {
			return fmt.Errorf("insert session: %w", err)
		}

		batch := &pgx.Batch{}
		for i, entry := range entries {
			batch.Queue(
				`INSERT INTO exercise_log
					(session_id, position, exercise_name, set_number, reps, weight, details, include_details)
					VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
				created.SessionID, i, entry.ExerciseName,
				entry.SetNumber, entry.Reps, entry.Weight, entry.Details, entry.IncludeDetails,
			)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("insert logs: %w", err)
		}

		created.ExercisesLogged = len(entries)
		result = created
		return nil
	})

	// a concurrent insert with the same key won the race, hand out its session
	if idempotencyKey != "" && pkg.IsUniqueViolationError(err) {
		return scanExisting(r.db.QueryRow(
			ctx,
			existingSessionQuery+` WHERE ws.user_id = $1 AND ws.workout_id = $2 AND ws.idempotency_key = $3`,
			userID, workoutID, idempotencyKey,
		))
	}
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Bool("deduplicated", result.Deduplicated))
	return result, nil
}

// AutoLog records an exercise's current values into a recent session of the
// workout: identical values logged within AutoLogWindow are left alone, a
// session inside the window gets its log updated (or appended), otherwise a
// new session is created.
func (r *Repo) AutoLog(
	ctx context.Context,
	userID, workoutID int,
	values LoggedValues,
	now time.Time,
) (_ AutoLogOutcome, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sessions.autolog")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.Int("user.id", userID),
		attribute.Int("workout.id", workoutID),
		attribute.String("exercise", values.ExerciseName),
	)

	outcome := AutoLogUnchanged
	since := now.Add(-AutoLogWindow)
	err = pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if err := lockWorkout(ctx, tx, userID, workoutID); err != nil {
			return err
		}

		var identical bool
		if err := tx.QueryRow(
			ctx,
			`SELECT EXISTS (
				SELECT 1 FROM exercise_log el
				JOIN workout_session ws ON ws.id = el.session_id
				WHERE ws.user_id = $1 AND ws.workout_id = $2 AND ws.timestamp >= $3
					AND el.exercise_name = $4
					AND el.weight IS NOT DISTINCT FROM $5::double precision
					AND el.reps IS NOT DISTINCT FROM $6::int
			)`,
			userID, workoutID, since, values.ExerciseName, values.Weight, values.Reps,
		).Scan(&identical); err != nil {
			return fmt.Errorf("check identical log: %w", err)
		}
		if identical {
			return nil
		}

		var sessionID int
		err := tx.QueryRow(
			ctx,
			`SELECT id FROM workout_session
				WHERE user_id = $1 AND workout_id = $2 AND timestamp >= $3
				ORDER BY timestamp DESC, id DESC LIMIT 1`,
			userID, workoutID, since,
		).Scan(&sessionID)
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			if err := tx.QueryRow(
				ctx,
				`INSERT INTO workout_session (user_id, workout_id, timestamp) VALUES ($1, $2, $3) RETURNING id`,
				userID, workoutID, now,
			).Scan(&sessionID); err != nil {
				return fmt.Errorf("insert session: %w", err)
			}
			outcome = AutoLogCreated
		case err != nil:
			return fmt.Errorf("find recent session: %w", err)
		default:
			tag, err := tx.Exec(
				ctx,
				`UPDATE exercise_log SET weight = $1, reps = $2, details = $3, include_details = $4
					WHERE id = (
						SELECT id FROM exercise_log
						WHERE session_id = $5 AND exercise_name = $6
						ORDER BY id LIMIT 1
					)`,
				values.Weight, values.Reps, values.Details, values.IncludeDetails, sessionID, values.ExerciseName,
			)
			if err != nil {
				return fmt.Errorf("update log: %w", err)
			}
			if tag.RowsAffected() > 0 {
				outcome = AutoLogUpdated
				return nil
			}
			outcome = AutoLogAppended
		}

		if _, err := tx.Exec(
			ctx,
			`INSERT INTO exercise_log
				(session_id, position, exercise_name, set_number, reps, weight, details, include_details)
				SELECT $1::int, COUNT(*), $2::text, 1, $3::int, $4::double precision, $5::text, $6::boolean
				FROM exercise_log WHERE session_id = $1::int`,
			sessionID, values.ExerciseName, values.Reps, values.Weight, values.Details, values.IncludeDetails,
		); err != nil {
			return fmt.Errorf("insert log: %w", err)
		}
		return nil
	})
	if err != nil {
		return AutoLogUnchanged, err
	}

	span.SetAttributes(attribute.String("outcome", outcome.String()))
	return outcome, nil
}
