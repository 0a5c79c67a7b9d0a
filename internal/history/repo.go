package history

import (
	"context"
	"fmt"
	"time"

	"github.com/2beens/fittrack/internal/sessions"
	"github.com/2beens/fittrack/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

type WorkoutOption struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

// ListSessions returns the user's sessions with their logs, newest first.
// A nil workoutID or a zero since disables that restriction.
func (r *Repo) ListSessions(
	ctx context.Context,
	userID int,
	workoutID *int,
	since time.Time,
) (_ []SessionRecord, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.history.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))

	var sincePtr *time.Time
	if !since.IsZero() {
		sincePtr = &since
	}

	rows, err := r.db.Query(
		ctx,
		`SELECT ws.id, ws.user_id, ws.workout_id, ws.timestamp, w.name
			FROM workout_session ws
			LEFT JOIN workout w ON w.id = ws.workout_id AND w.user_id = ws.user_id
			WHERE ws.user_id = $1
				AND ($2::int IS NULL OR ws.workout_id = $2::int)
				AND ($3::timestamptz IS NULL OR ws.timestamp >= $3::timestamptz)
			ORDER BY ws.timestamp DESC, ws.id DESC`,
		userID, workoutID, sincePtr,
	)
	if err != nil {
		return nil, err
	}

	records, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (SessionRecord, error) {
		var rec SessionRecord
		err := row.Scan(&rec.ID, &rec.UserID, &rec.WorkoutID, &rec.Timestamp, &rec.WorkoutName)
		return rec, err
	})
	if err != nil {
		return nil, fmt.Errorf("collect sessions: %w", err)
	}
	span.SetAttributes(attribute.Int("sessions", len(records)))

	if err := r.attachLogs(ctx, records); err != nil {
		return nil, err
	}
	return records, nil
}

func (r *Repo) attachLogs(ctx context.Context, records []SessionRecord) error {
	if len(records) == 0 {
		return nil
	}

	ids := make([]int, 0, len(records))
	byID := make(map[int]*SessionRecord, len(records))
	for i := range records {
		records[i].Logs = []sessions.ExerciseLog{}
		ids = append(ids, records[i].ID)
		byID[records[i].ID] = &records[i]
	}

	rows, err := r.db.Query(
		ctx,
		`SELECT id, session_id, exercise_name, set_number, reps, weight, details, include_details
			FROM exercise_log
			WHERE session_id = ANY($1)
			ORDER BY session_id, position, id`,
		ids,
	)
	if err != nil {
		return fmt.Errorf("list logs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var l sessions.ExerciseLog
		if err := rows.Scan(
			&l.ID, &l.SessionID, &l.ExerciseName, &l.SetNumber, &l.Reps, &l.Weight, &l.Details, &l.IncludeDetails,
		); err != nil {
			return fmt.Errorf("rows scan: %w", err)
		}
		if rec, ok := byID[l.SessionID]; ok {
			rec.Logs = append(rec.Logs, l)
		}
	}
	return rows.Err()
}

// ClearHistory deletes all sessions of the user, their logs cascade.
func (r *Repo) ClearHistory(ctx context.Context, userID int) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.history.clear")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))

	tag, err := r.db.Exec(ctx, `DELETE FROM workout_session WHERE user_id = $1`, userID)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

// WorkoutOptions lists the user's workouts for the history filters.
func (r *Repo) WorkoutOptions(ctx context.Context, userID int) (_ []WorkoutOption, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.history.workouts")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(ctx, `SELECT id, name FROM workout WHERE user_id = $1 ORDER BY name, id`, userID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByPos[WorkoutOption])
}

// ExerciseNames lists the distinct exercise names the user has logged.
func (r *Repo) ExerciseNames(ctx context.Context, userID int) (_ []string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.history.exercisenames")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`SELECT DISTINCT el.exercise_name
			FROM exercise_log el
			JOIN workout_session ws ON ws.id = el.session_id
			WHERE ws.user_id = $1
			ORDER BY el.exercise_name`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}
