package sessions

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/2beens/fittrack/internal/middleware"
	"github.com/2beens/fittrack/internal/telemetry/metrics"
	"github.com/2beens/fittrack/internal/telemetry/tracing"
	"github.com/2beens/fittrack/internal/workouts"
	"github.com/2beens/fittrack/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

const IdempotencyKeyHeader = "Idempotency-Key"

const (
	ActionUpdateSingleField    = "update_single_field"
	ActionSaveCompleteExercise = "save_complete_exercise"
)

type Handler struct {
	recorder *Recorder
}

func NewHandler(recorder *Recorder) *Handler {
	return &Handler{
		recorder: recorder,
	}
}

func (handler *Handler) SetupRoutes(
	router *mux.Router,
	rateLimiter middleware.RequestRateLimiter,
	metricsManager *metrics.Manager,
	allowedPerMin int,
) {
	rateLimit := middleware.RateLimit(rateLimiter, "sessions", allowedPerMin, metricsManager)
	router.Handle("/api/workout/history", rateLimit(http.HandlerFunc(handler.HandleCreate))).
		Methods("POST").Name("create-session")
	router.HandleFunc("/workout", handler.HandleWorkoutAction).
		Methods("POST").Name("workout-action")
}

func writeError(w http.ResponseWriter, err error, fallbackMsg string) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		pkg.WriteJSONError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrWorkoutNotFound):
		pkg.WriteJSONError(w, err.Error(), http.StatusNotFound)
	default:
		workouts.WriteError(w, err, fallbackMsg)
	}
}

func (handler *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.sessions.create")
	defer span.End()

	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		pkg.WriteJSONError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Debugf("create session, unmarshal json: %s", err)
		pkg.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.IdempotencyKey == "" {
		req.IdempotencyKey = strings.TrimSpace(r.Header.Get(IdempotencyKeyHeader))
	}

	res, err := handler.recorder.CreateSession(ctx, userID, req)
	if err != nil {
		writeError(w, err, "failed to record session")
		return
	}

	status := http.StatusCreated
	if res.Deduplicated {
		status = http.StatusOK
	}
	pkg.WriteJSON(w, res, status)
}

// HandleWorkoutAction serves the live-save calls of the workout page.
func (handler *Handler) HandleWorkoutAction(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.sessions.workoutaction")
	defer span.End()

	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		pkg.WriteJSONError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var fields map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		pkg.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	workoutID := coerceInt(fields["workout_id"])
	exerciseID := coerceInt(fields["exercise_id"])
	if workoutID == nil || exerciseID == nil {
		pkg.WriteJSONError(w, "workout_id and exercise_id are required", http.StatusBadRequest)
		return
	}

	text := func(name string) string {
		if s := coerceString(fields[name]); s != nil {
			return *s
		}
		return ""
	}

	switch action := text("action"); action {
	case ActionUpdateSingleField:
		res, err := handler.recorder.UpdateSingleField(ctx, userID, *workoutID, *exerciseID, text("field"), text("value"))
		if err != nil {
			writeError(w, err, "failed to update exercise")
			return
		}
		pkg.WriteJSON(w, res, http.StatusOK)
	case ActionSaveCompleteExercise:
		res, err := handler.recorder.SaveCompleteExercise(
			ctx, userID, *workoutID, *exerciseID, text("weight"), text("reps"), text("details"),
		)
		if err != nil {
			writeError(w, err, "failed to save exercise")
			return
		}
		pkg.WriteJSON(w, res, http.StatusOK)
	default:
		pkg.WriteJSONError(w, "unknown action: "+action, http.StatusBadRequest)
	}
}
