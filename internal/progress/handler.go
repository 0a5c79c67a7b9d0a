package progress

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/2beens/fittrack/internal/middleware"
	"github.com/2beens/fittrack/internal/telemetry/tracing"
	"github.com/2beens/fittrack/internal/workouts"
	"github.com/2beens/fittrack/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	reporter *Reporter
}

func NewHandler(reporter *Reporter) *Handler {
	return &Handler{
		reporter: reporter,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	progressRouter := router.PathPrefix("/api/progress").Subrouter()
	// names like "DB/BB ROW" carry a slash, the rest of the path is the name
	progressRouter.HandleFunc("/weight-progression/{exercise_name:.+}", handler.HandleWeightProgression).
		Methods("GET").Name("weight-progression")
	progressRouter.HandleFunc("/volume-trends/{workout_id:[0-9]+}", handler.HandleVolumeTrends).
		Methods("GET").Name("volume-trends")
	progressRouter.HandleFunc("/performance-summary", handler.HandlePerformanceSummary).
		Methods("GET").Name("performance-summary")
	progressRouter.HandleFunc("/exercise-frequency", handler.HandleExerciseFrequency).
		Methods("GET").Name("exercise-frequency")
}

// daysParam reads the optional days query parameter.
func daysParam(r *http.Request, defaultDays int) (int, error) {
	daysStr := strings.TrimSpace(r.URL.Query().Get("days"))
	if daysStr == "" {
		return defaultDays, nil
	}
	days, err := strconv.Atoi(daysStr)
	if err != nil {
		return 0, ErrInvalidDays
	}
	return days, ValidateDays(days)
}

func writeReportError(w http.ResponseWriter, err error, fallbackMsg string) {
	switch {
	case errors.Is(err, ErrInvalidDays):
		pkg.WriteJSONError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, workouts.ErrWorkoutNotFound):
		pkg.WriteJSONError(w, err.Error(), http.StatusNotFound)
	default:
		log.Errorf("%s: %s", fallbackMsg, err)
		pkg.WriteJSONError(w, fallbackMsg+": "+err.Error(), http.StatusInternalServerError)
	}
}

func (handler *Handler) HandleWeightProgression(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progress.weight")
	defer span.End()

	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		pkg.WriteJSONError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	exerciseName := strings.TrimSpace(mux.Vars(r)["exercise_name"])
	if exerciseName == "" {
		pkg.WriteJSONError(w, "exercise name is required", http.StatusBadRequest)
		return
	}

	progression, err := handler.reporter.WeightProgression(ctx, userID, exerciseName)
	if err != nil {
		writeReportError(w, err, "failed to get weight progression")
		return
	}
	pkg.WriteJSON(w, progression, http.StatusOK)
}

func (handler *Handler) HandleVolumeTrends(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progress.volume")
	defer span.End()

	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		pkg.WriteJSONError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	workoutID, err := strconv.Atoi(mux.Vars(r)["workout_id"])
	if err != nil {
		pkg.WriteJSONError(w, "invalid workout id", http.StatusBadRequest)
		return
	}

	trends, err := handler.reporter.VolumeTrends(ctx, userID, workoutID)
	if err != nil {
		writeReportError(w, err, "failed to get volume trends")
		return
	}
	pkg.WriteJSON(w, trends, http.StatusOK)
}

func (handler *Handler) HandlePerformanceSummary(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progress.summary")
	defer span.End()

	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		pkg.WriteJSONError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	days, err := daysParam(r, DefaultSummaryDays)
	if err != nil {
		writeReportError(w, err, "invalid days")
		return
	}

	summary, err := handler.reporter.PerformanceSummary(ctx, userID, days)
	if err != nil {
		writeReportError(w, err, "failed to retrieve performance summary")
		return
	}
	pkg.WriteJSON(w, summary, http.StatusOK)
}

func (handler *Handler) HandleExerciseFrequency(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progress.frequency")
	defer span.End()

	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		pkg.WriteJSONError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	days, err := daysParam(r, DefaultFrequencyDays)
	if err != nil {
		writeReportError(w, err, "invalid days")
		return
	}

	frequency, err := handler.reporter.ExerciseFrequency(ctx, userID, days)
	if err != nil {
		writeReportError(w, err, "failed to retrieve exercise frequency")
		return
	}
	pkg.WriteJSON(w, frequency, http.StatusOK)
}
