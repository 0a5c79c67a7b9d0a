package workouts

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/2beens/fittrack/internal/middleware"
	"github.com/2beens/fittrack/internal/telemetry/tracing"
	"github.com/2beens/fittrack/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type DeleteWorkoutResponse struct {
	Success   bool `json:"success"`
	DeletedID int  `json:"deleted_id"`
}

type duplicateRequest struct {
	Name string `json:"name"`
}

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service: service,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/api/categories", handler.HandleListCategories).Methods("GET", "OPTIONS").Name("list-categories")
	router.HandleFunc("/api/workouts", handler.HandleList).Methods("GET").Name("list-workouts")
	router.HandleFunc("/api/workouts", handler.HandleCreate).Methods("POST").Name("create-workout")
	router.HandleFunc("/api/workouts/{id:[0-9]+}", handler.HandleGet).Methods("GET").Name("get-workout")
	router.HandleFunc("/api/workouts/{id:[0-9]+}", handler.HandleUpdate).Methods("PUT").Name("update-workout")
	router.HandleFunc("/api/workouts/{id:[0-9]+}", handler.HandleDelete).Methods("DELETE").Name("delete-workout")
	router.HandleFunc("/api/workouts/{id:[0-9]+}/duplicate", handler.HandleDuplicate).Methods("POST").Name("duplicate-workout")
}

// WriteError maps catalog errors onto status codes: invalid input is a 400,
// anything not found (or not owned by the user) is a 404.
func WriteError(w http.ResponseWriter, err error, fallbackMsg string) {
	switch {
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrCategoryNotFound):
		pkg.WriteJSONError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrWorkoutNotFound), errors.Is(err, ErrExerciseNotFound):
		pkg.WriteJSONError(w, err.Error(), http.StatusNotFound)
	default:
		log.Errorf("%s: %s", fallbackMsg, err)
		pkg.WriteJSONError(w, fallbackMsg+": "+err.Error(), http.StatusInternalServerError)
	}
}

func userAndWorkoutID(w http.ResponseWriter, r *http.Request) (userID, workoutID int, ok bool) {
	userID, ok = middleware.UserIDFromContext(r.Context())
	if !ok {
		pkg.WriteJSONError(w, "unauthorized", http.StatusUnauthorized)
		return 0, 0, false
	}

	workoutID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		pkg.WriteJSONError(w, "invalid workout id", http.StatusBadRequest)
		return 0, 0, false
	}
	return userID, workoutID, true
}

func (handler *Handler) HandleListCategories(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.categories")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "GET, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	categories, err := handler.service.ListCategories(ctx)
	if err != nil {
		WriteError(w, err, "failed to list categories")
		return
	}
	pkg.WriteJSON(w, categories, http.StatusOK)
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.list")
	defer span.End()

	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		pkg.WriteJSONError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	workouts, err := handler.service.ListWorkouts(ctx, userID)
	if err != nil {
		WriteError(w, err, "failed to list workouts")
		return
	}
	if workouts == nil {
		workouts = []Workout{}
	}
	pkg.WriteJSON(w, workouts, http.StatusOK)
}

func (handler *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.create")
	defer span.End()

	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		pkg.WriteJSONError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var in WorkoutInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		log.Errorf("create workout, unmarshal json: %s", err)
		pkg.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	workout, err := handler.service.CreateWorkout(ctx, userID, in)
	if err != nil {
		WriteError(w, err, "failed to create workout")
		return
	}

	log.Debugf("user %d created workout %d [%s]", userID, workout.ID, workout.Name)
	pkg.WriteJSON(w, workout, http.StatusCreated)
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.get")
	defer span.End()

	userID, workoutID, ok := userAndWorkoutID(w, r)
	if !ok {
		return
	}

	details, err := handler.service.GetWorkout(ctx, userID, workoutID)
	if err != nil {
		WriteError(w, err, "failed to get workout")
		return
	}
	pkg.WriteJSON(w, details, http.StatusOK)
}

func (handler *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.update")
	defer span.End()

	userID, workoutID, ok := userAndWorkoutID(w, r)
	if !ok {
		return
	}

	var in WorkoutInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		log.Errorf("update workout, unmarshal json: %s", err)
		pkg.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	workout, err := handler.service.UpdateWorkout(ctx, userID, workoutID, in)
	if err != nil {
		WriteError(w, err, "failed to update workout")
		return
	}
	pkg.WriteJSON(w, workout, http.StatusOK)
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.delete")
	defer span.End()

	userID, workoutID, ok := userAndWorkoutID(w, r)
	if !ok {
		return
	}

	if err := handler.service.DeleteWorkout(ctx, userID, workoutID); err != nil {
		WriteError(w, err, "failed to delete workout")
		return
	}

	log.Debugf("user %d deleted workout %d", userID, workoutID)
	pkg.WriteJSON(w, DeleteWorkoutResponse{Success: true, DeletedID: workoutID}, http.StatusOK)
}

func (handler *Handler) HandleDuplicate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.duplicate")
	defer span.End()

	userID, workoutID, ok := userAndWorkoutID(w, r)
	if !ok {
		return
	}

	// the body is optional, an empty one means "use the default name"
	var req duplicateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		pkg.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	workout, err := handler.service.DuplicateWorkout(ctx, userID, workoutID, req.Name)
	if err != nil {
		WriteError(w, err, "failed to duplicate workout")
		return
	}
	pkg.WriteJSON(w, workout, http.StatusCreated)
}
