//go:build integration_test || all_tests

package test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/suite"
)

type ServerSuite struct {
	suite.Suite
	env    *environment
	cancel context.CancelFunc
}

func TestServerSuite(t *testing.T) {
	suite.Run(t, new(ServerSuite))
}

func (s *ServerSuite) SetupSuite() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	env, err := newEnvironment(ctx)
	s.Require().NoError(err)
	s.env = env
}

func (s *ServerSuite) TearDownSuite() {
	if s.env != nil {
		s.env.cleanup()
	}
	s.cancel()
}

// newUser registers and logs in a fresh user, so tests never share history.
func (s *ServerSuite) newUser() *apiClient {
	client := newAPIClient()
	creds := map[string]string{
		"email":    gofakeit.Email(),
		"password": gofakeit.Password(true, true, true, false, false, 12),
	}

	status, body, err := client.do(http.MethodPost, "/a/register", creds, nil)
	s.Require().NoError(err)
	s.Require().Equal(http.StatusCreated, status, string(body))

	status, body, err = client.do(http.MethodPost, "/a/login", creds, nil)
	s.Require().NoError(err)
	s.Require().Equal(http.StatusOK, status, string(body))

	var login struct {
		Token string `json:"token"`
	}
	s.Require().NoError(json.Unmarshal(body, &login))
	s.Require().NotEmpty(login.Token)
	client.token = login.Token
	return client
}

type workoutResp struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	CategoryName string `json:"category_name"`
	Exercises    []struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	} `json:"exercises"`
	CompletionStatus struct {
		Completed  int `json:"completed"`
		Total      int `json:"total"`
		Percentage int `json:"percentage"`
	} `json:"completion_status"`
}

type createSessionResp struct {
	SessionID       int  `json:"session_id"`
	ExercisesLogged int  `json:"exercises_logged"`
	Deduplicated    bool `json:"deduplicated"`
}

func (s *ServerSuite) strengthCategoryID(client *apiClient) int {
	status, body, err := client.do(http.MethodGet, "/api/categories", nil, nil)
	s.Require().NoError(err)
	s.Require().Equal(http.StatusOK, status, string(body))

	var categories []struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}
	s.Require().NoError(json.Unmarshal(body, &categories))
	for _, c := range categories {
		if c.Name == "Strength" {
			return c.ID
		}
	}
	s.FailNow("default Strength category not seeded", string(body))
	return 0
}

func (s *ServerSuite) createWorkout(client *apiClient) workoutResp {
	categoryID := s.strengthCategoryID(client)
	status, body, err := client.do(http.MethodPost, "/api/workouts", map[string]any{
		"name":        "Push Day",
		"category_id": categoryID,
		"exercises": []map[string]any{
			{"name": " bench press ", "weight": 80, "reps": "8"},
			{"name": "overhead press"},
		},
	}, nil)
	s.Require().NoError(err)
	s.Require().Equal(http.StatusCreated, status, string(body))

	var workout workoutResp
	s.Require().NoError(json.Unmarshal(body, &workout))
	s.Require().NotZero(workout.ID)
	return workout
}

func (s *ServerSuite) createSession(client *apiClient, workoutID int, weight float64, headers map[string]string) (int, createSessionResp) {
	status, body, err := client.do(http.MethodPost, "/api/workout/history", map[string]any{
		"workout_id": workoutID,
		"exercises": []map[string]any{
			{"exercise_name": "BENCH PRESS", "set_number": 1, "reps": 8, "weight": weight},
			{"exercise_name": "OVERHEAD PRESS", "set_number": 1, "reps": "10", "weight": "40"},
		},
	}, headers)
	s.Require().NoError(err)

	var res createSessionResp
	if status == http.StatusOK || status == http.StatusCreated {
		s.Require().NoError(json.Unmarshal(body, &res))
	}
	return status, res
}

type historyLog struct {
	ExerciseName string   `json:"exercise_name"`
	Weight       *float64 `json:"weight"`
	Reps         *int     `json:"reps"`
}

type historySession struct {
	ID          int          `json:"id"`
	WorkoutName string       `json:"workout_name"`
	Logs        []historyLog `json:"exercises"`
}

func (s *ServerSuite) listHistory(client *apiClient) []historySession {
	status, body, err := client.do(http.MethodGet, "/api/workout/history", nil, nil)
	s.Require().NoError(err)
	s.Require().Equal(http.StatusOK, status, string(body))

	var sessions []historySession
	s.Require().NoError(json.Unmarshal(body, &sessions))
	return sessions
}

func (s *ServerSuite) updateField(client *apiClient, workoutID, exerciseID int, field, value string) bool {
	status, body, err := client.do(http.MethodPost, "/workout", map[string]any{
		"action":      "update_single_field",
		"workout_id":  workoutID,
		"exercise_id": exerciseID,
		"field":       field,
		"value":       value,
	}, nil)
	s.Require().NoError(err)
	s.Require().Equal(http.StatusOK, status, string(body))

	var res struct {
		Success      bool `json:"success"`
		TopSetLogged bool `json:"top_set_logged"`
	}
	s.Require().NoError(json.Unmarshal(body, &res))
	s.Require().True(res.Success)
	return res.TopSetLogged
}

func (s *ServerSuite) TestVersionIsPublic() {
	status, body, err := newAPIClient().do(http.MethodGet, "/version", nil, nil)
	s.Require().NoError(err)
	s.Equal(http.StatusOK, status)
	s.Equal("test-version-info", string(body))
}

func (s *ServerSuite) TestProtectedEndpointsRequireToken() {
	anon := newAPIClient()
	for _, path := range []string{
		"/api/workouts",
		"/api/workout/history",
		"/api/progress/performance-summary",
	} {
		status, _, err := anon.do(http.MethodGet, path, nil, nil)
		s.Require().NoError(err)
		s.Equal(http.StatusUnauthorized, status, path)
	}
}

func (s *ServerSuite) TestLoginWrongPassword() {
	client := newAPIClient()
	creds := map[string]string{"email": gofakeit.Email(), "password": "correct-horse-battery"}
	status, _, err := client.do(http.MethodPost, "/a/register", creds, nil)
	s.Require().NoError(err)
	s.Require().Equal(http.StatusCreated, status)

	creds["password"] = "wrong-password-123"
	status, body, err := client.do(http.MethodPost, "/a/login", creds, nil)
	s.Require().NoError(err)
	s.Equal(http.StatusBadRequest, status)
	s.Contains(string(body), "wrong credentials")
}

func (s *ServerSuite) TestWorkoutLifecycle() {
	client := s.newUser()
	workout := s.createWorkout(client)

	s.Equal("Push Day", workout.Name)
	s.Equal("Strength", workout.CategoryName)
	s.Require().Len(workout.Exercises, 2)
	s.Equal("BENCH PRESS", workout.Exercises[0].Name)
	s.Equal("OVERHEAD PRESS", workout.Exercises[1].Name)

	status, body, err := client.do(http.MethodGet, fmt.Sprintf("/api/workouts/%d", workout.ID), nil, nil)
	s.Require().NoError(err)
	s.Require().Equal(http.StatusOK, status, string(body))

	var details workoutResp
	s.Require().NoError(json.Unmarshal(body, &details))
	s.Equal(1, details.CompletionStatus.Completed)
	s.Equal(2, details.CompletionStatus.Total)
	s.Equal(50, details.CompletionStatus.Percentage)

	// another user cannot see it
	other := s.newUser()
	status, _, err = other.do(http.MethodGet, fmt.Sprintf("/api/workouts/%d", workout.ID), nil, nil)
	s.Require().NoError(err)
	s.Equal(http.StatusNotFound, status)

	status, _, err = client.do(http.MethodDelete, fmt.Sprintf("/api/workouts/%d", workout.ID), nil, nil)
	s.Require().NoError(err)
	s.Equal(http.StatusOK, status)

	status, _, err = client.do(http.MethodGet, fmt.Sprintf("/api/workouts/%d", workout.ID), nil, nil)
	s.Require().NoError(err)
	s.Equal(http.StatusNotFound, status)
}

func (s *ServerSuite) TestCreateSessionDeduplication() {
	client := s.newUser()
	workout := s.createWorkout(client)

	status, first := s.createSession(client, workout.ID, 80, nil)
	s.Require().Equal(http.StatusCreated, status)
	s.False(first.Deduplicated)
	s.Equal(2, first.ExercisesLogged)

	// a resubmit inside the window returns the same session
	status, second := s.createSession(client, workout.ID, 80, nil)
	s.Require().Equal(http.StatusOK, status)
	s.True(second.Deduplicated)
	s.Equal(first.SessionID, second.SessionID)

	// an idempotency key identifies its own session
	keyed := map[string]string{"Idempotency-Key": "session-" + gofakeit.UUID()}
	status, third := s.createSession(client, workout.ID, 85, keyed)
	s.Require().Equal(http.StatusCreated, status)
	s.NotEqual(first.SessionID, third.SessionID)

	status, fourth := s.createSession(client, workout.ID, 85, keyed)
	s.Require().Equal(http.StatusOK, status)
	s.True(fourth.Deduplicated)
	s.Equal(third.SessionID, fourth.SessionID)
}

func (s *ServerSuite) TestCreateSessionValidation() {
	client := s.newUser()
	workout := s.createWorkout(client)

	status, body, err := client.do(http.MethodPost, "/api/workout/history", map[string]any{
		"exercises": []map[string]any{{"exercise_name": "BENCH PRESS"}},
	}, nil)
	s.Require().NoError(err)
	s.Equal(http.StatusBadRequest, status, string(body))

	status, body, err = client.do(http.MethodPost, "/api/workout/history", map[string]any{
		"workout_id": workout.ID,
		"exercises":  []map[string]any{{"weight": 50}},
	}, nil)
	s.Require().NoError(err)
	s.Equal(http.StatusBadRequest, status, string(body))

	status, body, err = client.do(http.MethodPost, "/api/workout/history", map[string]any{
		"workout_id": workout.ID,
		"exercises": []map[string]any{
			{"exercise_name": "BENCH PRESS", "weight": 80, "reps": 8},
			{"exercise_name": strings.Repeat("A", 150), "weight": 80, "reps": 8},
		},
	}, nil)
	s.Require().NoError(err)
	s.Equal(http.StatusBadRequest, status, string(body))

	// rejected batches leave nothing behind
	s.Empty(s.listHistory(client))

	other := s.newUser()
	status, _ = s.createSession(other, workout.ID, 80, nil)
	s.Equal(http.StatusNotFound, status)
	s.Empty(s.listHistory(other))
}

func (s *ServerSuite) TestWorkoutActionAutoLog() {
	client := s.newUser()
	workout := s.createWorkout(client)
	bench, overhead := workout.Exercises[0].ID, workout.Exercises[1].ID

	// weight alone does not complete the exercise
	s.False(s.updateField(client, workout.ID, overhead, "weight", "40"))
	s.Empty(s.listHistory(client))

	// reps complete it: a new session with one log
	s.True(s.updateField(client, workout.ID, overhead, "reps", "10-12"))
	history := s.listHistory(client)
	s.Require().Len(history, 1)
	sessionID := history[0].ID
	s.Equal("Push Day", history[0].WorkoutName)
	s.Require().Len(history[0].Logs, 1)
	s.Equal("OVERHEAD PRESS", history[0].Logs[0].ExerciseName)
	s.Require().NotNil(history[0].Logs[0].Weight)
	s.Equal(40.0, *history[0].Logs[0].Weight)
	s.Require().NotNil(history[0].Logs[0].Reps)
	s.Equal(10, *history[0].Logs[0].Reps)

	// same values again: nothing is written
	s.True(s.updateField(client, workout.ID, overhead, "reps", "10-12"))
	history = s.listHistory(client)
	s.Require().Len(history, 1)
	s.Len(history[0].Logs, 1)

	// a new weight updates the logged set in place
	s.True(s.updateField(client, workout.ID, overhead, "weight", "42.5"))
	history = s.listHistory(client)
	s.Require().Len(history, 1)
	s.Equal(sessionID, history[0].ID)
	s.Require().Len(history[0].Logs, 1)
	s.Equal(42.5, *history[0].Logs[0].Weight)
	s.Equal(10, *history[0].Logs[0].Reps)

	// another exercise of the workout is appended to the same session
	status, body, err := client.do(http.MethodPost, "/workout", map[string]any{
		"action":      "save_complete_exercise",
		"workout_id":  workout.ID,
		"exercise_id": bench,
		"weight":      "85",
		"reps":        "6",
		"details":     "paused",
	}, nil)
	s.Require().NoError(err)
	s.Require().Equal(http.StatusOK, status, string(body))

	var saved struct {
		TopSetLogged     bool `json:"top_set_logged"`
		CompletionStatus struct {
			Completed  int `json:"completed"`
			Total      int `json:"total"`
			Percentage int `json:"percentage"`
		} `json:"completion_status"`
	}
	s.Require().NoError(json.Unmarshal(body, &saved))
	s.True(saved.TopSetLogged)
	s.Equal(2, saved.CompletionStatus.Completed)
	s.Equal(2, saved.CompletionStatus.Total)
	s.Equal(100, saved.CompletionStatus.Percentage)

	history = s.listHistory(client)
	s.Require().Len(history, 1)
	s.Equal(sessionID, history[0].ID)
	s.Require().Len(history[0].Logs, 2)
	s.Equal("OVERHEAD PRESS", history[0].Logs[0].ExerciseName)
	s.Equal("BENCH PRESS", history[0].Logs[1].ExerciseName)
	s.Equal(85.0, *history[0].Logs[1].Weight)
	s.Equal(6, *history[0].Logs[1].Reps)

	// out of range values are rejected before any write
	status, _, err = client.do(http.MethodPost, "/workout", map[string]any{
		"action":      "update_single_field",
		"workout_id":  workout.ID,
		"exercise_id": overhead,
		"field":       "weight",
		"value":       "1000",
	}, nil)
	s.Require().NoError(err)
	s.Equal(http.StatusBadRequest, status)
	history = s.listHistory(client)
	s.Require().Len(history, 1)
	s.Equal(42.5, *history[0].Logs[0].Weight)
}

func (s *ServerSuite) TestHistoryAndProgress() {
	client := s.newUser()
	workout := s.createWorkout(client)

	status, created := s.createSession(client, workout.ID, 80, nil)
	s.Require().Equal(http.StatusCreated, status)

	status, body, err := client.do(http.MethodGet, "/api/workout/history?exercise="+url.QueryEscape("BENCH PRESS"), nil, nil)
	s.Require().NoError(err)
	s.Require().Equal(http.StatusOK, status, string(body))

	var sessions []struct {
		ID          int    `json:"id"`
		WorkoutName string `json:"workout_name"`
	}
	s.Require().NoError(json.Unmarshal(body, &sessions))
	s.Require().Len(sessions, 1)
	s.Equal(created.SessionID, sessions[0].ID)
	s.Equal("Push Day", sessions[0].WorkoutName)

	status, _, err = client.do(http.MethodGet, "/api/workout/history?date=someday", nil, nil)
	s.Require().NoError(err)
	s.Equal(http.StatusBadRequest, status)

	status, body, err = client.do(http.MethodGet, "/api/progress/weight-progression/"+url.PathEscape("bench press"), nil, nil)
	s.Require().NoError(err)
	s.Require().Equal(http.StatusOK, status, string(body))

	var progression struct {
		DataPoints []struct {
			Weight       float64 `json:"weight"`
			SessionCount int     `json:"session_count"`
		} `json:"data_points"`
	}
	s.Require().NoError(json.Unmarshal(body, &progression))
	s.Require().Len(progression.DataPoints, 1)
	s.Equal(80.0, progression.DataPoints[0].Weight)
	s.Equal(1, progression.DataPoints[0].SessionCount)

	status, body, err = client.do(http.MethodGet, "/api/progress/performance-summary?days=7", nil, nil)
	s.Require().NoError(err)
	s.Require().Equal(http.StatusOK, status, string(body))

	var summary struct {
		TotalSessions  int     `json:"total_sessions"`
		TotalExercises int     `json:"total_exercises"`
		TotalVolume    float64 `json:"total_volume"`
	}
	s.Require().NoError(json.Unmarshal(body, &summary))
	s.Equal(1, summary.TotalSessions)
	s.Equal(2, summary.TotalExercises)
	s.Equal(80.0*8+40*10, summary.TotalVolume)

	status, body, err = client.do(http.MethodGet, fmt.Sprintf("/api/progress/volume-trends/%d", workout.ID), nil, nil)
	s.Require().NoError(err)
	s.Require().Equal(http.StatusOK, status, string(body))

	// clearing history also invalidates cached reports
	status, body, err = client.do(http.MethodDelete, "/api/workout/history/clear", nil, nil)
	s.Require().NoError(err)
	s.Require().Equal(http.StatusOK, status, string(body))

	status, body, err = client.do(http.MethodGet, "/api/progress/performance-summary?days=7", nil, nil)
	s.Require().NoError(err)
	s.Require().Equal(http.StatusOK, status, string(body))
	s.Require().NoError(json.Unmarshal(body, &summary))
	s.Zero(summary.TotalSessions)
}
