package mcp

import (
	"net/http"

	"github.com/2beens/fittrack/internal/middleware"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	log "github.com/sirupsen/logrus"
)

// NewServer builds an MCP server exposing the read side of one user's data.
func NewServer(service contextService, userID int) *mcp.Server {
	h := NewHandler(service, userID)
	s := mcp.NewServer(&mcp.Implementation{
		Name:    "fittrack-context",
		Version: "1.0.0",
	}, nil)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_fittrack_context",
		Description: "Returns the DB schema of the fittrack tables (category, workout, exercise, workout_session, exercise_log): columns, types, nullable, default.",
	}, h.GetFittrackContextTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "list_workouts",
		Description: "Returns the user's workout templates with their exercises, current weight/reps/details and completion flags.",
	}, h.ListWorkoutsTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "list_sessions",
		Description: "Returns recorded workout sessions with their logged sets and the top set per exercise. Optional filters: workout_id, exercise, date (today, week, month, quarter), sort.",
	}, h.ListSessionsTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_performance_summary",
		Description: "Returns totals, averages and top exercises/workouts over the last N days (default 30). Sessions of one workout less than 5 minutes apart count once.",
	}, h.GetPerformanceSummaryTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_weight_progression",
		Description: "Returns the max weight per day for an exercise, oldest first, with progression stats. Use when asked how a lift has improved.",
	}, h.GetWeightProgressionTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_volume_trends",
		Description: "Returns the volume (sum of weight x reps) of every session of a workout, oldest first.",
	}, h.GetVolumeTrendsTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_exercise_frequency",
		Description: "Returns how many sessions touched each exercise over the last N days (default 90).",
	}, h.GetExerciseFrequencyTool())

	return s
}

// NewHTTPHandler serves MCP over streamable HTTP. The auth middleware in front
// of it puts the user id into the request context; every request gets a
// server bound to that user.
func NewHTTPHandler(service contextService) http.Handler {
	return mcp.NewStreamableHTTPHandler(func(r *http.Request) *mcp.Server {
		userID, ok := middleware.UserIDFromContext(r.Context())
		if !ok {
			log.Warnf("mcp: request without user id [%s]", r.URL.Path)
			return nil
		}
		return NewServer(service, userID)
	}, &mcp.StreamableHTTPOptions{Stateless: true})
}
