package mcp

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"strings"

	"github.com/2beens/fittrack/internal/history"
	"github.com/2beens/fittrack/internal/progress"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Handler turns tool calls into service calls for a single user.
type Handler struct {
	service contextService
	userID  int
}

func NewHandler(service contextService, userID int) *Handler {
	return &Handler{
		service: service,
		userID:  userID,
	}
}

func errorResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}
}

func jsonResult(v any) *mcp.CallToolResult {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorResult("Error encoding response: " + err.Error())
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(raw)}},
	}
}

func (h *Handler) GetFittrackContextTool() func(context.Context, *mcp.CallToolRequest, any) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ any) (*mcp.CallToolResult, any, error) {
		text, err := h.service.GetSchema(ctx)
		if err != nil {
			return errorResult("Error fetching schema: " + err.Error()), nil, nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: text}},
		}, nil, nil
	}
}

func (h *Handler) ListWorkoutsTool() func(context.Context, *mcp.CallToolRequest, any) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ any) (*mcp.CallToolResult, any, error) {
		list, err := h.service.ListWorkouts(ctx, h.userID)
		if err != nil {
			return errorResult("Error listing workouts: " + err.Error()), nil, nil
		}
		return jsonResult(list), nil, nil
	}
}

// ListSessionsInput is the input for list_sessions.
type ListSessionsInput struct {
	WorkoutID *int   `json:"workout_id,omitempty" jsonschema:"Only sessions of this workout"`
	Exercise  string `json:"exercise,omitempty" jsonschema:"Only sessions that logged this exercise, exact upper-case name such as BENCH PRESS"`
	Date      string `json:"date,omitempty" jsonschema:"One of today, week, month, quarter"`
	Sort      string `json:"sort,omitempty" jsonschema:"One of date-desc (default), date-asc, workout-name, exercise-count"`
}

func (in ListSessionsInput) filter() (history.Filter, error) {
	query := url.Values{}
	if in.WorkoutID != nil {
		query.Set("workout_id", strconv.Itoa(*in.WorkoutID))
	}
	query.Set("exercise", in.Exercise)
	query.Set("date", in.Date)
	query.Set("sort", in.Sort)
	return history.ParseFilter(query)
}

func (h *Handler) ListSessionsTool() func(context.Context, *mcp.CallToolRequest, ListSessionsInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in ListSessionsInput) (*mcp.CallToolResult, any, error) {
		filter, err := in.filter()
		if err != nil {
			return errorResult(err.Error()), nil, nil
		}
		list, err := h.service.ListSessions(ctx, h.userID, filter)
		if err != nil {
			return errorResult("Error listing sessions: " + err.Error()), nil, nil
		}
		return jsonResult(list), nil, nil
	}
}

// DaysInput is the input for the period based reports.
type DaysInput struct {
	Days int `json:"days,omitempty" jsonschema:"Period length in days, counted back from now"`
}

func (in DaysInput) days(defaultDays int) (int, error) {
	if in.Days == 0 {
		return defaultDays, nil
	}
	return in.Days, progress.ValidateDays(in.Days)
}

func (h *Handler) GetPerformanceSummaryTool() func(context.Context, *mcp.CallToolRequest, DaysInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in DaysInput) (*mcp.CallToolResult, any, error) {
		days, err := in.days(progress.DefaultSummaryDays)
		if err != nil {
			return errorResult(err.Error()), nil, nil
		}
		summary, err := h.service.PerformanceSummary(ctx, h.userID, days)
		if err != nil {
			return errorResult("Error computing performance summary: " + err.Error()), nil, nil
		}
		return jsonResult(summary), nil, nil
	}
}

func (h *Handler) GetExerciseFrequencyTool() func(context.Context, *mcp.CallToolRequest, DaysInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in DaysInput) (*mcp.CallToolResult, any, error) {
		days, err := in.days(progress.DefaultFrequencyDays)
		if err != nil {
			return errorResult(err.Error()), nil, nil
		}
		frequency, err := h.service.ExerciseFrequency(ctx, h.userID, days)
		if err != nil {
			return errorResult("Error computing exercise frequency: " + err.Error()), nil, nil
		}
		return jsonResult(frequency), nil, nil
	}
}

// WeightProgressionInput is the input for get_weight_progression.
type WeightProgressionInput struct {
	ExerciseName string `json:"exercise_name" jsonschema:"Exercise name, matched exactly first, then case-insensitively, then as a substring"`
}

func (h *Handler) GetWeightProgressionTool() func(context.Context, *mcp.CallToolRequest, WeightProgressionInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in WeightProgressionInput) (*mcp.CallToolResult, any, error) {
		name := strings.TrimSpace(in.ExerciseName)
		if name == "" {
			return errorResult("exercise_name is required"), nil, nil
		}
		progression, err := h.service.WeightProgression(ctx, h.userID, name)
		if err != nil {
			return errorResult("Error computing weight progression: " + err.Error()), nil, nil
		}
		return jsonResult(progression), nil, nil
	}
}

// VolumeTrendsInput is the input for get_volume_trends.
type VolumeTrendsInput struct {
	WorkoutID int `json:"workout_id" jsonschema:"Workout id, see list_workouts"`
}

func (h *Handler) GetVolumeTrendsTool() func(context.Context, *mcp.CallToolRequest, VolumeTrendsInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in VolumeTrendsInput) (*mcp.CallToolResult, any, error) {
		if in.WorkoutID <= 0 {
			return errorResult("workout_id is required"), nil, nil
		}
		trends, err := h.service.VolumeTrends(ctx, h.userID, in.WorkoutID)
		if err != nil {
			return errorResult("Error computing volume trends: " + err.Error()), nil, nil
		}
		return jsonResult(trends), nil, nil
	}
}
