package mcp

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/2beens/fittrack/internal/history"
	"github.com/2beens/fittrack/internal/progress"
	"github.com/2beens/fittrack/internal/workouts"
)

type workoutsLister interface {
	ListWorkouts(ctx context.Context, userID int) ([]workouts.Workout, error)
}

type sessionsLister interface {
	ListSessions(ctx context.Context, userID int, filter history.Filter) ([]history.SessionSummary, error)
}

type reportsProvider interface {
	PerformanceSummary(ctx context.Context, userID, days int) (progress.PerformanceSummary, error)
	WeightProgression(ctx context.Context, userID int, exerciseName string) (progress.WeightProgression, error)
	VolumeTrends(ctx context.Context, userID, workoutID int) (progress.VolumeTrends, error)
	ExerciseFrequency(ctx context.Context, userID, days int) (progress.ExerciseFrequency, error)
}

// contextService is everything the tools read, always on behalf of one user.
type contextService interface {
	GetSchema(ctx context.Context) (string, error)
	ListWorkouts(ctx context.Context, userID int) ([]workouts.Workout, error)
	ListSessions(ctx context.Context, userID int, filter history.Filter) ([]history.SessionSummary, error)
	PerformanceSummary(ctx context.Context, userID, days int) (progress.PerformanceSummary, error)
	WeightProgression(ctx context.Context, userID int, exerciseName string) (progress.WeightProgression, error)
	VolumeTrends(ctx context.Context, userID, workoutID int) (progress.VolumeTrends, error)
	ExerciseFrequency(ctx context.Context, userID, days int) (progress.ExerciseFrequency, error)
}

type ContextService struct {
	schema   SchemaRepo
	workouts workoutsLister
	sessions sessionsLister
	reports  reportsProvider
}

func NewContextService(
	schemaRepo SchemaRepo,
	workouts workoutsLister,
	sessions sessionsLister,
	reports reportsProvider,
) *ContextService {
	return &ContextService{
		schema:   schemaRepo,
		workouts: workouts,
		sessions: sessions,
		reports:  reports,
	}
}

// GetSchema renders the fittrack tables as markdown, one table per DB table.
func (s *ContextService) GetSchema(ctx context.Context) (string, error) {
	cols, err := s.schema.GetColumns(ctx)
	if err != nil {
		return "", err
	}
	return formatSchema(cols), nil
}

func formatSchema(cols []SchemaColumn) string {
	if len(cols) == 0 {
		return "# FitTrack DB Schema\n\nNo fittrack tables found in the database.\n"
	}

	byTable := make(map[string][]SchemaColumn)
	for _, c := range cols {
		byTable[c.TableName] = append(byTable[c.TableName], c)
	}
	tables := make([]string, 0, len(byTable))
	for t := range byTable {
		tables = append(tables, t)
	}
	sort.Strings(tables)

	var b strings.Builder
	b.WriteString("# FitTrack DB Schema\n\n")
	b.WriteString("Tables: " + strings.Join(fittrackTables, ", ") + " (schema: public).\n")
	for _, table := range tables {
		b.WriteString("\n## " + table + "\n\n")
		b.WriteString("| Column | Type | Nullable | Default |\n|--------|------|----------|---------|\n")
		for _, c := range byTable[table] {
			def := "-"
			if c.ColumnDef != nil && *c.ColumnDef != "" {
				def = *c.ColumnDef
			}
			fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", c.ColumnName, c.DataType, c.IsNullable, def)
		}
	}
	return b.String()
}

func (s *ContextService) ListWorkouts(ctx context.Context, userID int) ([]workouts.Workout, error) {
	return s.workouts.ListWorkouts(ctx, userID)
}

func (s *ContextService) ListSessions(ctx context.Context, userID int, filter history.Filter) ([]history.SessionSummary, error) {
	return s.sessions.ListSessions(ctx, userID, filter)
}

func (s *ContextService) PerformanceSummary(ctx context.Context, userID, days int) (progress.PerformanceSummary, error) {
	return s.reports.PerformanceSummary(ctx, userID, days)
}

func (s *ContextService) WeightProgression(ctx context.Context, userID int, exerciseName string) (progress.WeightProgression, error) {
	return s.reports.WeightProgression(ctx, userID, exerciseName)
}

func (s *ContextService) VolumeTrends(ctx context.Context, userID, workoutID int) (progress.VolumeTrends, error) {
	return s.reports.VolumeTrends(ctx, userID, workoutID)
}

func (s *ContextService) ExerciseFrequency(ctx context.Context, userID, days int) (progress.ExerciseFrequency, error) {
	return s.reports.ExerciseFrequency(ctx, userID, days)
}
