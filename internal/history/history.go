package history

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/2beens/fittrack/internal/sessions"
)

var ErrInvalidFilter = errors.New("invalid filter")

const DeletedWorkoutName = "Deleted workout"

type DateBucket string

const (
	DateAny     DateBucket = ""
	DateToday   DateBucket = "today"
	DateWeek    DateBucket = "week"
	DateMonth   DateBucket = "month"
	DateQuarter DateBucket = "quarter"
)

type SortOrder string

const (
	SortDateDesc      SortOrder = "date-desc"
	SortDateAsc       SortOrder = "date-asc"
	SortWorkoutName   SortOrder = "workout-name"
	SortExerciseCount SortOrder = "exercise-count"
)

type Filter struct {
	WorkoutID *int       `json:"workout_id,omitempty"`
	Exercise  string     `json:"exercise,omitempty"`
	Date      DateBucket `json:"date,omitempty"`
	Sort      SortOrder  `json:"sort"`
}

// ParseFilter reads the workout_id, exercise, date and sort query parameters.
func ParseFilter(query url.Values) (Filter, error) {
	filter := Filter{
		Exercise: strings.TrimSpace(query.Get("exercise")),
		Date:     DateBucket(strings.TrimSpace(query.Get("date"))),
		Sort:     SortOrder(strings.TrimSpace(query.Get("sort"))),
	}

	if idStr := strings.TrimSpace(query.Get("workout_id")); idStr != "" {
		id, err := strconv.Atoi(idStr)
		if err != nil {
			return Filter{}, fmt.Errorf("%w: workout_id must be a number", ErrInvalidFilter)
		}
		filter.WorkoutID = &id
	}

	switch filter.Date {
	case DateAny, DateToday, DateWeek, DateMonth, DateQuarter:
	default:
		return Filter{}, fmt.Errorf("%w: unknown date range [%s]", ErrInvalidFilter, filter.Date)
	}

	switch filter.Sort {
	case "":
		filter.Sort = SortDateDesc
	case SortDateDesc, SortDateAsc, SortWorkoutName, SortExerciseCount:
	default:
		return Filter{}, fmt.Errorf("%w: unknown sort order [%s]", ErrInvalidFilter, filter.Sort)
	}

	return filter, nil
}

// Since returns the start of the bucket relative to now, in now's location.
// The zero time means no lower bound.
func (b DateBucket) Since(now time.Time) time.Time {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch b {
	case DateToday:
		return midnight
	case DateWeek:
		return midnight.AddDate(0, 0, -int(midnight.Weekday()))
	case DateMonth:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	case DateQuarter:
		return midnight.AddDate(0, -3, 0)
	default:
		return time.Time{}
	}
}

// SessionRecord is a stored session together with its logs.
type SessionRecord struct {
	sessions.Session
	// nil when the workout was deleted after the session was recorded
	WorkoutName *string
	Logs        []sessions.ExerciseLog
}

type SessionSummary struct {
	ID            int                             `json:"id"`
	WorkoutID     int                             `json:"workout_id"`
	WorkoutName   string                          `json:"workout_name"`
	Timestamp     time.Time                       `json:"timestamp"`
	ExerciseCount int                             `json:"exercise_count"`
	Logs          []sessions.ExerciseLog          `json:"exercises"`
	TopSets       map[string]sessions.ExerciseLog `json:"top_sets"`
}

func orZero[T int | float64](v *T) T {
	if v == nil {
		return 0
	}
	return *v
}

// TopSet picks the log with the highest weight, ties broken by the highest reps.
// Absent values compare as zero.
func TopSet(logs []sessions.ExerciseLog) (sessions.ExerciseLog, bool) {
	if len(logs) == 0 {
		return sessions.ExerciseLog{}, false
	}

	top := logs[0]
	for _, l := range logs[1:] {
		w, topW := orZero(l.Weight), orZero(top.Weight)
		if w > topW || (w == topW && orZero(l.Reps) > orZero(top.Reps)) {
			top = l
		}
	}
	return top, true
}

// TopSets groups logs by upper-cased exercise name and picks the top set of each group.
func TopSets(logs []sessions.ExerciseLog) map[string]sessions.ExerciseLog {
	groups := make(map[string][]sessions.ExerciseLog)
	for _, l := range logs {
		name := strings.ToUpper(l.ExerciseName)
		groups[name] = append(groups[name], l)
	}

	topSets := make(map[string]sessions.ExerciseLog, len(groups))
	for name, group := range groups {
		if top, ok := TopSet(group); ok {
			topSets[name] = top
		}
	}
	return topSets
}

func hasExercise(record SessionRecord, exercise string) bool {
	for _, l := range record.Logs {
		if l.ExerciseName == exercise {
			return true
		}
	}
	return false
}

func distinctNames(logs []sessions.ExerciseLog) int {
	names := make(map[string]struct{}, len(logs))
	for _, l := range logs {
		names[l.ExerciseName] = struct{}{}
	}
	return len(names)
}

func Summarize(record SessionRecord) SessionSummary {
	name := DeletedWorkoutName
	if record.WorkoutName != nil {
		name = *record.WorkoutName
	}
	logs := record.Logs
	if logs == nil {
		logs = []sessions.ExerciseLog{}
	}

	return SessionSummary{
		ID:            record.ID,
		WorkoutID:     record.WorkoutID,
		WorkoutName:   name,
		Timestamp:     record.Timestamp,
		ExerciseCount: distinctNames(logs),
		Logs:          logs,
		TopSets:       TopSets(logs),
	}
}

// Apply filters and sorts the records of one user. Records are expected to be
// already restricted to the filter's workout and date range; Apply checks both
// again so it can be used on unfiltered input too.
func Apply(records []SessionRecord, filter Filter, now time.Time) []SessionSummary {
	since := filter.Date.Since(now)

	summaries := make([]SessionSummary, 0, len(records))
	for _, record := range records {
		if filter.WorkoutID != nil && record.WorkoutID != *filter.WorkoutID {
			continue
		}
		if !since.IsZero() && record.Timestamp.Before(since) {
			continue
		}
		if filter.Exercise != "" && !hasExercise(record, filter.Exercise) {
			continue
		}
		summaries = append(summaries, Summarize(record))
	}

	newestFirst := func(a, b SessionSummary) bool {
		if !a.Timestamp.Equal(b.Timestamp) {
			return a.Timestamp.After(b.Timestamp)
		}
		return a.ID > b.ID
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		a, b := summaries[i], summaries[j]
		switch filter.Sort {
		case SortDateAsc:
			return newestFirst(b, a)
		case SortWorkoutName:
			an, bn := strings.ToLower(a.WorkoutName), strings.ToLower(b.WorkoutName)
			if an != bn {
				return an < bn
			}
		case SortExerciseCount:
			if a.ExerciseCount != b.ExerciseCount {
				return a.ExerciseCount > b.ExerciseCount
			}
		}
		return newestFirst(a, b)
	})

	return summaries
}
