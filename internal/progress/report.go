package progress

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/2beens/fittrack/internal/history"
)

const (
	// DedupThreshold is how close two sessions of one workout have to be to count once.
	DedupThreshold = 5 * time.Minute
	TopListSize    = 5

	dateLayout          = "2006-01-02"
	formattedDateLayout = "Jan 02"
)

func round(v float64, places int) float64 {
	pow := math.Pow(10, float64(places))
	return math.Round(v*pow) / pow
}

type FrequencyEntry struct {
	Name      string `json:"name"`
	Frequency int    `json:"frequency"`
}

type Averages struct {
	ExercisesPerSession float64 `json:"exercises_per_session"`
	SetsPerSession      float64 `json:"sets_per_session"`
	VolumePerSession    float64 `json:"volume_per_session"`
	VolumePerSet        float64 `json:"volume_per_set"`
	SessionsPerWeek     float64 `json:"sessions_per_week"`
}

type DataQuality struct {
	RawSessionsFound              int `json:"raw_sessions_found"`
	DuplicateSessionsFiltered     int `json:"duplicate_sessions_filtered"`
	DeduplicationThresholdMinutes int `json:"deduplication_threshold_minutes"`
}

type PerformanceSummary struct {
	PeriodDays        int              `json:"period_days"`
	StartDate         string           `json:"start_date"`
	EndDate           string           `json:"end_date"`
	TotalSessions     int              `json:"total_sessions"`
	TotalExercises    int              `json:"total_exercises"`
	TotalSets         int              `json:"total_sets"`
	TotalVolume       float64          `json:"total_volume"`
	ExerciseFrequency map[string]int   `json:"exercise_frequency"`
	WorkoutFrequency  map[string]int   `json:"workout_frequency"`
	TopExercises      []FrequencyEntry `json:"top_exercises"`
	TopWorkouts       []FrequencyEntry `json:"top_workouts"`
	UniqueExercises   int              `json:"unique_exercises"`
	UniqueWorkouts    int              `json:"unique_workouts"`
	Averages          Averages         `json:"averages"`
	DataQuality       DataQuality      `json:"data_quality"`
	Message           string           `json:"message,omitempty"`
}

// Dedup keeps a session unless an already kept session of the same workout is
// less than DedupThreshold away. Records must be ordered newest first.
func Dedup(records []history.SessionRecord) []history.SessionRecord {
	kept := make([]history.SessionRecord, 0, len(records))
	for _, rec := range records {
		duplicate := false
		for _, k := range kept {
			if k.WorkoutID != rec.WorkoutID {
				continue
			}
			if k.Timestamp.Sub(rec.Timestamp).Abs() < DedupThreshold {
				duplicate = true
				break
			}
		}
		if !duplicate {
			kept = append(kept, rec)
		}
	}
	return kept
}

func sessionExerciseNames(rec history.SessionRecord) []string {
	seen := make(map[string]struct{}, len(rec.Logs))
	names := make([]string, 0, len(rec.Logs))
	for _, l := range rec.Logs {
		if _, ok := seen[l.ExerciseName]; ok {
			continue
		}
		seen[l.ExerciseName] = struct{}{}
		names = append(names, l.ExerciseName)
	}
	return names
}

func topEntries(freq map[string]int, limit int) []FrequencyEntry {
	entries := make([]FrequencyEntry, 0, len(freq))
	for name, f := range freq {
		entries = append(entries, FrequencyEntry{Name: name, Frequency: f})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Frequency != entries[j].Frequency {
			return entries[i].Frequency > entries[j].Frequency
		}
		return entries[i].Name < entries[j].Name
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

func sessionsPerWeek(sessions, days int) float64 {
	if days >= 7 {
		return round(float64(sessions)/(float64(days)/7), 1)
	}
	if days <= 0 {
		return 0
	}
	return round(float64(sessions)/float64(days)*7, 1)
}

// Summarize computes the performance summary over records of the last days,
// ordered newest first.
func Summarize(records []history.SessionRecord, days int, now time.Time) PerformanceSummary {
	now = now.UTC()
	summary := PerformanceSummary{
		PeriodDays:        days,
		StartDate:         now.AddDate(0, 0, -days).Format(dateLayout),
		EndDate:           now.Format(dateLayout),
		ExerciseFrequency: map[string]int{},
		WorkoutFrequency:  map[string]int{},
		TopExercises:      []FrequencyEntry{},
		TopWorkouts:       []FrequencyEntry{},
		DataQuality: DataQuality{
			RawSessionsFound:              len(records),
			DeduplicationThresholdMinutes: int(DedupThreshold.Minutes()),
		},
	}
	if len(records) == 0 {
		summary.Message = "No workout sessions found in the specified period"
		return summary
	}

	kept := Dedup(records)
	summary.TotalSessions = len(kept)
	summary.DataQuality.DuplicateSessionsFiltered = len(records) - len(kept)

	var volume float64
	for _, rec := range kept {
		if rec.WorkoutName != nil && *rec.WorkoutName != "" {
			summary.WorkoutFrequency[*rec.WorkoutName]++
		}

		for _, l := range rec.Logs {
			summary.TotalSets++
			if l.Weight != nil && l.Reps != nil {
				volume += *l.Weight * float64(*l.Reps)
			}
		}

		names := sessionExerciseNames(rec)
		for _, name := range names {
			summary.ExerciseFrequency[name]++
		}
		summary.TotalExercises += len(names)
	}

	summary.TotalVolume = round(volume, 2)
	summary.TopExercises = topEntries(summary.ExerciseFrequency, TopListSize)
	summary.TopWorkouts = topEntries(summary.WorkoutFrequency, TopListSize)
	summary.UniqueExercises = len(summary.ExerciseFrequency)
	summary.UniqueWorkouts = len(summary.WorkoutFrequency)

	sessions := float64(summary.TotalSessions)
	summary.Averages = Averages{
		ExercisesPerSession: round(float64(summary.TotalExercises)/sessions, 1),
		SetsPerSession:      round(float64(summary.TotalSets)/sessions, 1),
		VolumePerSession:    round(volume/sessions, 2),
		SessionsPerWeek:     sessionsPerWeek(summary.TotalSessions, days),
	}
	if summary.TotalSets > 0 {
		summary.Averages.VolumePerSet = round(volume/float64(summary.TotalSets), 2)
	}
	return summary
}

type WeightPoint struct {
	Date          string  `json:"date"`
	FormattedDate string  `json:"formatted_date"`
	Weight        float64 `json:"weight"`
	SessionCount  int     `json:"session_count"`
}

type ProgressionStats struct {
	StartingWeight        float64 `json:"starting_weight"`
	CurrentWeight         float64 `json:"current_weight"`
	MaxWeight             float64 `json:"max_weight"`
	MinWeight             float64 `json:"min_weight"`
	TotalProgression      float64 `json:"total_progression"`
	ProgressionPercentage float64 `json:"progression_percentage"`
	AverageWeight         float64 `json:"average_weight"`
}

type WeightProgression struct {
	ExerciseName       string            `json:"exercise_name"`
	DataPoints         []WeightPoint     `json:"data_points"`
	ProgressionStats   *ProgressionStats `json:"progression_stats,omitempty"`
	Message            string            `json:"message,omitempty"`
	AvailableExercises []string          `json:"available_exercises,omitempty"`
}

// matchExercise picks the logs of the exercise: exact name first, then a
// case-insensitive exact name, then a case-insensitive substring.
func matchExercise(records []history.SessionRecord, name string) []weightLog {
	matchers := []func(string) bool{
		func(n string) bool { return n == name },
		func(n string) bool { return strings.EqualFold(n, name) },
		func(n string) bool { return strings.Contains(strings.ToLower(n), strings.ToLower(name)) },
	}

	for _, matches := range matchers {
		var logs []weightLog
		for _, rec := range records {
			for _, l := range rec.Logs {
				if l.Weight == nil || *l.Weight <= 0 || !matches(l.ExerciseName) {
					continue
				}
				logs = append(logs, weightLog{sessionID: rec.ID, timestamp: rec.Timestamp, weight: *l.Weight})
			}
		}
		if len(logs) > 0 {
			return logs
		}
	}
	return nil
}

type weightLog struct {
	sessionID int
	timestamp time.Time
	weight    float64
}

// Progression builds the max-weight-per-day series of one exercise, oldest first.
func Progression(records []history.SessionRecord, exerciseName string) WeightProgression {
	progression := WeightProgression{
		ExerciseName: exerciseName,
		DataPoints:   []WeightPoint{},
	}

	logs := matchExercise(records, exerciseName)
	if len(logs) == 0 {
		progression.Message = "No weight data found for " + exerciseName
		return progression
	}

	type day struct {
		date     time.Time
		weight   float64
		sessions map[int]struct{}
	}
	days := map[string]*day{}
	for _, l := range logs {
		ts := l.timestamp.UTC()
		key := ts.Format(dateLayout)
		d, ok := days[key]
		if !ok {
			d = &day{
				date:     time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC),
				weight:   l.weight,
				sessions: map[int]struct{}{},
			}
			days[key] = d
		}
		d.weight = max(d.weight, l.weight)
		d.sessions[l.sessionID] = struct{}{}
	}

	ordered := make([]*day, 0, len(days))
	for _, d := range days {
		ordered = append(ordered, d)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].date.Before(ordered[j].date) })

	stats := &ProgressionStats{MinWeight: math.MaxFloat64}
	var sum float64
	for _, d := range ordered {
		progression.DataPoints = append(progression.DataPoints, WeightPoint{
			Date:          d.date.Format(dateLayout),
			FormattedDate: d.date.Format(formattedDateLayout),
			Weight:        d.weight,
			SessionCount:  len(d.sessions),
		})
		stats.MaxWeight = max(stats.MaxWeight, d.weight)
		stats.MinWeight = min(stats.MinWeight, d.weight)
		sum += d.weight
	}

	stats.StartingWeight = ordered[0].weight
	stats.CurrentWeight = ordered[len(ordered)-1].weight
	stats.TotalProgression = round(stats.CurrentWeight-stats.StartingWeight, 2)
	if stats.StartingWeight != 0 {
		stats.ProgressionPercentage = round(stats.TotalProgression/stats.StartingWeight*100, 1)
	}
	stats.AverageWeight = round(sum/float64(len(ordered)), 2)
	progression.ProgressionStats = stats
	return progression
}

type VolumePoint struct {
	SessionID     int     `json:"session_id"`
	Date          string  `json:"date"`
	FormattedDate string  `json:"formatted_date"`
	Volume        float64 `json:"volume"`
}

type VolumeTrends struct {
	WorkoutID   int           `json:"workout_id"`
	WorkoutName string        `json:"workout_name"`
	DataPoints  []VolumePoint `json:"data_points"`
}

// Volume computes one volume point per session, oldest first. Records may come in any order.
func Volume(records []history.SessionRecord) []VolumePoint {
	sorted := make([]history.SessionRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].Timestamp.Equal(sorted[j].Timestamp) {
			return sorted[i].Timestamp.Before(sorted[j].Timestamp)
		}
		return sorted[i].ID < sorted[j].ID
	})

	points := make([]VolumePoint, 0, len(sorted))
	for _, rec := range sorted {
		var volume float64
		for _, l := range rec.Logs {
			if l.Weight != nil && l.Reps != nil {
				volume += *l.Weight * float64(*l.Reps)
			}
		}
		ts := rec.Timestamp.UTC()
		points = append(points, VolumePoint{
			SessionID:     rec.ID,
			Date:          ts.Format(dateLayout),
			FormattedDate: ts.Format(formattedDateLayout),
			Volume:        round(volume, 2),
		})
	}
	return points
}

type ExerciseFrequencyEntry struct {
	ExerciseName string `json:"exercise_name"`
	Frequency    int    `json:"frequency"`
}

type ExerciseFrequency struct {
	Exercises  []ExerciseFrequencyEntry `json:"exercises"`
	PeriodDays int                      `json:"period_days"`
}

// Frequency counts, per exercise name, the deduplicated sessions touching it.
func Frequency(records []history.SessionRecord, days int) ExerciseFrequency {
	freq := map[string]int{}
	for _, rec := range Dedup(records) {
		for _, name := range sessionExerciseNames(rec) {
			freq[name]++
		}
	}

	res := ExerciseFrequency{
		Exercises:  make([]ExerciseFrequencyEntry, 0, len(freq)),
		PeriodDays: days,
	}
	for _, e := range topEntries(freq, 0) {
		res.Exercises = append(res.Exercises, ExerciseFrequencyEntry{ExerciseName: e.Name, Frequency: e.Frequency})
	}
	return res
}
