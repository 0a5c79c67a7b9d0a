package sessions

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// ExerciseEntry is one exercise result of a session create request.
// Optional fields are parsed permissively: a value that does not coerce to
// the field's type is treated as absent instead of failing the request.
type ExerciseEntry struct {
	ExerciseName   string   `json:"exercise_name"`
	SetNumber      *int     `json:"set_number,omitempty"`
	Reps           *int     `json:"reps,omitempty"`
	Weight         *float64 `json:"weight,omitempty"`
	Details        *string  `json:"details,omitempty"`
	IncludeDetails *bool    `json:"include_details,omitempty"`
}

func (e *ExerciseEntry) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		// not an object, leave the entry empty so it fails on the missing name
		*e = ExerciseEntry{}
		return nil
	}

	*e = ExerciseEntry{
		SetNumber:      coerceInt(fields["set_number"]),
		Reps:           coerceInt(fields["reps"]),
		Weight:         coerceFloat(fields["weight"]),
		Details:        coerceString(fields["details"]),
		IncludeDetails: coerceBool(fields["include_details"]),
	}
	var name string
	if err := json.Unmarshal(fields["exercise_name"], &name); err == nil {
		e.ExerciseName = strings.TrimSpace(name)
	}
	return nil
}

// CreateSessionRequest is the body of POST /api/workout/history.
type CreateSessionRequest struct {
	WorkoutID      *int            `json:"workout_id"`
	IdempotencyKey string          `json:"idempotency_key,omitempty"`
	Exercises      []ExerciseEntry `json:"exercises"`
}

func (r *CreateSessionRequest) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	*r = CreateSessionRequest{
		WorkoutID: coerceInt(fields["workout_id"]),
	}
	if key := coerceString(fields["idempotency_key"]); key != nil {
		r.IdempotencyKey = strings.TrimSpace(*key)
	}
	if raw, ok := fields["exercises"]; ok && !isNull(raw) {
		if err := json.Unmarshal(raw, &r.Exercises); err != nil {
			return ErrNoEntries
		}
	}
	return nil
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// scalar decodes raw into a string, float64 or bool; anything else is nil.
func scalar(raw json.RawMessage) any {
	if isNull(raw) {
		return nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	switch v.(type) {
	case string, float64, bool:
		return v
	default:
		return nil
	}
}

func coerceInt(raw json.RawMessage) *int {
	var n int
	switch v := scalar(raw).(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) || math.Abs(v) > math.MaxInt32 {
			return nil
		}
		n = int(v)
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return nil
		}
		n = parsed
	case bool:
		if v {
			n = 1
		}
	default:
		return nil
	}
	return &n
}

func coerceFloat(raw json.RawMessage) *float64 {
	var f float64
	switch v := scalar(raw).(type) {
	case float64:
		f = v
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
			return nil
		}
		f = parsed
	case bool:
		if v {
			f = 1
		}
	default:
		return nil
	}
	return &f
}

func coerceString(raw json.RawMessage) *string {
	var s string
	switch v := scalar(raw).(type) {
	case string:
		s = v
	case float64:
		s = strings.TrimSpace(string(raw))
	case bool:
		s = strconv.FormatBool(v)
	default:
		return nil
	}
	return &s
}

func coerceBool(raw json.RawMessage) *bool {
	var b bool
	switch v := scalar(raw).(type) {
	case bool:
		b = v
	case float64:
		b = v != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "1", "yes", "on":
			b = true
		case "false", "0", "no", "off", "":
			b = false
		default:
			return nil
		}
	default:
		return nil
	}
	return &b
}
