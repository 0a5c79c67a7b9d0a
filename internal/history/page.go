package history

import (
	"embed"
	"html/template"
	"io"
	"strconv"
	"time"
)

//go:embed templates/history.html
var templatesFS embed.FS

var pageTemplate = template.Must(
	template.New("history.html").Funcs(template.FuncMap{
		"date": func(t time.Time) string {
			return t.Format("2006-01-02 15:04")
		},
		"isoTime": func(t time.Time) string {
			return t.Format(time.RFC3339)
		},
		"weight": func(w *float64) string {
			if w == nil {
				return "-"
			}
			return strconv.FormatFloat(*w, 'f', -1, 64) + " kg"
		},
		"reps": func(r *int) string {
			if r == nil {
				return "-"
			}
			return strconv.Itoa(*r) + " reps"
		},
		"selectedWorkout": func(f Filter, id int) bool {
			return f.WorkoutID != nil && *f.WorkoutID == id
		},
	}).ParseFS(templatesFS, "templates/history.html"),
)

func RenderPage(w io.Writer, data *PageData) error {
	return pageTemplate.Execute(w, data)
}
