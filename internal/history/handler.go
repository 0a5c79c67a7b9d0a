package history

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/2beens/fittrack/internal/middleware"
	"github.com/2beens/fittrack/internal/telemetry/tracing"
	"github.com/2beens/fittrack/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type ClearHistoryResponse struct {
	Success         bool `json:"success"`
	SessionsDeleted int  `json:"sessions_deleted"`
}

type Handler struct {
	reader *Reader
}

func NewHandler(reader *Reader) *Handler {
	return &Handler{
		reader: reader,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/api/workout/history", handler.HandleList).Methods("GET").Name("list-sessions")
	router.HandleFunc("/api/workout/history/clear", handler.HandleClear).Methods("DELETE").Name("clear-history")
	router.HandleFunc("/history", handler.HandlePage).Methods("GET").Name("history-page")
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.history.list")
	defer span.End()

	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		pkg.WriteJSONError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	filter, err := ParseFilter(r.URL.Query())
	if err != nil {
		pkg.WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	summaries, err := handler.reader.ListSessions(ctx, userID, filter)
	if err != nil {
		log.Errorf("list sessions for user %d: %s", userID, err)
		pkg.WriteJSONError(w, "failed to list sessions: "+err.Error(), http.StatusInternalServerError)
		return
	}
	pkg.WriteJSON(w, summaries, http.StatusOK)
}

func (handler *Handler) HandleClear(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.history.clear")
	defer span.End()

	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		pkg.WriteJSONError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	deleted, err := handler.reader.ClearHistory(ctx, userID)
	if err != nil {
		log.Errorf("clear history for user %d: %s", userID, err)
		pkg.WriteJSONError(w, "failed to clear history: "+err.Error(), http.StatusInternalServerError)
		return
	}
	pkg.WriteJSON(w, ClearHistoryResponse{Success: true, SessionsDeleted: deleted}, http.StatusOK)
}

// HandlePage renders the history page, or its data as JSON for AJAX calls.
// An invalid filter renders an empty result instead of failing the page.
func (handler *Handler) HandlePage(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.history.page")
	defer span.End()

	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		pkg.WriteJSONError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var data *PageData
	filter, err := ParseFilter(r.URL.Query())
	if errors.Is(err, ErrInvalidFilter) {
		data = &PageData{
			Sessions: []SessionSummary{},
			Filter:   Filter{Sort: SortDateDesc},
			Error:    err.Error(),
		}
	} else {
		data, err = handler.reader.Page(ctx, userID, filter)
		if err != nil {
			log.Errorf("history page for user %d: %s", userID, err)
			pkg.WriteJSONError(w, "failed to load history: "+err.Error(), http.StatusInternalServerError)
			return
		}
	}

	if r.Header.Get("X-Requested-With") == "XMLHttpRequest" {
		pkg.WriteJSON(w, data, http.StatusOK)
		return
	}

	var buf bytes.Buffer
	if err := RenderPage(&buf, data); err != nil {
		log.Errorf("render history page: %s", err)
		http.Error(w, "failed to render history", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.HTML, buf.Bytes(), http.StatusOK)
}
