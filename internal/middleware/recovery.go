package middleware

import (
	"net/http"
	"runtime/debug"
	"strconv"

	"github.com/2beens/fittrack/internal/telemetry/metrics"
	"github.com/2beens/fittrack/pkg"

	"github.com/getsentry/sentry-go"
	log "github.com/sirupsen/logrus"
)

// PanicRecovery turns a handler panic into a 500 JSON error. The panic is
// logged with the stack, counted, and reported to sentry tagged with the user
// id when the request was authenticated.
func PanicRecovery(metricsManager *metrics.Manager) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}

				userID, _ := UserIDFromContext(req.Context())
				log.Errorf("http: panic serving %s %s (user %d): %v\n%s", req.Method, req.URL.Path, userID, rec, debug.Stack())
				if metricsManager != nil {
					metricsManager.CounterHandleRequestPanic.Inc()
				}

				hub := sentry.CurrentHub().Clone()
				hub.Scope().SetRequest(req)
				if userID > 0 {
					hub.Scope().SetUser(sentry.User{ID: strconv.Itoa(userID)})
				}
				hub.RecoverWithContext(req.Context(), rec)

				pkg.WriteJSONError(w, "internal server error", http.StatusInternalServerError)
			}()

			next.ServeHTTP(w, req)
		})
	}
}
