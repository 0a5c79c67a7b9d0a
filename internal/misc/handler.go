package misc

import (
	"net/http"
	"strings"

	"github.com/2beens/fittrack/pkg"

	"github.com/gorilla/mux"
)

const unknownVersion = "unknown"

type Handler struct {
	version string
}

func NewHandler(versionInfo string) *Handler {
	if versionInfo == "" {
		versionInfo = unknownVersion
	}
	return &Handler{version: versionInfo}
}

func (handler *Handler) SetupRoutes(mainRouter *mux.Router) {
	mainRouter.HandleFunc("/", handler.handleRoot).Methods("GET", "POST", "OPTIONS").Name("root")
	mainRouter.HandleFunc("/version", handler.handleVersion).Methods("GET").Name("version")
}

func (handler *Handler) handleRoot(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteTextResponseOK(w, "fittrack is up")
}

// handleVersion answers in plain text unless the client asks for JSON.
func (handler *Handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if strings.Contains(r.Header.Get("Accept"), pkg.ContentType.JSON) {
		pkg.WriteJSON(w, map[string]string{"version": handler.version}, http.StatusOK)
		return
	}
	pkg.WriteTextResponseOK(w, handler.version)
}
