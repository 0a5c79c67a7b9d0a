package middleware

import (
	"io"
	"net/http"
)

const (
	// MaxRequestBodyBytes caps what a handler may read; a full workout edit stays well below it.
	MaxRequestBodyBytes = 1 << 20
	maxDrainBytes       = 64 << 10
)

// LimitAndDrainRequest caps the request body at maxBytes and, once the handler
// returns, discards a bounded remainder of the body before closing it so the
// connection can be reused.
func LimitAndDrainRequest(maxBytes int64) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil && r.Body != http.NoBody {
				r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			}

			next.ServeHTTP(w, r)

			if r.Body != nil {
				_, _ = io.Copy(io.Discard, io.LimitReader(r.Body, maxDrainBytes))
				_ = r.Body.Close()
			}
		})
	}
}
