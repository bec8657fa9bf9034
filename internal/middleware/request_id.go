package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"notestore/internal/httputil"
)

const maxRequestIDLength = 128

// RequestID tags each request with an id, reusing a sane incoming
// X-Request-ID, and echoes it on the response
func RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get(httputil.RequestIDHeader)
			if requestID == "" || len(requestID) > maxRequestIDLength {
				requestID = uuid.NewString()
			}

			w.Header().Set(httputil.RequestIDHeader, requestID)
			r = httputil.WithRequestID(r, requestID)
			next.ServeHTTP(w, r)
		})
	}
}
