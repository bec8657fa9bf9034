package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"notestore/internal/domain"
	"notestore/internal/httputil"
)

// handleError converts domain errors to problem responses. Storage failures
// are logged and reported without their driver detail.
func handleError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var httpErr domain.HTTPError
	if !errors.As(err, &httpErr) || errors.Is(err, domain.ErrStorage) {
		logger.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", httputil.GetRequestID(r),
			"error", err,
		)
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	httputil.RespondError(w, httpErr.StatusCode(), err.Error())
}

// handleBodyError reports a request body that could not be read or decoded
func handleBodyError(w http.ResponseWriter, err error) {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		httputil.RespondError(w, http.StatusRequestEntityTooLarge, "request body too large")
		return
	}
	httputil.RespondError(w, http.StatusBadRequest, err.Error())
}
