package httputil

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"notestore/internal/config"
)

// maxBodyBytes leaves headroom over the content cap for JSON escaping
const maxBodyBytes = 2*config.MaxContentBytes + 64<<10

// ParseJSON decodes JSON from the request body into the given destination.
// The body is size-limited and must hold exactly one JSON value.
func ParseJSON(w http.ResponseWriter, r *http.Request, dest interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dest); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("invalid JSON: empty body")
		}
		return fmt.Errorf("invalid JSON: %w", err)
	}

	if decoder.More() {
		return errors.New("invalid JSON: trailing data after object")
	}

	return nil
}

// LimitBody caps a raw (non-JSON) request body
func LimitBody(w http.ResponseWriter, r *http.Request) io.Reader {
	return http.MaxBytesReader(w, r.Body, maxBodyBytes)
}
