package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ashrotd/singcoach/internal/coaching"
	"github.com/ashrotd/singcoach/internal/store"
)

// HTTPStatus maps an error to a response status code.
func HTTPStatus(err error) int {
	var verr *coaching.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// respondError writes {success:false, error}. Internal errors are logged
// and replaced with a generic message; notFound names the missing thing.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	status := HTTPStatus(err)
	msg := err.Error()
	switch status {
	case http.StatusNotFound:
		msg = notFound
	case http.StatusInternalServerError:
		s.logger.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		msg = "Internal server error"
	}
	respondJSON(w, status, map[string]any{
		"success": false,
		"error":   msg,
	})
}

// decodeJSON reads a JSON body into v. A malformed body is a validation
// failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return &coaching.ValidationError{Message: "invalid request body"}
	}
	return nil
}
