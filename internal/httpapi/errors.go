package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/goliatone/go-intake/pkg/flow"
	"github.com/goliatone/go-intake/pkg/wizard"
)

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, wizard.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, flow.ErrInvalidAnswer):
		return http.StatusUnprocessableEntity
	case errors.Is(err, flow.ErrUnknownLocale):
		return http.StatusBadRequest
	case errors.Is(err, flow.ErrSubmissionInFlight),
		errors.Is(err, flow.ErrCompleted),
		errors.Is(err, flow.ErrLocaleLocked),
		errors.Is(err, flow.ErrNotSubmitting):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// fail writes err with its mapped status. Internal failures are logged and
// reported without detail.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		writeError(w, status, http.StatusText(status))
		return
	}
	writeError(w, status, err.Error())
}
