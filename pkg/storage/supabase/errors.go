package supabase

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// APIError is a non-2xx response from Supabase.
type APIError struct {
	Op      string
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	if e.Code != "" {
		return fmt.Sprintf("supabase: %s: %d %s: %s", e.Op, e.Status, e.Code, msg)
	}
	return fmt.Sprintf("supabase: %s: %d: %s", e.Op, e.Status, msg)
}

// Temporary reports whether retrying later could succeed.
func (e *APIError) Temporary() bool {
	return e.Status == http.StatusTooManyRequests || e.Status >= 500
}

func newAPIError(op string, status int, payload []byte) *APIError {
	apiErr := &APIError{Op: op, Status: status}
	var body struct {
		Message    string `json:"message"`
		Error      string `json:"error"`
		Code       string `json:"code"`
		StatusCode string `json:"statusCode"`
	}
	if err := json.Unmarshal(payload, &body); err == nil {
		apiErr.Message = firstNonEmpty(body.Message, body.Error)
		apiErr.Code = firstNonEmpty(body.Code, body.StatusCode)
	} else {
		apiErr.Message = strings.TrimSpace(string(payload))
	}
	return apiErr
}
