package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrSessionExpired is returned after a token refresh fails. The stored
// credentials are already torn down by the time a caller sees it.
var ErrSessionExpired = errors.New("session expired, please log in again")

// HTTPError is a non-2xx response from the API.
type HTTPError struct {
	Status  int
	Body    []byte
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("api: %d %s: %s", e.Status, http.StatusText(e.Status), e.Message)
}

// Fields extracts per-field validation messages from a DRF-style error body
// ({"email": ["Enter a valid email address."], ...}). Returns nil when the
// body is not field-keyed.
func (e *HTTPError) Fields() map[string]string {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(e.Body, &raw); err != nil {
		return nil
	}

	fields := make(map[string]string)
	for key, val := range raw {
		if key == "error" || key == "detail" || key == "message" {
			continue
		}
		var list []string
		if err := json.Unmarshal(val, &list); err == nil && len(list) > 0 {
			fields[key] = list[0]
			continue
		}
		var single string
		if err := json.Unmarshal(val, &single); err == nil {
			fields[key] = single
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

// NetworkError is a transport-level failure: no response was received.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

func newHTTPError(status int, body []byte) *HTTPError {
	return &HTTPError{
		Status:  status,
		Body:    body,
		Message: extractMessage(status, body),
	}
}

// extractMessage pulls a human-readable message out of the response body.
// The API reports errors as {"error": ...}, {"detail": ...} or a field map.
func extractMessage(status int, body []byte) string {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err == nil {
		for _, key := range []string{"error", "detail", "message"} {
			var msg string
			if val, ok := raw[key]; ok && json.Unmarshal(val, &msg) == nil && msg != "" {
				return msg
			}
		}
		for key, val := range raw {
			var list []string
			if err := json.Unmarshal(val, &list); err == nil && len(list) > 0 {
				return fmt.Sprintf("%s: %s", key, list[0])
			}
		}
	}
	return http.StatusText(status)
}
