package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Sentinel kinds for errors.Is checks against client failures.
var (
	// ErrNotFound reports that an id did not resolve to an entity.
	ErrNotFound = errors.New("resource not found")
	// ErrValidation reports a rejected request (missing/empty required field).
	ErrValidation = errors.New("validation failed")
	// ErrTransport reports a network failure or a 5xx response.
	ErrTransport = errors.New("transport failure")
	// ErrAmbiguous reports that the update fallback chain could not determine
	// whether the target entity exists.
	ErrAmbiguous = errors.New("could not determine whether the entity exists")
)

// APIError is a failure reported by the API, carrying the HTTP status and a
// human-readable message.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: %d %s", e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error {
	switch {
	case e.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case e.StatusCode == http.StatusBadRequest:
		return ErrValidation
	case e.StatusCode >= http.StatusInternalServerError:
		return ErrTransport
	}
	return nil
}

// TransportError is a network-level failure with no HTTP status attached.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error during %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool { return target == ErrTransport }

func newAPIError(status int, body []byte) *APIError {
	msg := strings.TrimSpace(string(body))
	var parsed struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error != "" {
		msg = parsed.Error
	}
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &APIError{StatusCode: status, Message: msg}
}
