package api

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// The server reports failures as {"detail": "..."} bodies. The client folds
// every non-2xx response into one of the typed errors below; nothing is
// swallowed and nothing is retried.

// AuthenticationError reports rejected credentials, either at login or when
// a bearer token is no longer accepted.
type AuthenticationError struct {
	Message string
	Status  int
}

func (e *AuthenticationError) Error() string { return e.Message }

// ValidationError reports a payload the server refused as malformed.
type ValidationError struct {
	Message string
	Status  int
}

func (e *ValidationError) Error() string { return e.Message }

// NotFoundError reports an operation against a resource that no longer
// exists; callers should refresh their view.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// APIError is the generic status-tagged failure for everything else the
// server rejects.
type APIError struct {
	Message string
	Status  int
}

func (e *APIError) Error() string { return e.Message }

// TransportError reports a failure before a well-formed server response was
// obtained: network unreachable, timeout, or a non-JSON body.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }

func (e *TransportError) Unwrap() error { return e.Err }

type detailBody struct {
	Detail string `json:"detail"`
}

// errorFromResponse maps a non-2xx response to the taxonomy. A parseable
// {detail} body wins; otherwise the message is a generic status-coded one.
func errorFromResponse(status int, body []byte) error {
	msg := fmt.Sprintf("request failed (status %d)", status)

	var d detailBody
	if err := json.Unmarshal(body, &d); err == nil && d.Detail != "" {
		msg = d.Detail
	}

	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return &AuthenticationError{Message: msg, Status: status}
	case status == http.StatusNotFound:
		return &NotFoundError{Message: msg}
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return &ValidationError{Message: msg, Status: status}
	default:
		return &APIError{Message: msg, Status: status}
	}
}
