package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Error is a non-2xx response from the platform API. It keeps the raw body
// so callers can inspect structured validation payloads field by field, and
// surfaces the conventional "detail" message when the server sent one.
type Error struct {
	// Status is the HTTP status code.
	Status int
	// Detail is the server's "detail" message, empty if absent.
	Detail string
	// Body is the raw response body.
	Body json.RawMessage
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("api: %d: %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("api: %d", e.Status)
}

// newError builds an Error from a response body, decoding the
// {"detail": ...} convention when present.
func newError(status int, body []byte) *Error {
	e := &Error{Status: status, Body: body}
	var payload struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &payload) == nil {
		e.Detail = payload.Detail
	}
	return e
}

// IsUnauthorized reports whether err is an API error with status 401.
func IsUnauthorized(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

// IsNotFound reports whether err is an API error with status 404.
func IsNotFound(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}
