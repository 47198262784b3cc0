package restclient

import (
	"errors"
	"fmt"
)

// maxErrorBody bounds the body excerpt included in Error messages.
const maxErrorBody = 512

// Error is a response with status 400 or above.
type Error struct {
	Method string
	URL    string
	// Code is the numeric status code.
	Code int
	// Status is the status line text, e.g. "404 Not Found".
	Status string
	Body   []byte
}

// Error returns a message that includes the status text, so callers can
// match on "404 Not Found".
func (e *Error) Error() string {
	body := string(e.Body)
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody] + "..."
	}
	if body == "" {
		return fmt.Sprintf("restclient: %s %s: %s", e.Method, e.URL, e.Status)
	}
	return fmt.Sprintf("restclient: %s %s: %s: %s", e.Method, e.URL, e.Status, body)
}

// StatusCode returns the numeric status code.
func (e *Error) StatusCode() int {
	return e.Code
}

// StatusCode extracts the status code from err, or 0 when err is not an
// HTTP status error.
func StatusCode(err error) int {
	var status interface{ StatusCode() int }
	if errors.As(err, &status) {
		return status.StatusCode()
	}
	return 0
}
