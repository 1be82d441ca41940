package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// ErrorDetail is one field-level complaint in a validation error.
type ErrorDetail struct {
	Property string   `json:"property"`
	Value    any      `json:"value"`
	Messages []string `json:"messages"`
}

// Error is a non-2xx answer of the API.
type Error struct {
	StatusCode int           `json:"-"`
	Type       string        `json:"errorType"`
	Message    string        `json:"message"`
	Details    []ErrorDetail `json:"details,omitempty"`
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status code %d", e.StatusCode)
}

// IsUnauthorized reports whether err is a 401 from the API.
func IsUnauthorized(err error) bool {
	return StatusCode(err) == http.StatusUnauthorized
}

// StatusCode extracts the HTTP status of an API error, 0 otherwise.
func StatusCode(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

func decodeError(resp *http.Response) *Error {
	apiErr := &Error{StatusCode: resp.StatusCode}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil || len(raw) == 0 {
		return apiErr
	}
	if err := json.Unmarshal(raw, apiErr); err != nil {
		apiErr.Type, apiErr.Message, apiErr.Details = "", "", nil
	}
	return apiErr
}
