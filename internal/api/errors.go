// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultErrorMessage is recorded when a failure carries no message.
const DefaultErrorMessage = "An error occurred"

var (
	// ErrNotConfigured indicates a relative endpoint was used without a base URL.
	ErrNotConfigured = errors.New("API base URL not configured")

	// ErrEmptyInput indicates blank content was passed to a typed wrapper.
	ErrEmptyInput = errors.New("input is empty")
)

// HTTPError is returned for any non-2xx response.
type HTTPError struct {
	Status     int
	StatusText string
	Body       string
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP error! status: %d", e.Status)
}

// StatusCode returns the HTTP status code.
func (e *HTTPError) StatusCode() int {
	return e.Status
}

// IsHTTPStatus reports whether err is an *HTTPError with the given status.
func IsHTTPStatus(err error, status int) bool {
	var httpErr *HTTPError
	return errors.As(err, &httpErr) && httpErr.Status == status
}

// ErrorString formats err the way it is shown to the user: the message,
// suffixed with the status code when one is available.
func ErrorString(err error) string {
	if err == nil {
		return ""
	}
	msg := strings.TrimSpace(err.Error())
	if msg == "" {
		msg = DefaultErrorMessage
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) && httpErr.Status != 0 {
		return fmt.Sprintf("%s (%d)", msg, httpErr.Status)
	}
	return msg
}
