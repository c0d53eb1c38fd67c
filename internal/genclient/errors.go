package genclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var ErrEmptyContent = errors.New("service returned empty content")

// ResponseTooLargeError reports a response body longer than the client accepts
// for that endpoint. It is not retried.
type ResponseTooLargeError struct {
	Path  string
	Limit int64
}

func (e *ResponseTooLargeError) Error() string {
	return fmt.Sprintf("%s: response exceeds %d bytes", e.Path, e.Limit)
}

type HTTPError struct {
	StatusCode int
	Message    string
	Body       string
}

func (e *HTTPError) Error() string {
	if e == nil {
		return "http error"
	}
	msg := strings.TrimSpace(e.Message)
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	if msg == "" {
		msg = "http error"
	}
	return fmt.Sprintf("http error: status=%d message=%s", e.StatusCode, msg)
}

// Retryable reports whether the request may succeed if sent again.
func (e *HTTPError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

func parseHTTPError(status int, raw []byte) error {
	body := strings.TrimSpace(string(raw))

	// The service reports failures as {"error": "..."} or {"error": {"message": "..."}}.
	var flat struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &flat); err == nil && strings.TrimSpace(flat.Error) != "" {
		return &HTTPError{StatusCode: status, Message: strings.TrimSpace(flat.Error), Body: body}
	}
	var nested struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(raw, &nested); err == nil && strings.TrimSpace(nested.Error.Message) != "" {
		return &HTTPError{StatusCode: status, Message: strings.TrimSpace(nested.Error.Message), Body: body}
	}
	return &HTTPError{StatusCode: status, Body: body}
}
