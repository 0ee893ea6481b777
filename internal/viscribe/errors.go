package viscribe

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// APIError is a non-2xx answer from the Viscribe API.
type APIError struct {
	StatusCode int
	Message    string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("viscribe API error (status %d): %s", e.StatusCode, e.Message)
}

// Unauthorized reports a rejected or missing API key.
func (e *APIError) Unauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// InsufficientCredits reports an exhausted credit balance.
func (e *APIError) InsufficientCredits() bool {
	return e.StatusCode == http.StatusPaymentRequired
}

// newAPIError pulls a human readable message out of the usual error
// envelopes ({"detail": ...}, {"message": ...}, {"error": ...}) and
// falls back to the raw body.
func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status, Body: string(body)}

	var envelope map[string]any
	if err := json.Unmarshal(body, &envelope); err == nil {
		for _, key := range []string{"detail", "message", "error"} {
			if msg := messageOf(envelope[key]); msg != "" {
				apiErr.Message = msg
				break
			}
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(string(body))
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(status)
	}
	return apiErr
}

func messageOf(v any) string {
	switch m := v.(type) {
	case string:
		return m
	case map[string]any:
		if s, ok := m["message"].(string); ok {
			return s
		}
	case nil:
		return ""
	}
	data, _ := json.Marshal(v)
	return string(data)
}

// AsAPIError unwraps err to an *APIError if it is one.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
