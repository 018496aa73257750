package gymapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// APIError is a non-2xx response from the remote API. DRF-style bodies
// come in two shapes: {"detail": "..."} for general failures and
// {"field": ["msg", ...]} for validation failures; both are captured.
type APIError struct {
	StatusCode  int
	Detail      string
	FieldErrors map[string][]string
}

func (e *APIError) Error() string {
	if msg := e.Message(); msg != "" {
		return fmt.Sprintf("gym api: %d: %s", e.StatusCode, msg)
	}
	return fmt.Sprintf("gym api: %d: %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// Message returns the best human-readable description of the failure:
// the detail message when present, otherwise the joined field errors.
func (e *APIError) Message() string {
	if e.Detail != "" {
		return e.Detail
	}
	return e.JoinedFieldErrors()
}

// JoinedFieldErrors flattens the field-error map into a single display
// string, e.g. {"phone": ["This field is required."]} becomes
// "phone: This field is required.". Fields are sorted for stable output.
func (e *APIError) JoinedFieldErrors() string {
	if len(e.FieldErrors) == 0 {
		return ""
	}
	fields := make([]string, 0, len(e.FieldErrors))
	for f := range e.FieldErrors {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+strings.Join(e.FieldErrors[f], " "))
	}
	return strings.Join(parts, "; ")
}

// IsNotFound reports whether the remote API answered 404, e.g. a member
// deleted between page load and submit.
func (e *APIError) IsNotFound() bool { return e.StatusCode == http.StatusNotFound }

// IsUnauthorized reports whether the remote API rejected the bearer
// token. The console does not force a logout on this; callers surface
// it like any other failure.
func (e *APIError) IsUnauthorized() bool { return e.StatusCode == http.StatusUnauthorized }

// AsAPIError unwraps err into an *APIError when one is in the chain.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// parseAPIError builds an APIError from a response body. Unparseable
// bodies yield an APIError with only the status code set; callers fall
// back to a generic message.
func parseAPIError(statusCode int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: statusCode}
	if len(body) == 0 {
		return apiErr
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return apiErr
	}

	for field, val := range raw {
		if field == "detail" || field == "error" {
			var detail string
			if err := json.Unmarshal(val, &detail); err == nil {
				apiErr.Detail = detail
			}
			continue
		}

		var msgs []string
		if err := json.Unmarshal(val, &msgs); err == nil {
			if apiErr.FieldErrors == nil {
				apiErr.FieldErrors = make(map[string][]string)
			}
			apiErr.FieldErrors[field] = msgs
			continue
		}
		// Single-string field errors appear on some endpoints.
		var msg string
		if err := json.Unmarshal(val, &msg); err == nil {
			if apiErr.FieldErrors == nil {
				apiErr.FieldErrors = make(map[string][]string)
			}
			apiErr.FieldErrors[field] = []string{msg}
		}
	}

	return apiErr
}
