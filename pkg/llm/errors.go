package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

const maxErrorBody = 300

// TransportError reports a failed completion request: either a non-success
// HTTP status (StatusCode > 0) or a network-level fault (StatusCode == 0).
// Body carries a truncated excerpt of the response for diagnostics.
type TransportError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("completion request failed: %v", e.Err)
	}
	if e.Body != "" {
		return fmt.Sprintf("completion request failed: HTTP %d: %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("completion request failed: HTTP %d", e.StatusCode)
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsTransportError reports whether err is (or wraps) a TransportError.
func IsTransportError(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// newStatusError builds a TransportError from a non-2xx response,
// preferring the API's structured error message over the raw body.
func newStatusError(statusCode int, body []byte) *TransportError {
	var errBody struct {
		Error struct {
			Type    string `json:"type"`
			Message string `json:"message"`
		} `json:"error"`
		Message string `json:"message"`
	}
	excerpt := strings.TrimSpace(string(body))
	if json.Unmarshal(body, &errBody) == nil {
		switch {
		case errBody.Error.Message != "" && errBody.Error.Type != "":
			excerpt = fmt.Sprintf("[%s] %s", errBody.Error.Type, errBody.Error.Message)
		case errBody.Error.Message != "":
			excerpt = errBody.Error.Message
		case errBody.Message != "":
			excerpt = errBody.Message
		}
	}
	if len(excerpt) > maxErrorBody {
		excerpt = excerpt[:maxErrorBody] + "..."
	}
	return &TransportError{StatusCode: statusCode, Body: excerpt}
}
