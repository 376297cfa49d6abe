package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnauthorized is returned for 401 responses. The session has already
	// been invalidated by the time callers see this error.
	ErrUnauthorized = errors.New("no autorizado")

	// ErrForbidden is returned for 403 responses.
	ErrForbidden = errors.New("acceso denegado")

	// ErrUnreachable is returned when the backend cannot be reached at all
	// (connection refused, DNS failure, timeout).
	ErrUnreachable = errors.New("no se puede conectar con el servidor")
)

// Error carries a non-auth 4xx/5xx response: the HTTP status for
// diagnosability plus the message extracted from the body when present.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
	}
	return fmt.Sprintf("error del servidor (status %d)", e.Status)
}

// extractMessage pulls a human-readable message out of an error response
// body. Backends here reply either with {"message": ...} JSON or a plain
// text body; anything unusable yields "".
func extractMessage(body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return ""
	}

	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
		// JSON without a recognized message field
		return ""
	}

	if len(trimmed) > 200 {
		return ""
	}
	return trimmed
}
