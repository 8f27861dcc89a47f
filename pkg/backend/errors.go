package backend

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Error is returned when a backend answers with a non-2xx status.
type Error struct {
	Backend string
	Method  string
	Path    string
	Status  int
	Code    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s backend: %s %s: %d %s", e.Backend, e.Method, e.Path, e.Status, e.Message)
}

// UnavailableError wraps transport failures (refused connection, timeout, DNS).
type UnavailableError struct {
	Backend string
	Err     error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("%s backend unavailable: %v", e.Backend, e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

func AsError(err error) (*Error, bool) {
	var be *Error
	if errors.As(err, &be) {
		return be, true
	}
	return nil, false
}

func IsNotFound(err error) bool {
	be, ok := AsError(err)
	return ok && be.Status == http.StatusNotFound
}

func IsUnavailable(err error) bool {
	var ue *UnavailableError
	return errors.As(err, &ue)
}

// Message returns the user-facing message of err: the backend's own message when
// it sent one, otherwise fallback.
func Message(err error, fallback string) string {
	if be, ok := AsError(err); ok && be.Message != "" {
		return be.Message
	}
	return fallback
}

type errorBody struct {
	Message json.RawMessage `json:"message"`
	Mensaje string          `json:"mensaje"`
	Error   string          `json:"error"`
	Detail  string          `json:"detail"`
	Code    string          `json:"code"`
}

func decodeError(backend, method, path string, status int, body []byte) *Error {
	out := &Error{
		Backend: backend,
		Method:  method,
		Path:    path,
		Status:  status,
	}
	var parsed errorBody
	if len(body) > 0 && json.Unmarshal(body, &parsed) == nil {
		out.Code = parsed.Code
		out.Message = rawMessage(parsed.Message)
		for _, candidate := range []string{parsed.Mensaje, parsed.Detail, parsed.Error} {
			if out.Message != "" {
				break
			}
			out.Message = strings.TrimSpace(candidate)
		}
	} else if len(body) > 0 && len(body) < 256 {
		out.Message = strings.TrimSpace(string(body))
	}
	if out.Message == "" {
		out.Message = http.StatusText(status)
	}
	return out
}

// rawMessage accepts both "message": "..." and "message": ["...", "..."].
func rawMessage(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return strings.TrimSpace(single)
	}
	var many []string
	if err := json.Unmarshal(raw, &many); err == nil {
		return strings.Join(many, "; ")
	}
	return ""
}
