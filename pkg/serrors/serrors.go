package serrors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// BaseError is an error carrying a stable machine code and an optional locale key
// that presentation layers use to render a translated message.
type BaseError struct {
	Code         string            `json:"code"`
	Message      string            `json:"message"`
	LocaleKey    string            `json:"-"`
	TemplateData map[string]string `json:"-"`
}

func NewError(code, message, localeKey string) *BaseError {
	return &BaseError{
		Code:      code,
		Message:   message,
		LocaleKey: localeKey,
	}
}

func (e *BaseError) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// WithTemplateData returns a copy of the error with the given template data.
func (e *BaseError) WithTemplateData(data map[string]string) *BaseError {
	clone := *e
	clone.TemplateData = make(map[string]string, len(data))
	for k, v := range data {
		clone.TemplateData[k] = v
	}
	return &clone
}

// Is matches errors by code so sentinel BaseErrors work with errors.Is
// even after WithTemplateData produced a copy.
func (e *BaseError) Is(target error) bool {
	var other *BaseError
	if !errors.As(target, &other) {
		return false
	}
	return other.Code == e.Code
}

// Codes shared by services across modules.
const (
	CodeNotFound     = "NOT_FOUND"
	CodeInvalidState = "INVALID_STATE"
	CodeUnauthorized = "UNAUTHORIZED"
)

// NotFound builds a NOT_FOUND error for the given entity.
func NotFound(entity, id string) *BaseError {
	return NewError(CodeNotFound, fmt.Sprintf("%s %s not found", entity, id), "Errors.NotFound").
		WithTemplateData(map[string]string{"entity": entity, "id": id})
}

// InvalidState builds an INVALID_STATE error for a rejected state transition.
func InvalidState(from, to string) *BaseError {
	return NewError(CodeInvalidState, fmt.Sprintf("cannot move from %s to %s", from, to), "Errors.InvalidTransition").
		WithTemplateData(map[string]string{"from": from, "to": to})
}

// ValidationError collects per-field messages.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError(fields map[string]string) *ValidationError {
	if fields == nil {
		fields = map[string]string{}
	}
	return &ValidationError{Fields: fields}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %d field(s)", len(e.Fields))
}

// Add sets a field message and returns the receiver for chaining.
func (e *ValidationError) Add(field, message string) *ValidationError {
	e.Fields[field] = message
	return e
}

// Summary renders the field messages as "field: message" pairs in field order.
func (e *ValidationError) Summary() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + e.Fields[k]
	}
	return strings.Join(parts, "; ")
}

// OrNil returns nil when no field failed.
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
