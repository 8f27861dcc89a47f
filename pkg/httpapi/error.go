package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/granempresa/erp-portal/pkg/authz"
	"github.com/granempresa/erp-portal/pkg/backend"
	"github.com/granempresa/erp-portal/pkg/composables"
	"github.com/granempresa/erp-portal/pkg/intl"
	"github.com/granempresa/erp-portal/pkg/serrors"
)

const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeBadRequest         = "BAD_REQUEST"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeBackendError       = "BACKEND_ERROR"
	CodeBackendUnavailable = "BACKEND_UNAVAILABLE"
	CodeInternal           = "INTERNAL_ERROR"
	CodeNotFound           = "NOT_FOUND"
	CodeMethodNotAllowed   = "METHOD_NOT_ALLOWED"
	CodeTimeout            = "TIMEOUT"
)

// ErrorEnvelope standardizes JSON error responses for API namespaces.
type ErrorEnvelope struct {
	Message string            `json:"message"`
	Code    string            `json:"code"`
	Meta    map[string]string `json:"meta,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, payload any) error {
	if w == nil {
		return nil
	}
	w.Header().Set("Content-Type", "application/json")
	if payload == nil {
		w.WriteHeader(status)
		return nil
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(&ErrorEnvelope{Code: CodeInternal, Message: "response encoding failed"})
		return fmt.Errorf("encode response: %w", err)
	}
	w.WriteHeader(status)
	_, err := w.Write(buf.Bytes())
	return err
}

func WriteError(w http.ResponseWriter, status int, code, message string, meta map[string]string) error {
	return WriteJSON(w, status, &ErrorEnvelope{
		Code:    code,
		Message: message,
		Meta:    meta,
	})
}

// WriteServiceError maps err to a status code and envelope and writes it.
func WriteServiceError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	status, env := Classify(ctx, err)
	if requestID := composables.UseRequestID(ctx); requestID != "" {
		if env.Meta == nil {
			env.Meta = map[string]string{}
		}
		env.Meta["request_id"] = requestID
	}
	logger := composables.UseLogger(ctx).WithError(err).WithField("status", status)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed")
	} else {
		logger.Debug("request rejected")
	}
	_ = WriteJSON(w, status, env)
}

// Classify maps service errors: validation 400, unauthenticated 401,
// forbidden 403, not found 404, invalid state 409, backend 4xx 502 carrying
// the backend message, unreachable backend 503, anything else 500.
func Classify(ctx context.Context, err error) (int, *ErrorEnvelope) {
	if ve, ok := serrors.AsValidation(err); ok {
		return http.StatusBadRequest, &ErrorEnvelope{
			Code:    CodeValidation,
			Message: intl.T(ctx, "Errors.Validation", "validation failed", nil),
			Fields:  ve.Fields,
		}
	}

	if errors.Is(err, composables.ErrNoSession) {
		return http.StatusUnauthorized, &ErrorEnvelope{
			Code:    CodeUnauthorized,
			Message: intl.T(ctx, "Errors.Unauthorized", "authentication required", nil),
		}
	}

	var base *serrors.BaseError
	if errors.As(err, &base) {
		env := &ErrorEnvelope{
			Code:    base.Code,
			Message: intl.T(ctx, base.LocaleKey, base.Message, base.TemplateData),
			Meta:    cloneMeta(base.TemplateData),
		}
		switch {
		case authz.IsForbidden(err):
			return http.StatusForbidden, env
		case base.Code == serrors.CodeUnauthorized:
			return http.StatusUnauthorized, env
		case base.Code == serrors.CodeNotFound:
			return http.StatusNotFound, env
		case base.Code == serrors.CodeInvalidState:
			return http.StatusConflict, env
		default:
			return http.StatusBadRequest, env
		}
	}

	if be, ok := backend.AsError(err); ok {
		env := &ErrorEnvelope{
			Code:    CodeBackendError,
			Message: be.Message,
			Meta: map[string]string{
				"backend": be.Backend,
			},
		}
		if be.Code != "" {
			env.Meta["backend_code"] = be.Code
		}
		switch {
		case be.Status == http.StatusNotFound:
			env.Code = CodeNotFound
			return http.StatusNotFound, env
		case be.Status == http.StatusUnauthorized:
			env.Code = CodeUnauthorized
			return http.StatusUnauthorized, env
		case be.Status >= 400 && be.Status < 500:
			return http.StatusBadGateway, env
		default:
			env.Message = intl.T(ctx, "Errors.Backend", "the backend failed to process the request", nil)
			return http.StatusBadGateway, env
		}
	}

	var ue *backend.UnavailableError
	if errors.As(err, &ue) {
		return http.StatusServiceUnavailable, &ErrorEnvelope{
			Code:    CodeBackendUnavailable,
			Message: intl.T(ctx, "Errors.BackendUnavailable", "backend unavailable", map[string]string{"backend": ue.Backend}),
			Meta:    map[string]string{"backend": ue.Backend},
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout, &ErrorEnvelope{
			Code:    CodeTimeout,
			Message: intl.T(ctx, "Errors.Timeout", "the request timed out", nil),
		}
	}

	return http.StatusInternalServerError, &ErrorEnvelope{
		Code:    CodeInternal,
		Message: intl.T(ctx, "Errors.Internal", "internal server error", nil),
	}
}

func cloneMeta(in map[string]string) map[string]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
