package authz

import (
	"errors"
	"fmt"

	"github.com/granempresa/erp-portal/pkg/serrors"
)

const (
	ErrorCodeForbidden = "AUTHZ_FORBIDDEN"
	errorLocaleKey     = "Authorization.PermissionDenied"
)

// forbiddenError builds a standardized error for denied policies.
func forbiddenError(req Request) *serrors.BaseError {
	return serrors.NewError(
		ErrorCodeForbidden,
		"permission denied",
		errorLocaleKey,
	).WithTemplateData(map[string]string{
		"object":  req.Object,
		"action":  req.Action,
		"subject": req.Subject,
	})
}

// IsForbidden reports whether err is a denied authorization decision.
func IsForbidden(err error) bool {
	var base *serrors.BaseError
	return errors.As(err, &base) && base.Code == ErrorCodeForbidden
}

// configError standardizes configuration validation errors.
func configError(msg string, args ...any) error {
	return fmt.Errorf("authz: "+msg, args...)
}
