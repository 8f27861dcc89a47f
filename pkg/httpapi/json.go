package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/granempresa/erp-portal/pkg/serrors"
	"github.com/granempresa/erp-portal/pkg/validation"
)

const maxJSONBody = 1 << 20

// DecodeJSON reads a JSON body into v and validates it. Malformed bodies come
// back as a validation error on the "body" field.
func DecodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxJSONBody))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return serrors.NewValidationError(nil).Add("body", "empty request body")
		}
		return serrors.NewValidationError(nil).Add("body", err.Error())
	}
	return validation.Struct(r.Context(), v)
}

// WriteOK writes payload with status 200.
func WriteOK(w http.ResponseWriter, payload any) {
	_ = WriteJSON(w, http.StatusOK, payload)
}
