package httpapi

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/granempresa/erp-portal/pkg/serrors"
)

// ReadUpload returns the contents of the multipart file field, rejecting
// bodies larger than limit bytes.
func ReadUpload(w http.ResponseWriter, r *http.Request, field string, limit int64) ([]byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := r.ParseMultipartForm(limit); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, serrors.NewValidationError(nil).Add(field, "file exceeds "+strconv.FormatInt(limit, 10)+" bytes")
		}
		return nil, serrors.NewValidationError(nil).Add(field, "multipart form expected")
	}
	f, _, err := r.FormFile(field)
	if err != nil {
		return nil, serrors.NewValidationError(nil).Add(field, "file is required")
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, serrors.NewValidationError(nil).Add(field, err.Error())
	}
	if len(data) == 0 {
		return nil, serrors.NewValidationError(nil).Add(field, "file is empty")
	}
	return data, nil
}
