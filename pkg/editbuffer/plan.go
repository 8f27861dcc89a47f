package editbuffer

import (
	"encoding/json"

	"github.com/granempresa/erp-portal/pkg/serrors"
)

// Edit is one changed row: its state before and after the merge patch.
type Edit[T any] struct {
	ID     string
	Before T
	After  T
}

// Plan validates changes against the whitelist and the loaded rows, then
// merges each patch into its row. Edits come back in the order of rows.
func Plan[T any](rows []T, id func(T) string, changes Changes, w Whitelist) ([]Edit[T], error) {
	if err := changes.Validate(w); err != nil {
		return nil, err
	}
	known := make(map[string]bool, len(rows))
	for _, row := range rows {
		known[id(row)] = true
	}
	ve := serrors.NewValidationError(nil)
	for _, key := range changes.IDs() {
		if !known[key] {
			ve.Add(key, "unknown row")
		}
	}
	if err := ve.OrNil(); err != nil {
		return nil, err
	}

	edits := make([]Edit[T], 0, len(changes))
	for _, row := range rows {
		key := id(row)
		patch, ok := changes[key]
		if !ok {
			continue
		}
		after, err := ApplyTo(row, patch)
		if err != nil {
			return nil, serrors.NewValidationError(nil).Add(key, err.Error())
		}
		edits = append(edits, Edit[T]{ID: key, Before: row, After: after})
	}
	return edits, nil
}

// DiffOf is the RFC 6902 diff of an edit, or nil when it cannot be computed.
func (e Edit[T]) DiffOf() json.RawMessage {
	patch, err := Diff(e.Before, e.After)
	if err != nil || len(patch) == 0 {
		return nil
	}
	raw, err := json.Marshal(patch)
	if err != nil {
		return nil
	}
	return raw
}
