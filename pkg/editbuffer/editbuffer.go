// Package editbuffer turns the per-row pending changes of an editable table
// into full rows ready to PUT, and describes what changed.
package editbuffer

import (
	"bytes"
	"encoding/json"
	"sort"

	jsonpatch "github.com/evanphx/json-patch/v5"
	"github.com/go-faster/errors"
	"github.com/wI2L/jsondiff"

	"github.com/granempresa/erp-portal/pkg/serrors"
)

// Changes maps a row id to an RFC 7386 merge patch object.
type Changes map[string]json.RawMessage

// Whitelist is the set of fields a table allows to be edited inline.
type Whitelist map[string]struct{}

func NewWhitelist(fields ...string) Whitelist {
	w := make(Whitelist, len(fields))
	for _, f := range fields {
		w[f] = struct{}{}
	}
	return w
}

func (w Whitelist) Allows(field string) bool {
	_, ok := w[field]
	return ok
}

// Validate checks every patch is a JSON object touching only whitelisted
// fields. Errors are keyed "<rowID>.<field>".
func (c Changes) Validate(w Whitelist) error {
	ve := serrors.NewValidationError(nil)
	for _, id := range c.IDs() {
		fields, err := patchFields(c[id])
		if err != nil {
			ve.Add(id, err.Error())
			continue
		}
		if len(fields) == 0 {
			ve.Add(id, "no changes")
			continue
		}
		for _, f := range fields {
			if !w.Allows(f) {
				ve.Add(id+"."+f, "field is not editable")
			}
		}
	}
	return ve.OrNil()
}

// IDs returns the row ids in lexical order.
func (c Changes) IDs() []string {
	ids := make([]string, 0, len(c))
	for id := range c {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func patchFields(patch json.RawMessage) ([]string, error) {
	trimmed := bytes.TrimSpace(patch)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, errors.New("changes must be a JSON object")
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return nil, errors.Wrap(err, "decode changes")
	}
	fields := make([]string, 0, len(obj))
	for f := range obj {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields, nil
}

// Apply merges patch into original (RFC 7386) and returns the resulting document.
func Apply(original, patch []byte) ([]byte, error) {
	merged, err := jsonpatch.MergePatch(original, patch)
	if err != nil {
		return nil, errors.Wrap(err, "merge patch")
	}
	return merged, nil
}

// ApplyTo marshals row, merges patch and decodes the result into a new T.
func ApplyTo[T any](row T, patch []byte) (T, error) {
	var out T
	original, err := json.Marshal(row)
	if err != nil {
		return out, errors.Wrap(err, "encode row")
	}
	merged, err := Apply(original, patch)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(merged, &out); err != nil {
		return out, errors.Wrap(err, "decode merged row")
	}
	return out, nil
}

// Diff returns the RFC 6902 operations turning before into after.
func Diff(before, after any) (jsondiff.Patch, error) {
	patch, err := jsondiff.Compare(before, after)
	if err != nil {
		return nil, errors.Wrap(err, "diff")
	}
	return patch, nil
}

// DiffJSON is Diff for raw documents.
func DiffJSON(before, after []byte) (jsondiff.Patch, error) {
	patch, err := jsondiff.CompareJSON(before, after)
	if err != nil {
		return nil, errors.Wrap(err, "diff")
	}
	return patch, nil
}
