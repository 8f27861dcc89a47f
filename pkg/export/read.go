package export

import (
	"bytes"
	"encoding/csv"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-faster/errors"
	"github.com/xuri/excelize/v2"

	"github.com/granempresa/erp-portal/pkg/serrors"
)

var ErrUnsupportedFormat = serrors.NewError("UNSUPPORTED_FILE", "only CSV and XLSX files are accepted", "Errors.UnsupportedFile")

// Table is an uploaded sheet: lower-cased headers plus data rows keyed by header.
type Table struct {
	Headers []string
	Rows    []map[string]string
}

// Require returns a validation error naming every missing header.
func (t Table) Require(headers ...string) error {
	have := make(map[string]bool, len(t.Headers))
	for _, h := range t.Headers {
		have[h] = true
	}
	ve := serrors.NewValidationError(nil)
	for _, h := range headers {
		if !have[h] {
			ve.Add(h, "missing column")
		}
	}
	return ve.OrNil()
}

// ReadTable detects the content type of data and parses it as CSV or XLSX.
// The first row holds the headers; blank rows are dropped.
func ReadTable(data []byte) (Table, error) {
	mt := mimetype.Detect(data)
	var (
		records [][]string
		err     error
	)
	switch {
	case mt.Is(XLSXContentType), mt.Is("application/zip"):
		records, err = readXLSX(data)
	case mt.Is("text/csv"), mt.Is("text/plain"):
		records, err = readCSV(data)
	default:
		return Table{}, ErrUnsupportedFormat.WithTemplateData(map[string]string{"type": mt.String()})
	}
	if err != nil {
		return Table{}, err
	}
	return toTable(records), nil
}

func readCSV(data []byte) ([][]string, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	if first, _, ok := bytes.Cut(data, []byte("\n")); ok || len(first) > 0 {
		if bytes.Count(first, []byte(";")) > bytes.Count(first, []byte(",")) {
			r.Comma = ';'
		}
	}
	var out [][]string
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, errors.Wrap(err, "read csv")
		}
		out = append(out, rec)
	}
}

func readXLSX(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(err, "open xlsx")
	}
	defer f.Close()
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.Wrap(err, "read xlsx")
	}
	return rows, nil
}

func toTable(records [][]string) Table {
	var t Table
	for _, rec := range records {
		if isBlank(rec) {
			continue
		}
		if t.Headers == nil {
			t.Headers = make([]string, len(rec))
			for i, h := range rec {
				t.Headers[i] = strings.ToLower(strings.TrimSpace(h))
			}
			continue
		}
		row := make(map[string]string, len(t.Headers))
		for i, h := range t.Headers {
			if i < len(rec) {
				row[h] = strings.TrimSpace(rec[i])
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

func isBlank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
