// Package export reads and writes the tabular files users download from and
// upload to the portal.
package export

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/xuri/excelize/v2"
)

const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Column describes one exported column of T.
type Column[T any] struct {
	Header string
	Value  func(T) any
}

// WriteXLSX writes a single-sheet workbook with a bold header row.
func WriteXLSX(w io.Writer, sheet string, headers []string, rows [][]any) error {
	f := excelize.NewFile()
	defer f.Close()

	if sheet == "" {
		sheet = "Datos"
	}
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return errors.Wrap(err, "rename sheet")
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return errors.Wrap(err, "header style")
	}

	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return errors.Wrap(err, "write header")
		}
	}
	if len(headers) > 0 {
		last, _ := excelize.CoordinatesToCellName(len(headers), 1)
		if err := f.SetCellStyle(sheet, "A1", last, bold); err != nil {
			return errors.Wrap(err, "style header")
		}
	}

	for r, row := range rows {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, cellValue(v)); err != nil {
				return errors.Wrapf(err, "write row %d", r+1)
			}
		}
	}
	if _, err := f.WriteTo(w); err != nil {
		return errors.Wrap(err, "write workbook")
	}
	return nil
}

// Rows projects items through columns.
func Rows[T any](items []T, columns []Column[T]) ([]string, [][]any) {
	headers := make([]string, len(columns))
	for i, c := range columns {
		headers[i] = c.Header
	}
	rows := make([][]any, 0, len(items))
	for _, item := range items {
		row := make([]any, len(columns))
		for i, c := range columns {
			row[i] = c.Value(item)
		}
		rows = append(rows, row)
	}
	return headers, rows
}

// ServeXLSX writes items as an attachment named <name>-<date>.xlsx.
func ServeXLSX[T any](w http.ResponseWriter, name string, items []T, columns []Column[T]) error {
	headers, rows := Rows(items, columns)
	w.Header().Set("Content-Type", XLSXContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s-%s.xlsx"`, name, time.Now().Format("20060102")))
	return WriteXLSX(w, name, headers, rows)
}

// cellValue lets excelize store numbers as numbers; fmt.Stringer values such
// as decimals are written as their string form.
func cellValue(v any) any {
	switch x := v.(type) {
	case interface{ InexactFloat64() float64 }:
		return x.InexactFloat64()
	case fmt.Stringer:
		return x.String()
	default:
		return v
	}
}
