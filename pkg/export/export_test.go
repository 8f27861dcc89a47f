package export

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/granempresa/erp-portal/pkg/serrors"
)

type venta struct {
	ID    int
	Total decimal.Decimal
}

func TestWriteXLSX_RoundTripsThroughReadTable(t *testing.T) {
	headers, rows := Rows([]venta{{ID: 1, Total: decimal.RequireFromString("1190")}, {ID: 2, Total: decimal.RequireFromString("2380.5")}},
		[]Column[venta]{
			{Header: "ID", Value: func(v venta) any { return v.ID }},
			{Header: "Total", Value: func(v venta) any { return v.Total }},
		})

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, "ventas", headers, rows))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, []string{"ventas"}, f.GetSheetList())
	v, err := f.GetCellValue("ventas", "B3")
	require.NoError(t, err)
	assert.Equal(t, "2380.5", v)
	require.NoError(t, f.Close())

	table, err := ReadTable(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "total"}, table.Headers)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "1190", table.Rows[0]["total"])
}

func TestReadTable_CSV(t *testing.T) {
	data := []byte("\xef\xbb\xbfSKU,Tipo,Cantidad,Motivo\nTOR-01,ENTRADA,10,compra\n\n,,,\nTUE-02,SALIDA,3\n")
	table, err := ReadTable(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"sku", "tipo", "cantidad", "motivo"}, table.Headers)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "compra", table.Rows[0]["motivo"])
	assert.Equal(t, "", table.Rows[1]["motivo"])
	require.NoError(t, table.Require("sku", "tipo", "cantidad"))
}

func TestReadTable_SemicolonCSV(t *testing.T) {
	table, err := ReadTable([]byte("sku;cantidad\nA;1\n"))
	require.NoError(t, err)
	assert.Equal(t, "1", table.Rows[0]["cantidad"])
}

func TestReadTable_RejectsOtherFormats(t *testing.T) {
	_, err := ReadTable([]byte("%PDF-1.4\n%âãÏÓ\n1 0 obj\n"))
	require.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestTableRequire(t *testing.T) {
	ve, ok := serrors.AsValidation(Table{Headers: []string{"sku"}}.Require("sku", "tipo"))
	require.True(t, ok)
	assert.Equal(t, map[string]string{"tipo": "missing column"}, ve.Fields)
}
