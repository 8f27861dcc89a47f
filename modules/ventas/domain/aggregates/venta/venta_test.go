package venta

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/granempresa/erp-portal/pkg/serrors"
)

func TestVenta_WithTotals(t *testing.T) {
	v := Venta{Items: []Item{
		{Cantidad: decimal.NewFromInt(2), PrecioUnitario: decimal.NewFromInt(500)},
		{Cantidad: decimal.NewFromInt(1), PrecioUnitario: decimal.RequireFromString("99.6")},
	}}
	got, err := v.WithTotals(decimal.RequireFromString("0.19"), "clp")
	require.NoError(t, err)
	assert.Equal(t, "1100", got.Subtotal.String())
	assert.Equal(t, "209", got.IVA.String())
	assert.Equal(t, "1309", got.Total.String())
	assert.Equal(t, "CLP", got.Moneda)

	v.Items[0].Cantidad = decimal.NewFromInt(-1)
	_, err = v.WithTotals(decimal.RequireFromString("0.19"), "CLP")
	_, ok := serrors.AsValidation(err)
	assert.True(t, ok)
}
