package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/granempresa/erp-portal/pkg/serrors"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCompute_CLP(t *testing.T) {
	totals, err := Compute([]Line{
		{Cantidad: d("3"), PrecioUnitario: d("1500")},
		{Cantidad: d("1"), PrecioUnitario: d("999")},
	}, d("0.19"), "clp")
	require.NoError(t, err)

	assert.Equal(t, "5499", totals.Subtotal.String())
	assert.Equal(t, "1045", totals.IVA.String(), "1044.81 rounds to whole pesos")
	assert.Equal(t, "6544", totals.Total.String())
	assert.Equal(t, "CLP", totals.Currency)
}

func TestCompute_USDKeepsCents(t *testing.T) {
	totals, err := Compute([]Line{{Cantidad: d("2"), PrecioUnitario: d("10.25")}}, d("0.19"), "USD")
	require.NoError(t, err)
	assert.Equal(t, "20.5", totals.Subtotal.String())
	assert.Equal(t, "3.9", totals.IVA.String())
	assert.Equal(t, "24.4", totals.Total.String())
}

func TestCompute_EmptyIsZero(t *testing.T) {
	totals, err := Compute(nil, d("0.19"), "CLP")
	require.NoError(t, err)
	assert.True(t, totals.Total.IsZero())
}

func TestCompute_RejectsNegatives(t *testing.T) {
	_, err := Compute([]Line{
		{Cantidad: d("1"), PrecioUnitario: d("10")},
		{Cantidad: d("-1"), PrecioUnitario: d("-5")},
	}, d("0.19"), "CLP")
	ve, ok := serrors.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "lineas[1].cantidad")
	assert.Contains(t, ve.Fields, "lineas[1].precio_unitario")
	assert.NotContains(t, ve.Fields, "lineas[0].cantidad")
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "$1.190", Format(d("1190"), "CLP"))
	assert.Equal(t, "$12.50", Format(d("12.5"), "usd"))
	assert.Equal(t, "1.00 XXX1", Format(d("1"), "XXX1"))
}

func TestFractionAndSum(t *testing.T) {
	assert.Equal(t, int32(0), Fraction("CLP"))
	assert.Equal(t, int32(2), Fraction("USD"))
	assert.Equal(t, "6", Sum(d("1"), d("2"), d("3")).String())
}
