package orden

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/granempresa/erp-portal/pkg/serrors"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to string
		ok       bool
	}{
		{EstadoPendiente, EstadoAprobada, true},
		{EstadoPendiente, EstadoRechazada, true},
		{EstadoPendiente, EstadoCancelada, true},
		{EstadoPendiente, EstadoEnviada, false},
		{EstadoAprobada, EstadoEnviada, true},
		{EstadoAprobada, EstadoCancelada, true},
		{EstadoAprobada, EstadoRecibida, false},
		{EstadoEnviada, EstadoRecibida, true},
		{EstadoEnviada, EstadoCancelada, false},
		{EstadoRecibida, EstadoPendiente, false},
		{EstadoRechazada, EstadoAprobada, false},
		{"pendiente", "aprobada", true},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.ok, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
	assert.Empty(t, Next(EstadoRecibida))
}

func TestOrdenCompra_TransitionTo(t *testing.T) {
	o := OrdenCompra{ID: "5", Estado: EstadoAprobada}
	next, err := o.TransitionTo(" enviada ")
	require.NoError(t, err)
	assert.Equal(t, EstadoEnviada, next.Estado)
	assert.Equal(t, EstadoAprobada, o.Estado)

	_, err = next.TransitionTo(EstadoPendiente)
	assert.ErrorIs(t, err, serrors.InvalidState(EstadoEnviada, EstadoPendiente))
}

func TestOrdenCompra_WithTotals(t *testing.T) {
	o := OrdenCompra{Lineas: []Linea{
		{Cantidad: decimal.NewFromInt(2), PrecioUnitario: decimal.NewFromInt(500)},
	}}
	o, err := o.WithTotals(decimal.RequireFromString("0.19"), "clp")
	require.NoError(t, err)
	assert.Equal(t, "1000", o.Subtotal.String())
	assert.Equal(t, "190", o.IVA.String())
	assert.Equal(t, "1190", o.Total.String())
	assert.Equal(t, "CLP", o.Moneda)
}
