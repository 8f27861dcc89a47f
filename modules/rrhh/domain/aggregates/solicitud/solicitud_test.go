package solicitud

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/granempresa/erp-portal/pkg/serrors"
)

func TestSolicitud_Resolve(t *testing.T) {
	pending := Solicitud{ID: "9", Estado: "pendiente"}

	approved, err := pending.Resolve("aprobada", "")
	require.NoError(t, err)
	assert.Equal(t, EstadoAprobada, approved.Estado)

	_, err = pending.Resolve(EstadoRechazada, "  ")
	_, isValidation := serrors.AsValidation(err)
	assert.True(t, isValidation)

	rejected, err := pending.Resolve(EstadoRechazada, "sin reemplazo")
	require.NoError(t, err)
	assert.Equal(t, "sin reemplazo", rejected.Comentario)

	_, err = approved.Resolve(EstadoRechazada, "tarde")
	assert.ErrorIs(t, err, serrors.InvalidState(EstadoAprobada, EstadoRechazada))

	_, err = pending.Resolve("ARCHIVADA", "")
	assert.Error(t, err)
}
