package editbuffer

import (
	"encoding/json"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/granempresa/erp-portal/pkg/serrors"
)

type guia struct {
	ID            int    `json:"id"`
	Transportista string `json:"transportista"`
	Patente       string `json:"patente"`
	Estado        string `json:"estado"`
	Observaciones string `json:"observaciones,omitempty"`
}

var guiaFields = NewWhitelist("transportista", "patente", "estado", "observaciones")

func TestChangesValidate(t *testing.T) {
	ok := Changes{
		"1": json.RawMessage(`{"patente": "AB-CD-12"}`),
		"2": json.RawMessage(`{"estado": "EN RUTA", "observaciones": null}`),
	}
	require.NoError(t, ok.Validate(guiaFields))

	bad := Changes{
		"1": json.RawMessage(`{"id": 9, "patente": "X"}`),
		"2": json.RawMessage(`[1]`),
		"3": json.RawMessage(`{}`),
	}
	ve, isValidation := serrors.AsValidation(bad.Validate(guiaFields))
	require.True(t, isValidation)
	assert.Contains(t, ve.Fields, "1.id")
	assert.NotContains(t, ve.Fields, "1.patente")
	assert.Contains(t, ve.Fields, "2")
	assert.Contains(t, ve.Fields, "3")
}

func TestApplyTo(t *testing.T) {
	row := guia{ID: 1, Transportista: "Starken", Patente: "AA-11", Estado: "PENDIENTE", Observaciones: "frágil"}
	got, err := ApplyTo(row, []byte(`{"estado": "ENTREGADA", "observaciones": null}`))
	require.NoError(t, err)
	assert.Equal(t, guia{ID: 1, Transportista: "Starken", Patente: "AA-11", Estado: "ENTREGADA"}, got)
	assert.Equal(t, "PENDIENTE", row.Estado, "original row is untouched")
}

func TestApplyRejectsInvalidPatch(t *testing.T) {
	_, err := Apply([]byte(`{"a": 1}`), []byte(`{`))
	require.Error(t, err)
}

func TestDiff(t *testing.T) {
	before := guia{ID: 1, Estado: "PENDIENTE", Patente: "AA-11"}
	after := guia{ID: 1, Estado: "EN RUTA", Patente: "AA-11"}
	patch, err := Diff(before, after)
	require.NoError(t, err)
	require.Len(t, patch, 1)
	assert.Equal(t, "/estado", patch[0].Path)
	assert.Equal(t, "EN RUTA", patch[0].Value)

	raw, err := DiffJSON([]byte(`{"a": 1}`), []byte(`{"a": 1}`))
	require.NoError(t, err)
	assert.Empty(t, raw)
}

func TestIDsSorted(t *testing.T) {
	c := Changes{"b": nil, "a": nil, "c": nil}
	assert.Equal(t, []string{"a", "b", "c"}, c.IDs())
}

func TestPlan(t *testing.T) {
	rows := []guia{
		{ID: 3, Transportista: "Chilexpress", Estado: "PENDIENTE"},
		{ID: 1, Transportista: "Starken", Patente: "AA-BB-11", Estado: "PENDIENTE"},
		{ID: 2, Transportista: "Starken", Estado: "EN RUTA"},
	}
	key := func(g guia) string { return strconv.Itoa(g.ID) }

	edits, err := Plan(rows, key, Changes{
		"1": json.RawMessage(`{"estado": "EN RUTA"}`),
		"3": json.RawMessage(`{"patente": "CC-DD-22"}`),
	}, guiaFields)
	require.NoError(t, err)
	require.Len(t, edits, 2)
	assert.Equal(t, "3", edits[0].ID, "edits follow the row order")
	assert.Equal(t, "CC-DD-22", edits[0].After.Patente)
	assert.Equal(t, "Chilexpress", edits[0].After.Transportista)
	assert.Equal(t, "EN RUTA", edits[1].After.Estado)
	assert.Equal(t, "AA-BB-11", edits[1].After.Patente)
	assert.JSONEq(t, `[{"op":"replace","path":"/estado","value":"EN RUTA"}]`, string(edits[1].DiffOf()))

	_, err = Plan(rows, key, Changes{"9": json.RawMessage(`{"estado": "X"}`)}, guiaFields)
	ve, ok := serrors.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "9")

	_, err = Plan(rows, key, Changes{"1": json.RawMessage(`{"id": 7}`)}, guiaFields)
	_, ok = serrors.AsValidation(err)
	assert.True(t, ok)
}
