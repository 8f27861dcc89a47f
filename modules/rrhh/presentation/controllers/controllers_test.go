package controllers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/granempresa/erp-portal/modules/rrhh"
	"github.com/granempresa/erp-portal/modules/rrhh/domain/aggregates/solicitud"
	"github.com/granempresa/erp-portal/modules/rrhh/services"
	"github.com/granempresa/erp-portal/pkg/backend"
	"github.com/granempresa/erp-portal/pkg/batch"
	"github.com/granempresa/erp-portal/pkg/export"
	"github.com/granempresa/erp-portal/pkg/httpapi"
	"github.com/granempresa/erp-portal/pkg/itf"
	"github.com/granempresa/erp-portal/pkg/listing"
	"github.com/granempresa/erp-portal/pkg/mailer"
)

func setup(t *testing.T, rec *mailer.Recorder) *itf.TestEnvironment {
	t.Helper()
	env := itf.NewTestContext().
		WithModules(rrhh.NewModule(&rrhh.ModuleOptions{Mailer: rec, FanOutLimit: 2})).
		WithUser(itf.Analista).
		Build(t)

	rrhhAPI := env.Backend(backend.RRHH)
	rrhhAPI.HandleFunc("/empleados", func(w http.ResponseWriter, r *http.Request) {
		itf.JSON(w, http.StatusOK, []map[string]any{
			{"id": 1, "nombre": "Ana", "apellido": "Rojas", "email": "ana@granempresa.cl", "departamento": "Bodega", "activo": true},
			{"id": 2, "nombre": "Bruno", "apellido": "Díaz", "email": "bruno@granempresa.cl", "departamento": "Ventas", "activo": true},
		})
	}).Methods(http.MethodGet)
	rrhhAPI.HandleFunc("/empleados/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/empleados/1" {
			itf.JSON(w, http.StatusNotFound, map[string]string{"message": "no existe"})
			return
		}
		itf.JSON(w, http.StatusOK, map[string]any{"id": 1, "nombre": "Ana", "email": "ana@granempresa.cl"})
	}).Methods(http.MethodGet)
	rrhhAPI.HandleFunc("/solicitudes", func(w http.ResponseWriter, r *http.Request) {
		itf.JSON(w, http.StatusOK, []map[string]any{
			{"id": 10, "empleado_id": 1, "tipo": "Vacaciones", "estado": "PENDIENTE", "fecha_inicio": "2024-03-01"},
			{"id": 11, "empleado_id": 2, "tipo": "Permiso", "estado": "APROBADA", "fecha_inicio": "2024-02-01"},
		})
	}).Methods(http.MethodGet)
	return env
}

func TestEmpleadoController_List(t *testing.T) {
	env := setup(t, &mailer.Recorder{})

	rec := env.Do(t, http.MethodGet, "/api/rrhh/empleados?departamento=ventas", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	page := itf.Decode[listing.Page[map[string]any]](t, rec)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "Bruno", page.Data[0]["nombre"])

	rec = env.Do(t, http.MethodGet, "/api/rrhh/empleados?sort=sueldo", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.Do(t, http.MethodGet, "/api/rrhh/empleados/export.xlsx", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, export.XLSXContentType, rec.Header().Get("Content-Type"))

	rec = env.Do(t, http.MethodGet, "/api/rrhh/empleados/7", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEmpleadoController_Authz(t *testing.T) {
	env := setup(t, &mailer.Recorder{})

	env.As(itf.Vendedor)
	assert.Equal(t, http.StatusForbidden, env.Do(t, http.MethodGet, "/api/rrhh/empleados", nil).Code)

	env.Anonymous()
	assert.Equal(t, http.StatusUnauthorized, env.Do(t, http.MethodGet, "/api/rrhh/empleados", nil).Code)
}

func TestSolicitudController_Resolve(t *testing.T) {
	mails := &mailer.Recorder{}
	env := setup(t, mails)

	var patched solicitud.Resolution
	env.Backend(backend.RRHH).HandleFunc("/solicitudes/{id}", func(w http.ResponseWriter, r *http.Request) {
		patched = itf.ReadJSON[solicitud.Resolution](r)
		w.WriteHeader(http.StatusNoContent)
	}).Methods(http.MethodPatch)

	rec := env.Do(t, http.MethodPost, "/api/rrhh/solicitudes/10/aprobar", map[string]bool{"notificar": true})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	res := itf.Decode[services.Resultado](t, rec)
	assert.Equal(t, solicitud.EstadoAprobada, res.Solicitud.Estado)
	assert.True(t, res.Notificado)
	assert.Equal(t, "APROBADA", patched.Estado)
	assert.Len(t, mails.Emails(), 1)
	assert.Equal(t, []string{solicitud.ResueltaEventType}, env.Events.Types())

	rec = env.Do(t, http.MethodPost, "/api/rrhh/solicitudes/11/rechazar", map[string]string{"comentario": "duplicada"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = env.Do(t, http.MethodPost, "/api/rrhh/solicitudes/10/rechazar", map[string]string{})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	env2 := itf.Decode[httpapi.ErrorEnvelope](t, rec)
	assert.Contains(t, env2.Fields, "comentario")
}

func TestEmailController_Send(t *testing.T) {
	mails := &mailer.Recorder{}
	env := setup(t, mails)

	rec := env.Do(t, http.MethodPost, "/api/rrhh/emails", services.EmailDTO{
		EmpleadoIDs: []string{"1", "5"},
		Asunto:      "Capacitación",
		Cuerpo:      "Lunes 9:00",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	summary := itf.Decode[batch.Summary[services.Destinatario]](t, rec)
	assert.Equal(t, 1, summary.Succeeded)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, "5", summary.Results[1].Key)
	assert.Len(t, mails.Emails(), 1)

	rec = env.Do(t, http.MethodPost, "/api/rrhh/emails", services.EmailDTO{Asunto: "x"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
