package controllers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/granempresa/erp-portal/modules/core/domain/aggregates/auth"
	"github.com/granempresa/erp-portal/modules/logging"
	"github.com/granempresa/erp-portal/modules/logging/domain/entities/actionlog"
	"github.com/granempresa/erp-portal/modules/logging/domain/entities/authenticationlog"
	"github.com/granempresa/erp-portal/pkg/eventbus"
	"github.com/granempresa/erp-portal/pkg/itf"
	"github.com/granempresa/erp-portal/pkg/listing"
	"github.com/granempresa/erp-portal/pkg/session"
)

type ordenAprobada struct {
	eventbus.Metadata
}

func (e *ordenAprobada) EventType() string { return "compras.orden.approved" }

func setup(t *testing.T) *itf.TestEnvironment {
	t.Helper()
	env := itf.NewTestContext().
		WithModules(logging.NewModule(&logging.ModuleOptions{MemorySize: 50})).
		WithUser(itf.Admin).
		Build(t)

	bus := env.App.EventPublisher()
	bus.Publish(&ordenAprobada{Metadata: eventbus.NewMetadata("2", "compras", "approve", "OC-1")})
	bus.Publish(&ordenAprobada{Metadata: eventbus.NewMetadata("2", "compras", "approve", "OC-2")})
	bus.Publish(auth.NewLoggedInEvent(&session.Session{
		User: session.User{ID: "4", Email: "vendedor@granempresa.cl"},
		IP:   "10.0.0.9",
	}))
	return env
}

func TestLogsController_Acciones(t *testing.T) {
	env := setup(t)

	rec := env.Do(t, http.MethodGet, "/api/logging/acciones", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	page := itf.Decode[listing.Page[actionlog.ActionLog]](t, rec)
	require.Equal(t, 3, page.Total)
	assert.Equal(t, "core.session.login", page.Data[0].EventType)

	rec = env.Do(t, http.MethodGet, "/api/logging/acciones?module=compras&limit=1&page=2", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	page = itf.Decode[listing.Page[actionlog.ActionLog]](t, rec)
	assert.Equal(t, 2, page.Total)
	assert.Equal(t, 2, page.Pages)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "OC-1", page.Data[0].EntityID)

	rec = env.Do(t, http.MethodGet, "/api/logging/acciones?desde=01-05-2024", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogsController_Accesos(t *testing.T) {
	env := setup(t)

	rec := env.Do(t, http.MethodGet, "/api/logging/accesos?ip=10.0.0.9", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	page := itf.Decode[listing.Page[authenticationlog.AuthenticationLog]](t, rec)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "vendedor@granempresa.cl", page.Data[0].Email)
}

func TestLogsController_AdminOnly(t *testing.T) {
	env := setup(t)

	for _, u := range []session.User{itf.Gerente, itf.Vendedor} {
		rec := env.As(u).Do(t, http.MethodGet, "/api/logging/acciones", nil)
		assert.Equal(t, http.StatusForbidden, rec.Code, u.Email)
	}
	rec := env.Anonymous().Do(t, http.MethodGet, "/api/logging/accesos", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
