package controllers_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/granempresa/erp-portal/modules/core"
	"github.com/granempresa/erp-portal/modules/core/domain/aggregates/auth"
	"github.com/granempresa/erp-portal/modules/core/presentation/controllers"
	"github.com/granempresa/erp-portal/pkg/backend"
	"github.com/granempresa/erp-portal/pkg/itf"
	"github.com/granempresa/erp-portal/pkg/session"
	"github.com/granempresa/erp-portal/pkg/spotlight"
	"github.com/granempresa/erp-portal/pkg/types"
)

var testMenu = []types.NavigationItem{
	core.InicioLink,
	{
		Name: "NavigationLinks.Ventas",
		Children: []types.NavigationItem{
			{Name: "NavigationLinks.ListadoVentas", Href: "/ventas", AuthzObject: "ventas.ventas"},
			{Name: "NavigationLinks.NuevaVenta", Href: "/ventas/nueva", AuthzObject: "ventas.ventas", AuthzAction: "create"},
		},
	},
}

func setup(t *testing.T, attempts int) (*itf.TestEnvironment, *session.MemoryStore) {
	t.Helper()
	store := session.NewMemoryStore()
	env := itf.NewTestContext().
		WithModules(core.NewModule(&core.ModuleOptions{
			SessionStore:  store,
			SessionTTL:    time.Hour,
			CookieKey:     "sid",
			LoginAttempts: attempts,
			HealthTimeout: 2 * time.Second,
		})).
		Build(t)
	env.App.RegisterNavItems(testMenu...)

	env.Backend(backend.RRHH).HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		creds := itf.ReadJSON[auth.Credentials](r)
		if creds.Password != "secreta" {
			itf.JSON(w, http.StatusUnauthorized, map[string]string{"message": "credenciales inválidas"})
			return
		}
		itf.JSON(w, http.StatusOK, map[string]any{
			"token":   "jwt-123",
			"usuario": map[string]any{"id": 4, "nombre": "Vale", "email": creds.Email, "rol": "ventas"},
		})
	}).Methods(http.MethodPost)
	return env, store
}

func TestAuthController_Login(t *testing.T) {
	env, store := setup(t, 0)

	rec := env.Do(t, http.MethodPost, "/api/auth/login", auth.Credentials{Email: "vale@granempresa.cl", Password: "secreta"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	profile := itf.Decode[controllers.Profile](t, rec)
	assert.Equal(t, "4", profile.User.ID)
	assert.Equal(t, []string{"ventas"}, profile.User.Roles)
	require.Len(t, profile.Navigation, 2)
	assert.Equal(t, "Inicio", profile.Navigation[0].Name)
	assert.Len(t, profile.Navigation[1].Children, 2)
	assert.True(t, profile.ViewState.Capability("ventas.ventas", "create"))

	var sid string
	for _, c := range rec.Result().Cookies() {
		if c.Name == "sid" {
			sid = c.Value
			assert.True(t, c.HttpOnly)
		}
	}
	require.NotEmpty(t, sid)
	sess, err := store.Get(t.Context(), sid)
	require.NoError(t, err)
	assert.Equal(t, "jwt-123", sess.Token)
	assert.Equal(t, []string{"core.session.login"}, env.Events.Types())
}

func TestAuthController_LoginRejected(t *testing.T) {
	env, _ := setup(t, 0)

	rec := env.Do(t, http.MethodPost, "/api/auth/login", auth.Credentials{Email: "vale@granempresa.cl", Password: "otra"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Correo o contraseña incorrectos")

	rec = env.Do(t, http.MethodPost, "/api/auth/login", auth.Credentials{Email: "", Password: "otra"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, env.Events.Types())
}

func TestAuthController_LoginRateLimited(t *testing.T) {
	env, _ := setup(t, 2)
	body := auth.Credentials{Email: "vale@granempresa.cl", Password: "otra"}

	assert.Equal(t, http.StatusUnauthorized, env.Do(t, http.MethodPost, "/api/auth/login", body).Code)
	assert.Equal(t, http.StatusUnauthorized, env.Do(t, http.MethodPost, "/api/auth/login", body).Code)
	assert.Equal(t, http.StatusTooManyRequests, env.Do(t, http.MethodPost, "/api/auth/login", body).Code)
}

func TestAuthController_MeAndLogout(t *testing.T) {
	env, _ := setup(t, 0)

	assert.Equal(t, http.StatusUnauthorized, env.Do(t, http.MethodGet, "/api/auth/me", nil).Code)

	env.As(itf.Gerente)
	rec := env.Do(t, http.MethodGet, "/api/auth/me", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	profile := itf.Decode[controllers.Profile](t, rec)
	assert.Equal(t, itf.Gerente, profile.User)
	require.Len(t, profile.Navigation, 2)
	assert.Equal(t, "/ventas", profile.Navigation[1].Href)

	rec = env.Do(t, http.MethodPost, "/api/auth/logout", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []string{"core.session.logout"}, env.Events.Types())
}

func TestNavigationController(t *testing.T) {
	env, _ := setup(t, 0)
	assert.Equal(t, http.StatusUnauthorized, env.Do(t, http.MethodGet, "/api/navigation", nil).Code)

	env.As(itf.Analista)
	rec := env.Do(t, http.MethodGet, "/api/navigation?lang=en", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	menu := itf.Decode[[]types.NavigationItem](t, rec)
	require.Len(t, menu, 1)
	assert.Equal(t, "Home", menu[0].Name)

	rec = env.Do(t, http.MethodGet, "/api/navigation/search?q=nueva", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, itf.Decode[[]spotlight.QuickLink](t, rec))

	env.As(itf.Vendedor)
	rec = env.Do(t, http.MethodGet, "/api/navigation/search?q=nueva", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	links := itf.Decode[[]spotlight.QuickLink](t, rec)
	require.Len(t, links, 1)
	assert.Equal(t, "/ventas/nueva", links[0].Href)

	rec = env.Do(t, http.MethodGet, "/api/navigation/viewstate", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ventas.ventas:create":true`)
}

func TestHealthController(t *testing.T) {
	env, _ := setup(t, 0)

	rec := env.Do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	report := itf.Decode[controllers.HealthReport](t, rec)
	assert.Equal(t, "ok", report.Status)
	assert.Len(t, report.Backends, 5)

	env.Backend(backend.Compras).HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	rec = env.Do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	report = itf.Decode[controllers.HealthReport](t, rec)
	assert.Equal(t, "degraded", report.Status)
	for _, b := range report.Backends {
		assert.Equal(t, b.Name != backend.Compras, b.OK, b.Name)
	}
}
