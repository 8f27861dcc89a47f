package server_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/granempresa/erp-portal/internal/server"
	"github.com/granempresa/erp-portal/modules"
	"github.com/granempresa/erp-portal/modules/core"
	"github.com/granempresa/erp-portal/modules/logging"
	"github.com/granempresa/erp-portal/pkg/configuration"
	"github.com/granempresa/erp-portal/pkg/httpapi"
	"github.com/granempresa/erp-portal/pkg/itf"
	"github.com/granempresa/erp-portal/pkg/routing"
	"github.com/granempresa/erp-portal/pkg/session"
)

func productionServer(t *testing.T) *mux.Router {
	t.Helper()
	t.Setenv("ROUTING_ALLOWLIST_PATH", routing.DefaultAllowlistPath())

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	store := session.NewMemoryStore()

	env := itf.NewTestContext().
		WithModules(modules.BuiltIn(
			&core.ModuleOptions{
				SessionStore:  store,
				SessionTTL:    time.Hour,
				CookieKey:     "sid",
				HealthTimeout: time.Second,
			},
			&logging.ModuleOptions{},
		)...).
		Build(t)

	conf := &configuration.Configuration{
		GoAppEnvironment: configuration.Production,
		OpsGuardEnabled:  true,
		OpsGuardToken:    "secret",
		RealIPHeader:     "X-Real-IP",
		RequestIDHeader:  "X-Request-ID",
		CorsOrigins:      "http://localhost:5173",
	}
	conf.Session.SidCookieKey = "sid"

	srv, err := server.Default(&server.DefaultOptions{
		Logger:        logger,
		Configuration: conf,
		Application:   env.App,
		SessionStore:  store,
	})
	require.NoError(t, err)
	return srv.Router()
}

func routePaths(t *testing.T, router *mux.Router) []string {
	t.Helper()
	var paths []string
	err := router.Walk(func(route *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		if tmpl, err := route.GetPathTemplate(); err == nil && strings.TrimSpace(tmpl) != "" {
			paths = append(paths, tmpl)
		}
		return nil
	})
	require.NoError(t, err)
	sort.Strings(paths)
	return paths
}

func serve(router *mux.Router, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestDefault_RoutesStayInsideAllowlist(t *testing.T) {
	router := productionServer(t)
	classifier := routing.NewClassifier(routing.LoadOrDefault(routing.DefaultAllowlistPath(), "server"))

	paths := routePaths(t, router)
	require.NotEmpty(t, paths)
	for _, p := range paths {
		assert.True(t, classifier.Route(p).Listed(), "route %s is outside the allowlist", p)
	}
	assert.Contains(t, paths, "/api/auth/login")
	assert.Contains(t, paths, "/health")
}

func TestDefault_OpsGuard(t *testing.T) {
	router := productionServer(t)

	t.Run("anonymous health is liveness only", func(t *testing.T) {
		rr := serve(router, httptest.NewRequest(http.MethodGet, "/health", nil))
		require.Equal(t, http.StatusOK, rr.Code)
		var body map[string]any
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.Equal(t, "ok", body["status"])
		assert.NotContains(t, body, "backends")
	})

	t.Run("anonymous metrics are hidden", func(t *testing.T) {
		rr := serve(router, httptest.NewRequest(http.MethodGet, "/debug/prometheus", nil))
		require.Equal(t, http.StatusNotFound, rr.Code)
		assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	})

	t.Run("token reaches the backend report", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set("X-Ops-Token", "secret")
		rr := serve(router, req)
		require.NotEqual(t, http.StatusNotFound, rr.Code)
		var body map[string]any
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.Contains(t, body, "backends")
	})
}

func TestDefault_ErrorContracts(t *testing.T) {
	router := productionServer(t)

	t.Run("unknown api path", func(t *testing.T) {
		rr := serve(router, httptest.NewRequest(http.MethodGet, "/api/__nonexistent__", nil))
		require.Equal(t, http.StatusNotFound, rr.Code)
		assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

		var payload httpapi.ErrorEnvelope
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&payload))
		assert.Equal(t, httpapi.CodeNotFound, payload.Code)
		assert.Equal(t, "/api/__nonexistent__", payload.Meta["path"])
	})

	t.Run("wrong method", func(t *testing.T) {
		rr := serve(router, httptest.NewRequest(http.MethodDelete, "/api/navigation", nil))
		require.Equal(t, http.StatusMethodNotAllowed, rr.Code)

		var payload httpapi.ErrorEnvelope
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&payload))
		assert.Equal(t, httpapi.CodeMethodNotAllowed, payload.Code)
		assert.Equal(t, http.MethodDelete, payload.Meta["method"])
	})
}
