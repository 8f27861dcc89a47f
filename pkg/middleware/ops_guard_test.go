package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/granempresa/erp-portal/pkg/configuration"
	"github.com/granempresa/erp-portal/pkg/httpapi"
)

func opsConf() *configuration.Configuration {
	return &configuration.Configuration{
		GoAppEnvironment: configuration.Production,
		OpsGuardEnabled:  true,
		OpsGuardToken:    "secret",
		OpsGuardCIDRs:    "10.0.0.0/8, 192.0.2.7",
		RealIPHeader:     "X-Real-IP",
	}
}

func TestOpsGuard(t *testing.T) {
	reached := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	cases := []struct {
		name     string
		method   string
		path     string
		remote   string
		headers  map[string]string
		wantCode int
	}{
		{"ops token header", http.MethodGet, "/health", "203.0.113.1:1", map[string]string{"X-Ops-Token": "secret"}, http.StatusTeapot},
		{"bearer token", http.MethodGet, "/debug/prometheus", "203.0.113.1:1", map[string]string{"Authorization": "Bearer secret"}, http.StatusTeapot},
		{"wrong token", http.MethodGet, "/debug/prometheus", "203.0.113.1:1", map[string]string{"X-Ops-Token": "nope"}, http.StatusNotFound},
		{"cidr via real ip header", http.MethodGet, "/debug/prometheus", "203.0.113.1:1", map[string]string{"X-Real-IP": "10.1.2.3"}, http.StatusTeapot},
		{"bare address entry", http.MethodGet, "/debug/prometheus", "192.0.2.7:5555", nil, http.StatusTeapot},
		{"forwarded list uses first hop", http.MethodGet, "/debug/prometheus", "203.0.113.1:1", map[string]string{"X-Real-IP": "198.51.100.4, 10.0.0.1"}, http.StatusNotFound},
		{"anonymous metrics", http.MethodGet, "/debug/prometheus", "203.0.113.1:1", nil, http.StatusNotFound},
		{"anonymous health", http.MethodGet, "/health", "203.0.113.1:1", nil, http.StatusOK},
		{"anonymous health post", http.MethodPost, "/health", "203.0.113.1:1", nil, http.StatusNotFound},
		{"api untouched", http.MethodGet, "/api/ventas", "203.0.113.1:1", nil, http.StatusTeapot},
		{"spa untouched", http.MethodGet, "/healthz", "203.0.113.1:1", nil, http.StatusTeapot},
	}
	h := OpsGuard(opsConf())(reached)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			req.RemoteAddr = tc.remote
			for k, v := range tc.headers {
				req.Header.Set(k, v)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tc.wantCode, rec.Code)
		})
	}
}

func TestOpsGuard_AnonymousHealthSkipsBackends(t *testing.T) {
	called := false
	h := OpsGuard(opsConf())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, called)
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestOpsGuard_HiddenRouteUsesEnvelope(t *testing.T) {
	h := OpsGuard(opsConf())(http.NotFoundHandler())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/debug/prometheus", nil))

	require.Equal(t, http.StatusNotFound, rec.Code)
	var env httpapi.ErrorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, httpapi.CodeNotFound, env.Code)
	assert.Equal(t, "/debug/prometheus", env.Meta["path"])
}

func TestOpsGuard_OffOutsideProduction(t *testing.T) {
	conf := opsConf()
	conf.GoAppEnvironment = "development"
	h := OpsGuard(conf)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/debug/prometheus", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)

	conf = opsConf()
	conf.OpsGuardEnabled = false
	h = OpsGuard(conf)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/debug/prometheus", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestRealIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "[2001:db8::1]:443"
	assert.Equal(t, "2001:db8::1", realIP(req, "X-Real-IP"))

	req.Header.Set("X-Real-IP", " 198.51.100.4 , 10.0.0.1")
	assert.Equal(t, "198.51.100.4", realIP(req, "X-Real-IP"))
	assert.Equal(t, "2001:db8::1", realIP(req, ""))
}
