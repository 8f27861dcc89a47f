package commands

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/granempresa/erp-portal/modules/core"
	"github.com/granempresa/erp-portal/modules/ventas"
	ventasservices "github.com/granempresa/erp-portal/modules/ventas/services"
	"github.com/granempresa/erp-portal/pkg/backend"
	"github.com/granempresa/erp-portal/pkg/itf"
	"github.com/granempresa/erp-portal/pkg/session"
)

func TestCheckBackends(t *testing.T) {
	up := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(up.Close)
	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(down.Close)

	registry := backend.NewRegistry(
		backend.MustNew(backend.Options{Name: backend.Compras, BaseURL: up.URL, Timeout: time.Second}),
		backend.MustNew(backend.Options{Name: backend.Ventas, BaseURL: down.URL, Timeout: time.Second}),
	)

	var out bytes.Buffer
	err := CheckBackends(context.Background(), registry, 2*time.Second, &out)
	require.ErrorIs(t, err, ErrBackendsDown)
	assert.Contains(t, out.String(), "BACKEND")
	assert.Regexp(t, backend.Compras+`\s+\S+\s+ok`, out.String())
	assert.Regexp(t, backend.Ventas+`\s+\S+\s+down`, out.String())

	healthy := backend.NewRegistry(backend.MustNew(backend.Options{Name: backend.Compras, BaseURL: up.URL, Timeout: time.Second}))
	require.NoError(t, CheckBackends(context.Background(), healthy, 0, &bytes.Buffer{}))
}

func TestCheckPermission(t *testing.T) {
	env := itf.NewTestContext().Build(t)
	ctx := context.Background()

	var out bytes.Buffer
	allowed, err := CheckPermission(ctx, env.Authz, "compras", "compras.ordenes", "approve", &out)
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, "compras compras.ordenes approve: allow\n", out.String())

	allowed, err = CheckPermission(ctx, env.Authz, "ventas", "compras.ordenes", "create", &bytes.Buffer{})
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestPrintNavigation(t *testing.T) {
	env := itf.NewTestContext().
		WithModules(
			core.NewModule(&core.ModuleOptions{SessionStore: session.NewMemoryStore()}),
			ventas.NewModule(&ventas.ModuleOptions{
				Pricing: &ventasservices.Pricing{IVA: decimal.RequireFromString("0.19"), Currency: "CLP"},
			}),
		).
		Build(t)
	env.App.RegisterNavItems(core.NavItems...)
	env.App.RegisterNavItems(ventas.NavItems...)

	var out bytes.Buffer
	require.NoError(t, PrintNavigation(context.Background(), env.App, "ventas", "es", &out))
	assert.Contains(t, out.String(), "  Listado de ventas (/ventas)\n")

	out.Reset()
	require.NoError(t, PrintNavigation(context.Background(), env.App, "bodega", "es", &out))
	assert.NotContains(t, out.String(), "Listado de ventas")
}

func TestCollectTrUsagesFromGoFile(t *testing.T) {
	src := `package demo

import (
	"context"

	"example.com/intl"
	"example.com/serrors"
	"example.com/types"
)

var ErrX = serrors.NewError("X", "x failed", "Errors.X")

var Link = types.NavigationItem{Name: "NavigationLinks.Demo", Href: "/demo"}

func msg(ctx context.Context, key string) string {
	_ = intl.T(ctx, key, "", nil)
	return intl.T(ctx, "Demo.Title", "Demo", nil)
}
`
	dir := t.TempDir()
	path := filepath.Join(dir, "demo.go")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o600))

	usages, err := collectTrUsagesFromGoFile(path, "demo.go")
	require.NoError(t, err)
	keys := make([]string, 0, len(usages))
	for _, u := range usages {
		keys = append(keys, u.Key)
	}
	assert.ElementsMatch(t, []string{"Errors.X", "NavigationLinks.Demo", "Demo.Title"}, keys)
}
